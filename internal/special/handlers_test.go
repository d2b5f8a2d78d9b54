package special

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type listResponse struct {
	Data []specialResponse `json:"data"`
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestHandlerCreateAndList(t *testing.T) {
	svc := newTestService(&fakeStore{})
	handler := &Handler{Svc: svc}

	body, err := json.Marshal(validInput())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/specials", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/admin/specials", nil)
	listRec := httptest.NewRecorder()
	handler.List(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "Winter sale", resp.Data[0].Title)
	require.Equal(t, "active", resp.Data[0].Status)
}

func TestHandlerListDerivedStatusFilter(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	handler := &Handler{Svc: svc}
	ctx := context.Background()

	active := validInput()
	active.Title = "running now"
	_, err := svc.Create(ctx, active)
	require.NoError(t, err)

	upcoming := validInput()
	upcoming.Title = "starts later"
	upcoming.StartsAt = fixedNow().Add(time.Hour)
	upcoming.EndsAt = fixedNow().Add(2 * time.Hour)
	_, err = svc.Create(ctx, upcoming)
	require.NoError(t, err)

	// Poison the stored label: the list must derive status from the
	// window, not trust the cache.
	store.records[1].Status = "active"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/specials?status=active", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "running now", resp.Data[0].Title)
}

func TestHandlerListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestService(&fakeStore{})
	handler := &Handler{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/specials?status=actve", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestHandlerValidationFailure(t *testing.T) {
	handler := &Handler{Svc: newTestService(&fakeStore{})}

	bad := validInput()
	bad.DiscountValue = -1
	body, err := json.Marshal(bad)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/specials", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandlerGetNotFound(t *testing.T) {
	handler := &Handler{Svc: newTestService(&fakeStore{})}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/specials/9b8ffa8e-7bf1-4fbb-9a9e-c54321abcdef", nil)
	req = withURLParam(req, "id", "9b8ffa8e-7bf1-4fbb-9a9e-c54321abcdef")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	handler := &Handler{Svc: svc}

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/specials/"+created.ID.String(), nil)
	req = withURLParam(req, "id", created.ID.String())
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, store.records)
}

func TestHandlerRecompute(t *testing.T) {
	handler := &Handler{Svc: newTestService(&fakeStore{recompute: 2})}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/specials/recompute", nil)
	rec := httptest.NewRecorder()
	handler.Recompute(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "\"changed\":2")
}
