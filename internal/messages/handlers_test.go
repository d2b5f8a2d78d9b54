package messages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows []Row
}

func (f *fakeStore) List(_ context.Context, unreadOnly bool, limit, offset int32) ([]Row, error) {
	var out []Row
	for _, r := range f.rows {
		if unreadOnly && r.Read {
			continue
		}
		out = append(out, r)
	}
	if int(offset) >= len(out) {
		return nil, nil
	}
	end := int(offset) + int(limit)
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeStore) Count(_ context.Context, unreadOnly bool) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if unreadOnly && r.Read {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id uuid.UUID) (Row, error) {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows[i].Read = true
			return f.rows[i], nil
		}
	}
	return Row{}, pgx.ErrNoRows
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListUnreadFilter(t *testing.T) {
	h := &Handler{Store: &fakeStore{rows: []Row{
		{ID: uuid.New(), Subject: "old", Read: true},
		{ID: uuid.New(), Subject: "new"},
	}}, DefaultLimit: 20, MaxLimit: 100}

	req := httptest.NewRequest(http.MethodGet, "/admin/messages?unread=true", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-Total-Count"))
}

func TestMarkRead(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{rows: []Row{{ID: id, Subject: "hello"}}}
	h := &Handler{Store: store, DefaultLimit: 20, MaxLimit: 100}

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/messages/"+id.String()+"/read", nil), "id", id.String())
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, store.rows[0].Read)
}

func TestDeleteMissing(t *testing.T) {
	h := &Handler{Store: &fakeStore{}, DefaultLimit: 20, MaxLimit: 100}

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/messages/x", nil), "id", uuid.NewString())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
