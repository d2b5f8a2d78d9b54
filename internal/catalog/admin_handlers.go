package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/noah-isme/storefront-admin/internal/common"
)

// AdminHandler exposes administrative catalog CRUD endpoints.
type AdminHandler struct {
	Service *Service
}

// CreateProduct handles POST /api/v1/admin/products.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err.Error())
		return
	}
	row, err := h.Service.CreateProduct(r.Context(), in)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": row})
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err.Error())
		return
	}
	row, err := h.Service.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": row})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateBundle handles POST /api/v1/admin/bundles.
func (h *AdminHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var in BundleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err.Error())
		return
	}
	row, err := h.Service.CreateBundle(r.Context(), in)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": row})
}

// UpdateBundle handles PUT /api/v1/admin/bundles/{id}.
func (h *AdminHandler) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in BundleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err.Error())
		return
	}
	row, err := h.Service.UpdateBundle(r.Context(), id, in)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": row})
}

// DeleteBundle handles DELETE /api/v1/admin/bundles/{id}.
func (h *AdminHandler) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteBundle(r.Context(), id); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func writeAdminError(w http.ResponseWriter, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "item not found", nil)
		return
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		common.JSONError(w, http.StatusConflict, "DUPLICATE_SLUG", "slug already in use", nil)
		return
	}
	common.RespondError(w, err)
}
