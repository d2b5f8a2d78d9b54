package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/storefront-admin/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	Service *Service
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.Service.defaultLimit, h.Service.maxLimit)
	result, err := h.Service.ListProducts(r.Context(), page, limit)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: result.Total},
	})
}

// ProductDetail handles GET /api/v1/products/{slug}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	item, err := h.Service.GetProduct(r.Context(), slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// Bundles handles GET /api/v1/bundles.
func (h *Handler) Bundles(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.Service.defaultLimit, h.Service.maxLimit)
	result, err := h.Service.ListBundles(r.Context(), page, limit)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: result.Total},
	})
}

// BundleDetail handles GET /api/v1/bundles/{slug}.
func (h *Handler) BundleDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	item, err := h.Service.GetBundle(r.Context(), slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "bundle not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}
