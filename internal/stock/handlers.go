package stock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/storefront-admin/internal/common"
)

// Handler exposes stock administration endpoints.
type Handler struct {
	Svc          *Service
	DefaultLimit int
	MaxLimit     int
}

type levelResponse struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Stock     int32  `json:"stock"`
}

// LowStock lists products at or below the configured threshold.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.DefaultLimit, h.MaxLimit)

	rows, total, err := h.Svc.LowStock(r.Context(), page, limit)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	out := make([]levelResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResponse(row))
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":      out,
		"threshold": h.Svc.Threshold,
		"pagination": map[string]any{
			"page":       page,
			"perPage":    limit,
			"totalItems": total,
		},
	})
}

type adjustRequest struct {
	Delta int32 `json:"delta"`
}

// Adjust applies a signed stock delta to a product.
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid product id", nil)
		return
	}
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", nil)
		return
	}
	if req.Delta == 0 {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "delta must be non-zero", nil)
		return
	}
	lvl, err := h.Svc.Adjust(r.Context(), id, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		case errors.Is(err, ErrInsufficientStock):
			common.JSONError(w, http.StatusConflict, "INSUFFICIENT_STOCK", "adjustment would drive stock negative", nil)
		default:
			common.RespondError(w, err)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(lvl)})
}

func toResponse(lvl Level) levelResponse {
	return levelResponse{
		ProductID: lvl.ProductID.String(),
		Title:     lvl.Title,
		Slug:      lvl.Slug,
		Stock:     lvl.Stock,
	}
}
