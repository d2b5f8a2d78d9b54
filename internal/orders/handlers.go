package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/storefront-admin/internal/common"
)

// Handler exposes administrative order endpoints.
type Handler struct {
	Svc          *Service
	DefaultLimit int
	MaxLimit     int
}

type orderResponse struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Status        string    `json:"status"`
	TotalCents    int64     `json:"totalCents"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type itemResponse struct {
	ID             string `json:"id"`
	ItemKind       string `json:"itemKind"`
	ItemID         string `json:"itemId"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int32  `json:"quantity"`
}

// List returns a page of orders, optionally filtered with ?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.DefaultLimit, h.MaxLimit)
	status := Status(r.URL.Query().Get("status"))

	rows, total, err := h.Svc.List(r.Context(), status, page, limit)
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			common.JSONError(w, http.StatusBadRequest, "INVALID_STATUS", "unknown status filter", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrderResponse(row))
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": out,
		"pagination": map[string]any{
			"page":       page,
			"perPage":    limit,
			"totalItems": total,
		},
	})
}

// Get returns one order with its line items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid order id", nil)
		return
	}
	detail, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	items := make([]itemResponse, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, itemResponse{
			ID:             item.ID.String(),
			ItemKind:       item.ItemKind,
			ItemID:         item.ItemID.String(),
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"order": toOrderResponse(detail.Order),
		"items": items,
	}})
}

type patchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus moves an order to a new state.
func (h *Handler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid order id", nil)
		return
	}
	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", nil)
		return
	}
	if req.Status == "" {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "status is required", nil)
		return
	}
	updated, err := h.Svc.SetStatus(r.Context(), id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			common.JSONError(w, http.StatusConflict, "INVALID_STATE", "status transition not allowed", nil)
		default:
			common.RespondError(w, err)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toOrderResponse(updated)})
}

func toOrderResponse(row OrderRow) orderResponse {
	return orderResponse{
		ID:            row.ID.String(),
		CustomerName:  row.CustomerName,
		CustomerEmail: row.CustomerEmail,
		Status:        string(row.Status),
		TotalCents:    row.TotalCents,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
