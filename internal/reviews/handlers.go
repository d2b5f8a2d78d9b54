package reviews

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/storefront-admin/internal/common"
)

type store interface {
	List(ctx context.Context, pendingOnly bool, limit, offset int32) ([]Row, error)
	Count(ctx context.Context, pendingOnly bool) (int64, error)
	Approve(ctx context.Context, id uuid.UUID) (Row, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler exposes review moderation endpoints. Moderation is thin
// enough that the handler talks to the store directly.
type Handler struct {
	Store        store
	DefaultLimit int
	MaxLimit     int
}

type reviewResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	AuthorName string    `json:"authorName"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// List returns a page of reviews; ?pending=true restricts to unapproved.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.DefaultLimit, h.MaxLimit)
	pendingOnly := r.URL.Query().Get("pending") == "true"

	total, err := h.Store.Count(r.Context(), pendingOnly)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	rows, err := h.Store.List(r.Context(), pendingOnly, int32(limit), int32((page-1)*limit))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	out := make([]reviewResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResponse(row))
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

// Approve publishes a review.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid review id", nil)
		return
	}
	row, err := h.Store.Approve(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "review not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(row)})
}

// Delete removes a review.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid review id", nil)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "review not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(row Row) reviewResponse {
	return reviewResponse{
		ID:         row.ID.String(),
		ProductID:  row.ProductID.String(),
		AuthorName: row.AuthorName,
		Rating:     row.Rating,
		Comment:    row.Comment,
		Approved:   row.Approved,
		CreatedAt:  row.CreatedAt,
	}
}
