package messages

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
	List(ctx context.Context, unreadOnly bool, limit, offset int32) ([]Row, error)
	Count(ctx context.Context, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (Row, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler exposes the contact inbox endpoints.
type Handler struct {
	Store        store
	DefaultLimit int
	MaxLimit     int
}

type messageResponse struct {
	ID          string    `json:"id"`
	SenderName  string    `json:"senderName"`
	SenderEmail string    `json:"senderEmail"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List returns a page of messages; ?unread=true restricts to unread.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, h.DefaultLimit, h.MaxLimit)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	total, err := h.Store.Count(r.Context(), unreadOnly)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	rows, err := h.Store.List(r.Context(), unreadOnly, int32(limit), int32((page-1)*limit))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	out := make([]messageResponse, 0, len(rows))
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

// MarkRead flags a message as read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid message id", nil)
		return
	}
	row, err := h.Store.MarkRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "message not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(row)})
}

// Delete removes a message.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid message id", nil)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "message not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(row Row) messageResponse {
	return messageResponse{
		ID:          row.ID.String(),
		SenderName:  row.SenderName,
		SenderEmail: row.SenderEmail,
		Subject:     row.Subject,
		Body:        row.Body,
		Read:        row.Read,
		CreatedAt:   row.CreatedAt,
	}
}
