package special

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/storefront-admin/internal/common"
	"github.com/noah-isme/storefront-admin/internal/promo"
)

// Handler exposes administrative special management endpoints.
type Handler struct {
	Svc *Service
}

type specialResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	Scope         string    `json:"scope"`
	TargetIDs     []string  `json:"targetIds"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// List returns all specials. The status field in each entry is derived
// from the window at request time, ignoring the stored label; pass
// ?status=active|scheduled|expired to filter on the derived value.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	switch promo.Status(filter) {
	case "", promo.StatusScheduled, promo.StatusActive, promo.StatusExpired:
	default:
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status filter", map[string]string{"status": filter})
		return
	}
	records, err := h.Svc.List(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	now := h.Svc.now()
	out := make([]specialResponse, 0, len(records))
	for _, rec := range records {
		derived := promo.StatusAt(rec.Special, now)
		if filter != "" && filter != string(derived) {
			continue
		}
		out = append(out, toResponse(rec, derived))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Get returns a single special.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid special id", nil)
		return
	}
	rec, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "special not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(rec, promo.StatusAt(rec.Special, h.Svc.now()))})
}

// Create stores a new special.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err.Error())
		return
	}
	rec, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toResponse(rec, rec.Status)})
}

// Update rewrites an existing special.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid special id", nil)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body", err.Error())
		return
	}
	rec, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "special not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(rec, rec.Status)})
}

// Delete removes a special.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ID", "invalid special id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "special not found", nil)
			return
		}
		common.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recompute rewrites stale stored status labels and reports the count.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	changed, err := h.Svc.RecomputeStatuses(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]int64{"changed": changed}})
}

func toResponse(rec Record, derived promo.Status) specialResponse {
	targets := make([]string, 0, len(rec.TargetIDs))
	for _, id := range rec.TargetIDs {
		targets = append(targets, id.String())
	}
	return specialResponse{
		ID:            rec.ID.String(),
		Title:         rec.Title,
		StartsAt:      rec.StartsAt,
		EndsAt:        rec.EndsAt,
		Scope:         string(rec.Scope),
		TargetIDs:     targets,
		DiscountType:  string(rec.DiscountType),
		DiscountValue: rec.DiscountValue,
		Status:        string(derived),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}
