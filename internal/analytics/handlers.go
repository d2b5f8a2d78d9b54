package analytics

import (
	"net/http"

	"github.com/noah-isme/storefront-admin/internal/common"
)

// Handler exposes the dashboard summary endpoint.
type Handler struct {
	Svc *Service
}

// Summary returns the dashboard counts.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Svc.Summary(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sum})
}
