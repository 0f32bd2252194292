package handler

import (
	"net/http"

	"github.com/tripflow/backend/internal/service"
)

// UsageHandler exposes the derived usage view for the caller.
type UsageHandler struct {
	svc *service.SubscriptionService
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(svc *service.SubscriptionService) *UsageHandler {
	return &UsageHandler{svc: svc}
}

// Get handles GET /api/usage.
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	stats, err := h.svc.GetUsageStats(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, stats)
}
