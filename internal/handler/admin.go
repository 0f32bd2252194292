package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripflow/backend/internal/logger"
	"github.com/tripflow/backend/internal/service"
	"go.uber.org/zap"
)

// AdminHandler exposes system-wide statistics.
type AdminHandler struct {
	db      *pgxpool.Pool
	authSvc *service.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *pgxpool.Pool, authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{db: db, authSvc: authSvc}
}

// GetStats returns system-wide metrics.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var usersCount, tripsCount, notesCount, paidSubCount int

	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM users").Scan(&usersCount); err != nil {
		logger.Get().Error("failed to count users", zap.Error(err))
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM trips").Scan(&tripsCount); err != nil {
		logger.Get().Error("failed to count trips", zap.Error(err))
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM expense_notes").Scan(&notesCount); err != nil {
		logger.Get().Error("failed to count expense notes", zap.Error(err))
	}
	if err := h.db.QueryRow(r.Context(),
		"SELECT COUNT(*) FROM subscriptions WHERE status IN ('active', 'trialing') AND plan_id <> 'free'",
	).Scan(&paidSubCount); err != nil {
		logger.Get().Error("failed to count paid subscriptions", zap.Error(err))
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"users":             usersCount,
		"trips":             tripsCount,
		"expenseNotes":      notesCount,
		"paidSubscriptions": paidSubCount,
	})
}

// ListUsers returns all users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, users)
}
