package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tripflow/backend/internal/contextkeys"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/service"
)

// TripHandler handles trip and expense-note endpoints.
type TripHandler struct {
	svc *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(svc *service.TripService) *TripHandler {
	return &TripHandler{svc: svc}
}

func requestUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	return userID, ok && userID != ""
}

// List handles GET /api/trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	trips, err := h.svc.List(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, trips)
}

// Create handles POST /api/trips. Gate failures come back as 403 with the
// remaining/max trip numbers in the body.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CreateTripRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	trip, err := h.svc.Create(r.Context(), userID, &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, trip)
}

// GetByID handles GET /api/trips/{id}, returning the trip with notes and
// totals.
func (h *TripHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	detail, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, detail)
}

// Update handles PUT /api/trips/{id}.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.UpdateTripRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	trip, err := h.svc.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, trip)
}

// Delete handles DELETE /api/trips/{id}. Deleting does not refund trip
// quota.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListExpenses handles GET /api/trips/{id}/expenses.
func (h *TripHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	notes, err := h.svc.ListExpenses(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, notes)
}

// AddExpense handles POST /api/trips/{id}/expenses.
func (h *TripHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CreateExpenseNoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	note, err := h.svc.AddExpense(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, note)
}

// UpdateExpense handles PUT /api/trips/{id}/expenses/{noteId}.
func (h *TripHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.CreateExpenseNoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	note, err := h.svc.UpdateExpense(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "noteId"), &req)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, note)
}

// DeleteExpense handles DELETE /api/trips/{id}/expenses/{noteId}.
func (h *TripHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.svc.DeleteExpense(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "noteId")); err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
