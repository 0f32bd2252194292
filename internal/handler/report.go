package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/service"
)

// SendReportRequest is the payload for emailing a stored trip's report.
type SendReportRequest struct {
	RecipientEmail string `json:"recipientEmail"`
}

// SendInlineReportRequest carries the trip data in the request itself, for
// clients that assemble the report without a stored trip.
type SendInlineReportRequest struct {
	TripData       domain.Trip          `json:"tripData"`
	ExpenseNotes   []domain.ExpenseNote `json:"expenseNotes"`
	RecipientEmail string               `json:"recipientEmail"`
}

// ReportHandler handles trip report email endpoints.
type ReportHandler struct {
	svc *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// SendTripReport handles POST /api/trips/{id}/report.
func (h *ReportHandler) SendTripReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req SendReportRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}
	if req.RecipientEmail == "" {
		Error(w, domain.ErrBadRequest("recipientEmail is required"))
		return
	}

	resp, err := h.svc.SendTripReport(r.Context(), userID, chi.URLParam(r, "id"), req.RecipientEmail)
	if err != nil {
		h.reportError(w, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// SendInline handles POST /api/email/send with inline trip data.
func (h *ReportHandler) SendInline(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUserID(r); !ok {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req SendInlineReportRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}
	if req.RecipientEmail == "" {
		Error(w, domain.ErrBadRequest("recipientEmail is required"))
		return
	}

	resp, err := h.svc.Send(r.Context(), req.TripData, req.ExpenseNotes, req.RecipientEmail)
	if err != nil {
		h.reportError(w, err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// reportError shapes dispatch failures as {success:false, error, details}.
func (h *ReportHandler) reportError(w http.ResponseWriter, err error) {
	if appErr, ok := domain.AsAppError(err); ok {
		body := map[string]interface{}{"success": false, "error": appErr.Message}
		for k, v := range appErr.Details {
			body[k] = v
		}
		JSON(w, appErr.Code, body)
		return
	}
	JSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   "internal server error",
	})
}
