package handler

import (
	"net/http"

	"github.com/tripflow/backend/internal/contextkeys"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/logger"
	"github.com/tripflow/backend/internal/service"
	"go.uber.org/zap"
)

// CheckoutRequest is the payment endpoint payload. Action selects the
// mode: "create-payment" builds a hosted checkout session, "webhook"
// processes a provider callback carrying the payment id.
type CheckoutRequest struct {
	Action     string `json:"action"`
	PlanID     string `json:"planId"`
	UserEmail  string `json:"userEmail"`
	UserID     string `json:"userId"`
	ReturnURL  string `json:"returnUrl"`
	WebhookURL string `json:"webhookUrl"`
	ID         string `json:"id"`
}

// PaymentHandler handles checkout and webhook endpoints.
type PaymentHandler struct {
	svc *service.SubscriptionService

	// Defaults used when the client does not supply redirect/webhook URLs.
	defaultReturnURL  string
	defaultWebhookURL string
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.SubscriptionService, defaultReturnURL, defaultWebhookURL string) *PaymentHandler {
	return &PaymentHandler{
		svc:               svc,
		defaultReturnURL:  defaultReturnURL,
		defaultWebhookURL: defaultWebhookURL,
	}
}

// CreateCheckout handles POST /api/payment/checkout. The authenticated
// user, not the request body, decides whose subscription is bought. A body
// with action "webhook" is forwarded to webhook processing for clients
// speaking the single-endpoint dialect.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	if req.Action == "webhook" {
		h.processWebhook(r, req.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	userEmail, _ := r.Context().Value(contextkeys.UserEmail).(string)
	if req.UserEmail != "" {
		userEmail = req.UserEmail
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = h.defaultReturnURL
	}
	webhookURL := req.WebhookURL
	if webhookURL == "" {
		webhookURL = h.defaultWebhookURL
	}

	resp, err := h.svc.CreateCheckout(r.Context(), userID, userEmail, domain.PlanType(req.PlanID), returnURL, webhookURL)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Webhook handles POST /api/payment/webhook. The provider retries until it
// receives a 200, so this always answers 200 regardless of processing
// outcome; failures are logged instead.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	paymentID := h.extractPaymentID(r)
	h.processWebhook(r, paymentID)
	w.WriteHeader(http.StatusOK)
}

// extractPaymentID reads the payment id from a form-encoded body (Mollie's
// native format) or a JSON body {action:"webhook", id:"tr_..."}.
func (h *PaymentHandler) extractPaymentID(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")
	if contentType == "application/json" {
		var req CheckoutRequest
		if err := DecodeJSON(r, &req); err == nil {
			return req.ID
		}
		return ""
	}
	if err := r.ParseForm(); err != nil {
		return ""
	}
	return r.PostFormValue("id")
}

func (h *PaymentHandler) processWebhook(r *http.Request, paymentID string) {
	if paymentID == "" {
		logger.Get().Warn("webhook delivery without payment id")
		return
	}
	if err := h.svc.HandleWebhook(r.Context(), paymentID); err != nil {
		logger.Get().Error("webhook processing failed",
			zap.String("paymentId", paymentID), zap.Error(err))
	}
}

// GetSubscription handles GET /api/payment/subscription.
func (h *PaymentHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	sub, err := h.svc.GetSubscription(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, sub)
}

// StartTrial handles POST /api/payment/trial.
func (h *PaymentHandler) StartTrial(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	sub, err := h.svc.StartTrial(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, sub)
}

// Cancel handles POST /api/payment/cancel (downgrade to free).
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	sub, err := h.svc.Cancel(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, sub)
}
