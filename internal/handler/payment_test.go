package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repository"
	"github.com/tripflow/backend/internal/service"
	"github.com/tripflow/backend/pkg/payment"
)

// Minimal in-memory stores backing the subscription service in handler tests.

type memSubStore struct {
	subs map[string]*domain.Subscription
}

func (s *memSubStore) Upsert(ctx context.Context, userID string, sub *domain.Subscription) error {
	cp := *sub
	s.subs[userID] = &cp
	return nil
}

func (s *memSubStore) FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, ok := s.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s *memSubStore) IncrementTripsUsed(ctx context.Context, userID string) error {
	if sub, ok := s.subs[userID]; ok {
		sub.TripsUsed++
	}
	return nil
}

func (s *memSubStore) UpdatePlan(ctx context.Context, userID string, planID domain.PlanType, status domain.SubscriptionStatus) error {
	if sub, ok := s.subs[userID]; ok {
		sub.PlanID = planID
		sub.Status = status
	}
	return nil
}

type memUserStore struct{}

func (memUserStore) Create(ctx context.Context, u *domain.User) error { return nil }
func (memUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}
func (memUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) { return nil, nil }
func (memUserStore) Exists(ctx context.Context, email string) (bool, error)        { return false, nil }
func (memUserStore) ListAll(ctx context.Context) ([]*domain.User, error)           { return nil, nil }
func (memUserStore) Delete(ctx context.Context, id string) error                   { return nil }

type memEventStore struct {
	events []repository.PaymentEvent
}

func (s *memEventStore) Record(ctx context.Context, e *repository.PaymentEvent) error {
	s.events = append(s.events, *e)
	return nil
}

func newWebhookFixture() (*PaymentHandler, *memSubStore, *payment.MockGateway) {
	subs := &memSubStore{subs: make(map[string]*domain.Subscription)}
	gateway := payment.NewMockGateway()
	svc := service.NewSubscriptionService(subs, memUserStore{}, &memEventStore{}, gateway)
	h := NewPaymentHandler(svc, "https://app.example.com/billing", "https://api.example.com/api/payment/webhook")
	return h, subs, gateway
}

func createPaidPayment(t *testing.T, gateway *payment.MockGateway, userID string) string {
	t.Helper()
	checkout, err := gateway.CreateCheckout(context.Background(), payment.CheckoutParams{
		UserID:    userID,
		UserEmail: userID + "@example.com",
		PlanID:    string(domain.PlanProIndividual),
	})
	require.NoError(t, err)
	gateway.MarkPaid(checkout.PaymentID, "cst_1", "sub_1")
	return checkout.PaymentID
}

func TestWebhook_FormEncodedBody(t *testing.T) {
	h, subs, gateway := newWebhookFixture()
	paymentID := createPaidPayment(t, gateway, "u1")

	form := url.Values{"id": {paymentID}}
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	stored, err := subs.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.PlanProIndividual, stored.PlanID)
}

func TestWebhook_JSONBody(t *testing.T) {
	h, subs, gateway := newWebhookFixture()
	paymentID := createPaidPayment(t, gateway, "u1")

	body := `{"action":"webhook","id":"` + paymentID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	stored, err := subs.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestWebhook_Always200(t *testing.T) {
	h, subs, _ := newWebhookFixture()

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{name: "unknown payment id", body: "id=tr_ghost", contentType: "application/x-www-form-urlencoded"},
		{name: "missing payment id", body: "", contentType: "application/x-www-form-urlencoded"},
		{name: "malformed json", body: "{not json", contentType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			h.Webhook(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "providers retry on anything but 200")
		})
	}

	assert.Empty(t, subs.subs, "failed deliveries must not write subscriptions")
}
