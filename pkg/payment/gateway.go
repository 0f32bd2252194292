package payment

import (
	"context"
	"fmt"
	"sync"
)

// Payment status values as reported by the provider.
const (
	StatusOpen     = "open"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// CheckoutParams describes the hosted checkout session to create.
type CheckoutParams struct {
	UserID      string
	UserEmail   string
	PlanID      string
	Amount      float64 // EUR
	Description string
	RedirectURL string
	WebhookURL  string
}

// Checkout is a created hosted checkout session.
type Checkout struct {
	PaymentID   string
	CheckoutURL string
	Status      string
}

// Metadata is the payload we attach to a payment so the webhook can map it
// back to a user and plan.
type Metadata struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	PlanID    string `json:"planId"`
}

// Payment is the provider's view of a payment, fetched during webhook
// processing.
type Payment struct {
	ID             string
	Status         string
	CustomerID     string
	SubscriptionID string
	Metadata       Metadata
}

// Gateway defines the interface for payment providers.
type Gateway interface {
	// CreateCheckout creates a hosted checkout session for a plan.
	CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error)
	// GetPayment fetches a payment by provider id (webhook processing).
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// MockGateway is an in-memory implementation for tests and local dev.
type MockGateway struct {
	mu       sync.Mutex
	seq      int
	payments map[string]*Payment
}

// NewMockGateway creates an empty mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{payments: make(map[string]*Payment)}
}

func (g *MockGateway) CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("tr_mock_%d", g.seq)
	g.payments[id] = &Payment{
		ID:     id,
		Status: StatusOpen,
		Metadata: Metadata{
			UserID:    params.UserID,
			UserEmail: params.UserEmail,
			PlanID:    params.PlanID,
		},
	}
	return &Checkout{
		PaymentID:   id,
		CheckoutURL: "https://pay.example.com/checkout/" + id,
		Status:      StatusOpen,
	}, nil
}

func (g *MockGateway) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}
	cp := *p
	return &cp, nil
}

// MarkPaid flips a mock payment to paid, simulating provider confirmation.
func (g *MockGateway) MarkPaid(paymentID, customerID, subscriptionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.payments[paymentID]; ok {
		p.Status = StatusPaid
		p.CustomerID = customerID
		p.SubscriptionID = subscriptionID
	}
}
