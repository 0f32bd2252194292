package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VictorAvelar/mollie-api-go/v4/mollie"
)

// MollieGateway implements Gateway against the Mollie API. The API token is
// read from MOLLIE_API_TOKEN by the client itself.
type MollieGateway struct {
	client *mollie.Client
}

// NewMollieGateway creates a Mollie-backed gateway.
func NewMollieGateway(testMode bool) (*MollieGateway, error) {
	config := mollie.NewAPITestingConfig(true)
	if !testMode {
		config = mollie.NewAPIConfig(true)
	}
	client, err := mollie.NewClient(nil, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create mollie client: %w", err)
	}
	return &MollieGateway{client: client}, nil
}

func (g *MollieGateway) CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error) {
	create := mollie.CreatePayment{
		Amount: &mollie.Amount{
			Currency: "EUR",
			Value:    fmt.Sprintf("%.2f", params.Amount),
		},
		Description: params.Description,
		RedirectURL: params.RedirectURL,
		WebhookURL:  params.WebhookURL,
		Metadata: Metadata{
			UserID:    params.UserID,
			UserEmail: params.UserEmail,
			PlanID:    params.PlanID,
		},
	}

	_, p, err := g.client.Payments.Create(ctx, create, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mollie payment: %w", err)
	}

	checkoutURL := ""
	if p.Links.Checkout != nil {
		checkoutURL = p.Links.Checkout.Href
	}

	return &Checkout{
		PaymentID:   p.ID,
		CheckoutURL: checkoutURL,
		Status:      string(p.Status),
	}, nil
}

func (g *MollieGateway) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	_, p, err := g.client.Payments.Get(ctx, paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mollie payment %s: %w", paymentID, err)
	}

	return &Payment{
		ID:             p.ID,
		Status:         string(p.Status),
		CustomerID:     p.CustomerID,
		SubscriptionID: p.SubscriptionID,
		Metadata:       decodeMetadata(p.Metadata),
	}, nil
}

// decodeMetadata converts Mollie's untyped metadata back into our struct.
func decodeMetadata(raw interface{}) Metadata {
	var md Metadata
	if raw == nil {
		return md
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return md
	}
	_ = json.Unmarshal(b, &md)
	return md
}
