package service

import (
	"context"
	"fmt"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/logger"
	"github.com/tripflow/backend/internal/repository"
	"github.com/tripflow/backend/pkg/payment"
	"go.uber.org/zap"
)

// CheckoutResponse is returned after creating a hosted checkout session.
type CheckoutResponse struct {
	Success     bool   `json:"success"`
	CheckoutURL string `json:"checkoutUrl"`
	PaymentID   string `json:"paymentId"`
	Status      string `json:"status"`
}

// SubscriptionService owns the subscription lifecycle: checkout creation,
// webhook processing, trials, and downgrades. The engine's pure decision
// functions live in the domain package; this service only loads state,
// applies transitions, and persists results.
type SubscriptionService struct {
	subs    SubscriptionStore
	users   UserStore
	events  PaymentEventStore
	gateway payment.Gateway
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subs SubscriptionStore, users UserStore, events PaymentEventStore, gateway payment.Gateway) *SubscriptionService {
	return &SubscriptionService{
		subs:    subs,
		users:   users,
		events:  events,
		gateway: gateway,
	}
}

// GetSubscription returns the user's subscription, synthesizing the free
// default for legacy users without a record. Nothing is persisted here.
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	if sub == nil {
		def := domain.NewDefaultSubscription()
		return &def, nil
	}
	return sub, nil
}

// GetUsageStats assembles the read-only usage view for a user.
func (s *SubscriptionService) GetUsageStats(ctx context.Context, userID string) (*domain.UsageStats, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user not found")
	}
	sub, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	user.Subscription = sub

	stats := domain.UsageStatsFor(user)
	return &stats, nil
}

// CreateCheckout creates a hosted checkout session for upgrading to a paid
// plan. The subscription itself is only written once the webhook confirms
// payment.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID, userEmail string, planID domain.PlanType, returnURL, webhookURL string) (*CheckoutResponse, error) {
	plan, ok := domain.GetPlanByID(planID)
	if !ok {
		return nil, domain.ErrBadRequest("unknown plan")
	}
	if plan.ID == domain.PlanFree {
		return nil, domain.ErrBadRequest("free plan does not require checkout")
	}
	if plan.Price <= 0 {
		return nil, domain.ErrBadRequest("plan has no fixed price, contact sales")
	}

	checkout, err := s.gateway.CreateCheckout(ctx, payment.CheckoutParams{
		UserID:      userID,
		UserEmail:   userEmail,
		PlanID:      string(planID),
		Amount:      plan.Price,
		Description: fmt.Sprintf("TripFlow %s subscription", plan.Name),
		RedirectURL: returnURL,
		WebhookURL:  webhookURL,
	})
	if err != nil {
		return nil, domain.ErrInternal("failed to create checkout", err)
	}

	return &CheckoutResponse{
		Success:     true,
		CheckoutURL: checkout.CheckoutURL,
		PaymentID:   checkout.PaymentID,
		Status:      checkout.Status,
	}, nil
}

// HandleWebhook processes an asynchronous payment-status callback. Errors
// are returned for logging only; the HTTP handler answers 200 regardless
// so the provider does not retry forever.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, paymentID string) error {
	p, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}

	if err := s.events.Record(ctx, &repository.PaymentEvent{
		PaymentID: p.ID,
		Status:    p.Status,
		UserID:    p.Metadata.UserID,
		PlanID:    p.Metadata.PlanID,
	}); err != nil {
		logger.Get().Warn("failed to record payment event",
			zap.String("paymentId", p.ID), zap.Error(err))
	}

	switch p.Status {
	case payment.StatusPaid:
		return s.applyPaidPayment(ctx, p)
	case payment.StatusFailed, payment.StatusExpired, payment.StatusCanceled:
		logger.Get().Info("payment not completed",
			zap.String("paymentId", p.ID), zap.String("status", p.Status))
		return nil
	default:
		logger.Get().Info("ignoring payment status",
			zap.String("paymentId", p.ID), zap.String("status", p.Status))
		return nil
	}
}

func (s *SubscriptionService) applyPaidPayment(ctx context.Context, p *payment.Payment) error {
	userID := p.Metadata.UserID
	planID := domain.PlanType(p.Metadata.PlanID)
	if userID == "" {
		return fmt.Errorf("payment %s has no user metadata", p.ID)
	}
	if _, ok := domain.GetPlanByID(planID); !ok {
		return fmt.Errorf("payment %s references unknown plan %q", p.ID, p.Metadata.PlanID)
	}

	existing, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load subscription for %s: %w", userID, err)
	}

	var sub domain.Subscription
	if existing != nil && existing.PlanID == planID && existing.Status == domain.SubscriptionActive {
		// Recurring payment on the same plan: roll the billing period.
		sub = existing.Renewed()
	} else {
		sub = domain.NewPaidSubscription(planID, p.CustomerID, p.SubscriptionID)
	}

	if err := s.subs.Upsert(ctx, userID, &sub); err != nil {
		return fmt.Errorf("failed to persist subscription for %s: %w", userID, err)
	}

	logger.Get().Info("subscription activated",
		zap.String("userId", userID), zap.String("planId", string(planID)))
	return nil
}

// StartTrial elevates an eligible account to a 14-day Pro Individual
// trial. Eligibility: account younger than 7 days, currently on free.
func (s *SubscriptionService) StartTrial(ctx context.Context, userID string) (*domain.Subscription, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user not found")
	}
	sub, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	user.Subscription = sub

	if !domain.IsEligibleForTrial(user) {
		return nil, domain.ErrBadRequest("not eligible for trial")
	}

	trial := domain.NewTrialSubscription(domain.PlanProIndividual)
	if err := s.subs.Upsert(ctx, userID, &trial); err != nil {
		return nil, domain.ErrInternal("failed to start trial", err)
	}
	return &trial, nil
}

// Cancel downgrades the user back to the free plan. Only plan and status
// change: the cumulative trip counter is preserved, so a user over the
// free quota is blocked immediately after downgrading.
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	if sub == nil {
		def := domain.NewDefaultSubscription()
		if err := s.subs.Upsert(ctx, userID, &def); err != nil {
			return nil, domain.ErrInternal("failed to create subscription", err)
		}
		return &def, nil
	}

	if err := s.subs.UpdatePlan(ctx, userID, domain.PlanFree, domain.SubscriptionActive); err != nil {
		return nil, domain.ErrInternal("failed to downgrade subscription", err)
	}

	downgraded := sub.DowngradedToFree()
	return &downgraded, nil
}
