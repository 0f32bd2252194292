package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/pkg/payment"
)

func newSubscriptionFixture() (*SubscriptionService, *fakeUserStore, *fakeSubscriptionStore, *fakePaymentEventStore, *payment.MockGateway) {
	users := newFakeUserStore()
	subs := newFakeSubscriptionStore()
	events := newFakePaymentEventStore()
	gateway := payment.NewMockGateway()
	return NewSubscriptionService(subs, users, events, gateway), users, subs, events, gateway
}

func seedUser(t *testing.T, users *fakeUserStore, id string, age time.Duration) {
	t.Helper()
	now := time.Now()
	require.NoError(t, users.Create(context.Background(), &domain.User{
		ID:        id,
		Email:     id + "@example.com",
		CreatedAt: now.Add(-age),
		UpdatedAt: now,
	}))
}

func TestGetSubscription_SynthesizesDefault(t *testing.T) {
	svc, _, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	sub, err := svc.GetSubscription(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, sub.PlanID)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)

	// Read path only: nothing is written back.
	stored, err := subs.FindByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestGetUsageStats(t *testing.T) {
	svc, users, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	seedUser(t, users, "u1", time.Hour)
	sub := domain.NewDefaultSubscription()
	sub.TripsUsed = 4
	require.NoError(t, subs.Upsert(ctx, "u1", &sub))

	stats, err := svc.GetUsageStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.CurrentTripsCount)
	assert.Equal(t, 10, stats.MaxTripsAllowed)
	assert.Equal(t, 6, stats.RemainingTrips)
	assert.False(t, stats.IsLimitReached)

	_, err = svc.GetUsageStats(ctx, "ghost")
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestCreateCheckout(t *testing.T) {
	svc, _, _, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	resp, err := svc.CreateCheckout(ctx, "u1", "u1@example.com", domain.PlanProIndividual,
		"https://app.example.com/billing", "https://api.example.com/api/payment/webhook")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.CheckoutURL)
	assert.NotEmpty(t, resp.PaymentID)
	assert.Equal(t, payment.StatusOpen, resp.Status)
}

func TestCreateCheckout_RejectsUnpayablePlans(t *testing.T) {
	svc, _, _, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		planID domain.PlanType
	}{
		{name: "free plan", planID: domain.PlanFree},
		{name: "enterprise has no fixed price", planID: domain.PlanProEnterprise},
		{name: "unknown plan", planID: domain.PlanType("gold")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCheckout(ctx, "u1", "u1@example.com", tt.planID, "", "")
			appErr, ok := domain.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
		})
	}
}

func TestHandleWebhook_PaidUpgradesSubscription(t *testing.T) {
	svc, _, subs, events, gateway := newSubscriptionFixture()
	ctx := context.Background()

	resp, err := svc.CreateCheckout(ctx, "u1", "u1@example.com", domain.PlanProIndividual,
		"https://app.example.com/billing", "https://api.example.com/api/payment/webhook")
	require.NoError(t, err)

	gateway.MarkPaid(resp.PaymentID, "cst_9", "sub_9")
	require.NoError(t, svc.HandleWebhook(ctx, resp.PaymentID))

	stored, err := subs.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.PlanProIndividual, stored.PlanID)
	assert.Equal(t, domain.SubscriptionActive, stored.Status)
	assert.Equal(t, "cst_9", stored.MollieCustomerID)
	assert.Equal(t, "sub_9", stored.MollieSubscriptionID)
	assert.Equal(t, 0, stored.TripsUsed)

	require.Len(t, events.events, 1)
	assert.Equal(t, payment.StatusPaid, events.events[0].Status)
	assert.Equal(t, "u1", events.events[0].UserID)
}

func TestHandleWebhook_OpenPaymentChangesNothing(t *testing.T) {
	svc, _, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	resp, err := svc.CreateCheckout(ctx, "u1", "u1@example.com", domain.PlanProIndividual, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhook(ctx, resp.PaymentID))

	stored, err := subs.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, stored, "an open payment must not create a subscription")
}

func TestHandleWebhook_RecurringPaymentRenewsPeriod(t *testing.T) {
	svc, _, subs, _, gateway := newSubscriptionFixture()
	ctx := context.Background()

	existing := domain.NewPaidSubscription(domain.PlanProIndividual, "cst_9", "sub_9")
	existing.TripsUsed = 31
	existing.CurrentPeriodEnd = time.Now().Add(time.Hour)
	require.NoError(t, subs.Upsert(ctx, "u1", &existing))

	resp, err := svc.CreateCheckout(ctx, "u1", "u1@example.com", domain.PlanProIndividual, "", "")
	require.NoError(t, err)
	gateway.MarkPaid(resp.PaymentID, "cst_9", "sub_9")
	require.NoError(t, svc.HandleWebhook(ctx, resp.PaymentID))

	stored, err := subs.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 31, stored.TripsUsed, "renewal keeps the cumulative counter")
	assert.True(t, stored.CurrentPeriodEnd.After(time.Now().AddDate(0, 0, 27)))
}

func TestHandleWebhook_UnknownPayment(t *testing.T) {
	svc, _, _, _, _ := newSubscriptionFixture()
	assert.Error(t, svc.HandleWebhook(context.Background(), "tr_ghost"))
}

func TestStartTrial(t *testing.T) {
	svc, users, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	seedUser(t, users, "fresh", 2*24*time.Hour)
	sub := domain.NewDefaultSubscription()
	require.NoError(t, subs.Upsert(ctx, "fresh", &sub))

	trial, err := svc.StartTrial(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanProIndividual, trial.PlanID)
	assert.Equal(t, domain.SubscriptionTrialing, trial.Status)

	stored, err := subs.FindByUserID(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionTrialing, stored.Status)
}

func TestStartTrial_Ineligible(t *testing.T) {
	svc, users, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	// Too old.
	seedUser(t, users, "old", 10*24*time.Hour)
	oldSub := domain.NewDefaultSubscription()
	require.NoError(t, subs.Upsert(ctx, "old", &oldSub))

	// Fresh but already paying.
	seedUser(t, users, "paying", time.Hour)
	paidSub := domain.NewPaidSubscription(domain.PlanProIndividual, "cst_1", "sub_1")
	require.NoError(t, subs.Upsert(ctx, "paying", &paidSub))

	for _, id := range []string{"old", "paying"} {
		_, err := svc.StartTrial(ctx, id)
		appErr, ok := domain.AsAppError(err)
		require.True(t, ok, "user %s", id)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	}

	_, err := svc.StartTrial(ctx, "ghost")
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestCancel_PreservesCounter(t *testing.T) {
	svc, _, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	paid := domain.NewPaidSubscription(domain.PlanProIndividual, "cst_1", "sub_1")
	paid.TripsUsed = 47
	require.NoError(t, subs.Upsert(ctx, "u1", &paid))

	downgraded, err := svc.Cancel(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, downgraded.PlanID)
	assert.Equal(t, 47, downgraded.TripsUsed)

	stored, err := subs.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, stored.PlanID)
	assert.Equal(t, 47, stored.TripsUsed)
	assert.False(t, domain.CanCreateTrip(*stored), "47 lifetime trips blocks the free gate")
}

func TestCancel_WithoutSubscriptionCreatesDefault(t *testing.T) {
	svc, _, subs, _, _ := newSubscriptionFixture()
	ctx := context.Background()

	sub, err := svc.Cancel(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, sub.PlanID)

	stored, err := subs.FindByUserID(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.PlanFree, stored.PlanID)
}
