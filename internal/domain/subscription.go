package domain

import "time"

// SubscriptionStatus represents the current billing state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription is the per-user record of which plan is active, its billing
// period, and cumulative usage. TripsUsed only ever grows: deleting a trip
// does not refund quota.
type Subscription struct {
	PlanID               PlanType           `json:"planId"`
	Status               SubscriptionStatus `json:"status"`
	CurrentPeriodStart   time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd     time.Time          `json:"currentPeriodEnd"`
	TripsUsed            int                `json:"tripsUsed"`
	MollieCustomerID     string             `json:"mollieCustomerId,omitempty"`
	MollieSubscriptionID string             `json:"mollieSubscriptionId,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// NewDefaultSubscription returns the free-tier subscription a user starts
// with at signup: active, zero usage, 365-day period.
func NewDefaultSubscription() Subscription {
	now := time.Now()
	return Subscription{
		PlanID:             PlanFree,
		Status:             SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, 365),
		TripsUsed:          0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewFreeSubscription is the mid-lifecycle equivalent of the default
// constructor. Callers downgrading an existing subscription must use
// DowngradedToFree instead so the cumulative trip counter survives.
func NewFreeSubscription() Subscription {
	return NewDefaultSubscription()
}

// NewTrialSubscription returns a 14-day trial of the given plan. Trial
// eligibility (IsEligibleForTrial) is the caller's responsibility.
func NewTrialSubscription(planID PlanType) Subscription {
	now := time.Now()
	return Subscription{
		PlanID:             planID,
		Status:             SubscriptionTrialing,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, 14),
		TripsUsed:          0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewPaidSubscription returns an active one-calendar-month subscription
// carrying the payment provider references from a confirmed payment.
func NewPaidSubscription(planID PlanType, customerID, subscriptionID string) Subscription {
	now := time.Now()
	return Subscription{
		PlanID:               planID,
		Status:               SubscriptionActive,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     now.AddDate(0, 1, 0),
		TripsUsed:            0,
		MollieCustomerID:     customerID,
		MollieSubscriptionID: subscriptionID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// DowngradedToFree returns a copy of the subscription moved back to the
// free plan. Only the plan and status change: TripsUsed and the billing
// period carry over, so a user who was over the free quota stays blocked.
func (s Subscription) DowngradedToFree() Subscription {
	s.PlanID = PlanFree
	s.Status = SubscriptionActive
	s.UpdatedAt = time.Now()
	return s
}

// Renewed returns a copy of the subscription rolled into the next billing
// period, used when the provider confirms a recurring payment.
func (s Subscription) Renewed() Subscription {
	now := time.Now()
	s.Status = SubscriptionActive
	s.CurrentPeriodStart = now
	s.CurrentPeriodEnd = now.AddDate(0, 1, 0)
	s.UpdatedAt = now
	return s
}
