package domain

import "time"

// TrialEligibilityWindow is how long after signup an account may still
// start a trial.
const TrialEligibilityWindow = 7 * 24 * time.Hour

// UsageStats is the derived, read-only view of a user's quota consumption.
// It is computed on demand and never persisted.
type UsageStats struct {
	CurrentTripsCount int  `json:"currentTripsCount"`
	MaxTripsAllowed   int  `json:"maxTripsAllowed"` // -1 = unlimited
	RemainingTrips    int  `json:"remainingTrips"`  // -1 = unlimited
	IsLimitReached    bool `json:"isLimitReached"`
}

// CanCreateTrip is the single authoritative decision of whether a user may
// create another trip. Unknown plans fail closed. Unlimited plans pass
// regardless of subscription status: a past_due or canceled pro user can
// still create trips under the current policy.
func CanCreateTrip(sub Subscription) bool {
	plan, ok := GetPlanByID(sub.PlanID)
	if !ok {
		return false
	}
	if plan.MaxTrips == Unlimited {
		return true
	}
	return sub.TripsUsed < plan.MaxTrips
}

// RemainingTrips returns how many trips the user may still create:
// -1 for unlimited plans, never negative for limited ones, 0 for an
// unknown plan.
func RemainingTrips(sub Subscription) int {
	plan, ok := GetPlanByID(sub.PlanID)
	if !ok {
		return 0
	}
	if plan.MaxTrips == Unlimited {
		return Unlimited
	}
	remaining := plan.MaxTrips - sub.TripsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UsageStatsFor assembles the usage view for a user profile. Profiles that
// predate the subscription model carry no subscription record; those get a
// synthesized free-tier default so display code never breaks on
// partially-migrated data. The input is never mutated.
func UsageStatsFor(user *User) UsageStats {
	sub := SubscriptionOrDefault(user)
	plan, ok := GetPlanByID(sub.PlanID)
	maxAllowed := 0
	if ok {
		maxAllowed = plan.MaxTrips
	}
	return UsageStats{
		CurrentTripsCount: sub.TripsUsed,
		MaxTripsAllowed:   maxAllowed,
		RemainingTrips:    RemainingTrips(sub),
		IsLimitReached:    !CanCreateTrip(sub),
	}
}

// SubscriptionOrDefault returns the user's subscription, or a fresh
// free-tier default when the record is missing (legacy profiles).
func SubscriptionOrDefault(user *User) Subscription {
	if user == nil || user.Subscription == nil {
		return NewDefaultSubscription()
	}
	return *user.Subscription
}

// IsEligibleForTrial reports whether the account may start a trial:
// younger than seven days and currently on the free plan. There is no
// persisted "trial already used" flag, so a user downgrading back to free
// inside the window regains eligibility.
func IsEligibleForTrial(user *User) bool {
	if user == nil {
		return false
	}
	if time.Since(user.CreatedAt) >= TrialEligibilityWindow {
		return false
	}
	return SubscriptionOrDefault(user).PlanID == PlanFree
}
