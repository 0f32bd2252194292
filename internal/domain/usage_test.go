package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeSubWithTrips(used int) Subscription {
	sub := NewDefaultSubscription()
	sub.TripsUsed = used
	return sub
}

func TestCanCreateTrip_FreePlanBoundary(t *testing.T) {
	plan, ok := GetPlanByID(PlanFree)
	require.True(t, ok)
	require.Equal(t, 10, plan.MaxTrips)

	for used := 0; used < plan.MaxTrips; used++ {
		assert.True(t, CanCreateTrip(freeSubWithTrips(used)), "tripsUsed=%d should pass", used)
	}
	assert.False(t, CanCreateTrip(freeSubWithTrips(plan.MaxTrips)), "at the limit the gate closes")
	assert.False(t, CanCreateTrip(freeSubWithTrips(plan.MaxTrips+5)))
}

func TestCanCreateTrip_UnlimitedAlwaysPasses(t *testing.T) {
	for _, used := range []int{0, 1, 10, 10_000} {
		sub := Subscription{PlanID: PlanProIndividual, Status: SubscriptionActive, TripsUsed: used}
		assert.True(t, CanCreateTrip(sub), "tripsUsed=%d", used)
	}
}

func TestCanCreateTrip_UnlimitedIgnoresStatus(t *testing.T) {
	// Current policy: the gate does not look at status for unlimited
	// plans, so even canceled or past_due pro users pass.
	for _, status := range []SubscriptionStatus{
		SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionCanceled,
	} {
		sub := Subscription{PlanID: PlanProEnterprise, Status: status, TripsUsed: 500}
		assert.True(t, CanCreateTrip(sub), "status=%s", status)
	}
}

func TestCanCreateTrip_UnknownPlanFailsClosed(t *testing.T) {
	sub := Subscription{PlanID: PlanType("platinum"), Status: SubscriptionActive}
	assert.False(t, CanCreateTrip(sub))
}

func TestRemainingTrips(t *testing.T) {
	tests := []struct {
		name     string
		planID   PlanType
		used     int
		expected int
	}{
		{name: "free untouched", planID: PlanFree, used: 0, expected: 10},
		{name: "free partially used", planID: PlanFree, used: 7, expected: 3},
		{name: "free at limit", planID: PlanFree, used: 10, expected: 0},
		{name: "free over limit floors at zero", planID: PlanFree, used: 14, expected: 0},
		{name: "pro individual unlimited", planID: PlanProIndividual, used: 123, expected: Unlimited},
		{name: "pro enterprise unlimited", planID: PlanProEnterprise, used: 0, expected: Unlimited},
		{name: "unknown plan", planID: PlanType("bogus"), used: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Subscription{PlanID: tt.planID, TripsUsed: tt.used}
			assert.Equal(t, tt.expected, RemainingTrips(sub))
		})
	}
}

func TestUsageStatsFor_FreeUserAtBoundary(t *testing.T) {
	sub := freeSubWithTrips(9)
	user := &User{ID: "u1", Subscription: &sub, CreatedAt: time.Now()}

	stats := UsageStatsFor(user)
	assert.Equal(t, 9, stats.CurrentTripsCount)
	assert.Equal(t, 10, stats.MaxTripsAllowed)
	assert.Equal(t, 1, stats.RemainingTrips)
	assert.False(t, stats.IsLimitReached)

	// One more trip and the gate closes.
	sub.TripsUsed = 10
	stats = UsageStatsFor(user)
	assert.Equal(t, 0, stats.RemainingTrips)
	assert.True(t, stats.IsLimitReached)
}

func TestUsageStatsFor_MissingSubscriptionSynthesizesDefault(t *testing.T) {
	user := &User{ID: "legacy", CreatedAt: time.Now().AddDate(-1, 0, 0)}

	first := UsageStatsFor(user)
	second := UsageStatsFor(user)

	expected := UsageStats{
		CurrentTripsCount: 0,
		MaxTripsAllowed:   10,
		RemainingTrips:    10,
		IsLimitReached:    false,
	}
	assert.Equal(t, expected, first)
	assert.Equal(t, expected, second, "migration on read is idempotent")
	assert.Nil(t, user.Subscription, "input profile is not mutated")
}

func TestUsageStatsFor_NilUser(t *testing.T) {
	stats := UsageStatsFor(nil)
	assert.Equal(t, 10, stats.MaxTripsAllowed)
	assert.False(t, stats.IsLimitReached)
}

func TestIsEligibleForTrial(t *testing.T) {
	freeSub := NewDefaultSubscription()
	proSub := NewPaidSubscription(PlanProIndividual, "cst_1", "sub_1")

	tests := []struct {
		name     string
		age      time.Duration
		sub      *Subscription
		expected bool
	}{
		{name: "fresh free account", age: time.Hour, sub: &freeSub, expected: true},
		{name: "just under the window", age: 6*24*time.Hour + 23*time.Hour, sub: &freeSub, expected: true},
		{name: "just over the window", age: 7*24*time.Hour + time.Hour, sub: &freeSub, expected: false},
		{name: "paid plan never eligible", age: time.Hour, sub: &proSub, expected: false},
		{name: "legacy profile without subscription", age: time.Hour, sub: nil, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{
				ID:           "u1",
				Subscription: tt.sub,
				CreatedAt:    time.Now().Add(-tt.age),
			}
			assert.Equal(t, tt.expected, IsEligibleForTrial(user))
		})
	}

	assert.False(t, IsEligibleForTrial(nil))
}
