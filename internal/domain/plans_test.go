package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailablePlans(t *testing.T) {
	plans := AvailablePlans()
	require.Len(t, plans, 3)

	byID := make(map[PlanType]Plan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}

	free := byID[PlanFree]
	assert.Equal(t, float64(0), free.Price)
	assert.Equal(t, 10, free.MaxTrips)
	assert.Equal(t, 1, free.MaxUsers)

	individual := byID[PlanProIndividual]
	assert.Equal(t, 9.99, individual.Price)
	assert.Equal(t, Unlimited, individual.MaxTrips)
	assert.Equal(t, 1, individual.MaxUsers)

	enterprise := byID[PlanProEnterprise]
	assert.Equal(t, float64(Unlimited), enterprise.Price)
	assert.Equal(t, Unlimited, enterprise.MaxTrips)
	assert.Equal(t, Unlimited, enterprise.MaxUsers)
}

func TestGetPlanByID(t *testing.T) {
	plan, ok := GetPlanByID(PlanProIndividual)
	require.True(t, ok)
	assert.Equal(t, "Pro Individual", plan.Name)

	_, ok = GetPlanByID(PlanType("gold"))
	assert.False(t, ok)

	_, ok = GetPlanByID(PlanType(""))
	assert.False(t, ok)
}
