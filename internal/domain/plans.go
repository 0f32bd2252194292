package domain

// PlanType identifies a subscription tier. The set is closed; anything
// outside it is a programming error and decision functions fail closed.
type PlanType string

const (
	PlanFree          PlanType = "free"
	PlanProIndividual PlanType = "pro_individual"
	PlanProEnterprise PlanType = "pro_enterprise"
)

// Unlimited marks a quota with no upper bound (and a plan without a
// fixed price when used in the Price field).
const Unlimited = -1

// Plan represents a subscription tier with its quota and feature set.
type Plan struct {
	ID       PlanType `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`    // monthly price in EUR; 0 = free, -1 = contact us
	MaxTrips int      `json:"maxTrips"` // -1 = unlimited
	MaxUsers int      `json:"maxUsers"` // -1 = unlimited
	Features []string `json:"features"` // display only
}

// AvailablePlans returns the full plan catalog.
func AvailablePlans() []Plan {
	return []Plan{
		{
			ID:       PlanFree,
			Name:     "Free",
			Price:    0,
			MaxTrips: 10,
			MaxUsers: 1,
			Features: []string{
				"Up to 10 trips",
				"Unlimited expense notes",
				"PDF trip reports",
			},
		},
		{
			ID:       PlanProIndividual,
			Name:     "Pro Individual",
			Price:    9.99,
			MaxTrips: Unlimited,
			MaxUsers: 1,
			Features: []string{
				"Unlimited trips",
				"Unlimited expense notes",
				"PDF trip reports",
				"Email reports with receipt attachments",
				"Priority support",
			},
		},
		{
			ID:       PlanProEnterprise,
			Name:     "Pro Enterprise",
			Price:    Unlimited,
			MaxTrips: Unlimited,
			MaxUsers: Unlimited,
			Features: []string{
				"Everything in Pro Individual",
				"Unlimited collaborators",
				"Centralized billing",
				"Dedicated support",
			},
		},
	}
}

// GetPlanByID looks up a plan in the catalog. The boolean reports whether
// the plan exists; callers treat a miss as a defensive guard, not a
// user-facing error.
func GetPlanByID(id PlanType) (Plan, bool) {
	for _, p := range AvailablePlans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
