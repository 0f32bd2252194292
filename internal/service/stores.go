package service

import (
	"context"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repository"
)

// Store interfaces consumed by the services. The pgx-backed repositories
// satisfy them; tests substitute in-memory fakes.

// UserStore persists user profiles.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionStore persists per-user subscription records.
type SubscriptionStore interface {
	Upsert(ctx context.Context, userID string, sub *domain.Subscription) error
	FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
	IncrementTripsUsed(ctx context.Context, userID string) error
	UpdatePlan(ctx context.Context, userID string, planID domain.PlanType, status domain.SubscriptionStatus) error
}

// TripStore persists trips.
type TripStore interface {
	Create(ctx context.Context, t *domain.Trip) error
	FindByID(ctx context.Context, id string) (*domain.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Trip, error)
	Update(ctx context.Context, t *domain.Trip) error
	Delete(ctx context.Context, id string) error
}

// ExpenseStore persists expense notes.
type ExpenseStore interface {
	Create(ctx context.Context, n *domain.ExpenseNote) error
	FindByID(ctx context.Context, id string) (*domain.ExpenseNote, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.ExpenseNote, error)
	Update(ctx context.Context, n *domain.ExpenseNote) error
	Delete(ctx context.Context, id string) error
}

// PaymentEventStore records webhook deliveries.
type PaymentEventStore interface {
	Record(ctx context.Context, e *repository.PaymentEvent) error
}
