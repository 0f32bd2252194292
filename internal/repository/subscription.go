package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/pkg/crypto"
)

// SubscriptionRepository handles database operations for subscriptions.
// Payment provider references are encrypted at rest.
type SubscriptionRepository struct {
	db  *pgxpool.Pool
	enc *crypto.Encryptor
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *pgxpool.Pool, enc *crypto.Encryptor) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, enc: enc}
}

// Upsert inserts or replaces the subscription record for a user.
func (r *SubscriptionRepository) Upsert(ctx context.Context, userID string, sub *domain.Subscription) error {
	custID, err := r.encryptRef(sub.MollieCustomerID)
	if err != nil {
		return err
	}
	subID, err := r.encryptRef(sub.MollieSubscriptionID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO subscriptions (user_id, plan_id, status, current_period_start, current_period_end,
			trips_used, mollie_customer_id, mollie_subscription_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			trips_used = EXCLUDED.trips_used,
			mollie_customer_id = EXCLUDED.mollie_customer_id,
			mollie_subscription_id = EXCLUDED.mollie_subscription_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		userID, sub.PlanID, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.TripsUsed, custID, subID, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// FindByUserID returns the subscription for a user, or nil when the user
// has no record yet (legacy profiles).
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	query := `
		SELECT plan_id, status, current_period_start, current_period_end,
			trips_used, mollie_customer_id, mollie_subscription_id, created_at, updated_at
		FROM subscriptions WHERE user_id = $1
	`
	row := r.db.QueryRow(ctx, query, userID)

	var sub domain.Subscription
	var custID, subID *string
	err := row.Scan(
		&sub.PlanID, &sub.Status, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
		&sub.TripsUsed, &custID, &subID, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	if sub.MollieCustomerID, err = r.decryptRef(custID); err != nil {
		return nil, err
	}
	if sub.MollieSubscriptionID, err = r.decryptRef(subID); err != nil {
		return nil, err
	}
	return &sub, nil
}

// IncrementTripsUsed bumps the cumulative trip counter by one. The counter
// is never decremented; trip deletion does not call this in reverse.
func (r *SubscriptionRepository) IncrementTripsUsed(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET trips_used = trips_used + 1, updated_at = NOW() WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment trips used: %w", err)
	}
	return nil
}

// UpdatePlan changes only the plan and status of a subscription, leaving
// the usage counter and billing period untouched (downgrade semantics).
func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, userID string, planID domain.PlanType, status domain.SubscriptionStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET plan_id = $1, status = $2, updated_at = NOW() WHERE user_id = $3`,
		planID, status, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription plan: %w", err)
	}
	return nil
}

// CountActive returns the number of active or trialing subscriptions on
// paid plans.
func (r *SubscriptionRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE status IN ('active', 'trialing') AND plan_id <> 'free'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) encryptRef(ref string) (*string, error) {
	if ref == "" {
		return nil, nil
	}
	enc, err := r.enc.Encrypt([]byte(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt provider reference: %w", err)
	}
	return &enc, nil
}

func (r *SubscriptionRepository) decryptRef(ref *string) (string, error) {
	if ref == nil || *ref == "" {
		return "", nil
	}
	plain, err := r.enc.Decrypt(*ref)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt provider reference: %w", err)
	}
	return string(plain), nil
}
