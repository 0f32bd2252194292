package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentEvent is an audit record of a webhook delivery from the payment
// provider. Every delivery is recorded, even ones we could not process,
// since the endpoint always answers 200.
type PaymentEvent struct {
	ID         string    `json:"id"`
	PaymentID  string    `json:"paymentId"`
	Status     string    `json:"status"`
	UserID     string    `json:"userId,omitempty"`
	PlanID     string    `json:"planId,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// PaymentEventRepository handles database operations for the payment
// webhook audit log.
type PaymentEventRepository struct {
	db *pgxpool.Pool
}

// NewPaymentEventRepository creates a new PaymentEventRepository.
func NewPaymentEventRepository(db *pgxpool.Pool) *PaymentEventRepository {
	return &PaymentEventRepository{db: db}
}

// Record appends a webhook delivery to the audit log.
func (r *PaymentEventRepository) Record(ctx context.Context, e *PaymentEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now()
	}
	query := `
		INSERT INTO payment_events (id, payment_id, status, user_id, plan_id, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, e.ID, e.PaymentID, e.Status, e.UserID, e.PlanID, e.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to record payment event: %w", err)
	}
	return nil
}

// ListByPaymentID returns all recorded deliveries for a payment, oldest first.
func (r *PaymentEventRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]PaymentEvent, error) {
	query := `
		SELECT id, payment_id, status, COALESCE(user_id, ''), COALESCE(plan_id, ''), received_at
		FROM payment_events WHERE payment_id = $1 ORDER BY received_at ASC
	`
	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", err)
	}
	defer rows.Close()

	var events []PaymentEvent
	for rows.Next() {
		var e PaymentEvent
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.Status, &e.UserID, &e.PlanID, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
