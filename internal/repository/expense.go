package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripflow/backend/internal/domain"
)

// ExpenseRepository handles database operations for expense notes.
type ExpenseRepository struct {
	db *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts a new expense note.
func (r *ExpenseRepository) Create(ctx context.Context, n *domain.ExpenseNote) error {
	query := `
		INSERT INTO expense_notes (id, trip_id, category, description, amount, expense_date, receipt_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.TripID, n.Category, n.Description, n.Amount, n.Date, n.ReceiptURL, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense note: %w", err)
	}
	return nil
}

// FindByID returns an expense note by ID, or nil when it does not exist.
func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*domain.ExpenseNote, error) {
	query := `
		SELECT id, trip_id, category, description, amount, expense_date, receipt_url, created_at
		FROM expense_notes WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)

	var n domain.ExpenseNote
	err := row.Scan(&n.ID, &n.TripID, &n.Category, &n.Description, &n.Amount, &n.Date, &n.ReceiptURL, &n.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find expense note: %w", err)
	}
	return &n, nil
}

// ListByTrip returns all expense notes of a trip ordered by expense date.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]domain.ExpenseNote, error) {
	query := `
		SELECT id, trip_id, category, description, amount, expense_date, receipt_url, created_at
		FROM expense_notes WHERE trip_id = $1 ORDER BY expense_date ASC
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.ExpenseNote
	for rows.Next() {
		var n domain.ExpenseNote
		if err := rows.Scan(&n.ID, &n.TripID, &n.Category, &n.Description, &n.Amount, &n.Date, &n.ReceiptURL, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Update rewrites the mutable fields of an expense note.
func (r *ExpenseRepository) Update(ctx context.Context, n *domain.ExpenseNote) error {
	query := `
		UPDATE expense_notes SET category = $1, description = $2, amount = $3, expense_date = $4, receipt_url = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, n.Category, n.Description, n.Amount, n.Date, n.ReceiptURL, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense note: %w", err)
	}
	return nil
}

// Delete removes an expense note.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM expense_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense note: %w", err)
	}
	return nil
}
