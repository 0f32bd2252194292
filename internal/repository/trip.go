package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripflow/backend/internal/domain"
)

// TripRepository handles database operations for trips.
type TripRepository struct {
	db *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a new trip.
func (r *TripRepository) Create(ctx context.Context, t *domain.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, title, destination, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.Title, t.Destination, t.StartDate, t.EndDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// FindByID returns a trip by ID, or nil when it does not exist.
func (r *TripRepository) FindByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, user_id, title, destination, start_date, end_date, created_at, updated_at
		FROM trips WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)

	var t domain.Trip
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}
	return &t, nil
}

// ListByUser returns all trips belonging to a user, newest first.
func (r *TripRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Trip, error) {
	query := `
		SELECT id, user_id, title, destination, start_date, end_date, created_at, updated_at
		FROM trips WHERE user_id = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, &t)
	}
	return trips, nil
}

// Update rewrites the mutable fields of a trip.
func (r *TripRepository) Update(ctx context.Context, t *domain.Trip) error {
	query := `
		UPDATE trips SET title = $1, destination = $2, start_date = $3, end_date = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, t.Title, t.Destination, t.StartDate, t.EndDate, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

// Delete removes a trip; its expense notes cascade.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// CountAll returns the total number of trips (admin stats).
func (r *TripRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}
