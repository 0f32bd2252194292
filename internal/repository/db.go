package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the initial schema migration.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			role       TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

		CREATE TABLE IF NOT EXISTS subscriptions (
			user_id                TEXT PRIMARY KEY,
			plan_id                TEXT NOT NULL DEFAULT 'free',
			status                 TEXT NOT NULL DEFAULT 'active',
			current_period_start   TIMESTAMPTZ NOT NULL,
			current_period_end     TIMESTAMPTZ NOT NULL,
			trips_used             INT NOT NULL DEFAULT 0 CHECK (trips_used >= 0),
			mollie_customer_id     TEXT,
			mollie_subscription_id TEXT,
			created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS trips (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			destination TEXT NOT NULL,
			start_date  TIMESTAMPTZ NOT NULL,
			end_date    TIMESTAMPTZ NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id);

		CREATE TABLE IF NOT EXISTS expense_notes (
			id           TEXT PRIMARY KEY,
			trip_id      TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			category     TEXT NOT NULL,
			description  TEXT,
			amount       DOUBLE PRECISION NOT NULL,
			expense_date TIMESTAMPTZ NOT NULL,
			receipt_url  TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_expense_notes_trip_id ON expense_notes(trip_id);

		CREATE TABLE IF NOT EXISTS payment_events (
			id          TEXT PRIMARY KEY,
			payment_id  TEXT NOT NULL,
			status      TEXT NOT NULL,
			user_id     TEXT,
			plan_id     TEXT,
			received_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_payment_events_payment_id ON payment_events(payment_id);
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
