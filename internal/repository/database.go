package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of *pgxpool.Pool the repository relies on.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// NewDatabase opens a connection pool and checks that the server answers.
func NewDatabase(host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     name,
		RawQuery: "sslmode=disable",
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS stores (
		id                  UUID PRIMARY KEY,
		name                TEXT NOT NULL,
		postal_code         TEXT NOT NULL DEFAULT '',
		prefecture          TEXT NOT NULL,
		city_town           TEXT NOT NULL DEFAULT '',
		street              TEXT NOT NULL DEFAULT '',
		building_line       TEXT NOT NULL DEFAULT '',
		latitude            DOUBLE PRECISION NOT NULL,
		longitude           DOUBLE PRECISION NOT NULL,
		coord_state         TEXT NOT NULL,
		geocode_label       TEXT NOT NULL DEFAULT '',
		geocode_provider    TEXT NOT NULL DEFAULT '',
		fab_available       BOOLEAN NOT NULL DEFAULT false,
		armory_available    BOOLEAN NOT NULL DEFAULT false,
		format_text         TEXT NOT NULL DEFAULT '',
		notes               TEXT NOT NULL DEFAULT '',
		author              TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'pending',
		resolution_attempts INTEGER NOT NULL DEFAULT 0,
		resolution_error    TEXT,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS stores_status_created_at_idx ON stores (status, created_at);

	CREATE TABLE IF NOT EXISTS comments (
		id             UUID PRIMARY KEY,
		store_id       UUID NOT NULL REFERENCES stores (id) ON DELETE CASCADE,
		commenter_name TEXT NOT NULL,
		content        TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		submitter_id   TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS comments_store_status_created_at_idx ON comments (store_id, status, created_at);
`

// EnsureSchema creates the stores and comments tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
