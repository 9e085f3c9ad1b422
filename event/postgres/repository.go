package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JSONbored/directory-relay/event"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

/* PostgreSQL implementation of event.Repository
 * The UNIQUE (source, idempotency_key) index is the load-bearing schema
 * element: concurrent deliveries of the same event race to insert and the
 * database decides which one wins. No application-level locking is used.
 * Postgres treats NULLs as distinct in unique indexes, so events without
 * an idempotency key are never deduplicated, matching the contract.
 */

// uniqueViolation is the SQLSTATE code raised on a unique index conflict
const uniqueViolation = "23505"

// Querier is the subset of pgxpool.Pool the repository needs.
// Declared here so unit tests can substitute a pgxmock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	DB   Querier
	pool *pgxpool.Pool
}

// NewRepository opens a connection pool against the given DSN
func NewRepository(ctx context.Context, connString string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Repository{DB: pool, pool: pool}, nil
}

// Pool exposes the underlying connection pool so other stores can share it
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// Store inserts an event, relying on the unique index for deduplication
func (r *Repository) Store(ctx context.Context, ev event.InboundEvent) (string, error) {
	query := `
		INSERT INTO inbound_events
			(id, source, direction, type, payload, idempotency_key, received_at, processed, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.Exec(ctx, query,
		ev.ID,
		ev.Source.String(),
		ev.Direction.String(),
		ev.Type,
		ev.Payload,
		ev.IdempotencyKey,
		ev.ReceivedAt,
		ev.Processed,
		ev.RetryCount,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", event.ErrDuplicate
		}
		return "", fmt.Errorf("inserting event: %w", err)
	}

	return ev.ID, nil
}

// Get retrieves an event by ID
func (r *Repository) Get(ctx context.Context, id string) (event.InboundEvent, error) {
	query := `
		SELECT id, source, direction, type, payload, idempotency_key,
		       received_at, processed, error, retry_count, next_retry_at
		FROM inbound_events
		WHERE id = $1
	`

	ev, err := scanEvent(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return event.InboundEvent{}, event.ErrNotFound
	}
	if err != nil {
		return event.InboundEvent{}, fmt.Errorf("selecting event: %w", err)
	}

	return ev, nil
}

// GetBySource retrieves the most recent events for a sender
func (r *Repository) GetBySource(ctx context.Context, source event.Source, limit int) ([]event.InboundEvent, error) {
	query := `
		SELECT id, source, direction, type, payload, idempotency_key,
		       received_at, processed, error, retry_count, next_retry_at
		FROM inbound_events
		WHERE source = $1
		ORDER BY received_at DESC
		LIMIT $2
	`

	rows, err := r.DB.Query(ctx, query, source.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("selecting events: %w", err)
	}
	defer rows.Close()

	var events []event.InboundEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// StatusCounts groups stored events by lifecycle state
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT
			CASE
				WHEN processed THEN 'processed'
				WHEN error IS NOT NULL THEN 'failed'
				ELSE 'pending'
			END AS status,
			COUNT(*)
		FROM inbound_events
		GROUP BY 1
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}

	return counts, nil
}

// MarkProcessed flips the processed flag and clears any prior error
func (r *Repository) MarkProcessed(ctx context.Context, id string) error {
	query := `
		UPDATE inbound_events
		SET processed = TRUE, error = NULL, next_retry_at = NULL
		WHERE id = $1
	`

	tag, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrNotFound
	}

	return nil
}

// MarkFailed records a delivery failure and schedules the next attempt
func (r *Repository) MarkFailed(ctx context.Context, id string, cause string, nextRetryAt time.Time) error {
	query := `
		UPDATE inbound_events
		SET error = $2, retry_count = retry_count + 1, next_retry_at = $3
		WHERE id = $1
	`

	tag, err := r.DB.Exec(ctx, query, id, cause, nextRetryAt)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return event.ErrNotFound
	}

	return nil
}

// Close releases the connection pool
func (r *Repository) Close(ctx context.Context) error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// CreateTable creates the inbound_events table (useful for tests)
func (r *Repository) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS inbound_events (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			direction TEXT NOT NULL,
			type TEXT NOT NULL,
			payload JSONB NOT NULL,
			idempotency_key TEXT,
			received_at TIMESTAMPTZ NOT NULL,
			processed BOOLEAN NOT NULL DEFAULT FALSE,
			error TEXT,
			retry_count INT NOT NULL DEFAULT 0,
			next_retry_at TIMESTAMPTZ,
			UNIQUE (source, idempotency_key)
		)
	`

	if _, err := r.DB.Exec(ctx, query); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	return nil
}

// DropTable removes the inbound_events table (useful for tests)
func (r *Repository) DropTable(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, "DROP TABLE IF EXISTS inbound_events CASCADE"); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}

	return nil
}

func scanEvent(row pgx.Row) (event.InboundEvent, error) {
	var ev event.InboundEvent
	var source, direction string

	err := row.Scan(
		&ev.ID,
		&source,
		&direction,
		&ev.Type,
		&ev.Payload,
		&ev.IdempotencyKey,
		&ev.ReceivedAt,
		&ev.Processed,
		&ev.Error,
		&ev.RetryCount,
		&ev.NextRetryAt,
	)
	if err != nil {
		return event.InboundEvent{}, err
	}

	ev.Source = event.NewSource(source)
	ev.Direction = event.NewDirection(direction)

	return ev, nil
}
