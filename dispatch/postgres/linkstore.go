package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* PostgreSQL implementation of dispatch.LinkStore
 * The remote message id lives as a nullable column on the domain table
 * itself rather than in a join table: an entity owns at most one remote
 * message, and the link dies with the row.
 */

// ErrEntityNotFound signals the entity row the link belongs to is gone
var ErrEntityNotFound = errors.New("entity not found")

// Querier is the subset of pgxpool.Pool the store needs.
// Declared here so unit tests can substitute a pgxmock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type LinkStore struct {
	DB    Querier
	table string
}

// NewLinkStore wires the store to the domain table carrying the
// remote_message_id column. The table name is validated because it is
// interpolated into SQL.
func NewLinkStore(db Querier, table string) (*LinkStore, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &LinkStore{DB: db, table: table}, nil
}

func (s *LinkStore) Get(ctx context.Context, entityID string) (string, error) {
	query := fmt.Sprintf(`SELECT remote_message_id FROM %s WHERE id = $1`, s.table)

	var messageID *string
	err := s.DB.QueryRow(ctx, query, entityID).Scan(&messageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrEntityNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading message link: %w", err)
	}
	if messageID == nil {
		return "", nil
	}
	return *messageID, nil
}

func (s *LinkStore) Set(ctx context.Context, entityID, messageID string) error {
	query := fmt.Sprintf(`UPDATE %s SET remote_message_id = $2 WHERE id = $1`, s.table)

	tag, err := s.DB.Exec(ctx, query, entityID, messageID)
	if err != nil {
		return fmt.Errorf("storing message link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func (s *LinkStore) Clear(ctx context.Context, entityID string) error {
	query := fmt.Sprintf(`UPDATE %s SET remote_message_id = NULL WHERE id = $1`, s.table)

	tag, err := s.DB.Exec(ctx, query, entityID)
	if err != nil {
		return fmt.Errorf("clearing message link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntityNotFound
	}
	return nil
}
