package store

import (
	"context"
	"errors"
	"fmt"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Querier is the subset of pgxpool.Pool and pgx.Tx the repositories
// run against. Every repository method works unchanged inside a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is what a Store runs on: a Querier that can also open
// transactions. *pgxpool.Pool satisfies it.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store bundles the repositories over one database handle.
type Store struct {
	db DB

	Users       *UserRepository
	Properties  *PropertyRepository
	Bids        *BidRepository
	Reports     *ReportRepository
	Assignments *AssignmentRepository
	Tokens      *TokenRepository
}

func New(db DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Properties:  NewPropertyRepository(db),
		Bids:        NewBidRepository(db),
		Reports:     NewReportRepository(db),
		Assignments: NewAssignmentRepository(db),
		Tokens:      NewTokenRepository(db),
	}
}

// InTx runs fn against a Store whose repositories are bound to a single
// transaction. The transaction commits when fn returns nil and rolls
// back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txStore := &Store{
		db:          s.db,
		Users:       s.Users.withDB(tx),
		Properties:  s.Properties.withDB(tx),
		Bids:        s.Bids.withDB(tx),
		Reports:     s.Reports.withDB(tx),
		Assignments: s.Assignments.withDB(tx),
		Tokens:      s.Tokens.withDB(tx),
	}

	if err := fn(txStore); err != nil {
		return err
	}

	return utils.ErrorWrapOrNil(tx.Commit(ctx), "failed to commit transaction")
}

// isUniqueViolation reports whether err is a violated unique
// constraint. The constraints are the authoritative duplicate check;
// any pre-read a caller performs is an optimization only.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// conflictOr maps a unique violation to a 409 and wraps anything else.
func conflictOr(err error, conflictMsg, wrapMsg string) error {
	if isUniqueViolation(err) {
		return types.ConflictError("%s", conflictMsg)
	}
	return fmt.Errorf("%s: %w", wrapMsg, err)
}
