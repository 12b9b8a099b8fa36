package service

import (
	"context"
	"strings"
	"testing"

	"ecolabs/internal/mailer"
	"ecolabs/internal/store"
	"ecolabs/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// fakeDB satisfies store.DB and records every statement. Reads come
// back empty, so write flows run their create branches.
type fakeDB struct {
	queries []string
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.queries = append(db.queries, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.queries = append(db.queries, sql)
	return noRows{}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, sql)
	return noRow{}
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) contains(fragment string) bool {
	for _, q := range db.queries {
		if strings.Contains(q, fragment) {
			return true
		}
	}
	return false
}

type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(ctx context.Context) error   { return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

type noRows struct{}

func (noRows) Close()                                       {}
func (noRows) Err() error                                   { return nil }
func (noRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (noRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (noRows) Next() bool                                   { return false }
func (noRows) Scan(dest ...any) error                       { return nil }
func (noRows) Values() ([]any, error)                       { return nil, nil }
func (noRows) RawValues() [][]byte                          { return nil }
func (noRows) Conn() *pgx.Conn                              { return nil }

type noRow struct{}

func (noRow) Scan(dest ...any) error { return pgx.ErrNoRows }

func storeService(db *fakeDB) *Service {
	cfg := &types.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLHrs: 240,
	}
	logger := logrus.New()
	return New(store.New(db), nil, mailer.New(&types.Config{}), logger, cfg)
}

func TestAddLandownerSkipsEmptyDocument(t *testing.T) {
	db := &fakeDB{}
	svc := storeService(db)
	admin := types.Caller{ID: "a1", Role: types.RoleAdmin}

	input := AddLandownerInput{
		Name:         "Grace",
		Email:        "grace@example.com",
		PropertyName: "North Meadow",
		StartDate:    "2026-01-01",
	}

	result, err := svc.AddLandowner(context.Background(), admin, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewAccount {
		t.Fatal("expected a fresh account for an unknown email")
	}
	if !db.contains("INSERT INTO ecolabs.users") || !db.contains("INSERT INTO ecolabs.properties") {
		t.Fatalf("expected user and property inserts, got %v", db.queries)
	}
	if db.contains("INSERT INTO ecolabs.reports") {
		t.Fatalf("no baseline document should exist without files: %v", db.queries)
	}

	db.queries = nil
	input.Email = "hopper@example.com"
	input.Files = []types.FileMeta{{URL: "https://files.example.com/deed.pdf", Name: "deed.pdf"}}

	if _, err := svc.AddLandowner(context.Background(), admin, input); err != nil {
		t.Fatalf("unexpected error with files: %v", err)
	}
	if !db.contains("INSERT INTO ecolabs.reports") {
		t.Fatalf("expected the baseline document once files arrive: %v", db.queries)
	}
}
