package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ecolabs/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// recordingDB captures every generated statement. Count queries report
// zero rows and listings come back empty, which is enough to assert on
// the SQL the repositories produce.
type recordingDB struct {
	queries []string
}

func (db *recordingDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.queries = append(db.queries, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *recordingDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.queries = append(db.queries, sql)
	if strings.HasPrefix(sql, "SELECT COUNT(*)") {
		return &countRows{}, nil
	}
	return emptyRows{}, nil
}

func (db *recordingDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, sql)
	return emptyRow{}
}

func (db *recordingDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &recordingTx{db: db}, nil
}

func (db *recordingDB) contains(fragment string) bool {
	for _, q := range db.queries {
		if strings.Contains(q, fragment) {
			return true
		}
	}
	return false
}

func (db *recordingDB) last() string {
	if len(db.queries) == 0 {
		return ""
	}
	return db.queries[len(db.queries)-1]
}

// recordingTx routes statements back to the recording handle; commit
// and rollback are no-ops. The embedded interface covers the rest of
// pgx.Tx, which these tests never touch.
type recordingTx struct {
	pgx.Tx
	db *recordingDB
}

func (t *recordingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *recordingTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *recordingTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *recordingTx) Commit(ctx context.Context) error   { return nil }
func (t *recordingTx) Rollback(ctx context.Context) error { return nil }

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...any) error                       { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

// countRows is a single zero-valued count row.
type countRows struct {
	emptyRows
	done bool
}

func (r *countRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "count"}}
}

func (r *countRows) Next() bool {
	if r.done {
		return false
	}
	r.done = true
	return true
}

func (r *countRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if p, ok := dest[0].(*int64); ok {
			*p = 0
		}
	}
	return nil
}

type emptyRow struct{}

func (emptyRow) Scan(dest ...any) error { return pgx.ErrNoRows }

func TestConflictOr(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	err := conflictOr(dup, "slot is 100% taken", "failed to assign")

	var se *types.StatusError
	if !errors.As(err, &se) || se.Code != 409 {
		t.Fatalf("expected 409 for unique violation, got %v", err)
	}
	if se.Message != "slot is 100% taken" {
		t.Fatalf("conflict message mangled: %q", se.Message)
	}

	plain := errors.New("connection reset")
	wrapped := conflictOr(plain, "duplicate", "failed to assign")
	if !errors.Is(wrapped, plain) {
		t.Fatalf("expected cause preserved, got %v", wrapped)
	}
	if types.StatusCode(wrapped) != 500 {
		t.Fatalf("non-unique failures stay internal, got %d", types.StatusCode(wrapped))
	}
}

func TestResearchersFixedOrder(t *testing.T) {
	db := &recordingDB{}
	repo := NewUserRepository(db)

	_, err := repo.Researchers(context.Background(), types.Caller{ID: "a1", Role: types.RoleAdmin}, ListParams{Sort: "email:desc", Search: "ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listing := db.last()
	if !strings.Contains(listing, "ORDER BY CASE WHEN u.status = 'pending' THEN 0 ELSE 1 END ASC, u.name ASC") {
		t.Fatalf("expected pending-first name order, got %q", listing)
	}
	if strings.Contains(listing, "u.email DESC") {
		t.Fatalf("requested sort must not override the fixed order: %q", listing)
	}
	if !strings.Contains(listing, "u.phone ILIKE") {
		t.Fatalf("expected phone among search columns: %q", listing)
	}
	if strings.Contains(listing, "u.university_name ILIKE") {
		t.Fatalf("university name is not a search column: %q", listing)
	}
}

func TestPropertiesListingHidesArchived(t *testing.T) {
	ctx := context.Background()

	for _, role := range []types.Role{types.RoleLandowner, types.RoleResearcher, types.RoleUniversity} {
		db := &recordingDB{}
		repo := NewPropertyRepository(db)

		if _, err := repo.Properties(ctx, types.Caller{ID: "u1", Role: role}, ListParams{}); err != nil {
			t.Fatalf("%s: unexpected error: %v", role, err)
		}
		if !strings.Contains(db.last(), "p.archived = $") {
			t.Fatalf("%s caller must only see active properties: %q", role, db.last())
		}
	}

	db := &recordingDB{}
	repo := NewPropertyRepository(db)
	if _, err := repo.Properties(ctx, types.Caller{ID: "a1", Role: types.RoleAdmin}, ListParams{}); err != nil {
		t.Fatalf("admin: unexpected error: %v", err)
	}
	if strings.Contains(db.last(), "p.archived = $") {
		t.Fatalf("admin listing must include archived properties: %q", db.last())
	}
}

func TestResearcherReportsHideArchived(t *testing.T) {
	db := &recordingDB{}
	repo := NewReportRepository(db)

	_, err := repo.ResearcherReports(context.Background(), types.Caller{ID: "r1", Role: types.RoleResearcher}, "r1", ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.last(), "rr.archived = false") {
		t.Fatalf("archived deliverables leak into the nested array: %q", db.last())
	}
	if !strings.Contains(db.last(), "p.archived = $") {
		t.Fatalf("archived properties leak into the listing: %q", db.last())
	}
}

func TestInTxCommits(t *testing.T) {
	db := &recordingDB{}
	st := New(db)

	err := st.InTx(context.Background(), func(tx *Store) error {
		return tx.Properties.SetArchived(context.Background(), "p1", true)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.contains("UPDATE ecolabs.properties") {
		t.Fatalf("expected the update to run through the transaction, got %v", db.queries)
	}

	boom := errors.New("boom")
	err = st.InTx(context.Background(), func(tx *Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error surfaced, got %v", err)
	}
}
