package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: NotFoundError("no such thing"), want: 404},
		{name: "conflict", err: ConflictError("duplicate"), want: 409},
		{name: "forbidden", err: ForbiddenError("nope"), want: 403},
		{name: "bad request", err: BadRequestError("missing field"), want: 400},
		{name: "sentinel user", err: ErrUserNotFound, want: 404},
		{name: "sentinel property wrapped", err: fmt.Errorf("lookup: %w", ErrPropertyNotFound), want: 404},
		{name: "sentinel assignment", err: ErrAssignmentNotFound, want: 404},
		{name: "status error wrapped", err: fmt.Errorf("outer: %w", ConflictError("dup")), want: 409},
		{name: "plain error", err: errors.New("boom"), want: 500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.err); got != tc.want {
				t.Fatalf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestTransactionError(t *testing.T) {
	cause := errors.New("db down")
	err := TransactionError(cause, "write failed")

	if !errors.Is(err, cause) {
		t.Fatal("expected cause preserved through Unwrap")
	}
	if err.Error() != "db down" {
		t.Fatalf("expected cause message surfaced, got %q", err.Error())
	}
	if StatusCode(err) != 500 {
		t.Fatalf("expected 500, got %d", StatusCode(err))
	}

	if TransactionError(nil, "write failed") != nil {
		t.Fatal("expected nil for nil cause")
	}

	conflict := ConflictError("duplicate bid")
	if got := TransactionError(conflict, "write failed"); StatusCode(got) != 409 || got.Error() != "duplicate bid" {
		t.Fatalf("expected client error passed through, got %v", got)
	}

	wrapped := fmt.Errorf("assign: %w", ErrUserNotFound)
	if got := TransactionError(wrapped, "write failed"); !errors.Is(got, ErrUserNotFound) || StatusCode(got) != 404 {
		t.Fatalf("expected 404 passed through, got %v (%d)", got, StatusCode(got))
	}
}
