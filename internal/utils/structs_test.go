package utils

import (
	"errors"
	"reflect"
	"testing"
)

type taggedRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Skipped string `db:"-"`
	NoTag   string
	private string `db:"private"`
}

func TestStructTagValues(t *testing.T) {
	row := taggedRow{ID: "abc", Name: "test", private: "x"}

	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{name: "struct value", input: row, want: []string{"id", "name"}},
		{name: "struct pointer", input: &row, want: []string{"id", "name"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StructTagValues(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestStructTagValuesPanicsOnNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-struct input")
		}
	}()
	StructTagValues("not a struct")
}

func TestStructToMap(t *testing.T) {
	row := taggedRow{ID: "abc", Name: "test", Skipped: "drop", NoTag: "drop", private: "drop"}

	got := StructToMap(&row)

	want := map[string]any{"id": "abc", "name": "test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestErrorWrapOrNil(t *testing.T) {
	if err := ErrorWrapOrNil(nil, "context"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	base := errors.New("boom")

	wrapped := ErrorWrapOrNil(base, "failed to do thing")
	if wrapped.Error() != "failed to do thing: boom" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("wrapped error should preserve the cause")
	}

	if err := ErrorWrapOrNil(base, ""); err != base {
		t.Fatalf("empty message should return the error unchanged, got %v", err)
	}
}
