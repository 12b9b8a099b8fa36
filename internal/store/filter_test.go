package store

import (
	"testing"
)

func TestListParamsNormalized(t *testing.T) {
	tests := []struct {
		name      string
		params    ListParams
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", params: ListParams{}, wantPage: 1, wantLimit: 10},
		{name: "negative page", params: ListParams{Page: -3, Limit: 25}, wantPage: 1, wantLimit: 25},
		{name: "zero limit", params: ListParams{Page: 4}, wantPage: 4, wantLimit: 10},
		{name: "passthrough", params: ListParams{Page: 2, Limit: 50}, wantPage: 2, wantLimit: 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.params.normalized()
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("expected page=%d limit=%d, got page=%d limit=%d",
					tc.wantPage, tc.wantLimit, got.Page, got.Limit)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	allowed := map[string]string{
		"name":      "u.name",
		"createdAt": "u.created_at",
	}
	fallback := "u.created_at DESC"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty falls back", raw: "", want: fallback},
		{name: "unknown field falls back", raw: "password:asc", want: fallback},
		{name: "ascending", raw: "name:asc", want: "u.name ASC"},
		{name: "descending", raw: "createdAt:desc", want: "u.created_at DESC"},
		{name: "case-insensitive direction", raw: "name:DESC", want: "u.name DESC"},
		{name: "missing direction defaults asc", raw: "name", want: "u.name ASC"},
		{name: "garbage direction defaults asc", raw: "name:sideways", want: "u.name ASC"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSort(tc.raw, allowed, fallback)
			if got != tc.want {
				t.Fatalf("parseSort(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSearchCondition(t *testing.T) {
	sql, args, err := searchCondition("forest", "p.property_name", "u.name").ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "(p.property_name ILIKE ? OR u.name ILIKE ?)"
	if sql != want {
		t.Fatalf("expected %q, got %q", want, sql)
	}

	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	for _, arg := range args {
		if arg != "%forest%" {
			t.Fatalf("expected pattern %%forest%%, got %v", arg)
		}
	}
}
