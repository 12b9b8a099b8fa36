package types

import (
	"testing"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page        int
		limit       int
		wantPages   int
		wantNext    *int
		wantPrev    *int
		wantHasNext bool
		wantHasPrev bool
	}{
		{name: "empty", total: 0, page: 1, limit: 10, wantPages: 1},
		{name: "single page", total: 7, page: 1, limit: 10, wantPages: 1},
		{name: "exact boundary", total: 20, page: 1, limit: 10, wantPages: 2, wantHasNext: true, wantNext: ptr(2)},
		{name: "middle page", total: 35, page: 2, limit: 10, wantPages: 4, wantHasNext: true, wantNext: ptr(3), wantHasPrev: true, wantPrev: ptr(1)},
		{name: "last page", total: 35, page: 4, limit: 10, wantPages: 4, wantHasPrev: true, wantPrev: ptr(3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage([]string{}, tc.total, tc.page, tc.limit)

			if p.TotalPages != tc.wantPages {
				t.Fatalf("expected %d total pages, got %d", tc.wantPages, p.TotalPages)
			}
			if p.HasNextPage != tc.wantHasNext {
				t.Fatalf("expected hasNextPage=%v, got %v", tc.wantHasNext, p.HasNextPage)
			}
			if p.HasPrevPage != tc.wantHasPrev {
				t.Fatalf("expected hasPrevPage=%v, got %v", tc.wantHasPrev, p.HasPrevPage)
			}
			if !eqIntPtr(p.NextPage, tc.wantNext) {
				t.Fatalf("expected nextPage=%v, got %v", fmtPtr(tc.wantNext), fmtPtr(p.NextPage))
			}
			if !eqIntPtr(p.PrevPage, tc.wantPrev) {
				t.Fatalf("expected prevPage=%v, got %v", fmtPtr(tc.wantPrev), fmtPtr(p.PrevPage))
			}
		})
	}
}

func TestNewPageNilItems(t *testing.T) {
	p := NewPage[string](nil, 0, 1, 10)
	if p.Items == nil {
		t.Fatal("items should be an empty slice, not nil")
	}
}

func TestPageEnvelope(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 12, 1, 10)

	env := p.Envelope("properties")

	items, ok := env["properties"].([]string)
	if !ok {
		t.Fatalf("expected items under the domain key, got %T", env["properties"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if env["totalItems"] != int64(12) {
		t.Fatalf("expected totalItems 12, got %v", env["totalItems"])
	}
	if env["totalPages"] != 2 {
		t.Fatalf("expected totalPages 2, got %v", env["totalPages"])
	}
	if env["hasNextPage"] != true {
		t.Fatal("expected hasNextPage true")
	}
}

func ptr(v int) *int { return &v }

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
