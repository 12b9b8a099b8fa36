package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"ecolabs/internal/store"
	"ecolabs/pkg/types"
)

func TestListParamsFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, params store.ListParams)
	}{
		{
			name:  "defaults",
			query: "",
			check: func(t *testing.T, p store.ListParams) {
				if p.Page != 0 || p.Limit != 0 {
					t.Fatalf("expected zero page/limit before normalization, got %d/%d", p.Page, p.Limit)
				}
				if p.Archived != nil || p.Assigned != nil {
					t.Fatal("absent tri-state filters should stay nil")
				}
				if p.All {
					t.Fatal("export flag should default off")
				}
			},
		},
		{
			name:  "paging and search",
			query: "page=3&limit=25&search=forest&sort=name:desc&status=pending",
			check: func(t *testing.T, p store.ListParams) {
				if p.Page != 3 || p.Limit != 25 {
					t.Fatalf("expected page 3 limit 25, got %d/%d", p.Page, p.Limit)
				}
				if p.Search != "forest" || p.Sort != "name:desc" || p.Status != "pending" {
					t.Fatalf("unexpected filters: %+v", p)
				}
			},
		},
		{
			name:  "archived false is a filter",
			query: "isArchived=false",
			check: func(t *testing.T, p store.ListParams) {
				if p.Archived == nil || *p.Archived {
					t.Fatal("expected archived filter set to false")
				}
			},
		},
		{
			name:  "assigned true",
			query: "isAssigned=true",
			check: func(t *testing.T, p store.ListParams) {
				if p.Assigned == nil || !*p.Assigned {
					t.Fatal("expected assigned filter set to true")
				}
			},
		},
		{
			name:  "garbage bool ignored",
			query: "isArchived=maybe&page=abc",
			check: func(t *testing.T, p store.ListParams) {
				if p.Archived != nil {
					t.Fatal("unparseable bool should leave the filter unset")
				}
				if p.Page != 0 {
					t.Fatalf("unparseable page should stay zero, got %d", p.Page)
				}
			},
		},
		{
			name:  "export requests everything",
			query: "isExport=true",
			check: func(t *testing.T, p store.ListParams) {
				if !p.All {
					t.Fatal("expected export flag")
				}
			},
		},
		{
			name:  "export false is not export",
			query: "isExport=false",
			check: func(t *testing.T, p store.ListParams) {
				if p.All {
					t.Fatal("isExport=false must not request everything")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url := "/api/properties"
			if tc.query != "" {
				url += "?" + tc.query
			}
			r := httptest.NewRequest("GET", url, nil)
			tc.check(t, listParamsFromRequest(r))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"test"}`))
	if err := decodeJSON(r, &dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Name != "test" {
		t.Fatalf("expected name decoded, got %q", dst.Name)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`not json`))
	err := decodeJSON(r, &dst)
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
	if types.StatusCode(err) != 400 {
		t.Fatalf("expected 400, got %d", types.StatusCode(err))
	}
}
