package store

import (
	"strings"
	"testing"
)

func TestNoteExpr(t *testing.T) {
	note, updatedBy := noteExpr(true, "u")
	if note != "u.note" || !strings.Contains(updatedBy, "u.note_updated_by") {
		t.Fatalf("unexpected admin projection: %q %q", note, updatedBy)
	}

	note, updatedBy = noteExpr(false, "u")
	if !strings.HasPrefix(note, "NULL::text") || !strings.HasPrefix(updatedBy, "NULL::text") {
		t.Fatalf("non-admin must project NULL, got %q %q", note, updatedBy)
	}
	if strings.Contains(note, "u.note") {
		t.Fatalf("non-admin projection must not reference the column: %q", note)
	}
}

func TestNoteJSONPairs(t *testing.T) {
	admin := noteJSONPairs(true, "p")
	if !strings.Contains(admin, "p.note") || !strings.Contains(admin, "p.note_updated_by") {
		t.Fatalf("admin pairs should read the columns: %q", admin)
	}

	public := noteJSONPairs(false, "p")
	if strings.Contains(public, "p.note") {
		t.Fatalf("non-admin pairs must not read the columns: %q", public)
	}
	if !strings.Contains(public, "'note', NULL") {
		t.Fatalf("non-admin pairs should project NULL: %q", public)
	}
}

func TestLandownerPropertiesArray(t *testing.T) {
	sql := landownerPropertiesArray(false, "u.id")

	if !strings.Contains(sql, "p.landowner_id = u.id") {
		t.Fatalf("expected correlation on landowner id: %q", sql)
	}
	if !strings.Contains(sql, "'[]'::jsonb") {
		t.Fatalf("expected empty-array fallback: %q", sql)
	}
	for _, key := range []string{"'propertyName'", "'propertyLocation'", "'startDate'", "'docs'"} {
		if !strings.Contains(sql, key) {
			t.Fatalf("missing key %s in %q", key, sql)
		}
	}
	if strings.Contains(sql, "p.note,") {
		t.Fatalf("non-admin shape must not expose notes: %q", sql)
	}
}

func TestArchivedGate(t *testing.T) {
	if got := archivedGate(true, "rd"); got != "" {
		t.Fatalf("admins see everything, got %q", got)
	}
	if got := archivedGate(false, "rd"); got != " AND rd.archived = false" {
		t.Fatalf("unexpected non-admin predicate: %q", got)
	}
}

func TestFragmentsHideArchivedFromNonAdmins(t *testing.T) {
	fragments := map[string]func(bool) string{
		"doc object": func(isAdmin bool) string { return propertyDocObject(isAdmin, "p.id") },
		"doc files":  func(isAdmin bool) string { return propertyDocFiles(isAdmin, "p.id") },
		"landowner properties": func(isAdmin bool) string {
			return landownerPropertiesArray(isAdmin, "u.id")
		},
		"property details": func(isAdmin bool) string {
			return propertyDetailsObject(isAdmin, "pr.property_id", "property")
		},
	}

	for name, build := range fragments {
		if !strings.Contains(build(false), ".archived = false") {
			t.Fatalf("%s leaks archived rows to non-admins: %q", name, build(false))
		}
		if strings.Contains(build(true), ".archived = false") {
			t.Fatalf("%s must not filter for admins: %q", name, build(true))
		}
	}

	// The landowner shape nests documents inside properties; both
	// levels have to carry the gate.
	nested := landownerPropertiesArray(false, "u.id")
	if strings.Count(nested, ".archived = false") < 2 {
		t.Fatalf("expected the gate on properties and their documents: %q", nested)
	}
}

func TestLandownerAssignedExpr(t *testing.T) {
	for _, want := range []string{
		"ecolabs.reports",
		"landowner_document",
		"jsonb_array_length(ar.files) > 0",
		"ap.landowner_id = u.id",
	} {
		if !strings.Contains(landownerAssignedExpr, want) {
			t.Fatalf("missing %q in %q", want, landownerAssignedExpr)
		}
	}
	if strings.Contains(landownerAssignedExpr, "property_researchers") {
		t.Fatalf("assigned derives from documents, not assignment rows: %q", landownerAssignedExpr)
	}
}

func TestBidStatusCount(t *testing.T) {
	sql := bidStatusCount("u.id", "pending", "pending")

	if !strings.Contains(sql, "b.researcher_id = u.id") {
		t.Fatalf("expected correlation on researcher id: %q", sql)
	}
	if !strings.Contains(sql, "b.status = 'pending'") {
		t.Fatalf("expected status filter: %q", sql)
	}
	if !strings.HasSuffix(sql, "AS pending") {
		t.Fatalf("expected alias suffix: %q", sql)
	}
}

func TestPropertyDetailsObject(t *testing.T) {
	sql := propertyDetailsObject(true, "pr.property_id", "property_details")

	if !strings.Contains(sql, "pd.id = pr.property_id") {
		t.Fatalf("expected correlation on property id: %q", sql)
	}
	if !strings.Contains(sql, "'landowner'") {
		t.Fatalf("expected embedded landowner: %q", sql)
	}
	if !strings.HasSuffix(sql, "AS property_details") {
		t.Fatalf("expected alias suffix: %q", sql)
	}
}
