package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserSanitized(t *testing.T) {
	note := "flagged for review"
	updatedBy := "admin-1"
	user := User{
		ID:            "u1",
		Name:          "Alice",
		Email:         "alice@example.com",
		Password:      "bcrypt-hash",
		Role:          RoleLandowner,
		Note:          &note,
		NoteUpdatedBy: &updatedBy,
	}

	asAdmin := user.Sanitized(Caller{ID: "a", Role: RoleAdmin})
	if asAdmin.Password != "" {
		t.Fatal("password must never survive sanitization")
	}
	if asAdmin.Note == nil || *asAdmin.Note != note {
		t.Fatal("admins keep the note")
	}

	asSelf := user.Sanitized(Caller{ID: "u1", Role: RoleLandowner})
	if asSelf.Note != nil || asSelf.NoteUpdatedBy != nil {
		t.Fatal("non-admins must not see notes")
	}

	body, err := json.Marshal(asSelf)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if strings.Contains(string(body), "note") {
		t.Fatalf("note keys should drop from the response: %s", body)
	}
	if strings.Contains(string(body), "bcrypt-hash") {
		t.Fatalf("password leaked: %s", body)
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleLandowner, RoleResearcher, RoleUniversity} {
		if !role.Valid() {
			t.Fatalf("expected %q valid", role)
		}
	}
	if Role("owner").Valid() {
		t.Fatal("unknown role should be invalid")
	}
}

func TestResearcherStatusValid(t *testing.T) {
	for _, status := range []ResearcherStatus{ResearcherStatusPending, ResearcherStatusApproved, ResearcherStatusRejected} {
		if !status.Valid() {
			t.Fatalf("expected %q valid", status)
		}
	}
	if ResearcherStatus("done").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}
