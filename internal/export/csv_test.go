package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"
)

func TestFilename(t *testing.T) {
	name := Filename("landowners")

	if !strings.HasPrefix(name, "landowners_") {
		t.Fatalf("expected kind prefix, got %q", name)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Fatalf("expected .csv suffix, got %q", name)
	}
}

func TestWriteUsers(t *testing.T) {
	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	rows := []types.UserRow{
		{Name: "Alice", Email: "alice@example.com", Phone: utils.Ptr("555-0100"), CreatedAt: created},
		{Name: "Bob", Email: "bob@example.com", CreatedAt: created},
	}

	var buf bytes.Buffer
	if err := WriteUsers(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Name" || records[0][3] != "Created" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][2] != "555-0100" {
		t.Fatalf("expected phone in third column, got %v", records[1])
	}
	if records[2][2] != "" {
		t.Fatalf("missing phone should render empty, got %q", records[2][2])
	}
	if records[1][3] != "2025-03-14" {
		t.Fatalf("expected date-only created column, got %q", records[1][3])
	}
}

func TestWriteLandowners(t *testing.T) {
	rows := []types.LandownerRow{
		{
			Name:       "Carol",
			Email:      "carol@example.com",
			IsArchived: true,
			Properties: []types.LandownerPropertyView{{ID: "p1"}, {ID: "p2"}},
			CreatedAt:  time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteLandowners(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	if records[1][3] != "2" {
		t.Fatalf("expected property count 2, got %q", records[1][3])
	}
	if records[1][4] != "true" {
		t.Fatalf("expected archived true, got %q", records[1][4])
	}
}

func TestWriteResearchers(t *testing.T) {
	status := types.ResearcherStatusApproved
	rows := []types.ResearcherRow{
		{
			Name:           "Dana",
			Email:          "dana@example.com",
			UniversityName: utils.Ptr("State University"),
			Status:         &status,
			Assigned:       3,
			Pending:        1,
			Completed:      2,
		},
	}

	var buf bytes.Buffer
	if err := WriteResearchers(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	row := records[1]
	if row[2] != "State University" {
		t.Fatalf("expected university name, got %q", row[2])
	}
	if row[3] != "approved" {
		t.Fatalf("expected status approved, got %q", row[3])
	}
	if row[4] != "3" || row[5] != "1" || row[7] != "2" {
		t.Fatalf("unexpected counts: %v", row)
	}
}
