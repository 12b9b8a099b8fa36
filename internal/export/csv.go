// Package export renders listing rows as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"
)

const dateLayout = "2006-01-02"

func Filename(kind string) string {
	return fmt.Sprintf("%s_%s.csv", kind, time.Now().Format(dateLayout))
}

// WriteUsers renders a flat user listing.
func WriteUsers(w io.Writer, rows []types.UserRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Name", "Email", "Phone", "Created"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Name,
			row.Email,
			utils.Deref(row.Phone),
			row.CreatedAt.Format(dateLayout),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteLandowners renders the landowner listing with property counts.
func WriteLandowners(w io.Writer, rows []types.LandownerRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Name", "Email", "Phone", "Properties", "Archived", "Created"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Name,
			row.Email,
			utils.Deref(row.Phone),
			fmt.Sprintf("%d", len(row.Properties)),
			fmt.Sprintf("%t", row.IsArchived),
			row.CreatedAt.Format(dateLayout),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteResearchers renders the researcher listing with bid counts.
func WriteResearchers(w io.Writer, rows []types.ResearcherRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Name", "Email", "University", "Status", "Assigned", "Pending", "In Progress", "Completed", "Rejected"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		status := ""
		if row.Status != nil {
			status = string(*row.Status)
		}
		record := []string{
			row.Name,
			row.Email,
			utils.Deref(row.UniversityName),
			status,
			fmt.Sprintf("%d", row.Assigned),
			fmt.Sprintf("%d", row.Pending),
			fmt.Sprintf("%d", row.InProgress),
			fmt.Sprintf("%d", row.Completed),
			fmt.Sprintf("%d", row.Rejected),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
