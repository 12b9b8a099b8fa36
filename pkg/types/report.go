package types

import "time"

// ReportKind distinguishes a landowner's baseline property documents
// from a researcher's deliverable. The kind is stored explicitly; no
// code infers it from whether the researcher reference is set.
type ReportKind string

const (
	ReportKindLandownerDocument     ReportKind = "landowner_document"
	ReportKindResearcherDeliverable ReportKind = "researcher_deliverable"
)

type Report struct {
	ID           string     `db:"id" json:"id"`
	PropertyID   string     `db:"property_id" json:"property"`
	ResearcherID *string    `db:"researcher_id" json:"researcher,omitempty"`
	Kind         ReportKind `db:"kind" json:"kind"`
	Name         *string    `db:"name" json:"name,omitempty"`
	Description  *string    `db:"description" json:"description,omitempty"`
	Files        []FileMeta `db:"files" json:"files"`
	Archived     bool       `db:"archived" json:"archived"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
