package types

import "time"

type Property struct {
	ID               string    `db:"id" json:"id"`
	PropertyName     string    `db:"property_name" json:"propertyName"`
	PropertyLocation string    `db:"property_location" json:"propertyLocation"`
	PropertySize     *string   `db:"property_size" json:"propertySize,omitempty"`
	StartDate        string    `db:"start_date" json:"startDate"`
	LandownerID      string    `db:"landowner_id" json:"landowner"`
	Archived         bool      `db:"archived" json:"archived"`
	Note             *string   `db:"note" json:"note,omitempty"`
	NoteUpdatedBy    *string   `db:"note_updated_by" json:"noteUpdatedBy,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

func (p Property) Sanitized(caller Caller) Property {
	if !caller.IsAdmin() {
		p.Note = nil
		p.NoteUpdatedBy = nil
	}
	return p
}

// FileMeta is the opaque metadata handed back by the file storage
// collaborator, persisted as jsonb on bids and reports.
type FileMeta struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
}
