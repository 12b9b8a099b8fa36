package types

import "time"

// Assignment links one researcher to one property. A property's
// assignment set is the rows sharing its property id; an empty set is
// simply the absence of rows.
type Assignment struct {
	PropertyID   string    `db:"property_id" json:"property"`
	ResearcherID string    `db:"researcher_id" json:"researcher"`
	AssignDate   string    `db:"assign_date" json:"assignDate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
