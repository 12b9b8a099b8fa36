package types

import "time"

// Denormalized read models produced by the aggregation queries. Nested
// slices and objects are built server-side as jsonb and scanned through
// pgx's json codec, so db-tagged fields here may hold whole sub-objects.
//
// Note/NoteUpdatedBy pointers are only populated for admin callers; the
// queries select NULL for everyone else, which keeps the keys out of the
// JSON entirely via omitempty.

// UserSummary is the embedded shape for a referenced user.
type UserSummary struct {
	ID    string  `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email string  `db:"email" json:"email"`
	Phone *string `db:"phone" json:"phone,omitempty"`
}

// DocView is a landowner-document report embedded in property shapes.
type DocView struct {
	ID          string     `json:"id"`
	Files       []FileMeta `json:"files"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LandownerPropertyView is one property embedded in a landowner row.
type LandownerPropertyView struct {
	ID               string     `json:"id"`
	PropertyName     string     `json:"propertyName"`
	PropertyLocation string     `json:"propertyLocation"`
	PropertySize     *string    `json:"propertySize,omitempty"`
	StartDate        string     `json:"startDate"`
	Note             *string    `json:"note,omitempty"`
	NoteUpdatedBy    *string    `json:"noteUpdatedBy,omitempty"`
	Docs             []FileMeta `json:"docs"`
}

// LandownerRow is one entry of the landowner listing.
type LandownerRow struct {
	ID            string                  `db:"id" json:"id"`
	Name          string                  `db:"name" json:"name"`
	Email         string                  `db:"email" json:"email"`
	Phone         *string                 `db:"phone" json:"phone,omitempty"`
	IsArchived    bool                    `db:"is_archived" json:"isArchived"`
	Assigned      bool                    `db:"assigned" json:"assigned"`
	Note          *string                 `db:"note" json:"note,omitempty"`
	NoteUpdatedBy *string                 `db:"note_updated_by" json:"noteUpdatedBy,omitempty"`
	Properties    []LandownerPropertyView `db:"properties" json:"properties"`
	CreatedAt     time.Time               `db:"created_at" json:"createdAt"`
}

// BidView is a bid embedded in a property shape.
type BidView struct {
	ID          string       `json:"id"`
	Researcher  *UserSummary `json:"researcher,omitempty"`
	Status      BidStatus    `json:"status"`
	Description string       `json:"description"`
	Files       []FileMeta   `json:"files"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// PropertyRow is one entry of the property listings and the single
// property view.
type PropertyRow struct {
	ID               string       `db:"id" json:"id"`
	PropertyName     string       `db:"property_name" json:"propertyName"`
	PropertyLocation string       `db:"property_location" json:"propertyLocation"`
	PropertySize     *string      `db:"property_size" json:"propertySize,omitempty"`
	StartDate        string       `db:"start_date" json:"startDate"`
	Archived         bool         `db:"archived" json:"archived"`
	Landowner        *UserSummary `db:"landowner" json:"landowner,omitempty"`
	Note             *string      `db:"note" json:"note,omitempty"`
	NoteUpdatedBy    *string      `db:"note_updated_by" json:"noteUpdatedBy,omitempty"`
	Docs             *DocView     `db:"docs" json:"docs,omitempty"`
	Bids             []BidView    `db:"bids" json:"bids"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
}

// AssignedResearcherView is a researcher summary carrying their
// assignment date, embedded in bid/property shapes.
type AssignedResearcherView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	AssignDate string  `json:"assignDate"`
}

// BidPropertyView is the property embedded in a bid listing row.
type BidPropertyView struct {
	ID                  string                   `json:"id"`
	PropertyName        string                   `json:"propertyName"`
	PropertyLocation    string                   `json:"propertyLocation"`
	PropertySize        *string                  `json:"propertySize,omitempty"`
	StartDate           string                   `json:"startDate"`
	Landowner           *UserSummary             `json:"landowner,omitempty"`
	AssignedResearchers []AssignedResearcherView `json:"assignedResearchers"`
	Note                *string                  `json:"note,omitempty"`
	NoteUpdatedBy       *string                  `json:"noteUpdatedBy,omitempty"`
	Docs                []FileMeta               `json:"docs"`
}

// BidRow is one entry of the bid listing.
type BidRow struct {
	ID          string           `db:"id" json:"id"`
	Description string           `db:"description" json:"description"`
	Status      BidStatus        `db:"status" json:"status"`
	Files       []FileMeta       `db:"files" json:"files"`
	Property    *BidPropertyView `db:"property" json:"property,omitempty"`
	Researcher  *UserSummary     `db:"researcher" json:"researcher,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

// ResearcherRow is one entry of the researcher listing: profile fields
// plus the assignment count and the per-status bid histogram.
type ResearcherRow struct {
	ID             string            `db:"id" json:"id"`
	Name           string            `db:"name" json:"name"`
	Email          string            `db:"email" json:"email"`
	Phone          *string           `db:"phone" json:"phone,omitempty"`
	Advisor        *string           `db:"advisor" json:"advisor,omitempty"`
	UniversityName *string           `db:"university_name" json:"universityName,omitempty"`
	IsArchived     bool              `db:"is_archived" json:"isArchived"`
	Status         *ResearcherStatus `db:"status" json:"status,omitempty"`
	Assigned       int               `db:"assigned" json:"assigned"`
	Pending        int               `db:"pending" json:"pending"`
	InProgress     int               `db:"inprogress" json:"inprogress"`
	Completed      int               `db:"completed" json:"completed"`
	Rejected       int               `db:"rejected" json:"rejected"`
}

// ResearcherDetail is the single-researcher view.
type ResearcherDetail struct {
	ResearcherRow
	University *UserSummary `db:"university" json:"university,omitempty"`
}

// ResearcherSummary is a researcher embedded in a university row.
type ResearcherSummary struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Status    *ResearcherStatus `json:"status,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UniversityRow is one entry of the university listing.
type UniversityRow struct {
	ID          string              `db:"id" json:"id"`
	Name        string              `db:"name" json:"name"`
	Email       string              `db:"email" json:"email"`
	Phone       *string             `db:"phone" json:"phone,omitempty"`
	ContactName *string             `db:"contact_name" json:"contactName,omitempty"`
	IsArchived  bool                `db:"is_archived" json:"isArchived"`
	Researchers []ResearcherSummary `db:"researchers" json:"researchers"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
}

// PropertyDetails is the property shape embedded in assignment rows.
type PropertyDetails struct {
	ID               string  `json:"id"`
	PropertyName     string  `json:"propertyName"`
	PropertyLocation string  `json:"propertyLocation"`
	PropertySize     *string `json:"propertySize,omitempty"`
	StartDate        string  `json:"startDate"`
	Note             *string `json:"note,omitempty"`
	NoteUpdatedBy    *string `json:"noteUpdatedBy,omitempty"`
	Landowner        *UserSummary `json:"landowner,omitempty"`
}

// AssignedPropertyRow is one entry of a researcher's assigned-property
// listing.
type AssignedPropertyRow struct {
	PropertyID   string           `db:"property_id" json:"-"`
	Property     *PropertyDetails `db:"property" json:"property,omitempty"`
	ResearcherID string           `db:"researcher_id" json:"researcher"`
	AssignDate   string           `db:"assign_date" json:"assignDate"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

// ResearcherToPropertyRow is one entry of a property's assigned
// researcher listing: the researcher merged with their assignment date
// and the property details.
type ResearcherToPropertyRow struct {
	ID              string            `db:"id" json:"id"`
	Name            string            `db:"name" json:"name"`
	Email           string            `db:"email" json:"email"`
	Phone           *string           `db:"phone" json:"phone,omitempty"`
	Status          *ResearcherStatus `db:"status" json:"status,omitempty"`
	Advisor         *string           `db:"advisor" json:"advisor,omitempty"`
	UniversityName  *string           `db:"university_name" json:"universityName,omitempty"`
	IsArchived      bool              `db:"is_archived" json:"isArchived"`
	AssignDate      string            `db:"assign_date" json:"assignDate"`
	PropertyDetails *PropertyDetails  `db:"property_details" json:"propertyDetails,omitempty"`
}

// ReportView is a deliverable report embedded in the researcher-reports
// listing.
type ReportView struct {
	ID          string     `json:"id"`
	Files       []FileMeta `json:"files"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ReportingResearcherView is the researcher plus their deliverables on
// one property.
type ReportingResearcherView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Phone   *string      `json:"phone,omitempty"`
	Reports []ReportView `json:"reports"`
}

// ResearcherReportsRow is one entry of the reports-on-property listing.
type ResearcherReportsRow struct {
	ID                  string                   `db:"id" json:"id"`
	PropertyName        string                   `db:"property_name" json:"propertyName"`
	PropertyLocation    string                   `db:"property_location" json:"propertyLocation"`
	PropertySize        *string                  `db:"property_size" json:"propertySize,omitempty"`
	StartDate           string                   `db:"start_date" json:"startDate"`
	LandownerID         string                   `db:"landowner_id" json:"landowner"`
	Note                *string                  `db:"note" json:"note,omitempty"`
	NoteUpdatedBy       *string                  `db:"note_updated_by" json:"noteUpdatedBy,omitempty"`
	AssignedResearchers *ReportingResearcherView `db:"assigned_researchers" json:"assignedResearchers,omitempty"`
	CreatedAt           time.Time                `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time                `db:"updated_at" json:"updatedAt"`
}

// UserRow is one entry of the users-by-role admin listing, also the
// record shape behind CSV exports.
type UserRow struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Note          *string   `db:"note" json:"note,omitempty"`
	NoteUpdatedBy *string   `db:"note_updated_by" json:"noteUpdatedBy,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
