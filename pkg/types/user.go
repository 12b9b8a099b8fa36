package types

import "time"

type Role string

const (
	RoleAdmin      Role = "super-admin"
	RoleLandowner  Role = "landowner"
	RoleResearcher Role = "researcher"
	RoleUniversity Role = "university"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLandowner, RoleResearcher, RoleUniversity:
		return true
	}
	return false
}

type ResearcherStatus string

const (
	ResearcherStatusPending  ResearcherStatus = "pending"
	ResearcherStatusApproved ResearcherStatus = "approved"
	ResearcherStatusRejected ResearcherStatus = "rejected"
)

func (s ResearcherStatus) Valid() bool {
	switch s {
	case ResearcherStatusPending, ResearcherStatusApproved, ResearcherStatusRejected:
		return true
	}
	return false
}

// Caller identifies the authenticated user behind an operation. Every
// write in the service layer takes one explicitly; nothing is smuggled
// through entity instances.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type User struct {
	ID             string            `db:"id" json:"id"`
	Name           string            `db:"name" json:"name"`
	Email          string            `db:"email" json:"email"`
	Password       string            `db:"password" json:"-"`
	Role           Role              `db:"role" json:"roles"`
	Phone          *string           `db:"phone" json:"phone,omitempty"`
	IsArchived     bool              `db:"is_archived" json:"isArchived"`
	Status         *ResearcherStatus `db:"status" json:"status,omitempty"`
	UniversityID   *string           `db:"university_id" json:"university,omitempty"`
	UniversityName *string           `db:"university_name" json:"universityName,omitempty"`
	Advisor        *string           `db:"advisor" json:"advisor,omitempty"`
	ContactName    *string           `db:"contact_name" json:"contactName,omitempty"`
	Note           *string           `db:"note" json:"note,omitempty"`
	NoteUpdatedBy  *string           `db:"note_updated_by" json:"noteUpdatedBy,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updatedAt"`
}

// Sanitized strips fields that must never leave the server, and the
// note fields unless the caller is an admin.
func (u User) Sanitized(caller Caller) User {
	u.Password = ""
	if !caller.IsAdmin() {
		u.Note = nil
		u.NoteUpdatedBy = nil
	}
	return u
}

type RefreshToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

type ResetPasswordToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
