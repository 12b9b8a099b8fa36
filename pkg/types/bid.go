package types

import "time"

type BidStatus string

const (
	BidStatusPending    BidStatus = "pending"
	BidStatusInProgress BidStatus = "inprogress"
	BidStatusApproved   BidStatus = "approved"
	BidStatusRejected   BidStatus = "rejected"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidStatusPending, BidStatusInProgress, BidStatusApproved, BidStatusRejected:
		return true
	}
	return false
}

type Bid struct {
	ID           string     `db:"id" json:"id"`
	PropertyID   string     `db:"property_id" json:"property"`
	ResearcherID string     `db:"researcher_id" json:"researcher"`
	Status       BidStatus  `db:"status" json:"status"`
	Description  string     `db:"description" json:"description"`
	Files        []FileMeta `db:"files" json:"files"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
