package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PitchStatus represents pitch review states
type PitchStatus string

const (
	PitchStatusPending       PitchStatus = "pending"
	PitchStatusApproved      PitchStatus = "approved"
	PitchStatusRejected      PitchStatus = "rejected"
	PitchStatusUnderReview   PitchStatus = "under_review"
	PitchStatusNeedsRevision PitchStatus = "needs_revision"
)

// IsValid reports whether s is a known pitch status.
func (s PitchStatus) IsValid() bool {
	switch s {
	case PitchStatusPending, PitchStatusApproved, PitchStatusRejected,
		PitchStatusUnderReview, PitchStatusNeedsRevision:
		return true
	}
	return false
}

// RequiresReason reports whether the transition into s needs an explanation
// for the founder.
func (s PitchStatus) RequiresReason() bool {
	return s == PitchStatusRejected || s == PitchStatusNeedsRevision
}

// Pitch represents a funding pitch submitted by a founder.
type Pitch struct {
	ID              uuid.UUID   `json:"id"`
	FounderID       uuid.UUID   `json:"founderId"`
	FounderName     string      `json:"founderName"`
	FounderEmail    string      `json:"founderEmail"`
	ProjectName     string      `json:"projectName"`
	Sector          string      `json:"sector"`
	FundingGoal     string      `json:"fundingGoal"`
	Status          PitchStatus `json:"status"`
	RejectionReason null.String `json:"rejectionReason,omitempty"`
	AIReview        null.JSON   `json:"aiReview,omitempty"`
	ReviewedBy      null.String `json:"reviewedBy,omitempty"`
	ReviewedAt      null.Time   `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// UpdatePitchStatusInput is the admin review payload.
type UpdatePitchStatusInput struct {
	Status   string      `json:"status" binding:"required"`
	Reason   string      `json:"reason,omitempty"`
	AIReview interface{} `json:"aiReview,omitempty"`
}
