package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PlaceholderField is written for display fields the source user record
// never carried. The syncer treats it as "missing" on later passes.
const PlaceholderField = "N/A"

// PlaceholderName marks an organization created before its company name was
// known.
const PlaceholderName = "Unknown"

// Organization is the business-verification record derived from a User.
// At most one exists per user, matched by UserID first and Email second.
// Organizations are never deleted; rejection and reset only change status.
type Organization struct {
	ID                  uuid.UUID          `json:"id"`
	UserID              uuid.UUID          `json:"userId"`
	OrganizationName    string             `json:"organizationName"`
	OrganizationType    string             `json:"organizationType"`
	RegistrationNumber  string             `json:"registrationNumber"`
	TaxID               string             `json:"taxId"`
	Address             string             `json:"address"`
	Country             string             `json:"country"`
	ContactPerson       string             `json:"contactPerson"`
	Email               string             `json:"email"`
	Phone               string             `json:"phone"`
	Website             string             `json:"website"`
	BusinessDescription string             `json:"businessDescription"`
	Documents           null.JSON          `json:"documents,omitempty"`
	KYBStatus           VerificationStatus `json:"kybStatus"`
	RejectionReason     null.String        `json:"rejectionReason,omitempty"`
	ReviewedBy          null.String        `json:"reviewedBy,omitempty"`
	ReviewedAt          null.Time          `json:"reviewedAt,omitempty"`
	SubmittedAt         null.Time          `json:"submittedAt,omitempty"`
	OnChainTxHash       null.String        `json:"onChainTxHash,omitempty"`
	OnChainStoredAt     null.Time          `json:"onChainStoredAt,omitempty"`
	OnChainDeleted      bool               `json:"onChainDeleted"`
	OnChainDeleteTxHash null.String        `json:"onChainDeleteTxHash,omitempty"`
	OnChainDeletedAt    null.Time          `json:"onChainDeletedAt,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// NeedsDisplayBackfill reports whether required display fields are still
// missing or placeholder and should be refreshed from the user record.
func (o *Organization) NeedsDisplayBackfill() bool {
	return o.OrganizationName == "" || o.OrganizationName == PlaceholderName
}

// RegisterOrganizationInput is the self-service onboarding payload.
type RegisterOrganizationInput struct {
	OrganizationName    string      `json:"organizationName" binding:"required,min=2,max=255"`
	OrganizationType    string      `json:"organizationType,omitempty"`
	RegistrationNumber  string      `json:"registrationNumber,omitempty"`
	TaxID               string      `json:"taxId,omitempty"`
	Address             string      `json:"address,omitempty"`
	Country             string      `json:"country,omitempty"`
	Phone               string      `json:"phone,omitempty"`
	Website             string      `json:"website,omitempty"`
	BusinessDescription string      `json:"businessDescription,omitempty"`
	Documents           interface{} `json:"documents,omitempty"`
}

// SyncReport summarizes one organization sync pass.
type SyncReport struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
