package entities

import (
	"strings"
	"time"
)

// VerificationStatus is the canonical review state of a KYC or KYB record.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
	StatusSkipped  VerificationStatus = "skipped"
)

// statusNotSubmitted is a legacy sentinel written by older onboarding flows.
// It is never a canonical value: it either degrades to pending (when a
// submission timestamp exists) or marks the record as not yet reviewable.
const statusNotSubmitted = "not_submitted"

// StatusSources collects the differently-shaped status fields a legacy
// record may carry. Nested is the status inside the kyb/kyc sub-document,
// Flat the top-level column, Legacy the snake_case duplicate.
type StatusSources struct {
	Nested      string
	Flat        string
	Legacy      string
	SubmittedAt *time.Time
}

// NormalizeStatus lowercases and trims a raw status value and collapses the
// spelling variants of the not-submitted sentinel. Empty input stays empty.
func NormalizeStatus(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "not_submitted", "notsubmitted", "not submitted":
		return statusNotSubmitted
	}
	return normalized
}

// IsValid reports whether s is a member of the canonical set.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSkipped:
		return true
	}
	return false
}

// ResolveStatus reduces the possible status fields of a record to one
// canonical value. The most structured source wins: nested before flat
// before legacy, skipping anything that normalizes to not_submitted. When
// no source is usable, a submission timestamp degrades to pending, as does
// everything else: absence of data is never an error.
func ResolveStatus(src StatusSources) VerificationStatus {
	for _, raw := range []string{src.Nested, src.Flat, src.Legacy} {
		normalized := NormalizeStatus(raw)
		if normalized == "" || normalized == statusNotSubmitted {
			continue
		}
		status := VerificationStatus(normalized)
		if !status.IsValid() {
			return StatusPending
		}
		return status
	}
	return StatusPending
}

// HasSubmission reports whether any source carries a usable signal: either
// a status that does not normalize to empty/not_submitted, or a submission
// timestamp proving the record was handed in under the legacy sentinel.
func (src StatusSources) HasSubmission() bool {
	for _, raw := range []string{src.Nested, src.Flat, src.Legacy} {
		normalized := NormalizeStatus(raw)
		if normalized != "" && normalized != statusNotSubmitted {
			return true
		}
	}
	return src.SubmittedAt != nil && !src.SubmittedAt.IsZero()
}
