package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents platform roles
type UserRole string

const (
	UserRoleFounder    UserRole = "founder"
	UserRoleVC         UserRole = "vc"
	UserRoleExchange   UserRole = "exchange"
	UserRoleIDO        UserRole = "ido"
	UserRoleAgency     UserRole = "agency"
	UserRoleInfluencer UserRole = "influencer"
	UserRoleAdmin      UserRole = "admin"
)

// kybRoles are the roles whose members onboard an organization.
var kybRoles = map[UserRole]bool{
	UserRoleVC:       true,
	UserRoleExchange: true,
	UserRoleIDO:      true,
	UserRoleAgency:   true,
}

// RequiresKYB reports whether the role onboards as a business and therefore
// needs an Organization record.
func (r UserRole) RequiresKYB() bool {
	return kybRoles[r]
}

// KYBDocument is the legacy nested kyb sub-document still present on older
// user records. Only Status is authoritative; the rest is carried for
// display until the migration completes.
type KYBDocument struct {
	Status      string                 `json:"status,omitempty"`
	SubmittedAt *time.Time             `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time             `json:"reviewedAt,omitempty"`
	ReviewedBy  string                 `json:"reviewedBy,omitempty"`
	Website     string                 `json:"website,omitempty"`
	Documents   map[string]interface{} `json:"documents,omitempty"`
}

// User represents a platform user. The canonical verification state lives
// in KYCStatus/KYBStatus; LegacyKYBStatus and the nested KYB document are
// schema debt kept mirrored until the one-time migration lands.
type User struct {
	ID               uuid.UUID          `json:"id"`
	Email            string             `json:"email"`
	Name             string             `json:"name"`
	PasswordHash     string             `json:"-"`
	Role             UserRole           `json:"role"`
	CompanyName      null.String        `json:"companyName,omitempty"`
	KYCStatus        VerificationStatus `json:"kycStatus"`
	KYBStatus        VerificationStatus `json:"kybStatus"`
	LegacyKYBStatus  null.String        `json:"-"`
	KYB              *KYBDocument       `json:"kyb,omitempty"`
	KYBSubmittedAt   null.Time          `json:"kybSubmittedAt,omitempty"`
	KYCSubmittedAt   null.Time          `json:"kycSubmittedAt,omitempty"`
	ProfileCompleted bool               `json:"profileCompleted"`
	IsEmailVerified  bool               `json:"isEmailVerified"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
	DeletedAt        null.Time          `json:"-"`
}

// KYBSources gathers the user's status synonyms for normalization.
func (u *User) KYBSources() StatusSources {
	src := StatusSources{
		Flat:   string(u.KYBStatus),
		Legacy: u.LegacyKYBStatus.String,
	}
	if u.KYB != nil {
		src.Nested = u.KYB.Status
		if u.KYB.SubmittedAt != nil {
			src.SubmittedAt = u.KYB.SubmittedAt
		}
	}
	if src.SubmittedAt == nil && u.KYBSubmittedAt.Valid {
		t := u.KYBSubmittedAt.Time
		src.SubmittedAt = &t
	}
	return src
}

// NeedsOrganization reports whether the user should be backed by an
// Organization record: either it already carries KYB-shaped data, or its
// role onboards as a business and a company name was provided.
func (u *User) NeedsOrganization() bool {
	if u.KYBSources().HasSubmission() {
		return true
	}
	return u.Role.RequiresKYB() && strings.TrimSpace(u.CompanyName.String) != ""
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required"`
	CompanyName string `json:"companyName,omitempty"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user"`
}
