package account

import (
	"time"

	"backend-lostfound/internal/auth"
)

type Status string

const (
	StatusActive            Status = "active"
	StatusPendingActivation Status = "pending_activation"
)

const (
	InviteCodeLength   = 12
	TempPasswordLength = 12
	InviteTTL          = 7 * 24 * time.Hour
	MinPasswordLength  = 8
)

var DefaultPermissions = []string{"verify_posts", "manage_users", "view_analytics"}

type Account struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           auth.Role  `json:"role"`
	OrganizationID *string    `json:"organizationId"`
	Status         Status     `json:"status"`
	Permissions    []string   `json:"permissions"`
	CreatedAt      time.Time  `json:"createdAt"`
	ActivatedAt    *time.Time `json:"activatedAt,omitempty"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	IsBuiltIn      bool       `json:"isBuiltIn,omitempty"`
	InviteCode     string     `json:"inviteCode,omitempty"`
	InviteExpiry   *time.Time `json:"inviteExpiry,omitempty"`
	// TempPasswordHash is the bcrypt hash of the one-time activation password.
	TempPasswordHash string `json:"-"`
}

func (a Account) Org() string {
	if a.OrganizationID == nil {
		return ""
	}
	return *a.OrganizationID
}

func (a Account) Identity() auth.Identity {
	return auth.Identity{UserID: a.ID, Role: a.Role, OrganizationID: a.Org()}
}

func (a Account) Profile() Profile {
	return Profile{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role, OrganizationID: a.OrganizationID, Status: a.Status}
}

// Profile is the public view of an account returned by login and activation.
type Profile struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           auth.Role `json:"role"`
	OrganizationID *string   `json:"organizationId"`
	Status         Status    `json:"status"`
}

type CreateAdminInput struct {
	Email          string   `json:"email" validate:"required,email"`
	Name           string   `json:"name" validate:"required"`
	OrganizationID string   `json:"organizationId" validate:"required"`
	Permissions    []string `json:"permissions"`
}

// Invitation is returned once when an admin is created; it is the only place
// the temporary password appears in clear text.
type Invitation struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	OrganizationID string    `json:"organizationId"`
	Status         Status    `json:"status"`
	InviteCode     string    `json:"inviteCode"`
	TempPassword   string    `json:"tempPassword"`
	InviteExpiry   time.Time `json:"inviteExpiry"`
}

type ActivateInput struct {
	InviteCode      string `json:"inviteCode"`
	TempPassword    string `json:"tempPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	InviteCode string `json:"inviteCode"`
}

type LoginResult struct {
	Success bool               `json:"success"`
	User    Profile            `json:"user"`
	Tokens  auth.TokenResponse `json:"tokens"`
	Message string             `json:"message,omitempty"`
}

type Filter struct {
	Status         Status
	Role           auth.Role
	OrganizationID string
}

func (f Filter) matches(a Account) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	if f.OrganizationID != "" && a.Org() != f.OrganizationID {
		return false
	}
	return true
}
