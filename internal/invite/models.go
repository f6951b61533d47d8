package invite

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusUsed    Status = "used"
)

const (
	TypeUser   = "user"
	CodeLength = 6
	TTL        = 7 * 24 * time.Hour
)

type Invite struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Email          string     `json:"email"`
	OrganizationID string     `json:"organizationId"`
	InvitedBy      string     `json:"invitedBy"`
	Type           string     `json:"type"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	UsedAt         *time.Time `json:"usedAt"`
}

type CreateInput struct {
	Email          string `json:"email" validate:"required,email"`
	OrganizationID string `json:"organizationId"`
	Type           string `json:"type" validate:"omitempty,oneof=user admin"`
}
