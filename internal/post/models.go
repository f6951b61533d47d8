package post

import "time"

type Category string

const (
	CategoryLost  Category = "lost"
	CategoryFound Category = "found"
)

type Status string

const (
	StatusOpen                Status = "open"
	StatusPendingVerification Status = "pending_verification"
	StatusClosed              Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPendingVerification, StatusClosed:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

const MaxDescriptionLength = 200

type Proof struct {
	Description string    `json:"description"`
	SubmittedBy string    `json:"submittedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

type Verification struct {
	Status    VerificationStatus `json:"status"`
	AdminID   string             `json:"adminId"`
	Timestamp time.Time          `json:"timestamp"`
	Notes     string             `json:"notes"`
}

type Post struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     Category      `json:"category"`
	Location     string        `json:"location"`
	Contact      string        `json:"contact"`
	PhotoURL     string        `json:"photoURL,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
	UpdatedAt    *time.Time    `json:"updatedAt,omitempty"`
	Status       Status        `json:"status"`
	Proof        *Proof        `json:"proof,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
}

type CreateInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    Category `json:"category" validate:"required,oneof=lost found"`
	Location    string   `json:"location"`
	Contact     string   `json:"contact" validate:"required"`
	// PhotoSize is the uploaded photo's size in bytes, zero when none was sent.
	PhotoSize int64 `json:"-"`
}

type ProofInput struct {
	Description string `json:"description"`
	SubmittedBy string `json:"submittedBy"`
}

type StatusChange struct {
	Status Status      `json:"status"`
	Proof  *ProofInput `json:"proof"`
}

type Decision struct {
	Action Action `json:"action"`
	Notes  string `json:"notes"`
}

type ListFilter struct {
	Category string
	Status   string
	Location string
	Query    string
}
