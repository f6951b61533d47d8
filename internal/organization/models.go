package organization

import "time"

const StatusActive = "active"

type Settings struct {
	AllowPublicPosts bool `json:"allowPublicPosts"`
	RequireApproval  bool `json:"requireApproval"`
	AutoExpireDays   int  `json:"autoExpireDays"`
}

func DefaultSettings() Settings {
	return Settings{AllowPublicPosts: true, RequireApproval: true, AutoExpireDays: 30}
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
	Settings  Settings  `json:"settings"`
}

type CreateInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Slug    string `json:"slug" validate:"omitempty,max=80"`
	Type    string `json:"type"`
	Address string `json:"address"`
}
