package account

import (
	"time"

	"backend-lostfound/internal/auth"
)

// DemoAdmin pairs a sample admin account with its login password; an empty
// password leaves the account without a credential.
type DemoAdmin struct {
	Account  Account
	Password string
}

func DemoAdmins(now time.Time) []DemoAdmin {
	org1, org2 := "org_1", "org_2"
	return []DemoAdmin{
		{
			Account: Account{
				ID:             "admin@community.com",
				Email:          "admin@community.com",
				Name:           "Community Admin",
				Role:           auth.RoleAdmin,
				OrganizationID: &org1,
				Status:         StatusActive,
				Permissions:    []string{"verify_posts", "manage_users", "view_analytics"},
				CreatedAt:      now.Add(-20 * 24 * time.Hour).UTC(),
			},
			Password: "admin123",
		},
		{
			Account: Account{
				ID:             "admin2@lincoln.edu",
				Email:          "admin2@lincoln.edu",
				Name:           "Sarah Johnson",
				Role:           auth.RoleAdmin,
				OrganizationID: &org2,
				Status:         StatusActive,
				Permissions:    []string{"verify_posts", "manage_users"},
				CreatedAt:      now.Add(-10 * 24 * time.Hour).UTC(),
			},
		},
	}
}
