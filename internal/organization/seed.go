package organization

import "time"

func DemoOrganizations(now time.Time) []Organization {
	return []Organization{
		{
			ID:        "org_1",
			Name:      "Springfield University",
			Slug:      "springfield-university",
			Type:      "university",
			Address:   "123 University Ave, Springfield",
			CreatedAt: now.Add(-30 * 24 * time.Hour).UTC(),
			Status:    StatusActive,
			Settings:  DefaultSettings(),
		},
		{
			ID:        "org_2",
			Name:      "Lincoln High School",
			Slug:      "lincoln-high",
			Type:      "school",
			Address:   "456 School St, Lincoln",
			CreatedAt: now.Add(-15 * 24 * time.Hour).UTC(),
			Status:    StatusActive,
			Settings:  Settings{AllowPublicPosts: false, RequireApproval: true, AutoExpireDays: 14},
		},
	}
}
