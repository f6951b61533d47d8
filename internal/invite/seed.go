package invite

import "time"

func DemoInvites(now time.Time) []Invite {
	return []Invite{
		{
			ID:             "inv_1",
			Code:           "SPRING2024USER",
			Email:          "student1@springfield.edu",
			OrganizationID: "org_1",
			InvitedBy:      "admin1@springfield.edu",
			Type:           TypeUser,
			Status:         StatusPending,
			CreatedAt:      now.Add(-2 * 24 * time.Hour).UTC(),
			ExpiresAt:      now.Add(5 * 24 * time.Hour).UTC(),
		},
	}
}
