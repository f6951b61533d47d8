package post

import "time"

const demoPhotoURL = "/placeholder.svg?height=300&width=400"

// DemoPosts returns the sample board shown on a fresh install, with
// timestamps relative to now.
func DemoPosts(now time.Time) []Post {
	ago := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour).UTC() }
	return []Post{
		{
			ID:          "1",
			Title:       "Lost iPhone 13 Pro",
			Description: "Black iPhone 13 Pro with a blue case. Lost near the library on campus. Has a small crack on the screen.",
			Category:    CategoryLost,
			Location:    "University Library, 2nd Floor",
			Contact:     "john.doe@email.com",
			PhotoURL:    demoPhotoURL,
			Timestamp:   ago(2),
			Status:      StatusOpen,
		},
		{
			ID:          "2",
			Title:       "Found Set of Keys",
			Description: "Found a set of keys with a Toyota keychain and several house keys. Found in the parking lot near Building A.",
			Category:    CategoryFound,
			Location:    "Parking Lot, Building A",
			Contact:     "(555) 123-4567",
			PhotoURL:    demoPhotoURL,
			Timestamp:   ago(5),
			Status:      StatusPendingVerification,
			Proof: &Proof{
				Description: "I found these keys and contacted the owner. They confirmed the Toyota keychain and described the other keys perfectly.",
				SubmittedBy: "finder@email.com",
				Timestamp:   ago(1),
			},
		},
		{
			ID:          "3",
			Title:       "Lost Wallet",
			Description: "Brown leather wallet with ID and credit cards. Lost somewhere between the cafeteria and the main entrance.",
			Category:    CategoryLost,
			Location:    "Between Cafeteria and Main Entrance",
			Contact:     "sarah.wilson@email.com",
			Timestamp:   ago(24),
			Status:      StatusClosed,
			Proof: &Proof{
				Description: "Found the wallet and verified ID matches the description. Owner confirmed receipt.",
				SubmittedBy: "finder@email.com",
				Timestamp:   ago(12),
			},
			Verification: &Verification{
				Status:    VerificationApproved,
				AdminID:   "admin@community.com",
				Timestamp: ago(11),
				Notes:     "Proof verified. Legitimate resolution.",
			},
		},
		{
			ID:          "4",
			Title:       "Found Airpods",
			Description: "White Apple AirPods found in the study room. They were left on table 5.",
			Category:    CategoryFound,
			Location:    "Study Room, Table 5",
			Contact:     "mike.chen@email.com",
			PhotoURL:    demoPhotoURL,
			Timestamp:   ago(3),
			Status:      StatusOpen,
		},
	}
}
