package storage

import "time"

const (
	KindPhoto = "photo"

	// MaxPhotoBytes is the upload ceiling for post photos.
	MaxPhotoBytes = 5 * 1024 * 1024
)

type Object struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}
