package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"backend-lostfound/internal/shared/validate"

	"github.com/google/uuid"
)

// Service stands in for an object store: uploads are never kept, each one is
// recorded and answered with a placeholder image URL.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// PlaceholderURL escapes spaces as %20 rather than +.
func PlaceholderURL(query string) string {
	return "/placeholder.svg?height=300&width=400&query=" + strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// SavePhoto validates the upload size and returns the placeholder reference
// that replaces the photo.
func (s *Service) SavePhoto(ctx context.Context, ownerID, title string, size int64) (Object, error) {
	if size > MaxPhotoBytes {
		return Object{}, validate.Fail("Photo must be less than 5MB")
	}
	return s.SaveObject(ctx, ownerID, PlaceholderURL(title), KindPhoto, size)
}

func (s *Service) SaveObject(ctx context.Context, ownerID, objectURL, kind string, size int64) (Object, error) {
	obj := Object{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		URL:       objectURL,
		Kind:      kind,
		SizeBytes: size,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, obj); err != nil {
		return Object{}, err
	}
	return obj, nil
}
