package post

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/validate"
	"backend-lostfound/internal/storage"
	"backend-lostfound/internal/stream"

	"github.com/google/uuid"
)

var (
	ErrNotPending        = errors.New("post is not pending verification")
	ErrInvalidTransition = errors.New("only open posts can be submitted for verification")
	ErrInvalidAction     = errors.New("invalid verification action")
	ErrUnauthorized      = errors.New("admin access required")
)

const TopicAll = "posts"

func Topic(id string) string {
	return "post:" + id
}

type PhotoSaver interface {
	SavePhoto(ctx context.Context, ownerID, title string, size int64) (storage.Object, error)
}

type Publisher interface {
	Publish(event stream.Event, topics ...string)
}

type Service struct {
	store  Store
	photos PhotoSaver
	events Publisher
	now    func() time.Time
}

// NewService wires the post workflow. photos and events may be nil.
func NewService(store Store, photos PhotoSaver, events Publisher) *Service {
	return &Service{store: store, photos: photos, events: events, now: time.Now}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Post, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Title == "" || in.Category == "" || in.Contact == "" {
		return Post{}, validate.Fail("Title, category, and contact are required")
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return Post{}, validate.Fail("Description must be %d characters or less", MaxDescriptionLength)
	}
	if err := validate.Struct(in); err != nil {
		return Post{}, err
	}

	p := Post{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Contact:     in.Contact,
		Timestamp:   s.now().UTC(),
		Status:      StatusOpen,
	}

	if in.PhotoSize > 0 {
		if in.PhotoSize > storage.MaxPhotoBytes {
			return Post{}, validate.Fail("Photo must be less than 5MB")
		}
		if s.photos != nil {
			obj, err := s.photos.SavePhoto(ctx, "", p.Title, in.PhotoSize)
			if err != nil {
				return Post{}, err
			}
			p.PhotoURL = obj.URL
		} else {
			p.PhotoURL = storage.PlaceholderURL(p.Title)
		}
	}

	if err := s.store.Create(ctx, p); err != nil {
		return Post{}, err
	}
	s.publish("post.created", p)
	return p, nil
}

// SubmitProof moves an open post to pending_verification with the finder's
// proof attached.
func (s *Service) SubmitProof(ctx context.Context, id string, change StatusChange) (Post, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if !change.Status.Valid() {
		return Post{}, validate.Fail("Invalid status. Must be 'open', 'pending_verification', or 'closed'")
	}
	if change.Status != StatusPendingVerification {
		return Post{}, validate.Fail("Status can only be changed to 'pending_verification'; closing requires admin approval")
	}
	if change.Proof == nil || strings.TrimSpace(change.Proof.Description) == "" || strings.TrimSpace(change.Proof.SubmittedBy) == "" {
		return Post{}, validate.Fail("Proof is required when submitting for verification. Must include description and submittedBy.")
	}
	if p.Status != StatusOpen {
		return Post{}, ErrInvalidTransition
	}

	now := s.now().UTC()
	p.Status = StatusPendingVerification
	p.UpdatedAt = &now
	p.Proof = &Proof{
		Description: change.Proof.Description,
		SubmittedBy: change.Proof.SubmittedBy,
		Timestamp:   now,
	}
	if err := s.store.Replace(ctx, StatusOpen, p); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return Post{}, ErrInvalidTransition
		}
		return Post{}, err
	}
	s.publish("post.proof_submitted", p)
	return p, nil
}

// Verify applies an admin decision to a pending post. Approval closes it,
// rejection reopens it and drops the submitted proof.
func (s *Service) Verify(ctx context.Context, id string, d Decision, admin auth.Identity) (Post, error) {
	if !admin.Role.IsAdmin() || admin.UserID == "" {
		return Post{}, ErrUnauthorized
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p.Status != StatusPendingVerification {
		return Post{}, ErrNotPending
	}

	now := s.now().UTC()
	v := &Verification{AdminID: admin.UserID, Timestamp: now, Notes: d.Notes}
	switch d.Action {
	case ActionApprove:
		v.Status = VerificationApproved
		p.Status = StatusClosed
	case ActionReject:
		v.Status = VerificationRejected
		p.Status = StatusOpen
		p.Proof = nil
	default:
		return Post{}, ErrInvalidAction
	}
	p.Verification = v
	p.UpdatedAt = &now

	if err := s.store.Replace(ctx, StatusPendingVerification, p); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return Post{}, ErrNotPending
		}
		return Post{}, err
	}

	slog.Info("post verified", "post_id", p.ID, "admin_id", admin.UserID, "decision", v.Status)
	s.publish("post.verified", p)
	return p, nil
}

func (s *Service) publish(eventType string, p Post) {
	if s.events == nil {
		return
	}
	s.events.Publish(stream.Event{Type: eventType, Data: p}, TopicAll, Topic(p.ID))
}
