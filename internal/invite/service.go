package invite

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/token"
	"backend-lostfound/internal/shared/validate"

	"github.com/google/uuid"
)

const maxCodeAttempts = 5

var (
	ErrUnauthorized = errors.New("admin access required")
	ErrForbidden    = errors.New("cannot invite into another organization")
	ErrInvalid      = errors.New("invalid or expired invite code")
	ErrExpired      = errors.New("invite code has expired")
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create issues a pending invite. Admins may only invite into their own
// organization; super admins may target any.
func (s *Service) Create(ctx context.Context, in CreateInput, requester auth.Identity) (Invite, error) {
	if !requester.Role.IsAdmin() {
		return Invite{}, ErrUnauthorized
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return Invite{}, err
	}

	orgID := in.OrganizationID
	if orgID == "" {
		orgID = requester.OrganizationID
	}
	if orgID == "" {
		return Invite{}, validate.Fail("organizationId is required")
	}
	if requester.Role != auth.RoleSuperAdmin && orgID != requester.OrganizationID {
		return Invite{}, ErrForbidden
	}

	kind := in.Type
	if kind == "" {
		kind = TypeUser
	}

	now := s.now().UTC()
	inv := Invite{
		ID:             uuid.NewString(),
		Email:          in.Email,
		OrganizationID: orgID,
		InvitedBy:      requester.UserID,
		Type:           kind,
		Status:         StatusPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(TTL),
	}

	for attempt := 0; ; attempt++ {
		code, err := token.Generate(token.InviteCode, CodeLength)
		if err != nil {
			return Invite{}, err
		}
		inv.Code = code
		err = s.store.Create(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrCodeTaken) || attempt+1 >= maxCodeAttempts {
			return Invite{}, err
		}
	}

	slog.Info("invite created", "invite_id", inv.ID, "email", inv.Email, "organization_id", inv.OrganizationID)
	return inv, nil
}

// List returns the invites the requester may see: everything (optionally
// narrowed by organizationID) for super admins, their own organization for
// admins, nothing for anyone else.
func (s *Service) List(ctx context.Context, requester auth.Identity, organizationID string) ([]Invite, error) {
	switch requester.Role {
	case auth.RoleSuperAdmin:
		return s.store.List(ctx, organizationID)
	case auth.RoleAdmin:
		if requester.OrganizationID == "" || (organizationID != "" && organizationID != requester.OrganizationID) {
			return []Invite{}, nil
		}
		return s.store.List(ctx, requester.OrganizationID)
	default:
		return []Invite{}, nil
	}
}

// Redeem consumes the pending invite with code, provided it was issued to
// email and has not expired.
func (s *Service) Redeem(ctx context.Context, code, email string) (Invite, error) {
	inv, err := s.store.FindPending(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, ErrNotFound) {
		return Invite{}, ErrInvalid
	}
	if err != nil {
		return Invite{}, err
	}
	if !strings.EqualFold(inv.Email, strings.TrimSpace(email)) {
		return Invite{}, ErrInvalid
	}

	now := s.now().UTC()
	if now.After(inv.ExpiresAt) {
		return Invite{}, ErrExpired
	}
	if err := s.store.MarkUsed(ctx, inv.ID, now); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Invite{}, ErrInvalid
		}
		return Invite{}, err
	}
	inv.Status = StatusUsed
	inv.UsedAt = &now
	return inv, nil
}

// Release puts a redeemed invite back to pending when the registration that
// consumed it could not complete.
func (s *Service) Release(ctx context.Context, id string) error {
	return s.store.Release(ctx, id)
}
