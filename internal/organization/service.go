package organization

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/slug"
	"backend-lostfound/internal/shared/validate"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("super admin access required")

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in CreateInput, requester auth.Identity) (Organization, error) {
	if requester.Role != auth.RoleSuperAdmin {
		return Organization{}, ErrUnauthorized
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return Organization{}, err
	}

	orgSlug, err := slug.Make(in.Slug, in.Name)
	if err != nil {
		return Organization{}, validate.Fail("slug must contain letters or digits")
	}

	org := Organization{
		ID:        "org_" + uuid.NewString(),
		Name:      in.Name,
		Slug:      orgSlug,
		Type:      in.Type,
		Address:   in.Address,
		CreatedAt: s.now().UTC(),
		Status:    StatusActive,
		Settings:  DefaultSettings(),
	}
	if err := s.store.Create(ctx, org); err != nil {
		return Organization{}, err
	}
	slog.Info("organization created", "organization_id", org.ID, "slug", org.Slug)
	return org, nil
}

// List returns every organization to super admins and only the caller's
// own organization to everyone else.
func (s *Service) List(ctx context.Context, requester auth.Identity) ([]Organization, error) {
	if requester.Role == auth.RoleSuperAdmin {
		return s.store.List(ctx)
	}
	if requester.OrganizationID == "" {
		return []Organization{}, nil
	}
	org, err := s.store.Get(ctx, requester.OrganizationID)
	if errors.Is(err, ErrNotFound) {
		return []Organization{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []Organization{org}, nil
}

func (s *Service) Get(ctx context.Context, id string, requester auth.Identity) (Organization, error) {
	if requester.Role != auth.RoleSuperAdmin && requester.OrganizationID != id {
		return Organization{}, ErrNotFound
	}
	return s.store.Get(ctx, id)
}
