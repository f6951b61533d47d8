package organization

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/shared/validate"
)

var (
	superAdmin = auth.Identity{UserID: "superadmin@system.com", Role: auth.RoleSuperAdmin}
	orgAdmin   = auth.Identity{UserID: "admin@community.com", Role: auth.RoleAdmin, OrganizationID: "org_1"}
)

func TestCreateOrganization(t *testing.T) {
	svc := NewService(NewMemoryStore(DemoOrganizations(time.Now())...))
	ctx := context.Background()

	org, err := svc.Create(ctx, CreateInput{Name: "Riverside Community College", Type: "college"}, superAdmin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if org.Slug != "riverside-community-college" || org.Status != StatusActive {
		t.Fatalf("unexpected org %+v", org)
	}
	if org.Settings != DefaultSettings() {
		t.Fatalf("unexpected settings %+v", org.Settings)
	}

	if _, err := svc.Create(ctx, CreateInput{Name: "Other", Slug: "Lincoln High"}, superAdmin); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Nope"}, orgAdmin); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	var vErr *validate.Error
	if _, err := svc.Create(ctx, CreateInput{Name: "  "}, superAdmin); !errors.As(err, &vErr) || vErr.Message != "name is required" {
		t.Fatalf("expected name required, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "!!!"}, superAdmin); !errors.As(err, &vErr) {
		t.Fatalf("expected slug error, got %v", err)
	}
}

func TestListAndGetScoped(t *testing.T) {
	svc := NewService(NewMemoryStore(DemoOrganizations(time.Now())...))
	ctx := context.Background()

	all, _ := svc.List(ctx, superAdmin)
	if len(all) != 2 {
		t.Fatalf("super admin should see 2 orgs, got %d", len(all))
	}

	own, _ := svc.List(ctx, orgAdmin)
	if len(own) != 1 || own[0].ID != "org_1" {
		t.Fatalf("admin should see own org, got %+v", own)
	}

	none, _ := svc.List(ctx, auth.Identity{UserID: "u", Role: auth.RoleUser})
	if len(none) != 0 {
		t.Fatalf("unaffiliated user should see nothing")
	}

	if _, err := svc.Get(ctx, "org_2", orgAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other org, got %v", err)
	}
	if org, err := svc.Get(ctx, "org_2", superAdmin); err != nil || org.Settings.AutoExpireDays != 14 {
		t.Fatalf("unexpected org_2: %+v %v", org, err)
	}
}
