package organization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

var orgRowColumns = []string{"id", "name", "slug", "type", "address", "created_at", "status", "allow_public_posts", "require_approval", "auto_expire_days"}

func TestPostgresStore(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	store := NewPostgresStore(mock)
	now := time.Now()
	org := Organization{ID: "org_9", Name: "Nine", Slug: "nine", CreatedAt: now, Status: StatusActive, Settings: DefaultSettings()}

	mock.ExpectExec(`INSERT INTO organizations`).
		WithArgs("org_9", "Nine", "nine", "", "", pgxmock.AnyArg(), "active", true, true, 30).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := store.Create(context.Background(), org); err != nil {
		t.Fatalf("create: %v", err)
	}

	mock.ExpectExec(`INSERT INTO organizations`).
		WithArgs("org_9", "Nine", "nine", "", "", pgxmock.AnyArg(), "active", true, true, 30).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "organizations_slug_key"})
	if err := store.Create(context.Background(), org); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	mock.ExpectQuery(`FROM organizations ORDER BY created_at`).
		WillReturnRows(pgxmock.NewRows(orgRowColumns).
			AddRow("org_9", "Nine", "nine", "", "", now, "active", true, false, 14))
	orgs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orgs) != 1 || orgs[0].Settings.RequireApproval || orgs[0].Settings.AutoExpireDays != 14 {
		t.Fatalf("unexpected orgs %+v", orgs)
	}

	mock.ExpectQuery(`FROM organizations WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
