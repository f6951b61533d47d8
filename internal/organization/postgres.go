package organization

import (
	"context"
	"errors"

	"backend-lostfound/internal/db"

	"github.com/jackc/pgx/v5"
)

const orgColumns = `id, name, slug, type, address, created_at, status, allow_public_posts, require_approval, auto_expire_days`

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Create(ctx context.Context, org Organization) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO organizations (`+orgColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, org.ID, org.Name, org.Slug, org.Type, org.Address, org.CreatedAt, org.Status,
		org.Settings.AllowPublicPosts, org.Settings.RequireApproval, org.Settings.AutoExpireDays)
	if db.IsUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (s *PostgresStore) List(ctx context.Context) ([]Organization, error) {
	rows, err := s.db.Query(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := []Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Organization, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
	org, err := scanOrganization(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	return org, err
}

func scanOrganization(row pgx.Row) (Organization, error) {
	var org Organization
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.Type, &org.Address, &org.CreatedAt, &org.Status,
		&org.Settings.AllowPublicPosts, &org.Settings.RequireApproval, &org.Settings.AutoExpireDays)
	return org, err
}
