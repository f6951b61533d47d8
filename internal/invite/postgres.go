package invite

import (
	"context"
	"errors"
	"time"

	"backend-lostfound/internal/db"

	"github.com/jackc/pgx/v5"
)

const inviteColumns = `id, code, email, organization_id, invited_by, type, status, created_at, expires_at, used_at`

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Create(ctx context.Context, inv Invite) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO invites (`+inviteColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, inv.ID, inv.Code, inv.Email, inv.OrganizationID, inv.InvitedBy, inv.Type, string(inv.Status), inv.CreatedAt, inv.ExpiresAt, inv.UsedAt)
	if db.IsUniqueViolation(err, "invites_pending_code_idx") {
		return ErrCodeTaken
	}
	return err
}

func (s *PostgresStore) List(ctx context.Context, organizationID string) ([]Invite, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+inviteColumns+`
		FROM invites
		WHERE ($1 = '' OR organization_id = $1)
		ORDER BY created_at DESC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (s *PostgresStore) FindPending(ctx context.Context, code string) (Invite, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+inviteColumns+`
		FROM invites WHERE code = $1 AND status = 'pending'
	`, code)
	inv, err := scanInvite(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invite{}, ErrNotFound
	}
	return inv, err
}

func (s *PostgresStore) MarkUsed(ctx context.Context, id string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invites SET status = 'used', used_at = $2
		WHERE id = $1 AND status = 'pending'
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Release(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invites SET status = 'pending', used_at = NULL
		WHERE id = $1 AND status = 'used'
	`, id)
	if err != nil {
		if db.IsUniqueViolation(err, "invites_pending_code_idx") {
			return ErrCodeTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInvite(row pgx.Row) (Invite, error) {
	var inv Invite
	err := row.Scan(&inv.ID, &inv.Code, &inv.Email, &inv.OrganizationID, &inv.InvitedBy, &inv.Type, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt, &inv.UsedAt)
	return inv, err
}
