package account

import (
	"context"
	"errors"
	"time"

	"backend-lostfound/internal/db"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, email, name, role, organization_id, status, permissions, created_at, activated_at,
		created_by, is_built_in, invite_code, temp_password_hash, invite_expiry`

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Create(ctx context.Context, a Account, passwordHash string) error {
	args := []any{a.ID, a.Email, a.Name, string(a.Role), a.OrganizationID, string(a.Status), a.Permissions, a.CreatedAt, a.ActivatedAt,
		a.CreatedBy, a.IsBuiltIn, nullString(a.InviteCode), nullString(a.TempPasswordHash), a.InviteExpiry}

	var err error
	if passwordHash == "" {
		_, err = s.db.Exec(ctx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`, args...)
	} else {
		_, err = s.db.Exec(ctx, `
			WITH created AS (
				INSERT INTO accounts (`+accountColumns+`)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
				RETURNING email
			)
			INSERT INTO account_credentials (email, password_hash)
			SELECT email, $15 FROM created
			ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		`, append(args, passwordHash)...)
	}
	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Account, error) {
	return s.queryOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	return s.queryOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresStore) FindPendingByCode(ctx context.Context, code string) (Account, error) {
	return s.queryOne(ctx, `
		SELECT `+accountColumns+`
		FROM accounts WHERE invite_code = $1 AND status = 'pending_activation'
	`, code)
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]Account, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR role = $2)
		  AND ($3 = '' OR organization_id = $3)
		ORDER BY created_at
	`, string(filter.Status), string(filter.Role), filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	var removed int
	err := s.db.QueryRow(ctx, `
		WITH removed AS (
			DELETE FROM accounts WHERE id = $1 RETURNING email
		), creds AS (
			DELETE FROM account_credentials WHERE email IN (SELECT email FROM removed)
		)
		SELECT count(*) FROM removed
	`, id).Scan(&removed)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Activate(ctx context.Context, pendingID string, at time.Time, passwordHash string) (Account, error) {
	return s.queryOne(ctx, `
		WITH activated AS (
			UPDATE accounts
			SET id = email, status = 'active', activated_at = $2,
			    invite_code = NULL, temp_password_hash = NULL, invite_expiry = NULL
			WHERE id = $1 AND status = 'pending_activation'
			RETURNING `+accountColumns+`
		), creds AS (
			INSERT INTO account_credentials (email, password_hash)
			SELECT email, $3 FROM activated
			ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		)
		SELECT `+accountColumns+` FROM activated
	`, pendingID, at, passwordHash)
}

func (s *PostgresStore) Credential(ctx context.Context, email string) (string, error) {
	var hash string
	err := s.db.QueryRow(ctx, `SELECT password_hash FROM account_credentials WHERE email = $1`, email).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

func (s *PostgresStore) queryOne(ctx context.Context, sql string, args ...any) (Account, error) {
	a, err := scanAccount(s.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a                    Account
		inviteCode, tempHash *string
	)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.OrganizationID, &a.Status, &a.Permissions, &a.CreatedAt, &a.ActivatedAt,
		&a.CreatedBy, &a.IsBuiltIn, &inviteCode, &tempHash, &a.InviteExpiry)
	if err != nil {
		return Account{}, err
	}
	if inviteCode != nil {
		a.InviteCode = *inviteCode
	}
	if tempHash != nil {
		a.TempPasswordHash = *tempHash
	}
	return a, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
