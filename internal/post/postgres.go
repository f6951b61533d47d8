package post

import (
	"context"
	"errors"
	"time"

	"backend-lostfound/internal/db"

	"github.com/jackc/pgx/v5"
)

const postColumns = `id, title, description, category, location, contact, photo_url, status, created_at, updated_at,
		proof_description, proof_submitted_by, proof_at,
		verification_status, verification_admin_id, verification_at, verification_notes`

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Post, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR strpos(lower(location), lower($3)) > 0)
		  AND ($4 = '' OR strpos(lower(title), lower($4)) > 0 OR strpos(lower(description), lower($4)) > 0)
		ORDER BY created_at DESC
	`, filter.Category, filter.Status, filter.Location, filter.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts WHERE id = $1
	`, id)
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

func (s *PostgresStore) Create(ctx context.Context, p Post) error {
	proofDesc, proofBy, proofAt := proofArgs(p.Proof)
	verStatus, verAdmin, verAt, verNotes := verificationArgs(p.Verification)
	_, err := s.db.Exec(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, p.ID, p.Title, p.Description, string(p.Category), p.Location, p.Contact, p.PhotoURL, string(p.Status), p.Timestamp, p.UpdatedAt,
		proofDesc, proofBy, proofAt, verStatus, verAdmin, verAt, verNotes)
	return err
}

func (s *PostgresStore) Replace(ctx context.Context, expected Status, p Post) error {
	proofDesc, proofBy, proofAt := proofArgs(p.Proof)
	verStatus, verAdmin, verAt, verNotes := verificationArgs(p.Verification)
	tag, err := s.db.Exec(ctx, `
		UPDATE posts
		SET status=$3, updated_at=$4,
		    proof_description=$5, proof_submitted_by=$6, proof_at=$7,
		    verification_status=$8, verification_admin_id=$9, verification_at=$10, verification_notes=$11
		WHERE id=$1 AND status=$2
	`, p.ID, string(expected), string(p.Status), p.UpdatedAt,
		proofDesc, proofBy, proofAt, verStatus, verAdmin, verAt, verNotes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

func scanPost(row pgx.Row) (Post, error) {
	var (
		p                            Post
		updatedAt, proofAt, verAt    *time.Time
		proofDesc, proofBy           *string
		verStatus, verAdmin, verNote *string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Location, &p.Contact, &p.PhotoURL, &p.Status, &p.Timestamp, &updatedAt,
		&proofDesc, &proofBy, &proofAt, &verStatus, &verAdmin, &verAt, &verNote)
	if err != nil {
		return Post{}, err
	}
	p.UpdatedAt = updatedAt
	if proofDesc != nil && proofAt != nil {
		p.Proof = &Proof{Description: *proofDesc, SubmittedBy: deref(proofBy), Timestamp: *proofAt}
	}
	if verStatus != nil && verAt != nil {
		p.Verification = &Verification{
			Status:    VerificationStatus(*verStatus),
			AdminID:   deref(verAdmin),
			Timestamp: *verAt,
			Notes:     deref(verNote),
		}
	}
	return p, nil
}

func proofArgs(p *Proof) (any, any, any) {
	if p == nil {
		return nil, nil, nil
	}
	return p.Description, p.SubmittedBy, p.Timestamp
}

func verificationArgs(v *Verification) (any, any, any, any) {
	if v == nil {
		return nil, nil, nil, nil
	}
	return string(v.Status), v.AdminID, v.Timestamp, v.Notes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
