package db

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL,
		photo_url TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ,
		proof_description TEXT,
		proof_submitted_by TEXT,
		proof_at TIMESTAMPTZ,
		verification_status TEXT,
		verification_admin_id TEXT,
		verification_at TIMESTAMPTZ,
		verification_notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		organization_id TEXT,
		status TEXT NOT NULL,
		permissions TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		activated_at TIMESTAMPTZ,
		created_by TEXT NOT NULL DEFAULT '',
		is_built_in BOOLEAN NOT NULL DEFAULT FALSE,
		invite_code TEXT UNIQUE,
		temp_password_hash TEXT,
		invite_expiry TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS account_credentials (
		email TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		allow_public_posts BOOLEAN NOT NULL DEFAULT TRUE,
		require_approval BOOLEAN NOT NULL DEFAULT TRUE,
		auto_expire_days INTEGER NOT NULL DEFAULT 30,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invites (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		email TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		invited_by TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		used_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS invites_pending_code_idx ON invites (code) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS storage_objects (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		url TEXT NOT NULL,
		kind TEXT NOT NULL,
		size_bytes BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates any missing tables. Every statement is idempotent.
func Migrate(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
