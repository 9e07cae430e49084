package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the service tables if they do not exist. Idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user','founder','investor','admin')),
  email_verified BOOLEAN NOT NULL DEFAULT FALSE,

  role_verified BOOLEAN NOT NULL DEFAULT FALSE,
  verification_status TEXT NOT NULL DEFAULT 'not_submitted'
    CHECK (verification_status IN ('not_submitted','pending','approved','rejected')),
  verification_rejection_reason TEXT NOT NULL DEFAULT '',

  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

  CONSTRAINT users_verified_implies_approved CHECK (NOT role_verified OR verification_status = 'approved')
);`,
		`CREATE INDEX IF NOT EXISTS users_role_idx ON users (role);`,
		`
CREATE TABLE IF NOT EXISTS verification_requests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,

  id_document JSONB NOT NULL,
  proof_of_address JSONB NOT NULL,
  business_registration JSONB NULL,
  additional_documents JSONB NOT NULL DEFAULT '[]'::jsonb,

  status TEXT NOT NULL CHECK (status IN ('pending','approved','rejected')),
  submitted_at TIMESTAMPTZ NOT NULL,
  reviewed_at TIMESTAMPTZ NULL,
  reviewed_by TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  rejection_reason TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',

  CONSTRAINT verification_rejected_has_reason CHECK (status <> 'rejected' OR rejection_reason <> '')
);`,
		// at most one pending request per user
		`CREATE UNIQUE INDEX IF NOT EXISTS verification_requests_one_pending ON verification_requests (user_id) WHERE status = 'pending';`,
		`CREATE INDEX IF NOT EXISTS verification_requests_submitted_idx ON verification_requests (submitted_at DESC, id DESC);`,
		`
CREATE TABLE IF NOT EXISTS startups (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  tagline TEXT NOT NULL DEFAULT '',
  industry TEXT NOT NULL DEFAULT '',
  stage TEXT NOT NULL DEFAULT '',
  funding_goal BIGINT NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
		`
CREATE TABLE IF NOT EXISTS interests (
  id TEXT PRIMARY KEY,
  startup_id TEXT NOT NULL REFERENCES startups(id) ON DELETE CASCADE,
  investor_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  amount BIGINT NOT NULL DEFAULT 0,
  message TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT interests_startup_investor_key UNIQUE (startup_id, investor_id)
);`,
		`
CREATE TABLE IF NOT EXISTS waitlist_entries (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('founder','investor','mentor','service_provider','other')),
  reason TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved')),
  approved_at TIMESTAMPTZ NULL,
  approved_by TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT waitlist_entries_email_key UNIQUE (email)
);`,
		`
CREATE TABLE IF NOT EXISTS connections (
  id TEXT PRIMARY KEY,
  requester_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  startup_id TEXT NOT NULL REFERENCES startups(id) ON DELETE CASCADE,
  founder_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  message TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','rejected')),
  responded_at TIMESTAMPTZ NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT connections_requester_startup_key UNIQUE (requester_id, startup_id)
);`,
		`CREATE INDEX IF NOT EXISTS connections_founder_idx ON connections (founder_id, created_at DESC);`,
		`
CREATE TABLE IF NOT EXISTS startup_views (
  id TEXT PRIMARY KEY,
  startup_id TEXT NOT NULL REFERENCES startups(id) ON DELETE CASCADE,
  viewer_id TEXT NOT NULL DEFAULT '',
  ip TEXT NOT NULL DEFAULT '',
  user_agent TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
		`CREATE INDEX IF NOT EXISTS startup_views_startup_idx ON startup_views (startup_id, created_at DESC);`,
	}

	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	return nil
}
