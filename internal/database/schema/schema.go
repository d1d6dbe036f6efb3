package schema

import (
	"context"
	"errors"

	"talentbridge/internal/database"
)

const advisoryLockID = 824113907

// Ensure applies the schema idempotently. An advisory lock keeps two
// replicas booting at once from racing on the same DDL.
func Ensure(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}

	if _, err := db.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockID); err != nil {
		return err
	}
	defer func() {
		_, _ = db.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockID)
	}()

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var statements = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id UUID PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		skills TEXT[] NOT NULL DEFAULT '{}',
		experience_years INT NOT NULL DEFAULT 0,
		education_level TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		remote_preferred BOOLEAN NOT NULL DEFAULT FALSE,
		desired_salary_min INT,
		desired_salary_max INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL,
		title TEXT NOT NULL,
		required_skills TEXT[] NOT NULL DEFAULT '{}',
		experience_min INT NOT NULL DEFAULT 0,
		experience_max INT NOT NULL DEFAULT 0,
		education_level TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		is_remote BOOLEAN NOT NULL DEFAULT FALSE,
		salary_min INT,
		salary_max INT,
		contract_type TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_active ON jobs (is_active)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		candidate_id UUID NOT NULL REFERENCES candidates(id),
		job_id UUID NOT NULL REFERENCES jobs(id),
		score INT NOT NULL DEFAULT 0,
		candidate_interested BOOLEAN NOT NULL DEFAULT FALSE,
		company_interested BOOLEAN NOT NULL DEFAULT FALSE,
		is_mutual BOOLEAN NOT NULL DEFAULT FALSE,
		favorite_candidate BOOLEAN NOT NULL DEFAULT FALSE,
		favorite_company BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (candidate_id, job_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_job_score ON matches (job_id, score DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_candidate_score ON matches (candidate_id, score DESC)`,

	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY,
		candidate_id UUID NOT NULL REFERENCES candidates(id),
		job_id UUID NOT NULL REFERENCES jobs(id),
		status TEXT NOT NULL DEFAULT 'pending',
		cover_letter TEXT NOT NULL DEFAULT '',
		company_notes TEXT NOT NULL DEFAULT '',
		match_score INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		reviewed_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_live_pair
		ON applications (candidate_id, job_id) WHERE status <> 'withdrawn'`,
	`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications (job_id)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		match_id UUID NOT NULL REFERENCES matches(id),
		sender_type TEXT NOT NULL,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_match ON messages (match_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		related_id UUID,
		dedup_key TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (dedup_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
		ON notifications (user_id, is_read, created_at DESC)`,
}
