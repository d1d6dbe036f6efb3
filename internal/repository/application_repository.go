package repository

import (
	"context"
	"errors"
	"time"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	// Insert writes the application unless a non-withdrawn one already
	// exists for the pair; created reports whether a row was written.
	Insert(ctx context.Context, a application.Application) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	// TransitionStatus is a compare-and-set: the update only lands when
	// the current status is one of from. The returned bool reports
	// whether a row moved.
	TransitionStatus(ctx context.Context, id uuid.UUID, to application.Status, from []application.Status, notes string) (application.Application, bool, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID, status application.Status) ([]application.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, status application.Status) ([]application.Application, error)
	CountByStatusForCandidate(ctx context.Context, candidateID uuid.UUID) (map[application.Status]int, error)
	CountByStatusForCompany(ctx context.Context, companyID uuid.UUID) (map[application.Status]int, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, candidate_id, job_id, status, cover_letter, company_notes,
	match_score, created_at, reviewed_at`

func (r *PostgresApplicationRepository) Insert(ctx context.Context, a application.Application) (bool, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = application.StatusPending
	}
	now := a.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	n, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, candidate_id, job_id, status, cover_letter, match_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (candidate_id, job_id) WHERE status <> 'withdrawn' DO NOTHING`,
		a.ID, a.CandidateID, a.JobID, string(a.Status), a.CoverLetter, a.MatchScore, now,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to application.Status, from []application.Status, notes string) (application.Application, bool, error) {
	sources := make([]string, 0, len(from))
	for _, s := range from {
		sources = append(sources, string(s))
	}

	// reviewed_at records the first entry into reviewed/accepted/rejected
	// and is never overwritten; withdrawal leaves it untouched.
	markReviewed := to == application.StatusReviewed || to == application.StatusAccepted || to == application.StatusRejected

	row := r.db.QueryRow(ctx,
		`UPDATE applications
		 SET status = $2,
			company_notes = CASE WHEN $4 = '' THEN company_notes ELSE $4 END,
			reviewed_at = CASE WHEN $5 THEN COALESCE(reviewed_at, now()) ELSE reviewed_at END
		 WHERE id = $1 AND status = ANY($3)
		 RETURNING `+applicationColumns,
		id, string(to), sources, notes, markReviewed,
	)

	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, false, nil
		}
		return application.Application{}, false, err
	}
	return a, true, nil
}

func (r *PostgresApplicationRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, status application.Status) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE candidate_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC`,
		candidateID, string(status))
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID, status application.Status) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE job_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY match_score DESC, created_at DESC`,
		jobID, string(status))
}

func (r *PostgresApplicationRepository) CountByStatusForCandidate(ctx context.Context, candidateID uuid.UUID) (map[application.Status]int, error) {
	return r.countByStatus(ctx,
		`SELECT status, count(*) FROM applications WHERE candidate_id = $1 GROUP BY status`,
		candidateID)
}

func (r *PostgresApplicationRepository) CountByStatusForCompany(ctx context.Context, companyID uuid.UUID) (map[application.Status]int, error) {
	return r.countByStatus(ctx,
		`SELECT a.status, count(*)
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE j.company_id = $1
		 GROUP BY a.status`,
		companyID)
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplicationFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresApplicationRepository) countByStatus(ctx context.Context, query string, args ...any) (map[application.Status]int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[application.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[application.Status(status)] = n
	}
	return out, rows.Err()
}

func scanApplication(row database.Row) (application.Application, error) {
	a, err := scanApplicationFrom(row)
	if err != nil {
		if isNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func scanApplicationFrom(s scanner) (application.Application, error) {
	var a application.Application
	var status string
	err := s.Scan(
		&a.ID, &a.CandidateID, &a.JobID, &status, &a.CoverLetter, &a.CompanyNotes,
		&a.MatchScore, &a.CreatedAt, &a.ReviewedAt,
	)
	if err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
