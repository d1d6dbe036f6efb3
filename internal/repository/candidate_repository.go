package repository

import (
	"context"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/candidate"

	"github.com/google/uuid"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, full_name, skills, experience_years, education_level,
	location, remote_preferred, desired_salary_min, desired_salary_max, created_at, updated_at`

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	return scanCandidate(row)
}

func (r *PostgresCandidateRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM candidates WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresCandidateRepository) Touch(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `UPDATE candidates SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func scanCandidate(row database.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var level string
	err := row.Scan(
		&c.ID, &c.FullName, &c.Skills, &c.ExperienceYears, &level,
		&c.Location, &c.RemotePreferred, &c.DesiredSalaryMin, &c.DesiredSalaryMax,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return candidate.Candidate{}, candidate.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	c.EducationLevel = candidate.EducationLevel(level)
	return c, nil
}
