package repository

import (
	"context"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/candidate"
	"talentbridge/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ListActive(ctx context.Context, limit int) ([]job.Job, error)
	OwnedBy(ctx context.Context, jobID, companyID uuid.UUID) (bool, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, company_id, title, required_skills, experience_min, experience_max,
	education_level, location, is_remote, salary_min, salary_max, contract_type, is_active,
	created_at, updated_at`

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresJobRepository) ListActive(ctx context.Context, limit int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE is_active ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0, limit)
	for rows.Next() {
		j, err := scanJobFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *PostgresJobRepository) OwnedBy(ctx context.Context, jobID, companyID uuid.UUID) (bool, error) {
	var owned bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1 AND company_id = $2)`,
		jobID, companyID).Scan(&owned)
	return owned, err
}

func scanJob(row database.Row) (job.Job, error) {
	j, err := scanJobFrom(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJobFrom(s scanner) (job.Job, error) {
	var j job.Job
	var level string
	err := s.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.RequiredSkills, &j.ExperienceMin, &j.ExperienceMax,
		&level, &j.Location, &j.IsRemote, &j.SalaryMin, &j.SalaryMax, &j.ContractType,
		&j.IsActive, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.EducationLevel = candidate.EducationLevel(level)
	return j, nil
}
