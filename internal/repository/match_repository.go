package repository

import (
	"context"
	"time"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/match"

	"github.com/google/uuid"
)

type CandidateMatchRow struct {
	Match       match.Match
	JobTitle    string
	JobLocation string
	JobIsRemote bool
}

type JobMatchRow struct {
	Match             match.Match
	CandidateName     string
	CandidateLocation string
}

type MatchStats struct {
	Total        int
	Mutual       int
	InterestSent int
	Favorites    int
}

type MatchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	GetByPair(ctx context.Context, candidateID, jobID uuid.UUID) (match.Match, error)
	// Create inserts the match unless the pair already exists; created
	// reports whether a row was written.
	Create(ctx context.Context, m match.Match) (bool, error)
	// UpsertScore recomputes score in place; interest and favorite
	// flags survive.
	UpsertScore(ctx context.Context, candidateID, jobID uuid.UUID, score int) error
	// SetInterest flips one side's interest under a row lock and
	// reports whether the write transitioned is_mutual false->true.
	SetInterest(ctx context.Context, matchID uuid.UUID, role match.Role, interested bool) (match.Match, bool, error)
	SetFavorite(ctx context.Context, matchID uuid.UUID, role match.Role, favorite bool) (match.Match, error)
	ListForCandidate(ctx context.Context, candidateID uuid.UUID, minScore, limit int) ([]CandidateMatchRow, error)
	ListForJob(ctx context.Context, jobID uuid.UUID, minScore, limit int) ([]JobMatchRow, error)
	StatsForCandidate(ctx context.Context, candidateID uuid.UUID) (MatchStats, error)
	StatsForCompany(ctx context.Context, companyID uuid.UUID) (MatchStats, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, candidate_id, job_id, score, candidate_interested, company_interested,
	is_mutual, favorite_candidate, favorite_company, created_at, updated_at`

func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	row := r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *PostgresMatchRepository) GetByPair(ctx context.Context, candidateID, jobID uuid.UUID) (match.Match, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID)
	return scanMatch(row)
}

func (r *PostgresMatchRepository) Create(ctx context.Context, m match.Match) (bool, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()

	n, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, candidate_id, job_id, score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (candidate_id, job_id) DO NOTHING`,
		m.ID, m.CandidateID, m.JobID, m.Score, now,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresMatchRepository) UpsertScore(ctx context.Context, candidateID, jobID uuid.UUID, score int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, candidate_id, job_id, score)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
			score = EXCLUDED.score,
			updated_at = now()`,
		uuid.New(), candidateID, jobID, score,
	)
	return err
}

func (r *PostgresMatchRepository) SetInterest(ctx context.Context, matchID uuid.UUID, role match.Role, interested bool) (match.Match, bool, error) {
	var out match.Match
	var becameMutual bool

	err := withTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, matchID)
		m, err := scanMatch(row)
		if err != nil {
			return err
		}

		wasMutual := m.IsMutual
		if role == match.RoleCandidate {
			m.CandidateInterested = interested
		} else {
			m.CompanyInterested = interested
		}
		m.IsMutual = m.Mutual()

		_, err = tx.Exec(ctx,
			`UPDATE matches
			 SET candidate_interested = $2, company_interested = $3, is_mutual = $4, updated_at = now()
			 WHERE id = $1`,
			m.ID, m.CandidateInterested, m.CompanyInterested, m.IsMutual,
		)
		if err != nil {
			return err
		}

		out = m
		becameMutual = !wasMutual && m.IsMutual
		return nil
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return out, becameMutual, nil
}

func (r *PostgresMatchRepository) SetFavorite(ctx context.Context, matchID uuid.UUID, role match.Role, favorite bool) (match.Match, error) {
	column := "favorite_company"
	if role == match.RoleCandidate {
		column = "favorite_candidate"
	}

	row := r.db.QueryRow(ctx,
		`UPDATE matches SET `+column+` = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+matchColumns,
		matchID, favorite,
	)
	return scanMatch(row)
}

func (r *PostgresMatchRepository) ListForCandidate(ctx context.Context, candidateID uuid.UUID, minScore, limit int) ([]CandidateMatchRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.`+matchJoinColumns()+`, j.title, j.location, j.is_remote
		 FROM matches m
		 JOIN jobs j ON j.id = m.job_id
		 WHERE m.candidate_id = $1 AND m.score >= $2 AND j.is_active
		 ORDER BY m.score DESC, m.created_at DESC
		 LIMIT $3`,
		candidateID, minScore, normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CandidateMatchRow, 0)
	for rows.Next() {
		var row CandidateMatchRow
		if err := scanMatchInto(rows, &row.Match, &row.JobTitle, &row.JobLocation, &row.JobIsRemote); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresMatchRepository) ListForJob(ctx context.Context, jobID uuid.UUID, minScore, limit int) ([]JobMatchRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.`+matchJoinColumns()+`, c.full_name, c.location
		 FROM matches m
		 JOIN candidates c ON c.id = m.candidate_id
		 WHERE m.job_id = $1 AND m.score >= $2
		 ORDER BY m.score DESC, m.created_at DESC
		 LIMIT $3`,
		jobID, minScore, normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobMatchRow, 0)
	for rows.Next() {
		var row JobMatchRow
		if err := scanMatchInto(rows, &row.Match, &row.CandidateName, &row.CandidateLocation); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresMatchRepository) StatsForCandidate(ctx context.Context, candidateID uuid.UUID) (MatchStats, error) {
	var s MatchStats
	err := r.db.QueryRow(ctx,
		`SELECT count(*),
			count(*) FILTER (WHERE is_mutual),
			count(*) FILTER (WHERE candidate_interested),
			count(*) FILTER (WHERE favorite_candidate)
		 FROM matches WHERE candidate_id = $1`,
		candidateID).Scan(&s.Total, &s.Mutual, &s.InterestSent, &s.Favorites)
	return s, err
}

func (r *PostgresMatchRepository) StatsForCompany(ctx context.Context, companyID uuid.UUID) (MatchStats, error) {
	var s MatchStats
	err := r.db.QueryRow(ctx,
		`SELECT count(*),
			count(*) FILTER (WHERE m.is_mutual),
			count(*) FILTER (WHERE m.company_interested),
			count(*) FILTER (WHERE m.favorite_company)
		 FROM matches m
		 JOIN jobs j ON j.id = m.job_id
		 WHERE j.company_id = $1`,
		companyID).Scan(&s.Total, &s.Mutual, &s.InterestSent, &s.Favorites)
	return s, err
}

func matchJoinColumns() string {
	return `id, m.candidate_id, m.job_id, m.score, m.candidate_interested, m.company_interested,
		m.is_mutual, m.favorite_candidate, m.favorite_company, m.created_at, m.updated_at`
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func scanMatch(row database.Row) (match.Match, error) {
	var m match.Match
	if err := scanMatchInto(row, &m); err != nil {
		if isNoRows(err) {
			return match.Match{}, match.ErrNotFound
		}
		return match.Match{}, err
	}
	return m, nil
}

func scanMatchInto(s scanner, m *match.Match, extra ...any) error {
	dest := []any{
		&m.ID, &m.CandidateID, &m.JobID, &m.Score, &m.CandidateInterested, &m.CompanyInterested,
		&m.IsMutual, &m.FavoriteCandidate, &m.FavoriteCompany, &m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, extra...)
	return s.Scan(dest...)
}
