package usecase

import (
	"context"
	"errors"
	"time"

	"talentbridge/internal/domain/candidate"
	"talentbridge/internal/domain/event"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/domain/scoring"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrJobNotFound       = errors.New("job not found")
	ErrMatchNotFound     = errors.New("match not found")
)

const (
	rankedJobsCacheTTL = 30 * time.Second
	rankScanLimit      = 200
)

type RankedJob struct {
	MatchID             uuid.UUID `json:"match_id"`
	JobID               uuid.UUID `json:"job_id"`
	Title               string    `json:"title"`
	Location            string    `json:"location"`
	IsRemote            bool      `json:"is_remote"`
	Score               int       `json:"score"`
	CandidateInterested bool      `json:"candidate_interested"`
	CompanyInterested   bool      `json:"company_interested"`
	IsMutual            bool      `json:"is_mutual"`
	IsFavorite          bool      `json:"is_favorite"`
}

type RankedCandidate struct {
	MatchID             uuid.UUID `json:"match_id"`
	CandidateID         uuid.UUID `json:"candidate_id"`
	FullName            string    `json:"full_name"`
	Location            string    `json:"location"`
	Score               int       `json:"score"`
	CandidateInterested bool      `json:"candidate_interested"`
	CompanyInterested   bool      `json:"company_interested"`
	IsMutual            bool      `json:"is_mutual"`
	IsFavorite          bool      `json:"is_favorite"`
}

type MatchBadgeStats struct {
	Total        int `json:"total"`
	Mutual       int `json:"mutual"`
	InterestSent int `json:"interest_sent"`
	Favorites    int `json:"favorites"`
	NewMatches   int `json:"new_matches"`
}

type MatchingUsecase interface {
	GetOrCreateMatch(ctx context.Context, candidateID, jobID uuid.UUID) (match.Match, error)
	ExpressInterest(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID, interested bool) (match.Match, error)
	SetFavorite(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID, favorite bool) (match.Match, error)
	RankedJobs(ctx context.Context, candidateID uuid.UUID, limit, minScore int) ([]RankedJob, error)
	RankedCandidates(ctx context.Context, companyID, jobID uuid.UUID, limit, minScore int) ([]RankedCandidate, error)
	Rescore(ctx context.Context, candidateID, jobID uuid.UUID) (match.Match, error)
	Stats(ctx context.Context, actorID uuid.UUID, actor match.Role) (MatchBadgeStats, error)
}

type Matching struct {
	candidates    repository.CandidateRepository
	jobs          repository.JobRepository
	matches       repository.MatchRepository
	notifications repository.NotificationRepository
	cache         MatchCache
	sink          event.Sink
}

func NewMatchingUsecase(
	candidates repository.CandidateRepository,
	jobs repository.JobRepository,
	matches repository.MatchRepository,
	notifications repository.NotificationRepository,
	cache MatchCache,
	sink event.Sink,
) *Matching {
	return &Matching{
		candidates:    candidates,
		jobs:          jobs,
		matches:       matches,
		notifications: notifications,
		cache:         cache,
		sink:          sink,
	}
}

func (u *Matching) GetOrCreateMatch(ctx context.Context, candidateID, jobID uuid.UUID) (match.Match, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return match.Match{}, ErrInvalidInput
	}

	m, err := u.matches.GetByPair(ctx, candidateID, jobID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, match.ErrNotFound) {
		return match.Match{}, ErrInternal
	}

	c, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return match.Match{}, mapCandidateErr(err)
	}
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return match.Match{}, mapJobErr(err)
	}

	_, err = u.matches.Create(ctx, match.Match{
		CandidateID: candidateID,
		JobID:       jobID,
		Score:       scoring.Score(c, j),
	})
	if err != nil {
		return match.Match{}, ErrInternal
	}

	// A losing racer falls through to the winner's row.
	m, err = u.matches.GetByPair(ctx, candidateID, jobID)
	if err != nil {
		return match.Match{}, ErrInternal
	}
	return m, nil
}

func (u *Matching) ExpressInterest(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID, interested bool) (match.Match, error) {
	m, err := u.authorizedMatch(ctx, matchID, actor, actorID)
	if err != nil {
		return match.Match{}, err
	}

	updated, becameMutual, err := u.matches.SetInterest(ctx, m.ID, actor, interested)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, ErrInternal
	}

	if becameMutual {
		u.publish(ctx, event.MatchBecameMutual{
			MatchID:     updated.ID,
			CandidateID: updated.CandidateID,
			JobID:       updated.JobID,
		})
	}
	u.invalidateRanked(ctx, updated.CandidateID)

	return updated, nil
}

func (u *Matching) SetFavorite(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID, favorite bool) (match.Match, error) {
	m, err := u.authorizedMatch(ctx, matchID, actor, actorID)
	if err != nil {
		return match.Match{}, err
	}

	// Pure bookmark: no events, no notifications.
	updated, err := u.matches.SetFavorite(ctx, m.ID, actor, favorite)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, ErrInternal
	}
	return updated, nil
}

func (u *Matching) RankedJobs(ctx context.Context, candidateID uuid.UUID, limit, minScore int) ([]RankedJob, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if limit < 0 || minScore < 0 || minScore > 100 {
		return nil, ErrInvalidInput
	}

	cacheKey := RankedJobsCacheKey(candidateID, limit, minScore)
	if u.cache != nil {
		var cached []RankedJob
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	c, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, mapCandidateErr(err)
	}

	// Matches materialize lazily: every active job gets its score
	// upserted in place, so interest flags survive the recompute.
	jobs, err := u.jobs.ListActive(ctx, rankScanLimit)
	if err != nil {
		return nil, ErrInternal
	}
	for _, j := range jobs {
		if err := u.matches.UpsertScore(ctx, candidateID, j.ID, scoring.Score(c, j)); err != nil {
			return nil, ErrInternal
		}
	}

	rows, err := u.matches.ListForCandidate(ctx, candidateID, minScore, limit)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]RankedJob, 0, len(rows))
	for _, r := range rows {
		out = append(out, RankedJob{
			MatchID:             r.Match.ID,
			JobID:               r.Match.JobID,
			Title:               r.JobTitle,
			Location:            r.JobLocation,
			IsRemote:            r.JobIsRemote,
			Score:               r.Match.Score,
			CandidateInterested: r.Match.CandidateInterested,
			CompanyInterested:   r.Match.CompanyInterested,
			IsMutual:            r.Match.IsMutual,
			IsFavorite:          r.Match.FavoriteCandidate,
		})
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, out, rankedJobsCacheTTL)
	}
	return out, nil
}

func (u *Matching) RankedCandidates(ctx context.Context, companyID, jobID uuid.UUID, limit, minScore int) ([]RankedCandidate, error) {
	if companyID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if jobID == uuid.Nil || limit < 0 || minScore < 0 || minScore > 100 {
		return nil, ErrInvalidInput
	}

	owned, err := u.jobs.OwnedBy(ctx, jobID, companyID)
	if err != nil {
		return nil, ErrInternal
	}
	if !owned {
		exists, err := u.jobs.ExistsByID(ctx, jobID)
		if err != nil {
			return nil, ErrInternal
		}
		if !exists {
			return nil, ErrJobNotFound
		}
		return nil, ErrForbidden
	}

	rows, err := u.matches.ListForJob(ctx, jobID, minScore, limit)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]RankedCandidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, RankedCandidate{
			MatchID:             r.Match.ID,
			CandidateID:         r.Match.CandidateID,
			FullName:            r.CandidateName,
			Location:            r.CandidateLocation,
			Score:               r.Match.Score,
			CandidateInterested: r.Match.CandidateInterested,
			CompanyInterested:   r.Match.CompanyInterested,
			IsMutual:            r.Match.IsMutual,
			IsFavorite:          r.Match.FavoriteCompany,
		})
	}
	return out, nil
}

func (u *Matching) Rescore(ctx context.Context, candidateID, jobID uuid.UUID) (match.Match, error) {
	if candidateID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	if jobID == uuid.Nil {
		return match.Match{}, ErrInvalidInput
	}

	c, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return match.Match{}, mapCandidateErr(err)
	}
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return match.Match{}, mapJobErr(err)
	}

	if err := u.matches.UpsertScore(ctx, candidateID, jobID, scoring.Score(c, j)); err != nil {
		return match.Match{}, ErrInternal
	}
	u.invalidateRanked(ctx, candidateID)

	m, err := u.matches.GetByPair(ctx, candidateID, jobID)
	if err != nil {
		return match.Match{}, ErrInternal
	}
	return m, nil
}

func (u *Matching) Stats(ctx context.Context, actorID uuid.UUID, actor match.Role) (MatchBadgeStats, error) {
	if actorID == uuid.Nil || !actor.Valid() {
		return MatchBadgeStats{}, ErrUnauthorized
	}

	var (
		stats repository.MatchStats
		err   error
	)
	if actor == match.RoleCandidate {
		stats, err = u.matches.StatsForCandidate(ctx, actorID)
	} else {
		stats, err = u.matches.StatsForCompany(ctx, actorID)
	}
	if err != nil {
		return MatchBadgeStats{}, ErrInternal
	}

	newMatches, err := u.notifications.UnreadCountByType(ctx, actorID, notification.TypeNewMatch)
	if err != nil {
		return MatchBadgeStats{}, ErrInternal
	}

	return MatchBadgeStats{
		Total:        stats.Total,
		Mutual:       stats.Mutual,
		InterestSent: stats.InterestSent,
		Favorites:    stats.Favorites,
		NewMatches:   newMatches,
	}, nil
}

func (u *Matching) authorizedMatch(ctx context.Context, matchID uuid.UUID, actor match.Role, actorID uuid.UUID) (match.Match, error) {
	return authorizeMatchActor(ctx, u.matches, u.jobs, matchID, actor, actorID)
}

func (u *Matching) publish(ctx context.Context, ev event.Event) {
	if u.sink != nil {
		u.sink.Publish(ctx, ev)
	}
}

func (u *Matching) invalidateRanked(ctx context.Context, candidateID uuid.UUID) {
	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, RankedJobsInvalidationPattern(candidateID))
	}
}

func mapCandidateErr(err error) error {
	if errors.Is(err, candidate.ErrNotFound) {
		return ErrCandidateNotFound
	}
	return ErrInternal
}

func mapJobErr(err error) error {
	if errors.Is(err, job.ErrNotFound) {
		return ErrJobNotFound
	}
	return ErrInternal
}
