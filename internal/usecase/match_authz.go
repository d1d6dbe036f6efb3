package usecase

import (
	"context"
	"errors"

	"talentbridge/internal/domain/match"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

// authorizeMatchActor loads a match and verifies the actor is one of
// its two participants: candidates must own the candidate side,
// companies must own the job.
func authorizeMatchActor(ctx context.Context, matches repository.MatchRepository, jobs repository.JobRepository, matchID uuid.UUID, actor match.Role, actorID uuid.UUID) (match.Match, error) {
	if actorID == uuid.Nil || !actor.Valid() {
		return match.Match{}, ErrUnauthorized
	}
	if matchID == uuid.Nil {
		return match.Match{}, ErrInvalidInput
	}

	m, err := matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, ErrInternal
	}

	switch actor {
	case match.RoleCandidate:
		if m.CandidateID != actorID {
			return match.Match{}, ErrForbidden
		}
	case match.RoleCompany:
		owned, err := jobs.OwnedBy(ctx, m.JobID, actorID)
		if err != nil {
			return match.Match{}, ErrInternal
		}
		if !owned {
			return match.Match{}, ErrForbidden
		}
	}
	return m, nil
}
