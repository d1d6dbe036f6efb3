package usecase

import (
	"context"
	"errors"

	"talentbridge/internal/domain/application"
	"talentbridge/internal/domain/event"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrJobInactive          = errors.New("job is not active")
	ErrDuplicateApplication = errors.New("application already exists")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

type ApplicationUsecase interface {
	Apply(ctx context.Context, candidateID, jobID uuid.UUID, coverLetter string) (application.Application, error)
	UpdateStatus(ctx context.Context, applicationID, companyID uuid.UUID, newStatus application.Status, notes string) (application.Application, error)
	Withdraw(ctx context.Context, applicationID, candidateID uuid.UUID) (application.Application, error)
	ListForCandidate(ctx context.Context, candidateID uuid.UUID, status application.Status) ([]application.Application, error)
	ListForJob(ctx context.Context, companyID, jobID uuid.UUID, status application.Status) ([]application.Application, error)
	Stats(ctx context.Context, actorID uuid.UUID, actor match.Role) (map[application.Status]int, error)
}

type Applications struct {
	apps     repository.ApplicationRepository
	jobs     repository.JobRepository
	matching MatchingUsecase
	sink     event.Sink
}

func NewApplicationUsecase(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	matching MatchingUsecase,
	sink event.Sink,
) *Applications {
	return &Applications{apps: apps, jobs: jobs, matching: matching, sink: sink}
}

func (u *Applications) Apply(ctx context.Context, candidateID, jobID uuid.UUID, coverLetter string) (application.Application, error) {
	if candidateID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	if jobID == uuid.Nil {
		return application.Application{}, ErrInvalidInput
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return application.Application{}, ErrJobNotFound
		}
		return application.Application{}, ErrInternal
	}
	if !j.IsActive {
		return application.Application{}, ErrJobInactive
	}

	// Snapshot the current match score so a later rescore cannot
	// retroactively change what this application looked like.
	m, err := u.matching.GetOrCreateMatch(ctx, candidateID, jobID)
	if err != nil {
		return application.Application{}, err
	}

	a := application.Application{
		ID:          uuid.New(),
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      application.StatusPending,
		CoverLetter: coverLetter,
		MatchScore:  m.Score,
	}

	created, err := u.apps.Insert(ctx, a)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if !created {
		return application.Application{}, ErrDuplicateApplication
	}

	stored, err := u.apps.GetByID(ctx, a.ID)
	if err != nil {
		return application.Application{}, ErrInternal
	}

	u.publish(ctx, event.ApplicationReceived{
		ApplicationID: stored.ID,
		CandidateID:   stored.CandidateID,
		JobID:         stored.JobID,
	})
	return stored, nil
}

func (u *Applications) UpdateStatus(ctx context.Context, applicationID, companyID uuid.UUID, newStatus application.Status, notes string) (application.Application, error) {
	if companyID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	if applicationID == uuid.Nil || !newStatus.Valid() {
		return application.Application{}, ErrInvalidInput
	}

	sources := application.CompanySources(newStatus)
	if len(sources) == 0 {
		return application.Application{}, ErrInvalidTransition
	}

	a, err := u.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}

	owned, err := u.jobs.OwnedBy(ctx, a.JobID, companyID)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if !owned {
		return application.Application{}, ErrForbidden
	}

	updated, moved, err := u.apps.TransitionStatus(ctx, applicationID, newStatus, sources, notes)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if !moved {
		// A racer committed first, or the status was already terminal.
		return application.Application{}, ErrInvalidTransition
	}

	u.publish(ctx, event.ApplicationStatusChanged{
		ApplicationID: updated.ID,
		CandidateID:   updated.CandidateID,
		JobID:         updated.JobID,
		NewStatus:     string(updated.Status),
	})
	return updated, nil
}

func (u *Applications) Withdraw(ctx context.Context, applicationID, candidateID uuid.UUID) (application.Application, error) {
	if candidateID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	if applicationID == uuid.Nil {
		return application.Application{}, ErrInvalidInput
	}

	a, err := u.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	if a.CandidateID != candidateID {
		return application.Application{}, ErrForbidden
	}

	updated, moved, err := u.apps.TransitionStatus(ctx, applicationID,
		application.StatusWithdrawn, application.CandidateSources(application.StatusWithdrawn), "")
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if !moved {
		return application.Application{}, ErrInvalidTransition
	}

	u.publish(ctx, event.ApplicationStatusChanged{
		ApplicationID: updated.ID,
		CandidateID:   updated.CandidateID,
		JobID:         updated.JobID,
		NewStatus:     string(updated.Status),
	})
	return updated, nil
}

func (u *Applications) ListForCandidate(ctx context.Context, candidateID uuid.UUID, status application.Status) ([]application.Application, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if status != "" && !status.Valid() {
		return nil, ErrInvalidInput
	}

	out, err := u.apps.ListByCandidate(ctx, candidateID, status)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Applications) ListForJob(ctx context.Context, companyID, jobID uuid.UUID, status application.Status) ([]application.Application, error) {
	if companyID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if jobID == uuid.Nil || (status != "" && !status.Valid()) {
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

	out, err := u.apps.ListByJob(ctx, jobID, status)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Applications) Stats(ctx context.Context, actorID uuid.UUID, actor match.Role) (map[application.Status]int, error) {
	if actorID == uuid.Nil || !actor.Valid() {
		return nil, ErrUnauthorized
	}

	var (
		counts map[application.Status]int
		err    error
	)
	if actor == match.RoleCandidate {
		counts, err = u.apps.CountByStatusForCandidate(ctx, actorID)
	} else {
		counts, err = u.apps.CountByStatusForCompany(ctx, actorID)
	}
	if err != nil {
		return nil, ErrInternal
	}
	return counts, nil
}

func (u *Applications) publish(ctx context.Context, ev event.Event) {
	if u.sink != nil {
		u.sink.Publish(ctx, ev)
	}
}
