package usecase

import (
	"context"
	"errors"
	"testing"

	"talentbridge/internal/domain/candidate"
	"talentbridge/internal/domain/event"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/domain/notification"

	"github.com/google/uuid"
)

func testCandidate(id uuid.UUID) candidate.Candidate {
	return candidate.Candidate{
		ID:              id,
		FullName:        "Ada Example",
		Skills:          []string{"Go", "PostgreSQL"},
		ExperienceYears: 4,
		EducationLevel:  candidate.EducationBachelor,
		Location:        "Berlin",
	}
}

func testJob(id, companyID uuid.UUID) job.Job {
	return job.Job{
		ID:             id,
		CompanyID:      companyID,
		Title:          "Backend Engineer",
		RequiredSkills: []string{"Go", "PostgreSQL"},
		ExperienceMin:  2,
		ExperienceMax:  6,
		EducationLevel: candidate.EducationBachelor,
		Location:       "Berlin",
		IsActive:       true,
	}
}

func TestGetOrCreateMatch_Idempotent(t *testing.T) {
	candidateID, companyID, jobID := uuid.New(), uuid.New(), uuid.New()
	matches := newMemMatchRepo()
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		newMemJobRepo(testJob(jobID, companyID)),
		matches,
		&memNotificationRepo{},
		nil, nil,
	)

	first, err := uc.GetOrCreateMatch(context.Background(), candidateID, jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first.Score != 100 {
		t.Fatalf("expected full-match score 100, got %d", first.Score)
	}

	second, err := uc.GetOrCreateMatch(context.Background(), candidateID, jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same match row, got %s and %s", first.ID, second.ID)
	}
	if len(matches.items) != 1 {
		t.Fatalf("expected 1 match row, got %d", len(matches.items))
	}
}

func TestGetOrCreateMatch_UnknownCandidate(t *testing.T) {
	uc := NewMatchingUsecase(
		newMemCandidateRepo(),
		newMemJobRepo(testJob(uuid.New(), uuid.New())),
		newMemMatchRepo(),
		&memNotificationRepo{},
		nil, nil,
	)

	_, err := uc.GetOrCreateMatch(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestExpressInterest_MutualPublishesExactlyOnce(t *testing.T) {
	candidateID, companyID, jobID := uuid.New(), uuid.New(), uuid.New()
	m := match.Match{ID: uuid.New(), CandidateID: candidateID, JobID: jobID, Score: 80}
	sink := &recordSink{}
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		newMemJobRepo(testJob(jobID, companyID)),
		newMemMatchRepo(m),
		&memNotificationRepo{},
		nil, sink,
	)

	if _, err := uc.ExpressInterest(context.Background(), m.ID, match.RoleCandidate, candidateID, true); err != nil {
		t.Fatalf("candidate interest: %v", err)
	}
	if n := len(sink.all()); n != 0 {
		t.Fatalf("one-sided interest published %d events", n)
	}

	updated, err := uc.ExpressInterest(context.Background(), m.ID, match.RoleCompany, companyID, true)
	if err != nil {
		t.Fatalf("company interest: %v", err)
	}
	if !updated.IsMutual {
		t.Fatalf("expected mutual match")
	}
	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if _, ok := events[0].(event.MatchBecameMutual); !ok {
		t.Fatalf("expected MatchBecameMutual, got %T", events[0])
	}

	// Re-asserting an already-set flag must not fire again.
	if _, err := uc.ExpressInterest(context.Background(), m.ID, match.RoleCompany, companyID, true); err != nil {
		t.Fatalf("redundant interest: %v", err)
	}
	if n := len(sink.all()); n != 1 {
		t.Fatalf("redundant write published extra events: %d total", n)
	}
}

func TestExpressInterest_StrangerForbidden(t *testing.T) {
	candidateID, companyID, jobID := uuid.New(), uuid.New(), uuid.New()
	m := match.Match{ID: uuid.New(), CandidateID: candidateID, JobID: jobID}
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		newMemJobRepo(testJob(jobID, companyID)),
		newMemMatchRepo(m),
		&memNotificationRepo{},
		nil, nil,
	)

	if _, err := uc.ExpressInterest(context.Background(), m.ID, match.RoleCandidate, uuid.New(), true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign candidate, got %v", err)
	}
	if _, err := uc.ExpressInterest(context.Background(), m.ID, match.RoleCompany, uuid.New(), true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign company, got %v", err)
	}
}

func TestSetFavorite_NoEvents(t *testing.T) {
	candidateID, companyID, jobID := uuid.New(), uuid.New(), uuid.New()
	m := match.Match{ID: uuid.New(), CandidateID: candidateID, JobID: jobID}
	sink := &recordSink{}
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		newMemJobRepo(testJob(jobID, companyID)),
		newMemMatchRepo(m),
		&memNotificationRepo{},
		nil, sink,
	)

	updated, err := uc.SetFavorite(context.Background(), m.ID, match.RoleCompany, companyID, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !updated.FavoriteCompany || updated.FavoriteCandidate {
		t.Fatalf("expected only the company flag set, got %+v", updated)
	}
	if n := len(sink.all()); n != 0 {
		t.Fatalf("favorite published %d events", n)
	}
}

func TestRankedJobs_FiltersAndServesFromCache(t *testing.T) {
	candidateID, companyID := uuid.New(), uuid.New()
	strong := testJob(uuid.New(), companyID)
	weak := testJob(uuid.New(), companyID)
	weak.RequiredSkills = []string{"Rust", "Kubernetes", "Terraform"}
	weak.Location = "Lisbon"
	weak.EducationLevel = candidate.EducationDoctorate

	cache := newFakeCache()
	jobs := newMemJobRepo(strong, weak)
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		jobs,
		newMemMatchRepo(),
		&memNotificationRepo{},
		cache, nil,
	)

	ranked, err := uc.RankedJobs(context.Background(), candidateID, 20, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected 1 job above min_score, got %d", len(ranked))
	}
	if ranked[0].JobID != strong.ID {
		t.Fatalf("expected the strong job first")
	}

	// Dropping the job from the repo must not change a cached read.
	delete(jobs.items, strong.ID)
	cached, err := uc.RankedJobs(context.Background(), candidateID, 20, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cached) != 1 || cached[0].JobID != strong.ID {
		t.Fatalf("expected the cached ranking, got %+v", cached)
	}
}

func TestRankedJobs_InvalidatedByInterest(t *testing.T) {
	candidateID, companyID := uuid.New(), uuid.New()
	j := testJob(uuid.New(), companyID)
	cache := newFakeCache()
	matches := newMemMatchRepo()
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		newMemJobRepo(j),
		matches,
		&memNotificationRepo{},
		cache, nil,
	)

	before, err := uc.RankedJobs(context.Background(), candidateID, 20, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(before) != 1 || before[0].CandidateInterested {
		t.Fatalf("unexpected initial ranking: %+v", before)
	}

	if _, err := uc.ExpressInterest(context.Background(), before[0].MatchID, match.RoleCandidate, candidateID, true); err != nil {
		t.Fatalf("interest: %v", err)
	}

	after, err := uc.RankedJobs(context.Background(), candidateID, 20, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(after) != 1 || !after[0].CandidateInterested {
		t.Fatalf("expected a fresh ranking with the interest flag, got %+v", after)
	}
}

func TestRankedCandidates_OwnershipChecks(t *testing.T) {
	companyID, jobID := uuid.New(), uuid.New()
	uc := NewMatchingUsecase(
		newMemCandidateRepo(),
		newMemJobRepo(testJob(jobID, companyID)),
		newMemMatchRepo(),
		&memNotificationRepo{},
		nil, nil,
	)

	if _, err := uc.RankedCandidates(context.Background(), uuid.New(), jobID, 20, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign company, got %v", err)
	}
	if _, err := uc.RankedCandidates(context.Background(), companyID, uuid.New(), 20, 0); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStats_NewMatchesTracksUnreadNotifications(t *testing.T) {
	candidateID := uuid.New()
	notifications := &memNotificationRepo{}
	notifications.items = append(notifications.items,
		notification.Notification{ID: uuid.New(), UserID: candidateID, Type: notification.TypeNewMatch, DedupKey: "a"},
		notification.Notification{ID: uuid.New(), UserID: candidateID, Type: notification.TypeNewMatch, DedupKey: "b", IsRead: true},
		notification.Notification{ID: uuid.New(), UserID: candidateID, Type: notification.TypeMessage, DedupKey: "c"},
	)
	m := match.Match{ID: uuid.New(), CandidateID: candidateID, JobID: uuid.New(), CandidateInterested: true, CompanyInterested: true, IsMutual: true, FavoriteCandidate: true}
	uc := NewMatchingUsecase(
		newMemCandidateRepo(testCandidate(candidateID)),
		newMemJobRepo(),
		newMemMatchRepo(m),
		notifications,
		nil, nil,
	)

	stats, err := uc.Stats(context.Background(), candidateID, match.RoleCandidate)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Total != 1 || stats.Mutual != 1 || stats.InterestSent != 1 || stats.Favorites != 1 {
		t.Fatalf("unexpected match stats: %+v", stats)
	}
	if stats.NewMatches != 1 {
		t.Fatalf("expected 1 unread new-match, got %d", stats.NewMatches)
	}
}
