package usecase

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"talentbridge/internal/domain/application"
	"talentbridge/internal/domain/candidate"
	"talentbridge/internal/domain/event"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/domain/message"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

// In-memory fakes mirroring the Postgres repositories' contracts,
// including the conflict-handling booleans.

type memCandidateRepo struct {
	items map[uuid.UUID]candidate.Candidate
	err   error
}

func newMemCandidateRepo(items ...candidate.Candidate) *memCandidateRepo {
	r := &memCandidateRepo{items: map[uuid.UUID]candidate.Candidate{}}
	for _, c := range items {
		r.items[c.ID] = c
	}
	return r
}

func (r *memCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	if r.err != nil {
		return candidate.Candidate{}, r.err
	}
	c, ok := r.items[id]
	if !ok {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	return c, nil
}

func (r *memCandidateRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.items[id]
	return ok, r.err
}

func (r *memCandidateRepo) Touch(context.Context, uuid.UUID) error { return r.err }

type memJobRepo struct {
	items map[uuid.UUID]job.Job
	err   error
}

func newMemJobRepo(items ...job.Job) *memJobRepo {
	r := &memJobRepo{items: map[uuid.UUID]job.Job{}}
	for _, j := range items {
		r.items[j.ID] = j
	}
	return r
}

func (r *memJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if r.err != nil {
		return job.Job{}, r.err
	}
	j, ok := r.items[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (r *memJobRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.items[id]
	return ok, r.err
}

func (r *memJobRepo) ListActive(_ context.Context, limit int) ([]job.Job, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]job.Job, 0, len(r.items))
	for _, j := range r.items {
		if j.IsActive {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID.String() < out[k].ID.String() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memJobRepo) OwnedBy(_ context.Context, jobID, companyID uuid.UUID) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	j, ok := r.items[jobID]
	return ok && j.CompanyID == companyID, nil
}

type memMatchRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]match.Match
	err   error
}

func newMemMatchRepo(items ...match.Match) *memMatchRepo {
	r := &memMatchRepo{items: map[uuid.UUID]match.Match{}}
	for _, m := range items {
		r.items[m.ID] = m
	}
	return r
}

func (r *memMatchRepo) GetByID(_ context.Context, id uuid.UUID) (match.Match, error) {
	if r.err != nil {
		return match.Match{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return match.Match{}, match.ErrNotFound
	}
	return m, nil
}

func (r *memMatchRepo) GetByPair(_ context.Context, candidateID, jobID uuid.UUID) (match.Match, error) {
	if r.err != nil {
		return match.Match{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.CandidateID == candidateID && m.JobID == jobID {
			return m, nil
		}
	}
	return match.Match{}, match.ErrNotFound
}

func (r *memMatchRepo) Create(_ context.Context, m match.Match) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.items {
		if got.CandidateID == m.CandidateID && got.JobID == m.JobID {
			return false, nil
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	r.items[m.ID] = m
	return true, nil
}

func (r *memMatchRepo) UpsertScore(ctx context.Context, candidateID, jobID uuid.UUID, score int) error {
	if r.err != nil {
		return r.err
	}
	m, err := r.GetByPair(ctx, candidateID, jobID)
	if err != nil {
		_, err := r.Create(ctx, match.Match{CandidateID: candidateID, JobID: jobID, Score: score})
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.Score = score
	m.UpdatedAt = time.Now().UTC()
	r.items[m.ID] = m
	return nil
}

func (r *memMatchRepo) SetInterest(_ context.Context, matchID uuid.UUID, role match.Role, interested bool) (match.Match, bool, error) {
	if r.err != nil {
		return match.Match{}, false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, match.ErrNotFound
	}
	wasMutual := m.IsMutual
	if role == match.RoleCandidate {
		m.CandidateInterested = interested
	} else {
		m.CompanyInterested = interested
	}
	m.IsMutual = m.Mutual()
	m.UpdatedAt = time.Now().UTC()
	r.items[matchID] = m
	return m, !wasMutual && m.IsMutual, nil
}

func (r *memMatchRepo) SetFavorite(_ context.Context, matchID uuid.UUID, role match.Role, favorite bool) (match.Match, error) {
	if r.err != nil {
		return match.Match{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, match.ErrNotFound
	}
	if role == match.RoleCandidate {
		m.FavoriteCandidate = favorite
	} else {
		m.FavoriteCompany = favorite
	}
	m.UpdatedAt = time.Now().UTC()
	r.items[matchID] = m
	return m, nil
}

func (r *memMatchRepo) ListForCandidate(_ context.Context, candidateID uuid.UUID, minScore, limit int) ([]repository.CandidateMatchRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repository.CandidateMatchRow{}
	for _, m := range r.items {
		if m.CandidateID == candidateID && m.Score >= minScore {
			out = append(out, repository.CandidateMatchRow{Match: m})
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Match.Score > out[k].Match.Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMatchRepo) ListForJob(_ context.Context, jobID uuid.UUID, minScore, limit int) ([]repository.JobMatchRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repository.JobMatchRow{}
	for _, m := range r.items {
		if m.JobID == jobID && m.Score >= minScore {
			out = append(out, repository.JobMatchRow{Match: m})
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Match.Score > out[k].Match.Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMatchRepo) StatsForCandidate(_ context.Context, candidateID uuid.UUID) (repository.MatchStats, error) {
	if r.err != nil {
		return repository.MatchStats{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var s repository.MatchStats
	for _, m := range r.items {
		if m.CandidateID != candidateID {
			continue
		}
		s.Total++
		if m.IsMutual {
			s.Mutual++
		}
		if m.CandidateInterested {
			s.InterestSent++
		}
		if m.FavoriteCandidate {
			s.Favorites++
		}
	}
	return s, nil
}

func (r *memMatchRepo) StatsForCompany(context.Context, uuid.UUID) (repository.MatchStats, error) {
	return repository.MatchStats{}, r.err
}

type memApplicationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]application.Application
	err   error
}

func newMemApplicationRepo(items ...application.Application) *memApplicationRepo {
	r := &memApplicationRepo{items: map[uuid.UUID]application.Application{}}
	for _, a := range items {
		r.items[a.ID] = a
	}
	return r
}

func (r *memApplicationRepo) Insert(_ context.Context, a application.Application) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.items {
		if got.CandidateID == a.CandidateID && got.JobID == a.JobID && got.Status != application.StatusWithdrawn {
			return false, nil
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	r.items[a.ID] = a
	return true, nil
}

func (r *memApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	if r.err != nil {
		return application.Application{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (r *memApplicationRepo) TransitionStatus(_ context.Context, id uuid.UUID, to application.Status, from []application.Status, notes string) (application.Application, bool, error) {
	if r.err != nil {
		return application.Application{}, false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return application.Application{}, false, application.ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if a.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return a, false, nil
	}
	a.Status = to
	if notes != "" {
		a.CompanyNotes = notes
	}
	switch to {
	case application.StatusReviewed, application.StatusAccepted, application.StatusRejected:
		if a.ReviewedAt == nil {
			now := time.Now().UTC()
			a.ReviewedAt = &now
		}
	}
	r.items[id] = a
	return a, true, nil
}

func (r *memApplicationRepo) ListByCandidate(_ context.Context, candidateID uuid.UUID, status application.Status) ([]application.Application, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []application.Application{}
	for _, a := range r.items {
		if a.CandidateID == candidateID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) ListByJob(_ context.Context, jobID uuid.UUID, status application.Status) ([]application.Application, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []application.Application{}
	for _, a := range r.items {
		if a.JobID == jobID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) CountByStatusForCandidate(_ context.Context, candidateID uuid.UUID) (map[application.Status]int, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[application.Status]int{}
	for _, a := range r.items {
		if a.CandidateID == candidateID {
			out[a.Status]++
		}
	}
	return out, nil
}

func (r *memApplicationRepo) CountByStatusForCompany(context.Context, uuid.UUID) (map[application.Status]int, error) {
	return map[application.Status]int{}, r.err
}

type memMessageRepo struct {
	mu      sync.Mutex
	matches *memMatchRepo
	items   []message.Message
	err     error
}

func newMemMessageRepo(matches *memMatchRepo) *memMessageRepo {
	return &memMessageRepo{matches: matches}
}

func (r *memMessageRepo) InsertGated(ctx context.Context, m message.Message) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	parent, err := r.matches.GetByID(ctx, m.MatchID)
	if err != nil {
		return false, err
	}
	if !parent.IsMutual {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, m)
	return true, nil
}

func (r *memMessageRepo) ListByMatch(_ context.Context, matchID uuid.UUID) ([]message.Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []message.Message{}
	for _, m := range r.items {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) MarkReadFromSender(_ context.Context, matchID uuid.UUID, sender match.Role) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.items {
		if m.MatchID == matchID && m.SenderType == sender {
			r.items[i].IsRead = true
		}
	}
	return nil
}

type memNotificationRepo struct {
	mu    sync.Mutex
	items []notification.Notification
	err   error
}

func (r *memNotificationRepo) Insert(_ context.Context, n notification.Notification) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.items {
		if got.DedupKey == n.DedupKey {
			return false, nil
		}
	}
	r.items = append(r.items, n)
	return true, nil
}

func (r *memNotificationRepo) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.items {
		if got.UserID == userID && !got.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) UnreadCountByType(_ context.Context, userID uuid.UUID, typ notification.Type) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.items {
		if got.UserID == userID && got.Type == typ && !got.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) List(_ context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []notification.Notification{}
	for _, got := range r.items {
		if got.UserID == userID {
			out = append(out, got)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, got := range r.items {
		if got.ID == id && got.UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return notification.ErrNotFound
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, got := range r.items {
		if got.UserID == userID {
			r.items[i].IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, got := range r.items {
		if got.ID == id && got.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return notification.ErrNotFound
}

// recordSink captures published events in order.
type recordSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *recordSink) Publish(_ context.Context, ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordSink) all() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Event(nil), s.events...)
}

// fakeCache is a map-backed MatchCache with glob pattern deletes.
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if ok, _ := path.Match(pattern, key); ok || strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(c.items, key)
		}
	}
	return nil
}
