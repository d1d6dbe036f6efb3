package event

import (
	"context"

	"talentbridge/internal/domain/match"

	"github.com/google/uuid"
)

// Sink consumes domain events synchronously, after the raising
// operation has committed.
type Sink interface {
	Publish(ctx context.Context, ev Event)
}

type Event interface {
	eventName() string
}

// MatchBecameMutual fires exactly once per false→true mutuality flip.
type MatchBecameMutual struct {
	MatchID     uuid.UUID
	CandidateID uuid.UUID
	JobID       uuid.UUID
}

// ApplicationReceived fires when a candidate applies to a job.
type ApplicationReceived struct {
	ApplicationID uuid.UUID
	CandidateID   uuid.UUID
	JobID         uuid.UUID
}

// ApplicationStatusChanged fires on every committed status transition.
type ApplicationStatusChanged struct {
	ApplicationID uuid.UUID
	CandidateID   uuid.UUID
	JobID         uuid.UUID
	NewStatus     string
}

// MessageSent fires after a gated message is persisted.
type MessageSent struct {
	MessageID   uuid.UUID
	MatchID     uuid.UUID
	CandidateID uuid.UUID
	JobID       uuid.UUID
	Sender      match.Role
}

// ProfileViewed is raised by external callers (company viewed a
// candidate profile).
type ProfileViewed struct {
	CandidateID uuid.UUID
	ViewerID    uuid.UUID
}

func (MatchBecameMutual) eventName() string        { return "match_became_mutual" }
func (ApplicationReceived) eventName() string      { return "application_received" }
func (ApplicationStatusChanged) eventName() string { return "application_status_changed" }
func (MessageSent) eventName() string              { return "message_sent" }
func (ProfileViewed) eventName() string            { return "profile_view" }
