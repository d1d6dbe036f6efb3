package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("application not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// companyTransitions lists the statuses a company may move an
// application out of, per target status.
var companyTransitions = map[Status][]Status{
	StatusReviewed: {StatusPending},
	StatusAccepted: {StatusPending, StatusReviewed},
	StatusRejected: {StatusPending, StatusReviewed},
}

// CompanySources returns the legal source statuses for a company-driven
// transition into target, or nil when the target itself is illegal.
func CompanySources(target Status) []Status {
	return companyTransitions[target]
}

// CandidateSources: a candidate may only withdraw a pending application.
func CandidateSources(target Status) []Status {
	if target == StatusWithdrawn {
		return []Status{StatusPending}
	}
	return nil
}

type Application struct {
	ID           uuid.UUID
	CandidateID  uuid.UUID
	JobID        uuid.UUID
	Status       Status
	CoverLetter  string
	CompanyNotes string
	// MatchScore snapshots Match.Score at submission time so a later
	// rescore does not rewrite history.
	MatchScore int
	CreatedAt  time.Time
	ReviewedAt *time.Time
}
