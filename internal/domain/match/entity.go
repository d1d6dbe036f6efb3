package match

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("match not found")

// Role identifies which side of a match is acting.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleCompany   Role = "company"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleCompany
}

// Other returns the opposite side of the match.
func (r Role) Other() Role {
	if r == RoleCandidate {
		return RoleCompany
	}
	return RoleCandidate
}

// Match is the canonical row per (candidate, job) pair. IsMutual is
// derived from the two interest flags and is written in the same
// statement that flips either flag.
type Match struct {
	ID                  uuid.UUID
	CandidateID         uuid.UUID
	JobID               uuid.UUID
	Score               int
	CandidateInterested bool
	CompanyInterested   bool
	IsMutual            bool
	FavoriteCandidate   bool
	FavoriteCompany     bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (m Match) Mutual() bool {
	return m.CandidateInterested && m.CompanyInterested
}
