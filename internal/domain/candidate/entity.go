package candidate

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("candidate not found")

// EducationLevel is an ordinal scale; Rank orders levels for comparison.
type EducationLevel string

const (
	EducationNone       EducationLevel = ""
	EducationHighSchool EducationLevel = "high_school"
	EducationDiploma    EducationLevel = "diploma"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationDoctorate  EducationLevel = "doctorate"
)

func (l EducationLevel) Rank() int {
	switch l {
	case EducationHighSchool:
		return 1
	case EducationDiploma:
		return 2
	case EducationBachelor:
		return 3
	case EducationMaster:
		return 4
	case EducationDoctorate:
		return 5
	default:
		return 0
	}
}

// Candidate is keyed by the candidate's account id.
type Candidate struct {
	ID               uuid.UUID
	FullName         string
	Skills           []string
	ExperienceYears  int
	EducationLevel   EducationLevel
	Location         string
	RemotePreferred  bool
	DesiredSalaryMin *int
	DesiredSalaryMax *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
