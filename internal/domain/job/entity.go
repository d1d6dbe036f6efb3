package job

import (
	"errors"
	"time"

	"talentbridge/internal/domain/candidate"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Title          string
	RequiredSkills []string
	// ExperienceMin/Max bound the expected years of experience.
	ExperienceMin  int
	ExperienceMax  int
	EducationLevel candidate.EducationLevel
	Location       string
	IsRemote       bool
	SalaryMin      *int
	SalaryMax      *int
	ContractType   string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
