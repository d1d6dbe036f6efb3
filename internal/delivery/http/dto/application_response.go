package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID           uuid.UUID  `json:"id"`
	CandidateID  uuid.UUID  `json:"candidate_id"`
	JobID        uuid.UUID  `json:"job_id"`
	Status       string     `json:"status"`
	CoverLetter  string     `json:"cover_letter,omitempty"`
	CompanyNotes string     `json:"company_notes,omitempty"`
	MatchScore   int        `json:"match_score"`
	CreatedAt    time.Time  `json:"created_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type ApplicationStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type ApplicationStatsResponse struct {
	Pending   int `json:"pending"`
	Reviewed  int `json:"reviewed"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Withdrawn int `json:"withdrawn"`
}
