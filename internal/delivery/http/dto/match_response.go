package dto

import (
	"time"

	"github.com/google/uuid"
)

type MatchResponse struct {
	ID                  uuid.UUID `json:"id"`
	CandidateID         uuid.UUID `json:"candidate_id"`
	JobID               uuid.UUID `json:"job_id"`
	Score               int       `json:"score"`
	CandidateInterested bool      `json:"candidate_interested"`
	CompanyInterested   bool      `json:"company_interested"`
	IsMutual            bool      `json:"is_mutual"`
	IsFavoriteCandidate bool      `json:"is_favorite_candidate"`
	IsFavoriteCompany   bool      `json:"is_favorite_company"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type RankedJobResponse struct {
	MatchID             uuid.UUID `json:"match_id"`
	JobID               uuid.UUID `json:"job_id"`
	Title               string    `json:"title"`
	Location            string    `json:"location"`
	IsRemote            bool      `json:"is_remote"`
	Score               int       `json:"score"`
	CandidateInterested bool      `json:"candidate_interested"`
	CompanyInterested   bool      `json:"company_interested"`
	IsMutual            bool      `json:"is_mutual"`
	IsFavorite          bool      `json:"is_favorite"`
}

type RankedCandidateResponse struct {
	MatchID             uuid.UUID `json:"match_id"`
	CandidateID         uuid.UUID `json:"candidate_id"`
	FullName            string    `json:"full_name"`
	Location            string    `json:"location"`
	Score               int       `json:"score"`
	CandidateInterested bool      `json:"candidate_interested"`
	CompanyInterested   bool      `json:"company_interested"`
	IsMutual            bool      `json:"is_mutual"`
	IsFavorite          bool      `json:"is_favorite"`
}

type MatchStatsResponse struct {
	Total        int `json:"total"`
	Mutual       int `json:"mutual"`
	InterestSent int `json:"interest_sent"`
	Favorites    int `json:"favorites"`
	NewMatches   int `json:"new_matches"`
}

type MatchActionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

type MatchFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

type RescoreRequest struct {
	JobID uuid.UUID `json:"job_id"`
}
