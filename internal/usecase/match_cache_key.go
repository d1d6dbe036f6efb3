package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

type rankedJobsCacheKeyInput struct {
	CandidateID string `json:"candidate_id"`
	Limit       int    `json:"limit"`
	MinScore    int    `json:"min_score"`
}

func RankedJobsCacheKey(candidateID uuid.UUID, limit, minScore int) string {
	in := rankedJobsCacheKeyInput{
		CandidateID: candidateID.String(),
		Limit:       limit,
		MinScore:    minScore,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "matches:jobs:" + candidateID.String() + ":" + hex.EncodeToString(sum[:])
}

func RankedJobsInvalidationPattern(candidateID uuid.UUID) string {
	return "matches:jobs:" + candidateID.String() + ":*"
}
