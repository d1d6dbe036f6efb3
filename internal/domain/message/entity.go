package message

import (
	"errors"
	"strings"
	"time"

	"talentbridge/internal/domain/match"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("message not found")

// MaxContentLength mirrors the client-side composer bound.
const MaxContentLength = 2000

type Message struct {
	ID         uuid.UUID
	MatchID    uuid.UUID
	SenderType match.Role
	Content    string
	IsRead     bool
	CreatedAt  time.Time
}

// ValidateContent enforces the non-empty, length-bounded contract.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("empty content")
	}
	if len(content) > MaxContentLength {
		return errors.New("content too long")
	}
	return nil
}
