package dto

import (
	"time"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	MatchID    uuid.UUID `json:"match_id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}
