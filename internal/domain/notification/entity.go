package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeNewMatch            Type = "new_match"
	TypeApplicationReceived Type = "application_received"
	TypeApplicationStatus   Type = "application_status"
	TypeMessage             Type = "message"
	TypeProfileView         Type = "profile_view"
	TypeSystem              Type = "system"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	RelatedID uuid.UUID
	DedupKey  string
	IsRead    bool
	CreatedAt time.Time
}

// DedupKey buckets time so retried or racing writers of the same event
// collapse onto one row via the unique index.
func DedupKey(userID uuid.UUID, typ Type, relatedID uuid.UUID, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = 10 * time.Minute
	}
	start := at.UTC().Truncate(bucket).Unix()
	return fmt.Sprintf("%s:%s:%s:%d", userID, typ, relatedID, start)
}
