package usecase

import (
	"context"
	"time"
)

// MatchCache is the slice of the Redis wrapper the matching usecase
// needs. A nil cache disables caching entirely.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}
