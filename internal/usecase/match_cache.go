package usecase

import (
	"context"
	"time"
)

// MatchCache is the JSON cache ranked results are stored in. The Redis
// implementation turns into a no-op when the server is down.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Available() bool
}

type nopCache struct{}

func (nopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (nopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, string) error                      { return nil }
func (nopCache) DeleteByPattern(context.Context, string) error             { return nil }
func (nopCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return false, nil
}
func (nopCache) Available() bool { return false }

func cacheOrNop(c MatchCache) MatchCache {
	if c == nil {
		return nopCache{}
	}
	return c
}
