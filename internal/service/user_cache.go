package service

import (
	"context"
	"fmt"
	"time"

	"vibeboxing/internal/cache"
	"vibeboxing/internal/model"
	"vibeboxing/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// userLookup reads user profiles through the redis cache. The cache never
// holds the revocation instant or the password hash: token checks go through
// load, which always reads the database.
type userLookup struct {
	repo  repository.UserRepository
	cache *cache.Client
}

func (l *userLookup) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// get serves the profile from the cache when present.
func (l *userLookup) get(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if l.cache.GetJSON(ctx, l.cacheKey(id), &cached) {
		return &cached, nil
	}
	return l.load(ctx, id)
}

// load reads the authoritative row, ledger included, and refreshes the cached profile.
func (l *userLookup) load(ctx context.Context, id uint) (*model.User, error) {
	user, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = l.cache.SetJSON(ctx, l.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (l *userLookup) invalidate(ctx context.Context, id uint) {
	_ = l.cache.Delete(ctx, l.cacheKey(id))
}
