package service

import (
	"context"
	"encoding/json"
	"errors"

	"eduquiz/internal/cache"
	"eduquiz/internal/domain"
	"eduquiz/internal/logger"

	"go.uber.org/zap"
)

// CacheService is the typed read-through helper the domain services share.
// Every method is safe to call with a nil or unreachable backend: lookups
// degrade to a miss and writes become no-ops, so the database path always
// remains available.
type CacheService interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, ns cache.Namespace, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string)
	InvalidateQuizCache(ctx context.Context, quizID, category string)
	InvalidateUserCache(ctx context.Context, userID string)
}

type cacheServiceImpl struct {
	cache  domain.Cache
	policy *cache.TTLPolicy
}

// NewCacheService creates a new instance of CacheService.
func NewCacheService(c domain.Cache, policy *cache.TTLPolicy) CacheService {
	return &cacheServiceImpl{cache: c, policy: policy}
}

// GetJSON reads key and unmarshals it into dest. The boolean reports a hit;
// backend failures and corrupt entries are both reported as misses.
func (s *cacheServiceImpl) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.cache == nil {
		return false, nil
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return false, nil
		}
		logger.Get().Warn("Cache lookup failed, falling back to source",
			zap.Error(err),
			zap.String("key", key))
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Get().Warn("Corrupt cache entry, evicting",
			zap.Error(err),
			zap.String("key", key))
		s.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON marshals value and stores it under key with the namespace's TTL.
func (s *cacheServiceImpl) SetJSON(ctx context.Context, ns cache.Namespace, key string, value interface{}) error {
	if s.cache == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, key, string(raw), s.policy.TTLFor(ns)); err != nil {
		logger.Get().Warn("Cache write failed",
			zap.Error(err),
			zap.String("key", key))
	}
	return nil
}

// Delete removes keys, logging failures instead of propagating them.
func (s *cacheServiceImpl) Delete(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Cache invalidation failed",
				zap.Error(err),
				zap.String("key", key))
		}
	}
}

// InvalidateQuizCache drops every cached view a quiz mutation can stale: the
// quiz itself, the full listing, its category listing and its stats.
func (s *cacheServiceImpl) InvalidateQuizCache(ctx context.Context, quizID, category string) {
	keys := []string{
		cache.GenerateCacheKey(cache.NamespaceQuiz, quizID),
		cache.GenerateCacheKey(cache.NamespaceQuizList, "all"),
		cache.GenerateCacheKey(cache.NamespaceQuizStats, quizID),
	}
	if category != "" {
		keys = append(keys, cache.GenerateCacheKey(cache.NamespaceQuizzesByCategory, category))
	}
	s.Delete(ctx, keys...)
}

// InvalidateUserCache drops the cached views a finished attempt can stale:
// the profile, the result history and the leaderboard.
func (s *cacheServiceImpl) InvalidateUserCache(ctx context.Context, userID string) {
	s.Delete(ctx,
		cache.GenerateCacheKey(cache.NamespaceUserProfile, userID),
		cache.GenerateCacheKey(cache.NamespaceUserResults, userID),
		cache.GenerateCacheKey(cache.NamespaceLeaderboard, "top"),
	)
}
