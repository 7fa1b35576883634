package service

import (
	"context"
	"fmt"

	"eduquiz/internal/authz"
	"eduquiz/internal/cache"
	"eduquiz/internal/domain"
)

const defaultLeaderboardSize = 10

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUserProfile(ctx context.Context, caller domain.Caller, userID string) (*domain.User, error)
	GetUserResults(ctx context.Context, caller domain.Caller, userID string) ([]*domain.QuizResult, error)
	GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type userServiceImpl struct {
	userRepo   domain.UserRepository
	resultRepo domain.ResultRepository
	cacheSvc   CacheService
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo domain.UserRepository, resultRepo domain.ResultRepository, cacheSvc CacheService) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		resultRepo: resultRepo,
		cacheSvc:   cacheSvc,
	}
}

// GetUserProfile retrieves a user's profile. Non-admin callers may only read
// their own.
func (s *userServiceImpl) GetUserProfile(ctx context.Context, caller domain.Caller, userID string) (*domain.User, error) {
	if err := authz.RequireOwner(caller, userID); err != nil {
		return nil, err
	}

	key := cache.GenerateCacheKey(cache.NamespaceUserProfile, userID)
	var cached domain.User
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return &cached, nil
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found")
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceUserProfile, key, user)
	return user, nil
}

// GetUserResults retrieves a user's result history, most recent first.
func (s *userServiceImpl) GetUserResults(ctx context.Context, caller domain.Caller, userID string) ([]*domain.QuizResult, error) {
	if err := authz.RequireOwner(caller, userID); err != nil {
		return nil, err
	}

	key := cache.GenerateCacheKey(cache.NamespaceUserResults, userID)
	var cached []*domain.QuizResult
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return cached, nil
	}

	results, err := s.resultRepo.GetResultsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user results: %w", err)
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceUserResults, key, results)
	return results, nil
}

// GetLeaderboard returns the top users by quiz points. The listing is public
// and cached briefly.
func (s *userServiceImpl) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	key := cache.GenerateCacheKey(cache.NamespaceLeaderboard, "top")
	var cached []domain.LeaderboardEntry
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit && len(cached) >= limit {
		return cached[:limit], nil
	}

	entries, err := s.userRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceLeaderboard, key, entries)
	return entries, nil
}
