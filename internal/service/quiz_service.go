package service

import (
	"context"
	"fmt"

	"eduquiz/internal/authz"
	"eduquiz/internal/cache"
	"eduquiz/internal/domain"
	"eduquiz/internal/logger"

	"go.uber.org/zap"
)

// QuizService serves quiz reads through the cache and runs the
// cache-invalidating mutations.
type QuizService interface {
	GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
	GetAllQuizzes(ctx context.Context) ([]*domain.Quiz, error)
	GetQuizzesByCategory(ctx context.Context, category string) ([]*domain.Quiz, error)
	GetQuizStats(ctx context.Context, quizID string) (*domain.QuizStats, error)
	CreateQuiz(ctx context.Context, caller domain.Caller, quiz *domain.Quiz) (*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, caller domain.Caller, quiz *domain.Quiz) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, caller domain.Caller, quizID string) error
}

type quizServiceImpl struct {
	quizRepo   domain.QuizRepository
	resultRepo domain.ResultRepository
	cacheSvc   CacheService
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(quizRepo domain.QuizRepository, resultRepo domain.ResultRepository, cacheSvc CacheService) QuizService {
	return &quizServiceImpl{
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		cacheSvc:   cacheSvc,
	}
}

// GetQuiz reads one quiz through the cache.
func (s *quizServiceImpl) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	key := cache.GenerateCacheKey(cache.NamespaceQuiz, quizID)
	var cached domain.Quiz
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return &cached, nil
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceQuiz, key, quiz)
	return quiz, nil
}

// GetAllQuizzes reads the full listing through the cache.
func (s *quizServiceImpl) GetAllQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	key := cache.GenerateCacheKey(cache.NamespaceQuizList, "all")
	var cached []*domain.Quiz
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return cached, nil
	}

	quizzes, err := s.quizRepo.GetAllQuizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceQuizList, key, quizzes)
	return quizzes, nil
}

// GetQuizzesByCategory reads one category listing through the cache.
func (s *quizServiceImpl) GetQuizzesByCategory(ctx context.Context, category string) ([]*domain.Quiz, error) {
	key := cache.GenerateCacheKey(cache.NamespaceQuizzesByCategory, category)
	var cached []*domain.Quiz
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return cached, nil
	}

	quizzes, err := s.quizRepo.GetQuizzesByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes by category: %w", err)
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceQuizzesByCategory, key, quizzes)
	return quizzes, nil
}

// GetQuizStats reads the aggregate stats for a quiz through the cache.
func (s *quizServiceImpl) GetQuizStats(ctx context.Context, quizID string) (*domain.QuizStats, error) {
	key := cache.GenerateCacheKey(cache.NamespaceQuizStats, quizID)
	var cached domain.QuizStats
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return &cached, nil
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	stats, err := s.resultRepo.GetQuizStats(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz stats: %w", err)
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceQuizStats, key, stats)
	return stats, nil
}

// CreateQuiz validates and stores a new quiz. Teachers and admins only.
func (s *quizServiceImpl) CreateQuiz(ctx context.Context, caller domain.Caller, quiz *domain.Quiz) (*domain.Quiz, error) {
	if err := authz.RequireRole(caller, domain.RoleTeacher); err != nil {
		return nil, err
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}

	s.cacheSvc.InvalidateQuizCache(ctx, quiz.ID, quiz.Category)
	logger.Get().Info("Quiz created",
		zap.String("quizID", quiz.ID),
		zap.String("category", quiz.Category))
	return quiz, nil
}

// UpdateQuiz replaces an existing quiz and drops every cached view of it.
func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, caller domain.Caller, quiz *domain.Quiz) (*domain.Quiz, error) {
	if err := authz.RequireRole(caller, domain.RoleTeacher); err != nil {
		return nil, err
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.quizRepo.GetQuizByID(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if existing == nil {
		return nil, domain.NewQuizNotFoundError(quiz.ID)
	}

	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	// The category may have changed; drop the old listing too.
	s.cacheSvc.InvalidateQuizCache(ctx, quiz.ID, quiz.Category)
	if existing.Category != quiz.Category {
		s.cacheSvc.Delete(ctx, cache.GenerateCacheKey(cache.NamespaceQuizzesByCategory, existing.Category))
	}
	return quiz, nil
}

// DeleteQuiz removes a quiz and drops every cached view of it.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, caller domain.Caller, quizID string) error {
	if err := authz.RequireRole(caller, domain.RoleTeacher); err != nil {
		return err
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}

	if err := s.quizRepo.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.cacheSvc.InvalidateQuizCache(ctx, quizID, quiz.Category)
	logger.Get().Info("Quiz deleted", zap.String("quizID", quizID))
	return nil
}
