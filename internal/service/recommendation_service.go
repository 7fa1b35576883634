package service

import (
	"context"
	"fmt"

	"eduquiz/internal/authz"
	"eduquiz/internal/cache"
	"eduquiz/internal/domain"
	"eduquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RecommendationService produces and serves AI learning recommendations.
//
// EnsureRecommendation is the background path: the worker calls it for every
// finished attempt. GetOrGenerateRecommendation is the read path: it serves
// the cached or stored document and only talks to the generator when the
// background pipeline has not delivered yet.
type RecommendationService interface {
	EnsureRecommendation(ctx context.Context, job domain.RecommendationJob) error
	GetOrGenerateRecommendation(ctx context.Context, caller domain.Caller, userID, quizID string) (*domain.LearningRecommendation, error)
}

type recommendationServiceImpl struct {
	recRepo    domain.RecommendationRepository
	resultRepo domain.ResultRepository
	quizRepo   domain.QuizRepository
	generator  domain.RecommendationGenerator
	cacheSvc   CacheService

	// group collapses concurrent generate calls for the same (user, quiz)
	// into a single model invocation.
	group singleflight.Group
}

// NewRecommendationService creates a new instance of RecommendationService.
func NewRecommendationService(
	recRepo domain.RecommendationRepository,
	resultRepo domain.ResultRepository,
	quizRepo domain.QuizRepository,
	generator domain.RecommendationGenerator,
	cacheSvc CacheService,
) RecommendationService {
	return &recommendationServiceImpl{
		recRepo:    recRepo,
		resultRepo: resultRepo,
		quizRepo:   quizRepo,
		generator:  generator,
		cacheSvc:   cacheSvc,
	}
}

func recommendationCacheKey(userID, quizID string) string {
	return cache.GenerateCacheKey(cache.NamespaceRecommendations, userID, quizID)
}

// persist upserts the recommendation document and refreshes the cache entry.
func (s *recommendationServiceImpl) persist(ctx context.Context, rec *domain.LearningRecommendation) error {
	existing, err := s.recRepo.GetByUserAndQuiz(ctx, rec.UserID, rec.QuizID)
	if err != nil {
		return fmt.Errorf("failed to look up existing recommendation: %w", err)
	}
	if existing != nil {
		if err := s.recRepo.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update recommendation: %w", err)
		}
	} else {
		if err := s.recRepo.Create(ctx, rec); err != nil {
			return fmt.Errorf("failed to create recommendation: %w", err)
		}
	}

	_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceRecommendations, recommendationCacheKey(rec.UserID, rec.QuizID), rec)
	return nil
}

// EnsureRecommendation generates and stores a recommendation for the job.
// Generator failures propagate so the worker can log them; they never reach
// the user who finished the attempt.
func (s *recommendationServiceImpl) EnsureRecommendation(ctx context.Context, job domain.RecommendationJob) error {
	payload, err := s.generator.Generate(ctx, job.Input)
	if err != nil {
		return fmt.Errorf("recommendation generation failed: %w", err)
	}

	rec := &domain.LearningRecommendation{
		UserID:  job.UserID,
		QuizID:  job.QuizID,
		Subject: job.Input.Subject,
		Level:   job.Input.Level,
		Payload: *payload,
	}
	return s.persist(ctx, rec)
}

// GetOrGenerateRecommendation serves the recommendation for (userID, quizID).
// Lookup order is cache, store, then synchronous generation. Generation
// requires a finished quiz result to derive the input from; without one the
// recommendation does not exist.
func (s *recommendationServiceImpl) GetOrGenerateRecommendation(ctx context.Context, caller domain.Caller, userID, quizID string) (*domain.LearningRecommendation, error) {
	if err := authz.RequireOwner(caller, userID); err != nil {
		return nil, err
	}

	key := recommendationCacheKey(userID, quizID)
	var cached domain.LearningRecommendation
	if hit, _ := s.cacheSvc.GetJSON(ctx, key, &cached); hit {
		return &cached, nil
	}

	stored, err := s.recRepo.GetByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation: %w", err)
	}
	if stored != nil {
		_ = s.cacheSvc.SetJSON(ctx, cache.NamespaceRecommendations, key, stored)
		return stored, nil
	}

	// The background pipeline has not delivered; generate on demand. All
	// concurrent readers of the same pair share one generator call.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.generateFromResult(ctx, userID, quizID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.LearningRecommendation), nil
}

func (s *recommendationServiceImpl) generateFromResult(ctx context.Context, userID, quizID string) (*domain.LearningRecommendation, error) {
	result, err := s.resultRepo.GetResultByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz result: %w", err)
	}
	if result == nil {
		return nil, domain.NewNotFoundError("No completed attempt found for this quiz")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	input := domain.RecommendationInput{
		Subject:            quiz.Category,
		Level:              quiz.Difficulty,
		Score:              result.Score,
		IncorrectQuestions: result.IncorrectQuestions,
	}
	payload, err := s.generator.Generate(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("recommendation generation failed: %w", err)
	}

	rec := &domain.LearningRecommendation{
		UserID:  userID,
		QuizID:  quizID,
		Subject: input.Subject,
		Level:   input.Level,
		Payload: *payload,
	}
	if err := s.persist(ctx, rec); err != nil {
		// Serve the generated payload even when persisting it failed.
		logger.Get().Error("Failed to persist generated recommendation",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("quizID", quizID))
	}
	return rec, nil
}
