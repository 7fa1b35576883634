package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"eduquiz/internal/authz"
	"eduquiz/internal/domain"
	"eduquiz/internal/logger"

	"go.uber.org/zap"
)

// RecommendationEnqueuer hands finished attempts to the background
// recommendation pipeline. Enqueue must never block; a full queue is an error.
type RecommendationEnqueuer interface {
	Enqueue(job domain.RecommendationJob) error
}

// AttemptService drives the quiz-attempt lifecycle: start, answer, finish.
type AttemptService interface {
	StartAttempt(ctx context.Context, caller domain.Caller, quizID string) (*domain.QuizAttempt, error)
	SubmitAnswer(ctx context.Context, caller domain.Caller, attemptID string, questionIndex, selectedOption int) (*domain.QuizAttempt, error)
	FinishAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.ScoreSummary, error)
	GetAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.QuizAttempt, error)
}

type attemptServiceImpl struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.AttemptRepository
	resultRepo  domain.ResultRepository
	userRepo    domain.UserRepository
	txManager   domain.TransactionManager
	cacheSvc    CacheService
	enqueuer    RecommendationEnqueuer

	// mu serializes SubmitAnswer/FinishAttempt per attempt so the
	// read-modify-write on the answer list and the completion transition
	// cannot interleave.
	mu    sync.Mutex
	locks map[string]*attemptLock
}

type attemptLock struct {
	sync.Mutex
	refs int
}

// NewAttemptService creates a new instance of AttemptService.
func NewAttemptService(
	quizRepo domain.QuizRepository,
	attemptRepo domain.AttemptRepository,
	resultRepo domain.ResultRepository,
	userRepo domain.UserRepository,
	txManager domain.TransactionManager,
	cacheSvc CacheService,
	enqueuer RecommendationEnqueuer,
) AttemptService {
	return &attemptServiceImpl{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		resultRepo:  resultRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		cacheSvc:    cacheSvc,
		enqueuer:    enqueuer,
		locks:       make(map[string]*attemptLock),
	}
}

func (s *attemptServiceImpl) lockAttempt(attemptID string) *attemptLock {
	s.mu.Lock()
	l, ok := s.locks[attemptID]
	if !ok {
		l = &attemptLock{}
		s.locks[attemptID] = l
	}
	l.refs++
	s.mu.Unlock()
	l.Lock()
	return l
}

func (s *attemptServiceImpl) unlockAttempt(attemptID string, l *attemptLock) {
	l.Unlock()
	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, attemptID)
	}
	s.mu.Unlock()
}

// StartAttempt creates a fresh in-progress attempt for the caller.
func (s *attemptServiceImpl) StartAttempt(ctx context.Context, caller domain.Caller, quizID string) (*domain.QuizAttempt, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	attempt := domain.NewQuizAttempt(quizID, caller.ID)
	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	logger.Get().Info("Attempt started",
		zap.String("attemptID", attempt.ID),
		zap.String("quizID", quizID),
		zap.String("userID", caller.ID))
	return attempt, nil
}

// loadOwnedAttempt fetches the attempt and runs the ownership check. Callers
// that are neither owner nor admin get a forbidden error even when the
// attempt exists.
func (s *attemptServiceImpl) loadOwnedAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.QuizAttempt, error) {
	attempt, err := s.attemptRepo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt: %w", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	if err := authz.RequireOwner(caller, attempt.UserID); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GetAttempt returns the attempt if the caller may see it.
func (s *attemptServiceImpl) GetAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.QuizAttempt, error) {
	return s.loadOwnedAttempt(ctx, caller, attemptID)
}

// SubmitAnswer records one answer on an in-progress attempt. Answers against
// a completed attempt are rejected; duplicate or out-of-range indices are
// accepted here and resolved at scoring time.
func (s *attemptServiceImpl) SubmitAnswer(ctx context.Context, caller domain.Caller, attemptID string, questionIndex, selectedOption int) (*domain.QuizAttempt, error) {
	l := s.lockAttempt(attemptID)
	defer s.unlockAttempt(attemptID, l)

	attempt, err := s.loadOwnedAttempt(ctx, caller, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		return nil, domain.NewInvalidStateError("Cannot submit answers to a completed attempt")
	}

	answer := domain.Answer{
		QuestionIndex:  questionIndex,
		SelectedOption: selectedOption,
		SubmittedAt:    time.Now(),
	}
	if err := s.attemptRepo.AppendAnswer(ctx, attemptID, answer); err != nil {
		return nil, fmt.Errorf("failed to append answer: %w", err)
	}

	attempt.Answers = append(attempt.Answers, answer)
	attempt.UpdatedAt = answer.SubmittedAt
	return attempt, nil
}

// scoreAttempt resolves the submitted answers against the quiz. Later
// submissions for the same question override earlier ones; indices outside
// the question range are skipped entirely.
func scoreAttempt(quiz *domain.Quiz, attempt *domain.QuizAttempt) (score float64, correct int, incorrect []domain.IncorrectQuestion) {
	total := len(quiz.Questions)
	selected := make(map[int]int, total)
	for _, answer := range attempt.Answers {
		if answer.QuestionIndex < 0 || answer.QuestionIndex >= total {
			continue
		}
		selected[answer.QuestionIndex] = answer.SelectedOption
	}

	incorrect = []domain.IncorrectQuestion{}
	for i, question := range quiz.Questions {
		option, answered := selected[i]
		if answered && option == question.CorrectAnswer {
			correct++
			continue
		}
		incorrect = append(incorrect, domain.IncorrectQuestion{
			QuestionID:    question.ID,
			QuestionText:  question.Text,
			UserAnswer:    optionText(question, option, answered),
			CorrectAnswer: optionText(question, question.CorrectAnswer, true),
		})
	}

	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	return score, correct, incorrect
}

func optionText(question domain.Question, option int, answered bool) string {
	if !answered {
		return ""
	}
	if option >= 0 && option < len(question.Options) {
		return question.Options[option]
	}
	return strconv.Itoa(option)
}

// FinishAttempt transitions the attempt to completed, computes the score,
// writes the result record, awards points, invalidates the user's cached
// views and enqueues recommendation generation. Finishing an already
// completed attempt is an invalid state transition.
func (s *attemptServiceImpl) FinishAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.ScoreSummary, error) {
	l := s.lockAttempt(attemptID)
	defer s.unlockAttempt(attemptID, l)

	attempt, err := s.loadOwnedAttempt(ctx, caller, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		return nil, domain.NewInvalidStateError("Attempt is already completed")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz for scoring: %w", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(attempt.QuizID)
	}

	score, correct, incorrect := scoreAttempt(quiz, attempt)
	points := int(math.Floor(score / 10))
	now := time.Now()

	attempt.Status = domain.AttemptCompleted
	attempt.EndTime = &now
	attempt.Score = &score
	attempt.IncorrectQuestions = incorrect

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attemptRepo.CompleteAttempt(txCtx, attempt); err != nil {
			return err
		}
		result := &domain.QuizResult{
			QuizID:             quiz.ID,
			QuizTitle:          quiz.Title,
			UserID:             attempt.UserID,
			Score:              score,
			CorrectAnswers:     correct,
			TotalQuestions:     len(quiz.Questions),
			IncorrectQuestions: incorrect,
			CompletedAt:        now,
		}
		if err := s.resultRepo.CreateResult(txCtx, result); err != nil {
			return err
		}
		if points > 0 {
			if err := s.userRepo.IncrementQuizPoints(txCtx, attempt.UserID, points); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize attempt: %w", err)
	}

	s.cacheSvc.InvalidateUserCache(ctx, attempt.UserID)

	// Recommendation generation is best effort; a full queue must not fail
	// the finish.
	if s.enqueuer != nil {
		job := domain.RecommendationJob{
			UserID: attempt.UserID,
			QuizID: quiz.ID,
			Input: domain.RecommendationInput{
				Subject:            quiz.Category,
				Level:              quiz.Difficulty,
				Score:              score,
				IncorrectQuestions: incorrect,
			},
		}
		if err := s.enqueuer.Enqueue(job); err != nil {
			logger.Get().Warn("Failed to enqueue recommendation job",
				zap.Error(err),
				zap.String("attemptID", attemptID),
				zap.String("userID", attempt.UserID))
		}
	}

	logger.Get().Info("Attempt finished",
		zap.String("attemptID", attemptID),
		zap.Float64("score", score),
		zap.Int("points", points))

	return &domain.ScoreSummary{
		AttemptID:          attempt.ID,
		Status:             attempt.Status,
		Score:              score,
		CorrectAnswers:     correct,
		TotalQuestions:     len(quiz.Questions),
		PointsEarned:       points,
		IncorrectQuestions: incorrect,
	}, nil
}
