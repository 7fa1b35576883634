package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"eduquiz/internal/cache"
	"eduquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetAllQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizzesByCategory(ctx context.Context, category string) ([]*domain.Quiz, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetAttemptByID(ctx context.Context, id string) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) AppendAnswer(ctx context.Context, attemptID string, answer domain.Answer) error {
	args := m.Called(ctx, attemptID, answer)
	return args.Error(0)
}

func (m *MockAttemptRepository) CompleteAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

// --- MockResultRepository ---
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetResultsByUserID(ctx context.Context, userID string) ([]*domain.QuizResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizResult), args.Error(1)
}

func (m *MockResultRepository) GetResultByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.QuizResult, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizResult), args.Error(1)
}

func (m *MockResultRepository) GetQuizStats(ctx context.Context, quizID string) (*domain.QuizStats, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizStats), args.Error(1)
}

// --- MockRecommendationRepository ---
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) GetByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.LearningRecommendation, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningRecommendation), args.Error(1)
}

func (m *MockRecommendationRepository) Create(ctx context.Context, rec *domain.LearningRecommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecommendationRepository) Update(ctx context.Context, rec *domain.LearningRecommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) IncrementQuizPoints(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// --- MockRecommendationGenerator ---
type MockRecommendationGenerator struct {
	mock.Mock
}

func (m *MockRecommendationGenerator) Generate(ctx context.Context, input domain.RecommendationInput) (*domain.RecommendationPayload, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecommendationPayload), args.Error(1)
}

// --- MockEnqueuer ---
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(job domain.RecommendationJob) error {
	args := m.Called(job)
	return args.Error(0)
}

// --- noopTransactionManager ---
// Runs the function directly; transactional behavior is covered by the
// repository tests.
type noopTransactionManager struct{}

func (noopTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- memoryCacheService ---
// In-memory CacheService double for the service tests. It records which keys
// were invalidated so invalidation invariants can be asserted.
type memoryCacheService struct {
	mu               sync.Mutex
	entries          map[string]string
	invalidatedUsers []string
	invalidatedQuiz  []string
	deletedKeys      []string
}

func newMemoryCacheService() *memoryCacheService {
	return &memoryCacheService{entries: make(map[string]string)}
}

func (m *memoryCacheService) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryCacheService) SetJSON(ctx context.Context, ns cache.Namespace, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = string(raw)
	m.mu.Unlock()
	return nil
}

func (m *memoryCacheService) Delete(ctx context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
		m.deletedKeys = append(m.deletedKeys, key)
	}
}

func (m *memoryCacheService) InvalidateQuizCache(ctx context.Context, quizID, category string) {
	m.Delete(ctx,
		cache.GenerateCacheKey(cache.NamespaceQuiz, quizID),
		cache.GenerateCacheKey(cache.NamespaceQuizList, "all"),
		cache.GenerateCacheKey(cache.NamespaceQuizStats, quizID),
		cache.GenerateCacheKey(cache.NamespaceQuizzesByCategory, category),
	)
	m.mu.Lock()
	m.invalidatedQuiz = append(m.invalidatedQuiz, quizID)
	m.mu.Unlock()
}

func (m *memoryCacheService) InvalidateUserCache(ctx context.Context, userID string) {
	m.Delete(ctx,
		cache.GenerateCacheKey(cache.NamespaceUserProfile, userID),
		cache.GenerateCacheKey(cache.NamespaceUserResults, userID),
		cache.GenerateCacheKey(cache.NamespaceLeaderboard, "top"),
	)
	m.mu.Lock()
	m.invalidatedUsers = append(m.invalidatedUsers, userID)
	m.mu.Unlock()
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
