package service

import (
	"context"
	"testing"

	"eduquiz/internal/cache"
	"eduquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var teacherCaller = domain.Caller{ID: "teacher1", Role: domain.RoleTeacher}

type quizServiceFixture struct {
	quizRepo   *MockQuizRepository
	resultRepo *MockResultRepository
	cacheSvc   *memoryCacheService
	svc        QuizService
}

func newQuizServiceFixture() *quizServiceFixture {
	f := &quizServiceFixture{
		quizRepo:   new(MockQuizRepository),
		resultRepo: new(MockResultRepository),
		cacheSvc:   newMemoryCacheService(),
	}
	f.svc = NewQuizService(f.quizRepo, f.resultRepo, f.cacheSvc)
	return f
}

func TestGetQuiz_ReadThrough(t *testing.T) {
	f := newQuizServiceFixture()
	f.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").Return(sampleQuiz(), nil).Once()

	// First read misses the cache and hits the store.
	quiz, err := f.svc.GetQuiz(context.Background(), "quiz1")
	require.NoError(t, err)
	assert.Equal(t, "Basic Algebra", quiz.Title)

	// Second read is served from the cache; the repository is gone.
	quiz2, err := f.svc.GetQuiz(context.Background(), "quiz1")
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, quiz2.Title)
	f.quizRepo.AssertNumberOfCalls(t, "GetQuizByID", 1)
}

func TestGetQuiz_NotFound(t *testing.T) {
	f := newQuizServiceFixture()
	f.quizRepo.On("GetQuizByID", mock.Anything, "missing").Return(nil, nil)

	_, err := f.svc.GetQuiz(context.Background(), "missing")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}

func TestCreateQuiz(t *testing.T) {
	f := newQuizServiceFixture()
	quiz := sampleQuiz()
	f.quizRepo.On("SaveQuiz", mock.Anything, quiz).Return(nil)

	created, err := f.svc.CreateQuiz(context.Background(), teacherCaller, quiz)

	require.NoError(t, err)
	assert.Equal(t, quiz, created)
	assert.Contains(t, f.cacheSvc.invalidatedQuiz, quiz.ID)
}

func TestCreateQuiz_RequiresTeacherRole(t *testing.T) {
	f := newQuizServiceFixture()
	student := domain.Caller{ID: "user1", Role: domain.RoleUser}

	_, err := f.svc.CreateQuiz(context.Background(), student, sampleQuiz())

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	f.quizRepo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
}

func TestCreateQuiz_ValidationFailure(t *testing.T) {
	f := newQuizServiceFixture()
	quiz := sampleQuiz()
	quiz.Title = ""

	_, err := f.svc.CreateQuiz(context.Background(), teacherCaller, quiz)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeValidation, domainErr.Code)
}

func TestUpdateQuiz_InvalidatesBothCategories(t *testing.T) {
	f := newQuizServiceFixture()
	existing := sampleQuiz()
	updated := sampleQuiz()
	updated.Category = "science"
	f.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").Return(existing, nil)
	f.quizRepo.On("UpdateQuiz", mock.Anything, updated).Return(nil)

	_, err := f.svc.UpdateQuiz(context.Background(), teacherCaller, updated)

	require.NoError(t, err)
	oldKey := cache.GenerateCacheKey(cache.NamespaceQuizzesByCategory, "math")
	newKey := cache.GenerateCacheKey(cache.NamespaceQuizzesByCategory, "science")
	assert.Contains(t, f.cacheSvc.deletedKeys, oldKey)
	assert.Contains(t, f.cacheSvc.deletedKeys, newKey)
}

func TestDeleteQuiz_StaleReadGone(t *testing.T) {
	f := newQuizServiceFixture()
	quiz := sampleQuiz()
	f.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").Return(quiz, nil).Twice()
	f.quizRepo.On("DeleteQuiz", mock.Anything, "quiz1").Return(nil)

	// Warm the cache, then delete.
	_, err := f.svc.GetQuiz(context.Background(), "quiz1")
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteQuiz(context.Background(), teacherCaller, "quiz1"))

	// The cached copy is gone; the next read must go back to the store.
	f.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").Return(nil, nil).Once()
	_, err = f.svc.GetQuiz(context.Background(), "quiz1")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}

func TestGetQuizStats(t *testing.T) {
	f := newQuizServiceFixture()
	f.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").Return(sampleQuiz(), nil)
	f.resultRepo.On("GetQuizStats", mock.Anything, "quiz1").Return(&domain.QuizStats{QuizID: "quiz1", Attempts: 3, AverageScore: 70}, nil).Once()

	stats, err := f.svc.GetQuizStats(context.Background(), "quiz1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Attempts)

	// Served from cache on the second read.
	stats2, err := f.svc.GetQuizStats(context.Background(), "quiz1")
	require.NoError(t, err)
	assert.Equal(t, stats.AverageScore, stats2.AverageScore)
	f.resultRepo.AssertNumberOfCalls(t, "GetQuizStats", 1)
}
