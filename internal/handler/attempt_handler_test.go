package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"eduquiz/internal/domain"
	"eduquiz/internal/dto"
	"eduquiz/internal/handler"
	"eduquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAttemptID = "01HV3XJ3V5T1V2W3X4Y5Z6A7B8"
const testQuizID = "01HV3XJ3V5T1V2W3X4Y5Z6A7B9"

// --- Manual Mocks ---

// MockAttemptService
type MockAttemptService struct {
	StartAttemptFunc  func(ctx context.Context, caller domain.Caller, quizID string) (*domain.QuizAttempt, error)
	SubmitAnswerFunc  func(ctx context.Context, caller domain.Caller, attemptID string, questionIndex, selectedOption int) (*domain.QuizAttempt, error)
	FinishAttemptFunc func(ctx context.Context, caller domain.Caller, attemptID string) (*domain.ScoreSummary, error)
	GetAttemptFunc    func(ctx context.Context, caller domain.Caller, attemptID string) (*domain.QuizAttempt, error)
}

func (m *MockAttemptService) StartAttempt(ctx context.Context, caller domain.Caller, quizID string) (*domain.QuizAttempt, error) {
	if m.StartAttemptFunc != nil {
		return m.StartAttemptFunc(ctx, caller, quizID)
	}
	panic("MockAttemptService.StartAttemptFunc not implemented")
}

func (m *MockAttemptService) SubmitAnswer(ctx context.Context, caller domain.Caller, attemptID string, questionIndex, selectedOption int) (*domain.QuizAttempt, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, caller, attemptID, questionIndex, selectedOption)
	}
	panic("MockAttemptService.SubmitAnswerFunc not implemented")
}

func (m *MockAttemptService) FinishAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.ScoreSummary, error) {
	if m.FinishAttemptFunc != nil {
		return m.FinishAttemptFunc(ctx, caller, attemptID)
	}
	panic("MockAttemptService.FinishAttemptFunc not implemented")
}

func (m *MockAttemptService) GetAttempt(ctx context.Context, caller domain.Caller, attemptID string) (*domain.QuizAttempt, error) {
	if m.GetAttemptFunc != nil {
		return m.GetAttemptFunc(ctx, caller, attemptID)
	}
	panic("MockAttemptService.GetAttemptFunc not implemented")
}

// fakeAuth injects a fixed caller, standing in for the JWT middleware.
func fakeAuth(userID string, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, userID)
		c.Locals(middleware.UserRoleKey, string(role))
		return c.Next()
	}
}

func setupAttemptApp(svc *MockAttemptService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewAttemptHandler(svc)
	group := app.Group("/api/attempts", fakeAuth("user1", domain.RoleUser))
	group.Post("/", h.StartAttempt)
	group.Get("/:id", h.GetAttempt)
	group.Post("/:id/answers", h.SubmitAnswer)
	group.Post("/:id/finish", h.FinishAttempt)
	return app
}

func TestStartAttemptHandler(t *testing.T) {
	svc := &MockAttemptService{
		StartAttemptFunc: func(ctx context.Context, caller domain.Caller, quizID string) (*domain.QuizAttempt, error) {
			assert.Equal(t, "user1", caller.ID)
			attempt := domain.NewQuizAttempt(quizID, caller.ID)
			attempt.ID = testAttemptID
			return attempt, nil
		},
	}
	app := setupAttemptApp(svc)

	body, _ := json.Marshal(dto.StartAttemptRequest{QuizID: testQuizID})
	req := httptest.NewRequest("POST", "/api/attempts/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var got dto.AttemptResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, testAttemptID, got.ID)
	assert.Equal(t, "in_progress", got.Status)
}

func TestStartAttemptHandler_InvalidQuizID(t *testing.T) {
	app := setupAttemptApp(&MockAttemptService{})

	body, _ := json.Marshal(dto.StartAttemptRequest{QuizID: "nope"})
	req := httptest.NewRequest("POST", "/api/attempts/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAnswerHandler_CompletedAttemptConflict(t *testing.T) {
	svc := &MockAttemptService{
		SubmitAnswerFunc: func(ctx context.Context, caller domain.Caller, attemptID string, questionIndex, selectedOption int) (*domain.QuizAttempt, error) {
			return nil, domain.NewInvalidStateError("Cannot submit answers to a completed attempt")
		},
	}
	app := setupAttemptApp(svc)

	body, _ := json.Marshal(dto.SubmitAnswerRequest{QuestionIndex: 0, SelectedOption: 1})
	req := httptest.NewRequest("POST", "/api/attempts/"+testAttemptID+"/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var got middleware.ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, string(domain.CodeInvalidState), got.Code)
}

func TestFinishAttemptHandler(t *testing.T) {
	svc := &MockAttemptService{
		FinishAttemptFunc: func(ctx context.Context, caller domain.Caller, attemptID string) (*domain.ScoreSummary, error) {
			return &domain.ScoreSummary{
				AttemptID:          attemptID,
				Status:             domain.AttemptCompleted,
				Score:              75,
				CorrectAnswers:     3,
				TotalQuestions:     4,
				PointsEarned:       7,
				IncorrectQuestions: []domain.IncorrectQuestion{{QuestionID: "q3"}},
			}, nil
		},
	}
	app := setupAttemptApp(svc)

	req := httptest.NewRequest("POST", "/api/attempts/"+testAttemptID+"/finish", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.ScoreSummaryResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 75.0, got.Score)
	assert.Equal(t, 7, got.PointsEarned)
	require.Len(t, got.IncorrectQuestions, 1)
}

func TestGetAttemptHandler_Forbidden(t *testing.T) {
	svc := &MockAttemptService{
		GetAttemptFunc: func(ctx context.Context, caller domain.Caller, attemptID string) (*domain.QuizAttempt, error) {
			return nil, domain.NewForbiddenError("You do not have access to this resource")
		},
	}
	app := setupAttemptApp(svc)

	req := httptest.NewRequest("GET", "/api/attempts/"+testAttemptID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
