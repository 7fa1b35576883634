package dto

import (
	"time"

	"eduquiz/internal/domain"
)

// QuestionRequest is one question inside a quiz create/update request.
type QuestionRequest struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required"`
	CorrectAnswer int      `json:"correct_answer"`
}

// CreateQuizRequest represents a quiz in a create or update request.
// @Description Request body for creating or updating a quiz
type CreateQuizRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Category    string            `json:"category" validate:"required"`
	Difficulty  string            `json:"difficulty"`
	TimeLimit   int               `json:"time_limit"`
	Questions   []QuestionRequest `json:"questions" validate:"required"`
}

// QuestionResponse is one question in a quiz response. The correct answer is
// only present for privileged reads.
type QuestionResponse struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}

// QuizResponse represents a quiz in the API response.
// @Description Quiz information
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category"`
	Difficulty  string             `json:"difficulty,omitempty"`
	TimeLimit   int                `json:"time_limit,omitempty"`
	Questions   []QuestionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
}

// QuizStatsResponse represents aggregate stats for a quiz.
type QuizStatsResponse struct {
	QuizID       string  `json:"quiz_id"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}

// ErrorResponse represents an error in the API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// ToQuizResponse converts a domain quiz. When includeAnswers is false the
// correct-answer indices are stripped so takers cannot read them off the wire.
func ToQuizResponse(quiz *domain.Quiz, includeAnswers bool) *QuizResponse {
	if quiz == nil {
		return nil
	}
	questions := make([]QuestionResponse, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = QuestionResponse{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
		}
		if includeAnswers {
			answer := q.CorrectAnswer
			questions[i].CorrectAnswer = &answer
		}
	}
	return &QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Category:    quiz.Category,
		Difficulty:  quiz.Difficulty,
		TimeLimit:   quiz.TimeLimit,
		Questions:   questions,
		CreatedAt:   quiz.CreatedAt,
	}
}

// ToQuizResponses converts a list of domain quizzes without answers.
func ToQuizResponses(quizzes []*domain.Quiz) []*QuizResponse {
	responses := make([]*QuizResponse, len(quizzes))
	for i, quiz := range quizzes {
		responses[i] = ToQuizResponse(quiz, false)
	}
	return responses
}

// ToDomainQuiz builds a domain quiz from a create/update request.
func (r *CreateQuizRequest) ToDomainQuiz() *domain.Quiz {
	questions := make([]domain.Question, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = domain.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return domain.NewQuiz(r.Title, r.Description, r.Category, r.Difficulty, r.TimeLimit, questions)
}
