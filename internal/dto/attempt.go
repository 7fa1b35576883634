package dto

import (
	"time"

	"eduquiz/internal/domain"
)

// StartAttemptRequest represents the request body for starting an attempt.
// @Description Request body for starting a quiz attempt
type StartAttemptRequest struct {
	QuizID string `json:"quiz_id" validate:"required"`
}

// SubmitAnswerRequest represents one answer submission.
// @Description Request body for submitting an answer
type SubmitAnswerRequest struct {
	QuestionIndex  int `json:"question_index"`
	SelectedOption int `json:"selected_option"`
}

// AttemptResponse represents an attempt in the API response.
// @Description Quiz attempt state
type AttemptResponse struct {
	ID        string     `json:"id"`
	QuizID    string     `json:"quiz_id"`
	UserID    string     `json:"user_id"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Answered  int        `json:"answered"`
	Score     *float64   `json:"score,omitempty"`
}

// IncorrectQuestionResponse describes one missed question in a score summary.
type IncorrectQuestionResponse struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// ScoreSummaryResponse represents the outcome of finishing an attempt.
// @Description Final score for a completed attempt
type ScoreSummaryResponse struct {
	AttemptID          string                      `json:"attempt_id"`
	Status             string                      `json:"status"`
	Score              float64                     `json:"score"`
	CorrectAnswers     int                         `json:"correct_answers"`
	TotalQuestions     int                         `json:"total_questions"`
	PointsEarned       int                         `json:"points_earned"`
	IncorrectQuestions []IncorrectQuestionResponse `json:"incorrect_questions"`
}

// QuizResultResponse represents one entry of a user's result history.
type QuizResultResponse struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ToAttemptResponse converts a domain attempt.
func ToAttemptResponse(attempt *domain.QuizAttempt) *AttemptResponse {
	if attempt == nil {
		return nil
	}
	return &AttemptResponse{
		ID:        attempt.ID,
		QuizID:    attempt.QuizID,
		UserID:    attempt.UserID,
		Status:    string(attempt.Status),
		StartTime: attempt.StartTime,
		EndTime:   attempt.EndTime,
		Answered:  len(attempt.Answers),
		Score:     attempt.Score,
	}
}

func toIncorrectQuestionResponses(questions []domain.IncorrectQuestion) []IncorrectQuestionResponse {
	responses := make([]IncorrectQuestionResponse, len(questions))
	for i, q := range questions {
		responses[i] = IncorrectQuestionResponse{
			QuestionID:    q.QuestionID,
			QuestionText:  q.QuestionText,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return responses
}

// ToScoreSummaryResponse converts a domain score summary.
func ToScoreSummaryResponse(summary *domain.ScoreSummary) *ScoreSummaryResponse {
	if summary == nil {
		return nil
	}
	return &ScoreSummaryResponse{
		AttemptID:          summary.AttemptID,
		Status:             string(summary.Status),
		Score:              summary.Score,
		CorrectAnswers:     summary.CorrectAnswers,
		TotalQuestions:     summary.TotalQuestions,
		PointsEarned:       summary.PointsEarned,
		IncorrectQuestions: toIncorrectQuestionResponses(summary.IncorrectQuestions),
	}
}

// ToQuizResultResponses converts a user's result history.
func ToQuizResultResponses(results []*domain.QuizResult) []QuizResultResponse {
	responses := make([]QuizResultResponse, len(results))
	for i, r := range results {
		responses[i] = QuizResultResponse{
			ID:             r.ID,
			QuizID:         r.QuizID,
			QuizTitle:      r.QuizTitle,
			Score:          r.Score,
			CorrectAnswers: r.CorrectAnswers,
			TotalQuestions: r.TotalQuestions,
			CompletedAt:    r.CompletedAt,
		}
	}
	return responses
}
