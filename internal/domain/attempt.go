package domain

import (
	"time"
)

// AttemptStatus is the lifecycle state of a quiz attempt.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// Answer is a single submitted answer inside an attempt. Indexes are not
// bounds-checked at submission time; scoring skips out-of-range entries.
type Answer struct {
	QuestionIndex  int       `json:"question_index"`
	SelectedOption int       `json:"selected_option"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// IncorrectQuestion is the denormalized summary of one wrongly answered
// question, captured at scoring time.
type IncorrectQuestion struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// QuizAttempt is one user's run through a quiz. Answers are append-only while
// the attempt is in progress; Score and IncorrectQuestions are written exactly
// once at the transition to completed.
type QuizAttempt struct {
	ID                 string
	QuizID             string
	UserID             string
	Status             AttemptStatus
	StartTime          time.Time
	EndTime            *time.Time
	Answers            []Answer
	Score              *float64
	IncorrectQuestions []IncorrectQuestion
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewQuizAttempt creates a fresh in-progress attempt for the given quiz/user.
func NewQuizAttempt(quizID, userID string) *QuizAttempt {
	now := time.Now()
	return &QuizAttempt{
		QuizID:    quizID,
		UserID:    userID,
		Status:    AttemptInProgress,
		StartTime: now,
		Answers:   []Answer{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsCompleted reports whether the attempt reached its terminal state.
func (a *QuizAttempt) IsCompleted() bool {
	return a.Status == AttemptCompleted
}

// ScoreSummary is returned by FinishAttempt.
type ScoreSummary struct {
	AttemptID          string              `json:"attempt_id"`
	Status             AttemptStatus       `json:"status"`
	Score              float64             `json:"score"`
	CorrectAnswers     int                 `json:"correct_answers"`
	TotalQuestions     int                 `json:"total_questions"`
	PointsEarned       int                 `json:"points_earned"`
	IncorrectQuestions []IncorrectQuestion `json:"incorrect_questions"`
}

// QuizResult is the append-only completion record, written once per finished
// attempt and never mutated afterwards.
type QuizResult struct {
	ID                 string
	QuizID             string
	QuizTitle          string
	UserID             string
	Score              float64
	CorrectAnswers     int
	TotalQuestions     int
	IncorrectQuestions []IncorrectQuestion
	CompletedAt        time.Time
}
