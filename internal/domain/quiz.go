package domain

import (
	"time"
)

// Question is one multiple-choice question inside a quiz. CorrectAnswer is the
// zero-based index into Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// Quiz represents one versioned quiz definition. Questions are ordered and the
// definition is only mutated through admin/teacher operations.
type Quiz struct {
	ID          string
	Title       string
	Description string
	Category    string
	Difficulty  string
	TimeLimit   int // minutes
	Questions   []Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQuiz creates a new Quiz instance
func NewQuiz(title, description, category, difficulty string, timeLimit int, questions []Question) *Quiz {
	now := time.Now()
	return &Quiz{
		Title:       title,
		Description: description,
		Category:    category,
		Difficulty:  difficulty,
		TimeLimit:   timeLimit,
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return NewValidationFailureError("title is required")
	}
	if q.Category == "" {
		return NewValidationFailureError("category is required")
	}
	for _, question := range q.Questions {
		if question.Text == "" {
			return NewValidationFailureError("question text is required")
		}
		if len(question.Options) < 2 {
			return NewValidationFailureError("a question needs at least two options")
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return NewValidationFailureError("correct answer index is out of range")
		}
	}
	return nil
}

// QuizStats is the aggregated per-quiz statistics document.
type QuizStats struct {
	QuizID       string  `json:"quiz_id"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}
