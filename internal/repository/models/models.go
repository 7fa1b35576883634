package models

import (
	"database/sql"
	"time"

	"eduquiz/internal/domain"
)

// Quiz is the row model for the quizzes table. Questions are stored as a JSON
// document in a single column.
type Quiz struct {
	ID          string          `db:"ID"`
	Title       string          `db:"TITLE"`
	Description sql.NullString  `db:"DESCRIPTION"`
	Category    string          `db:"CATEGORY"`
	Difficulty  string          `db:"DIFFICULTY"`
	TimeLimit   int             `db:"TIME_LIMIT"`
	Questions   QuestionsColumn `db:"QUESTIONS"`
	CreatedAt   time.Time       `db:"CREATED_AT"`
	UpdatedAt   time.Time       `db:"UPDATED_AT"`
}

// QuizAttempt is the row model for the quiz_attempts table. The answer list
// and the incorrect-question summaries are JSON documents.
type QuizAttempt struct {
	ID                 string                   `db:"ID"`
	QuizID             string                   `db:"QUIZ_ID"`
	UserID             string                   `db:"USER_ID"`
	Status             string                   `db:"STATUS"`
	StartTime          time.Time                `db:"START_TIME"`
	EndTime            sql.NullTime             `db:"END_TIME"`
	Answers            AnswersColumn            `db:"ANSWERS"`
	Score              sql.NullFloat64          `db:"SCORE"`
	IncorrectQuestions IncorrectQuestionsColumn `db:"INCORRECT_QUESTIONS"`
	CreatedAt          time.Time                `db:"CREATED_AT"`
	UpdatedAt          time.Time                `db:"UPDATED_AT"`
}

// QuizResult is the row model for the append-only quiz_results table.
type QuizResult struct {
	ID                 string                   `db:"ID"`
	QuizID             string                   `db:"QUIZ_ID"`
	QuizTitle          string                   `db:"QUIZ_TITLE"`
	UserID             string                   `db:"USER_ID"`
	Score              float64                  `db:"SCORE"`
	CorrectAnswers     int                      `db:"CORRECT_ANSWERS"`
	TotalQuestions     int                      `db:"TOTAL_QUESTIONS"`
	IncorrectQuestions IncorrectQuestionsColumn `db:"INCORRECT_QUESTIONS"`
	CompletedAt        time.Time                `db:"COMPLETED_AT"`
}

// LearningRecommendation is the row model for the learning_recommendations
// table, unique on (USER_ID, QUIZ_ID).
type LearningRecommendation struct {
	ID        string        `db:"ID"`
	UserID    string        `db:"USER_ID"`
	QuizID    string        `db:"QUIZ_ID"`
	Subject   string        `db:"SUBJECT"`
	DiffLevel string        `db:"DIFF_LEVEL"`
	Payload   PayloadColumn `db:"PAYLOAD"`
	CreatedAt time.Time     `db:"CREATED_AT"`
}

// User is the row model for the users table. Extra mirrors the free-form
// fields the original documents carried; core logic never reads it.
type User struct {
	ID         string          `db:"ID"`
	Name       sql.NullString  `db:"NAME"`
	Email      string          `db:"EMAIL"`
	UserRole   string          `db:"USER_ROLE"`
	QuizPoints int             `db:"QUIZ_POINTS"`
	Extra      StringMapColumn `db:"EXTRA"`
	CreatedAt  time.Time       `db:"CREATED_AT"`
	UpdatedAt  time.Time       `db:"UPDATED_AT"`
}

// Typed JSON column aliases. Value/Scan live in json_columns.go.

type QuestionsColumn []domain.Question

type AnswersColumn []domain.Answer

type IncorrectQuestionsColumn []domain.IncorrectQuestion

type PayloadColumn domain.RecommendationPayload

type StringMapColumn map[string]string
