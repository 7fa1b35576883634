package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eduquiz/internal/domain"
	"eduquiz/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAttemptTestDB creates a new sqlx.DB instance and sqlmock for attempt repository testing.
func setupAttemptTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestToDomainAttempt(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	end := now.Add(5 * time.Minute)
	model := &models.QuizAttempt{
		ID:        "attempt1",
		QuizID:    "quiz1",
		UserID:    "user1",
		Status:    string(domain.AttemptCompleted),
		StartTime: now,
		EndTime:   sql.NullTime{Time: end, Valid: true},
		Answers: models.AnswersColumn{
			{QuestionIndex: 0, SelectedOption: 2, SubmittedAt: now},
		},
		Score: sql.NullFloat64{Float64: 50.0, Valid: true},
		IncorrectQuestions: models.IncorrectQuestionsColumn{
			{QuestionID: "q2", QuestionText: "2+2?", UserAnswer: "5", CorrectAnswer: "4"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	attempt := toDomainAttempt(model)
	require.NotNil(t, attempt)
	assert.Equal(t, model.ID, attempt.ID)
	assert.Equal(t, domain.AttemptCompleted, attempt.Status)
	require.NotNil(t, attempt.EndTime)
	assert.True(t, end.Equal(*attempt.EndTime))
	require.NotNil(t, attempt.Score)
	assert.Equal(t, 50.0, *attempt.Score)
	assert.Len(t, attempt.Answers, 1)
	assert.Len(t, attempt.IncorrectQuestions, 1)

	// In-progress attempts have no end time or score.
	model.Status = string(domain.AttemptInProgress)
	model.EndTime = sql.NullTime{}
	model.Score = sql.NullFloat64{}
	attempt = toDomainAttempt(model)
	require.NotNil(t, attempt)
	assert.Nil(t, attempt.EndTime)
	assert.Nil(t, attempt.Score)

	assert.Nil(t, toDomainAttempt(nil))
}

func TestFromDomainAttempt(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	score := 80.0
	end := now.Add(time.Minute)
	attempt := &domain.QuizAttempt{
		ID:        "attempt1",
		QuizID:    "quiz1",
		UserID:    "user1",
		Status:    domain.AttemptCompleted,
		StartTime: now,
		EndTime:   &end,
		Score:     &score,
		CreatedAt: now,
		UpdatedAt: now,
	}

	model := fromDomainAttempt(attempt)
	require.NotNil(t, model)
	assert.Equal(t, string(domain.AttemptCompleted), model.Status)
	assert.True(t, model.EndTime.Valid)
	assert.True(t, end.Equal(model.EndTime.Time))
	assert.True(t, model.Score.Valid)
	assert.Equal(t, score, model.Score.Float64)

	attempt.EndTime = nil
	attempt.Score = nil
	model = fromDomainAttempt(attempt)
	assert.False(t, model.EndTime.Valid)
	assert.False(t, model.Score.Valid)

	assert.Nil(t, fromDomainAttempt(nil))
}

func TestSQLXAttemptRepository_CreateAttempt(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	attempt := domain.NewQuizAttempt("quiz1", "user1")

	mock.ExpectExec(`INSERT INTO quiz_attempts`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateAttempt(context.Background(), attempt)

	assert.NoError(t, err)
	assert.NotEmpty(t, attempt.ID, "CreateAttempt should assign an ID")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_GetAttemptByID(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"ID", "QUIZ_ID", "USER_ID", "STATUS", "START_TIME", "END_TIME",
		"ANSWERS", "SCORE", "INCORRECT_QUESTIONS", "CREATED_AT", "UPDATED_AT",
	}).AddRow("attempt1", "quiz1", "user1", "in_progress", now, nil,
		`[{"question_index":0,"selected_option":1,"submitted_at":"2026-01-01T00:00:00Z"}]`,
		nil, "[]", now, now)

	mock.ExpectQuery(`SELECT .+ FROM quiz_attempts WHERE ID = :1`).
		WithArgs("attempt1").
		WillReturnRows(rows)

	attempt, err := repo.GetAttemptByID(context.Background(), "attempt1")

	assert.NoError(t, err)
	require.NotNil(t, attempt)
	assert.Equal(t, "attempt1", attempt.ID)
	assert.Equal(t, domain.AttemptInProgress, attempt.Status)
	assert.Nil(t, attempt.Score)
	require.Len(t, attempt.Answers, 1)
	assert.Equal(t, 1, attempt.Answers[0].SelectedOption)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_GetAttemptByID_NotFound(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"ID", "QUIZ_ID", "USER_ID", "STATUS", "START_TIME", "END_TIME",
		"ANSWERS", "SCORE", "INCORRECT_QUESTIONS", "CREATED_AT", "UPDATED_AT",
	})

	mock.ExpectQuery(`SELECT .+ FROM quiz_attempts WHERE ID = :1`).
		WithArgs("missing").
		WillReturnRows(rows)

	attempt, err := repo.GetAttemptByID(context.Background(), "missing")

	assert.NoError(t, err, "Expected no error when attempt is not found")
	assert.Nil(t, attempt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_AppendAnswer(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	mock.ExpectQuery(`SELECT ANSWERS FROM quiz_attempts WHERE ID = :1`).
		WithArgs("attempt1").
		WillReturnRows(sqlmock.NewRows([]string{"ANSWERS"}).AddRow("[]"))
	mock.ExpectExec(`UPDATE quiz_attempts SET ANSWERS = :1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	answer := domain.Answer{QuestionIndex: 0, SelectedOption: 3, SubmittedAt: time.Now()}
	err := repo.AppendAnswer(context.Background(), "attempt1", answer)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_AppendAnswer_NotFound(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	mock.ExpectQuery(`SELECT ANSWERS FROM quiz_attempts WHERE ID = :1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	err := repo.AppendAnswer(context.Background(), "missing", domain.Answer{})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAttemptNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_CompleteAttempt(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	score := 100.0
	end := time.Now()
	attempt := &domain.QuizAttempt{
		ID:      "attempt1",
		QuizID:  "quiz1",
		UserID:  "user1",
		Status:  domain.AttemptCompleted,
		EndTime: &end,
		Score:   &score,
	}

	mock.ExpectExec(`UPDATE quiz_attempts SET STATUS = :1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CompleteAttempt(context.Background(), attempt)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAttemptRepository_CompleteAttempt_NotFound(t *testing.T) {
	db, mock := setupAttemptTestDB(t)
	repo := NewSQLXAttemptRepository(db)
	defer db.Close()

	mock.ExpectExec(`UPDATE quiz_attempts SET STATUS = :1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CompleteAttempt(context.Background(), &domain.QuizAttempt{ID: "missing", Status: domain.AttemptCompleted})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAttemptNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
