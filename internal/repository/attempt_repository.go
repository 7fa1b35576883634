package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eduquiz/internal/domain"
	"eduquiz/internal/repository/models"
	"eduquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const attemptColumns = "ID, QUIZ_ID, USER_ID, STATUS, START_TIME, END_TIME, ANSWERS, SCORE, INCORRECT_QUESTIONS, CREATED_AT, UPDATED_AT"

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	var endTime *time.Time
	if m.EndTime.Valid {
		t := m.EndTime.Time
		endTime = &t
	}
	var score *float64
	if m.Score.Valid {
		s := m.Score.Float64
		score = &s
	}
	return &domain.QuizAttempt{
		ID:                 m.ID,
		QuizID:             m.QuizID,
		UserID:             m.UserID,
		Status:             domain.AttemptStatus(m.Status),
		StartTime:          m.StartTime,
		EndTime:            endTime,
		Answers:            m.Answers,
		Score:              score,
		IncorrectQuestions: m.IncorrectQuestions,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func fromDomainAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	if a == nil {
		return nil
	}
	var endTime sql.NullTime
	if a.EndTime != nil {
		endTime = util.TimeToNullTime(*a.EndTime)
	}
	return &models.QuizAttempt{
		ID:                 a.ID,
		QuizID:             a.QuizID,
		UserID:             a.UserID,
		Status:             string(a.Status),
		StartTime:          a.StartTime,
		EndTime:            endTime,
		Answers:            models.AnswersColumn(a.Answers),
		Score:              util.Float64ToNullFloat64(a.Score),
		IncorrectQuestions: models.IncorrectQuestionsColumn(a.IncorrectQuestions),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// CreateAttempt inserts a new in-progress quiz attempt.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	exec := GetExecutor(ctx, r.db)

	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	now := time.Now()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = now
	}
	attempt.UpdatedAt = now

	m := fromDomainAttempt(attempt)
	query := fmt.Sprintf(`INSERT INTO quiz_attempts (%s)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11)`, attemptColumns)

	_, err := exec.ExecContext(ctx, query,
		m.ID,
		m.QuizID,
		m.UserID,
		m.Status,
		m.StartTime,
		m.EndTime,
		m.Answers,
		m.Score,
		m.IncorrectQuestions,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}

// GetAttemptByID returns (nil, nil) when the attempt does not exist.
func (r *sqlxAttemptRepository) GetAttemptByID(ctx context.Context, id string) (*domain.QuizAttempt, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM quiz_attempts WHERE ID = :1", attemptColumns)

	rows, err := exec.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate attempts: %w", err)
		}
		return nil, nil
	}

	var m models.QuizAttempt
	if err := rows.Scan(
		&m.ID,
		&m.QuizID,
		&m.UserID,
		&m.Status,
		&m.StartTime,
		&m.EndTime,
		&m.Answers,
		&m.Score,
		&m.IncorrectQuestions,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan attempt: %w", err)
	}

	return toDomainAttempt(&m), nil
}

// AppendAnswer appends one answer to the attempt's answer document. Callers
// serialize access per attempt; the read-modify-write here is not atomic on
// its own.
func (r *sqlxAttemptRepository) AppendAnswer(ctx context.Context, attemptID string, answer domain.Answer) error {
	exec := GetExecutor(ctx, r.db)

	var answers models.AnswersColumn
	row := exec.QueryRowContext(ctx, "SELECT ANSWERS FROM quiz_attempts WHERE ID = :1", attemptID)
	if err := row.Scan(&answers); err != nil {
		if err == sql.ErrNoRows {
			return domain.NewAttemptNotFoundError(attemptID)
		}
		return fmt.Errorf("failed to read attempt answers: %w", err)
	}

	answers = append(answers, answer)

	_, err := exec.ExecContext(ctx,
		"UPDATE quiz_attempts SET ANSWERS = :1, UPDATED_AT = :2 WHERE ID = :3",
		answers, time.Now(), attemptID,
	)
	if err != nil {
		return fmt.Errorf("failed to append answer: %w", err)
	}
	return nil
}

// CompleteAttempt writes the terminal state of the attempt: status, end time,
// score and incorrect-question summaries in a single update.
func (r *sqlxAttemptRepository) CompleteAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	exec := GetExecutor(ctx, r.db)

	attempt.UpdatedAt = time.Now()
	m := fromDomainAttempt(attempt)

	query := `UPDATE quiz_attempts SET STATUS = :1, END_TIME = :2, SCORE = :3, INCORRECT_QUESTIONS = :4, UPDATED_AT = :5 WHERE ID = :6`

	res, err := exec.ExecContext(ctx, query,
		m.Status,
		m.EndTime,
		m.Score,
		m.IncorrectQuestions,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete attempt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewAttemptNotFoundError(attempt.ID)
	}
	return nil
}
