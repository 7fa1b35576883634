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

const resultColumns = "ID, QUIZ_ID, QUIZ_TITLE, USER_ID, SCORE, CORRECT_ANSWERS, TOTAL_QUESTIONS, INCORRECT_QUESTIONS, COMPLETED_AT"

// sqlxResultRepository implements domain.ResultRepository using sqlx.
type sqlxResultRepository struct {
	db *sqlx.DB
}

// NewSQLXResultRepository creates a new instance of sqlxResultRepository.
func NewSQLXResultRepository(db *sqlx.DB) domain.ResultRepository {
	return &sqlxResultRepository{db: db}
}

func toDomainResult(m *models.QuizResult) *domain.QuizResult {
	if m == nil {
		return nil
	}
	return &domain.QuizResult{
		ID:                 m.ID,
		QuizID:             m.QuizID,
		QuizTitle:          m.QuizTitle,
		UserID:             m.UserID,
		Score:              m.Score,
		CorrectAnswers:     m.CorrectAnswers,
		TotalQuestions:     m.TotalQuestions,
		IncorrectQuestions: m.IncorrectQuestions,
		CompletedAt:        m.CompletedAt,
	}
}

// CreateResult inserts a completed quiz result row.
func (r *sqlxResultRepository) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	exec := GetExecutor(ctx, r.db)

	if result.ID == "" {
		result.ID = util.NewULID()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}

	query := fmt.Sprintf(`INSERT INTO quiz_results (%s)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`, resultColumns)

	_, err := exec.ExecContext(ctx, query,
		result.ID,
		result.QuizID,
		result.QuizTitle,
		result.UserID,
		result.Score,
		result.CorrectAnswers,
		result.TotalQuestions,
		models.IncorrectQuestionsColumn(result.IncorrectQuestions),
		result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz result: %w", err)
	}
	return nil
}

func scanResultRows(rows *sql.Rows) ([]*domain.QuizResult, error) {
	var results []*domain.QuizResult
	for rows.Next() {
		var m models.QuizResult
		if err := rows.Scan(
			&m.ID,
			&m.QuizID,
			&m.QuizTitle,
			&m.UserID,
			&m.Score,
			&m.CorrectAnswers,
			&m.TotalQuestions,
			&m.IncorrectQuestions,
			&m.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		results = append(results, toDomainResult(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz results: %w", err)
	}
	return results, nil
}

// GetResultsByUserID returns the user's results, most recent first.
func (r *sqlxResultRepository) GetResultsByUserID(ctx context.Context, userID string) ([]*domain.QuizResult, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM quiz_results WHERE USER_ID = :1 ORDER BY COMPLETED_AT DESC", resultColumns)

	rows, err := exec.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results by user: %w", err)
	}
	defer rows.Close()

	return scanResultRows(rows)
}

// GetResultByUserAndQuiz returns the user's latest result for the quiz, or
// (nil, nil) when the user never finished it.
func (r *sqlxResultRepository) GetResultByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.QuizResult, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf(`SELECT %s FROM quiz_results
	          WHERE USER_ID = :1 AND QUIZ_ID = :2
	          ORDER BY COMPLETED_AT DESC
	          FETCH FIRST 1 ROWS ONLY`, resultColumns)

	rows, err := exec.QueryContext(ctx, query, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query result by user and quiz: %w", err)
	}
	defer rows.Close()

	results, err := scanResultRows(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetQuizStats aggregates attempt counts and average score for a quiz.
func (r *sqlxResultRepository) GetQuizStats(ctx context.Context, quizID string) (*domain.QuizStats, error) {
	exec := GetExecutor(ctx, r.db)
	query := "SELECT COUNT(*), NVL(AVG(SCORE), 0) FROM quiz_results WHERE QUIZ_ID = :1"

	stats := &domain.QuizStats{QuizID: quizID}
	row := exec.QueryRowContext(ctx, query, quizID)
	if err := row.Scan(&stats.Attempts, &stats.AverageScore); err != nil {
		return nil, fmt.Errorf("failed to query quiz stats: %w", err)
	}
	return stats, nil
}
