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

const quizColumns = "ID, TITLE, DESCRIPTION, CATEGORY, DIFFICULTY, TIME_LIMIT, QUESTIONS, CREATED_AT, UPDATED_AT"

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description.String,
		Category:    m.Category,
		Difficulty:  m.Difficulty,
		TimeLimit:   m.TimeLimit,
		Questions:   m.Questions,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainQuiz(q *domain.Quiz) *models.Quiz {
	if q == nil {
		return nil
	}
	return &models.Quiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: util.StringToNullString(q.Description),
		Category:    q.Category,
		Difficulty:  q.Difficulty,
		TimeLimit:   q.TimeLimit,
		Questions:   models.QuestionsColumn(q.Questions),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func scanQuizRows(rows *sql.Rows) ([]*domain.Quiz, error) {
	var quizzes []*domain.Quiz
	for rows.Next() {
		var m models.Quiz
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Description,
			&m.Category,
			&m.Difficulty,
			&m.TimeLimit,
			&m.Questions,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, toDomainQuiz(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quizzes: %w", err)
	}
	return quizzes, nil
}

// GetQuizByID returns (nil, nil) when the quiz does not exist.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM quizzes WHERE ID = :1", quizColumns)

	rows, err := exec.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz by id: %w", err)
	}
	defer rows.Close()

	quizzes, err := scanQuizRows(rows)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, nil
	}
	return quizzes[0], nil
}

// GetAllQuizzes returns every quiz definition, newest first.
func (r *sqlxQuizRepository) GetAllQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM quizzes ORDER BY CREATED_AT DESC", quizColumns)

	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all quizzes: %w", err)
	}
	defer rows.Close()

	return scanQuizRows(rows)
}

// GetQuizzesByCategory returns the quizzes in one category, newest first.
func (r *sqlxQuizRepository) GetQuizzesByCategory(ctx context.Context, category string) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM quizzes WHERE CATEGORY = :1 ORDER BY CREATED_AT DESC", quizColumns)

	rows, err := exec.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes by category: %w", err)
	}
	defer rows.Close()

	return scanQuizRows(rows)
}

// SaveQuiz inserts a new quiz, assigning an ID when the domain object has none.
func (r *sqlxQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, r.db)

	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}
	now := time.Now()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = now

	m := fromDomainQuiz(quiz)
	query := `INSERT INTO quizzes (ID, TITLE, DESCRIPTION, CATEGORY, DIFFICULTY, TIME_LIMIT, QUESTIONS, CREATED_AT, UPDATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	_, err := exec.ExecContext(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		m.Category,
		m.Difficulty,
		m.TimeLimit,
		m.Questions,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

// UpdateQuiz overwrites the quiz definition.
func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, r.db)

	quiz.UpdatedAt = time.Now()
	m := fromDomainQuiz(quiz)

	query := `UPDATE quizzes SET TITLE = :1, DESCRIPTION = :2, CATEGORY = :3, DIFFICULTY = :4, TIME_LIMIT = :5, QUESTIONS = :6, UPDATED_AT = :7 WHERE ID = :8`

	res, err := exec.ExecContext(ctx, query,
		m.Title,
		m.Description,
		m.Category,
		m.Difficulty,
		m.TimeLimit,
		m.Questions,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewQuizNotFoundError(quiz.ID)
	}
	return nil
}

// DeleteQuiz removes the quiz definition.
func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)

	res, err := exec.ExecContext(ctx, "DELETE FROM quizzes WHERE ID = :1", id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}
