package repository

import (
	"context"
	"fmt"
	"time"

	"eduquiz/internal/domain"
	"eduquiz/internal/repository/models"
	"eduquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const recommendationColumns = "ID, USER_ID, QUIZ_ID, SUBJECT, DIFF_LEVEL, PAYLOAD, CREATED_AT"

// sqlxRecommendationRepository implements domain.RecommendationRepository using sqlx.
type sqlxRecommendationRepository struct {
	db *sqlx.DB
}

// NewSQLXRecommendationRepository creates a new instance of sqlxRecommendationRepository.
func NewSQLXRecommendationRepository(db *sqlx.DB) domain.RecommendationRepository {
	return &sqlxRecommendationRepository{db: db}
}

func toDomainRecommendation(m *models.LearningRecommendation) *domain.LearningRecommendation {
	if m == nil {
		return nil
	}
	return &domain.LearningRecommendation{
		ID:        m.ID,
		UserID:    m.UserID,
		QuizID:    m.QuizID,
		Subject:   m.Subject,
		Level:     m.DiffLevel,
		Payload:   domain.RecommendationPayload(m.Payload),
		CreatedAt: m.CreatedAt,
	}
}

// GetByUserAndQuiz returns (nil, nil) when no recommendation is stored.
func (r *sqlxRecommendationRepository) GetByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.LearningRecommendation, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM learning_recommendations WHERE USER_ID = :1 AND QUIZ_ID = :2", recommendationColumns)

	rows, err := exec.QueryContext(ctx, query, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
		}
		return nil, nil
	}

	var m models.LearningRecommendation
	if err := rows.Scan(
		&m.ID,
		&m.UserID,
		&m.QuizID,
		&m.Subject,
		&m.DiffLevel,
		&m.Payload,
		&m.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan recommendation: %w", err)
	}
	return toDomainRecommendation(&m), nil
}

// Create inserts a new recommendation row.
func (r *sqlxRecommendationRepository) Create(ctx context.Context, rec *domain.LearningRecommendation) error {
	exec := GetExecutor(ctx, r.db)

	if rec.ID == "" {
		rec.ID = util.NewULID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := fmt.Sprintf(`INSERT INTO learning_recommendations (%s)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`, recommendationColumns)

	_, err := exec.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.QuizID,
		rec.Subject,
		rec.Level,
		models.PayloadColumn(rec.Payload),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}

// Update replaces the stored payload for an existing user/quiz pair.
func (r *sqlxRecommendationRepository) Update(ctx context.Context, rec *domain.LearningRecommendation) error {
	exec := GetExecutor(ctx, r.db)

	query := `UPDATE learning_recommendations SET SUBJECT = :1, DIFF_LEVEL = :2, PAYLOAD = :3, CREATED_AT = :4 WHERE USER_ID = :5 AND QUIZ_ID = :6`

	res, err := exec.ExecContext(ctx, query,
		rec.Subject,
		rec.Level,
		models.PayloadColumn(rec.Payload),
		time.Now(),
		rec.UserID,
		rec.QuizID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("recommendation not found")
	}
	return nil
}
