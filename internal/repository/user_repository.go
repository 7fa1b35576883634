package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eduquiz/internal/domain"
	"eduquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = "ID, NAME, EMAIL, USER_ROLE, QUIZ_POINTS, EXTRA, CREATED_AT, UPDATED_AT"

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	role := domain.Role(m.UserRole)
	return &domain.User{
		ID:         m.ID,
		Name:       m.Name.String,
		Email:      m.Email,
		IsAdmin:    role == domain.RoleAdmin,
		Role:       role,
		QuizPoints: m.QuizPoints,
		Extra:      m.Extra,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// GetUserByID returns (nil, nil) when the user does not exist.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM users WHERE ID = :1", userColumns)

	rows, err := exec.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		return nil, nil
	}

	var m models.User
	if err := rows.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.UserRole,
		&m.QuizPoints,
		&m.Extra,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return toDomainUser(&m), nil
}

// IncrementQuizPoints adds points atomically in the database.
func (r *sqlxUserRepository) IncrementQuizPoints(ctx context.Context, userID string, points int) error {
	exec := GetExecutor(ctx, r.db)

	res, err := exec.ExecContext(ctx,
		"UPDATE users SET QUIZ_POINTS = QUIZ_POINTS + :1, UPDATED_AT = SYSTIMESTAMP WHERE ID = :2",
		points, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment quiz points: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("user not found")
	}
	return nil
}

// GetLeaderboard returns the top users by quiz points.
func (r *sqlxUserRepository) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	exec := GetExecutor(ctx, r.db)
	query := `SELECT ID, NAME, QUIZ_POINTS FROM users
	          ORDER BY QUIZ_POINTS DESC
	          FETCH FIRST :1 ROWS ONLY`

	rows, err := exec.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var (
			entry domain.LeaderboardEntry
			name  sql.NullString
		)
		if err := rows.Scan(&entry.UserID, &name, &entry.QuizPoints); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Name = name.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}
