package domain

import "context"

// QuizRepository is the port to the quiz collection.
type QuizRepository interface {
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	GetAllQuizzes(ctx context.Context) ([]*Quiz, error)
	GetQuizzesByCategory(ctx context.Context, category string) ([]*Quiz, error)
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
}

// AttemptRepository is the port to the quiz attempt collection. Repositories
// return (nil, nil) when a document is not found.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	GetAttemptByID(ctx context.Context, id string) (*QuizAttempt, error)
	AppendAnswer(ctx context.Context, attemptID string, answer Answer) error
	CompleteAttempt(ctx context.Context, attempt *QuizAttempt) error
}

// ResultRepository is the port to the append-only quiz result collection.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *QuizResult) error
	GetResultsByUserID(ctx context.Context, userID string) ([]*QuizResult, error)
	GetResultByUserAndQuiz(ctx context.Context, userID, quizID string) (*QuizResult, error)
	GetQuizStats(ctx context.Context, quizID string) (*QuizStats, error)
}

// RecommendationRepository is the port to the learning recommendation
// collection, keyed by (user, quiz).
type RecommendationRepository interface {
	GetByUserAndQuiz(ctx context.Context, userID, quizID string) (*LearningRecommendation, error)
	Create(ctx context.Context, rec *LearningRecommendation) error
	Update(ctx context.Context, rec *LearningRecommendation) error
}

// UserRepository is the port to the user collection.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	// IncrementQuizPoints atomically adds delta to the user's point total.
	IncrementQuizPoints(ctx context.Context, id string, delta int) error
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// TransactionManager runs fn inside a storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
