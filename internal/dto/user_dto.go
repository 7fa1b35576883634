package dto

import (
	"time"

	"eduquiz/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	QuizPoints int    `json:"quiz_points"`
}

// LeaderboardEntryResponse is one row of the points leaderboard.
type LeaderboardEntryResponse struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	Name       string `json:"name,omitempty"`
	QuizPoints int    `json:"quiz_points"`
}

// RecommendationResponse represents a learning recommendation in the API response.
// @Description AI-generated learning recommendation
type RecommendationResponse struct {
	QuizID            string                    `json:"quiz_id"`
	Subject           string                    `json:"subject"`
	Level             string                    `json:"level,omitempty"`
	WeakAreas         []string                  `json:"weak_areas"`
	LearningResources []domain.LearningResource `json:"learning_resources"`
	PracticeExercises []string                  `json:"practice_exercises"`
	StudySchedule     []domain.StudyDay         `json:"study_schedule"`
	ExpectedOutcomes  []string                  `json:"expected_outcomes"`
	CreatedAt         time.Time                 `json:"created_at"`
}

// ToUserProfileResponse converts a domain user.
func ToUserProfileResponse(user *domain.User) *UserProfileResponse {
	if user == nil {
		return nil
	}
	return &UserProfileResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       string(user.Role),
		QuizPoints: user.QuizPoints,
	}
}

// ToLeaderboardResponses converts leaderboard entries, assigning ranks by
// position.
func ToLeaderboardResponses(entries []domain.LeaderboardEntry) []LeaderboardEntryResponse {
	responses := make([]LeaderboardEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = LeaderboardEntryResponse{
			Rank:       i + 1,
			UserID:     e.UserID,
			Name:       e.Name,
			QuizPoints: e.QuizPoints,
		}
	}
	return responses
}

// ToRecommendationResponse converts a stored recommendation.
func ToRecommendationResponse(rec *domain.LearningRecommendation) *RecommendationResponse {
	if rec == nil {
		return nil
	}
	return &RecommendationResponse{
		QuizID:            rec.QuizID,
		Subject:           rec.Subject,
		Level:             rec.Level,
		WeakAreas:         rec.Payload.WeakAreas,
		LearningResources: rec.Payload.LearningResources,
		PracticeExercises: rec.Payload.PracticeExercises,
		StudySchedule:     rec.Payload.StudySchedule,
		ExpectedOutcomes:  rec.Payload.ExpectedOutcomes,
		CreatedAt:         rec.CreatedAt,
	}
}
