package domain

import (
	"context"
	"time"
)

// LearningResource is one suggested resource inside a recommendation.
type LearningResource struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// StudyDay is one day of the recommended study schedule.
type StudyDay struct {
	Day   string   `json:"day"`
	Tasks []string `json:"tasks"`
}

// RecommendationPayload is the structured content produced by the external
// generator.
type RecommendationPayload struct {
	WeakAreas         []string           `json:"weak_areas"`
	LearningResources []LearningResource `json:"learning_resources"`
	PracticeExercises []string           `json:"practice_exercises"`
	StudySchedule     []StudyDay         `json:"study_schedule"`
	ExpectedOutcomes  []string           `json:"expected_outcomes"`
}

// LearningRecommendation is the persisted recommendation document. At most one
// current document exists per (UserID, QuizID) pair; regeneration updates the
// existing row.
type LearningRecommendation struct {
	ID        string
	UserID    string
	QuizID    string
	Subject   string
	Level     string
	Payload   RecommendationPayload
	CreatedAt time.Time
}

// RecommendationInput is everything the generator needs to derive guidance
// from a finished attempt.
type RecommendationInput struct {
	Subject            string
	Level              string
	Score              float64
	IncorrectQuestions []IncorrectQuestion
}

// RecommendationJob is one queued request to generate and persist a
// recommendation for a finished attempt.
type RecommendationJob struct {
	UserID string
	QuizID string
	Input  RecommendationInput
}

// RecommendationGenerator is the port for the external model call. On
// malformed model output implementations return the fixed fallback payload,
// not a parse error; transport failures are returned as errors.
type RecommendationGenerator interface {
	Generate(ctx context.Context, input RecommendationInput) (*RecommendationPayload, error)
}

// FallbackRecommendationPayload is returned when the generator produces output
// that cannot be parsed. It is intentionally generic.
func FallbackRecommendationPayload(subject string) *RecommendationPayload {
	return &RecommendationPayload{
		WeakAreas: []string{"General review of " + subject},
		LearningResources: []LearningResource{
			{Type: "article", Title: "Introduction to " + subject, URL: "https://en.wikipedia.org/wiki/Special:Search?search=" + subject},
		},
		PracticeExercises: []string{
			"Retake the quiz and review every question you missed",
			"Summarize the key concepts of " + subject + " in your own words",
		},
		StudySchedule: []StudyDay{
			{Day: "Day 1", Tasks: []string{"Review the quiz questions you answered incorrectly"}},
			{Day: "Day 2", Tasks: []string{"Read an introductory resource on " + subject}},
			{Day: "Day 3", Tasks: []string{"Retake the quiz"}},
		},
		ExpectedOutcomes: []string{"Improved score on the next attempt"},
	}
}
