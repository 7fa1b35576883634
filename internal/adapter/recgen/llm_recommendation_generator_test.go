package recgen

import (
	"testing"

	"eduquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendationResponse(t *testing.T) {
	t.Run("plain JSON object", func(t *testing.T) {
		raw := `{
			"weak_areas": ["loops", "functions"],
			"learning_resources": [{"type": "video", "title": "Loops 101", "url": "https://example.com/loops"}],
			"practice_exercises": ["write a for loop"],
			"study_schedule": [{"day": "Day 1", "tasks": ["review loops"]}],
			"expected_outcomes": ["understand loops"]
		}`
		payload := ParseRecommendationResponse(raw)
		require.NotNil(t, payload)
		assert.Equal(t, []string{"loops", "functions"}, payload.WeakAreas)
		require.Len(t, payload.LearningResources, 1)
		assert.Equal(t, "Loops 101", payload.LearningResources[0].Title)
		require.Len(t, payload.StudySchedule, 1)
		assert.Equal(t, "Day 1", payload.StudySchedule[0].Day)
	})

	t.Run("JSON wrapped in prose", func(t *testing.T) {
		raw := "Sure! Here is your study plan:\n```json\n" +
			`{"weak_areas":["algebra"],"study_schedule":[{"day":"Day 1","tasks":["practice"]}]}` +
			"\n```\nGood luck!"
		payload := ParseRecommendationResponse(raw)
		require.NotNil(t, payload)
		assert.Equal(t, []string{"algebra"}, payload.WeakAreas)
	})

	t.Run("think block stripped", func(t *testing.T) {
		raw := "<think>the student struggles with geometry</think>" +
			`{"weak_areas":["geometry"],"study_schedule":[{"day":"Day 1","tasks":["review"]}]}`
		payload := ParseRecommendationResponse(raw)
		require.NotNil(t, payload)
		assert.Equal(t, []string{"geometry"}, payload.WeakAreas)
	})

	t.Run("no JSON at all", func(t *testing.T) {
		assert.Nil(t, ParseRecommendationResponse("I cannot help with that."))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		assert.Nil(t, ParseRecommendationResponse(`{"weak_areas": [unterminated`))
	})

	t.Run("empty object treated as unparsable", func(t *testing.T) {
		assert.Nil(t, ParseRecommendationResponse(`{}`))
	})
}

func TestFallbackRecommendationPayload(t *testing.T) {
	payload := domain.FallbackRecommendationPayload("Mathematics")

	assert.NotEmpty(t, payload.WeakAreas)
	assert.NotEmpty(t, payload.LearningResources)
	assert.NotEmpty(t, payload.StudySchedule)
	assert.Contains(t, payload.WeakAreas[0], "Mathematics")
}

func TestBuildPrompt(t *testing.T) {
	input := domain.RecommendationInput{
		Subject: "Mathematics",
		Level:   "Beginner",
		Score:   75,
		IncorrectQuestions: []domain.IncorrectQuestion{
			{QuestionText: "What is 2+2?", UserAnswer: "3", CorrectAnswer: "4"},
		},
	}
	prompt := buildPrompt(input)

	assert.Contains(t, prompt, "Mathematics")
	assert.Contains(t, prompt, "Beginner")
	assert.Contains(t, prompt, "What is 2+2?")
	assert.Contains(t, prompt, "75%")
}
