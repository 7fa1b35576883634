package recgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eduquiz/internal/config"
	"eduquiz/internal/domain"
	"eduquiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// llmRecommendationGenerator implements domain.RecommendationGenerator on top
// of a langchaingo model.
type llmRecommendationGenerator struct {
	llm     llms.Model
	timeout time.Duration
}

// NewLLMRecommendationGenerator builds a generator from the configured LLM
// source ("openai" or "ollama").
func NewLLMRecommendationGenerator(cfg config.LLMConfig) (domain.RecommendationGenerator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}

	var llm llms.Model
	var err error
	switch cfg.Source {
	case "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai":
		llm, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported llm source: %s", cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &llmRecommendationGenerator{llm: llm, timeout: timeout}, nil
}

// Generate asks the model for structured study guidance. Transport failures
// and timeouts are returned as UPSTREAM_FAILURE; malformed model output is
// replaced by the fixed fallback payload so callers never see a parse error.
func (g *llmRecommendationGenerator) Generate(ctx context.Context, input domain.RecommendationInput) (*domain.RecommendationPayload, error) {
	l := logger.Get()

	prompt := buildPrompt(input)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		l.Error("Recommendation LLM call failed",
			zap.Error(err),
			zap.String("subject", input.Subject),
			zap.String("level", input.Level))
		return nil, domain.NewUpstreamFailureError("recommendation generator call failed", err)
	}

	payload := ParseRecommendationResponse(raw)
	if payload == nil {
		l.Warn("Recommendation LLM returned unparsable output, using fallback payload",
			zap.String("subject", input.Subject),
			zap.String("raw_response", truncate(raw, 200)))
		return domain.FallbackRecommendationPayload(input.Subject), nil
	}

	return payload, nil
}

func buildPrompt(input domain.RecommendationInput) string {
	var wrong strings.Builder
	for _, q := range input.IncorrectQuestions {
		fmt.Fprintf(&wrong, "- Question: %s\n  User answered: %s\n  Correct answer: %s\n",
			q.QuestionText, q.UserAnswer, q.CorrectAnswer)
	}
	if wrong.Len() == 0 {
		wrong.WriteString("(no incorrect answers)\n")
	}

	return fmt.Sprintf(`You are an expert educational content generator. A student just finished a quiz on "%s" at %s level and scored %.0f%%.

Incorrectly answered questions:
%s
Produce a personalized study plan. Respond with ONLY a JSON object in the following format:
{
    "weak_areas": ["topic1", "topic2"],
    "learning_resources": [{"type": "video", "title": "title here", "url": "https://example.com"}],
    "practice_exercises": ["exercise description"],
    "study_schedule": [{"day": "Day 1", "tasks": ["task description"]}],
    "expected_outcomes": ["outcome description"]
}

Rules:
1. weak_areas must name the concrete topics behind the incorrect answers
2. Include at least one learning resource and at least three schedule days
3. Keep every string under 120 characters`,
		input.Subject, input.Level, input.Score, wrong.String())
}

// ParseRecommendationResponse extracts the first JSON object from a model
// completion. It returns nil when no usable payload can be recovered.
func ParseRecommendationResponse(raw string) *domain.RecommendationPayload {
	cleaned := strings.TrimSpace(raw)

	// Strip <think>...</think> blocks some models emit before the answer.
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil
	}

	var payload domain.RecommendationPayload
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &payload); err != nil {
		return nil
	}
	if len(payload.WeakAreas) == 0 && len(payload.StudySchedule) == 0 {
		// An empty object is as useless as a parse failure.
		return nil
	}
	return &payload
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
