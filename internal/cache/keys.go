package cache

import (
	"strings"
	"time"

	"eduquiz/internal/config"
)

const (
	GlobalKeyPrefix = "eduquiz"
)

// Namespace groups cache keys that share a TTL policy and invalidation rule.
type Namespace string

const (
	NamespaceSession           Namespace = "session"
	NamespaceQuiz              Namespace = "quiz"
	NamespaceQuizList          Namespace = "quizzes_all"
	NamespaceQuizzesByCategory Namespace = "quizzes_category"
	NamespaceUserProfile       Namespace = "user"
	NamespaceUserResults       Namespace = "user_results"
	NamespaceRecommendations   Namespace = "recommendations"
	NamespaceLearningPath      Namespace = "learning_path"
	NamespaceQuizStats         Namespace = "quiz_stats"
	NamespaceLeaderboard       Namespace = "leaderboard"
)

// Default TTLs per namespace. Overridable through config.CacheConfig.
var defaultTTLs = map[Namespace]time.Duration{
	NamespaceSession:           30 * time.Minute,
	NamespaceQuiz:              60 * time.Minute,
	NamespaceQuizList:          10 * time.Minute,
	NamespaceQuizzesByCategory: 15 * time.Minute,
	NamespaceUserProfile:       30 * time.Minute,
	NamespaceUserResults:       2 * time.Hour,
	NamespaceRecommendations:   6 * time.Hour,
	NamespaceLearningPath:      24 * time.Hour,
	NamespaceQuizStats:         time.Hour,
	NamespaceLeaderboard:       5 * time.Minute,
}

// TTLPolicy resolves the expiration to use for a namespace.
type TTLPolicy struct {
	overrides map[Namespace]time.Duration
}

// NewTTLPolicy builds a policy from the defaults plus any non-zero config
// overrides.
func NewTTLPolicy(cfg config.CacheConfig) *TTLPolicy {
	overrides := map[Namespace]time.Duration{}
	set := func(ns Namespace, d time.Duration) {
		if d > 0 {
			overrides[ns] = d
		}
	}
	set(NamespaceSession, cfg.SessionTTL)
	set(NamespaceQuiz, cfg.QuizTTL)
	set(NamespaceQuizList, cfg.QuizListTTL)
	set(NamespaceQuizzesByCategory, cfg.QuizzesByCategory)
	set(NamespaceUserProfile, cfg.UserProfileTTL)
	set(NamespaceUserResults, cfg.UserResultsTTL)
	set(NamespaceRecommendations, cfg.RecommendationTTL)
	set(NamespaceLearningPath, cfg.LearningPathTTL)
	set(NamespaceQuizStats, cfg.QuizStatsTTL)
	set(NamespaceLeaderboard, cfg.LeaderboardTTL)
	return &TTLPolicy{overrides: overrides}
}

// TTLFor returns the configured TTL for the namespace, falling back to the
// namespace default and then to one hour for unknown namespaces.
func (p *TTLPolicy) TTLFor(ns Namespace) time.Duration {
	if p != nil {
		if d, ok := p.overrides[ns]; ok {
			return d
		}
	}
	if d, ok := defaultTTLs[ns]; ok {
		return d
	}
	return time.Hour
}

// GenerateCacheKey generates a cache key for a namespace and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the key.
func GenerateCacheKey(ns Namespace, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, string(ns), identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}
