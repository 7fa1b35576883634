package service

import (
	"context"
	"testing"
	"time"

	"eduquiz/internal/cache"
	"eduquiz/internal/config"
	"eduquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCacheService_GetJSON_MissAndError(t *testing.T) {
	mockCache := new(MockCache)
	svc := NewCacheService(mockCache, cache.NewTTLPolicy(config.CacheConfig{}))

	mockCache.On("Get", mock.Anything, "k1").Return("", domain.ErrCacheMiss)
	var dest map[string]string
	hit, err := svc.GetJSON(context.Background(), "k1", &dest)
	assert.False(t, hit)
	assert.NoError(t, err)

	// A backend failure degrades to a miss instead of propagating.
	mockCache.On("Get", mock.Anything, "k2").Return("", domain.CacheError("connection refused"))
	hit, err = svc.GetJSON(context.Background(), "k2", &dest)
	assert.False(t, hit)
	assert.NoError(t, err)
}

func TestCacheService_GetJSON_CorruptEntryEvicted(t *testing.T) {
	mockCache := new(MockCache)
	svc := NewCacheService(mockCache, cache.NewTTLPolicy(config.CacheConfig{}))

	mockCache.On("Get", mock.Anything, "k1").Return("{not json", nil)
	mockCache.On("Delete", mock.Anything, "k1").Return(nil)

	var dest map[string]string
	hit, err := svc.GetJSON(context.Background(), "k1", &dest)

	assert.False(t, hit)
	assert.NoError(t, err)
	mockCache.AssertCalled(t, "Delete", mock.Anything, "k1")
}

func TestCacheService_SetJSON_UsesNamespaceTTL(t *testing.T) {
	mockCache := new(MockCache)
	svc := NewCacheService(mockCache, cache.NewTTLPolicy(config.CacheConfig{}))

	mockCache.On("Set", mock.Anything, "k1", `{"a":"b"}`, 6*time.Hour).Return(nil)

	err := svc.SetJSON(context.Background(), cache.NamespaceRecommendations, "k1", map[string]string{"a": "b"})

	require.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestCacheService_NilBackend(t *testing.T) {
	svc := NewCacheService(nil, cache.NewTTLPolicy(config.CacheConfig{}))

	var dest map[string]string
	hit, err := svc.GetJSON(context.Background(), "k1", &dest)
	assert.False(t, hit)
	assert.NoError(t, err)

	assert.NoError(t, svc.SetJSON(context.Background(), cache.NamespaceQuiz, "k1", "v"))
	svc.Delete(context.Background(), "k1")
	svc.InvalidateUserCache(context.Background(), "user1")
}
