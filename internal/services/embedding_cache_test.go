package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCacheKey(t *testing.T) {
	a := EmbeddingCacheKey("text-embedding-004", "hello")

	assert.Equal(t, a, EmbeddingCacheKey("text-embedding-004", "hello"))
	assert.NotEqual(t, a, EmbeddingCacheKey("text-embedding-004", "hello!"))
	assert.NotEqual(t, a, EmbeddingCacheKey("other-model", "hello"))
	assert.Len(t, a, len("emb:")+32)
}

func TestEmbeddingCache_GetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCacheWithClient(nil, time.Minute, 10)

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	cache.Set(ctx, "k", []float32{0.1, 0.2})
	vec, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, vec)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.NoError(t, cache.Close())
}

func TestEmbeddingCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCacheWithClient(nil, time.Millisecond, 10)

	cache.Set(ctx, "k", []float32{1})
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestEmbeddingCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	cache := NewEmbeddingCacheWithClient(nil, time.Hour, 2)

	cache.Set(ctx, "first", []float32{1})
	time.Sleep(2 * time.Millisecond)
	cache.Set(ctx, "second", []float32{2})
	time.Sleep(2 * time.Millisecond)
	cache.Set(ctx, "third", []float32{3})

	_, ok := cache.Get(ctx, "first")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "second")
	assert.True(t, ok)
	_, ok = cache.Get(ctx, "third")
	assert.True(t, ok)
	assert.Equal(t, int64(2), cache.size.Load())
}

func TestCachedEmbeddingService(t *testing.T) {
	ctx := context.Background()
	inner := &stubEmbedder{marker: "resume", resumeVec: []float32{1, 0}, jdVec: []float32{0, 1}}
	svc := NewCachedEmbeddingService(inner, NewEmbeddingCacheWithClient(nil, time.Hour, 100), "model")

	for i := 0; i < 3; i++ {
		vec, err := svc.GenerateEmbedding(ctx, "resume chunk")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, vec)
	}
	assert.Equal(t, int64(1), inner.calls.Load())

	_, err := svc.GenerateEmbedding(ctx, "job chunk")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.calls.Load())
}

func TestCachedEmbeddingService_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &stubEmbedder{err: errors.New("rate limited")}
	svc := NewCachedEmbeddingService(inner, NewEmbeddingCacheWithClient(nil, time.Hour, 100), "model")

	_, err := svc.GenerateEmbedding(ctx, "text")
	assert.Error(t, err)
	_, err = svc.GenerateEmbedding(ctx, "text")
	assert.Error(t, err)
	assert.Equal(t, int64(2), inner.calls.Load())
}

func TestNewGeminiService_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
}
