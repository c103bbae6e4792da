package ai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachingEmbedder memoizes embeddings by exact text. Repeated questions
// skip the embedding service entirely.
type CachingEmbedder struct {
	next   Embedder
	cache  *cache.Cache
	hits   atomic.Int64
	misses atomic.Int64
	logger *slog.Logger
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next with a cache whose entries expire after ttl.
// A ttl of zero or less returns next unchanged.
func NewCachingEmbedder(next Embedder, ttl time.Duration) Embedder {
	if ttl <= 0 || next == nil {
		return next
	}
	return &CachingEmbedder{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: slog.Default().With("component", "embedding-cache"),
	}
}

// EmbedText returns the cached vector for text or embeds and caches it.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		c.hits.Add(1)
		return slices.Clone(v.([]float32)), nil
	}
	c.misses.Add(1)

	vector, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(text, slices.Clone(vector))
	return vector, nil
}

// EmbedTexts serves cached vectors and embeds the remaining texts in one batch.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var positions []int
	for i, text := range texts {
		if v, ok := c.cache.Get(text); ok {
			c.hits.Add(1)
			out[i] = slices.Clone(v.([]float32))
			continue
		}
		c.misses.Add(1)
		missing = append(missing, text)
		positions = append(positions, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := c.next.EmbedTexts(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingCountMismatch, len(vectors), len(missing))
	}
	for j, v := range vectors {
		c.cache.SetDefault(missing[j], slices.Clone(v))
		out[positions[j]] = v
	}
	c.logger.Debug("embedded batch", "cached", len(texts)-len(missing), "embedded", len(missing))
	return out, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *CachingEmbedder) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Flush drops every cached vector.
func (c *CachingEmbedder) Flush() {
	c.cache.Flush()
}
