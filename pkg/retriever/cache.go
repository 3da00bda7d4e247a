package retriever

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how long retrieval results stay cached.
const DefaultCacheTTL = 5 * time.Minute

// Cached decorates another retriever with a Redis result cache keyed by
// query and depth. Cache failures never surface; the inner retriever is the
// source of truth and Redis is best effort only.
type Cached struct {
	inner  Retriever
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// CachedOption configures a Cached retriever.
type CachedOption func(*Cached)

// WithCacheTTL overrides the result TTL.
func WithCacheTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) { c.ttl = ttl }
}

// WithCacheLogger attaches a logger. Defaults to a no-op logger.
func WithCacheLogger(logger *zap.Logger) CachedOption {
	return func(c *Cached) { c.logger = logger }
}

// NewCached wraps inner with a Redis result cache.
func NewCached(inner Retriever, client *redis.Client, opts ...CachedOption) *Cached {
	c := &Cached{
		inner:  inner,
		client: client,
		ttl:    DefaultCacheTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("retriever.cache")
	return c
}

// Retrieve implements Retriever. Hits are served from Redis; misses and
// cache errors fall through to the inner retriever.
func (c *Cached) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	key := cacheKey(query, topK)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var docs []Document
		if err := json.Unmarshal([]byte(cached), &docs); err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return docs, nil
		}
		// Corrupt entry, fall through and overwrite below.
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed", zap.Error(err))
	}

	docs, err := c.inner.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(docs); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", zap.Error(err))
		}
	}

	return docs, nil
}

// Embed implements Retriever by delegating to the inner retriever. Cached
// entries are left to expire via TTL after re-embedding.
func (c *Cached) Embed(ctx context.Context, client EmbeddingClient) (any, error) {
	return c.inner.Embed(ctx, client)
}

// HasEmbedding implements Retriever.
func (c *Cached) HasEmbedding() bool {
	return c.inner.HasEmbedding()
}

func cacheKey(query string, topK int) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("hoorag:retrieve:%x:%d", sum[:8], topK)
}

// Ensure Cached implements Retriever at compile time.
var _ Retriever = (*Cached)(nil)
