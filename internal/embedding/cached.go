package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/common/metrics"
)

// CachedEmbedder memoises another Embedder's output in Redis. Cache
// failures are logged and bypassed; they never fail an embedding.
type CachedEmbedder struct {
	next   Embedder
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedEmbedder(next Embedder, rdb redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "embedding-cache"}),
	}
}

func (c *CachedEmbedder) Model() string { return c.next.Model() }

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.key(text)

	if cached, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var vec []float64
		if err := json.Unmarshal(cached, &vec); err == nil && len(vec) > 0 {
			metrics.EmbeddingCacheLookups.WithLabelValues("hit").Inc()
			return vec, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("embedding cache read failed", map[string]interface{}{"error": err.Error()})
	}
	metrics.EmbeddingCacheLookups.WithLabelValues("miss").Inc()

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(vec); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("embedding cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return vec, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + ":" + c.next.Model() + ":" + hex.EncodeToString(sum[:])
}
