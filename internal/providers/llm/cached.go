package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/cache"
	"github.com/sirupsen/logrus"
)

// CachedEmbedder memoizes vectors per (model, text). Cache errors are logged
// and the provider is called as if the key were missing.
type CachedEmbedder struct {
	next  Embedder
	cache cache.Cache
	ttl   time.Duration
	model string
	log   *logrus.Logger
}

func NewCachedEmbedder(next Embedder, c cache.Cache, ttl time.Duration, log *logrus.Logger) Embedder {
	if c == nil || ttl <= 0 {
		return next
	}
	model := "default"
	if m, ok := next.(Model); ok && m.ModelName() != "" {
		model = m.ModelName()
	}
	return &CachedEmbedder{next: next, cache: c, ttl: ttl, model: model, log: log}
}

func (c *CachedEmbedder) ModelName() string { return c.model }

func EmbeddingKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + model + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := EmbeddingKey(c.model, text)

	var vec []float32
	hit, err := cache.GetJSON(ctx, c.cache, key, &vec)
	if err != nil {
		c.warn(err, "embedding cache get failed")
	} else if hit && len(vec) > 0 {
		return vec, nil
	}

	vec, err = c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, c.cache, key, vec, c.ttl); err != nil {
		c.warn(err, "embedding cache set failed")
	}
	return vec, nil
}

func (c *CachedEmbedder) warn(err error, msg string) {
	if c.log == nil {
		return
	}
	c.log.WithError(err).WithField("model", c.model).Warn(msg)
}
