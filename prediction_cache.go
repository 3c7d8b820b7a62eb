// Copyright 2026 Dhanush Mallu
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extractor

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/runner"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

// CachedRunner wraps an inference runner with window-level caching. Repeated
// extraction over the same document hits the cache instead of the model.
type CachedRunner struct {
	inner   runner.Runner
	cache   *ttlcache.Cache[string, [][]float64]
	sfGroup *singleflight.Group
	logger  *zap.Logger

	// Metrics
	hits   atomic.Uint64
	misses atomic.Uint64
	sfHits atomic.Uint64
}

// NewCachedRunner wraps a runner with caching
func NewCachedRunner(
	inner runner.Runner,
	cache *ttlcache.Cache[string, [][]float64],
	logger *zap.Logger,
) *CachedRunner {
	return &CachedRunner{
		inner:   inner,
		cache:   cache,
		sfGroup: &singleflight.Group{},
		logger:  logger,
	}
}

// Name implements runner.Runner
func (c *CachedRunner) Name() string { return c.inner.Name() }

// Infer runs window inference with caching support
func (c *CachedRunner) Infer(ctx context.Context, w window.Window) ([][]float64, error) {
	key := c.cacheKey(w)

	if item := c.cache.Get(key); item != nil {
		c.hits.Add(1)
		RecordCacheHit("prediction")
		c.logger.Debug("Prediction cache hit",
			zap.String("model", c.Name()),
			zap.String("window", w.ID))
		return item.Value(), nil
	}

	// Deduplicate concurrent identical windows
	result, err, shared := c.sfGroup.Do(key, func() (any, error) {
		c.misses.Add(1)
		RecordCacheMiss("prediction")

		start := time.Now()
		probs, err := c.inner.Infer(ctx, w)
		if err != nil {
			return nil, err
		}

		RecordRequestDuration("infer", c.Name(), "200", time.Since(start).Seconds())

		c.cache.Set(key, probs, ttlcache.DefaultTTL)

		c.logger.Debug("Window inference completed and cached",
			zap.String("model", c.Name()),
			zap.String("window", w.ID),
			zap.Int("tokens", len(w.Encoding.IDs)),
			zap.Duration("duration", time.Since(start)))

		return probs, nil
	})

	if err != nil {
		return nil, err
	}

	if shared {
		c.sfHits.Add(1)
		c.logger.Debug("Singleflight hit for window inference",
			zap.String("model", c.Name()))
	}

	return result.([][]float64), nil
}

// cacheKey hashes model name, window text, and the encoding shape. Window
// IDs are positional, so text is what identifies the content.
func (c *CachedRunner) cacheKey(w window.Window) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.Name())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(w.Text)
	_, _ = h.WriteString("|")
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(w.Encoding.IDs)))
	_, _ = h.Write(n[:])

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h.Sum64())
	return string(buf[:])
}

// Close closes the underlying runner
func (c *CachedRunner) Close() error {
	return c.inner.Close()
}

// RunnerCacheStats holds cache statistics for one model
type RunnerCacheStats struct {
	Model            string `json:"model"`
	Hits             uint64 `json:"hits"`
	Misses           uint64 `json:"misses"`
	SingleflightHits uint64 `json:"singleflight_hits"`
}

// Stats returns cache statistics for this runner
func (c *CachedRunner) Stats() RunnerCacheStats {
	return RunnerCacheStats{
		Model:            c.Name(),
		Hits:             c.hits.Load(),
		Misses:           c.misses.Load(),
		SingleflightHits: c.sfHits.Load(),
	}
}

// PredictionCache manages the shared window-prediction cache
type PredictionCache struct {
	cache  *ttlcache.Cache[string, [][]float64]
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, logger *zap.Logger) *PredictionCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, [][]float64](ttl),
	)
	go cache.Start()

	ctx, cancel := context.WithCancel(context.Background())
	pc := &PredictionCache{
		cache:  cache,
		logger: logger,
		cancel: cancel,
	}

	go pc.logStats(ctx)

	return pc
}

// WrapRunner wraps a runner with caching
func (pc *PredictionCache) WrapRunner(r runner.Runner) *CachedRunner {
	return NewCachedRunner(r, pc.cache, pc.logger.Named(r.Name()))
}

// Close stops the cache
func (pc *PredictionCache) Close() {
	pc.cancel()
	pc.cache.Stop()
}

// logStats logs cache statistics periodically
func (pc *PredictionCache) logStats(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := pc.cache.Metrics()
			if metrics.Hits > 0 || metrics.Misses > 0 {
				hitRate := float64(0)
				total := metrics.Hits + metrics.Misses
				if total > 0 {
					hitRate = float64(metrics.Hits) / float64(total) * 100
				}
				pc.logger.Info("Prediction cache stats",
					zap.Uint64("hits", metrics.Hits),
					zap.Uint64("misses", metrics.Misses),
					zap.Float64("hit_rate_pct", hitRate),
					zap.Int("items", pc.cache.Len()))
			}
		}
	}
}

// Stats returns global cache statistics
func (pc *PredictionCache) Stats() map[string]any {
	metrics := pc.cache.Metrics()
	return map[string]any{
		"hits":   metrics.Hits,
		"misses": metrics.Misses,
		"items":  pc.cache.Len(),
	}
}
