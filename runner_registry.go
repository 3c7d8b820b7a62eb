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
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/runner"
)

// DefaultKeepAlive matches Ollama's 5-minute default
const DefaultKeepAlive = 5 * time.Minute

// RunnerFactory builds a runner for a catalog entry. It runs on first use of
// the model, not at registration.
type RunnerFactory func(spec ModelSpec) (runner.Runner, error)

// LazyRunnerRegistry manages inference runners with lazy construction and
// TTL-based shutdown. Runners for rarely used models hold connections and
// buffers; idle ones are closed and rebuilt on demand.
type LazyRunnerRegistry struct {
	factory RunnerFactory
	logger  *zap.Logger

	// Registered catalog entries (not constructed yet)
	registered map[string]ModelSpec
	mu         sync.RWMutex

	// Constructed runners with TTL cache (for lazy runners)
	cache *ttlcache.Cache[string, runner.Runner]

	// Pinned runners (never evicted, stored separately from cache)
	pinned   map[string]runner.Runner
	pinnedMu sync.RWMutex

	keepAlive time.Duration
	maxLoaded uint64
}

// RunnerRegistryConfig configures the lazy runner registry
type RunnerRegistryConfig struct {
	KeepAlive time.Duration // How long to keep idle runners (0 = forever)
	MaxLoaded uint64        // Max constructed runners (0 = unlimited)
}

// NewLazyRunnerRegistry creates a lazy-loading runner registry over the
// given catalog.
func NewLazyRunnerRegistry(
	config RunnerRegistryConfig,
	catalog []ModelSpec,
	factory RunnerFactory,
	logger *zap.Logger,
) *LazyRunnerRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}

	keepAlive := config.KeepAlive
	if keepAlive == 0 {
		keepAlive = ttlcache.NoTTL // Never expire
	}

	registry := &LazyRunnerRegistry{
		factory:    factory,
		logger:     logger,
		registered: make(map[string]ModelSpec, len(catalog)),
		pinned:     make(map[string]runner.Runner),
		keepAlive:  keepAlive,
		maxLoaded:  config.MaxLoaded,
	}
	for _, spec := range catalog {
		registry.registered[spec.Name] = spec
	}

	cacheOpts := []ttlcache.Option[string, runner.Runner]{
		ttlcache.WithTTL[string, runner.Runner](keepAlive),
	}
	if config.MaxLoaded > 0 {
		cacheOpts = append(cacheOpts,
			ttlcache.WithCapacity[string, runner.Runner](config.MaxLoaded))
	}
	registry.cache = ttlcache.New(cacheOpts...)

	registry.cache.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, runner.Runner]) {
		name := item.Key()
		r := item.Value()

		// A runner moved to pinned must not be closed on eviction.
		registry.pinnedMu.RLock()
		isPinned := registry.pinned[name] == r
		registry.pinnedMu.RUnlock()
		if isPinned {
			logger.Debug("Runner moved to pinned, skipping close",
				zap.String("model", name))
			return
		}

		reasonStr := "unknown"
		switch reason {
		case ttlcache.EvictionReasonExpired:
			reasonStr = "expired (keep-alive timeout)"
		case ttlcache.EvictionReasonCapacityReached:
			reasonStr = "capacity reached (LRU eviction)"
		case ttlcache.EvictionReasonDeleted:
			reasonStr = "manually deleted"
		}

		logger.Info("Shutting down idle runner",
			zap.String("model", name),
			zap.String("reason", reasonStr))

		if err := r.Close(); err != nil {
			logger.Warn("Error closing runner",
				zap.String("model", name),
				zap.Error(err))
		}
	})

	go registry.cache.Start()

	logger.Info("Runner registry ready",
		zap.Int("models_registered", len(registry.registered)),
		zap.Duration("keep_alive", keepAlive),
		zap.Uint64("max_loaded", config.MaxLoaded))

	return registry
}

// Get returns a runner by model name, constructing it if necessary
func (r *LazyRunnerRegistry) Get(modelName string) (runner.Runner, error) {
	r.pinnedMu.RLock()
	if rn, ok := r.pinned[modelName]; ok {
		r.pinnedMu.RUnlock()
		return rn, nil
	}
	r.pinnedMu.RUnlock()

	// Get refreshes the TTL, so active models stay alive.
	if item := r.cache.Get(modelName); item != nil {
		return item.Value(), nil
	}

	r.mu.RLock()
	spec, known := r.registered[modelName]
	r.mu.RUnlock()
	if !known {
		return nil, fmt.Errorf("model not found: %s", modelName)
	}

	return r.construct(spec)
}

// construct builds a runner on demand
func (r *LazyRunnerRegistry) construct(spec ModelSpec) (runner.Runner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache after acquiring lock
	if item := r.cache.Get(spec.Name); item != nil {
		return item.Value(), nil
	}

	r.logger.Info("Constructing runner on demand",
		zap.String("model", spec.Name),
		zap.String("endpoint", spec.Endpoint))

	start := time.Now()
	rn, err := r.factory(spec)
	if err != nil {
		r.logger.Error("Failed to construct runner",
			zap.String("model", spec.Name),
			zap.Error(err))
		return nil, fmt.Errorf("constructing runner %s: %w", spec.Name, err)
	}

	r.cache.Set(spec.Name, rn, ttlcache.DefaultTTL)

	r.logger.Info("Runner ready",
		zap.String("model", spec.Name),
		zap.Duration("startup", time.Since(start)))

	return rn, nil
}

// List returns all registered model names
func (r *LazyRunnerRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.registered))
	for name := range r.registered {
		names = append(names, name)
	}
	return names
}

// ListLoaded returns currently constructed runner names (pinned first)
func (r *LazyRunnerRegistry) ListLoaded() []string {
	keys := r.cache.Keys()

	r.pinnedMu.RLock()
	pinnedNames := make([]string, 0, len(r.pinned))
	for name := range r.pinned {
		pinnedNames = append(pinnedNames, name)
	}
	r.pinnedMu.RUnlock()

	names := make([]string, 0, len(keys)+len(pinnedNames))
	names = append(names, pinnedNames...)
	names = append(names, keys...)
	return names
}

// IsLoaded checks if a runner is currently constructed (cached or pinned)
func (r *LazyRunnerRegistry) IsLoaded(modelName string) bool {
	r.pinnedMu.RLock()
	isPinned := r.pinned[modelName] != nil
	r.pinnedMu.RUnlock()
	return isPinned || r.cache.Has(modelName)
}

// Unload explicitly shuts down a runner (triggers eviction callback).
// Pinned runners cannot be unloaded via this method.
func (r *LazyRunnerRegistry) Unload(modelName string) {
	r.pinnedMu.RLock()
	isPinned := r.pinned[modelName] != nil
	r.pinnedMu.RUnlock()
	if isPinned {
		r.logger.Debug("Cannot unload pinned runner",
			zap.String("model", modelName))
		return
	}
	r.cache.Delete(modelName)
}

// Pin marks a runner as pinned (never evicted), constructing it first if
// needed. Pinned runners survive TTL expiration and LRU eviction.
func (r *LazyRunnerRegistry) Pin(modelName string) error {
	r.pinnedMu.RLock()
	if r.pinned[modelName] != nil {
		r.pinnedMu.RUnlock()
		return nil
	}
	r.pinnedMu.RUnlock()

	rn, err := r.Get(modelName)
	if err != nil {
		return fmt.Errorf("pin model %s: %w", modelName, err)
	}

	r.pinnedMu.Lock()
	r.pinned[modelName] = rn
	r.pinnedMu.Unlock()

	// The eviction callback sees the runner in pinned and skips the close.
	r.cache.Delete(modelName)

	r.logger.Info("Pinned runner (will not be evicted)",
		zap.String("model", modelName))

	return nil
}

// IsPinned returns true if a runner is pinned
func (r *LazyRunnerRegistry) IsPinned(modelName string) bool {
	r.pinnedMu.RLock()
	defer r.pinnedMu.RUnlock()
	return r.pinned[modelName] != nil
}

// Preload constructs the given runners at startup to avoid first-request
// latency
func (r *LazyRunnerRegistry) Preload(modelNames []string) error {
	if len(modelNames) == 0 {
		return nil
	}

	r.logger.Info("Preloading runners", zap.Strings("models", modelNames))

	var loaded, failed int
	for _, name := range modelNames {
		if _, err := r.Get(name); err != nil {
			r.logger.Warn("Failed to preload runner",
				zap.String("model", name),
				zap.Error(err))
			failed++
		} else {
			loaded++
		}
	}

	r.logger.Info("Preloading complete",
		zap.Int("loaded", loaded),
		zap.Int("failed", failed))

	if failed > 0 && loaded == 0 {
		return fmt.Errorf("all %d runners failed to preload", failed)
	}
	return nil
}

// Close stops the cache and shuts down all runners (including pinned)
func (r *LazyRunnerRegistry) Close() error {
	r.logger.Info("Closing runner registry")

	r.cache.Stop()
	r.cache.DeleteAll()

	r.pinnedMu.Lock()
	for name, rn := range r.pinned {
		if err := rn.Close(); err != nil {
			r.logger.Warn("Error closing pinned runner",
				zap.String("model", name),
				zap.Error(err))
		}
	}
	r.pinned = make(map[string]runner.Runner)
	r.pinnedMu.Unlock()

	return nil
}

// Stats returns registry statistics
func (r *LazyRunnerRegistry) Stats() map[string]any {
	metrics := r.cache.Metrics()

	r.pinnedMu.RLock()
	pinnedCount := len(r.pinned)
	pinnedNames := make([]string, 0, pinnedCount)
	for name := range r.pinned {
		pinnedNames = append(pinnedNames, name)
	}
	r.pinnedMu.RUnlock()

	return map[string]any{
		"registered":    len(r.registered),
		"loaded":        r.cache.Len() + pinnedCount,
		"pinned":        pinnedCount,
		"pinned_models": pinnedNames,
		"cached":        r.cache.Len(),
		"hits":          metrics.Hits,
		"misses":        metrics.Misses,
		"keep_alive":    r.keepAlive.String(),
		"max_loaded":    r.maxLoaded,
		"loaded_models": r.ListLoaded(),
	}
}
