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

// Package runner abstracts the token-classification backends the ensemble
// fans out to. A Runner takes one encoded window and returns one row of
// label probabilities per window token.
package runner

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

// Runner is one inference backend for one model.
type Runner interface {
	// Infer returns one probability row per token in the window's encoding.
	// Rows may be raw logits; the span extractor normalizes them.
	Infer(ctx context.Context, w window.Window) ([][]float64, error)
	// Name is the model's short name, e.g. "matscibert".
	Name() string
	// Close releases backend resources.
	Close() error
}

// Pooled spreads inference over several replica runners of the same model,
// bounding in-flight requests with a weighted semaphore and picking replicas
// round-robin.
type Pooled struct {
	name     string
	replicas []Runner
	sem      *semaphore.Weighted
	next     atomic.Uint64
}

// NewPooled wraps replicas of one model. maxInFlight bounds concurrent
// Infer calls across all replicas; zero means one slot per replica.
func NewPooled(name string, replicas []Runner, maxInFlight int64) (*Pooled, error) {
	if len(replicas) == 0 {
		return nil, fmt.Errorf("pooling %s: no replicas", name)
	}
	if maxInFlight <= 0 {
		maxInFlight = int64(len(replicas))
	}
	return &Pooled{
		name:     name,
		replicas: replicas,
		sem:      semaphore.NewWeighted(maxInFlight),
	}, nil
}

// Name implements Runner.
func (p *Pooled) Name() string { return p.name }

// Infer acquires a slot, then delegates to the next replica in round-robin
// order. Context cancellation while waiting for a slot returns immediately.
func (p *Pooled) Infer(ctx context.Context, w window.Window) ([][]float64, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring slot for %s: %w", p.name, err)
	}
	defer p.sem.Release(1)

	idx := p.next.Add(1) % uint64(len(p.replicas))
	return p.replicas[idx].Infer(ctx, w)
}

// Close closes every replica, returning the first error seen.
func (p *Pooled) Close() error {
	var firstErr error
	for _, r := range p.replicas {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
