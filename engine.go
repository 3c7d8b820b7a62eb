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

// Package extractor runs ensemble named-entity extraction over polymer
// science text: sentence-aware window packing, parallel multi-model
// inference, and expertise-weighted vote aggregation with dynamic
// acceptance thresholds.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/ensemble"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/expertise"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/runner"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/sentence"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/spans"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

// GazetteerModel is the name of the built-in dictionary voter.
const GazetteerModel = "gazetteer"

// Result is the outcome of one document extraction.
type Result struct {
	Entities   []ensemble.FinalEntity `json:"entities"`
	ModelsRan  []string               `json:"models_ran"`
	Abstained  []string               `json:"abstained,omitempty"`
	Contexts   []string               `json:"contexts,omitempty"`
	Sentences  int                    `json:"sentences"`
	Windows    int                    `json:"windows"`
	DurationMS float64                `json:"duration_ms"`
}

// Engine ties the pipeline together. Safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	config Config

	registry        *LazyRunnerRegistry
	predictionCache *PredictionCache

	detector   *terms.ContextDetector
	splitter   *sentence.Splitter
	packer     *window.Packer
	extractor  *spans.Extractor
	aggregator *ensemble.Aggregator

	tokenizers map[string]tokenizer.Tokenizer
}

// NewEngine builds an Engine from config. Models present in the default
// catalog get their tuned expertise profiles; only models with a configured
// endpoint (plus the optional gazetteer) are registered for inference.
func NewEngine(config Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	detector, err := terms.NewContextDetector()
	if err != nil {
		return nil, fmt.Errorf("building context detector: %w", err)
	}

	specs, tokenizers, err := buildSpecs(config, logger)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, errors.New("no models configured: set models endpoints or enable the gazetteer")
	}

	predictionCache := NewPredictionCache(config.CacheTTLDuration(), logger.Named("prediction-cache"))

	var keepAlive time.Duration
	if config.KeepAlive != "" && config.KeepAlive != "0" {
		keepAlive, _ = time.ParseDuration(config.KeepAlive)
	}

	registry := NewLazyRunnerRegistry(
		RunnerRegistryConfig{KeepAlive: keepAlive},
		specs,
		runnerFactory(config, predictionCache, logger),
		logger.Named("registry"),
	)

	if len(config.Preload) > 0 {
		if err := registry.Preload(config.Preload); err != nil {
			logger.Warn("Some runners failed to preload", zap.Error(err))
		}
	}

	// The sentence splitter needs a cheap token counter before any model's
	// tokenizer is chosen; BPE counts track WordPiece closely enough for
	// budget decisions.
	counter := tokenizer.Counter(tokenizer.NewWords())
	if bpe, err := tokenizer.NewBPECounter(""); err == nil {
		counter = bpe
	} else {
		logger.Warn("BPE counter unavailable, using word counts for sentence budgets", zap.Error(err))
	}

	profiles := CatalogProfiles(specs)

	return &Engine{
		logger:          logger,
		config:          config,
		registry:        registry,
		predictionCache: predictionCache,
		detector:        detector,
		splitter:        sentence.NewSplitter(counter, nil, logger.Named("splitter")),
		packer: window.NewPacker(
			window.WithMaxTokens(config.MaxWindowTokens),
			window.WithOverlapSentences(config.OverlapSentences),
			window.WithLogger(logger.Named("packer")),
		),
		extractor:  spans.NewExtractor(logger.Named("spans")),
		aggregator: ensemble.NewAggregator(profiles, ensemble.DefaultThresholds(), logger.Named("ensemble")),
		tokenizers: tokenizers,
	}, nil
}

// buildSpecs resolves the model catalog against the configured endpoints and
// loads a tokenizer for each registered model.
func buildSpecs(config Config, logger *zap.Logger) ([]ModelSpec, map[string]tokenizer.Tokenizer, error) {
	var specs []ModelSpec
	tokenizers := make(map[string]tokenizer.Tokenizer)

	catalog := make(map[string]ModelSpec)
	for _, spec := range DefaultCatalog() {
		catalog[spec.Name] = spec
	}

	names := make([]string, 0, len(config.Models))
	for name := range config.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		endpoint := config.Models[name]
		if endpoint == "" {
			logger.Warn("Model has no endpoint, skipping", zap.String("model", name))
			continue
		}
		spec, ok := catalog[name]
		if !ok {
			// Uncatalogued models run with neutral expertise.
			logger.Info("Model not in catalog, using neutral expertise",
				zap.String("model", name))
			spec = ModelSpec{Name: name}
		}
		spec.Endpoint = endpoint
		specs = append(specs, spec)
		tokenizers[name] = loadTokenizer(config.VocabDir, name, logger)
	}

	if config.Gazetteer {
		specs = append(specs, gazetteerSpec())
		tokenizers[GazetteerModel] = tokenizer.NewWords()
	}

	return specs, tokenizers, nil
}

// gazetteerSpec describes the built-in dictionary voter: high precision on
// terms it knows, modest ensemble weight so learned models outvote it.
func gazetteerSpec() ModelSpec {
	return ModelSpec{
		Name:    GazetteerModel,
		ModelID: "builtin/gazetteer",
		Expertise: expertise.Profile{
			Model:       GazetteerModel,
			BaseWeight:  0.8,
			Reliability: 1.0,
		},
	}
}

// loadTokenizer builds the model's WordPiece tokenizer from its vocab file,
// falling back to whitespace tokenization when no vocab is available.
func loadTokenizer(vocabDir, model string, logger *zap.Logger) tokenizer.Tokenizer {
	if vocabDir != "" {
		vocabPath := filepath.Join(vocabDir, model, "vocab.txt")
		if _, err := os.Stat(vocabPath); err == nil {
			wp, err := tokenizer.NewWordPiece(vocabPath)
			if err == nil {
				logger.Info("Loaded WordPiece vocab",
					zap.String("model", model),
					zap.String("path", vocabPath))
				return wp
			}
			logger.Warn("Failed to load WordPiece vocab, falling back to word tokens",
				zap.String("model", model),
				zap.Error(err))
		}
	}
	return tokenizer.NewWords()
}

// runnerFactory builds the inference backend for a catalog entry and wraps
// it with the shared prediction cache. A comma-separated endpoint list
// becomes a round-robin replica pool.
func runnerFactory(config Config, cache *PredictionCache, logger *zap.Logger) RunnerFactory {
	return func(spec ModelSpec) (runner.Runner, error) {
		var base runner.Runner
		if spec.Name == GazetteerModel {
			g, err := runner.NewGazetteer(GazetteerModel, logger)
			if err != nil {
				return nil, err
			}
			base = g
		} else {
			var replicas []runner.Runner
			for _, endpoint := range strings.Split(spec.Endpoint, ",") {
				endpoint = strings.TrimSpace(endpoint)
				if endpoint == "" {
					continue
				}
				replicas = append(replicas, runner.NewHTTP(spec.Name, endpoint,
					runner.WithHTTPTimeout(config.ModelTimeoutDuration()),
					runner.WithHTTPLogger(logger)))
			}
			if len(replicas) == 1 {
				base = replicas[0]
			} else {
				pool, err := runner.NewPooled(spec.Name, replicas, int64(config.MaxConcurrentWindows))
				if err != nil {
					return nil, err
				}
				base = pool
			}
		}
		return cache.WrapRunner(base), nil
	}
}

// modelOutput is one model's complete document reading.
type modelOutput struct {
	model   string
	preds   []spans.RawPrediction
	windows int
	err     error
}

// errBadResponse marks a model response that violates the per-token
// contract. Unlike timeouts, this fails the whole request: the serving side
// is misconfigured, and silently dropping its votes would skew thresholds.
var errBadResponse = errors.New("model response violates token contract")

// Extract runs the full pipeline over one document. Sections are optional
// section headings used for context detection. Models that time out or fail
// abstain: they are excluded from the agreement denominator and the request
// still succeeds with the remaining voters.
func (e *Engine) Extract(ctx context.Context, text string, sections []string) (*Result, error) {
	RecordExtractRequest()
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return &Result{Entities: []ensemble.FinalEntity{}}, nil
	}

	sentences := e.splitter.Split(text, e.packer.MaxTokens())
	contexts := e.detector.Detect(text, sections)

	models := e.registry.List()
	sort.Strings(models)

	outputs := make([]modelOutput, len(models))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range models {
		g.Go(func() error {
			outputs[i] = e.runModel(gctx, name, sentences)
			if errors.Is(outputs[i].err, errBadResponse) {
				return outputs[i].err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extracting entities: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var allPreds []spans.RawPrediction
	var ran, abstained []string
	totalWindows := 0
	for _, out := range outputs {
		if out.err != nil {
			e.logger.Warn("Model abstained",
				zap.String("model", out.model),
				zap.Error(out.err))
			RecordModelAbstention(out.model)
			abstained = append(abstained, out.model)
			continue
		}
		ran = append(ran, out.model)
		allPreds = append(allPreds, out.preds...)
		totalWindows += out.windows
	}

	entities := e.aggregator.Aggregate(allPreds, len(ran), contexts)
	if entities == nil {
		entities = []ensemble.FinalEntity{}
	}
	for _, ent := range entities {
		RecordEntityCreation(string(ent.EntityType), 1)
	}

	duration := time.Since(start)
	e.logger.Info("Extraction complete",
		zap.Int("chars", len(text)),
		zap.Int("sentences", len(sentences)),
		zap.Int("windows", totalWindows),
		zap.Strings("models_ran", ran),
		zap.Strings("abstained", abstained),
		zap.Int("entities", len(entities)),
		zap.Duration("duration", duration))

	return &Result{
		Entities:   entities,
		ModelsRan:  ran,
		Abstained:  abstained,
		Contexts:   contexts,
		Sentences:  len(sentences),
		Windows:    totalWindows,
		DurationMS: float64(duration.Microseconds()) / 1000.0,
	}, nil
}

// runModel packs windows for one model and infers them with bounded
// parallelism under the model's deadline. Any non-contract failure poisons
// only this model's output.
func (e *Engine) runModel(ctx context.Context, name string, sentences []sentence.Sentence) modelOutput {
	out := modelOutput{model: name}

	rn, err := e.registry.Get(name)
	if err != nil {
		out.err = err
		return out
	}

	tok, ok := e.tokenizers[name]
	if !ok {
		tok = tokenizer.NewWords()
	}

	windows, err := e.packer.Pack(name, sentences, tok)
	if err != nil {
		out.err = err
		return out
	}
	out.windows = len(windows)
	RecordWindowCreation(name, len(windows))

	mctx, cancel := context.WithTimeout(ctx, e.config.ModelTimeoutDuration())
	defer cancel()

	var mu sync.Mutex
	g, wctx := errgroup.WithContext(mctx)
	g.SetLimit(e.config.MaxConcurrentWindows)
	for _, w := range windows {
		g.Go(func() error {
			RecordModelInference(name)
			probs, err := rn.Infer(wctx, w)
			if err != nil {
				return err
			}
			preds, err := e.extractor.Extract(w, probs)
			if err != nil {
				return fmt.Errorf("%w: %s", errBadResponse, err.Error())
			}
			mu.Lock()
			out.preds = append(out.preds, preds...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		out.err = err
		out.preds = nil
	}
	return out
}

// Models returns the registered model names, sorted.
func (e *Engine) Models() []string {
	names := e.registry.List()
	sort.Strings(names)
	return names
}

// Registry exposes the runner registry for pinning and stats.
func (e *Engine) Registry() *LazyRunnerRegistry { return e.registry }

// Stats reports registry and cache statistics.
func (e *Engine) Stats() map[string]any {
	return map[string]any{
		"registry":         e.registry.Stats(),
		"prediction_cache": e.predictionCache.Stats(),
	}
}

// Close shuts down runners and caches.
func (e *Engine) Close() error {
	err := e.registry.Close()
	e.predictionCache.Close()
	return err
}
