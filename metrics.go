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

import "github.com/prometheus/client_golang/prometheus"

var (
	extractRequestOps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "extract_request_ops_total",
			Help:      "The total number of extraction requests.",
		},
	)
	entityCreationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "entity_creation_ops_total",
			Help:      "The total number of accepted entities.",
		},
		[]string{"entity_type"},
	)
	windowCreationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "window_creation_ops_total",
			Help:      "The total number of inference windows packed.",
		},
		[]string{"model"},
	)
	modelInferenceOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "model_inference_ops_total",
			Help:      "The total number of window inferences per model.",
		},
		[]string{"model"},
	)
	modelAbstentions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "model_abstentions_total",
			Help:      "The total number of documents a model abstained from (timeout or failure).",
		},
		[]string{"model"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "request_duration_seconds",
			Help:      "Time taken to process a request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "model", "status"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits.",
		},
		[]string{"type"}, // prediction
	)
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polymer",
			Subsystem: "extractor",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses.",
		},
		[]string{"type"}, // prediction
	)
)

func init() {
	prometheus.MustRegister(extractRequestOps)
	prometheus.MustRegister(entityCreationOps)
	prometheus.MustRegister(windowCreationOps)
	prometheus.MustRegister(modelInferenceOps)
	prometheus.MustRegister(modelAbstentions)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
}

// RecordExtractRequest increments the extraction request counter
func RecordExtractRequest() {
	extractRequestOps.Inc()
}

// RecordEntityCreation records accepted entities by type
func RecordEntityCreation(entityType string, count int) {
	entityCreationOps.WithLabelValues(entityType).Add(float64(count))
}

// RecordWindowCreation records windows packed for a model
func RecordWindowCreation(model string, count int) {
	windowCreationOps.WithLabelValues(model).Add(float64(count))
}

// RecordModelInference increments the per-model inference counter
func RecordModelInference(model string) {
	modelInferenceOps.WithLabelValues(model).Inc()
}

// RecordModelAbstention increments the per-model abstention counter
func RecordModelAbstention(model string) {
	modelAbstentions.WithLabelValues(model).Inc()
}

// RecordRequestDuration records how long a request took
func RecordRequestDuration(endpoint, model, status string, seconds float64) {
	requestDuration.WithLabelValues(endpoint, model, status).Observe(seconds)
}

// RecordCacheHit increments the cache hit counter
func RecordCacheHit(cacheType string) {
	cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments the cache miss counter
func RecordCacheMiss(cacheType string) {
	cacheMisses.WithLabelValues(cacheType).Inc()
}
