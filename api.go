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
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/bytedance/sonic/decoder"
	"github.com/bytedance/sonic/encoder"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/evaluation"
)

// DefaultShutdownTimeout is the default time to wait for graceful shutdown
const DefaultShutdownTimeout = 30 * time.Second

// ServiceNode hosts the extraction engine behind the HTTP API.
type ServiceNode struct {
	logger *zap.Logger
	engine *Engine
}

// ExtractRequest is the body of POST /api/extract.
type ExtractRequest struct {
	Text     string   `json:"text"`
	Sections []string `json:"sections,omitempty"`
	// Truth optionally carries annotations; when present, the response
	// includes an evaluation report.
	Truth []evaluation.GroundTruth `json:"truth,omitempty"`
}

// ExtractResponse is the body of a successful extraction.
type ExtractResponse struct {
	Result
	Evaluation *evaluation.Report `json:"evaluation,omitempty"`
}

// ModelsResponse lists registered and currently loaded models.
type ModelsResponse struct {
	Models []string `json:"models"`
	Loaded []string `json:"loaded"`
}

// VersionResponse reports build information.
type VersionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// corsMiddleware adds permissive CORS headers for the API
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleApiExtract handles extraction requests
func (n *ServiceNode) handleApiExtract(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()
	start := time.Now()

	var req ExtractRequest
	if err := decoder.NewStreamDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decoding request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	result, err := n.engine.Extract(r.Context(), req.Text, req.Sections)
	if err != nil {
		RecordRequestDuration("extract", "ensemble", "500", time.Since(start).Seconds())
		n.logger.Error("Extraction failed", zap.Error(err))
		http.Error(w, fmt.Sprintf("extracting entities: %v", err), http.StatusInternalServerError)
		return
	}

	resp := ExtractResponse{Result: *result}
	if len(req.Truth) > 0 {
		report := evaluation.Evaluate(result.Entities, req.Truth)
		resp.Evaluation = &report
	}

	RecordRequestDuration("extract", "ensemble", "200", time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if err := encoder.NewStreamEncoder(w).Encode(resp); err != nil {
		n.logger.Error("encoding response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleApiModels lists registered models
func (n *ServiceNode) handleApiModels(w http.ResponseWriter, r *http.Request) {
	resp := ModelsResponse{
		Models: n.engine.Models(),
		Loaded: n.engine.Registry().ListLoaded(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := encoder.NewStreamEncoder(w).Encode(resp); err != nil {
		n.logger.Error("encoding response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleApiStats reports registry and cache statistics
func (n *ServiceNode) handleApiStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := encoder.NewStreamEncoder(w).Encode(n.engine.Stats()); err != nil {
		n.logger.Error("encoding response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleApiVersion reports build information
func (n *ServiceNode) handleApiVersion(w http.ResponseWriter, r *http.Request) {
	resp := VersionResponse{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := encoder.NewStreamEncoder(w).Encode(resp); err != nil {
		n.logger.Error("encoding response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Handler builds the service's HTTP handler.
func (n *ServiceNode) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (outside /api prefix for k8s compatibility)
	mux.HandleFunc("GET /healthz", n.handleHealthz)
	mux.HandleFunc("GET /readyz", n.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/extract", n.handleApiExtract)
	mux.HandleFunc("GET /api/models", n.handleApiModels)
	mux.HandleFunc("GET /api/stats", n.handleApiStats)
	mux.HandleFunc("GET /api/version", n.handleApiVersion)

	return corsMiddleware(mux)
}

// RunService starts the extraction service and blocks until ctx is
// cancelled or the server fails. If readyC is non-nil, it is closed when
// the server is accepting requests.
func RunService(ctx context.Context, zl *zap.Logger, config Config, readyC chan struct{}) {
	zl = zl.Named("extractor")
	zl.Info("Starting extraction service", zap.Any("config", config))

	u, err := url.Parse(config.ApiUrl)
	if err != nil {
		zl.Fatal("Invalid API URL", zap.String("url", config.ApiUrl), zap.Error(err))
	}

	engine, err := NewEngine(config, zl)
	if err != nil {
		zl.Fatal("Failed to initialize engine", zap.Error(err))
	}
	defer func() { _ = engine.Close() }()

	node := &ServiceNode{
		logger: zl,
		engine: engine,
	}

	srv := &http.Server{
		Addr:        u.Host,
		Handler:     node.Handler(),
		ReadTimeout: 540 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zl.Info("API server starting", zap.String("address", config.ApiUrl))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	if readyC != nil {
		close(readyC)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			zl.Fatal("HTTP server error", zap.Error(err))
		}
	case <-ctx.Done():
		zl.Info("Shutdown signal received, starting graceful shutdown...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer shutdownCancel()

	srv.SetKeepAlivesEnabled(false)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("Graceful shutdown failed, forcing close",
			zap.Error(err),
			zap.Duration("timeout", DefaultShutdownTimeout))
		_ = srv.Close()
	} else {
		zl.Info("Graceful shutdown completed successfully")
	}

	zl.Info("HTTP server stopped")
}
