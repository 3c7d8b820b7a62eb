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

package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

const defaultHTTPTimeout = 60 * time.Second

// HTTP runs inference against a model served over HTTP. The serving side
// exposes POST /predict taking the encoded window and returning per-token
// label probabilities.
type HTTP struct {
	name    string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// HTTPOption configures an HTTP runner.
type HTTPOption func(*HTTP)

// WithHTTPClient supplies a custom client, e.g. with a shared transport.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTP) {
		if c != nil {
			r.client = c
		}
	}
}

// WithHTTPTimeout overrides the per-request timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(r *HTTP) {
		if d > 0 {
			r.client.Timeout = d
		}
	}
}

// WithHTTPLogger attaches a logger to the runner.
func WithHTTPLogger(logger *zap.Logger) HTTPOption {
	return func(r *HTTP) {
		if logger != nil {
			r.logger = logger.Named("runner").With(zap.String("model", r.name))
		}
	}
}

// NewHTTP creates a runner for the model served at baseURL.
func NewHTTP(name, baseURL string, opts ...HTTPOption) *HTTP {
	r := &HTTP{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements Runner.
func (r *HTTP) Name() string { return r.name }

type predictRequest struct {
	WindowID      string `json:"window_id"`
	Text          string `json:"text"`
	TokenIDs      []int  `json:"token_ids"`
	AttentionMask []int  `json:"attention_mask"`
}

type predictResponse struct {
	Probabilities [][]float64 `json:"probabilities"`
	Error         string      `json:"error,omitempty"`
}

// Infer implements Runner.
func (r *HTTP) Infer(ctx context.Context, w window.Window) ([][]float64, error) {
	body, err := sonic.Marshal(predictRequest{
		WindowID:      w.ID,
		Text:          w.Text,
		TokenIDs:      w.Encoding.IDs,
		AttentionMask: w.Encoding.AttentionMask,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding predict request for %s: %w", w.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building predict request for %s: %w", w.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s for %s: %w", r.name, w.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calling %s for %s: status %d: %s",
			r.name, w.ID, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out predictResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding predict response for %s: %w", w.ID, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model %s failed on %s: %s", r.name, w.ID, out.Error)
	}

	r.logger.Debug("Model inference complete",
		zap.String("window", w.ID),
		zap.Int("tokens", len(w.Encoding.IDs)),
		zap.Duration("duration", time.Since(start)))

	return out.Probabilities, nil
}

// Close implements Runner. The shared transport is left alone.
func (r *HTTP) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
