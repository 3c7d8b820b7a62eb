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
	"fmt"
	"time"
)

// Config is the service configuration. The cmd layer binds it from flags,
// environment, and config file via viper.
type Config struct {
	// ApiUrl is the address the HTTP API listens on.
	ApiUrl string `json:"api_url" mapstructure:"api_url"`

	// Models maps model name to its serving endpoint. A comma-separated
	// list of endpoints spreads that model's windows over replica servers.
	// Empty means the default catalog with the built-in gazetteer only.
	Models map[string]string `json:"models" mapstructure:"models"`

	// VocabDir holds per-model vocab.txt files for WordPiece encoding.
	// Models without a vocab file fall back to whitespace tokenization.
	VocabDir string `json:"vocab_dir" mapstructure:"vocab_dir"`

	// MaxWindowTokens is the per-window token budget.
	MaxWindowTokens int `json:"max_window_tokens" mapstructure:"max_window_tokens"`

	// OverlapSentences is how many sentences consecutive windows share.
	OverlapSentences int `json:"overlap_sentences" mapstructure:"overlap_sentences"`

	// MaxConcurrentWindows bounds in-flight window inferences per model.
	MaxConcurrentWindows int `json:"max_concurrent_windows" mapstructure:"max_concurrent_windows"`

	// ModelTimeout is how long one model gets for a whole document before
	// it is treated as having abstained.
	ModelTimeout string `json:"model_timeout" mapstructure:"model_timeout"`

	// CacheTTL is how long window predictions stay cached.
	CacheTTL string `json:"cache_ttl" mapstructure:"cache_ttl"`

	// KeepAlive enables lazy runner loading: runners idle longer than this
	// are shut down. Empty or "0" keeps every runner alive.
	KeepAlive string `json:"keep_alive" mapstructure:"keep_alive"`

	// Preload lists models to warm up at startup.
	Preload []string `json:"preload" mapstructure:"preload"`

	// Gazetteer toggles the built-in dictionary voter.
	Gazetteer bool `json:"gazetteer" mapstructure:"gazetteer"`
}

// Defaults for optional config fields.
const (
	DefaultModelTimeout = 120 * time.Second
	DefaultCacheTTL     = 2 * time.Minute
)

// Validate checks the config and fills defaults in place.
func (c *Config) Validate() error {
	if c.ApiUrl == "" {
		c.ApiUrl = "http://0.0.0.0:11500"
	}
	if c.MaxWindowTokens <= 0 {
		c.MaxWindowTokens = 512
	}
	if c.OverlapSentences < 0 {
		return fmt.Errorf("overlap_sentences must be >= 0, got %d", c.OverlapSentences)
	}
	if c.MaxConcurrentWindows <= 0 {
		c.MaxConcurrentWindows = 4
	}
	if c.ModelTimeout != "" {
		if _, err := time.ParseDuration(c.ModelTimeout); err != nil {
			return fmt.Errorf("parsing model_timeout: %w", err)
		}
	}
	if c.CacheTTL != "" {
		if _, err := time.ParseDuration(c.CacheTTL); err != nil {
			return fmt.Errorf("parsing cache_ttl: %w", err)
		}
	}
	if c.KeepAlive != "" && c.KeepAlive != "0" {
		if _, err := time.ParseDuration(c.KeepAlive); err != nil {
			return fmt.Errorf("parsing keep_alive: %w", err)
		}
	}
	return nil
}

// ModelTimeoutDuration returns the parsed model timeout or its default.
func (c *Config) ModelTimeoutDuration() time.Duration {
	if c.ModelTimeout == "" {
		return DefaultModelTimeout
	}
	d, err := time.ParseDuration(c.ModelTimeout)
	if err != nil {
		return DefaultModelTimeout
	}
	return d
}

// CacheTTLDuration returns the parsed cache TTL or its default.
func (c *Config) CacheTTLDuration() time.Duration {
	if c.CacheTTL == "" {
		return DefaultCacheTTL
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return DefaultCacheTTL
	}
	return d
}
