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

// Package window packs sentences into token-budgeted inference windows with
// sentence-level overlap, so entity mentions near a window edge also appear
// whole in the neighboring window.
package window

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/sentence"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
)

// Window is one model input: a run of consecutive sentences encoded against
// a model's tokenizer. BaseOffset is the document offset of the first
// sentence; token offsets in Encoding are window-local.
type Window struct {
	ID           string
	Model        string
	Text         string
	SentenceRefs []sentence.Sentence
	BaseOffset   int
	Encoding     tokenizer.Encoding
}

// DocOffset maps a window-local character offset (into Text) to a document
// offset. Window text joins sentences with single spaces, so the mapping
// walks SentenceRefs instead of adding a flat base. Offsets inside a joining
// space resolve to the end of the preceding sentence.
func (w Window) DocOffset(local int) int {
	cursor := 0
	for _, s := range w.SentenceRefs {
		if local < cursor {
			break
		}
		if local <= cursor+len(s.Text) {
			return s.CharStart + (local - cursor)
		}
		cursor += len(s.Text) + 1
	}
	if n := len(w.SentenceRefs); n > 0 {
		return w.SentenceRefs[n-1].CharEnd
	}
	return w.BaseOffset + local
}

// TokenCount returns the number of attended tokens in the window.
func (w Window) TokenCount() int {
	n := 0
	for _, m := range w.Encoding.AttentionMask {
		n += m
	}
	return n
}

const (
	// DefaultMaxTokens matches the context length of BERT-family encoders.
	DefaultMaxTokens = 512
	// DefaultOverlapSentences is how many trailing sentences each window
	// shares with its successor.
	DefaultOverlapSentences = 1
)

// Packer builds windows for a single model.
type Packer struct {
	maxTokens        int
	overlapSentences int
	logger           *zap.Logger
}

// Option configures a Packer.
type Option func(*Packer)

// WithMaxTokens overrides the per-window token budget.
func WithMaxTokens(n int) Option {
	return func(p *Packer) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlapSentences overrides how many sentences consecutive windows
// share. Zero disables overlap.
func WithOverlapSentences(n int) Option {
	return func(p *Packer) {
		if n >= 0 {
			p.overlapSentences = n
		}
	}
}

// WithLogger attaches a logger to the Packer.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Packer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPacker creates a Packer with the default budget and overlap.
func NewPacker(opts ...Option) *Packer {
	p := &Packer{
		maxTokens:        DefaultMaxTokens,
		overlapSentences: DefaultOverlapSentences,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxTokens returns the per-window token budget.
func (p *Packer) MaxTokens() int { return p.maxTokens }

// Pack greedily fills windows with consecutive sentences for model, encoding
// each window's text with tok. Every sentence appears in at least one window.
// A single sentence that alone exceeds the budget still gets its own window;
// the tokenizer truncates it.
func (p *Packer) Pack(model string, sentences []sentence.Sentence, tok tokenizer.Tokenizer) ([]Window, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	var windows []Window
	start := 0
	for start < len(sentences) {
		end := start + 1
		budget := tok.CountTokens(sentences[start].Text)
		for end < len(sentences) {
			next := tok.CountTokens(sentences[end].Text)
			if budget+next > p.maxTokens {
				break
			}
			budget += next
			end++
		}

		w, err := p.build(model, len(windows), sentences[start:end], tok)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)

		if end >= len(sentences) {
			break
		}
		// Replay trailing sentences into the next window, but always make
		// forward progress.
		next := end - p.overlapSentences
		if next <= start {
			next = start + 1
		}
		start = next
	}

	p.logger.Debug("Packed sentences into windows",
		zap.String("model", model),
		zap.Int("sentences", len(sentences)),
		zap.Int("windows", len(windows)))

	return windows, nil
}

func (p *Packer) build(model string, index int, refs []sentence.Sentence, tok tokenizer.Tokenizer) (Window, error) {
	parts := make([]string, len(refs))
	for i, s := range refs {
		parts[i] = s.Text
	}
	text := strings.Join(parts, " ")

	enc, err := tok.Encode(text, p.maxTokens)
	if err != nil {
		return Window{}, fmt.Errorf("encoding window %d for %s: %w", index, model, err)
	}

	return Window{
		ID:           fmt.Sprintf("%s_win_%04d", model, index),
		Model:        model,
		Text:         text,
		SentenceRefs: append([]sentence.Sentence(nil), refs...),
		BaseOffset:   refs[0].CharStart,
		Encoding:     enc,
	}, nil
}
