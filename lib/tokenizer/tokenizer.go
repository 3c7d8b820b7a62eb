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

// Package tokenizer provides the per-model tokenizer collaborators used for
// window packing and span extraction. Every model in the ensemble carries its
// own tokenizer because subword segmentation differs across vocabularies, so
// token counts for identical text differ by model.
package tokenizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/decoder"
	"github.com/sugarme/tokenizer/model"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/processor"
	"github.com/sugarme/tokenizer/util"
)

// Encoding is the tokenized form of one window's text. All four slices have
// equal length. Offsets are character positions within the encoded text;
// (0,0) marks padding and special tokens.
type Encoding struct {
	IDs           []int
	Tokens        []string
	AttentionMask []int
	Offsets       [][2]int
}

// Counter counts tokens for window-budget decisions.
type Counter interface {
	// CountTokens returns the number of tokens in the text.
	// Returns a character-based estimate on error.
	CountTokens(text string) int
}

// Tokenizer encodes text for model inference. Implementations must be
// deterministic for a given model version.
type Tokenizer interface {
	Counter

	// Encode tokenizes text with truncation and padding to maxTokens.
	Encode(text string, maxTokens int) (Encoding, error)

	// Detokenize joins tokens back into surface text, collapsing subword
	// continuation markers.
	Detokenize(tokens []string) string
}

// WordPiece is a BERT-style WordPiece tokenizer built from a vocab.txt file.
type WordPiece struct {
	tokenizer *tokenizer.Tokenizer
}

// NewWordPiece creates a WordPiece tokenizer from a vocabulary file (one
// token per line, the token ID is the line number).
func NewWordPiece(vocabPath string) (*WordPiece, error) {
	data, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("reading vocab file: %w", err)
	}

	vocab := make(model.Vocab)
	for i, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			vocab[line] = i
		}
	}

	opts := util.NewParams(map[string]any{
		"unk_token": "[UNK]",
	})
	wp, err := wordpiece.New(vocab, opts)
	if err != nil {
		return nil, fmt.Errorf("creating wordpiece model: %w", err)
	}

	tk := tokenizer.NewTokenizer(wp)
	tk.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	tk.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	sepID, ok := tk.TokenToId("[SEP]")
	if !ok {
		return nil, fmt.Errorf("vocab %s has no [SEP] token", vocabPath)
	}
	clsID, ok := tk.TokenToId("[CLS]")
	if !ok {
		return nil, fmt.Errorf("vocab %s has no [CLS] token", vocabPath)
	}
	tk.WithPostProcessor(processor.NewBertProcessing(
		processor.PostToken{Id: sepID, Value: "[SEP]"},
		processor.PostToken{Id: clsID, Value: "[CLS]"},
	))

	tk.AddSpecialTokens([]tokenizer.AddedToken{tokenizer.NewAddedToken("[MASK]", true)})
	tk.AddSpecialTokens([]tokenizer.AddedToken{tokenizer.NewAddedToken("[SEP]", true)})
	tk.AddSpecialTokens([]tokenizer.AddedToken{tokenizer.NewAddedToken("[CLS]", true)})

	tk.WithDecoder(decoder.DefaultWordpieceDecoder())

	return &WordPiece{tokenizer: tk}, nil
}

// CountTokens returns the number of tokens in the text.
// Uses a recover wrapper to handle panics from the underlying tokenizer
// library (github.com/sugarme/tokenizer has a bounds check bug in
// BertNormalizer.TransformRange).
func (t *WordPiece) CountTokens(text string) (count int) {
	if text == "" {
		return 0
	}

	defer func() {
		if r := recover(); r != nil {
			// Fallback: rough approximation (1 token ≈ 4 chars for English)
			count = len(text) / 4
		}
	}()

	enc, err := t.tokenizer.EncodeSingle(text)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Ids)
}

// Encode tokenizes text with truncation and padding to maxTokens. Padding
// positions carry ID 0, attention mask 0, and (0,0) offsets.
func (t *WordPiece) Encode(text string, maxTokens int) (Encoding, error) {
	enc, err := t.tokenizer.EncodeSingle(text)
	if err != nil {
		return Encoding{}, fmt.Errorf("encoding text: %w", err)
	}

	n := len(enc.Ids)
	if n > maxTokens {
		n = maxTokens
	}

	out := Encoding{
		IDs:           make([]int, maxTokens),
		Tokens:        make([]string, maxTokens),
		AttentionMask: make([]int, maxTokens),
		Offsets:       make([][2]int, maxTokens),
	}
	for i := 0; i < n; i++ {
		out.IDs[i] = enc.Ids[i]
		out.Tokens[i] = enc.Tokens[i]
		out.AttentionMask[i] = 1
		if i < len(enc.Offsets) && !isSpecialToken(enc.Tokens[i]) && len(enc.Offsets[i]) == 2 {
			out.Offsets[i] = [2]int{enc.Offsets[i][0], enc.Offsets[i][1]}
		}
	}
	for i := n; i < maxTokens; i++ {
		out.Tokens[i] = "[PAD]"
	}
	return out, nil
}

// Detokenize joins WordPiece tokens, merging "##" continuations.
func (t *WordPiece) Detokenize(tokens []string) string {
	var b strings.Builder
	for _, token := range tokens {
		if isSpecialToken(token) {
			continue
		}
		if rest, ok := strings.CutPrefix(token, "##"); ok {
			b.WriteString(rest)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(token)
	}
	return b.String()
}

func isSpecialToken(token string) bool {
	switch token {
	case "[CLS]", "[SEP]", "[PAD]", "[MASK]", "[UNK]":
		return true
	}
	return false
}
