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

package window

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/sentence"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
)

// makeSentences builds n sentences of wordsEach words with realistic
// document offsets.
func makeSentences(n, wordsEach int) []sentence.Sentence {
	var out []sentence.Sentence
	cursor := 0
	for i := 0; i < n; i++ {
		words := make([]string, wordsEach)
		for j := range words {
			words[j] = fmt.Sprintf("word%d", i*wordsEach+j)
		}
		text := strings.Join(words, " ")
		out = append(out, sentence.Sentence{
			ID:        i,
			Text:      text,
			CharStart: cursor,
			CharEnd:   cursor + len(text),
		})
		cursor += len(text) + 2 // simulate ". " style gaps
	}
	return out
}

func TestPackEverySentenceCovered(t *testing.T) {
	p := NewPacker(WithMaxTokens(20), WithOverlapSentences(1))
	sentences := makeSentences(9, 6)

	windows, err := p.Pack("scibert", sentences, tokenizer.NewWords())
	require.NoError(t, err)
	require.NotEmpty(t, windows)

	seen := map[int]bool{}
	for _, w := range windows {
		for _, s := range w.SentenceRefs {
			seen[s.ID] = true
		}
	}
	for _, s := range sentences {
		require.True(t, seen[s.ID], "sentence %d missing from all windows", s.ID)
	}
}

func TestPackTokenBoundedness(t *testing.T) {
	tok := tokenizer.NewWords()
	p := NewPacker(WithMaxTokens(20), WithOverlapSentences(1))
	sentences := makeSentences(12, 6)

	windows, err := p.Pack("scibert", sentences, tok)
	require.NoError(t, err)
	for _, w := range windows {
		require.LessOrEqual(t, len(w.Encoding.IDs), p.MaxTokens())
		require.Len(t, w.Encoding.AttentionMask, len(w.Encoding.IDs))
		require.Len(t, w.Encoding.Offsets, len(w.Encoding.IDs))
	}
}

func TestPackWindowIDsAndOrder(t *testing.T) {
	p := NewPacker(WithMaxTokens(15), WithOverlapSentences(1))
	sentences := makeSentences(8, 5)

	windows, err := p.Pack("matscibert", sentences, tokenizer.NewWords())
	require.NoError(t, err)
	require.Greater(t, len(windows), 1)

	for i, w := range windows {
		require.Equal(t, fmt.Sprintf("matscibert_win_%04d", i), w.ID)
		require.Equal(t, "matscibert", w.Model)
		require.Equal(t, w.SentenceRefs[0].CharStart, w.BaseOffset)
		if i > 0 {
			require.Greater(t, w.BaseOffset, windows[i-1].BaseOffset,
				"windows must advance through the document")
		}
	}
}

func TestPackOverlapRepeatsTrailingSentence(t *testing.T) {
	p := NewPacker(WithMaxTokens(15), WithOverlapSentences(1))
	sentences := makeSentences(6, 5)

	windows, err := p.Pack("scibert", sentences, tokenizer.NewWords())
	require.NoError(t, err)
	require.Greater(t, len(windows), 1)

	for i := 1; i < len(windows); i++ {
		prevLast := windows[i-1].SentenceRefs[len(windows[i-1].SentenceRefs)-1]
		require.Equal(t, prevLast.ID, windows[i].SentenceRefs[0].ID,
			"window %d must start with predecessor's last sentence", i)
	}
}

func TestPackNoOverlap(t *testing.T) {
	p := NewPacker(WithMaxTokens(15), WithOverlapSentences(0))
	sentences := makeSentences(6, 5)

	windows, err := p.Pack("scibert", sentences, tokenizer.NewWords())
	require.NoError(t, err)

	seen := map[int]int{}
	for _, w := range windows {
		for _, s := range w.SentenceRefs {
			seen[s.ID]++
		}
	}
	for id, n := range seen {
		require.Equal(t, 1, n, "sentence %d duplicated without overlap", id)
	}
}

func TestPackOversizedSentenceGetsOwnWindow(t *testing.T) {
	tok := tokenizer.NewWords()
	p := NewPacker(WithMaxTokens(5), WithOverlapSentences(1))
	sentences := makeSentences(3, 10) // every sentence alone exceeds the budget

	windows, err := p.Pack("scibert", sentences, tok)
	require.NoError(t, err)
	require.Len(t, windows, 3)
	for _, w := range windows {
		require.Len(t, w.SentenceRefs, 1)
		require.LessOrEqual(t, len(w.Encoding.IDs), 5, "oversized sentence must be truncated")
	}
}

func TestPackEmptyInput(t *testing.T) {
	p := NewPacker()
	windows, err := p.Pack("scibert", nil, tokenizer.NewWords())
	require.NoError(t, err)
	require.Empty(t, windows)
}

func TestDocOffsetMapsThroughJoins(t *testing.T) {
	w := Window{
		Text: "First sentence here. Second sentence there.",
		SentenceRefs: []sentence.Sentence{
			{ID: 0, Text: "First sentence here.", CharStart: 100, CharEnd: 120},
			{ID: 1, Text: "Second sentence there.", CharStart: 125, CharEnd: 147},
		},
		BaseOffset: 100,
	}

	// Window-local 0 is document 100.
	require.Equal(t, 100, w.DocOffset(0))
	// "Second" starts at local 21, document 125 despite the 5-char gap.
	require.Equal(t, 125, w.DocOffset(21))
	// Exclusive end of the first sentence.
	require.Equal(t, 120, w.DocOffset(20))
	// End of window text maps to end of last sentence.
	require.Equal(t, 147, w.DocOffset(len(w.Text)))
}
