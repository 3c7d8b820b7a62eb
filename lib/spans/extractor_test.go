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

package spans

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/sentence"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

var labels = entity.DefaultLabelSet()

// row builds a probability row with conf placed on the given label and the
// remainder spread uniformly.
func row(t *testing.T, l entity.Label, conf float64) []float64 {
	t.Helper()
	id := labels.ID(l)
	require.GreaterOrEqual(t, id, 0)
	out := make([]float64, labels.Size())
	rest := (1 - conf) / float64(labels.Size()-1)
	for i := range out {
		out[i] = rest
	}
	out[id] = conf
	return out
}

// testWindow builds a window over text with the given token offsets,
// bracketed by [CLS] and [SEP], anchored at document offset base.
func testWindow(text string, base int, offsets ...[2]int) window.Window {
	all := make([][2]int, 0, len(offsets)+2)
	all = append(all, [2]int{0, 0})
	all = append(all, offsets...)
	all = append(all, [2]int{0, 0})

	ids := make([]int, len(all))
	mask := make([]int, len(all))
	for i := range all {
		ids[i] = i + 1
		mask[i] = 1
	}
	return window.Window{
		ID:    "scibert_win_0000",
		Model: "scibert",
		Text:  text,
		SentenceRefs: []sentence.Sentence{
			{ID: 0, Text: text, CharStart: base, CharEnd: base + len(text)},
		},
		BaseOffset: base,
		Encoding:   tokenizer.Encoding{IDs: ids, AttentionMask: mask, Offsets: all},
	}
}

func TestExtractSingleTokenSpan(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("PMMA has high Tg.", 50,
		[2]int{0, 4}, [2]int{5, 8}, [2]int{9, 13}, [2]int{14, 16}, [2]int{16, 17})

	probs := [][]float64{
		row(t, entity.Outside, 0.99),
		row(t, entity.Begin(entity.Polymer), 0.92),
		row(t, entity.Outside, 0.97),
		row(t, entity.Outside, 0.96),
		row(t, entity.Begin(entity.Symbol), 0.81),
		row(t, entity.Outside, 0.95),
		row(t, entity.Outside, 0.99),
	}

	preds, err := e.Extract(w, probs)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	require.Equal(t, entity.Polymer, preds[0].EntityType)
	require.Equal(t, "PMMA", preds[0].Text)
	require.Equal(t, 50, preds[0].CharStart)
	require.Equal(t, 54, preds[0].CharEnd)
	require.InDelta(t, 0.92, preds[0].Confidence, 1e-9)
	require.Equal(t, "scibert", preds[0].Model)
	require.Equal(t, "scibert_win_0000", preds[0].WindowID)

	require.Equal(t, entity.Symbol, preds[1].EntityType)
	require.Equal(t, "Tg", preds[1].Text)
}

func TestExtractMultiTokenSpanKeepsBestConfidence(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("glass transition temperature", 0,
		[2]int{0, 5}, [2]int{6, 16}, [2]int{17, 28})

	probs := [][]float64{
		row(t, entity.Outside, 0.9),
		row(t, entity.Begin(entity.Property), 0.70),
		row(t, entity.Inside(entity.Property), 0.88),
		row(t, entity.Inside(entity.Property), 0.74),
		row(t, entity.Outside, 0.9),
	}

	preds, err := e.Extract(w, probs)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.Equal(t, "glass transition temperature", preds[0].Text)
	require.InDelta(t, 0.88, preds[0].Confidence, 1e-9, "span confidence is the best token probability")
	require.Equal(t, []float64{0.70, 0.88, 0.74}, preds[0].TokenConfidences)
}

func TestExtractRowCountMismatchIsHardError(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("PMMA", 0, [2]int{0, 4})

	_, err := e.Extract(w, [][]float64{row(t, entity.Outside, 0.9)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "probability rows")
}

func TestExtractOrphanInsideStartsSpan(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("around 150 MPa", 10,
		[2]int{0, 6}, [2]int{7, 10}, [2]int{11, 14})

	probs := [][]float64{
		row(t, entity.Outside, 0.9),
		row(t, entity.Outside, 0.9),
		row(t, entity.Inside(entity.Value), 0.85),
		row(t, entity.Begin(entity.Unit), 0.90),
		row(t, entity.Outside, 0.9),
	}

	preds, err := e.Extract(w, probs)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	require.Equal(t, entity.Value, preds[0].EntityType)
	require.Equal(t, "150", preds[0].Text)
	require.Equal(t, entity.Unit, preds[1].EntityType)
	require.Equal(t, "MPa", preds[1].Text)
}

func TestExtractTypeSwitchClosesSpan(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("polystyrene density", 0,
		[2]int{0, 11}, [2]int{12, 19})

	probs := [][]float64{
		row(t, entity.Outside, 0.9),
		row(t, entity.Begin(entity.Polymer), 0.9),
		row(t, entity.Inside(entity.Property), 0.8), // type switch, not a continuation
		row(t, entity.Outside, 0.9),
	}

	preds, err := e.Extract(w, probs)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	require.Equal(t, entity.Polymer, preds[0].EntityType)
	require.Equal(t, entity.Property, preds[1].EntityType)
}

func TestExtractSpanOpenAtWindowEndIsFlushed(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("uses PTFE", 0, [2]int{0, 4}, [2]int{5, 9})

	probs := [][]float64{
		row(t, entity.Outside, 0.9),
		row(t, entity.Outside, 0.9),
		row(t, entity.Begin(entity.Polymer), 0.9), // still open when [SEP] arrives
		row(t, entity.Outside, 0.9),
	}

	preds, err := e.Extract(w, probs)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.Equal(t, "PTFE", preds[0].Text)
}

func TestExtractAcceptsRawLogits(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("PMMA", 0, [2]int{0, 4})

	logits := make([]float64, labels.Size())
	for i := range logits {
		logits[i] = -2.0
	}
	logits[labels.ID(entity.Begin(entity.Polymer))] = 5.5

	preds, err := e.Extract(w, [][]float64{
		row(t, entity.Outside, 0.9),
		logits,
		row(t, entity.Outside, 0.9),
	})
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.Equal(t, entity.Polymer, preds[0].EntityType)
	require.Greater(t, preds[0].Confidence, 0.9)
	require.LessOrEqual(t, preds[0].Confidence, 1.0)
}

func TestExtractAllOutside(t *testing.T) {
	e := NewExtractor(nil)
	w := testWindow("no entities here", 0, [2]int{0, 2}, [2]int{3, 11}, [2]int{12, 16})

	probs := [][]float64{
		row(t, entity.Outside, 0.99),
		row(t, entity.Outside, 0.99),
		row(t, entity.Outside, 0.99),
		row(t, entity.Outside, 0.99),
		row(t, entity.Outside, 0.99),
	}

	preds, err := e.Extract(w, probs)
	require.NoError(t, err)
	require.Empty(t, preds)
}
