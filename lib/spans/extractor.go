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

// Package spans turns per-token label probabilities into entity spans.
// It walks BIO label sequences over a window's tokens and anchors every
// span to document character offsets.
package spans

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

// RawPrediction is one model's reading of one entity mention, before any
// cross-model aggregation. Offsets are document-global.
type RawPrediction struct {
	Model            string      `json:"model"`
	WindowID         string      `json:"window_id"`
	EntityType       entity.Type `json:"entity_type"`
	Text             string      `json:"text"`
	CharStart        int         `json:"char_start"`
	CharEnd          int         `json:"char_end"`
	Confidence       float64     `json:"confidence"`
	TokenConfidences []float64   `json:"token_confidences,omitempty"`
}

// Extractor decodes label probability matrices into RawPredictions.
type Extractor struct {
	labels entity.LabelSet
	logger *zap.Logger
}

// NewExtractor creates an Extractor over the shared BIO label set.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{labels: entity.DefaultLabelSet(), logger: logger}
}

// Extract decodes probs, one row of label probabilities per window token,
// into entity spans. Rows must match the window's token count exactly; a
// mismatch means the model response is unusable and is the only hard error.
// Special and padding tokens (zero offsets) are skipped. Rows may be raw
// logits; they are softmax-normalized when they do not already sum to one.
func (e *Extractor) Extract(w window.Window, probs [][]float64) ([]RawPrediction, error) {
	if len(probs) != len(w.Encoding.IDs) {
		return nil, fmt.Errorf("decoding %s: got %d probability rows for %d tokens",
			w.ID, len(probs), len(w.Encoding.IDs))
	}

	var preds []RawPrediction
	var current *spanBuilder

	flush := func() {
		if current == nil {
			return
		}
		if p, ok := current.finish(w); ok {
			preds = append(preds, p)
		}
		current = nil
	}

	for i, row := range probs {
		offsets := w.Encoding.Offsets[i]
		if offsets[0] == 0 && offsets[1] == 0 {
			// [CLS], [SEP], padding: close any open span.
			flush()
			continue
		}
		if len(row) != e.labels.Size() {
			return nil, fmt.Errorf("decoding %s: row %d has %d probabilities, label set has %d",
				w.ID, i, len(row), e.labels.Size())
		}

		dist := normalize(row)
		labelID, conf := argmax(dist)
		label, err := e.labels.ByID(labelID)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", w.ID, err)
		}

		switch label.Kind {
		case entity.KindOutside:
			flush()
		case entity.KindBegin:
			flush()
			current = &spanBuilder{
				model:      w.Model,
				entityType: label.Type,
				start:      offsets[0],
				end:        offsets[1],
				confs:      []float64{conf},
			}
		case entity.KindInside:
			if current == nil || current.entityType != label.Type {
				// Orphaned I- tag: treat as an implicit begin.
				flush()
				current = &spanBuilder{
					model:      w.Model,
					entityType: label.Type,
					start:      offsets[0],
					end:        offsets[1],
					confs:      []float64{conf},
				}
				continue
			}
			current.end = offsets[1]
			current.confs = append(current.confs, conf)
		}
	}
	flush()

	e.logger.Debug("Extracted spans from window",
		zap.String("window", w.ID),
		zap.Int("spans", len(preds)))

	return preds, nil
}

// spanBuilder accumulates one in-progress BIO span in window-local offsets.
type spanBuilder struct {
	model      string
	entityType entity.Type
	start, end int
	confs      []float64
}

// finish converts the builder into a document-anchored prediction. Spans
// whose cleaned text is empty are dropped.
func (b *spanBuilder) finish(w window.Window) (RawPrediction, bool) {
	if b.start >= b.end || b.start >= len(w.Text) {
		return RawPrediction{}, false
	}
	end := b.end
	if end > len(w.Text) {
		end = len(w.Text)
	}

	text := terms.CleanSpanText(w.Text[b.start:end])
	if text == "" {
		return RawPrediction{}, false
	}

	best := b.confs[0]
	for _, c := range b.confs[1:] {
		if c > best {
			best = c
		}
	}

	return RawPrediction{
		Model:            b.model,
		WindowID:         w.ID,
		EntityType:       b.entityType,
		Text:             text,
		CharStart:        w.DocOffset(b.start),
		CharEnd:          w.DocOffset(end),
		Confidence:       best,
		TokenConfidences: b.confs,
	}, true
}

// normalize returns row as a probability distribution, applying a
// max-shifted softmax when the row is not already normalized.
func normalize(row []float64) []float64 {
	sum := 0.0
	plausible := true
	for _, v := range row {
		if v < 0 || v > 1 {
			plausible = false
			break
		}
		sum += v
	}
	if plausible && math.Abs(sum-1) < 1e-3 {
		return row
	}

	max := row[0]
	for _, v := range row[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(row))
	total := 0.0
	for i, v := range row {
		out[i] = math.Exp(v - max)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

func argmax(row []float64) (int, float64) {
	best, bestVal := 0, row[0]
	for i, v := range row[1:] {
		if v > bestVal {
			best, bestVal = i+1, v
		}
	}
	return best, bestVal
}
