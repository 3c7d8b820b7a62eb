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
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/window"
)

const (
	// gazetteerHitConfidence is the probability assigned to a dictionary
	// hit. Fixed on purpose: the gazetteer votes consistently and lets the
	// learned models shift the ensemble.
	gazetteerHitConfidence     = 0.90
	gazetteerOutsideConfidence = 0.98
)

// symbolTerms are the scientific symbols the gazetteer recognizes beyond the
// Greek alphabet.
var symbolTerms = []string{"Tg", "Tm", "Tc", "Td", "Mw", "Mn", "PDI"}

// Gazetteer is a deterministic dictionary tagger built on Aho-Corasick
// automatons over the packaged term tables. It participates in the ensemble
// like any learned model: a cheap, high-precision voter that never times out.
type Gazetteer struct {
	name     string
	machines []gazMachine
	labels   entity.LabelSet
	logger   *zap.Logger
}

type gazMachine struct {
	entityType entity.Type
	machine    *goahocorasick.Machine
}

// NewGazetteer builds the dictionary tagger.
func NewGazetteer(name string, logger *zap.Logger) (*Gazetteer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var polymers []string
	polymers = append(polymers, terms.PolymerNames...)
	for variant, canon := range terms.CanonicalPolymers {
		polymers = append(polymers, variant, canon)
	}

	var properties []string
	properties = append(properties, terms.PropertyNames...)
	for variant, canon := range terms.CanonicalProperties {
		properties = append(properties, variant, canon)
	}

	var symbols []string
	symbols = append(symbols, terms.GreekLetters...)
	symbols = append(symbols, symbolTerms...)

	sets := []struct {
		entityType entity.Type
		patterns   []string
	}{
		{entity.Polymer, polymers},
		{entity.Property, properties},
		{entity.Unit, terms.ScientificUnits},
		{entity.Symbol, symbols},
	}

	g := &Gazetteer{
		name:   name,
		labels: entity.DefaultLabelSet(),
		logger: logger.Named("gazetteer"),
	}
	for _, set := range sets {
		m, err := buildMachine(set.patterns)
		if err != nil {
			return nil, fmt.Errorf("building %s automaton: %w", set.entityType, err)
		}
		g.machines = append(g.machines, gazMachine{entityType: set.entityType, machine: m})
	}
	return g, nil
}

// buildMachine constructs an Aho-Corasick machine over lowercased patterns.
// Single-rune patterns are kept: Greek letters are legitimate symbols.
func buildMachine(patterns []string) (*goahocorasick.Machine, error) {
	seen := make(map[string]bool, len(patterns))
	runes := make([][]rune, 0, len(patterns))
	for _, p := range patterns {
		lower := strings.ToLower(strings.TrimSpace(p))
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		runes = append(runes, []rune(lower))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(runes); err != nil {
		return nil, err
	}
	return m, nil
}

// Name implements Runner.
func (g *Gazetteer) Name() string { return g.name }

// Close implements Runner.
func (g *Gazetteer) Close() error { return nil }

// gazSpan is a byte range tagged with an entity type.
type gazSpan struct {
	start, end int
	entityType entity.Type
}

// Infer implements Runner. Output is deterministic for a given window.
func (g *Gazetteer) Infer(ctx context.Context, w window.Window) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := g.match(w.Text)

	rows := make([][]float64, len(w.Encoding.IDs))
	for i, offsets := range w.Encoding.Offsets {
		if offsets[0] == 0 && offsets[1] == 0 {
			rows[i] = g.row(entity.Outside)
			continue
		}
		label := entity.Outside
		for _, m := range matches {
			if offsets[0] >= m.end || offsets[1] <= m.start {
				continue
			}
			if offsets[0] <= m.start {
				label = entity.Begin(m.entityType)
			} else {
				label = entity.Inside(m.entityType)
			}
			break
		}
		rows[i] = g.row(label)
	}

	g.logger.Debug("Gazetteer tagged window",
		zap.String("window", w.ID),
		zap.Int("matches", len(matches)))

	return rows, nil
}

// match runs every automaton over the lowercased text and returns
// non-overlapping byte spans, longest match winning on collisions.
func (g *Gazetteer) match(text string) []gazSpan {
	content := []rune(strings.ToLower(text))
	if len(content) == 0 {
		return nil
	}

	// Rune index to byte offset, one extra entry for the exclusive end.
	byteAt := make([]int, len(content)+1)
	cursor := 0
	for i, r := range content {
		byteAt[i] = cursor
		cursor += len(string(r))
	}
	byteAt[len(content)] = len(text)

	var candidates []gazSpan
	for _, gm := range g.machines {
		for _, term := range gm.machine.MultiPatternSearch(content, false) {
			start := term.Pos
			end := start + len(term.Word)
			// Word boundaries: "PS" must not fire inside "capsule".
			if start > 0 && isWordRune(content[start-1]) {
				continue
			}
			if end < len(content) && isWordRune(content[end]) {
				continue
			}
			candidates = append(candidates, gazSpan{
				start:      byteAt[start],
				end:        byteAt[end],
				entityType: gm.entityType,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		if candidates[i].end != candidates[j].end {
			return candidates[i].end > candidates[j].end // longest first
		}
		return candidates[i].entityType < candidates[j].entityType
	})

	var spans []gazSpan
	lastEnd := -1
	for _, c := range candidates {
		if c.start < lastEnd {
			continue
		}
		spans = append(spans, c)
		lastEnd = c.end
	}
	return spans
}

// row builds a probability distribution peaked at the given label.
func (g *Gazetteer) row(l entity.Label) []float64 {
	peak := gazetteerHitConfidence
	if l == entity.Outside {
		peak = gazetteerOutsideConfidence
	}
	row := make([]float64, g.labels.Size())
	rest := (1 - peak) / float64(g.labels.Size()-1)
	for i := range row {
		row[i] = rest
	}
	row[g.labels.ID(l)] = peak
	return row
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
