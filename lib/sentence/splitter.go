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

// Package sentence splits cleaned document text into sentences whose token
// length stays within a per-model window budget. Sentences are the atomic
// units of window packing: a label span inside one sentence can never be cut
// by a window boundary.
package sentence

import (
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
)

// Sentence is one sentence of the cleaned document text. Offsets are
// positions within that text and satisfy CharEnd-CharStart == len(Text).
type Sentence struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	CharStart int    `json:"char_start"`
	CharEnd   int    `json:"char_end"`
}

// minFragmentLen is the minimum character length of a clause fragment;
// shorter fragments are discarded as noise.
const minFragmentLen = 10

// fragmentTrimSet is stripped from both ends of clause fragments.
const fragmentTrimSet = ",;:. "

// DefaultAbbreviations are the non-breaking abbreviations guarded during
// boundary detection.
var DefaultAbbreviations = []string{"e.g", "i.e", "Fig", "Dr", "vs", "et al", "cf", "Eq", "Ref"}

// Clause-split patterns in priority order: semicolons first, then clause
// joiners, then coordinating conjunctions.
var clausePatterns = []*regexp.Regexp{
	regexp.MustCompile(`;`),
	regexp.MustCompile(`(?i)\b(?:which|while|although|because|whereas)\b`),
	regexp.MustCompile(`(?i)\b(?:and|or)\b`),
}

// Splitter splits text into budget-bounded sentences.
type Splitter struct {
	counter       tokenizer.Counter
	abbreviations map[string]bool
	logger        *zap.Logger
}

// NewSplitter creates a Splitter that uses counter for budget decisions.
// A nil abbreviation list falls back to DefaultAbbreviations.
func NewSplitter(counter tokenizer.Counter, abbreviations []string, logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abbreviations == nil {
		abbreviations = DefaultAbbreviations
	}
	abbrevSet := make(map[string]bool, len(abbreviations))
	for _, a := range abbreviations {
		abbrevSet[strings.ToLower(strings.TrimSuffix(a, "."))] = true
	}
	return &Splitter{
		counter:       counter,
		abbreviations: abbrevSet,
		logger:        logger,
	}
}

// Split splits text into sentences whose token count stays within maxTokens
// where clause boundaries permit. It never fails: text without sentence
// boundaries degrades to a single sentence, and a single unbreakable clause
// over budget is emitted as-is and truncated downstream by the tokenizer.
func (s *Splitter) Split(text string, maxTokens int) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	initial := s.boundaries(text)

	var spans []span
	for _, sp := range initial {
		if s.counter.CountTokens(text[sp.start:sp.end]) <= maxTokens {
			spans = append(spans, sp)
			continue
		}
		fragments := s.splitClauses(text, sp, 0, maxTokens)
		spans = append(spans, s.recombine(text, fragments, maxTokens)...)
	}

	sentences := make([]Sentence, 0, len(spans))
	for _, sp := range spans {
		sentences = append(sentences, Sentence{
			ID:        len(sentences),
			Text:      text[sp.start:sp.end],
			CharStart: sp.start,
			CharEnd:   sp.end,
		})
	}

	s.logger.Debug("Split text into sentences",
		zap.Int("initial", len(initial)),
		zap.Int("refined", len(sentences)))

	return sentences
}

// span is a half-open character range within the document text.
type span struct {
	start, end int
}

// boundaries detects sentence boundaries on ".", "!", "?" followed by
// whitespace and an upper-case or digit start, guarding the configured
// abbreviations, single-letter initials, and decimal numbers.
func (s *Splitter) boundaries(text string) []span {
	var spans []span
	start := 0
	runes := []rune(text)
	offset := 0 // byte offset of runes[i]

	byteAt := make([]int, len(runes)+1)
	for i, r := range runes {
		byteAt[i] = offset
		offset += len(string(r))
	}
	byteAt[len(runes)] = len(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if !s.isBoundary(runes, i) {
			continue
		}
		if sp, ok := trimSpan(text, start, byteAt[i+1]); ok {
			spans = append(spans, sp)
		}
		// Skip trailing whitespace to the next sentence start.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = byteAt[j]
		i = j - 1
	}

	if sp, ok := trimSpan(text, start, len(text)); ok {
		spans = append(spans, sp)
	}
	if len(spans) == 0 {
		// No boundaries at all: treat the whole text as one sentence.
		if sp, ok := trimSpan(text, 0, len(text)); ok {
			spans = append(spans, sp)
		}
	}
	return spans
}

// isBoundary reports whether the terminator at runes[i] ends a sentence.
func (s *Splitter) isBoundary(runes []rune, i int) bool {
	// Must be followed by whitespace then an upper-case letter or digit,
	// or be the end of the text.
	j := i + 1
	if j < len(runes) && !unicode.IsSpace(runes[j]) {
		return false
	}
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j < len(runes) && !unicode.IsUpper(runes[j]) && !unicode.IsDigit(runes[j]) {
		return false
	}

	if runes[i] != '.' {
		return true
	}

	// Decimal numbers: "3.14" never breaks.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return false
	}

	// Collect the word immediately before the period.
	w := i - 1
	for w >= 0 && !unicode.IsSpace(runes[w]) {
		w--
	}
	word := strings.TrimSuffix(string(runes[w+1:i]), ".")
	if word == "" {
		return true
	}
	if s.abbreviations[strings.ToLower(word)] {
		return false
	}
	// Single-letter initials ("J. Smith").
	if len([]rune(word)) == 1 && unicode.IsUpper([]rune(word)[0]) {
		return false
	}
	return true
}

// splitClauses recursively breaks an over-budget span at clause boundaries,
// trying each pattern class in priority order. A span no pattern can break
// is returned as-is; the tokenizer hard-truncates it downstream.
func (s *Splitter) splitClauses(text string, sp span, patternIdx, maxTokens int) []span {
	if s.counter.CountTokens(text[sp.start:sp.end]) <= maxTokens {
		return []span{sp}
	}
	if patternIdx >= len(clausePatterns) {
		return []span{sp}
	}

	segment := text[sp.start:sp.end]
	cuts := clausePatterns[patternIdx].FindAllStringIndex(segment, -1)
	if len(cuts) == 0 {
		return s.splitClauses(text, sp, patternIdx+1, maxTokens)
	}

	var out []span
	prev := 0
	emit := func(fragStart, fragEnd int) {
		frag, ok := trimFragment(text, sp.start+fragStart, sp.start+fragEnd)
		if !ok {
			return
		}
		out = append(out, s.splitClauses(text, frag, patternIdx+1, maxTokens)...)
	}
	for _, cut := range cuts {
		emit(prev, cut[0])
		prev = cut[1]
	}
	emit(prev, len(segment))

	if len(out) == 0 {
		return s.splitClauses(text, sp, patternIdx+1, maxTokens)
	}
	return out
}

// recombine greedily merges adjacent fragments while the combined document
// substring stays within the token budget, avoiding pathologically short
// sentences.
func (s *Splitter) recombine(text string, fragments []span, maxTokens int) []span {
	if len(fragments) == 0 {
		return nil
	}

	var out []span
	current := fragments[0]
	for _, frag := range fragments[1:] {
		joined := span{start: current.start, end: frag.end}
		if s.counter.CountTokens(text[joined.start:joined.end]) <= maxTokens {
			current = joined
			continue
		}
		out = append(out, current)
		current = frag
	}
	return append(out, current)
}

// trimSpan shrinks a span to exclude surrounding whitespace. ok is false if
// nothing remains.
func trimSpan(text string, start, end int) (span, bool) {
	for start < end && unicode.IsSpace(rune(text[start])) {
		start++
	}
	for end > start && unicode.IsSpace(rune(text[end-1])) {
		end--
	}
	if start >= end {
		return span{}, false
	}
	return span{start: start, end: end}, true
}

// trimFragment shrinks a clause fragment to exclude surrounding punctuation
// and whitespace, and drops it when the remainder is noise-short.
func trimFragment(text string, start, end int) (span, bool) {
	for start < end && strings.ContainsRune(fragmentTrimSet, rune(text[start])) {
		start++
	}
	for end > start && strings.ContainsRune(fragmentTrimSet, rune(text[end-1])) {
		end--
	}
	if end-start <= minFragmentLen {
		return span{}, false
	}
	return span{start: start, end: end}, true
}
