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

package sentence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/tokenizer"
)

func newSplitter(t *testing.T) *Splitter {
	t.Helper()
	return NewSplitter(tokenizer.NewWords(), nil, nil)
}

// requireOffsets checks every sentence's offset invariants against the
// source text.
func requireOffsets(t *testing.T, text string, sentences []Sentence) {
	t.Helper()
	prevEnd := -1
	for i, s := range sentences {
		require.Equal(t, i, s.ID)
		require.Equal(t, s.Text, text[s.CharStart:s.CharEnd], "sentence %d text mismatch", i)
		require.Equal(t, len(s.Text), s.CharEnd-s.CharStart)
		require.Greater(t, s.CharStart, prevEnd, "sentence %d overlaps predecessor", i)
		prevEnd = s.CharEnd - 1
	}
}

func TestSplitBasic(t *testing.T) {
	s := newSplitter(t)
	text := "The glass transition temperature of PMMA is 105 degrees. Polystyrene shows different behavior. Both are amorphous polymers."

	sentences := s.Split(text, 512)
	require.Len(t, sentences, 3)
	require.Equal(t, "The glass transition temperature of PMMA is 105 degrees.", sentences[0].Text)
	require.Equal(t, "Polystyrene shows different behavior.", sentences[1].Text)
	requireOffsets(t, text, sentences)
}

func TestSplitAbbreviationsDoNotBreak(t *testing.T) {
	s := newSplitter(t)
	text := "Thermoplastics, e.g. PET and PC, soften on heating. Results are shown in Fig. 3 of the report."

	sentences := s.Split(text, 512)
	require.Len(t, sentences, 2)
	require.Contains(t, sentences[0].Text, "e.g. PET")
	require.Contains(t, sentences[1].Text, "Fig. 3")
	requireOffsets(t, text, sentences)
}

func TestSplitDecimalNumbersDoNotBreak(t *testing.T) {
	s := newSplitter(t)
	text := "The density of the sample was 1.19 g per cubic centimeter. A second batch measured 0.95 in the same units."

	sentences := s.Split(text, 512)
	require.Len(t, sentences, 2)
	require.Contains(t, sentences[0].Text, "1.19")
	requireOffsets(t, text, sentences)
}

func TestSplitInitialsDoNotBreak(t *testing.T) {
	s := newSplitter(t)
	text := "The method follows J. Smith and coworkers. Samples were prepared accordingly."

	sentences := s.Split(text, 512)
	require.Len(t, sentences, 2)
	require.Contains(t, sentences[0].Text, "J. Smith")
	requireOffsets(t, text, sentences)
}

func TestSplitNoBoundariesSingleSentence(t *testing.T) {
	s := newSplitter(t)
	text := "poly(methyl methacrylate) dissolved in tetrahydrofuran at room temperature"

	sentences := s.Split(text, 512)
	require.Len(t, sentences, 1)
	require.Equal(t, text, sentences[0].Text)
	require.Equal(t, 0, sentences[0].CharStart)
	require.Equal(t, len(text), sentences[0].CharEnd)
}

func TestSplitEmptyText(t *testing.T) {
	s := newSplitter(t)
	require.Empty(t, s.Split("", 512))
	require.Empty(t, s.Split("   \n\t ", 512))
}

func TestSplitOversizedSentenceOnSemicolons(t *testing.T) {
	s := newSplitter(t)
	text := "The first clause describes polymer synthesis conditions in detail; the second clause reports thermal measurements for every sample; the third clause summarizes mechanical testing outcomes."

	// Budget low enough that the full sentence cannot fit.
	sentences := s.Split(text, 10)
	require.Greater(t, len(sentences), 1)
	for _, sent := range sentences {
		require.NotContains(t, sent.Text, ";")
		require.Greater(t, len(sent.Text), minFragmentLen)
	}
	requireOffsets(t, text, sentences)
}

func TestSplitOversizedSentenceOnClauseJoiners(t *testing.T) {
	s := newSplitter(t)
	text := "The copolymer exhibited a broad melting endotherm which suggests heterogeneous crystallite populations while the homopolymer reference showed a single sharp transition because its chains pack uniformly."

	sentences := s.Split(text, 8)
	require.Greater(t, len(sentences), 1)
	requireOffsets(t, text, sentences)
	for _, sent := range sentences {
		require.LessOrEqual(t, len(strings.Fields(sent.Text)), 12)
	}
}

func TestSplitUnbreakableOversizedClauseEmittedAsIs(t *testing.T) {
	s := newSplitter(t)
	// No terminators, semicolons, joiners, or conjunctions anywhere.
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"

	sentences := s.Split(text, 3)
	require.Len(t, sentences, 1)
	require.Equal(t, text, sentences[0].Text)
}

func TestSplitShortFragmentsDropped(t *testing.T) {
	s := newSplitter(t)
	text := "Measurements were repeated across the full composition range for reproducibility; yes; the standard deviations stayed below two percent everywhere."

	sentences := s.Split(text, 8)
	for _, sent := range sentences {
		require.NotEqual(t, "yes", sent.Text)
	}
	requireOffsets(t, text, sentences)
}

func TestSplitRecombinationStaysWithinBudget(t *testing.T) {
	s := newSplitter(t)
	counter := tokenizer.NewWords()
	text := "The blend softened early; the matrix stayed rigid throughout; the filler dispersed evenly in all runs; the interface remained stable under load; creep was negligible over the test window."

	maxTokens := 12
	sentences := s.Split(text, maxTokens)
	requireOffsets(t, text, sentences)
	for _, sent := range sentences {
		require.LessOrEqual(t, counter.CountTokens(sent.Text), maxTokens,
			"recombined sentence exceeds budget: %q", sent.Text)
	}
}
