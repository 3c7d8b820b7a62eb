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

package terms

import (
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Context indicator names consumed by the threshold calculator.
const (
	IndicatorHighEntityDensity  = "high_entity_density"
	IndicatorLowEntityDensity   = "low_entity_density"
	IndicatorTechnicalDomain    = "technical_domain"
	IndicatorExperimentalData   = "experimental_data"
	IndicatorReviewArticle      = "review_article"
	IndicatorSynthesisProcedure = "synthesis_procedure"
)

// Density cutoffs in gazetteer matches per thousand characters.
const (
	highDensityPerKilochar = 8.0
	lowDensityPerKilochar  = 1.0
)

// indicatorPhrases maps free-text phrases to the indicator they signal.
var indicatorPhrases = map[string]string{
	"was synthesized":    IndicatorSynthesisProcedure,
	"were synthesized":   IndicatorSynthesisProcedure,
	"was prepared by":    IndicatorSynthesisProcedure,
	"were prepared":      IndicatorSynthesisProcedure,
	"polymerization of":  IndicatorSynthesisProcedure,
	"reaction mixture":   IndicatorSynthesisProcedure,
	"was measured":       IndicatorExperimentalData,
	"were measured":      IndicatorExperimentalData,
	"was determined":     IndicatorExperimentalData,
	"were determined":    IndicatorExperimentalData,
	"this review":        IndicatorReviewArticle,
	"recent advances":    IndicatorReviewArticle,
	"in this review":     IndicatorReviewArticle,
	"literature reports": IndicatorReviewArticle,
}

// indicatorSections maps section headings to the indicator they signal.
var indicatorSections = map[string]string{
	"synthesis":        IndicatorSynthesisProcedure,
	"procedure":        IndicatorSynthesisProcedure,
	"preparation":      IndicatorSynthesisProcedure,
	"experimental":     IndicatorSynthesisProcedure,
	"results":          IndicatorExperimentalData,
	"data":             IndicatorExperimentalData,
	"observations":     IndicatorExperimentalData,
	"characterization": IndicatorExperimentalData,
	"review":           IndicatorReviewArticle,
}

// ContextDetector derives context indicators from document text and section
// headings using an Aho-Corasick scan over the packaged term tables.
type ContextDetector struct {
	gazetteer *goahocorasick.Machine
	phrases   *goahocorasick.Machine
	byPhrase  map[string]string
}

// NewContextDetector builds the automatons over the packaged term tables.
func NewContextDetector() (*ContextDetector, error) {
	var gazetteerTerms []string
	gazetteerTerms = append(gazetteerTerms, PolymerNames...)
	gazetteerTerms = append(gazetteerTerms, PropertyNames...)
	gazetteerTerms = append(gazetteerTerms, ScientificUnits...)

	gazetteer, err := buildMachine(gazetteerTerms)
	if err != nil {
		return nil, err
	}

	byPhrase := make(map[string]string, len(indicatorPhrases))
	phraseTerms := make([]string, 0, len(indicatorPhrases))
	for phrase, indicator := range indicatorPhrases {
		byPhrase[strings.ToLower(phrase)] = indicator
		phraseTerms = append(phraseTerms, phrase)
	}
	phrases, err := buildMachine(phraseTerms)
	if err != nil {
		return nil, err
	}

	return &ContextDetector{
		gazetteer: gazetteer,
		phrases:   phrases,
		byPhrase:  byPhrase,
	}, nil
}

// buildMachine constructs an Aho-Corasick machine over lowercased patterns.
func buildMachine(patterns []string) (*goahocorasick.Machine, error) {
	seen := make(map[string]bool, len(patterns))
	runes := make([][]rune, 0, len(patterns))
	for _, p := range patterns {
		lower := strings.ToLower(strings.TrimSpace(p))
		if len(lower) < 2 || seen[lower] {
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

// Detect returns the sorted set of context indicators present in the given
// document text and section headings. An empty result is valid: it means the
// threshold calculator runs with base thresholds only.
func (d *ContextDetector) Detect(text string, sections []string) []string {
	found := make(map[string]bool)

	for _, section := range sections {
		lower := strings.ToLower(strings.TrimSpace(section))
		for heading, indicator := range indicatorSections {
			if strings.Contains(lower, heading) {
				found[indicator] = true
			}
		}
	}

	content := []rune(strings.ToLower(text))
	for _, term := range d.phrases.MultiPatternSearch(content, false) {
		found[d.byPhrase[string(term.Word)]] = true
	}

	matches := d.countWordMatches(content)
	if matches > 0 {
		found[IndicatorTechnicalDomain] = true
	}
	if len(content) > 0 {
		perKilochar := float64(matches) / float64(len(content)) * 1000.0
		if perKilochar >= highDensityPerKilochar {
			found[IndicatorHighEntityDensity] = true
		} else if perKilochar <= lowDensityPerKilochar {
			found[IndicatorLowEntityDensity] = true
		}
	}

	indicators := make([]string, 0, len(found))
	for indicator := range found {
		indicators = append(indicators, indicator)
	}
	sort.Strings(indicators)
	return indicators
}

// EntityDensity returns the gazetteer match count per thousand characters.
func (d *ContextDetector) EntityDensity(text string) float64 {
	content := []rune(strings.ToLower(text))
	if len(content) == 0 {
		return 0
	}
	return float64(d.countWordMatches(content)) / float64(len(content)) * 1000.0
}

// countWordMatches counts gazetteer hits that fall on word boundaries, so
// that short abbreviations like "PS" do not fire inside longer words.
func (d *ContextDetector) countWordMatches(content []rune) int {
	count := 0
	for _, term := range d.gazetteer.MultiPatternSearch(content, false) {
		start := term.Pos
		end := start + len(term.Word)
		if start > 0 && isWordRune(content[start-1]) {
			continue
		}
		if end < len(content) && isWordRune(content[end]) {
			continue
		}
		count++
	}
	return count
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
