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
	"regexp"
	"strings"
)

// Confidence boosts applied by the Validator. Boosts only raise reported
// confidence on already-accepted entities; they never change an
// accept/reject decision.
const (
	BoostExactCanonicalMatch = 0.15
	BoostFuzzyCanonicalMatch = 0.10
	BoostMeasurementPattern  = 0.08
	BoostUnitValidation      = 0.06

	fuzzyMatchThreshold = 0.85
)

// measurementPattern matches numeric measurement values including scientific
// notation, unicode superscript exponents, and uncertainty expressions.
var measurementPattern = regexp.MustCompile(
	`^\(?[+-]?\d+(?:[.,]\d+)?(?:\s*[±(]\s*\d+(?:[.,]\d+)?\)?)?(?:\s*[×x·∙]\s*10(?:\^?[+-]?\d+|[⁻⁰¹²³⁴⁵⁶⁷⁸⁹]+))?(?:[eE][+-]?\d+)?\)?$`)

// Validator scores accepted entity text against the canonical term tables.
type Validator struct {
	normalizer *Normalizer
	units      map[string]bool
}

// NewValidator builds a Validator over the packaged term tables.
func NewValidator() *Validator {
	units := make(map[string]bool, len(ScientificUnits))
	for _, u := range ScientificUnits {
		units[strings.ToLower(u)] = true
	}
	return &Validator{
		normalizer: NewNormalizer(),
		units:      units,
	}
}

// Boost returns the validation confidence boost for an entity of the given
// type. Only the single strongest applicable boost is returned.
func (v *Validator) Boost(entityType, text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	switch entityType {
	case "VALUE":
		if measurementPattern.MatchString(text) {
			return BoostMeasurementPattern
		}
	case "UNIT":
		if v.units[strings.ToLower(text)] {
			return BoostUnitValidation
		}
	case "POLYMER", "MATERIAL", "PROPERTY":
		if v.normalizer.Known(text) {
			return BoostExactCanonicalMatch
		}
		if v.fuzzyKnown(text) {
			return BoostFuzzyCanonicalMatch
		}
	}
	return 0
}

// fuzzyKnown reports whether text is a close match to any known term.
func (v *Validator) fuzzyKnown(text string) bool {
	lower := strings.ToLower(text)
	for known := range v.normalizer.known {
		// Cheap length filter before the quadratic similarity.
		if diff := len(known) - len(lower); diff > 3 || diff < -3 {
			continue
		}
		if Similarity(lower, known) >= fuzzyMatchThreshold {
			return true
		}
	}
	return false
}
