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

package ensemble

import (
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
)

// Threshold bounds: no entity type's bar ever leaves this range, whatever
// the modifiers stack up to.
const (
	MinThreshold = 0.30
	MaxThreshold = 0.95
)

// Dispersion modifiers: widely scattered model confidences raise the bar,
// tightly clustered ones lower it.
const (
	highDispersionStd      = 0.20
	lowDispersionStd       = 0.05
	highDispersionModifier = 0.05
	lowDispersionModifier  = -0.03
)

// ThresholdConfig holds the per-type acceptance baselines and the context
// adjustments applied on top of them.
type ThresholdConfig struct {
	Base             map[entity.Type]float64 `json:"base"`
	Global           float64                 `json:"global"`
	ContextModifiers map[string]float64      `json:"context_modifiers"`
}

// DefaultThresholds returns the tuned acceptance configuration. Frequent,
// well-learned types (polymers, materials) demand more confidence than
// sparse ones (symbols, units).
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		Base: map[entity.Type]float64{
			entity.Polymer:  0.82,
			entity.Material: 0.80,
			entity.Property: 0.75,
			entity.Value:    0.72,
			entity.Unit:     0.72,
			entity.Symbol:   0.70,
		},
		Global: 0.75,
		ContextModifiers: map[string]float64{
			terms.IndicatorHighEntityDensity:  -0.05,
			terms.IndicatorLowEntityDensity:   0.03,
			terms.IndicatorTechnicalDomain:    -0.02,
			terms.IndicatorExperimentalData:   -0.03,
			terms.IndicatorReviewArticle:      0.02,
			terms.IndicatorSynthesisProcedure: -0.04,
		},
	}
}

// Compute derives the acceptance threshold for one vote cluster: the
// per-type baseline, shifted by every detected context indicator, by the
// agreement level, and by confidence dispersion, clamped to
// [MinThreshold, MaxThreshold].
func (c ThresholdConfig) Compute(t entity.Type, agreement AgreementLevel, contexts []string, confStdDev float64) float64 {
	threshold, ok := c.Base[t]
	if !ok {
		threshold = c.Global
	}

	for _, ctx := range contexts {
		threshold += c.ContextModifiers[ctx]
	}

	threshold += agreement.Modifier()

	switch {
	case confStdDev > highDispersionStd:
		threshold += highDispersionModifier
	case confStdDev < lowDispersionStd:
		threshold += lowDispersionModifier
	}

	if threshold < MinThreshold {
		return MinThreshold
	}
	if threshold > MaxThreshold {
		return MaxThreshold
	}
	return threshold
}
