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

// Package expertise describes what each ensemble model is good at. Vote
// aggregation weighs each model's reading by its expertise for the entity
// type and document context at hand, not by a flat per-model constant.
package expertise

// Profile captures one model's strengths. All factors are multiplicative
// inputs to DynamicWeight; a missing entry falls back to neutral 1.0.
type Profile struct {
	// Model is the model's short name, e.g. "matscibert".
	Model string `json:"model"`
	// BaseWeight is the model's overall standing in the ensemble.
	BaseWeight float64 `json:"base_weight"`
	// EntityWeights boosts or damps the model per entity type.
	EntityWeights map[string]float64 `json:"entity_weights,omitempty"`
	// ContextStrengths boosts or damps the model per document-context
	// indicator (see the terms package for indicator names).
	ContextStrengths map[string]float64 `json:"context_strengths,omitempty"`
	// Reliability reflects historically observed calibration quality.
	Reliability float64 `json:"reliability"`
}

// DynamicWeight computes the model's vote weight for one prediction:
// base weight scaled by entity-type expertise, by the strongest matching
// context indicator, and by reliability.
func (p Profile) DynamicWeight(entityType string, contexts []string) float64 {
	w := p.BaseWeight
	if w == 0 {
		w = 1.0
	}

	if ew, ok := p.EntityWeights[entityType]; ok {
		w *= ew
	}

	// Use the strongest matching context indicator; indicators the model
	// has no opinion on stay neutral.
	best, found := 0.0, false
	for _, c := range contexts {
		if cs, ok := p.ContextStrengths[c]; ok && (!found || cs > best) {
			best, found = cs, true
		}
	}
	if found {
		w *= best
	}

	if p.Reliability > 0 {
		w *= p.Reliability
	}
	return w
}

// Profiles maps model name to its expertise profile.
type Profiles map[string]Profile

// Get returns the profile for model, or a neutral profile when the model is
// unregistered so that unknown models still get counted with unit weight.
func (ps Profiles) Get(model string) Profile {
	if p, ok := ps[model]; ok {
		return p
	}
	return Profile{Model: model, BaseWeight: 1.0, Reliability: 1.0}
}
