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

package extractor

import (
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/expertise"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
)

// ModelSpec describes one ensemble member: where it is served from and what
// it is good at.
type ModelSpec struct {
	// Name is the short model name used in window IDs and vote records.
	Name string `json:"name"`
	// ModelID is the upstream model identifier, e.g. "m3rg-iitd/matscibert".
	ModelID string `json:"model_id"`
	// Endpoint is the serving URL; empty for built-in backends.
	Endpoint string `json:"endpoint,omitempty"`
	// Expertise drives vote weighting.
	Expertise expertise.Profile `json:"expertise"`
}

// DefaultCatalog returns the tuned five-model ensemble. Base weights,
// entity weights, and reliability scores come from held-out calibration on
// annotated polymer literature.
func DefaultCatalog() []ModelSpec {
	return []ModelSpec{
		{
			Name:    "polymerner",
			ModelID: "pranav-s/PolymerNER",
			Expertise: expertise.Profile{
				Model:      "polymerner",
				BaseWeight: 1.6,
				EntityWeights: map[string]float64{
					"POLYMER":  2.2,
					"MATERIAL": 1.8,
					"PROPERTY": 1.4,
					"SYMBOL":   1.2,
					"VALUE":    1.1,
					"UNIT":     1.0,
				},
				ContextStrengths: map[string]float64{
					terms.IndicatorSynthesisProcedure: 2.0,
					terms.IndicatorExperimentalData:   1.8,
					terms.IndicatorTechnicalDomain:    1.4,
				},
				Reliability: 1.0,
			},
		},
		{
			Name:    "matscibert",
			ModelID: "m3rg-iitd/matscibert",
			Expertise: expertise.Profile{
				Model:      "matscibert",
				BaseWeight: 1.3,
				EntityWeights: map[string]float64{
					"MATERIAL": 2.0,
					"PROPERTY": 1.5,
					"POLYMER":  1.2,
					"SYMBOL":   1.1,
					"VALUE":    1.0,
					"UNIT":     1.0,
				},
				ContextStrengths: map[string]float64{
					terms.IndicatorTechnicalDomain:  2.0,
					terms.IndicatorExperimentalData: 1.4,
				},
				Reliability: 0.95,
			},
		},
		{
			Name:    "scibert",
			ModelID: "allenai/scibert_scivocab_uncased",
			Expertise: expertise.Profile{
				Model:      "scibert",
				BaseWeight: 1.1,
				EntityWeights: map[string]float64{
					"PROPERTY": 1.3,
					"VALUE":    1.2,
					"UNIT":     1.2,
					"SYMBOL":   1.1,
					"POLYMER":  1.0,
					"MATERIAL": 1.0,
				},
				ContextStrengths: map[string]float64{
					terms.IndicatorReviewArticle:    1.5,
					terms.IndicatorExperimentalData: 1.4,
					terms.IndicatorTechnicalDomain:  1.3,
				},
				Reliability: 0.9,
			},
		},
		{
			Name:    "physbert",
			ModelID: "thellert/physbert_cased",
			Expertise: expertise.Profile{
				Model:      "physbert",
				BaseWeight: 1.0,
				EntityWeights: map[string]float64{
					"SYMBOL":   1.8,
					"VALUE":    1.6,
					"UNIT":     1.6,
					"PROPERTY": 1.3,
					"POLYMER":  0.8,
					"MATERIAL": 0.9,
				},
				ContextStrengths: map[string]float64{
					terms.IndicatorExperimentalData: 1.8,
					terms.IndicatorTechnicalDomain:  1.6,
				},
				Reliability: 0.85,
			},
		},
		{
			Name:    "biobert",
			ModelID: "dmis-lab/biobert-v1.1",
			Expertise: expertise.Profile{
				Model:      "biobert",
				BaseWeight: 0.7,
				EntityWeights: map[string]float64{
					"POLYMER":  0.6,
					"MATERIAL": 0.7,
					"PROPERTY": 0.8,
					"SYMBOL":   0.5,
					"VALUE":    0.6,
					"UNIT":     0.5,
				},
				ContextStrengths: map[string]float64{
					terms.IndicatorTechnicalDomain: 1.2,
				},
				Reliability: 0.75,
			},
		},
	}
}

// CatalogProfiles collects the expertise profiles of a catalog, keyed by
// model name.
func CatalogProfiles(catalog []ModelSpec) expertise.Profiles {
	profiles := make(expertise.Profiles, len(catalog))
	for _, spec := range catalog {
		profiles[spec.Name] = spec.Expertise
	}
	return profiles
}
