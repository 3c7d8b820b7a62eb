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

package evaluation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/ensemble"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
)

func fe(t entity.Type, text string) ensemble.FinalEntity {
	return ensemble.FinalEntity{EntityType: t, Text: text}
}

func TestEvaluateExactFuzzyAndMiss(t *testing.T) {
	predicted := []ensemble.FinalEntity{
		fe(entity.Polymer, "PMMA"),                          // exact
		fe(entity.Property, "glass transition temperatures"), // fuzzy plural
		fe(entity.Polymer, "nylon-6"),                        // false positive
	}
	truth := []GroundTruth{
		{EntityType: entity.Polymer, Text: "PMMA"},
		{EntityType: entity.Property, Text: "glass transition temperature"},
		{EntityType: entity.Value, Text: "150"}, // missed entirely
	}

	report := Evaluate(predicted, truth)

	polymer := report.PerType[entity.Polymer]
	require.Equal(t, 1, polymer.TruePositives)
	require.Equal(t, 1, polymer.FalsePositives)
	require.Equal(t, 0, polymer.FalseNegatives)
	require.InDelta(t, 0.5, polymer.Precision, 1e-9)
	require.InDelta(t, 1.0, polymer.Recall, 1e-9)

	property := report.PerType[entity.Property]
	require.Equal(t, 1, property.TruePositives, "plural must match fuzzily")

	value := report.PerType[entity.Value]
	require.Equal(t, 1, value.FalseNegatives)
	require.Equal(t, 0.0, value.Recall)

	require.Equal(t, 2, report.Overall.TruePositives)
	require.Equal(t, 1, report.Overall.FalsePositives)
	require.Equal(t, 1, report.Overall.FalseNegatives)
}

func TestEvaluateAnnotationClaimedOnce(t *testing.T) {
	predicted := []ensemble.FinalEntity{
		fe(entity.Polymer, "polystyrene"),
		fe(entity.Polymer, "polystyrene"),
	}
	truth := []GroundTruth{
		{EntityType: entity.Polymer, Text: "polystyrene"},
	}

	report := Evaluate(predicted, truth)
	m := report.PerType[entity.Polymer]
	require.Equal(t, 1, m.TruePositives)
	require.Equal(t, 1, m.FalsePositives, "the second prediction must not reuse the annotation")
}

func TestEvaluateTypeMismatchNeverMatches(t *testing.T) {
	predicted := []ensemble.FinalEntity{fe(entity.Material, "PMMA")}
	truth := []GroundTruth{{EntityType: entity.Polymer, Text: "PMMA"}}

	report := Evaluate(predicted, truth)
	require.Equal(t, 1, report.PerType[entity.Material].FalsePositives)
	require.Equal(t, 1, report.PerType[entity.Polymer].FalseNegatives)
	require.Equal(t, 0, report.Overall.TruePositives)
}

func TestEvaluatePerfectScore(t *testing.T) {
	predicted := []ensemble.FinalEntity{
		fe(entity.Polymer, "PTFE"),
		fe(entity.Unit, "MPa"),
	}
	truth := []GroundTruth{
		{EntityType: entity.Polymer, Text: "ptfe"}, // case-insensitive
		{EntityType: entity.Unit, Text: "MPa"},
	}

	report := Evaluate(predicted, truth)
	require.InDelta(t, 1.0, report.Overall.Precision, 1e-9)
	require.InDelta(t, 1.0, report.Overall.Recall, 1e-9)
	require.InDelta(t, 1.0, report.Overall.F1, 1e-9)
}

func TestEvaluateEmptyInputs(t *testing.T) {
	report := Evaluate(nil, nil)
	require.Empty(t, report.PerType)
	require.Equal(t, 0.0, report.Overall.F1)
}
