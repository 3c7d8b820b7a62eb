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

package expertise

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDynamicWeightAllFactors(t *testing.T) {
	p := Profile{
		Model:            "matscibert",
		BaseWeight:       1.3,
		EntityWeights:    map[string]float64{"MATERIAL": 1.2},
		ContextStrengths: map[string]float64{"technical_domain": 1.1, "review_article": 0.9},
		Reliability:      0.95,
	}

	w := p.DynamicWeight("MATERIAL", []string{"technical_domain", "review_article"})
	require.InDelta(t, 1.3*1.2*1.1*0.95, w, 1e-9)
}

func TestDynamicWeightNeutralFallbacks(t *testing.T) {
	p := Profile{Model: "biobert", BaseWeight: 0.7, Reliability: 0.9}

	// No entity weight, no matching context: only base and reliability apply.
	require.InDelta(t, 0.7*0.9, p.DynamicWeight("POLYMER", []string{"synthesis_procedure"}), 1e-9)
}

func TestDynamicWeightDampingContextApplies(t *testing.T) {
	p := Profile{
		Model:            "biobert",
		BaseWeight:       1.0,
		ContextStrengths: map[string]float64{"technical_domain": 0.8},
		Reliability:      1.0,
	}
	require.InDelta(t, 0.8, p.DynamicWeight("VALUE", []string{"technical_domain"}), 1e-9)
}

func TestDynamicWeightZeroValueProfile(t *testing.T) {
	var p Profile
	require.InDelta(t, 1.0, p.DynamicWeight("UNIT", nil), 1e-9)
}

func TestProfilesGetUnknownModelIsNeutral(t *testing.T) {
	ps := Profiles{"scibert": {Model: "scibert", BaseWeight: 1.1, Reliability: 0.9}}

	p := ps.Get("mystery")
	require.Equal(t, "mystery", p.Model)
	require.InDelta(t, 1.0, p.DynamicWeight("POLYMER", nil), 1e-9)

	require.Equal(t, 1.1, ps.Get("scibert").BaseWeight)
}
