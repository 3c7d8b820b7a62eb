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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog, 5)

	byName := make(map[string]ModelSpec, len(catalog))
	for _, spec := range catalog {
		require.NotEmpty(t, spec.Name)
		require.NotEmpty(t, spec.ModelID)
		require.Greater(t, spec.Expertise.BaseWeight, 0.0)
		require.Greater(t, spec.Expertise.Reliability, 0.0)
		require.LessOrEqual(t, spec.Expertise.Reliability, 1.0)
		byName[spec.Name] = spec
	}

	// The polymer specialist carries the strongest polymer expertise.
	polymerner, ok := byName["polymerner"]
	require.True(t, ok)
	for name, spec := range byName {
		if name == "polymerner" {
			continue
		}
		assert.Greater(t,
			polymerner.Expertise.EntityWeights[string(entity.Polymer)],
			spec.Expertise.EntityWeights[string(entity.Polymer)],
			"polymerner should outweigh %s on polymer mentions", name)
	}

	// The out-of-domain model is damped rather than excluded.
	biobert, ok := byName["biobert"]
	require.True(t, ok)
	assert.Less(t, biobert.Expertise.BaseWeight, 1.0)
	for _, weight := range biobert.Expertise.EntityWeights {
		assert.Less(t, weight, 1.0)
	}
}

func TestCatalogProfiles(t *testing.T) {
	catalog := DefaultCatalog()
	profiles := CatalogProfiles(catalog)
	require.Len(t, profiles, len(catalog))

	for _, spec := range catalog {
		profile := profiles.Get(spec.Name)
		assert.Equal(t, spec.Expertise.BaseWeight, profile.BaseWeight)
	}

	// Unknown models fall back to a neutral profile.
	neutral := profiles.Get("mystery")
	assert.Equal(t, 1.0, neutral.BaseWeight)
	assert.Equal(t, 1.0, neutral.Reliability)
}
