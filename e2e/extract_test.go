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

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	extractor "github.com/dhanushmallu/polymer-nlp-extractor"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
)

func TestHealthEndpoints(t *testing.T) {
	client := httpClient(t)

	resp, err := client.Get(serverURL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ready, err := client.Get(serverURL + "/readyz")
	require.NoError(t, err)
	defer ready.Body.Close()
	assert.Equal(t, http.StatusOK, ready.StatusCode)
}

func TestExtractRoundTrip(t *testing.T) {
	client := httpClient(t)

	body, err := json.Marshal(extractor.ExtractRequest{
		Text: "Thin films of polystyrene were cast from toluene solution. " +
			"The glass transition temperature of each film was recorded.",
	})
	require.NoError(t, err)

	resp, err := client.Post(serverURL+"/api/extract", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result extractor.ExtractResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.NotEmpty(t, result.ModelsRan)
	require.NotEmpty(t, result.Entities)

	types := make(map[entity.Type]bool)
	for _, ent := range result.Entities {
		assert.True(t, ent.EntityType.Valid())
		assert.NotEmpty(t, ent.Text)
		assert.Less(t, ent.CharStart, ent.CharEnd)
		assert.Greater(t, ent.Confidence, 0.0)
		types[ent.EntityType] = true
	}
	assert.True(t, types[entity.Polymer], "expected a polymer mention, got %v", result.Entities)
}

func TestExtractRejectsEmptyText(t *testing.T) {
	client := httpClient(t)

	resp, err := client.Post(serverURL+"/api/extract", "application/json",
		strings.NewReader(`{"text": ""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestModelsEndpoint(t *testing.T) {
	client := httpClient(t)

	resp, err := client.Get(serverURL + "/api/models")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var models extractor.ModelsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&models))
	assert.NotEmpty(t, models.Models)
}

func TestVersionEndpoint(t *testing.T) {
	client := httpClient(t)

	resp, err := client.Get(serverURL + "/api/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var version extractor.VersionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&version))
	assert.NotEmpty(t, version.Version)
}

func TestStatsEndpoint(t *testing.T) {
	client := httpClient(t)

	resp, err := client.Get(serverURL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Contains(t, stats, "registry")
	assert.Contains(t, stats, "prediction_cache")
}

func TestMetricsEndpoint(t *testing.T) {
	client := httpClient(t)

	resp, err := client.Get(serverURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
