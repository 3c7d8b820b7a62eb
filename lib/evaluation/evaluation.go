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

// Package evaluation scores extraction output against annotated ground
// truth. Matching is fuzzy: a prediction counts when its text is similar
// enough to an unclaimed annotation of the same entity type.
package evaluation

import (
	"sort"
	"strings"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/ensemble"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
)

// MatchThreshold is the minimum text similarity for a prediction to claim
// an annotation.
const MatchThreshold = 0.70

// GroundTruth is one annotated entity mention.
type GroundTruth struct {
	EntityType entity.Type `json:"entity_type"`
	Text       string      `json:"text"`
}

// TypeMetrics are precision/recall/F1 for one entity type.
type TypeMetrics struct {
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}

// Report is the evaluation result for one document.
type Report struct {
	PerType map[entity.Type]TypeMetrics `json:"per_type"`
	Overall TypeMetrics                 `json:"overall"`
}

// Evaluate greedily matches predictions to annotations of the same type.
// Each annotation is claimed at most once; predictions are considered in
// document order, and each takes its most similar unclaimed annotation.
func Evaluate(predicted []ensemble.FinalEntity, truth []GroundTruth) Report {
	truthByType := make(map[entity.Type][]GroundTruth)
	for _, gt := range truth {
		truthByType[gt.EntityType] = append(truthByType[gt.EntityType], gt)
	}
	predByType := make(map[entity.Type][]ensemble.FinalEntity)
	for _, p := range predicted {
		predByType[p.EntityType] = append(predByType[p.EntityType], p)
	}

	report := Report{PerType: make(map[entity.Type]TypeMetrics)}
	for _, t := range entity.Types() {
		preds := predByType[t]
		annotations := truthByType[t]
		if len(preds) == 0 && len(annotations) == 0 {
			continue
		}

		claimed := make([]bool, len(annotations))
		m := TypeMetrics{}
		for _, p := range preds {
			best, bestSim := -1, 0.0
			for i, gt := range annotations {
				if claimed[i] {
					continue
				}
				sim := similarity(p.Text, gt.Text)
				if sim >= MatchThreshold && sim > bestSim {
					best, bestSim = i, sim
				}
			}
			if best >= 0 {
				claimed[best] = true
				m.TruePositives++
			} else {
				m.FalsePositives++
			}
		}
		for _, taken := range claimed {
			if !taken {
				m.FalseNegatives++
			}
		}

		finalize(&m)
		report.PerType[t] = m
		report.Overall.TruePositives += m.TruePositives
		report.Overall.FalsePositives += m.FalsePositives
		report.Overall.FalseNegatives += m.FalseNegatives
	}

	finalize(&report.Overall)
	return report
}

// similarity compares normalized entity text. Exact case-insensitive
// equality short-circuits the quadratic comparison.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	return terms.Similarity(a, b)
}

func finalize(m *TypeMetrics) {
	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		m.Recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
}

// Types returns the entity types present in the report, sorted for stable
// rendering.
func (r Report) Types() []entity.Type {
	out := make([]entity.Type, 0, len(r.PerType))
	for t := range r.PerType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
