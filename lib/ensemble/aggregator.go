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
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/dhanushmallu/polymer-nlp-extractor/lib/entity"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/expertise"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/spans"
	"github.com/dhanushmallu/polymer-nlp-extractor/lib/terms"
)

// FinalEntity is one accepted entity after cross-model vote aggregation.
// The character range covers the union of every clustered prediction.
type FinalEntity struct {
	EntityType  entity.Type    `json:"entity_type"`
	Text        string         `json:"text"`
	CharStart   int            `json:"char_start"`
	CharEnd     int            `json:"char_end"`
	Confidence  float64        `json:"confidence"`
	Agreement   AgreementLevel `json:"agreement"`
	ModelsVoted []string       `json:"models_voted"`
	Threshold   float64        `json:"threshold"`
}

// Aggregator clusters overlapping same-type predictions and votes each
// cluster through a dynamic threshold.
type Aggregator struct {
	profiles   expertise.Profiles
	thresholds ThresholdConfig
	normalizer *terms.Normalizer
	validator  *terms.Validator
	logger     *zap.Logger
}

// NewAggregator creates an Aggregator. Nil profiles mean every model votes
// with neutral weight.
func NewAggregator(profiles expertise.Profiles, thresholds ThresholdConfig, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		profiles:   profiles,
		thresholds: thresholds,
		normalizer: terms.NewNormalizer(),
		validator:  terms.NewValidator(),
		logger:     logger,
	}
}

// Aggregate merges raw predictions from all models into accepted entities.
// modelsRan is how many models produced any output for the document (the
// denominator for agreement classification); contexts are the detected
// document-context indicators. Clusters whose weighted confidence falls
// below their threshold are dropped silently. The result is ordered by
// document position.
func (a *Aggregator) Aggregate(preds []spans.RawPrediction, modelsRan int, contexts []string) []FinalEntity {
	if len(preds) == 0 {
		return nil
	}

	byType := make(map[entity.Type][]spans.RawPrediction)
	for _, p := range preds {
		byType[p.EntityType] = append(byType[p.EntityType], p)
	}

	var accepted []FinalEntity
	dropped := 0
	for _, t := range entity.Types() {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].CharStart != group[j].CharStart {
				return group[i].CharStart < group[j].CharStart
			}
			if group[i].CharEnd != group[j].CharEnd {
				return group[i].CharEnd < group[j].CharEnd
			}
			return group[i].Model < group[j].Model
		})

		for _, cluster := range clusterOverlapping(group) {
			if fe, ok := a.vote(cluster, modelsRan, contexts); ok {
				accepted = append(accepted, fe)
			} else {
				dropped++
			}
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].CharStart != accepted[j].CharStart {
			return accepted[i].CharStart < accepted[j].CharStart
		}
		if accepted[i].CharEnd != accepted[j].CharEnd {
			return accepted[i].CharEnd < accepted[j].CharEnd
		}
		return accepted[i].EntityType < accepted[j].EntityType
	})

	a.logger.Debug("Aggregated ensemble votes",
		zap.Int("predictions", len(preds)),
		zap.Int("accepted", len(accepted)),
		zap.Int("dropped", dropped),
		zap.Int("models_ran", modelsRan))

	return accepted
}

// clusterOverlapping greedily groups position-sorted predictions: a
// prediction joins the open cluster while it overlaps the cluster's running
// character range.
func clusterOverlapping(sorted []spans.RawPrediction) [][]spans.RawPrediction {
	var clusters [][]spans.RawPrediction
	var current []spans.RawPrediction
	end := -1

	for _, p := range sorted {
		if len(current) > 0 && p.CharStart < end {
			current = append(current, p)
			if p.CharEnd > end {
				end = p.CharEnd
			}
			continue
		}
		if len(current) > 0 {
			clusters = append(clusters, current)
		}
		current = []spans.RawPrediction{p}
		end = p.CharEnd
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters
}

// vote scores one cluster. ok is false when the cluster falls below its
// threshold.
func (a *Aggregator) vote(cluster []spans.RawPrediction, modelsRan int, contexts []string) (FinalEntity, bool) {
	t := cluster[0].EntityType

	// Distinct voters, expertise-weighted mean confidence, union range, and
	// the representative prediction in one pass. Ties on confidence go to
	// the lexicographically smallest model name for determinism.
	voters := map[string]bool{}
	weightSum, weighted := 0.0, 0.0
	members := make([]float64, 0, len(cluster))
	start, end := cluster[0].CharStart, cluster[0].CharEnd
	rep := cluster[0]
	for _, p := range cluster {
		voters[p.Model] = true

		w := a.profiles.Get(p.Model).DynamicWeight(string(t), contexts)
		weightSum += w
		weighted += w * p.Confidence
		members = append(members, w*p.Confidence)

		if p.CharStart < start {
			start = p.CharStart
		}
		if p.CharEnd > end {
			end = p.CharEnd
		}
		if p.Confidence > rep.Confidence ||
			(p.Confidence == rep.Confidence && p.Model < rep.Model) {
			rep = p
		}
	}

	models := make([]string, 0, len(voters))
	for m := range voters {
		models = append(models, m)
	}
	sort.Strings(models)

	// Dispersion is measured on the weighted member confidences, not the
	// raw ones: a split between a specialist and a generalist should raise
	// the bar even when their raw scores happen to coincide.
	agreement := ClassifyAgreement(len(models), modelsRan)
	threshold := a.thresholds.Compute(t, agreement, contexts, stdDev(members))

	score := weighted / weightSum
	if score < threshold {
		return FinalEntity{}, false
	}

	// Validation boosts reward recognized terminology on accepted entities;
	// they never rescue a cluster that failed its threshold.
	text := a.normalizer.Normalize(rep.Text)
	score += a.validator.Boost(string(t), text)

	return FinalEntity{
		EntityType:  t,
		Text:        text,
		CharStart:   start,
		CharEnd:     end,
		Confidence:  math.Min(score, 1.0),
		Agreement:   agreement,
		ModelsVoted: models,
		Threshold:   threshold,
	}, true
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
