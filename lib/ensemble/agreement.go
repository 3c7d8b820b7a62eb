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

// Package ensemble merges the raw predictions of multiple NER models into
// final entities. Overlapping same-type spans form a vote cluster; each
// cluster's weighted confidence is compared against a threshold that adapts
// to model agreement, document context, and confidence dispersion.
package ensemble

// AgreementLevel describes how strongly the models that ran agree on a
// cluster.
type AgreementLevel string

const (
	Unanimous      AgreementLevel = "unanimous"
	StrongMajority AgreementLevel = "strong_majority"
	SimpleMajority AgreementLevel = "simple_majority"
	WeakConsensus  AgreementLevel = "weak_consensus"
	NoConsensus    AgreementLevel = "no_consensus"
)

// ClassifyAgreement maps a cluster's distinct voter count against the number
// of models that actually produced output. A single voter is never a
// consensus, regardless of how few models ran.
func ClassifyAgreement(voters, modelsRan int) AgreementLevel {
	if voters <= 1 || modelsRan <= 1 {
		return NoConsensus
	}
	if voters >= modelsRan {
		return Unanimous
	}
	frac := float64(voters) / float64(modelsRan)
	switch {
	case frac >= 0.75:
		return StrongMajority
	case frac > 0.5:
		return SimpleMajority
	case frac >= 0.4:
		return WeakConsensus
	}
	return NoConsensus
}

// Modifier returns the threshold adjustment for the agreement level:
// broad agreement lowers the bar, a lone voice raises it.
func (a AgreementLevel) Modifier() float64 {
	switch a {
	case Unanimous:
		return -0.08
	case StrongMajority:
		return -0.05
	case SimpleMajority:
		return 0
	case WeakConsensus:
		return 0.03
	}
	return 0.08
}
