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

package terms

import "strings"

// Normalizer canonicalizes accepted entity text: suffix stripping guarded by
// the canonical term table, trailing-stopword removal, and canonical-name
// lookup. Lookups are case-insensitive.
type Normalizer struct {
	canonical map[string]string
	known     map[string]bool
}

// NewNormalizer builds a Normalizer over the packaged term tables.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		canonical: make(map[string]string, len(CanonicalPolymers)+len(CanonicalProperties)),
		known:     make(map[string]bool),
	}
	for variant, canon := range CanonicalPolymers {
		n.canonical[strings.ToLower(variant)] = canon
		n.known[strings.ToLower(variant)] = true
		n.known[strings.ToLower(canon)] = true
	}
	for variant, canon := range CanonicalProperties {
		n.canonical[strings.ToLower(variant)] = canon
		n.known[strings.ToLower(variant)] = true
		n.known[strings.ToLower(canon)] = true
	}
	for _, name := range PolymerNames {
		n.known[strings.ToLower(name)] = true
	}
	for _, name := range PropertyNames {
		n.known[strings.ToLower(name)] = true
	}
	return n
}

// Canonical returns the canonical form of text, if the term table has one.
func (n *Normalizer) Canonical(text string) (string, bool) {
	canon, ok := n.canonical[strings.ToLower(strings.TrimSpace(text))]
	return canon, ok
}

// Known reports whether text is present in the canonical term table.
func (n *Normalizer) Known(text string) bool {
	return n.known[strings.ToLower(strings.TrimSpace(text))]
}

// StripSuffix removes a non-canonical trailing suffix (" based", " derived",
// " containing", ...) when the stripped stem is itself a known term.
// Unknown stems are left untouched.
func (n *Normalizer) StripSuffix(text string) string {
	lower := strings.ToLower(text)
	for _, suffix := range trailingSuffixes {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		stem := strings.TrimSpace(text[:len(text)-len(suffix)])
		if n.Known(stem) {
			return stem
		}
	}
	return text
}

// StripTrailingStopwords removes stopwords token-by-token from the end of the
// text.
func (n *Normalizer) StripTrailingStopwords(text string) string {
	fields := strings.Fields(text)
	for len(fields) > 1 && stopwords[strings.ToLower(fields[len(fields)-1])] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// Normalize applies the full cleanup pass used on accepted entities: span
// artifact removal, guarded suffix stripping, then trailing-stopword removal.
func (n *Normalizer) Normalize(text string) string {
	text = CleanSpanText(text)
	text = n.StripSuffix(text)
	return n.StripTrailingStopwords(text)
}
