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

// Package entity defines the closed set of polymer-science entity types and
// the BIO label scheme shared by every token-classification model in the
// ensemble. Labels are decoded once, at the span-extraction boundary, into a
// tagged variant so that nothing deeper in the pipeline branches on strings.
package entity

import (
	"fmt"
	"strings"
)

// Type is a polymer-science entity type.
type Type string

const (
	// Property is a named material property (e.g. "glass transition temperature").
	Property Type = "PROPERTY"
	// Symbol is a scientific symbol (e.g. "Tg", "ρ").
	Symbol Type = "SYMBOL"
	// Value is a numeric measurement value.
	Value Type = "VALUE"
	// Unit is a measurement unit (e.g. "MPa", "°C").
	Unit Type = "UNIT"
	// Polymer is a polymer name (e.g. "PMMA", "poly(lactic acid)").
	Polymer Type = "POLYMER"
	// Material is a non-polymer material name.
	Material Type = "MATERIAL"
)

// Types returns the closed, ordered set of entity types. The order matches
// the label ordering every inference collaborator is trained against.
func Types() []Type {
	return []Type{Property, Symbol, Value, Unit, Polymer, Material}
}

// Valid reports whether t is one of the closed entity types.
func (t Type) Valid() bool {
	switch t {
	case Property, Symbol, Value, Unit, Polymer, Material:
		return true
	}
	return false
}

// Kind discriminates the three BIO label variants.
type Kind uint8

const (
	// KindOutside marks a token outside any entity span.
	KindOutside Kind = iota
	// KindBegin marks the first token of an entity span.
	KindBegin
	// KindInside marks a continuation token of an entity span.
	KindInside
)

// Label is a decoded BIO label: Outside, Begin(type), or Inside(type).
// The zero value is Outside.
type Label struct {
	Kind Kind
	Type Type
}

// Outside is the "no entity" label.
var Outside = Label{Kind: KindOutside}

// Begin returns the B-<type> label.
func Begin(t Type) Label {
	return Label{Kind: KindBegin, Type: t}
}

// Inside returns the I-<type> label.
func Inside(t Type) Label {
	return Label{Kind: KindInside, Type: t}
}

// ParseLabel decodes a BIO label string such as "B-POLYMER" or "O".
func ParseLabel(s string) (Label, error) {
	if s == "O" {
		return Outside, nil
	}
	prefix, tag, ok := strings.Cut(s, "-")
	if !ok {
		return Outside, fmt.Errorf("malformed label %q", s)
	}
	t := Type(tag)
	if !t.Valid() {
		return Outside, fmt.Errorf("unknown entity type in label %q", s)
	}
	switch prefix {
	case "B":
		return Begin(t), nil
	case "I":
		return Inside(t), nil
	}
	return Outside, fmt.Errorf("unknown BIO prefix in label %q", s)
}

// String renders the label back to its wire form.
func (l Label) String() string {
	switch l.Kind {
	case KindBegin:
		return "B-" + string(l.Type)
	case KindInside:
		return "I-" + string(l.Type)
	default:
		return "O"
	}
}

// labelOrder is the canonical 13-label ordering shared with every inference
// collaborator: O first, then B/I pairs in Types() order.
var labelOrder = func() []Label {
	labels := make([]Label, 0, 1+2*len(Types()))
	labels = append(labels, Outside)
	for _, t := range Types() {
		labels = append(labels, Begin(t), Inside(t))
	}
	return labels
}()

// LabelSet exposes the canonical label ordering. All probability vectors
// returned by inference collaborators are indexed by this ordering.
type LabelSet struct{}

// DefaultLabelSet returns the shared 13-label set.
func DefaultLabelSet() LabelSet {
	return LabelSet{}
}

// Size returns the number of labels in the set.
func (LabelSet) Size() int {
	return len(labelOrder)
}

// ByID returns the label at the given index in the canonical ordering.
func (LabelSet) ByID(id int) (Label, error) {
	if id < 0 || id >= len(labelOrder) {
		return Outside, fmt.Errorf("label id %d out of range [0,%d)", id, len(labelOrder))
	}
	return labelOrder[id], nil
}

// ID returns the index of the label in the canonical ordering, or -1 if the
// label is not a member of the set.
func (LabelSet) ID(l Label) int {
	for i, candidate := range labelOrder {
		if candidate == l {
			return i
		}
	}
	return -1
}

// All returns a copy of the canonical ordering.
func (LabelSet) All() []Label {
	out := make([]Label, len(labelOrder))
	copy(out, labelOrder)
	return out
}
