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

package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLabelRoundTrip(t *testing.T) {
	set := DefaultLabelSet()
	for _, l := range set.All() {
		parsed, err := ParseLabel(l.String())
		require.NoError(t, err, "label %s", l)
		require.Equal(t, l, parsed)
	}
}

func TestParseLabelRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "B-PERSON", "X-POLYMER", "BPOLYMER", "b-polymer"} {
		_, err := ParseLabel(s)
		require.Error(t, err, "input %q", s)
	}
}

func TestLabelSetOrdering(t *testing.T) {
	set := DefaultLabelSet()
	require.Equal(t, 13, set.Size())

	first, err := set.ByID(0)
	require.NoError(t, err)
	require.Equal(t, Outside, first)

	// B/I pairs follow in Types() order.
	for i, typ := range Types() {
		b, err := set.ByID(1 + 2*i)
		require.NoError(t, err)
		require.Equal(t, Begin(typ), b)

		in, err := set.ByID(2 + 2*i)
		require.NoError(t, err)
		require.Equal(t, Inside(typ), in)
	}

	_, err = set.ByID(13)
	require.Error(t, err)
	_, err = set.ByID(-1)
	require.Error(t, err)
}

func TestLabelSetIDInverse(t *testing.T) {
	set := DefaultLabelSet()
	for i := 0; i < set.Size(); i++ {
		l, err := set.ByID(i)
		require.NoError(t, err)
		require.Equal(t, i, set.ID(l))
	}
	require.Equal(t, -1, set.ID(Begin(Type("BOGUS"))))
}
