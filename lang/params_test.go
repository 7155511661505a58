// Copyright 2026 the bcs authors.
//
// The bcs library is free software: you can redistribute it and/or modify it
// under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// The bcs library is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
// or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the bcs library. If not, see <http://www.gnu.org/licenses/>.

package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterValuesCarrierType(t *testing.T) {
	p := NewParameterValues()

	p.SetInt("n", 3)
	assert.Contains(t, p.Ints, "n")

	p.SetDouble("n", 2.5)
	assert.NotContains(t, p.Ints, "n", "real insertion must evict the integer carrier")
	assert.Contains(t, p.Doubles, "n")

	p.SetInt("n", 7)
	assert.NotContains(t, p.Doubles, "n", "integer insertion must evict the real carrier")
	assert.Equal(t, 7, p.Ints["n"])
}

func TestParameterValuesCopy(t *testing.T) {
	p := NewParameterValues()
	p.SetInt("n", 1)
	p.SetDouble("x", 0.5)

	q := p.Copy()
	q.SetInt("n", 99)
	q.SetDouble("x", 9.9)

	assert.Equal(t, 1, p.Ints["n"], "copy must be independent")
	assert.Equal(t, 0.5, p.Doubles["x"], "copy must be independent")
}

func TestParameterValuesFormat(t *testing.T) {
	p := NewParameterValues()
	p.SetInt("n", 3)
	p.SetDouble("x", 0.5)

	s, ok := p.Format("n")
	require.True(t, ok)
	assert.Equal(t, "3", s)

	s, ok = p.Format("x")
	require.True(t, ok)
	assert.Equal(t, "0.5", s)

	_, ok = p.Format("missing")
	assert.False(t, ok)
}

func TestWithin(t *testing.T) {
	disjunction := []Bounds{{Lower: 0, Upper: 4}, {Lower: 7, Upper: 9}}

	for v, want := range map[int]bool{0: true, 4: true, 5: false, 7: true, 10: false, -1: false} {
		assert.Equalf(t, want, Within(v, disjunction), "Within(%d, %v)", v, disjunction)
	}
}

func TestLocalVariablesCopy(t *testing.T) {
	var l LocalVariables
	c := l.Copy()
	require.NotNil(t, c, "copy of nil locals must be writable")
	c["x"] = 1

	l = LocalVariables{"y": 2}
	c = l.Copy()
	c["y"] = 3
	assert.Equal(t, 2, l["y"])
}
