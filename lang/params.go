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
	"strconv"

	"golang.org/x/exp/maps"
)

// ParameterValues binds parameter names to values, each under exactly one of
// the integer or real sub-maps. Setting a name in one sub-map evicts it from
// the other, so the carrier type is always the one recorded at the most
// recent insertion.
type ParameterValues struct {
	Ints    map[string]int
	Doubles map[string]float64
}

// NewParameterValues returns an empty binding.
func NewParameterValues() ParameterValues {
	return ParameterValues{Ints: make(map[string]int), Doubles: make(map[string]float64)}
}

// SetInt binds name to an integer value.
func (p ParameterValues) SetInt(name string, v int) {
	delete(p.Doubles, name)
	p.Ints[name] = v
}

// SetDouble binds name to a real value.
func (p ParameterValues) SetDouble(name string, v float64) {
	delete(p.Ints, name)
	p.Doubles[name] = v
}

// Copy returns an independent binding with the same contents.
func (p ParameterValues) Copy() ParameterValues {
	return ParameterValues{Ints: maps.Clone(p.Ints), Doubles: maps.Clone(p.Doubles)}
}

// Format renders the value bound to name as its decimal form, with ok
// reporting whether the name is bound at all.
func (p ParameterValues) Format(name string) (s string, ok bool) {
	if v, ok := p.Ints[name]; ok {
		return strconv.Itoa(v), true
	}
	if v, ok := p.Doubles[name]; ok {
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	return "", false
}

// GlobalVariables is the read-only global environment of a program. It shares
// the dual-map shape of ParameterValues.
type GlobalVariables struct {
	Ints    map[string]int
	Doubles map[string]float64
}

// NewGlobalVariables returns an empty environment.
func NewGlobalVariables() GlobalVariables {
	return GlobalVariables{Ints: make(map[string]int), Doubles: make(map[string]float64)}
}

// LocalVariables are the integer-valued variables owned by one process
// instance, written only by binding receives.
type LocalVariables map[string]int

// Copy returns an independent copy of the variables.
func (l LocalVariables) Copy() LocalVariables {
	if l == nil {
		return LocalVariables{}
	}
	return LocalVariables(maps.Clone(map[string]int(l)))
}
