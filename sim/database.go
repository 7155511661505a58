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

package sim

import (
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"

	"github.com/beacon-calculus/bcs/lang"
)

// A database holds the tuples currently emitted on one beacon channel, keyed
// by arity. Emitting the same tuple twice stores it once.
type database struct {
	arities map[int]mapset.Set[string]
}

func newDatabase() *database {
	return &database{arities: make(map[int]mapset.Set[string])}
}

func encodeTuple(t []int) string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decodeTuple(s string) []int {
	parts := strings.Split(s, ",")
	t := make([]int, len(parts))
	for i, p := range parts {
		t[i], _ = strconv.Atoi(p)
	}
	return t
}

func (db *database) insert(t []int) {
	set, ok := db.arities[len(t)]
	if !ok {
		set = mapset.NewThreadUnsafeSet[string]()
		db.arities[len(t)] = set
	}
	set.Add(encodeTuple(t))
}

func (db *database) remove(t []int) {
	if set, ok := db.arities[len(t)]; ok {
		set.Remove(encodeTuple(t))
	}
}

func (db *database) contains(t []int) bool {
	set, ok := db.arities[len(t)]
	return ok && set.Contains(encodeTuple(t))
}

// matching returns the stored tuples of the pattern's arity that lie within
// the pattern's per-dimension bounds, in lexicographic order.
func (db *database) matching(pattern [][]lang.Bounds) [][]int {
	set, ok := db.arities[len(pattern)]
	if !ok {
		return nil
	}

	var out [][]int
	set.Each(func(key string) bool {
		tuple := decodeTuple(key)
		for dim, disjunction := range pattern {
			if !lang.Within(tuple[dim], disjunction) {
				return false
			}
		}
		out = append(out, tuple)
		return false
	})

	slices.SortFunc(out, slices.Compare[[]int])
	return out
}
