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
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon-calculus/bcs/expr"
	"github.com/beacon-calculus/bcs/lang"
	"github.com/beacon-calculus/bcs/sim/simtest"
)

func singleActionProgram() *lang.Program {
	return simtest.Program(
		[]lang.Block{simtest.Ref("", "P")},
		simtest.Def("P", nil, simtest.Action("P", "a", "2.0")),
	)
}

func TestSimulateSystemReplicates(t *testing.T) {
	cfg := Config{Simulations: 4, Threads: 2, MaxTransitions: 10, MaxDuration: math.Inf(1)}

	var out bytes.Buffer
	require.NoError(t, SimulateSystem(singleActionProgram(), expr.RPN{}, cfg, &out))

	var separators, transitions int
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if line == ReplicateSeparator {
			separators++
			continue
		}
		transitions++
		assert.Contains(t, line, "\ta\tP", "unexpected transition line %q", line)
	}
	assert.Equal(t, 4, separators, "one separator per replicate")
	assert.Equal(t, 4, transitions, "one transition per replicate")
}

func TestSimulateSystemDeterministicWithSeed(t *testing.T) {
	cfg := Config{Simulations: 3, Threads: 1, MaxTransitions: 10, MaxDuration: math.Inf(1)}

	run := func(seed int64) string {
		var out bytes.Buffer
		err := SimulateSystem(singleActionProgram(), expr.RPN{}, cfg, &out,
			WithRand(rand.New(rand.NewSource(seed))))
		require.NoError(t, err)
		return out.String()
	}

	assert.Equal(t, run(42), run(42), "a seeded single-threaded run must replay exactly")
	assert.NotEqual(t, run(42), run(43), "distinct seeds must draw distinct schedules")
}

func TestSimulateSystemProgress(t *testing.T) {
	cfg := Config{Simulations: 5, Threads: 2, MaxTransitions: 10, MaxDuration: math.Inf(1)}

	var calls []int
	var out bytes.Buffer
	err := SimulateSystem(singleActionProgram(), expr.RPN{}, cfg, &out,
		WithProgress(func(completed, total int) {
			assert.Equal(t, 5, total)
			calls = append(calls, completed)
		}))
	require.NoError(t, err)

	require.Len(t, calls, 5)
	for i, completed := range calls {
		assert.Equalf(t, i+1, completed, "progress must report completions in order")
	}
}

func TestSimulateSystemPropagatesErrors(t *testing.T) {
	prog := simtest.Program(
		[]lang.Block{simtest.Ref("", "P")},
		simtest.Def("P", nil, simtest.Action("P", "a", "0.0")),
	)
	cfg := Config{Simulations: 2, Threads: 2, MaxTransitions: 10, MaxDuration: math.Inf(1)}

	var out bytes.Buffer
	err := SimulateSystem(prog, expr.RPN{}, cfg, &out)
	require.Error(t, err)

	var badRate *BadRateError
	assert.ErrorAs(t, err, &badRate)
}
