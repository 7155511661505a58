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
	"math/rand"

	"github.com/beacon-calculus/bcs/internal/options"
)

type config struct {
	rng      *rand.Rand
	progress func(completed, total int)
}

// An Option configures [NewSystem] or [SimulateSystem].
type Option = options.Option[config]

func applyOptions(opts []Option) *config {
	return options.As(opts...)
}

// WithRand supplies the pseudo-random source. [NewSystem] draws the
// replicate's exponential and uniform variates from it; [SimulateSystem]
// derives each replicate's seed from it, making each replicate's trace
// reproducible. Traces reach the sink in completion order, so the order of
// replicates in the output is fixed only when one thread is used. The
// default source is seeded nondeterministically.
func WithRand(r *rand.Rand) Option {
	return options.Func[config](func(c *config) { c.rng = r })
}

// WithProgress registers a callback invoked by [SimulateSystem] after each
// completed replicate, under the driver's output lock.
func WithProgress(f func(completed, total int)) Option {
	return options.Func[config](func(c *config) { c.progress = f })
}
