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
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/beacon-calculus/bcs/expr"
	"github.com/beacon-calculus/bcs/lang"
	"github.com/beacon-calculus/bcs/log"
)

// ReplicateSeparator is written on its own line before each replicate's
// trace.
const ReplicateSeparator = ">======="

// A Config bounds a simulation run.
type Config struct {
	// Simulations is the number of independent replicates.
	Simulations int
	// Threads caps how many replicates run concurrently.
	Threads int
	// MaxTransitions bounds the transitions fired per replicate.
	MaxTransitions int
	// MaxDuration bounds the simulated time per replicate, in seconds.
	MaxDuration float64
}

// SimulateSystem runs cfg.Simulations independent replicates of the program
// and writes each trace to out, preceded by [ReplicateSeparator]. Replicates
// share nothing but the sink, which is serialized under a lock; at most
// cfg.Threads run concurrently. A failing replicate does not stop the
// others; once all have finished, the first replicate error is returned.
func SimulateSystem(p *lang.Program, ev expr.Evaluator, cfg Config, out io.Writer, opts ...Option) error {
	c := applyOptions(opts)
	log.Debug("simulation starting", "replicates", cfg.Simulations, "threads", cfg.Threads, "evaluator", log.TypeOf(ev))

	seeds := make([]int64, cfg.Simulations)
	for i := range seeds {
		if c.rng != nil {
			seeds[i] = c.rng.Int63()
		} else {
			seeds[i] = randomSeed()
		}
	}

	var (
		mu        sync.Mutex
		completed int
	)
	g := new(errgroup.Group)
	g.SetLimit(max(cfg.Threads, 1))

	for i := 0; i < cfg.Simulations; i++ {
		seed := seeds[i]
		g.Go(func() error {
			sys, err := NewSystem(p, ev, cfg.MaxTransitions, cfg.MaxDuration, WithRand(rand.New(rand.NewSource(seed))))
			if err != nil {
				return fmt.Errorf("building replicate: %w", err)
			}
			if err := sys.Simulate(); err != nil {
				return fmt.Errorf("running replicate: %w", err)
			}

			mu.Lock()
			defer mu.Unlock()
			if _, err := fmt.Fprintln(out, ReplicateSeparator); err != nil {
				return fmt.Errorf("writing trace: %w", err)
			}
			if _, err := io.WriteString(out, sys.Trace()); err != nil {
				return fmt.Errorf("writing trace: %w", err)
			}
			completed++
			if c.progress != nil {
				c.progress(completed, cfg.Simulations)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Debug("simulation complete", "replicates", cfg.Simulations)
	return nil
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("sim: reading random seed: %v", err))
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
