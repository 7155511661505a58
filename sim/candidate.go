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

// Package sim is the stochastic transition engine of bcs. It evolves a
// system of parallel-composed processes as a continuous-time Markov chain
// using the Gillespie algorithm, discovering firable transition candidates
// by walking process parse trees and matching them over handshake and beacon
// channels.
package sim

import (
	"github.com/beacon-calculus/bcs/lang"
)

// A Process is one running process instance: a cursor into a definition's
// parse tree, the parameter binding in effect, and its local variables.
// Identity is the pointer; two instances rooted at the same subtree are
// distinct.
//
// A live Process never has a Parallel root; parallel roots are split into
// separate instances before discovery.
type Process struct {
	root   lang.Block
	params lang.ParameterValues
	locals lang.LocalVariables
}

// A residual is the lightweight snapshot of a Parallel sibling: the subtree
// and environment that become a live Process only if the candidate carrying
// the snapshot fires.
type residual struct {
	root   lang.Block
	params lang.ParameterValues
	locals lang.LocalVariables
}

func (r residual) materialize() *Process {
	return &Process{root: r.root, params: r.params.Copy(), locals: r.locals.Copy()}
}

// A Candidate is one potentially-firable transition discovered on a walk:
// the action node, the environment at discovery, the owning instance, the
// sibling residuals that come along if it fires, its rate, and the evaluated
// message payload.
type Candidate struct {
	action    lang.Block
	params    lang.ParameterValues
	locals    lang.LocalVariables
	owner     *Process
	residuals []residual
	rate      float64

	// sent is the evaluated tuple of a send, pattern the per-dimension
	// bounds of a receive, matches the database tuples currently matching
	// the pattern (refreshed on every reclassification).
	sent    []int
	pattern [][]lang.Bounds
	matches [][]int

	// active reports whether the candidate currently contributes to the
	// rate sum. Launches are always active; kills and receives are
	// reclassified against the beacon database.
	active bool
}

func newCandidate(action lang.Block, owner *Process, residuals []residual, params lang.ParameterValues) *Candidate {
	snap := make([]residual, len(residuals))
	copy(snap, residuals)
	return &Candidate{
		action:    action,
		params:    params.Copy(),
		locals:    owner.locals.Copy(),
		owner:     owner,
		residuals: snap,
	}
}

// Rate returns the candidate's individual rate. Handshake receives carry no
// rate of their own; their pairings fire at the send rate.
func (c *Candidate) Rate() float64 { return c.rate }

// Action returns the parse node the candidate would fire.
func (c *Candidate) Action() lang.Block { return c.action }

// matchable reports whether the candidate's current match set admits firing:
// at least one matching tuple, and exactly one if the receive binds a
// variable.
func (c *Candidate) matchable() bool {
	if len(c.matches) == 0 {
		return false
	}
	if recv, ok := c.action.(*lang.MessageReceive); ok && recv.BindsVariable() {
		return len(c.matches) == 1
	}
	return true
}

// tally tracks the two global accumulators of the engine: the number of
// distinct firable events and the sum of their rates.
type tally struct {
	candidates int
	rateSum    float64
}

func (t *tally) add(rate float64) {
	t.candidates++
	t.rateSum += rate
}

func (t *tally) remove(rate float64) {
	t.candidates--
	t.rateSum -= rate
}
