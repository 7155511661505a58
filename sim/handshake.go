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
	"github.com/beacon-calculus/bcs/lang"
)

// A Pair is one matched handshake: a send candidate, a receive candidate
// with a distinct owner, and the sent value, which lies within the receive's
// admissible ranges. The pair fires at the send rate; the receive side is
// passive selection and contributes no rate of its own.
type Pair struct {
	Send    *Candidate
	Receive *Candidate
	// Value is the integer carried across the rendezvous, bound into the
	// receiver's continuation when the receive names a variable.
	Value int
}

type pairKey struct {
	send    *Candidate
	receive *Candidate
}

// A HandshakeChannel matches send and receive candidates on one name into
// firable rendezvous pairs.
type HandshakeChannel struct {
	name     string
	sends    []*Candidate
	receives []*Candidate

	// pairs is the current matching in insertion order; paired indexes it so
	// update only reports pairs formed since the previous call.
	pairs  []*Pair
	paired map[pairKey]bool
}

func newHandshakeChannel(name string) *HandshakeChannel {
	return &HandshakeChannel{name: name, paired: make(map[pairKey]bool)}
}

// Name returns the channel name, after parameter substitution.
func (ch *HandshakeChannel) Name() string { return ch.name }

// addSend admits a send candidate. The candidate carries exactly one sent
// value and a positive rate.
func (ch *HandshakeChannel) addSend(c *Candidate) {
	ch.sends = append(ch.sends, c)
}

// addReceive admits a receive candidate carrying its admissible-value
// ranges.
func (ch *HandshakeChannel) addReceive(c *Candidate) {
	ch.receives = append(ch.receives, c)
}

// update recomputes the matching and returns the number and rate sum of the
// pairs added since the last call. Deltas, not absolutes: removals are
// accounted by cleanProcess.
func (ch *HandshakeChannel) update() (added int, rateDelta float64) {
	for _, s := range ch.sends {
		for _, r := range ch.receives {
			if s.owner == r.owner {
				continue
			}
			if !lang.Within(s.sent[0], r.pattern[0]) {
				continue
			}
			key := pairKey{send: s, receive: r}
			if ch.paired[key] {
				continue
			}
			ch.paired[key] = true
			ch.pairs = append(ch.pairs, &Pair{Send: s, Receive: r, Value: s.sent[0]})
			added++
			rateDelta += s.rate
		}
	}
	return added, rateDelta
}

// pick runs the shared inverse-CDF sweep over the channel's pairs in
// insertion order, accumulating into running. It returns the pair whose
// cumulative interval contains u, or nil if the draw lies beyond this
// channel.
func (ch *HandshakeChannel) pick(running *float64, u, total float64) *Pair {
	for _, p := range ch.pairs {
		lower := *running / total
		upper := (*running + p.Send.rate) / total
		if u > lower && u <= upper {
			return p
		}
		*running += p.Send.rate
	}
	return nil
}

// cleanProcess removes every candidate owned by sp and every pairing it
// participates in, returning the lost pair count and rate sum.
func (ch *HandshakeChannel) cleanProcess(sp *Process) (removed int, rateDelta float64) {
	keepPairs := ch.pairs[:0]
	for _, p := range ch.pairs {
		if p.Send.owner == sp || p.Receive.owner == sp {
			delete(ch.paired, pairKey{send: p.Send, receive: p.Receive})
			removed++
			rateDelta += p.Send.rate
			continue
		}
		keepPairs = append(keepPairs, p)
	}
	ch.pairs = keepPairs

	keep := func(list []*Candidate) []*Candidate {
		out := list[:0]
		for _, c := range list {
			if c.owner != sp {
				out = append(out, c)
			}
		}
		return out
	}
	ch.sends = keep(ch.sends)
	ch.receives = keep(ch.receives)
	return removed, rateDelta
}
