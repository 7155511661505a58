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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon-calculus/bcs/lang"
	"github.com/beacon-calculus/bcs/sim/simtest"
)

func handshakeSend(owner *Process, value int, rate float64) *Candidate {
	c := newCandidate(simtest.HandshakeSend("P", "c", "0", "1.0"), owner, nil, owner.params)
	c.rate = rate
	c.sent = []int{value}
	return c
}

func handshakeReceive(owner *Process, bounds ...lang.Bounds) *Candidate {
	c := newCandidate(simtest.HandshakeReceive("Q", "c", "0 10 ..", ""), owner, nil, owner.params)
	c.pattern = [][]lang.Bounds{bounds}
	return c
}

func TestHandshakePairing(t *testing.T) {
	ch := newHandshakeChannel("c")
	sender, receiver := newTestProcess(), newTestProcess()

	ch.addSend(handshakeSend(sender, 5, 2.0))
	ch.addReceive(handshakeReceive(receiver, lang.Bounds{Lower: 0, Upper: 10}))

	added, rate := ch.update()
	assert.Equal(t, 1, added)
	assert.InDelta(t, 2.0, rate, 1e-12, "a pairing contributes the send rate only")

	added, rate = ch.update()
	assert.Zero(t, added, "update must report deltas, not absolutes")
	assert.Zero(t, rate)

	require.Len(t, ch.pairs, 1)
	assert.Equal(t, 5, ch.pairs[0].Value)
}

func TestHandshakeDisjointOwners(t *testing.T) {
	ch := newHandshakeChannel("c")
	owner := newTestProcess()

	ch.addSend(handshakeSend(owner, 5, 2.0))
	ch.addReceive(handshakeReceive(owner, lang.Bounds{Lower: 0, Upper: 10}))

	added, _ := ch.update()
	assert.Zero(t, added, "a process must not shake hands with itself")
}

func TestHandshakeValueOutsideRanges(t *testing.T) {
	ch := newHandshakeChannel("c")
	sender, receiver := newTestProcess(), newTestProcess()

	ch.addSend(handshakeSend(sender, 42, 2.0))
	ch.addReceive(handshakeReceive(receiver, lang.Bounds{Lower: 0, Upper: 10}))

	added, _ := ch.update()
	assert.Zero(t, added, "the sent value must lie within the receive ranges")
}

func TestHandshakeManyToMany(t *testing.T) {
	ch := newHandshakeChannel("c")
	s1, s2, r1, r2 := newTestProcess(), newTestProcess(), newTestProcess(), newTestProcess()

	ch.addSend(handshakeSend(s1, 1, 1.0))
	ch.addSend(handshakeSend(s2, 2, 2.0))
	ch.addReceive(handshakeReceive(r1, lang.Bounds{Lower: 0, Upper: 10}))
	ch.addReceive(handshakeReceive(r2, lang.Bounds{Lower: 2, Upper: 2}))

	added, rate := ch.update()
	assert.Equal(t, 3, added, "s1 pairs with r1 only; s2 pairs with both receivers")
	assert.InDelta(t, 1.0+2.0+2.0, rate, 1e-12)
}

func TestHandshakePickSweep(t *testing.T) {
	ch := newHandshakeChannel("c")
	s1, s2, r := newTestProcess(), newTestProcess(), newTestProcess()

	ch.addSend(handshakeSend(s1, 1, 1.0))
	ch.addSend(handshakeSend(s2, 2, 3.0))
	ch.addReceive(handshakeReceive(r, lang.Bounds{Lower: 0, Upper: 10}))
	_, total := ch.update()

	running := 0.0
	got := ch.pick(&running, 0.2, total)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Value)

	running = 0.0
	got = ch.pick(&running, 0.8, total)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Value)

	running = 0.0
	assert.Nil(t, ch.pick(&running, 2.0, total))
	assert.InDelta(t, total, running, 1e-12)
}

func TestHandshakeCleanProcess(t *testing.T) {
	ch := newHandshakeChannel("c")
	s1, s2, r := newTestProcess(), newTestProcess(), newTestProcess()

	ch.addSend(handshakeSend(s1, 1, 1.0))
	ch.addSend(handshakeSend(s2, 2, 3.0))
	ch.addReceive(handshakeReceive(r, lang.Bounds{Lower: 0, Upper: 10}))
	added, _ := ch.update()
	require.Equal(t, 2, added)

	removed, rate := ch.cleanProcess(s1)
	assert.Equal(t, 1, removed)
	assert.InDelta(t, 1.0, rate, 1e-12)
	require.Len(t, ch.pairs, 1)
	require.Len(t, ch.sends, 1)

	removed, rate = ch.cleanProcess(r)
	assert.Equal(t, 1, removed)
	assert.InDelta(t, 3.0, rate, 1e-12)
	assert.Empty(t, ch.pairs)
	assert.Empty(t, ch.receives)

	// The surviving send re-pairs with a fresh receiver.
	r2 := newTestProcess()
	ch.addReceive(handshakeReceive(r2, lang.Bounds{Lower: 0, Upper: 10}))
	added, rate = ch.update()
	assert.Equal(t, 1, added)
	assert.InDelta(t, 3.0, rate, 1e-12)
}
