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
	"github.com/beacon-calculus/bcs/expr"
	"github.com/beacon-calculus/bcs/lang"
)

// A BeaconChannel carries asynchronous, persistent messages: launches insert
// tuples into the channel's database, kills remove them, and receives match
// patterns against the stored tuples without consuming them.
//
// Receive and check candidates are classified as potential (no current
// match, contributing nothing) or active (matchable, contributing their
// rate). Kill candidates are likewise only active while their tuple is
// present. Classification is refreshed by update after every transition.
type BeaconChannel struct {
	name    string
	ev      expr.Evaluator
	globals lang.GlobalVariables
	db      *database

	// Insertion-ordered candidate lists. Sends hold launches and kills;
	// receives and checks move between potential and active as the database
	// evolves.
	sends     []*Candidate
	potential []*Candidate
	active    []*Candidate
}

func newBeaconChannel(name string, ev expr.Evaluator, globals lang.GlobalVariables) *BeaconChannel {
	return &BeaconChannel{name: name, ev: ev, globals: globals, db: newDatabase()}
}

// Name returns the channel name, after parameter substitution.
func (ch *BeaconChannel) Name() string { return ch.name }

// addCandidate evaluates and classifies a beacon action discovered on a
// walk. Sends are admitted immediately (kills only while their tuple is
// present); receives and checks are admitted as active or potential
// depending on the current database.
func (ch *BeaconChannel) addCandidate(b lang.Block, owner *Process, residuals []residual, params lang.ParameterValues, t *tally) error {
	scope := expr.Scope{Params: params, Globals: ch.globals, Locals: owner.locals}

	rate, err := ch.rateOf(b, scope)
	if err != nil {
		return err
	}

	c := newCandidate(b, owner, residuals, params)
	c.rate = rate

	switch blk := b.(type) {
	case *lang.MessageSend:
		c.sent = make([]int, len(blk.Values))
		for i, v := range blk.Values {
			if c.sent[i], err = ch.ev.Int(v, scope); err != nil {
				return err
			}
		}
		c.active = !blk.Kill || ch.db.contains(c.sent)
		ch.sends = append(ch.sends, c)
		if c.active {
			t.add(c.rate)
		}

	case *lang.MessageReceive:
		c.pattern = make([][]lang.Bounds, len(blk.Pattern))
		for i, p := range blk.Pattern {
			if c.pattern[i], err = ch.ev.Ranges(p, scope); err != nil {
				return err
			}
		}
		c.matches = ch.db.matching(c.pattern)
		if c.active = c.matchable(); c.active {
			ch.active = append(ch.active, c)
			t.add(c.rate)
		} else {
			ch.potential = append(ch.potential, c)
		}
	}
	return nil
}

func (ch *BeaconChannel) rateOf(b lang.Block, scope expr.Scope) (float64, error) {
	var e lang.Expression
	switch blk := b.(type) {
	case *lang.MessageSend:
		e = blk.Rate
	case *lang.MessageReceive:
		e = blk.Rate
	}
	rate, err := ch.ev.Double(e, scope)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, &BadRateError{Tok: b.Token(), Rate: rate}
	}
	return rate, nil
}

// update re-examines every reclassifiable candidate against the current
// database: potentials whose match now exists are promoted, actives whose
// match has gone are demoted, and kill candidates toggle with the presence
// of their tuple. Called after every transition.
func (ch *BeaconChannel) update(t *tally) {
	for _, c := range ch.sends {
		send := c.action.(*lang.MessageSend)
		if !send.Kill {
			continue
		}
		present := ch.db.contains(c.sent)
		if present == c.active {
			continue
		}
		c.active = present
		if present {
			t.add(c.rate)
		} else {
			t.remove(c.rate)
		}
	}

	var stillPotential, nowActive []*Candidate
	for _, c := range ch.potential {
		c.matches = ch.db.matching(c.pattern)
		if c.matchable() {
			nowActive = append(nowActive, c)
		} else {
			stillPotential = append(stillPotential, c)
		}
	}

	var stillActive []*Candidate
	for _, c := range ch.active {
		c.matches = ch.db.matching(c.pattern)
		if c.matchable() {
			stillActive = append(stillActive, c)
		} else {
			c.active = false
			t.remove(c.rate)
			stillPotential = append(stillPotential, c)
		}
	}
	for _, c := range nowActive {
		c.active = true
		t.add(c.rate)
		stillActive = append(stillActive, c)
	}

	ch.potential = stillPotential
	ch.active = stillActive
}

// pick runs the shared inverse-CDF sweep over the channel's firable
// candidates, in insertion order: active sends first, then active receives.
// running accumulates across channels; the first candidate whose cumulative
// interval contains u is returned, or nil if the draw lies beyond this
// channel.
func (ch *BeaconChannel) pick(running *float64, u, total float64) *Candidate {
	for _, list := range [][]*Candidate{ch.sends, ch.active} {
		for _, c := range list {
			if !c.active {
				continue
			}
			lower := *running / total
			upper := (*running + c.rate) / total
			if u > lower && u <= upper {
				return c
			}
			*running += c.rate
		}
	}
	return nil
}

// applyFiring applies the chosen candidate's effect to the database: a
// launch inserts its tuple, a kill removes it, receives and checks leave the
// database untouched.
func (ch *BeaconChannel) applyFiring(c *Candidate) {
	send, ok := c.action.(*lang.MessageSend)
	if !ok {
		return
	}
	if send.Kill {
		ch.db.remove(c.sent)
	} else {
		ch.db.insert(c.sent)
	}
}

// cleanProcess removes every candidate owned by sp, folding the lost
// contributions into the tally.
func (ch *BeaconChannel) cleanProcess(sp *Process, t *tally) {
	keep := func(list []*Candidate) []*Candidate {
		out := list[:0]
		for _, c := range list {
			if c.owner != sp {
				out = append(out, c)
				continue
			}
			if c.active {
				t.remove(c.rate)
			}
		}
		return out
	}
	ch.sends = keep(ch.sends)
	ch.active = keep(ch.active)
	ch.potential = keep(ch.potential)
}
