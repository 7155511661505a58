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
	"fmt"
	"math/rand"
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/beacon-calculus/bcs/expr"
	"github.com/beacon-calculus/bcs/lang"
	"github.com/beacon-calculus/bcs/log"
)

// A System is one simulation replicate: the live process instances, the
// channel maps, the candidate bookkeeping and the Gillespie clock. A System
// is strictly sequential and must not be shared across goroutines; run
// independent replicates with [SimulateSystem].
type System struct {
	defs    map[string]lang.ProcessDefinition
	globals lang.GlobalVariables
	ev      expr.Evaluator
	rng     *rand.Rand

	processes []*Process
	nonMsg    map[*Process][]*Candidate

	// Channel maps are paired with insertion-order name slices so the
	// selection sweep visits channels in a reproducible order.
	beacons        map[string]*BeaconChannel
	beaconNames    []string
	handshakes     map[string]*HandshakeChannel
	handshakeNames []string

	tally       tally
	totalTime   float64
	transitions int

	maxTransitions int
	maxDuration    float64

	trace trace
}

// NewSystem builds a replicate from a parsed program: it materializes the
// initial processes (splitting parallel roots), discovers their candidates
// and folds the initial handshake matching.
func NewSystem(p *lang.Program, ev expr.Evaluator, maxTransitions int, maxDuration float64, opts ...Option) (*System, error) {
	cfg := applyOptions(opts)

	s := &System{
		defs:           p.Definitions,
		globals:        p.Globals,
		ev:             ev,
		rng:            cfg.rng,
		nonMsg:         make(map[*Process][]*Candidate),
		beacons:        make(map[string]*BeaconChannel),
		handshakes:     make(map[string]*HandshakeChannel),
		maxTransitions: maxTransitions,
		maxDuration:    maxDuration,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(randomSeed()))
	}

	var initial []*Process
	for _, root := range p.Initial {
		seed := &Process{root: root, params: lang.NewParameterValues(), locals: lang.LocalVariables{}}
		initial = append(initial, splitOnParallel(seed)...)
	}
	if err := s.admit(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// admit discovers candidates for freshly created processes, adds them to the
// live set and folds the resulting handshake deltas.
func (s *System) admit(added []*Process) error {
	for _, p := range added {
		if err := s.discover(p, p.root, nil, p.params); err != nil {
			return err
		}
	}
	for _, name := range s.handshakeNames {
		n, rate := s.handshakes[name].update()
		s.tally.candidates += n
		s.tally.rateSum += rate
	}
	s.processes = append(s.processes, added...)
	return nil
}

// splitOnParallel recursively splits a process whose root is a Parallel into
// instances with non-Parallel roots, each sharing the parent's environment.
// A handshake between two branches of a single instance would otherwise be
// invisible to the channel's disjoint-owner rule.
func splitOnParallel(p *Process) []*Process {
	if p.root.Kind() != lang.KindParallel {
		return []*Process{p}
	}
	var out []*Process
	for _, child := range p.root.Children() {
		out = append(out, splitOnParallel(&Process{
			root:   child,
			params: p.params.Copy(),
			locals: p.locals.Copy(),
		})...)
	}
	return out
}

// substituteChannelName reinterprets a channel name that coincides with an
// integer-bound parameter as that integer's decimal form. Substitution
// happens at discovery, never at firing.
func substituteChannelName(name string, params lang.ParameterValues) string {
	if v, ok := params.Ints[name]; ok {
		return strconv.Itoa(v)
	}
	return name
}

func (s *System) beacon(name string) *BeaconChannel {
	ch, ok := s.beacons[name]
	if !ok {
		ch = newBeaconChannel(name, s.ev, s.globals)
		s.beacons[name] = ch
		s.beaconNames = append(s.beaconNames, name)
	}
	return ch
}

func (s *System) handshake(name string) *HandshakeChannel {
	ch, ok := s.handshakes[name]
	if !ok {
		ch = newHandshakeChannel(name)
		s.handshakes[name] = ch
		s.handshakeNames = append(s.handshakeNames, name)
	}
	return ch
}

// discover walks a process's parse tree from b, collecting every enabled
// transition candidate under the current parameter environment. residuals
// accumulates the Parallel siblings that survive if a candidate on this
// branch fires.
func (s *System) discover(p *Process, b lang.Block, residuals []residual, params lang.ParameterValues) error {
	scope := expr.Scope{Params: params, Globals: s.globals, Locals: p.locals}

	switch blk := b.(type) {
	case *lang.Action:
		rate, err := s.ev.Double(blk.Rate, scope)
		if err != nil {
			return err
		}
		if rate <= 0 {
			return &BadRateError{Tok: blk.Token(), Rate: rate}
		}
		c := newCandidate(blk, p, residuals, params)
		c.rate = rate
		s.nonMsg[p] = append(s.nonMsg[p], c)
		s.tally.add(rate)

	case *lang.MessageSend:
		channel := substituteChannelName(blk.Channel, params)
		if !blk.Handshake {
			return s.beacon(channel).addCandidate(blk, p, residuals, params, &s.tally)
		}
		rate, err := s.ev.Double(blk.Rate, scope)
		if err != nil {
			return err
		}
		if rate <= 0 {
			return &BadRateError{Tok: blk.Token(), Rate: rate}
		}
		value, err := s.ev.Int(blk.Values[0], scope)
		if err != nil {
			return err
		}
		c := newCandidate(blk, p, residuals, params)
		c.rate = rate
		c.sent = []int{value}
		s.handshake(channel).addSend(c)

	case *lang.MessageReceive:
		channel := substituteChannelName(blk.Channel, params)
		if !blk.Handshake {
			return s.beacon(channel).addCandidate(blk, p, residuals, params, &s.tally)
		}
		ranges, err := s.ev.Ranges(blk.Pattern[0], scope)
		if err != nil {
			return err
		}
		c := newCandidate(blk, p, residuals, params)
		c.pattern = [][]lang.Bounds{ranges}
		s.handshake(channel).addReceive(c)

	case *lang.Gate:
		holds, err := s.ev.Condition(blk.Condition, scope)
		if err != nil {
			return err
		}
		if holds {
			return s.discover(p, blk.Children()[0], residuals, params)
		}

	case *lang.ProcessRef:
		def, ok := s.defs[blk.Name]
		if !ok {
			return &UndefinedProcessError{Tok: blk.Token(), Name: blk.Name}
		}
		if len(blk.Actuals) != len(def.Parameters) {
			return &ArityError{Tok: blk.Token(), Name: blk.Name, Want: len(def.Parameters), Got: len(blk.Actuals)}
		}
		next := params.Copy()
		for i, formal := range def.Parameters {
			actual := blk.Actuals[i]
			if s.ev.CastsToDouble(actual, scope) {
				v, err := s.ev.Double(actual, scope)
				if err != nil {
					return err
				}
				next.SetDouble(formal, v)
			} else {
				v, err := s.ev.Int(actual, scope)
				if err != nil {
					return err
				}
				next.SetInt(formal, v)
			}
		}
		return s.discover(p, def.Root, residuals, next)

	case *lang.Parallel:
		children := blk.Children()
		left := append(slices.Clone(residuals), residual{root: children[1], params: params.Copy(), locals: p.locals.Copy()})
		if err := s.discover(p, children[0], left, params); err != nil {
			return err
		}
		right := append(slices.Clone(residuals), residual{root: children[0], params: params.Copy(), locals: p.locals.Copy()})
		return s.discover(p, children[1], right, params)

	default:
		for _, child := range b.Children() {
			if err := s.discover(p, child, residuals, params); err != nil {
				return err
			}
		}
	}
	return nil
}

// continuation builds the process instance that carries on after c fires: a
// new instance rooted at the action's single child, inheriting the
// candidate's parameters and the owner's locals. A leaf action has no
// continuation; its owner simply dies.
func (s *System) continuation(c *Candidate) *Process {
	children := c.action.Children()
	if len(children) == 0 {
		return nil
	}
	return &Process{
		root:   children[0],
		params: c.params.Copy(),
		locals: c.owner.locals.Copy(),
	}
}

// removeChosen strips every candidate owned by sp from the system, folds the
// lost contributions, reclassifies the beacon channels and destroys the
// instance.
func (s *System) removeChosen(sp *Process) {
	for _, c := range s.nonMsg[sp] {
		s.tally.remove(c.rate)
	}
	delete(s.nonMsg, sp)

	for _, name := range s.beaconNames {
		s.beacons[name].cleanProcess(sp, &s.tally)
	}
	for _, name := range s.handshakeNames {
		n, rate := s.handshakes[name].cleanProcess(sp)
		s.tally.candidates -= n
		s.tally.rateSum -= rate
	}
	for _, name := range s.beaconNames {
		s.beacons[name].update(&s.tally)
	}

	if i := slices.Index(s.processes, sp); i >= 0 {
		s.processes = slices.Delete(s.processes, i, i+1)
	}
}

// Simulate runs the Gillespie loop until candidates are exhausted, the
// transition bound is reached or simulated time exceeds the duration bound.
func (s *System) Simulate() error {
	for s.tally.candidates > 0 && s.transitions < s.maxTransitions && s.totalTime <= s.maxDuration {
		s.totalTime += s.rng.ExpFloat64() / s.tally.rateSum
		if err := s.step(s.rng.Float64()); err != nil {
			return err
		}
	}
	log.Debug("replicate finished", "transitions", s.transitions, "time", s.totalTime, "candidates", s.tally.candidates)
	return nil
}

// step selects and fires the transition at uniform draw u. The inverse-CDF
// sweep shares one running cumulative across non-message candidates, beacon
// channels and handshake channels, in that fixed order. Failure to select
// means the rate bookkeeping has drifted and is fatal.
func (s *System) step(u float64) error {
	running := 0.0
	total := s.tally.rateSum

	for _, p := range s.processes {
		for _, c := range s.nonMsg[p] {
			lower := running / total
			upper := (running + c.rate) / total
			if u > lower && u <= upper {
				return s.fire(c, nil)
			}
			running += c.rate
		}
	}

	for _, name := range s.beaconNames {
		if c := s.beacons[name].pick(&running, u, total); c != nil {
			return s.fire(c, s.beacons[name])
		}
	}

	for _, name := range s.handshakeNames {
		if pair := s.handshakes[name].pick(&running, u, total); pair != nil {
			return s.fireHandshake(pair)
		}
	}

	panic(fmt.Sprintf("sim: no transition selected with %d candidates left (u=%v, rate sum %v)",
		s.tally.candidates, u, s.tally.rateSum))
}

// fire applies a non-message or beacon transition: materialize the winner's
// residuals, build its continuation, bind a received value if the action
// binds one, serialize, and rebuild the candidate pool around the change.
func (s *System) fire(c *Candidate, ch *BeaconChannel) error {
	toAdd := s.materializeResiduals(c)

	cont := s.continuation(c)
	if cont != nil {
		if recv, ok := c.action.(*lang.MessageReceive); ok && recv.BindsVariable() {
			// Classification admits binding receives only with a singleton
			// match set.
			if len(c.matches) != 1 {
				panic(fmt.Sprintf("sim: binding receive on %q fired with %d matches", recv.Channel, len(c.matches)))
			}
			cont.locals[recv.Bind] = c.matches[0][0]
		}
		toAdd = append(toAdd, cont)
	}

	s.trace.record(s.totalTime, c, s.defs)

	if ch != nil {
		ch.applyFiring(c)
	}
	s.removeChosen(c.owner)
	s.transitions++

	return s.rebuild(toAdd)
}

// fireHandshake applies a matched rendezvous: both sides advance, the send
// line is serialized before the receive line with the same timestamp, and
// the received value is bound into the receiver's continuation.
func (s *System) fireHandshake(pair *Pair) error {
	toAdd := s.materializeResiduals(pair.Send)
	if cont := s.continuation(pair.Send); cont != nil {
		toAdd = append(toAdd, cont)
	}

	toAdd = append(toAdd, s.materializeResiduals(pair.Receive)...)
	if cont := s.continuation(pair.Receive); cont != nil {
		recv := pair.Receive.action.(*lang.MessageReceive)
		if recv.BindsVariable() {
			cont.locals[recv.Bind] = pair.Value
		}
		toAdd = append(toAdd, cont)
	}

	s.trace.record(s.totalTime, pair.Send, s.defs)
	s.trace.record(s.totalTime, pair.Receive, s.defs)

	s.removeChosen(pair.Send.owner)
	s.removeChosen(pair.Receive.owner)
	s.transitions++

	return s.rebuild(toAdd)
}

func (s *System) materializeResiduals(c *Candidate) []*Process {
	var out []*Process
	for _, r := range c.residuals {
		out = append(out, r.materialize())
	}
	return out
}

// rebuild splits any Parallel-rooted additions and discovers their
// candidates, restoring the no-parallel-root invariant.
func (s *System) rebuild(toAdd []*Process) error {
	var flat []*Process
	for _, p := range toAdd {
		flat = append(flat, splitOnParallel(p)...)
	}
	return s.admit(flat)
}

// CandidatesLeft returns the number of distinct firable events.
func (s *System) CandidatesLeft() int { return s.tally.candidates }

// RateSum returns the sum of all firable rates.
func (s *System) RateSum() float64 { return s.tally.rateSum }

// TotalTime returns the simulated time consumed so far.
func (s *System) TotalTime() float64 { return s.totalTime }

// Transitions returns the number of transitions fired so far.
func (s *System) Transitions() int { return s.transitions }

// Trace returns the transition lines recorded so far.
func (s *System) Trace() string { return s.trace.String() }

// audit recomputes the candidate count and rate sum from the ground truth of
// every collection. Engine tests compare it against the incremental tally
// after each transition.
func (s *System) audit() (candidates int, rateSum float64) {
	for _, p := range s.processes {
		for _, c := range s.nonMsg[p] {
			candidates++
			rateSum += c.rate
		}
	}
	for _, name := range s.beaconNames {
		ch := s.beacons[name]
		for _, c := range ch.sends {
			if c.active {
				candidates++
				rateSum += c.rate
			}
		}
		for _, c := range ch.active {
			candidates++
			rateSum += c.rate
		}
	}
	for _, name := range s.handshakeNames {
		for _, p := range s.handshakes[name].pairs {
			candidates++
			rateSum += p.Send.rate
		}
	}
	return candidates, rateSum
}
