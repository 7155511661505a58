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

// Kind discriminates the block variants of a parse tree.
type Kind int

const (
	KindAction Kind = iota
	KindMessageSend
	KindMessageReceive
	KindGate
	KindProcess
	KindParallel
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "Action"
	case KindMessageSend:
		return "MessageSend"
	case KindMessageReceive:
		return "MessageReceive"
	case KindGate:
		return "Gate"
	case KindProcess:
		return "Process"
	case KindParallel:
		return "Parallel"
	}
	return "Unknown"
}

// A Block is one node of a process parse tree. Children are held on the node
// itself so that a subtree reference is a plain node pointer; definitions own
// their nodes and running process instances only hold cursors into them.
//
// Block values are immutable once a [Program] has been assembled. Many
// process instances may share subtrees of the same definition concurrently
// within a run.
type Block interface {
	Kind() Kind
	// Token is the source token anchoring the node, used in error messages.
	Token() Token
	Children() []Block
	// OwningProcess names the process definition this node belongs to. The
	// trace writer uses it to echo the definition's formal parameters.
	OwningProcess() string
}

type node struct {
	Tok      Token
	Process  string
	Subtrees []Block
}

func (n *node) Token() Token      { return n.Tok }
func (n *node) Children() []Block { return n.Subtrees }

func (n *node) OwningProcess() string { return n.Process }

// An Action is a named internal transition with a rate expression.
type Action struct {
	node
	Name string
	Rate Expression
}

func (*Action) Kind() Kind { return KindAction }

// A MessageSend emits on a channel. With Handshake set it is one half of a
// synchronous rendezvous and carries a rate; otherwise it is a beacon launch,
// or a beacon kill when Kill is set. The channel name may coincide with a
// parameter name bound to an integer, in which case the engine reinterprets
// it as that integer's decimal form.
type MessageSend struct {
	node
	Channel   string
	Handshake bool
	Kill      bool
	// Values is the tuple of expressions being sent. Handshake sends carry
	// exactly one value.
	Values []Expression
	Rate   Expression
}

func (*MessageSend) Kind() Kind { return KindMessageSend }

// A MessageReceive matches values on a channel. With Handshake set it is the
// passive half of a rendezvous and carries no rate of its own. Otherwise it
// observes a beacon: with Check set it is a pure existence query, without it
// a receive; both carry a rate. Bind, when non-empty, names the local
// variable the matched value is bound to.
type MessageReceive struct {
	node
	Channel   string
	Handshake bool
	Check     bool
	Bind      string
	// Pattern holds one set expression per tuple dimension.
	Pattern []Expression
	Rate    Expression
}

func (*MessageReceive) Kind() Kind { return KindMessageReceive }

// BindsVariable reports whether the receive binds its matched value.
func (r *MessageReceive) BindsVariable() bool { return r.Bind != "" }

// A Gate guards its single child with a boolean condition.
type Gate struct {
	node
	Condition Expression
}

func (*Gate) Kind() Kind { return KindGate }

// A ProcessRef re-enters a named process definition with actual-parameter
// expressions, evaluated in the caller's environment.
type ProcessRef struct {
	node
	Name    string
	Actuals []Expression
}

func (*ProcessRef) Kind() Kind { return KindProcess }

// A Parallel composes its exactly two children concurrently.
type Parallel struct {
	node
}

func (*Parallel) Kind() Kind { return KindParallel }

// NewAction, NewSend, NewReceive, NewGate, NewRef and NewParallel assemble
// blocks for a definition owned by process. Parsers and tests use them; the
// engine only reads blocks.

func NewAction(process string, tok Token, name string, rate Expression, children ...Block) *Action {
	return &Action{node: node{Tok: tok, Process: process, Subtrees: children}, Name: name, Rate: rate}
}

func NewSend(process string, tok Token, channel string, handshake, kill bool, values []Expression, rate Expression, children ...Block) *MessageSend {
	return &MessageSend{
		node:      node{Tok: tok, Process: process, Subtrees: children},
		Channel:   channel,
		Handshake: handshake,
		Kill:      kill,
		Values:    values,
		Rate:      rate,
	}
}

func NewReceive(process string, tok Token, channel string, handshake, check bool, bind string, pattern []Expression, rate Expression, children ...Block) *MessageReceive {
	return &MessageReceive{
		node:      node{Tok: tok, Process: process, Subtrees: children},
		Channel:   channel,
		Handshake: handshake,
		Check:     check,
		Bind:      bind,
		Pattern:   pattern,
		Rate:      rate,
	}
}

func NewGate(process string, tok Token, condition Expression, child Block) *Gate {
	return &Gate{node: node{Tok: tok, Process: process, Subtrees: []Block{child}}, Condition: condition}
}

func NewRef(process string, tok Token, name string, actuals ...Expression) *ProcessRef {
	return &ProcessRef{node: node{Tok: tok, Process: process}, Name: name, Actuals: actuals}
}

func NewParallel(process string, tok Token, left, right Block) *Parallel {
	return &Parallel{node: node{Tok: tok, Process: process, Subtrees: []Block{left, right}}}
}
