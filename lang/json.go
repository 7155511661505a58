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

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The JSON program format is the transport between an external parser and
// the engine. Block kinds are discriminated by a "kind" field; unary
// continuations hang off "next" and parallel composition off "left"/"right".
// Expression tokens may be bare strings or objects carrying source positions.

type programJSON struct {
	Globals   globalsJSON      `json:"globals"`
	Processes []definitionJSON `json:"processes"`
	System    []*blockJSON     `json:"system"`
}

type globalsJSON struct {
	Ints    map[string]int     `json:"ints,omitempty"`
	Doubles map[string]float64 `json:"doubles,omitempty"`
}

type definitionJSON struct {
	Name       string     `json:"name"`
	Parameters []string   `json:"parameters,omitempty"`
	Root       *blockJSON `json:"root"`
}

type blockJSON struct {
	BlockKind string `json:"kind"`

	Name      string           `json:"name,omitempty"`
	Channel   string           `json:"channel,omitempty"`
	Handshake bool             `json:"handshake,omitempty"`
	Kill      bool             `json:"kill,omitempty"`
	Check     bool             `json:"check,omitempty"`
	Bind      string           `json:"bind,omitempty"`
	Rate      expressionJSON   `json:"rate,omitempty"`
	Condition expressionJSON   `json:"condition,omitempty"`
	Values    []expressionJSON `json:"values,omitempty"`
	Pattern   []expressionJSON `json:"pattern,omitempty"`
	Actuals   []expressionJSON `json:"actuals,omitempty"`
	Tok       *tokenJSON       `json:"token,omitempty"`

	Next  *blockJSON `json:"next,omitempty"`
	Left  *blockJSON `json:"left,omitempty"`
	Right *blockJSON `json:"right,omitempty"`
}

type tokenJSON struct {
	Value string `json:"value"`
	Line  int    `json:"line,omitempty"`
	Col   int    `json:"col,omitempty"`
}

type expressionJSON []tokenJSON

func (e *expressionJSON) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(expressionJSON, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, tokenJSON{Value: s})
			continue
		}
		var t tokenJSON
		if err := json.Unmarshal(r, &t); err != nil {
			return fmt.Errorf("expression token must be a string or an object: %w", err)
		}
		out = append(out, t)
	}
	*e = out
	return nil
}

func (e expressionJSON) MarshalJSON() ([]byte, error) {
	plain := true
	for _, t := range e {
		if t.Line != 0 || t.Col != 0 {
			plain = false
			break
		}
	}
	if plain {
		vals := make([]string, len(e))
		for i, t := range e {
			vals[i] = t.Value
		}
		return json.Marshal(vals)
	}
	return json.Marshal([]tokenJSON(e))
}

func (e expressionJSON) expression() Expression {
	if len(e) == 0 {
		return nil
	}
	out := make(Expression, len(e))
	for i, t := range e {
		out[i] = Token{Value: t.Value, Line: t.Line, Col: t.Col}
	}
	return out
}

func expressionToJSON(e Expression) expressionJSON {
	out := make(expressionJSON, len(e))
	for i, t := range e {
		out[i] = tokenJSON{Value: t.Value, Line: t.Line, Col: t.Col}
	}
	return out
}

func expressionsToJSON(es []Expression) []expressionJSON {
	if len(es) == 0 {
		return nil
	}
	out := make([]expressionJSON, len(es))
	for i, e := range es {
		out[i] = expressionToJSON(e)
	}
	return out
}

func expressions(es []expressionJSON) []Expression {
	if len(es) == 0 {
		return nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		out[i] = e.expression()
	}
	return out
}

// DecodeProgram reads the JSON program format from r.
func DecodeProgram(r io.Reader) (*Program, error) {
	var pj programJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pj); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	p := &Program{
		Definitions: make(map[string]ProcessDefinition, len(pj.Processes)),
		Globals:     NewGlobalVariables(),
	}
	for name, v := range pj.Globals.Ints {
		p.Globals.Ints[name] = v
	}
	for name, v := range pj.Globals.Doubles {
		p.Globals.Doubles[name] = v
	}

	for _, d := range pj.Processes {
		if d.Root == nil {
			return nil, fmt.Errorf("process %q has no root block", d.Name)
		}
		if _, dup := p.Definitions[d.Name]; dup {
			return nil, fmt.Errorf("process %q defined twice", d.Name)
		}
		root, err := d.Root.block(d.Name)
		if err != nil {
			return nil, fmt.Errorf("process %q: %w", d.Name, err)
		}
		p.Definitions[d.Name] = ProcessDefinition{Name: d.Name, Parameters: d.Parameters, Root: root}
	}

	for i, b := range pj.System {
		root, err := b.block("")
		if err != nil {
			return nil, fmt.Errorf("system process %d: %w", i, err)
		}
		p.Initial = append(p.Initial, root)
	}
	return p, nil
}

func (b *blockJSON) block(process string) (Block, error) {
	tok := Token{}
	if b.Tok != nil {
		tok = Token{Value: b.Tok.Value, Line: b.Tok.Line, Col: b.Tok.Col}
	}

	var children []Block
	if b.Next != nil {
		next, err := b.Next.block(process)
		if err != nil {
			return nil, err
		}
		children = []Block{next}
	}

	switch b.BlockKind {
	case "action":
		if len(b.Rate) == 0 {
			return nil, fmt.Errorf("action %q has no rate", b.Name)
		}
		return NewAction(process, tok, b.Name, b.Rate.expression(), children...), nil

	case "send":
		if b.Handshake && len(b.Values) != 1 {
			return nil, fmt.Errorf("handshake send on %q must carry exactly one value", b.Channel)
		}
		if len(b.Values) == 0 {
			return nil, fmt.Errorf("send on %q carries no values", b.Channel)
		}
		return NewSend(process, tok, b.Channel, b.Handshake, b.Kill, expressions(b.Values), b.Rate.expression(), children...), nil

	case "receive":
		if len(b.Pattern) == 0 {
			return nil, fmt.Errorf("receive on %q has no pattern", b.Channel)
		}
		if b.Handshake && b.Check {
			return nil, fmt.Errorf("receive on %q cannot be both handshake and check", b.Channel)
		}
		return NewReceive(process, tok, b.Channel, b.Handshake, b.Check, b.Bind, expressions(b.Pattern), b.Rate.expression(), children...), nil

	case "gate":
		if b.Next == nil {
			return nil, fmt.Errorf("gate at %s has no child", tok.Pos())
		}
		return NewGate(process, tok, b.Condition.expression(), children[0]), nil

	case "process":
		return NewRef(process, tok, b.Name, expressions(b.Actuals)...), nil

	case "parallel":
		if b.Left == nil || b.Right == nil {
			return nil, fmt.Errorf("parallel at %s must have left and right children", tok.Pos())
		}
		left, err := b.Left.block(process)
		if err != nil {
			return nil, err
		}
		right, err := b.Right.block(process)
		if err != nil {
			return nil, err
		}
		return NewParallel(process, tok, left, right), nil
	}
	return nil, fmt.Errorf("unknown block kind %q", b.BlockKind)
}

// EncodeProgram writes p to w in the JSON program format.
func EncodeProgram(w io.Writer, p *Program) error {
	pj := programJSON{
		Globals: globalsJSON{Ints: p.Globals.Ints, Doubles: p.Globals.Doubles},
	}
	for _, name := range sortedNames(p.Definitions) {
		d := p.Definitions[name]
		pj.Processes = append(pj.Processes, definitionJSON{
			Name:       d.Name,
			Parameters: d.Parameters,
			Root:       blockToJSON(d.Root),
		})
	}
	for _, b := range p.Initial {
		pj.System = append(pj.System, blockToJSON(b))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&pj); err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	return nil
}

func blockToJSON(b Block) *blockJSON {
	out := &blockJSON{}
	if tok := b.Token(); tok != (Token{}) {
		out.Tok = &tokenJSON{Value: tok.Value, Line: tok.Line, Col: tok.Col}
	}

	switch blk := b.(type) {
	case *Action:
		out.BlockKind = "action"
		out.Name = blk.Name
		out.Rate = expressionToJSON(blk.Rate)

	case *MessageSend:
		out.BlockKind = "send"
		out.Channel = blk.Channel
		out.Handshake = blk.Handshake
		out.Kill = blk.Kill
		out.Values = expressionsToJSON(blk.Values)
		out.Rate = expressionToJSON(blk.Rate)

	case *MessageReceive:
		out.BlockKind = "receive"
		out.Channel = blk.Channel
		out.Handshake = blk.Handshake
		out.Check = blk.Check
		out.Bind = blk.Bind
		out.Pattern = expressionsToJSON(blk.Pattern)
		out.Rate = expressionToJSON(blk.Rate)

	case *Gate:
		out.BlockKind = "gate"
		out.Condition = expressionToJSON(blk.Condition)

	case *ProcessRef:
		out.BlockKind = "process"
		out.Name = blk.Name
		out.Actuals = expressionsToJSON(blk.Actuals)

	case *Parallel:
		out.BlockKind = "parallel"
		children := b.Children()
		out.Left = blockToJSON(children[0])
		out.Right = blockToJSON(children[1])
		return out
	}

	if children := b.Children(); len(children) == 1 && b.Kind() != KindParallel {
		out.Next = blockToJSON(children[0])
	}
	return out
}

func sortedNames(defs map[string]ProcessDefinition) []string {
	names := maps.Keys(defs)
	slices.Sort(names)
	return names
}
