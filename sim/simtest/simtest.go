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

// Package simtest provides helpers for testing the simulation engine:
// terse builders for process parse trees with whitespace-separated RPN
// expressions, and a [testing.TB]-backed log handler.
package simtest

import (
	"strings"

	"github.com/beacon-calculus/bcs/lang"
)

// Expr tokenizes a whitespace-separated RPN expression.
func Expr(s string) lang.Expression {
	if s == "" {
		return nil
	}
	return lang.MakeExpression(strings.Fields(s)...)
}

// Exprs tokenizes several expressions.
func Exprs(ss ...string) []lang.Expression {
	out := make([]lang.Expression, len(ss))
	for i, s := range ss {
		out[i] = Expr(s)
	}
	return out
}

// Action builds a named action with a rate expression.
func Action(process, name, rate string, next ...lang.Block) lang.Block {
	return lang.NewAction(process, lang.Token{Value: name}, name, Expr(rate), next...)
}

// HandshakeSend builds the sending half of a rendezvous.
func HandshakeSend(process, channel, value, rate string, next ...lang.Block) lang.Block {
	return lang.NewSend(process, lang.Token{Value: channel}, channel, true, false, Exprs(value), Expr(rate), next...)
}

// HandshakeReceive builds the receiving half of a rendezvous. bind may be
// empty.
func HandshakeReceive(process, channel, pattern, bind string, next ...lang.Block) lang.Block {
	return lang.NewReceive(process, lang.Token{Value: channel}, channel, true, false, bind, Exprs(pattern), nil, next...)
}

// Launch builds a beacon launch of the given tuple.
func Launch(process, channel, rate string, values []string, next ...lang.Block) lang.Block {
	return lang.NewSend(process, lang.Token{Value: channel}, channel, false, false, Exprs(values...), Expr(rate), next...)
}

// Kill builds a beacon kill of the given tuple.
func Kill(process, channel, rate string, values []string, next ...lang.Block) lang.Block {
	return lang.NewSend(process, lang.Token{Value: channel}, channel, false, true, Exprs(values...), Expr(rate), next...)
}

// BeaconReceive builds a beacon receive. bind may be empty.
func BeaconReceive(process, channel, rate, bind string, pattern []string, next ...lang.Block) lang.Block {
	return lang.NewReceive(process, lang.Token{Value: channel}, channel, false, false, bind, Exprs(pattern...), Expr(rate), next...)
}

// Check builds a beacon existence check.
func Check(process, channel, rate string, pattern []string, next ...lang.Block) lang.Block {
	return lang.NewReceive(process, lang.Token{Value: channel}, channel, false, true, "", Exprs(pattern...), Expr(rate), next...)
}

// Gate guards child with an RPN condition.
func Gate(process, condition string, child lang.Block) lang.Block {
	return lang.NewGate(process, lang.Token{Value: condition}, Expr(condition), child)
}

// Ref builds a process reference with RPN actual-parameter expressions.
func Ref(process, name string, actuals ...string) lang.Block {
	return lang.NewRef(process, lang.Token{Value: name}, name, Exprs(actuals...)...)
}

// Par composes two blocks in parallel.
func Par(process string, left, right lang.Block) lang.Block {
	return lang.NewParallel(process, lang.Token{}, left, right)
}

// Program assembles definitions and initial roots into a program with empty
// globals.
func Program(initial []lang.Block, defs ...lang.ProcessDefinition) *lang.Program {
	p := &lang.Program{
		Definitions: make(map[string]lang.ProcessDefinition, len(defs)),
		Initial:     initial,
		Globals:     lang.NewGlobalVariables(),
	}
	for _, d := range defs {
		p.Definitions[d.Name] = d
	}
	return p
}

// Def builds a process definition.
func Def(name string, parameters []string, root lang.Block) lang.ProcessDefinition {
	return lang.ProcessDefinition{Name: name, Parameters: parameters, Root: root}
}
