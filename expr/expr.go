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

// Package expr evaluates the expressions of a beacon-calculus program. The
// engine consumes the [Evaluator] interface; [RPN] is the reference
// implementation over postfix token streams.
package expr

import (
	"fmt"

	"github.com/beacon-calculus/bcs/lang"
)

// A Scope is the environment an expression is evaluated in. Identifiers
// resolve against Params first, then Locals, then Globals.
type Scope struct {
	Params  lang.ParameterValues
	Globals lang.GlobalVariables
	Locals  lang.LocalVariables
}

// lookup resolves an identifier to its value, reporting whether the carrier
// type is real and whether the name is bound at all.
func (s Scope) lookup(name string) (f float64, isDouble, ok bool) {
	if v, ok := s.Params.Ints[name]; ok {
		return float64(v), false, true
	}
	if v, ok := s.Params.Doubles[name]; ok {
		return v, true, true
	}
	if v, ok := s.Locals[name]; ok {
		return float64(v), false, true
	}
	if v, ok := s.Globals.Ints[name]; ok {
		return float64(v), false, true
	}
	if v, ok := s.Globals.Doubles[name]; ok {
		return v, true, true
	}
	return 0, false, false
}

// An Evaluator interprets expression token streams under a scope. All
// methods are pure with respect to the scope; no evaluation mutates any
// environment.
type Evaluator interface {
	// Double evaluates a numeric expression in real precision.
	Double(e lang.Expression, s Scope) (float64, error)
	// Int evaluates a numeric expression in integer precision.
	Int(e lang.Expression, s Scope) (int, error)
	// Condition evaluates a boolean expression.
	Condition(e lang.Expression, s Scope) (bool, error)
	// Ranges evaluates a set expression to a disjunction of inclusive
	// integer bounds. A plain numeric result v yields the degenerate pair
	// [v, v].
	Ranges(e lang.Expression, s Scope) ([]lang.Bounds, error)
	// CastsToDouble reports whether arithmetic on the expression must be
	// performed in real precision under the scope, which is the case iff any
	// literal or bound identifier in the stream is real. The engine uses it
	// to type actual process parameters consistently with their expressions.
	CastsToDouble(e lang.Expression, s Scope) bool
}

// An EvalError reports a malformed or unevaluable expression, anchored at
// the offending token.
type EvalError struct {
	Tok lang.Token
	Msg string
}

func (e *EvalError) Error() string {
	if e.Tok == (lang.Token{}) {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s (near %q)", e.Tok.Pos(), e.Msg, e.Tok.Value)
}

func errAt(tok lang.Token, format string, args ...any) *EvalError {
	return &EvalError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}
