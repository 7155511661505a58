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

package expr

import (
	"math"
	"strconv"

	"github.com/beacon-calculus/bcs/lang"
)

// RPN evaluates expressions written in reverse Polish notation.
//
// Operand tokens are integer literals, real literals, and identifiers.
// Operator tokens:
//
//	+ - * / % ^        arithmetic; integer unless an operand is real
//	neg abs            unary arithmetic
//	< <= > >= == !=    comparison, yielding booleans
//	& | !              boolean connectives
//	..                 range constructor: pops hi then lo, pushes [lo, hi]
//	U                  union of two range disjunctions
//
// Division between integers truncates; % and the range operators demand
// integer operands.
type RPN struct{}

var _ Evaluator = RPN{}

const (
	kindNumber = iota
	kindBool
	kindRanges
)

type operand struct {
	kind     int
	f        float64
	isDouble bool
	b        bool
	ranges   []lang.Bounds
}

func number(f float64, isDouble bool) operand { return operand{kind: kindNumber, f: f, isDouble: isDouble} }

func (o operand) integer(tok lang.Token) (int, error) {
	if o.kind != kindNumber || o.isDouble {
		return 0, errAt(tok, "operand must be an integer")
	}
	return int(o.f), nil
}

func (e RPN) run(expr lang.Expression, s Scope) (operand, error) {
	if len(expr) == 0 {
		return operand{}, &EvalError{Msg: "empty expression"}
	}

	var stack []operand
	pop := func() operand {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return o
	}

	for _, tok := range expr {
		switch tok.Value {
		case "+", "-", "*", "/", "%", "^", "<", "<=", ">", ">=", "==", "!=", "..":
			if len(stack) < 2 {
				return operand{}, errAt(tok, "operator needs two operands")
			}
			right, left := pop(), pop()
			if left.kind != kindNumber || right.kind != kindNumber {
				return operand{}, errAt(tok, "operator needs numeric operands")
			}
			out, err := applyNumeric(tok, left, right)
			if err != nil {
				return operand{}, err
			}
			stack = append(stack, out)

		case "neg", "abs":
			if len(stack) < 1 {
				return operand{}, errAt(tok, "operator needs an operand")
			}
			v := pop()
			if v.kind != kindNumber {
				return operand{}, errAt(tok, "operator needs a numeric operand")
			}
			if tok.Value == "neg" {
				v.f = -v.f
			} else {
				v.f = math.Abs(v.f)
			}
			stack = append(stack, v)

		case "&", "|":
			if len(stack) < 2 {
				return operand{}, errAt(tok, "operator needs two operands")
			}
			right, left := pop(), pop()
			if left.kind != kindBool || right.kind != kindBool {
				return operand{}, errAt(tok, "operator needs boolean operands")
			}
			b := left.b && right.b
			if tok.Value == "|" {
				b = left.b || right.b
			}
			stack = append(stack, operand{kind: kindBool, b: b})

		case "!":
			if len(stack) < 1 {
				return operand{}, errAt(tok, "operator needs an operand")
			}
			v := pop()
			if v.kind != kindBool {
				return operand{}, errAt(tok, "operator needs a boolean operand")
			}
			v.b = !v.b
			stack = append(stack, v)

		case "U":
			if len(stack) < 2 {
				return operand{}, errAt(tok, "union needs two operands")
			}
			right, left := pop(), pop()
			lr, err := left.asRanges(tok)
			if err != nil {
				return operand{}, err
			}
			rr, err := right.asRanges(tok)
			if err != nil {
				return operand{}, err
			}
			stack = append(stack, operand{kind: kindRanges, ranges: append(lr, rr...)})

		default:
			v, err := e.operand(tok, s)
			if err != nil {
				return operand{}, err
			}
			stack = append(stack, v)
		}
	}

	if len(stack) != 1 {
		return operand{}, errAt(expr.First(), "expression leaves %d values on the stack", len(stack))
	}
	return stack[0], nil
}

func applyNumeric(tok lang.Token, left, right operand) (operand, error) {
	isDouble := left.isDouble || right.isDouble

	switch tok.Value {
	case "..":
		lo, err := left.integer(tok)
		if err != nil {
			return operand{}, err
		}
		hi, err := right.integer(tok)
		if err != nil {
			return operand{}, err
		}
		if hi < lo {
			return operand{}, errAt(tok, "range bounds out of order: [%d, %d]", lo, hi)
		}
		return operand{kind: kindRanges, ranges: []lang.Bounds{{Lower: lo, Upper: hi}}}, nil

	case "<", "<=", ">", ">=", "==", "!=":
		var b bool
		switch tok.Value {
		case "<":
			b = left.f < right.f
		case "<=":
			b = left.f <= right.f
		case ">":
			b = left.f > right.f
		case ">=":
			b = left.f >= right.f
		case "==":
			b = left.f == right.f
		case "!=":
			b = left.f != right.f
		}
		return operand{kind: kindBool, b: b}, nil

	case "%":
		l, err := left.integer(tok)
		if err != nil {
			return operand{}, err
		}
		r, err := right.integer(tok)
		if err != nil {
			return operand{}, err
		}
		if r == 0 {
			return operand{}, errAt(tok, "modulo by zero")
		}
		return number(float64(l%r), false), nil

	case "/":
		if right.f == 0 {
			return operand{}, errAt(tok, "division by zero")
		}
		if !isDouble {
			return number(float64(int(left.f)/int(right.f)), false), nil
		}
		return number(left.f/right.f, true), nil

	case "^":
		return number(math.Pow(left.f, right.f), isDouble), nil

	case "+":
		return number(left.f+right.f, isDouble), nil
	case "-":
		return number(left.f-right.f, isDouble), nil
	case "*":
		return number(left.f*right.f, isDouble), nil
	}
	return operand{}, errAt(tok, "unknown operator")
}

func (o operand) asRanges(tok lang.Token) ([]lang.Bounds, error) {
	switch o.kind {
	case kindRanges:
		return o.ranges, nil
	case kindNumber:
		v, err := o.integer(tok)
		if err != nil {
			return nil, err
		}
		return []lang.Bounds{{Lower: v, Upper: v}}, nil
	}
	return nil, errAt(tok, "operand is not a set")
}

func (RPN) operand(tok lang.Token, s Scope) (operand, error) {
	if v, err := strconv.Atoi(tok.Value); err == nil {
		return number(float64(v), false), nil
	}
	if v, err := strconv.ParseFloat(tok.Value, 64); err == nil {
		return number(v, true), nil
	}
	if v, isDouble, ok := s.lookup(tok.Value); ok {
		return number(v, isDouble), nil
	}
	return operand{}, errAt(tok, "undefined variable")
}

// Double implements [Evaluator].
func (e RPN) Double(expr lang.Expression, s Scope) (float64, error) {
	v, err := e.run(expr, s)
	if err != nil {
		return 0, err
	}
	if v.kind != kindNumber {
		return 0, errAt(expr.First(), "expression is not numeric")
	}
	return v.f, nil
}

// Int implements [Evaluator].
func (e RPN) Int(expr lang.Expression, s Scope) (int, error) {
	v, err := e.run(expr, s)
	if err != nil {
		return 0, err
	}
	if v.kind != kindNumber {
		return 0, errAt(expr.First(), "expression is not numeric")
	}
	if v.isDouble {
		return 0, errAt(expr.First(), "expression is real, not integer")
	}
	return int(v.f), nil
}

// Condition implements [Evaluator].
func (e RPN) Condition(expr lang.Expression, s Scope) (bool, error) {
	v, err := e.run(expr, s)
	if err != nil {
		return false, err
	}
	if v.kind != kindBool {
		return false, errAt(expr.First(), "expression is not a condition")
	}
	return v.b, nil
}

// Ranges implements [Evaluator].
func (e RPN) Ranges(expr lang.Expression, s Scope) ([]lang.Bounds, error) {
	v, err := e.run(expr, s)
	if err != nil {
		return nil, err
	}
	return v.asRanges(expr.First())
}

// CastsToDouble implements [Evaluator]. It inspects the stream without
// evaluating it: a real literal or an identifier bound under a real carrier
// forces real arithmetic. Unbound identifiers and operators are ignored.
func (RPN) CastsToDouble(expr lang.Expression, s Scope) bool {
	for _, tok := range expr {
		if _, err := strconv.Atoi(tok.Value); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(tok.Value, 64); err == nil {
			return true
		}
		if _, isDouble, ok := s.lookup(tok.Value); ok && isDouble {
			return true
		}
	}
	return false
}
