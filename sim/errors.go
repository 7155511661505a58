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

	"github.com/beacon-calculus/bcs/lang"
)

// A BadRateError reports a rate expression that evaluated to a non-positive
// value while its action was being admitted as a candidate. It is fatal to
// the replicate.
type BadRateError struct {
	Tok  lang.Token
	Rate float64
}

func (e *BadRateError) Error() string {
	return fmt.Sprintf("%s: transition rate evaluated to %g; rates must be positive", e.Tok.Pos(), e.Rate)
}

// An UndefinedProcessError reports a reference to a process name with no
// definition in the program.
type UndefinedProcessError struct {
	Tok  lang.Token
	Name string
}

func (e *UndefinedProcessError) Error() string {
	return fmt.Sprintf("%s: process %q is not defined", e.Tok.Pos(), e.Name)
}

// An ArityError reports a process reference whose actual parameters do not
// match the definition's formals.
type ArityError struct {
	Tok  lang.Token
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: process %q takes %d parameters, got %d", e.Tok.Pos(), e.Name, e.Want, e.Got)
}
