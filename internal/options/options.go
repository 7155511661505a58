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

// Package options provides a generic functional-options pattern.
package options

// An Option configures a value of type T.
type Option[T any] interface {
	apply(*T)
}

// Func converts a function into an [Option].
type Func[T any] func(*T)

func (f Func[T]) apply(t *T) { f(t) }

// As applies all options to a zero-valued T and returns it.
func As[T any](opts ...Option[T]) *T {
	var t T
	ApplyTo(&t, opts...)
	return &t
}

// ApplyTo applies all options to an existing T.
func ApplyTo[T any](t *T, opts ...Option[T]) {
	for _, o := range opts {
		o.apply(t)
	}
}
