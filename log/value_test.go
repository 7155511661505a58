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

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{v: 42, want: "int"},
		{v: "s", want: "string"},
		{v: struct{}{}, want: "struct {}"},
		{v: (*slog.Logger)(nil), want: "*slog.Logger"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, TypeOf(tt.v).LogValue().String(), "TypeOf(%v)", tt.v)
	}
}
