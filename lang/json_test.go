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
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProgram = `{
  "globals": {"ints": {"N": 3}, "doubles": {"k": 0.5}},
  "processes": [
    {
      "name": "P",
      "parameters": ["n"],
      "root": {
        "kind": "gate",
        "condition": ["n", "0", ">"],
        "next": {
          "kind": "action",
          "name": "a",
          "rate": ["1.0"],
          "token": {"value": "a", "line": 2, "col": 14},
          "next": {"kind": "process", "name": "P", "actuals": [["n", "1", "-"]]}
        }
      }
    },
    {
      "name": "R",
      "root": {
        "kind": "receive",
        "channel": "c",
        "bind": "x",
        "rate": ["1.0"],
        "pattern": [["0", "10", ".."]]
      }
    },
    {
      "name": "S",
      "root": {
        "kind": "parallel",
        "left": {"kind": "send", "channel": "c", "handshake": true, "values": [["5"]], "rate": ["2.0"]},
        "right": {"kind": "send", "channel": "d", "kill": true, "values": [["7"]], "rate": ["1.0"]}
      }
    }
  ],
  "system": [
    {"kind": "process", "name": "P", "actuals": [["N"]]},
    {"kind": "process", "name": "R"}
  ]
}`

func TestDecodeProgram(t *testing.T) {
	p, err := DecodeProgram(strings.NewReader(sampleProgram))
	require.NoError(t, err, "DecodeProgram()")
	t.Logf("\n%s", pretty.Sprint(p.Definitions["P"]))

	assert.Equal(t, 3, p.Globals.Ints["N"])
	assert.Equal(t, 0.5, p.Globals.Doubles["k"])
	require.Len(t, p.Definitions, 3)
	require.Len(t, p.Initial, 2)

	pDef := p.Definitions["P"]
	assert.Equal(t, []string{"n"}, pDef.Parameters)
	require.Equal(t, KindGate, pDef.Root.Kind())

	action, ok := pDef.Root.Children()[0].(*Action)
	require.Truef(t, ok, "gate child is %T, want *Action", pDef.Root.Children()[0])
	assert.Equal(t, "a", action.Name)
	assert.Equal(t, "P", action.OwningProcess())
	assert.Equal(t, "2:14", action.Token().Pos())
	require.Len(t, action.Children(), 1)
	assert.Equal(t, KindProcess, action.Children()[0].Kind())

	recv, ok := p.Definitions["R"].Root.(*MessageReceive)
	require.Truef(t, ok, "R root is %T, want *MessageReceive", p.Definitions["R"].Root)
	assert.True(t, recv.BindsVariable())
	assert.False(t, recv.Handshake)
	assert.Equal(t, "x", recv.Bind)

	par := p.Definitions["S"].Root
	require.Equal(t, KindParallel, par.Kind())
	require.Len(t, par.Children(), 2)
	send := par.Children()[0].(*MessageSend)
	assert.True(t, send.Handshake)
	kill := par.Children()[1].(*MessageSend)
	assert.True(t, kill.Kill)
	assert.False(t, kill.Handshake)
}

func TestProgramRoundTrip(t *testing.T) {
	p, err := DecodeProgram(strings.NewReader(sampleProgram))
	require.NoError(t, err)

	var first strings.Builder
	require.NoError(t, EncodeProgram(&first, p), "EncodeProgram()")

	reparsed, err := DecodeProgram(strings.NewReader(first.String()))
	require.NoError(t, err, "DecodeProgram() of encoded output")

	var second strings.Builder
	require.NoError(t, EncodeProgram(&second, reparsed))
	assert.Equal(t, first.String(), second.String(), "encoding must be stable across a round trip")
}

func TestDecodeProgramErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown kind", `{"processes": [{"name": "P", "root": {"kind": "bogus"}}]}`},
		{"action without rate", `{"processes": [{"name": "P", "root": {"kind": "action", "name": "a"}}]}`},
		{"gate without child", `{"processes": [{"name": "P", "root": {"kind": "gate", "condition": ["1", "1", "=="]}}]}`},
		{"parallel missing branch", `{"processes": [{"name": "P", "root": {"kind": "parallel", "left": {"kind": "action", "name": "a", "rate": ["1"]}}}]}`},
		{"handshake send arity", `{"processes": [{"name": "P", "root": {"kind": "send", "channel": "c", "handshake": true, "values": [["1"], ["2"]], "rate": ["1"]}}]}`},
		{"duplicate definition", `{"processes": [{"name": "P", "root": {"kind": "action", "name": "a", "rate": ["1"]}}, {"name": "P", "root": {"kind": "action", "name": "b", "rate": ["1"]}}]}`},
		{"check and handshake", `{"processes": [{"name": "P", "root": {"kind": "receive", "channel": "c", "handshake": true, "check": true, "pattern": [["1"]]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProgram(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}
