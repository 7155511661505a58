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
	"bytes"
	"strconv"

	"github.com/beacon-calculus/bcs/lang"
)

// A trace accumulates the tab-separated transition lines of one replicate:
// timestamp, action or channel name, owning process, then the owning
// definition's parameters as name/value columns. Handshakes contribute two
// lines, send before receive, with the same timestamp.
type trace struct {
	buf bytes.Buffer
}

func (tr *trace) record(time float64, chosen *Candidate, defs map[string]lang.ProcessDefinition) {
	var label string
	switch blk := chosen.action.(type) {
	case *lang.Action:
		label = blk.Name
	case *lang.MessageSend:
		label = blk.Channel
	case *lang.MessageReceive:
		label = blk.Channel
	}

	owning := chosen.action.OwningProcess()
	tr.buf.WriteString(strconv.FormatFloat(time, 'g', -1, 64))
	tr.buf.WriteByte('\t')
	tr.buf.WriteString(label)
	tr.buf.WriteByte('\t')
	tr.buf.WriteString(owning)

	for _, name := range defs[owning].Parameters {
		value, ok := chosen.params.Format(name)
		if !ok {
			continue
		}
		tr.buf.WriteByte('\t')
		tr.buf.WriteString(name)
		tr.buf.WriteByte('\t')
		tr.buf.WriteString(value)
	}
	tr.buf.WriteByte('\n')
}

func (tr *trace) String() string { return tr.buf.String() }
