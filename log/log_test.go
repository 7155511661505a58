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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestLevelAlignedString(t *testing.T) {
	tests := map[slog.Level]string{
		LevelCrit:  "CRIT ",
		LevelError: "ERROR",
		LevelWarn:  "WARN ",
		LevelInfo:  "INFO ",
		LevelDebug: "DEBUG",
		LevelTrace: "TRACE",
	}
	for level, want := range tests {
		assert.Equalf(t, want, LevelAlignedString(level), "LevelAlignedString(%v)", level)
	}
	for _, want := range tests {
		require.Len(t, want, 5, "aligned strings must be five characters")
	}
}

func TestSetDefaultReroutesRoot(t *testing.T) {
	old := Root().Handler()
	defer SetDefault(old)

	var buf bytes.Buffer
	SetDefault(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelDebug}))

	Debug("discovered", "candidates", 3)
	assert.Contains(t, buf.String(), "discovered")
	assert.Contains(t, buf.String(), "candidates=3")
}
