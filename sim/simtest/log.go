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

package simtest

import (
	"context"
	"testing"

	"golang.org/x/exp/slog"

	"github.com/beacon-calculus/bcs/log"
)

// NewTBLogHandler constructs a [slog.Handler] that propagates logs to
// [testing.TB]. Logs at [log.LevelWarn] or above go to [testing.TB.Errorf];
// everything else goes to [testing.TB.Logf]. The level parameter controls
// which logs below [log.LevelWarn] are enabled; logs at [log.LevelWarn] or
// above are always enabled.
func NewTBLogHandler(tb testing.TB, level slog.Level) slog.Handler {
	return &tbHandler{tb: tb, level: level}
}

type tbHandler struct {
	tb    testing.TB
	level slog.Level
	attrs []slog.Attr
}

func (h *tbHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= min(h.level, log.LevelWarn)
}

func (h *tbHandler) Handle(_ context.Context, rec slog.Record) error {
	to := h.tb.Logf
	if rec.Level >= log.LevelWarn {
		to = h.tb.Errorf
	}

	fields := make(map[string]any, len(h.attrs)+rec.NumAttrs())
	for _, attr := range h.attrs {
		fields[attr.Key] = attr.Value.Any()
	}
	rec.Attrs(func(attr slog.Attr) bool {
		fields[attr.Key] = attr.Value.Any()
		return true
	})

	to("[%s] %s %v", log.LevelAlignedString(rec.Level), rec.Message, fields)
	return nil
}

func (h *tbHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &tbHandler{
		tb:    h.tb,
		level: h.level,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func (h *tbHandler) WithGroup(string) slog.Handler { return h }
