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

// Package log provides structured logging over [slog] with the level
// vocabulary used throughout the repository.
package log

import (
	"context"
	"os"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

const (
	LevelCrit  = slog.Level(12)
	LevelError = slog.LevelError
	LevelWarn  = slog.LevelWarn
	LevelInfo  = slog.LevelInfo
	LevelDebug = slog.LevelDebug
	LevelTrace = slog.Level(-8)
)

// LevelAlignedString returns a five-character upper-case rendering of the
// level for column-aligned output.
func LevelAlignedString(l slog.Level) string {
	switch {
	case l >= LevelCrit:
		return "CRIT "
	case l >= LevelError:
		return "ERROR"
	case l >= LevelWarn:
		return "WARN "
	case l >= LevelInfo:
		return "INFO "
	case l >= LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}

var root atomic.Pointer[slog.Logger]

func init() {
	root.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelInfo})))
}

// Root returns the process-wide logger.
func Root() *slog.Logger { return root.Load() }

// SetDefault replaces the process-wide logger's handler.
func SetDefault(h slog.Handler) { root.Store(slog.New(h)) }

func write(level slog.Level, msg string, ctx ...any) {
	Root().Log(context.Background(), level, msg, ctx...)
}

// Trace logs at the trace level.
func Trace(msg string, ctx ...any) { write(LevelTrace, msg, ctx...) }

// Debug logs at the debug level.
func Debug(msg string, ctx ...any) { write(LevelDebug, msg, ctx...) }

// Info logs at the info level.
func Info(msg string, ctx ...any) { write(LevelInfo, msg, ctx...) }

// Warn logs at the warn level.
func Warn(msg string, ctx ...any) { write(LevelWarn, msg, ctx...) }

// Error logs at the error level.
func Error(msg string, ctx ...any) { write(LevelError, msg, ctx...) }

// Crit logs at the crit level and exits the process.
func Crit(msg string, ctx ...any) {
	write(LevelCrit, msg, ctx...)
	os.Exit(1)
}
