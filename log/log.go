// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the structured logger shared by all packages.
// It wraps log/slog and keeps output silent until a handler is installed,
// so libraries and tests never spam stderr.
package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// LevelTrace is more verbose than slog's debug.
const LevelTrace = slog.Level(-8)

// Logger is the leveled key-value logger used across the repository.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// With returns a logger that includes the given attributes in each output.
	With(ctx ...any) Logger
}

var root atomic.Pointer[logger]

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the handler of the root logger.
func SetDefault(handler slog.Handler) {
	root.Store(&logger{slog.New(handler)})
}

// Root returns the root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger carrying the given attributes,
// e.g. log.WithContext("pkg", "vault").
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) Trace(msg string, ctx ...any) { l.inner.Log(context.Background(), LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}
