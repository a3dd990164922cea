// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package logging holds the process-wide logger shared by all present
// packages. The root package re-exports SetLogger; sub-packages call L()
// directly so that the module stays silent unless the host application
// opts in.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip
// message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// Set replaces the active logger. Pass nil to restore the silent default.
// Safe for concurrent use.
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// L returns the active logger.
func L() *slog.Logger {
	return logger.Load()
}
