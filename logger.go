// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import (
	"log/slog"

	"github.com/vdesk/present/internal/logging"
)

// SetLogger routes the module's diagnostics to l. Pass nil to restore
// the default silent logger. Safe to call at any time from any
// goroutine.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}
