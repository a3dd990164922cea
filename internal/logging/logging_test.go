// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	Set(nil)
	if L().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger must report disabled at every level")
	}
	// Must not panic or write anywhere.
	L().Error("dropped")
}

func TestSetRoutesRecords(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, nil)))
	defer Set(nil)

	L().Info("frame uploaded", "width", 1920)
	if !strings.Contains(buf.String(), "frame uploaded") {
		t.Errorf("record not routed: %q", buf.String())
	}
}

func TestSetNilRestoresSilence(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, nil)))
	Set(nil)

	L().Error("after reset")
	if buf.Len() != 0 {
		t.Errorf("record written after reset: %q", buf.String())
	}
}
