// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.RegisterInt("display", "nvGainMax", 2, func(v int) error {
		if v < 0 {
			return fmt.Errorf("must be non-negative, got %d", v)
		}
		return nil
	})
	r.RegisterBool("filter", "upscale", false)
	r.RegisterFloat("filter", "upscaleSharpness", 0.5, func(v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("out of range [0,1]: %v", v)
		}
		return nil
	})
	return r
}

func TestDefaults(t *testing.T) {
	r := testRegistry()
	if got := r.Int("display", "nvGainMax"); got != 2 {
		t.Errorf("Int = %d, want 2", got)
	}
	if r.Bool("filter", "upscale") {
		t.Error("Bool = true, want false")
	}
	if got := r.Float("filter", "upscaleSharpness"); got != 0.5 {
		t.Errorf("Float = %v, want 0.5", got)
	}
}

func TestSetAndGet(t *testing.T) {
	r := testRegistry()
	if err := r.SetInt("display", "nvGainMax", 4); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if err := r.SetBool("filter", "upscale", true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if err := r.SetFloat("filter", "upscaleSharpness", 0.9); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	if got := r.Int("display", "nvGainMax"); got != 4 {
		t.Errorf("Int = %d, want 4", got)
	}
	if !r.Bool("filter", "upscale") {
		t.Error("Bool = false, want true")
	}
	if got := r.Float("filter", "upscaleSharpness"); got != 0.9 {
		t.Errorf("Float = %v, want 0.9", got)
	}
}

func TestValidatorRejects(t *testing.T) {
	r := testRegistry()
	if err := r.SetInt("display", "nvGainMax", -1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetInt(-1) = %v, want ErrInvalidValue", err)
	}
	if err := r.SetFloat("filter", "upscaleSharpness", 1.5); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetFloat(1.5) = %v, want ErrInvalidValue", err)
	}
	// Rejected values must not stick.
	if got := r.Int("display", "nvGainMax"); got != 2 {
		t.Errorf("Int after rejected set = %d, want 2", got)
	}
}

func TestUnknownOptionPanics(t *testing.T) {
	r := testRegistry()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown option")
		}
	}()
	r.Int("display", "nope")
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	r := testRegistry()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate registration")
		}
	}()
	r.RegisterBool("filter", "upscale", true)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdesk.toml")

	r := testRegistry()
	if err := r.SetInt("display", "nvGainMax", 3); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBool("filter", "upscale", true); err != nil {
		t.Fatal(err)
	}
	if err := r.SetFloat("filter", "upscaleSharpness", 0.25); err != nil {
		t.Fatal(err)
	}
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := testRegistry()
	if err := fresh.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fresh.Int("display", "nvGainMax"); got != 3 {
		t.Errorf("Int = %d, want 3", got)
	}
	if !fresh.Bool("filter", "upscale") {
		t.Error("Bool = false, want true")
	}
	if got := fresh.Float("filter", "upscaleSharpness"); got != 0.25 {
		t.Errorf("Float = %v, want 0.25", got)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdesk.toml")
	data := "[display]\nnvGainMax = 1\nmystery = 42\n\n[ghost]\nvalue = true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	r := testRegistry()
	if err := r.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := r.Int("display", "nvGainMax"); got != 1 {
		t.Errorf("Int = %d, want 1", got)
	}
}

func TestLoadInvalidValueKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdesk.toml")
	data := "[filter]\nupscaleSharpness = 3.0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	r := testRegistry()
	if err := r.Load(path); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Load = %v, want ErrInvalidValue", err)
	}
	if got := r.Float("filter", "upscaleSharpness"); got != 0.5 {
		t.Errorf("Float = %v, want default 0.5", got)
	}
}
