// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package filter

import "testing"

type fakeProgram string

func (f fakeProgram) Label() string { return string(f) }

func testChain() *Chain {
	return NewChain(
		NewPass("upscale-easu", fakeProgram("easu")),
		NewPass("upscale-rcas", fakeProgram("rcas"), Param{Name: "sharpness", Value: 1}),
		NewPass("sharpen", fakeProgram("cas"), Param{Name: "sharpness", Value: 0}),
	)
}

func TestChainSlotOrderIsFixed(t *testing.T) {
	c := testChain()
	want := []string{"upscale-easu", "upscale-rcas", "sharpen"}
	for i, p := range c.Passes() {
		if p.Slot() != want[i] {
			t.Errorf("slot %d = %q, want %q", i, p.Slot(), want[i])
		}
	}

	// Toggling and resizing must not reorder.
	c.Pass("sharpen").SetEnabled(true)
	c.Pass("upscale-easu").SetTargetResolution(3840, 2160)
	for i, p := range c.Passes() {
		if p.Slot() != want[i] {
			t.Errorf("after mutation slot %d = %q, want %q", i, p.Slot(), want[i])
		}
	}
}

func TestChainPlanElidesDisabledPasses(t *testing.T) {
	c := testChain()
	if got := c.Plan(1920, 1080); len(got) != 0 {
		t.Fatalf("all passes disabled: plan has %d steps, want 0", len(got))
	}

	c.Pass("upscale-easu").SetEnabled(true)
	c.Pass("upscale-easu").SetTargetResolution(3840, 2160)
	c.Pass("upscale-rcas").SetEnabled(true)
	c.Pass("upscale-rcas").SetTargetResolution(3840, 2160)
	c.Pass("sharpen").SetEnabled(true)

	plan := c.Plan(1920, 1080)
	if len(plan) != 3 {
		t.Fatalf("plan has %d steps, want 3", len(plan))
	}
	if plan[0].InWidth != 1920 || plan[0].OutWidth != 3840 {
		t.Errorf("step 0 sizes %dx%d -> %dx%d, want 1920x1080 -> 3840x2160",
			plan[0].InWidth, plan[0].InHeight, plan[0].OutWidth, plan[0].OutHeight)
	}
	// The sharpen pass has no target resolution: it passes the upscaled
	// size through.
	if plan[2].InWidth != 3840 || plan[2].OutWidth != 3840 || plan[2].OutHeight != 2160 {
		t.Errorf("step 2 sizes %dx%d -> %dx%d, want pass-through of 3840x2160",
			plan[2].InWidth, plan[2].InHeight, plan[2].OutWidth, plan[2].OutHeight)
	}

	// Disable the middle pass: the first pass's output must flow directly
	// to the sharpen pass.
	c.Pass("upscale-rcas").SetEnabled(false)
	plan = c.Plan(1920, 1080)
	if len(plan) != 2 {
		t.Fatalf("plan has %d steps, want 2", len(plan))
	}
	if plan[1].Pass.Slot() != "sharpen" || plan[1].InWidth != 3840 {
		t.Errorf("step 1 = %q in %d, want sharpen receiving 3840", plan[1].Pass.Slot(), plan[1].InWidth)
	}
}

func TestChainOutput(t *testing.T) {
	c := testChain()

	if w, h := c.Output(1920, 1080); w != 1920 || h != 1080 {
		t.Errorf("Output() = %dx%d, want native 1920x1080", w, h)
	}

	up := c.Pass("upscale-easu")
	up.SetEnabled(true)
	up.SetTargetResolution(2560, 1440)
	if w, h := c.Output(1920, 1080); w != 2560 || h != 1440 {
		t.Errorf("Output() = %dx%d, want 2560x1440", w, h)
	}

	// Disabling restores the native output even though the target
	// resolution is still set.
	up.SetEnabled(false)
	if w, h := c.Output(1920, 1080); w != 1920 || h != 1080 {
		t.Errorf("Output() after disable = %dx%d, want 1920x1080", w, h)
	}
}

func TestPassParameters(t *testing.T) {
	p := NewPass("sharpen", fakeProgram("cas"), Param{Name: "sharpness", Value: 0.5})

	if got := p.Parameter("sharpness"); got != 0.5 {
		t.Errorf("default = %v, want 0.5", got)
	}
	p.SetParameter("sharpness", 0.25)
	if got := p.Parameter("sharpness"); got != 0.25 {
		t.Errorf("after set = %v, want 0.25", got)
	}

	params := p.Parameters()
	if len(params) != 1 || params[0] != (Param{Name: "sharpness", Value: 0.25}) {
		t.Errorf("Parameters() = %v", params)
	}
}

func TestPassUnknownParameterPanics(t *testing.T) {
	p := NewPass("sharpen", fakeProgram("cas"), Param{Name: "sharpness"})

	defer func() {
		if recover() == nil {
			t.Fatal("SetParameter with unknown name did not panic")
		}
	}()
	p.SetParameter("gamma", 1)
}

func TestPassTargetResolutionReset(t *testing.T) {
	p := NewPass("upscale-easu", fakeProgram("easu"))
	p.SetEnabled(true)
	p.SetTargetResolution(3840, 2160)
	if w, h := p.outputSize(1920, 1080); w != 3840 || h != 2160 {
		t.Fatalf("outputSize = %dx%d, want 3840x2160", w, h)
	}
	p.SetTargetResolution(0, 0)
	if w, h := p.outputSize(1920, 1080); w != 1920 || h != 1080 {
		t.Fatalf("outputSize after reset = %dx%d, want pass-through", w, h)
	}
}

func TestChainUnknownSlotPanics(t *testing.T) {
	c := testChain()
	defer func() {
		if recover() == nil {
			t.Fatal("Pass with unknown slot did not panic")
		}
	}()
	c.Pass("bloom")
}
