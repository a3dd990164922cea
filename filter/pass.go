// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package filter models the desktop post-processing chain: a fixed,
// ordered set of toggleable GPU filter passes attached to the desktop
// texture. The package holds pass and chain state only; execution is
// performed by the GPU executor, which consumes the plan produced by
// Chain.Plan.
package filter

import "fmt"

// Program is the compiled GPU program bound to a pass. The concrete type
// is owned by the GPU layer; the chain only carries it from the owner to
// the executor.
type Program interface {
	Label() string
}

// Param is a named scalar parameter with its current value.
type Param struct {
	Name  string
	Value float32
}

// Pass is one filter stage: a program, an enabled flag, an optional target
// resolution, and a small set of named scalar parameters. Passes are
// created once at setup and live for the session; only their enabled,
// parameter, and resolution state mutates.
//
// Pass state is independent of the underlying texture identity, so a
// chain can be reattached to a recreated texture importer without losing
// configuration.
type Pass struct {
	slot    string
	prog    Program
	enabled bool

	// Target resolution; (0,0) means pass-through of the input resolution.
	targetW, targetH int

	names  []string
	values map[string]float32
}

// NewPass creates a pass for the given chain slot with its parameter set.
// The parameter set is fixed at construction: setting a name outside it
// later is a programming error.
func NewPass(slot string, prog Program, defaults ...Param) *Pass {
	p := &Pass{
		slot:   slot,
		prog:   prog,
		values: make(map[string]float32, len(defaults)),
	}
	for _, d := range defaults {
		if _, dup := p.values[d.Name]; dup {
			panic(fmt.Sprintf("filter: duplicate parameter %q on pass %q", d.Name, slot))
		}
		p.names = append(p.names, d.Name)
		p.values[d.Name] = d.Value
	}
	return p
}

// Slot returns the fixed chain slot identity of this pass.
func (p *Pass) Slot() string { return p.slot }

// Program returns the bound GPU program.
func (p *Pass) Program() Program { return p.prog }

// Enabled reports whether the pass runs during Process.
func (p *Pass) Enabled() bool { return p.enabled }

// SetEnabled toggles the pass. A disabled pass is elided from the chain
// plan entirely; it is never run with unity parameters.
func (p *Pass) SetEnabled(on bool) { p.enabled = on }

// SetTargetResolution sets the pass output resolution. (0,0) resets the
// pass to emit at its input resolution.
func (p *Pass) SetTargetResolution(w, h int) {
	p.targetW, p.targetH = w, h
}

// TargetResolution returns the configured output resolution; (0,0) means
// pass-through.
func (p *Pass) TargetResolution() (int, int) { return p.targetW, p.targetH }

// SetParameter updates a named parameter. The name must be one of the
// parameters declared at construction; anything else is a programming
// error and panics.
func (p *Pass) SetParameter(name string, v float32) {
	if _, ok := p.values[name]; !ok {
		panic(fmt.Sprintf("filter: unknown parameter %q on pass %q", name, p.slot))
	}
	p.values[name] = v
}

// SetParameters updates several parameters at once.
func (p *Pass) SetParameters(params []Param) {
	for _, u := range params {
		p.SetParameter(u.Name, u.Value)
	}
}

// Parameter returns the current value of a named parameter, panicking on
// an undeclared name.
func (p *Pass) Parameter(name string) float32 {
	v, ok := p.values[name]
	if !ok {
		panic(fmt.Sprintf("filter: unknown parameter %q on pass %q", name, p.slot))
	}
	return v
}

// Parameters returns a snapshot of all parameters in declaration order.
func (p *Pass) Parameters() []Param {
	out := make([]Param, len(p.names))
	for i, n := range p.names {
		out[i] = Param{Name: n, Value: p.values[n]}
	}
	return out
}

// outputSize resolves the pass output for a given input size.
func (p *Pass) outputSize(inW, inH int) (int, int) {
	if p.targetW > 0 && p.targetH > 0 {
		return p.targetW, p.targetH
	}
	return inW, inH
}
