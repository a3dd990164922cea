// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package filter

import "fmt"

// Chain is an ordered, fixed-length sequence of filter passes. Slot order
// is fixed at construction; enabling, disabling, and resizing passes never
// reorders them. A disabled pass is skipped entirely: the preceding
// enabled pass's output flows to the next enabled pass, or to the chain's
// final output when none remain.
type Chain struct {
	passes []*Pass
	index  map[string]*Pass
}

// NewChain builds a chain from passes in execution order. Duplicate slot
// names are a programming error.
func NewChain(passes ...*Pass) *Chain {
	c := &Chain{
		passes: passes,
		index:  make(map[string]*Pass, len(passes)),
	}
	for _, p := range passes {
		if _, dup := c.index[p.slot]; dup {
			panic(fmt.Sprintf("filter: duplicate chain slot %q", p.slot))
		}
		c.index[p.slot] = p
	}
	return c
}

// Pass returns the pass occupying the named slot. Slots are fixed
// identity; asking for an unknown slot is a programming error.
func (c *Chain) Pass(slot string) *Pass {
	p, ok := c.index[slot]
	if !ok {
		panic(fmt.Sprintf("filter: unknown chain slot %q", slot))
	}
	return p
}

// Passes returns the passes in execution order.
func (c *Chain) Passes() []*Pass { return c.passes }

// Step is one enabled pass in an execution plan, with its resolved input
// and output sizes.
type Step struct {
	Pass               *Pass
	InWidth, InHeight  int
	OutWidth, OutHeight int
}

// Plan resolves the chain against the texture's native size, returning one
// step per enabled pass with sizes flowing from each pass's output into
// the next enabled pass's input. Disabled passes do not appear.
func (c *Chain) Plan(nativeW, nativeH int) []Step {
	var steps []Step
	w, h := nativeW, nativeH
	for _, p := range c.passes {
		if !p.enabled {
			continue
		}
		ow, oh := p.outputSize(w, h)
		steps = append(steps, Step{
			Pass:      p,
			InWidth:   w,
			InHeight:  h,
			OutWidth:  ow,
			OutHeight: oh,
		})
		w, h = ow, oh
	}
	return steps
}

// Output returns the final size after all enabled passes. With every pass
// disabled this is the native size.
func (c *Chain) Output(nativeW, nativeH int) (int, int) {
	w, h := nativeW, nativeH
	for _, p := range c.passes {
		if !p.enabled {
			continue
		}
		w, h = p.outputSize(w, h)
	}
	return w, h
}
