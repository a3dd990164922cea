// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package config is the option registry backing the presentation
// pipeline: typed options keyed by module and name, with defaults,
// optional validators, and TOML persistence. Packages register their
// options at startup; the UI layer writes changed values back through
// the typed setters.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// Registry errors.
var (
	// ErrInvalidValue is returned by setters when a validator rejects the
	// new value.
	ErrInvalidValue = errors.New("config: invalid value")
)

type kind int

const (
	kindInt kind = iota
	kindBool
	kindFloat
)

type entry struct {
	kind kind
	i    int
	b    bool
	f    float64

	validateInt   func(int) error
	validateFloat func(float64) error
}

// Registry holds registered options and their current values. The zero
// value is not usable; call NewRegistry.
//
// Registry is safe for concurrent use: the UI thread may write values
// while the render thread reads them.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func key(module, name string) string { return module + "." + name }

// RegisterInt registers an integer option with its default value and an
// optional validator. Registering the same option twice is a programming
// error.
func (r *Registry) RegisterInt(module, name string, def int, validate func(int) error) {
	r.register(module, name, &entry{kind: kindInt, i: def, validateInt: validate})
}

// RegisterBool registers a boolean option with its default value.
func (r *Registry) RegisterBool(module, name string, def bool) {
	r.register(module, name, &entry{kind: kindBool, b: def})
}

// RegisterFloat registers a float option with its default value and an
// optional validator.
func (r *Registry) RegisterFloat(module, name string, def float64, validate func(float64) error) {
	r.register(module, name, &entry{kind: kindFloat, f: def, validateFloat: validate})
}

func (r *Registry) register(module, name string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(module, name)
	if _, dup := r.entries[k]; dup {
		panic(fmt.Sprintf("config: option %s registered twice", k))
	}
	r.entries[k] = e
}

func (r *Registry) lookup(module, name string, want kind) *entry {
	e, ok := r.entries[key(module, name)]
	if !ok || e.kind != want {
		panic(fmt.Sprintf("config: unknown option %s", key(module, name)))
	}
	return e
}

// Int returns the current value of an integer option. Unknown options are
// a programming error.
func (r *Registry) Int(module, name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(module, name, kindInt).i
}

// Bool returns the current value of a boolean option.
func (r *Registry) Bool(module, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(module, name, kindBool).b
}

// Float returns the current value of a float option.
func (r *Registry) Float(module, name string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(module, name, kindFloat).f
}

// SetInt updates an integer option, running its validator.
func (r *Registry) SetInt(module, name string, v int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(module, name, kindInt)
	if e.validateInt != nil {
		if err := e.validateInt(v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key(module, name), err)
		}
	}
	e.i = v
	return nil
}

// SetBool updates a boolean option.
func (r *Registry) SetBool(module, name string, v bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookup(module, name, kindBool).b = v
	return nil
}

// SetFloat updates a float option, running its validator.
func (r *Registry) SetFloat(module, name string, v float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(module, name, kindFloat)
	if e.validateFloat != nil {
		if err := e.validateFloat(v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key(module, name), err)
		}
	}
	e.f = v
	return nil
}

// Load reads option values from a TOML file laid out as
// [module] name = value tables. Values for unregistered options are
// ignored; values failing validation keep their previous setting and
// report an error naming the option.
func (r *Registry) Load(path string) error {
	var raw map[string]map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}

	var firstErr error
	for module, names := range raw {
		for name, v := range names {
			if err := r.apply(module, name, v); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Registry) apply(module, name string, v any) error {
	r.mu.Lock()
	e, ok := r.entries[key(module, name)]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	switch e.kind {
	case kindInt:
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("%w: %s: not an integer", ErrInvalidValue, key(module, name))
		}
		return r.SetInt(module, name, int(n))
	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: %s: not a boolean", ErrInvalidValue, key(module, name))
		}
		return r.SetBool(module, name, b)
	case kindFloat:
		switch f := v.(type) {
		case float64:
			return r.SetFloat(module, name, f)
		case int64:
			return r.SetFloat(module, name, float64(f))
		default:
			return fmt.Errorf("%w: %s: not a number", ErrInvalidValue, key(module, name))
		}
	}
	return nil
}

// Save writes all current option values to a TOML file, one table per
// module.
func (r *Registry) Save(path string) error {
	r.mu.RLock()
	out := make(map[string]map[string]any)
	for k, e := range r.entries {
		var module, name string
		for i := 0; i < len(k); i++ {
			if k[i] == '.' {
				module, name = k[:i], k[i+1:]
				break
			}
		}
		if out[module] == nil {
			out[module] = make(map[string]any)
		}
		switch e.kind {
		case kindInt:
			out[module][name] = e.i
		case kindBool:
			out[module][name] = e.b
		case kindFloat:
			out[module][name] = e.f
		}
	}
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}
