// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package bind maps configuration entries onto Go values through an
// explicit binding table. There is no reflection: each binding names
// its section, key, and conversion, and one table drives both loading
// and storing.
package bind

import (
	"fmt"
	"strconv"
	"time"
)

// Getter is the read side of a configuration source. *ini.Parser,
// *ini.Shared, and ini.Set satisfy it.
type Getter interface {
	Lookup(section, key string) (string, bool)
}

// Setter is the write side of a configuration destination. *ini.Parser,
// *ini.Shared, and ini.Set satisfy it.
type Setter interface {
	SetValue(section, key, value string)
}

// A Binding ties one configuration entry to one Go value.
type Binding struct {
	// Name labels the binding in error messages. It defaults to
	// section/key.
	Name string

	// Section and Key locate the entry. Aliases are fallback keys in
	// the same section, tried in order when Key has no entry.
	Section string
	Key     string
	Aliases []string

	// Set converts a configuration value into the destination. A nil
	// Set makes the binding write-only.
	Set func(value string) error

	// Get reads the current value back out for Store, reporting false
	// to skip the binding. A nil Get makes the binding read-only.
	Get func() (string, bool)
}

func (b Binding) name() string {
	if b.Name != "" {
		return b.Name
	}
	if b.Section == "" {
		return b.Key
	}
	return b.Section + "/" + b.Key
}

// A Map is an ordered binding table.
type Map []Binding

// Load reads each binding's entry from src and converts it into the
// destination. Bindings without a matching entry keep their current
// value. The first conversion error stops the load and is returned
// wrapped with the binding's name.
func (m Map) Load(src Getter) error {
	for _, b := range m {
		v, ok := src.Lookup(b.Section, b.Key)
		for i := 0; !ok && i < len(b.Aliases); i++ {
			v, ok = src.Lookup(b.Section, b.Aliases[i])
		}
		if !ok || b.Set == nil {
			continue
		}
		if err := b.Set(v); err != nil {
			return fmt.Errorf("bind %s: %w", b.name(), err)
		}
	}
	return nil
}

// Store writes each binding that reports a value back to dst under its
// primary key. An empty reported value deletes the entry, following
// SetValue semantics.
func (m Map) Store(dst Setter) {
	for _, b := range m {
		if b.Get == nil {
			continue
		}
		if v, ok := b.Get(); ok {
			dst.SetValue(b.Section, b.Key, v)
		}
	}
}

// String returns a Set function storing the raw value into dst.
func String(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

// Int returns a Set function parsing the value as a decimal integer.
func Int(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// Bool returns a Set function parsing the value with strconv.ParseBool.
func Bool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

// Float returns a Set function parsing the value as a 64-bit float.
func Float(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

// Duration returns a Set function parsing the value with
// time.ParseDuration.
func Duration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

// FromString returns a Get function reporting *src.
func FromString(src *string) func() (string, bool) {
	return func() (string, bool) { return *src, true }
}

// FromInt returns a Get function reporting *src in decimal.
func FromInt(src *int) func() (string, bool) {
	return func() (string, bool) { return strconv.Itoa(*src), true }
}

// FromBool returns a Get function reporting *src as "true" or "false".
func FromBool(src *bool) func() (string, bool) {
	return func() (string, bool) { return strconv.FormatBool(*src), true }
}

// FromFloat returns a Get function reporting *src in the shortest
// representation that round-trips.
func FromFloat(src *float64) func() (string, bool) {
	return func() (string, bool) { return strconv.FormatFloat(*src, 'g', -1, 64), true }
}

// FromDuration returns a Get function reporting *src in
// time.Duration.String form.
func FromDuration(src *time.Duration) func() (string, bool) {
	return func() (string, bool) { return src.String(), true }
}
