// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package dialect

import (
	"strings"
)

// A Classifier is a dialect compiled into byte-class tables. It is the
// shareable, immutable half of scanning: the token scanner asks it
// which class a byte belongs to and applies the line-shape rules
// itself. Build one with Dialect.Classifier; the zero value classifies
// nothing.
type Classifier struct {
	d         Dialect
	comment   [256]bool
	separator [256]bool
}

// Classifier validates d and compiles it. The returned classifier is
// safe for concurrent use.
func (d Dialect) Classifier() (*Classifier, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{d: d}
	for i := 0; i < len(d.Comments); i++ {
		c.comment[d.Comments[i]] = true
	}
	for i := 0; i < len(d.Separators); i++ {
		c.separator[d.Separators[i]] = true
	}
	return c, nil
}

// Dialect returns a copy of the compiled dialect.
func (c *Classifier) Dialect() Dialect { return c.d }

// IsComment reports whether b opens a comment.
func (c *Classifier) IsComment(b byte) bool { return c.comment[b] }

// IsSeparator reports whether b splits a key from a value.
func (c *Classifier) IsSeparator(b byte) bool { return c.separator[b] }

// Separator returns the canonical separator, the byte written by edits.
func (c *Classifier) Separator() byte { return c.d.Separators[0] }

// Inline reports whether a comment may follow an entry value.
func (c *Classifier) Inline() bool { return c.d.InlineComments }

// Escaped reports whether values carry backslash escapes.
func (c *Classifier) Escaped() bool { return c.d.Escape }

// Equal reports whether a and b name the same section or key under the
// compiled comparison mode.
func (c *Classifier) Equal(a, b string) bool { return c.d.Compare.Equal(a, b) }

// Fold maps s to the canonical name form of the compiled comparison
// mode.
func (c *Classifier) Fold(s string) string { return c.d.Compare.Fold(s) }

// ValidKey reports whether key can be written and read back unchanged:
// it must be non-empty, carry no boundary whitespace, contain no
// separator byte, bracket or line break, and must not start with a
// comment marker.
func (c *Classifier) ValidKey(key string) bool {
	if key == "" || key != strings.TrimSpace(key) {
		return false
	}
	if c.comment[key[0]] {
		return false
	}
	for i := 0; i < len(key); i++ {
		b := key[i]
		if c.separator[b] || b == '[' || b == ']' || b == '\n' || b == '\r' {
			return false
		}
	}
	return true
}

// ValidSection reports whether name can be written as a section header
// and read back unchanged: no closing bracket, no line break, no
// boundary whitespace. The empty name is valid; it addresses the
// global scope and never produces a header.
func (c *Classifier) ValidSection(name string) bool {
	if name != strings.TrimSpace(name) {
		return false
	}
	return !strings.ContainsAny(name, "]\r\n")
}
