// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dialect describes the lexical shape of a configuration text
// format: which bytes open comments, which separate keys from values,
// how names are compared, and how line breaks and edits behave. A
// Dialect is a plain value; compiling it with Classifier validates it
// once and produces the byte tables the token scanner runs on.
package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// A Dialect describes one configuration text format. The zero value is
// not usable; start from Default and adjust fields before compiling.
type Dialect struct {
	// Comments holds the bytes that may open a comment. A comment
	// starts where one of these bytes is the first non-blank byte of a
	// line or, when InlineComments is set, follows an entry value.
	Comments string

	// Separators holds the bytes that may split a key from a value.
	// The first byte is the canonical separator written by edits.
	Separators string

	// Compare selects how section and key names are matched.
	Compare Compare

	// Escape applies the backslash codec to values: unescape on read,
	// escape on write.
	Escape bool

	// Strategy selects the storage engine behind a parser.
	Strategy Strategy

	// InlineComments permits a comment after an entry value on the
	// same line.
	InlineComments bool

	// Break selects the line-break style written by edits.
	Break LineBreak

	// ReadOnly turns every write operation into a silent no-op.
	ReadOnly bool
}

// Default returns the default dialect: ';' and '#' comments, '=' and
// ':' separators, case-sensitive matching, no escaping, the
// format-preserving strategy, no inline comments, and automatic
// line-break detection. The result is a fresh copy; callers may adjust
// fields freely.
func Default() Dialect {
	return Dialect{
		Comments:   ";#",
		Separators: "=:",
	}
}

// Validate reports whether the dialect can be compiled. It rejects
// empty marker sets, duplicated markers, bytes claimed as both comment
// marker and separator, markers that collide with structural
// characters, and out-of-range enum fields.
func (d Dialect) Validate() error {
	if d.Comments == "" {
		return errors.New("dialect: no comment markers")
	}
	if d.Separators == "" {
		return errors.New("dialect: no separators")
	}
	if err := checkMarkers("comment marker", d.Comments); err != nil {
		return err
	}
	if err := checkMarkers("separator", d.Separators); err != nil {
		return err
	}
	for i := 0; i < len(d.Separators); i++ {
		if strings.IndexByte(d.Comments, d.Separators[i]) >= 0 {
			return fmt.Errorf("dialect: %q is both separator and comment marker", d.Separators[i])
		}
	}
	if d.Compare > CaseInsensitive {
		return fmt.Errorf("dialect: unknown comparison mode %d", uint8(d.Compare))
	}
	if d.Strategy > QuickScan {
		return fmt.Errorf("dialect: unknown strategy %d", uint8(d.Strategy))
	}
	if d.Break > BreakNative {
		return fmt.Errorf("dialect: unknown line-break style %d", uint8(d.Break))
	}
	return nil
}

// checkMarkers rejects marker bytes that the scanner or the escape
// codec claims for itself. Markers must be printable ASCII punctuation.
func checkMarkers(kind, set string) error {
	for i := 0; i < len(set); i++ {
		b := set[i]
		switch {
		case b <= ' ' || b >= 0x7f:
			return fmt.Errorf("dialect: %s %q is not printable ASCII", kind, b)
		case b == '[' || b == ']' || b == '\\':
			return fmt.Errorf("dialect: %s %q is a structural character", kind, b)
		case 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9':
			return fmt.Errorf("dialect: %s %q is alphanumeric", kind, b)
		case strings.IndexByte(set[i+1:], b) >= 0:
			return fmt.Errorf("dialect: duplicate %s %q", kind, b)
		}
	}
	return nil
}

// Compare is the name comparison policy for sections and keys. The
// policy is fixed when a parser is built; both modes are ordinal.
type Compare uint8

const (
	CaseSensitive Compare = iota
	CaseInsensitive
)

// Equal reports whether a and b name the same section or key.
func (c Compare) Equal(a, b string) bool {
	if c == CaseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Fold maps s to the canonical form used when names are collected into
// sets.
func (c Compare) Fold(s string) string {
	if c == CaseInsensitive {
		return strings.ToLower(s)
	}
	return s
}

func (c Compare) String() string {
	switch c {
	case CaseSensitive:
		return "case-sensitive"
	case CaseInsensitive:
		return "case-insensitive"
	default:
		return fmt.Sprintf("Compare(%d)", uint8(c))
	}
}

// Strategy selects the storage engine behind a parser.
type Strategy uint8

const (
	// Preserve keeps the original bytes untouched outside of edited
	// spans and caches the token index between queries.
	Preserve Strategy = iota

	// Reformat consumes the token stream into a structural index and
	// regenerates text on demand. Comments, blank lines and
	// unrecognized lines are dropped.
	Reformat

	// QuickScan behaves like Preserve but re-walks the text on every
	// query instead of caching tokens.
	QuickScan
)

func (s Strategy) String() string {
	switch s {
	case Preserve:
		return "preserve"
	case Reformat:
		return "reformat"
	case QuickScan:
		return "quickscan"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy maps a strategy name, as printed by Strategy.String, to
// its value.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "preserve":
		return Preserve, nil
	case "reformat":
		return Reformat, nil
	case "quickscan":
		return QuickScan, nil
	default:
		return 0, fmt.Errorf("dialect: unknown strategy %q", name)
	}
}
