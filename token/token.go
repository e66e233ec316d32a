// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package token defines the lexical model for configuration text: token
// kinds, byte spans, a lazy scanner, and a caching buffer. Tokens are
// views into the scanned content, never copies of it.
package token

import (
	"fmt"
)

// Kind labels a token.
type Kind uint8

const (
	// Undefined is a non-blank run that matches no other kind. The
	// format-preserving editor keeps it verbatim; the reformatting
	// index drops it.
	Undefined Kind = iota

	// Comment runs from a comment marker to the end of its line.
	Comment

	// Section is a bracketed section header.
	Section

	// Entry is a key/separator/value triple.
	Entry

	// Break is a single line break: LF, CR, or one CRLF pair.
	Break

	// Space is a run of blank bytes between tokens on one line.
	Space
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Comment:
		return "comment"
	case Section:
		return "section"
	case Entry:
		return "entry"
	case Break:
		return "break"
	case Space:
		return "space"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// A Span addresses a run of bytes in the scanned content.
type Span struct {
	Off, Len int
}

// End returns the offset just past the span.
func (s Span) End() int { return s.Off + s.Len }

// In returns the bytes the span addresses in content.
func (s Span) In(content string) string { return content[s.Off:s.End()] }

// A Token is one classified region of content. Sub-spans are meaningful
// for certain kinds only: Name for Section; Key, Sep and Value for
// Entry. A token never includes leading or trailing blank bytes. An
// entry's Value may be empty, in which case its span sits with zero
// length just past the separator.
type Token struct {
	Kind Kind
	Span Span

	// Name is the section name, inner whitespace trimmed. It may be
	// empty: "[]" names the global scope literally.
	Name Span

	// Key, Sep and Value are the parts of an entry.
	Key, Sep, Value Span
}

// shifted returns t with every meaningful span moved by delta.
func shifted(t Token, delta int) Token {
	t.Span.Off += delta
	switch t.Kind {
	case Section:
		t.Name.Off += delta
	case Entry:
		t.Key.Off += delta
		t.Sep.Off += delta
		t.Value.Off += delta
	}
	return t
}
