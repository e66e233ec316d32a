// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package token

import (
	"strings"

	"github.com/confedit/confedit/dialect"
)

// A Scanner walks configuration text lazily, producing one token per
// Next call. The emitted spans tile the content exactly: concatenating
// them in order reproduces the input byte for byte. A Scanner can
// restart from the beginning with Reset but cannot seek.
type Scanner struct {
	content string
	c       *dialect.Classifier
	pos     int
}

// NewScanner returns a scanner over content using the compiled
// classifier c, which must be non-nil.
func NewScanner(content string, c *dialect.Classifier) *Scanner {
	return &Scanner{content: content, c: c}
}

// Reset restarts the scanner at the beginning of its content.
func (s *Scanner) Reset() { s.pos = 0 }

// Next returns the next token, reporting false once the content is
// exhausted.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.content) {
		return Token{}, false
	}
	switch b := s.content[s.pos]; {
	case b == '\n':
		tok := Token{Kind: Break, Span: Span{Off: s.pos, Len: 1}}
		s.pos++
		return tok, true
	case b == '\r':
		n := 1
		if s.pos+1 < len(s.content) && s.content[s.pos+1] == '\n' {
			n = 2
		}
		tok := Token{Kind: Break, Span: Span{Off: s.pos, Len: n}}
		s.pos += n
		return tok, true
	case isBlank(b):
		end := s.pos + 1
		for end < len(s.content) && isBlank(s.content[end]) {
			end++
		}
		tok := Token{Kind: Space, Span: span(s.pos, end)}
		s.pos = end
		return tok, true
	}
	tok := s.classify()
	s.pos = tok.Span.End()
	return tok, true
}

// classify reads the token starting at pos, which holds a non-blank,
// non-break byte. Order matters: a comment marker wins over everything,
// a section header over an entry, and anything else on the line is
// undefined.
func (s *Scanner) classify() Token {
	start := s.pos
	eol := lineEnd(s.content, start)
	if s.c.IsComment(s.content[start]) {
		return Token{Kind: Comment, Span: span(start, trimRight(s.content, start, eol))}
	}
	if s.content[start] == '[' {
		if tok, ok := s.section(start, eol); ok {
			return tok
		}
	}
	if tok, ok := s.entry(start, eol); ok {
		return tok
	}
	return Token{Kind: Undefined, Span: span(start, trimRight(s.content, start, eol))}
}

// section matches "[" + name + "]" starting at start. The name is any
// run of non-"]" bytes with inner boundary whitespace trimmed; it may
// be empty. The token ends at the closing bracket, so trailing text on
// the line is scanned separately.
func (s *Scanner) section(start, eol int) (Token, bool) {
	close := strings.IndexByte(s.content[start+1:eol], ']')
	if close < 0 {
		return Token{}, false
	}
	close += start + 1
	nameStart := start + 1
	for nameStart < close && isBlank(s.content[nameStart]) {
		nameStart++
	}
	return Token{
		Kind: Section,
		Span: span(start, close+1),
		Name: span(nameStart, trimRight(s.content, nameStart, close)),
	}, true
}

// entry matches key + separator + value starting at start. The first
// separator byte on the line ends the key; a key that is empty or
// contains a bracket disqualifies the whole line. When inline comments
// are enabled the value stops at the first comment marker after the
// separator; under an escaping dialect a marker behind an odd run of
// backslashes is part of the value, not a comment. An empty value
// anchors with zero length just past the separator so that the token
// carries no trailing whitespace.
func (s *Scanner) entry(start, eol int) (Token, bool) {
	sep := -1
	for i := start; i < eol; i++ {
		if s.c.IsSeparator(s.content[i]) {
			sep = i
			break
		}
	}
	if sep < 0 {
		return Token{}, false
	}
	keyEnd := trimRight(s.content, start, sep)
	if keyEnd == start {
		return Token{}, false
	}
	for i := start; i < keyEnd; i++ {
		if b := s.content[i]; b == '[' || b == ']' {
			return Token{}, false
		}
	}
	valEOL := eol
	if s.c.Inline() {
		for i := sep + 1; i < eol; i++ {
			if s.c.IsComment(s.content[i]) && !s.escaped(sep, i) {
				valEOL = i
				break
			}
		}
	}
	valStart := sep + 1
	for valStart < valEOL && isBlank(s.content[valStart]) {
		valStart++
	}
	valEnd := trimRight(s.content, valStart, valEOL)
	if valStart == valEnd {
		valStart, valEnd = sep+1, sep+1
	}
	return Token{
		Kind:  Entry,
		Span:  span(start, valEnd),
		Key:   span(start, keyEnd),
		Sep:   span(sep, sep+1),
		Value: span(valStart, valEnd),
	}, true
}

// escaped reports whether the byte at i sits behind an odd run of
// backslashes under an escaping dialect. The run is counted only back
// to the separator; nothing before it can escape a value byte.
func (s *Scanner) escaped(sep, i int) bool {
	if !s.c.Escaped() {
		return false
	}
	n := 0
	for j := i - 1; j > sep && s.content[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func span(start, end int) Span { return Span{Off: start, Len: end - start} }

// lineEnd returns the offset of the first break byte at or after pos.
func lineEnd(content string, pos int) int {
	for i := pos; i < len(content); i++ {
		if content[i] == '\n' || content[i] == '\r' {
			return i
		}
	}
	return len(content)
}

// trimRight returns the end of [start, end) with trailing blanks
// removed.
func trimRight(content string, start, end int) int {
	for end > start && isBlank(content[end-1]) {
		end--
	}
	return end
}

// isBlank reports whether b is intra-line whitespace. Break bytes are
// never blank; they form their own tokens.
func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}
