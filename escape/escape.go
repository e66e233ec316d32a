// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package escape implements the backslash codec applied to configuration
// values: canonical two-character escapes for the ASCII control set plus
// any caller-supplied custom characters.
package escape

import (
	"strings"
)

// Invalid is emitted in place of an escape sequence whose payload is
// malformed, such as \xZZ or \c7.
const Invalid = '?'

// A Codec escapes and unescapes configuration text. The zero value
// handles the canonical control set only. Codecs are immutable and safe
// to share between goroutines.
type Codec struct {
	// Custom holds additional single bytes encoded as \<c> on the way
	// out and decoded back on the way in. Dialects use it for comment
	// markers so that stored values survive a re-read.
	Custom string
}

// Escape returns raw with every backslash, every control character in
// the canonical set (NUL, bell, backspace, line feed, carriage return,
// form feed, tab, vertical tab), and every Custom byte replaced by its
// two-character escape. Strings that need no escaping are returned
// unchanged without allocating.
func (c Codec) Escape(raw string) string {
	i := 0
	for i < len(raw) && !c.needsEscape(raw[i]) {
		i++
	}
	if i == len(raw) {
		return raw
	}
	sb := new(strings.Builder)
	sb.Grow(len(raw) + 8)
	sb.WriteString(raw[:i])
	for ; i < len(raw); i++ {
		b := raw[i]
		if e, ok := escapeLetter(b); ok {
			sb.WriteByte('\\')
			sb.WriteByte(e)
			continue
		}
		if strings.IndexByte(c.Custom, b) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

// Unescape reverses Escape and additionally decodes \xHH and \uHHHH hex
// forms and the \cX control form. Malformed payloads yield the Invalid
// sentinel instead of an error. An escape of a character the codec does
// not know keeps the literal backslash and character, and a lone
// trailing backslash stays a backslash. Strings without a backslash are
// returned unchanged without allocating.
func (c Codec) Unescape(stored string) string {
	if strings.IndexByte(stored, '\\') < 0 {
		return stored
	}
	sb := new(strings.Builder)
	sb.Grow(len(stored))
	for i := 0; i < len(stored); {
		b := stored[i]
		if b != '\\' {
			sb.WriteByte(b)
			i++
			continue
		}
		if i+1 == len(stored) {
			sb.WriteByte('\\')
			break
		}
		e := stored[i+1]
		i += 2
		switch e {
		case '\\':
			sb.WriteByte('\\')
		case '0':
			sb.WriteByte(0)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'x':
			r, n := decodeHex(stored[i:], 2)
			sb.WriteRune(r)
			i += n
		case 'u':
			r, n := decodeHex(stored[i:], 4)
			sb.WriteRune(r)
			i += n
		case 'c':
			if i < len(stored) && isLetter(stored[i]) {
				sb.WriteByte(upper(stored[i]) & 0x1f)
				i++
			} else {
				sb.WriteByte(Invalid)
			}
		default:
			if strings.IndexByte(c.Custom, e) >= 0 {
				sb.WriteByte(e)
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(e)
			}
		}
	}
	return sb.String()
}

func (c Codec) needsEscape(b byte) bool {
	if _, ok := escapeLetter(b); ok {
		return true
	}
	return strings.IndexByte(c.Custom, b) >= 0
}

// escapeLetter maps a byte to the letter of its canonical escape.
func escapeLetter(b byte) (byte, bool) {
	switch b {
	case '\\':
		return '\\', true
	case 0:
		return '0', true
	case '\a':
		return 'a', true
	case '\b':
		return 'b', true
	case '\n':
		return 'n', true
	case '\r':
		return 'r', true
	case '\f':
		return 'f', true
	case '\t':
		return 't', true
	case '\v':
		return 'v', true
	}
	return 0, false
}

// decodeHex reads exactly want hex digits from s. It reports how many
// leading hex digits were consumed; when fewer than want are present
// the result is Invalid.
func decodeHex(s string, want int) (rune, int) {
	var v rune
	n := 0
	for n < want && n < len(s) && isHexDigit(s[n]) {
		v = v<<4 | rune(fromHex(s[n]))
		n++
	}
	if n < want {
		return Invalid, n
	}
	return v, n
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func fromHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 0xa
	default:
		return c - 'A' + 0xa
	}
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
