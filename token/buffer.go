// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package token

import (
	"github.com/confedit/confedit/dialect"
)

const (
	// startCap is the initial capacity of a Buffer.
	startCap = 64

	// maxTokens bounds Buffer growth. Fill and Append report failure
	// beyond it and callers fall back to direct scanning.
	maxTokens = 1 << 20
)

// A Buffer is an append-only token store with explicit growth: capacity
// starts at startCap, doubles as needed, and never exceeds maxTokens.
// Structural mutations bump a generation counter; a View hands out
// tokens only while its generation matches, so a holder of a stale
// selection fails fast instead of reading shifted spans. Appends keep
// existing indices stable and do not invalidate views.
//
// The zero value is an empty buffer ready for use.
type Buffer struct {
	toks []Token
	gen  uint32
}

// Len returns the number of buffered tokens.
func (b *Buffer) Len() int { return len(b.toks) }

// At returns token i.
func (b *Buffer) At(i int) Token { return b.toks[i] }

// Tokens returns the buffered tokens. The slice aliases the buffer and
// is valid until the next mutation.
func (b *Buffer) Tokens() []Token { return b.toks }

// Generation returns the current generation counter.
func (b *Buffer) Generation() uint32 { return b.gen }

// Append adds t. It reports false when the buffer is full; t is not
// added in that case.
func (b *Buffer) Append(t Token) bool {
	if len(b.toks) >= maxTokens {
		return false
	}
	if len(b.toks) == cap(b.toks) {
		b.grow()
	}
	b.toks = append(b.toks, t)
	return true
}

// Fill resets the buffer and scans content into it. It reports false
// when the token count exceeds the buffer limit; the buffer is left
// empty in that case and the caller should scan directly instead.
func (b *Buffer) Fill(content string, c *dialect.Classifier) bool {
	b.Reset()
	sc := NewScanner(content, c)
	for {
		tok, ok := sc.Next()
		if !ok {
			return true
		}
		if !b.Append(tok) {
			b.Reset()
			return false
		}
	}
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.toks = b.toks[:0]
	b.gen++
}

// Filter compacts the buffer in place, keeping the tokens for which
// keep returns true.
func (b *Buffer) Filter(keep func(Token) bool) {
	kept := b.toks[:0]
	for _, t := range b.toks {
		if keep(t) {
			kept = append(kept, t)
		}
	}
	b.toks = kept
	b.gen++
}

// ShiftFrom moves the spans of tokens i and later by delta. It is the
// cheap refresh path after an in-place content splice: tokens before
// the edit keep their spans, tokens after it slide.
func (b *Buffer) ShiftFrom(i, delta int) {
	if delta != 0 {
		for j := i; j < len(b.toks); j++ {
			b.toks[j] = shifted(b.toks[j], delta)
		}
	}
	b.gen++
}

// ResizeValue adjusts the entry at index i after its value was spliced
// to newLen bytes and slides every later token by the length delta.
// The splice this models covers [Value.Off, Value.End()), except that
// an emptying splice (newLen 0) must cover [Sep.End(), Value.End()) so
// the line reverts to bare key and separator; the value then re-anchors
// with zero length just past the separator, matching a fresh scan of
// the spliced content. The token at i must be an Entry.
func (b *Buffer) ResizeValue(i, newLen int) {
	t := b.toks[i]
	var delta int
	if newLen == 0 {
		delta = t.Sep.End() - t.Value.End()
		t.Value = Span{Off: t.Sep.End()}
	} else {
		delta = newLen - t.Value.Len
		t.Value.Len = newLen
	}
	t.Span.Len = t.Value.End() - t.Span.Off
	b.toks[i] = t
	for j := i + 1; j < len(b.toks); j++ {
		b.toks[j] = shifted(b.toks[j], delta)
	}
	b.gen++
}

// RemoveAt deletes the tokens in [i, j).
func (b *Buffer) RemoveAt(i, j int) {
	b.toks = append(b.toks[:i], b.toks[j:]...)
	b.gen++
}

// grow reallocates with doubled capacity, at least startCap and at most
// maxTokens.
func (b *Buffer) grow() {
	c := cap(b.toks)
	switch {
	case c == 0:
		c = startCap
	case c < maxTokens/2:
		c *= 2
	default:
		c = maxTokens
	}
	next := make([]Token, len(b.toks), c)
	copy(next, b.toks)
	b.toks = next
}

// A View is an index-based selection over a Buffer, pinned to the
// generation it was built from. Using a view after the buffer mutated
// panics: a stale selection must fail fast, not read shifted spans.
type View struct {
	b   *Buffer
	gen uint32
	idx []int
}

// Select builds a view of the tokens for which keep returns true.
func (b *Buffer) Select(keep func(Token) bool) *View {
	v := &View{b: b, gen: b.gen}
	for i, t := range b.toks {
		if keep(t) {
			v.idx = append(v.idx, i)
		}
	}
	return v
}

// Len returns the number of selected tokens.
func (v *View) Len() int {
	v.check()
	return len(v.idx)
}

// At returns the i'th selected token.
func (v *View) At(i int) Token {
	v.check()
	return v.b.toks[v.idx[i]]
}

// Index returns the buffer index of the i'th selected token.
func (v *View) Index(i int) int {
	v.check()
	return v.idx[i]
}

func (v *View) check() {
	if v.gen != v.b.gen {
		panic("token: View used after buffer mutation")
	}
}
