// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"strings"

	"github.com/confedit/confedit/token"
)

// editor is the format-preserving engine: reads scan the live text and
// writes splice it, so every byte a write does not touch survives
// verbatim, comments and blank lines included. Under the Preserve
// strategy a filtered token cache amortizes repeated scans and is
// maintained across value splices; under QuickScan every call walks
// the text anew.
type editor struct {
	p    *Parser
	text string

	caching bool
	buf     token.Buffer
	cached  bool
	nocache bool // cache overflowed once, stop refilling it
}

func newEditor(p *Parser, content string, caching bool) *editor {
	return &editor{p: p, text: content, caching: caching}
}

// ensure refreshes the token cache and reports whether cache indices
// are live. Overflowing content permanently demotes the editor to
// direct scanning.
func (e *editor) ensure() bool {
	if !e.caching || e.nocache {
		return false
	}
	if e.cached {
		return true
	}
	if !e.buf.Fill(e.text, e.p.c) {
		e.nocache = true
		return false
	}
	e.buf.Filter(contentKind)
	e.cached = true
	return true
}

func (e *editor) invalidate() { e.cached = false }

// walk visits the section and entry tokens of the text in document
// order. scope is the folded name of the section owning the token,
// a header's own name for Section tokens; idx is the token's position
// in the filtered cache when one is live, a plain visit ordinal
// otherwise. Returning false stops the walk.
func (e *editor) walk(fn func(tok token.Token, scope string, idx int) bool) {
	scope := ""
	if e.ensure() {
		for i := 0; i < e.buf.Len(); i++ {
			tok := e.buf.At(i)
			if tok.Kind == token.Section {
				scope = e.p.c.Fold(tok.Name.In(e.text))
			}
			if !fn(tok, scope, i) {
				return
			}
		}
		return
	}
	sc := token.NewScanner(e.text, e.p.c)
	for i := 0; ; {
		tok, ok := sc.Next()
		if !ok {
			return
		}
		if !contentKind(tok) {
			continue
		}
		if tok.Kind == token.Section {
			scope = e.p.c.Fold(tok.Name.In(e.text))
		}
		if !fn(tok, scope, i) {
			return
		}
		i++
	}
}

func (e *editor) sections() map[string]struct{} {
	out := make(map[string]struct{})
	e.walk(func(tok token.Token, scope string, _ int) bool {
		if tok.Kind == token.Entry {
			out[scope] = struct{}{}
		}
		return true
	})
	return out
}

func (e *editor) keys(section string) map[string]struct{} {
	want := e.p.c.Fold(section)
	out := make(map[string]struct{})
	e.walk(func(tok token.Token, scope string, _ int) bool {
		if tok.Kind == token.Entry && scope == want {
			out[e.p.c.Fold(tok.Key.In(e.text))] = struct{}{}
		}
		return true
	})
	return out
}

func (e *editor) lookup(section, key string) (string, bool) {
	want := e.p.c.Fold(section)
	var val string
	var ok bool
	e.walk(func(tok token.Token, scope string, _ int) bool {
		if tok.Kind != token.Entry || scope != want {
			return true
		}
		if e.p.c.Equal(tok.Key.In(e.text), key) {
			val, ok = e.p.unescapeValue(tok.Value.In(e.text)), true
			return false
		}
		return true
	})
	return val, ok
}

func (e *editor) find(section, key string) []string {
	want := e.p.c.Fold(section)
	var vals []string
	e.walk(func(tok token.Token, scope string, _ int) bool {
		if tok.Kind != token.Entry || scope != want {
			return true
		}
		if key == "" || e.p.c.Equal(tok.Key.In(e.text), key) {
			vals = append(vals, e.p.unescapeValue(tok.Value.In(e.text)))
		}
		return true
	})
	return vals
}

// hit pairs a located entry with its cache index.
type hit struct {
	tok token.Token
	idx int
}

// target carries the insertion anchor for a scope: the last entry seen
// inside it, with the scope's header standing in only while the scope
// has no entries at all.
type target struct {
	hasAnchor   bool
	entryAnchor bool
	anchor      token.Token
}

// locate scans for the entries matching section and key. With first
// set it stops at the first match, otherwise it collects every match
// in document order.
func (e *editor) locate(section, key string, first bool) (target, []hit) {
	want := e.p.c.Fold(section)
	var t target
	var hits []hit
	e.walk(func(tok token.Token, scope string, idx int) bool {
		if scope != want {
			return true
		}
		switch tok.Kind {
		case token.Section:
			if !t.entryAnchor {
				t.hasAnchor, t.anchor = true, tok
			}
		case token.Entry:
			t.hasAnchor, t.entryAnchor, t.anchor = true, true, tok
			if e.p.c.Equal(tok.Key.In(e.text), key) {
				hits = append(hits, hit{tok, idx})
				return !first
			}
		}
		return true
	})
	return t, hits
}

func (e *editor) setValue(section, key, value string) {
	t, hits := e.locate(section, key, true)
	switch {
	case len(hits) == 0 && value == "":
		// deleting what is not there
	case len(hits) == 0:
		e.insert(section, key, t, []string{value})
	case value == "":
		e.deleteEntry(hits[0].tok, hits[0].idx)
	default:
		e.replaceValue(hits[0].tok, hits[0].idx, e.p.escapeValue(value))
	}
}

// setValues aligns the matching entries with values: pairwise rewrites
// first, surplus deletions in reverse document order so earlier
// offsets stay put, then one block insert of the extras after the last
// rewritten line. Replacement splices shift the offsets of later hits;
// delta carries the correction across the whole operation.
func (e *editor) setValues(section, key string, values []string) {
	t, hits := e.locate(section, key, false)
	if len(hits) == 0 {
		if len(values) > 0 {
			e.insert(section, key, t, values)
		}
		return
	}

	n := len(values)
	if len(hits) < n {
		n = len(hits)
	}
	delta := 0
	insertOff := 0
	for i := 0; i < n; i++ {
		tok := e.current(hits[i], delta)
		insertOff = tok.Span.Off
		esc := e.p.escapeValue(values[i])
		start, end := tok.Value.Off, tok.Value.End()
		if esc == "" {
			start = tok.Sep.End()
		}
		e.replaceValue(tok, hits[i].idx, esc)
		delta += len(esc) - (end - start)
	}
	for i := len(hits) - 1; i >= n; i-- {
		e.deleteEntry(e.current(hits[i], delta), hits[i].idx)
	}
	if n < len(values) {
		brk := e.p.c.Dialect().Break.Detect(e.text)
		lines := make([]string, 0, len(values)-n)
		for _, v := range values[n:] {
			lines = append(lines, e.entryLine(key, v))
		}
		e.insertAfterLine(insertOff, strings.Join(lines, brk), brk)
	}
}

func (e *editor) content() string { return e.text }

func (e *editor) setContent(content string) {
	e.text = content
	e.nocache = false
	e.invalidate()
}

// current returns h's entry with offsets valid against the present
// text: the maintained cache token when one is live, the located token
// slid by delta otherwise.
func (e *editor) current(h hit, delta int) token.Token {
	if e.cached {
		return e.buf.At(h.idx)
	}
	t := h.tok
	t.Span.Off += delta
	t.Key.Off += delta
	t.Sep.Off += delta
	t.Value.Off += delta
	return t
}

// replaceValue splices the entry's value span to esc. An empty esc
// strips back past the separator so the line reverts to bare key and
// separator, matching what a fresh scan of the result produces.
func (e *editor) replaceValue(tok token.Token, idx int, esc string) {
	start, end := tok.Value.Off, tok.Value.End()
	if esc == "" {
		start = tok.Sep.End()
	}
	e.text = e.text[:start] + esc + e.text[end:]
	if e.cached {
		e.buf.ResizeValue(idx, len(esc))
	}
}

// deleteEntry removes the located entry. The whole line goes when the
// entry is the only structural token on it; an entry sharing its line
// with a section header loses just its own bytes so the header
// survives.
func (e *editor) deleteEntry(tok token.Token, idx int) {
	start := lineStart(e.text, tok.Span.Off)
	end := lineEndAfterBreak(e.text, tok.Span.Off)
	if !blankOnly(e.text[start:tok.Span.Off]) {
		start, end = tok.Span.Off, tok.Span.End()
	}
	e.text = e.text[:start] + e.text[end:]
	if e.cached {
		e.buf.RemoveAt(idx, idx+1)
		e.buf.ShiftFrom(idx, start-end)
	}
}

// insert writes one line per value for key. The lines go after the
// anchor line when the scope was seen, under a fresh header appended
// at the end for a new named section, and at the very top for the
// global scope so no header captures them.
func (e *editor) insert(section, key string, t target, values []string) {
	brk := e.p.c.Dialect().Break.Detect(e.text)
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = e.entryLine(key, v)
	}
	block := strings.Join(lines, brk)
	switch {
	case t.hasAnchor:
		e.insertAfterLine(t.anchor.Span.Off, block, brk)
	case section != "":
		pre := ""
		if e.text != "" {
			pre = brk
			if !endsWithBreak(e.text) {
				pre = brk + brk
			}
		}
		e.text += pre + "[" + section + "]" + brk + block + brk
		e.invalidate()
	default:
		e.text = block + brk + e.text
		e.invalidate()
	}
}

// insertAfterLine splices block in on a fresh line after the line
// holding off. A final line without its own break first gets one; the
// block then ends the text unterminated, keeping the file's style.
func (e *editor) insertAfterLine(off int, block, brk string) {
	at := lineEndAfterBreak(e.text, off)
	if at == len(e.text) && !endsWithBreak(e.text) {
		e.text += brk + block
	} else {
		e.text = e.text[:at] + block + brk + e.text[at:]
	}
	e.invalidate()
}

func (e *editor) entryLine(key, value string) string {
	return key + string(e.p.c.Separator()) + e.p.escapeValue(value)
}

// lineStart returns the offset of the first byte of the line holding
// off.
func lineStart(content string, off int) int {
	for off > 0 {
		if b := content[off-1]; b == '\n' || b == '\r' {
			break
		}
		off--
	}
	return off
}

// lineEndAfterBreak returns the offset just past the break ending the
// line holding off, or len(content) when the line runs to the end.
func lineEndAfterBreak(content string, off int) int {
	i := off
	for i < len(content) && content[i] != '\n' && content[i] != '\r' {
		i++
	}
	if i == len(content) {
		return i
	}
	if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
		return i + 2
	}
	return i + 1
}

func endsWithBreak(content string) bool {
	if content == "" {
		return false
	}
	b := content[len(content)-1]
	return b == '\n' || b == '\r'
}

// blankOnly reports whether s holds only intra-line whitespace.
func blankOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\v', '\f':
		default:
			return false
		}
	}
	return true
}
