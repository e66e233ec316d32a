// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"strings"

	"github.com/confedit/confedit/token"
)

// index is the reformatting engine: one forward pass folds the text
// into an ordered section and entry structure, and serialization
// regenerates text from that structure. Comments, blank lines and
// undefined spans are dropped at parse time and do not come back; the
// trade is determinism and cheap repeated queries.
type index struct {
	p    *Parser
	secs []*section
	brk  string
}

// section holds one section's entries in document order. Duplicate
// keys keep their separate entries.
type section struct {
	name  string
	props []property
}

// property is one key/value pair; the value is stored unescaped.
type property struct {
	key, value string
}

func newIndex(p *Parser, content string) *index {
	ix := &index{p: p}
	ix.setContent(content)
	return ix
}

// setContent rebuilds the index from content. The global section sits
// at position zero whether or not anything precedes the first header;
// a literal "[]" header switches back to it.
func (ix *index) setContent(content string) {
	ix.secs = []*section{{}}
	ix.brk = ix.p.c.Dialect().Break.Detect(content)
	cur := ix.secs[0]
	apply := func(tok token.Token) {
		switch tok.Kind {
		case token.Section:
			cur = ix.findOrCreate(tok.Name.In(content))
		case token.Entry:
			cur.props = append(cur.props, property{
				key:   tok.Key.In(content),
				value: ix.p.unescapeValue(tok.Value.In(content)),
			})
		}
	}
	var buf token.Buffer
	if buf.Fill(content, ix.p.c) {
		v := buf.Select(contentKind)
		for i := 0; i < v.Len(); i++ {
			apply(v.At(i))
		}
		return
	}
	sc := token.NewScanner(content, ix.p.c)
	for {
		tok, ok := sc.Next()
		if !ok {
			return
		}
		apply(tok)
	}
}

// lookupSection returns the section named name under the dialect's
// comparer, or nil. The empty name is the global section.
func (ix *index) lookupSection(name string) *section {
	for _, s := range ix.secs {
		if ix.p.c.Equal(s.name, name) {
			return s
		}
	}
	return nil
}

// findOrCreate returns the section named name, appending a new one
// when it does not exist yet. The name keeps its first-seen casing.
func (ix *index) findOrCreate(name string) *section {
	if s := ix.lookupSection(name); s != nil {
		return s
	}
	s := &section{name: name}
	ix.secs = append(ix.secs, s)
	return s
}

func (ix *index) sections() map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range ix.secs {
		if len(s.props) > 0 {
			out[ix.p.c.Fold(s.name)] = struct{}{}
		}
	}
	return out
}

func (ix *index) keys(name string) map[string]struct{} {
	out := make(map[string]struct{})
	if s := ix.lookupSection(name); s != nil {
		for _, pr := range s.props {
			out[ix.p.c.Fold(pr.key)] = struct{}{}
		}
	}
	return out
}

func (ix *index) lookup(name, key string) (string, bool) {
	if s := ix.lookupSection(name); s != nil {
		for _, pr := range s.props {
			if ix.p.c.Equal(pr.key, key) {
				return pr.value, true
			}
		}
	}
	return "", false
}

func (ix *index) find(name, key string) []string {
	s := ix.lookupSection(name)
	if s == nil {
		return nil
	}
	var vals []string
	for _, pr := range s.props {
		if key == "" || ix.p.c.Equal(pr.key, key) {
			vals = append(vals, pr.value)
		}
	}
	return vals
}

func (ix *index) setValue(name, key, value string) {
	if value == "" {
		s := ix.lookupSection(name)
		if s == nil {
			return
		}
		for i, pr := range s.props {
			if ix.p.c.Equal(pr.key, key) {
				s.props = append(s.props[:i], s.props[i+1:]...)
				break
			}
		}
		ix.prune()
		return
	}
	s := ix.findOrCreate(name)
	for i, pr := range s.props {
		if ix.p.c.Equal(pr.key, key) {
			s.props[i].value = value
			return
		}
	}
	s.props = append(s.props, property{key: key, value: value})
}

// setValues aligns the entries for key with values: existing entries
// are rewritten in place, surplus ones dropped, and extras inserted
// right after the last rewritten entry so duplicate runs stay
// together.
func (ix *index) setValues(name, key string, values []string) {
	if len(values) == 0 {
		s := ix.lookupSection(name)
		if s == nil {
			return
		}
		kept := s.props[:0]
		for _, pr := range s.props {
			if !ix.p.c.Equal(pr.key, key) {
				kept = append(kept, pr)
			}
		}
		s.props = kept
		ix.prune()
		return
	}
	s := ix.findOrCreate(name)
	n := 0
	last := -1
	kept := s.props[:0]
	for _, pr := range s.props {
		if ix.p.c.Equal(pr.key, key) {
			if n >= len(values) {
				continue
			}
			pr.value = values[n]
			n++
			kept = append(kept, pr)
			last = len(kept) - 1
			continue
		}
		kept = append(kept, pr)
	}
	s.props = kept
	if n == len(values) {
		return
	}
	if last < 0 {
		last = len(s.props) - 1
	}
	var extra []property
	for _, v := range values[n:] {
		extra = append(extra, property{key: key, value: v})
	}
	tail := append([]property(nil), s.props[last+1:]...)
	s.props = append(append(s.props[:last+1], extra...), tail...)
}

// prune drops named sections left without entries. The global section
// stays; it exists implicitly.
func (ix *index) prune() {
	kept := ix.secs[:1]
	for _, s := range ix.secs[1:] {
		if len(s.props) > 0 {
			kept = append(kept, s)
		}
	}
	ix.secs = kept
}

// content regenerates text from the index: global entries first with
// no header, then each named section under its header, one line per
// entry, a blank line between sections.
func (ix *index) content() string {
	var b strings.Builder
	sep := string(ix.p.c.Separator())
	first := true
	for _, s := range ix.secs {
		if len(s.props) == 0 {
			continue
		}
		if !first {
			b.WriteString(ix.brk)
		}
		first = false
		if s.name != "" {
			b.WriteString("[" + s.name + "]" + ix.brk)
		}
		for _, pr := range s.props {
			b.WriteString(pr.key + sep + ix.p.escapeValue(pr.value) + ix.brk)
		}
	}
	return b.String()
}
