// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
	"io"

	"github.com/confedit/confedit/dialect"
	"github.com/confedit/confedit/escape"
	"github.com/confedit/confedit/token"
)

// engine is the storage strategy behind a Parser. The format-preserving
// editor and the reformatting index implement identical lookup
// semantics; only their relationship to the original bytes differs.
type engine interface {
	sections() map[string]struct{}
	keys(section string) map[string]struct{}
	lookup(section, key string) (string, bool)
	find(section, key string) []string
	setValue(section, key, value string)
	setValues(section, key string, values []string)
	content() string
	setContent(content string)
}

// A Parser reads and edits one configuration text under a fixed
// dialect. The dialect's Strategy selects the engine: Preserve and
// QuickScan keep the text byte for byte and edit by splicing value
// spans, Reformat keeps a structural index and regenerates text on
// demand.
//
// A Parser is not safe for concurrent use; wrap it in a Shared for
// that. A nil *Parser behaves like an empty read-only text: reads
// return zero values and writes do nothing. The zero value is not
// usable; obtain a Parser from New or Parse.
type Parser struct {
	c   *dialect.Classifier
	cod escape.Codec
	eng engine
}

// New returns a parser over content. The dialect is validated first;
// an invalid dialect is the only error condition, malformed content
// never is.
func New(d dialect.Dialect, content string) (*Parser, error) {
	c, err := d.Classifier()
	if err != nil {
		return nil, err
	}
	p := &Parser{c: c}
	if d.Escape && d.InlineComments {
		p.cod = escape.Codec{Custom: d.Comments}
	}
	switch d.Strategy {
	case dialect.Reformat:
		p.eng = newIndex(p, content)
	default:
		p.eng = newEditor(p, content, d.Strategy == dialect.Preserve)
	}
	return p, nil
}

// Parse reads r to its end and returns a parser over the text.
func Parse(r io.Reader, d dialect.Dialect) (*Parser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return New(d, string(data))
}

// Dialect returns a copy of the parser's dialect.
func (p *Parser) Dialect() dialect.Dialect {
	if p == nil {
		return dialect.Dialect{}
	}
	return p.c.Dialect()
}

// Sections returns the names of the sections that hold at least one
// entry, folded to the dialect's canonical casing. The global scope
// appears as the empty name when entries precede the first header.
func (p *Parser) Sections() map[string]struct{} {
	if p == nil {
		return nil
	}
	return p.eng.sections()
}

// Keys returns the entry keys present in the named section, folded to
// the dialect's canonical casing. Passing an empty section name reads
// the global scope.
func (p *Parser) Keys(section string) map[string]struct{} {
	if p == nil {
		return nil
	}
	return p.eng.keys(section)
}

// Lookup returns the value of the first entry matching section and key
// and reports whether such an entry exists. Absence is an ordinary
// outcome; an empty key is a programmer error and panics.
func (p *Parser) Lookup(section, key string) (string, bool) {
	if key == "" {
		panic("Parser.Lookup invalid key: empty")
	}
	if p == nil {
		return "", false
	}
	return p.eng.lookup(section, key)
}

// Get returns the value of the first entry matching section and key,
// or "" when there is none.
func (p *Parser) Get(section, key string) string {
	v, _ := p.Lookup(section, key)
	return v
}

// Value returns the value of the first entry matching section and key,
// or def when there is none.
func (p *Parser) Value(section, key, def string) string {
	if v, ok := p.Lookup(section, key); ok {
		return v
	}
	return def
}

// Find returns every value of key in the named section, in document
// order. An empty key collects every value in the section.
func (p *Parser) Find(section, key string) []string {
	if p == nil {
		return nil
	}
	return p.eng.find(section, key)
}

// SetValue sets the first entry matching section and key to value,
// keeping any later duplicates. When no entry matches, a new line is
// inserted at the end of the section, creating the section if needed.
// An empty value deletes the first matching entry instead.
//
// SetValue panics when the key or section cannot survive a rewrite
// under the dialect; see Classifier.ValidKey and ValidSection. On a
// read-only dialect it does nothing.
func (p *Parser) SetValue(section, key, value string) {
	p.checkWrite("SetValue", section, key)
	p.checkValue("SetValue", value)
	if p == nil || p.c.Dialect().ReadOnly {
		return
	}
	p.eng.setValue(section, key, value)
}

// SetValues aligns the entries matching section and key with values:
// existing entries are rewritten in document order, surplus entries are
// deleted, and extra values are inserted after the last rewritten
// entry. An empty slice deletes every matching entry. An empty element
// writes an entry with an empty value (unlike SetValue, which deletes).
//
// The panic and read-only rules of SetValue apply.
func (p *Parser) SetValues(section, key string, values []string) {
	p.checkWrite("SetValues", section, key)
	for _, v := range values {
		p.checkValue("SetValues", v)
	}
	if p == nil || p.c.Dialect().ReadOnly {
		return
	}
	p.eng.setValues(section, key, values)
}

// Content returns the configuration text. Under the Preserve and
// QuickScan strategies this is the exact stored text; under Reformat it
// is regenerated from the index.
func (p *Parser) Content() string {
	if p == nil {
		return ""
	}
	return p.eng.content()
}

// SetContent replaces the configuration text wholesale. On a read-only
// dialect it does nothing.
func (p *Parser) SetContent(content string) {
	if p == nil || p.c.Dialect().ReadOnly {
		return
	}
	p.eng.setContent(content)
}

// MarshalText returns the configuration text. It implements
// encoding.TextMarshaler.
func (p *Parser) MarshalText() ([]byte, error) {
	return []byte(p.Content()), nil
}

// UnmarshalText replaces the configuration text. It implements
// encoding.TextUnmarshaler. Like SetContent, it does nothing on a
// read-only dialect.
func (p *Parser) UnmarshalText(text []byte) error {
	if p == nil {
		return errors.New("ini: UnmarshalText on nil Parser")
	}
	p.SetContent(string(text))
	return nil
}

// checkWrite panics on arguments that cannot round-trip through the
// text. It runs before the read-only check so that programmer errors
// surface regardless of configuration.
func (p *Parser) checkWrite(op, section, key string) {
	if key == "" {
		panic("Parser." + op + " invalid key: empty")
	}
	if p == nil {
		return
	}
	if !p.c.ValidKey(key) {
		panic("Parser." + op + " invalid key: " + key)
	}
	if !p.c.ValidSection(section) {
		panic("Parser." + op + " invalid section: " + section)
	}
}

// checkValue panics on values that cannot survive a re-read. With
// escaping enabled the codec encodes the offending bytes, so anything
// goes; without it a value must stay on its line and, under inline
// comments, must not contain a comment marker that would truncate it.
func (p *Parser) checkValue(op, value string) {
	if p == nil || p.c.Dialect().Escape {
		return
	}
	inline := p.c.Inline()
	for i := 0; i < len(value); i++ {
		b := value[i]
		if b == '\n' || b == '\r' {
			panic("Parser." + op + " invalid value: contains line break")
		}
		if inline && p.c.IsComment(b) {
			panic("Parser." + op + " invalid value: contains comment marker")
		}
	}
}

// unescapeValue decodes a stored value span for callers.
func (p *Parser) unescapeValue(s string) string {
	if !p.c.Dialect().Escape {
		return s
	}
	return p.cod.Unescape(s)
}

// escapeValue encodes a caller value for storage.
func (p *Parser) escapeValue(s string) string {
	if !p.c.Dialect().Escape {
		return s
	}
	return p.cod.Escape(s)
}

// contentKind reports whether a token participates in lookups.
func contentKind(t token.Token) bool {
	return t.Kind == token.Section || t.Kind == token.Entry
}
