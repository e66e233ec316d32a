// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/confedit/confedit/dialect"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"zombiezen.com/go/log"
)

// EncodingKey is the well-known global key DetectEncoding reads from
// the text itself to pick the file encoding.
const EncodingKey = "encoding"

// aliasEncodings maps names seen in legacy files to registry entries.
var aliasEncodings = map[string]encoding.Encoding{
	"ansi":    charmap.Windows1252,
	"latin-1": charmap.ISO8859_1,
}

// DetectEncoding picks the text encoding for raw configuration bytes.
// A Unicode byte order mark wins; otherwise a quick pre-scan reads the
// global EncodingKey entry from the bytes and resolves its value
// against the IANA registry. Unknown or unsupported names degrade to
// UTF-8 with a warning rather than failing the load.
func DetectEncoding(ctx context.Context, d dialect.Dialect, data []byte) encoding.Encoding {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return unicode.UTF8BOM
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	d.Strategy = dialect.QuickScan
	d.ReadOnly = true
	pre, err := New(d, string(data))
	if err != nil {
		return unicode.UTF8
	}
	name, ok := pre.Lookup("", EncodingKey)
	if !ok {
		return unicode.UTF8
	}
	return lookupEncoding(ctx, name)
}

func lookupEncoding(ctx context.Context, name string) encoding.Encoding {
	folded := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := aliasEncodings[folded]; ok {
		return enc
	}
	enc, err := ianaindex.IANA.Encoding(folded)
	if err != nil || enc == nil {
		// ianaindex returns a nil Encoding without error for names it
		// knows but cannot provide.
		log.Warnf(ctx, "confedit: unsupported encoding %q, falling back to UTF-8", name)
		return unicode.UTF8
	}
	return enc
}

// LoadFile reads and decodes the file at path and returns a parser
// over it together with the encoding the bytes were found to use, so
// the caller can hand the same encoding back to SaveFile.
func LoadFile(ctx context.Context, d dialect.Dialect, path string) (*Parser, encoding.Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	enc := DetectEncoding(ctx, d, data)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %s: decode: %w", path, err)
	}
	p, err := New(d, string(decoded))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %s: %w", path, err)
	}
	log.Debugf(ctx, "confedit: loaded %s (%d bytes)", path, len(data))
	return p, enc, nil
}

// SaveFile encodes the parser's content with enc and writes it to
// path. A nil enc writes the text as is.
func SaveFile(ctx context.Context, path string, p *Parser, enc encoding.Encoding) error {
	data := []byte(p.Content())
	if enc != nil {
		var err error
		data, err = enc.NewEncoder().Bytes(data)
		if err != nil {
			return fmt.Errorf("save config: %s: encode: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o666); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	log.Debugf(ctx, "confedit: wrote %s (%d bytes)", path, len(data))
	return nil
}

// A Set is a list of parsers to obtain configuration from in
// descending order of precedence, all sharing the dialect they were
// loaded under. Nil elements stand for files that were missing at load
// time and behave as empty read-only texts.
type Set struct {
	d       dialect.Dialect
	parsers []*Parser
}

// NewSet groups parsers into a set under d, which must be the dialect
// the parsers were built with.
func NewSet(d dialect.Dialect, parsers ...*Parser) Set {
	return Set{d: d, parsers: parsers}
}

// ParseFiles loads the files at the given paths under one dialect and
// returns a Set. If the returned error is nil, the set's length equals
// the number of paths. ParseFiles stops on the first error, but treats
// a missing file as a nil element of the set rather than an error.
func ParseFiles(ctx context.Context, d dialect.Dialect, paths ...string) (Set, error) {
	set := Set{d: d, parsers: make([]*Parser, 0, len(paths))}
	for _, path := range paths {
		p, _, err := LoadFile(ctx, d, path)
		if errors.Is(err, fs.ErrNotExist) {
			set.parsers = append(set.parsers, nil)
			continue
		}
		if err != nil {
			return set, err
		}
		set.parsers = append(set.parsers, p)
	}
	return set, nil
}

// Len returns the number of parsers in the set, nil elements included.
func (s Set) Len() int { return len(s.parsers) }

// At returns the i'th parser of the set. It may be nil; see ParseFiles.
func (s Set) At(i int) *Parser { return s.parsers[i] }

// Lookup returns the value from the first parser in the set that has
// an entry matching section and key.
func (s Set) Lookup(section, key string) (string, bool) {
	for _, p := range s.parsers {
		if v, ok := p.Lookup(section, key); ok {
			return v, true
		}
	}
	return "", false
}

// Get returns the first matching value in the set, or "" when no
// parser has one.
func (s Set) Get(section, key string) string {
	v, _ := s.Lookup(section, key)
	return v
}

// Value returns the first matching value in the set, or def when no
// parser has one.
func (s Set) Value(section, key, def string) string {
	if v, ok := s.Lookup(section, key); ok {
		return v
	}
	return def
}

// Find returns all values for the key across the set in ascending
// order of precedence, so the most significant values come last.
func (s Set) Find(section, key string) []string {
	var values []string
	for i := len(s.parsers) - 1; i >= 0; i-- {
		values = append(values, s.parsers[i].Find(section, key)...)
	}
	return values
}

// Sections returns the union of the section names across the set.
func (s Set) Sections() map[string]struct{} {
	merged := make(map[string]struct{})
	for _, p := range s.parsers {
		for name := range p.Sections() {
			merged[name] = struct{}{}
		}
	}
	return merged
}

// Keys returns the union of the entry keys in the named section across
// the set.
func (s Set) Keys(section string) map[string]struct{} {
	merged := make(map[string]struct{})
	for _, p := range s.parsers {
		for key := range p.Keys(section) {
			merged[key] = struct{}{}
		}
	}
	return merged
}

// SetValue sets the entry on the first parser and deletes every match
// from the rest, so the set as a whole answers with the new value no
// matter which layer used to win. SetValue panics if the set is empty.
// A nil first element is replaced by an empty parser built from the
// set's dialect.
func (s Set) SetValue(section, key, value string) {
	if s.parsers[0] == nil {
		p, err := New(s.d, "")
		if err != nil {
			panic(err)
		}
		s.parsers[0] = p
	}
	s.parsers[0].SetValue(section, key, value)
	for _, p := range s.parsers[1:] {
		p.SetValues(section, key, nil)
	}
}

// Delete removes every entry matching section and key from every
// parser in the set.
func (s Set) Delete(section, key string) {
	for _, p := range s.parsers {
		p.SetValues(section, key, nil)
	}
}
