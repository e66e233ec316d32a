// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/confedit/confedit/dialect"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"zombiezen.com/go/log/testlog"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	path := filepath.Join(t.TempDir(), "app.ini")
	if err := os.WriteFile(path, []byte("[db]\nhost=localhost\n"), 0o666); err != nil {
		t.Fatal(err)
	}

	p, enc, err := LoadFile(ctx, testDialect(dialect.Preserve), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Get("db", "host"); got != "localhost" {
		t.Errorf("Get = %q; want %q", got, "localhost")
	}

	p.SetValue("db", "port", "5432")
	if err := SaveFile(ctx, path, p, enc); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "[db]\nhost=localhost\nport=5432\n"; got != want {
		t.Errorf("saved file = %q; want %q", got, want)
	}
}

func TestLoadFileUTF8BOM(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	path := filepath.Join(t.TempDir(), "bom.ini")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFk=v\n"), 0o666); err != nil {
		t.Fatal(err)
	}

	p, enc, err := LoadFile(ctx, testDialect(dialect.Preserve), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Get("", "k"); got != "v" {
		t.Errorf("Get = %q; want %q", got, "v")
	}
	if err := SaveFile(ctx, path, p, enc); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Errorf("saved file lost its byte order mark: % x", data[:3])
	}
}

func TestLoadFileUTF16(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	raw, err := utf16.NewEncoder().Bytes([]byte("[s]\nk=värde\n"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "wide.ini")
	if err := os.WriteFile(path, raw, 0o666); err != nil {
		t.Fatal(err)
	}

	p, enc, err := LoadFile(ctx, testDialect(dialect.Preserve), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Get("s", "k"); got != "värde" {
		t.Errorf("Get = %q; want %q", got, "värde")
	}
	if err := SaveFile(ctx, path, p, enc); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		t.Errorf("saved file is not little-endian UTF-16: % x", data[:2])
	}
}

func TestDetectEncoding(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	d := testDialect(dialect.Preserve)

	if enc := DetectEncoding(ctx, d, []byte("k=v\n")); enc != unicode.UTF8 {
		t.Errorf("plain text: got %v; want UTF-8", enc)
	}
	if enc := DetectEncoding(ctx, d, []byte("encoding=ISO-8859-1\n")); enc != charmap.ISO8859_1 {
		t.Errorf("registry name: got %v; want ISO 8859-1", enc)
	}
	if enc := DetectEncoding(ctx, d, []byte("encoding=ANSI\n")); enc != charmap.Windows1252 {
		t.Errorf("alias: got %v; want Windows 1252", enc)
	}
	if enc := DetectEncoding(ctx, d, []byte("encoding=klingon\n")); enc != unicode.UTF8 {
		t.Errorf("unknown name: got %v; want UTF-8 fallback", enc)
	}
	if enc := DetectEncoding(ctx, d, []byte("\xEF\xBB\xBFk=v\n")); enc != unicode.UTF8BOM {
		t.Errorf("byte order mark: got %v; want UTF-8 with BOM", enc)
	}
}

func TestDetectEncodingDecodesLegacyBytes(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	raw := []byte("encoding=ISO-8859-1\nname=caf\xe9\n")
	enc := DetectEncoding(ctx, testDialect(dialect.Preserve), raw)
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	p := mustNew(t, testDialect(dialect.Preserve), string(decoded))
	if got := p.Get("", "name"); got != "café" {
		t.Errorf("Get = %q; want %q", got, "café")
	}
}

func TestParseFiles(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	dir := t.TempDir()
	real := filepath.Join(dir, "real.ini")
	if err := os.WriteFile(real, []byte("k=1\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.ini")

	set, err := ParseFiles(ctx, testDialect(dialect.Preserve), missing, real)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Fatalf("set.Len() = %d; want 2", set.Len())
	}
	if set.At(0) != nil {
		t.Error("missing file did not produce a nil element")
	}
	if got := set.Get("", "k"); got != "1" {
		t.Errorf("Get = %q; want %q", got, "1")
	}

	if _, err := ParseFiles(ctx, testDialect(dialect.Preserve), dir); err == nil {
		t.Error("ParseFiles on a directory did not error")
	}
}

func TestSetPrecedence(t *testing.T) {
	top := mustNew(t, testDialect(dialect.Preserve), "k=top\n")
	low := mustNew(t, testDialect(dialect.Preserve), "k=low\nonly=x\n[s]\na=1\n")
	s := NewSet(testDialect(dialect.Preserve), top, low)

	if got := s.Get("", "k"); got != "top" {
		t.Errorf("Get = %q; want %q", got, "top")
	}
	if got := s.Get("", "only"); got != "x" {
		t.Errorf("Get fell through wrong: %q; want %q", got, "x")
	}
	if got := s.Value("", "absent", "def"); got != "def" {
		t.Errorf("Value = %q; want %q", got, "def")
	}
	if diff := cmp.Diff([]string{"low", "top"}, s.Find("", "k")); diff != "" {
		t.Errorf("Find (-want +got):\n%s", diff)
	}
	wantSections := map[string]struct{}{"": {}, "s": {}}
	if diff := cmp.Diff(wantSections, s.Sections(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Sections (-want +got):\n%s", diff)
	}
	wantKeys := map[string]struct{}{"k": {}, "only": {}}
	if diff := cmp.Diff(wantKeys, s.Keys(""), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Keys (-want +got):\n%s", diff)
	}
}

func TestSetSetValue(t *testing.T) {
	top := mustNew(t, testDialect(dialect.Preserve), "")
	low := mustNew(t, testDialect(dialect.Preserve), "k=low\nk=lower\n")
	s := NewSet(testDialect(dialect.Preserve), top, low)

	s.SetValue("", "k", "new")
	if got := s.Get("", "k"); got != "new" {
		t.Errorf("Get = %q; want %q", got, "new")
	}
	if diff := cmp.Diff([]string{"new"}, s.Find("", "k")); diff != "" {
		t.Errorf("lower layers kept stale values (-want +got):\n%s", diff)
	}
	if _, ok := low.Lookup("", "k"); ok {
		t.Error("write did not delete the masked entries below")
	}
}

func TestSetNilHead(t *testing.T) {
	low := mustNew(t, testDialect(dialect.Preserve), "k=low\n")
	s := NewSet(testDialect(dialect.Preserve), nil, low)

	if got := s.Get("", "k"); got != "low" {
		t.Errorf("Get through nil head = %q; want %q", got, "low")
	}
	s.SetValue("", "k", "new")
	if s.At(0) == nil {
		t.Fatal("head parser was not allocated")
	}
	if got := s.At(0).Get("", "k"); got != "new" {
		t.Errorf("head Get = %q; want %q", got, "new")
	}
	if got := s.Get("", "k"); got != "new" {
		t.Errorf("Get = %q; want %q", got, "new")
	}
}

// A set whose files were all missing still writes under the dialect it
// was loaded with, not the package default.
func TestSetAllMissingKeepsDialect(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	dir := t.TempDir()
	d := testDialect(dialect.Preserve)
	d.Separators = ":="
	d.Compare = dialect.CaseInsensitive

	s, err := ParseFiles(ctx, d,
		filepath.Join(dir, "a.ini"), filepath.Join(dir, "b.ini"))
	if err != nil {
		t.Fatal(err)
	}
	s.SetValue("srv", "Key", "v")
	if got := s.Get("SRV", "key"); got != "v" {
		t.Errorf("case-insensitive Get = %q; want %q", got, "v")
	}
	head := s.At(0)
	if got := head.Dialect().Separators; got != ":=" {
		t.Errorf("head separators = %q; want %q", got, ":=")
	}
	if got, want := head.Content(), "[srv]\nKey:v\n"; got != want {
		t.Errorf("head content = %q; want %q", got, want)
	}
}

func TestSetDelete(t *testing.T) {
	a := mustNew(t, testDialect(dialect.Preserve), "k=1\nx=9\n")
	b := mustNew(t, testDialect(dialect.Preserve), "k=2\n")
	s := NewSet(testDialect(dialect.Preserve), a, b)

	s.Delete("", "k")
	if _, ok := s.Lookup("", "k"); ok {
		t.Error("Lookup found a deleted entry")
	}
	if got := s.Get("", "x"); got != "9" {
		t.Errorf("unrelated entry = %q; want %q", got, "9")
	}
}
