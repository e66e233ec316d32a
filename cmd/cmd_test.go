// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/confedit/confedit/dialect"
	"github.com/confedit/confedit/ini"
)

// resetRootFlags restores the persistent flag values after a test so
// tests do not leak state into one another.
func resetRootFlags(t *testing.T) {
	t.Helper()
	old := rootFlags
	t.Cleanup(func() { rootFlags = old })
}

func TestBuildDialect(t *testing.T) {
	resetRootFlags(t)
	t.Setenv("CONFEDIT_ICASE", "")

	d, err := buildDialect()
	if err != nil {
		t.Fatal(err)
	}
	if d.Strategy != dialect.Preserve || d.Separators != "=:" || d.Comments != ";#" {
		t.Errorf("default dialect = %+v", d)
	}

	rootFlags.strategy = "reformat"
	rootFlags.icase = true
	d, err = buildDialect()
	if err != nil {
		t.Fatal(err)
	}
	if d.Strategy != dialect.Reformat || d.Compare != dialect.CaseInsensitive {
		t.Errorf("flagged dialect = %+v", d)
	}

	rootFlags.icase = false
	rootFlags.strategy = "preserve"
	t.Setenv("CONFEDIT_ICASE", "1")
	d, err = buildDialect()
	if err != nil {
		t.Fatal(err)
	}
	if d.Compare != dialect.CaseInsensitive {
		t.Errorf("CONFEDIT_ICASE dialect = %+v; want case-insensitive", d)
	}
	t.Setenv("CONFEDIT_ICASE", "")

	rootFlags.strategy = "bogus"
	if _, err := buildDialect(); err == nil {
		t.Error("unknown strategy did not error")
	}

	rootFlags.strategy = "preserve"
	rootFlags.separators = ";"
	if _, err := buildDialect(); err == nil {
		t.Error("separator colliding with comment marker did not error")
	}
}

func TestConfigPaths(t *testing.T) {
	resetRootFlags(t)
	t.Setenv("CONFEDIT_FILE", "")
	t.Setenv("CONFEDIT_PATH", "")

	if _, err := configPaths(); err == nil {
		t.Error("no sources configured but no error")
	}

	t.Setenv("CONFEDIT_PATH", "a.ini"+string(os.PathListSeparator)+"b.ini")
	paths, err := configPaths()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.ini", "b.ini"}, paths); diff != "" {
		t.Errorf("search path (-want +got):\n%s", diff)
	}

	t.Setenv("CONFEDIT_FILE", "env.ini")
	paths, err = configPaths()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"env.ini"}, paths); diff != "" {
		t.Errorf("CONFEDIT_FILE (-want +got):\n%s", diff)
	}

	rootFlags.file = "flag.ini"
	paths, err = configPaths()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"flag.ini"}, paths); diff != "" {
		t.Errorf("--file (-want +got):\n%s", diff)
	}
}

func TestSetAndUnset(t *testing.T) {
	resetRootFlags(t)
	path := filepath.Join(t.TempDir(), "app.ini")
	if err := os.WriteFile(path, []byte("; header\n[db]\nhost=localhost\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	rootFlags.file = path

	if err := runSet(setCmd, []string{"db", "port", "5432"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "; header\n[db]\nhost=localhost\nport=5432\n"; got != want {
		t.Errorf("file after set = %q; want %q", got, want)
	}

	if err := runUnset(unsetCmd, []string{"db", "host"}); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "; header\n[db]\nport=5432\n"; got != want {
		t.Errorf("file after unset = %q; want %q", got, want)
	}
}

func TestSetRejectsBadArguments(t *testing.T) {
	resetRootFlags(t)
	path := filepath.Join(t.TempDir(), "app.ini")
	rootFlags.file = path

	if err := runSet(setCmd, []string{"db", "a=b", "v"}); err == nil {
		t.Error("separator inside key did not error")
	}
	if err := runSet(setCmd, []string{"a]b", "k", "v"}); err == nil {
		t.Error("bracket inside section did not error")
	}
	if err := runSet(setCmd, []string{"db", "k", "a\nb"}); err == nil {
		t.Error("line break in value without escaping did not error")
	}
	rootFlags.inlineComments = true
	if err := runSet(setCmd, []string{"db", "k", "a;b"}); err == nil {
		t.Error("comment marker in value under inline comments did not error")
	}
	rootFlags.inlineComments = false
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected writes still created the file")
	}
}

func TestSetCreatesMissingFile(t *testing.T) {
	resetRootFlags(t)
	path := filepath.Join(t.TempDir(), "new.ini")
	rootFlags.file = path

	if err := runSet(setCmd, []string{"net", "timeout", "30"}); err != nil {
		t.Fatal(err)
	}
	p, _, err := ini.LoadFile(setCmd.Context(), dialect.Default(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Get("net", "timeout"); got != "30" {
		t.Errorf("Get = %q; want %q", got, "30")
	}
}

func TestLoadTargetMissingFile(t *testing.T) {
	resetRootFlags(t)
	path := filepath.Join(t.TempDir(), "absent.ini")
	rootFlags.file = path

	gotPath, p, enc, err := loadTarget(setCmd.Context())
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != path {
		t.Errorf("path = %q; want %q", gotPath, path)
	}
	if enc != nil {
		t.Errorf("encoding = %v; want nil for a fresh file", enc)
	}
	if got := p.Content(); got != "" {
		t.Errorf("content = %q; want empty", got)
	}
}
