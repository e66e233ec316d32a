// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package dialect

import (
	"testing"
)

func TestClassifierTables(t *testing.T) {
	d := Default()
	d.Comments = "#"
	d.Separators = ":="
	c, err := d.Classifier()
	if err != nil {
		t.Fatal(err)
	}
	for b := 0; b < 256; b++ {
		wantComment := b == '#'
		wantSep := b == ':' || b == '='
		if got := c.IsComment(byte(b)); got != wantComment {
			t.Errorf("IsComment(%q) = %t; want %t", byte(b), got, wantComment)
		}
		if got := c.IsSeparator(byte(b)); got != wantSep {
			t.Errorf("IsSeparator(%q) = %t; want %t", byte(b), got, wantSep)
		}
	}
	if got := c.Separator(); got != ':' {
		t.Errorf("Separator() = %q; want ':'", got)
	}
	if got := c.Dialect().Comments; got != "#" {
		t.Errorf("Dialect().Comments = %q; want \"#\"", got)
	}
}

func TestClassifierRejectsInvalidDialect(t *testing.T) {
	d := Default()
	d.Separators = ""
	if c, err := d.Classifier(); err == nil {
		t.Errorf("Classifier() = %v, nil; want an error", c)
	}
}

func TestValidKey(t *testing.T) {
	c, err := Default().Classifier()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		key  string
		want bool
	}{
		{"host", true},
		{"host name", true},
		{"host.name", true},
		{"名前", true},
		{"", false},
		{" host", false},
		{"host ", false},
		{"host=name", false},
		{"host:name", false},
		{"host[0]", false},
		{"[host", false},
		{";host", false},
		{"#host", false},
		{"ho;st", true},
		{"host\nname", false},
	}
	for _, test := range tests {
		if got := c.ValidKey(test.key); got != test.want {
			t.Errorf("ValidKey(%q) = %t; want %t", test.key, got, test.want)
		}
	}
}

func TestValidSection(t *testing.T) {
	c, err := Default().Classifier()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		want bool
	}{
		{"db", true},
		{"", true},
		{"db main", true},
		{"db=main", true},
		{"a[b", true},
		{"db]", false},
		{" db", false},
		{"db ", false},
		{"db\nmain", false},
		{"db\rmain", false},
	}
	for _, test := range tests {
		if got := c.ValidSection(test.name); got != test.want {
			t.Errorf("ValidSection(%q) = %t; want %t", test.name, got, test.want)
		}
	}
}
