// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package envvar reads the environment variables that configure the
// confedit command line tool.
package envvar

import (
	"os"
	"strconv"
	"strings"
)

// Get returns the value of the given environment variable. If it is
// empty or unset, it returns the default value.
func Get(key string, defaultValue string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return v
}

// Bool returns the value of a boolean environment variable. If it is
// unset or not one of the strings 1, t, T, TRUE, true, or True, then it
// returns false.
func Bool(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// List splits the value of the given environment variable at the
// platform's path list separator, dropping empty elements. An unset
// variable yields nil.
func List(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var elems []string
	for _, e := range strings.Split(v, string(os.PathListSeparator)) {
		if e != "" {
			elems = append(elems, e)
		}
	}
	return elems
}
