// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini parses and edits INI-style configuration text.
See https://en.wikipedia.org/wiki/INI_file.

The package is built for read-modify-write scenarios. Under the default
Preserve strategy a write splices only the bytes it must: comments,
blank lines, indentation and even malformed lines survive untouched.
The Reformat strategy instead folds the text into a structural index
and regenerates clean output, deliberately dropping everything that is
not a section or an entry. QuickScan behaves like Preserve but holds no
token cache, trading repeated-query speed for memory.

Which characters start comments, which separate keys from values, how
names compare, and how writes behave are all carried by a
dialect.Dialect; one dialect value can be shared between parsers.

# Syntax

Configuration text consists of zero or more entries. An entry is a key
and a value written on one line, separated by the first separator
character on that line:

	key=value

Keys must not be empty, must not contain separator or bracket
characters, and must not start with a comment marker. A line whose
would-be key breaks these rules is not an error; the whole line is
classified as undefined text and, under Preserve, kept verbatim.

Entries may be grouped into sections. A section starts at its
bracketed header and runs to the next header or the end of the text:

	[section]
	key1=value1
	key2=value2

Entries before the first header belong to the global section,
identified by the empty string (""). A literal empty header ("[]")
names the global section too and switches scope back to it.

Whitespace around keys, values, and section names is ignored; it is
never part of a token. A line whose first non-blank character is a
comment marker is a comment. With InlineComments enabled a marker
after the separator ends the value early and the rest of the line is a
comment.

With Escape enabled, values are escaped on write and unescaped on
read using the escape package's canonical backslash forms, so values
may contain line breaks and control characters.

# Repeated names

Multiple entries in one section may share a key. Single-value reads
(Lookup, Get, Value) return the first one in document order; Find
returns all of them. Multiple sections may share a name; they are
treated as one section presented contiguously.

# Concurrency

A Parser is single-owner: methods must not be called concurrently.
Shared wraps a Parser behind one lock and optionally defers write
application to a background worker; see its documentation for the
visibility rules.
*/
package ini
