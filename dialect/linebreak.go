// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package dialect

import (
	"fmt"
	"runtime"
)

// LineBreak selects the break style written by edits. Reading is always
// tolerant: the scanner accepts LF, CR and CRLF regardless of this
// setting.
type LineBreak uint8

const (
	// BreakAuto writes the first break style found in the existing
	// content, falling back to the platform style.
	BreakAuto LineBreak = iota
	BreakLF
	BreakCR
	BreakCRLF
	// BreakNative always writes the platform style.
	BreakNative
)

// Bytes returns the literal break for the style. BreakAuto resolves to
// the platform style; use Detect when content is available.
func (lb LineBreak) Bytes() string {
	switch lb {
	case BreakLF:
		return "\n"
	case BreakCR:
		return "\r"
	case BreakCRLF:
		return "\r\n"
	default:
		return nativeBreak()
	}
}

// Detect resolves the style against existing content: BreakAuto picks
// the first break present, every other style behaves like Bytes.
func (lb LineBreak) Detect(content string) string {
	if lb != BreakAuto {
		return lb.Bytes()
	}
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			return "\n"
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				return "\r\n"
			}
			return "\r"
		}
	}
	return nativeBreak()
}

func (lb LineBreak) String() string {
	switch lb {
	case BreakAuto:
		return "auto"
	case BreakLF:
		return "lf"
	case BreakCR:
		return "cr"
	case BreakCRLF:
		return "crlf"
	case BreakNative:
		return "native"
	default:
		return fmt.Sprintf("LineBreak(%d)", uint8(lb))
	}
}

func nativeBreak() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
