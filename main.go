// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Confedit reads and edits INI-style configuration files, keeping
// their layout intact. Run "confedit help" for usage.
package main

import "github.com/confedit/confedit/cmd"

func main() {
	cmd.Execute()
}
