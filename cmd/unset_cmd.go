// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confedit/confedit/ini"
)

var unsetCmd = &cobra.Command{
	Use:   "unset SECTION KEY",
	Short: "Delete every entry matching a key",
	Long: "Unset deletes every entry matching SECTION and KEY from the target\n" +
		"file, duplicates included. The rest of the file keeps its layout.",
	Args: cobra.ExactArgs(2),
	RunE: runUnset,
}

func runUnset(cmd *cobra.Command, args []string) error {
	section, key := args[0], args[1]
	ctx := cmd.Context()
	path, p, enc, err := loadTarget(ctx)
	if err != nil {
		return err
	}
	if err := checkNames(p.Dialect(), section, key); err != nil {
		return err
	}
	p.SetValues(section, key, nil)
	return ini.SaveFile(ctx, path, p, enc)
}
