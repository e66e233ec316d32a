// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confedit/confedit/ini"
)

var setCmd = &cobra.Command{
	Use:   "set SECTION KEY VALUE",
	Short: "Set the value of an entry",
	Long: "Set rewrites the first entry matching SECTION and KEY, inserting a\n" +
		"new line when there is none and creating the section and the file as\n" +
		"needed. The file keeps its layout and encoding.",
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	section, key, value := args[0], args[1], args[2]
	ctx := cmd.Context()
	path, p, enc, err := loadTarget(ctx)
	if err != nil {
		return err
	}
	d := p.Dialect()
	if err := checkNames(d, section, key); err != nil {
		return err
	}
	if !d.Escape && strings.ContainsAny(value, "\r\n") {
		return errors.New("value contains a line break; pass --escape to store it")
	}
	if !d.Escape && d.InlineComments && strings.ContainsAny(value, d.Comments) {
		return errors.New("value contains a comment marker; pass --escape to store it")
	}
	p.SetValue(section, key, value)
	return ini.SaveFile(ctx, path, p, enc)
}
