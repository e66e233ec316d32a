// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getFlags struct {
	all bool
	def string
}

var getCmd = &cobra.Command{
	Use:   "get SECTION KEY",
	Short: "Print the value of an entry",
	Long: "Get prints the value of the first entry matching SECTION and KEY\n" +
		"across the configuration files, earliest file first. Pass an empty\n" +
		"SECTION (\"\") for entries above the first header.",
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getFlags.all, "all", false,
		"print every matching value, one per line")
	getCmd.Flags().StringVar(&getFlags.def, "default", "",
		"value to print when no entry matches")
}

func runGet(cmd *cobra.Command, args []string) error {
	section, key := args[0], args[1]
	if key == "" {
		return fmt.Errorf("invalid key %q", key)
	}
	set, err := loadSet(cmd.Context())
	if err != nil {
		return err
	}
	if getFlags.all {
		for _, v := range set.Find(section, key) {
			fmt.Println(v)
		}
		return nil
	}
	v, ok := set.Lookup(section, key)
	if !ok {
		if cmd.Flags().Changed("default") {
			fmt.Println(getFlags.def)
			return nil
		}
		return fmt.Errorf("no entry for key %q in section %q", key, section)
	}
	fmt.Println(v)
	return nil
}
