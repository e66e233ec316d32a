// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List section names",
	Long: "Sections lists the named sections holding at least one entry across\n" +
		"the configuration files, sorted. The unnamed global scope is not\n" +
		"listed.",
	Args: cobra.NoArgs,
	RunE: runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	set, err := loadSet(cmd.Context())
	if err != nil {
		return err
	}
	var names []string
	for name := range set.Sections() {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

var keysCmd = &cobra.Command{
	Use:   "keys [SECTION]",
	Short: "List entry keys in a section",
	Long: "Keys lists the entry keys in SECTION across the configuration files,\n" +
		"sorted. Without an argument it lists the global scope.",
	Args: cobra.MaximumNArgs(1),
	RunE: runKeys,
}

func runKeys(cmd *cobra.Command, args []string) error {
	section := ""
	if len(args) == 1 {
		section = args[0]
	}
	set, err := loadSet(cmd.Context())
	if err != nil {
		return err
	}
	var keys []string
	for key := range set.Keys(section) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
