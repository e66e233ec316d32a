// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cmd implements the confedit command line tool.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/confedit/confedit/dialect"
	"github.com/confedit/confedit/envvar"
	"github.com/confedit/confedit/ini"
	"golang.org/x/text/encoding"
)

var rootCmd = &cobra.Command{
	Use:   "confedit",
	Short: "Confedit reads and edits INI-style configuration files.",
	Long: "Confedit reads and edits INI-style configuration files without\n" +
		"disturbing their layout: comments, blank lines, and padding survive\n" +
		"every write.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var rootFlags struct {
	file           string
	separators     string
	comments       string
	icase          bool
	strategy       string
	escape         bool
	inlineComments bool
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of confedit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("confedit v0.1 -- HEAD")
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.file, "file", "f", "",
		"configuration file (default $CONFEDIT_FILE, then the $CONFEDIT_PATH search path)")
	pf.StringVar(&rootFlags.separators, "separators", "=:",
		"bytes accepted between key and value; the first is written")
	pf.StringVar(&rootFlags.comments, "comments", ";#",
		"bytes that open a comment")
	pf.BoolVar(&rootFlags.icase, "icase", false,
		"match section and key names case-insensitively (default $CONFEDIT_ICASE)")
	pf.StringVar(&rootFlags.strategy, "strategy", "preserve",
		"storage strategy: preserve, reformat, or quickscan")
	pf.BoolVar(&rootFlags.escape, "escape", false,
		"apply backslash escapes to values")
	pf.BoolVar(&rootFlags.inlineComments, "inline-comments", false,
		"allow comments after values on the same line")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(keysCmd)
}

// buildDialect compiles the persistent flags into a dialect.
func buildDialect() (dialect.Dialect, error) {
	d := dialect.Default()
	d.Separators = rootFlags.separators
	d.Comments = rootFlags.comments
	if rootFlags.icase || envvar.Bool("CONFEDIT_ICASE") {
		d.Compare = dialect.CaseInsensitive
	}
	strat, err := dialect.ParseStrategy(rootFlags.strategy)
	if err != nil {
		return dialect.Dialect{}, err
	}
	d.Strategy = strat
	d.Escape = rootFlags.escape
	d.InlineComments = rootFlags.inlineComments
	if err := d.Validate(); err != nil {
		return dialect.Dialect{}, err
	}
	return d, nil
}

// configPaths resolves the files to operate on: the --file flag, then
// CONFEDIT_FILE, then the CONFEDIT_PATH search path.
func configPaths() ([]string, error) {
	if rootFlags.file != "" {
		return []string{rootFlags.file}, nil
	}
	if f := envvar.Get("CONFEDIT_FILE", ""); f != "" {
		return []string{f}, nil
	}
	if paths := envvar.List("CONFEDIT_PATH"); len(paths) > 0 {
		return paths, nil
	}
	return nil, errors.New("no configuration file: pass --file or set CONFEDIT_FILE or CONFEDIT_PATH")
}

// loadSet reads every resolved path into a layered set. Missing files
// become empty layers.
func loadSet(ctx context.Context) (ini.Set, error) {
	d, err := buildDialect()
	if err != nil {
		return ini.Set{}, err
	}
	paths, err := configPaths()
	if err != nil {
		return ini.Set{}, err
	}
	return ini.ParseFiles(ctx, d, paths...)
}

// loadTarget loads the file writes go to: the first resolved path. A
// missing file starts as an empty text and is created on save.
func loadTarget(ctx context.Context) (string, *ini.Parser, encoding.Encoding, error) {
	d, err := buildDialect()
	if err != nil {
		return "", nil, nil, err
	}
	paths, err := configPaths()
	if err != nil {
		return "", nil, nil, err
	}
	path := paths[0]
	p, enc, err := ini.LoadFile(ctx, d, path)
	if errors.Is(err, fs.ErrNotExist) {
		p, err = ini.New(d, "")
		enc = nil
	}
	if err != nil {
		return "", nil, nil, err
	}
	return path, p, enc, nil
}

// checkNames rejects a section or key the dialect could not rewrite,
// so bad command line arguments surface as errors instead of panics.
func checkNames(d dialect.Dialect, section, key string) error {
	c, err := d.Classifier()
	if err != nil {
		return err
	}
	if key == "" || !c.ValidKey(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	if !c.ValidSection(section) {
		return fmt.Errorf("invalid section name %q", section)
	}
	return nil
}
