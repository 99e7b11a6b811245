package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "output format: markdown, man")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   flags.UsageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenDocWithWriter(cmd.OutOrStdout(), rootCmd, genDocDir, genDocFormat)
	},
}

func runGenDocWithWriter(w io.Writer, root *cobra.Command, dir, format string) error {
	if dir == "" {
		return errors.NewUsageError(errors.New("output directory is required"), "Pass --dir")
	}
	if err := paths.EnsureDir(dir, 0); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	root.DisableAutoGenTag = true
	switch format {
	case "markdown":
		if err := doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler); err != nil {
			return errors.Wrap(err, "generating markdown")
		}
	case "man":
		header := &doc.GenManHeader{Title: "MCPI", Section: "1", Source: "mcpi " + root.Version}
		if err := doc.GenManTree(root, header, dir); err != nil {
			return errors.Wrap(err, "generating man pages")
		}
	default:
		err := errors.Newf("unknown format %q", format)
		return errors.NewUsageError(err, "Use --format markdown or --format man")
	}

	fmt.Fprintf(w, "Documentation generated in %s\n", dir)
	return nil
}

func filePrepender(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	// mcpi_registry_list.md -> mcpi registry list
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
