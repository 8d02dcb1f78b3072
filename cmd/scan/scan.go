/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package scan provides the scan command for mockpath.
package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"bennypowers.dev/mockpath/batch"
	"bennypowers.dev/mockpath/cmd/internal/cli"
	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/specifier"
)

// Cmd is the scan cobra command.
var Cmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "List the specifiers that would be rewritten",
	Long: `List every import, export, require and import() specifier that resolves
to a mock, without modifying any file.

Examples:
  mockpath scan
  mockpath scan --format json src/index.js`,
	RunE: run,
}

// Entry is one rewritable specifier.
type Entry struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Form   string `json:"form"`
	Kind   string `json:"kind"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	Cmd.Flags().IntP("parallel", "p", 0, "Number of files to process at once (default: number of CPUs)")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	parallel, _ := cmd.Flags().GetInt("parallel")

	filesystem := fs.NewOSFileSystem()
	p, err := cli.OpenProject(filesystem)
	if err != nil {
		return err
	}

	abs, err := cli.AbsArgs(args)
	if err != nil {
		return err
	}
	files, err := p.Sources(abs)
	if err != nil {
		return fmt.Errorf("error expanding files: %w", err)
	}

	results, err := batch.Run(cmd.Context(), filesystem, p.Rewriter, files, batch.Options{Parallel: parallel})
	if err != nil {
		return err
	}

	entries := collect(p.Root, results)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling entries: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "table":
		renderTable(out, entries)
	default:
		return fmt.Errorf("unknown format %q (expected table or json)", format)
	}

	if failed := batch.Failed(results); len(failed) > 0 {
		for _, r := range failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", r.Err)
		}
		return fmt.Errorf("%d of %d files failed", len(failed), len(results))
	}
	return nil
}

func collect(root string, results []*batch.Result) []Entry {
	entries := []Entry{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		file := r.Path
		if rel, err := filepath.Rel(root, r.Path); err == nil {
			file = filepath.ToSlash(rel)
		}
		for _, e := range r.Edits {
			entries = append(entries, Entry{
				File:   file,
				Line:   e.Literal.Line,
				Column: e.Literal.Column,
				Form:   e.Form.String(),
				Kind:   specifier.Parse(e.Literal.Value).Kind.String(),
				From:   e.Literal.Value,
				To:     e.Value,
			})
		}
	}
	return entries
}

func renderTable(w io.Writer, entries []Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Line", "Form", "From", "To"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		table.Append([]string{e.File, strconv.Itoa(e.Line), e.Form, e.From, e.To})
	}
	table.SetFooter([]string{fmt.Sprintf("%d specifiers", len(entries)), "", "", "", ""})

	table.Render()
}
