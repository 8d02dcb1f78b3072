/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for mockpath.
package resolve

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bennypowers.dev/mockpath/cmd/internal/cli"
	"bennypowers.dev/mockpath/fs"
)

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve <specifier>",
	Short: "Print the specifier a file would import after rewriting",
	Long: `Resolve a single specifier as if it appeared in the file given by --from.
Specifiers without a mock are printed unchanged.

Examples:
  mockpath resolve fs --from src/index.js
  mockpath resolve ./db --from src/index.js`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().String("from", "", "File containing the specifier (default: a file in the working directory)")
}

func run(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")

	p, err := cli.OpenProject(fs.NewOSFileSystem())
	if err != nil {
		return err
	}

	dir := "."
	if from != "" {
		dir = filepath.Dir(from)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", from, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.Rewriter.Resolver().Resolve(args[0], dir))
	return nil
}
