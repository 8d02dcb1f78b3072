/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package rewrite provides the rewrite command for mockpath.
package rewrite

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"bennypowers.dev/mockpath/batch"
	"bennypowers.dev/mockpath/cmd/internal/cli"
	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/internal/logger"
)

// ErrCheckFailed is returned by --check when some file would change.
var ErrCheckFailed = errors.New("files would be rewritten")

// Cmd is the rewrite cobra command.
var Cmd = &cobra.Command{
	Use:   "rewrite [files...]",
	Short: "Rewrite import specifiers to point at mocks",
	Long: `Rewrite import, export, require and import() specifiers so that mocked
modules and files resolve to their __mocks__ replacements.

With a single file, the rewritten source is printed to stdout.
Use --in-place to rewrite many files, --diff to preview changes,
or --check to fail when any file would change.

With no arguments, files are selected by the config's include and exclude globs.

Examples:
  mockpath rewrite -m fs=fs.js src/index.js
  mockpath rewrite --in-place 'src/**/*.js'
  mockpath rewrite --diff
  cat src/index.js | mockpath rewrite --stdin-filepath src/index.js`,
	RunE: run,
}

func init() {
	Cmd.Flags().BoolP("in-place", "i", false, "Write rewritten files back to disk")
	Cmd.Flags().Bool("diff", false, "Print a unified diff instead of the rewritten source")
	Cmd.Flags().Bool("check", false, "Exit with an error if any file would be rewritten")
	Cmd.Flags().IntP("parallel", "p", 0, "Number of files to process at once (default: number of CPUs)")
	Cmd.Flags().String("stdin-filepath", "", "Read source from stdin, resolving specifiers as if it lived at this path")
}

func run(cmd *cobra.Command, args []string) error {
	inPlace, _ := cmd.Flags().GetBool("in-place")
	showDiff, _ := cmd.Flags().GetBool("diff")
	check, _ := cmd.Flags().GetBool("check")
	parallel, _ := cmd.Flags().GetInt("parallel")
	stdinPath, _ := cmd.Flags().GetString("stdin-filepath")

	filesystem := fs.NewOSFileSystem()
	p, err := cli.OpenProject(filesystem)
	if err != nil {
		return err
	}

	if stdinPath != "" {
		if len(args) > 0 {
			return fmt.Errorf("--stdin-filepath cannot be combined with file arguments")
		}
		return rewriteStdin(cmd, p.Rewriter.Func(), stdinPath)
	}

	abs, err := cli.AbsArgs(args)
	if err != nil {
		return err
	}
	files, err := p.Sources(abs)
	if err != nil {
		return fmt.Errorf("error expanding files: %w", err)
	}

	toStdout := !inPlace && !showDiff && !check
	if toStdout && len(files) > 1 {
		return fmt.Errorf("%d files matched: use --in-place, --diff or --check for more than one file", len(files))
	}

	results, err := batch.Run(cmd.Context(), filesystem, p.Rewriter, files, batch.Options{
		Parallel: parallel,
		Write:    inPlace,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var changed int
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if r.Changed() {
			changed++
		}
		switch {
		case toStdout:
			if _, err := out.Write(r.Output); err != nil {
				return err
			}
		case showDiff:
			diff, err := r.Diff()
			if err != nil {
				return fmt.Errorf("error diffing %s: %w", r.Path, err)
			}
			fmt.Fprint(out, diff)
		case check && r.Changed():
			fmt.Fprintln(out, relPath(p.Root, r.Path))
		}
	}

	if failed := batch.Failed(results); len(failed) > 0 {
		for _, r := range failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", r.Err)
		}
		return fmt.Errorf("%d of %d files failed", len(failed), len(results))
	}

	if inPlace {
		logger.Info("rewrote %d of %d files", changed, len(results))
	}
	if check && changed > 0 {
		return fmt.Errorf("%w: %d", ErrCheckFailed, changed)
	}
	return nil
}

func rewriteStdin(cmd *cobra.Command, rewriteFn func([]byte, string) ([]byte, error), path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", path, err)
	}
	source, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}
	output, err := rewriteFn(source, abs)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(output)
	return err
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
