/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package batch rewrites many files concurrently with a shared Rewriter.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/internal/logger"
	"bennypowers.dev/mockpath/rewrite"
)

// ErrNoFiles indicates that there was nothing to process.
var ErrNoFiles = errors.New("no files to rewrite")

// Options configures a batch run.
type Options struct {
	// Parallel bounds the number of files processed at once.
	// Defaults to runtime.NumCPU() when zero or negative.
	Parallel int

	// Write saves changed files back to the filesystem.
	Write bool
}

// Result is the outcome for one file.
type Result struct {
	// Path is the file as given to Run.
	Path string

	// Original is the file content before rewriting.
	Original []byte

	// Output is the rewritten content. It equals Original when nothing changed.
	Output []byte

	// Edits are the specifier replacements made.
	Edits []rewrite.Edit

	// Excluded is set for test and mock files, which are never rewritten.
	Excluded bool

	// Written is set when Output was saved back to Path.
	Written bool

	// Err is the read, parse or write failure for this file.
	Err error
}

// Changed reports whether any specifier was rewritten.
func (r *Result) Changed() bool {
	return len(r.Edits) > 0
}

// Diff returns a unified diff between Original and Output, or "" when unchanged.
func (r *Result) Diff() (string, error) {
	if !r.Changed() {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(r.Original),
		B:        splitLines(r.Output),
		FromFile: r.Path + ".orig",
		ToFile:   r.Path,
		Context:  3,
	})
}

// splitLines keeps line endings and, unlike difflib.SplitLines, adds no
// phantom empty line after a trailing newline.
func splitLines(data []byte) []string {
	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Run rewrites files and returns one Result per file, in input order.
// Per-file failures are reported in Result.Err; the returned error is
// ErrNoFiles or a context error.
func Run(ctx context.Context, filesystem fs.FileSystem, rw *rewrite.Rewriter, files []string, opts Options) ([]*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	results := make([]*Result, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = process(filesystem, rw, path, opts.Write)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func process(filesystem fs.FileSystem, rw *rewrite.Rewriter, path string, write bool) *Result {
	result := &Result{Path: path, Excluded: rw.IsExcluded(path)}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("error reading %s: %w", path, err)
		return result
	}
	result.Original = data
	result.Output = data

	if result.Excluded {
		logger.Debug("%s: excluded", path)
		return result
	}

	edits, err := rw.Scan(data, path)
	if err != nil {
		result.Err = err
		return result
	}
	if len(edits) == 0 {
		return result
	}

	result.Edits = edits
	result.Output = rewrite.Apply(data, edits)

	if write {
		if err := filesystem.WriteFile(path, result.Output, 0644); err != nil {
			result.Err = fmt.Errorf("error writing %s: %w", path, err)
			return result
		}
		result.Written = true
		logger.Info("rewrote %s (%d specifiers)", path, len(edits))
	}

	return result
}

// Failed returns the results that carry an error.
func Failed(results []*Result) []*Result {
	var failed []*Result
	for _, r := range results {
		if r != nil && r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
