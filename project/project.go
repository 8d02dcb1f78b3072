/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project assembles a Rewriter from a project's config file and
// caller overrides.
package project

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"bennypowers.dev/mockpath/config"
	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/resolve"
	"bennypowers.dev/mockpath/rewrite"
)

// Options configures how a project is opened. Set values take precedence
// over the config file.
type Options struct {
	// Root is the project root. Defaults to $INIT_CWD, then the working directory.
	Root string

	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Modules are merged over the configured module mocks.
	Modules map[string]string

	// Files are added to the configured file mocks.
	Files []string

	// SkipRequire disables require('x') rewriting regardless of config.
	SkipRequire bool
}

// Project is an opened project, ready to rewrite files.
type Project struct {
	// Root is the absolute project root.
	Root string

	// Config is the loaded config, or defaults.
	Config *config.Config

	// FS is the filesystem files are read from.
	FS fs.FileSystem

	// Rewriter rewrites files of this project.
	Rewriter *rewrite.Rewriter
}

// Open loads .config/mockpath.* from the root and builds the Rewriter.
//
// The loading process:
//  1. Determines the root (Options, then $INIT_CWD, then working directory)
//  2. Loads config from <root>/.config/mockpath.{yaml,yml,json}, if any
//  3. Applies the config's rootDir, if set
//  4. Merges Options over config values
//  5. Expands file mock globs and builds the Resolver and Rewriter
func Open(opts Options) (*Project, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	root := opts.Root
	if root == "" {
		envRoot, err := resolve.RootFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to determine root directory: %w", err)
		}
		root = envRoot
	}
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = absRoot
	}

	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	root = cfg.Root(root)

	merged := *cfg
	merged.Modules = maps.Clone(cfg.Modules)
	if merged.Modules == nil {
		merged.Modules = map[string]string{}
	}
	maps.Copy(merged.Modules, opts.Modules)
	merged.Files = append(append([]string{}, cfg.Files...), opts.Files...)
	if opts.SkipRequire {
		disabled := false
		merged.Require = &disabled
	}

	rw, err := merged.NewRewriter(filesystem, root)
	if err != nil {
		return nil, err
	}

	return &Project{
		Root:     root,
		Config:   &merged,
		FS:       filesystem,
		Rewriter: rw,
	}, nil
}

// Sources expands patterns to files. With no patterns, the config's
// include and exclude globs select the files under Root.
func (p *Project) Sources(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return p.Config.SourceFiles(p.FS, p.Root)
	}
	return p.Config.ExpandPatterns(p.FS, p.Root, patterns, nil)
}

// ParseModules parses name=file pairs into a module registry.
func ParseModules(pairs []string) (map[string]string, error) {
	modules := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, file, found := strings.Cut(pair, "=")
		if !found || name == "" || file == "" {
			return nil, fmt.Errorf("invalid module mock %q: expected name=file", pair)
		}
		modules[name] = file
	}
	return modules, nil
}
