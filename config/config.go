/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for mockpath.
package config

import (
	"errors"
	"path/filepath"

	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/resolve"
	"bennypowers.dev/mockpath/rewrite"
)

// ErrInvalidConfig wraps every config file parse failure.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultInclude selects the sources rewritten when no files are named.
var DefaultInclude = []string{"**/*.{js,mjs,cjs,jsx}"}

// DefaultExclude is always skipped when expanding Include.
var DefaultExclude = []string{"**/node_modules/**", "**/.git/**"}

// Config represents the mockpath configuration.
type Config struct {
	// RootDir overrides the project root, relative to the directory the
	// config was loaded from.
	RootDir string `yaml:"rootDir" json:"rootDir"`

	// Modules maps bare module names to files under <root>/__mocks__/.
	Modules map[string]string `yaml:"modules" json:"modules"`

	// Files lists project files that have a sibling __mocks__ file.
	// Entries may be doublestar globs.
	Files []string `yaml:"files" json:"files"`

	// Include selects the sources to rewrite (doublestar globs).
	Include []string `yaml:"include" json:"include"`

	// Exclude removes sources from Include (doublestar globs).
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Require enables require('x') rewriting. Defaults to true.
	Require *bool `yaml:"require" json:"require"`

	// DynamicImport enables import('x') rewriting. Defaults to true.
	DynamicImport *bool `yaml:"dynamicImport" json:"dynamicImport"`

	// TestSuffixes exclude test files from rewriting.
	TestSuffixes []string `yaml:"testSuffixes" json:"testSuffixes"`

	// DefaultExtension is appended to extensionless relative specifiers.
	DefaultExtension string `yaml:"defaultExtension" json:"defaultExtension"`

	// Extensions are the source extensions recognized on relative specifiers.
	Extensions []string `yaml:"extensions" json:"extensions"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Modules: map[string]string{},
	}
}

// Root returns the effective project root for a config found in dir.
func (c *Config) Root(dir string) string {
	if c.RootDir == "" {
		return dir
	}
	if filepath.IsAbs(c.RootDir) {
		return c.RootDir
	}
	return filepath.Join(dir, c.RootDir)
}

// ResolverOptions returns resolve.Options with file globs expanded against root.
func (c *Config) ResolverOptions(filesystem fs.FileSystem, root string) (resolve.Options, error) {
	files, err := c.ExpandPatterns(filesystem, root, c.Files, nil)
	if err != nil {
		return resolve.Options{}, err
	}
	return resolve.Options{
		Modules:          c.Modules,
		Files:            files,
		RootDir:          root,
		DefaultExtension: c.DefaultExtension,
		Extensions:       c.Extensions,
	}, nil
}

// RewriteOptions returns rewrite.Options with configuration applied.
func (c *Config) RewriteOptions() rewrite.Options {
	return rewrite.Options{
		TestSuffixes:      c.TestSuffixes,
		SkipRequire:       c.Require != nil && !*c.Require,
		SkipDynamicImport: c.DynamicImport != nil && !*c.DynamicImport,
	}
}

// NewRewriter builds a Rewriter from the config.
func (c *Config) NewRewriter(filesystem fs.FileSystem, root string) (*rewrite.Rewriter, error) {
	opts, err := c.ResolverOptions(filesystem, root)
	if err != nil {
		return nil, err
	}
	r, err := resolve.New(opts)
	if err != nil {
		return nil, err
	}
	return rewrite.New(r, c.RewriteOptions()), nil
}

// SourceFiles returns the files selected by Include minus Exclude.
func (c *Config) SourceFiles(filesystem fs.FileSystem, root string) ([]string, error) {
	include := c.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	exclude := append(append([]string{}, DefaultExclude...), c.Exclude...)
	return c.ExpandPatterns(filesystem, root, include, exclude)
}
