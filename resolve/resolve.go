/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve decides where an import specifier should point when the
// module or file it names has a registered mock.
//
// Module mocks live under <root>/__mocks__/. File mocks live in a __mocks__
// directory next to the file they replace. Everything else passes through
// unchanged.
package resolve

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/mockpath/specifier"
)

// MocksDir is the directory name that holds mock implementations.
const MocksDir = "__mocks__"

// RootEnvVar is consulted for the root directory when none is given.
// npm sets it to the directory the package script was invoked from.
const RootEnvVar = "INIT_CWD"

// DefaultExtension is appended to relative specifiers that carry no known source extension.
const DefaultExtension = ".js"

// DefaultExtensions are the source extensions recognized on relative specifiers.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx", ".json"}

// Options configures a Resolver.
type Options struct {
	// Modules maps bare module names to file names under <RootDir>/__mocks__/.
	Modules map[string]string

	// Files lists project files that have a sibling __mocks__/<basename>.
	// Relative entries are resolved against RootDir.
	Files []string

	// RootDir is the project root. Defaults to RootFromEnv when empty.
	RootDir string

	// DefaultExtension overrides DefaultExtension when set.
	DefaultExtension string

	// Extensions overrides DefaultExtensions when non-empty.
	Extensions []string
}

// Resolver maps specifiers to mock locations. It is immutable after New and
// safe for concurrent use.
type Resolver struct {
	rootDir    string
	modules    map[string]string
	files      map[string]struct{}
	defaultExt string
	extensions []string
}

// RootFromEnv returns the INIT_CWD environment variable if set,
// otherwise the process working directory.
func RootFromEnv() (string, error) {
	if dir := os.Getenv(RootEnvVar); dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// New creates a Resolver, copying the registries so later changes to opts
// have no effect.
func New(opts Options) (*Resolver, error) {
	root := opts.RootDir
	if root == "" {
		envRoot, err := RootFromEnv()
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
	root = filepath.Clean(root)

	r := &Resolver{
		rootDir:    root,
		modules:    make(map[string]string, len(opts.Modules)),
		files:      make(map[string]struct{}, len(opts.Files)),
		defaultExt: opts.DefaultExtension,
		extensions: opts.Extensions,
	}
	if r.defaultExt == "" {
		r.defaultExt = DefaultExtension
	}
	if len(r.extensions) == 0 {
		r.extensions = DefaultExtensions
	}
	r.extensions = slices.Clone(r.extensions)

	for name, target := range opts.Modules {
		r.modules[name] = target
	}
	for _, file := range opts.Files {
		r.files[r.Abs(file)] = struct{}{}
	}

	return r, nil
}

// RootDir returns the absolute root directory.
func (r *Resolver) RootDir() string {
	return r.rootDir
}

// Abs resolves p against the root directory unless it is already absolute.
func (r *Resolver) Abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.rootDir, p)
}

// IsMockedModule reports whether name has a module mock.
func (r *Resolver) IsMockedModule(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// IsMockedFile reports whether the file at p has a file mock.
func (r *Resolver) IsMockedFile(p string) bool {
	_, ok := r.files[r.Abs(p)]
	return ok
}

// Resolve returns the specifier that should replace spec in a file living
// in fileDir. It returns spec itself when nothing is mocked.
//
// Module mocks are checked first, so a registered name wins over a file
// mock it might also resolve to. Only specifiers starting with "." are
// considered for file mocks.
func (r *Resolver) Resolve(spec, fileDir string) string {
	fileDir = r.Abs(fileDir)

	if target, ok := r.modules[spec]; ok {
		return relativeSpecifier(fileDir, filepath.Join(r.rootDir, MocksDir, target))
	}

	if !specifier.IsRelative(spec) {
		return spec
	}

	importFile := filepath.Join(fileDir, r.withExtension(spec))
	if _, ok := r.files[importFile]; ok {
		mockPath := filepath.Join(filepath.Dir(importFile), MocksDir, filepath.Base(importFile))
		return relativeSpecifier(fileDir, mockPath)
	}

	return spec
}

// withExtension appends the default extension unless spec already ends in a known one.
func (r *Resolver) withExtension(spec string) string {
	if slices.Contains(r.extensions, path.Ext(spec)) {
		return spec
	}
	return spec + r.defaultExt
}

// relativeSpecifier expresses target relative to fromDir as an import
// specifier: forward slashes, and a "./" prefix unless it already starts with ".".
func relativeSpecifier(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		// Different volumes; there is no relative form.
		return filepath.ToSlash(target)
	}
	rel = strings.ReplaceAll(rel, `\`, "/")
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
