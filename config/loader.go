/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	mpfs "bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/internal/logger"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "mockpath"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

type decoder struct {
	ext    string
	decode func(data []byte, v any) error
}

// decoders are tried in priority order. JSON config may carry comments
// and trailing commas.
var decoders = []decoder{
	{".yaml", yaml.Unmarshal},
	{".yml", yaml.Unmarshal},
	{".json", func(data []byte, v any) error { return json.Unmarshal(jsonc.ToJSON(data), v) }},
}

// skippedDirs are never descended into while expanding globs.
var skippedDirs = []string{"node_modules", ".git"}

// Load reads <rootDir>/.config/mockpath.{yaml,yml,json}, first match wins.
// It returns nil, nil when there is no config file.
func Load(filesystem mpfs.FileSystem, rootDir string) (*Config, error) {
	for _, d := range decoders {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+d.ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", configPath, err)
		}

		cfg := &Config{}
		if err := d.decode(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, configPath, err)
		}
		if cfg.Modules == nil {
			cfg.Modules = map[string]string{}
		}
		logger.Debug("loaded config from %s", configPath)
		return cfg, nil
	}
	return nil, nil
}

// ExpandPatterns expands each pattern against root and returns absolute
// paths, dropping any that match an exclude pattern. Plain paths are kept
// even when they do not exist.
func (c *Config) ExpandPatterns(filesystem mpfs.FileSystem, root string, patterns, exclude []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}

		expanded := []string{pattern}
		if containsGlob(pattern) {
			var err error
			if expanded, err = expandGlob(filesystem, pattern); err != nil {
				return nil, fmt.Errorf("error expanding %s: %w", pattern, err)
			}
		}

		for _, p := range expanded {
			if !isExcluded(root, p, exclude) && !slices.Contains(result, p) {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob walks the pattern's static base directory and matches the
// remainder against each file. Unreadable directories are skipped.
func expandGlob(filesystem mpfs.FileSystem, pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))

	var matches []string
	err := fs.WalkDir(filesystem, base, func(p string, d fs.DirEntry, err error) error {
		switch {
		case err != nil && p == base:
			return err
		case err != nil && d != nil && d.IsDir():
			return fs.SkipDir
		case err != nil:
			return nil
		case d.IsDir():
			if p != base && slices.Contains(skippedDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, base), "/")
		if ok, _ := doublestar.Match(rest, rel); ok {
			matches = append(matches, filepath.FromSlash(p))
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return matches, err
}

// isExcluded matches p, relative to root, against doublestar patterns.
func isExcluded(root, p string, exclude []string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
