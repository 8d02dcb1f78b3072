/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cli holds the flag keys and project setup shared by mockpath commands.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/project"
)

// Config keys, bound to persistent flags and MOCKPATH_* environment variables.
const (
	RootKey      = "root"
	ModuleKey    = "module"
	FileKey      = "file"
	NoRequireKey = "no-require"
	LogFileKey   = "log-file"
	VerboseKey   = "verbose"
)

// OpenProject opens the project described by the persistent flags.
func OpenProject(filesystem fs.FileSystem) (*project.Project, error) {
	modules, err := project.ParseModules(viper.GetStringSlice(ModuleKey))
	if err != nil {
		return nil, err
	}

	p, err := project.Open(project.Options{
		Root:        viper.GetString(RootKey),
		FS:          filesystem,
		Modules:     modules,
		Files:       viper.GetStringSlice(FileKey),
		SkipRequire: viper.GetBool(NoRequireKey),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening project: %w", err)
	}
	return p, nil
}

// AbsArgs makes command-line paths absolute against the working directory.
func AbsArgs(args []string) ([]string, error) {
	abs := make([]string, 0, len(args))
	for _, arg := range args {
		p, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("error resolving %s: %w", arg, err)
		}
		abs = append(abs, p)
	}
	return abs, nil
}
