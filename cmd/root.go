/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for mockpath.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"bennypowers.dev/mockpath/cmd/internal/cli"
	"bennypowers.dev/mockpath/cmd/mcp"
	"bennypowers.dev/mockpath/cmd/resolve"
	"bennypowers.dev/mockpath/cmd/rewrite"
	"bennypowers.dev/mockpath/cmd/scan"
	"bennypowers.dev/mockpath/cmd/version"
	"bennypowers.dev/mockpath/internal/logger"
)

const envPrefix = "MOCKPATH"

var rootCmd = &cobra.Command{
	Use:   "mockpath",
	Short: "Redirect JavaScript imports to their mocks",
	Long: `mockpath rewrites import, export and require specifiers in JavaScript sources
so that registered modules and files load their __mocks__ replacements instead.

Module mocks live in <root>/__mocks__/. File mocks live in a __mocks__ directory
next to the file they replace. Test files (*.test.js) and files inside __mocks__
are never rewritten.

Mocks are read from .config/mockpath.{yaml,yml,json} and from flags:

  mockpath rewrite --module fs=fs.js --file lib/db.js src/index.js`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.String(cli.RootKey, "", "Project root (default: $INIT_CWD or the working directory)")
	flags.StringArrayP(cli.ModuleKey, "m", nil, "Module mock as name=file, relative to <root>/__mocks__ (repeatable)")
	flags.StringArray(cli.FileKey, nil, "File with a sibling __mocks__ file, relative to the root (repeatable, supports globs)")
	flags.Bool(cli.NoRequireKey, false, "Leave require() calls untouched")
	flags.String(cli.LogFileKey, "", "Write logs to a rotating file instead of stderr")
	flags.BoolP(cli.VerboseKey, "v", false, "Log every rewritten specifier")

	for _, key := range []string{cli.RootKey, cli.ModuleKey, cli.FileKey, cli.NoRequireKey, cli.LogFileKey, cli.VerboseKey} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(key)))
	}

	rootCmd.AddCommand(rewrite.Cmd)
	rootCmd.AddCommand(scan.Cmd)
	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

// setup configures logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(viper.GetBool(cli.VerboseKey))

	if logFile := viper.GetString(cli.LogFileKey); logFile != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}
	return nil
}
