/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolve

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/mockpath/cmd/internal/cli"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set(cli.RootKey, root)
	viper.Set(cli.ModuleKey, []string{"fs=fs.js"})
	viper.Set(cli.FileKey, []string{"src/db.js"})

	tests := []struct {
		name      string
		specifier string
		from      string
		expected  string
	}{
		{"module mock", "fs", "src/index.js", "../__mocks__/fs.js"},
		{"file mock", "./db", "src/index.js", "./__mocks__/db.js"},
		{"file mock from root", "./src/db.js", "index.js", "./src/__mocks__/db.js"},
		{"no mock", "path", "src/index.js", "path"},
		{"unmocked relative", "./other", "src/index.js", "./other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Cmd.Flags().VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
			})
			var out bytes.Buffer
			Cmd.SetOut(&out)
			Cmd.SetArgs([]string{tt.specifier, "--from", filepath.Join(root, tt.from)})
			require.NoError(t, Cmd.Execute())
			assert.Equal(t, tt.expected+"\n", out.String())
		})
	}
}

func TestResolve_RequiresSpecifier(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set(cli.RootKey, t.TempDir())

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetArgs([]string{})
	assert.Error(t, Cmd.Execute())
}
