/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package rewrite

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/mockpath/cmd/internal/cli"
	"bennypowers.dev/mockpath/testutil"
)

func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFiles(t, root, files)

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set(cli.RootKey, root)
	viper.Set(cli.ModuleKey, []string{"fs=fs.js"})
	viper.Set(cli.FileKey, []string{"src/db.js"})
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	Cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	Cmd.SilenceErrors = true
	Cmd.SilenceUsage = true
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetIn(strings.NewReader(stdin))
	Cmd.SetArgs(args)
	err := Cmd.Execute()
	return out.String(), err
}

func TestRewrite_SingleFileToStdout(t *testing.T) {
	root := setupProject(t, map[string]string{
		"src/index.js": "import fs from 'fs';\nimport db from './db';\n",
	})

	out, err := execute(t, "", filepath.Join(root, "src/index.js"))
	require.NoError(t, err)
	assert.Equal(t, "import fs from '../__mocks__/fs.js';\nimport db from './__mocks__/db.js';\n", out)

	data, err := os.ReadFile(filepath.Join(root, "src/index.js"))
	require.NoError(t, err)
	assert.Equal(t, "import fs from 'fs';\nimport db from './db';\n", string(data), "stdout mode must not write")
}

func TestRewrite_MultipleFilesNeedMode(t *testing.T) {
	root := setupProject(t, map[string]string{
		"a.js": "import 'fs';\n",
		"b.js": "import 'fs';\n",
	})

	_, err := execute(t, "", filepath.Join(root, "a.js"), filepath.Join(root, "b.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 files matched")
}

func TestRewrite_InPlace(t *testing.T) {
	root := setupProject(t, map[string]string{
		"src/index.js":      "const fs = require('fs');\n",
		"src/index.test.js": "const fs = require('fs');\n",
		"node_modules/x.js": "require('fs');\n",
	})

	_, err := execute(t, "", "--in-place")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "src/index.js"))
	require.NoError(t, err)
	assert.Equal(t, "const fs = require('../__mocks__/fs.js');\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "src/index.test.js"))
	require.NoError(t, err)
	assert.Equal(t, "const fs = require('fs');\n", string(data), "test files are excluded")

	data, err = os.ReadFile(filepath.Join(root, "node_modules/x.js"))
	require.NoError(t, err)
	assert.Equal(t, "require('fs');\n", string(data), "node_modules is not a source directory")
}

func TestRewrite_Diff(t *testing.T) {
	root := setupProject(t, map[string]string{
		"index.js": "import fs from 'fs';\n",
	})
	path := filepath.Join(root, "index.js")

	out, err := execute(t, "", "--diff", path)
	require.NoError(t, err)
	assert.Equal(t, "--- "+path+".orig\n+++ "+path+"\n@@ -1 +1 @@\n-import fs from 'fs';\n+import fs from './__mocks__/fs.js';\n", out)
}

func TestRewrite_Check(t *testing.T) {
	root := setupProject(t, map[string]string{
		"clean.js": "import path from 'path';\n",
		"dirty.js": "import fs from 'fs';\n",
	})

	out, err := execute(t, "", "--check", filepath.Join(root, "clean.js"))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "", "--check")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCheckFailed))
	assert.Equal(t, "dirty.js\n", out)
}

func TestRewrite_Stdin(t *testing.T) {
	root := setupProject(t, nil)

	out, err := execute(t, "export * from \"fs\";\n", "--stdin-filepath", filepath.Join(root, "lib/index.js"))
	require.NoError(t, err)
	assert.Equal(t, "export * from \"../__mocks__/fs.js\";\n", out)
}

func TestRewrite_StdinWithArgs(t *testing.T) {
	root := setupProject(t, nil)

	_, err := execute(t, "", "--stdin-filepath", filepath.Join(root, "a.js"), "b.js")
	require.Error(t, err)
}

func TestRewrite_SyntaxError(t *testing.T) {
	root := setupProject(t, map[string]string{
		"broken.js": "import fs from 'fs'\nconst = ;\n",
	})

	out, err := execute(t, "", "--check", filepath.Join(root, "broken.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, out, "syntax error")
}

func TestRewrite_NoRequire(t *testing.T) {
	root := setupProject(t, map[string]string{
		"index.js": "require('fs');\nimport('fs');\n",
	})
	viper.Set(cli.NoRequireKey, true)

	out, err := execute(t, "", filepath.Join(root, "index.js"))
	require.NoError(t, err)
	assert.Equal(t, "require('fs');\nimport('./__mocks__/fs.js');\n", out)
}
