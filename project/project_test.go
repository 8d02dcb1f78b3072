/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/mockpath/internal/mapfs"
	"bennypowers.dev/mockpath/testutil"
)

func TestOpen_FromFixture(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "app", "/project")

	p, err := Open(Options{Root: "/project", FS: mfs})
	require.NoError(t, err)
	assert.Equal(t, "/project", p.Root)
	assert.Equal(t, "fs.js", p.Config.Modules["fs"])

	files, err := p.Sources(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/project/src/index.js",
		"/project/src/db.js",
		"/project/src/index.test.js",
		"/project/src/__mocks__/db.js",
		"/project/__mocks__/fs.js",
	}, files)

	src, err := mfs.ReadFile("/project/src/index.js")
	require.NoError(t, err)
	got, err := p.Rewriter.Rewrite(src, "/project/src/index.js")
	require.NoError(t, err)
	assert.Equal(t, "import fs from '../__mocks__/fs.js';\nimport { query } from './__mocks__/db.js';\n\nexport const read = () => fs.readFileSync(query());\n", string(got))
}

func TestOpen_OptionsOverrideConfig(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/.config/mockpath.yaml", "modules:\n  fs: fs.js\n  path: path.js\nfiles: [lib/a.js]\n", 0644)

	p, err := Open(Options{
		Root:        "/project",
		FS:          mfs,
		Modules:     map[string]string{"fs": "memfs.js"},
		Files:       []string{"lib/b.js"},
		SkipRequire: true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"fs": "memfs.js", "path": "path.js"}, p.Config.Modules)
	assert.Equal(t, []string{"lib/a.js", "lib/b.js"}, p.Config.Files)

	got, err := p.Rewriter.Rewrite([]byte("import 'fs';\nrequire('path');\nimport './b';\n"), "/project/lib/index.js")
	require.NoError(t, err)
	assert.Equal(t, "import '../__mocks__/memfs.js';\nrequire('path');\nimport './__mocks__/b.js';\n", string(got))
}

func TestOpen_ConfigRootDir(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/.config/mockpath.yaml", "rootDir: packages/app\nmodules: {fs: fs.js}\n", 0644)

	p, err := Open(Options{Root: "/repo", FS: mfs})
	require.NoError(t, err)
	assert.Equal(t, "/repo/packages/app", p.Root)
	assert.Equal(t, "/repo/packages/app", p.Rewriter.Resolver().RootDir())
}

func TestOpen_RootFromEnv(t *testing.T) {
	t.Setenv("INIT_CWD", "/from/env")

	p, err := Open(Options{FS: mapfs.New()})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", p.Root)
}

func TestSources_Patterns(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/src/a.js", "", 0644)
	mfs.AddFile("/project/src/b.mjs", "", 0644)

	p, err := Open(Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	files, err := p.Sources([]string{"src/*.js", "/project/src/b.mjs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/project/src/a.js", "/project/src/b.mjs"}, files)
}

func TestParseModules(t *testing.T) {
	modules, err := ParseModules([]string{"fs=fs.js", "fs/promises=fs-promises.js"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"fs": "fs.js", "fs/promises": "fs-promises.js"}, modules)

	for _, bad := range []string{"fs", "=fs.js", "fs="} {
		_, err := ParseModules([]string{bad})
		assert.Error(t, err, bad)
	}
}
