/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolve

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/project"

func newResolver(t *testing.T, modules map[string]string, files ...string) *Resolver {
	t.Helper()
	r, err := New(Options{Modules: modules, Files: files, RootDir: root})
	require.NoError(t, err)
	return r
}

func TestResolve_NoMock(t *testing.T) {
	r := newResolver(t, nil)

	tests := []struct {
		name string
		spec string
	}{
		{"bare module", "chalk"},
		{"scoped module", "@scope/pkg"},
		{"relative file", "./lib.js"},
		{"parent file", "../lib.js"},
		{"absolute file", "/srv/lib.js"},
		{"extensionless file", "./lib"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.spec, r.Resolve(tt.spec, root))
		})
	}
}

func TestResolve_ModuleMock(t *testing.T) {
	r := newResolver(t, map[string]string{
		"fs":          "fs.js",
		"fs/promises": "fs-promises.js",
	})

	tests := []struct {
		name    string
		spec    string
		fileDir string
		want    string
	}{
		{"module at root", "fs", root, "./__mocks__/fs.js"},
		{"subpath module at root", "fs/promises", root, "./__mocks__/fs-promises.js"},
		{"module from nested dir", "fs", root + "/lib/dir", "../../__mocks__/fs.js"},
		{"unregistered subpath", "fs/extra", root, "fs/extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.spec, tt.fileDir))
		})
	}
}

func TestResolve_FileMock(t *testing.T) {
	r := newResolver(t, nil, "lib/util.js", "lib/dir/util.js")

	tests := []struct {
		name    string
		spec    string
		fileDir string
		want    string
	}{
		{"sibling file", "./util.js", root + "/lib", "./__mocks__/util.js"},
		{"nested file", "./dir/util.js", root + "/lib", "./dir/__mocks__/util.js"},
		{"parent file", "../util.js", root + "/lib/dir", "../__mocks__/util.js"},
		{"extension inferred", "./util", root + "/lib", "./__mocks__/util.js"},
		{"unmocked sibling", "./other.js", root + "/lib", "./other.js"},
		{"known extension not rewritten", "./util.ts", root + "/lib", "./util.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.spec, tt.fileDir))
		})
	}
}

func TestResolve_ModuleWinsOverFile(t *testing.T) {
	r := newResolver(t, map[string]string{"./util.js": "special.js"}, "util.js")

	assert.Equal(t, "./__mocks__/special.js", r.Resolve("./util.js", root))
}

func TestResolve_RelativeFileDir(t *testing.T) {
	r := newResolver(t, nil, "lib/util.js")

	assert.Equal(t, "./__mocks__/util.js", r.Resolve("./util.js", "lib"))
}

func TestResolve_CustomExtensions(t *testing.T) {
	r, err := New(Options{
		Files:            []string{"src/util.ts"},
		RootDir:          root,
		DefaultExtension: ".ts",
		Extensions:       []string{".ts"},
	})
	require.NoError(t, err)

	assert.Equal(t, "./__mocks__/util.ts", r.Resolve("./util", root+"/src"))
	assert.Equal(t, "./util.js", r.Resolve("./util.js", root+"/src"))
}

func TestNew_CopiesRegistries(t *testing.T) {
	modules := map[string]string{"fs": "fs.js"}
	files := []string{"lib/util.js"}
	r, err := New(Options{Modules: modules, Files: files, RootDir: root})
	require.NoError(t, err)

	modules["path"] = "path.js"
	delete(modules, "fs")
	files[0] = "lib/other.js"

	assert.True(t, r.IsMockedModule("fs"))
	assert.False(t, r.IsMockedModule("path"))
	assert.True(t, r.IsMockedFile("lib/util.js"))
	assert.False(t, r.IsMockedFile("lib/other.js"))
}

func TestNew_RootDefaults(t *testing.T) {
	t.Run("from INIT_CWD", func(t *testing.T) {
		t.Setenv(RootEnvVar, "/from/env")
		r, err := New(Options{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean("/from/env"), r.RootDir())
	})

	t.Run("from working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(RootEnvVar, "")
		t.Chdir(dir)
		r, err := New(Options{})
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(r.RootDir())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("relative root made absolute", func(t *testing.T) {
		r, err := New(Options{RootDir: "."})
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(r.RootDir()))
	})
}

func TestRelativeSpecifier(t *testing.T) {
	tests := []struct {
		from, target, want string
	}{
		{"/a", "/a/__mocks__/x.js", "./__mocks__/x.js"},
		{"/a/b", "/a/__mocks__/x.js", "../__mocks__/x.js"},
		{"/a", "/a/b/__mocks__/x.js", "./b/__mocks__/x.js"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeSpecifier(tt.from, tt.target))
		})
	}
}
