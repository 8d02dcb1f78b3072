/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture and golden file helpers for tests.
package testutil

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/mockpath/internal/mapfs"
)

// updateGolden enables updating golden files with actual output when -update flag is set.
var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// testdataDirs are searched in order, since packages keep testdata at different depths.
var testdataDirs = []string{
	"testdata",
	filepath.Join("..", "testdata"),
	filepath.Join("..", "..", "testdata"),
}

// findTestdata returns the first testdata candidate for rel accepted by ok.
func findTestdata(rel string, ok func(candidate string) bool) (string, bool) {
	for _, dir := range testdataDirs {
		candidate := filepath.Join(dir, rel)
		if ok(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewFixtureFS loads a testdata directory into a MapFileSystem rooted at rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	dir, ok := findTestdata(fixtureDir, exists)
	if !ok {
		t.Fatalf("fixture directory %s not found", fixtureDir)
	}

	mfs := mapfs.New()
	err := fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(filepath.Join(dir, path))
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.Join(rootPath, filepath.FromSlash(path)), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixtures from %s: %v", fixtureDir, err)
	}
	return mfs
}

// WriteFiles creates files under dir on the real filesystem, for tests that
// drive commands against the OS. Keys are slash-separated relative paths.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// LoadFixtureFile reads a single fixture file and returns its content.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()

	path, ok := findTestdata(fixturePath, exists)
	if !ok {
		t.Fatalf("fixture %s not found", fixturePath)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", fixturePath, err)
	}
	return content
}

// UpdateGoldenFile writes actual output to the golden file when -update flag is set.
func UpdateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if !*updateGolden {
		return
	}

	target, ok := findTestdata(goldenPath, func(candidate string) bool {
		return exists(filepath.Dir(candidate))
	})
	if !ok {
		target = filepath.Join(testdataDirs[0], goldenPath)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			t.Fatalf("failed to create directory for golden file %s: %v", goldenPath, err)
		}
	}

	if err := os.WriteFile(target, actual, 0644); err != nil {
		t.Fatalf("failed to write golden file %s: %v", goldenPath, err)
	}
	t.Logf("updated golden file: %s", target)
}
