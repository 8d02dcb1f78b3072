/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mapfs provides an in-memory filesystem implementation for testing.
package mapfs

import (
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

var modTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// MapFileSystem implements fs.FileSystem over an fstest.MapFS.
// Paths may be absolute; they are stored without the leading slash.
// Directories are implied by the files beneath them.
type MapFileSystem struct {
	mu        sync.RWMutex
	files     fstest.MapFS
	writes    int
	failWrite map[string]error
}

// New creates a new in-memory filesystem for testing.
func New() *MapFileSystem {
	return &MapFileSystem{
		files:     fstest.MapFS{},
		failWrite: map[string]error{},
	}
}

// AddFile adds a file to the in-memory filesystem. It does not count as a write.
func (mfs *MapFileSystem) AddFile(p string, content string, mode fs.FileMode) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.files[key(p)] = &fstest.MapFile{Data: []byte(content), Mode: mode, ModTime: modTime}
}

// FailWrite makes every WriteFile to p return err.
func (mfs *MapFileSystem) FailWrite(p string, err error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.failWrite[key(p)] = err
}

// WriteFile implements FileSystem.
func (mfs *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	k := key(name)
	if err := mfs.failWrite[k]; err != nil {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	mfs.files[k] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: perm, ModTime: modTime}
	mfs.writes++
	return nil
}

// Writes returns how many times WriteFile succeeded.
func (mfs *MapFileSystem) Writes() int {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return mfs.writes
}

// ReadFile implements FileSystem.
func (mfs *MapFileSystem) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return fs.ReadFile(mfs.files, key(name))
}

// Stat implements FileSystem.
func (mfs *MapFileSystem) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return fs.Stat(mfs.files, key(name))
}

// Exists implements FileSystem. Implied directories exist.
func (mfs *MapFileSystem) Exists(p string) bool {
	_, err := mfs.Stat(p)
	return err == nil
}

// Open implements FileSystem.
func (mfs *MapFileSystem) Open(name string) (fs.File, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	return mfs.files.Open(key(name))
}

// key maps a path to its fstest.MapFS key: cleaned, slash-separated, unrooted.
func key(p string) string {
	k := strings.TrimPrefix(path.Clean("/"+p), "/")
	if k == "" {
		return "."
	}
	return k
}
