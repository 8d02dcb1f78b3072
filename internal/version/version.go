/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides version information for the mockpath CLI.
package version

import (
	"runtime/debug"
)

// Version is set at build time via -ldflags "-X bennypowers.dev/mockpath/internal/version.Version=...".
var Version = "dev"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Time      string `json:"time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
}

var readBuildInfo = debug.ReadBuildInfo

// Get returns the version string for the application.
func Get() string {
	return Info().Version
}

// Info returns build information, preferring the ldflags version, then the
// module version, then the VCS revision stamped by the go command.
func Info() BuildInfo {
	info := BuildInfo{Version: Version}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}

	if Version != "dev" {
		return info
	}
	switch {
	case bi.Main.Version != "" && bi.Main.Version != "(devel)":
		info.Version = bi.Main.Version
	case info.Commit != "":
		info.Version = shortCommit(info.Commit)
		if info.Modified {
			info.Version += "-dirty"
		}
	}
	return info
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
