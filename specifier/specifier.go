/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier classifies JavaScript module specifiers.
package specifier

import (
	"regexp"
	"strings"
)

// Kind indicates the type of specifier.
type Kind int

const (
	// KindBare is a package-style reference such as "fs" or "@scope/pkg/sub".
	KindBare Kind = iota
	// KindRelative is a path starting with ".", e.g. "./util.js" or "../lib".
	KindRelative
	// KindAbsolute is a rooted path such as "/srv/app/util.js".
	KindAbsolute
)

// String returns a lowercase label for the kind.
func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	default:
		return "bare"
	}
}

// Specifier represents a parsed module specifier.
type Specifier struct {
	// Kind is the type of specifier (bare, relative, absolute).
	Kind Kind

	// Package is the package name for bare specifiers (e.g., "@scope/pkg" or "pkg").
	Package string

	// Subpath is the path inside the package for bare specifiers,
	// or the whole path for relative and absolute ones.
	Subpath string

	// Raw is the original specifier string.
	Raw string
}

// barePattern matches @scope/pkg/path, pkg/path, or bare pkg
var barePattern = regexp.MustCompile(`^(@[^/]+/[^/]+|[^/]+)(/.*)?$`)

// Parse parses a specifier string into a Specifier struct.
func Parse(spec string) *Specifier {
	if IsRelative(spec) {
		return &Specifier{Kind: KindRelative, Subpath: spec, Raw: spec}
	}

	if strings.HasPrefix(spec, "/") {
		return &Specifier{Kind: KindAbsolute, Subpath: spec, Raw: spec}
	}

	s := &Specifier{Kind: KindBare, Package: spec, Raw: spec}
	if matches := barePattern.FindStringSubmatch(spec); len(matches) == 3 {
		s.Package = matches[1]
		s.Subpath = strings.TrimPrefix(matches[2], "/")
	}
	return s
}

// IsRelative reports whether spec is a relative file reference.
// Only a leading "." counts; "/abs" and "pkg" are not relative.
func IsRelative(spec string) bool {
	return strings.HasPrefix(spec, ".")
}

// IsBare returns true if this is a package-style specifier.
func (s *Specifier) IsBare() bool {
	return s.Kind == KindBare
}

// IsRelative returns true if this is a relative path.
func (s *Specifier) IsRelative() bool {
	return s.Kind == KindRelative
}
