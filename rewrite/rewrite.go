/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package rewrite redirects import specifiers in JavaScript modules to
// their registered mocks.
//
// Sources are parsed with tree-sitter and only the byte ranges of the
// affected string literals are replaced, so formatting, comments and
// unrelated code are preserved exactly.
package rewrite

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"bennypowers.dev/mockpath/internal/logger"
	"bennypowers.dev/mockpath/resolve"
)

// DefaultTestSuffix marks test files, which are never rewritten.
const DefaultTestSuffix = ".test.js"

// RequireIdentifier is the CommonJS loader function name.
const RequireIdentifier = "require"

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports source that could not be parsed.
type SyntaxError struct {
	File   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, ErrSyntax)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

var language = tree_sitter.NewLanguage(tree_sitter_javascript.Language())

// Form identifies the construct a specifier appeared in.
type Form int

const (
	// FormImport is a static import declaration.
	FormImport Form = iota
	// FormExport is a named re-export.
	FormExport
	// FormExportAll is a wildcard re-export.
	FormExportAll
	// FormRequire is a CommonJS require call.
	FormRequire
	// FormDynamicImport is an import() expression.
	FormDynamicImport
)

func (f Form) String() string {
	switch f {
	case FormExport:
		return "export"
	case FormExportAll:
		return "export *"
	case FormRequire:
		return "require"
	case FormDynamicImport:
		return "import()"
	default:
		return "import"
	}
}

// Edit is a single specifier replacement.
type Edit struct {
	Form Form

	// Literal is the specifier as found in source.
	Literal Literal

	// Value is the new specifier value.
	Value string
}

// Text returns the replacement literal, in the original quote style.
func (e Edit) Text() string {
	return e.Literal.Quote.Encode(e.Value)
}

// Options configures a Rewriter.
type Options struct {
	// TestSuffixes are file name suffixes that exclude a file from rewriting.
	// Defaults to DefaultTestSuffix.
	TestSuffixes []string

	// SkipRequire disables rewriting of require('x') calls.
	SkipRequire bool

	// SkipDynamicImport disables rewriting of import('x') expressions.
	SkipDynamicImport bool
}

// Func is the per-file transform shape expected by test runner hooks.
type Func func(source []byte, filePath string) ([]byte, error)

// Rewriter rewrites specifiers using a Resolver. It holds no mutable state
// and is safe for concurrent use.
type Rewriter struct {
	resolver          *resolve.Resolver
	testSuffixes      []string
	skipRequire       bool
	skipDynamicImport bool
}

// New creates a Rewriter.
func New(resolver *resolve.Resolver, opts Options) *Rewriter {
	suffixes := slices.Clone(opts.TestSuffixes)
	if len(suffixes) == 0 {
		suffixes = []string{DefaultTestSuffix}
	}
	return &Rewriter{
		resolver:          resolver,
		testSuffixes:      suffixes,
		skipRequire:       opts.SkipRequire,
		skipDynamicImport: opts.SkipDynamicImport,
	}
}

// Func returns Rewrite as a Func.
func (rw *Rewriter) Func() Func {
	return rw.Rewrite
}

// Resolver returns the resolver used for rewriting.
func (rw *Rewriter) Resolver() *resolve.Resolver {
	return rw.resolver
}

// IsExcluded reports whether filePath is a test file or a mock, which
// reference mocks directly and are left alone.
func (rw *Rewriter) IsExcluded(filePath string) bool {
	for _, suffix := range rw.testSuffixes {
		if strings.HasSuffix(filePath, suffix) {
			return true
		}
	}
	return filepath.Base(filepath.Dir(filePath)) == resolve.MocksDir
}

// Rewrite returns source with mocked specifiers replaced. Source that needs
// no changes is returned as is.
func (rw *Rewriter) Rewrite(source []byte, filePath string) ([]byte, error) {
	edits, err := rw.Scan(source, filePath)
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return source, nil
	}
	return Apply(source, edits), nil
}

// Apply splices edits, which must be in source order and non-overlapping,
// into source.
func Apply(source []byte, edits []Edit) []byte {
	out := make([]byte, 0, len(source))
	var last uint
	for _, e := range edits {
		out = append(out, source[last:e.Literal.Start]...)
		out = append(out, e.Text()...)
		last = e.Literal.End
	}
	return append(out, source[last:]...)
}

// Scan returns the edits Rewrite would make, in source order.
func (rw *Rewriter) Scan(source []byte, filePath string) ([]Edit, error) {
	if rw.IsExcluded(filePath) {
		return nil, nil
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to load javascript grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &SyntaxError{File: filePath, Line: 1, Column: 1}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newSyntaxError(filePath, root)
	}

	c := &collector{
		rw:       rw,
		filePath: filePath,
		fileDir:  filepath.Dir(rw.resolver.Abs(filePath)),
	}
	Walk(root, source, c)
	return c.edits, nil
}

func newSyntaxError(filePath string, root *tree_sitter.Node) *SyntaxError {
	cursor := root.Walk()
	defer cursor.Close()

	for {
		n := cursor.Node()
		if n.IsError() || n.IsMissing() {
			pos := n.StartPosition()
			return &SyntaxError{File: filePath, Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
		}
		if n.HasError() && cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				pos := root.StartPosition()
				return &SyntaxError{File: filePath, Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
			}
		}
	}
}

// collector is the Visitor that turns specifiers into edits.
type collector struct {
	rw       *Rewriter
	filePath string
	fileDir  string
	edits    []Edit
}

func (c *collector) ImportDeclaration(n *ImportDeclaration) {
	c.resolve(FormImport, n.Source)
}

func (c *collector) ExportNamedDeclaration(n *ExportNamedDeclaration) {
	if n.Source == nil {
		return
	}
	c.resolve(FormExport, n.Source)
}

func (c *collector) ExportAllDeclaration(n *ExportAllDeclaration) {
	c.resolve(FormExportAll, n.Source)
}

func (c *collector) CallExpression(n *CallExpression) {
	if c.rw.skipRequire || n.Callee != RequireIdentifier {
		return
	}
	if len(n.Arguments) != 1 || n.Arguments[0] == nil {
		return
	}
	if n.Shadowed() {
		logger.Debug("%s:%d: skipping locally bound %s()", c.filePath, n.Arguments[0].Line, n.Callee)
		return
	}
	c.resolve(FormRequire, n.Arguments[0])
}

func (c *collector) ImportExpression(n *ImportExpression) {
	if c.rw.skipDynamicImport || len(n.Arguments) == 0 || n.Arguments[0] == nil {
		return
	}
	c.resolve(FormDynamicImport, n.Arguments[0])
}

func (c *collector) resolve(form Form, lit *Literal) {
	if lit == nil {
		return
	}
	value := c.rw.resolver.Resolve(lit.Value, c.fileDir)
	if value == lit.Value {
		return
	}
	logger.Debug("%s:%d:%d: %s %q -> %q", c.filePath, lit.Line, lit.Column, form, lit.Value, value)
	c.edits = append(c.edits, Edit{Form: form, Literal: *lit, Value: value})
}
