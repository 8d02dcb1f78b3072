/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package rewrite

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Visitor receives the specifier-bearing constructs of a JavaScript module
// in document order.
type Visitor interface {
	// ImportDeclaration is called for `import ... from 'x'` and `import 'x'`.
	ImportDeclaration(n *ImportDeclaration)

	// ExportNamedDeclaration is called for every export that is neither
	// `export default` nor a wildcard re-export. Source is nil for local
	// exports such as `export { a }` or `export const a = 1`.
	ExportNamedDeclaration(n *ExportNamedDeclaration)

	// ExportAllDeclaration is called for `export * from 'x'` and
	// `export * as ns from 'x'`.
	ExportAllDeclaration(n *ExportAllDeclaration)

	// CallExpression is called for calls whose callee is a plain identifier.
	CallExpression(n *CallExpression)

	// ImportExpression is called for dynamic `import(...)`.
	ImportExpression(n *ImportExpression)
}

// ImportDeclaration is a static import.
type ImportDeclaration struct {
	Source *Literal
}

// ExportNamedDeclaration is a named export, with or without a source.
type ExportNamedDeclaration struct {
	Source *Literal
}

// ExportAllDeclaration is a wildcard re-export.
type ExportAllDeclaration struct {
	Source *Literal

	// Namespace is the exported name for `export * as ns`, empty otherwise.
	Namespace string
}

// CallExpression is a call to an identifier.
type CallExpression struct {
	// Callee is the identifier being called.
	Callee string

	// Arguments holds one entry per argument. Entries that are not plain
	// string literals are nil.
	Arguments []*Literal

	node *tree_sitter.Node
	src  []byte
}

// Shadowed reports whether Callee is bound by a declaration in a scope
// enclosing the call, as opposed to referring to a global.
func (c *CallExpression) Shadowed() bool {
	return isShadowed(c.node, c.Callee, c.src)
}

// ImportExpression is a dynamic import.
type ImportExpression struct {
	Arguments []*Literal
}

// Walk visits every specifier-bearing node under root.
func Walk(root *tree_sitter.Node, src []byte, v Visitor) {
	cursor := root.Walk()
	defer cursor.Close()

	for {
		visitNode(cursor.Node(), src, v)
		if cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
		}
	}
}

func visitNode(n *tree_sitter.Node, src []byte, v Visitor) {
	switch n.Kind() {
	case "import_statement":
		if source := sourceLiteral(n, src); source != nil {
			v.ImportDeclaration(&ImportDeclaration{Source: source})
		}
	case "export_statement":
		visitExport(n, src, v)
	case "call_expression":
		visitCall(n, src, v)
	}
}

func visitExport(n *tree_sitter.Node, src []byte, v Visitor) {
	if hasChildOfKind(n, "default") {
		return
	}

	source := sourceLiteral(n, src)
	if source != nil {
		if hasChildOfKind(n, "*") {
			v.ExportAllDeclaration(&ExportAllDeclaration{Source: source})
			return
		}
		if ns := childOfKind(n, "namespace_export"); ns != nil {
			name := ""
			if ns.NamedChildCount() > 0 {
				name = ns.NamedChild(0).Utf8Text(src)
			}
			v.ExportAllDeclaration(&ExportAllDeclaration{Source: source, Namespace: name})
			return
		}
	}

	v.ExportNamedDeclaration(&ExportNamedDeclaration{Source: source})
}

func visitCall(n *tree_sitter.Node, src []byte, v Visitor) {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if fn == nil || args == nil || args.Kind() != "arguments" {
		return
	}

	switch fn.Kind() {
	case "import":
		v.ImportExpression(&ImportExpression{Arguments: argumentLiterals(args, src)})
	case "identifier":
		v.CallExpression(&CallExpression{
			Callee:    fn.Utf8Text(src),
			Arguments: argumentLiterals(args, src),
			node:      n,
			src:       src,
		})
	}
}

func sourceLiteral(n *tree_sitter.Node, src []byte) *Literal {
	source := n.ChildByFieldName("source")
	if source == nil {
		return nil
	}
	return newLiteral(source, src)
}

func argumentLiterals(args *tree_sitter.Node, src []byte) []*Literal {
	var lits []*Literal
	for i := uint(0); i < args.NamedChildCount(); i++ {
		arg := args.NamedChild(i)
		if arg.Kind() == "comment" {
			continue
		}
		lits = append(lits, newLiteral(arg, src))
	}
	return lits
}

// newLiteral returns nil unless n is a plain quoted string.
func newLiteral(n *tree_sitter.Node, src []byte) *Literal {
	if n.Kind() != "string" {
		return nil
	}
	start, end := n.StartByte(), n.EndByte()
	raw := string(src[start:end])
	value, quote, ok := parseLiteral(raw)
	if !ok {
		return nil
	}
	pos := n.StartPosition()
	return &Literal{
		Value:  value,
		Quote:  quote,
		Raw:    raw,
		Start:  start,
		End:    end,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}

func childOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

func hasChildOfKind(n *tree_sitter.Node, kind string) bool {
	return childOfKind(n, kind) != nil
}
