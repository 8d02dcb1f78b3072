/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package rewrite

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function_declaration": true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// isShadowed walks outward from n and reports whether any enclosing scope
// declares name.
func isShadowed(n *tree_sitter.Node, name string, src []byte) bool {
	for scope := n.Parent(); scope != nil; scope = scope.Parent() {
		switch kind := scope.Kind(); {
		case kind == "program":
			return blockDeclares(scope, name, src) || hoistsVar(scope, name, src)
		case kind == "statement_block", kind == "class_body", kind == "switch_body":
			if blockDeclares(scope, name, src) {
				return true
			}
		case kind == "switch_case", kind == "switch_default":
			if blockDeclares(scope, name, src) {
				return true
			}
		case functionKinds[kind]:
			if functionBinds(scope, name, src) {
				return true
			}
		case kind == "catch_clause":
			if p := scope.ChildByFieldName("parameter"); p != nil && patternBinds(p, name, src) {
				return true
			}
		case kind == "for_statement":
			if init := scope.ChildByFieldName("initializer"); init != nil && declarationBinds(init, name, src) {
				return true
			}
		case kind == "for_in_statement":
			if scope.ChildByFieldName("kind") != nil {
				if left := scope.ChildByFieldName("left"); left != nil && patternBinds(left, name, src) {
					return true
				}
			}
		}
	}
	return false
}

// functionBinds covers parameters, hoisted vars and the name of a named
// function expression, all of which are visible inside the function body.
func functionBinds(fn *tree_sitter.Node, name string, src []byte) bool {
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < params.NamedChildCount(); i++ {
			if patternBinds(params.NamedChild(i), name, src) {
				return true
			}
		}
	}
	if param := fn.ChildByFieldName("parameter"); param != nil && patternBinds(param, name, src) {
		return true
	}
	switch fn.Kind() {
	case "function_expression", "function", "generator_function":
		if id := fn.ChildByFieldName("name"); id != nil && id.Utf8Text(src) == name {
			return true
		}
	}
	if body := fn.ChildByFieldName("body"); body != nil && body.Kind() == "statement_block" {
		return hoistsVar(body, name, src)
	}
	return false
}

// blockDeclares checks the statements directly inside a block.
func blockDeclares(block *tree_sitter.Node, name string, src []byte) bool {
	for i := uint(0); i < block.NamedChildCount(); i++ {
		if statementDeclares(block.NamedChild(i), name, src) {
			return true
		}
	}
	return false
}

func statementDeclares(stmt *tree_sitter.Node, name string, src []byte) bool {
	switch stmt.Kind() {
	case "function_declaration", "generator_function_declaration", "class_declaration":
		id := stmt.ChildByFieldName("name")
		return id != nil && id.Utf8Text(src) == name
	case "lexical_declaration", "variable_declaration":
		return declarationBinds(stmt, name, src)
	case "import_statement":
		return importBinds(stmt, name, src)
	case "export_statement":
		if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			return statementDeclares(decl, name, src)
		}
	}
	return false
}

func declarationBinds(decl *tree_sitter.Node, name string, src []byte) bool {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
	default:
		return false
	}
	for i := uint(0); i < decl.NamedChildCount(); i++ {
		declarator := decl.NamedChild(i)
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		if id := declarator.ChildByFieldName("name"); id != nil && patternBinds(id, name, src) {
			return true
		}
	}
	return false
}

func importBinds(stmt *tree_sitter.Node, name string, src []byte) bool {
	clause := childOfKind(stmt, "import_clause")
	if clause == nil {
		return false
	}
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			if child.Utf8Text(src) == name {
				return true
			}
		case "namespace_import":
			if child.NamedChildCount() > 0 && child.NamedChild(0).Utf8Text(src) == name {
				return true
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				local := spec.ChildByFieldName("alias")
				if local == nil {
					local = spec.ChildByFieldName("name")
				}
				if local != nil && local.Utf8Text(src) == name {
					return true
				}
			}
		}
	}
	return false
}

// patternBinds reports whether a binding pattern introduces name.
func patternBinds(p *tree_sitter.Node, name string, src []byte) bool {
	switch p.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		return p.Utf8Text(src) == name
	case "object_pattern", "array_pattern", "rest_pattern":
		for i := uint(0); i < p.NamedChildCount(); i++ {
			if patternBinds(p.NamedChild(i), name, src) {
				return true
			}
		}
	case "pair_pattern":
		if v := p.ChildByFieldName("value"); v != nil {
			return patternBinds(v, name, src)
		}
	case "assignment_pattern", "object_assignment_pattern":
		if left := p.ChildByFieldName("left"); left != nil {
			return patternBinds(left, name, src)
		}
	}
	return false
}

// hoistsVar looks for `var name` anywhere under n without entering nested functions.
func hoistsVar(n *tree_sitter.Node, name string, src []byte) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		kind := child.Kind()
		if functionKinds[kind] || kind == "class_declaration" || kind == "class" {
			continue
		}
		if kind == "variable_declaration" && declarationBinds(child, name, src) {
			return true
		}
		if hoistsVar(child, name, src) {
			return true
		}
	}
	return false
}
