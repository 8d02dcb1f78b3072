/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command, which serves mockpath's rewriter
// to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/mockpath/cmd/internal/cli"
	"bennypowers.dev/mockpath/fs"
	"bennypowers.dev/mockpath/internal/logger"
	"bennypowers.dev/mockpath/internal/version"
	"bennypowers.dev/mockpath/project"
	"bennypowers.dev/mockpath/rewrite"
	"bennypowers.dev/mockpath/specifier"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing two tools:

  rewrite_source     rewrite the specifiers of a JavaScript source
  resolve_specifier  resolve a single specifier from a file

Logging is discarded unless --log-file is set, since stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: run,
}

// RewriteInput is the rewrite_source tool input.
type RewriteInput struct {
	Source   string `json:"source" jsonschema:"JavaScript source text"`
	FilePath string `json:"filePath" jsonschema:"path of the source file, absolute or relative to the project root"`
}

// RewriteOutput is the rewrite_source tool output.
type RewriteOutput struct {
	Output  string        `json:"output"`
	Changes []ChangeEntry `json:"changes"`
}

// ChangeEntry describes one rewritten specifier.
type ChangeEntry struct {
	Line int    `json:"line"`
	Form string `json:"form"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ResolveInput is the resolve_specifier tool input.
type ResolveInput struct {
	Specifier string `json:"specifier" jsonschema:"import specifier as written in source"`
	FromFile  string `json:"fromFile" jsonschema:"path of the importing file, absolute or relative to the project root"`
}

// ResolveOutput is the resolve_specifier tool output.
type ResolveOutput struct {
	Resolved string `json:"resolved"`
	Mocked   bool   `json:"mocked"`
	Kind     string `json:"kind"`
	Package  string `json:"package,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	if viper.GetString(cli.LogFileKey) == "" {
		logger.SetOutput(io.Discard)
	}

	p, err := cli.OpenProject(fs.NewOSFileSystem())
	if err != nil {
		return err
	}

	return NewServer(p).Run(cmd.Context(), &mcp.StdioTransport{})
}

// NewServer builds an MCP server for a project.
func NewServer(p *project.Project) *mcp.Server {
	h := &handlers{project: p}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mockpath",
		Version: version.Get(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rewrite_source",
		Description: "Rewrite import, export, require and import() specifiers in a JavaScript source so mocked modules and files load from __mocks__.",
	}, h.rewriteSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_specifier",
		Description: "Resolve one import specifier from a file to its __mocks__ replacement, or return it unchanged.",
	}, h.resolveSpecifier)

	return server
}

type handlers struct {
	project *project.Project
}

func (h *handlers) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(h.project.Root, path)
}

func (h *handlers) rewriteSource(ctx context.Context, req *mcp.CallToolRequest, in RewriteInput) (*mcp.CallToolResult, RewriteOutput, error) {
	if in.FilePath == "" {
		return nil, RewriteOutput{}, fmt.Errorf("filePath is required")
	}
	rw := h.project.Rewriter
	path := h.abs(in.FilePath)
	source := []byte(in.Source)

	out := RewriteOutput{Output: in.Source, Changes: []ChangeEntry{}}
	if rw.IsExcluded(path) {
		return nil, out, nil
	}

	edits, err := rw.Scan(source, path)
	if err != nil {
		return nil, RewriteOutput{}, err
	}
	for _, e := range edits {
		out.Changes = append(out.Changes, ChangeEntry{
			Line: e.Literal.Line,
			Form: e.Form.String(),
			From: e.Literal.Value,
			To:   e.Value,
		})
	}
	if len(edits) > 0 {
		out.Output = string(rewrite.Apply(source, edits))
	}
	return nil, out, nil
}

func (h *handlers) resolveSpecifier(ctx context.Context, req *mcp.CallToolRequest, in ResolveInput) (*mcp.CallToolResult, ResolveOutput, error) {
	if in.Specifier == "" {
		return nil, ResolveOutput{}, fmt.Errorf("specifier is required")
	}
	dir := h.project.Root
	if in.FromFile != "" {
		dir = filepath.Dir(h.abs(in.FromFile))
	}
	resolved := h.project.Rewriter.Resolver().Resolve(in.Specifier, dir)
	spec := specifier.Parse(in.Specifier)
	return nil, ResolveOutput{
		Resolved: resolved,
		Mocked:   resolved != in.Specifier,
		Kind:     spec.Kind.String(),
		Package:  spec.Package,
	}, nil
}
