// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/siri/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the SIRI MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient) *server.MCPServer {
	s := server.NewMCPServer(
		"SIRI Score Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
	}

	s.AddTool(mcp.NewTool("get_siri_score",
		mcp.WithDescription("Blame every matching file at the configured ref and rank authors by surviving lines. "+
			"The SIRI percentage is the weighted share of code still owned by configured authors."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
		mcp.WithString("category", mcp.Description("File category to score. Defaults to 'all'."), mcp.Enum("code", "resource", "all")),
		mcp.WithString("unknown_policy", mcp.Description("How to tally lines by unconfigured authors. Defaults to 'bucket'."), mcp.Enum("bucket", "drop", "keep")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked authors returned.")),
	), h.handleGetSiriScore)

	return s
}

// StartMCPServer starts the SIRI MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient) error {
	s := NewMCPServer(baseCfg, client)
	return server.ServeStdio(s)
}
