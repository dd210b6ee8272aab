// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/featuremap/featuremap/internal/contract"
)

// NewMCPServer initializes and configures the featuremap MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Featuremap Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: query_features ---
	s.AddTool(mcp.NewTool("query_features",
		mcp.WithDescription("List the flattened feature inventory with smart query filtering and sorting."),
		mcp.WithString("source", mcp.Description("Path or URL of the features document (defaults to the configured source).")),
		mcp.WithString("query", mcp.Description("Smart query, e.g. 'owner:platform AND lines:>1000' or a bare search term.")),
		mcp.WithString("sort", mcp.Description("Field to sort by, dot paths allowed (e.g. 'stats.lines_count').")),
		mcp.WithString("direction", mcp.Description("Sort direction."), mcp.Enum("asc", "desc")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleQueryFeatures)

	// --- 2. Tool: feature_dependencies ---
	s.AddTool(mcp.NewTool("feature_dependencies",
		mcp.WithDescription("Show grouped dependencies with coupling alerts, for one feature or the whole forest."),
		mcp.WithString("source", mcp.Description("Path or URL of the features document.")),
		mcp.WithString("feature_path", mcp.Description("Restrict the report to one feature path.")),
		mcp.WithString("type", mcp.Description("Keep only one relation type."), mcp.Enum("parent", "child", "sibling")),
	), h.handleFeatureDependencies)

	// --- 3. Tool: list_owners ---
	s.AddTool(mcp.NewTool("list_owners",
		mcp.WithDescription("Aggregate features per resolved owner, including inherited ownership counts."),
		mcp.WithString("source", mcp.Description("Path or URL of the features document.")),
	), h.handleListOwners)

	return s
}

// StartMCPServer starts the featuremap MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
