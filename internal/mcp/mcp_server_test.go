package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featuremap/featuremap/internal/contract"
	mcp_internal "github.com/featuremap/featuremap/internal/mcp"
)

const sampleDocument = `[
  {
    "name": "Platform",
    "path": "src/platform",
    "owner": "core-team",
    "description": "Shared services",
    "features": [
      {
        "name": "Auth",
        "path": "src/auth",
        "description": "Login and sessions",
        "features": [],
        "dependencies": [
          {"feature": "Billing", "sourceFilename": "login.go", "targetFilename": "invoice.go", "line": 10, "content": "x", "type": "sibling"}
        ]
      },
      {
        "name": "Billing",
        "path": "src/billing",
        "owner": "payments",
        "description": "Invoices",
        "features": []
      }
    ]
  }
]`

func writeSampleDocument(t *testing.T) string {
	t.Helper()
	source := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(source, []byte(sampleDocument), 0o644))
	return source
}

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestQueryFeaturesTool(t *testing.T) {
	cfg := &contract.Config{Source: writeSampleDocument(t)}

	res := callTool(t, cfg, "query_features", map[string]any{})
	require.False(t, res.IsError)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
	assert.Len(t, rows, 3)
}

func TestQueryFeaturesToolWithQuery(t *testing.T) {
	cfg := &contract.Config{Source: writeSampleDocument(t)}

	res := callTool(t, cfg, "query_features", map[string]any{
		"query": "owner:payments",
	})
	require.False(t, res.IsError)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "src/billing", rows[0]["path"])
}

func TestQueryFeaturesToolMissingSource(t *testing.T) {
	res := callTool(t, &contract.Config{}, "query_features", map[string]any{})
	assert.True(t, res.IsError, "The response should indicate an error state")
	assert.Contains(t, resultText(t, res), "no source configured")
}

func TestFeatureDependenciesTool(t *testing.T) {
	cfg := &contract.Config{Source: writeSampleDocument(t)}

	res := callTool(t, cfg, "feature_dependencies", map[string]any{
		"feature_path": "src/auth",
	})
	require.False(t, res.IsError)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "src/auth", reports[0]["feature_path"])
}

func TestFeatureDependenciesToolInvalidType(t *testing.T) {
	cfg := &contract.Config{Source: writeSampleDocument(t)}

	res := callTool(t, cfg, "feature_dependencies", map[string]any{
		"type": "cousin",
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid dependency type")
}

func TestListOwnersTool(t *testing.T) {
	cfg := &contract.Config{Source: writeSampleDocument(t)}

	res := callTool(t, cfg, "list_owners", map[string]any{})
	require.False(t, res.IsError)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "core-team", summaries[0]["owner"])
	assert.Equal(t, float64(2), summaries[0]["features"])
}

func TestQueryFeaturesToolLimit(t *testing.T) {
	cfg := &contract.Config{Source: writeSampleDocument(t)}

	res := callTool(t, cfg, "query_features", map[string]any{
		"limit": 1.0,
	})
	require.False(t, res.IsError)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
	assert.Len(t, rows, 1)
}
