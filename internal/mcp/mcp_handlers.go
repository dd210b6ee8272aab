package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/core/query"
	"github.com/featuremap/featuremap/core/tabsort"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/feed"
	"github.com/featuremap/featuremap/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// loadSnapshot fetches the requested document, falling back to the last
// cached payload when the source is unreachable.
func (h *toolHandler) loadSnapshot(source string) (*feed.Snapshot, error) {
	if source == "" {
		source = h.baseCfg.Source
	}
	if source == "" {
		return nil, fmt.Errorf("no source configured")
	}

	var cache contract.DocumentCache
	if h.mgr != nil {
		cache = h.mgr.GetDocumentCache()
	}

	snapshot, err := feed.Load(source, cache)
	if err != nil {
		cached, cacheErr := feed.LoadCached(source, cache)
		if cacheErr != nil {
			return nil, err
		}
		return cached, nil
	}
	return snapshot, nil
}

func (h *toolHandler) handleQueryFeatures(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := h.loadSnapshot(request.GetString("source", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading document failed: %v", err)), nil
	}

	rows := core.BuildInsightRows(snapshot.Features)

	if q := request.GetString("query", ""); q != "" {
		rows = query.Filter(rows, query.Parse(q), h.baseCfg.SearchFields)
	}

	if field := request.GetString("sort", ""); field != "" {
		direction := schema.SortAscending
		if request.GetString("direction", "") == string(schema.SortDescending) {
			direction = schema.SortDescending
		}
		rows = tabsort.New(rows, schema.SortConfig{Field: field, Direction: direction}).Sorted()
	}

	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFeatureDependencies(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeFilter := schema.DependencyType(request.GetString("type", ""))
	if typeFilter != "" {
		if _, ok := schema.ValidDependencyTypes[typeFilter]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid dependency type: %s", typeFilter)), nil
		}
	}

	snapshot, err := h.loadSnapshot(request.GetString("source", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading document failed: %v", err)), nil
	}

	reports := core.BuildDependencyReports(snapshot.Features, typeFilter)

	if featurePath := request.GetString("feature_path", ""); featurePath != "" {
		filtered := reports[:0]
		for _, report := range reports {
			if report.FeaturePath == featurePath {
				filtered = append(filtered, report)
			}
		}
		reports = filtered
	}

	jsonData, _ := json.MarshalIndent(reports, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListOwners(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := h.loadSnapshot(request.GetString("source", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading document failed: %v", err)), nil
	}

	summaries := core.BuildOwnerSummaries(snapshot.Features)
	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
