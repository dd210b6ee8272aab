package core

import (
	"testing"

	"github.com/featuremap/featuremap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestBuildInsightRows(t *testing.T) {
	forest := []*schema.Feature{
		{
			Name:        "Platform",
			Path:        "src/platform",
			Owner:       "core-team",
			Description: "shared platform",
			Changes: []schema.Change{
				{Title: "latest", Date: "2024-03-01"},
				{Title: "older", Date: "2024-01-01"},
			},
			Decisions: []string{"adr-1"},
			Meta:      map[string]schema.MetaValue{"tier": schema.ScalarMeta("1")},
			Stats: &schema.Stats{
				FilesCount: intPtr(12),
				LinesCount: intPtr(3400),
				TodosCount: intPtr(2),
				Coverage:   &schema.CoverageStats{LineCoveragePercent: 81.5},
			},
			Features: []*schema.Feature{
				{Name: "Auth", Path: "src/platform/auth"},
			},
		},
	}
	AttachParents(forest)

	rows := BuildInsightRows(forest)
	require.Len(t, rows, 2)

	row := rows[0]
	assert.Equal(t, "src/platform", row["path"])
	assert.Equal(t, "core-team", row["owner"])
	assert.Equal(t, false, row["owner_inherited"])
	assert.Equal(t, 2, row["changes"])
	assert.Equal(t, 1, row["decisions"])
	assert.Equal(t, 1, row["children"])
	assert.Equal(t, "2024-03-01", row["last_change"])
	assert.Equal(t, 12, row["files"])
	assert.Equal(t, 3400, row["lines"])
	assert.Equal(t, 2, row["todos"])
	assert.Equal(t, 81.5, row["coverage"])
	assert.Equal(t, map[string]any{"tier": "1"}, row["meta"])

	stats, ok := row["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3400, stats["lines_count"])

	child := rows[1]
	assert.Equal(t, "core-team", child["owner"])
	assert.Equal(t, true, child["owner_inherited"])
	assert.NotContains(t, child, "last_change")
	assert.NotContains(t, child, "stats")
}

func TestBuildInsightRowsAlertCount(t *testing.T) {
	forest := depForest()
	rows := BuildInsightRows(forest)
	require.Len(t, rows, 3)

	// Auth and Billing form a direct cycle; each carries one alerting
	// group.
	assert.Equal(t, 1, rows[0]["alerts"])
	assert.Equal(t, 1, rows[1]["alerts"])
	assert.Equal(t, 0, rows[2]["alerts"])
}

func TestBuildInsightRowsDoNotMutateInput(t *testing.T) {
	forest := testForest()
	before := Flatten(forest)[0].Name
	_ = BuildInsightRows(forest)
	assert.Equal(t, before, Flatten(forest)[0].Name)
}
