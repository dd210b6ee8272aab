package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/feed"
	"github.com/featuremap/featuremap/internal/iocache"
	"github.com/featuremap/featuremap/schema"
)

// appSampleDocument is a small forest with an inherited owner, a sibling
// dependency, and uneven stats coverage.
const appSampleDocument = `[
  {
    "name": "Platform",
    "owner": "core-team",
    "path": "src/platform",
    "features": [
      {
        "name": "Auth",
        "owner": "",
        "path": "src/platform/auth",
        "features": [],
        "stats": {"lines_count": 2400, "commits": {}},
        "dependencies": [
          {
            "sourceFilename": "src/platform/auth/session.go",
            "targetFilename": "src/billing/invoice.go",
            "line": 12,
            "content": "import billing",
            "featurePath": "src/billing",
            "type": "sibling"
          }
        ]
      }
    ]
  },
  {
    "name": "Billing",
    "owner": "payments",
    "path": "src/billing",
    "features": [],
    "stats": {"lines_count": 800, "commits": {}}
  }
]`

// writeSampleSource writes the sample document to a temp file and returns its path.
func writeSampleSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(path, []byte(appSampleDocument), 0o644))
	return path
}

func sampleSnapshot(t *testing.T) *feed.Snapshot {
	t.Helper()
	snapshot, err := feed.Decode("test", []byte(appSampleDocument))
	require.NoError(t, err)
	return snapshot
}

func TestBuildRowsOwnerFilter(t *testing.T) {
	snapshot := sampleSnapshot(t)
	cfg := &contract.Config{OwnerFilter: "payments", ResultLimit: 50}

	rows := buildRows(cfg, snapshot)

	require.Len(t, rows, 1)
	assert.Equal(t, "src/billing", rows[0]["path"])
}

func TestBuildRowsOwnerFilterMatchesInherited(t *testing.T) {
	snapshot := sampleSnapshot(t)
	cfg := &contract.Config{OwnerFilter: "CORE-TEAM", ResultLimit: 50}

	rows := buildRows(cfg, snapshot)

	// Auth inherits core-team from Platform, so both match.
	require.Len(t, rows, 2)
	assert.Equal(t, "src/platform", rows[0]["path"])
	assert.Equal(t, "src/platform/auth", rows[1]["path"])
}

func TestBuildRowsQuerySortAndLimit(t *testing.T) {
	snapshot := sampleSnapshot(t)
	cfg := &contract.Config{
		Query:       "lines:>0",
		Sort:        schema.SortConfig{Field: "lines", Direction: schema.SortDescending},
		ResultLimit: 1,
	}

	rows := buildRows(cfg, snapshot)

	require.Len(t, rows, 1)
	assert.Equal(t, "src/platform/auth", rows[0]["path"])
}

func TestLoadDocumentFallsBackToCache(t *testing.T) {
	source := filepath.Join(t.TempDir(), "missing.json")

	cache := &iocache.MockDocumentCache{}
	cache.On("Get", "document:"+source).Return([]byte(appSampleDocument), 1, int64(0), nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetDocumentCache").Return(cache)
	mgr.On("GetSnapshotStore").Return(nil)

	cfg := &contract.Config{Source: source, ResultLimit: 50}
	snapshot, _, err := loadDocument(cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.FeatureCount())
	cache.AssertExpectations(t)
}

func TestLoadDocumentErrorsWithoutCache(t *testing.T) {
	cfg := &contract.Config{Source: filepath.Join(t.TempDir(), "missing.json")}
	_, _, err := loadDocument(cfg, nil)
	assert.Error(t, err)
}

func TestLoadDocumentRecordsSnapshot(t *testing.T) {
	source := writeSampleSource(t)

	store := &iocache.MockSnapshotStore{}
	store.On("BeginSnapshot", source, mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordFeatureMetrics", mock.Anything).Return(nil).Times(3)
	store.On("EndSnapshot", int64(7), mock.Anything, 3).Return(nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetDocumentCache").Return(nil)
	mgr.On("GetSnapshotStore").Return(store)

	cfg := &contract.Config{Source: source, ResultLimit: 50}
	snapshot, duration, err := loadDocument(cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.FeatureCount())
	assert.GreaterOrEqual(t, duration.Nanoseconds(), int64(0))
	store.AssertExpectations(t)
}

func TestExecuteFeaturesWritesJSON(t *testing.T) {
	source := writeSampleSource(t)
	outputFile := filepath.Join(t.TempDir(), "insights.json")

	cfg := &contract.Config{
		Source:      source,
		Output:      schema.JSONOut,
		OutputFile:  outputFile,
		ResultLimit: 50,
	}
	require.NoError(t, ExecuteFeatures(cfg, nil))

	raw, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, float64(1), rows[0]["rank"])
	assert.Equal(t, "src/platform", rows[0]["path"])
}

func TestExecuteDepsSingleFeature(t *testing.T) {
	source := writeSampleSource(t)
	outputFile := filepath.Join(t.TempDir(), "deps.json")

	cfg := &contract.Config{
		Source:      source,
		Output:      schema.JSONOut,
		OutputFile:  outputFile,
		ResultLimit: 50,
	}
	require.NoError(t, ExecuteDeps(cfg, nil, "src/platform/auth"))

	raw, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal(raw, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "src/platform/auth", reports[0]["feature_path"])
}

func TestExecuteDepsUnknownFeature(t *testing.T) {
	source := writeSampleSource(t)

	cfg := &contract.Config{Source: source, Output: schema.JSONOut, ResultLimit: 50}
	err := ExecuteDeps(cfg, nil, "src/nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dependencies found")
}

func TestExecuteCheckPasses(t *testing.T) {
	source := writeSampleSource(t)
	outputFile := filepath.Join(t.TempDir(), "check.json")

	cfg := &contract.Config{Source: source, Output: schema.JSONOut, OutputFile: outputFile, ResultLimit: 50}
	passed, err := ExecuteCheck(cfg, nil)
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestExecuteCheckFindsDuplicates(t *testing.T) {
	doc := `[
	  {"name": "Auth", "owner": "a", "path": "src/auth", "features": []},
	  {"name": "Auth", "owner": "b", "path": "src/auth2", "features": []}
	]`
	source := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(source, []byte(doc), 0o644))
	outputFile := filepath.Join(t.TempDir(), "check.json")

	cfg := &contract.Config{Source: source, Output: schema.JSONOut, OutputFile: outputFile, ResultLimit: 50}
	passed, err := ExecuteCheck(cfg, nil)
	require.NoError(t, err)
	assert.False(t, passed)
}

func TestExecuteSnapshotsListNotConfigured(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetSnapshotStore").Return(nil)

	err := ExecuteSnapshotsList(&contract.Config{ResultLimit: 50}, mgr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestExecuteSnapshotsRecord(t *testing.T) {
	source := writeSampleSource(t)

	store := &iocache.MockSnapshotStore{}
	store.On("BeginSnapshot", source, mock.Anything, mock.Anything).Return(int64(1), nil)
	store.On("RecordFeatureMetrics", mock.Anything).Return(nil).Times(3)
	store.On("EndSnapshot", int64(1), mock.Anything, 3).Return(nil)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetDocumentCache").Return(nil)
	mgr.On("GetSnapshotStore").Return(store)

	cfg := &contract.Config{Source: source, ResultLimit: 50}
	require.NoError(t, ExecuteSnapshotsRecord(cfg, mgr))
	store.AssertExpectations(t)
}
