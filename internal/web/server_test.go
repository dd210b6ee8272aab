package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/feed"
	"github.com/featuremap/featuremap/schema"
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
        "stats": {"lines_count": 2400, "commits": {}},
        "dependencies": [
          {"feature": "Billing", "sourceFilename": "login.go", "targetFilename": "invoice.go", "line": 10, "content": "x", "type": "sibling"}
        ]
      },
      {
        "name": "Billing",
        "path": "src/billing",
        "owner": "payments",
        "description": "Invoices",
        "features": [],
        "stats": {"lines_count": 800, "commits": {}}
      }
    ]
  }
]`

func testServer(t *testing.T) *Server {
	t.Helper()
	snapshot, err := feed.Decode("features.json", []byte(sampleDocument))
	require.NoError(t, err)
	cfg := &contract.Config{Source: "features.json"}
	return NewServer(cfg, snapshot, nil)
}

func getJSON(t *testing.T, srv *Server, url string, out any) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	resp := rec.Result()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	var body map[string]any
	resp := getJSON(t, srv, "/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["features"])
	assert.NotEmpty(t, body["content_hash"])
}

func TestServeDocument(t *testing.T) {
	srv := testServer(t)

	var features []*schema.Feature
	resp := getJSON(t, srv, "/features.json", &features)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Len(t, features, 1)
	assert.Equal(t, "Platform", features[0].Name)
}

func TestInsightsEndpoint(t *testing.T) {
	srv := testServer(t)

	var body struct {
		Total int              `json:"total"`
		Rows  []map[string]any `json:"rows"`
	}
	resp := getJSON(t, srv, "/api/insights", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, body.Total)
}

func TestInsightsQueryFilter(t *testing.T) {
	srv := testServer(t)

	var body struct {
		Rows []map[string]any `json:"rows"`
	}
	getJSON(t, srv, "/api/insights?q=owner:payments", &body)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "src/billing", body.Rows[0]["path"])
}

func TestInsightsSortDescending(t *testing.T) {
	srv := testServer(t)

	var body struct {
		Rows []map[string]any `json:"rows"`
	}
	getJSON(t, srv, "/api/insights?sort=lines&direction=desc", &body)
	require.Len(t, body.Rows, 3)
	// Missing values compare greater, so the stats-less root leads a
	// descending sort; the valued rows follow largest first.
	assert.Equal(t, "src/platform", body.Rows[0]["path"])
	assert.Equal(t, "src/auth", body.Rows[1]["path"])
	assert.Equal(t, "src/billing", body.Rows[2]["path"])
}

func TestInsightsLimit(t *testing.T) {
	srv := testServer(t)

	var body struct {
		Total int              `json:"total"`
		Rows  []map[string]any `json:"rows"`
	}
	getJSON(t, srv, "/api/insights?limit=1", &body)
	assert.Equal(t, 1, body.Total)
	assert.Len(t, body.Rows, 1)

	resp := getJSON(t, srv, "/api/insights?limit=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDepsEndpoint(t *testing.T) {
	srv := testServer(t)

	var all []map[string]any
	resp := getJSON(t, srv, "/api/deps/", &all)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, all, 1)
	assert.Equal(t, "src/auth", all[0]["feature_path"])

	var one []map[string]any
	resp = getJSON(t, srv, "/api/deps/src/auth", &one)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, one, 1)

	resp = getJSON(t, srv, "/api/deps/src/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "features.json")
	require.NoError(t, os.WriteFile(source, []byte(sampleDocument), 0o644))

	snapshot, err := feed.Load(source, nil)
	require.NoError(t, err)

	srv := NewServer(&contract.Config{Source: source}, snapshot, nil)
	require.Equal(t, 3, srv.Snapshot().FeatureCount())

	updated := `[{"name": "Solo", "path": "src/solo", "description": "", "features": []}]`
	require.NoError(t, os.WriteFile(source, []byte(updated), 0o644))
	require.NoError(t, srv.Reload())
	assert.Equal(t, 1, srv.Snapshot().FeatureCount())
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "features.json")
	require.NoError(t, os.WriteFile(source, []byte(sampleDocument), 0o644))

	snapshot, err := feed.Load(source, nil)
	require.NoError(t, err)
	srv := NewServer(&contract.Config{Source: source}, snapshot, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Watch(ctx) }()

	// Give the watcher time to register before the write
	time.Sleep(100 * time.Millisecond)
	updated := `[{"name": "Solo", "path": "src/solo", "description": "", "features": []}]`
	require.NoError(t, os.WriteFile(source, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return srv.Snapshot().FeatureCount() == 1
	}, 5*time.Second, 50*time.Millisecond, "Watcher should pick up the rewritten source")

	cancel()
	require.NoError(t, <-done)
}

func TestWatchRejectsRemoteSource(t *testing.T) {
	srv := NewServer(&contract.Config{Source: "https://example.com/features.json"}, nil, nil)
	err := srv.Watch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local source")
}
