package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featuremap/featuremap/schema"
)

func TestMigrateSnapshots_NoneBackend(t *testing.T) {
	err := MigrateSnapshots(schema.NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrateSnapshots_UpAndDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")

	// Migrate up to latest
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, -1))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, table := range []string{snapshotsTable, featureMetricsTable} {
		var name string
		row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		require.NoError(t, row.Scan(&name), "table %s should exist", table)
	}

	// Re-running up is a no-op
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, -1))

	// Roll back all migrations
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 0))

	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", snapshotsTable)
	var name string
	assert.Error(t, row.Scan(&name))
}

func TestMigrateSnapshots_SpecificVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 1))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// Version 1 creates the tables but not the indexes from version 2.
	var name string
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", snapshotsTable)
	require.NoError(t, row.Scan(&name))

	row = db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_feature_metrics_path'")
	assert.Error(t, row.Scan(&name))
}
