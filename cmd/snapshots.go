package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/iocache"
	"github.com/featuremap/featuremap/schema"
)

// snapshotSetup loads minimal configuration needed for snapshot operations.
// This is used by commands that need snapshot access without full shared setup.
func snapshotSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get snapshot-related config values
	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")
	limit := viper.GetInt("limit")

	// Initialize stores with the loaded config (no document caching for snapshot commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr
	cfg.OutputFile = outputFile
	cfg.ResultLimit = limit

	return nil
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotSetup()
}

// snapshotMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func snapshotMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get snapshot-related config values
	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetSnapshotDBFilePath()
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// snapshotMigrateSetupWrapper wraps snapshotMigrateSetup to provide PreRunE for migrate command.
func snapshotMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotMigrateSetup()
}

// snapshotsCmd focused on snapshot history management.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage document load history and exports",
	Long: `Manage the snapshot history recorded on each document load.

When enabled, featuremap tracks every load, storing:
- Load metadata (source, content hash, timing, feature count)
- Per-feature metric rows (owner, counts, coverage, alerts)

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recent snapshots
  record  - Load a document and record it
  status  - Show snapshot tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  featuremap snapshots status

  # Export to Parquet for DuckDB/pandas
  featuremap snapshots export --output-file featuremap-data`,
}

// snapshotsListCmd lists recent snapshots.
var snapshotsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show recent snapshots, newest first",
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteSnapshotsList(cfg, iocache.Manager); err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
	},
}

// snapshotsRecordCmd loads a document and records it.
var snapshotsRecordCmd = &cobra.Command{
	Use:   "record [source]",
	Short: "Load a document once and record it into the snapshot store",
	Long: `Load the source document and write one snapshot: the run record plus a
metrics row per feature. Requires a configured snapshot backend.

Examples:
  featuremap snapshots record --snapshot-backend sqlite
  featuremap snapshots record https://ci.example.com/features.json --snapshot-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteSnapshotsRecord(cfg, iocache.Manager); err != nil {
			contract.LogFatal("Failed to record snapshot", err)
		}
	},
}

// snapshotsStatusCmd shows snapshot tracking status.
var snapshotsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show snapshot tracking statistics",
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Snapshot tracking is not configured", fmt.Errorf("no snapshot backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(status)
	},
}

// snapshotsExportCmd exports snapshot data to Parquet files.
var snapshotsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored snapshot data to Parquet format for use with analytics tools.

Exports two datasets:
- Snapshots - metadata about each document load
- Feature metrics - per-feature counts, owners, and alerts over time

Requires: --output-file parameter

Examples:
  # Export all data
  featuremap snapshots export --output-file featuremap-data

  # Use with DuckDB for analysis
  featuremap snapshots export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.snapshots.parquet') LIMIT 10"`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteSnapshotsExport(cfg); err != nil {
			contract.LogFatal("Failed to export snapshot data", err)
		}
	},
}

// snapshotsClearCmd clears the snapshot history.
var snapshotsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all snapshot tracking data",
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, contract.GetSnapshotDBFilePath(), cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}

// snapshotsMigrateCmd runs database migrations for the snapshot store.
var snapshotsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  featuremap snapshots migrate

  # Migrate to specific version
  featuremap snapshots migrate --target-version 2

  # Rollback to previous version
  featuremap snapshots migrate --target-version 0`,
	PreRunE: snapshotMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
