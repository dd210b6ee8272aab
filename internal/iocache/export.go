package iocache

import (
	"errors"
	"fmt"

	"github.com/featuremap/featuremap/internal/parquet"
)

// ExecuteSnapshotExport exports all snapshot history to Parquet files.
func ExecuteSnapshotExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetSnapshotStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot status: %w", err)
	}

	if status.TotalSnapshots == 0 {
		return errors.New("no snapshot data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d\n", status.TotalSnapshots)

	snapshots, err := store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}

	featureMetrics, err := store.GetAllFeatureMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve feature metrics: %w", err)
	}

	// Convert to Parquet format
	parquetSnapshots := parquet.SnapshotRunsFromRecords(snapshots)
	parquetMetrics := parquet.FeatureMetricsFromRecords(featureMetrics)

	snapshotsFile := outputFile + ".snapshots.parquet"
	if err := parquet.WriteSnapshotRunsParquet(parquetSnapshots, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshots to: %s\n", len(parquetSnapshots), snapshotsFile)

	metricsFile := outputFile + ".feature_metrics.parquet"
	if err := parquet.WriteFeatureMetricsParquet(parquetMetrics, metricsFile); err != nil {
		return fmt.Errorf("failed to write feature metrics: %w", err)
	}
	fmt.Printf("Exported %d feature metric rows to: %s\n", len(parquetMetrics), metricsFile)

	return nil
}
