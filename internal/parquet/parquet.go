// Package parquet provides data structures and functions for exporting
// feature insight and snapshot data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/featuremap/featuremap/schema"
)

// InsightRow is the flat per-feature record exported from the insight
// tables.
type InsightRow struct {
	// Rank is the 1-based position after filtering and sorting
	Rank int32 `parquet:"rank,snappy"`

	// Path is the unique feature path
	Path string `parquet:"path,snappy"`

	// Name is the feature name
	Name string `parquet:"name,snappy"`

	// Owner is the resolved owner after inheritance
	Owner string `parquet:"owner,snappy"`

	// OwnerInherited reports whether the owner came from an ancestor
	OwnerInherited bool `parquet:"owner_inherited,snappy"`

	// Children is the number of direct child features
	Children int32 `parquet:"children,snappy"`

	// Dependencies is the number of raw dependency records
	Dependencies int32 `parquet:"dependencies,snappy"`

	// Changes is the number of recorded commits
	Changes int32 `parquet:"changes,snappy"`

	// Files is the scanned file count (0 when stats are absent)
	Files int32 `parquet:"files,snappy"`

	// Lines is the scanned line count (0 when stats are absent)
	Lines int32 `parquet:"lines,snappy"`

	// Todos is the scanned TODO count (0 when stats are absent)
	Todos int32 `parquet:"todos,snappy"`

	// Coverage is the line coverage percent (nullable)
	Coverage *float64 `parquet:"coverage,optional,snappy"`

	// Alerts is the number of dependency groups with coupling alerts
	Alerts int32 `parquet:"alerts,snappy"`

	// LastChange is the date of the most recent commit (nullable)
	LastChange *string `parquet:"last_change,optional,snappy"`
}

// SnapshotRun represents a recorded document load.
// This struct maps to the featuremap_snapshots database table.
type SnapshotRun struct {
	// SnapshotID is the unique identifier for this snapshot
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	// Source is the file path or URL the document was loaded from
	Source string `parquet:"source,snappy"`

	// ContentHash is the SHA-256 of the raw payload
	ContentHash string `parquet:"content_hash,snappy"`

	// StartTime is when the load began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the load completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// DurationMs is the load duration in milliseconds (nullable)
	DurationMs *int32 `parquet:"duration_ms,optional,snappy"`

	// FeatureCount is the number of features in the document
	FeatureCount int32 `parquet:"feature_count,snappy"`
}

// FeatureMetric represents one feature's metrics within a snapshot.
// This struct maps to the featuremap_feature_metrics database table.
type FeatureMetric struct {
	// SnapshotID links the row to its snapshot
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	// Path is the unique feature path
	Path string `parquet:"feature_path,snappy"`

	// Name is the feature name
	Name string `parquet:"feature_name,snappy"`

	// Owner is the resolved owner after inheritance
	Owner string `parquet:"owner,snappy"`

	// OwnerInherited reports whether the owner came from an ancestor
	OwnerInherited bool `parquet:"owner_inherited,snappy"`

	// Files is the scanned file count
	Files int32 `parquet:"files_count,snappy"`

	// Lines is the scanned line count
	Lines int32 `parquet:"lines_count,snappy"`

	// Todos is the scanned TODO count
	Todos int32 `parquet:"todos_count,snappy"`

	// Commits is the number of recorded commits
	Commits int32 `parquet:"commit_count,snappy"`

	// Dependencies is the number of raw dependency records
	Dependencies int32 `parquet:"dependency_count,snappy"`

	// Alerts is the number of dependency groups with coupling alerts
	Alerts int32 `parquet:"alert_count,snappy"`

	// CoveragePercent is the line coverage percent (nullable)
	CoveragePercent *float64 `parquet:"coverage_percent,optional,snappy"`
}

// InsightRowsFromMaps converts generic insight rows to their parquet form,
// preserving order and assigning ranks.
func InsightRowsFromMaps(rows []map[string]any) []InsightRow {
	out := make([]InsightRow, 0, len(rows))
	for i, row := range rows {
		rec := InsightRow{
			Rank:           int32(i + 1),
			Path:           asString(row["path"]),
			Name:           asString(row["name"]),
			Owner:          asString(row["owner"]),
			OwnerInherited: asBool(row["owner_inherited"]),
			Children:       asInt32(row["children"]),
			Dependencies:   asInt32(row["dependencies"]),
			Changes:        asInt32(row["changes"]),
			Files:          asInt32(row["files"]),
			Lines:          asInt32(row["lines"]),
			Todos:          asInt32(row["todos"]),
			Alerts:         asInt32(row["alerts"]),
		}
		if coverage, ok := row["coverage"].(float64); ok {
			rec.Coverage = &coverage
		}
		if last, ok := row["last_change"].(string); ok {
			rec.LastChange = &last
		}
		out = append(out, rec)
	}
	return out
}

// SnapshotRunsFromRecords converts snapshot store records to their parquet
// form.
func SnapshotRunsFromRecords(records []schema.SnapshotRecord) []SnapshotRun {
	out := make([]SnapshotRun, 0, len(records))
	for _, r := range records {
		out = append(out, SnapshotRun{
			SnapshotID:   r.SnapshotID,
			Source:       r.Source,
			ContentHash:  r.ContentHash,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			DurationMs:   r.DurationMs,
			FeatureCount: r.FeatureCount,
		})
	}
	return out
}

// FeatureMetricsFromRecords converts feature metrics store records to their
// parquet form.
func FeatureMetricsFromRecords(records []schema.FeatureMetricsRecord) []FeatureMetric {
	out := make([]FeatureMetric, 0, len(records))
	for _, r := range records {
		out = append(out, FeatureMetric{
			SnapshotID:      r.SnapshotID,
			Path:            r.Path,
			Name:            r.Name,
			Owner:           r.Owner,
			OwnerInherited:  r.OwnerInherited,
			Files:           r.Files,
			Lines:           r.Lines,
			Todos:           r.Todos,
			Commits:         r.Commits,
			Dependencies:    r.Dependencies,
			Alerts:          r.Alerts,
			CoveragePercent: r.CoveragePercent,
		})
	}
	return out
}

// MockFetchSnapshotRuns generates sample SnapshotRun data for demonstration.
func MockFetchSnapshotRuns() []SnapshotRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(450 * time.Millisecond)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(1200 * time.Millisecond)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3 and durationMs3 are nil to demonstrate nullable fields

	return []SnapshotRun{
		{
			SnapshotID:   1,
			Source:       "features.json",
			ContentHash:  "3b8a1c9f42d7",
			StartTime:    startTime1,
			EndTime:      &endTime1,
			DurationMs:   &durationMs1,
			FeatureCount: 150,
		},
		{
			SnapshotID:   2,
			Source:       "https://ci.example.com/features.json",
			ContentHash:  "a90f77e215bc",
			StartTime:    startTime2,
			EndTime:      &endTime2,
			DurationMs:   &durationMs2,
			FeatureCount: 148,
		},
		{
			SnapshotID:   3,
			Source:       "features.json",
			ContentHash:  "3b8a1c9f42d7",
			StartTime:    startTime3,
			FeatureCount: 150,
		},
	}
}

// MockFetchFeatureMetrics generates sample FeatureMetric data for demonstration.
func MockFetchFeatureMetrics() []FeatureMetric {
	coverage1 := 81.5

	return []FeatureMetric{
		{
			SnapshotID:      1,
			Path:            "src/platform/auth",
			Name:            "Auth",
			Owner:           "core-team",
			OwnerInherited:  true,
			Files:           12,
			Lines:           3400,
			Todos:           2,
			Commits:         57,
			Dependencies:    3,
			Alerts:          1,
			CoveragePercent: &coverage1,
		},
		{
			SnapshotID:     1,
			Path:           "src/billing",
			Name:           "Billing",
			Owner:          "payments",
			OwnerInherited: false,
			Files:          8,
			Lines:          800,
			Commits:        21,
			// Note: CoveragePercent is nil to demonstrate nullable fields
		},
	}
}

// WriteInsightRowsParquet writes a slice of InsightRow structs to a Parquet file.
func WriteInsightRowsParquet(data []InsightRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSnapshotRunsParquet writes a slice of SnapshotRun structs to a Parquet file.
func WriteSnapshotRunsParquet(data []SnapshotRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFeatureMetricsParquet writes a slice of FeatureMetric structs to a Parquet file.
func WriteFeatureMetricsParquet(data []FeatureMetric, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes records to a Parquet file using struct schema
// inference from the record type's tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt32(v any) int32 {
	switch n := v.(type) {
	case int:
		return int32(n)
	case int32:
		return n
	case int64:
		return int32(n)
	case float64:
		return int32(n)
	}
	return 0
}
