// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/featuremap/featuremap/schema"
)

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetDocumentCache() DocumentCache
	GetSnapshotStore() SnapshotStore
}

// DocumentCache defines the interface for cached feature documents keyed by
// source and content hash. This allows mocking the store for testing.
type DocumentCache interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore defines the interface for tracking document loads and storing
// per-feature metrics over time.
type SnapshotStore interface {
	// BeginSnapshot creates a new snapshot record and returns its unique ID
	BeginSnapshot(source string, contentHash string, startTime time.Time) (int64, error)

	// EndSnapshot updates the snapshot record with completion data
	EndSnapshot(snapshotID int64, endTime time.Time, featureCount int) error

	// RecordFeatureMetrics stores one feature's metrics row for a snapshot
	RecordFeatureMetrics(record schema.FeatureMetricsRecord) error

	// ListSnapshots returns the most recent snapshot records, newest first
	ListSnapshots(limit int) ([]schema.SnapshotRecord, error)

	// GetAllSnapshots returns every snapshot record, newest first
	GetAllSnapshots() ([]schema.SnapshotRecord, error)

	// GetAllFeatureMetrics returns every per-feature metrics row
	GetAllFeatureMetrics() ([]schema.FeatureMetricsRecord, error)

	// GetStatus returns status information about the snapshot store
	GetStatus() (schema.SnapshotStatus, error)

	// Close closes the underlying connection
	Close() error
}
