package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// Table names for snapshot tracking.
const (
	snapshotsTable      = "featuremap_snapshots"
	featureMetricsTable = "featuremap_feature_metrics"
)

// SnapshotStoreImpl implements the SnapshotStore interface.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore creates a new SnapshotStore with the specified backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	// A nil db makes every operation a no-op, for disabled tracking
	if backend == schema.NoneBackend {
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetSnapshotDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createSnapshotTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshot tables: %w", err)
	}

	return &SnapshotStoreImpl{db: db, backend: backend}, nil
}

// createSnapshotTables creates the snapshot tracking tables.
func createSnapshotTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{snapshotsTable, getCreateSnapshotsQuery(backend)},
		{featureMetricsTable, getCreateFeatureMetricsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateSnapshotsQuery returns the CREATE TABLE query for featuremap_snapshots.
func getCreateSnapshotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(snapshotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				source VARCHAR(512) NOT NULL,
				content_hash VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				duration_ms INT,
				feature_count INT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGSERIAL PRIMARY KEY,
				source TEXT NOT NULL,
				content_hash TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				duration_ms INT,
				feature_count INT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id INTEGER PRIMARY KEY AUTOINCREMENT,
				source TEXT NOT NULL,
				content_hash TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				duration_ms INTEGER,
				feature_count INTEGER
			);
		`, quotedTableName)
	}
}

// getCreateFeatureMetricsQuery returns the CREATE TABLE query for featuremap_feature_metrics.
func getCreateFeatureMetricsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(featureMetricsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT NOT NULL,
				feature_path VARCHAR(512) NOT NULL,
				feature_name VARCHAR(255) NOT NULL,
				owner VARCHAR(100) NOT NULL,
				owner_inherited BOOLEAN NOT NULL,
				files_count INT NOT NULL,
				lines_count INT NOT NULL,
				todos_count INT NOT NULL,
				commit_count INT NOT NULL,
				dependency_count INT NOT NULL,
				alert_count INT NOT NULL,
				coverage_percent DOUBLE,
				PRIMARY KEY (snapshot_id, feature_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id BIGINT NOT NULL,
				feature_path TEXT NOT NULL,
				feature_name TEXT NOT NULL,
				owner TEXT NOT NULL,
				owner_inherited BOOLEAN NOT NULL,
				files_count INT NOT NULL,
				lines_count INT NOT NULL,
				todos_count INT NOT NULL,
				commit_count INT NOT NULL,
				dependency_count INT NOT NULL,
				alert_count INT NOT NULL,
				coverage_percent DOUBLE PRECISION,
				PRIMARY KEY (snapshot_id, feature_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				snapshot_id INTEGER NOT NULL,
				feature_path TEXT NOT NULL,
				feature_name TEXT NOT NULL,
				owner TEXT NOT NULL,
				owner_inherited INTEGER NOT NULL,
				files_count INTEGER NOT NULL,
				lines_count INTEGER NOT NULL,
				todos_count INTEGER NOT NULL,
				commit_count INTEGER NOT NULL,
				dependency_count INTEGER NOT NULL,
				alert_count INTEGER NOT NULL,
				coverage_percent REAL,
				PRIMARY KEY (snapshot_id, feature_path)
			);
		`, quotedTableName)
	}
}

// BeginSnapshot creates a new snapshot record and returns its unique ID.
func (ss *SnapshotStoreImpl) BeginSnapshot(source string, contentHash string, startTime time.Time) (int64, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(snapshotsTable, ss.backend)

	var snapshotID int64
	var err error
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (source, content_hash, start_time) VALUES ($1, $2, $3) RETURNING snapshot_id`, quotedTableName)
		err = ss.db.QueryRow(query, source, contentHash, startTime).Scan(&snapshotID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (source, content_hash, start_time) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = ss.db.Exec(query, source, contentHash, formatTime(startTime, ss.backend))
		if err != nil {
			return 0, err
		}
		snapshotID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return snapshotID, nil
}

// EndSnapshot updates the snapshot record with completion data.
func (ss *SnapshotStoreImpl) EndSnapshot(snapshotID int64, endTime time.Time, featureCount int) error {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	// First, get the start_time to calculate duration
	quotedTableName := quoteTableName(snapshotsTable, ss.backend)

	var query string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE snapshot_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE snapshot_id = ?`, quotedTableName)
	}
	row := ss.db.QueryRow(query, snapshotID)

	startTime, err := scanTime(row, ss.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for snapshot %d: %w", snapshotID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	var args []any
	switch ss.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, duration_ms = $2, feature_count = $3 WHERE snapshot_id = $4`, quotedTableName)
		args = []any{endTime, durationMs, featureCount, snapshotID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, duration_ms = ?, feature_count = ? WHERE snapshot_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, ss.backend), durationMs, featureCount, snapshotID}
	}

	if _, err := ss.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	return nil
}

// RecordFeatureMetrics stores one feature's metrics row for a snapshot.
func (ss *SnapshotStoreImpl) RecordFeatureMetrics(record schema.FeatureMetricsRecord) error {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(featureMetricsTable, ss.backend)

	var query string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (snapshot_id, feature_path, feature_name, owner, owner_inherited,
			                files_count, lines_count, todos_count, commit_count,
			                dependency_count, alert_count, coverage_percent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (snapshot_id, feature_path, feature_name, owner, owner_inherited,
			                files_count, lines_count, todos_count, commit_count,
			                dependency_count, alert_count, coverage_percent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	args := []any{
		record.SnapshotID, record.Path, record.Name, record.Owner, record.OwnerInherited,
		record.Files, record.Lines, record.Todos, record.Commits,
		record.Dependencies, record.Alerts, record.CoveragePercent,
	}

	if _, err := ss.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert feature metrics: %w", err)
	}

	return nil
}

// ListSnapshots returns the most recent snapshot records, newest first.
func (ss *SnapshotStoreImpl) ListSnapshots(limit int) ([]schema.SnapshotRecord, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	quotedTableName := quoteTableName(snapshotsTable, ss.backend)
	var query string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT snapshot_id, source, content_hash, start_time, end_time, duration_ms, feature_count
			FROM %s ORDER BY snapshot_id DESC LIMIT $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT snapshot_id, source, content_hash, start_time, end_time, duration_ms, feature_count
			FROM %s ORDER BY snapshot_id DESC LIMIT ?`, quotedTableName)
	}

	return ss.querySnapshots(query, limit)
}

// GetAllSnapshots returns every snapshot record, newest first.
func (ss *SnapshotStoreImpl) GetAllSnapshots() ([]schema.SnapshotRecord, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT snapshot_id, source, content_hash, start_time, end_time, duration_ms, feature_count
		FROM %s ORDER BY snapshot_id DESC`, quoteTableName(snapshotsTable, ss.backend))
	return ss.querySnapshots(query)
}

// querySnapshots runs a snapshot SELECT and scans the rows into records.
func (ss *SnapshotStoreImpl) querySnapshots(query string, args ...any) ([]schema.SnapshotRecord, error) {
	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SnapshotRecord
	for rows.Next() {
		var record schema.SnapshotRecord
		var featureCount sql.NullInt32

		switch ss.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.SnapshotID, &record.Source, &record.ContentHash, &startTimeStr, &endTimeStr, &record.DurationMs, &featureCount); err != nil {
				return nil, fmt.Errorf("failed to scan snapshot: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.SnapshotID, &record.Source, &record.ContentHash, &record.StartTime, &record.EndTime, &record.DurationMs, &featureCount); err != nil {
				return nil, fmt.Errorf("failed to scan snapshot: %w", err)
			}
		}

		if featureCount.Valid {
			record.FeatureCount = featureCount.Int32
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return results, nil
}

// GetAllFeatureMetrics returns every per-feature metrics row, ordered by
// snapshot then path.
func (ss *SnapshotStoreImpl) GetAllFeatureMetrics() ([]schema.FeatureMetricsRecord, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT snapshot_id, feature_path, feature_name, owner, owner_inherited,
			files_count, lines_count, todos_count, commit_count,
			dependency_count, alert_count, coverage_percent
		FROM %s ORDER BY snapshot_id, feature_path`, quoteTableName(featureMetricsTable, ss.backend))

	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FeatureMetricsRecord
	for rows.Next() {
		var record schema.FeatureMetricsRecord
		if err := rows.Scan(&record.SnapshotID, &record.Path, &record.Name, &record.Owner, &record.OwnerInherited,
			&record.Files, &record.Lines, &record.Todos, &record.Commits,
			&record.Dependencies, &record.Alerts, &record.CoveragePercent); err != nil {
			return nil, fmt.Errorf("failed to scan feature metrics: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feature metrics: %w", err)
	}

	return results, nil
}

// Close closes the underlying connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(snapshotsTable, ss.backend))
	row := ss.db.QueryRow(countQuery)
	if err := row.Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	if status.TotalSnapshots > 0 {
		lastQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY snapshot_id DESC LIMIT 1", quoteTableName(snapshotsTable, ss.backend))
		row = ss.db.QueryRow(lastQuery)
		lastTime, err := scanTime(row, ss.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last snapshot time: %w", err)
		}
		status.LastSnapshotTime = lastTime
	}

	return status, nil
}

// scanTime reads a single time column, handling the SQLite text storage
// format.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	if err := row.Scan(&t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
