package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// cacheDialect captures the SQL that varies across cache backends. The
// column layout is shared; only column types, placeholders, and upsert
// syntax differ.
type cacheDialect struct {
	keyType     string
	valueType   string
	intType     string
	tsType      string
	placeholder string
	upsert      string // format string taking the quoted table name
}

var cacheDialects = map[schema.DatabaseBackend]cacheDialect{
	schema.SQLiteBackend: {
		keyType:     "TEXT",
		valueType:   "BLOB",
		intType:     "INTEGER",
		tsType:      "INTEGER",
		placeholder: "?",
		upsert:      `INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`,
	},
	schema.MySQLBackend: {
		keyType:     "VARCHAR(255)",
		valueType:   "BLOB",
		intType:     "INT",
		tsType:      "BIGINT",
		placeholder: "?",
		upsert: `INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`,
	},
	schema.PostgreSQLBackend: {
		keyType:     "TEXT",
		valueType:   "BYTEA",
		intType:     "INTEGER",
		tsType:      "BIGINT",
		placeholder: "$1",
		upsert: `INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`,
	},
}

func (d cacheDialect) createTable(quotedTable string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			cache_key %s PRIMARY KEY,
			cache_value %s NOT NULL,
			cache_version %s NOT NULL,
			cache_timestamp %s NOT NULL
		);
	`, quotedTable, d.keyType, d.valueType, d.intType, d.tsType)
}

// DocumentCacheImpl handles durable storage of decoded feature documents
// using various database backends.
type DocumentCacheImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
	dialect   cacheDialect
}

var _ contract.DocumentCache = &DocumentCacheImpl{} // Compile-time check

// NewDocumentCache initializes and returns a new DocumentCache based on the backend type.
func NewDocumentCache(tableName string, backend schema.DatabaseBackend, connStr string) (contract.DocumentCache, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	// A nil db makes every operation a no-op, for disabled caching
	if backend == schema.NoneBackend {
		return &DocumentCacheImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	dialect, ok := cacheDialects[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	db, err := openBackendDB(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(dialect.createTable(quoteTableName(tableName, backend))); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &DocumentCacheImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
		dialect:   dialect,
	}, nil
}

// Get retrieves a value by key from the store.
func (ps *DocumentCacheImpl) Get(key string) ([]byte, int, int64, error) {
	if ps.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	quotedTable := quoteTableName(ps.tableName, ps.backend)
	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`, quotedTable, ps.dialect.placeholder)

	var value []byte
	var version int
	var ts int64
	if err := ps.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ps *DocumentCacheImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ps.db == nil {
		return nil
	}

	query := fmt.Sprintf(ps.dialect.upsert, quoteTableName(ps.tableName, ps.backend))
	_, err := ps.db.Exec(query, key, value, version, timestamp)
	return err
}

// Close closes the underlying DB connection.
func (ps *DocumentCacheImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ps *DocumentCacheImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}
	if ps.db == nil {
		return status, nil
	}

	quotedTable := quoteTableName(ps.tableName, ps.backend)
	query := fmt.Sprintf("SELECT COUNT(*), COALESCE(MAX(cache_timestamp), 0), COALESCE(MIN(cache_timestamp), 0) FROM %s", quotedTable)

	var newest, oldest int64
	if err := ps.db.QueryRow(query).Scan(&status.TotalEntries, &newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to read cache status: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	status.LastEntryTime = time.Unix(newest, 0)
	status.OldestEntryTime = time.Unix(oldest, 0)
	status.TableSizeBytes = ps.tableSizeBytes(status.TotalEntries)
	return status, nil
}

// tableSizeBytes estimates the on-disk size of the cache table. SQLite
// reports page usage through pragmas; MySQL and PostgreSQL expose catalog
// queries. Any failure falls back to a rough per-row estimate.
func (ps *DocumentCacheImpl) tableSizeBytes(totalEntries int) int64 {
	fallback := int64(totalEntries) * 1000

	var row *sql.Row
	switch ps.backend {
	case schema.SQLiteBackend:
		fallback = 0 // skip size when the pragma fails
		row = ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		row = ps.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, ps.tableName)
	case schema.PostgreSQLBackend:
		row = ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName)
	default:
		return fallback
	}

	var size int64
	if err := row.Scan(&size); err != nil {
		return fallback
	}
	return size
}
