// Package iocache is for durable storage of feature documents and snapshots.
package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// StoreManagerImpl manages the document cache and snapshot store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	document     contract.DocumentCache
	snapshot     contract.SnapshotStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetDocumentCache returns the DocumentCache.
func (mgr *StoreManagerImpl) GetDocumentCache() contract.DocumentCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.document
}

// GetSnapshotStore returns the SnapshotStore.
func (mgr *StoreManagerImpl) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}

// validateTableName validates that the table name is a safe SQL identifier.
// It ensures the name consists only of alphanumeric characters and underscores,
// starting with a letter or underscore, to prevent SQL injection.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	matched, err := regexp.MatchString(`^[a-zA-Z_][a-zA-Z0-9_]*$`, name)
	if err != nil {
		return fmt.Errorf("error validating table name: %w", err)
	}
	if !matched {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// openBackendDB opens and pings a connection for the given backend. An
// empty connection string on SQLite falls back to defaultPath, and SQLite
// is held to a single open connection to avoid "database is locked" errors.
func openBackendDB(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	var driverName, dsn, hint string
	switch backend {
	case schema.SQLiteBackend:
		driverName, dsn = "sqlite", connStr
		if dsn == "" {
			dsn = defaultPath
		}
		hint = fmt.Sprintf("Ensure the directory for %q is writable", dsn)
	case schema.MySQLBackend:
		driverName, dsn = "mysql", connStr
		hint = "Check connection string format: user:password@tcp(host:port)/dbname"
	case schema.PostgreSQLBackend:
		driverName, dsn = "pgx", connStr
		hint = "Check connection string format: host=localhost port=5432 user=postgres dbname=mydb"
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w. %s", backend, err, hint)
	}
	if backend == schema.SQLiteBackend {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("\"%s\"", name)
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite
		return fmt.Sprintf("\"%s\"", name)
	}
}
