package contract

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/featuremap/featuremap/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultServeAddr   = "localhost:8700"
	DefaultSource      = "features.json"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a command invocation.
// This struct remains the "final, validated" config.
type Config struct {
	Source       string
	Query        string
	Sort         schema.SortConfig
	SearchFields []string
	ResultLimit  int
	Output       schema.OutputMode
	OutputFile   string
	OwnerFilter  string
	TypeFilter   schema.DependencyType
	Width        int // Terminal width override (0 = auto-detect)

	ServeAddr string
	Watch     bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SourceStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Query             string `mapstructure:"query"`
	Sort              string `mapstructure:"sort"`
	Direction         string `mapstructure:"direction"`
	SearchFields      string `mapstructure:"search-fields"`
	Limit             int    `mapstructure:"limit"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`

	// --- Fields from featuresCmd.Flags() ---
	Owner string `mapstructure:"owner"`

	// --- Fields from depsCmd.Flags() ---
	Type string `mapstructure:"type"`

	// --- Fields from serveCmd.Flags() ---
	Addr  string `mapstructure:"addr"`
	Watch bool   `mapstructure:"watch"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SearchFields != nil {
		clone.SearchFields = make([]string, len(c.SearchFields))
		copy(clone.SearchFields, c.SearchFields)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSortConfig(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveSource(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-source related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Query = input.Query
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Watch = input.Watch

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.ServeAddr = strings.TrimSpace(input.Addr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	if input.SearchFields != "" {
		for part := range strings.SplitSeq(input.SearchFields, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				cfg.SearchFields = append(cfg.SearchFields, trimmed)
			}
		}
	}

	return nil
}

// processSortConfig parses the sort flag pair into the final sort config.
func processSortConfig(cfg *Config, input *ConfigRawInput) error {
	field := strings.TrimSpace(input.Sort)
	direction := schema.SortDirection(strings.ToLower(strings.TrimSpace(input.Direction)))

	if field == "" {
		if direction != schema.SortNone {
			return fmt.Errorf("--direction requires --sort")
		}
		cfg.Sort = schema.SortConfig{}
		return nil
	}

	if direction == schema.SortNone {
		direction = schema.SortAscending
	}
	if direction != schema.SortAscending && direction != schema.SortDescending {
		return fmt.Errorf("invalid sort direction '%s'. must be asc or desc", input.Direction)
	}

	cfg.Sort = schema.SortConfig{Field: field, Direction: direction}
	return nil
}

// processFilters validates the owner and dependency type filters.
func processFilters(cfg *Config, input *ConfigRawInput) error {
	cfg.OwnerFilter = strings.TrimSpace(input.Owner)

	typeStr := strings.ToLower(strings.TrimSpace(input.Type))
	if typeStr == "" {
		cfg.TypeFilter = ""
		return nil
	}
	cfg.TypeFilter = schema.DependencyType(typeStr)
	if _, ok := schema.ValidDependencyTypes[cfg.TypeFilter]; !ok {
		return fmt.Errorf("invalid dependency type '%s'. must be parent, child, sibling", input.Type)
	}
	return nil
}

// validateBackendConfigs validates cache and snapshot backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
			return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
		}
		cfg.SnapshotDBConnect = input.SnapshotDBConnect
		if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
			return err
		}

		// Validate that cache and snapshots use different databases
		if cfg.CacheBackend == cfg.SnapshotBackend && cfg.CacheBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			snapshotDBPath := cfg.SnapshotDBConnect
			if snapshotDBPath == "" {
				snapshotDBPath = GetSnapshotDBFilePath()
			}
			if cacheDBPath == snapshotDBPath {
				return fmt.Errorf("cache and snapshot storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// resolveSource validates the features document source: an http(s) URL or an
// existing local file.
func resolveSource(cfg *Config, input *ConfigRawInput) error {
	source := strings.TrimSpace(input.SourceStr)
	if source == "" {
		source = DefaultSource
	}

	if IsRemoteSource(source) {
		if _, err := url.Parse(source); err != nil {
			return fmt.Errorf("invalid source URL '%s': %w", source, err)
		}
		cfg.Source = source
		return nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source file '%s' is not readable: %w", source, err)
	}
	if info.IsDir() {
		return fmt.Errorf("source '%s' is a directory, expected a features JSON file", source)
	}
	cfg.Source = source
	return nil
}

// IsRemoteSource reports whether the source should be fetched over HTTP.
func IsRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
