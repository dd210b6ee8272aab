package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featuremap/featuremap/schema"
)

func validRawInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	source := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(source, []byte("[]"), 0o644))
	return &ConfigRawInput{
		SourceStr:       source,
		Limit:           DefaultResultLimit,
		Output:          "text",
		Color:           "yes",
		CacheBackend:    "sqlite",
		SnapshotBackend: "none",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validRawInput(t)
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, input.SourceStr, cfg.Source)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultServeAddr, cfg.ServeAddr)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.SortConfig{}, cfg.Sort)
	assert.Empty(t, cfg.SearchFields)
}

func TestProcessAndValidateLimit(t *testing.T) {
	input := validRawInput(t)
	input.Limit = 0
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.Limit = MaxResultLimit + 1
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessAndValidateOutput(t *testing.T) {
	input := validRawInput(t)
	input.Output = "xml"
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.Output = "JSON"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)
}

func TestProcessSortConfig(t *testing.T) {
	input := validRawInput(t)
	input.Sort = "lines"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.SortConfig{Field: "lines", Direction: schema.SortAscending}, cfg.Sort)

	input.Direction = "DESC"
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.SortDescending, cfg.Sort.Direction)

	input.Direction = "sideways"
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.Sort = ""
	input.Direction = "asc"
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessFilters(t *testing.T) {
	input := validRawInput(t)
	input.Owner = " core-team "
	input.Type = "Sibling"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "core-team", cfg.OwnerFilter)
	assert.Equal(t, schema.SiblingDependency, cfg.TypeFilter)

	input.Type = "cousin"
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestSearchFieldsParsing(t *testing.T) {
	input := validRawInput(t)
	input.SearchFields = "name, path,,owner "
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, []string{"name", "path", "owner"}, cfg.SearchFields)
}

func TestBackendValidation(t *testing.T) {
	input := validRawInput(t)
	input.CacheBackend = "oracle"
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input = validRawInput(t)
	input.CacheBackend = "mysql"
	input.CacheDBConnect = ""
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.CacheDBConnect = "user:pass@tcp(localhost:3306)/featuremap"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.MySQLBackend, cfg.CacheBackend)

	input = validRawInput(t)
	input.SnapshotBackend = "postgresql"
	input.SnapshotDBConnect = "host=localhost dbname=featuremap"
	require.NoError(t, ProcessAndValidate(&Config{}, input))

	input.SnapshotDBConnect = "localhost"
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestSQLiteBackendsMustDiffer(t *testing.T) {
	input := validRawInput(t)
	input.CacheBackend = "sqlite"
	input.SnapshotBackend = "sqlite"
	input.CacheDBConnect = "/tmp/same.db"
	input.SnapshotDBConnect = "/tmp/same.db"
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.SnapshotDBConnect = "/tmp/other.db"
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestResolveSource(t *testing.T) {
	input := validRawInput(t)

	input.SourceStr = "https://dash.example.com/features.json"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, input.SourceStr, cfg.Source)

	input.SourceStr = filepath.Join(t.TempDir(), "missing.json")
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.SourceStr = t.TempDir()
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Source: "features.json", SearchFields: []string{"name"}}
	clone := cfg.Clone()
	clone.SearchFields[0] = "path"
	assert.Equal(t, "name", cfg.SearchFields[0])
}
