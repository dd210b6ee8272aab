//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestFeaturemapWithMySQL tests the featuremap CLI with a MySQL backend.
func TestFeaturemapWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "featuremap",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/featuremap?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("FEATUREMAP_CACHE_BACKEND", "mysql")
	_ = os.Setenv("FEATUREMAP_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("FEATUREMAP_SNAPSHOT_BACKEND", "mysql")
	_ = os.Setenv("FEATUREMAP_SNAPSHOT_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("FEATUREMAP_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("FEATUREMAP_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("FEATUREMAP_SNAPSHOT_BACKEND") }()
	defer func() { _ = os.Unsetenv("FEATUREMAP_SNAPSHOT_DB_CONNECT") }()

	runBackendSmokeTest(t)
}

// TestFeaturemapWithPostgres tests the featuremap CLI with a PostgreSQL backend.
func TestFeaturemapWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("FEATUREMAP_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("FEATUREMAP_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("FEATUREMAP_SNAPSHOT_BACKEND", "postgresql")
	_ = os.Setenv("FEATUREMAP_SNAPSHOT_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("FEATUREMAP_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("FEATUREMAP_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("FEATUREMAP_SNAPSHOT_BACKEND") }()
	defer func() { _ = os.Unsetenv("FEATUREMAP_SNAPSHOT_DB_CONNECT") }()

	runBackendSmokeTest(t)
}

// runBackendSmokeTest exercises the CLI end to end against the configured backend.
func runBackendSmokeTest(t *testing.T) {
	t.Helper()
	sourcePath := writeSampleDocument(t)

	// Run featuremap cache clear
	err := runFeaturemapCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run featuremap snapshots clear
	err = runFeaturemapCommand(t, "snapshots", "clear")
	require.NoError(t, err)

	// Run featuremap features (loads, caches, and records a snapshot)
	err = runFeaturemapCommand(t, "features", sourcePath, "--limit", "5")
	require.NoError(t, err)

	// Run featuremap snapshots record
	err = runFeaturemapCommand(t, "snapshots", "record", sourcePath)
	require.NoError(t, err)

	// Run featuremap snapshots list
	err = runFeaturemapCommand(t, "snapshots", "list")
	require.NoError(t, err)

	// Run featuremap cache status
	err = runFeaturemapCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run featuremap snapshots status
	err = runFeaturemapCommand(t, "snapshots", "status")
	require.NoError(t, err)
}

func runFeaturemapCommand(t *testing.T, args ...string) error {
	featuremapPath := getFeaturemapBinary()
	cmd := exec.Command(featuremapPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
