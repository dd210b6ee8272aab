//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedFeaturemapPath holds the path to a shared featuremap binary built once for all tests.
	sharedFeaturemapPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// sampleFeaturesDocument is a minimal valid features payload for CLI runs.
const sampleFeaturesDocument = `[
  {
    "name": "Platform",
    "owner": "core-team",
    "path": "src/platform",
    "features": [
      {
        "name": "Auth",
        "owner": "",
        "path": "src/platform/auth",
        "features": [],
        "stats": {"lines_count": 2400, "commits": {}}
      }
    ]
  },
  {
    "name": "Billing",
    "owner": "payments",
    "path": "src/billing",
    "features": [],
    "stats": {"lines_count": 800, "commits": {}}
  }
]`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFeaturemapBinary returns the path to the featuremap binary, building it once if needed.
func getFeaturemapBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "featuremap-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		featuremapPath := filepath.Join(tempDir, "featuremap")
		buildCmd := exec.Command("go", "build", "-o", featuremapPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build featuremap: %v", err))
		}

		sharedFeaturemapPath = featuremapPath
	})

	return sharedFeaturemapPath
}

// writeSampleDocument writes the sample document into a temp dir and returns its path.
func writeSampleDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.json")
	if err := os.WriteFile(path, []byte(sampleFeaturesDocument), 0o644); err != nil {
		t.Fatalf("failed to write sample document: %v", err)
	}
	return path
}
