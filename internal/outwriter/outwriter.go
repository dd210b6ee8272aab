// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteInsights prints the filtered and sorted insight rows using the
// configured output format.
func (ow *OutWriter) WriteInsights(rows []map[string]any, cfg *contract.Config, duration time.Duration) error {
	return PrintInsightRows(rows, cfg, duration)
}

// WriteDependencies prints per-feature dependency reports using the
// configured output format.
func (ow *OutWriter) WriteDependencies(reports []core.DependencyReport, cfg *contract.Config) error {
	return PrintDependencyReports(reports, cfg)
}

// WriteOwners prints the owner summary using the configured output format.
func (ow *OutWriter) WriteOwners(summaries []core.OwnerSummary, cfg *contract.Config) error {
	return PrintOwnerSummaries(summaries, cfg)
}

// WriteTree prints the feature hierarchy as an indented tree.
func (ow *OutWriter) WriteTree(features []*schema.Feature, cfg *contract.Config) error {
	return PrintTree(features, cfg)
}

// WriteChecks prints the document check findings.
func (ow *OutWriter) WriteChecks(result core.CheckResult, cfg *contract.Config) error {
	return PrintCheckResult(result, cfg)
}

// WriteSnapshots prints recorded snapshot history.
func (ow *OutWriter) WriteSnapshots(records []schema.SnapshotRecord, cfg *contract.Config) error {
	return PrintSnapshotRecords(records, cfg)
}

// getMaxTablePathWidth calculates the maximum width for feature paths in
// table output based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: rank, owner, counts, alerts,
	// plus borders, separators, and padding.
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
