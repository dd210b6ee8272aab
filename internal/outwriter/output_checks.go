package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// PrintCheckResult outputs the document check findings. Duplicates are
// errors, unresolved dependency targets are warnings.
func PrintCheckResult(result core.CheckResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCheckText(w, result)
	}, "Wrote checks")
}

// writeCheckText writes the human-readable check report.
func writeCheckText(w io.Writer, result core.CheckResult) error {
	if err := writeIssueSection(w, "Duplicate feature names", result.DuplicateNames); err != nil {
		return err
	}
	if err := writeIssueSection(w, "Duplicate feature paths", result.DuplicatePaths); err != nil {
		return err
	}
	if err := writeIssueSection(w, "Unresolved dependency targets (warning)", result.UnresolvedTargets); err != nil {
		return err
	}

	verdict := "OK"
	if !result.Passed() {
		verdict = "FAILED"
	}
	_, err := fmt.Fprintf(w, "Checked %d features: %s\n", result.TotalFeatures, verdict)
	return err
}

// writeIssueSection writes one group of findings, skipping empty groups.
func writeIssueSection(w io.Writer, title string, issues []core.CheckIssue) error {
	if len(issues) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s:\n", title); err != nil {
		return err
	}
	for _, issue := range issues {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", issue.Subject, strings.Join(issue.Locations, ", ")); err != nil {
			return err
		}
	}
	return nil
}
