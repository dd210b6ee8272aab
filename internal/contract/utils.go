package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/featuremap/featuremap/schema"
)

// Coverage label constants.
const (
	GoodValue = "Good" // Good coverage
	FairValue = "Fair" // Fair coverage
	PoorValue = "Poor" // Poor coverage
	NoneValue = "None" // No coverage data
)

// Color variables for console output.
var (
	AlertColor     = color.New(color.FgRed, color.Bold)     // alertColor flags coupling alerts.
	GoodColor      = color.New(color.FgGreen)               // goodColor represents healthy coverage.
	FairColor      = color.New(color.FgYellow)              // fairColor represents standard caution, not bold.
	PoorColor      = color.New(color.FgMagenta, color.Bold) // poorColor represents coverage debt.
	InheritedColor = color.New(color.FgCyan)                // inheritedColor marks inherited owners.
)

// GetPlainCoverageLabel returns a plain text label for a feature's line
// coverage percent. This is the core logic used for CSV, JSON, and table
// printing.
func GetPlainCoverageLabel(percent float64) string {
	switch {
	case percent >= 80:
		return GoodValue
	case percent >= 50:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorCoverageLabel returns a colored coverage label for console output (table).
// It uses GetPlainCoverageLabel to determine the string, and then applies the
// appropriate color.
func GetColorCoverageLabel(percent float64) string {
	text := GetPlainCoverageLabel(percent)

	switch text {
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// GetAlertLabel renders an alert list for table output, colored when enabled.
func GetAlertLabel(alerts []schema.AlertKind, useColors bool) string {
	if len(alerts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		parts = append(parts, string(alert))
	}
	text := strings.Join(parts, ", ")
	if useColors {
		return AlertColor.Sprint(text)
	}
	return text
}

// GetOwnerLabel renders an owner cell, marking inherited owners and coloring
// the marker when enabled.
func GetOwnerLabel(owner string, inherited bool, useColors bool) string {
	if !inherited {
		return owner
	}
	text := owner + " (inherited)"
	if useColors {
		return InheritedColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for document cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".featuremap_cache.db"
	}
	return filepath.Join(homeDir, ".featuremap_cache.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".featuremap_snapshots.db"
	}
	return filepath.Join(homeDir, ".featuremap_snapshots.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
