// Package schema has configs, models and shared types for all parts of featuremap.
package schema

import "time"

// Feature is a named, path-addressed node in the feature tree produced by the
// scanner. The path is globally unique across the whole forest. Parent is a
// back-reference attached after decoding; it is never serialized.
type Feature struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Owner          string               `json:"owner"`
	OwnerInherited bool                 `json:"is_owner_inherited"`
	Path           string               `json:"path"`
	Features       []*Feature           `json:"features"`
	Meta           map[string]MetaValue `json:"meta,omitempty"`
	Changes        []Change             `json:"changes,omitempty"`
	Decisions      []string             `json:"decisions,omitempty"`
	Stats          *Stats               `json:"stats,omitempty"`
	Dependencies   []Dependency         `json:"dependencies,omitempty"`

	Parent *Feature `json:"-"`
}

// Change is one commit record from the feature's git history.
type Change struct {
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Hash        string `json:"hash"`
}

// Stats holds the aggregate counts the scanner computed for a feature.
// Commits is a date-bucketed histogram with scanner-defined values.
type Stats struct {
	FilesCount *int           `json:"files_count,omitempty"`
	LinesCount *int           `json:"lines_count,omitempty"`
	TodosCount *int           `json:"todos_count,omitempty"`
	Commits    map[string]any `json:"commits"`
	Coverage   *CoverageStats `json:"coverage,omitempty"`
}

// CoverageStats is the test coverage breakdown for a feature, with optional
// branch data and a per-file breakdown.
type CoverageStats struct {
	LinesTotal            int                     `json:"lines_total"`
	LinesCovered          int                     `json:"lines_covered"`
	LinesMissed           int                     `json:"lines_missed"`
	LineCoveragePercent   float64                 `json:"line_coverage_percent"`
	BranchesTotal         *int                    `json:"branches_total,omitempty"`
	BranchesCovered       *int                    `json:"branches_covered,omitempty"`
	BranchCoveragePercent *float64                `json:"branch_coverage_percent,omitempty"`
	Files                 map[string]FileCoverage `json:"files,omitempty"`
}

// FileCoverage is the coverage breakdown for a single file within a feature.
type FileCoverage struct {
	LinesTotal            int      `json:"lines_total"`
	LinesCovered          int      `json:"lines_covered"`
	LinesMissed           int      `json:"lines_missed"`
	LineCoveragePercent   float64  `json:"line_coverage_percent"`
	BranchesTotal         *int     `json:"branches_total,omitempty"`
	BranchesCovered       *int     `json:"branches_covered,omitempty"`
	BranchCoveragePercent *float64 `json:"branch_coverage_percent,omitempty"`
}

// Dependency is immutable evidence of one static reference from a file in the
// owning feature to a file in another feature. The target feature may be
// identified by name (Feature) or by path (FeaturePath); the scanner emits
// FeaturePath, older documents carry the name.
type Dependency struct {
	SourceFilename string         `json:"sourceFilename"`
	TargetFilename string         `json:"targetFilename"`
	Line           int            `json:"line"`
	Content        string         `json:"content"`
	FeaturePath    string         `json:"featurePath,omitempty"`
	Feature        string         `json:"feature,omitempty"`
	Type           DependencyType `json:"type"`
}

// Target returns the identifier of the dependency target: the feature name
// when present, otherwise the feature path.
func (d Dependency) Target() string {
	if d.Feature != "" {
		return d.Feature
	}
	return d.FeaturePath
}

// GroupedDependency aggregates Dependencies sharing the same target feature
// and relation type. Built on demand, never persisted.
type GroupedDependency struct {
	Feature string         `json:"feature"`
	Type    DependencyType `json:"type"`
	Count   int            `json:"count"`
	Items   []Dependency   `json:"items"`
}

// DistinctTargetFiles returns the number of distinct target filenames among
// the contributing dependencies.
func (g GroupedDependency) DistinctTargetFiles() int {
	seen := make(map[string]struct{}, len(g.Items))
	for _, item := range g.Items {
		seen[item.TargetFilename] = struct{}{}
	}
	return len(seen)
}

// CacheStatus describes the state of the snapshot cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SnapshotStatus describes the state of the snapshot tracking store.
type SnapshotStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalSnapshots   int       `json:"total_snapshots"`
	LastSnapshotTime time.Time `json:"last_snapshot_time"`
}

// SnapshotRecord is one recorded load of a features document.
type SnapshotRecord struct {
	SnapshotID   int64
	Source       string
	ContentHash  string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	FeatureCount int32
}

// FeatureMetricsRecord is the per-feature row recorded for a snapshot.
type FeatureMetricsRecord struct {
	SnapshotID      int64
	Path            string
	Name            string
	Owner           string
	OwnerInherited  bool
	Files           int32
	Lines           int32
	Todos           int32
	Commits         int32
	Dependencies    int32
	Alerts          int32
	CoveragePercent *float64
}
