package core

import (
	"sort"

	"github.com/featuremap/featuremap/schema"
)

// CheckIssue is one finding of the document checks: a subject (a feature
// name, path, or dependency target) and the locations it was found at.
type CheckIssue struct {
	Subject   string   `json:"subject"`
	Locations []string `json:"locations"`
}

// CheckResult holds all findings of RunChecks. Duplicate names and paths are
// errors; unresolved dependency targets are data-quality warnings that do
// not fail the check, matching the silent under-detection of the graph
// builder.
type CheckResult struct {
	DuplicateNames    []CheckIssue `json:"duplicate_names"`
	DuplicatePaths    []CheckIssue `json:"duplicate_paths"`
	UnresolvedTargets []CheckIssue `json:"unresolved_targets"`
	TotalFeatures     int          `json:"total_features"`
}

// Passed reports whether the document is free of errors.
func (r CheckResult) Passed() bool {
	return len(r.DuplicateNames) == 0 && len(r.DuplicatePaths) == 0
}

// RunChecks validates a loaded document: every feature name and path must be
// unique across the forest, and every dependency target should resolve to a
// known feature.
func RunChecks(features []*schema.Feature) CheckResult {
	flat := Flatten(features)
	result := CheckResult{TotalFeatures: len(flat)}

	nameLocations := make(map[string][]string)
	pathLocations := make(map[string][]string)
	for _, f := range flat {
		nameLocations[f.Name] = append(nameLocations[f.Name], f.Path)
		pathLocations[f.Path] = append(pathLocations[f.Path], f.Path)
	}
	result.DuplicateNames = collectDuplicates(nameLocations)
	result.DuplicatePaths = collectDuplicates(pathLocations)

	nameToPath := BuildNameToPathMap(features)
	index := IndexByPath(features)
	unresolved := make(map[string][]string)
	for _, f := range flat {
		for _, dep := range f.Dependencies {
			if _, ok := resolveTargetPath(dep, nameToPath, index); !ok {
				unresolved[dep.Target()] = append(unresolved[dep.Target()], f.Path)
			}
		}
	}
	result.UnresolvedTargets = collectIssues(unresolved, 1)

	return result
}

// collectDuplicates keeps subjects appearing at more than one location.
func collectDuplicates(locations map[string][]string) []CheckIssue {
	return collectIssues(locations, 2)
}

func collectIssues(locations map[string][]string, minCount int) []CheckIssue {
	var issues []CheckIssue
	for subject, locs := range locations {
		if len(locs) < minCount {
			continue
		}
		issues = append(issues, CheckIssue{Subject: subject, Locations: locs})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Subject < issues[j].Subject })
	return issues
}
