package core

import "github.com/featuremap/featuremap/schema"

// DetectAlerts classifies a dependency group with zero or more coupling
// alerts, given the owning feature's path and the prebuilt graph maps.
//
// Circular: only a direct A→B plus B→A pair triggers the alert. Longer
// cycles stay silent; the check is per-edge, not a graph search.
//
// Tight: all references concentrated in one target file and more than
// TightSingleFileRefs of them, or references spread over at least
// TightSpreadFiles files with more than TightSpreadRefs total. The
// thresholds are policy constants and the complete rule.
func DetectAlerts(group schema.GroupedDependency, currentPath string, depMap map[string]map[string]struct{}, nameToPath map[string]string) []schema.AlertKind {
	var alerts []schema.AlertKind

	if targetPath, ok := lookupGroupTarget(group.Feature, depMap, nameToPath); ok {
		if _, back := depMap[targetPath][currentPath]; back {
			alerts = append(alerts, schema.CircularAlert)
		}
	}

	fileCount := group.DistinctTargetFiles()
	singleFileTight := fileCount == 1 && group.Count > schema.TightSingleFileRefs
	spreadTight := fileCount >= schema.TightSpreadFiles && group.Count > schema.TightSpreadRefs
	if singleFileTight || spreadTight {
		alerts = append(alerts, schema.TightAlert)
	}

	return alerts
}

// lookupGroupTarget resolves a group's target identifier to a path, trying
// the name map first and falling back to a direct path hit. Unresolved
// targets are excluded from circularity checks rather than reported.
func lookupGroupTarget(target string, depMap map[string]map[string]struct{}, nameToPath map[string]string) (string, bool) {
	if path, ok := nameToPath[target]; ok {
		return path, true
	}
	if _, ok := depMap[target]; ok {
		return target, true
	}
	return "", false
}
