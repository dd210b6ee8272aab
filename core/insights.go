package core

import "github.com/featuremap/featuremap/schema"

// BuildInsightRows flattens the forest into generic records for the insight
// tables. Rows are plain nested maps so the query evaluator and the table
// sorter can resolve dot-paths on them without knowing the Feature type.
// Each call allocates fresh rows; the input forest is never touched.
func BuildInsightRows(features []*schema.Feature) []map[string]any {
	depMap := BuildDependencyMap(features)
	nameToPath := BuildNameToPathMap(features)

	flat := Flatten(features)
	rows := make([]map[string]any, 0, len(flat))
	for _, f := range flat {
		rows = append(rows, buildInsightRow(f, depMap, nameToPath))
	}
	return rows
}

func buildInsightRow(f *schema.Feature, depMap map[string]map[string]struct{}, nameToPath map[string]string) map[string]any {
	row := map[string]any{
		"path":            f.Path,
		"name":            f.Name,
		"description":     f.Description,
		"owner":           ResolveOwner(f),
		"owner_inherited": f.OwnerInherited || OwnerIsInherited(f),
		"changes":         len(f.Changes),
		"decisions":       len(f.Decisions),
		"dependencies":    len(f.Dependencies),
		"children":        len(f.Features),
		"alerts":          countAlerts(f, depMap, nameToPath),
	}

	if len(f.Changes) > 0 {
		row["last_change"] = f.Changes[0].Date
	}

	if len(f.Meta) > 0 {
		meta := make(map[string]any, len(f.Meta))
		for key, value := range f.Meta {
			meta[key] = value.String()
		}
		row["meta"] = meta
	}

	if f.Stats != nil {
		stats := make(map[string]any)
		if f.Stats.FilesCount != nil {
			row["files"] = *f.Stats.FilesCount
			stats["files_count"] = *f.Stats.FilesCount
		}
		if f.Stats.LinesCount != nil {
			row["lines"] = *f.Stats.LinesCount
			stats["lines_count"] = *f.Stats.LinesCount
		}
		if f.Stats.TodosCount != nil {
			row["todos"] = *f.Stats.TodosCount
			stats["todos_count"] = *f.Stats.TodosCount
		}
		if f.Stats.Coverage != nil {
			row["coverage"] = f.Stats.Coverage.LineCoveragePercent
			stats["coverage"] = f.Stats.Coverage.LineCoveragePercent
		}
		row["stats"] = stats
	}

	return row
}

// countAlerts counts this feature's dependency groups carrying at least one
// coupling alert.
func countAlerts(f *schema.Feature, depMap map[string]map[string]struct{}, nameToPath map[string]string) int {
	count := 0
	for _, group := range GroupDependencies(f.Dependencies) {
		if len(DetectAlerts(group, f.Path, depMap, nameToPath)) > 0 {
			count++
		}
	}
	return count
}
