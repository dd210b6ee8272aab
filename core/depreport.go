package core

import "github.com/featuremap/featuremap/schema"

// DependencyInsight is one grouped dependency together with its coupling
// alerts.
type DependencyInsight struct {
	Group  schema.GroupedDependency `json:"group"`
	Alerts []schema.AlertKind       `json:"alerts,omitempty"`
}

// DependencyReport collects the grouped dependencies of a single feature.
type DependencyReport struct {
	FeaturePath string              `json:"feature_path"`
	FeatureName string              `json:"feature_name"`
	Insights    []DependencyInsight `json:"insights"`
}

// BuildDependencyReports walks the forest and produces one report per
// feature with dependencies, in flatten order. A non-empty typeFilter keeps
// only groups of that relation type. Features whose dependencies are fully
// filtered out are skipped.
func BuildDependencyReports(features []*schema.Feature, typeFilter schema.DependencyType) []DependencyReport {
	depMap := BuildDependencyMap(features)
	nameToPath := BuildNameToPathMap(features)

	var reports []DependencyReport
	for _, f := range Flatten(features) {
		if len(f.Dependencies) == 0 {
			continue
		}

		var insights []DependencyInsight
		for _, group := range GroupDependencies(f.Dependencies) {
			if typeFilter != "" && group.Type != typeFilter {
				continue
			}
			insights = append(insights, DependencyInsight{
				Group:  group,
				Alerts: DetectAlerts(group, f.Path, depMap, nameToPath),
			})
		}
		if len(insights) == 0 {
			continue
		}

		reports = append(reports, DependencyReport{
			FeaturePath: f.Path,
			FeatureName: f.Name,
			Insights:    insights,
		})
	}
	return reports
}
