package core

import (
	"sort"

	"github.com/featuremap/featuremap/schema"
)

// OwnerSummary aggregates the features resolving to one owner.
type OwnerSummary struct {
	Owner     string `json:"owner"`
	Features  int    `json:"features"`
	Inherited int    `json:"inherited"`
	Lines     int    `json:"lines"`
	Alerts    int    `json:"alerts"`
}

// BuildOwnerSummaries aggregates the forest per resolved owner. Summaries
// are ordered by feature count, largest first, ties by owner name.
func BuildOwnerSummaries(features []*schema.Feature) []OwnerSummary {
	depMap := BuildDependencyMap(features)
	nameToPath := BuildNameToPathMap(features)

	byOwner := make(map[string]*OwnerSummary)
	for _, f := range Flatten(features) {
		owner := ResolveOwner(f)
		summary, ok := byOwner[owner]
		if !ok {
			summary = &OwnerSummary{Owner: owner}
			byOwner[owner] = summary
		}

		summary.Features++
		if OwnerIsInherited(f) {
			summary.Inherited++
		}
		if f.Stats != nil && f.Stats.LinesCount != nil {
			summary.Lines += *f.Stats.LinesCount
		}
		for _, group := range GroupDependencies(f.Dependencies) {
			if len(DetectAlerts(group, f.Path, depMap, nameToPath)) > 0 {
				summary.Alerts++
			}
		}
	}

	summaries := make([]OwnerSummary, 0, len(byOwner))
	for _, summary := range byOwner {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Features != summaries[j].Features {
			return summaries[i].Features > summaries[j].Features
		}
		return summaries[i].Owner < summaries[j].Owner
	})
	return summaries
}
