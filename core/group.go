package core

import "github.com/featuremap/featuremap/schema"

// groupKey identifies a dependency group: the target feature plus the tree
// relation of the target.
type groupKey struct {
	target string
	kind   schema.DependencyType
}

// GroupDependencies aggregates one feature's flat dependency list by
// (target feature, relation type). Groups come out in first-seen order;
// Count is the number of contributing records and Items keeps them all for
// drill-down.
func GroupDependencies(deps []schema.Dependency) []schema.GroupedDependency {
	byKey := make(map[groupKey]int)
	var groups []schema.GroupedDependency

	for _, dep := range deps {
		key := groupKey{target: dep.Target(), kind: dep.Type}
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, schema.GroupedDependency{
				Feature: key.target,
				Type:    key.kind,
			})
		}
		groups[idx].Count++
		groups[idx].Items = append(groups[idx].Items, dep)
	}
	return groups
}
