package core

import "github.com/featuremap/featuremap/schema"

// BuildNameToPathMap maps feature names to their unique paths. Dependency
// records reference targets by name while graph checks operate on paths, so
// the two maps are always built together. On duplicate names (flagged by
// RunChecks) the last feature seen wins.
func BuildNameToPathMap(features []*schema.Feature) map[string]string {
	nameToPath := make(map[string]string)
	for _, f := range Flatten(features) {
		nameToPath[f.Name] = f.Path
	}
	return nameToPath
}

// BuildDependencyMap builds the adjacency map of the dependency graph: for
// every feature path, the set of feature paths it statically depends on.
// Targets that resolve to no known path are dropped silently; the graph
// under-reports rather than erroring on stale documents.
func BuildDependencyMap(features []*schema.Feature) map[string]map[string]struct{} {
	nameToPath := BuildNameToPathMap(features)
	index := IndexByPath(features)

	depMap := make(map[string]map[string]struct{})
	for _, f := range Flatten(features) {
		targets := make(map[string]struct{})
		for _, dep := range f.Dependencies {
			path, ok := resolveTargetPath(dep, nameToPath, index)
			if !ok {
				continue
			}
			targets[path] = struct{}{}
		}
		depMap[f.Path] = targets
	}
	return depMap
}

// resolveTargetPath resolves a dependency record to the target feature's
// path, accepting either the path form the scanner emits or the name form
// older documents carry.
func resolveTargetPath(dep schema.Dependency, nameToPath map[string]string, index map[string]*schema.Feature) (string, bool) {
	if dep.FeaturePath != "" {
		if _, ok := index[dep.FeaturePath]; ok {
			return dep.FeaturePath, true
		}
		return "", false
	}
	path, ok := nameToPath[dep.Feature]
	return path, ok
}
