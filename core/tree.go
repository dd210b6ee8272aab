// Package core implements the pure data transformations behind the feature
// dashboard: tree indexing, owner inheritance, the dependency graph and its
// coupling alerts, and the flattened insight rows the query and sort engines
// operate on. Nothing in this package performs I/O or mutates its inputs,
// with the single exception of AttachParents which wires the parent
// back-references right after decoding.
package core

import (
	"sort"

	"github.com/featuremap/featuremap/schema"
)

// AttachParents walks the decoded forest and sets the Parent back-reference
// on every node. The input is expected to be a strict tree; if a node is
// reachable from two parents the last assignment wins.
func AttachParents(features []*schema.Feature) {
	for _, f := range features {
		attachParent(f, nil)
	}
}

func attachParent(f *schema.Feature, parent *schema.Feature) {
	f.Parent = parent
	for _, child := range f.Features {
		attachParent(child, f)
	}
}

// Flatten returns all features of the forest in depth-first order, parents
// before children.
func Flatten(features []*schema.Feature) []*schema.Feature {
	var out []*schema.Feature
	var walk func(fs []*schema.Feature)
	walk = func(fs []*schema.Feature) {
		for _, f := range fs {
			out = append(out, f)
			walk(f.Features)
		}
	}
	walk(features)
	return out
}

// IndexByPath builds a path lookup over the whole forest. Paths are unique
// by contract; on duplicate paths the last node seen wins.
func IndexByPath(features []*schema.Feature) map[string]*schema.Feature {
	index := make(map[string]*schema.Feature)
	for _, f := range Flatten(features) {
		index[f.Path] = f
	}
	return index
}

// CollectOwners returns the sorted set of resolved owners across the forest.
func CollectOwners(features []*schema.Feature) []string {
	seen := make(map[string]struct{})
	for _, f := range Flatten(features) {
		seen[ResolveOwner(f)] = struct{}{}
	}
	owners := make([]string, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}
