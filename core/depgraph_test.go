package core

import (
	"testing"

	"github.com/featuremap/featuremap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depForest() []*schema.Feature {
	forest := []*schema.Feature{
		{
			Name: "Auth",
			Path: "src/auth",
			Dependencies: []schema.Dependency{
				{Feature: "Billing", TargetFilename: "invoice.go", Type: schema.SiblingDependency},
				{FeaturePath: "src/reports", TargetFilename: "report.go", Type: schema.SiblingDependency},
				{Feature: "Ghost", TargetFilename: "ghost.go", Type: schema.SiblingDependency},
			},
		},
		{
			Name: "Billing",
			Path: "src/billing",
			Dependencies: []schema.Dependency{
				{Feature: "Auth", TargetFilename: "login.go", Type: schema.SiblingDependency},
			},
		},
		{Name: "Reports", Path: "src/reports"},
	}
	AttachParents(forest)
	return forest
}

func TestBuildNameToPathMap(t *testing.T) {
	m := BuildNameToPathMap(depForest())
	assert.Equal(t, map[string]string{
		"Auth":    "src/auth",
		"Billing": "src/billing",
		"Reports": "src/reports",
	}, m)
}

func TestBuildDependencyMap(t *testing.T) {
	depMap := BuildDependencyMap(depForest())

	require.Contains(t, depMap, "src/auth")
	// The unresolvable "Ghost" target is dropped silently.
	assert.Equal(t, map[string]struct{}{
		"src/billing": {},
		"src/reports": {},
	}, depMap["src/auth"])
	assert.Equal(t, map[string]struct{}{"src/auth": {}}, depMap["src/billing"])
	assert.Empty(t, depMap["src/reports"])
}

func TestResolveTargetPathPrefersPath(t *testing.T) {
	forest := depForest()
	nameToPath := BuildNameToPathMap(forest)
	index := IndexByPath(forest)

	path, ok := resolveTargetPath(schema.Dependency{FeaturePath: "src/billing"}, nameToPath, index)
	require.True(t, ok)
	assert.Equal(t, "src/billing", path)

	// A path form pointing nowhere does not fall back to name lookup.
	_, ok = resolveTargetPath(schema.Dependency{FeaturePath: "src/gone", Feature: "Billing"}, nameToPath, index)
	assert.False(t, ok)

	path, ok = resolveTargetPath(schema.Dependency{Feature: "Reports"}, nameToPath, index)
	require.True(t, ok)
	assert.Equal(t, "src/reports", path)
}

func TestGroupDependencies(t *testing.T) {
	deps := []schema.Dependency{
		{Feature: "Billing", TargetFilename: "a.go", Type: schema.SiblingDependency},
		{Feature: "Billing", TargetFilename: "b.go", Type: schema.SiblingDependency},
		{Feature: "Billing", TargetFilename: "a.go", Type: schema.ParentDependency},
		{Feature: "Reports", TargetFilename: "r.go", Type: schema.SiblingDependency},
		{Feature: "Billing", TargetFilename: "a.go", Type: schema.SiblingDependency},
	}

	groups := GroupDependencies(deps)
	require.Len(t, groups, 3)

	// First-seen order, keyed by (target, relation type).
	assert.Equal(t, "Billing", groups[0].Feature)
	assert.Equal(t, schema.SiblingDependency, groups[0].Type)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 2, groups[0].DistinctTargetFiles())

	assert.Equal(t, schema.ParentDependency, groups[1].Type)
	assert.Equal(t, 1, groups[1].Count)

	assert.Equal(t, "Reports", groups[2].Feature)
}

func TestGroupDependenciesEmpty(t *testing.T) {
	assert.Empty(t, GroupDependencies(nil))
}
