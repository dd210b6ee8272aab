package core

import (
	"fmt"
	"testing"

	"github.com/featuremap/featuremap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tightGroup builds a grouped dependency with count references spread over
// fileCount distinct target files.
func tightGroup(target string, count, fileCount int) schema.GroupedDependency {
	group := schema.GroupedDependency{Feature: target, Type: schema.SiblingDependency, Count: count}
	for i := 0; i < count; i++ {
		group.Items = append(group.Items, schema.Dependency{
			Feature:        target,
			TargetFilename: fmt.Sprintf("file%d.go", i%fileCount),
			Type:           schema.SiblingDependency,
		})
	}
	return group
}

func TestDetectAlertsTightThresholds(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		fileCount int
		tight     bool
	}{
		{"single file above threshold", 6, 1, true},
		{"single file at threshold", 5, 1, false},
		{"spread above threshold", 4, 3, true},
		{"spread at threshold", 3, 3, false},
		{"two files many refs", 5, 2, false},
		{"many files many refs", 10, 4, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			group := tightGroup("Billing", tc.count, tc.fileCount)
			require.Equal(t, tc.fileCount, group.DistinctTargetFiles())

			alerts := DetectAlerts(group, "src/auth", map[string]map[string]struct{}{}, map[string]string{})
			if tc.tight {
				assert.Equal(t, []schema.AlertKind{schema.TightAlert}, alerts)
			} else {
				assert.Empty(t, alerts)
			}
		})
	}
}

func TestDetectAlertsCircularSymmetric(t *testing.T) {
	forest := depForest()
	depMap := BuildDependencyMap(forest)
	nameToPath := BuildNameToPathMap(forest)

	authOnBilling := GroupDependencies(forest[0].Dependencies)[0]
	billingOnAuth := GroupDependencies(forest[1].Dependencies)[0]

	assert.Contains(t, DetectAlerts(authOnBilling, "src/auth", depMap, nameToPath), schema.CircularAlert)
	assert.Contains(t, DetectAlerts(billingOnAuth, "src/billing", depMap, nameToPath), schema.CircularAlert)

	// Auth -> Reports has no back-edge.
	authOnReports := GroupDependencies(forest[0].Dependencies)[1]
	assert.Empty(t, DetectAlerts(authOnReports, "src/auth", depMap, nameToPath))
}

func TestDetectAlertsLongCycleSilent(t *testing.T) {
	forest := []*schema.Feature{
		{Name: "A", Path: "a", Dependencies: []schema.Dependency{{Feature: "B", TargetFilename: "b.go", Type: schema.SiblingDependency}}},
		{Name: "B", Path: "b", Dependencies: []schema.Dependency{{Feature: "C", TargetFilename: "c.go", Type: schema.SiblingDependency}}},
		{Name: "C", Path: "c", Dependencies: []schema.Dependency{{Feature: "A", TargetFilename: "a.go", Type: schema.SiblingDependency}}},
	}
	AttachParents(forest)
	depMap := BuildDependencyMap(forest)
	nameToPath := BuildNameToPathMap(forest)

	// A three-node cycle produces no alert on any single edge.
	for _, f := range forest {
		for _, group := range GroupDependencies(f.Dependencies) {
			assert.Empty(t, DetectAlerts(group, f.Path, depMap, nameToPath))
		}
	}
}

func TestDetectAlertsUnresolvedTargetSkipped(t *testing.T) {
	group := schema.GroupedDependency{
		Feature: "Ghost",
		Count:   1,
		Items:   []schema.Dependency{{Feature: "Ghost", TargetFilename: "g.go"}},
	}
	alerts := DetectAlerts(group, "src/auth", map[string]map[string]struct{}{}, map[string]string{})
	assert.Empty(t, alerts)
}

func TestDetectAlertsPathKeyedGroup(t *testing.T) {
	// Groups whose target is a raw path (no name form) still resolve
	// through the direct path fallback.
	depMap := map[string]map[string]struct{}{
		"src/auth":    {"src/billing": {}},
		"src/billing": {"src/auth": {}},
	}
	group := schema.GroupedDependency{
		Feature: "src/billing",
		Count:   1,
		Items:   []schema.Dependency{{FeaturePath: "src/billing", TargetFilename: "b.go"}},
	}
	alerts := DetectAlerts(group, "src/auth", depMap, map[string]string{})
	assert.Equal(t, []schema.AlertKind{schema.CircularAlert}, alerts)
}

func TestDetectAlertsBothKinds(t *testing.T) {
	depMap := map[string]map[string]struct{}{
		"src/auth":    {"src/billing": {}},
		"src/billing": {"src/auth": {}},
	}
	nameToPath := map[string]string{"Billing": "src/billing"}

	group := tightGroup("Billing", 7, 1)
	alerts := DetectAlerts(group, "src/auth", depMap, nameToPath)
	assert.Equal(t, []schema.AlertKind{schema.CircularAlert, schema.TightAlert}, alerts)
}
