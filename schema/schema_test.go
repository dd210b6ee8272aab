package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaValueUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		isList  bool
		scalar  string
		entries int
	}{
		{name: "plain string", input: `"beta"`, scalar: "beta"},
		{name: "number keeps literal text", input: `42`, scalar: "42"},
		{name: "bool keeps literal text", input: `true`, scalar: "true"},
		{
			name:    "record list",
			input:   `[{"name":"dark-mode","status":"on"},{"name":"new-nav","status":"off"}]`,
			isList:  true,
			entries: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m MetaValue
			require.NoError(t, json.Unmarshal([]byte(tt.input), &m))
			assert.Equal(t, tt.isList, m.IsList())
			if tt.isList {
				assert.Len(t, m.List(), tt.entries)
			} else {
				assert.Equal(t, tt.scalar, m.Scalar())
			}
		})
	}
}

func TestMetaValueListAccess(t *testing.T) {
	var m MetaValue
	input := `[{"name":"checkout-v2","rollout":"50%"}]`
	require.NoError(t, json.Unmarshal([]byte(input), &m))

	require.True(t, m.IsList())
	assert.Equal(t, "checkout-v2", m.List()[0]["name"])
	assert.Equal(t, "1 entries", m.String())
}

func TestFeatureDecodeWithDependencies(t *testing.T) {
	doc := `[{
		"name": "billing",
		"description": "Billing feature",
		"owner": "alice",
		"is_owner_inherited": false,
		"path": "features/billing",
		"features": [],
		"meta": {"status": "stable"},
		"decisions": ["Use Stripe"],
		"dependencies": [{
			"sourceFilename": "features/billing/invoice.ts",
			"targetFilename": "features/auth/session.ts",
			"line": 3,
			"content": "import { session } from '../auth/session'",
			"featurePath": "features/auth",
			"type": "sibling"
		}]
	}]`

	var features []*Feature
	require.NoError(t, json.Unmarshal([]byte(doc), &features))
	require.Len(t, features, 1)

	f := features[0]
	assert.Equal(t, "features/billing", f.Path)
	assert.Equal(t, "stable", f.Meta["status"].Scalar())
	require.Len(t, f.Dependencies, 1)
	assert.Equal(t, SiblingDependency, f.Dependencies[0].Type)
	assert.Equal(t, "features/auth", f.Dependencies[0].Target())
}

func TestDependencyTargetPrefersName(t *testing.T) {
	d := Dependency{Feature: "auth", FeaturePath: "features/auth"}
	assert.Equal(t, "auth", d.Target())

	d = Dependency{FeaturePath: "features/auth"}
	assert.Equal(t, "features/auth", d.Target())
}

func TestGroupedDependencyDistinctTargetFiles(t *testing.T) {
	g := GroupedDependency{
		Items: []Dependency{
			{TargetFilename: "a.go"},
			{TargetFilename: "a.go"},
			{TargetFilename: "b.go"},
		},
	}
	assert.Equal(t, 2, g.DistinctTargetFiles())
}
