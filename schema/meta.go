package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MetaValue is one entry of a feature's open metadata map. The scanner emits
// two shapes: a plain scalar (string, number, bool) or a list of
// string-to-string records (flags, experiments, toggles). The two shapes are
// kept as a tagged variant so callers can match them exhaustively instead of
// type-switching on any.
type MetaValue struct {
	scalar string
	list   []map[string]string
	isList bool
}

// ScalarMeta returns a scalar metadata value.
func ScalarMeta(v string) MetaValue {
	return MetaValue{scalar: v}
}

// ListMeta returns a list metadata value.
func ListMeta(items []map[string]string) MetaValue {
	return MetaValue{list: items, isList: true}
}

// IsList reports whether the value is a list of records.
func (m MetaValue) IsList() bool { return m.isList }

// Scalar returns the scalar text. Empty for list values.
func (m MetaValue) Scalar() string { return m.scalar }

// List returns the record list. Nil for scalar values.
func (m MetaValue) List() []map[string]string { return m.list }

// String renders the value for table output: the scalar text, or the number
// of records for a list.
func (m MetaValue) String() string {
	if m.isList {
		return fmt.Sprintf("%d entries", len(m.list))
	}
	return m.scalar
}

// UnmarshalJSON decodes either shape. Non-string scalars (numbers, booleans)
// keep their literal JSON text so downstream comparisons can still parse
// them numerically.
func (m *MetaValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []map[string]string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("meta list entry: %w", err)
		}
		*m = ListMeta(items)
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("meta scalar entry: %w", err)
		}
		*m = ScalarMeta(s)
		return nil
	}
	*m = ScalarMeta(trimmed)
	return nil
}

// MarshalJSON encodes the value back in its original shape.
func (m MetaValue) MarshalJSON() ([]byte, error) {
	if m.isList {
		return json.Marshal(m.list)
	}
	return json.Marshal(m.scalar)
}
