package schema

// FilterCondition is one predicate of a smart query. Field is a dot-path
// into the record; an empty Field means the condition searches all
// configured fields. Value is a string, or a float64 when the literal
// round-trips losslessly through numeric parsing.
type FilterCondition struct {
	Field    string             `json:"field,omitempty"`
	Operator ComparisonOperator `json:"operator"`
	Value    any                `json:"value"`
}

// QueryGroup is a run of conditions combined by a single operator. AND
// groups require every condition to match; OR groups require at least one.
type QueryGroup struct {
	Conditions []FilterCondition `json:"conditions"`
	Operator   GroupOperator     `json:"operator"`
}

// ParsedQuery is the structured form of a smart query string: an ordered
// list of groups with implicit AND between them. An empty query has zero
// groups and matches everything.
type ParsedQuery struct {
	Groups []QueryGroup `json:"groups"`
}

// IsEmpty reports whether the query has no groups.
func (q ParsedQuery) IsEmpty() bool { return len(q.Groups) == 0 }

// SortConfig is the active sort of a table view.
type SortConfig struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}
