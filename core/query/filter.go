package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/featuremap/featuremap/schema"
)

// DefaultFields are the fields a bare search term checks when the caller
// does not configure its own set.
var DefaultFields = []string{"name", "path", "owner", "description"}

// Filter returns the rows matching the parsed query. Groups combine with
// AND; inside a group the conditions combine with the group's operator. An
// empty query matches everything, and the result preserves input order.
func Filter(rows []map[string]any, parsed schema.ParsedQuery, searchFields []string) []map[string]any {
	if parsed.IsEmpty() {
		return rows
	}

	matched := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if matchesQuery(row, parsed, searchFields) {
			matched = append(matched, row)
		}
	}
	return matched
}

func matchesQuery(row map[string]any, parsed schema.ParsedQuery, searchFields []string) bool {
	for _, group := range parsed.Groups {
		if !matchesGroup(row, group, searchFields) {
			return false
		}
	}
	return true
}

func matchesGroup(row map[string]any, group schema.QueryGroup, searchFields []string) bool {
	if group.Operator == schema.OrOperator {
		for _, cond := range group.Conditions {
			if matchesCondition(row, cond, searchFields) {
				return true
			}
		}
		return false
	}
	for _, cond := range group.Conditions {
		if !matchesCondition(row, cond, searchFields) {
			return false
		}
	}
	return true
}

// matchesCondition evaluates one condition. A condition without a field is
// a bare term: it matches when any search field contains the term,
// case-insensitively. A missing field value fails every operator except
// "!=", which treats absence as inequality.
func matchesCondition(row map[string]any, cond schema.FilterCondition, searchFields []string) bool {
	if cond.Field == "" {
		// With no configured search fields, a bare term checks every
		// top-level key of the row.
		if len(searchFields) == 0 {
			for field := range row {
				searchFields = append(searchFields, field)
			}
		}
		term := strings.ToLower(stringify(cond.Value))
		for _, field := range searchFields {
			value, ok := LookupPath(row, field)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(value)), term) {
				return true
			}
		}
		return false
	}

	value, ok := LookupPath(row, cond.Field)
	if !ok {
		return cond.Operator == schema.OpNeq
	}
	return compareValues(value, cond.Operator, cond.Value)
}

// LookupPath resolves a dot-separated path against nested maps. Any
// non-map intermediate stops the walk.
func LookupPath(row map[string]any, path string) (any, bool) {
	var value any = row
	for _, part := range strings.Split(path, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// compareValues applies the operator. When both sides are numeric the
// comparison is numeric; otherwise both sides lower-case to strings, where
// "=" means substring containment, "!=" its negation, and the ordering
// operators compare lexicographically.
func compareValues(actual any, op schema.ComparisonOperator, expected any) bool {
	an, aok := toFloat(actual)
	en, eok := toFloat(expected)
	if aok && eok {
		switch op {
		case schema.OpGt:
			return an > en
		case schema.OpGte:
			return an >= en
		case schema.OpLt:
			return an < en
		case schema.OpLte:
			return an <= en
		case schema.OpNeq:
			return an != en
		default:
			return an == en
		}
	}

	as := strings.ToLower(stringify(actual))
	es := strings.ToLower(stringify(expected))
	switch op {
	case schema.OpGt:
		return as > es
	case schema.OpGte:
		return as >= es
	case schema.OpLt:
		return as < es
	case schema.OpLte:
		return as <= es
	case schema.OpNeq:
		return !strings.Contains(as, es)
	default:
		return strings.Contains(as, es)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
