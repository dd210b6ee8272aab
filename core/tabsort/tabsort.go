// Package tabsort sorts insight rows with the tri-state column model used
// by the tables: first request sorts ascending, the second flips to
// descending, the third clears back to the original order.
package tabsort

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/featuremap/featuremap/core/query"
	"github.com/featuremap/featuremap/schema"
)

// Sorter holds a stable snapshot of the rows plus the active sort state.
// The snapshot never mutates, so clearing the sort restores the exact
// original order.
type Sorter struct {
	original []map[string]any
	current  schema.SortConfig
	fallback schema.SortConfig
}

// New builds a sorter over rows with an optional default sort that applies
// whenever no column sort is active. Pass a zero SortConfig for plain
// input order.
func New(rows []map[string]any, defaultSort schema.SortConfig) *Sorter {
	original := make([]map[string]any, len(rows))
	copy(original, rows)
	return &Sorter{original: original, fallback: defaultSort}
}

// RequestSort advances the tri-state cycle for a field. Requesting a
// different field starts a fresh ascending sort on it.
func (s *Sorter) RequestSort(field string) {
	if s.current.Field != field {
		s.current = schema.SortConfig{Field: field, Direction: schema.SortAscending}
		return
	}
	switch s.current.Direction {
	case schema.SortAscending:
		s.current.Direction = schema.SortDescending
	case schema.SortDescending:
		s.current = schema.SortConfig{}
	default:
		s.current.Direction = schema.SortAscending
	}
}

// Clear drops any active column sort.
func (s *Sorter) Clear() {
	s.current = schema.SortConfig{}
}

// Config returns the active sort, falling back to the default sort when no
// column is selected.
func (s *Sorter) Config() schema.SortConfig {
	if s.current.Field != "" {
		return s.current
	}
	return s.fallback
}

// Sorted returns the rows under the active sort. With no active or default
// sort the original order comes back. The sort is stable, so equal keys
// keep their original relative order.
func (s *Sorter) Sorted() []map[string]any {
	cfg := s.Config()
	rows := make([]map[string]any, len(s.original))
	copy(rows, s.original)
	if cfg.Field == "" || cfg.Direction == schema.SortNone {
		return rows
	}

	sign := 1
	if cfg.Direction == schema.SortDescending {
		sign = -1
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := query.LookupPath(rows[i], cfg.Field)
		b, bok := query.LookupPath(rows[j], cfg.Field)
		if !aok {
			a = nil
		}
		if !bok {
			b = nil
		}
		return sign*compare(a, b) < 0
	})
	return rows
}

// dateLayouts are the only string forms treated as dates. Bare numbers
// must never parse as dates, so the layouts all carry separators.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// compare orders two cell values: missing values sort after everything,
// then dates, then numbers, then case-insensitive strings. Mixed kinds
// fall back to string comparison of both sides.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if at, aok := toTime(a); aok {
		if bt, bok := toTime(b); bok {
			return at.Compare(bt)
		}
	}

	if an, aok := toFloat(a); aok {
		if bn, bok := toFloat(b); bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}

	return strings.Compare(
		strings.ToLower(stringify(a)),
		strings.ToLower(stringify(b)),
	)
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
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
	}
	return 0, false
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
