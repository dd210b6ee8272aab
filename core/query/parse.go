// Package query implements the smart query language used by the insight
// tables: whitespace-separated terms, quoted phrases, field:value pairs with
// comparison operators, and AND/OR combinators folded left to right.
package query

import (
	"strconv"
	"strings"

	"github.com/featuremap/featuremap/schema"
)

// Parse turns a human-typed query string into its structured form. Parsing
// never fails; malformed input degrades to bare search terms. An empty or
// blank query yields zero groups.
//
// Grouping is deliberately left-to-right and non-recursive: AND closes the
// current group, OR switches the current group's combinator, and completed
// groups combine with implicit AND. There is no operator precedence and no
// parentheses; saved queries depend on exactly this folding.
func Parse(text string) schema.ParsedQuery {
	var parsed schema.ParsedQuery

	current := schema.QueryGroup{Operator: schema.AndOperator}
	for _, token := range tokenize(text) {
		switch strings.ToUpper(token) {
		case string(schema.AndOperator):
			if len(current.Conditions) > 0 {
				parsed.Groups = append(parsed.Groups, current)
				current = schema.QueryGroup{Operator: schema.AndOperator}
			}
		case string(schema.OrOperator):
			current.Operator = schema.OrOperator
		default:
			current.Conditions = append(current.Conditions, parseCondition(token))
		}
	}
	if len(current.Conditions) > 0 {
		parsed.Groups = append(parsed.Groups, current)
	}

	return parsed
}

// tokenize splits the query on whitespace in a single quote-aware pass.
// Spaces inside matching single or double quotes do not split tokens, and
// the quote characters stay in the token; condition parsing strips them.
// An unterminated quote simply consumes the rest of the input.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// operatorPrefixes is the fixed-priority prefix scan order: two-character
// operators must be checked before their one-character prefixes.
var operatorPrefixes = []schema.ComparisonOperator{
	schema.OpGte,
	schema.OpLte,
	schema.OpNeq,
	schema.OpGt,
	schema.OpLt,
}

// parseCondition turns one token into a condition. A token with a colon is
// a field:value pair; the field is everything before the first colon and
// the value may carry a comparison operator prefix. A token without a colon
// is a bare search term matched against all configured fields.
func parseCondition(token string) schema.FilterCondition {
	field, rest, ok := strings.Cut(token, ":")
	if !ok {
		return schema.FilterCondition{
			Operator: schema.OpEq,
			Value:    stripQuotes(token),
		}
	}

	op := schema.OpEq
	for _, prefix := range operatorPrefixes {
		if strings.HasPrefix(rest, string(prefix)) {
			op = prefix
			rest = rest[len(prefix):]
			break
		}
	}

	return schema.FilterCondition{
		Field:    field,
		Operator: op,
		Value:    coerceValue(stripQuotes(rest)),
	}
}

// stripQuotes removes one layer of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// coerceValue stores the value as a number only when the literal
// round-trips losslessly through numeric parsing; "007" or "1.50" stay
// strings so they compare the way they were typed.
func coerceValue(s string) any {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if strconv.FormatFloat(f, 'f', -1, 64) != s {
		return s
	}
	return f
}
