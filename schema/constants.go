package schema

// Custom string types for type safety.
type (
	// DependencyType is the tree relation of a dependency target relative
	// to the owning feature.
	DependencyType string

	// AlertKind is a coupling alert label attached to a dependency group.
	AlertKind string

	// ComparisonOperator is the operator of a single filter condition.
	ComparisonOperator string

	// GroupOperator combines the conditions inside one query group.
	GroupOperator string

	// SortDirection is the direction of a table sort.
	SortDirection string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the stores.
	DatabaseBackend string
)

// UnknownOwner is the sentinel for an unset owner. A feature whose owner is
// empty or equal to this sentinel inherits its owner from the nearest
// ancestor that has one.
const UnknownOwner = "Unknown"

// All dependency relation types.
const (
	ParentDependency  DependencyType = "parent"
	ChildDependency   DependencyType = "child"
	SiblingDependency DependencyType = "sibling"
)

// All coupling alert kinds. The strings double as the human-readable labels
// the dashboard renders, so they must stay exactly as-is.
const (
	CircularAlert AlertKind = "Circular Dependency"
	TightAlert    AlertKind = "Tight Dependency"
)

// Tight-coupling policy constants. A group is tight when all its references
// hit a single file and exceed TightSingleFileRefs, or when they spread over
// at least TightSpreadFiles files and exceed TightSpreadRefs.
const (
	TightSingleFileRefs = 5
	TightSpreadFiles    = 3
	TightSpreadRefs     = 3
)

// All comparison operators, longest prefixes first for the condition scanner.
const (
	OpGte ComparisonOperator = ">="
	OpLte ComparisonOperator = "<="
	OpNeq ComparisonOperator = "!="
	OpGt  ComparisonOperator = ">"
	OpLt  ComparisonOperator = "<"
	OpEq  ComparisonOperator = "="
)

// All group operators.
const (
	AndOperator GroupOperator = "AND"
	OrOperator  GroupOperator = "OR"
)

// All sort directions. SortNone means input order.
const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
	SortNone       SortDirection = ""
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDependencyTypes lists all valid dependency relation types.
var ValidDependencyTypes = map[DependencyType]struct{}{
	ParentDependency:  {},
	ChildDependency:   {},
	SiblingDependency: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
