// Package dialect compiles query registries into SQL text and bindings for
// MySQL, PostgreSQL, SQLite and SQL Server.
//
// A Grammar walks a Registry once per statement and returns the SQL together
// with the bindings it emitted, so placeholder order and binding order cannot
// drift apart. Dialect specific syntax is supplied through the capability
// interfaces below; a dialect embeds baseDialect and overrides what differs.
package dialect

// ----------------------------------------------------------------------------
// Capability interfaces
// ----------------------------------------------------------------------------

// IdentifierQuoter quotes a single identifier segment.
type IdentifierQuoter interface {
	QuoteIdentifier(segment string) string
}

// OperatorSet validates comparison operators and renders basic comparisons.
type OperatorSet interface {
	IsOperator(op string) bool
	ValidateOperator(op string) error
	Operators() []string
	CompileComparison(g *Grammar, column, operator, value string) string
}

// DateTimeSyntax renders date part comparisons.
type DateTimeSyntax interface {
	CompileDatePart(g *Grammar, part DatePart, column, operator, value string) string
	DateFormat() string
}

// JsonSyntax renders JSON path access and the JSON where family.
type JsonSyntax interface {
	WrapJSONSelector(g *Grammar, value string) (string, error)
	CompileJSONContains(g *Grammar, column, value string) (string, error)
	PrepareJSONContainsBinding(value any) (any, error)
	CompileJSONContainsKey(g *Grammar, column string) (string, error)
	CompileJSONLength(g *Grammar, column, operator, value string) (string, error)
	CompileNullCheck(g *Grammar, column any, not bool) (string, error)
	CompileUpdateColumns(g *Grammar, values []Assignment) (string, []any, error)
}

// FulltextSyntax renders full text search predicates.
type FulltextSyntax interface {
	CompileFulltext(g *Grammar, where WhereFulltext) (string, []any, error)
}

// UpsertSyntax renders insert-or-update statements.
type UpsertSyntax interface {
	CompileUpsert(g *Grammar, r *Registry, rows []map[string]any, uniqueBy []string, update []any) (string, []any, error)
}

// InsertSyntax covers the insert variants that differ per engine.
type InsertSyntax interface {
	CompileEmptyInsert(g *Grammar, table string) string
	CompileInsertOrIgnore(g *Grammar, r *Registry, rows []map[string]any) (string, []any, error)
	CompileInsertGetID(g *Grammar, r *Registry, row map[string]any, sequence string) (string, []any, error)
}

// PaginationSyntax renders the select keyword (top, distinct on) and the
// limit/offset tail.
type PaginationSyntax interface {
	PrepareSelect(r *Registry) *Registry
	SelectKeyword(g *Grammar, r *Registry) string
	CompileLimitOffset(g *Grammar, limit, offset *int) string
}

// LockSyntax renders pessimistic locks.
type LockSyntax interface {
	FromLockHint(r *Registry) string
	CompileLock(r *Registry) string
}

// UnionSyntax wraps the members of a union.
type UnionSyntax interface {
	WrapUnion(g *Grammar, sql string) string
	CompileUnion(g *Grammar, sql string, all bool) string
}

// JoinLimitEmulation compiles update and delete statements, including the
// forms that use joins or limits on engines without native support.
type JoinLimitEmulation interface {
	CompileUpdateStatement(g *Grammar, r *Registry, values []Assignment) (string, []any, error)
	CompileDeleteStatement(g *Grammar, r *Registry) (string, []any, error)
}

// TruncateSyntax compiles table truncation into one or more statements.
type TruncateSyntax interface {
	CompileTruncate(g *Grammar, r *Registry) ([]Statement, error)
}

// EscapeSyntax renders literal values for debug output and describes the
// driver placeholder style.
type EscapeSyntax interface {
	EscapeString(s string) string
	EscapeBool(b bool) string
	EscapeBinary(b []byte) string
	RestoreOperators(sql string) string
	PlaceholderStyle() PlaceholderStyle
}

// StatementSyntax holds the small statements that differ per engine.
type StatementSyntax interface {
	CompileExists(g *Grammar, r *Registry) (string, []any, error)
	CompileRandom(seed string) string
	CompileSavepoint(name string) string
	CompileSavepointRollBack(name string) string
}

// Dialect is the full capability set a Grammar compiles with.
type Dialect interface {
	Name() string
	IdentifierQuoter
	OperatorSet
	DateTimeSyntax
	JsonSyntax
	FulltextSyntax
	UpsertSyntax
	InsertSyntax
	PaginationSyntax
	LockSyntax
	UnionSyntax
	JoinLimitEmulation
	TruncateSyntax
	EscapeSyntax
	StatementSyntax
}

// PlaceholderStyle is the bind parameter syntax a driver expects.
type PlaceholderStyle int

const (
	// PlaceholderQuestion keeps "?" (MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar numbers parameters as $1, $2 (pgx).
	PlaceholderDollar
	// PlaceholderAtP numbers parameters as @p1, @p2 (go-mssqldb).
	PlaceholderAtP
)

// Statement is one SQL statement with its own bindings.
type Statement struct {
	SQL      string
	Bindings []any
}
