// Package schema compiles table blueprints into DDL statements for MySQL,
// PostgreSQL, SQLite and SQL Server.
//
// A Blueprint records columns and commands. Blueprint.ToSQL synthesizes the
// implied commands on a working copy and dispatches every command to the
// Grammar, which renders zero or more statements for it. DDL is never
// parameterized: default values and comments are inlined as literals.
package schema

import (
	"fmt"
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
)

// Modifier renders one column modifier, or "" when it does not apply.
type Modifier func(g *Grammar, bp *Blueprint, c *ColumnDefinition) string

// Dialect is the capability set of a schema grammar. Every command name has
// exactly one compiler; a dialect embeds baseSchema and overrides what
// differs.
type Dialect interface {
	Name() string
	Query() *dialect.Grammar
	SupportsDropForeign() bool
	FluentCommands() []CommandName
	Modifiers() []Modifier
	ColumnType(g *Grammar, c *ColumnDefinition) (string, error)

	CompileCreate(g *Grammar, bp *Blueprint, cmd *Command, conn Connection) ([]string, error)
	CompileDrop(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropIfExists(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileAdd(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileChange(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileRename(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileRenameColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompilePrimary(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileFulltext(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileForeign(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropPrimary(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropFulltext(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDropForeign(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileRenameIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileTableComment(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileComment(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileDefault(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)
	CompileAutoIncrementStartingValues(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error)

	CompileCreateDatabase(g *Grammar, name string, conn Connection) (string, error)
	CompileDropDatabaseIfExists(g *Grammar, name string) (string, error)
	CompileTableExists() (string, error)
	CompileColumnListing(g *Grammar, table string) (string, error)
	CompileGetAllTables(conn Connection) (string, error)
	CompileDropAllTables(g *Grammar, tables []string) ([]string, error)
	CompileEnableForeignKeyConstraints() (string, error)
	CompileDisableForeignKeyConstraints() (string, error)
}

// Grammar compiles blueprints for one dialect. It is immutable and safe for
// concurrent use.
type Grammar struct {
	d Dialect
	q *dialect.Grammar
}

// New returns a Grammar compiling with d.
func New(d Dialect) *Grammar {
	return &Grammar{d: d, q: d.Query()}
}

// Name returns the dialect name.
func (g *Grammar) Name() string { return g.d.Name() }

// SupportsDropForeign reports whether foreign keys can be dropped in place.
func (g *Grammar) SupportsDropForeign() bool { return g.d.SupportsDropForeign() }

// FluentCommands lists the per-column commands added to every blueprint.
func (g *Grammar) FluentCommands() []CommandName { return g.d.FluentCommands() }

func (g *Grammar) CompileCreate(bp *Blueprint, cmd *Command, conn Connection) ([]string, error) {
	return g.d.CompileCreate(g, bp, cmd, conn)
}
func (g *Grammar) CompileDrop(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDrop(g, bp, cmd)
}
func (g *Grammar) CompileDropIfExists(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropIfExists(g, bp, cmd)
}
func (g *Grammar) CompileAdd(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileAdd(g, bp, cmd)
}
func (g *Grammar) CompileChange(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileChange(g, bp, cmd)
}
func (g *Grammar) CompileRename(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileRename(g, bp, cmd)
}
func (g *Grammar) CompileRenameColumn(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileRenameColumn(g, bp, cmd)
}
func (g *Grammar) CompileDropColumn(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropColumn(g, bp, cmd)
}
func (g *Grammar) CompilePrimary(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompilePrimary(g, bp, cmd)
}
func (g *Grammar) CompileUnique(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileUnique(g, bp, cmd)
}
func (g *Grammar) CompileIndex(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileIndex(g, bp, cmd)
}
func (g *Grammar) CompileFulltext(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileFulltext(g, bp, cmd)
}
func (g *Grammar) CompileSpatialIndex(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileSpatialIndex(g, bp, cmd)
}
func (g *Grammar) CompileForeign(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileForeign(g, bp, cmd)
}
func (g *Grammar) CompileDropPrimary(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropPrimary(g, bp, cmd)
}
func (g *Grammar) CompileDropUnique(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropUnique(g, bp, cmd)
}
func (g *Grammar) CompileDropIndex(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropIndex(g, bp, cmd)
}
func (g *Grammar) CompileDropFulltext(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropFulltext(g, bp, cmd)
}
func (g *Grammar) CompileDropSpatialIndex(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropSpatialIndex(g, bp, cmd)
}
func (g *Grammar) CompileDropForeign(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDropForeign(g, bp, cmd)
}
func (g *Grammar) CompileRenameIndex(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileRenameIndex(g, bp, cmd)
}
func (g *Grammar) CompileTableComment(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileTableComment(g, bp, cmd)
}
func (g *Grammar) CompileComment(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileComment(g, bp, cmd)
}
func (g *Grammar) CompileDefault(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileDefault(g, bp, cmd)
}
func (g *Grammar) CompileAutoIncrementStartingValues(bp *Blueprint, cmd *Command) ([]string, error) {
	return g.d.CompileAutoIncrementStartingValues(g, bp, cmd)
}

// CompileCreateDatabase creates a database using the connection charset and
// collation where the engine has them.
func (g *Grammar) CompileCreateDatabase(name string, conn Connection) (string, error) {
	return g.d.CompileCreateDatabase(g, name, conn)
}

func (g *Grammar) CompileDropDatabaseIfExists(name string) (string, error) {
	return g.d.CompileDropDatabaseIfExists(g, name)
}

// CompileTableExists returns a query whose bindings are documented per
// dialect: MySQL binds database and table, PostgreSQL database, schema and
// table, SQLite and SQL Server the table.
func (g *Grammar) CompileTableExists() (string, error) { return g.d.CompileTableExists() }

// CompileColumnListing returns a query listing the columns of table. The
// table name includes the prefix.
func (g *Grammar) CompileColumnListing(table string) (string, error) {
	return g.d.CompileColumnListing(g, table)
}

func (g *Grammar) CompileGetAllTables(conn Connection) (string, error) {
	return g.d.CompileGetAllTables(conn)
}

// CompileDropAllTables drops every listed table. Engines without a multi
// table drop return several statements.
func (g *Grammar) CompileDropAllTables(tables []string) ([]string, error) {
	return g.d.CompileDropAllTables(g, tables)
}

func (g *Grammar) CompileEnableForeignKeyConstraints() (string, error) {
	return g.d.CompileEnableForeignKeyConstraints()
}

func (g *Grammar) CompileDisableForeignKeyConstraints() (string, error) {
	return g.d.CompileDisableForeignKeyConstraints()
}

// ----------------------------------------------------------------------------
// Helpers shared by the dialects
// ----------------------------------------------------------------------------

// Wrap quotes a column or dotted identifier.
func (g *Grammar) Wrap(value string) string {
	return g.q.WrapIdentifier(value)
}

// WrapTable quotes the prefixed table name of bp.
func (g *Grammar) WrapTable(bp *Blueprint) string {
	return g.q.WrapIdentifier(bp.prefix + bp.table)
}

// wrapTableName quotes another table under the blueprint's prefix.
func (g *Grammar) wrapTableName(bp *Blueprint, table string) string {
	return g.q.WrapIdentifier(bp.prefix + table)
}

func (g *Grammar) columnize(columns []string) string {
	wrapped := make([]string, len(columns))
	for i, c := range columns {
		wrapped[i] = g.Wrap(c)
	}
	return strings.Join(wrapped, ", ")
}

// columns renders the definitions of the added columns.
func (g *Grammar) columns(bp *Blueprint) ([]string, error) {
	added := bp.AddedColumns()
	out := make([]string, 0, len(added))
	for _, c := range added {
		def, err := g.columnDefinition(bp, c)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func (g *Grammar) columnDefinition(bp *Blueprint, c *ColumnDefinition) (string, error) {
	typ, err := g.d.ColumnType(g, c)
	if err != nil {
		return "", err
	}
	return g.addModifiers(g.Wrap(c.name)+" "+typ, bp, c), nil
}

func (g *Grammar) addModifiers(sql string, bp *Blueprint, c *ColumnDefinition) string {
	for _, m := range g.d.Modifiers() {
		sql += m(g, bp, c)
	}
	return sql
}

// DefaultValue renders a column default. Expressions are verbatim, booleans
// become '1' or '0', everything else is a quoted string.
func (g *Grammar) DefaultValue(value any) string {
	switch v := value.(type) {
	case dialect.Expression:
		return v.String()
	case bool:
		if v {
			return "'1'"
		}
		return "'0'"
	default:
		return quoteString(fmt.Sprint(v))
	}
}

// columnDefault returns the effective default of c. Timestamp columns with
// UseCurrent default to current.
func columnDefault(c *ColumnDefinition, current string) (any, bool) {
	if c.useCurrent && isTimestampType(c.typ) {
		return dialect.Raw(current), true
	}
	return c.defaultValue, c.hasDefault && c.defaultValue != nil
}

func isTimestampType(t ColumnType) bool {
	switch t {
	case TypeDateTime, TypeDateTimeTz, TypeTimestamp, TypeTimestampTz:
		return true
	}
	return false
}

func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func quoteStrings(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteString(v)
	}
	return strings.Join(quoted, ", ")
}

func prefixArray(prefix string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = prefix + " " + v
	}
	return out
}

func one(sql string) ([]string, error) {
	return []string{sql}, nil
}

func requireColumns(cmd *Command) error {
	if len(cmd.Columns) == 0 {
		return ErrNoColumns
	}
	return nil
}
