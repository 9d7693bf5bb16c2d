package schema

import (
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
)

// baseSchema holds the renderings shared by most engines. Everything an
// engine cannot express fails with an UnsupportedError.
type baseSchema struct {
	name  string
	query *dialect.Grammar
}

// Base returns the dialect independent schema grammar. It renders no column
// types and rejects every builder level operation.
func Base() *Grammar {
	return New(baseSchema{name: "base", query: dialect.Base()})
}

func (b baseSchema) Name() string                  { return b.name }
func (b baseSchema) Query() *dialect.Grammar       { return b.query }
func (b baseSchema) SupportsDropForeign() bool     { return true }
func (b baseSchema) FluentCommands() []CommandName { return nil }

func (b baseSchema) Modifiers() []Modifier {
	return []Modifier{modifyNullable, baseModifyDefault}
}

func (b baseSchema) ColumnType(_ *Grammar, c *ColumnDefinition) (string, error) {
	return "", unsupported(b.name, "the "+strings.ToLower(string(c.typ))+" type")
}

func (b baseSchema) CompileCreate(g *Grammar, bp *Blueprint, _ *Command, _ Connection) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	return one(createKeyword(bp) + " " + g.WrapTable(bp) + " (" + strings.Join(columns, ", ") + ")")
}

func (b baseSchema) CompileDrop(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	return one("drop table " + g.WrapTable(bp))
}

func (b baseSchema) CompileDropIfExists(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	return one("drop table if exists " + g.WrapTable(bp))
}

func (b baseSchema) CompileAdd(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	return one("alter table " + g.WrapTable(bp) + " " + strings.Join(prefixArray("add column", columns), ", "))
}

func (b baseSchema) CompileChange(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "changing columns")
}

func (b baseSchema) CompileRename(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " rename to " + g.wrapTableName(bp, cmd.To))
}

func (b baseSchema) CompileRenameColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " rename column " + g.Wrap(cmd.From) + " to " + g.Wrap(cmd.To))
}

func (b baseSchema) CompileDropColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	columns := make([]string, len(cmd.Columns))
	for i, c := range cmd.Columns {
		columns[i] = g.Wrap(c)
	}
	return one("alter table " + g.WrapTable(bp) + " " + strings.Join(prefixArray("drop column", columns), ", "))
}

func (b baseSchema) CompilePrimary(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one("alter table " + g.WrapTable(bp) + " add primary key (" + g.columnize(cmd.Columns) + ")")
}

func (b baseSchema) CompileUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one("alter table " + g.WrapTable(bp) + " add constraint " + g.Wrap(cmd.Index) + " unique (" + g.columnize(cmd.Columns) + ")")
}

func (b baseSchema) CompileIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one("create index " + g.Wrap(cmd.Index) + " on " + g.WrapTable(bp) + " (" + g.columnize(cmd.Columns) + ")")
}

func (b baseSchema) CompileFulltext(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "fulltext index creation")
}

func (b baseSchema) CompileSpatialIndex(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "spatial indexes")
}

func (b baseSchema) CompileForeign(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	sql, err := foreignKey(g, bp, cmd)
	if err != nil {
		return nil, err
	}
	return one(sql)
}

func (b baseSchema) CompileDropPrimary(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "dropping primary keys")
}

func (b baseSchema) CompileDropUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop constraint " + g.Wrap(cmd.Index))
}

func (b baseSchema) CompileDropIndex(g *Grammar, _ *Blueprint, cmd *Command) ([]string, error) {
	return one("drop index " + g.Wrap(cmd.Index))
}

func (b baseSchema) CompileDropFulltext(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "fulltext index removal")
}

func (b baseSchema) CompileDropSpatialIndex(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "spatial index removal")
}

func (b baseSchema) CompileDropForeign(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop constraint " + g.Wrap(cmd.Index))
}

func (b baseSchema) CompileRenameIndex(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "renaming indexes")
}

func (b baseSchema) CompileTableComment(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, unsupported(b.name, "table comments")
}

// Fluent commands render nothing unless the engine lists them.

func (b baseSchema) CompileComment(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, nil
}

func (b baseSchema) CompileDefault(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, nil
}

func (b baseSchema) CompileAutoIncrementStartingValues(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, nil
}

func (b baseSchema) CompileCreateDatabase(*Grammar, string, Connection) (string, error) {
	return "", unsupported(b.name, "creating databases")
}

func (b baseSchema) CompileDropDatabaseIfExists(*Grammar, string) (string, error) {
	return "", unsupported(b.name, "dropping databases")
}

func (b baseSchema) CompileTableExists() (string, error) {
	return "", unsupported(b.name, "checking for table existence")
}

func (b baseSchema) CompileColumnListing(*Grammar, string) (string, error) {
	return "", unsupported(b.name, "listing columns")
}

func (b baseSchema) CompileGetAllTables(Connection) (string, error) {
	return "", unsupported(b.name, "listing tables")
}

func (b baseSchema) CompileDropAllTables(*Grammar, []string) ([]string, error) {
	return nil, unsupported(b.name, "dropping all tables")
}

func (b baseSchema) CompileEnableForeignKeyConstraints() (string, error) {
	return "", unsupported(b.name, "foreign key constraints")
}

func (b baseSchema) CompileDisableForeignKeyConstraints() (string, error) {
	return "", unsupported(b.name, "foreign key constraints")
}

// ----------------------------------------------------------------------------
// Shared renderings
// ----------------------------------------------------------------------------

func createKeyword(bp *Blueprint) string {
	if bp.temporary {
		return "create temporary table"
	}
	return "create table"
}

// foreignKey renders "alter table t add constraint k foreign key (..)
// references r (..)" with the referential actions.
func foreignKey(g *Grammar, bp *Blueprint, cmd *Command) (string, error) {
	if cmd.On == "" || len(cmd.References) == 0 {
		return "", ErrMissingReferences
	}
	sql := "alter table " + g.WrapTable(bp) + " add constraint " + g.Wrap(cmd.Index) + " " +
		"foreign key (" + g.columnize(cmd.Columns) + ") references " + g.wrapTableName(bp, cmd.On) +
		" (" + g.columnize(cmd.References) + ")"
	return sql + referentialActions(cmd), nil
}

func referentialActions(cmd *Command) string {
	var sql string
	if cmd.OnDelete != "" {
		sql += " on delete " + cmd.OnDelete
	}
	if cmd.OnUpdate != "" {
		sql += " on update " + cmd.OnUpdate
	}
	return sql
}

func modifyNullable(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
	if c.virtualAs != "" || c.storedAs != "" {
		if c.nullable != nil && !*c.nullable {
			return " not null"
		}
		return ""
	}
	if c.isNullable() {
		return " null"
	}
	return " not null"
}

func baseModifyDefault(g *Grammar, _ *Blueprint, c *ColumnDefinition) string {
	if value, ok := columnDefault(c, "CURRENT_TIMESTAMP"); ok {
		return " default " + g.DefaultValue(value)
	}
	return ""
}
