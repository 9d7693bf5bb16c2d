package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
)

type sqlserverSchema struct {
	baseSchema
}

// SQLServer returns the SQL Server schema grammar.
func SQLServer() *Grammar {
	return New(sqlserverSchema{baseSchema{name: "sqlsrv", query: dialect.SQLServer()}})
}

func (s sqlserverSchema) FluentCommands() []CommandName {
	return []CommandName{CommandDefault}
}

func (s sqlserverSchema) Modifiers() []Modifier {
	return []Modifier{
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.collation != "" {
				return " collate " + c.collation
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.typ == TypeComputed {
				return ""
			}
			if c.isNullable() {
				return " null"
			}
			return " not null"
		},
		func(g *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.change {
				return ""
			}
			return baseModifyDefault(g, nil, c)
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.change {
				if c.typ != TypeComputed {
					return ""
				}
				if c.persisted {
					return " add persisted"
				}
				return " drop persisted"
			}
			if c.persisted {
				return " persisted"
			}
			return ""
		},
		func(_ *Grammar, bp *Blueprint, c *ColumnDefinition) string {
			if c.change || !serialTypes[c.typ] || !c.autoIncrement {
				return ""
			}
			if bp.hasCommand(CommandPrimary) {
				return " identity"
			}
			return " identity primary key"
		},
	}
}

func sqlserverPrecision(base string, c *ColumnDefinition) string {
	if c.precision != nil && *c.precision > 0 {
		return base + "(" + strconv.Itoa(*c.precision) + ")"
	}
	return base
}

func (s sqlserverSchema) ColumnType(g *Grammar, c *ColumnDefinition) (string, error) {
	switch c.typ {
	case TypeChar:
		return "nchar(" + strconv.Itoa(c.length) + ")", nil
	case TypeString:
		return "nvarchar(" + strconv.Itoa(c.length) + ")", nil
	case TypeTinyText:
		return "nvarchar(255)", nil
	case TypeText, TypeMediumText, TypeLongText, TypeJSON, TypeJSONB:
		return "nvarchar(max)", nil
	case TypeInteger, TypeMediumInteger, TypeYear:
		return "int", nil
	case TypeBigInteger:
		return "bigint", nil
	case TypeSmallInteger:
		return "smallint", nil
	case TypeTinyInteger:
		return "tinyint", nil
	case TypeFloat, TypeDouble:
		return "float", nil
	case TypeDecimal, TypeUnsignedDecimal:
		return fmt.Sprintf("decimal(%d, %d)", c.total, c.places), nil
	case TypeBoolean:
		return "bit", nil
	case TypeEnum:
		return "nvarchar(255) check (" + g.Wrap(c.name) + " in (" + quoteStrings(c.allowed) + "))", nil
	case TypeDate:
		return "date", nil
	case TypeDateTime, TypeTimestamp:
		if c.precision != nil && *c.precision > 0 {
			return sqlserverPrecision("datetime2", c), nil
		}
		return "datetime", nil
	case TypeDateTimeTz, TypeTimestampTz:
		return sqlserverPrecision("datetimeoffset", c), nil
	case TypeTime, TypeTimeTz:
		return sqlserverPrecision("time", c), nil
	case TypeBinary:
		return "varbinary(max)", nil
	case TypeUUID:
		return "uniqueidentifier", nil
	case TypeULID:
		return "nchar(26)", nil
	case TypeIPAddress:
		return "nvarchar(45)", nil
	case TypeMACAddress:
		return "nvarchar(17)", nil
	case TypeGeometry, TypePoint, TypeLineString, TypePolygon, TypeGeometryCollection,
		TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon, TypeMultiPolygonZ:
		return "geography", nil
	case TypeComputed:
		return "as (" + c.expression + ")", nil
	}
	return s.baseSchema.ColumnType(g, c)
}

// sqlserverTable quotes the table of bp. Temporary tables live under a
// "#" name instead of the prefix.
func sqlserverTable(g *Grammar, bp *Blueprint) string {
	if bp.temporary {
		return g.Wrap("#" + bp.table)
	}
	return g.WrapTable(bp)
}

func (s sqlserverSchema) CompileCreate(g *Grammar, bp *Blueprint, _ *Command, _ Connection) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	return one("create table " + sqlserverTable(g, bp) + " (" + strings.Join(columns, ", ") + ")")
}

func (s sqlserverSchema) CompileDropIfExists(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	return one("if exists (select * from sys.sysobjects where id = object_id(" +
		quoteString(bp.prefix+bp.table) + ", 'U')) drop table " + g.WrapTable(bp))
}

func (s sqlserverSchema) CompileAdd(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	return one("alter table " + g.WrapTable(bp) + " add " + strings.Join(columns, ", "))
}

// CompileChange drops the default constraints of the changed columns, then
// alters each column. Defaults come back through the fluent default command.
func (s sqlserverSchema) CompileChange(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	changed := bp.ChangedColumns()
	names := make([]string, len(changed))
	for i, c := range changed {
		names[i] = c.name
	}
	statements := []string{dropDefaultConstraint(g, bp, names)}
	for _, c := range changed {
		typ, err := s.ColumnType(g, c)
		if err != nil {
			return nil, err
		}
		statements = append(statements, g.addModifiers(
			"alter table "+g.WrapTable(bp)+" alter column "+g.Wrap(c.name)+" "+typ, bp, c))
	}
	return statements, nil
}

// dropDefaultConstraint builds a batch that drops the default constraints of
// columns, whose names SQL Server generates. An unqualified table resolves
// against the default schema of the connection.
func dropDefaultConstraint(g *Grammar, bp *Blueprint, columns []string) string {
	table := strings.ReplaceAll(g.WrapTable(bp), "'", "''")
	sql := "DECLARE @sql NVARCHAR(MAX) = '';"
	sql += "SELECT @sql += 'ALTER TABLE " + table + " DROP CONSTRAINT ' + OBJECT_NAME([default_object_id]) + ';' "
	sql += "FROM sys.columns "
	sql += "WHERE [object_id] = OBJECT_ID('" + table + "') AND [name] in (" + quoteStrings(columns) + ") AND [default_object_id] <> 0;"
	sql += "EXEC(@sql)"
	return sql
}

func (s sqlserverSchema) CompileRename(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("sp_rename N" + quoteString(g.WrapTable(bp)) + ", " + g.wrapTableName(bp, cmd.To))
}

func (s sqlserverSchema) CompileRenameColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("sp_rename N" + quoteString(g.WrapTable(bp)+"."+g.Wrap(cmd.From)) + ", " + g.Wrap(cmd.To) + ", N'COLUMN'")
}

func (s sqlserverSchema) CompileDropColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one(dropDefaultConstraint(g, bp, cmd.Columns) + ";alter table " + g.WrapTable(bp) + " drop column " + g.columnize(cmd.Columns))
}

func (s sqlserverSchema) CompilePrimary(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one("alter table " + g.WrapTable(bp) + " add constraint " + g.Wrap(cmd.Index) + " primary key (" + g.columnize(cmd.Columns) + ")")
}

func (s sqlserverSchema) CompileUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return s.createIndex(g, bp, cmd, "create unique index ")
}

func (s sqlserverSchema) CompileIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return s.createIndex(g, bp, cmd, "create index ")
}

func (s sqlserverSchema) CompileSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return s.createIndex(g, bp, cmd, "create spatial index ")
}

func (s sqlserverSchema) createIndex(g *Grammar, bp *Blueprint, cmd *Command, keyword string) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one(keyword + g.Wrap(cmd.Index) + " on " + g.WrapTable(bp) + " (" + g.columnize(cmd.Columns) + ")")
}

func (s sqlserverSchema) CompileDropPrimary(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop constraint " + g.Wrap(cmd.Index))
}

func (s sqlserverSchema) CompileDropUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return s.CompileDropIndex(g, bp, cmd)
}

func (s sqlserverSchema) CompileDropIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("drop index " + g.Wrap(cmd.Index) + " on " + g.WrapTable(bp))
}

func (s sqlserverSchema) CompileDropSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return s.CompileDropIndex(g, bp, cmd)
}

func (s sqlserverSchema) CompileRenameIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("sp_rename N" + quoteString(g.WrapTable(bp)+"."+g.Wrap(cmd.From)) + ", " + g.Wrap(cmd.To) + ", N'INDEX'")
}

// CompileDefault restores the default of a changed column after
// CompileChange dropped its constraint.
func (s sqlserverSchema) CompileDefault(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	c := cmd.Column
	if c == nil || !c.change || !c.hasDefault || c.defaultValue == nil {
		return nil, nil
	}
	return one("alter table " + g.WrapTable(bp) + " add default " + g.DefaultValue(c.defaultValue) + " for " + g.Wrap(c.name))
}

func (s sqlserverSchema) CompileCreateDatabase(g *Grammar, name string, _ Connection) (string, error) {
	return "create database " + g.Wrap(name), nil
}

func (s sqlserverSchema) CompileDropDatabaseIfExists(g *Grammar, name string) (string, error) {
	return "drop database if exists " + g.Wrap(name), nil
}

func (s sqlserverSchema) CompileTableExists() (string, error) {
	return "select * from sys.sysobjects where id = object_id(?) and xtype in ('U', 'V')", nil
}

func (s sqlserverSchema) CompileColumnListing(_ *Grammar, table string) (string, error) {
	return "select name from sys.columns where object_id = object_id(" + quoteString(table) + ")", nil
}

func (s sqlserverSchema) CompileGetAllTables(Connection) (string, error) {
	return "select name, type from sys.tables where type = 'U'", nil
}

func (s sqlserverSchema) CompileDropAllTables(*Grammar, []string) ([]string, error) {
	return one("EXEC sp_msforeachtable 'DROP TABLE ?'")
}

func (s sqlserverSchema) CompileEnableForeignKeyConstraints() (string, error) {
	return `EXEC sp_msforeachtable @command1="print '?'", @command2="ALTER TABLE ? WITH CHECK CHECK CONSTRAINT all";`, nil
}

func (s sqlserverSchema) CompileDisableForeignKeyConstraints() (string, error) {
	return `EXEC sp_msforeachtable "ALTER TABLE ? NOCHECK CONSTRAINT all";`, nil
}
