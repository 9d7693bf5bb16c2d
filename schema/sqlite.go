package schema

import (
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
)

type sqliteSchema struct {
	baseSchema
}

// SQLite returns the SQLite schema grammar. Primary and foreign keys are
// folded into create table; foreign keys cannot be dropped.
func SQLite() *Grammar {
	return New(sqliteSchema{baseSchema{name: "sqlite", query: dialect.SQLite()}})
}

func (s sqliteSchema) SupportsDropForeign() bool { return false }

func (s sqliteSchema) Modifiers() []Modifier {
	return []Modifier{
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.virtualAs != "" {
				return " as (" + c.virtualAs + ")"
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.storedAs != "" {
				return " as (" + c.storedAs + ") stored"
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.virtualAs == "" && c.storedAs == "" {
				if c.isNullable() {
					return ""
				}
				return " not null"
			}
			if c.nullable != nil && !*c.nullable {
				return " not null"
			}
			return ""
		},
		func(g *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.virtualAs != "" || c.storedAs != "" {
				return ""
			}
			return baseModifyDefault(g, nil, c)
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if serialTypes[c.typ] && c.autoIncrement {
				return " primary key autoincrement"
			}
			return ""
		},
	}
}

func (s sqliteSchema) ColumnType(g *Grammar, c *ColumnDefinition) (string, error) {
	switch c.typ {
	case TypeChar, TypeString, TypeUUID, TypeULID, TypeIPAddress, TypeMACAddress:
		return "varchar", nil
	case TypeTinyText, TypeText, TypeMediumText, TypeLongText, TypeJSON, TypeJSONB:
		return "text", nil
	case TypeInteger, TypeTinyInteger, TypeSmallInteger, TypeMediumInteger, TypeBigInteger, TypeYear:
		return "integer", nil
	case TypeFloat, TypeDouble:
		return "float", nil
	case TypeDecimal, TypeUnsignedDecimal:
		return "numeric", nil
	case TypeBoolean:
		return "tinyint(1)", nil
	case TypeEnum:
		return "varchar check (" + g.Wrap(c.name) + " in (" + quoteStrings(c.allowed) + "))", nil
	case TypeDate:
		return "date", nil
	case TypeDateTime, TypeDateTimeTz, TypeTimestamp, TypeTimestampTz:
		return "datetime", nil
	case TypeTime, TypeTimeTz:
		return "time", nil
	case TypeBinary:
		return "blob", nil
	case TypeGeometry, TypePoint, TypeLineString, TypePolygon, TypeGeometryCollection,
		TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon, TypeMultiPolygonZ:
		return strings.ToLower(string(c.typ)), nil
	}
	return s.baseSchema.ColumnType(g, c)
}

// CompileCreate renders the columns followed by the foreign and primary
// keys declared on the blueprint.
func (s sqliteSchema) CompileCreate(g *Grammar, bp *Blueprint, _ *Command, _ Connection) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	sql := createKeyword(bp) + " " + g.WrapTable(bp) + " (" + strings.Join(columns, ", ")
	for _, foreign := range bp.commandsNamed(CommandForeign) {
		if foreign.On == "" || len(foreign.References) == 0 {
			return nil, ErrMissingReferences
		}
		sql += ", foreign key(" + g.columnize(foreign.Columns) + ") references " +
			g.wrapTableName(bp, foreign.On) + "(" + g.columnize(foreign.References) + ")" +
			referentialActions(foreign)
	}
	if primary := bp.commandNamed(CommandPrimary); primary != nil {
		sql += ", primary key (" + g.columnize(primary.Columns) + ")"
	}
	return one(sql + ")")
}

// CompileAdd adds one column per statement. Stored generated columns cannot
// be added to an existing table and are skipped.
func (s sqliteSchema) CompileAdd(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	var statements []string
	for _, c := range bp.AddedColumns() {
		if c.storedAs != "" {
			continue
		}
		def, err := g.columnDefinition(bp, c)
		if err != nil {
			return nil, err
		}
		statements = append(statements, "alter table "+g.WrapTable(bp)+" add column "+def)
	}
	return statements, nil
}

func (s sqliteSchema) CompileDropColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	statements := make([]string, len(cmd.Columns))
	for i, c := range cmd.Columns {
		statements[i] = "alter table " + g.WrapTable(bp) + " drop column " + g.Wrap(c)
	}
	return statements, nil
}

func (s sqliteSchema) CompilePrimary(_ *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	if bp.creating() {
		return nil, nil
	}
	return nil, unsupported(s.name, "adding primary keys to existing tables")
}

func (s sqliteSchema) CompileForeign(_ *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	if bp.creating() {
		return nil, nil
	}
	return nil, unsupported(s.name, "adding foreign keys to existing tables")
}

func (s sqliteSchema) CompileUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	return one("create unique index " + g.Wrap(cmd.Index) + " on " + g.WrapTable(bp) + " (" + g.columnize(cmd.Columns) + ")")
}

func (s sqliteSchema) CompileDropUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return s.CompileDropIndex(g, bp, cmd)
}

func (s sqliteSchema) CompileDropForeign(*Grammar, *Blueprint, *Command) ([]string, error) {
	return nil, ErrDropForeignUnsupported
}

func (s sqliteSchema) CompileTableExists() (string, error) {
	return "select * from sqlite_master where type = 'table' and name = ?", nil
}

func (s sqliteSchema) CompileColumnListing(g *Grammar, table string) (string, error) {
	return "pragma table_info(" + g.Wrap(strings.ReplaceAll(table, ".", "__")) + ")", nil
}

func (s sqliteSchema) CompileGetAllTables(Connection) (string, error) {
	return "select type, name from sqlite_master where type = 'table' and name not like 'sqlite_%'", nil
}

// CompileDropAllTables clears sqlite_master with the schema made writable,
// then rebuilds the file.
func (s sqliteSchema) CompileDropAllTables(*Grammar, []string) ([]string, error) {
	return []string{
		"PRAGMA writable_schema = 1;",
		"delete from sqlite_master where type in ('table', 'index', 'trigger')",
		"PRAGMA writable_schema = 0;",
		"vacuum",
	}, nil
}

func (s sqliteSchema) CompileEnableForeignKeyConstraints() (string, error) {
	return "PRAGMA foreign_keys = ON;", nil
}

func (s sqliteSchema) CompileDisableForeignKeyConstraints() (string, error) {
	return "PRAGMA foreign_keys = OFF;", nil
}
