package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
)

type mysqlSchema struct {
	baseSchema
}

// MySQL returns the MySQL schema grammar.
func MySQL() *Grammar {
	return New(mysqlSchema{baseSchema{name: "mysql", query: dialect.MySQL()}})
}

var mysqlComment = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func (m mysqlSchema) FluentCommands() []CommandName {
	return []CommandName{CommandAutoIncrementStartingValues}
}

func (m mysqlSchema) Modifiers() []Modifier {
	return []Modifier{
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.unsigned {
				return " unsigned"
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.charset != "" {
				return " character set " + c.charset
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.collation != "" {
				return " collate " + quoteString(c.collation)
			}
			return ""
		},
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
		modifyNullable,
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.invisible {
				return " invisible"
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.srid != nil && *c.srid > 0 {
				return " srid " + strconv.Itoa(*c.srid)
			}
			return ""
		},
		func(g *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if value, ok := columnDefault(c, mysqlCurrentTimestamp(c)); ok {
				return " default " + g.DefaultValue(value)
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.useCurrentOn && isTimestampType(c.typ) {
				return " on update " + mysqlCurrentTimestamp(c)
			}
			if c.onUpdate != nil {
				return " on update " + dialect.Raw(c.onUpdate).String()
			}
			return ""
		},
		func(_ *Grammar, bp *Blueprint, c *ColumnDefinition) string {
			if !serialTypes[c.typ] || !c.autoIncrement {
				return ""
			}
			if c.change || bp.hasCommand(CommandPrimary) {
				return " auto_increment"
			}
			return " auto_increment primary key"
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.comment != nil {
				return " comment '" + mysqlComment.Replace(*c.comment) + "'"
			}
			return ""
		},
		func(g *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.after != "" {
				return " after " + g.Wrap(c.after)
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.first {
				return " first"
			}
			return ""
		},
	}
}

func mysqlCurrentTimestamp(c *ColumnDefinition) string {
	if c.precision != nil && *c.precision > 0 {
		return "CURRENT_TIMESTAMP(" + strconv.Itoa(*c.precision) + ")"
	}
	return "CURRENT_TIMESTAMP"
}

func withPrecision(base string, c *ColumnDefinition) string {
	if c.precision != nil && *c.precision > 0 {
		return base + "(" + strconv.Itoa(*c.precision) + ")"
	}
	return base
}

func (m mysqlSchema) ColumnType(_ *Grammar, c *ColumnDefinition) (string, error) {
	switch c.typ {
	case TypeChar:
		return "char(" + strconv.Itoa(c.length) + ")", nil
	case TypeString:
		return "varchar(" + strconv.Itoa(c.length) + ")", nil
	case TypeTinyText:
		return "tinytext", nil
	case TypeText:
		return "text", nil
	case TypeMediumText:
		return "mediumtext", nil
	case TypeLongText:
		return "longtext", nil
	case TypeInteger:
		return "int", nil
	case TypeTinyInteger:
		return "tinyint", nil
	case TypeSmallInteger:
		return "smallint", nil
	case TypeMediumInteger:
		return "mediumint", nil
	case TypeBigInteger:
		return "bigint", nil
	case TypeFloat, TypeDouble:
		name := "float"
		if c.typ == TypeDouble {
			name = "double"
		}
		if c.hasSize && c.total > 0 && c.places > 0 {
			return fmt.Sprintf("%s(%d, %d)", name, c.total, c.places), nil
		}
		return name, nil
	case TypeDecimal, TypeUnsignedDecimal:
		return fmt.Sprintf("decimal(%d, %d)", c.total, c.places), nil
	case TypeBoolean:
		return "tinyint(1)", nil
	case TypeEnum:
		return "enum(" + quoteStrings(c.allowed) + ")", nil
	case TypeSet:
		return "set(" + quoteStrings(c.allowed) + ")", nil
	case TypeJSON, TypeJSONB:
		return "json", nil
	case TypeDate:
		return "date", nil
	case TypeDateTime, TypeDateTimeTz:
		return withPrecision("datetime", c), nil
	case TypeTime, TypeTimeTz:
		return withPrecision("time", c), nil
	case TypeTimestamp, TypeTimestampTz:
		return withPrecision("timestamp", c), nil
	case TypeYear:
		return "year", nil
	case TypeBinary:
		return "blob", nil
	case TypeUUID:
		return "char(36)", nil
	case TypeULID:
		return "char(26)", nil
	case TypeIPAddress:
		return "varchar(45)", nil
	case TypeMACAddress:
		return "varchar(17)", nil
	case TypeGeometry, TypePoint, TypeLineString, TypePolygon, TypeGeometryCollection,
		TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon:
		return strings.ToLower(string(c.typ)), nil
	}
	return m.baseSchema.ColumnType(nil, c)
}

func (m mysqlSchema) CompileCreate(g *Grammar, bp *Blueprint, _ *Command, conn Connection) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	sql := createKeyword(bp) + " " + g.WrapTable(bp) + " (" + strings.Join(columns, ", ") + ")"

	if charset := firstNonEmpty(bp.charset, configString(conn, "charset")); charset != "" {
		sql += " default character set " + charset
	}
	if collation := firstNonEmpty(bp.collation, configString(conn, "collation")); collation != "" {
		sql += " collate " + quoteString(collation)
	}
	if engine := firstNonEmpty(bp.engine, configString(conn, "engine")); engine != "" {
		sql += " engine = " + engine
	}
	return one(sql)
}

func (m mysqlSchema) CompileAdd(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	columns, err := g.columns(bp)
	if err != nil {
		return nil, err
	}
	return one("alter table " + g.WrapTable(bp) + " " + strings.Join(prefixArray("add", columns), ", "))
}

func (m mysqlSchema) CompileChange(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	var columns []string
	for _, c := range bp.ChangedColumns() {
		def, err := g.columnDefinition(bp, c)
		if err != nil {
			return nil, err
		}
		columns = append(columns, "modify "+def)
	}
	return one("alter table " + g.WrapTable(bp) + " " + strings.Join(columns, ", "))
}

func (m mysqlSchema) CompileRename(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("rename table " + g.WrapTable(bp) + " to " + g.wrapTableName(bp, cmd.To))
}

func (m mysqlSchema) CompileDropColumn(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	columns := make([]string, len(cmd.Columns))
	for i, c := range cmd.Columns {
		columns[i] = g.Wrap(c)
	}
	return one("alter table " + g.WrapTable(bp) + " " + strings.Join(prefixArray("drop", columns), ", "))
}

func (m mysqlSchema) CompilePrimary(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	var using string
	if cmd.Algorithm != "" {
		using = "using " + cmd.Algorithm
	}
	return one("alter table " + g.WrapTable(bp) + " add primary key " + using + "(" + g.columnize(cmd.Columns) + ")")
}

func (m mysqlSchema) CompileUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.compileKey(g, bp, cmd, "unique")
}

func (m mysqlSchema) CompileIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.compileKey(g, bp, cmd, "index")
}

func (m mysqlSchema) CompileFulltext(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.compileKey(g, bp, cmd, "fulltext")
}

func (m mysqlSchema) CompileSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.compileKey(g, bp, cmd, "spatial index")
}

// compileKey renders "alter table t add <type> `name`[ using algo](cols)".
func (m mysqlSchema) compileKey(g *Grammar, bp *Blueprint, cmd *Command, typ string) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	var using string
	if cmd.Algorithm != "" {
		using = " using " + cmd.Algorithm
	}
	return one("alter table " + g.WrapTable(bp) + " add " + typ + " " + g.Wrap(cmd.Index) + using + "(" + g.columnize(cmd.Columns) + ")")
}

func (m mysqlSchema) CompileDropPrimary(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop primary key")
}

func (m mysqlSchema) CompileDropUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop index " + g.Wrap(cmd.Index))
}

func (m mysqlSchema) CompileDropIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.CompileDropUnique(g, bp, cmd)
}

func (m mysqlSchema) CompileDropFulltext(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.CompileDropUnique(g, bp, cmd)
}

func (m mysqlSchema) CompileDropSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return m.CompileDropUnique(g, bp, cmd)
}

func (m mysqlSchema) CompileDropForeign(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop foreign key " + g.Wrap(cmd.Index))
}

func (m mysqlSchema) CompileRenameIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " rename index " + g.Wrap(cmd.From) + " to " + g.Wrap(cmd.To))
}

func (m mysqlSchema) CompileTableComment(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " comment = " + quoteString(cmd.Comment))
}

func (m mysqlSchema) CompileAutoIncrementStartingValues(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	c := cmd.Column
	if c == nil || !c.autoIncrement || c.startingValue == nil {
		return nil, nil
	}
	return one("alter table " + g.WrapTable(bp) + " auto_increment = " + strconv.Itoa(*c.startingValue))
}

func (m mysqlSchema) CompileCreateDatabase(g *Grammar, name string, conn Connection) (string, error) {
	sql := "create database " + g.Wrap(name)
	if charset := configString(conn, "charset"); charset != "" {
		sql += " default character set " + g.Wrap(charset)
	}
	if collation := configString(conn, "collation"); collation != "" {
		sql += " default collate " + g.Wrap(collation)
	}
	return sql, nil
}

func (m mysqlSchema) CompileDropDatabaseIfExists(g *Grammar, name string) (string, error) {
	return "drop database if exists " + g.Wrap(name), nil
}

func (m mysqlSchema) CompileTableExists() (string, error) {
	return "select * from information_schema.tables where table_schema = ? and table_name = ? and table_type = 'BASE TABLE'", nil
}

func (m mysqlSchema) CompileColumnListing(*Grammar, string) (string, error) {
	return "select column_name as `column_name` from information_schema.columns where table_schema = ? and table_name = ?", nil
}

func (m mysqlSchema) CompileGetAllTables(Connection) (string, error) {
	return "SHOW FULL TABLES WHERE table_type = 'BASE TABLE'", nil
}

func (m mysqlSchema) CompileDropAllTables(g *Grammar, tables []string) ([]string, error) {
	wrapped := make([]string, len(tables))
	for i, t := range tables {
		wrapped[i] = g.Wrap(t)
	}
	return one("drop table " + strings.Join(wrapped, ","))
}

func (m mysqlSchema) CompileEnableForeignKeyConstraints() (string, error) {
	return "SET FOREIGN_KEY_CHECKS=1;", nil
}

func (m mysqlSchema) CompileDisableForeignKeyConstraints() (string, error) {
	return "SET FOREIGN_KEY_CHECKS=0;", nil
}

func configString(conn Connection, key string) string {
	if conn == nil {
		return ""
	}
	return conn.ConfigString(key)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
