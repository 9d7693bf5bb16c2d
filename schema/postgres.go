package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
)

type postgresSchema struct {
	baseSchema
}

// Postgres returns the PostgreSQL schema grammar.
func Postgres() *Grammar {
	return New(postgresSchema{baseSchema{name: "pgsql", query: dialect.Postgres()}})
}

func (p postgresSchema) FluentCommands() []CommandName {
	return []CommandName{CommandAutoIncrementStartingValues, CommandComment}
}

func (p postgresSchema) Modifiers() []Modifier {
	return []Modifier{
		postgresCollate,
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.isNullable() {
				return " null"
			}
			return " not null"
		},
		baseModifyDefault,
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.virtualAs != "" {
				return " generated always as (" + c.virtualAs + ")"
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.storedAs != "" {
				return " generated always as (" + c.storedAs + ") stored"
			}
			return ""
		},
		func(_ *Grammar, _ *Blueprint, c *ColumnDefinition) string {
			if c.generatedAs == nil {
				return ""
			}
			mode := "by default"
			if c.always {
				mode = "always"
			}
			sql := " generated " + mode + " as identity"
			if *c.generatedAs != "" {
				sql += " (" + *c.generatedAs + ")"
			}
			return sql
		},
		func(_ *Grammar, bp *Blueprint, c *ColumnDefinition) string {
			if (serialTypes[c.typ] || c.generatedAs != nil) && c.autoIncrement && !bp.hasCommand(CommandPrimary) {
				return " primary key"
			}
			return ""
		},
	}
}

func postgresCollate(g *Grammar, _ *Blueprint, c *ColumnDefinition) string {
	if c.collation != "" {
		return " collate " + g.q.WrapValue(c.collation)
	}
	return ""
}

// generatable picks the serial variant of an auto incrementing integer.
func generatable(typ, serial string, c *ColumnDefinition) string {
	if c.autoIncrement && c.generatedAs == nil {
		return serial
	}
	return typ
}

func postgresTime(base, zone string, c *ColumnDefinition) string {
	if c.precision != nil {
		base += "(" + strconv.Itoa(*c.precision) + ")"
	}
	return base + " " + zone + " time zone"
}

// postGIS renders geography(type, 4326) or geometry(type[, srid]).
func postGIS(typ string, c *ColumnDefinition) string {
	if !c.isGeometry {
		projection := 4326
		if c.projection != nil {
			projection = *c.projection
		}
		return fmt.Sprintf("geography(%s, %d)", typ, projection)
	}
	if c.projection != nil {
		return fmt.Sprintf("geometry(%s, %d)", typ, *c.projection)
	}
	return "geometry(" + typ + ")"
}

func (p postgresSchema) ColumnType(g *Grammar, c *ColumnDefinition) (string, error) {
	switch c.typ {
	case TypeChar:
		return "char(" + strconv.Itoa(c.length) + ")", nil
	case TypeString:
		return "varchar(" + strconv.Itoa(c.length) + ")", nil
	case TypeTinyText:
		return "varchar(255)", nil
	case TypeText, TypeMediumText, TypeLongText:
		return "text", nil
	case TypeInteger, TypeMediumInteger:
		return generatable("integer", "serial", c), nil
	case TypeBigInteger:
		return generatable("bigint", "bigserial", c), nil
	case TypeSmallInteger, TypeTinyInteger:
		return generatable("smallint", "smallserial", c), nil
	case TypeFloat, TypeDouble:
		return "double precision", nil
	case TypeDecimal, TypeUnsignedDecimal:
		return fmt.Sprintf("decimal(%d, %d)", c.total, c.places), nil
	case TypeBoolean:
		return "boolean", nil
	case TypeEnum:
		return "varchar(255) check (" + g.Wrap(c.name) + " in (" + quoteStrings(c.allowed) + "))", nil
	case TypeJSON:
		return "json", nil
	case TypeJSONB:
		return "jsonb", nil
	case TypeDate:
		return "date", nil
	case TypeDateTime, TypeTimestamp:
		return postgresTime("timestamp", "without", c), nil
	case TypeDateTimeTz, TypeTimestampTz:
		return postgresTime("timestamp", "with", c), nil
	case TypeTime:
		return postgresTime("time", "without", c), nil
	case TypeTimeTz:
		return postgresTime("time", "with", c), nil
	case TypeYear:
		return "integer", nil
	case TypeBinary:
		return "bytea", nil
	case TypeUUID:
		return "uuid", nil
	case TypeULID:
		return "char(26)", nil
	case TypeIPAddress:
		return "inet", nil
	case TypeMACAddress:
		return "macaddr", nil
	case TypeGeometry, TypePoint, TypeLineString, TypePolygon, TypeGeometryCollection,
		TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon, TypeMultiPolygonZ:
		return postGIS(strings.ToLower(string(c.typ)), c), nil
	}
	return p.baseSchema.ColumnType(g, c)
}

// CompileChange alters type, nullability and default of each changed column.
func (p postgresSchema) CompileChange(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	var columns []string
	for _, c := range bp.ChangedColumns() {
		typ, err := p.ColumnType(g, c)
		if err != nil {
			return nil, err
		}
		changes := []string{"type " + typ + postgresCollate(g, bp, c)}
		if c.isNullable() {
			changes = append(changes, "drop not null")
		} else {
			changes = append(changes, "set not null")
		}
		if value, ok := columnDefault(c, "CURRENT_TIMESTAMP"); ok {
			changes = append(changes, "set default "+g.DefaultValue(value))
		} else {
			changes = append(changes, "drop default")
		}
		columns = append(columns, strings.Join(prefixArray("alter column "+g.Wrap(c.name), changes), ", "))
	}
	return one("alter table " + g.WrapTable(bp) + " " + strings.Join(columns, ", "))
}

func (p postgresSchema) CompileUnique(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	sql, err := p.baseSchema.CompileUnique(g, bp, cmd)
	if err != nil {
		return nil, err
	}
	sql[0] += deferrable(cmd)
	return sql, nil
}

func (p postgresSchema) CompileIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	var using string
	if cmd.Algorithm != "" {
		using = " using " + cmd.Algorithm
	}
	return one("create index " + g.Wrap(cmd.Index) + " on " + g.WrapTable(bp) + using + " (" + g.columnize(cmd.Columns) + ")")
}

// CompileFulltext indexes the concatenated tsvectors of the columns with gin.
func (p postgresSchema) CompileFulltext(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	if err := requireColumns(cmd); err != nil {
		return nil, err
	}
	language := firstNonEmpty(cmd.Language, "english")
	vectors := make([]string, len(cmd.Columns))
	for i, c := range cmd.Columns {
		vectors[i] = "to_tsvector(" + quoteString(language) + ", " + g.Wrap(c) + ")"
	}
	return one("create index " + g.Wrap(cmd.Index) + " on " + g.WrapTable(bp) + " using gin ((" + strings.Join(vectors, " || ") + "))")
}

func (p postgresSchema) CompileSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	gist := *cmd
	gist.Algorithm = "gist"
	return p.CompileIndex(g, bp, &gist)
}

func (p postgresSchema) CompileForeign(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	sql, err := foreignKey(g, bp, cmd)
	if err != nil {
		return nil, err
	}
	sql += deferrable(cmd)
	if cmd.NotValid {
		sql += " not valid"
	}
	return one(sql)
}

func deferrable(cmd *Command) string {
	var sql string
	if cmd.Deferrable != nil {
		if *cmd.Deferrable {
			sql += " deferrable"
		} else {
			sql += " not deferrable"
		}
	}
	if cmd.Deferrable != nil && *cmd.Deferrable && cmd.InitiallyImmediate != nil {
		if *cmd.InitiallyImmediate {
			sql += " initially immediate"
		} else {
			sql += " initially deferred"
		}
	}
	return sql
}

// CompileDropPrimary drops the "{table}_pkey" constraint PostgreSQL names
// primary keys with.
func (p postgresSchema) CompileDropPrimary(g *Grammar, bp *Blueprint, _ *Command) ([]string, error) {
	return one("alter table " + g.WrapTable(bp) + " drop constraint " + g.Wrap(bp.prefix+bp.table+"_pkey"))
}

func (p postgresSchema) CompileDropFulltext(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return p.CompileDropIndex(g, bp, cmd)
}

func (p postgresSchema) CompileDropSpatialIndex(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return p.CompileDropIndex(g, bp, cmd)
}

func (p postgresSchema) CompileRenameIndex(g *Grammar, _ *Blueprint, cmd *Command) ([]string, error) {
	return one("alter index " + g.Wrap(cmd.From) + " rename to " + g.Wrap(cmd.To))
}

func (p postgresSchema) CompileTableComment(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	return one("comment on table " + g.WrapTable(bp) + " is " + quoteString(cmd.Comment))
}

// CompileComment sets a column comment, or clears it when a changed column
// has none.
func (p postgresSchema) CompileComment(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	c := cmd.Column
	if c == nil || (c.comment == nil && !c.change) {
		return nil, nil
	}
	comment := "NULL"
	if c.comment != nil {
		comment = quoteString(*c.comment)
	}
	return one("comment on column " + g.WrapTable(bp) + "." + g.Wrap(c.name) + " is " + comment)
}

func (p postgresSchema) CompileAutoIncrementStartingValues(g *Grammar, bp *Blueprint, cmd *Command) ([]string, error) {
	c := cmd.Column
	if c == nil || !c.autoIncrement || c.startingValue == nil {
		return nil, nil
	}
	return one("alter sequence " + bp.prefix + bp.table + "_" + c.name + "_seq restart with " + strconv.Itoa(*c.startingValue))
}

func (p postgresSchema) CompileCreateDatabase(g *Grammar, name string, conn Connection) (string, error) {
	sql := "create database " + g.Wrap(name)
	if charset := configString(conn, "charset"); charset != "" {
		sql += " encoding " + g.Wrap(charset)
	}
	return sql, nil
}

func (p postgresSchema) CompileDropDatabaseIfExists(g *Grammar, name string) (string, error) {
	return "drop database if exists " + g.Wrap(name), nil
}

func (p postgresSchema) CompileTableExists() (string, error) {
	return "select * from information_schema.tables where table_catalog = ? and table_schema = ? and table_name = ? and table_type = 'BASE TABLE'", nil
}

func (p postgresSchema) CompileColumnListing(*Grammar, string) (string, error) {
	return "select column_name from information_schema.columns where table_catalog = ? and table_schema = ? and table_name = ?", nil
}

// CompileGetAllTables lists the tables of the connection's search path,
// "public" when none is configured.
func (p postgresSchema) CompileGetAllTables(conn Connection) (string, error) {
	return "select tablename, concat('\"', schemaname, '\".\"', tablename, '\"') as qualifiedname " +
		"from pg_catalog.pg_tables where schemaname in (" + quoteStrings(searchPath(conn)) + ")", nil
}

func (p postgresSchema) CompileDropAllTables(g *Grammar, tables []string) ([]string, error) {
	wrapped := make([]string, len(tables))
	for i, t := range tables {
		wrapped[i] = g.Wrap(t)
	}
	return one("drop table " + strings.Join(wrapped, ",") + " cascade")
}

func (p postgresSchema) CompileEnableForeignKeyConstraints() (string, error) {
	return "SET CONSTRAINTS ALL IMMEDIATE;", nil
}

func (p postgresSchema) CompileDisableForeignKeyConstraints() (string, error) {
	return "SET CONSTRAINTS ALL DEFERRED;", nil
}

// searchPath splits the configured schema list, defaulting to public.
func searchPath(conn Connection) []string {
	var out []string
	for _, s := range strings.Split(configString(conn, "schema"), ",") {
		if s = strings.Trim(strings.TrimSpace(s), `"`); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"public"}
	}
	return out
}
