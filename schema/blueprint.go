package schema

import (
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// Blueprint accumulates the columns and commands of one table change.
// Declaring columns and commands mutates it; ToSQL never does.
type Blueprint struct {
	table  string
	prefix string
	cfg    Config

	columns  []*ColumnDefinition
	commands []*Command

	temporary bool
	engine    string
	charset   string
	collation string
}

// BlueprintOption configures a Blueprint.
type BlueprintOption func(*Blueprint)

// WithPrefix sets the table prefix used for the table name and for
// conventional index names.
func WithPrefix(prefix string) BlueprintOption {
	return func(b *Blueprint) {
		b.prefix = prefix
	}
}

// WithConfig sets the column defaults.
func WithConfig(cfg Config) BlueprintOption {
	return func(b *Blueprint) {
		b.cfg = cfg.normalized()
	}
}

// NewBlueprint returns an empty blueprint for table.
func NewBlueprint(table string, opts ...BlueprintOption) (*Blueprint, error) {
	if err := validation.ValidateTableName(table); err != nil {
		return nil, err
	}
	b := &Blueprint{table: table, cfg: DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

func (b *Blueprint) Table() string                 { return b.table }
func (b *Blueprint) Prefix() string                { return b.prefix }
func (b *Blueprint) Columns() []*ColumnDefinition  { return b.columns }
func (b *Blueprint) Commands() []*Command          { return b.commands }
func (b *Blueprint) Config() Config                { return b.cfg }
func (b *Blueprint) IsTemporary() bool             { return b.temporary }
func (b *Blueprint) EngineName() string            { return b.engine }
func (b *Blueprint) CharsetName() string           { return b.charset }
func (b *Blueprint) CollationName() string         { return b.collation }
func (b *Blueprint) creating() bool                { return b.hasCommand(CommandCreate) }
func (b *Blueprint) hasCommand(n CommandName) bool { return b.commandNamed(n) != nil }

// Temporary creates a temporary table.
func (b *Blueprint) Temporary() *Blueprint {
	b.temporary = true
	return b
}

// Engine sets the storage engine (MySQL).
func (b *Blueprint) Engine(engine string) *Blueprint {
	b.engine = engine
	return b
}

// Charset sets the default table character set (MySQL).
func (b *Blueprint) Charset(charset string) *Blueprint {
	b.charset = charset
	return b
}

// Collation sets the default table collation (MySQL).
func (b *Blueprint) Collation(collation string) *Blueprint {
	b.collation = collation
	return b
}

// AddedColumns returns the columns that are added rather than changed.
func (b *Blueprint) AddedColumns() []*ColumnDefinition {
	var out []*ColumnDefinition
	for _, c := range b.columns {
		if !c.change {
			out = append(out, c)
		}
	}
	return out
}

// ChangedColumns returns the columns marked with Change.
func (b *Blueprint) ChangedColumns() []*ColumnDefinition {
	var out []*ColumnDefinition
	for _, c := range b.columns {
		if c.change {
			out = append(out, c)
		}
	}
	return out
}

func (b *Blueprint) commandNamed(name CommandName) *Command {
	for _, c := range b.commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (b *Blueprint) commandsNamed(name CommandName) []*Command {
	var out []*Command
	for _, c := range b.commands {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// IndexName returns the conventional name of an index over columns:
// prefix, table, columns and kind joined by underscores and lower cased,
// with hyphens and dots replaced by underscores.
func (b *Blueprint) IndexName(kind IndexKind, columns ...string) string {
	index := strings.ToLower(b.prefix + b.table + "_" + strings.Join(columns, "_") + "_" + string(kind))
	return strings.NewReplacer("-", "_", ".", "_").Replace(index)
}

// ----------------------------------------------------------------------------
// Compilation
// ----------------------------------------------------------------------------

// ToSQL compiles the blueprint into ordered DDL statements. Implied
// commands are synthesized on a working copy, so repeated calls return the
// same statements.
func (b *Blueprint) ToSQL(conn Connection, g *Grammar) ([]string, error) {
	work := b.workingCopy()
	work.addImpliedCommands(g)

	if err := work.ensureCommandsAreValid(g); err != nil {
		return nil, err
	}

	var statements []string
	for _, cmd := range work.commands {
		sql, err := work.dispatch(g, cmd, conn)
		if err != nil {
			return nil, err
		}
		statements = append(statements, sql...)
	}
	return statements, nil
}

func (b *Blueprint) workingCopy() *Blueprint {
	cp := *b
	cp.columns = make([]*ColumnDefinition, len(b.columns))
	byColumn := make(map[*ColumnDefinition]*ColumnDefinition, len(b.columns))
	for i, c := range b.columns {
		cp.columns[i] = c.clone()
		byColumn[c] = cp.columns[i]
	}
	cp.commands = make([]*Command, len(b.commands))
	for i, c := range b.commands {
		cp.commands[i] = c.clone()
		if c.Column != nil && byColumn[c.Column] != nil {
			cp.commands[i].Column = byColumn[c.Column]
		}
	}
	return &cp
}

func (b *Blueprint) addImpliedCommands(g *Grammar) {
	if !b.creating() {
		if len(b.AddedColumns()) > 0 {
			b.commands = append([]*Command{{Name: CommandAdd}}, b.commands...)
		}
		if len(b.ChangedColumns()) > 0 {
			b.commands = append([]*Command{{Name: CommandChange}}, b.commands...)
		}
	}
	b.addFluentIndexes()
	b.addFluentCommands(g)
}

// addFluentIndexes turns the index intents of each column into index
// commands and clears them.
func (b *Blueprint) addFluentIndexes() {
	for _, column := range b.columns {
		for _, kind := range promotionOrder {
			intent := column.indexes[kind]
			switch {
			case intent.Add:
				b.indexCommand(addCommandFor[kind], kind, []string{column.name}, intent.Name)
			case intent.Remove && column.change:
				b.indexCommand(dropCommandFor[kind], kind, []string{column.name}, "")
			}
		}
		column.indexes = nil
	}
}

func (b *Blueprint) addFluentCommands(g *Grammar) {
	for _, column := range b.columns {
		for _, name := range g.FluentCommands() {
			b.commands = append(b.commands, &Command{Name: name, Column: column})
		}
	}
}

func (b *Blueprint) ensureCommandsAreValid(g *Grammar) error {
	if !g.SupportsDropForeign() && len(b.commandsNamed(CommandDropForeign)) > 0 {
		return ErrDropForeignUnsupported
	}
	return nil
}

func (b *Blueprint) dispatch(g *Grammar, cmd *Command, conn Connection) ([]string, error) {
	switch cmd.Name {
	case CommandCreate:
		return g.CompileCreate(b, cmd, conn)
	case CommandDrop:
		return g.CompileDrop(b, cmd)
	case CommandDropIfExists:
		return g.CompileDropIfExists(b, cmd)
	case CommandAdd:
		return g.CompileAdd(b, cmd)
	case CommandChange:
		return g.CompileChange(b, cmd)
	case CommandRename:
		return g.CompileRename(b, cmd)
	case CommandRenameColumn:
		return g.CompileRenameColumn(b, cmd)
	case CommandDropColumn:
		return g.CompileDropColumn(b, cmd)
	case CommandPrimary:
		return g.CompilePrimary(b, cmd)
	case CommandUnique:
		return g.CompileUnique(b, cmd)
	case CommandIndex:
		return g.CompileIndex(b, cmd)
	case CommandFulltext:
		return g.CompileFulltext(b, cmd)
	case CommandSpatialIndex:
		return g.CompileSpatialIndex(b, cmd)
	case CommandForeign:
		return g.CompileForeign(b, cmd)
	case CommandDropPrimary:
		return g.CompileDropPrimary(b, cmd)
	case CommandDropUnique:
		return g.CompileDropUnique(b, cmd)
	case CommandDropIndex:
		return g.CompileDropIndex(b, cmd)
	case CommandDropFulltext:
		return g.CompileDropFulltext(b, cmd)
	case CommandDropSpatialIndex:
		return g.CompileDropSpatialIndex(b, cmd)
	case CommandDropForeign:
		return g.CompileDropForeign(b, cmd)
	case CommandRenameIndex:
		return g.CompileRenameIndex(b, cmd)
	case CommandTableComment:
		return g.CompileTableComment(b, cmd)
	case CommandComment:
		return g.CompileComment(b, cmd)
	case CommandDefault:
		return g.CompileDefault(b, cmd)
	case CommandAutoIncrementStartingValues:
		return g.CompileAutoIncrementStartingValues(b, cmd)
	default:
		return nil, ErrUnknownCommand
	}
}

// ----------------------------------------------------------------------------
// Table commands
// ----------------------------------------------------------------------------

func (b *Blueprint) addCommand(cmd *Command) *Command {
	b.commands = append(b.commands, cmd)
	return cmd
}

// Create creates the table.
func (b *Blueprint) Create() *Blueprint {
	b.addCommand(&Command{Name: CommandCreate})
	return b
}

func (b *Blueprint) Drop() *Blueprint {
	b.addCommand(&Command{Name: CommandDrop})
	return b
}

func (b *Blueprint) DropIfExists() *Blueprint {
	b.addCommand(&Command{Name: CommandDropIfExists})
	return b
}

// Rename renames the table to to.
func (b *Blueprint) Rename(to string) *Blueprint {
	b.addCommand(&Command{Name: CommandRename, To: to})
	return b
}

func (b *Blueprint) RenameColumn(from, to string) *Blueprint {
	b.addCommand(&Command{Name: CommandRenameColumn, From: from, To: to})
	return b
}

func (b *Blueprint) DropColumn(columns ...string) *Blueprint {
	b.addCommand(&Command{Name: CommandDropColumn, Columns: columns})
	return b
}

func (b *Blueprint) DropTimestamps() *Blueprint {
	return b.DropColumn("created_at", "updated_at")
}

func (b *Blueprint) DropSoftDeletes(column ...string) *Blueprint {
	return b.DropColumn(firstOr(column, "deleted_at"))
}

func (b *Blueprint) DropRememberToken() *Blueprint {
	return b.DropColumn("remember_token")
}

// DropMorphs drops the morph columns and their composite index.
func (b *Blueprint) DropMorphs(name string) *Blueprint {
	b.DropIndex(b.IndexName(IndexPlain, name+"_type", name+"_id"))
	return b.DropColumn(name+"_type", name+"_id")
}

// Comment sets the table comment.
func (b *Blueprint) Comment(comment string) *Blueprint {
	b.addCommand(&Command{Name: CommandTableComment, Comment: comment})
	return b
}

// ----------------------------------------------------------------------------
// Index commands
// ----------------------------------------------------------------------------

func (b *Blueprint) indexCommand(name CommandName, kind IndexKind, columns []string, index string) *Command {
	if index == "" {
		index = b.IndexName(kind, columns...)
	}
	return b.addCommand(&Command{Name: name, Index: index, Columns: columns})
}

// Primary adds a primary key over columns. The optional name is used by
// engines that name primary keys.
func (b *Blueprint) Primary(columns []string, name ...string) *IndexDefinition {
	return &IndexDefinition{cmd: b.indexCommand(CommandPrimary, IndexPrimary, columns, firstOr(name, ""))}
}

func (b *Blueprint) Unique(columns []string, name ...string) *IndexDefinition {
	return &IndexDefinition{cmd: b.indexCommand(CommandUnique, IndexUnique, columns, firstOr(name, ""))}
}

func (b *Blueprint) Index(columns []string, name ...string) *IndexDefinition {
	return &IndexDefinition{cmd: b.indexCommand(CommandIndex, IndexPlain, columns, firstOr(name, ""))}
}

func (b *Blueprint) Fulltext(columns []string, name ...string) *IndexDefinition {
	return &IndexDefinition{cmd: b.indexCommand(CommandFulltext, IndexFulltext, columns, firstOr(name, ""))}
}

func (b *Blueprint) SpatialIndex(columns []string, name ...string) *IndexDefinition {
	return &IndexDefinition{cmd: b.indexCommand(CommandSpatialIndex, IndexSpatial, columns, firstOr(name, ""))}
}

// Foreign adds a foreign key over columns.
func (b *Blueprint) Foreign(columns []string, name ...string) *ForeignKeyDefinition {
	return &ForeignKeyDefinition{cmd: b.indexCommand(CommandForeign, IndexForeign, columns, firstOr(name, ""))}
}

// DropPrimary drops the primary key. Engines that name primary keys use
// name, or the conventional name when it is empty.
func (b *Blueprint) DropPrimary(name ...string) *Blueprint {
	b.indexCommand(CommandDropPrimary, IndexPrimary, nil, firstOr(name, ""))
	return b
}

func (b *Blueprint) DropUnique(name string) *Blueprint {
	b.addCommand(&Command{Name: CommandDropUnique, Index: name})
	return b
}

func (b *Blueprint) DropIndex(name string) *Blueprint {
	b.addCommand(&Command{Name: CommandDropIndex, Index: name})
	return b
}

func (b *Blueprint) DropFulltext(name string) *Blueprint {
	b.addCommand(&Command{Name: CommandDropFulltext, Index: name})
	return b
}

func (b *Blueprint) DropSpatialIndex(name string) *Blueprint {
	b.addCommand(&Command{Name: CommandDropSpatialIndex, Index: name})
	return b
}

func (b *Blueprint) DropForeign(name string) *Blueprint {
	b.addCommand(&Command{Name: CommandDropForeign, Index: name})
	return b
}

// DropConstrainedForeignID drops the conventional foreign key of column and
// then the column.
func (b *Blueprint) DropConstrainedForeignID(column string) *Blueprint {
	b.DropForeign(b.IndexName(IndexForeign, column))
	return b.DropColumn(column)
}

func (b *Blueprint) RenameIndex(from, to string) *Blueprint {
	b.addCommand(&Command{Name: CommandRenameIndex, From: from, To: to})
	return b
}

// ----------------------------------------------------------------------------
// Column types
// ----------------------------------------------------------------------------

// AddColumn appends a column of the given type.
func (b *Blueprint) AddColumn(typ ColumnType, name string) *ColumnDefinition {
	c := newColumn(typ, name)
	b.columns = append(b.columns, c)
	return c
}

// ID adds an auto incrementing big integer primary key named "id".
func (b *Blueprint) ID(name ...string) *ColumnDefinition {
	return b.BigIncrements(firstOr(name, "id"))
}

func (b *Blueprint) Increments(name string) *ColumnDefinition {
	return b.UnsignedInteger(name).AutoIncrement()
}

func (b *Blueprint) TinyIncrements(name string) *ColumnDefinition {
	return b.UnsignedTinyInteger(name).AutoIncrement()
}

func (b *Blueprint) SmallIncrements(name string) *ColumnDefinition {
	return b.UnsignedSmallInteger(name).AutoIncrement()
}

func (b *Blueprint) MediumIncrements(name string) *ColumnDefinition {
	return b.UnsignedMediumInteger(name).AutoIncrement()
}

func (b *Blueprint) BigIncrements(name string) *ColumnDefinition {
	return b.UnsignedBigInteger(name).AutoIncrement()
}

// Char adds a fixed length string; the length defaults to
// Config.DefaultStringLength.
func (b *Blueprint) Char(name string, length ...int) *ColumnDefinition {
	c := b.AddColumn(TypeChar, name)
	c.length = firstOr(length, b.cfg.DefaultStringLength)
	return c
}

// String adds a variable length string; the length defaults to
// Config.DefaultStringLength.
func (b *Blueprint) String(name string, length ...int) *ColumnDefinition {
	c := b.AddColumn(TypeString, name)
	c.length = firstOr(length, b.cfg.DefaultStringLength)
	return c
}

func (b *Blueprint) TinyText(name string) *ColumnDefinition   { return b.AddColumn(TypeTinyText, name) }
func (b *Blueprint) Text(name string) *ColumnDefinition       { return b.AddColumn(TypeText, name) }
func (b *Blueprint) MediumText(name string) *ColumnDefinition { return b.AddColumn(TypeMediumText, name) }
func (b *Blueprint) LongText(name string) *ColumnDefinition   { return b.AddColumn(TypeLongText, name) }

func (b *Blueprint) Integer(name string) *ColumnDefinition { return b.AddColumn(TypeInteger, name) }
func (b *Blueprint) TinyInteger(name string) *ColumnDefinition {
	return b.AddColumn(TypeTinyInteger, name)
}
func (b *Blueprint) SmallInteger(name string) *ColumnDefinition {
	return b.AddColumn(TypeSmallInteger, name)
}
func (b *Blueprint) MediumInteger(name string) *ColumnDefinition {
	return b.AddColumn(TypeMediumInteger, name)
}
func (b *Blueprint) BigInteger(name string) *ColumnDefinition {
	return b.AddColumn(TypeBigInteger, name)
}

func (b *Blueprint) UnsignedInteger(name string) *ColumnDefinition {
	return b.Integer(name).Unsigned()
}
func (b *Blueprint) UnsignedTinyInteger(name string) *ColumnDefinition {
	return b.TinyInteger(name).Unsigned()
}
func (b *Blueprint) UnsignedSmallInteger(name string) *ColumnDefinition {
	return b.SmallInteger(name).Unsigned()
}
func (b *Blueprint) UnsignedMediumInteger(name string) *ColumnDefinition {
	return b.MediumInteger(name).Unsigned()
}
func (b *Blueprint) UnsignedBigInteger(name string) *ColumnDefinition {
	return b.BigInteger(name).Unsigned()
}

// Float adds a float; total and places default to 8 and 2.
func (b *Blueprint) Float(name string, totalPlaces ...int) *ColumnDefinition {
	return b.sized(TypeFloat, name, totalPlaces)
}

// Double adds a double. Total and places are optional.
func (b *Blueprint) Double(name string, totalPlaces ...int) *ColumnDefinition {
	c := b.AddColumn(TypeDouble, name)
	if len(totalPlaces) == 2 {
		c.total, c.places, c.hasSize = totalPlaces[0], totalPlaces[1], true
	}
	return c
}

// Decimal adds a fixed point number; total and places default to 8 and 2.
func (b *Blueprint) Decimal(name string, totalPlaces ...int) *ColumnDefinition {
	return b.sized(TypeDecimal, name, totalPlaces)
}

// UnsignedDecimal is Decimal with the unsigned flag. Only MySQL renders it.
func (b *Blueprint) UnsignedDecimal(name string, totalPlaces ...int) *ColumnDefinition {
	return b.sized(TypeUnsignedDecimal, name, totalPlaces).Unsigned()
}

func (b *Blueprint) sized(typ ColumnType, name string, totalPlaces []int) *ColumnDefinition {
	c := b.AddColumn(typ, name)
	c.total, c.places, c.hasSize = 8, 2, true
	if len(totalPlaces) > 0 {
		c.total = totalPlaces[0]
	}
	if len(totalPlaces) > 1 {
		c.places = totalPlaces[1]
	}
	return c
}

func (b *Blueprint) Boolean(name string) *ColumnDefinition { return b.AddColumn(TypeBoolean, name) }

func (b *Blueprint) Enum(name string, allowed []string) *ColumnDefinition {
	c := b.AddColumn(TypeEnum, name)
	c.allowed = allowed
	return c
}

func (b *Blueprint) Set(name string, allowed []string) *ColumnDefinition {
	c := b.AddColumn(TypeSet, name)
	c.allowed = allowed
	return c
}

func (b *Blueprint) JSON(name string) *ColumnDefinition  { return b.AddColumn(TypeJSON, name) }
func (b *Blueprint) JSONB(name string) *ColumnDefinition { return b.AddColumn(TypeJSONB, name) }
func (b *Blueprint) Date(name string) *ColumnDefinition  { return b.AddColumn(TypeDate, name) }
func (b *Blueprint) Year(name string) *ColumnDefinition  { return b.AddColumn(TypeYear, name) }

// DateTime and the other time types take an optional fractional second
// precision, 0 by default.
func (b *Blueprint) DateTime(name string, precision ...int) *ColumnDefinition {
	return b.timed(TypeDateTime, name, precision)
}

func (b *Blueprint) DateTimeTz(name string, precision ...int) *ColumnDefinition {
	return b.timed(TypeDateTimeTz, name, precision)
}

func (b *Blueprint) Time(name string, precision ...int) *ColumnDefinition {
	return b.timed(TypeTime, name, precision)
}

func (b *Blueprint) TimeTz(name string, precision ...int) *ColumnDefinition {
	return b.timed(TypeTimeTz, name, precision)
}

func (b *Blueprint) Timestamp(name string, precision ...int) *ColumnDefinition {
	return b.timed(TypeTimestamp, name, precision)
}

func (b *Blueprint) TimestampTz(name string, precision ...int) *ColumnDefinition {
	return b.timed(TypeTimestampTz, name, precision)
}

func (b *Blueprint) timed(typ ColumnType, name string, precision []int) *ColumnDefinition {
	c := b.AddColumn(typ, name)
	p := firstOr(precision, 0)
	c.precision = &p
	return c
}

// Timestamps adds nullable created_at and updated_at columns.
func (b *Blueprint) Timestamps(precision ...int) {
	b.Timestamp("created_at", precision...).Nullable()
	b.Timestamp("updated_at", precision...).Nullable()
}

func (b *Blueprint) TimestampsTz(precision ...int) {
	b.TimestampTz("created_at", precision...).Nullable()
	b.TimestampTz("updated_at", precision...).Nullable()
}

// SoftDeletes adds a nullable deleted_at timestamp.
func (b *Blueprint) SoftDeletes(column ...string) *ColumnDefinition {
	return b.Timestamp(firstOr(column, "deleted_at")).Nullable()
}

func (b *Blueprint) SoftDeletesTz(column ...string) *ColumnDefinition {
	return b.TimestampTz(firstOr(column, "deleted_at")).Nullable()
}

func (b *Blueprint) Binary(name string) *ColumnDefinition     { return b.AddColumn(TypeBinary, name) }
func (b *Blueprint) UUID(name string) *ColumnDefinition       { return b.AddColumn(TypeUUID, name) }
func (b *Blueprint) IPAddress(name string) *ColumnDefinition  { return b.AddColumn(TypeIPAddress, name) }
func (b *Blueprint) MACAddress(name string) *ColumnDefinition { return b.AddColumn(TypeMACAddress, name) }

// ULID adds a 26 character ULID column.
func (b *Blueprint) ULID(name string) *ColumnDefinition {
	c := b.AddColumn(TypeULID, name)
	c.length = 26
	return c
}

func (b *Blueprint) Geometry(name string) *ColumnDefinition { return b.AddColumn(TypeGeometry, name) }
func (b *Blueprint) Point(name string) *ColumnDefinition    { return b.AddColumn(TypePoint, name) }
func (b *Blueprint) LineString(name string) *ColumnDefinition {
	return b.AddColumn(TypeLineString, name)
}
func (b *Blueprint) Polygon(name string) *ColumnDefinition { return b.AddColumn(TypePolygon, name) }
func (b *Blueprint) GeometryCollection(name string) *ColumnDefinition {
	return b.AddColumn(TypeGeometryCollection, name)
}
func (b *Blueprint) MultiPoint(name string) *ColumnDefinition {
	return b.AddColumn(TypeMultiPoint, name)
}
func (b *Blueprint) MultiLineString(name string) *ColumnDefinition {
	return b.AddColumn(TypeMultiLineString, name)
}
func (b *Blueprint) MultiPolygon(name string) *ColumnDefinition {
	return b.AddColumn(TypeMultiPolygon, name)
}
func (b *Blueprint) MultiPolygonZ(name string) *ColumnDefinition {
	return b.AddColumn(TypeMultiPolygonZ, name)
}

// Computed adds a computed column (SQL Server).
func (b *Blueprint) Computed(name, expression string) *ColumnDefinition {
	c := b.AddColumn(TypeComputed, name)
	c.expression = expression
	return c
}

// Morphs adds "{name}_type" and "{name}_id" plus a composite index. The id
// type follows Config.MorphKeyType.
func (b *Blueprint) Morphs(name string) {
	switch b.cfg.MorphKeyType {
	case MorphKeyUUID:
		b.UUIDMorphs(name)
	case MorphKeyULID:
		b.ULIDMorphs(name)
	default:
		b.String(name + "_type")
		b.UnsignedBigInteger(name + "_id")
		b.Index([]string{name + "_type", name + "_id"})
	}
}

// NullableMorphs is Morphs with nullable columns.
func (b *Blueprint) NullableMorphs(name string) {
	switch b.cfg.MorphKeyType {
	case MorphKeyUUID:
		b.String(name + "_type").Nullable()
		b.UUID(name + "_id").Nullable()
	case MorphKeyULID:
		b.String(name + "_type").Nullable()
		b.ULID(name + "_id").Nullable()
	default:
		b.String(name + "_type").Nullable()
		b.UnsignedBigInteger(name + "_id").Nullable()
	}
	b.Index([]string{name + "_type", name + "_id"})
}

func (b *Blueprint) UUIDMorphs(name string) {
	b.String(name + "_type")
	b.UUID(name + "_id")
	b.Index([]string{name + "_type", name + "_id"})
}

func (b *Blueprint) ULIDMorphs(name string) {
	b.String(name + "_type")
	b.ULID(name + "_id")
	b.Index([]string{name + "_type", name + "_id"})
}

// RememberToken adds a nullable remember_token string.
func (b *Blueprint) RememberToken() *ColumnDefinition {
	return b.String("remember_token", 100).Nullable()
}

// ForeignID adds an unsigned big integer that can be constrained.
func (b *Blueprint) ForeignID(name string) *ForeignIDColumnDefinition {
	return &ForeignIDColumnDefinition{ColumnDefinition: b.UnsignedBigInteger(name), bp: b}
}

func (b *Blueprint) ForeignUUID(name string) *ForeignIDColumnDefinition {
	return &ForeignIDColumnDefinition{ColumnDefinition: b.UUID(name), bp: b}
}

func (b *Blueprint) ForeignULID(name string) *ForeignIDColumnDefinition {
	return &ForeignIDColumnDefinition{ColumnDefinition: b.ULID(name), bp: b}
}

func firstOr[T any](values []T, fallback T) T {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
