package schema

// ColumnType tags the SQL type family of a column definition.
type ColumnType string

const (
	TypeChar               ColumnType = "char"
	TypeString             ColumnType = "string"
	TypeTinyText           ColumnType = "tinyText"
	TypeText               ColumnType = "text"
	TypeMediumText         ColumnType = "mediumText"
	TypeLongText           ColumnType = "longText"
	TypeInteger            ColumnType = "integer"
	TypeTinyInteger        ColumnType = "tinyInteger"
	TypeSmallInteger       ColumnType = "smallInteger"
	TypeMediumInteger      ColumnType = "mediumInteger"
	TypeBigInteger         ColumnType = "bigInteger"
	TypeFloat              ColumnType = "float"
	TypeDouble             ColumnType = "double"
	TypeDecimal            ColumnType = "decimal"
	TypeUnsignedDecimal    ColumnType = "unsignedDecimal"
	TypeBoolean            ColumnType = "boolean"
	TypeEnum               ColumnType = "enum"
	TypeSet                ColumnType = "set"
	TypeJSON               ColumnType = "json"
	TypeJSONB              ColumnType = "jsonb"
	TypeDate               ColumnType = "date"
	TypeDateTime           ColumnType = "dateTime"
	TypeDateTimeTz         ColumnType = "dateTimeTz"
	TypeTime               ColumnType = "time"
	TypeTimeTz             ColumnType = "timeTz"
	TypeTimestamp          ColumnType = "timestamp"
	TypeTimestampTz        ColumnType = "timestampTz"
	TypeYear               ColumnType = "year"
	TypeBinary             ColumnType = "binary"
	TypeUUID               ColumnType = "uuid"
	TypeULID               ColumnType = "ulid"
	TypeIPAddress          ColumnType = "ipAddress"
	TypeMACAddress         ColumnType = "macAddress"
	TypeGeometry           ColumnType = "geometry"
	TypePoint              ColumnType = "point"
	TypeLineString         ColumnType = "lineString"
	TypePolygon            ColumnType = "polygon"
	TypeGeometryCollection ColumnType = "geometryCollection"
	TypeMultiPoint         ColumnType = "multiPoint"
	TypeMultiLineString    ColumnType = "multiLineString"
	TypeMultiPolygon       ColumnType = "multiPolygon"
	TypeMultiPolygonZ      ColumnType = "multiPolygonZ"
	TypeComputed           ColumnType = "computed"
)

// serialTypes are the integer types that can auto increment.
var serialTypes = map[ColumnType]bool{
	TypeBigInteger:    true,
	TypeInteger:       true,
	TypeMediumInteger: true,
	TypeSmallInteger:  true,
	TypeTinyInteger:   true,
}

// IndexKind names an index flavour. The value doubles as the suffix of the
// conventional index name.
type IndexKind string

const (
	IndexPrimary  IndexKind = "primary"
	IndexUnique   IndexKind = "unique"
	IndexPlain    IndexKind = "index"
	IndexFulltext IndexKind = "fulltext"
	IndexSpatial  IndexKind = "spatialIndex"
	IndexForeign  IndexKind = "foreign"
)

// promotionOrder is the order in which fluent index intents become commands.
var promotionOrder = []IndexKind{IndexPrimary, IndexUnique, IndexPlain, IndexFulltext, IndexSpatial}

// IndexIntent is a fluent index request attached to a column.
type IndexIntent struct {
	// Add requests an index on the column, named Name or by convention.
	Add  bool
	Name string
	// Remove drops the conventionally named index while the column changes.
	Remove bool
}

// ColumnDefinition is the declared shape of one column.
type ColumnDefinition struct {
	name    string
	typ     ColumnType
	length  int
	total   int
	places  int
	hasSize bool

	precision *int
	allowed   []string

	unsigned      bool
	autoIncrement bool
	nullable      *bool
	defaultValue  any
	hasDefault    bool
	useCurrent    bool
	useCurrentOn  bool
	onUpdate      any
	comment       *string
	after         string
	first         bool
	charset       string
	collation     string
	virtualAs     string
	storedAs      string
	generatedAs   *string
	always        bool
	invisible     bool
	persisted     bool
	expression    string
	startingValue *int
	srid          *int
	projection    *int
	isGeometry    bool
	change        bool

	indexes map[IndexKind]IndexIntent
}

func newColumn(typ ColumnType, name string) *ColumnDefinition {
	return &ColumnDefinition{name: name, typ: typ}
}

// Name returns the column name.
func (c *ColumnDefinition) Name() string { return c.name }

// Type returns the column type tag.
func (c *ColumnDefinition) Type() ColumnType { return c.typ }

// IsChange reports whether the column modifies an existing column.
func (c *ColumnDefinition) IsChange() bool { return c.change }

// Intent returns the fluent index intent of the given kind.
func (c *ColumnDefinition) Intent(kind IndexKind) IndexIntent { return c.indexes[kind] }

// Nullable allows null values. Nullable(false) forces not null, which
// matters for generated columns and changes.
func (c *ColumnDefinition) Nullable(value ...bool) *ColumnDefinition {
	v := true
	if len(value) > 0 {
		v = value[0]
	}
	c.nullable = &v
	return c
}

// Default sets the default value. dialect.Expression values are written
// verbatim, everything else is quoted.
func (c *ColumnDefinition) Default(value any) *ColumnDefinition {
	c.defaultValue = value
	c.hasDefault = true
	return c
}

// UseCurrent defaults a timestamp column to CURRENT_TIMESTAMP.
func (c *ColumnDefinition) UseCurrent() *ColumnDefinition {
	c.useCurrent = true
	return c
}

// UseCurrentOnUpdate refreshes a timestamp column on update (MySQL).
func (c *ColumnDefinition) UseCurrentOnUpdate() *ColumnDefinition {
	c.useCurrentOn = true
	return c
}

// OnUpdate sets the on update value (MySQL).
func (c *ColumnDefinition) OnUpdate(value any) *ColumnDefinition {
	c.onUpdate = value
	return c
}

func (c *ColumnDefinition) AutoIncrement() *ColumnDefinition {
	c.autoIncrement = true
	return c
}

func (c *ColumnDefinition) Unsigned() *ColumnDefinition {
	c.unsigned = true
	return c
}

func (c *ColumnDefinition) Comment(comment string) *ColumnDefinition {
	c.comment = &comment
	return c
}

// After places the column after another column (MySQL).
func (c *ColumnDefinition) After(column string) *ColumnDefinition {
	c.after = column
	return c
}

// First places the column first in the table (MySQL).
func (c *ColumnDefinition) First() *ColumnDefinition {
	c.first = true
	return c
}

func (c *ColumnDefinition) Charset(charset string) *ColumnDefinition {
	c.charset = charset
	return c
}

func (c *ColumnDefinition) Collation(collation string) *ColumnDefinition {
	c.collation = collation
	return c
}

// VirtualAs makes the column a virtual generated column.
func (c *ColumnDefinition) VirtualAs(expression string) *ColumnDefinition {
	c.virtualAs = expression
	return c
}

// StoredAs makes the column a stored generated column.
func (c *ColumnDefinition) StoredAs(expression string) *ColumnDefinition {
	c.storedAs = expression
	return c
}

// GeneratedAs makes the column an identity column (PostgreSQL). The optional
// expression holds sequence options.
func (c *ColumnDefinition) GeneratedAs(expression ...string) *ColumnDefinition {
	var e string
	if len(expression) > 0 {
		e = expression[0]
	}
	c.generatedAs = &e
	return c
}

// Always switches an identity column to generated always.
func (c *ColumnDefinition) Always() *ColumnDefinition {
	c.always = true
	return c
}

// Invisible hides the column from select * (MySQL).
func (c *ColumnDefinition) Invisible() *ColumnDefinition {
	c.invisible = true
	return c
}

// Persisted stores a computed column (SQL Server).
func (c *ColumnDefinition) Persisted() *ColumnDefinition {
	c.persisted = true
	return c
}

// From sets the auto increment starting value.
func (c *ColumnDefinition) From(start int) *ColumnDefinition {
	c.startingValue = &start
	return c
}

// StartingValue is an alias of From.
func (c *ColumnDefinition) StartingValue(start int) *ColumnDefinition {
	return c.From(start)
}

// SRID sets the spatial reference of a geometry column (MySQL).
func (c *ColumnDefinition) SRID(srid int) *ColumnDefinition {
	c.srid = &srid
	return c
}

// IsGeometry renders a PostGIS geometry instead of a geography.
func (c *ColumnDefinition) IsGeometry() *ColumnDefinition {
	c.isGeometry = true
	return c
}

// Projection sets the PostGIS projection.
func (c *ColumnDefinition) Projection(srid int) *ColumnDefinition {
	c.projection = &srid
	return c
}

// Change marks the column as a modification of an existing column.
func (c *ColumnDefinition) Change() *ColumnDefinition {
	c.change = true
	return c
}

func (c *ColumnDefinition) Primary(name ...string) *ColumnDefinition {
	return c.addIntent(IndexPrimary, name)
}

func (c *ColumnDefinition) Unique(name ...string) *ColumnDefinition {
	return c.addIntent(IndexUnique, name)
}

func (c *ColumnDefinition) Index(name ...string) *ColumnDefinition {
	return c.addIntent(IndexPlain, name)
}

func (c *ColumnDefinition) Fulltext(name ...string) *ColumnDefinition {
	return c.addIntent(IndexFulltext, name)
}

func (c *ColumnDefinition) SpatialIndex(name ...string) *ColumnDefinition {
	return c.addIntent(IndexSpatial, name)
}

// RemovePrimary drops the conventional primary key while changing the column.
func (c *ColumnDefinition) RemovePrimary() *ColumnDefinition {
	return c.removeIntent(IndexPrimary)
}

func (c *ColumnDefinition) RemoveUnique() *ColumnDefinition {
	return c.removeIntent(IndexUnique)
}

func (c *ColumnDefinition) RemoveIndex() *ColumnDefinition {
	return c.removeIntent(IndexPlain)
}

func (c *ColumnDefinition) RemoveFulltext() *ColumnDefinition {
	return c.removeIntent(IndexFulltext)
}

func (c *ColumnDefinition) RemoveSpatialIndex() *ColumnDefinition {
	return c.removeIntent(IndexSpatial)
}

func (c *ColumnDefinition) addIntent(kind IndexKind, name []string) *ColumnDefinition {
	intent := IndexIntent{Add: true}
	if len(name) > 0 {
		intent.Name = name[0]
	}
	c.setIntent(kind, intent)
	return c
}

func (c *ColumnDefinition) removeIntent(kind IndexKind) *ColumnDefinition {
	c.setIntent(kind, IndexIntent{Remove: true})
	return c
}

func (c *ColumnDefinition) setIntent(kind IndexKind, intent IndexIntent) {
	if c.indexes == nil {
		c.indexes = make(map[IndexKind]IndexIntent)
	}
	c.indexes[kind] = intent
}

func (c *ColumnDefinition) isNullable() bool {
	return c.nullable != nil && *c.nullable
}

func (c *ColumnDefinition) clone() *ColumnDefinition {
	cp := *c
	cp.allowed = append([]string(nil), c.allowed...)
	if c.indexes != nil {
		cp.indexes = make(map[IndexKind]IndexIntent, len(c.indexes))
		for k, v := range c.indexes {
			cp.indexes[k] = v
		}
	}
	return &cp
}
