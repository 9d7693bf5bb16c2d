// Package tabledef decodes YAML table definitions into schema Blueprints.
//
//	tables:
//	  - name: users
//	    columns:
//	      - {name: id, type: id}
//	      - {name: email, type: string, length: 191, unique: true}
//	      - {name: active, type: boolean, default: true}
//	    timestamps: true
//	  - name: posts
//	    columns:
//	      - {name: id, type: id}
//	      - {name: user_id, type: foreignId, constrained: true, on_delete: cascade}
package tabledef

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Lupennat/ludb-sub002/schema"
)

var (
	ErrUnknownType   = errors.New("tabledef: unknown column type")
	ErrUnknownAction = errors.New("tabledef: unknown table action")
	ErrMissingValues = errors.New("tabledef: enum and set columns need allowed values")
)

// File is a list of table definitions applied in order.
type File struct {
	Tables []Table `yaml:"tables"`
}

// Table describes one blueprint.
type Table struct {
	Name string `yaml:"name"`
	// Action is create (the default), alter, drop or drop_if_exists.
	Action    string `yaml:"action"`
	Temporary bool   `yaml:"temporary"`
	Engine    string `yaml:"engine"`
	Charset   string `yaml:"charset"`
	Collation string `yaml:"collation"`
	Comment   string `yaml:"comment"`

	Columns     []Column     `yaml:"columns"`
	Indexes     []Index      `yaml:"indexes"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys"`
	Drop        []string     `yaml:"drop_columns"`

	Timestamps  bool `yaml:"timestamps"`
	SoftDeletes bool `yaml:"soft_deletes"`
}

// Column describes one column. Type names follow the Blueprint methods:
// string, bigInteger, dateTime, foreignId and so on.
type Column struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Length    int      `yaml:"length"`
	Total     int      `yaml:"total"`
	Places    int      `yaml:"places"`
	Precision *int     `yaml:"precision"`
	Allowed   []string `yaml:"allowed"`

	Nullable      bool   `yaml:"nullable"`
	Default       any    `yaml:"default"`
	Unsigned      bool   `yaml:"unsigned"`
	AutoIncrement bool   `yaml:"auto_increment"`
	UseCurrent    bool   `yaml:"use_current"`
	Comment       string `yaml:"comment"`
	Change        bool   `yaml:"change"`

	Primary bool `yaml:"primary"`
	Unique  bool `yaml:"unique"`
	Index   bool `yaml:"index"`

	// Constrained adds a foreign key on foreignId columns. References is
	// "table" or "table.column"; empty derives the table from the name.
	Constrained bool   `yaml:"constrained"`
	References  string `yaml:"references"`
	OnDelete    string `yaml:"on_delete"`
	OnUpdate    string `yaml:"on_update"`
}

// Index is a table level index.
type Index struct {
	// Type is primary, unique, index, fulltext or spatial; index by default.
	Type    string   `yaml:"type"`
	Columns []string `yaml:"columns"`
	Name    string   `yaml:"name"`
}

// ForeignKey is a table level foreign key.
type ForeignKey struct {
	Columns    []string `yaml:"columns"`
	References []string `yaml:"references"`
	On         string   `yaml:"on"`
	Name       string   `yaml:"name"`
	OnDelete   string   `yaml:"on_delete"`
	OnUpdate   string   `yaml:"on_update"`
}

// Parse decodes a definition file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("tabledef: failed to parse definitions: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the definition file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tabledef: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Blueprints builds one blueprint per table.
func (f *File) Blueprints(opts ...schema.BlueprintOption) ([]*schema.Blueprint, error) {
	out := make([]*schema.Blueprint, 0, len(f.Tables))
	for _, t := range f.Tables {
		bp, err := t.Blueprint(opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

// Blueprint builds the blueprint of t.
func (t Table) Blueprint(opts ...schema.BlueprintOption) (*schema.Blueprint, error) {
	bp, err := schema.NewBlueprint(t.Name, opts...)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(t.Action) {
	case "", "create":
		bp.Create()
	case "alter":
	case "drop":
		return bp.Drop(), nil
	case "drop_if_exists":
		return bp.DropIfExists(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, t.Action)
	}

	if t.Temporary {
		bp.Temporary()
	}
	if t.Engine != "" {
		bp.Engine(t.Engine)
	}
	if t.Charset != "" {
		bp.Charset(t.Charset)
	}
	if t.Collation != "" {
		bp.Collation(t.Collation)
	}
	if t.Comment != "" {
		bp.Comment(t.Comment)
	}

	for _, c := range t.Columns {
		if err := addColumn(bp, c); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	if t.Timestamps {
		bp.Timestamps()
	}
	if t.SoftDeletes {
		bp.SoftDeletes()
	}
	if len(t.Drop) > 0 {
		bp.DropColumn(t.Drop...)
	}

	for _, idx := range t.Indexes {
		if err := addIndex(bp, idx); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	for _, fk := range t.ForeignKeys {
		def := bp.Foreign(fk.Columns, nonEmpty(fk.Name)...).References(fk.References...).On(fk.On)
		if fk.OnDelete != "" {
			def.OnDelete(fk.OnDelete)
		}
		if fk.OnUpdate != "" {
			def.OnUpdate(fk.OnUpdate)
		}
	}
	return bp, nil
}

type columnFunc func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition

func lengths(c Column) []int {
	if c.Length > 0 {
		return []int{c.Length}
	}
	return nil
}

func totalPlaces(c Column) []int {
	switch {
	case c.Total > 0 && c.Places > 0:
		return []int{c.Total, c.Places}
	case c.Total > 0:
		return []int{c.Total}
	}
	return nil
}

func precision(c Column) []int {
	if c.Precision != nil {
		return []int{*c.Precision}
	}
	return nil
}

// columnTypes maps lower-cased type names to the blueprint method adding
// them.
var columnTypes = map[string]columnFunc{
	"id":                 func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.ID(c.Name) },
	"increments":         func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Increments(c.Name) },
	"bigincrements":      func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.BigIncrements(c.Name) },
	"smallincrements":    func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.SmallIncrements(c.Name) },
	"char":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Char(c.Name, lengths(c)...) },
	"string":             func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.String(c.Name, lengths(c)...) },
	"text":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Text(c.Name) },
	"mediumtext":         func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.MediumText(c.Name) },
	"longtext":           func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.LongText(c.Name) },
	"integer":            func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Integer(c.Name) },
	"tinyinteger":        func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.TinyInteger(c.Name) },
	"smallinteger":       func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.SmallInteger(c.Name) },
	"mediuminteger":      func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.MediumInteger(c.Name) },
	"biginteger":         func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.BigInteger(c.Name) },
	"float":              func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Float(c.Name, totalPlaces(c)...) },
	"double":             func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Double(c.Name, totalPlaces(c)...) },
	"decimal":            func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Decimal(c.Name, totalPlaces(c)...) },
	"boolean":            func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Boolean(c.Name) },
	"json":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.JSON(c.Name) },
	"jsonb":              func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.JSONB(c.Name) },
	"date":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Date(c.Name) },
	"year":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Year(c.Name) },
	"datetime":           func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.DateTime(c.Name, precision(c)...) },
	"datetimetz":         func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.DateTimeTz(c.Name, precision(c)...) },
	"time":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Time(c.Name, precision(c)...) },
	"timestamp":          func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Timestamp(c.Name, precision(c)...) },
	"timestamptz":        func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.TimestampTz(c.Name, precision(c)...) },
	"binary":             func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Binary(c.Name) },
	"uuid":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.UUID(c.Name) },
	"ulid":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.ULID(c.Name) },
	"ipaddress":          func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.IPAddress(c.Name) },
	"macaddress":         func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.MACAddress(c.Name) },
	"geometry":           func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Geometry(c.Name) },
	"point":              func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Point(c.Name) },
	"polygon":            func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Polygon(c.Name) },
	"remembertoken":      func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.RememberToken() },
	"enum":               func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Enum(c.Name, c.Allowed) },
	"set":                func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.Set(c.Name, c.Allowed) },
	"foreignid":          foreignID((*schema.Blueprint).ForeignID),
	"foreignuuid":        foreignID((*schema.Blueprint).ForeignUUID),
	"foreignulid":        foreignID((*schema.Blueprint).ForeignULID),
	"unsignedinteger":    func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.UnsignedInteger(c.Name) },
	"unsignedbiginteger": func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition { return bp.UnsignedBigInteger(c.Name) },
}

func foreignID(add func(*schema.Blueprint, string) *schema.ForeignIDColumnDefinition) columnFunc {
	return func(bp *schema.Blueprint, c Column) *schema.ColumnDefinition {
		col := add(bp, c.Name)
		if !c.Constrained && c.References == "" {
			return col.ColumnDefinition
		}
		table, column, _ := strings.Cut(c.References, ".")
		def := col.Constrained(table, column)
		if c.OnDelete != "" {
			def.OnDelete(c.OnDelete)
		}
		if c.OnUpdate != "" {
			def.OnUpdate(c.OnUpdate)
		}
		return col.ColumnDefinition
	}
}

func addColumn(bp *schema.Blueprint, c Column) error {
	fn, ok := columnTypes[strings.ToLower(c.Type)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
	if lower := strings.ToLower(c.Type); (lower == "enum" || lower == "set") && len(c.Allowed) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingValues, c.Name)
	}

	col := fn(bp, c)
	if c.Nullable {
		col.Nullable()
	}
	if c.Default != nil {
		col.Default(c.Default)
	}
	if c.Unsigned {
		col.Unsigned()
	}
	if c.AutoIncrement {
		col.AutoIncrement()
	}
	if c.UseCurrent {
		col.UseCurrent()
	}
	if c.Comment != "" {
		col.Comment(c.Comment)
	}
	if c.Primary {
		col.Primary()
	}
	if c.Unique {
		col.Unique()
	}
	if c.Index {
		col.Index()
	}
	if c.Change {
		col.Change()
	}
	return nil
}

func addIndex(bp *schema.Blueprint, idx Index) error {
	name := nonEmpty(idx.Name)
	switch strings.ToLower(idx.Type) {
	case "", "index":
		bp.Index(idx.Columns, name...)
	case "unique":
		bp.Unique(idx.Columns, name...)
	case "primary":
		bp.Primary(idx.Columns, name...)
	case "fulltext":
		bp.Fulltext(idx.Columns, name...)
	case "spatial":
		bp.SpatialIndex(idx.Columns, name...)
	default:
		return fmt.Errorf("tabledef: unknown index type %q", idx.Type)
	}
	return nil
}

func nonEmpty(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}
