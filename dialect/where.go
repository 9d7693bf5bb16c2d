package dialect

// Boolean is the connector placed before a where clause.
type Boolean string

const (
	And Boolean = "and"
	Or  Boolean = "or"
)

// Where is one entry of a where or having list.
type Where struct {
	Boolean   Boolean
	Not       bool
	Condition Condition
}

// Condition is the closed set of where variants. Only the types in this
// file implement it.
type Condition interface {
	condition()
}

// WhereBasic compares a column with a value. A *Registry value is compiled
// as a sub-select.
type WhereBasic struct {
	Column   any
	Operator string
	Value    any
}

// WhereNested groups the wheres of Query in parentheses.
type WhereNested struct {
	Query *Registry
}

// WhereExists checks for rows in a sub-select.
type WhereExists struct {
	Query *Registry
}

// WhereIn matches a column against a value list or a sub-select. Integer
// inlines the values as integer literals instead of binding them.
type WhereIn struct {
	Column  any
	Values  []any
	Query   *Registry
	Integer bool
}

// WhereNull checks a column for null.
type WhereNull struct {
	Column any
}

// WhereBetween checks a column against a range. When Columns is set the
// bounds are column names.
type WhereBetween struct {
	Column  any
	Values  [2]any
	Columns bool
}

// WhereColumn compares two columns.
type WhereColumn struct {
	First    string
	Operator string
	Second   string
}

// WhereRaw is a raw predicate with its own bindings.
type WhereRaw struct {
	SQL      string
	Bindings []any
}

// DatePart selects which part of a temporal column is compared.
type DatePart string

const (
	PartDate  DatePart = "date"
	PartTime  DatePart = "time"
	PartDay   DatePart = "day"
	PartMonth DatePart = "month"
	PartYear  DatePart = "year"
)

// WhereDatePart compares one part of a temporal column.
type WhereDatePart struct {
	Part     DatePart
	Column   any
	Operator string
	Value    any
}

// WhereJsonContains checks that a JSON document contains Value.
type WhereJsonContains struct {
	Column string
	Value  any
}

// WhereJsonContainsKey checks that a JSON path exists.
type WhereJsonContainsKey struct {
	Column string
}

// WhereJsonLength compares the length of a JSON array.
type WhereJsonLength struct {
	Column   string
	Operator string
	Value    any
}

// FulltextOptions tune a full text predicate. Mode is "natural" (default),
// "boolean", "plain", "phrase" or "websearch" depending on the engine.
type FulltextOptions struct {
	Mode     string
	Language string
	Expanded bool
}

// WhereFulltext is a full text search over Columns.
type WhereFulltext struct {
	Columns []string
	Value   string
	Options FulltextOptions
}

// WhereRowValues compares a tuple of columns with a tuple of values.
type WhereRowValues struct {
	Columns  []string
	Operator string
	Values   []any
}

func (WhereBasic) condition()           {}
func (WhereNested) condition()          {}
func (WhereExists) condition()          {}
func (WhereIn) condition()              {}
func (WhereNull) condition()            {}
func (WhereBetween) condition()         {}
func (WhereColumn) condition()          {}
func (WhereRaw) condition()             {}
func (WhereDatePart) condition()        {}
func (WhereJsonContains) condition()    {}
func (WhereJsonContainsKey) condition() {}
func (WhereJsonLength) condition()      {}
func (WhereFulltext) condition()        {}
func (WhereRowValues) condition()       {}
