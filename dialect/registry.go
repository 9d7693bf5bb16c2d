package dialect

// Registry is the structured description of one query. It is filled by a
// builder and read by a Grammar. Every list keeps insertion order, which is
// also the order of the emitted SQL and bindings.
type Registry struct {
	// Columns entries are string, Expression, RawClause or Subquery. Nil
	// means "*".
	Columns         []any
	Distinct        bool
	DistinctColumns []string

	// From is a string, Expression, RawClause or Subquery.
	From any

	Joins   []*Join
	Wheres  []Where
	Groups  []any
	Havings []Where
	Orders  []Order

	Limit  *int
	Offset *int

	Unions      []Union
	UnionOrders []Order
	UnionLimit  *int
	UnionOffset *int

	Lock    LockMode
	LockRaw string

	Aggregate *Aggregate
}

// JoinType is the kind of a join clause.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
	JoinRight JoinType = "right"
	JoinCross JoinType = "cross"
)

// Join is one join with its own on/where conditions.
type Join struct {
	Type JoinType
	// Table is a string, Expression or Subquery.
	Table  any
	Wheres []Where
}

// OrderDirection is the sort direction of an order clause.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// Order is one order-by entry. Column is a string, Expression, Subquery or
// RawClause; a RawClause ignores Direction.
type Order struct {
	Column    any
	Direction OrderDirection
}

// Union is one member of a union chain.
type Union struct {
	Query *Registry
	All   bool
}

// Aggregate replaces the select list with an aggregate function.
type Aggregate struct {
	Function string
	Columns  []any
}

// LockMode is the pessimistic lock requested on a select.
type LockMode int

const (
	LockNone LockMode = iota
	LockForUpdate
	LockShared
	// LockCustom renders Registry.LockRaw verbatim.
	LockCustom
)

// Assignment is one column = value pair of an update or upsert.
type Assignment struct {
	Column string
	Value  any
}

// Clone returns a copy whose slices can be changed without touching r.
// Nested registries are shared; the compiler never mutates them.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}
	c := *r
	c.Columns = cloneSlice(r.Columns)
	c.DistinctColumns = cloneSlice(r.DistinctColumns)
	c.Joins = cloneSlice(r.Joins)
	c.Wheres = cloneSlice(r.Wheres)
	c.Groups = cloneSlice(r.Groups)
	c.Havings = cloneSlice(r.Havings)
	c.Orders = cloneSlice(r.Orders)
	c.Unions = cloneSlice(r.Unions)
	c.UnionOrders = cloneSlice(r.UnionOrders)
	if r.Aggregate != nil {
		agg := *r.Aggregate
		agg.Columns = cloneSlice(r.Aggregate.Columns)
		c.Aggregate = &agg
	}
	return &c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
