package schema

import (
	"strings"

	"github.com/go-openapi/inflect"
)

var rules = inflect.NewDefaultRuleset()

// ForeignKeyDefinition tunes a foreign key command.
type ForeignKeyDefinition struct {
	cmd *Command
}

// References sets the referenced columns.
func (f *ForeignKeyDefinition) References(columns ...string) *ForeignKeyDefinition {
	f.cmd.References = columns
	return f
}

// On sets the referenced table.
func (f *ForeignKeyDefinition) On(table string) *ForeignKeyDefinition {
	f.cmd.On = table
	return f
}

// OnDelete sets the referential action on delete.
func (f *ForeignKeyDefinition) OnDelete(action string) *ForeignKeyDefinition {
	f.cmd.OnDelete = action
	return f
}

// OnUpdate sets the referential action on update.
func (f *ForeignKeyDefinition) OnUpdate(action string) *ForeignKeyDefinition {
	f.cmd.OnUpdate = action
	return f
}

func (f *ForeignKeyDefinition) CascadeOnDelete() *ForeignKeyDefinition  { return f.OnDelete("cascade") }
func (f *ForeignKeyDefinition) RestrictOnDelete() *ForeignKeyDefinition { return f.OnDelete("restrict") }
func (f *ForeignKeyDefinition) NullOnDelete() *ForeignKeyDefinition     { return f.OnDelete("set null") }
func (f *ForeignKeyDefinition) NoActionOnDelete() *ForeignKeyDefinition { return f.OnDelete("no action") }
func (f *ForeignKeyDefinition) CascadeOnUpdate() *ForeignKeyDefinition  { return f.OnUpdate("cascade") }
func (f *ForeignKeyDefinition) RestrictOnUpdate() *ForeignKeyDefinition { return f.OnUpdate("restrict") }
func (f *ForeignKeyDefinition) NullOnUpdate() *ForeignKeyDefinition     { return f.OnUpdate("set null") }
func (f *ForeignKeyDefinition) NoActionOnUpdate() *ForeignKeyDefinition { return f.OnUpdate("no action") }

// Deferrable marks the constraint deferrable (PostgreSQL).
func (f *ForeignKeyDefinition) Deferrable(value ...bool) *ForeignKeyDefinition {
	f.cmd.Deferrable = boolArg(value)
	return f
}

// InitiallyImmediate sets the initial constraint check time (PostgreSQL).
func (f *ForeignKeyDefinition) InitiallyImmediate(value ...bool) *ForeignKeyDefinition {
	f.cmd.InitiallyImmediate = boolArg(value)
	return f
}

// NotValid skips validation of existing rows (PostgreSQL).
func (f *ForeignKeyDefinition) NotValid() *ForeignKeyDefinition {
	f.cmd.NotValid = true
	return f
}

// Command exposes the underlying command.
func (f *ForeignKeyDefinition) Command() *Command { return f.cmd }

// ForeignIDColumnDefinition is a key column that can declare its own
// foreign key.
type ForeignIDColumnDefinition struct {
	*ColumnDefinition
	bp *Blueprint
}

// Constrained adds a foreign key on the column. An empty table is derived
// from the column name: "user_id" references "users"."id".
func (c *ForeignIDColumnDefinition) Constrained(table string, column ...string) *ForeignKeyDefinition {
	ref := "id"
	if len(column) > 0 && column[0] != "" {
		ref = column[0]
	}
	if table == "" {
		table = rules.Pluralize(strings.TrimSuffix(c.name, "_"+ref))
	}
	return c.References(ref).On(table)
}

// References adds a foreign key on the column referencing column.
func (c *ForeignIDColumnDefinition) References(column string) *ForeignKeyDefinition {
	return c.bp.Foreign([]string{c.name}).References(column)
}

// Nullable is ColumnDefinition.Nullable kept chainable with Constrained.
func (c *ForeignIDColumnDefinition) Nullable(value ...bool) *ForeignIDColumnDefinition {
	c.ColumnDefinition.Nullable(value...)
	return c
}

// Comment is ColumnDefinition.Comment kept chainable with Constrained.
func (c *ForeignIDColumnDefinition) Comment(comment string) *ForeignIDColumnDefinition {
	c.ColumnDefinition.Comment(comment)
	return c
}
