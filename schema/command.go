package schema

// CommandName tags a blueprint command. Each name maps to one compiler
// method of the schema Grammar.
type CommandName string

const (
	CommandCreate                      CommandName = "create"
	CommandDrop                        CommandName = "drop"
	CommandDropIfExists                CommandName = "dropIfExists"
	CommandAdd                         CommandName = "add"
	CommandChange                      CommandName = "change"
	CommandRename                      CommandName = "rename"
	CommandRenameColumn                CommandName = "renameColumn"
	CommandDropColumn                  CommandName = "dropColumn"
	CommandPrimary                     CommandName = "primary"
	CommandUnique                      CommandName = "unique"
	CommandIndex                       CommandName = "index"
	CommandFulltext                    CommandName = "fulltext"
	CommandSpatialIndex                CommandName = "spatialIndex"
	CommandForeign                     CommandName = "foreign"
	CommandDropPrimary                 CommandName = "dropPrimary"
	CommandDropUnique                  CommandName = "dropUnique"
	CommandDropIndex                   CommandName = "dropIndex"
	CommandDropFulltext                CommandName = "dropFulltext"
	CommandDropSpatialIndex            CommandName = "dropSpatialIndex"
	CommandDropForeign                 CommandName = "dropForeign"
	CommandRenameIndex                 CommandName = "renameIndex"
	CommandTableComment                CommandName = "tableComment"
	CommandComment                     CommandName = "comment"
	CommandDefault                     CommandName = "default"
	CommandAutoIncrementStartingValues CommandName = "autoIncrementStartingValues"
)

// addCommandFor maps an index kind to the command that creates it.
var addCommandFor = map[IndexKind]CommandName{
	IndexPrimary:  CommandPrimary,
	IndexUnique:   CommandUnique,
	IndexPlain:    CommandIndex,
	IndexFulltext: CommandFulltext,
	IndexSpatial:  CommandSpatialIndex,
}

// dropCommandFor maps an index kind to the command that removes it.
var dropCommandFor = map[IndexKind]CommandName{
	IndexPrimary:  CommandDropPrimary,
	IndexUnique:   CommandDropUnique,
	IndexPlain:    CommandDropIndex,
	IndexFulltext: CommandDropFulltext,
	IndexSpatial:  CommandDropSpatialIndex,
}

// Command is one blueprint command. Which fields are meaningful depends on
// Name; the grammar reads them and never writes.
type Command struct {
	Name CommandName

	// Index commands.
	Index     string
	Columns   []string
	Algorithm string
	Language  string

	// Foreign keys.
	On                 string
	References         []string
	OnDelete           string
	OnUpdate           string
	Deferrable         *bool
	InitiallyImmediate *bool
	NotValid           bool

	// rename, renameColumn, renameIndex.
	From string
	To   string

	// tableComment.
	Comment string

	// Fluent per-column commands (comment, default, autoIncrementStartingValues).
	Column *ColumnDefinition
}

func (c *Command) clone() *Command {
	cp := *c
	cp.Columns = append([]string(nil), c.Columns...)
	cp.References = append([]string(nil), c.References...)
	return &cp
}

// IndexDefinition tunes an index command.
type IndexDefinition struct {
	cmd *Command
}

// Algorithm sets the index method ("btree", "hash", "gist", ...).
func (d *IndexDefinition) Algorithm(algorithm string) *IndexDefinition {
	d.cmd.Algorithm = algorithm
	return d
}

// Language sets the text search configuration of a PostgreSQL fulltext index.
func (d *IndexDefinition) Language(language string) *IndexDefinition {
	d.cmd.Language = language
	return d
}

// Deferrable marks a unique constraint deferrable (PostgreSQL).
func (d *IndexDefinition) Deferrable(value ...bool) *IndexDefinition {
	d.cmd.Deferrable = boolArg(value)
	return d
}

// InitiallyImmediate sets the initial constraint check time (PostgreSQL).
func (d *IndexDefinition) InitiallyImmediate(value ...bool) *IndexDefinition {
	d.cmd.InitiallyImmediate = boolArg(value)
	return d
}

// Command exposes the underlying command.
func (d *IndexDefinition) Command() *Command { return d.cmd }

func boolArg(value []bool) *bool {
	v := true
	if len(value) > 0 {
		v = value[0]
	}
	return &v
}
