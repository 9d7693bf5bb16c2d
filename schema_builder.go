package ludb

import (
	"context"
	"strings"

	"github.com/Lupennat/ludb-sub002/schema"
)

// SchemaBuilder runs Blueprints and schema inspection queries against a
// connection.
//
//	err := db.Schema().Create(ctx, "users", func(t *schema.Blueprint) {
//	    t.ID()
//	    t.String("email").Unique()
//	    t.Timestamps()
//	})
type SchemaBuilder struct {
	db      *DB
	run     *runner
	grammar *schema.Grammar
}

func newSchemaBuilder(db *DB, r *runner) *SchemaBuilder {
	return &SchemaBuilder{db: db, run: r, grammar: db.schemaGrammar}
}

// Blueprint returns an empty blueprint carrying the connection prefix and
// schema config.
func (s *SchemaBuilder) Blueprint(table string) (*schema.Blueprint, error) {
	return schema.NewBlueprint(table, schema.WithPrefix(s.db.prefix), schema.WithConfig(s.db.schemaConfig))
}

// Build compiles bp and runs its statements in order.
func (s *SchemaBuilder) Build(ctx context.Context, bp *schema.Blueprint) error {
	statements, err := bp.ToSQL(s.db, s.grammar)
	if err != nil {
		return err
	}
	for _, statement := range statements {
		if err := s.run.unprepared(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (s *SchemaBuilder) build(ctx context.Context, table string, fn func(*schema.Blueprint)) error {
	bp, err := s.Blueprint(table)
	if err != nil {
		return err
	}
	fn(bp)
	return s.Build(ctx, bp)
}

// Create creates table with the columns declared by fn.
func (s *SchemaBuilder) Create(ctx context.Context, table string, fn func(*schema.Blueprint)) error {
	return s.build(ctx, table, func(bp *schema.Blueprint) {
		bp.Create()
		fn(bp)
	})
}

// Table alters an existing table.
func (s *SchemaBuilder) Table(ctx context.Context, table string, fn func(*schema.Blueprint)) error {
	return s.build(ctx, table, fn)
}

func (s *SchemaBuilder) Drop(ctx context.Context, table string) error {
	return s.build(ctx, table, func(bp *schema.Blueprint) { bp.Drop() })
}

func (s *SchemaBuilder) DropIfExists(ctx context.Context, table string) error {
	return s.build(ctx, table, func(bp *schema.Blueprint) { bp.DropIfExists() })
}

// Rename renames a table.
func (s *SchemaBuilder) Rename(ctx context.Context, from, to string) error {
	return s.build(ctx, from, func(bp *schema.Blueprint) { bp.Rename(to) })
}

// DropColumns drops columns from table.
func (s *SchemaBuilder) DropColumns(ctx context.Context, table string, columns ...string) error {
	return s.build(ctx, table, func(bp *schema.Blueprint) { bp.DropColumn(columns...) })
}

// ----------------------------------------------------------------------------
// Inspection
// ----------------------------------------------------------------------------

// HasTable reports whether table exists.
func (s *SchemaBuilder) HasTable(ctx context.Context, table string) (bool, error) {
	sql, err := s.grammar.CompileTableExists()
	if err != nil {
		return false, err
	}
	rows, err := s.run.selectRows(ctx, sql, s.tableBindings(table))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// GetColumnListing returns the column names of table.
func (s *SchemaBuilder) GetColumnListing(ctx context.Context, table string) ([]string, error) {
	sql, err := s.grammar.CompileColumnListing(s.db.prefix + table)
	if err != nil {
		return nil, err
	}
	var bindings []any
	switch s.grammar.Name() {
	case "mysql", "pgsql":
		bindings = s.tableBindings(table)
	}
	rows, err := s.run.selectRows(ctx, sql, bindings)
	if err != nil {
		return nil, err
	}
	return s.db.processor.ProcessColumnListing(rows), nil
}

// HasColumn reports whether table has column. Names compare case
// insensitively.
func (s *SchemaBuilder) HasColumn(ctx context.Context, table, column string) (bool, error) {
	return s.HasColumns(ctx, table, column)
}

// HasColumns reports whether table has every one of columns.
func (s *SchemaBuilder) HasColumns(ctx context.Context, table string, columns ...string) (bool, error) {
	listing, err := s.GetColumnListing(ctx, table)
	if err != nil {
		return false, err
	}
	have := make(map[string]bool, len(listing))
	for _, c := range listing {
		have[strings.ToLower(c)] = true
	}
	for _, c := range columns {
		if !have[strings.ToLower(c)] {
			return false, nil
		}
	}
	return true, nil
}

// GetAllTables returns the rows of the engine's table listing.
func (s *SchemaBuilder) GetAllTables(ctx context.Context) ([]map[string]any, error) {
	sql, err := s.grammar.CompileGetAllTables(s.db)
	if err != nil {
		return nil, err
	}
	return s.run.selectRows(ctx, sql, nil)
}

// GetTableNames returns the names of the tables GetAllTables lists.
func (s *SchemaBuilder) GetTableNames(ctx context.Context) ([]string, error) {
	rows, err := s.GetAllTables(ctx)
	if err != nil {
		return nil, err
	}
	return tableNames(rows), nil
}

// DropAllTables drops every table of the database. MySQL runs the drop
// with foreign key checks disabled; PostgreSQL keeps spatial_ref_sys.
func (s *SchemaBuilder) DropAllTables(ctx context.Context) error {
	switch s.grammar.Name() {
	case "sqlite", "sqlsrv":
		statements, err := s.grammar.CompileDropAllTables(nil)
		if err != nil {
			return err
		}
		return s.runAll(ctx, statements)
	}

	tables, err := s.GetTableNames(ctx)
	if err != nil {
		return err
	}
	if s.grammar.Name() == "pgsql" {
		tables = without(tables, "spatial_ref_sys")
	}
	if len(tables) == 0 {
		return nil
	}
	statements, err := s.grammar.CompileDropAllTables(tables)
	if err != nil {
		return err
	}
	if s.grammar.Name() != "mysql" {
		return s.runAll(ctx, statements)
	}
	return s.WithoutForeignKeyConstraints(ctx, func() error {
		return s.runAll(ctx, statements)
	})
}

func (s *SchemaBuilder) runAll(ctx context.Context, statements []string) error {
	for _, statement := range statements {
		if err := s.run.unprepared(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// CreateDatabase creates a database with the connection charset and
// collation.
func (s *SchemaBuilder) CreateDatabase(ctx context.Context, name string) error {
	sql, err := s.grammar.CompileCreateDatabase(name, s.db)
	if err != nil {
		return err
	}
	return s.run.unprepared(ctx, sql)
}

func (s *SchemaBuilder) DropDatabaseIfExists(ctx context.Context, name string) error {
	sql, err := s.grammar.CompileDropDatabaseIfExists(name)
	if err != nil {
		return err
	}
	return s.run.unprepared(ctx, sql)
}

func (s *SchemaBuilder) EnableForeignKeyConstraints(ctx context.Context) error {
	sql, err := s.grammar.CompileEnableForeignKeyConstraints()
	if err != nil {
		return err
	}
	return s.run.unprepared(ctx, sql)
}

func (s *SchemaBuilder) DisableForeignKeyConstraints(ctx context.Context) error {
	sql, err := s.grammar.CompileDisableForeignKeyConstraints()
	if err != nil {
		return err
	}
	return s.run.unprepared(ctx, sql)
}

// WithoutForeignKeyConstraints runs fn with constraints disabled and
// enables them again afterwards, even when fn fails.
func (s *SchemaBuilder) WithoutForeignKeyConstraints(ctx context.Context, fn func() error) error {
	if err := s.DisableForeignKeyConstraints(ctx); err != nil {
		return err
	}
	fnErr := fn()
	if err := s.EnableForeignKeyConstraints(ctx); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

// tableBindings returns the bindings of the table existence query. MySQL
// binds database and table; PostgreSQL database, schema and table, where
// "schema.table" and "database.schema.table" override the defaults.
func (s *SchemaBuilder) tableBindings(table string) []any {
	switch s.grammar.Name() {
	case "mysql":
		return []any{s.db.database, s.db.prefix + table}
	case "pgsql":
		database, schemaName := s.db.database, s.searchPath()
		parts := strings.Split(table, ".")
		switch len(parts) {
		case 3:
			database, schemaName, table = parts[0], parts[1], parts[2]
		case 2:
			schemaName, table = parts[0], parts[1]
		}
		return []any{database, schemaName, s.db.prefix + table}
	default:
		return []any{s.db.prefix + table}
	}
}

// searchPath returns the first schema of the configured search path.
func (s *SchemaBuilder) searchPath() string {
	for _, p := range strings.Split(s.db.ConfigString("schema"), ",") {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		if p == "" {
			continue
		}
		if p == "$user" {
			if user := s.db.ConfigString("username"); user != "" {
				return user
			}
			continue
		}
		return p
	}
	return "public"
}

// tableNames reads the table name out of table listing rows.
func tableNames(rows []map[string]any) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		name, ok := row["tablename"]
		if !ok {
			name, ok = row["name"]
		}
		if !ok {
			for k, v := range row {
				if strings.HasPrefix(k, "Tables_in_") {
					name, ok = v, true
					break
				}
			}
		}
		if !ok {
			continue
		}
		switch v := name.(type) {
		case string:
			out = append(out, v)
		case []byte:
			out = append(out, string(v))
		}
	}
	return out
}

func without(values []string, drop string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}
