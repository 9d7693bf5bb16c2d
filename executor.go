package ludb

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Lupennat/ludb-sub002/dialect"
	"github.com/Lupennat/ludb-sub002/schema"
)

// Executor is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Statements written against it run unchanged inside or outside a
// transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
	_ Executor = (*Transaction)(nil)

	_ schema.Connection = (*DB)(nil)
)

// DB wraps a *sql.DB with the query and schema grammars of its driver.
// Every statement goes through the grammar's placeholder rebinding and is
// reported to the logger.
type DB struct {
	*sql.DB

	driver        string
	grammar       *dialect.Grammar
	schemaGrammar *schema.Grammar
	processor     *dialect.Processor
	logger        *slog.Logger

	prefix        string
	slowThreshold time.Duration
	schemaConfig  schema.Config
	database      string
	settings      map[string]string
}

// NewDB wraps db. driver selects the grammars (see dialect.Names); options
// can override them.
func NewDB(db *sql.DB, driver string, opts ...Option) (*DB, error) {
	d := &DB{
		DB:           db,
		driver:       driver,
		logger:       slog.Default(),
		schemaConfig: schema.DefaultConfig(),
	}
	applyOptions(d, opts)

	if d.grammar == nil {
		g, err := dialect.Lookup(driver)
		if err != nil {
			return nil, WrapError("query grammar", err)
		}
		d.grammar = g
	}
	if d.schemaGrammar == nil {
		g, err := schema.LookupGrammar(driver)
		if err != nil {
			return nil, WrapError("schema grammar", err)
		}
		d.schemaGrammar = g
	}
	d.grammar = d.grammar.WithTablePrefix(d.prefix)
	d.processor = dialect.NewProcessor(d.grammar)
	return d, nil
}

// Grammar returns the query grammar, carrying the table prefix.
func (d *DB) Grammar() *dialect.Grammar {
	return d.grammar
}

// SchemaGrammar returns the schema grammar.
func (d *DB) SchemaGrammar() *schema.Grammar {
	return d.schemaGrammar
}

// Processor returns the result processor of the driver.
func (d *DB) Processor() *dialect.Processor {
	return d.processor
}

func (d *DB) Logger() *slog.Logger {
	return d.logger
}

// DriverName returns the driver name the DB was created with.
func (d *DB) DriverName() string {
	return d.driver
}

// TablePrefix returns the prefix added to every table name.
func (d *DB) TablePrefix() string {
	return d.prefix
}

// DatabaseName returns the configured database name.
func (d *DB) DatabaseName() string {
	return d.database
}

// ConfigString returns a connection setting such as "charset" or "schema".
func (d *DB) ConfigString(key string) string {
	return d.settings[key]
}

// SchemaConfig returns the Blueprint defaults.
func (d *DB) SchemaConfig() schema.Config {
	return d.schemaConfig
}

func (d *DB) runner() *runner {
	return &runner{
		exec:      d.DB,
		grammar:   d.grammar,
		processor: d.processor,
		logger:    d.logger,
		slow:      d.slowThreshold,
	}
}

// Table starts a query against name.
func (d *DB) Table(name string) *Builder {
	return newBuilder(d.runner()).Table(name)
}

// Query starts a query without a table, for use with FromSub or FromRaw.
func (d *DB) Query() *Builder {
	return newBuilder(d.runner())
}

// Schema returns a schema builder over this connection.
func (d *DB) Schema() *SchemaBuilder {
	return newSchemaBuilder(d, d.runner())
}

// Statement runs a statement and returns the driver result.
func (d *DB) Statement(ctx context.Context, query string, bindings ...any) (sql.Result, error) {
	return d.runner().statement(ctx, query, bindings)
}

// Affecting runs a statement and returns the number of affected rows.
func (d *DB) Affecting(ctx context.Context, query string, bindings ...any) (int64, error) {
	return d.runner().affecting(ctx, query, bindings)
}

// Select runs a query and returns its rows keyed by column name.
func (d *DB) Select(ctx context.Context, query string, bindings ...any) ([]map[string]any, error) {
	return d.runner().selectRows(ctx, query, bindings)
}

// BeginTx starts a transaction.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Transaction, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, WrapError("begin transaction", err)
	}
	return newTransaction(d, tx), nil
}

// Begin starts a transaction with default options.
func (d *DB) Begin() (*Transaction, error) {
	return d.BeginTx(context.Background(), nil)
}

// Transaction runs fn inside a transaction. It commits when fn returns nil
// and rolls back when fn returns an error or panics.
func (d *DB) Transaction(ctx context.Context, fn func(*Transaction) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return WrapError("rollback after error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (d *DB) Close() error {
	return d.DB.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// runner executes compiled statements for a DB or a Transaction. Queries
// arrive with ? placeholders and are rebound right before execution.
type runner struct {
	exec      Executor
	grammar   *dialect.Grammar
	processor *dialect.Processor
	logger    *slog.Logger
	slow      time.Duration
}

func (r *runner) run(ctx context.Context, query string, bindings []any, fn func(native string) error) error {
	return r.runAs(ctx, r.grammar.Rebind(query), query, bindings, fn)
}

// runAs executes native, reporting it as query.
func (r *runner) runAs(ctx context.Context, native, query string, bindings []any, fn func(native string) error) error {
	start := time.Now()
	err := fn(native)
	r.log(ctx, query, bindings, time.Since(start), err)
	if err != nil {
		return NewQueryError(r.grammar, query, bindings, err)
	}
	return nil
}

func (r *runner) log(ctx context.Context, query string, bindings []any, elapsed time.Duration, err error) {
	attrs := []any{
		slog.String("sql", query),
		slog.Any("bindings", bindings),
		slog.Duration("duration", elapsed),
	}
	switch {
	case err != nil:
		r.logger.ErrorContext(ctx, "query failed", append(attrs, slog.Any("error", err))...)
	case r.slow > 0 && elapsed >= r.slow:
		r.logger.WarnContext(ctx, "slow query detected", attrs...)
	default:
		r.logger.DebugContext(ctx, "query executed", attrs...)
	}
}

func (r *runner) statement(ctx context.Context, query string, bindings []any) (sql.Result, error) {
	var res sql.Result
	err := r.run(ctx, query, bindings, func(native string) error {
		var err error
		res, err = r.exec.ExecContext(ctx, native, bindings...)
		return err
	})
	return res, err
}

// unprepared runs DDL as written. Schema statements may carry literal
// question marks that must not be rebound.
func (r *runner) unprepared(ctx context.Context, query string) error {
	return r.runAs(ctx, query, query, nil, func(native string) error {
		_, err := r.exec.ExecContext(ctx, native)
		return err
	})
}

func (r *runner) affecting(ctx context.Context, query string, bindings []any) (int64, error) {
	res, err := r.statement(ctx, query, bindings)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, WrapError("rows affected", err)
	}
	return n, nil
}

func (r *runner) selectRows(ctx context.Context, query string, bindings []any) ([]map[string]any, error) {
	var out []map[string]any
	err := r.run(ctx, query, bindings, func(native string) error {
		rows, err := r.exec.QueryContext(ctx, native, bindings...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanMaps(rows)
		return err
	})
	return out, err
}

func (r *runner) insertGetID(ctx context.Context, query string, bindings []any, sequence string) (int64, error) {
	var id int64
	err := r.run(ctx, query, bindings, func(native string) error {
		var err error
		id, err = r.processor.ProcessInsertGetID(ctx, r.exec, native, bindings, sequence)
		return err
	})
	return id, err
}

// scanMaps reads every row into a map keyed by column name.
func scanMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
