package ludb

import (
	"log/slog"
	"time"

	"github.com/Lupennat/ludb-sub002/dialect"
	"github.com/Lupennat/ludb-sub002/schema"
)

// Option configures a DB. Options are applied in order by NewDB.
type Option func(*DB)

// WithGrammar overrides the query grammar picked from the driver name.
//
// Example:
//
//	db := ludb.NewDB(sqlDB, "pgx", ludb.WithGrammar(dialect.Postgres()))
func WithGrammar(g *dialect.Grammar) Option {
	return func(d *DB) {
		d.grammar = g
	}
}

// WithSchemaGrammar overrides the schema grammar picked from the driver name.
func WithSchemaGrammar(g *schema.Grammar) Option {
	return func(d *DB) {
		d.schemaGrammar = g
	}
}

// WithLogger sets the structured logger statements are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTablePrefix prefixes every table name the builders render.
//
//	db := ludb.NewDB(sqlDB, "mysql", ludb.WithTablePrefix("app_"))
//	// db.Table("users") renders `app_users`
func WithTablePrefix(prefix string) Option {
	return func(d *DB) {
		d.prefix = prefix
	}
}

// WithSlowQueryThreshold logs statements slower than threshold at warn
// level. Zero disables the check.
func WithSlowQueryThreshold(threshold time.Duration) Option {
	return func(d *DB) {
		d.slowThreshold = threshold
	}
}

// WithSchemaConfig sets the Blueprint defaults used by the schema builder.
func WithSchemaConfig(cfg schema.Config) Option {
	return func(d *DB) {
		d.schemaConfig = cfg
	}
}

// WithDatabaseName sets the database name the schema builder binds into
// listing queries.
func WithDatabaseName(name string) Option {
	return func(d *DB) {
		d.database = name
	}
}

// WithSettings sets connection settings read by schema grammars, such as
// charset, collation, engine and schema.
func WithSettings(settings map[string]string) Option {
	return func(d *DB) {
		d.settings = settings
	}
}

func applyOptions(d *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}
