package ludb

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Version is the current library version.
const Version = "0.1.0"

// Connect opens a connection with a registered database/sql driver ("mysql",
// "pgx", "sqlite" or "sqlserver"), pings it and picks the grammars from the
// driver name.
//
//	db, err := ludb.Connect("mysql", "user:pass@tcp(localhost:3306)/app?parseTime=true")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func Connect(driverName, dataSourceName string, opts ...Option) (*DB, error) {
	return open(context.Background(), driverName, driverName, dataSourceName, opts)
}

// ConnectWithConfig opens the connection described by cfg and applies its
// pool limits. Options derived from cfg are applied before opts.
//
//	cfg, err := ludb.LoadConfig("database.yaml")
//	...
//	db, err := ludb.ConnectWithConfig(cfg, ludb.WithLogger(logger))
func ConnectWithConfig(cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	driverName, err := cfg.DriverName()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := open(context.Background(), driverName, cfg.Driver, dsn, append(cfg.Options(), opts...))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.DB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.DB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.DB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.DB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return db, nil
}

// open opens driverName and wraps it with the grammars of grammarName.
func open(ctx context.Context, driverName, grammarName, dsn string, opts []Option) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, WrapError("connect", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, WrapError("ping", err)
	}
	db, err := NewDB(sqlDB, grammarName, opts...)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
