// Package ludb is a fluent SQL query builder and schema builder for MySQL,
// PostgreSQL, SQLite and SQL Server.
//
// Queries are collected into a dialect.Registry and compiled by the grammar
// of the connection, so the same builder code renders the right quoting,
// placeholders and clause shapes for every engine.
//
// # Quick Start
//
//	db, err := ludb.Connect("mysql", "user:pass@tcp(localhost:3306)/app?parseTime=true")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	users, err := db.Table("users").
//	    Select("id", "name", "email").
//	    Where("status", "=", "active").
//	    OrderBy("created_at", "desc").
//	    Limit(10).
//	    GetContext(ctx)
//
// A builder created with NewBuilder has no connection and only compiles:
//
//	sql, bindings, err := ludb.NewBuilder(dialect.Postgres()).
//	    Table("users").
//	    WhereIn("id", []any{1, 2, 3}).
//	    ToSQL()
//
// # Where Clauses
//
//	q.Where("age", ">", 18)
//	q.OrWhere("role", "=", "admin")
//	q.WhereIn("status", []any{"active", "pending"})
//	q.WhereBetween("created_at", start, end)
//	q.WhereNull("deleted_at")
//	q.WhereNested(func(q *ludb.Builder) {
//	    q.Where("a", "=", 1).OrWhere("b", "=", 2)
//	})
//
// # Writes
//
//	id, err := db.Table("users").InsertGetID(map[string]any{"name": "John"}, "id")
//	n, err := db.Table("users").Where("id", "=", id).Update(map[string]any{"name": "Jane"})
//	n, err = db.Table("users").Where("status", "=", "banned").Delete()
//
// # Transactions
//
//	err := db.Transaction(ctx, func(tx *ludb.Transaction) error {
//	    if _, err := tx.Table("accounts").Where("id", "=", 1).DecrementContext(ctx, "balance", 10, nil); err != nil {
//	        return err
//	    }
//	    _, err := tx.Table("accounts").Where("id", "=", 2).IncrementContext(ctx, "balance", 10, nil)
//	    return err
//	})
//
// # Schema
//
//	err := db.Schema().Create(ctx, "users", func(t *schema.Blueprint) {
//	    t.ID()
//	    t.String("email").Unique()
//	    t.Timestamps()
//	})
//
// # Security
//
// Values are always sent as bindings. Identifiers are quoted by the
// grammar and operators are checked against the grammar's list, so an
// unknown operator is reported as an error instead of being rendered.
//
// # Thread Safety
//
// DB is safe for concurrent use. Builder is not; create one per query.
package ludb
