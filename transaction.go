package ludb

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/Lupennat/ludb-sub002/dialect"
	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// Transaction is one database transaction. Builders created from it run on
// the same *sql.Tx. The closed flag is guarded by a mutex, but a Transaction
// is meant to be driven by one goroutine.
type Transaction struct {
	tx *sql.Tx
	db *DB

	mu     sync.Mutex
	closed bool
}

func newTransaction(db *DB, tx *sql.Tx) *Transaction {
	return &Transaction{tx: tx, db: db}
}

func (t *Transaction) runner() *runner {
	return &runner{
		exec:      t,
		grammar:   t.db.grammar,
		processor: t.db.processor,
		logger:    t.db.logger,
		slow:      t.db.slowThreshold,
	}
}

// Table starts a query against name inside the transaction.
//
//	tx, _ := db.Begin()
//	_, err := tx.Table("users").Where("id", "=", 1).Update(map[string]any{"active": false})
func (t *Transaction) Table(name string) *Builder {
	return newBuilder(t.runner()).Table(name)
}

// Schema returns a schema builder whose statements run in the transaction.
func (t *Transaction) Schema() *SchemaBuilder {
	return newSchemaBuilder(t.db, t.runner())
}

// Statement runs a statement inside the transaction.
func (t *Transaction) Statement(ctx context.Context, query string, bindings ...any) (sql.Result, error) {
	return t.runner().statement(ctx, query, bindings)
}

// Select runs a query inside the transaction.
func (t *Transaction) Select(ctx context.Context, query string, bindings ...any) ([]map[string]any, error) {
	return t.runner().selectRows(ctx, query, bindings)
}

// Commit makes the changes permanent. A second call returns
// ErrTransactionClosed.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTransactionClosed
	}
	t.closed = true

	if err := t.tx.Commit(); err != nil {
		return WrapError("commit transaction", err)
	}
	return nil
}

// Rollback discards the changes. It is idempotent.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return WrapError("rollback transaction", err)
	}
	return nil
}

// IsClosed reports whether Commit or Rollback was called.
func (t *Transaction) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Transaction) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTransactionClosed
	}
	return nil
}

// ExecContext runs query on the underlying transaction as is, without
// placeholder rebinding.
func (t *Transaction) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Transaction) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext on a closed transaction returns a row whose Scan fails
// with sql.ErrTxDone.
func (t *Transaction) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Grammar returns the query grammar of the transaction.
func (t *Transaction) Grammar() *dialect.Grammar {
	return t.db.grammar
}

// Savepoint creates a savepoint the transaction can roll back to.
func (t *Transaction) Savepoint(ctx context.Context, name string) error {
	if err := t.checkSavepoint(name); err != nil {
		return err
	}
	if _, err := t.runner().statement(ctx, t.db.grammar.CompileSavepoint(name), nil); err != nil {
		return WrapError("create savepoint", err)
	}
	return nil
}

// RollbackTo undoes the work done since the savepoint name.
func (t *Transaction) RollbackTo(ctx context.Context, name string) error {
	if err := t.checkSavepoint(name); err != nil {
		return err
	}
	if _, err := t.runner().statement(ctx, t.db.grammar.CompileSavepointRollBack(name), nil); err != nil {
		return WrapError("rollback to savepoint", err)
	}
	return nil
}

// ReleaseSavepoint forgets a savepoint. SQL Server has no release statement;
// its savepoints live until the transaction ends, so the call is a no-op.
func (t *Transaction) ReleaseSavepoint(ctx context.Context, name string) error {
	if err := t.checkSavepoint(name); err != nil {
		return err
	}
	if t.db.grammar.Name() == "sqlsrv" {
		return nil
	}
	if _, err := t.runner().statement(ctx, "RELEASE SAVEPOINT "+name, nil); err != nil {
		return WrapError("release savepoint", err)
	}
	return nil
}

func (t *Transaction) checkSavepoint(name string) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if name == "" {
		return ErrEmptySavepoint
	}
	if err := validation.ValidateIdentifier(name); err != nil {
		return err
	}
	return nil
}

// Tx returns the underlying *sql.Tx.
func (t *Transaction) Tx() *sql.Tx {
	return t.tx
}
