package ludb

import (
	"errors"
	"fmt"

	"github.com/Lupennat/ludb-sub002/dialect"
)

// Sentinel errors for ludb.
// These errors can be checked using errors.Is().
var (
	// ErrNoRows is returned by First when the query matched nothing.
	ErrNoRows = errors.New("ludb: no rows in result set")

	// ErrNoExecutor is returned when a terminal is called on a builder that
	// was created without a connection.
	ErrNoExecutor = errors.New("ludb: builder has no connection")

	// ErrTransactionClosed is returned when trying to use a closed transaction.
	ErrTransactionClosed = errors.New("ludb: transaction already closed")

	// ErrEmptySavepoint is returned when a savepoint name is empty.
	ErrEmptySavepoint = errors.New("ludb: savepoint name cannot be empty")

	// ErrUnknownDriver is returned when a config names no known driver.
	ErrUnknownDriver = errors.New("ludb: unknown driver")
)

// QueryError wraps a failed statement. SQL is the statement as sent to the
// driver; the message shows it with the bindings inlined.
type QueryError struct {
	SQL      string
	Bindings []any
	Raw      string
	Err      error
}

func (e *QueryError) Error() string {
	query := e.Raw
	if query == "" {
		query = e.SQL
	}
	return fmt.Sprintf("ludb: %v (SQL: %s)", e.Err, query)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError builds a QueryError, inlining bindings with g when possible.
func NewQueryError(g *dialect.Grammar, query string, bindings []any, err error) *QueryError {
	qe := &QueryError{SQL: query, Bindings: bindings, Err: err}
	if g != nil {
		if raw, rawErr := g.SubstituteBindingsIntoRawSQL(query, bindings); rawErr == nil {
			qe.Raw = raw
		}
	}
	return qe
}

// WrapError annotates err with the operation that failed.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ludb: %s: %w", op, err)
}
