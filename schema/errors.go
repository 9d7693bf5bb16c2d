package schema

import "github.com/Lupennat/ludb-sub002/dialect"

var (
	ErrDropForeignUnsupported = &Error{Message: "SQLite doesn't support dropping foreign keys (you would need to re-create the table)."}
	ErrUnknownCommand         = &Error{Message: "Unknown blueprint command."}
	ErrNoColumns              = &Error{Message: "An index requires at least one column."}
	ErrMissingReferences      = &Error{Message: "A foreign key requires a referenced table and columns."}
)

// Error is a schema compile error. The message is the exact text callers see.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// unsupported reports a feature a schema grammar cannot render. It shares
// the query compiler's error type so callers match both with errors.As.
func unsupported(driver, feature string) error {
	return &dialect.UnsupportedError{Driver: driver, Feature: feature}
}
