package dialect

import "fmt"

var (
	ErrNoTable            = &Error{Message: "No table specified."}
	ErrEmptyBatch         = &Error{Message: "Cannot insert an empty batch."}
	ErrInconsistentBatch  = &Error{Message: "Every row of a batch insert must have the same columns."}
	ErrIllegalOperator    = &Error{Message: "Illegal operator and value combination."}
	ErrRowValuesArity     = &Error{Message: "The number of columns must match the number of values."}
	ErrEmptyUniqueBy      = &Error{Message: "Upsert requires at least one unique column."}
	ErrNullByte           = &Error{Message: "Strings with null bytes cannot be escaped. Use the binary escape option."}
	ErrUnknownCondition   = &Error{Message: "Unknown where clause variant."}
	ErrInvalidUpsertValue = &Error{Message: "Upsert update entries must be column names or assignments."}
	ErrNotInteger         = &Error{Message: "Integer where-in values must be integers."}
)

// Error is a compile error caused by a malformed query. The message is the
// exact text callers see.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// OperatorError reports an operator the dialect does not accept.
type OperatorError struct {
	Operator string
	Err      error
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("Illegal operator %q.", e.Operator)
}

func (e *OperatorError) Unwrap() error {
	return e.Err
}

// UnsupportedError reports a feature that has no rendering on a dialect.
type UnsupportedError struct {
	Driver  string
	Feature string
	// Message overrides the default text when the engine has its own wording.
	Message string
}

func (e *UnsupportedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "This database driver does not support " + e.Feature + "."
}

func unsupported(driver, feature string) error {
	return &UnsupportedError{Driver: driver, Feature: feature}
}

func unsupportedEngine(driver, feature, operation string) error {
	return &UnsupportedError{
		Driver:  driver,
		Feature: feature,
		Message: "This database engine does not support " + operation + ".",
	}
}
