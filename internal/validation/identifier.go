package validation

import (
	"regexp"
	"strings"
)

// tableRegex accepts an optional schema segment: "users" or "public.users".
var tableRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*(\.[a-zA-Z_][a-zA-Z0-9_$]*)?$`)

// identifierRegex accepts a single unquoted name.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// aliasRegex matches "<expr> as <alias>" case-insensitively.
var aliasRegex = regexp.MustCompile(`(?i)\s+as\s+`)

// ValidateTableName checks a table name handed to a schema blueprint.
func ValidateTableName(name string) error {
	if name == "" {
		return &IdentifierError{Identifier: name, Reason: "table name cannot be empty"}
	}
	if len(name) > 128 {
		return &IdentifierError{Identifier: name, Reason: "identifier exceeds maximum length of 128 characters"}
	}
	if !tableRegex.MatchString(name) {
		return &IdentifierError{
			Identifier: name,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and one dot are allowed",
		}
	}
	return nil
}

// ValidateIdentifier checks a bare name that is written into SQL without
// quoting, such as a savepoint name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return &IdentifierError{Identifier: name, Reason: "identifier cannot be empty"}
	}
	if len(name) > 128 {
		return &IdentifierError{Identifier: name, Reason: "identifier exceeds maximum length of 128 characters"}
	}
	if !identifierRegex.MatchString(name) {
		return &IdentifierError{
			Identifier: name,
			Reason:     "identifier contains invalid characters; only letters, numbers and underscores are allowed",
		}
	}
	return nil
}

// SplitAlias splits "users as u" into ("users", "u", true).
func SplitAlias(value string) (name, alias string, ok bool) {
	loc := aliasRegex.FindStringIndex(value)
	if loc == nil {
		return value, "", false
	}
	return value[:loc[0]], value[loc[1]:], true
}

// LastAlias returns the alias of "x as y", or the value itself.
func LastAlias(value string) string {
	parts := aliasRegex.Split(value, -1)
	return parts[len(parts)-1]
}

// IsJSONSelector reports whether value uses the arrow path syntax.
func IsJSONSelector(value string) bool {
	return strings.Contains(value, "->")
}

// IdentifierError reports a malformed identifier.
type IdentifierError struct {
	Identifier string
	Reason     string
}

func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "ludb: invalid identifier: " + e.Reason
	}
	return "ludb: invalid identifier '" + e.Identifier + "': " + e.Reason
}
