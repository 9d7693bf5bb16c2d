package dialect

import (
	"context"
	"database/sql"
	"fmt"
)

// Executor is the subset of *sql.DB, *sql.Conn and *sql.Tx the processor
// needs.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Processor post-processes statement results that differ per engine.
type Processor struct {
	// returning engines read the generated key from a result row instead of
	// the driver's LastInsertId.
	returning bool
	// columnKey is the listing column holding the column name.
	columnKey string
}

// NewProcessor returns the processor matching g.
func NewProcessor(g *Grammar) *Processor {
	switch g.Name() {
	case "pgsql":
		return &Processor{returning: true, columnKey: "column_name"}
	case "sqlsrv":
		return &Processor{returning: true, columnKey: "name"}
	case "sqlite":
		return &Processor{columnKey: "name"}
	default:
		return &Processor{columnKey: "column_name"}
	}
}

// ProcessInsertGetID runs an insert compiled by CompileInsertGetID and
// returns the generated key. query must already use the driver placeholder
// style.
func (p *Processor) ProcessInsertGetID(ctx context.Context, exec Executor, query string, bindings []any, sequence string) (int64, error) {
	if p.returning {
		var id int64
		if err := exec.QueryRowContext(ctx, query, bindings...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := exec.ExecContext(ctx, query, bindings...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("dialect: reading generated key %q: %w", sequence, err)
	}
	return id, nil
}

// ProcessColumnListing extracts column names from the rows of a column
// listing query.
func (p *Processor) ProcessColumnListing(rows []map[string]any) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		switch v := row[p.columnKey].(type) {
		case string:
			out = append(out, v)
		case []byte:
			out = append(out, string(v))
		case nil:
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}
