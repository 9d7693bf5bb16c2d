package ludb

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// QueryResult wraps sql.Result so callers never deal with a nil result.
type QueryResult struct {
	result sql.Result
}

func NewQueryResult(result sql.Result) *QueryResult {
	return &QueryResult{result: result}
}

// LastInsertID returns the key generated by the driver. Drivers that read
// keys through RETURNING or OUTPUT need InsertGetID instead.
func (r *QueryResult) LastInsertID() (int64, error) {
	if r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.LastInsertId()
}

// RowsAffected returns the number of changed rows, zero when nothing ran.
func (r *QueryResult) RowsAffected() (int64, error) {
	if r.result == nil {
		return 0, nil
	}
	return r.result.RowsAffected()
}

// Pagination describes one page of a paginated query.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
	HasMore    bool
}

// NewPagination computes the page count. perPage defaults to 15 and page
// to 1.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage <= 0 {
		perPage = 15
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(total / int64(perPage))
	if total%int64(perPage) > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Offset returns the number of rows before the page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p *Pagination) HasPrev() bool {
	return p.Page > 1
}

func (p *Pagination) HasNext() bool {
	return p.HasMore
}

// lastSegment returns the key a driver reports for a selected column:
// "u.name as n" is "n", "users.email" is "email".
func lastSegment(column string) string {
	column = validation.LastAlias(column)
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return column[i+1:]
	}
	return column
}

// toInt64 converts the numeric shapes drivers return for counts.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("ludb: cannot convert %T to int64", v)
	}
}

// toFloat converts numeric driver values, including decimal text, to
// float64.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case decimal.Decimal:
		return n.InexactFloat64(), nil
	case []byte:
		return parseDecimal(string(n))
	case string:
		return parseDecimal(n)
	default:
		return 0, fmt.Errorf("ludb: cannot convert %T to float64", v)
	}
}

func parseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// truthy interprets the boolean shapes drivers return for exists checks.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case []byte:
		s := string(b)
		return s != "" && s != "0" && s != "f" && s != "false"
	case string:
		return b != "" && b != "0" && b != "f" && b != "false"
	default:
		return v != nil
	}
}
