package grading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var ErrMutatingQuery = errors.New("mutating query")

var mutatingKeywords = []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE", "REPLACE"}

// CheckReadOnly rejects a query whose first keyword mutates data. It is a
// lexical check; the sandbox also runs with query_only on.
func CheckReadOnly(query string) error {
	head := strings.ToUpper(stripLeadingComments(query))
	for _, kw := range mutatingKeywords {
		if strings.HasPrefix(head, kw) {
			return fmt.Errorf("%w: '%s' operations are not allowed in the sandbox. Only SELECT queries are permitted", ErrMutatingQuery, kw)
		}
	}
	return nil
}

func stripLeadingComments(q string) string {
	for {
		q = strings.TrimSpace(q)
		switch {
		case strings.HasPrefix(q, "--"):
			i := strings.IndexByte(q, '\n')
			if i < 0 {
				return ""
			}
			q = q[i+1:]
		case strings.HasPrefix(q, "/*"):
			i := strings.Index(q, "*/")
			if i < 0 {
				return ""
			}
			q = q[i+2:]
		default:
			return q
		}
	}
}

type QueryResult struct {
	Success  bool     `json:"success"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
	Error    string   `json:"error"`
}

// SQLVerdict compares a candidate query with a reference. Passed needs the
// same column count and the same multiset of stringified rows; column names
// and row order do not matter. ColumnsMatch is the stricter positional name
// comparison, reported for feedback only.
type SQLVerdict struct {
	Success          bool     `json:"success"`
	Passed           bool     `json:"passed"`
	ColumnCountMatch bool     `json:"column_count_match"`
	ColumnsMatch     bool     `json:"columns_match"`
	RowsMatch        bool     `json:"rows_match"`
	ExpectedColumns  []string `json:"expected_columns"`
	ExpectedRowCount int      `json:"expected_row_count"`
	ExpectedRows     [][]any  `json:"expected_rows"`
	ActualColumns    []string `json:"actual_columns"`
	ActualRowCount   int      `json:"actual_row_count"`
	ActualRows       [][]any  `json:"actual_rows"`
	Error            string   `json:"error"`
}

type SQLJudgeConfig struct {
	RowLimit int           // rows returned by Run
	MaxRows  int           // rows Evaluate will compare before giving up
	Timeout  time.Duration // per call, seeding included
}

func DefaultSQLJudgeConfig() SQLJudgeConfig {
	return SQLJudgeConfig{RowLimit: 100, MaxRows: 10000, Timeout: 10 * time.Second}
}

var errTooManyRows = errors.New("too many rows")

type SQLJudge struct {
	cfg         SQLJudgeConfig
	previewRows int
}

func NewSQLJudge(cfg SQLJudgeConfig) *SQLJudge {
	def := DefaultSQLJudgeConfig()
	if cfg.RowLimit <= 0 {
		cfg.RowLimit = def.RowLimit
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = def.MaxRows
	}
	if cfg.MaxRows < cfg.RowLimit {
		cfg.MaxRows = cfg.RowLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &SQLJudge{cfg: cfg, previewRows: 5}
}

// Run executes one read-only query against a fresh sandbox. Query errors
// are reported in the result; the error return is for sandbox failures.
// Only RowLimit rows are kept; the rest are counted.
func (j *SQLJudge) Run(ctx context.Context, query string) (*QueryResult, error) {
	if err := CheckReadOnly(query); err != nil {
		return &QueryResult{Columns: []string{}, Rows: [][]any{}, Error: strings.TrimPrefix(err.Error(), ErrMutatingQuery.Error()+": ")}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	db, err := openSandbox(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cols, rows, total, err := runQuery(ctx, db, query, j.cfg.RowLimit, 0)
	if err != nil {
		return &QueryResult{Columns: []string{}, Rows: [][]any{}, Error: j.queryError(ctx, err)}, nil
	}
	return &QueryResult{Success: true, Columns: cols, Rows: rows, RowCount: total}, nil
}

// Evaluate runs the reference first; a broken reference is an error, a
// broken candidate query is a failed verdict. Either result above MaxRows
// counts as broken.
func (j *SQLJudge) Evaluate(ctx context.Context, userQuery, reference string) (*SQLVerdict, error) {
	ctx, cancel := context.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	db, err := openSandbox(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	refCols, refRows, _, err := runQuery(ctx, db, reference, j.cfg.MaxRows, j.cfg.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("reference query: %s", j.queryError(ctx, err))
	}

	v := &SQLVerdict{
		ExpectedColumns:  refCols,
		ExpectedRowCount: len(refRows),
		ExpectedRows:     head(refRows, j.previewRows),
		ActualColumns:    []string{},
		ActualRows:       [][]any{},
	}

	if err := CheckReadOnly(userQuery); err != nil {
		v.Error = strings.TrimPrefix(err.Error(), ErrMutatingQuery.Error()+": ")
		return v, nil
	}

	userCols, userRows, _, err := runQuery(ctx, db, userQuery, j.cfg.MaxRows, j.cfg.MaxRows)
	if err != nil {
		v.Error = j.queryError(ctx, err)
		return v, nil
	}

	v.Success = true
	v.ActualColumns = userCols
	v.ActualRowCount = len(userRows)
	v.ActualRows = head(userRows, j.previewRows)
	v.ColumnCountMatch = len(refCols) == len(userCols)
	v.ColumnsMatch = sameColumns(refCols, userCols)
	v.RowsMatch = RowsEquivalent(refRows, userRows)
	v.Passed = v.ColumnCountMatch && v.RowsMatch
	return v, nil
}

func (j *SQLJudge) queryError(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, errTooManyRows):
		return fmt.Sprintf("query returned more than %d rows", j.cfg.MaxRows)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Sprintf("query timed out (%s limit)", j.cfg.Timeout)
	default:
		return err.Error()
	}
}

// RowsEquivalent compares two results as multisets of stringified rows.
func RowsEquivalent(a, b [][]any) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := canonicalRows(a), canonicalRows(b)
	for i := range sa {
		if !equalStrings(sa[i], sb[i]) {
			return false
		}
	}
	return true
}

func canonicalRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		s := make([]string, len(r))
		for k, v := range r {
			s[k] = stringify(v)
		}
		out[i] = s
	}
	sort.Slice(out, func(i, k int) bool { return lessStrings(out[i], out[k]) })
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func lessStrings(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func head(rows [][]any, n int) [][]any {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// openSandbox returns a single-connection in-memory database seeded with
// the practice schema and switched to query_only.
func openSandbox(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sandbox: %w", err)
	}
	// every pooled connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	for _, stmt := range seedStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed sandbox: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed sandbox: %w", err)
	}
	return db, nil
}

// runQuery keeps the first keep rows and counts the rest. A positive
// ceiling turns a result longer than ceiling into errTooManyRows.
func runQuery(ctx context.Context, db *sql.DB, q string, keep, ceiling int) ([]string, [][]any, int, error) {
	rows, err := db.QueryContext(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, nil, 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, 0, err
	}

	out := [][]any{}
	total := 0
	for rows.Next() {
		total++
		if ceiling > 0 && total > ceiling {
			return nil, nil, 0, errTooManyRows
		}
		if len(out) >= keep {
			continue
		}
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, 0, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, err
	}
	return cols, out, total, nil
}
