package grading

import (
	"context"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadOnly(t *testing.T) {
	for _, q := range []string{
		"DROP TABLE employees",
		"  delete from employees",
		"Update employees set salary = 0",
		"insert into orders values (1)",
		"ALTER TABLE x ADD y",
		"CREATE TABLE x (id int)",
		"TRUNCATE employees",
		"REPLACE INTO orders VALUES (1)",
		"-- sneaky\nDROP TABLE employees",
		"/* hi */ DELETE FROM orders",
	} {
		assert.ErrorIs(t, CheckReadOnly(q), ErrMutatingQuery, q)
	}
	assert.NoError(t, CheckReadOnly("SELECT * FROM employees"))
	assert.NoError(t, CheckReadOnly("with x as (select 1) select * from x"))
}

func TestRunSelect(t *testing.T) {
	res, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Run(context.Background(), "SELECT name, salary FROM employees WHERE department = 'HR' ORDER BY id")
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, []string{"name", "salary"}, res.Columns)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, "Frank Miller", res.Rows[0][0])
}

func TestRunRowLimit(t *testing.T) {
	res, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 3}).Run(context.Background(), "SELECT * FROM employees")
	require.NoError(t, err)
	assert.Equal(t, 10, res.RowCount)
	assert.Len(t, res.Rows, 3)
}

const endless = "WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x + 1 FROM c) SELECT count(*) FROM c"

func series(n int) string {
	return "WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x + 1 FROM c WHERE x < " + strconv.Itoa(n) + ") SELECT x FROM c"
}

func TestRunStopsRunawayQuery(t *testing.T) {
	j := NewSQLJudge(SQLJudgeConfig{Timeout: 300 * time.Millisecond})

	start := time.Now()
	res, err := j.Run(context.Background(), endless)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "timed out")
}

func TestEvaluateStopsRunawayQuery(t *testing.T) {
	j := NewSQLJudge(SQLJudgeConfig{Timeout: 300 * time.Millisecond})

	start := time.Now()
	v, err := j.Evaluate(context.Background(), endless, "SELECT 1")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, v.Passed)
	assert.Contains(t, v.Error, "timed out")

	_, err = j.Evaluate(context.Background(), "SELECT 1", endless)
	assert.Error(t, err)
}

func TestRunKeepsOnlyRowLimitOfLargeResult(t *testing.T) {
	res, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 10}).Run(context.Background(), series(5000))
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 5000, res.RowCount)
	require.Len(t, res.Rows, 10)
	assert.Equal(t, int64(10), res.Rows[9][0])
}

func TestEvaluateRejectsOversizedResult(t *testing.T) {
	j := NewSQLJudge(SQLJudgeConfig{RowLimit: 10, MaxRows: 100})

	v, err := j.Evaluate(context.Background(), series(101), series(100))
	require.NoError(t, err)
	assert.False(t, v.Success)
	assert.False(t, v.Passed)
	assert.Equal(t, "query returned more than 100 rows", v.Error)

	v, err = j.Evaluate(context.Background(), series(100), series(100))
	require.NoError(t, err)
	assert.True(t, v.Passed)

	_, err = j.Evaluate(context.Background(), "SELECT 1", series(101))
	assert.Error(t, err)
}

func TestRunRejectsMutation(t *testing.T) {
	res, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Run(context.Background(), "DELETE FROM employees")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "'DELETE' operations are not allowed")
}

func TestRunSyntaxError(t *testing.T) {
	res, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Run(context.Background(), "SELEC nope")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestSandboxIsFreshPerCall(t *testing.T) {
	j := NewSQLJudge(SQLJudgeConfig{RowLimit: 100})
	for i := 0; i < 2; i++ {
		res, err := j.Run(context.Background(), "SELECT COUNT(*) FROM orders")
		require.NoError(t, err)
		assert.Equal(t, int64(7), res.Rows[0][0])
	}
}

func TestEvaluateEquivalentQueries(t *testing.T) {
	v, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Evaluate(context.Background(),
		"SELECT e.name AS who FROM employees e WHERE e.salary > 90000 ORDER BY e.name DESC",
		"SELECT name FROM employees WHERE salary > 90000")
	require.NoError(t, err)
	assert.True(t, v.Success)
	assert.True(t, v.Passed)
	assert.True(t, v.ColumnCountMatch)
	assert.False(t, v.ColumnsMatch)
	assert.True(t, v.RowsMatch)
	assert.Equal(t, 3, v.ExpectedRowCount)
}

func TestEvaluateReorderedColumns(t *testing.T) {
	v, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Evaluate(context.Background(),
		"SELECT AVG(salary), department FROM employees GROUP BY department",
		"SELECT department, AVG(salary) FROM employees GROUP BY department")
	require.NoError(t, err)
	assert.False(t, v.ColumnsMatch)
	assert.False(t, v.Passed)
}

func TestEvaluateDifferentRows(t *testing.T) {
	v, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Evaluate(context.Background(),
		"SELECT name FROM employees WHERE salary > 80000",
		"SELECT name FROM employees WHERE salary > 90000")
	require.NoError(t, err)
	assert.True(t, v.ColumnCountMatch)
	assert.False(t, v.RowsMatch)
	assert.False(t, v.Passed)
}

func TestEvaluateUserErrorIsVerdict(t *testing.T) {
	v, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Evaluate(context.Background(), "SELECT * FROM nowhere", "SELECT 1")
	require.NoError(t, err)
	assert.False(t, v.Success)
	assert.False(t, v.Passed)
	assert.NotEmpty(t, v.Error)

	v, err = NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Evaluate(context.Background(), "DROP TABLE employees", "SELECT 1")
	require.NoError(t, err)
	assert.False(t, v.Passed)
}

func TestEvaluateBrokenReference(t *testing.T) {
	_, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Evaluate(context.Background(), "SELECT 1", "SELECT * FROM nowhere")
	assert.Error(t, err)
}

func TestRowsEquivalentUnderPermutation(t *testing.T) {
	res, err := NewSQLJudge(SQLJudgeConfig{RowLimit: 100}).Run(context.Background(), "SELECT * FROM orders")
	require.NoError(t, err)
	ref := res.Rows

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([][]any(nil), ref...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.True(t, RowsEquivalent(ref, shuffled))
		assert.True(t, RowsEquivalent(shuffled, ref))
	}
	assert.False(t, RowsEquivalent(ref, ref[1:]))
}

func TestRowsEquivalentIsMultiset(t *testing.T) {
	a := [][]any{{"x", int64(1)}, {"x", int64(1)}, {"y", nil}}
	b := [][]any{{"y", nil}, {"x", int64(1)}, {"y", nil}}
	assert.False(t, RowsEquivalent(a, b))
}
