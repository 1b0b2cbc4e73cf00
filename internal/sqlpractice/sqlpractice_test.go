package sqlpractice

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Playground {
	t.Helper()
	p, err := Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func run(t *testing.T, p *Playground, name string) *Result {
	t.Helper()
	q, ok := Lookup(name)
	require.True(t, ok, name)
	res, err := p.Run(context.Background(), q)
	require.NoError(t, err)
	return res
}

func TestSeededRowCount(t *testing.T) {
	p := open(t)
	res, err := p.Run(context.Background(), Query{Name: "count", SQL: "SELECT COUNT(*) FROM employees"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"7"}}, res.Rows)
}

func TestEngineeringCTE(t *testing.T) {
	res := run(t, open(t), "engineering_cte")
	assert.Equal(t, []string{"name", "salary"}, res.Columns)
	assert.ElementsMatch(t, [][]string{{"Alice", "90000"}, {"Charlie", "95000"}}, res.Rows)
}

func TestDepartmentRank(t *testing.T) {
	res := run(t, open(t), "department_rank")
	assert.Equal(t, []string{"name", "department", "salary", "dept_salary_rank"}, res.Columns)
	assert.ElementsMatch(t, [][]string{
		{"Charlie", "Engineering", "95000", "1"},
		{"Alice", "Engineering", "90000", "2"},
		{"Bob", "Engineering", "80000", "3"},
		{"Grace", "Marketing", "80000", "1"},
		{"Frank", "Marketing", "60000", "2"},
		{"Eve", "Sales", "75000", "1"},
		{"David", "Sales", "70000", "2"},
	}, res.Rows)
}

func TestTopPaidPerDepartment(t *testing.T) {
	res := run(t, open(t), "top_paid_per_department")
	assert.Equal(t, []string{"name", "department", "salary"}, res.Columns)
	assert.ElementsMatch(t, [][]string{
		{"Charlie", "Engineering", "95000"},
		{"Grace", "Marketing", "80000"},
		{"Eve", "Sales", "75000"},
	}, res.Rows)
}

func TestRunReportsBadSQL(t *testing.T) {
	_, err := open(t).Run(context.Background(), Query{Name: "broken", SQL: "SELECT nope FROM nowhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query broken")
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("does_not_exist")
	assert.False(t, ok)
}

func TestRunAllRendersMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, open(t).RunAll(context.Background(), &buf))

	out := buf.String()
	assert.Equal(t, len(Queries), bytes.Count(buf.Bytes(), []byte("--- QUERY ---")))
	assert.Contains(t, out, "WITH EngineeringEmployees AS (")
	assert.Contains(t, out, "| Charlie | 95000 |")
	assert.Contains(t, out, "dept_salary_rank")
}
