// Package sqlpractice seeds an in-memory SQLite database with a small employees
// table and runs demonstration queries against it: a common table expression,
// a window function, and both combined.
package sqlpractice

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	_ "github.com/mattn/go-sqlite3"
)

// Employee is one row of the employees table
type Employee struct {
	ID         int
	Name       string
	Department string
	Salary     int
}

// SampleEmployees is the data every playground starts with
var SampleEmployees = []Employee{
	{1, "Alice", "Engineering", 90000},
	{2, "Bob", "Engineering", 80000},
	{3, "Charlie", "Engineering", 95000},
	{4, "David", "Sales", 70000},
	{5, "Eve", "Sales", 75000},
	{6, "Frank", "Marketing", 60000},
	{7, "Grace", "Marketing", 80000},
}

// Query is a named demonstration query
type Query struct {
	Name        string
	Description string
	SQL         string
}

// Queries are run in this order by RunAll
var Queries = []Query{
	{
		Name:        "engineering_cte",
		Description: "Engineering employees earning more than 85000, selected through a CTE.",
		SQL: `WITH EngineeringEmployees AS (
    SELECT name, salary
    FROM employees
    WHERE department = 'Engineering'
)
SELECT * FROM EngineeringEmployees
WHERE salary > 85000;`,
	},
	{
		Name:        "department_rank",
		Description: "Rank employees by salary within each department.",
		SQL: `SELECT
    name,
    department,
    salary,
    RANK() OVER (
        PARTITION BY department
        ORDER BY salary DESC
    ) AS dept_salary_rank
FROM employees;`,
	},
	{
		Name:        "top_paid_per_department",
		Description: "Highest-paid employee in each department (CTE + window function).",
		SQL: `WITH RankedSalaries AS (
    SELECT
        name,
        department,
        salary,
        RANK() OVER (
            PARTITION BY department
            ORDER BY salary DESC
        ) AS dept_rank
    FROM employees
)
SELECT
    name,
    department,
    salary
FROM RankedSalaries
WHERE dept_rank = 1;`,
	},
}

// Lookup returns the query with the given name
func Lookup(name string) (Query, bool) {
	for _, q := range Queries {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}

// Result holds a query's column names and stringified rows
type Result struct {
	Columns []string
	Rows    [][]string
}

// Playground is an in-memory database seeded with SampleEmployees
type Playground struct {
	db *sql.DB
}

// Open creates the in-memory database, the employees table and the sample rows
func Open(ctx context.Context) (*Playground, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	p := &Playground{db: db}
	if err := p.seed(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *Playground) seed(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `
	CREATE TABLE employees (
		id INTEGER,
		name TEXT,
		department TEXT,
		salary INTEGER
	)`); err != nil {
		return fmt.Errorf("failed to create employees table: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO employees VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range SampleEmployees {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, e.Department, e.Salary); err != nil {
			return fmt.Errorf("failed to insert employee %d: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Close closes the database; its contents are gone afterwards
func (p *Playground) Close() error {
	return p.db.Close()
}

// Run executes q and returns every row as strings
func (p *Playground) Run(ctx context.Context, q Query) (*Result, error) {
	rows, err := p.db.QueryContext(ctx, q.SQL)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: columns, Rows: make([][]string, 0)}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, rows.Err()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// Render prints the query text followed by its result as a markdown table
func Render(w io.Writer, q Query, res *Result) {
	fmt.Fprintln(w, "--- QUERY ---")
	fmt.Fprintf(w, "%s\n\n", strings.TrimSpace(q.SQL))
	fmt.Fprintln(w, "--- RESULT ---")

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range res.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.RenderMarkdown()

	fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", 30))
}

// RunAll runs every query in Queries and renders each result to w
func (p *Playground) RunAll(ctx context.Context, w io.Writer) error {
	for _, q := range Queries {
		res, err := p.Run(ctx, q)
		if err != nil {
			return err
		}
		Render(w, q, res)
	}
	return nil
}
