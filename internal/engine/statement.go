// Package engine implements the Executor: the single dispatch point
// that turns a parsed Statement into an ExecutionResult, orchestrating
// the catalog, row codec, evaluator, coercer, and result cache around
// the KV store contract. This is the core of the module.
package engine

import "nexumdb/internal/eval"

// Statement is the sealed set of inputs the executor accepts. There is
// no surface SQL text parser in this module; callers build one of the
// concrete types below directly, or decode it from WireStatement JSON.
type Statement interface {
	isStatement()
}

// CreateTable declares a new table with the given columns, in order.
type CreateTable struct {
	Table   string
	Columns []CreateColumn
}

// CreateColumn is a single column declaration within a CreateTable.
type CreateColumn struct {
	Name string `json:"name"`
	Type string `json:"type"` // one of "Integer", "Float", "Text", "Boolean"
}

// DropTable destroys a table. IfExists suppresses the missing-table
// error and reports Deleted{Rows: 0} instead.
type DropTable struct {
	Table    string
	IfExists bool
}

// ShowTables lists every table name in the catalog.
type ShowTables struct{}

// DescribeTable returns the schema of a single table.
type DescribeTable struct {
	Table string
}

// Insert appends one or more rows to a table. Columns is nil when the
// statement supplies no explicit column list (every row must then
// match the full schema arity).
type Insert struct {
	Table   string
	Columns []string
	Rows    [][]InsertValue
}

// InsertValue is a single insert-time literal, pre-evaluation (the
// parser is expected to have already reduced expressions to literals).
type InsertValue struct {
	Value any // int64, float64, string, bool, or nil
}

// OrderKey is one ORDER BY key: a column name plus its direction.
type OrderKey struct {
	Column    string
	Ascending bool
}

// ProjectionItem is one output column of a SELECT: Column is "*" for a
// wildcard item (Alias is ignored in that case).
type ProjectionItem struct {
	Column string
	Alias  string
}

// Select queries a table. Projection must be non-empty. Predicate,
// Order, and Limit are all optional (Predicate nil, Order nil,
// HasLimit false means "no limit"). With HasLimit set, a negative
// Limit returns no rows.
type Select struct {
	Table      string
	Projection []ProjectionItem
	Predicate  eval.Expr
	Order      []OrderKey
	Limit      int
	HasLimit   bool
}

// Assignment is one `column = value` pair of an UPDATE statement.
type Assignment struct {
	Column string
	Value  InsertValue
}

// Update mutates rows of Table that satisfy Predicate (or every row,
// if Predicate is nil) by applying Assignments.
type Update struct {
	Table       string
	Assignments []Assignment
	Predicate   eval.Expr
}

// Delete removes rows of Table that satisfy Predicate (or every row,
// if Predicate is nil).
type Delete struct {
	Table     string
	Predicate eval.Expr
}

func (CreateTable) isStatement()   {}
func (DropTable) isStatement()     {}
func (ShowTables) isStatement()    {}
func (DescribeTable) isStatement() {}
func (Insert) isStatement()        {}
func (Select) isStatement()        {}
func (Update) isStatement()        {}
func (Delete) isStatement()        {}
