package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexumdb/internal/eval"
	"nexumdb/internal/kvstore"
	"nexumdb/internal/value"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	store := kvstore.NewMemory()
	t.Cleanup(func() { _ = store.Close() })
	return New(store, nil)
}

func createItemsLikeTable(t *testing.T, ex *Executor) {
	t.Helper()
	_, err := ex.Execute(CreateTable{
		Table: "items",
		Columns: []CreateColumn{
			{Name: "id", Type: "Integer"},
			{Name: "name", Type: "Text"},
			{Name: "price", Type: "Integer"},
		},
	})
	require.NoError(t, err)
}

func insertRows(t *testing.T, ex *Executor, table string, rows [][]any) {
	t.Helper()
	ivRows := make([][]InsertValue, len(rows))
	for i, row := range rows {
		iv := make([]InsertValue, len(row))
		for j, v := range row {
			iv[j] = InsertValue{Value: v}
		}
		ivRows[i] = iv
	}
	_, err := ex.Execute(Insert{Table: table, Rows: ivRows})
	require.NoError(t, err)
}

func wildcardProjection() []ProjectionItem {
	return []ProjectionItem{{Column: "*"}}
}

func TestCreateTableThenShowTablesThenDescribe(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)

	res, err := ex.Execute(ShowTables{})
	require.NoError(t, err)
	list := res.(TableList)
	assert.Equal(t, []string{"items"}, list.Tables)

	res, err = ex.Execute(DescribeTable{Table: "items"})
	require.NoError(t, err)
	desc := res.(TableDescription)
	require.Len(t, desc.Columns, 3)
	assert.Equal(t, "id", desc.Columns[0].Name)
}

func TestCreateDuplicateTableFails(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	_, err := ex.Execute(CreateTable{Table: "items", Columns: []CreateColumn{{Name: "id", Type: "Integer"}}})
	require.Error(t, err)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestCreateDropCreateRoundTrip(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)

	_, err := ex.Execute(DropTable{Table: "items"})
	require.NoError(t, err)

	createItemsLikeTable(t, ex)

	res, err := ex.Execute(Select{Table: "items", Projection: wildcardProjection()})
	require.NoError(t, err)
	assert.Empty(t, res.(Selected).Rows)
}

func TestDropTableIfExistsOnMissingTableIsNoop(t *testing.T) {
	ex := newTestExecutor(t)
	res, err := ex.Execute(DropTable{Table: "ghost", IfExists: true})
	require.NoError(t, err)
	assert.Equal(t, Deleted{Table: "ghost", Rows: 0}, res)
}

func TestDropTableMissingWithoutIfExistsErrors(t *testing.T) {
	ex := newTestExecutor(t)
	_, err := ex.Execute(DropTable{Table: "ghost"})
	require.Error(t, err)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
}

// S1: LIKE + ORDER + LIMIT
func TestScenarioLikeOrderLimit(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	insertRows(t, ex, "items", [][]any{
		{int64(1), "TestA", int64(100)},
		{int64(2), "TestB", int64(200)},
		{int64(3), "OtherC", int64(50)},
		{int64(4), "TestC", int64(150)},
	})

	res, err := ex.Execute(Select{
		Table:      "items",
		Projection: wildcardProjection(),
		Predicate:  eval.Like{Operand: eval.Column{Name: "name"}, Pattern: eval.Literal{Value: value.Str("Test%")}},
		Order:      []OrderKey{{Column: "price", Ascending: false}},
		Limit:      2,
		HasLimit:   true,
	})
	require.NoError(t, err)
	rows := res.(Selected).Rows
	require.Len(t, rows, 2)
	assert.Equal(t, value.Int(2), rows[0][0])
	assert.Equal(t, value.Int(200), rows[0][2])
	assert.Equal(t, value.Int(4), rows[1][0])
	assert.Equal(t, value.Int(150), rows[1][2])
}

// S2: IN
func TestScenarioIn(t *testing.T) {
	ex := newTestExecutor(t)
	_, err := ex.Execute(CreateTable{Table: "orders", Columns: []CreateColumn{
		{Name: "id", Type: "Integer"}, {Name: "status", Type: "Text"},
	}})
	require.NoError(t, err)
	insertRows(t, ex, "orders", [][]any{
		{int64(1), "active"}, {int64(2), "pending"}, {int64(3), "completed"}, {int64(4), "active"},
	})

	res, err := ex.Execute(Select{
		Table:      "orders",
		Projection: wildcardProjection(),
		Predicate: eval.In{
			Operand: eval.Column{Name: "status"},
			List: []eval.Expr{
				eval.Literal{Value: value.Str("active")},
				eval.Literal{Value: value.Str("pending")},
			},
		},
	})
	require.NoError(t, err)
	rows := res.(Selected).Rows
	require.Len(t, rows, 3)
	ids := []int64{}
	for _, r := range rows {
		ids = append(ids, r[0].I)
	}
	assert.ElementsMatch(t, []int64{1, 2, 4}, ids)
}

// S3: BETWEEN
func TestScenarioBetween(t *testing.T) {
	ex := newTestExecutor(t)
	_, err := ex.Execute(CreateTable{Table: "products", Columns: []CreateColumn{
		{Name: "id", Type: "Integer"}, {Name: "price", Type: "Integer"},
	}})
	require.NoError(t, err)
	insertRows(t, ex, "products", [][]any{
		{int64(1), int64(50)}, {int64(2), int64(150)}, {int64(3), int64(250)},
		{int64(4), int64(175)}, {int64(5), int64(125)},
	})

	res, err := ex.Execute(Select{
		Table:      "products",
		Projection: wildcardProjection(),
		Predicate: eval.Between{
			Operand: eval.Column{Name: "price"},
			Low:     eval.Literal{Value: value.Int(100)},
			High:    eval.Literal{Value: value.Int(200)},
		},
		Order:    []OrderKey{{Column: "price", Ascending: true}},
		Limit:    3,
		HasLimit: true,
	})
	require.NoError(t, err)
	rows := res.(Selected).Rows
	require.Len(t, rows, 3)
	var ids, prices []int64
	for _, r := range rows {
		ids = append(ids, r[0].I)
		prices = append(prices, r[1].I)
	}
	assert.Equal(t, []int64{5, 2, 4}, ids)
	assert.Equal(t, []int64{125, 150, 175}, prices)
}

// S4: coercion
func TestScenarioCoercion(t *testing.T) {
	ex := newTestExecutor(t)
	_, err := ex.Execute(CreateTable{Table: "t", Columns: []CreateColumn{
		{Name: "id", Type: "Integer"}, {Name: "score", Type: "Float"},
		{Name: "active", Type: "Boolean"}, {Name: "note", Type: "Text"},
	}})
	require.NoError(t, err)
	insertRows(t, ex, "t", [][]any{{"42", int64(7), "true", int64(9)}})

	_, err = ex.Execute(Update{
		Table: "t",
		Assignments: []Assignment{
			{Column: "score", Value: InsertValue{Value: "3.5"}},
			{Column: "active", Value: InsertValue{Value: int64(0)}},
		},
	})
	require.NoError(t, err)

	res, err := ex.Execute(Select{Table: "t", Projection: wildcardProjection()})
	require.NoError(t, err)
	rows := res.(Selected).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(42), rows[0][0])
	assert.Equal(t, value.Flt(3.5), rows[0][1])
	assert.Equal(t, value.Bool(false), rows[0][2])
	assert.Equal(t, value.Str("9"), rows[0][3])
}

// S5: partial-column insert
func TestScenarioPartialColumnInsert(t *testing.T) {
	ex := newTestExecutor(t)
	_, err := ex.Execute(CreateTable{Table: "people", Columns: []CreateColumn{
		{Name: "id", Type: "Integer"}, {Name: "name", Type: "Text"}, {Name: "age", Type: "Integer"},
	}})
	require.NoError(t, err)

	_, err = ex.Execute(Insert{
		Table:   "people",
		Columns: []string{"name", "id"},
		Rows:    [][]InsertValue{{{Value: "Alice"}, {Value: int64(1)}}},
	})
	require.NoError(t, err)

	res, err := ex.Execute(Select{Table: "people", Projection: wildcardProjection()})
	require.NoError(t, err)
	rows := res.(Selected).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(1), rows[0][0])
	assert.Equal(t, value.Str("Alice"), rows[0][1])
	assert.True(t, rows[0][2].IsNull())
}

// S6: type mismatch rejects update wholesale
func TestScenarioUpdateTypeMismatchWritesNothing(t *testing.T) {
	ex := newTestExecutor(t)
	_, err := ex.Execute(CreateTable{Table: "t", Columns: []CreateColumn{
		{Name: "id", Type: "Integer"}, {Name: "count", Type: "Integer"},
	}})
	require.NoError(t, err)
	insertRows(t, ex, "t", [][]any{{int64(1), int64(10)}})

	_, err = ex.Execute(Update{
		Table:       "t",
		Assignments: []Assignment{{Column: "count", Value: InsertValue{Value: "not a number"}}},
	})
	require.Error(t, err)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)

	res, err := ex.Execute(Select{Table: "t", Projection: wildcardProjection()})
	require.NoError(t, err)
	rows := res.(Selected).Rows
	require.Len(t, rows, 1)
	assert.Equal(t, value.Int(1), rows[0][0])
	assert.Equal(t, value.Int(10), rows[0][1])
}

func TestInsertArityMismatchWritesNothing(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	_, err := ex.Execute(Insert{Table: "items", Rows: [][]InsertValue{{{Value: int64(1)}}}})
	require.Error(t, err)

	res, err := ex.Execute(Select{Table: "items", Projection: wildcardProjection()})
	require.NoError(t, err)
	assert.Empty(t, res.(Selected).Rows)
}

func TestDeleteWithPredicateErrorWritesNothing(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	insertRows(t, ex, "items", [][]any{{int64(1), "A", int64(10)}})

	_, err := ex.Execute(Delete{
		Table:     "items",
		Predicate: eval.Column{Name: "missing"},
	})
	require.Error(t, err)

	res, err := ex.Execute(Select{Table: "items", Projection: wildcardProjection()})
	require.NoError(t, err)
	assert.Len(t, res.(Selected).Rows, 1)
}

func TestDeleteWithoutPredicateRemovesEveryRow(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	insertRows(t, ex, "items", [][]any{{int64(1), "A", int64(10)}, {int64(2), "B", int64(20)}})

	res, err := ex.Execute(Delete{Table: "items"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.(Deleted).Rows)
}

func TestSelectCacheHitServesSameRowsUntilMutation(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	insertRows(t, ex, "items", [][]any{{int64(1), "A", int64(10)}})

	stmt := Select{Table: "items", Projection: wildcardProjection()}
	first, err := ex.Execute(stmt)
	require.NoError(t, err)
	assert.Len(t, first.(Selected).Rows, 1)

	insertRows(t, ex, "items", [][]any{{int64(2), "B", int64(20)}})

	second, err := ex.Execute(stmt)
	require.NoError(t, err)
	assert.Len(t, second.(Selected).Rows, 2, "cache must not serve stale results after a mutation")
}

func TestEmptyProjectionIsRejected(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	_, err := ex.Execute(Select{Table: "items", Projection: nil})
	require.Error(t, err)
}

func TestUpdateDuplicateAssignmentColumnErrors(t *testing.T) {
	ex := newTestExecutor(t)
	createItemsLikeTable(t, ex)
	insertRows(t, ex, "items", [][]any{{int64(1), "A", int64(10)}})

	_, err := ex.Execute(Update{
		Table: "items",
		Assignments: []Assignment{
			{Column: "price", Value: InsertValue{Value: int64(1)}},
			{Column: "price", Value: InsertValue{Value: int64(2)}},
		},
	})
	require.Error(t, err)
}
