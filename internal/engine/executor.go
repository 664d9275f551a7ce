package engine

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"nexumdb/internal/catalog"
	"nexumdb/internal/coerce"
	"nexumdb/internal/eval"
	"nexumdb/internal/keyspace"
	"nexumdb/internal/kvstore"
	"nexumdb/internal/resultcache"
	"nexumdb/internal/rowcodec"
	"nexumdb/internal/value"
)

// Executor is the only component that mutates the store. It owns
// write sequencing across the catalog and row data, and is not safe
// for concurrent use by multiple callers: sharing an Executor across
// goroutines requires a wrapping lock.
type Executor struct {
	store kvstore.Store
	cat   *catalog.Catalog
	cache *resultcache.Cache
	log   *zap.Logger
	now   func() time.Time
}

// New builds an Executor over store. A nil logger defaults to a no-op
// logger, keeping the log field always usable rather than scattering
// nil checks through call sites.
func New(store kvstore.Store, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		store: store,
		cat:   catalog.New(store),
		cache: resultcache.New(),
		log:   logger,
		now:   time.Now,
	}
}

// Cache exposes the result cache so the CLI's `cache stats`/`cache
// clear` subcommands can inspect or reset it without reaching into
// executor internals.
func (ex *Executor) Cache() *resultcache.Cache { return ex.cache }

// Execute dispatches stmt to its handler and returns the resulting
// ExecutionResult, logging elapsed time at debug level on return.
func (ex *Executor) Execute(stmt Statement) (ExecutionResult, error) {
	start := ex.now()
	result, err := ex.dispatch(stmt)
	elapsed := ex.now().Sub(start)

	if err != nil {
		ex.log.Debug("statement failed", zap.String("kind", fmt.Sprintf("%T", stmt)), zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, err
	}
	ex.log.Debug("statement completed", zap.String("kind", fmt.Sprintf("%T", stmt)), zap.Duration("elapsed", elapsed))
	return result, nil
}

func (ex *Executor) dispatch(stmt Statement) (ExecutionResult, error) {
	switch s := stmt.(type) {
	case CreateTable:
		return ex.createTable(s)
	case DropTable:
		return ex.dropTable(s)
	case ShowTables:
		return ex.showTables(s)
	case DescribeTable:
		return ex.describeTable(s)
	case Insert:
		return ex.insert(s)
	case Select:
		return ex.selectQuery(s)
	case Update:
		return ex.update(s)
	case Delete:
		return ex.delete(s)
	default:
		return nil, &ReadError{Message: fmt.Sprintf("unsupported statement type %T", stmt)}
	}
}

// --- CREATE TABLE ---

func (ex *Executor) createTable(s CreateTable) (ExecutionResult, error) {
	columns := make([]catalog.Column, len(s.Columns))
	for i, c := range s.Columns {
		columns[i] = catalog.Column{Name: c.Name, Type: value.ParseTag(c.Type)}
	}
	if err := ex.cat.Create(s.Table, columns); err != nil {
		return nil, &WriteError{Table: s.Table, Message: "create table failed", Err: err}
	}
	ex.invalidateCache()
	return Created{Table: s.Table}, nil
}

// --- DROP TABLE ---

func (ex *Executor) dropTable(s DropTable) (ExecutionResult, error) {
	schema, err := ex.cat.Get(s.Table)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "catalog lookup failed", Err: err}
	}
	if schema == nil {
		if s.IfExists {
			return Deleted{Table: s.Table, Rows: 0}, nil
		}
		return nil, &ReadError{Table: s.Table, Message: "table does not exist"}
	}

	pairs, err := ex.store.ScanPrefix(keyspace.DataPrefix(s.Table))
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "scan failed", Err: err}
	}
	for _, kv := range pairs {
		if err := ex.store.Delete(kv.Key); err != nil {
			return nil, &WriteError{Table: s.Table, Message: "row delete failed", Err: err}
		}
	}
	if err := ex.cat.Drop(s.Table); err != nil {
		return nil, &WriteError{Table: s.Table, Message: "catalog drop failed", Err: err}
	}
	ex.invalidateCache()
	ex.log.Debug("drop table", zap.String("table", s.Table), zap.Int("rows_deleted", len(pairs)))
	return Deleted{Table: s.Table, Rows: len(pairs)}, nil
}

// --- SHOW TABLES / DESCRIBE TABLE ---

func (ex *Executor) showTables(_ ShowTables) (ExecutionResult, error) {
	names, err := ex.cat.List()
	if err != nil {
		return nil, &ReadError{Message: "catalog list failed", Err: err}
	}
	return TableList{Tables: names}, nil
}

func (ex *Executor) describeTable(s DescribeTable) (ExecutionResult, error) {
	schema, err := ex.cat.Get(s.Table)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "catalog lookup failed", Err: err}
	}
	if schema == nil {
		return nil, &ReadError{Table: s.Table, Message: "table does not exist"}
	}
	return TableDescription{Table: s.Table, Columns: schema.Columns}, nil
}

// --- INSERT ---

func (ex *Executor) insert(s Insert) (ExecutionResult, error) {
	schema, err := ex.cat.Get(s.Table)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "catalog lookup failed", Err: err}
	}
	if schema == nil {
		return nil, &ReadError{Table: s.Table, Message: "table does not exist"}
	}

	destColumns := schema.ColumnNames()
	if s.Columns != nil {
		if err := rejectDuplicateNames(s.Columns); err != nil {
			return nil, &WriteError{Table: s.Table, Message: "duplicate column in insert list", Err: err}
		}
		for _, name := range s.Columns {
			if schema.ColumnIndex(name) == -1 {
				return nil, &WriteError{Table: s.Table, Message: fmt.Sprintf("unknown column %q", name)}
			}
		}
		destColumns = s.Columns
	}

	prepared := make([][]value.Value, 0, len(s.Rows))
	for rowIdx, row := range s.Rows {
		if len(row) != len(destColumns) {
			return nil, &WriteError{Table: s.Table, Message: fmt.Sprintf("row %d arity %d does not match %d destination columns", rowIdx, len(row), len(destColumns))}
		}
		full := make([]value.Value, len(schema.Columns))
		for i := range full {
			full[i] = value.Nil()
		}
		for i, destName := range destColumns {
			idx := schema.ColumnIndex(destName)
			lit := literalToValue(row[i].Value)
			coerced, err := coerce.To(destName, schema.Columns[idx].Type, lit)
			if err != nil {
				return nil, &WriteError{Table: s.Table, Message: fmt.Sprintf("row %d column %q", rowIdx, destName), Err: err}
			}
			full[idx] = coerced
		}
		prepared = append(prepared, full)
	}

	// Each row is an independent write; there is no INSERT-level
	// atomicity across rows.
	for _, row := range prepared {
		raw, err := rowcodec.Encode(row)
		if err != nil {
			return nil, &SerializationError{Table: s.Table, Err: err}
		}
		key := keyspace.DataKey(s.Table, keyspace.NextSuffix(ex.now().UnixNano()))
		if err := ex.store.Set(key, raw); err != nil {
			return nil, &WriteError{Table: s.Table, Message: "row write failed", Err: err}
		}
	}

	ex.invalidateCache()
	ex.log.Debug("insert", zap.String("table", s.Table), zap.Int("rows", len(prepared)))
	return Inserted{Table: s.Table, Rows: len(prepared)}, nil
}

// --- SELECT ---

func (ex *Executor) selectQuery(s Select) (ExecutionResult, error) {
	schema, err := ex.cat.Get(s.Table)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "catalog lookup failed", Err: err}
	}
	if schema == nil {
		return nil, &ReadError{Table: s.Table, Message: "table does not exist"}
	}

	indices, outputNames, err := resolveProjection(schema, s.Projection)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "projection resolution failed", Err: err}
	}

	key := cacheKey(s)
	if cached, ok := ex.cache.Get(key); ok {
		ex.log.Debug("select cache hit", zap.String("table", s.Table))
		return Selected{Columns: outputNames, Rows: cached}, nil
	}

	pairs, err := ex.store.ScanPrefix(keyspace.DataPrefix(s.Table))
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "scan failed", Err: err}
	}

	rows := make([][]value.Value, 0, len(pairs))
	for _, kv := range pairs {
		decoded, err := rowcodec.Decode(kv.Value)
		if err != nil {
			// A single unreadable row is skipped during reads, not
			// fatal.
			ex.log.Warn("skipping undecodable row during select", zap.String("table", s.Table), zap.Error(err))
			continue
		}
		rows = append(rows, decoded)
	}
	ex.log.Debug("select scan", zap.String("table", s.Table), zap.Int("rows", len(rows)))

	if s.Predicate != nil {
		evaluator := eval.New(schema.ColumnNames())
		filtered := rows[:0:0]
		for _, row := range rows {
			matched, err := evaluator.Eval(s.Predicate, row)
			if err != nil {
				// Evaluator errors during read are treated as "false"
				// for that row, not a statement failure.
				continue
			}
			if matched {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
		ex.log.Debug("select filter", zap.String("table", s.Table), zap.Int("rows", len(rows)))
	}

	if len(s.Order) > 0 {
		sortRows(rows, schema, s.Order)
		ex.log.Debug("select sort", zap.String("table", s.Table), zap.Int("keys", len(s.Order)))
	}

	if s.HasLimit && s.Limit < len(rows) {
		if s.Limit < 0 {
			rows = rows[:0]
		} else {
			rows = rows[:s.Limit]
		}
	}

	projected := make([]resultcache.Row, len(rows))
	for i, row := range rows {
		out := make(resultcache.Row, len(indices))
		for j, idx := range indices {
			out[j] = row[idx]
		}
		projected[i] = out
	}
	ex.log.Debug("select project", zap.String("table", s.Table), zap.Int("rows", len(projected)))

	ex.cache.Put(key, projected)
	return Selected{Columns: outputNames, Rows: projected}, nil
}

// --- DELETE ---

func (ex *Executor) delete(s Delete) (ExecutionResult, error) {
	schema, err := ex.cat.Get(s.Table)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "catalog lookup failed", Err: err}
	}
	if schema == nil {
		return nil, &ReadError{Table: s.Table, Message: "table does not exist"}
	}

	pairs, err := ex.store.ScanPrefix(keyspace.DataPrefix(s.Table))
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "scan failed", Err: err}
	}

	if s.Predicate == nil {
		ex.log.Warn("delete without predicate removes every row", zap.String("table", s.Table), zap.Int("rows", len(pairs)))
		for _, kv := range pairs {
			if err := ex.store.Delete(kv.Key); err != nil {
				return nil, &WriteError{Table: s.Table, Message: "row delete failed", Err: err}
			}
		}
		ex.invalidateCache()
		return Deleted{Table: s.Table, Rows: len(pairs)}, nil
	}

	// Phase A: collect. Any evaluator error aborts with no deletions.
	evaluator := eval.New(schema.ColumnNames())
	toDelete := make([][]byte, 0, len(pairs))
	for _, kv := range pairs {
		row, err := rowcodec.Decode(kv.Value)
		if err != nil {
			return nil, &ReadError{Table: s.Table, Message: "decode failed on committed path", Err: err}
		}
		matched, err := evaluator.Eval(s.Predicate, row)
		if err != nil {
			return nil, &ReadError{Table: s.Table, Message: "predicate evaluation failed", Err: err}
		}
		if matched {
			toDelete = append(toDelete, kv.Key)
		}
	}

	// Phase B: apply.
	for _, key := range toDelete {
		if err := ex.store.Delete(key); err != nil {
			return nil, &WriteError{Table: s.Table, Message: "row delete failed", Err: err}
		}
	}
	ex.invalidateCache()
	ex.log.Debug("delete", zap.String("table", s.Table), zap.Int("rows", len(toDelete)))
	return Deleted{Table: s.Table, Rows: len(toDelete)}, nil
}

// --- UPDATE ---

func (ex *Executor) update(s Update) (ExecutionResult, error) {
	schema, err := ex.cat.Get(s.Table)
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "catalog lookup failed", Err: err}
	}
	if schema == nil {
		return nil, &ReadError{Table: s.Table, Message: "table does not exist"}
	}

	names := make([]string, len(s.Assignments))
	for i, a := range s.Assignments {
		names[i] = a.Column
	}
	if err := rejectDuplicateNames(names); err != nil {
		return nil, &WriteError{Table: s.Table, Message: "duplicate assignment column", Err: err}
	}

	type boundAssignment struct {
		index int
		value value.Value
	}
	bound := make([]boundAssignment, len(s.Assignments))
	for i, a := range s.Assignments {
		idx := schema.ColumnIndex(a.Column)
		if idx == -1 {
			return nil, &WriteError{Table: s.Table, Message: fmt.Sprintf("unknown column %q", a.Column)}
		}
		coerced, err := coerce.To(a.Column, schema.Columns[idx].Type, literalToValue(a.Value.Value))
		if err != nil {
			return nil, &WriteError{Table: s.Table, Message: fmt.Sprintf("assignment to column %q", a.Column), Err: err}
		}
		bound[i] = boundAssignment{index: idx, value: coerced}
	}

	pairs, err := ex.store.ScanPrefix(keyspace.DataPrefix(s.Table))
	if err != nil {
		return nil, &ReadError{Table: s.Table, Message: "scan failed", Err: err}
	}

	var evaluator *eval.Evaluator
	if s.Predicate != nil {
		evaluator = eval.New(schema.ColumnNames())
	}

	writes := make([]kvstore.KV, 0, len(pairs))
	for _, kv := range pairs {
		row, err := rowcodec.Decode(kv.Value)
		if err != nil {
			return nil, &ReadError{Table: s.Table, Message: "decode failed on committed path", Err: err}
		}

		matched := true
		if evaluator != nil {
			matched, err = evaluator.Eval(s.Predicate, row)
			if err != nil {
				return nil, &ReadError{Table: s.Table, Message: "predicate evaluation failed", Err: err}
			}
		}
		if !matched {
			continue
		}

		updated := make([]value.Value, len(row))
		copy(updated, row)
		for _, a := range bound {
			if a.index >= len(updated) {
				return nil, &ReadError{Table: s.Table, Message: "row arity disagrees with schema"}
			}
			updated[a.index] = a.value
		}

		raw, err := rowcodec.Encode(updated)
		if err != nil {
			return nil, &SerializationError{Table: s.Table, Err: err}
		}
		writes = append(writes, kvstore.KV{Key: kv.Key, Value: raw})
	}

	if len(writes) > 0 {
		if err := ex.store.BatchSet(writes); err != nil {
			return nil, &WriteError{Table: s.Table, Message: "batch write failed", Err: err}
		}
	}
	if s.Predicate == nil && len(writes) > 0 {
		ex.log.Warn("update without predicate modified rows", zap.String("table", s.Table), zap.Int("rows", len(writes)))
	}

	ex.invalidateCache()
	ex.log.Debug("update", zap.String("table", s.Table), zap.Int("rows", len(writes)))
	return Updated{Table: s.Table, Rows: len(writes)}, nil
}

// --- helpers ---

func (ex *Executor) invalidateCache() {
	ex.cache.ClearAll()
}

// literalToValue converts a parser-supplied Go literal into a Value.
// int64 and int become Integer, float64 Float, string Text, bool
// Boolean, and nil Null; any other type is rendered as Text via %v.
func literalToValue(v any) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Nil()
	case int64:
		return value.Int(x)
	case int:
		return value.Int(int64(x))
	case float64:
		return value.Flt(x)
	case string:
		return value.Str(x)
	case bool:
		return value.Bool(x)
	default:
		return value.Str(fmt.Sprintf("%v", x))
	}
}

// rejectDuplicateNames returns an error naming the first column that
// appears more than once. Duplicate columns are rejected before any
// unknown-column lookup runs.
func rejectDuplicateNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("duplicate column %q", n)
		}
		seen[n] = true
	}
	return nil
}

// resolveProjection expands a projection list into column indices and
// output names. A wildcard item expands to
// every column in declared order; an empty projection is rejected.
func resolveProjection(schema *catalog.TableSchema, items []ProjectionItem) ([]int, []string, error) {
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("projection must not be empty")
	}
	var indices []int
	var names []string
	for _, item := range items {
		if item.Column == "*" {
			for i, c := range schema.Columns {
				indices = append(indices, i)
				names = append(names, c.Name)
			}
			continue
		}
		idx := schema.ColumnIndex(item.Column)
		if idx == -1 {
			return nil, nil, fmt.Errorf("unknown column %q", item.Column)
		}
		indices = append(indices, idx)
		if item.Alias != "" {
			names = append(names, item.Alias)
		} else {
			names = append(names, item.Column)
		}
	}
	return indices, names, nil
}

// sortRows applies a stable sort for each order key in reverse
// declaration order, so the leftmost declared key ends up most
// significant. Cross-type operand pairs compare as equal (preserving
// stable input order) rather than erroring.
func sortRows(rows [][]value.Value, schema *catalog.TableSchema, order []OrderKey) {
	for i := len(order) - 1; i >= 0; i-- {
		key := order[i]
		idx := schema.ColumnIndex(key.Column)
		if idx == -1 {
			continue
		}
		ascending := key.Ascending
		sort.SliceStable(rows, func(a, b int) bool {
			cmp, err := value.Compare(rows[a][idx], rows[b][idx])
			if err != nil {
				return false
			}
			if ascending {
				return cmp == value.Less
			}
			return cmp == value.Greater
		})
	}
}
