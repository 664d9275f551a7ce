package engine

import (
	"fmt"
	"strings"

	"nexumdb/internal/eval"
)

// cacheKey computes a deterministic string key from a SELECT's full
// query shape: table, projection (with aliases), predicate, order
// keys with direction, and limit. The statement interface never
// carries raw SQL text, so the predicate contributes its canonical
// expression-tree serialization instead of source text; two
// predicates that are structurally identical always produce the same
// key.
func cacheKey(stmt Select) string {
	var b strings.Builder
	b.WriteString("table=")
	b.WriteString(stmt.Table)

	b.WriteString("|proj=")
	for i, p := range stmt.Projection {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Column)
		if p.Alias != "" {
			b.WriteString(" as ")
			b.WriteString(p.Alias)
		}
	}

	b.WriteString("|where=")
	b.WriteString(exprKey(stmt.Predicate))

	b.WriteString("|order=")
	for i, k := range stmt.Order {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k.Column)
		if k.Ascending {
			b.WriteString(" asc")
		} else {
			b.WriteString(" desc")
		}
	}

	b.WriteString("|limit=")
	if stmt.HasLimit {
		fmt.Fprintf(&b, "%d", stmt.Limit)
	} else {
		b.WriteString("none")
	}
	return b.String()
}

// exprKey canonically serializes a predicate tree so that structurally
// identical predicates always produce identical text, regardless of
// how the parser built the Expr nodes.
func exprKey(e eval.Expr) string {
	if e == nil {
		return "<none>"
	}
	switch ex := e.(type) {
	case eval.Column:
		return "col(" + ex.Name + ")"
	case eval.Literal:
		return "lit(" + ex.Value.Tag.String() + ":" + ex.Value.String() + ")"
	case eval.BinaryOp:
		return fmt.Sprintf("op(%d,%s,%s)", ex.Op, exprKey(ex.Left), exprKey(ex.Right))
	case eval.And:
		return "and(" + exprKey(ex.Left) + "," + exprKey(ex.Right) + ")"
	case eval.Or:
		return "or(" + exprKey(ex.Left) + "," + exprKey(ex.Right) + ")"
	case eval.Like:
		return fmt.Sprintf("like(%s,%s,neg=%v)", exprKey(ex.Operand), exprKey(ex.Pattern), ex.Negate)
	case eval.In:
		parts := make([]string, len(ex.List))
		for i, item := range ex.List {
			parts[i] = exprKey(item)
		}
		return fmt.Sprintf("in(%s,[%s],neg=%v)", exprKey(ex.Operand), strings.Join(parts, ";"), ex.Negate)
	case eval.Between:
		return fmt.Sprintf("between(%s,%s,%s,neg=%v)", exprKey(ex.Operand), exprKey(ex.Low), exprKey(ex.High), ex.Negate)
	default:
		return fmt.Sprintf("unknown(%T)", ex)
	}
}
