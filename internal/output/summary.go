package output

import (
	"fmt"
	"strings"

	"nexumdb/internal/engine"
)

type summaryFormatter struct{}

// Format renders a compact, count-oriented summary of r: a header
// line followed by the handful of counts that matter for that result
// kind.
func (summaryFormatter) Format(r engine.ExecutionResult) (string, error) {
	var sb strings.Builder
	switch res := r.(type) {
	case engine.Created:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Created table: %s\n", res.Table)
	case engine.TableList:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Tables: %d\n", len(res.Tables))
	case engine.TableDescription:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Table:   %s\n", res.Table)
		fmt.Fprintf(&sb, "Columns: %d\n", len(res.Columns))
	case engine.Inserted:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Inserted: %d row(s) into %s\n", res.Rows, res.Table)
	case engine.Selected:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Columns: %d\n", len(res.Columns))
		fmt.Fprintf(&sb, "Rows:    %d\n", len(res.Rows))
	case engine.Updated:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Updated: %d row(s) in %s\n", res.Rows, res.Table)
	case engine.Deleted:
		sb.WriteString("Statement Summary\n")
		sb.WriteString("=================\n\n")
		fmt.Fprintf(&sb, "Deleted: %d row(s) from %s\n", res.Rows, res.Table)
	default:
		return "", fmt.Errorf("output: unsupported result type %T", r)
	}
	return sb.String(), nil
}
