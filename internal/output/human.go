package output

import (
	"fmt"
	"strings"

	"nexumdb/internal/engine"
)

type humanFormatter struct{}

// Format renders r as the kind of padded-column table a terminal user
// expects from a SELECT, or a one-line message for every other
// result kind.
func (humanFormatter) Format(r engine.ExecutionResult) (string, error) {
	switch res := r.(type) {
	case engine.Created:
		return fmt.Sprintf("Table %q created.\n", res.Table), nil
	case engine.TableList:
		if len(res.Tables) == 0 {
			return "No tables.\n", nil
		}
		var sb strings.Builder
		sb.WriteString("Tables\n")
		sb.WriteString("------\n")
		for _, name := range res.Tables {
			fmt.Fprintf(&sb, "%s\n", name)
		}
		return sb.String(), nil
	case engine.TableDescription:
		var sb strings.Builder
		fmt.Fprintf(&sb, "Table %q\n", res.Table)
		for _, col := range res.Columns {
			fmt.Fprintf(&sb, "  %-20s %s\n", col.Name, col.Type)
		}
		return sb.String(), nil
	case engine.Inserted:
		return fmt.Sprintf("Inserted %d row(s) into %q.\n", res.Rows, res.Table), nil
	case engine.Selected:
		return formatTable(res), nil
	case engine.Updated:
		return fmt.Sprintf("Updated %d row(s) in %q.\n", res.Rows, res.Table), nil
	case engine.Deleted:
		return fmt.Sprintf("Deleted %d row(s) from %q.\n", res.Rows, res.Table), nil
	default:
		return "", fmt.Errorf("output: unsupported result type %T", r)
	}
}

// formatTable renders a Selected result as a padded-column table,
// followed by a row-count line. With no rows, only the header, its
// separator and the count line are written.
func formatTable(res engine.Selected) string {
	widths := make([]int, len(res.Columns))
	for i, c := range res.Columns {
		widths[i] = len(c)
	}
	rendered := make([][]string, len(res.Rows))
	for i, row := range res.Rows {
		rendered[i] = make([]string, len(row))
		for j, v := range row {
			s := v.String()
			rendered[i][j] = s
			if j < len(widths) && len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}

	var sb strings.Builder
	writeRow(&sb, res.Columns, widths)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(&sb, sep, widths)
	for _, row := range rendered {
		writeRow(&sb, row, widths)
	}
	fmt.Fprintf(&sb, "(%d row(s))\n", len(res.Rows))
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		fmt.Fprintf(sb, "%-*s", w, cell)
	}
	sb.WriteString("\n")
}
