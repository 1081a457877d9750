package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// renderResult writes one result table in the requested format.
func renderResult(w io.Writer, t *core.Table, format string) error {
	switch format {
	case "json":
		return renderJSON(w, t.Rows)
	default:
		return renderTable(w, t)
	}
}

func renderTable(w io.Writer, t *core.Table) error {
	if len(t.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	cols := make([]string, len(t.Meta))
	for i, col := range t.Meta {
		cols[i] = col.Name
	}
	// Streamed packets may carry no metadata; fall back to the first row's
	// keys.
	if len(cols) == 0 {
		for name := range t.Rows[0] {
			cols = append(cols, name)
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	tw.AppendHeader(headerRow)

	for _, r := range t.Rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(r[col])
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return nil
}

func renderJSON(w io.Writer, rows []core.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
