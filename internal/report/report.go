package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"dtcli/internal/dataprocessing"
	"dtcli/internal/exporter"
)

// NoRows is printed in place of an empty row section
const NoRows = "(no rows)"

// Input is everything a report is rendered from
type Input struct {
	Table     *dataprocessing.Table
	Delta     *dataprocessing.Series
	Summary   dataprocessing.Summary
	SmallestN int
	LargestN  int
}

// Write renders the report to w. Row sections list at most SmallestN and
// LargestN rows with a non-null delta, each prefixed by its 0-based
// position in the table.
func Write(w io.Writer, in Input) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	name := in.Delta.Name

	fmt.Fprintf(tw, "=== SMALLEST %d %s ===\n", in.SmallestN, name)
	writeRows(tw, in.Table, pick(in.Delta, false, in.SmallestN))

	fmt.Fprintf(tw, "\n=== LARGEST %d %s ===\n", in.LargestN, name)
	writeRows(tw, in.Table, pick(in.Delta, true, in.LargestN))

	fmt.Fprintf(tw, "\n=== PERCENTILES %s ===\n", name)
	fmt.Fprintln(tw, "quantile\tvalue")
	for _, q := range in.Summary.Quantiles {
		fmt.Fprintf(tw, "%s\t%s\n", exporter.FormatQuantile(q.Q), exporter.FormatFloat(q.Value))
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "mean: %s\n", exporter.FormatFloat(in.Summary.Mean))
	fmt.Fprintf(tw, "std: %s\n", exporter.FormatFloat(in.Summary.StdDev))

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// pick returns up to n row indices ordered by delta, skipping null deltas
func pick(delta *dataprocessing.Series, descending bool, n int) []int {
	var out []int
	for _, idx := range dataprocessing.Order(delta, descending) {
		if len(out) == n || delta.IsNull(idx) {
			break
		}
		out = append(out, idx)
	}
	return out
}

// cellEscaper keeps each cell on one line and inside one tabwriter column
var cellEscaper = strings.NewReplacer("\t", `\t`, "\n", `\n`, "\r", `\r`)

func writeRows(w io.Writer, table *dataprocessing.Table, rows []int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, NoRows)
		return
	}

	fmt.Fprintf(w, "index\t%s\n", joinCells(table.Header))
	for _, idx := range rows {
		fmt.Fprintf(w, "%d\t%s\n", idx, joinCells(table.Rows[idx]))
	}
}

func joinCells(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = cellEscaper.Replace(cell)
	}
	return strings.Join(escaped, "\t")
}
