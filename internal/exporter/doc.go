// Package exporter persists tables produced by the delta run.
//
// CSVWriter: Core CSV writing with headers, append mode and an optional
// UTF-8 BOM. WriteTable rewrites a table file in row order.
//
// XLSXWriter: Workbook export with a "data" sheet mirroring the table and a
// "stats" sheet with the delta summary.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(logger)
//	err := writer.WriteTable("data.csv", table)
//
//	err = exporter.NewXLSXWriter(logger).WriteWorkbook("dt.xlsx", table, "dt", summary)
package exporter
