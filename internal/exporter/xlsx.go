package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"dtcli/internal/dataprocessing"
)

const (
	DataSheet  = "data"
	StatsSheet = "stats"
)

// XLSXWriter exports the augmented table and its delta statistics to a workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteWorkbook writes a "data" sheet holding the table (numeric cells as
// numbers) and a "stats" sheet holding summary, labelled with deltaName.
func (w *XLSXWriter) WriteWorkbook(filePath string, table *dataprocessing.Table, deltaName string, summary dataprocessing.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(StatsSheet); err != nil {
		return fmt.Errorf("failed to create stats sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, DataSheet, 1, toCells(table.Header, false)); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(f, DataSheet, i+2, toCells(row, true)); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(DataSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	stats := [][]interface{}{
		{"statistic", deltaName},
		{"rows", summary.Rows},
		{"count", summary.Count},
		{"nulls", summary.Nulls},
		{"mean", cellValue(summary.Mean)},
		{"std", cellValue(summary.StdDev)},
		{"min", cellValue(summary.Min)},
		{"max", cellValue(summary.Max)},
	}
	for _, q := range summary.Quantiles {
		stats = append(stats, []interface{}{"p" + FormatQuantile(q.Q), cellValue(q.Value)})
	}
	for i, row := range stats {
		if err := writeRow(f, StatsSheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(StatsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("file_path", filePath),
		slog.Int("rows", table.Len()),
		slog.Int("statistics", len(stats)-1))
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// toCells converts raw CSV cells; numeric cells become numbers when numeric is set
func toCells(raw []string, numeric bool) []interface{} {
	out := make([]interface{}, len(raw))
	for i, cell := range raw {
		out[i] = cell
		if !numeric {
			continue
		}
		trimmed := strings.TrimSpace(cell)
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			out[i] = v
		} else if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}
