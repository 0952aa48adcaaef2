package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"dtcli/internal/config"
	"dtcli/internal/dataprocessing"
	apperrors "dtcli/internal/errors"
	"dtcli/internal/exporter"
	"dtcli/internal/infrastructure"
	"dtcli/internal/report"
	"dtcli/internal/validation"
)

// RunResult is the outcome of a successful run
type RunResult struct {
	Table   *dataprocessing.Table
	Delta   *dataprocessing.Series
	Summary dataprocessing.Summary
}

// TableWriter persists a table to a file
type TableWriter interface {
	WriteTable(filePath string, table *dataprocessing.Table) error
}

// DeltaReporter adds the consecutive-row difference of a numeric column to
// a CSV file, writes the file back and prints a report of the deltas
type DeltaReporter struct {
	cfg       config.ReportConfig
	out       io.Writer
	logger    *slog.Logger
	validator *validation.FileValidator
	csv       TableWriter
	xlsx      *exporter.XLSXWriter
	tracer    *RunTracer
}

// NewDeltaReporter creates a reporter printing to out. providers may be nil.
func NewDeltaReporter(cfg config.ReportConfig, out io.Writer, providers *infrastructure.OTelProviders, logger *slog.Logger) *DeltaReporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "delta_reporter")

	return &DeltaReporter{
		cfg:       cfg,
		out:       out,
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		csv:       exporter.NewCSVWriter(logger),
		xlsx:      exporter.NewXLSXWriter(logger),
		tracer:    NewRunTracer(providers),
	}
}

// Run processes the file at path, or the configured path when path is
// empty. Load and schema failures leave the file untouched. ctx is checked
// between stages; a running stage is never interrupted.
func (r *DeltaReporter) Run(ctx context.Context, path string) (result *RunResult, err error) {
	if path == "" {
		path = r.cfg.Path
	}

	ctx, span := r.tracer.TraceRun(ctx, path, r.cfg.Column)
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		span.End()
	}()

	r.logger.InfoContext(ctx, "Starting delta run",
		slog.String("file", path),
		slog.String("column", r.cfg.Column),
		slog.String("delta_column", r.cfg.DeltaColumn))

	if err := ctx.Err(); err != nil {
		return nil, r.fail(ctx, err)
	}
	table, err := r.load(ctx, path)
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(ctx, err)
	}
	delta, summary, err := r.transform(ctx, table)
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(ctx, err)
	}
	if err := r.persist(ctx, path, table, summary); err != nil {
		return nil, r.fail(ctx, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(ctx, err)
	}
	if err := r.report(ctx, table, delta, summary); err != nil {
		return nil, r.fail(ctx, err)
	}

	r.tracer.RecordCompletion(ctx, span, summary)
	r.logger.InfoContext(ctx, "Delta run completed",
		slog.String("file", path),
		slog.Int("rows", summary.Rows),
		slog.Int("null_deltas", summary.Nulls),
		slog.Float64("mean", summary.Mean))

	return &RunResult{Table: table, Delta: delta, Summary: summary}, nil
}

func (r *DeltaReporter) load(ctx context.Context, path string) (table *dataprocessing.Table, err error) {
	ctx, end := r.tracer.TraceStage(ctx, StageLoad)
	defer func() { end(err) }()

	if err := r.validator.ValidateFile(path); err != nil {
		return nil, apperrors.NewLoadError("input file is not readable", err).
			WithContext("file", path)
	}

	table, err = dataprocessing.LoadCSV(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to load table", err).
			WithContext("file", path)
	}

	r.logger.DebugContext(ctx, "Table loaded",
		slog.String("file", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Header)))
	return table, nil
}

func (r *DeltaReporter) transform(ctx context.Context, table *dataprocessing.Table) (delta *dataprocessing.Series, summary dataprocessing.Summary, err error) {
	ctx, end := r.tracer.TraceStage(ctx, StageTransform)
	defer func() { end(err) }()

	source, err := dataprocessing.ParseSeries(table, r.cfg.Column)
	if err != nil {
		var valueErr *dataprocessing.ValueError
		switch {
		case errors.Is(err, dataprocessing.ErrColumnNotFound):
			err = apperrors.NewSchemaError("required column is missing", err).
				WithContext("column", r.cfg.Column)
		case errors.As(err, &valueErr):
			err = apperrors.NewSchemaError("column is not numeric", err).
				WithContext("column", r.cfg.Column).
				WithContext("row", valueErr.Row)
		default:
			err = apperrors.NewSchemaError("failed to parse column", err)
		}
		return nil, summary, err
	}

	delta = source.Diff(r.cfg.DeltaColumn)
	if err := table.SetColumn(r.cfg.DeltaColumn, delta.Strings()); err != nil {
		return nil, summary, apperrors.NewSchemaError("failed to set delta column", err)
	}
	summary = dataprocessing.Summarize(delta, r.cfg.Percentiles)

	r.logger.DebugContext(ctx, "Delta computed",
		slog.String("kind", delta.Kind.String()),
		slog.Int("count", summary.Count),
		slog.Int("nulls", summary.Nulls))
	return delta, summary, nil
}

func (r *DeltaReporter) persist(ctx context.Context, path string, table *dataprocessing.Table, summary dataprocessing.Summary) (err error) {
	_, end := r.tracer.TraceStage(ctx, StagePersist)
	defer func() { end(err) }()

	if err := r.validator.ValidateWritableFile(path); err != nil {
		return apperrors.NewPersistError("input file is not writable", err).
			WithContext("file", path)
	}
	if err := r.csv.WriteTable(path, table); err != nil {
		return apperrors.NewPersistError("failed to write table", err).
			WithContext("file", path)
	}

	if r.cfg.XLSXPath == "" {
		return nil
	}
	if err := r.validator.ValidateOutputDirectory(filepath.Dir(r.cfg.XLSXPath)); err != nil {
		return apperrors.NewPersistError("workbook directory is not writable", err).
			WithContext("file", r.cfg.XLSXPath)
	}
	if err := r.xlsx.WriteWorkbook(r.cfg.XLSXPath, table, r.cfg.DeltaColumn, summary); err != nil {
		return apperrors.NewPersistError("failed to write workbook", err).
			WithContext("file", r.cfg.XLSXPath)
	}
	return nil
}

func (r *DeltaReporter) report(ctx context.Context, table *dataprocessing.Table, delta *dataprocessing.Series, summary dataprocessing.Summary) (err error) {
	_, end := r.tracer.TraceStage(ctx, StageReport)
	defer func() { end(err) }()

	return report.Write(r.out, report.Input{
		Table:     table,
		Delta:     delta,
		Summary:   summary,
		SmallestN: r.cfg.SmallestN,
		LargestN:  r.cfg.LargestN,
	})
}

// fail logs a run failure and returns err unchanged
func (r *DeltaReporter) fail(ctx context.Context, err error) error {
	infrastructure.WithError(r.logger, err).ErrorContext(ctx, "Delta run failed",
		slog.String("error_type", string(apperrors.ErrorTypeOf(err))))
	return err
}
