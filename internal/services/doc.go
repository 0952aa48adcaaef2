// Package services implements the business logic layer of dt. It sits
// between the command entry point and the data, export and report
// packages, so the binary stays a thin wiring layer.
//
// # Delta Reporter
//
// DeltaReporter runs one pass over a CSV file as a linear pipeline:
//
//	load      validate the path and read the table
//	transform parse the source column and add its first difference
//	persist   rewrite the CSV (and optionally an XLSX workbook)
//	report    print extreme rows, percentiles, mean and std
//
// Load failures are LOAD errors, a missing or non-numeric source column is a
// SCHEMA error, and write failures are PERSIST errors. Nothing is written
// before the transform succeeds.
//
// # Usage
//
//	reporter := services.NewDeltaReporter(cfg.Report, os.Stdout, providers, logger)
//	result, err := reporter.Run(ctx, "")
//	if err != nil {
//	    return err
//	}
//
// # Observability
//
// Every run gets a "delta.run" span with one child span per stage. Stage
// durations and the run statistics are recorded on the RunMetrics of the
// OTelProviders passed in; with nil providers tracing is a no-op.
package services
