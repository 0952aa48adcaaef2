package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dtcli/internal/config"
	"dtcli/internal/dataprocessing"
	apperrors "dtcli/internal/errors"
	"dtcli/internal/exporter"
	"dtcli/internal/infrastructure"
	"dtcli/internal/shared/testutil"
)

func newTestReporter(t *testing.T, mutate func(*config.ReportConfig)) (*DeltaReporter, *bytes.Buffer, *testutil.BufferedSlogHandler) {
	t.Helper()

	cfg := config.Default().Report
	if mutate != nil {
		mutate(&cfg)
	}
	logger, handler := testutil.NewTestLogger(t)
	out := &bytes.Buffer{}
	return NewDeltaReporter(cfg, out, nil, logger), out, handler
}

func TestDeltaReporter_Run_Scenario(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	reporter, out, handler := newTestReporter(t, nil)

	result, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"timestamp,value,dt",
		"0,a,",
		"5,b,5",
		"5,c,0",
		"20,d,15",
	}, testutil.ReadCSVLines(t, path))

	assert.Equal(t, 4, result.Summary.Rows)
	assert.Equal(t, 1, result.Summary.Nulls)
	assert.InDelta(t, 6.667, result.Summary.Mean, 1e-3)
	assert.InDelta(t, 7.638, result.Summary.StdDev, 1e-3)

	largest := dataprocessing.Order(result.Delta, true)
	smallest := dataprocessing.Order(result.Delta, false)
	assert.Equal(t, 3, largest[0])
	assert.Equal(t, 2, smallest[0])

	report := out.String()
	assert.Contains(t, report, "=== SMALLEST 5 dt ===")
	assert.Contains(t, report, "=== LARGEST 10 dt ===")
	assert.Contains(t, report, "mean: 6.666666666666667")

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Delta run completed")
	testutil.AssertLogAttr(t, handler, "component", "delta_reporter")
	testutil.AssertNoErrors(t, handler)
}

func TestDeltaReporter_Run_UsesConfiguredPath(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	reporter, _, _ := newTestReporter(t, func(cfg *config.ReportConfig) {
		cfg.Path = path
	})

	_, err := reporter.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "timestamp,value,dt", testutil.ReadCSVLines(t, path)[0])
}

func TestDeltaReporter_Run_Failures(t *testing.T) {
	tests := []struct {
		name     string
		content  *string
		wantType apperrors.ErrorType
	}{
		{name: "missing file", content: nil, wantType: apperrors.ErrTypeLoad},
		{name: "empty file", content: ptr(""), wantType: apperrors.ErrTypeLoad},
		{name: "ragged rows", content: ptr("timestamp,value\n1,a,extra\n"), wantType: apperrors.ErrTypeLoad},
		{name: "missing column", content: ptr(testutil.MissingColumnCSV), wantType: apperrors.ErrTypeSchema},
		{name: "non-numeric column", content: ptr(testutil.NonNumericCSV), wantType: apperrors.ErrTypeSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv")
			if tt.content != nil {
				path = testutil.WriteCSVFixture(t, "data.csv", *tt.content)
			}
			reporter, out, handler := newTestReporter(t, nil)

			_, err := reporter.Run(context.Background(), path)

			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.ErrorTypeOf(err))
			assert.Empty(t, out.String(), "no report on failure")
			testutil.AssertLogContains(t, handler, slog.LevelError, "Delta run failed")
			testutil.AssertLogAttr(t, handler, "error", err.Error())

			if tt.content != nil {
				content, readErr := os.ReadFile(path)
				require.NoError(t, readErr)
				assert.Equal(t, *tt.content, string(content), "file must be left untouched")
			}
		})
	}
}

func TestDeltaReporter_Run_HeaderOnly(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.HeaderOnlyCSV)
	reporter, out, _ := newTestReporter(t, nil)

	result, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"timestamp,value,dt"}, testutil.ReadCSVLines(t, path))
	assert.Equal(t, 0, result.Summary.Rows)
	assert.Contains(t, out.String(), "(no rows)")
	assert.Contains(t, out.String(), "mean: NaN")
	assert.Contains(t, out.String(), "std: NaN")
}

func TestDeltaReporter_Run_KeepsRowOrder(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", "timestamp\n100\n10\n50\n1\n")
	reporter, _, _ := newTestReporter(t, nil)

	_, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"timestamp,dt", "100,", "10,-90", "50,40", "1,-49"},
		testutil.ReadCSVLines(t, path))
}

func TestDeltaReporter_Run_Idempotent(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	reporter, _, _ := newTestReporter(t, nil)

	_, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = reporter.Run(context.Background(), path)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestDeltaReporter_Run_CustomColumns(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "ticks.csv", "ts,price\n1.5,10\n2,11\n")
	reporter, out, _ := newTestReporter(t, func(cfg *config.ReportConfig) {
		cfg.Column = "ts"
		cfg.DeltaColumn = "gap"
		cfg.Percentiles = []float64{0.5}
	})

	_, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ts,price,gap", "1.5,10,", "2,11,0.5"}, testutil.ReadCSVLines(t, path))
	assert.Contains(t, out.String(), "=== PERCENTILES gap ===")
}

func TestDeltaReporter_Run_WritesWorkbook(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	xlsxPath := filepath.Join(t.TempDir(), "out", "dt.xlsx")
	reporter, _, _ := newTestReporter(t, func(cfg *config.ReportConfig) {
		cfg.XLSXPath = xlsxPath
	})

	_, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exporter.DataSheet, "C1")
	require.NoError(t, err)
	assert.Equal(t, "dt", header)

	rows, err := f.GetRows(exporter.StatsSheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"statistic", "dt"}, rows[0])
}

func TestDeltaReporter_Run_WorkbookFailureIsPersistError(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	reporter, out, _ := newTestReporter(t, func(cfg *config.ReportConfig) {
		cfg.XLSXPath = filepath.Join(blocker, "dt.xlsx")
	})

	_, err := reporter.Run(context.Background(), path)

	require.Error(t, err)
	assert.True(t, apperrors.IsPersistError(err))
	assert.Empty(t, out.String())
}

func TestDeltaReporter_Run_RecordsTelemetry(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	traces := &bytes.Buffer{}
	providers, err := infrastructure.InitializeOTel(config.TelemetryConfig{TraceExporter: "stdout"}, traces, logger)
	require.NoError(t, err)

	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	reporter := NewDeltaReporter(config.Default().Report, io.Discard, providers, logger)

	_, err = reporter.Run(context.Background(), path)
	require.NoError(t, err)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, " ")
	assert.Contains(t, joined, "dt_rows")
	assert.Contains(t, joined, "dt_mean")
	assert.Contains(t, joined, "dt_stage_duration")

	require.NoError(t, providers.Shutdown(context.Background()))
	for _, stage := range []string{StageLoad, StageTransform, StagePersist, StageReport} {
		assert.Contains(t, traces.String(), "delta."+stage)
	}
	assert.Contains(t, traces.String(), "delta.run")
}

func TestDeltaReporter_Run_CancelledContext(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	reporter, out, _ := newTestReporter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reporter.Run(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, testutil.ScenarioCSV, string(content))
}

type failingTableWriter struct{}

func (failingTableWriter) WriteTable(string, *dataprocessing.Table) error {
	return errors.New("no space left on device")
}

func TestDeltaReporter_Run_RewriteFailureIsPersistError(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	reporter, out, handler := newTestReporter(t, nil)
	reporter.csv = failingTableWriter{}

	_, err := reporter.Run(context.Background(), path)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypePersist, apperrors.ErrorTypeOf(err))
	assert.Contains(t, err.Error(), "no space left on device")
	assert.Empty(t, out.String(), "no report when the table was not saved")
	testutil.AssertLogAttr(t, handler, "error_type", string(apperrors.ErrTypePersist))
}

func TestDeltaReporter_Run_ReadOnlyFileIsPersistError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
	require.NoError(t, os.Chmod(path, 0444))
	reporter, out, _ := newTestReporter(t, nil)

	_, err := reporter.Run(context.Background(), path)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypePersist, apperrors.ErrorTypeOf(err))
	assert.Empty(t, out.String())

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, testutil.ScenarioCSV, string(content))
}

func TestDeltaReporter_Run_KeepsBOM(t *testing.T) {
	path := testutil.WriteCSVFixture(t, "data.csv", "\xEF\xBB\xBF"+testutil.ScenarioCSV)
	reporter, _, _ := newTestReporter(t, nil)

	_, err := reporter.Run(context.Background(), path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFtimestamp,value,dt\n0,a,\n5,b,5\n5,c,0\n20,d,15\n", string(content))
}

func ptr(s string) *string {
	return &s
}
