// Package shared holds code used across dt packages that belongs to no
// single domain.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler, a slog.Handler that records log output for assertions
//	- CSV fixtures for the common delta scenarios
//
// Example:
//
//	logger, handler := testutil.NewTestLogger(t)
//	path := testutil.WriteCSVFixture(t, "data.csv", testutil.ScenarioCSV)
//	// run code under test with logger
//	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Delta run completed")
package shared
