package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Common CSV fixtures
const (
	// ScenarioCSV has timestamps whose deltas are [null, 5, 0, 15]
	ScenarioCSV = "timestamp,value\n0,a\n5,b\n5,c\n20,d\n"
	// HeaderOnlyCSV has a header and no data rows
	HeaderOnlyCSV = "timestamp,value\n"
	// MissingColumnCSV lacks the timestamp column
	MissingColumnCSV = "time,value\n0,a\n5,b\n"
	// NonNumericCSV has a timestamp cell that is not a number
	NonNumericCSV = "timestamp,value\n0,a\nsoon,b\n"
)

// WriteCSVFixture writes content to name inside a fresh temp dir and
// returns the file path
func WriteCSVFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// ReadCSVLines returns the lines of a file without the trailing newline
func ReadCSVLines(t *testing.T, path string) []string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}
