package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyFile is returned when the input has no header row
var ErrEmptyFile = errors.New("empty file: header row required")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a comma-delimited CSV file with a header row.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	table, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV parses a CSV stream. A leading UTF-8 BOM is dropped and noted on
// the table; every row must have as many fields as the header.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	// Remove BOM if present
	hasBOM := false
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		hasBOM = true
	}

	reader := csv.NewReader(br)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{Header: header, BOM: hasBOM}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed csv: %w", err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
