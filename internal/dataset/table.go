package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumn reports a table whose header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// table is a CSV file read into memory with its header resolved.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
	// malformed counts rows the CSV reader could not parse; they are dropped.
	malformed int
}

func readTable(path string, required ...string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return parseTable(file, path, required...)
}

func parseTable(r io.Reader, path string, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// A zero-byte file is an empty table, not a schema error.
		return &table{path: path, columns: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	t := &table{path: path, columns: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, name, path)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			t.malformed++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

// get returns the raw cell for column in row, or "" when the column or cell
// does not exist.
func (t *table) get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// label returns the trimmed cell, substituting "unknown" for blanks.
func (t *table) label(row []string, column string) string {
	if v := strings.TrimSpace(t.get(row, column)); v != "" {
		return v
	}
	return unknown
}
