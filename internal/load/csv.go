// Package load reads the vendor CSV files at the pipeline's edge. Rows
// are tolerant named-field maps: a missing column reads as an empty
// string, matching the pipeline's missing-data semantics.
package load

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rva-directmail/internal/debug"
)

// Row is one CSV row keyed by trimmed header name.
type Row map[string]string

// Get returns the trimmed value of a column, or "" when the column is
// absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// ReadCSV reads all rows from a CSV stream. Short rows are padded, long
// rows truncated; the vendor files are not reliably rectangular.
func ReadCSV(reader io.Reader) ([]Row, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(rows)+2, err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	debug.Printf("load: read %d rows", len(rows))
	return rows, nil
}

// ReadCSVFile reads all rows from a CSV file.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
