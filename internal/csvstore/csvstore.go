// Package csvstore reads and rewrites the comma-separated files that back the
// movie catalog. Rows are streamed one at a time; rewrites always go through a
// temp file in the same directory followed by a rename.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// RowFunc is called for every row of a scan, header included.
// line is the 1-based line on which the row starts.
// Returning ErrStop ends the scan without error.
type RowFunc func(line int, row []string) error

// Read parses r row by row and calls fn for each row.
func Read(r io.Reader, fn RowFunc) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, row); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// ReadFile opens path and scans it with Read.
func ReadFile(path string, fn RowFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := Read(f, fn); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// Writer writes rows to a store being rewritten.
type Writer struct {
	cw *csv.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

// WriteRow writes one row, quoting fields as needed.
func (w *Writer) WriteRow(fields ...string) error {
	return w.cw.Write(fields)
}

// Flush writes any buffered data and reports the first write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
