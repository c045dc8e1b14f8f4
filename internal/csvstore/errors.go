package csvstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStop ends a scan early. It is never returned to the caller of Read.
	ErrStop = errors.New("stop scan")

	// ErrMissingColumn indicates the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")

	// ErrRowNotFound indicates no row matched the id of an edit.
	ErrRowNotFound = errors.New("row not found")
)

// ColumnError lists the required columns absent from a header row.
type ColumnError struct {
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Missing, ", "))
}

func (e *ColumnError) Unwrap() error { return ErrMissingColumn }
