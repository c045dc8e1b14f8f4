package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow indicates a store row whose column count differs from
	// the header.
	ErrMalformedRow = errors.New("malformed row")
	// ErrInvalidCapacity indicates a cache capacity below one.
	ErrInvalidCapacity = errors.New("cache capacity must be at least 1")
)

// RowError reports a malformed store row.
type RowError struct {
	Line int
	Got  int
	Want int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: got %d columns, want %d", e.Line, e.Got, e.Want)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }
