package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a write addressed a title missing from the catalog.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates an add of a title already in the catalog.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrInconsistent indicates the index and the catalog disagree.
	ErrInconsistent = errors.New("index and catalog are inconsistent")
)

// ConsistencyError reports an index hit with no catalog record.
type ConsistencyError struct {
	Title string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("index returned %q which is not in the catalog", e.Title)
}

func (e *ConsistencyError) Unwrap() error { return ErrInconsistent }
