// Package search is the full-text index over the movie catalog.
package search

import "errors"

// ErrClosed indicates an operation on a closed index.
var ErrClosed = errors.New("index closed")
