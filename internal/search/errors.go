package search

import "errors"

// ErrInvalidEntity is returned when a confident entity carries a value that
// cannot be turned into a filter.
var ErrInvalidEntity = errors.New("invalid search entity")
