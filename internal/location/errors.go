package location

import "errors"

// ErrLocationNotFound is returned when no location matches the requested ID.
var ErrLocationNotFound = errors.New("location not found")
