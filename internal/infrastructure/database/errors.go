package database

import "errors"

// ErrUnsupportedDriver is returned by Open for a driver other than sqlite or postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")
