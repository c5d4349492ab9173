package schedule

import "errors"

var (
	// ErrUnknownDay is returned for a day code or name outside the weekday table.
	ErrUnknownDay = errors.New("unknown day")

	// ErrInvalidTime is returned when a stored time cannot be read as HH....
	ErrInvalidTime = errors.New("invalid time of day")
)
