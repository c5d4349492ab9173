package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime12h rewrites a stored time of day into 12-hour form by taking the
// first two characters as the hour and appending the three characters that
// follow, unchanged, before the AM/PM suffix:
//
//	"15:36:00" -> "3:36PM"
//	"00:05:00" -> "12:05AM"
//	"1536:00"  -> "336:PM"
//
// Seconds are dropped only because they fall outside that three-character
// window. Input shorter than the window keeps whatever characters exist.
func FormatTime12h(s string) (string, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil || hour < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}

	end := min(len(s), 5)

	var b strings.Builder
	b.WriteString(strconv.Itoa(h12))
	b.WriteString(s[2:end])
	b.WriteString(suffix)
	return b.String(), nil
}
