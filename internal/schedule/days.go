package schedule

import (
	"fmt"
	"time"
)

type day struct {
	code    string
	name    string
	order   int
	weekday time.Weekday
}

var days = []day{
	{"mon", "Monday", 1, time.Monday},
	{"tue", "Tuesday", 2, time.Tuesday},
	{"wed", "Wednesday", 3, time.Wednesday},
	{"thu", "Thursday", 4, time.Thursday},
	{"fri", "Friday", 5, time.Friday},
	{"sat", "Saturday", 6, time.Saturday},
	{"sun", "Sunday", 7, time.Sunday},
}

var (
	byCode    = make(map[string]day, len(days))
	byName    = make(map[string]day, len(days))
	byWeekday = make(map[time.Weekday]day, len(days))
)

func init() {
	for _, d := range days {
		byCode[d.code] = d
		byName[d.name] = d
		byWeekday[d.weekday] = d
	}
}

// Codes returns the seven day codes in Monday-first order.
func Codes() []string {
	codes := make([]string, len(days))
	for i, d := range days {
		codes[i] = d.code
	}
	return codes
}

// DayName maps a day code ("mon") to its display name ("Monday").
func DayName(code string) (string, error) {
	d, ok := byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: code %q", ErrUnknownDay, code)
	}
	return d.name, nil
}

// DayOrder returns the Monday=1..Sunday=7 position of a display name.
func DayOrder(name string) (int, error) {
	d, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: name %q", ErrUnknownDay, name)
	}
	return d.order, nil
}

// CodeForWeekday maps a time.Weekday to its day code.
func CodeForWeekday(w time.Weekday) string {
	return byWeekday[w].code
}

// CompareDays orders two display names by weekday. Both must be valid names;
// unknown names sort after Sunday.
func CompareDays(a, b string) int {
	return orderOrLast(a) - orderOrLast(b)
}

func orderOrLast(name string) int {
	if d, ok := byName[name]; ok {
		return d.order
	}
	return len(days) + 1
}
