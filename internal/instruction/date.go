package instruction

import (
	"strconv"
	"strings"
	"time"
)

// IsDate reports whether s looks like YYYY-MM-DD with a month in 1..12 and a
// day in 1..31. It deliberately does not check the day against the month.
func IsDate(s string) bool {
	_, _, _, ok := dateParts(s)
	return ok
}

// ExecutionDate returns midnight UTC of the given YYYY-MM-DD date. Days past
// the end of a month roll into the next one, so "2025-02-31" is 2025-03-03.
func ExecutionDate(s string) (time.Time, bool) {
	y, m, d, ok := dateParts(s)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

func dateParts(s string) (year, month, day int, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, false
	}
	for _, p := range parts {
		if !allDigits(p) {
			return 0, 0, 0, false
		}
	}
	year, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	day, _ = strconv.Atoi(parts[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
