package core

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by every dated record (local time).
const DateLayout = "2006-01-02"

var NowFunc = time.Now // mockable

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return NowFunc().Local().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string in local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// DateBefore reports whether date a is strictly before date b. Unparsable dates are never before.
func DateBefore(a, b string) bool {
	ta, err := ParseDate(a)
	if err != nil {
		return false
	}
	tb, err := ParseDate(b)
	if err != nil {
		return false
	}
	return ta.Before(tb)
}
