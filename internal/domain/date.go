package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses "<M>/<D>/<Y>" with an optional leading "D" (e.g. "D12/17/1992").
// The month is 1-based. Out-of-range parts are rejected rather than normalized.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D")
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: want M/D/Y", s)
	}

	month, errM := strconv.Atoi(parts[0])
	day, errD := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errM != nil || errD != nil || errY != nil {
		return time.Time{}, fmt.Errorf("date %q: non-numeric component", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q: component out of range", s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("date %q: day out of range for month", s)
	}
	return t, nil
}

// HasDatePrefix reports whether a raw date string uses the "D" prefixed encoding.
func HasDatePrefix(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "D")
}

// FormatDate renders a date the way the dataset writes it, without the prefix.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}
