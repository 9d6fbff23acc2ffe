package utils

import (
	"strings"
	"time"
)

// SplitAndTrim splits s on sep and drops empty, whitespace-only parts.
func SplitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MidnightIn returns the start of t's calendar day in loc.
// A nil loc is treated as UTC.
func MidnightIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
