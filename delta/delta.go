// Package delta holds the watermark rules shared by the nutrition and activity merges.
//
// A masterfile's watermark is its greatest ISO (YYYY-MM-DD) date. Incoming rows are only
// accepted if they are strictly after the watermark, which makes repeated runs over the
// same download a no-op.
package delta

import (
	"strings"
)

type Status int

const (
	NoNewData Status = iota
	Updated
)

func (s Status) String() string {
	switch s {
	case Updated:
		return "updated"
	case NoNewData:
		return "no new data"
	default:
		return "unknown"
	}
}

// Watermark returns the greatest date in the list, or "" if there are no (non-blank) dates.
func Watermark(dates []string) string {
	watermark := ""
	for _, d := range dates {
		if d = strings.TrimSpace(d); d > watermark {
			watermark = d
		}
	}

	return watermark
}

// IsNew returns true if the date is strictly after the watermark. Blank dates are never new.
func IsNew(date, watermark string) bool {
	date = strings.TrimSpace(date)

	return date != "" && date > watermark
}
