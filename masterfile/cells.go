package masterfile

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloat parses an optional numeric cell. Blank and 'NaN' cells are absent values.
func ParseFloat(v string) (*float64, error) {
	v = clean(v)
	if v == "" || strings.EqualFold(v, "nan") {
		return nil, nil
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric value '%s'", v)
	}

	return &f, nil
}

// FormatFloat formats an optional numeric cell. Absent values are written as blank cells.
func FormatFloat(f *float64) string {
	if f == nil {
		return ""
	}

	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func Float(f float64) *float64 {
	return &f
}
