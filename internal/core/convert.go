package core

// convert.go provides coercion from loosely-typed row fields to canonical
// record types.
//
// Fields parsed from a workbook are strings; fields round-tripped through
// the import endpoint arrive as whatever JSON produced (string, float64,
// bool, nil). Every helper here accepts the loose value and settles its
// type exactly once, at import time.

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted. Parsed years
// more than this many years in the future roll back a century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
		"Jan 2, 2006", "2 Jan 2006",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
)

// ParseAmount coerces an amount field to float64. Strings are trimmed and
// parsed; JSON numbers pass through.
func ParseAmount(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("invalid number %v", v)
	}
}

// ParseDate coerces a date field to time.Time. String values are tried
// against the supported layouts; 2-digit years are pivot-adjusted.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		return parseDateString(d)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// 4-digit year layouts first, they are unambiguous.
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() > pivotYear {
			t = t.AddDate(-100, 0, 0)
		}
		return t, true
	}

	return time.Time{}, false
}

// ParseVerified coerces a verified field to bool. Only the string "yes"
// (case-insensitive) maps to true among string values; non-string values
// follow plain truthiness.
func ParseVerified(v any) bool {
	switch b := v.(type) {
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "yes")
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case nil:
		return false
	default:
		return true
	}
}

// isBlank reports whether a field is absent for the purposes of the name
// rule: missing, nil, or a string that trims to empty.
func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	default:
		return false
	}
}

// isMissing reports whether a required field counts as not provided: nil,
// an empty string, a zero number, or false.
func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return x == 0
	case int:
		return x == 0
	case bool:
		return !x
	default:
		return false
	}
}

// fieldString renders a loose field value the way it should read in a
// canonical record or a rule comparison.
func fieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
