package merge

import (
	"strings"
	"time"
	"unicode"
)

// maxDate is the sort sentinel for dates that fail every layout: records
// with unparseable dates sort after everything else instead of vanishing.
var maxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Layouts tried in order. Day-first throughout; numeric day/month layouts
// before ISO so "03/04/2024" reads as 3 April, not 4 March.
var dateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2006-01-02",
}

// Yearless forms; the assumed year is substituted after a match.
var yearlessLayouts = []string{
	"2 Jan",
	"2 January",
	"2/1",
	"2-1",
}

// parseDate parses a statement date string, day-first, trying several
// layouts. Yearless forms like "14 Mar" assume assumedYear. The second
// return is false when nothing matched.
func parseDate(raw string, assumedYear int) (time.Time, bool) {
	s := normalizeDateToken(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			year := assumedYear
			if year <= 0 {
				year = time.Now().Year()
			}
			return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// sortDate is parseDate with the unparseable-sorts-last sentinel applied.
func sortDate(raw string, assumedYear int) time.Time {
	if t, ok := parseDate(raw, assumedYear); ok {
		return t
	}
	return maxDate
}

// normalizeDateToken trims the string and title-cases alphabetic runs so
// month names in any case ("MAY", "may") match Go's layout tables.
func normalizeDateToken(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
