package fhir

import (
	"strings"
	"time"
)

// dateTimeFormats are the local formats attempted, in order, when input is
// not already a zoned ISO string. The first match wins.
var dateTimeFormats = []string{
	"02.01.2006 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04:05-07:00",
}

const dateOnlyFormat = "2006-01-02"

// NormalizeDateTime converts heterogeneous date/time text into a FHIR
// dateTime.
//
// Policy, in order:
//  1. text that already looks like a zoned ISO date-time passes through
//     unchanged, so well-formed input is never corrupted;
//  2. a fixed list of known local formats is attempted; a bare calendar
//     date stays date-only (a valid, intentionally imprecise dateTime);
//  3. anything else falls back to now() in UTC.
//
// The second return value reports whether the source text was preserved;
// callers must surface a false result as a data-quality warning since the
// original value is discarded.
func NormalizeDateTime(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	if isZonedISO(s) {
		return s, true
	}

	for _, format := range dateTimeFormats {
		t, err := time.Parse(format, s)
		if err != nil {
			continue
		}
		if format == dateOnlyFormat {
			return t.Format(dateOnlyFormat), true
		}
		if strings.Contains(format, "-07:00") {
			return t.Format(time.RFC3339), true
		}
		// Local formats carry no zone; anchor them in UTC.
		return t.UTC().Format(time.RFC3339), true
	}

	return time.Now().UTC().Format(time.RFC3339), false
}

// isZonedISO reports whether s is a full date-time with an explicit zone
// marker, e.g. "2012-07-24T08:24:00Z" or "2012-07-24T08:24:00+02:00".
func isZonedISO(s string) bool {
	if !strings.Contains(s, "T") {
		return false
	}
	if strings.HasSuffix(s, "Z") {
		return true
	}
	// Offset sign after the date part, e.g. "+02:00" or "-05:00".
	rest := s
	if len(s) > 10 {
		rest = s[10:]
	}
	return strings.Contains(rest, "+") || strings.Contains(rest, "-")
}
