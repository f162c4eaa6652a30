package types

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the only timestamp form that travels on the wire: UTC, whole
// seconds, trailing Z.
const TimeLayout = "2006-01-02T15:04:05Z"

// Layouts accepted when reading a timestamp without a zone. Such values are
// taken as UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// FormatTime renders t in the wire layout after converting it to UTC.
// Fractional seconds are dropped.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a timestamp in any of the accepted layouts. Values with an
// explicit offset are honored; a trailing zone marker is discarded and the
// remainder read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil && !strings.HasSuffix(strings.ToUpper(s), "Z") {
		return t.UTC(), nil
	}
	trimmed := strings.TrimRight(s, "zZ")
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: unrecognized layout", s)
}

// CanonicalTime rewrites a stored timestamp in the wire layout. It reports
// false and returns s unchanged when s cannot be read.
func CanonicalTime(s string) (string, bool) {
	t, err := ParseTime(s)
	if err != nil {
		return s, false
	}
	return FormatTime(t), true
}
