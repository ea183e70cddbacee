// Package dateform converts between the export's compact date form
// ("Mon D, H:MM", no year) and the canonical output form
// ("yyyy-MM-dd HH:mm:ss"). The compact form never encodes a year, so parsing
// needs an assumed year supplied by configuration.
package dateform

import (
	"fmt"
	"strings"
	"time"

	"xtm_reward_cleaner/internal/classify"
)

var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Compact renders a timestamp in the compact display form: three-letter month,
// unpadded day and hour, two-digit minute, no year.
func Compact(t time.Time) string {
	return fmt.Sprintf("%s %d, %d:%02d", t.Month().String()[:3], t.Day(), t.Hour(), t.Minute())
}

// ParseCompact parses a compact date string into a full timestamp using the
// assumed year and location. Returns false for anything outside the compact
// grammar, for unknown month names, and for days that do not exist in the
// named month (Apr 31 is rejected, never rolled into May).
func ParseCompact(s string, year int, loc *time.Location) (time.Time, bool) {
	mon, day, hour, minute, ok := classify.MatchDateLike(classify.Normalize(s))
	if !ok {
		return time.Time{}, false
	}
	month, ok := months[strings.ToLower(mon)]
	if !ok {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Canonical renders a timestamp in the fixed-width output form, 24-hour
// zero-padded, in loc. A pure date carries 00:00:00 time fields.
func Canonical(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04:05")
}
