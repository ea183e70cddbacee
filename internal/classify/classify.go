// Package classify decides whether a cell's text is noise, a compact date, or
// a reward amount. Classification order is fixed: junk, then date-like, then
// reward-like, so the precedence between overlapping grammars lives in exactly
// one place.
package classify

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the classification of one normalized string.
type Kind int

const (
	Junk Kind = iota
	DateLike
	RewardLike
	Unrecognized
)

func (k Kind) String() string {
	switch k {
	case Junk:
		return "junk"
	case DateLike:
		return "date_like"
	case RewardLike:
		return "reward_like"
	default:
		return "unrecognized"
	}
}

// Token is a classified, normalized string.
type Token struct {
	Kind Kind
	Text string
}

var (
	// Month abbreviation, 1-2 digit day, optional comma, H:MM or HH:MM with a
	// 0-23 hour and a two-digit minute. No year.
	dateLikeRe = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+(\d{1,2})(?:\s*,\s*|\s+)([01]?\d|2[0-3]):([0-5]\d)$`)

	// Unsigned integer or decimal, at most two fractional digits. No sign, no
	// separators, no exponent.
	rewardLikeRe = regexp.MustCompile(`^\d+(?:\.\d{1,2})?$`)
)

// Normalize collapses every whitespace variant (NBSP, zero-width space, BOM,
// tabs, newlines) into single ASCII spaces, drops all other non-printable or
// non-ASCII runes, and trims. Total function; any input yields some string.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '\u200b' || r == '\ufeff' || unicode.IsSpace(r):
			b.WriteByte(' ')
		case r > 0x20 && r < 0x7f:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// IsJunk reports whether a normalized string is known noise: blank content,
// the currency label, the received marker, spreadsheet error markers, or
// block references. Case-insensitive.
func IsJunk(s string) bool {
	u := strings.ToUpper(s)
	return u == "" ||
		u == "XTM" ||
		strings.Contains(u, "RECEIVED") ||
		strings.Contains(u, "#ERROR!") ||
		strings.Contains(u, "BLOCK #")
}

// IsDateLike reports whether s matches the compact month/day/time grammar.
func IsDateLike(s string) bool {
	return dateLikeRe.MatchString(s)
}

// MatchDateLike extracts the parts of a compact date string. The month comes
// back as the matched abbreviation, unchanged in case.
func MatchDateLike(s string) (month string, day, hour, minute int, ok bool) {
	m := dateLikeRe.FindStringSubmatch(s)
	if m == nil {
		return "", 0, 0, 0, false
	}
	day, _ = strconv.Atoi(m[2])
	hour, _ = strconv.Atoi(m[3])
	minute, _ = strconv.Atoi(m[4])
	return m[1], day, hour, minute, true
}

// IsRewardLike reports whether s is an unsigned amount with at most two
// fractional digits.
func IsRewardLike(s string) bool {
	return rewardLikeRe.MatchString(s)
}

// Classify normalizes raw and assigns it the first matching kind.
func Classify(raw string) Token {
	s := Normalize(raw)
	switch {
	case IsJunk(s):
		return Token{Kind: Junk, Text: s}
	case IsDateLike(s):
		return Token{Kind: DateLike, Text: s}
	case IsRewardLike(s):
		return Token{Kind: RewardLike, Text: s}
	default:
		return Token{Kind: Unrecognized, Text: s}
	}
}
