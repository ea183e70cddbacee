package cell

import (
	"math"
	"strconv"
	"time"

	"google.golang.org/api/sheets/v4"
)

// Kind discriminates the possible contents of one spreadsheet cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindTime
)

// Cell is one raw spreadsheet cell value. Exactly one of the value fields is
// meaningful, selected by Kind.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
	Time time.Time
}

// Row is one two-column row of the reward export.
type Row struct {
	A Cell
	B Cell
}

func Empty() Cell                { return Cell{Kind: KindEmpty} }
func Number(n float64) Cell      { return Cell{Kind: KindNumber, Num: n} }
func Text(s string) Cell         { return Cell{Kind: KindText, Str: s} }
func Timestamp(t time.Time) Cell { return Cell{Kind: KindTime, Time: t} }

// Sheets serial day numbers count from December 30, 1899.
const secondsPerDay = 86400

// SerialToTime converts a Sheets serial date number into a timestamp in loc,
// rounded to the nearest second.
func SerialToTime(serial float64, loc *time.Location) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, loc)
	secs := math.Round(serial * secondsPerDay)
	return epoch.Add(time.Duration(secs) * time.Second)
}

// FromCellData maps one Sheets API grid cell onto a Cell. Cells whose number
// format is a date, time, or datetime become KindTime; error cells surface as
// text so the classifier can treat them as noise.
func FromCellData(cd *sheets.CellData, loc *time.Location) Cell {
	if cd == nil || cd.EffectiveValue == nil {
		return Empty()
	}
	ev := cd.EffectiveValue
	switch {
	case ev.ErrorValue != nil:
		if cd.FormattedValue != "" {
			return Text(cd.FormattedValue)
		}
		return Text("#ERROR!")
	case ev.StringValue != nil:
		return Text(*ev.StringValue)
	case ev.NumberValue != nil:
		if isDateFormatted(cd) {
			return Timestamp(SerialToTime(*ev.NumberValue, loc))
		}
		return Number(*ev.NumberValue)
	case ev.BoolValue != nil:
		if *ev.BoolValue {
			return Text("TRUE")
		}
		return Text("FALSE")
	}
	return Empty()
}

func isDateFormatted(cd *sheets.CellData) bool {
	if cd.EffectiveFormat == nil || cd.EffectiveFormat.NumberFormat == nil {
		return false
	}
	switch cd.EffectiveFormat.NumberFormat.Type {
	case "DATE", "TIME", "DATE_TIME":
		return true
	}
	return false
}

// String renders the cell the way it would read as text. Timestamps are the
// caller's concern and render empty here; the scanner routes them through the
// compact date form instead.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindText:
		return c.Str
	default:
		return ""
	}
}
