package qfx

import (
	"os"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// compactDateFormat is the 8-digit day form used inside statement elements.
const compactDateFormat = "20060102"

// ofxNoon is the fixed time-of-day and timezone suffix appended to every
// full statement timestamp. The downloads pin all times to local noon EST,
// whatever the actual event time was.
const ofxNoon = "120000.000[-5:EST]"

// rowDateLayouts are the date layouts found in brokerage exports, tried in
// order. The non-padded forms accept both "01/15/2023" and "1/5/2023".
var rowDateLayouts = []string{"1/2/2006", "2006-1-2"}

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// ParseRowDate parses the date cell of a statement row. Exports carry either
// MM/DD/YYYY or YYYY-MM-DD. The boolean reports whether the cell parsed; an
// unparseable date is not fatal, the transaction keeps a placeholder day.
func ParseRowDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Date()), true
		}
	}
	return Date{}, false
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.time().Month() }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in date RFC3339
func (d Date) String() string { return d.time().Format(DateFormat) }

// Compact returns the 8-digit day form used inside statement elements.
func (d Date) Compact() string { return d.time().Format(compactDateFormat) }

// Timestamp returns the full statement timestamp for the day: its compact
// form pinned to local noon.
func (d Date) Timestamp() string { return d.Compact() + ofxNoon }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool {
	return d.y == 0 && d.m == 0 && d.d == 0
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according to the layout defined by the argument.
//
//	See the documentation for the [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// Timestamp returns the full statement timestamp for d, falling back to the
// current date when ok is false. The statement period bounds use it when an
// export carries no parseable date at all.
func Timestamp(d Date, ok bool) string {
	if !ok {
		d = Today()
	}
	return d.Timestamp()
}

// Now is the current time used in generated documents.
// It reads the QFX_TESTING_NOW environment variable first so that tests can
// freeze it.
func Now() time.Time {
	if os.Getenv("QFX_TESTING_NOW") != "" {
		t, err := time.Parse("2006-01-02 15:04:05", os.Getenv("QFX_TESTING_NOW"))
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// Today returns the current date.
func Today() Date { return NewDate(Now().Date()) }
