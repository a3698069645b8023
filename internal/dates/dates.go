// Package dates implements calendar-day arithmetic for dose logs.
//
// A Date is a civil date with no time-of-day and no zone. Walks and
// comparisons are done on UTC midnights so that a local daylight-saving
// change can never skip or repeat a day.
package dates

import (
	"fmt"
	"iter"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/common"
)

// Layout is the wire and storage format of a Date.
const Layout = "2006-01-02"

// Date is a calendar day. The zero value is not a valid date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the date for year, month, day. Out-of-range values are
// normalised the way time.Date does (e.g. February 30 becomes March 1 or 2).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Parse parses a "YYYY-MM-DD" string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad date %q", common.ErrValidation, s)
	}
	return FromTime(t), nil
}

// MustParse is Parse for constants in tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.year }
func (d Date) Month() time.Month     { return d.month }
func (d Date) Day() int              { return d.day }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d Date) AddDays(n int) Date {
	return New(d.year, d.month, d.day+n)
}

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }
func (d Date) After(o Date) bool  { return d.Time().After(o.Time()) }

// DaysUntil returns the number of days from d to o; negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock returns the current instant. Services take one so tests can pin "now".
type Clock func() time.Time

// Today returns the current local calendar day. A nil clock means time.Now.
func Today(clock Clock) Date {
	if clock == nil {
		clock = time.Now
	}
	return FromTime(clock().Local())
}

// DaysInMonth returns the length of a 1-indexed month, leap years included.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first and last day of a 1-indexed month.
func MonthRange(year, month int) (Date, Date, error) {
	if month < 1 || month > 12 {
		return Date{}, Date{}, fmt.Errorf("%w: month %d", common.ErrInvalidRange, month)
	}
	m := time.Month(month)
	return New(year, m, 1), New(year, m, DaysInMonth(year, month)), nil
}

// Window returns the trailing window of days ending on today, inclusive.
func Window(today Date, days int) (Date, Date, error) {
	if days <= 0 {
		return Date{}, Date{}, fmt.Errorf("%w: window of %d days", common.ErrInvalidRange, days)
	}
	return today.AddDays(-(days - 1)), today, nil
}

// DaysInclusive yields every date from start to end inclusive. The sequence
// is lazy and can be ranged over any number of times; it is empty when end
// is before start.
func DaysInclusive(start, end Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := start; !d.After(end); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Set is a set of dates, typically the days on which a dose was logged.
type Set map[Date]struct{}

func NewSet(days ...Date) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s Set) Add(d Date) { s[d] = struct{}{} }

func (s Set) Has(d Date) bool {
	_, ok := s[d]
	return ok
}
