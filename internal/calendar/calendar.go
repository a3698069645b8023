// Package calendar builds the month grid shown next to today's medications.
package calendar

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

// Marker is the single indicator a day cell may carry.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerToday
	MarkerTaken
	MarkerMissed
)

func (m Marker) String() string {
	switch m {
	case MarkerToday:
		return "today"
	case MarkerTaken:
		return "taken"
	case MarkerMissed:
		return "missed"
	default:
		return "none"
	}
}

// FirstWeekday is the weekday of the first grid column.
const FirstWeekday = time.Sunday

// Cell is one slot of the grid. Padding cells have Day == 0 and no marker.
type Cell struct {
	Day    int
	Date   dates.Date
	Marker Marker
}

// IsPadding reports whether c precedes the first day of the month.
func (c Cell) IsPadding() bool { return c.Day == 0 }

// Month is the view model of one calendar page.
type Month struct {
	Year           int
	Month          int
	LeadingPadding int
	Cells          []Cell
}

// Build lays out a 1-indexed month. Marker priority is today, then taken,
// then missed (strictly before today); other days carry none.
func Build(year, month int, taken dates.Set, today dates.Date) (Month, error) {
	first, last, err := dates.MonthRange(year, month)
	if err != nil {
		return Month{}, err
	}

	pad := (int(first.Weekday()) - int(FirstWeekday) + 7) % 7
	m := Month{
		Year:           year,
		Month:          month,
		LeadingPadding: pad,
		Cells:          make([]Cell, pad, pad+last.Day()),
	}

	for d := range dates.DaysInclusive(first, last) {
		m.Cells = append(m.Cells, Cell{Day: d.Day(), Date: d, Marker: markerFor(d, taken, today)})
	}
	return m, nil
}

func markerFor(d dates.Date, taken dates.Set, today dates.Date) Marker {
	switch {
	case d == today:
		return MarkerToday
	case taken.Has(d):
		return MarkerTaken
	case d.Before(today):
		return MarkerMissed
	default:
		return MarkerNone
	}
}

// Weeks splits the cells into rows of seven. The last row may be short.
func (m Month) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(m.Cells); i += 7 {
		rows = append(rows, m.Cells[i:min(i+7, len(m.Cells))])
	}
	return rows
}

// Title returns e.g. "February 2024".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month), m.Year)
}

// Prev returns the month before year/month.
func Prev(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// Next returns the month after year/month.
func Next(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}
