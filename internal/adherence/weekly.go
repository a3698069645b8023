// Package adherence derives adherence figures from the set of days on which
// at least one dose was logged. Which medication was taken does not matter:
// any logged dose makes the day adherent.
package adherence

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
)

const daysPerWeek = 7

// WeekSummary is one bar of the progress chart.
type WeekSummary struct {
	Label       string     `json:"label"`
	Start       dates.Date `json:"start"`
	End         dates.Date `json:"end"`
	TakenDays   int        `json:"taken_days"`
	TotalDays   int        `json:"total_days"`
	RatePercent int        `json:"rate_percent"`
}

// Status classifies a single day.
type Status int

const (
	// Pending is today or a future day with nothing logged yet.
	Pending Status = iota
	Taken
	Missed
)

func (s Status) String() string {
	switch s {
	case Taken:
		return "taken"
	case Missed:
		return "missed"
	default:
		return "pending"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "taken":
		*s = Taken
	case "missed":
		*s = Missed
	case "pending":
		*s = Pending
	default:
		return fmt.Errorf("%w: unknown day status %q", common.ErrValidation, b)
	}
	return nil
}

// DayStatus is the classification of one day in a range.
type DayStatus struct {
	Date   dates.Date `json:"date"`
	Status Status     `json:"status"`
}

// Rate returns taken/total as a whole percentage rounded half up, or 0 when
// total is 0.
func Rate(taken, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*taken + total) / (2 * total)
}

// Weekly buckets [start, end] into consecutive 7-day weeks beginning at start
// and summarises each. Days after today are not counted, so a week that runs
// past today is partial rather than padded. The last bucket is shorter when
// the range is not a whole number of weeks.
func Weekly(taken dates.Set, start, end, today dates.Date) ([]WeekSummary, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", common.ErrInvalidRange, end, start)
	}

	span := start.DaysUntil(end) + 1
	weeks := make([]WeekSummary, 0, (span+daysPerWeek-1)/daysPerWeek)

	for w := 0; w*daysPerWeek < span; w++ {
		weekStart := start.AddDays(w * daysPerWeek)
		weekEnd := weekStart.AddDays(daysPerWeek - 1)
		if weekEnd.After(end) {
			weekEnd = end
		}

		ws := WeekSummary{Label: "W" + strconv.Itoa(w+1), Start: weekStart, End: weekEnd}
		for d := range dates.DaysInclusive(weekStart, weekEnd) {
			if d.After(today) {
				break
			}
			ws.TotalDays++
			if taken.Has(d) {
				ws.TakenDays++
			}
		}
		ws.RatePercent = Rate(ws.TakenDays, ws.TotalDays)
		weeks = append(weeks, ws)
	}

	return weeks, nil
}

// Trailing summarises the windowDays days ending on today.
func Trailing(taken dates.Set, today dates.Date, windowDays int) ([]WeekSummary, error) {
	start, end, err := dates.Window(today, windowDays)
	if err != nil {
		return nil, err
	}
	return Weekly(taken, start, end, today)
}

// Overall folds weekly summaries into a single one labelled "All".
func Overall(weeks []WeekSummary) WeekSummary {
	all := WeekSummary{Label: "All"}
	if len(weeks) == 0 {
		return all
	}
	all.Start = weeks[0].Start
	all.End = weeks[len(weeks)-1].End
	for _, w := range weeks {
		all.TakenDays += w.TakenDays
		all.TotalDays += w.TotalDays
	}
	all.RatePercent = Rate(all.TakenDays, all.TotalDays)
	return all
}

// Days classifies every day in [start, end].
func Days(taken dates.Set, start, end, today dates.Date) ([]DayStatus, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", common.ErrInvalidRange, end, start)
	}

	out := make([]DayStatus, 0, start.DaysUntil(end)+1)
	for d := range dates.DaysInclusive(start, end) {
		st := Pending
		switch {
		case taken.Has(d):
			st = Taken
		case d.Before(today):
			st = Missed
		}
		out = append(out, DayStatus{Date: d, Status: st})
	}
	return out, nil
}
