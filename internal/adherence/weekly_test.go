package adherence

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/dmitrijs2005/medkeeper/internal/common"
	"github.com/dmitrijs2005/medkeeper/internal/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allDaysExcept(start, end dates.Date, skip ...dates.Date) dates.Set {
	s := dates.NewSet()
	for d := range dates.DaysInclusive(start, end) {
		s.Add(d)
	}
	for _, d := range skip {
		delete(s, d)
	}
	return s
}

func TestTrailing_MissedDayFourteen(t *testing.T) {
	today := dates.MustParse("2024-03-28")
	start := dates.MustParse("2024-03-01")
	dayFourteen := start.AddDays(13)

	weeks, err := Trailing(allDaysExcept(start, today, dayFourteen), today, 28)
	require.NoError(t, err)
	require.Len(t, weeks, 4)

	assert.Equal(t, WeekSummary{
		Label: "W2", Start: dates.MustParse("2024-03-08"), End: dates.MustParse("2024-03-14"),
		TakenDays: 6, TotalDays: 7, RatePercent: 86,
	}, weeks[1])

	for _, i := range []int{0, 2, 3} {
		assert.Equal(t, 7, weeks[i].TakenDays)
		assert.Equal(t, 100, weeks[i].RatePercent)
	}
	assert.Equal(t, []string{"W1", "W2", "W3", "W4"}, []string{weeks[0].Label, weeks[1].Label, weeks[2].Label, weeks[3].Label})
}

func TestWeekly_PartialWeekNotPadded(t *testing.T) {
	start := dates.MustParse("2024-03-01")
	end := dates.MustParse("2024-03-28")
	today := dates.MustParse("2024-03-24")

	weeks, err := Weekly(allDaysExcept(start, end), start, end, today)
	require.NoError(t, err)
	require.Len(t, weeks, 4)

	assert.Equal(t, 3, weeks[3].TotalDays)
	assert.Equal(t, 3, weeks[3].TakenDays)
	assert.Equal(t, 100, weeks[3].RatePercent)
}

func TestWeekly_WeekEntirelyInFuture(t *testing.T) {
	start := dates.MustParse("2024-03-01")
	end := dates.MustParse("2024-03-28")
	today := dates.MustParse("2024-03-10")

	weeks, err := Weekly(dates.NewSet(), start, end, today)
	require.NoError(t, err)

	assert.Equal(t, 3, weeks[1].TotalDays)
	assert.Equal(t, 0, weeks[2].TotalDays)
	assert.Equal(t, 0, weeks[2].RatePercent)
	assert.Equal(t, 0, weeks[3].TotalDays)
}

func TestWeekly_EmptyTakenSetStillCountsTotals(t *testing.T) {
	today := dates.MustParse("2024-03-28")
	weeks, err := Trailing(dates.NewSet(), today, 28)
	require.NoError(t, err)

	for _, w := range weeks {
		assert.Equal(t, 0, w.TakenDays)
		assert.Equal(t, 7, w.TotalDays)
		assert.Equal(t, 0, w.RatePercent)
	}
}

func TestWeekly_ShortLastBucket(t *testing.T) {
	today := dates.MustParse("2024-03-10")
	weeks, err := Trailing(dates.NewSet(today), today, 10)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	assert.Equal(t, 7, weeks[0].TotalDays)
	assert.Equal(t, 3, weeks[1].TotalDays)
	assert.Equal(t, 1, weeks[1].TakenDays)
	assert.Equal(t, 33, weeks[1].RatePercent)
}

func TestWeekly_InvalidRange(t *testing.T) {
	_, err := Weekly(dates.NewSet(), dates.MustParse("2024-03-02"), dates.MustParse("2024-03-01"), dates.MustParse("2024-03-02"))
	require.ErrorIs(t, err, common.ErrInvalidRange)

	_, err = Trailing(dates.NewSet(), dates.MustParse("2024-03-02"), -7)
	require.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestWeekly_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	today := dates.MustParse("2024-06-15")

	for _, window := range []int{7, 14, 28, 35, 91} {
		for i := 0; i < 50; i++ {
			start, end, err := dates.Window(today, window)
			require.NoError(t, err)

			taken := dates.NewSet()
			inWindow := 0
			for d := range dates.DaysInclusive(start.AddDays(-10), end.AddDays(10)) {
				if rng.Intn(2) == 0 {
					continue
				}
				taken.Add(d)
				if !d.Before(start) && !d.After(end) {
					inWindow++
				}
			}

			weeks, err := Weekly(taken, start, end, today)
			require.NoError(t, err)
			require.Len(t, weeks, window/7)

			sum := 0
			for _, w := range weeks {
				sum += w.TakenDays
				assert.GreaterOrEqual(t, w.RatePercent, 0)
				assert.LessOrEqual(t, w.RatePercent, 100)
				if w.TotalDays == 0 {
					assert.Equal(t, 0, w.RatePercent)
				}
			}
			assert.Equal(t, inWindow, sum, "window=%d", window)
		}
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		taken, total, want int
	}{
		{0, 0, 0},
		{6, 7, 86},
		{1, 8, 13},
		{1, 3, 33},
		{2, 3, 67},
		{7, 7, 100},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rate(tt.taken, tt.total), "%d/%d", tt.taken, tt.total)
	}
}

func TestOverall(t *testing.T) {
	today := dates.MustParse("2024-03-28")
	start := dates.MustParse("2024-03-01")
	weeks, err := Trailing(allDaysExcept(start, today, start.AddDays(13)), today, 28)
	require.NoError(t, err)

	all := Overall(weeks)
	assert.Equal(t, "All", all.Label)
	assert.Equal(t, 27, all.TakenDays)
	assert.Equal(t, 28, all.TotalDays)
	assert.Equal(t, 96, all.RatePercent)
	assert.Equal(t, start, all.Start)
	assert.Equal(t, today, all.End)

	assert.Equal(t, WeekSummary{Label: "All"}, Overall(nil))
}

func TestDays(t *testing.T) {
	start := dates.MustParse("2024-03-01")
	end := dates.MustParse("2024-03-05")
	today := dates.MustParse("2024-03-03")

	got, err := Days(dates.NewSet(start, end), start, end, today)
	require.NoError(t, err)

	var statuses []string
	for _, d := range got {
		statuses = append(statuses, d.Status.String())
	}
	assert.Equal(t, []string{"taken", "missed", "pending", "pending", "taken"}, statuses)

	_, err = Days(dates.NewSet(), end, start, today)
	require.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestDayStatus_JSON(t *testing.T) {
	b, err := json.Marshal(DayStatus{Date: dates.MustParse("2024-03-05"), Status: Missed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-05","status":"missed"}`, string(b))
}

func TestStatus_UnmarshalText(t *testing.T) {
	var ds DayStatus
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-05","status":"taken"}`), &ds))
	assert.Equal(t, Taken, ds.Status)

	err := json.Unmarshal([]byte(`{"status":"skipped"}`), &ds)
	assert.ErrorIs(t, err, common.ErrValidation)
}
