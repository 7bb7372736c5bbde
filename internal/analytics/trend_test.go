package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestImprovementRate(t *testing.T) {
	cases := []struct {
		name     string
		previous float64
		current  float64
		rate     float64
		valid    bool
	}{
		{name: "no baseline", previous: 0, current: 50, rate: 100, valid: true},
		{name: "dropped to zero", previous: 50, current: 0, rate: 0, valid: false},
		{name: "growth", previous: 80, current: 100, rate: 25, valid: true},
		{name: "decline", previous: 80, current: 60, rate: -25, valid: true},
		{name: "no data", previous: 0, current: 0, rate: 0, valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, valid := ImprovementRate(tc.previous, tc.current)
			require.Equal(t, tc.valid, valid)
			require.Equal(t, tc.rate, rate)
		})
	}
}

func TestMonthlyTrendIsChronologicalAndSkipsEmptyMonths(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	records := []Record{
		scored(80, 100, at(time.Date(2026, time.October, 2, 9, 0, 0, 0, time.UTC))),
		scored(50, 100, at(time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC))),
		scored(60, 100, at(time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC))),
		scored(90, 100, at(time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC))),
		scored(10, 100, at(time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC))),
		scored(40, 0, at(time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC))),
		{TotalMarks: 100, SubmittedAt: time.Date(2026, time.October, 3, 9, 0, 0, 0, time.UTC)},
	}

	series := MonthlyTrend(records, now)
	require.Equal(t, []string{"Jan 2026", "Sep 2026", "Oct 2026"}, series.Labels)
	require.Equal(t, []float64{90, 50, 70}, series.Values)
}

func TestMonthlyTrendEmpty(t *testing.T) {
	series := MonthlyTrend(nil, time.Now())
	require.Empty(t, series.Labels)
	require.Empty(t, series.Values)
	require.NotNil(t, series.Labels)
}

func TestMonthOverMonth(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	records := []Record{
		scored(80, 100, at(time.Date(2026, time.October, 2, 9, 0, 0, 0, time.UTC))),
		scored(60, 100, at(time.Date(2026, time.October, 5, 9, 0, 0, 0, time.UTC))),
		scored(50, 100, at(time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC))),
		scored(99, 100, at(time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC))),
	}

	improvement := MonthOverMonth(records, now)
	require.True(t, improvement.Valid)
	require.Equal(t, 40.0, improvement.Rate)
	require.Equal(t, 70.0, improvement.CurrentAverage)
	require.Equal(t, 50.0, improvement.PreviousAverage)
	require.Equal(t, 2, improvement.CurrentCount)
	require.Equal(t, 1, improvement.PreviousCount)
}

func TestMonthOverMonthIgnoresFutureSubmissions(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	records := []Record{
		scored(80, 100, at(time.Date(2026, time.October, 2, 9, 0, 0, 0, time.UTC))),
		scored(20, 100, at(now.Add(2*time.Hour))),
		scored(50, 100, at(time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC))),
	}

	improvement := MonthOverMonth(records, now)
	require.Equal(t, 1, improvement.CurrentCount)
	require.Equal(t, 80.0, improvement.CurrentAverage)
	require.Equal(t, 60.0, improvement.Rate)

	trend := MonthlyTrend(records, now)
	require.Equal(t, []float64{50, 80}, trend.Values)
}

func TestMonthOverMonthWithoutCurrentDataIsInvalid(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	records := []Record{scored(50, 100, at(time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC)))}

	improvement := MonthOverMonth(records, now)
	require.False(t, improvement.Valid)
	require.Zero(t, improvement.Rate)
}
