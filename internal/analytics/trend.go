package analytics

import (
	"sort"
	"time"

	"github.com/Huerte/AcademiQly/internal/grading"
)

const monthLabelLayout = "Jan 2006"

// Series is a chart-ready pair of label and value arrays.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) before(other monthKey) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	return k.month < other.month
}

// MonthlyTrend averages graded percentages per calendar month over the twelve
// months before now. Months are emitted oldest first; empty months are absent.
func MonthlyTrend(records []Record, now time.Time) Series {
	cutoff := now.AddDate(-1, 0, 0)
	buckets := map[monthKey]*Accumulator{}

	for _, record := range records {
		percentage, ok := record.Percentage()
		if !ok {
			continue
		}
		submitted := record.SubmittedAt.In(now.Location())
		if submitted.Before(cutoff) || submitted.After(now) {
			continue
		}
		key := monthKey{year: submitted.Year(), month: submitted.Month()}
		acc, exists := buckets[key]
		if !exists {
			acc = &Accumulator{}
			buckets[key] = acc
		}
		acc.Add(percentage)
	}

	keys := make([]monthKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	series := Series{Labels: make([]string, 0, len(keys)), Values: make([]float64, 0, len(keys))}
	for _, key := range keys {
		label := time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format(monthLabelLayout)
		series.Labels = append(series.Labels, label)
		series.Values = append(series.Values, grading.Round2(buckets[key].Mean()))
	}
	return series
}

// Improvement compares the current calendar month with the previous one.
// Rate must not be displayed when Valid is false.
type Improvement struct {
	Rate            float64 `json:"rate"`
	Valid           bool    `json:"valid"`
	CurrentAverage  float64 `json:"current_average"`
	PreviousAverage float64 `json:"previous_average"`
	CurrentCount    int     `json:"current_count"`
	PreviousCount   int     `json:"previous_count"`
}

// ImprovementRate applies the period-over-period rule to two monthly averages.
func ImprovementRate(previous, current float64) (float64, bool) {
	switch {
	case previous > 0 && current > 0:
		return grading.Round2((current - previous) / previous * 100), true
	case previous == 0 && current > 0:
		return 100, true
	default:
		return 0, false
	}
}

// MonthOverMonth computes the improvement of the month containing now over the month before it.
func MonthOverMonth(records []Record, now time.Time) Improvement {
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousStart := currentStart.AddDate(0, -1, 0)

	var current, previous Accumulator
	for _, record := range records {
		percentage, ok := record.Percentage()
		if !ok {
			continue
		}
		submitted := record.SubmittedAt
		switch {
		case submitted.After(now):
			continue
		case !submitted.Before(currentStart):
			current.Add(percentage)
		case !submitted.Before(previousStart):
			previous.Add(percentage)
		}
	}

	result := Improvement{
		CurrentAverage:  grading.Round2(current.Mean()),
		PreviousAverage: grading.Round2(previous.Mean()),
		CurrentCount:    current.Count(),
		PreviousCount:   previous.Count(),
	}
	result.Rate, result.Valid = ImprovementRate(result.PreviousAverage, result.CurrentAverage)
	return result
}
