package analytics

import (
	"math"
	"sort"

	"github.com/Huerte/AcademiQly/internal/grading"
)

// Accumulator keeps a running count, mean and sum of squared deviations.
// The zero value is ready to use.
type Accumulator struct {
	count int
	mean  float64
	m2    float64
}

// Add folds a value into the running statistics (Welford's update).
func (a *Accumulator) Add(value float64) {
	a.count++
	delta := value - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (value - a.mean)
}

// Count returns the number of values added.
func (a Accumulator) Count() int {
	return a.count
}

// Mean returns the arithmetic mean, or 0 when empty.
func (a Accumulator) Mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.mean
}

// StdDev returns the population standard deviation, or 0 for fewer than two values.
func (a Accumulator) StdDev() float64 {
	if a.count < 2 {
		return 0
	}
	return math.Sqrt(a.m2 / float64(a.count))
}

// Mean returns the arithmetic mean of values, or 0 when empty.
func Mean(values []float64) float64 {
	var acc Accumulator
	for _, value := range values {
		acc.Add(value)
	}
	return acc.Mean()
}

// Median returns the middle of the ascending-sorted values, averaging the two
// middle values for even counts. It returns 0 when empty and does not modify values.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	var acc Accumulator
	for _, value := range values {
		acc.Add(value)
	}
	return acc.StdDev()
}

// Rate returns count/total*100 rounded to two decimals, or 0 when total is 0.
func Rate(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return grading.Round2(float64(count) / float64(total) * 100)
}

// PassFail is the threshold-based split of graded submissions.
type PassFail struct {
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`
	FailRate float64 `json:"fail_rate"`
}

// SplitPassFail classifies each graded record against its room threshold,
// falling back to defaultThreshold for rooms without one.
func SplitPassFail(records []Record, defaultThreshold int) PassFail {
	var result PassFail
	for _, record := range records {
		percentage, ok := record.Percentage()
		if !ok {
			continue
		}
		if percentage >= float64(record.Threshold(defaultThreshold)) {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	total := result.Passed + result.Failed
	result.PassRate = Rate(result.Passed, total)
	result.FailRate = Rate(result.Failed, total)
	return result
}

// LetterCount is one bar of the letter distribution chart.
type LetterCount struct {
	Letter grading.Letter `json:"letter"`
	Label  string         `json:"label"`
	Count  int            `json:"count"`
}

// LetterDistribution counts graded records per letter band, best band first.
// Every band is present even when empty.
func LetterDistribution(records []Record) []LetterCount {
	counts := make(map[grading.Letter]int, len(grading.Letters))
	for _, record := range records {
		percentage, ok := record.Percentage()
		if !ok {
			continue
		}
		counts[grading.LetterFor(percentage)]++
	}

	distribution := make([]LetterCount, 0, len(grading.Letters))
	for _, letter := range grading.Letters {
		distribution = append(distribution, LetterCount{Letter: letter, Label: letter.Label(), Count: counts[letter]})
	}
	return distribution
}
