package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	require.Equal(t, 0.0, Median(nil))
	require.Equal(t, 70.0, Median([]float64{70}))
	require.Equal(t, 70.0, Median([]float64{60, 80}))
	require.Equal(t, 65.0, Median([]float64{95, 65, 40}))

	values := []float64{3, 1, 2}
	Median(values)
	require.Equal(t, []float64{3, 1, 2}, values, "median must not reorder its input")
}

func TestStdDevIsPopulation(t *testing.T) {
	require.Equal(t, 0.0, StdDev(nil))
	require.Equal(t, 0.0, StdDev([]float64{42}))
	require.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestAccumulatorMatchesBatchMean(t *testing.T) {
	values := []float64{95, 65, 40, 88.5, 12.25}
	var acc Accumulator
	for _, v := range values {
		acc.Add(v)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	require.Equal(t, len(values), acc.Count())
	require.InDelta(t, sum/float64(len(values)), acc.Mean(), 1e-9)
	require.InDelta(t, StdDev(values), acc.StdDev(), 1e-9)
	require.Equal(t, 0.0, Mean(nil))
}

func TestRate(t *testing.T) {
	require.Equal(t, 0.0, Rate(3, 0))
	require.Equal(t, 66.67, Rate(2, 3))
	require.Equal(t, 33.33, Rate(1, 3))
}

func TestSplitPassFailUsesRoomThresholdWithDefaultFallback(t *testing.T) {
	strict := 80
	records := []Record{
		scored(70, 100, withThreshold(&strict)),
		scored(85, 100, withThreshold(&strict)),
		scored(65, 100),
		scored(55, 100),
		scored(10, 0),
		{Score: nil, TotalMarks: 100},
	}

	split := SplitPassFail(records, 60)
	require.Equal(t, 2, split.Passed)
	require.Equal(t, 2, split.Failed)
	require.Equal(t, 50.0, split.PassRate)
	require.Equal(t, 50.0, split.FailRate)
	require.InDelta(t, 100.0, split.PassRate+split.FailRate, 0.01)

	empty := SplitPassFail(nil, 60)
	require.Equal(t, PassFail{}, empty)
}

func TestPassAndFailRatesSumToHundred(t *testing.T) {
	records := []Record{scored(1, 3), scored(2, 3), scored(3, 3)}
	split := SplitPassFail(records, 60)
	require.InDelta(t, 100.0, split.PassRate+split.FailRate, 0.011)
}

func TestLetterDistributionListsEveryBand(t *testing.T) {
	records := []Record{scored(95, 100), scored(65, 100), scored(40, 100), scored(3, 0)}
	distribution := LetterDistribution(records)
	require.Len(t, distribution, 5)

	counts := map[string]int{}
	for _, entry := range distribution {
		counts[string(entry.Letter)] = entry.Count
	}
	require.Equal(t, map[string]int{"A": 1, "B": 0, "C": 0, "D": 1, "F": 1}, counts)
	require.Equal(t, "A (90-100%)", distribution[0].Label)
}
