package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyZeroTotalReturnsLowestLevel(t *testing.T) {
	for _, score := range []int{0, 5, 100} {
		percentage, level := Classify(score, 0, 60)
		require.Equal(t, 0.0, percentage)
		require.Equal(t, LowestLevel, level)
	}

	percentage, level := Classify(3, -4, 60)
	require.Equal(t, 0.0, percentage)
	require.Equal(t, LowestLevel, level)
}

func TestClassifyBandsAreOffsetsAboveThreshold(t *testing.T) {
	cases := []struct {
		score     int
		threshold int
		level     Level
		point     float64
	}{
		{96, 60, LevelExcellent, 1.0},
		{90, 60, LevelSuperior, 1.25},
		{84, 60, LevelVeryGood, 1.5},
		{78, 60, LevelGood, 1.75},
		{72, 60, LevelSatisfactory, 2.0},
		{66, 60, LevelFair, 2.25},
		{60, 60, LevelPassing, 3.0},
		{59, 60, LevelFailed, 5.0},
		{86, 50, LevelExcellent, 1.0},
		{55, 50, LevelPassing, 3.0},
		{74, 75, LevelFailed, 5.0},
	}

	for _, tc := range cases {
		_, level := Classify(tc.score, 100, tc.threshold)
		require.Equal(t, tc.level, level, "score %d threshold %d", tc.score, tc.threshold)
		require.Equal(t, tc.point, level.Point())
	}
}

func TestClassifyPercentageRoundsToTwoDecimals(t *testing.T) {
	percentage, _ := Classify(2, 3, 60)
	require.Equal(t, 66.67, percentage)

	percentage, _ = Classify(1, 8, 60)
	require.Equal(t, 12.5, percentage)

	percentage, _ = Classify(45, 50, 60)
	require.Equal(t, 90.0, percentage)
}

func TestClassifyLevelIsMonotonic(t *testing.T) {
	for _, threshold := range []int{0, 40, 60, 75, 100} {
		previous := LevelExcellent
		for score := 100; score >= 0; score-- {
			_, level := Classify(score, 100, threshold)
			require.LessOrEqual(t, level, previous, "threshold %d score %d", threshold, score)
			previous = level
		}
	}
}

func TestLetterScaleIgnoresThreshold(t *testing.T) {
	require.Equal(t, LetterA, LetterFor(95))
	require.Equal(t, LetterA, LetterFor(90))
	require.Equal(t, LetterB, LetterFor(89.99))
	require.Equal(t, LetterC, LetterFor(70))
	require.Equal(t, LetterD, LetterFor(65))
	require.Equal(t, LetterF, LetterFor(59.99))

	// A 65% is a failing point grade for a 70 threshold but still a D letter.
	_, level := Classify(65, 100, 70)
	require.False(t, level.Passing())
	require.Equal(t, LetterD, LetterFor(65))
}

func TestLetterForScoreUsesUnroundedPercentage(t *testing.T) {
	percentage, _ := Classify(179999, 200000, 60)
	require.Equal(t, 90.0, percentage)
	require.Equal(t, LetterB, LetterForScore(179999, 200000))
	require.Equal(t, LetterA, LetterForScore(9, 10))
	require.Equal(t, LetterF, LetterForScore(5, 0))
}

func TestThresholdFallsBackAndClamps(t *testing.T) {
	custom := 75
	require.Equal(t, 75, Threshold(&custom, 60))
	require.Equal(t, 60, Threshold(nil, 60))

	tooHigh := 140
	require.Equal(t, 100, Threshold(&tooHigh, 60))
	negative := -3
	require.Equal(t, 0, Threshold(&negative, 60))
}

func TestGPAEquivalent(t *testing.T) {
	require.Equal(t, 3.47, GPAEquivalent(86.67))
	require.Equal(t, 0.0, GPAEquivalent(0))
	require.Equal(t, 4.0, GPAEquivalent(100))
}
