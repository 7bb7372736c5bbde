// Package grading converts raw scores into percentages and discrete grades.
//
// The point scale is relative to a room's passing threshold. The letter scale
// uses fixed bands and must not be mixed with it.
package grading

import "math"

// DefaultPassingThreshold applies when neither the room nor the dataset provides one.
const DefaultPassingThreshold = 60

// Level is a band of the threshold-relative point scale. Higher values are better.
type Level int

const (
	LevelFailed Level = iota
	LevelPassing
	LevelFair
	LevelSatisfactory
	LevelGood
	LevelVeryGood
	LevelSuperior
	LevelExcellent
)

// LowestLevel is returned for undefined percentages.
const LowestLevel = LevelFailed

var levelPoints = [...]float64{5.0, 3.0, 2.25, 2.0, 1.75, 1.5, 1.25, 1.0}

var levelNames = [...]string{"failed", "passing", "fair", "satisfactory", "good", "very_good", "superior", "excellent"}

// offsets above the threshold, best band first.
var levelBands = []struct {
	offset float64
	level  Level
}{
	{36, LevelExcellent},
	{30, LevelSuperior},
	{24, LevelVeryGood},
	{18, LevelGood},
	{12, LevelSatisfactory},
	{6, LevelFair},
	{0, LevelPassing},
}

// Point returns the point grade printed on transcripts (1.0 best, 5.0 failed).
func (l Level) Point() float64 {
	if l < LevelFailed || l > LevelExcellent {
		return levelPoints[LevelFailed]
	}
	return levelPoints[l]
}

// Passing reports whether the level is at or above the threshold.
func (l Level) Passing() bool {
	return l > LevelFailed
}

func (l Level) String() string {
	if l < LevelFailed || l > LevelExcellent {
		return levelNames[LevelFailed]
	}
	return levelNames[l]
}

// Percentage returns 100*score/total without rounding. ok is false when total <= 0.
func Percentage(score, total int) (value float64, ok bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(score) * 100 / float64(total), true
}

// Round2 rounds half away from zero to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// LevelFor maps a percentage onto the point scale for the given threshold.
func LevelFor(percentage float64, passingThreshold int) Level {
	base := float64(passingThreshold)
	for _, band := range levelBands {
		if percentage >= base+band.offset {
			return band.level
		}
	}
	return LevelFailed
}

// Classify returns the display percentage and point-scale level of a score.
// A non-positive total yields (0, LowestLevel).
func Classify(score, total, passingThreshold int) (float64, Level) {
	percentage, ok := Percentage(score, total)
	if !ok {
		return 0, LowestLevel
	}
	return Round2(percentage), LevelFor(percentage, passingThreshold)
}

// Threshold returns the configured threshold clamped to 0..100, or fallback when unset.
func Threshold(configured *int, fallback int) int {
	if configured == nil {
		return clampThreshold(fallback)
	}
	return clampThreshold(*configured)
}

func clampThreshold(value int) int {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}
