package dto

import "github.com/Huerte/AcademiQly/internal/grading"

// GradeResponse is the derived grade of a score. It is never persisted.
type GradeResponse struct {
	Percentage float64 `json:"percentage"`
	Level      string  `json:"level"`
	Point      float64 `json:"point"`
	Letter     string  `json:"letter"`
	Passed     bool    `json:"passed"`
}

// NewGradeResponse classifies score against total under the passing threshold.
func NewGradeResponse(score, total, threshold int) GradeResponse {
	percentage, level := grading.Classify(score, total, threshold)
	return GradeResponse{
		Percentage: percentage,
		Level:      level.String(),
		Point:      level.Point(),
		Letter:     string(grading.LetterForScore(score, total)),
		Passed:     level.Passing(),
	}
}

// NewPercentageGrade classifies an already aggregated percentage.
func NewPercentageGrade(percentage float64, threshold int) GradeResponse {
	level := grading.LevelFor(percentage, threshold)
	return GradeResponse{
		Percentage: grading.Round2(percentage),
		Level:      level.String(),
		Point:      level.Point(),
		Letter:     string(grading.LetterFor(percentage)),
		Passed:     level.Passing(),
	}
}
