package grading

// Letter is a band of the fixed absolute letter scale.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// Letters lists the bands from best to worst.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD, LetterF}

// LetterFor maps a percentage onto the letter scale. It ignores room thresholds.
func LetterFor(percentage float64) Letter {
	switch {
	case percentage >= 90:
		return LetterA
	case percentage >= 80:
		return LetterB
	case percentage >= 70:
		return LetterC
	case percentage >= 60:
		return LetterD
	default:
		return LetterF
	}
}

// LetterForScore maps score over total onto the letter scale using the
// unrounded percentage. A non-positive total is F.
func LetterForScore(score, total int) Letter {
	percentage, ok := Percentage(score, total)
	if !ok {
		return LetterF
	}
	return LetterFor(percentage)
}

// Label returns the chart label of the band.
func (l Letter) Label() string {
	switch l {
	case LetterA:
		return "A (90-100%)"
	case LetterB:
		return "B (80-89%)"
	case LetterC:
		return "C (70-79%)"
	case LetterD:
		return "D (60-69%)"
	default:
		return "F (<60%)"
	}
}

// GPAEquivalent converts an overall percentage into a 4-point value rounded to two decimals.
func GPAEquivalent(percentage float64) float64 {
	return Round2(percentage / 100 * 4)
}
