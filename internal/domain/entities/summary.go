package entities

import (
	"fmt"
	"math"
	"strconv"
)

// MultipliersPerTable is the number of questions asked for every selected table (1..9).
const MultipliersPerTable = 9

// Summary is the end-of-game score.
type Summary struct {
	Correct    int
	Total      int
	Percentage float64
}

// NewSummary computes the score for a finished game over tables tables.
func NewSummary(correct, tables int) Summary {
	total := tables * MultipliersPerTable
	var pct float64
	if total > 0 {
		pct = float64(correct) * 100 / float64(total)
	}
	return Summary{Correct: correct, Total: total, Percentage: pct}
}

// CorrectText renders the "X/Y correct(s)" line.
func (s Summary) CorrectText() string {
	return fmt.Sprintf("%d/%d correct(s)", s.Correct, s.Total)
}

// PercentageText renders the percentage with a trailing "%".
func (s Summary) PercentageText() string {
	return FormatPercentage(s.Percentage) + "%"
}

// FormatPercentage keeps short or whole values as they are and fixes
// everything else to two decimals: 50 -> "50", 100 -> "100", 33.33.. -> "33.33".
func FormatPercentage(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if len(s) <= 2 || p == math.Trunc(p) {
		return s
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}
