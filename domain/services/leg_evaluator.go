package services

import (
	"math"

	"courtline/domain/entities"
)

// LegEvaluator contains pure grading logic for a single leg.
// Whole-number lines are graded inclusively (a result landing exactly on
// the line counts for the bettor); fractional lines can never land on the
// line, so strict comparison is used there.
type LegEvaluator struct{}

// NewLegEvaluator creates a new LegEvaluator
func NewLegEvaluator() *LegEvaluator {
	return &LegEvaluator{}
}

// Evaluate grades an over/under leg against the observed value
func (e *LegEvaluator) Evaluate(op entities.Operator, line, actual float64) entities.Verdict {
	inclusive := lineIsWhole(line)

	switch op {
	case entities.OperatorOver:
		if actual > line || (inclusive && actual == line) {
			return entities.VerdictWin
		}
	case entities.OperatorUnder:
		if actual < line || (inclusive && actual == line) {
			return entities.VerdictWin
		}
	}
	return entities.VerdictLoss
}

// EvaluateMoneyline grades a moneyline leg from pre-resolved final scores.
// The chosen side wins only by outscoring the opponent; NBA finals cannot
// tie, so equal scores never grade as a win.
func (e *LegEvaluator) EvaluateMoneyline(forScore, againstScore int) entities.Verdict {
	if forScore > againstScore {
		return entities.VerdictWin
	}
	return entities.VerdictLoss
}

// lineIsWhole reports whether the line has no fractional part
func lineIsWhole(line float64) bool {
	return line == math.Trunc(line)
}
