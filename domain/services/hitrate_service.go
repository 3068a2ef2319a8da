package services

import (
	"errors"

	"courtline/domain/entities"
)

// ErrNoHistory is returned when a proposition has no stored raw-value
// windows. The record needs an ingestion pass, which is not this
// engine's job.
var ErrNoHistory = errors.New("no stat history windows stored")

// HitRateService recomputes cached hit/total pairs for a proposition's
// fixed windows when the offered line moves. It works purely from the
// stored raw values and never fetches new ones.
type HitRateService struct {
	evaluator *LegEvaluator
}

// NewHitRateService creates a new HitRateService
func NewHitRateService(evaluator *LegEvaluator) *HitRateService {
	return &HitRateService{evaluator: evaluator}
}

// Recompute re-derives each window's hit/total against the new line using
// the same grading rules as live settlement, including the whole-number
// tie-break. Returns false when the line has not actually changed since
// the last cache write, in which case the record is untouched.
func (s *HitRateService) Recompute(history *entities.StatHistory, newLine float64, op entities.Operator) (bool, error) {
	if !history.HasWindows() {
		return false, ErrNoHistory
	}
	if history.CachedLine == newLine {
		return false, nil
	}

	for _, window := range history.Windows() {
		hits := 0
		for _, value := range window.Values {
			if s.evaluator.Evaluate(op, newLine, value) == entities.VerdictWin {
				hits++
			}
		}
		window.Hits = hits
		window.Total = len(window.Values)
	}
	history.CachedLine = newLine

	return true, nil
}
