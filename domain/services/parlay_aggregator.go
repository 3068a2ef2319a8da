package services

import "courtline/domain/entities"

// AggregateResult is the combined outcome of a wager's legs
type AggregateResult struct {
	Verdict       entities.Verdict
	FullyResolved bool
}

// AggregateLegs combines leg verdicts into one wager verdict. A wager with
// any unresolved leg stays pending: legs are never settled on a partial,
// best-effort basis. Once every leg is resolved, void legs drop out of the
// win condition; all-void wagers are void, a single non-void loss loses the
// wager, and only a clean sweep of non-void wins wins it. A single bet is
// the one-leg case of the same rule.
func AggregateLegs(legs []*entities.Leg) AggregateResult {
	for _, leg := range legs {
		if !leg.IsResolved() {
			return AggregateResult{Verdict: entities.VerdictPending, FullyResolved: false}
		}
	}

	nonVoid := 0
	losses := 0
	for _, leg := range legs {
		if leg.IsVoid() {
			continue
		}
		nonVoid++
		if leg.Verdict == entities.VerdictLoss {
			losses++
		}
	}

	switch {
	case nonVoid == 0:
		return AggregateResult{Verdict: entities.VerdictVoid, FullyResolved: true}
	case losses > 0:
		return AggregateResult{Verdict: entities.VerdictLoss, FullyResolved: true}
	default:
		return AggregateResult{Verdict: entities.VerdictWin, FullyResolved: true}
	}
}
