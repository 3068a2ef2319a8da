package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"courtline/domain/entities"
	"courtline/domain/interfaces"
	"courtline/domain/services"
	"courtline/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// PassSummary reports what one settlement pass accomplished
type PassSummary struct {
	Checked      int
	Settled      int
	StillPending int
}

// SettlementOrchestrator drives one settlement pass: list pending wagers,
// resolve what the provider's data allows, and persist only wagers whose
// every leg reached a terminal verdict. Anything else is left untouched
// for the next pass.
type SettlementOrchestrator struct {
	wagerRepo interfaces.WagerRepository
	gateway   interfaces.StatSourceGateway
	matcher   *services.GameMatcher
	guard     *services.TimingGuard
	evaluator *services.LegEvaluator

	concurrency int
	lookback    time.Duration
	legTimeout  time.Duration
}

// NewSettlementOrchestrator creates a new settlement orchestrator
func NewSettlementOrchestrator(
	wagerRepo interfaces.WagerRepository,
	gateway interfaces.StatSourceGateway,
	matcher *services.GameMatcher,
	guard *services.TimingGuard,
	concurrency int,
	lookback time.Duration,
	legTimeout time.Duration,
) *SettlementOrchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SettlementOrchestrator{
		wagerRepo:   wagerRepo,
		gateway:     gateway,
		matcher:     matcher,
		guard:       guard,
		evaluator:   services.NewLegEvaluator(),
		concurrency: concurrency,
		lookback:    lookback,
		legTimeout:  legTimeout,
	}
}

// RunPass executes one settlement pass over all pending wagers
func (o *SettlementOrchestrator) RunPass(ctx context.Context) (PassSummary, error) {
	start := time.Now()
	defer func() {
		observability.GetMetrics().RecordPassDuration(time.Since(start))
	}()

	wagers, err := o.wagerRepo.ListPending(ctx, o.lookback)
	if err != nil {
		return PassSummary{}, err
	}

	observability.GetMetrics().RecordWagersChecked(int64(len(wagers)))

	if stale, err := o.wagerRepo.CountStalePending(ctx, o.lookback); err != nil {
		log.WithError(err).Warn("Failed to count stale pending wagers")
	} else if stale > 0 {
		log.WithField("count", stale).Warn("Pending wagers older than the lookback window need manual review")
	}

	if len(wagers) == 0 {
		return PassSummary{}, nil
	}

	games := newGameCache(o.gateway)

	var (
		mu      sync.Mutex
		settled int
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, o.concurrency)

	for _, wager := range wagers {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(w *entities.Wager) {
			defer wg.Done()
			defer func() { <-sem }()

			done, err := o.settleWager(ctx, w, games)
			if err != nil {
				log.WithFields(log.Fields{
					"wagerId": w.ID,
					"error":   err,
				}).Error("Failed to settle wager")
				return
			}
			if done {
				mu.Lock()
				settled++
				mu.Unlock()
			}
		}(wager)
	}
	wg.Wait()

	summary := PassSummary{
		Checked:      len(wagers),
		Settled:      settled,
		StillPending: len(wagers) - settled,
	}

	log.WithFields(log.Fields{
		"checked":      summary.Checked,
		"settled":      summary.Settled,
		"stillPending": summary.StillPending,
		"duration":     time.Since(start),
	}).Info("Settlement pass complete")

	return summary, ctx.Err()
}

// settleWager resolves the wager's legs and persists the result when every
// leg reached a terminal verdict. Returns true when this call settled it.
func (o *SettlementOrchestrator) settleWager(ctx context.Context, wager *entities.Wager, games *gameCache) (bool, error) {
	for _, leg := range wager.Legs {
		if leg.IsResolved() {
			continue
		}
		o.resolveLeg(ctx, leg, games)
	}

	result := services.AggregateLegs(wager.Legs)
	if !result.FullyResolved {
		return false, nil
	}

	wager.Complete(result.Verdict, time.Now().UTC())

	claimed, err := o.wagerRepo.MarkSettled(ctx, wager)
	if err != nil {
		return false, err
	}
	if !claimed {
		log.WithField("wagerId", wager.ID).Debug("Wager already settled by another pass")
		return false, nil
	}

	observability.GetMetrics().RecordWagerSettled(string(result.Verdict))
	log.WithFields(log.Fields{
		"wagerId": wager.ID,
		"verdict": result.Verdict,
		"legs":    len(wager.Legs),
	}).Info("Settled wager")

	return true, nil
}

// resolveLeg attempts to grade one leg. Every failure mode leaves the leg
// pending for the next pass; nothing here guesses a verdict.
func (o *SettlementOrchestrator) resolveLeg(ctx context.Context, leg *entities.Leg, games *gameCache) {
	candidates, err := games.gamesFor(ctx, leg.GameDate)
	if err != nil {
		log.WithFields(log.Fields{
			"legId": leg.ID,
			"date":  leg.GameDate.Format("2006-01-02"),
			"error": err,
		}).Warn("Failed to load games for leg")
		o.recordUnresolved(observability.ReasonLookupFailed)
		return
	}

	game, quality := o.matcher.MatchGame(leg, candidates)
	if quality == services.MatchAmbiguous {
		observability.GetMetrics().RecordAmbiguousMatch()
		log.WithFields(log.Fields{
			"legId": leg.ID,
			"team":  leg.Team,
			"date":  leg.GameDate.Format("2006-01-02"),
		}).Warn("Leg matched more than one game")
	}
	if game == nil {
		o.recordUnresolved(observability.ReasonNoGameMatch)
		return
	}

	if !o.guard.SafeToSettle(game, time.Now().UTC()) {
		o.recordUnresolved(observability.ReasonGameNotFinal)
		return
	}

	if leg.IsPlayerProp() {
		o.resolvePlayerLeg(ctx, leg, game)
	} else {
		o.resolveMoneylineLeg(ctx, leg, game)
	}
}

// resolvePlayerLeg grades a player prop from the game's box score
func (o *SettlementOrchestrator) resolvePlayerLeg(ctx context.Context, leg *entities.Leg, game *entities.Game) {
	legCtx, cancel := context.WithTimeout(ctx, o.legTimeout)
	defer cancel()

	observability.GetMetrics().RecordGatewayCall("PlayerStat")
	actual, err := o.gateway.PlayerStat(legCtx, game.ID, *leg.PlayerID, leg.StatType)
	if err != nil {
		o.handleLookupError(leg, game, "PlayerStat", err)
		return
	}

	verdict := o.evaluator.Evaluate(leg.Operator, leg.Line, actual)
	leg.Resolve(game.ID, actual, verdict)
}

// resolveMoneylineLeg grades a team moneyline from the final scores
func (o *SettlementOrchestrator) resolveMoneylineLeg(ctx context.Context, leg *entities.Leg, game *entities.Game) {
	legCtx, cancel := context.WithTimeout(ctx, o.legTimeout)
	defer cancel()

	observability.GetMetrics().RecordGatewayCall("TeamScores")
	scores, err := o.gateway.TeamScores(legCtx, game.ID)
	if err != nil {
		o.handleLookupError(leg, game, "TeamScores", err)
		return
	}

	forScore, againstScore := scores.Away, scores.Home
	if services.LegTeamIsHome(leg, game) {
		forScore, againstScore = scores.Home, scores.Away
	}

	// A final with equal scores is provider data corruption; void rather
	// than grade either side
	if forScore == againstScore {
		log.WithFields(log.Fields{
			"legId":  leg.ID,
			"gameId": game.ID,
			"score":  forScore,
		}).Warn("Final game reported tied scores, voiding leg")
		leg.Void(game.ID)
		return
	}

	verdict := o.evaluator.EvaluateMoneyline(forScore, againstScore)
	leg.Resolve(game.ID, float64(forScore), verdict)
}

// handleLookupError classifies a gateway failure for one leg
func (o *SettlementOrchestrator) handleLookupError(leg *entities.Leg, game *entities.Game, method string, err error) {
	switch {
	case errors.Is(err, interfaces.ErrStatNotFound):
		log.WithFields(log.Fields{
			"legId":  leg.ID,
			"gameId": game.ID,
			"stat":   leg.StatType,
		}).Warn("Finished game has no stat line for leg")
		o.recordUnresolved(observability.ReasonStatMissing)

	case errors.Is(err, context.DeadlineExceeded):
		observability.GetMetrics().RecordGatewayTimeout(method)
		log.WithFields(log.Fields{
			"legId":  leg.ID,
			"gameId": game.ID,
		}).Warn("Stat provider call timed out for leg")
		o.recordUnresolved(observability.ReasonLookupFailed)

	default:
		log.WithFields(log.Fields{
			"legId":  leg.ID,
			"gameId": game.ID,
			"error":  err,
		}).Warn("Stat provider call failed for leg")
		o.recordUnresolved(observability.ReasonLookupFailed)
	}
}

func (o *SettlementOrchestrator) recordUnresolved(reason string) {
	observability.GetMetrics().RecordLegUnresolved(reason)
}

// gameCache memoizes the provider's game list per calendar date for the
// duration of one pass, so concurrent workers settling legs on the same
// night share a single fetch
type gameCache struct {
	gateway interfaces.StatSourceGateway
	mu      sync.Mutex
	byDate  map[string][]*entities.Game
}

func newGameCache(gateway interfaces.StatSourceGateway) *gameCache {
	return &gameCache{
		gateway: gateway,
		byDate:  make(map[string][]*entities.Game),
	}
}

// gamesFor returns the games on the given date, fetching at most once per
// date per pass. Fetches are serialized; the provider rate limit dominates
// anyway.
func (c *gameCache) gamesFor(ctx context.Context, date time.Time) ([]*entities.Game, error) {
	key := date.UTC().Format("2006-01-02")

	c.mu.Lock()
	defer c.mu.Unlock()

	if games, ok := c.byDate[key]; ok {
		return games, nil
	}

	observability.GetMetrics().RecordGatewayCall("ListGames")
	games, err := c.gateway.ListGames(ctx, date)
	if err != nil {
		return nil, err
	}

	c.byDate[key] = games
	return games, nil
}
