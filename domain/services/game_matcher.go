package services

import (
	"strings"
	"time"

	"courtline/domain/entities"
)

// AmbiguousMatchPolicy controls what happens when more than one candidate
// game matches a leg
type AmbiguousMatchPolicy string

const (
	// AmbiguousPickFirst settles against the first candidate in provider order
	AmbiguousPickFirst AmbiguousMatchPolicy = "first"
	// AmbiguousSkip leaves the leg unresolved for a later pass
	AmbiguousSkip AmbiguousMatchPolicy = "skip"
)

// MatchQuality describes how a leg resolved against the candidate set
type MatchQuality int

const (
	MatchNone MatchQuality = iota
	MatchUnique
	MatchAmbiguous
)

// GameMatcher resolves a wager leg to one concrete game among the games
// on the leg's date. Team identity is matched against either side's
// abbreviation or full name because provider naming drifts between the two.
type GameMatcher struct {
	policy AmbiguousMatchPolicy
}

// NewGameMatcher creates a new GameMatcher with the given ambiguity policy
func NewGameMatcher(policy AmbiguousMatchPolicy) *GameMatcher {
	if policy == "" {
		policy = AmbiguousPickFirst
	}
	return &GameMatcher{policy: policy}
}

// MatchGame resolves the leg to a single game. A nil game with MatchNone
// is a normal outcome (provider naming drift, game not listed yet) and
// blocks only this leg. MatchAmbiguous is a data-quality signal; whether
// a game is still returned depends on the configured policy.
func (m *GameMatcher) MatchGame(leg *entities.Leg, candidates []*entities.Game) (*entities.Game, MatchQuality) {
	var matches []*entities.Game
	for _, g := range candidates {
		if g.IsPlaceholder() {
			continue
		}
		if !sameDate(g.Date, leg.GameDate) {
			continue
		}
		if m.legMatchesGame(leg, g) {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 0:
		return nil, MatchNone
	case 1:
		return matches[0], MatchUnique
	default:
		if m.policy == AmbiguousSkip {
			return nil, MatchAmbiguous
		}
		return matches[0], MatchAmbiguous
	}
}

// legMatchesGame checks the leg's team against either side of the game,
// and the opponent (when specified) against the opposite side
func (m *GameMatcher) legMatchesGame(leg *entities.Leg, g *entities.Game) bool {
	team := normalizeTeam(leg.Team)

	var opponentSideMatches func() bool
	if teamMatchesSide(team, g.HomeAbbr, g.HomeName) {
		opponentSideMatches = func() bool {
			return teamMatchesSide(normalizeTeam(*leg.Opponent), g.AwayAbbr, g.AwayName)
		}
	} else if teamMatchesSide(team, g.AwayAbbr, g.AwayName) {
		opponentSideMatches = func() bool {
			return teamMatchesSide(normalizeTeam(*leg.Opponent), g.HomeAbbr, g.HomeName)
		}
	} else {
		return false
	}

	if leg.Opponent == nil || *leg.Opponent == "" {
		return true
	}
	return opponentSideMatches()
}

// LegTeamIsHome reports which side of the matched game the leg's team is
// on. Callers must only pass a game that already matched the leg.
func LegTeamIsHome(leg *entities.Leg, g *entities.Game) bool {
	return teamMatchesSide(normalizeTeam(leg.Team), g.HomeAbbr, g.HomeName)
}

// teamMatchesSide accepts either the abbreviation or the full name form
func teamMatchesSide(normalized, abbr, name string) bool {
	return normalized == normalizeTeam(abbr) || normalized == normalizeTeam(name)
}

// normalizeTeam folds provider naming variance: surrounding whitespace
// and casing only. No fuzzy matching.
func normalizeTeam(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sameDate compares calendar dates in UTC, ignoring time of day
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
