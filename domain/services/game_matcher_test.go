package services

import (
	"testing"
	"time"

	"courtline/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matchDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func gameOn(id string, date time.Time, homeAbbr, homeName, awayAbbr, awayName string) *entities.Game {
	return &entities.Game{
		ID:       id,
		Date:     date,
		HomeAbbr: homeAbbr,
		HomeName: homeName,
		AwayAbbr: awayAbbr,
		AwayName: awayName,
		Status:   "Scheduled",
		TipOff:   date.Add(24 * time.Hour / 2),
	}
}

func teamLeg(team string, opponent *string) *entities.Leg {
	return &entities.Leg{
		Team:     team,
		Opponent: opponent,
		StatType: entities.StatMoneyline,
		Operator: entities.OperatorMoneyline,
		GameDate: matchDate,
	}
}

func TestGameMatcher_MatchByAbbreviation(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
		gameOn("g2", matchDate, "LAL", "Los Angeles Lakers", "DEN", "Denver Nuggets"),
	}

	game, quality := matcher.MatchGame(teamLeg("MIL", nil), candidates)
	require.NotNil(t, game)
	assert.Equal(t, "g1", game.ID)
	assert.Equal(t, MatchUnique, quality)
}

func TestGameMatcher_MatchByFullName(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
	}

	game, quality := matcher.MatchGame(teamLeg("Boston Celtics", nil), candidates)
	require.NotNil(t, game)
	assert.Equal(t, "g1", game.ID)
	assert.Equal(t, MatchUnique, quality)
}

func TestGameMatcher_OpponentDisambiguates(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	// Provider feed with a duplicate row for the same team on one date
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
		gameOn("g2", matchDate, "MIL", "Milwaukee Bucks", "CHI", "Chicago Bulls"),
	}

	opp := "Chicago Bulls"
	game, quality := matcher.MatchGame(teamLeg("MIL", &opp), candidates)
	require.NotNil(t, game)
	assert.Equal(t, "g2", game.ID)
	assert.Equal(t, MatchUnique, quality)
}

func TestGameMatcher_OpponentMixedForms(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
	}

	// Abbreviation for the team, full name for the opponent
	opp := "boston celtics"
	game, quality := matcher.MatchGame(teamLeg("mil", &opp), candidates)
	require.NotNil(t, game)
	assert.Equal(t, MatchUnique, quality)
}

func TestGameMatcher_NoMatchIsNotAnError(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "LAL", "Los Angeles Lakers", "DEN", "Denver Nuggets"),
	}

	game, quality := matcher.MatchGame(teamLeg("MIL", nil), candidates)
	assert.Nil(t, game)
	assert.Equal(t, MatchNone, quality)
}

func TestGameMatcher_WrongDateDoesNotMatch(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate.AddDate(0, 0, 1), "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
	}

	game, quality := matcher.MatchGame(teamLeg("MIL", nil), candidates)
	assert.Nil(t, game)
	assert.Equal(t, MatchNone, quality)
}

func TestGameMatcher_PlaceholderRowsFiltered(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		{ID: "ph", Date: matchDate, HomeAbbr: "MIL", HomeName: "Milwaukee Bucks"},
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
	}

	game, quality := matcher.MatchGame(teamLeg("MIL", nil), candidates)
	require.NotNil(t, game)
	assert.Equal(t, "g1", game.ID)
	assert.Equal(t, MatchUnique, quality)
}

func TestGameMatcher_AmbiguousPickFirst(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
		gameOn("g2", matchDate, "MIL", "Milwaukee Bucks", "CHI", "Chicago Bulls"),
	}

	game, quality := matcher.MatchGame(teamLeg("MIL", nil), candidates)
	require.NotNil(t, game)
	assert.Equal(t, "g1", game.ID, "provider order decides under the first policy")
	assert.Equal(t, MatchAmbiguous, quality)
}

func TestGameMatcher_AmbiguousSkipPolicy(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousSkip)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
		gameOn("g2", matchDate, "MIL", "Milwaukee Bucks", "CHI", "Chicago Bulls"),
	}

	game, quality := matcher.MatchGame(teamLeg("MIL", nil), candidates)
	assert.Nil(t, game)
	assert.Equal(t, MatchAmbiguous, quality)
}

func TestGameMatcher_PlayerLegUsesPlayersTeam(t *testing.T) {
	matcher := NewGameMatcher(AmbiguousPickFirst)
	candidates := []*entities.Game{
		gameOn("g1", matchDate, "MIL", "Milwaukee Bucks", "BOS", "Boston Celtics"),
	}

	playerID := int64(203507)
	playerName := "Giannis Antetokounmpo"
	leg := &entities.Leg{
		PlayerID:   &playerID,
		PlayerName: &playerName,
		Team:       "MIL",
		StatType:   entities.StatPoints,
		Operator:   entities.OperatorOver,
		Line:       29.5,
		GameDate:   matchDate,
	}

	game, quality := matcher.MatchGame(leg, candidates)
	require.NotNil(t, game)
	assert.Equal(t, "g1", game.ID)
	assert.Equal(t, MatchUnique, quality)
}
