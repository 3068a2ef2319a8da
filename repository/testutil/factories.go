package testutil

import (
	"time"

	"courtline/domain/entities"
)

// CreateTestPlayerLeg creates a player-prop leg with sensible defaults
func CreateTestPlayerLeg(playerID int64, playerName, team string, stat entities.StatType, line float64, gameDate time.Time) *entities.Leg {
	return &entities.Leg{
		PlayerID:   &playerID,
		PlayerName: &playerName,
		Team:       team,
		StatType:   stat,
		Operator:   entities.OperatorOver,
		Line:       line,
		GameDate:   gameDate,
		Verdict:    entities.VerdictPending,
	}
}

// CreateTestMoneylineLeg creates a team moneyline leg
func CreateTestMoneylineLeg(team, opponent string, gameDate time.Time) *entities.Leg {
	return &entities.Leg{
		Team:     team,
		Opponent: &opponent,
		StatType: entities.StatMoneyline,
		Operator: entities.OperatorMoneyline,
		GameDate: gameDate,
		Verdict:  entities.VerdictPending,
	}
}

// CreateTestWager creates a pending wager around the given legs
func CreateTestWager(placedAt time.Time, legs ...*entities.Leg) *entities.Wager {
	return &entities.Wager{
		PlacedAt: placedAt,
		Verdict:  entities.VerdictPending,
		Status:   entities.WagerStatusPending,
		Legs:     legs,
	}
}
