package interfaces

import (
	"context"
	"errors"
	"time"

	"courtline/domain/entities"
)

// ErrStatNotFound is returned by the gateway when a finished game's box
// score has no line for the requested player or stat.
var ErrStatNotFound = errors.New("stat not found")

// StatSourceGateway is the capability the core uses to reach provider
// game and box-score data. Implementations return normalized shapes;
// the core never sees raw provider payloads.
type StatSourceGateway interface {
	// ListGames returns all games scheduled on the given date
	ListGames(ctx context.Context, date time.Time) ([]*entities.Game, error)

	// PlayerStat returns the observed value for a player's stat in a
	// finished game. Returns ErrStatNotFound when the box score carries
	// no such line.
	PlayerStat(ctx context.Context, gameID string, playerID int64, stat entities.StatType) (float64, error)

	// TeamScores returns the final scores for a finished game
	TeamScores(ctx context.Context, gameID string) (*entities.TeamScores, error)
}

// MessageSubscriber registers handlers for message-bus subjects
type MessageSubscriber interface {
	Subscribe(subject string, handler func(data []byte) error) error
}
