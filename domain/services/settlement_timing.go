package services

import (
	"strings"
	"time"

	"courtline/domain/entities"
)

const (
	// defaultSettleBuffer absorbs the lag between a provider marking a game
	// final and the final box-score stats propagating
	defaultSettleBuffer = 10 * time.Minute

	// defaultTypicalDuration estimates completion from tip-off when the
	// provider gives no explicit completion timestamp
	defaultTypicalDuration = 2*time.Hour + 30*time.Minute
)

// TimingGuard decides whether a game is safe to settle against. "Not yet"
// is the expected steady state for most polling cycles, not an error.
type TimingGuard struct {
	buffer          time.Duration
	typicalDuration time.Duration
}

// NewTimingGuard creates a TimingGuard with the default buffer and
// typical-game-duration estimate
func NewTimingGuard() *TimingGuard {
	return &TimingGuard{
		buffer:          defaultSettleBuffer,
		typicalDuration: defaultTypicalDuration,
	}
}

// NewTimingGuardWith creates a TimingGuard with explicit durations
func NewTimingGuardWith(buffer, typicalDuration time.Duration) *TimingGuard {
	return &TimingGuard{buffer: buffer, typicalDuration: typicalDuration}
}

// SafeToSettle reports whether the game is final and the trailing buffer
// has elapsed since its (estimated) completion
func (g *TimingGuard) SafeToSettle(game *entities.Game, now time.Time) bool {
	if !IsFinalStatus(game.Status) {
		return false
	}

	completed := game.TipOff.Add(g.typicalDuration)
	if game.CompletedAt != nil {
		completed = *game.CompletedAt
	}

	return !now.Before(completed.Add(g.buffer))
}

// IsFinalStatus checks for a terminal status marker. Providers disagree on
// casing and format ("Final", "FINAL", "Final/OT"), so this is a
// case-insensitive substring test.
func IsFinalStatus(status string) bool {
	return strings.Contains(strings.ToLower(status), "final")
}
