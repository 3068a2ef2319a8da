package interfaces

import (
	"context"
	"time"

	"courtline/domain/entities"
)

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	// ListPending returns pending wagers placed within the lookback window,
	// legs included
	ListPending(ctx context.Context, maxAge time.Duration) ([]*entities.Wager, error)

	// MarkSettled persists leg results and completes the wager in one
	// transaction. The wager row is only claimed while still pending;
	// the bool reports whether this call performed the transition.
	MarkSettled(ctx context.Context, wager *entities.Wager) (bool, error)

	// CountStalePending counts pending wagers older than the given age.
	// These are a data-quality signal, not a retry queue.
	CountStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

// PropCacheRepository defines the interface for the per-proposition
// hit-rate cache
type PropCacheRepository interface {
	// GetStatHistory returns the stored record for a proposition, or nil
	// when none has been ingested yet
	GetStatHistory(ctx context.Context, playerID int64, stat entities.StatType) (*entities.StatHistory, error)

	// UpdateHitRates writes back the record with recomputed hit/total
	// pairs and the line they were computed against
	UpdateHitRates(ctx context.Context, history *entities.StatHistory) error
}
