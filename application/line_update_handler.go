package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"courtline/domain/entities"
	"courtline/domain/interfaces"
	"courtline/domain/services"
	"courtline/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// lineUpdateEvent is the sportsbook's line-movement payload
type lineUpdateEvent struct {
	PlayerID int64   `json:"player_id"`
	Stat     string  `json:"stat"`
	Operator string  `json:"operator"`
	Line     float64 `json:"line"`
}

// LineUpdateHandler reacts to sportsbook line movements by recomputing the
// cached hit rates for the affected proposition. Updates for different
// propositions proceed in parallel; updates for the same proposition are
// serialized so concurrent movements can't interleave a read-modify-write.
type LineUpdateHandler struct {
	propCache interfaces.PropCacheRepository
	hitRates  *services.HitRateService
	locks     sync.Map // prop key -> *sync.Mutex
}

// NewLineUpdateHandler creates a new line update handler
func NewLineUpdateHandler(propCache interfaces.PropCacheRepository, hitRates *services.HitRateService) *LineUpdateHandler {
	return &LineUpdateHandler{
		propCache: propCache,
		hitRates:  hitRates,
	}
}

// HandleLineUpdate processes one line-movement message. Malformed payloads
// and unknown propositions are logged and dropped rather than redelivered;
// retrying them can never succeed.
func (h *LineUpdateHandler) HandleLineUpdate(ctx context.Context, data []byte) error {
	var event lineUpdateEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.WithError(err).Warn("Dropping malformed line update payload")
		return nil
	}

	stat, err := entities.ParseStatType(event.Stat)
	if err != nil {
		log.WithFields(log.Fields{
			"playerId": event.PlayerID,
			"stat":     event.Stat,
		}).Warn("Dropping line update with unknown stat type")
		return nil
	}

	op, err := entities.ParseOperator(event.Operator)
	if err != nil {
		log.WithFields(log.Fields{
			"playerId": event.PlayerID,
			"operator": event.Operator,
		}).Warn("Dropping line update with unknown operator")
		return nil
	}

	key := entities.PropKey(event.PlayerID, stat)
	mu := h.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	history, err := h.propCache.GetStatHistory(ctx, event.PlayerID, stat)
	if err != nil {
		return fmt.Errorf("failed to load stat history %s: %w", key, err)
	}
	if history == nil {
		log.WithField("key", key).Warn("Line moved for a proposition with no cached history")
		return nil
	}

	changed, err := h.hitRates.Recompute(history, event.Line, op)
	if errors.Is(err, services.ErrNoHistory) {
		log.WithField("key", key).Warn("Cached proposition record has no raw-value windows")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to recompute hit rates %s: %w", key, err)
	}

	if !changed {
		log.WithFields(log.Fields{
			"key":  key,
			"line": event.Line,
		}).Debug("Line unchanged, skipping recompute")
		return nil
	}

	if err := h.propCache.UpdateHitRates(ctx, history); err != nil {
		return fmt.Errorf("failed to store recomputed hit rates %s: %w", key, err)
	}

	observability.GetMetrics().RecordHitRateRecompute(string(stat))
	log.WithFields(log.Fields{
		"key":  key,
		"line": event.Line,
	}).Info("Recomputed hit rates for moved line")

	return nil
}

// lockFor returns the mutex serializing updates for one proposition
func (h *LineUpdateHandler) lockFor(key string) *sync.Mutex {
	mu, _ := h.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
