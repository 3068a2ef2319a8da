package propcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtline/domain/entities"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Store keeps proposition hit-rate records in Redis, one JSON document
// per (player, stat type) key. The raw window values are written once by
// the ingestion side; this service only rewrites the derived hit counts.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a store against the given Redis address.
// A zero TTL keeps records until the ingestion side replaces them.
func NewStore(addr string, ttl time.Duration) *Store {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Store{client: client, ttl: ttl}
}

// NewStoreWithClient wraps an existing Redis client, used by tests
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping verifies the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// GetStatHistory loads the cached record for a proposition.
// Returns nil without error when no record exists.
func (s *Store) GetStatHistory(ctx context.Context, playerID int64, stat entities.StatType) (*entities.StatHistory, error) {
	key := entities.PropKey(playerID, stat)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stat history %s: %w", key, err)
	}

	var history entities.StatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stat history %s: %w", key, err)
	}

	return &history, nil
}

// UpdateHitRates writes the record back with its recomputed hit counts.
// The whole document is rewritten so readers always see a line and its
// hit rates from the same recomputation.
func (s *Store) UpdateHitRates(ctx context.Context, history *entities.StatHistory) error {
	key := history.Key()

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal stat history %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store stat history %s: %w", key, err)
	}

	log.WithFields(log.Fields{
		"key":  key,
		"line": history.CachedLine,
	}).Debug("Updated cached hit rates")
	return nil
}

// Close releases the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
