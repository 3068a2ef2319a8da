package repository

import (
	"context"
	"fmt"
	"time"

	"courtline/database"
	"courtline/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryable abstracts over a pool or a transaction
type Queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WagerRepository implements wager data access
type WagerRepository struct {
	db *database.DB
	q  Queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{db: db, q: db.Pool}
}

// Create inserts a wager and its legs in one transaction.
// Bet placement itself lives outside the settlement service; this exists
// for ingestion tooling and tests.
func (r *WagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO wagers (placed_at, verdict, status)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if wager.PlacedAt.IsZero() {
			wager.PlacedAt = time.Now().UTC()
		}
		if wager.Verdict == "" {
			wager.Verdict = entities.VerdictPending
		}
		if wager.Status == "" {
			wager.Status = entities.WagerStatusPending
		}

		err := tx.QueryRow(ctx, query, wager.PlacedAt, wager.Verdict, wager.Status).Scan(&wager.ID)
		if err != nil {
			return fmt.Errorf("failed to create wager: %w", err)
		}

		for _, leg := range wager.Legs {
			leg.WagerID = wager.ID
			legQuery := `
				INSERT INTO wager_legs (
					wager_id, player_id, player_name, team, opponent,
					stat_type, operator, line, game_date, verdict
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id, created_at
			`
			if leg.Verdict == "" {
				leg.Verdict = entities.VerdictPending
			}
			err := tx.QueryRow(ctx, legQuery,
				leg.WagerID,
				leg.PlayerID,
				leg.PlayerName,
				leg.Team,
				leg.Opponent,
				leg.StatType,
				leg.Operator,
				leg.Line,
				leg.GameDate,
				leg.Verdict,
			).Scan(&leg.ID, &leg.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to create wager leg: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a wager with its legs
func (r *WagerRepository) GetByID(ctx context.Context, id int64) (*entities.Wager, error) {
	query := `
		SELECT id, placed_at, verdict, status, outcome, settled_at
		FROM wagers
		WHERE id = $1
	`

	var wager entities.Wager
	err := r.q.QueryRow(ctx, query, id).Scan(
		&wager.ID,
		&wager.PlacedAt,
		&wager.Verdict,
		&wager.Status,
		&wager.Outcome,
		&wager.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager by ID %d: %w", id, err)
	}

	legs, err := r.legsForWagers(ctx, []int64{wager.ID})
	if err != nil {
		return nil, err
	}
	wager.Legs = legs[wager.ID]

	return &wager, nil
}

// ListPending returns pending wagers placed within the lookback window,
// legs included, oldest first
func (r *WagerRepository) ListPending(ctx context.Context, maxAge time.Duration) ([]*entities.Wager, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	query := `
		SELECT id, placed_at, verdict, status, outcome, settled_at
		FROM wagers
		WHERE status = 'pending' AND placed_at >= $1
		ORDER BY placed_at ASC
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending wagers: %w", err)
	}
	defer rows.Close()

	var wagers []*entities.Wager
	var ids []int64
	for rows.Next() {
		var wager entities.Wager
		if err := rows.Scan(
			&wager.ID,
			&wager.PlacedAt,
			&wager.Verdict,
			&wager.Status,
			&wager.Outcome,
			&wager.SettledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pending wager: %w", err)
		}
		wagers = append(wagers, &wager)
		ids = append(ids, wager.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending wagers: %w", err)
	}

	if len(wagers) == 0 {
		return wagers, nil
	}

	legs, err := r.legsForWagers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, wager := range wagers {
		wager.Legs = legs[wager.ID]
	}

	return wagers, nil
}

// MarkSettled persists leg results and completes the wager in one
// transaction. The wager row is claimed with a conditional update so
// re-invocation against an already-completed wager is a no-op; the bool
// reports whether this call performed the transition.
func (r *WagerRepository) MarkSettled(ctx context.Context, wager *entities.Wager) (bool, error) {
	claimed := false

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE wagers
			SET verdict = $2, status = $3, outcome = $4, settled_at = $5
			WHERE id = $1 AND status = 'pending'
		`
		tag, err := tx.Exec(ctx, query,
			wager.ID,
			wager.Verdict,
			entities.WagerStatusCompleted,
			wager.Outcome,
			wager.SettledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to complete wager %d: %w", wager.ID, err)
		}

		if tag.RowsAffected() == 0 {
			// Another pass already settled it; leave the legs alone
			return nil
		}
		claimed = true

		for _, leg := range wager.Legs {
			legQuery := `
				UPDATE wager_legs
				SET game_id = $2, actual_value = $3, verdict = $4
				WHERE id = $1
			`
			if _, err := tx.Exec(ctx, legQuery, leg.ID, leg.GameID, leg.ActualValue, leg.Verdict); err != nil {
				return fmt.Errorf("failed to update leg %d of wager %d: %w", leg.ID, wager.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return claimed, nil
}

// CountStalePending counts pending wagers older than the given age
func (r *WagerRepository) CountStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM wagers WHERE status = 'pending' AND placed_at < $1`,
		cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stale pending wagers: %w", err)
	}

	return count, nil
}

// legsForWagers loads legs for a set of wagers, keyed by wager ID
func (r *WagerRepository) legsForWagers(ctx context.Context, wagerIDs []int64) (map[int64][]*entities.Leg, error) {
	query := `
		SELECT id, wager_id, player_id, player_name, team, opponent,
		       stat_type, operator, line, game_date, game_id, actual_value,
		       verdict, created_at
		FROM wager_legs
		WHERE wager_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, wagerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load wager legs: %w", err)
	}
	defer rows.Close()

	legs := make(map[int64][]*entities.Leg)
	for rows.Next() {
		var leg entities.Leg
		if err := rows.Scan(
			&leg.ID,
			&leg.WagerID,
			&leg.PlayerID,
			&leg.PlayerName,
			&leg.Team,
			&leg.Opponent,
			&leg.StatType,
			&leg.Operator,
			&leg.Line,
			&leg.GameDate,
			&leg.GameID,
			&leg.ActualValue,
			&leg.Verdict,
			&leg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wager leg: %w", err)
		}
		legs[leg.WagerID] = append(legs[leg.WagerID], &leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wager legs: %w", err)
	}

	return legs, nil
}
