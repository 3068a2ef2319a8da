package repository

import (
	"context"
	"testing"
	"time"

	"courtline/domain/entities"
	"courtline/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWagerRepository_CreateAndListPending(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewWagerRepository(testDB.DB)

	gameDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	wager := testutil.CreateTestWager(time.Now().UTC().Add(-2*time.Hour),
		testutil.CreateTestPlayerLeg(203507, "Giannis Antetokounmpo", "MIL", entities.StatPoints, 29.5, gameDate),
		testutil.CreateTestMoneylineLeg("MIL", "BOS", gameDate),
	)

	err := repo.Create(ctx, wager)
	require.NoError(t, err)
	require.NotEqual(t, int64(0), wager.ID)
	require.Len(t, wager.Legs, 2)
	require.NotEqual(t, int64(0), wager.Legs[0].ID)

	pending, err := repo.ListPending(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	loaded := pending[0]
	assert.Equal(t, wager.ID, loaded.ID)
	assert.Equal(t, entities.WagerStatusPending, loaded.Status)
	require.Len(t, loaded.Legs, 2)
	assert.Equal(t, entities.StatPoints, loaded.Legs[0].StatType)
	assert.Equal(t, 29.5, loaded.Legs[0].Line)
	require.NotNil(t, loaded.Legs[0].PlayerID)
	assert.Equal(t, int64(203507), *loaded.Legs[0].PlayerID)
	assert.Equal(t, entities.OperatorMoneyline, loaded.Legs[1].Operator)
}

func TestWagerRepository_ListPendingRespectsLookback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewWagerRepository(testDB.DB)

	gameDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	recent := testutil.CreateTestWager(time.Now().UTC().Add(-time.Hour),
		testutil.CreateTestMoneylineLeg("MIL", "BOS", gameDate))
	stale := testutil.CreateTestWager(time.Now().UTC().Add(-30*24*time.Hour),
		testutil.CreateTestMoneylineLeg("LAL", "DEN", gameDate))

	require.NoError(t, repo.Create(ctx, recent))
	require.NoError(t, repo.Create(ctx, stale))

	pending, err := repo.ListPending(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, recent.ID, pending[0].ID)

	staleCount, err := repo.CountStalePending(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, staleCount)
}

func TestWagerRepository_MarkSettled(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewWagerRepository(testDB.DB)

	gameDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	wager := testutil.CreateTestWager(time.Now().UTC().Add(-2*time.Hour),
		testutil.CreateTestPlayerLeg(203507, "Giannis Antetokounmpo", "MIL", entities.StatPoints, 29.5, gameDate))
	require.NoError(t, repo.Create(ctx, wager))

	wager.Legs[0].Resolve("0022600551", 34, entities.VerdictWin)
	wager.Complete(entities.VerdictWin, time.Now().UTC())

	claimed, err := repo.MarkSettled(ctx, wager)
	require.NoError(t, err)
	assert.True(t, claimed)

	loaded, err := repo.GetByID(ctx, wager.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, entities.WagerStatusCompleted, loaded.Status)
	assert.Equal(t, entities.VerdictWin, loaded.Verdict)
	require.NotNil(t, loaded.Outcome)
	assert.True(t, *loaded.Outcome)
	require.NotNil(t, loaded.SettledAt)

	require.Len(t, loaded.Legs, 1)
	assert.Equal(t, entities.VerdictWin, loaded.Legs[0].Verdict)
	require.NotNil(t, loaded.Legs[0].ActualValue)
	assert.Equal(t, float64(34), *loaded.Legs[0].ActualValue)
	require.NotNil(t, loaded.Legs[0].GameID)
	assert.Equal(t, "0022600551", *loaded.Legs[0].GameID)
}

func TestWagerRepository_MarkSettledIsIdempotent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewWagerRepository(testDB.DB)

	gameDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	wager := testutil.CreateTestWager(time.Now().UTC().Add(-2*time.Hour),
		testutil.CreateTestPlayerLeg(203507, "Giannis Antetokounmpo", "MIL", entities.StatPoints, 29.5, gameDate))
	require.NoError(t, repo.Create(ctx, wager))

	wager.Legs[0].Resolve("0022600551", 34, entities.VerdictWin)
	wager.Complete(entities.VerdictWin, time.Now().UTC())

	claimed, err := repo.MarkSettled(ctx, wager)
	require.NoError(t, err)
	assert.True(t, claimed)

	// Second attempt must be a no-op, not an error
	again := *wager
	again.Verdict = entities.VerdictLoss // a conflicting verdict must not stick
	claimed, err = repo.MarkSettled(ctx, &again)
	require.NoError(t, err)
	assert.False(t, claimed)

	loaded, err := repo.GetByID(ctx, wager.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.VerdictWin, loaded.Verdict)

	// Settled wagers no longer show up as pending
	pending, err := repo.ListPending(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
