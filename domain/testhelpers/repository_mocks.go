package testhelpers

import (
	"context"
	"time"

	"courtline/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) ListPending(ctx context.Context, maxAge time.Duration) ([]*entities.Wager, error) {
	args := m.Called(ctx, maxAge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) MarkSettled(ctx context.Context, wager *entities.Wager) (bool, error) {
	args := m.Called(ctx, wager)
	return args.Bool(0), args.Error(1)
}

func (m *MockWagerRepository) CountStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

// MockPropCacheRepository is a mock implementation of PropCacheRepository
type MockPropCacheRepository struct {
	mock.Mock
}

func (m *MockPropCacheRepository) GetStatHistory(ctx context.Context, playerID int64, stat entities.StatType) (*entities.StatHistory, error) {
	args := m.Called(ctx, playerID, stat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StatHistory), args.Error(1)
}

func (m *MockPropCacheRepository) UpdateHitRates(ctx context.Context, history *entities.StatHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// MockStatSourceGateway is a mock implementation of StatSourceGateway
type MockStatSourceGateway struct {
	mock.Mock
}

func (m *MockStatSourceGateway) ListGames(ctx context.Context, date time.Time) ([]*entities.Game, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Game), args.Error(1)
}

func (m *MockStatSourceGateway) PlayerStat(ctx context.Context, gameID string, playerID int64, stat entities.StatType) (float64, error) {
	args := m.Called(ctx, gameID, playerID, stat)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStatSourceGateway) TeamScores(ctx context.Context, gameID string) (*entities.TeamScores, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamScores), args.Error(1)
}
