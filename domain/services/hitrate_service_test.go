package services

import (
	"testing"

	"courtline/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyWithLast5(line float64, values []float64) *entities.StatHistory {
	return &entities.StatHistory{
		PlayerID:   203507,
		StatType:   entities.StatPoints,
		CachedLine: line,
		Last5:      &entities.StatWindow{Values: values},
	}
}

func TestHitRateService_RecomputeLast5(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	history := historyWithLast5(7.5, []float64{10, 4, 12, 6, 9})

	changed, err := service.Recompute(history, 9.5, entities.OperatorOver)
	require.NoError(t, err)
	assert.True(t, changed)

	// 10 and 12 clear 9.5; 4, 6 and 9 do not
	assert.Equal(t, 2, history.Last5.Hits)
	assert.Equal(t, 5, history.Last5.Total)
	assert.Equal(t, 9.5, history.CachedLine)
	// Raw values are never touched
	assert.Equal(t, []float64{10, 4, 12, 6, 9}, history.Last5.Values)
}

func TestHitRateService_OldLineExample(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	history := historyWithLast5(0, []float64{10, 4, 12, 6, 9})

	changed, err := service.Recompute(history, 7.5, entities.OperatorOver)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, history.Last5.Hits)
	assert.Equal(t, 5, history.Last5.Total)
}

func TestHitRateService_UnchangedLineSkipsRecompute(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	history := historyWithLast5(7.5, []float64{10, 4, 12, 6, 9})
	history.Last5.Hits = 3
	history.Last5.Total = 5

	changed, err := service.Recompute(history, 7.5, entities.OperatorOver)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 3, history.Last5.Hits)
}

func TestHitRateService_WholeNumberLineUsesTieBreak(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	history := historyWithLast5(7.5, []float64{9, 9, 3})

	changed, err := service.Recompute(history, 9, entities.OperatorOver)
	require.NoError(t, err)
	assert.True(t, changed)
	// Exactly-9 results count for the over on a whole-number line
	assert.Equal(t, 2, history.Last5.Hits)
	assert.Equal(t, 3, history.Last5.Total)
}

func TestHitRateService_AllWindowsRecomputedIndependently(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	history := &entities.StatHistory{
		PlayerID:   203507,
		StatType:   entities.StatRebounds,
		CachedLine: 8.5,
		Last5:      &entities.StatWindow{Values: []float64{11, 7, 9, 5, 12}},
		Last10:     &entities.StatWindow{Values: []float64{11, 7, 9, 5, 12, 8, 10, 6, 13, 7}},
		HeadToHead: &entities.StatWindow{Values: []float64{14, 9}},
		Season:     &entities.StatWindow{Values: []float64{11, 7, 9, 5, 12, 8, 10, 6, 13, 7, 9, 11}},
	}

	changed, err := service.Recompute(history, 9.5, entities.OperatorUnder)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, 3, history.Last5.Hits)
	assert.Equal(t, 5, history.Last5.Total)
	assert.Equal(t, 6, history.Last10.Hits)
	assert.Equal(t, 10, history.Last10.Total)
	assert.Equal(t, 1, history.HeadToHead.Hits)
	assert.Equal(t, 2, history.HeadToHead.Total)
	assert.Equal(t, 7, history.Season.Hits)
	assert.Equal(t, 12, history.Season.Total)
}

func TestHitRateService_RecomputeIsDeterministic(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	first := historyWithLast5(7.5, []float64{10, 4, 12, 6, 9})
	second := historyWithLast5(7.5, []float64{10, 4, 12, 6, 9})

	_, err := service.Recompute(first, 9.5, entities.OperatorOver)
	require.NoError(t, err)
	_, err = service.Recompute(second, 9.5, entities.OperatorOver)
	require.NoError(t, err)

	assert.Equal(t, first.Last5.Hits, second.Last5.Hits)
	assert.Equal(t, first.Last5.Total, second.Last5.Total)
}

func TestHitRateService_MissingHistoryIsNoHistoryError(t *testing.T) {
	service := NewHitRateService(NewLegEvaluator())
	history := &entities.StatHistory{PlayerID: 1, StatType: entities.StatPoints}

	changed, err := service.Recompute(history, 9.5, entities.OperatorOver)
	assert.ErrorIs(t, err, ErrNoHistory)
	assert.False(t, changed)
}
