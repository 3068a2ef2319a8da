package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtline/domain/entities"
	"courtline/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsGateway_ListGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "2026-01-15", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "0022600551",
				"date": "2026-01-15",
				"home_team_abbreviation": "MIL",
				"home_team_name": "Milwaukee Bucks",
				"away_team_abbreviation": "BOS",
				"away_team_name": "Boston Celtics",
				"status": "Final",
				"home_score": 118,
				"away_score": 112,
				"tip_off": "2026-01-15T19:10:00Z",
				"completed_at": "2026-01-15T21:42:00Z"
			},
			{
				"id": "0022600552",
				"date": "2026-01-15",
				"home_team_abbreviation": "TBD",
				"home_team_name": "",
				"away_team_abbreviation": "",
				"away_team_name": "",
				"status": "Scheduled",
				"tip_off": "2026-01-16T01:00:00Z"
			}
		]`))
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	games, err := gateway.ListGames(context.Background(), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 2)

	final := games[0]
	assert.Equal(t, "0022600551", final.ID)
	assert.Equal(t, "MIL", final.HomeAbbr)
	assert.Equal(t, "Milwaukee Bucks", final.HomeName)
	assert.Equal(t, "Final", final.Status)
	require.NotNil(t, final.HomeScore)
	assert.Equal(t, 118, *final.HomeScore)
	require.NotNil(t, final.CompletedAt)
	assert.Equal(t, time.Date(2026, 1, 15, 21, 42, 0, 0, time.UTC), *final.CompletedAt)

	placeholder := games[1]
	assert.True(t, placeholder.IsPlaceholder())
	assert.Nil(t, placeholder.CompletedAt)
}

func TestStatsGateway_ListGamesSkipsMalformedRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "bad", "date": "not-a-date", "status": "Final"},
			{"id": "good", "date": "2026-01-15", "home_team_abbreviation": "MIL", "away_team_abbreviation": "BOS", "status": "Final"}
		]`))
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	games, err := gateway.ListGames(context.Background(), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "good", games[0].ID)
}

func TestStatsGateway_PlayerStat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/0022600551/players/203507/stats", r.URL.Path)
		assert.Equal(t, "points", r.URL.Query().Get("stat"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": 34}`))
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	value, err := gateway.PlayerStat(context.Background(), "0022600551", 203507, entities.StatPoints)
	require.NoError(t, err)
	assert.Equal(t, float64(34), value)
}

func TestStatsGateway_PlayerStatNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	_, err := gateway.PlayerStat(context.Background(), "0022600551", 999, entities.StatPoints)
	assert.ErrorIs(t, err, interfaces.ErrStatNotFound)
}

func TestStatsGateway_PlayerStatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	_, err := gateway.PlayerStat(context.Background(), "0022600551", 203507, entities.StatPoints)
	require.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrStatNotFound)
	assert.Contains(t, err.Error(), "502")
}

func TestStatsGateway_TeamScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/0022600551/score", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"home": 118, "away": 112}`))
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	scores, err := gateway.TeamScores(context.Background(), "0022600551")
	require.NoError(t, err)
	assert.Equal(t, 118, scores.Home)
	assert.Equal(t, 112, scores.Away)
}

func TestStatsGateway_RespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"value": 1}`))
	}))
	defer server.Close()

	gateway := NewStatsGateway(server.URL, WithRateLimit(100, 10))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := gateway.PlayerStat(ctx, "0022600551", 203507, entities.StatPoints)
	require.Error(t, err)
}
