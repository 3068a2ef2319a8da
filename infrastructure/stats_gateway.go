package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"courtline/domain/entities"
	"courtline/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// StatsGateway talks to the stat provider's HTTP API and normalizes its
// payloads into domain shapes. All calls pass through a shared rate
// limiter so concurrent settlement workers can't exceed the provider's
// request allowance.
type StatsGateway struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// StatsGatewayOption configures a StatsGateway
type StatsGatewayOption func(*StatsGateway)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) StatsGatewayOption {
	return func(g *StatsGateway) {
		g.client = client
	}
}

// WithRateLimit overrides the provider request rate
func WithRateLimit(rps float64, burst int) StatsGatewayOption {
	return func(g *StatsGateway) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewStatsGateway creates a gateway against the given provider base URL
func NewStatsGateway(baseURL string, opts ...StatsGatewayOption) *StatsGateway {
	g := &StatsGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// gameDTO is the provider's game record shape
type gameDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	HomeAbbr    string  `json:"home_team_abbreviation"`
	HomeName    string  `json:"home_team_name"`
	AwayAbbr    string  `json:"away_team_abbreviation"`
	AwayName    string  `json:"away_team_name"`
	Status      string  `json:"status"`
	HomeScore   *int    `json:"home_score"`
	AwayScore   *int    `json:"away_score"`
	TipOff      string  `json:"tip_off"`
	CompletedAt *string `json:"completed_at"`
}

type playerStatDTO struct {
	Value float64 `json:"value"`
}

type teamScoresDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// ListGames returns all games the provider has scheduled on the given date
func (g *StatsGateway) ListGames(ctx context.Context, date time.Time) ([]*entities.Game, error) {
	endpoint := fmt.Sprintf("%s/games?date=%s", g.baseURL, date.Format("2006-01-02"))

	var dtos []gameDTO
	if err := g.getJSON(ctx, endpoint, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list games for %s: %w", date.Format("2006-01-02"), err)
	}

	games := make([]*entities.Game, 0, len(dtos))
	for _, dto := range dtos {
		game, err := dto.toEntity()
		if err != nil {
			log.WithFields(log.Fields{
				"gameId": dto.ID,
				"error":  err,
			}).Warn("Skipping malformed game record from provider")
			continue
		}
		games = append(games, game)
	}

	return games, nil
}

// PlayerStat returns the observed value for a player's stat in a finished
// game. A provider 404 means the box score carries no such line.
func (g *StatsGateway) PlayerStat(ctx context.Context, gameID string, playerID int64, stat entities.StatType) (float64, error) {
	endpoint := fmt.Sprintf("%s/games/%s/players/%d/stats?stat=%s",
		g.baseURL, url.PathEscape(gameID), playerID, url.QueryEscape(string(stat)))

	var dto playerStatDTO
	if err := g.getJSON(ctx, endpoint, &dto); err != nil {
		if isNotFound(err) {
			return 0, interfaces.ErrStatNotFound
		}
		return 0, fmt.Errorf("failed to get stat %s for player %d in game %s: %w", stat, playerID, gameID, err)
	}

	return dto.Value, nil
}

// TeamScores returns the final scores for a finished game
func (g *StatsGateway) TeamScores(ctx context.Context, gameID string) (*entities.TeamScores, error) {
	endpoint := fmt.Sprintf("%s/games/%s/score", g.baseURL, url.PathEscape(gameID))

	var dto teamScoresDTO
	if err := g.getJSON(ctx, endpoint, &dto); err != nil {
		if isNotFound(err) {
			return nil, interfaces.ErrStatNotFound
		}
		return nil, fmt.Errorf("failed to get scores for game %s: %w", gameID, err)
	}

	return &entities.TeamScores{Home: dto.Home, Away: dto.Away}, nil
}

// statusError carries a non-2xx provider response
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

// getJSON performs a rate-limited GET and decodes the JSON response
func (g *StatsGateway) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// toEntity converts a provider game record into the domain shape
func (dto *gameDTO) toEntity() (*entities.Game, error) {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid game date %q: %w", dto.Date, err)
	}

	game := &entities.Game{
		ID:        dto.ID,
		Date:      date,
		HomeAbbr:  dto.HomeAbbr,
		HomeName:  dto.HomeName,
		AwayAbbr:  dto.AwayAbbr,
		AwayName:  dto.AwayName,
		Status:    dto.Status,
		HomeScore: dto.HomeScore,
		AwayScore: dto.AwayScore,
	}

	if dto.TipOff != "" {
		tipOff, err := time.Parse(time.RFC3339, dto.TipOff)
		if err != nil {
			return nil, fmt.Errorf("invalid tip-off %q: %w", dto.TipOff, err)
		}
		game.TipOff = tipOff
	}

	if dto.CompletedAt != nil && *dto.CompletedAt != "" {
		completedAt, err := time.Parse(time.RFC3339, *dto.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid completed-at %q: %w", *dto.CompletedAt, err)
		}
		game.CompletedAt = &completedAt
	}

	return game, nil
}
