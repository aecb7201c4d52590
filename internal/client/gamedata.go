package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/forgo/raidledger/api/internal/model"
)

// GameDataConfig holds settings for the game catalog upstream
type GameDataConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// GameDataClient queries the third-party game catalog API. Calls run
// behind a circuit breaker so a dead upstream fails fast instead of
// tying up request handlers.
type GameDataClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	retry      retryConfig
	breaker    *gobreaker.CircuitBreaker
}

// NewGameDataClient creates a game catalog client
func NewGameDataClient(cfg GameDataConfig) *GameDataClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "gamedata",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &GameDataClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryConfig(),
		breaker:    gobreaker.NewCircuitBreaker(settings),
	}
}

// SearchGames looks up catalog entries matching the query
func (c *GameDataClient) SearchGames(ctx context.Context, query string) ([]*model.Game, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.searchGames(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Game), nil
}

func (c *GameDataClient) searchGames(ctx context.Context, query string) ([]*model.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/games?" + url.Values{
		"search": {query},
		"limit":  {strconv.Itoa(model.MaxGameResults)},
	}.Encode()

	resp, err := doWithRetry(ctx, c.httpClient, c.retry, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("game catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	var games []*model.Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode game catalog response: %w", err)
	}
	return games, nil
}
