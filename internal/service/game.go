package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/forgo/raidledger/api/internal/model"
)

const gameCacheTTL = time.Hour

// GameDataClient defines the interface for the game catalog upstream
type GameDataClient interface {
	SearchGames(ctx context.Context, query string) ([]*model.Game, error)
}

// GameCache defines the cache operations for catalog lookups
type GameCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) error
}

// GameService handles game catalog lookups with read-through caching
type GameService struct {
	client GameDataClient
	cache  GameCache
}

// GameServiceConfig holds configuration for the game service
type GameServiceConfig struct {
	Client GameDataClient
	Cache  GameCache
}

// NewGameService creates a new game service
func NewGameService(cfg GameServiceConfig) *GameService {
	return &GameService{
		client: cfg.Client,
		cache:  cfg.Cache,
	}
}

// SearchGames looks up catalog entries matching the search term.
// Results are cached for an hour; cache failures degrade to upstream
// calls rather than erroring.
func (s *GameService) SearchGames(ctx context.Context, search string) ([]*model.Game, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	if len(search) > model.MaxGameSearchLength {
		return nil, ErrSearchTooLong
	}

	key := "games:search:" + search

	var cached []*model.Game
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		slog.Warn("game cache read failed", slog.String("error", err.Error()))
	} else if hit {
		return cached, nil
	}

	games, err := s.client.SearchGames(ctx, search)
	if err != nil {
		return nil, ErrGameDataUnavailable
	}
	if games == nil {
		games = []*model.Game{}
	}
	if len(games) > model.MaxGameResults {
		games = games[:model.MaxGameResults]
	}

	if err := s.cache.SetJSON(ctx, key, games, gameCacheTTL); err != nil {
		slog.Warn("game cache write failed", slog.String("error", err.Error()))
	}
	return games, nil
}
