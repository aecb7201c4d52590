package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/raidledger/api/internal/model"
)

func newTestGameDataClient(baseURL string, retries int) *GameDataClient {
	c := NewGameDataClient(GameDataConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
	})
	c.retry = fastRetry(retries)
	return c
}

// ============ Search ============

func TestGameDataClient_SearchGames(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "warcraft", r.URL.Query().Get("search"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]*model.Game{
			{Slug: "world-of-warcraft", Name: "World of Warcraft", Genres: []string{"mmorpg"}},
			{Slug: "warcraft-iii", Name: "Warcraft III"},
		})
	}))
	defer srv.Close()

	c := newTestGameDataClient(srv.URL, 0)

	games, err := c.SearchGames(context.Background(), "warcraft")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "world-of-warcraft", games[0].Slug)
	assert.Equal(t, "World of Warcraft", games[0].Name)
	assert.Equal(t, []string{"mmorpg"}, games[0].Genres)
}

func TestGameDataClient_RetriesRateLimit(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := newTestGameDataClient(srv.URL, 2)

	games, err := c.SearchGames(context.Background(), "ffxiv")
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGameDataClient_UpstreamFailureSurfaced(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestGameDataClient(srv.URL, 0)

	_, err := c.SearchGames(context.Background(), "eve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game catalog request failed")

	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestGameDataClient_DecodeFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	}))
	defer srv.Close()

	c := newTestGameDataClient(srv.URL, 0)

	_, err := c.SearchGames(context.Background(), "eve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

// ============ Circuit Breaker ============

func TestGameDataClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestGameDataClient(srv.URL, 0)

	for i := 0; i < 5; i++ {
		_, err := c.SearchGames(context.Background(), "eve")
		require.Error(t, err)
	}

	// Five straight failures trip the breaker; the next call must not
	// reach the upstream at all.
	_, err := c.SearchGames(context.Background(), "eve")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), hits.Load())
}
