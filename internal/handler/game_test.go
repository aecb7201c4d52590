package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// ============================================================================
// Mock Game Catalog Dependencies
// ============================================================================

type mockGameDataClient struct {
	searchGamesFunc func(ctx context.Context, query string) ([]*model.Game, error)
}

func (m *mockGameDataClient) SearchGames(ctx context.Context, query string) ([]*model.Game, error) {
	if m.searchGamesFunc != nil {
		return m.searchGamesFunc(ctx, query)
	}
	return nil, nil
}

// mockGameCache misses by default; getJSONFunc can serve hits and
// setJSONFunc observes writes.
type mockGameCache struct {
	getJSONFunc func(ctx context.Context, key string, dest interface{}) (bool, error)
	setJSONFunc func(ctx context.Context, key string, val interface{}, ttl time.Duration) error
}

func (m *mockGameCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.getJSONFunc != nil {
		return m.getJSONFunc(ctx, key, dest)
	}
	return false, nil
}

func (m *mockGameCache) SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	if m.setJSONFunc != nil {
		return m.setJSONFunc(ctx, key, val, ttl)
	}
	return nil
}

func newTestGameHandler(client service.GameDataClient, cache service.GameCache) *GameHandler {
	if client == nil {
		client = &mockGameDataClient{}
	}
	if cache == nil {
		cache = &mockGameCache{}
	}
	svc := service.NewGameService(service.GameServiceConfig{
		Client: client,
		Cache:  cache,
	})
	return NewGameHandler(svc)
}

// ============================================================================
// Search Tests
// ============================================================================

func TestSearchGames_ReturnsCatalogEntries(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := &mockGameDataClient{
		searchGamesFunc: func(ctx context.Context, query string) ([]*model.Game, error) {
			gotQuery = query
			return []*model.Game{
				{Slug: "wow", Name: "World of Warcraft"},
				{Slug: "ffxiv", Name: "Final Fantasy XIV"},
			}, nil
		},
	}
	h := newTestGameHandler(client, nil)

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/games?search=Warcraft", nil), "user:123")
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotQuery != "warcraft" {
		t.Errorf("expected lowercased query, got %q", gotQuery)
	}

	var resp CollectionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	items, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("expected data array, got %T", resp.Data)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 games, got %d", len(items))
	}
}

func TestSearchGames_CacheHit_SkipsUpstream(t *testing.T) {
	t.Parallel()

	client := &mockGameDataClient{
		searchGamesFunc: func(ctx context.Context, query string) ([]*model.Game, error) {
			t.Error("upstream must not be called on a cache hit")
			return nil, nil
		},
	}
	cache := &mockGameCache{
		getJSONFunc: func(ctx context.Context, key string, dest interface{}) (bool, error) {
			games := []*model.Game{{Slug: "wow", Name: "World of Warcraft"}}
			raw, err := json.Marshal(games)
			if err != nil {
				return false, err
			}
			return true, json.Unmarshal(raw, dest)
		},
	}
	h := newTestGameHandler(client, cache)

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/games?search=wow", nil), "user:123")
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSearchGames_CacheDown_FallsThrough(t *testing.T) {
	t.Parallel()

	called := false
	client := &mockGameDataClient{
		searchGamesFunc: func(ctx context.Context, query string) ([]*model.Game, error) {
			called = true
			return []*model.Game{{Slug: "eso", Name: "Elder Scrolls Online"}}, nil
		},
	}
	cache := &mockGameCache{
		getJSONFunc: func(ctx context.Context, key string, dest interface{}) (bool, error) {
			return false, errors.New("connection refused")
		},
		setJSONFunc: func(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
			return errors.New("connection refused")
		},
	}
	h := newTestGameHandler(client, cache)

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/games?search=eso", nil), "user:123")
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected cache failure to degrade, got %d: %s", w.Code, w.Body.String())
	}
	if !called {
		t.Error("expected upstream call when cache is down")
	}
}

func TestSearchGames_UpstreamDown_ReturnsBadGateway(t *testing.T) {
	t.Parallel()

	client := &mockGameDataClient{
		searchGamesFunc: func(ctx context.Context, query string) ([]*model.Game, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	h := newTestGameHandler(client, nil)

	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/games?search=wow", nil), "user:123")
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", w.Code, w.Body.String())
	}

	problem := parseErrorResponse(t, w.Body.Bytes())
	if problem.Status != http.StatusBadGateway {
		t.Errorf("expected problem status 502, got %d", problem.Status)
	}
}

func TestSearchGames_OversizedQuery_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	h := newTestGameHandler(nil, nil)

	query := strings.Repeat("a", model.MaxGameSearchLength+1)
	req := withUserContext(httptest.NewRequest(http.MethodGet, "/v1/games?search="+query, nil), "user:123")
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSearchGames_Unauthenticated_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()

	h := NewGameHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/games?search=wow", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
