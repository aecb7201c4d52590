package handler

import (
	"net/http"

	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// GameHandler handles game catalog endpoints
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// Search handles GET /v1/games?search= - catalog lookup through the
// game-data upstream with cached results
func (h *GameHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	search := r.URL.Query().Get("search")

	games, err := h.gameService.SearchGames(r.Context(), search)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, games, nil, map[string]string{
		"self": "/v1/games",
	})
}
