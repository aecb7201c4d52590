package handler

import (
	"net/http"

	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// CharacterHandler handles character roster endpoints
type CharacterHandler struct {
	characterService *service.CharacterService
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(characterService *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
	}
}

// List handles GET /v1/characters - own characters, mains first
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	game := r.URL.Query().Get("game")

	characters, err := h.characterService.ListCharacters(r.Context(), userID, game)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, characters, nil, map[string]string{
		"self": "/v1/characters",
	})
}

// Create handles POST /v1/characters - create a character
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateCharacterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	character, err := h.characterService.CreateCharacter(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, character, map[string]string{
		"self": "/v1/characters/" + character.ID,
	})
}

// Get handles GET /v1/characters/{characterId}
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	characterID := r.PathValue("characterId")
	if characterID == "" {
		WriteError(w, model.NewBadRequestError("character ID required"))
		return
	}

	character, err := h.characterService.GetCharacter(r.Context(), userID, characterID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, character, map[string]string{
		"self": "/v1/characters/" + characterID,
	})
}

// Update handles PATCH /v1/characters/{characterId}
func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	characterID := r.PathValue("characterId")
	if characterID == "" {
		WriteError(w, model.NewBadRequestError("character ID required"))
		return
	}

	var req model.UpdateCharacterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	character, err := h.characterService.UpdateCharacter(r.Context(), userID, characterID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, character, map[string]string{
		"self": "/v1/characters/" + characterID,
	})
}

// Delete handles DELETE /v1/characters/{characterId}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	characterID := r.PathValue("characterId")
	if characterID == "" {
		WriteError(w, model.NewBadRequestError("character ID required"))
		return
	}

	if err := h.characterService.DeleteCharacter(r.Context(), userID, characterID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// PromoteMain handles POST /v1/characters/{characterId}/main - promote
// a character to main for its game
func (h *CharacterHandler) PromoteMain(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	characterID := r.PathValue("characterId")
	if characterID == "" {
		WriteError(w, model.NewBadRequestError("character ID required"))
		return
	}

	character, err := h.characterService.PromoteMain(r.Context(), userID, characterID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, character, map[string]string{
		"self": "/v1/characters/" + characterID,
	})
}
