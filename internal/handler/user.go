package handler

import (
	"net/http"

	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// UserHandler handles profile and preference endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me handles GET /v1/users/me - current user's account
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, toUserResponse(user), map[string]string{
		"self": "/v1/users/me",
	})
}

// UpdateMe handles PATCH /v1/users/me - partial profile update
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, toUserResponse(user), map[string]string{
		"self": "/v1/users/me",
	})
}

// ListPreferences handles GET /v1/users/me/preferences
func (h *UserHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	prefs, err := h.userService.ListPreferences(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, prefs, nil, map[string]string{
		"self": "/v1/users/me/preferences",
	})
}

// PutPreference handles PUT /v1/users/me/preferences/{key} - upsert
func (h *UserHandler) PutPreference(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	key := r.PathValue("key")
	if key == "" {
		WriteError(w, model.NewBadRequestError("preference key required"))
		return
	}

	var req model.PutPreferenceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	pref, err := h.userService.PutPreference(r.Context(), userID, key, req.Value)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, pref, map[string]string{
		"self": "/v1/users/me/preferences/" + pref.Key,
	})
}

// DeletePreference handles DELETE /v1/users/me/preferences/{key}
func (h *UserHandler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	key := r.PathValue("key")
	if key == "" {
		WriteError(w, model.NewBadRequestError("preference key required"))
		return
	}

	if err := h.userService.DeletePreference(r.Context(), userID, key); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
