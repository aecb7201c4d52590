package handler

import (
	"net/http"

	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// SignupHandler handles event signup endpoints
type SignupHandler struct {
	signupService *service.SignupService
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(signupService *service.SignupService) *SignupHandler {
	return &SignupHandler{
		signupService: signupService,
	}
}

// ListRoster handles GET /v1/events/{eventId}/signups - full roster,
// confirmed before waitlisted, tanks and healers first
func (h *SignupHandler) ListRoster(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	roster, err := h.signupService.ListRoster(r.Context(), userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, roster, nil, map[string]string{
		"self":  "/v1/events/" + eventID + "/signups",
		"event": "/v1/events/" + eventID,
	})
}

// Create handles POST /v1/events/{eventId}/signups - join an event
// with a character; waitlists when the event is full
func (h *SignupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	var req model.CreateSignupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	entry, err := h.signupService.CreateSignup(r.Context(), userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, entry, map[string]string{
		"self":  "/v1/events/" + eventID + "/signups/me",
		"event": "/v1/events/" + eventID,
	})
}

// UpdateMine handles PATCH /v1/events/{eventId}/signups/me - change
// role, character, or note on own signup
func (h *SignupHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	var req model.UpdateSignupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	entry, err := h.signupService.UpdateMySignup(r.Context(), userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, entry, map[string]string{
		"self":  "/v1/events/" + eventID + "/signups/me",
		"event": "/v1/events/" + eventID,
	})
}

// WithdrawMine handles DELETE /v1/events/{eventId}/signups/me -
// withdraw; the earliest waitlisted signup takes the freed spot
func (h *SignupHandler) WithdrawMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.signupService.WithdrawMySignup(r.Context(), userID, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
