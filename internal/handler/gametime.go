package handler

import (
	"net/http"

	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// GameTimeHandler handles weekly planner endpoints: the recurring
// template, per-date overrides, absence ranges, and the composite view
type GameTimeHandler struct {
	gameTimeService *service.GameTimeService
}

// NewGameTimeHandler creates a new game time handler
func NewGameTimeHandler(gameTimeService *service.GameTimeService) *GameTimeHandler {
	return &GameTimeHandler{
		gameTimeService: gameTimeService,
	}
}

// TemplateResponse represents a saved weekly template. CarriedOver
// lists slots kept because a confirmed signup pinned them.
type TemplateResponse struct {
	Slots       []*model.TemplateSlot `json:"slots"`
	CarriedOver []model.SlotKey       `json:"carried_over,omitempty"`
}

// GetTemplate handles GET /v1/game-time/template
func (h *GameTimeHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	slots, err := h.gameTimeService.GetTemplate(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, TemplateResponse{Slots: slots}, map[string]string{
		"self": "/v1/game-time/template",
	})
}

// PutTemplate handles PUT /v1/game-time/template - replace the weekly
// template; slots pinned by confirmed signups are carried over
func (h *GameTimeHandler) PutTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.PutTemplateRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	slots, carried, err := h.gameTimeService.ReplaceTemplate(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "template replace"))
		return
	}

	WriteData(w, http.StatusOK, TemplateResponse{Slots: slots, CarriedOver: carried}, map[string]string{
		"self": "/v1/game-time/template",
	})
}

// ListOverrides handles GET /v1/game-time/overrides?from=&to=
func (h *GameTimeHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	overrides, err := h.gameTimeService.ListOverrides(r.Context(), userID, from, to)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, overrides, nil, map[string]string{
		"self": "/v1/game-time/overrides",
	})
}

// PutOverride handles PUT /v1/game-time/overrides/{date} - upsert the
// cell list for one date
func (h *GameTimeHandler) PutOverride(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	date := r.PathValue("date")
	if date == "" {
		WriteError(w, model.NewBadRequestError("date required"))
		return
	}

	var req model.PutOverrideRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	override, err := h.gameTimeService.PutOverride(r.Context(), userID, date, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, override, map[string]string{
		"self": "/v1/game-time/overrides/" + date,
	})
}

// DeleteOverride handles DELETE /v1/game-time/overrides/{date}
func (h *GameTimeHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	date := r.PathValue("date")
	if date == "" {
		WriteError(w, model.NewBadRequestError("date required"))
		return
	}

	if err := h.gameTimeService.DeleteOverride(r.Context(), userID, date); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// ListAbsences handles GET /v1/game-time/absences
func (h *GameTimeHandler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	absences, err := h.gameTimeService.ListAbsences(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, absences, nil, map[string]string{
		"self": "/v1/game-time/absences",
	})
}

// CreateAbsence handles POST /v1/game-time/absences
func (h *GameTimeHandler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateAbsenceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	absence, err := h.gameTimeService.CreateAbsence(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, absence, map[string]string{
		"self": "/v1/game-time/absences/" + absence.ID,
	})
}

// DeleteAbsence handles DELETE /v1/game-time/absences/{absenceId}
func (h *GameTimeHandler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	absenceID := r.PathValue("absenceId")
	if absenceID == "" {
		WriteError(w, model.NewBadRequestError("absence ID required"))
		return
	}

	if err := h.gameTimeService.DeleteAbsence(r.Context(), userID, absenceID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// GetComposite handles GET /v1/game-time/composite?start=YYYY-MM-DD -
// the merged weekly grid; start must be a Monday, defaulting to the
// current week
func (h *GameTimeHandler) GetComposite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	start := r.URL.Query().Get("start")

	view, err := h.gameTimeService.GetCompositeView(r.Context(), userID, start)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "composite view"))
		return
	}

	WriteData(w, http.StatusOK, view, map[string]string{
		"self": "/v1/game-time/composite",
	})
}
