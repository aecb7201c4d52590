package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/forgo/raidledger/api/internal/middleware"
	"github.com/forgo/raidledger/api/internal/model"
	"github.com/forgo/raidledger/api/internal/service"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// List handles GET /v1/events - scheduled and completed events with
// optional game/from/to filters and cursor pagination
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	query := r.URL.Query()
	filters := &model.EventSearchFilters{}

	if game := query.Get("game"); game != "" {
		filters.Game = &game
	}
	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			WriteError(w, model.NewBadRequestError("invalid from parameter"))
			return
		}
		filters.From = &parsed
	}
	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			WriteError(w, model.NewBadRequestError("invalid to parameter"))
			return
		}
		filters.To = &parsed
	}

	var cursor *model.EventCursor
	if raw := query.Get("cursor"); raw != "" {
		parsed, err := model.ParseEventCursor(raw)
		if err != nil {
			WriteError(w, model.NewBadRequestError("invalid cursor parameter"))
			return
		}
		cursor = parsed
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, model.NewBadRequestError("invalid limit parameter"))
			return
		}
		limit = parsed
	}

	events, next, err := h.eventService.ListEvents(r.Context(), filters, cursor, limit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	pagination := &PaginationInfo{HasMore: next != nil}
	if next != nil {
		pagination.Cursor = next.String()
	}

	WriteCollection(w, http.StatusOK, events, pagination, map[string]string{
		"self": "/v1/events",
	})
}

// Create handles POST /v1/events - create an event as organizer
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, event, map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// Get handles GET /v1/events/{eventId} - event detail with signup
// count and roster preview
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.eventService.GetEventDetail(r.Context(), userID, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, detail, map[string]string{
		"self":    "/v1/events/" + eventID,
		"signups": "/v1/events/" + eventID + "/signups",
	})
}

// Update handles PATCH /v1/events/{eventId} - organizer only
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req model.UpdateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), userID, eventID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event, map[string]string{
		"self": "/v1/events/" + eventID,
	})
}

// Delete handles DELETE /v1/events/{eventId} - cancels the event
// rather than removing the row
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.eventService.CancelEvent(r.Context(), userID, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Announce handles POST /v1/events/{eventId}/announce - post the
// event embed to its Discord channel
func (h *EventHandler) Announce(w http.ResponseWriter, r *http.Request) {
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

	if err := h.eventService.AnnounceEvent(r.Context(), userID, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
