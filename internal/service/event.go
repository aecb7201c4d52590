package service

import (
	"context"
	"strings"
	"time"

	"github.com/forgo/raidledger/api/internal/model"
)

const (
	defaultEventPageSize = 25
	maxEventPageSize     = 100

	// Minimum gap between announcements of the same event
	announceCooldown = 10 * time.Minute

	// Grace period before the sweeper withdraws signups left on a
	// cancelled event
	cancelledSignupGrace = 24 * time.Hour
)

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, filters *model.EventSearchFilters, cursor *model.EventCursor, limit int) ([]*model.Event, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Event, error)
	UpdateStatus(ctx context.Context, id string, status model.EventStatus) error
	ListPastScheduled(ctx context.Context, now time.Time) ([]*model.Event, error)
	ListStaleCancelled(ctx context.Context, cutoff time.Time) ([]*model.Event, error)
}

// DiscordAnnouncer posts event announcements to a Discord channel
type DiscordAnnouncer interface {
	AnnounceEvent(ctx context.Context, channelID string, event *model.Event) error
}

// CooldownStore guards operations that must not repeat within a window
type CooldownStore interface {
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// EventService handles event lifecycle operations
type EventService struct {
	eventRepo  EventRepository
	signupRepo SignupRepository
	announcer  DiscordAnnouncer
	cooldowns  CooldownStore
}

// EventServiceConfig holds configuration for the event service
type EventServiceConfig struct {
	EventRepo  EventRepository
	SignupRepo SignupRepository
	Announcer  DiscordAnnouncer
	Cooldowns  CooldownStore
}

// NewEventService creates a new event service
func NewEventService(cfg EventServiceConfig) *EventService {
	return &EventService{
		eventRepo:  cfg.EventRepo,
		signupRepo: cfg.SignupRepo,
		announcer:  cfg.Announcer,
		cooldowns:  cfg.Cooldowns,
	}
}

// ListEvents returns a page of scheduled and completed events plus the
// cursor for the next page, nil when this page is the last.
func (s *EventService) ListEvents(ctx context.Context, filters *model.EventSearchFilters, cursor *model.EventCursor, limit int) ([]*model.Event, *model.EventCursor, error) {
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}

	// Fetch one extra row to learn whether another page exists
	events, err := s.eventRepo.List(ctx, filters, cursor, limit+1)
	if err != nil {
		return nil, nil, err
	}

	var next *model.EventCursor
	if len(events) > limit {
		events = events[:limit]
		last := events[len(events)-1]
		next = &model.EventCursor{StartsAt: last.StartsAt, ID: last.ID}
	}

	return events, next, nil
}

// CreateEvent creates an event with the caller as organizer
func (s *EventService) CreateEvent(ctx context.Context, userID string, req *model.CreateEventRequest) (*model.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEventTitleRequired
	}
	if len(title) > model.MaxEventTitleLength {
		return nil, ErrEventTitleTooLong
	}

	if req.Description != nil && len(*req.Description) > model.MaxEventDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	game := strings.TrimSpace(req.Game)
	if game == "" {
		return nil, ErrGameRequired
	}
	if len(game) > model.MaxGameSlugLength {
		return nil, ErrGameSlugTooLong
	}

	startsAt, endsAt, err := parseEventTimes(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	if req.MaxAttendees != nil {
		if *req.MaxAttendees < model.MinEventAttendees || *req.MaxAttendees > model.MaxEventAttendees {
			return nil, ErrInvalidAttendeeLimit
		}
	}

	status := model.EventStatusScheduled
	if req.Draft {
		status = model.EventStatusDraft
	}

	event := &model.Event{
		Title:        title,
		Description:  req.Description,
		Game:         game,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		MaxAttendees: req.MaxAttendees,
		Status:       status,
		ChannelID:    req.ChannelID,
		CreatedBy:    userID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEventDetail returns an event with its confirmed count and roster
// preview. Drafts are visible to their organizer only.
func (s *EventService) GetEventDetail(ctx context.Context, userID, eventID string) (*model.EventDetail, error) {
	event, err := s.visibleEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	count, err := s.signupRepo.CountConfirmed(ctx, eventID)
	if err != nil {
		return nil, err
	}

	preview, err := s.signupRepo.ListRanked(ctx, eventID, model.SignupPreviewSize)
	if err != nil {
		return nil, err
	}

	return &model.EventDetail{
		Event:         event,
		SignupCount:   count,
		SignupPreview: preview,
	}, nil
}

// UpdateEvent applies organizer edits to an event
func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID string, req *model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.organizerEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status == model.EventStatusCancelled || event.Status == model.EventStatusCompleted {
		return nil, ErrEventNotEditable
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEventTitleRequired
		}
		if len(title) > model.MaxEventTitleLength {
			return nil, ErrEventTitleTooLong
		}
		updates["title"] = title
	}

	if req.Description != nil {
		if len(*req.Description) > model.MaxEventDescriptionLength {
			return nil, ErrDescriptionTooLong
		}
		updates["description"] = *req.Description
	}

	if req.StartsAt != nil || req.EndsAt != nil {
		startsStr := event.StartsAt.Format(time.RFC3339)
		endsStr := event.EndsAt.Format(time.RFC3339)
		if req.StartsAt != nil {
			startsStr = *req.StartsAt
		}
		if req.EndsAt != nil {
			endsStr = *req.EndsAt
		}

		startsAt, endsAt, err := parseEventTimes(startsStr, endsStr)
		if err != nil {
			return nil, err
		}
		if req.StartsAt != nil {
			updates["starts_at"] = startsAt
		}
		if req.EndsAt != nil {
			updates["ends_at"] = endsAt
		}
	}

	if req.MaxAttendees != nil {
		if *req.MaxAttendees < model.MinEventAttendees || *req.MaxAttendees > model.MaxEventAttendees {
			return nil, ErrInvalidAttendeeLimit
		}
		updates["max_attendees"] = *req.MaxAttendees
	}

	if req.ChannelID != nil {
		if *req.ChannelID == "" {
			updates["channel_id"] = nil
		} else {
			updates["channel_id"] = *req.ChannelID
		}
	}

	if req.Publish != nil && *req.Publish && event.Status == model.EventStatusDraft {
		updates["status"] = string(model.EventStatusScheduled)
	}

	if len(updates) == 0 {
		return event, nil
	}

	return s.eventRepo.Update(ctx, eventID, updates)
}

// CancelEvent cancels an event rather than deleting the row, so the
// roster history stays queryable.
func (s *EventService) CancelEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.organizerEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if event.Status == model.EventStatusCancelled || event.Status == model.EventStatusCompleted {
		return ErrEventNotEditable
	}

	return s.eventRepo.UpdateStatus(ctx, eventID, model.EventStatusCancelled)
}

// AnnounceEvent posts the event to its Discord channel. Repeat
// announcements within the cooldown window are rejected.
func (s *EventService) AnnounceEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.organizerEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if event.Status != model.EventStatusScheduled {
		return ErrEventNotEditable
	}

	if event.ChannelID == nil || *event.ChannelID == "" {
		return ErrChannelMissing
	}

	// Fail open when the cooldown store is down; a duplicate announce
	// beats a blocked one.
	ok, err := s.cooldowns.SetNX(ctx, "announce:"+eventID, announceCooldown)
	if err == nil && !ok {
		return ErrAnnounceCooldown
	}

	if err := s.announcer.AnnounceEvent(ctx, *event.ChannelID, event); err != nil {
		return ErrDiscordUnavailable
	}
	return nil
}

// SweepPastEvents marks scheduled events whose end time has passed as
// completed. Returns how many events were swept.
func (s *EventService) SweepPastEvents(ctx context.Context) (int, error) {
	events, err := s.eventRepo.ListPastScheduled(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, event := range events {
		if err := s.eventRepo.UpdateStatus(ctx, event.ID, model.EventStatusCompleted); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}

// CleanupCancelledSignups withdraws signups still active on events
// cancelled more than the grace period ago. Returns how many events
// were cleaned.
func (s *EventService) CleanupCancelledSignups(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-cancelledSignupGrace)
	events, err := s.eventRepo.ListStaleCancelled(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, event := range events {
		if err := s.signupRepo.WithdrawForEvent(ctx, event.ID); err != nil {
			return cleaned, err
		}
		cleaned++
	}
	return cleaned, nil
}

// visibleEvent loads an event applying draft visibility rules
func (s *EventService) visibleEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Status == model.EventStatusDraft && event.CreatedBy != userID {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// organizerEvent loads an event and verifies the caller organizes it
func (s *EventService) organizerEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.CreatedBy != userID {
		if event.Status == model.EventStatusDraft {
			return nil, ErrEventNotFound
		}
		return nil, ErrNotOrganizer
	}
	return event, nil
}

func parseEventTimes(startsStr, endsStr string) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(time.RFC3339, startsStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeFormat
	}
	endsAt, err := time.Parse(time.RFC3339, endsStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeFormat
	}

	startsAt = startsAt.UTC()
	endsAt = endsAt.UTC()

	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	if endsAt.Sub(startsAt) > model.MaxEventDuration {
		return time.Time{}, time.Time{}, ErrEventTooLong
	}

	return startsAt, endsAt, nil
}
