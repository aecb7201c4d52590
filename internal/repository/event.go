package repository

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/raidledger/api/internal/database"
	"github.com/forgo/raidledger/api/internal/model"
)

// EventRepository handles event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		CREATE event CONTENT {
			title: $title,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			game: $game,
			starts_at: $starts_at,
			ends_at: $ends_at,
			max_attendees: IF $max_attendees IS NOT NULL THEN $max_attendees ELSE NONE END,
			status: $status,
			channel_id: IF $channel_id IS NOT NULL THEN $channel_id ELSE NONE END,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"title":         event.Title,
		"description":   ptrToNone(event.Description),
		"game":          event.Game,
		"starts_at":     event.StartsAt,
		"ends_at":       event.EndsAt,
		"max_attendees": ptrIntToNone(event.MaxAttendees),
		"status":        string(event.Status),
		"channel_id":    ptrToNone(event.ChannelID),
		"created_by":    event.CreatedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	event.ID = created.ID
	event.CreatedOn = created.CreatedOn
	event.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	event, err := parseEventResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// List returns scheduled and completed events ordered by (starts_at, id).
// The cursor is the position of the last event on the previous page; keying
// on both columns keeps events that share a start time from being skipped.
func (r *EventRepository) List(ctx context.Context, filters *model.EventSearchFilters, cursor *model.EventCursor, limit int) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE status IN ["scheduled", "completed"]
	`
	vars := map[string]interface{}{"limit": limit}

	if filters != nil {
		if filters.Game != nil {
			query += ` AND game = $game`
			vars["game"] = *filters.Game
		}
		if filters.From != nil {
			query += ` AND starts_at >= $from`
			vars["from"] = *filters.From
		}
		if filters.To != nil {
			query += ` AND starts_at <= $to`
			vars["to"] = *filters.To
		}
	}

	if cursor != nil {
		query += ` AND (starts_at > $cursor_ts OR (starts_at = $cursor_ts AND id > type::record($cursor_id)))`
		vars["cursor_ts"] = cursor.StartsAt
		vars["cursor_id"] = cursor.ID
	}

	query += ` ORDER BY starts_at ASC, id ASC LIMIT $limit`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventsResult(result)
}

// Update applies a partial update and returns the result
func (r *EventRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Event, error) {
	query := `UPDATE type::record($id) SET updated_on = time::now()`
	vars := map[string]interface{}{"id": id}

	for key, value := range updates {
		if value == nil {
			query += ", " + key + " = NONE"
			continue
		}
		query += ", " + key + " = $" + key
		vars[key] = value
	}

	query += ` RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventResult(result)
}

// UpdateStatus transitions an event's status
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, status model.EventStatus) error {
	query := `
		UPDATE type::record($id)
		SET status = $status, updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":     id,
		"status": string(status),
	}

	return r.db.Execute(ctx, query, vars)
}

// ListPastScheduled returns scheduled events whose end time has passed.
// The sweeper marks these completed.
func (r *EventRepository) ListPastScheduled(ctx context.Context, now time.Time) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE status = "scheduled" AND ends_at < $now
		ORDER BY ends_at ASC
		LIMIT 100
	`
	vars := map[string]interface{}{"now": now}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventsResult(result)
}

// ListStaleCancelled returns cancelled events older than the cutoff
// that still have active signups. Once those signups are withdrawn the
// event stops matching, so repeat sweeps skip it.
func (r *EventRepository) ListStaleCancelled(ctx context.Context, cutoff time.Time) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE status = "cancelled"
			AND updated_on < $cutoff
			AND id IN (SELECT VALUE event_id FROM signup WHERE status != "withdrawn")
		ORDER BY updated_on ASC
		LIMIT 100
	`
	vars := map[string]interface{}{"cutoff": cutoff}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseEventsResult(result)
}

func parseEventResult(result interface{}) (*model.Event, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return eventFromMap(data)
}

func parseEventsResult(result interface{}) ([]*model.Event, error) {
	items, ok := extractQueryResults(result)
	if !ok {
		return []*model.Event{}, nil
	}

	events := make([]*model.Event, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		event, err := eventFromMap(data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func eventFromMap(data map[string]interface{}) (*model.Event, error) {
	event := &model.Event{
		ID:           extractIDValue(data["id"]),
		Title:        getString(data, "title"),
		Description:  getStringPtr(data, "description"),
		Game:         getString(data, "game"),
		MaxAttendees: getIntPtr(data, "max_attendees"),
		Status:       model.EventStatus(getString(data, "status")),
		ChannelID:    getStringPtr(data, "channel_id"),
		CreatedBy:    extractIDValue(data["created_by"]),
	}

	if t := getTime(data, "starts_at"); t != nil {
		event.StartsAt = *t
	}
	if t := getTime(data, "ends_at"); t != nil {
		event.EndsAt = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		event.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		event.UpdatedOn = *t
	}

	return event, nil
}
