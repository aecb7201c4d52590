package model

import (
	"errors"
	"strings"
	"time"
)

// EventStatus constants
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// Event represents a scheduled guild event (raid, dungeon run, etc.)
type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  *string     `json:"description,omitempty"`
	Game         string      `json:"game"`
	StartsAt     time.Time   `json:"starts_at"` // UTC
	EndsAt       time.Time   `json:"ends_at"`   // UTC
	MaxAttendees *int        `json:"max_attendees,omitempty"`
	Status       EventStatus `json:"status"`
	ChannelID    *string     `json:"channel_id,omitempty"` // Discord channel for announcements
	CreatedBy    string      `json:"created_by"`
	CreatedOn    time.Time   `json:"created_on"`
	UpdatedOn    time.Time   `json:"updated_on"`
}

// Event constraints
const (
	MaxEventTitleLength       = 100
	MaxEventDescriptionLength = 2000
	MaxEventDuration          = 24 * time.Hour
	MinEventAttendees         = 1
	MaxEventAttendees         = 500
)

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	Game         string  `json:"game"`
	StartsAt     string  `json:"starts_at"` // RFC 3339
	EndsAt       string  `json:"ends_at"`   // RFC 3339
	MaxAttendees *int    `json:"max_attendees,omitempty"`
	ChannelID    *string `json:"channel_id,omitempty"`
	Draft        bool    `json:"draft,omitempty"`
}

// UpdateEventRequest represents a partial event update
type UpdateEventRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	StartsAt     *string `json:"starts_at,omitempty"`
	EndsAt       *string `json:"ends_at,omitempty"`
	MaxAttendees *int    `json:"max_attendees,omitempty"`
	ChannelID    *string `json:"channel_id,omitempty"`
	Publish      *bool   `json:"publish,omitempty"` // Draft -> scheduled
}

// EventSearchFilters narrow event listings
type EventSearchFilters struct {
	Game *string
	From *time.Time
	To   *time.Time
}

// EventCursor marks a position in an event listing. Pagination keys on
// (starts_at, id) so events sharing a start time never straddle a page
// boundary ambiguously.
type EventCursor struct {
	StartsAt time.Time
	ID       string
}

// String encodes the cursor as an opaque page token.
func (c EventCursor) String() string {
	return c.StartsAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
}

// ParseEventCursor decodes a page token produced by EventCursor.String.
func ParseEventCursor(s string) (*EventCursor, error) {
	ts, id, ok := strings.Cut(s, "|")
	if !ok || id == "" {
		return nil, errors.New("malformed event cursor")
	}
	startsAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, errors.New("malformed event cursor")
	}
	return &EventCursor{StartsAt: startsAt, ID: id}, nil
}

// EventDetail bundles an event with its roster summary
type EventDetail struct {
	Event         *Event         `json:"event"`
	SignupCount   int            `json:"signup_count"`
	SignupPreview []*RosterEntry `json:"signup_preview"`
}
