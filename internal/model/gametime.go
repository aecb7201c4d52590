package model

import "time"

// SlotStatus represents a template slot's availability level
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusPreferred SlotStatus = "preferred"
)

// OverrideStatus represents a per-date override cell's state
type OverrideStatus string

const (
	OverrideAvailable   OverrideStatus = "available"
	OverrideUnavailable OverrideStatus = "unavailable"
)

// TemplateSlot is one hour of a user's recurring weekly availability.
// Days are Monday-first: 0 = Monday .. 6 = Sunday. A (day, hour) pair
// appears at most once per user.
type TemplateSlot struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	DayOfWeek int        `json:"day_of_week"` // 0 = Monday .. 6 = Sunday
	Hour      int        `json:"hour"`        // 0..23, UTC
	Status    SlotStatus `json:"status"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

// SlotKey identifies a template cell without its stored row
type SlotKey struct {
	DayOfWeek int `json:"day_of_week"`
	Hour      int `json:"hour"`
}

// OverrideCell is one hour of a per-date override
type OverrideCell struct {
	Hour   int            `json:"hour"`
	Status OverrideStatus `json:"status"`
}

// SlotOverride replaces template cells on a single concrete date.
// One row exists per (user, date).
type SlotOverride struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Date      string         `json:"date"` // YYYY-MM-DD
	Cells     []OverrideCell `json:"cells"`
	CreatedOn time.Time      `json:"created_on"`
	UpdatedOn time.Time      `json:"updated_on"`
}

// AbsenceRange marks an inclusive date span where the user is away.
// Ranges for one user never overlap.
type AbsenceRange struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StartsOn  string    `json:"starts_on"` // YYYY-MM-DD
	EndsOn    string    `json:"ends_on"`   // YYYY-MM-DD, >= starts_on
	Reason    *string   `json:"reason,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}

// Game time constraints
const (
	MaxAbsenceDays         = 90 // Longest single absence range
	MaxOverrideWindowDays  = 62 // Widest from/to window on override listings
	MaxAbsenceReasonLength = 200

	// CommittedHorizonDays bounds how far ahead confirmed signups pin
	// template slots against edits.
	CommittedHorizonDays = 28
)

// CellState is the resolved state of one composite-view hour
type CellState string

const (
	CellFree        CellState = "free"
	CellAvailable   CellState = "available"
	CellPreferred   CellState = "preferred"
	CellCommitted   CellState = "committed"
	CellUnavailable CellState = "unavailable"
	CellAbsent      CellState = "absent"
)

// CellSource names which layer decided a cell's state.
// Precedence: absence > override > event > template.
type CellSource string

const (
	SourceNone     CellSource = "none"
	SourceTemplate CellSource = "template"
	SourceEvent    CellSource = "event"
	SourceOverride CellSource = "override"
	SourceAbsence  CellSource = "absence"
)

// CompositeCell is one hour of the merged weekly grid
type CompositeCell struct {
	State   CellState  `json:"state"`
	Source  CellSource `json:"source"`
	EventID *string    `json:"event_id,omitempty"` // Set when state is committed
}

// CompositeDay is one date column of the composite view
type CompositeDay struct {
	Date      string            `json:"date"`        // YYYY-MM-DD
	DayOfWeek int               `json:"day_of_week"` // 0 = Monday .. 6 = Sunday
	Hours     [24]CompositeCell `json:"hours"`
}

// CompositeView is the merged weekly grid of template availability,
// event commitments, date overrides, and absences.
type CompositeView struct {
	WeekStart string          `json:"week_start"` // Monday, YYYY-MM-DD
	Days      [7]CompositeDay `json:"days"`
}

// TemplateSlotInput is one submitted cell in a template replacement
type TemplateSlotInput struct {
	DayOfWeek int    `json:"day_of_week"`
	Hour      int    `json:"hour"`
	Status    string `json:"status,omitempty"` // Defaults to available
}

// PutTemplateRequest replaces the full weekly template
type PutTemplateRequest struct {
	Slots []TemplateSlotInput `json:"slots"`
}

// OverrideCellInput is one submitted cell in an override upsert
type OverrideCellInput struct {
	Hour   int    `json:"hour"`
	Status string `json:"status"`
}

// PutOverrideRequest upserts the cell list for one date
type PutOverrideRequest struct {
	Cells []OverrideCellInput `json:"cells"`
}

// CreateAbsenceRequest represents a new absence range
type CreateAbsenceRequest struct {
	StartsOn string  `json:"starts_on"`
	EndsOn   string  `json:"ends_on"`
	Reason   *string `json:"reason,omitempty"`
}
