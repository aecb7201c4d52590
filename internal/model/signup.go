package model

import "time"

// SignupStatus constants
type SignupStatus string

const (
	SignupStatusConfirmed  SignupStatus = "confirmed"
	SignupStatusWaitlisted SignupStatus = "waitlisted"
	SignupStatusWithdrawn  SignupStatus = "withdrawn"
)

// Signup represents a user's commitment to attend an event with a
// specific character. At most one non-withdrawn signup exists per
// (event, user).
type Signup struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	UserID      string        `json:"user_id"`
	CharacterID string        `json:"character_id"`
	Role        CharacterRole `json:"role"`
	Note        *string       `json:"note,omitempty"`
	Status      SignupStatus  `json:"status"`
	CreatedOn   time.Time     `json:"created_on"`
	UpdatedOn   time.Time     `json:"updated_on"`
}

// RosterEntry is a signup joined with display fields for roster views
type RosterEntry struct {
	Signup         *Signup `json:"signup"`
	Username       string  `json:"username"`
	CharacterName  string  `json:"character_name"`
	CharacterClass string  `json:"character_class"`
}

// Signup constraints
const (
	// SignupPreviewSize caps the roster preview embedded in event detail
	// responses. The full roster lives behind its own endpoint.
	SignupPreviewSize = 6

	MaxSignupNoteLength = 500
)

// CreateSignupRequest represents a request to join an event
type CreateSignupRequest struct {
	CharacterID string  `json:"character_id"`
	Role        string  `json:"role,omitempty"` // Defaults to the character's role
	Note        *string `json:"note,omitempty"`
}

// UpdateSignupRequest represents changes to an existing signup
type UpdateSignupRequest struct {
	CharacterID *string `json:"character_id,omitempty"`
	Role        *string `json:"role,omitempty"`
	Note        *string `json:"note,omitempty"`
}
