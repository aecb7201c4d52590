package model

import "time"

// User represents a player account
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Hash      *string    `json:"-"` // Never expose password hash
	Timezone  string     `json:"timezone"`
	DiscordID *string    `json:"discord_id,omitempty"` // Linked Discord account, set by owner
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
	LoginOn   *time.Time `json:"login_on,omitempty"`
}

// UserPreference is a single settings entry. At most one row exists
// per (user, key); writes replace the stored value.
type UserPreference struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// TokenClaims represents extracted JWT claims
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// User constraints
const (
	MinUsernameLength  = 2
	MaxUsernameLength  = 32
	MaxTimezoneLength  = 64
	MaxDiscordIDLength = 32

	MaxPreferenceKeyLength   = 64
	MaxPreferenceValueLength = 2000
)

// UpdateUserRequest represents a partial profile update.
// DiscordID set to an empty string clears the link.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
	DiscordID *string `json:"discord_id,omitempty"`
}

// PutPreferenceRequest represents an upsert of a preference value
type PutPreferenceRequest struct {
	Value string `json:"value"`
}
