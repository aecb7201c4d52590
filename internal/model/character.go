package model

import "time"

// CharacterRole represents the combat role a character fills
type CharacterRole string

const (
	RoleTank   CharacterRole = "tank"
	RoleHealer CharacterRole = "healer"
	RoleDPS    CharacterRole = "dps"
	RoleFlex   CharacterRole = "flex" // Can fill whatever the roster needs
)

// ValidRole reports whether the role is one of the known constants
func ValidRole(role string) bool {
	switch CharacterRole(role) {
	case RoleTank, RoleHealer, RoleDPS, RoleFlex:
		return true
	}
	return false
}

// RoleRank orders roles for roster display: tanks first, healers next.
// Unknown roles sort last.
func RoleRank(role CharacterRole) int {
	switch role {
	case RoleTank:
		return 0
	case RoleHealer:
		return 1
	case RoleDPS:
		return 2
	case RoleFlex:
		return 3
	}
	return 4
}

// Character represents a playable character owned by a user.
// At most one character per (user, game) has is_main set.
type Character struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Game      string        `json:"game"` // Game slug, e.g. "wow-classic"
	Name      string        `json:"name"`
	Class     string        `json:"class"`
	Role      CharacterRole `json:"role"`
	Level     *int          `json:"level,omitempty"`
	ItemLevel *int          `json:"item_level,omitempty"`
	IsMain    bool          `json:"is_main"`
	CreatedOn time.Time     `json:"created_on"`
	UpdatedOn time.Time     `json:"updated_on"`
}

// Character constraints
const (
	MaxCharacterNameLength = 48
	MaxClassLength         = 32
	MaxGameSlugLength      = 64
	MinCharacterLevel      = 1
	MaxCharacterLevel      = 1000
	MaxCharactersPerGame   = 24
)

// CreateCharacterRequest represents a request to create a character
type CreateCharacterRequest struct {
	Game      string `json:"game"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Role      string `json:"role"`
	Level     *int   `json:"level,omitempty"`
	ItemLevel *int   `json:"item_level,omitempty"`
}

// UpdateCharacterRequest represents a partial character update
type UpdateCharacterRequest struct {
	Name      *string `json:"name,omitempty"`
	Class     *string `json:"class,omitempty"`
	Role      *string `json:"role,omitempty"`
	Level     *int    `json:"level,omitempty"`
	ItemLevel *int    `json:"item_level,omitempty"`
}
