package model

// Game is a catalog entry from the third-party game-data API.
// Rows are read-through cached, never stored.
type Game struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	ReleasedOn *string  `json:"released_on,omitempty"` // YYYY-MM-DD when known
	CoverURL   *string  `json:"cover_url,omitempty"`
}

// Game lookup constraints
const (
	MaxGameSearchLength = 80
	MaxGameResults      = 25
)
