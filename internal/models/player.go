package models

// Player represents a stable player identity, never reused
type Player struct {
	// ID is the player's stable identifier
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// LastRoom is a weak back-reference to the room the player last joined.
	// It does not keep the room alive.
	LastRoom string `json:"lastRoom,omitempty"`

	// Version is a schema tag, not a concurrency token
	Version int `json:"version"`
}
