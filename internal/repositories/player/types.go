package player

import "github.com/geoloc-live/georoom/internal/models"

// SavePlayerInput contains parameters for saving a player
type SavePlayerInput struct {
	Player *models.Player
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	PlayerID string
}

// UpdatePlayerInput contains the partial fields to merge into a stored
// player. Nil pointer fields are left untouched; ClearLastRoom resets the
// weak room back-reference.
type UpdatePlayerInput struct {
	PlayerID string

	Name          *string
	LastRoom      *string
	ClearLastRoom bool
}
