package room

import (
	"time"

	"github.com/geoloc-live/georoom/internal/models"
)

// CreateRoomInput contains parameters for creating a room
type CreateRoomInput struct {
	Name          string
	OwnerPlayerID string
}

// GetRoomInput contains parameters for retrieving a room
type GetRoomInput struct {
	Name string
}

// SaveRoomInput contains parameters for saving a room
type SaveRoomInput struct {
	Room *models.Room
}

// UpdateRoomInput contains the partial fields to merge into a stored room.
// Nil pointer fields are left untouched.
type UpdateRoomInput struct {
	Name string

	OwnerPlayerID *string
	Started       *bool
	Config        *models.RoomConfig
	Rounds        []models.Round
	CurrentRound  *int
	State         *models.RoomState
	TimerStart    *time.Time
}

// DeleteRoomInput contains parameters for deleting a room
type DeleteRoomInput struct {
	Name string
}
