package roomplayer

import (
	"time"

	"github.com/geoloc-live/georoom/internal/models"
)

// GetRoomPlayerInput contains parameters for retrieving one roster entry
type GetRoomPlayerInput struct {
	RoomName string
	PlayerID string
}

// GetRoomPlayersInput contains parameters for retrieving a room's roster
type GetRoomPlayersInput struct {
	RoomName string
}

// GetRoomPlayersOutput contains a room's full roster
type GetRoomPlayersOutput struct {
	Players []*models.RoomPlayer
}

// CreateRoomPlayerInput contains parameters for creating a roster entry
type CreateRoomPlayerInput struct {
	RoomName string
	PlayerID string
	SocketID string
}

// UpdateRoomPlayerInput contains the partial fields to merge into one roster
// entry. Nil pointer fields are left untouched; ClearKickAt and ClearSocketID
// reset their fields to the zero value.
type UpdateRoomPlayerInput struct {
	RoomName string
	PlayerID string

	Connected     *bool
	SocketID      *string
	ClearSocketID bool
	KickAt        *time.Time
	ClearKickAt   bool
	ReadyToLeave  *bool
	Rounds        []models.RoomPlayerRound
}

// DeleteRoomPlayerInput contains parameters for removing one roster entry
type DeleteRoomPlayerInput struct {
	RoomName string
	PlayerID string
}

// DeleteRosterInput contains parameters for removing a room's roster
type DeleteRosterInput struct {
	RoomName string
}
