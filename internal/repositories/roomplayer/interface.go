package roomplayer

import (
	"context"

	"github.com/geoloc-live/georoom/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/geoloc-live/georoom/internal/repositories/roomplayer Repository

// Repository defines the interface for roster persistence. A room's entire
// roster lives under a single key; every write rewrites the whole
// collection, so callers must serialize mutations per room.
type Repository interface {
	// GetRoomPlayer retrieves one roster entry by player ID
	GetRoomPlayer(ctx context.Context, input *GetRoomPlayerInput) (*models.RoomPlayer, error)

	// GetRoomPlayers retrieves a room's full roster
	GetRoomPlayers(ctx context.Context, input *GetRoomPlayersInput) (*GetRoomPlayersOutput, error)

	// CreateRoomPlayer appends a new roster entry, connected with empty
	// rounds; fails if the player already has one
	CreateRoomPlayer(ctx context.Context, input *CreateRoomPlayerInput) (*models.RoomPlayer, error)

	// UpdateRoomPlayer merges partial fields into one roster entry and
	// rewrites the whole roster
	UpdateRoomPlayer(ctx context.Context, input *UpdateRoomPlayerInput) ([]*models.RoomPlayer, error)

	// DeleteRoomPlayer removes one roster entry
	DeleteRoomPlayer(ctx context.Context, input *DeleteRoomPlayerInput) error

	// DeleteRoster removes a room's roster record entirely
	DeleteRoster(ctx context.Context, input *DeleteRosterInput) error
}
