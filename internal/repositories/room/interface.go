package room

import (
	"context"

	"github.com/geoloc-live/georoom/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/geoloc-live/georoom/internal/repositories/room Repository

// Repository defines the interface for room data persistence
type Repository interface {
	// CreateRoom persists a new room, enforcing name uniqueness
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*models.Room, error)

	// GetRoom retrieves a room by name
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// SaveRoom persists a room as-is
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// UpdateRoom merges partial fields into the stored room and persists
	// the result. This is a read-modify-write, not a transaction.
	UpdateRoom(ctx context.Context, input *UpdateRoomInput) (*models.Room, error)

	// DeleteRoom removes a room record
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error

	// ListRoomNames enumerates the names of all stored rooms
	ListRoomNames(ctx context.Context) ([]string, error)
}
