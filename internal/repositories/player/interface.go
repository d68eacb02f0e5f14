package player

import (
	"context"

	"github.com/geoloc-live/georoom/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/geoloc-live/georoom/internal/repositories/player Repository

// Repository defines the interface for player data persistence
type Repository interface {
	// SavePlayer persists a player
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// UpdatePlayer merges partial fields into the stored player
	UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) (*models.Player, error)
}
