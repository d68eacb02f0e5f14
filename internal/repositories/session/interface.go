package session

import (
	"context"

	"github.com/geoloc-live/georoom/internal/models"
)

// Repository defines the interface for session token persistence. The core
// trusts this mapping and never issues or renews tokens itself; the socket
// gateway consumes it to resolve connecting players.
type Repository interface {
	// CreateSession issues a new session token for a player
	CreateSession(ctx context.Context, input *CreateSessionInput) (*models.Session, error)

	// ResolveSession maps a token back to its session
	ResolveSession(ctx context.Context, input *ResolveSessionInput) (*models.Session, error)

	// DeleteSession revokes a session token
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error
}

// CreateSessionInput contains parameters for issuing a session
type CreateSessionInput struct {
	PlayerID string
}

// ResolveSessionInput contains parameters for resolving a session token
type ResolveSessionInput struct {
	Token string
}

// DeleteSessionInput contains parameters for revoking a session token
type DeleteSessionInput struct {
	Token string
}
