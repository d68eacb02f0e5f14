package models

import (
	"time"
)

// Session maps an ephemeral auth token to a player
type Session struct {
	// Token is the opaque value presented by the client
	Token string `json:"token"`

	// PlayerID is the player this session resolves to
	PlayerID string `json:"playerId"`

	// CreatedAt is when the session was issued
	CreatedAt time.Time `json:"createdAt"`
}
