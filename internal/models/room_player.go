package models

import (
	"time"
)

// RoomPlayerRound holds one player's interaction with one round
type RoomPlayerRound struct {
	// Round matches the Room.Rounds entry with the same index
	Round int `json:"round"`

	// Guessed indicates the player has committed a guess for this round
	Guessed bool `json:"guessed"`

	// Latitude and Longitude are the guessed coordinates
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Distance and Points are client-computed and accepted as given
	Distance float64 `json:"distance"`
	Points   int     `json:"points"`

	// TimePassed is how long the player took, in seconds
	TimePassed float64 `json:"timePassed"`

	VotedReRoll     bool `json:"votedReRoll"`
	ReadyToContinue bool `json:"readyToContinue"`
}

// RoomPlayer is one player's roster entry in a room
type RoomPlayer struct {
	// PlayerID references the Player record; unique within a room's roster
	PlayerID string `json:"playerId"`

	// RoomName is the back-reference to the room
	RoomName string `json:"roomName"`

	// Connected indicates a live transport session holds this player
	Connected bool `json:"connected"`

	// SocketID is the transport handle; non-empty only while connected
	SocketID string `json:"socketId,omitempty"`

	// KickAt is the deadline after which the sentinel removes a
	// disconnected player. Set if and only if Connected is false.
	KickAt *time.Time `json:"kickAt"`

	ReadyToLeave bool `json:"readyToLeave"`

	// Rounds holds one entry per round the player has interacted with
	Rounds []RoomPlayerRound `json:"rounds"`

	// Version is a schema tag, not a concurrency token
	Version int `json:"version"`
}

// GetRound returns the player's record for the given round index, or nil
func (p *RoomPlayer) GetRound(index int) *RoomPlayerRound {
	for i := range p.Rounds {
		if p.Rounds[i].Round == index {
			return &p.Rounds[i]
		}
	}
	return nil
}

// InsertOrUpdateRound upserts a per-round record by its Round index. The
// caller is responsible for persisting the roster afterwards.
func (p *RoomPlayer) InsertOrUpdateRound(round RoomPlayerRound) {
	for i := range p.Rounds {
		if p.Rounds[i].Round == round.Round {
			p.Rounds[i] = round
			return
		}
	}
	p.Rounds = append(p.Rounds, round)
}

// GuessedCount returns how many rounds the player has guessed
func (p *RoomPlayer) GuessedCount() int {
	count := 0
	for i := range p.Rounds {
		if p.Rounds[i].Guessed {
			count++
		}
	}
	return count
}

// CanLeave reports whether the player qualifies to leave: they may leave
// once they have completed the second-to-last round or later.
func (p *RoomPlayer) CanLeave(nbRounds int) bool {
	return p.GuessedCount()+1 >= nbRounds
}
