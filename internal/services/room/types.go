package room

import (
	"encoding/json"

	"github.com/geoloc-live/georoom/internal/models"
)

// JoinResult classifies the outcome of CreateOrJoin
type JoinResult string

const (
	// JoinResultJoined indicates a fresh or reactivated lobby join
	JoinResultJoined JoinResult = "joined"

	// JoinResultRejoined indicates a reconnect into a started match
	JoinResultRejoined JoinResult = "rejoined"
)

// CreateOrJoinInput contains parameters for creating or joining a room
type CreateOrJoinInput struct {
	RoomName string
	PlayerID string
	SocketID string
}

// CreateOrJoinOutput contains the result of creating or joining a room
type CreateOrJoinOutput struct {
	Room       *models.Room
	RoomPlayer *models.RoomPlayer
	Players    []*models.RoomPlayer
	Result     JoinResult
}

// StartInput contains parameters for starting a match. ConfigOverrides is
// the raw config fragment from the owner; unmarshalling it onto a copy of
// the room's current config gives partial-merge semantics.
type StartInput struct {
	RoomName        string
	PlayerID        string
	ConfigOverrides json.RawMessage
}

// UpdateConfigInput contains parameters for a pre-start config change
type UpdateConfigInput struct {
	RoomName        string
	PlayerID        string
	ConfigOverrides json.RawMessage
}

// PopulateRoundInput contains the owner-sourced target for one round
type PopulateRoundInput struct {
	RoomName  string
	PlayerID  string
	Round     int
	Latitude  float64
	Longitude float64
	Warning   bool
}

// CommitGuessInput contains a player's guess with its client-computed score
type CommitGuessInput struct {
	RoomName   string
	PlayerID   string
	Round      int
	Latitude   float64
	Longitude  float64
	Distance   float64
	Points     int
	TimePassed float64
}

// VoteReRollInput contains parameters for a re-roll vote
type VoteReRollInput struct {
	RoomName string
	PlayerID string
	Round    int
}

// ReadyToContinueInput contains parameters for the next-round gate
type ReadyToContinueInput struct {
	RoomName  string
	PlayerID  string
	NextRound int
}

// ReadyToLeaveInput contains parameters for the leave gate
type ReadyToLeaveInput struct {
	RoomName string
	PlayerID string
}

// ReadyInput contains parameters for the client-ready signal
type ReadyInput struct {
	RoomName string
	PlayerID string
}

// UpdateNameInput contains parameters for a display-name change
type UpdateNameInput struct {
	RoomName string
	PlayerID string
	Name     string
}

// DisconnectInput contains parameters for a lost connection
type DisconnectInput struct {
	RoomName string
	PlayerID string
}

// LeaveInput contains parameters for a voluntary or forced departure
type LeaveInput struct {
	RoomName string
	PlayerID string
}

// ResumeOnConnectInput contains parameters for connection-time resume
type ResumeOnConnectInput struct {
	PlayerID string
}

// ResumeOnConnectOutput carries the HELLO resume info. Resume is nil when
// the player has no unfinished room.
type ResumeOnConnectOutput struct {
	Resume *ResumePayload
}
