package room

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_sink.go github.com/geoloc-live/georoom/internal/services/room EventSink

// EventSink is the narrow fanout contract the orchestrator emits through.
// The transport layer implements it; delivery is best-effort and never
// acknowledged before the orchestrator proceeds.
type EventSink interface {
	// SendToPlayer delivers an event to a player's private channel
	SendToPlayer(ctx context.Context, playerID string, event Event, payload any)

	// BroadcastToRoom delivers an event to every member of a room's
	// broadcast group
	BroadcastToRoom(ctx context.Context, roomName string, event Event, payload any)

	// BroadcastToRoomExcept delivers to every member except one player
	BroadcastToRoomExcept(ctx context.Context, roomName, excludePlayerID string, event Event, payload any)

	// JoinRoom adds a connection to a room's broadcast group
	JoinRoom(ctx context.Context, socketID, roomName string)

	// LeaveRoom removes a connection from a room's broadcast group
	LeaveRoom(ctx context.Context, socketID, roomName string)

	// HasLiveConnection reports whether a transport session is still
	// actually held for the socket ID
	HasLiveConnection(socketID string) bool
}

// Service is the room orchestrator: the state machine coordinating joins,
// rounds, guesses, progress evaluation, reconnection and disposal
type Service interface {
	// CreateOrJoin creates the room on first use and joins or rejoins
	// the player
	CreateOrJoin(ctx context.Context, input *CreateOrJoinInput) (*CreateOrJoinOutput, error)

	// Start begins the match; owner only, unstarted rooms only
	Start(ctx context.Context, input *StartInput) error

	// UpdateConfig applies owner config changes before the match starts
	UpdateConfig(ctx context.Context, input *UpdateConfigInput) error

	// PopulateRound appends or re-rolls a round's target location
	PopulateRound(ctx context.Context, input *PopulateRoundInput) error

	// CommitGuess records a player's guess for the current round
	CommitGuess(ctx context.Context, input *CommitGuessInput) error

	// VoteReRoll records a player's vote to re-roll the current round
	VoteReRoll(ctx context.Context, input *VoteReRollInput) error

	// ReadyToContinue marks a player ready for the next round
	ReadyToContinue(ctx context.Context, input *ReadyToContinueInput) error

	// ReadyToLeave marks a player ready to end their match
	ReadyToLeave(ctx context.Context, input *ReadyToLeaveInput) error

	// Ready confirms the client is listening for round events; resends
	// the current round or asks the owner to populate the first one
	Ready(ctx context.Context, input *ReadyInput) error

	// UpdateName changes a player's display name
	UpdateName(ctx context.Context, input *UpdateNameInput) error

	// Disconnect marks a player's roster entry disconnected and arms the
	// idle-kick deadline
	Disconnect(ctx context.Context, input *DisconnectInput) error

	// Leave removes a player from a room, running ownership failover and
	// disposing the room when the roster empties
	Leave(ctx context.Context, input *LeaveInput) error

	// ResumeOnConnect inspects the player's last room on a fresh
	// connection and repairs stale connected flags
	ResumeOnConnect(ctx context.Context, input *ResumeOnConnectInput) (*ResumeOnConnectOutput, error)

	// CheckProgress re-evaluates a room's progress state; used by the
	// sentinel after idle-kicks
	CheckProgress(ctx context.Context, roomName string) error
}
