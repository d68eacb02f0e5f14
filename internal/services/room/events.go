package room

import "github.com/geoloc-live/georoom/internal/models"

// Event names the server-initiated messages delivered through the EventSink
type Event string

const (
	// EventHello is sent on connect and carries resume info if the player
	// has an unfinished room
	EventHello Event = "HELLO"

	// EventCreateRoomResponse answers a CREATE_ROOM request
	EventCreateRoomResponse Event = "CREATE_ROOM_RESPONSE"

	// EventPlayerUpdated announces a player profile change to the room
	EventPlayerUpdated Event = "PLAYER_UPDATED"

	// EventGameStarted announces the match start with the effective config
	EventGameStarted Event = "GAME_STARTED"

	// EventGameNewRound carries a newly populated or re-rolled round
	EventGameNewRound Event = "GAME_NEW_ROUND"

	// EventScoreDetailsUpdated announces a committed guess
	EventScoreDetailsUpdated Event = "ROOM_PLAYER_SCORE_DETAILS_UPDATED"

	// EventRoomPlayerJoined announces a new roster entry
	EventRoomPlayerJoined Event = "ROOM_PLAYER_JOINED"

	// EventRoomPlayerLeft announces a roster entry removal
	EventRoomPlayerLeft Event = "ROOM_PLAYER_LEFT"

	// EventRoomPlayerDisconnected announces a lost connection
	EventRoomPlayerDisconnected Event = "ROOM_PLAYER_DISCONNECTED"

	// EventRoomPlayerReconnected announces a successful rejoin
	EventRoomPlayerReconnected Event = "ROOM_PLAYER_RECONNECTED"

	// EventGameStateUpdated announces a room state transition
	EventGameStateUpdated Event = "GAME_STATE_UPDATED"

	// EventGameFinished announces that every player is ready to leave
	EventGameFinished Event = "GAME_FINISHED"

	// EventRequestStreetViewPopulate asks the owner client to source the
	// next round's target location
	EventRequestStreetViewPopulate Event = "GAME_REQUEST_STREET_VIEW_POPULATE"

	// EventError carries a request-scoped error back to the caller
	EventError Event = "ERROR"
)

// GameStartedPayload is the payload of EventGameStarted
type GameStartedPayload struct {
	RoomName string            `json:"roomName"`
	Config   models.RoomConfig `json:"config"`
}

// StateUpdatedPayload is the payload of EventGameStateUpdated
type StateUpdatedPayload struct {
	RoomName string           `json:"roomName"`
	State    models.RoomState `json:"state"`
}

// PopulateRequestPayload is the payload of EventRequestStreetViewPopulate
type PopulateRequestPayload struct {
	RoomName string `json:"roomName"`
	Round    int    `json:"round"`
}

// PlayerEventPayload is the payload of the joined/left/disconnected/
// reconnected announcements
type PlayerEventPayload struct {
	RoomName string `json:"roomName"`
	PlayerID string `json:"playerId"`

	// NewOwnerPlayerID is set on EventRoomPlayerLeft when the departure
	// triggered an ownership failover
	NewOwnerPlayerID string `json:"newOwnerPlayerId,omitempty"`
}

// ResumePayload is the room portion of the HELLO payload
type ResumePayload struct {
	RoomName string            `json:"roomName"`
	Started  bool              `json:"started"`
	Config   models.RoomConfig `json:"config"`
}

// PlayerUpdatedPayload is the payload of EventPlayerUpdated
type PlayerUpdatedPayload struct {
	Player     *models.Player     `json:"player"`
	RoomPlayer *models.RoomPlayer `json:"roomPlayer"`
}

// GameFinishedPayload is the payload of EventGameFinished
type GameFinishedPayload struct {
	RoomName string `json:"roomName"`
}
