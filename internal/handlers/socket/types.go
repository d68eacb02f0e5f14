package socket

import (
	"encoding/json"

	"github.com/geoloc-live/georoom/internal/models"
	roomsvc "github.com/geoloc-live/georoom/internal/services/room"
)

// Client -> server event names
const (
	eventCreateRoom      = "CREATE_ROOM"
	eventUpdateName      = "USER_UPDATE_NAME"
	eventGameStart       = "GAME_START"
	eventPopulateRound   = "GAME_POPULATE_ROUND_INFO"
	eventCommitGuess     = "GAME_COMMIT_GUESS"
	eventReadyToLeave    = "GAME_READY_TO_LEAVE"
	eventGameReady       = "GAME_READY"
	eventReadyToContinue = "GAME_READY_TO_CONTINUE"
	eventUpdateConfig    = "ROOM_UPDATE_CONFIG"
	eventVoteReRoll      = "GAME_VOTE_TO_REROLL"
	eventRoomLeave       = "ROOM_LEAVE"
)

// Error codes surfaced through the ERROR event
const (
	codeMalformedRequest    = "MALFORMED_REQUEST"
	codeRoomNameMinChar     = "ROOM_NAME_MIN_CHAR"
	codeRoomNameMaxChar     = "ROOM_NAME_MAX_CHAR"
	codeRoomNameUnavailable = "ROOM_NAME_UNAVAILABLE"
	codeInternal            = "INTERNAL"
)

// envelope is the wire frame in both directions. The optional id lets the
// client correlate an ERROR with the request that caused it.
type envelope struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outEnvelope carries server events; Data is marshalled in place
type outEnvelope struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// helloPayload greets every fresh connection with its identity and, when the
// player has an unfinished room, the resume offer
type helloPayload struct {
	PlayerID string                 `json:"playerId"`
	Token    string                 `json:"token"`
	Resume   *roomsvc.ResumePayload `json:"resume,omitempty"`
}

type errorPayload struct {
	Code string `json:"code"`
}

type createRoomRequest struct {
	RoomName string `json:"roomName"`
}

// createRoomResponse echoes the authoritative room snapshot back to the
// requesting client
type createRoomResponse struct {
	RoomName string               `json:"roomName"`
	OwnerID  string               `json:"ownerPlayerId"`
	Started  bool                 `json:"started"`
	Config   models.RoomConfig    `json:"config"`
	Players  []*models.RoomPlayer `json:"players"`
	Rejoined bool                 `json:"rejoined"`
}

type configRequest struct {
	RoomName string          `json:"roomName"`
	Config   json.RawMessage `json:"config,omitempty"`
}

type populateRoundRequest struct {
	RoomName  string  `json:"roomName"`
	Round     int     `json:"round"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Warning   bool    `json:"warning"`
}

type commitGuessRequest struct {
	RoomName   string  `json:"roomName"`
	Round      int     `json:"round"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Distance   float64 `json:"distance"`
	Points     int     `json:"points"`
	TimePassed float64 `json:"timePassed"`
}

type roundRequest struct {
	RoomName string `json:"roomName"`
	Round    int    `json:"round"`
}

type roomRequest struct {
	RoomName string `json:"roomName"`
}

type updateNameRequest struct {
	RoomName string `json:"roomName,omitempty"`
	Name     string `json:"name"`
}

// errorCode maps orchestrator errors onto wire codes
func errorCode(err error) string {
	switch err {
	case roomsvc.ErrMalformedRequest:
		return codeMalformedRequest
	case roomsvc.ErrRoomNameTooShort:
		return codeRoomNameMinChar
	case roomsvc.ErrRoomNameTooLong:
		return codeRoomNameMaxChar
	case roomsvc.ErrRoomNameUnavailable:
		return codeRoomNameUnavailable
	default:
		return codeInternal
	}
}
