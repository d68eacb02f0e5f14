package models

import (
	"time"
)

// RoomState represents the current phase of a room's match
type RoomState string

const (
	// RoomStateLobby indicates the room is waiting for the owner to start
	RoomStateLobby RoomState = "lobby"

	// RoomStateInGame indicates a round is in progress
	RoomStateInGame RoomState = "in_game"

	// RoomStateRoundFinished indicates every player has guessed the current round
	RoomStateRoundFinished RoomState = "round_finished"
)

// GameMode selects how target locations are sourced
type GameMode string

const (
	GameModeClassic    GameMode = "classic"
	GameModeCountry    GameMode = "country"
	GameModeCustomArea GameMode = "custom_area"
)

// ScoreMode selects how points are computed client-side
type ScoreMode string

const (
	ScoreModeNormal ScoreMode = "normal"
	ScoreModeTime   ScoreMode = "time"
)

// AreaMode selects the geographic-area source for custom areas
type AreaMode string

const (
	AreaModeNominatim AreaMode = "nominatim"
	AreaModePolygon   AreaMode = "polygon"
)

// RoomConfig holds the match settings. It is immutable once the room has
// started, except through the owner's explicit overrides passed to Start.
type RoomConfig struct {
	AllPanorama        bool      `json:"allPanorama"`
	AllowReRoll        bool      `json:"allowReRoll"`
	Countdown          int       `json:"countdown"`
	Difficulty         int       `json:"difficulty"`
	GuessedLeaderboard bool      `json:"guessedLeaderboard"`
	ModeSelected       GameMode  `json:"modeSelected"`
	AreaMode           AreaMode  `json:"areaMode,omitempty"`
	MoveControl        bool      `json:"moveControl"`
	NbRoundSelected    int       `json:"nbRoundSelected"`
	OptimiseStreetView bool      `json:"optimiseStreetView"`
	PanControl         bool      `json:"panControl"`
	ScoreLeaderboard   bool      `json:"scoreLeaderboard"`
	ScoreMode          ScoreMode `json:"scoreMode"`
	Time               int       `json:"time"`
	TimeAttackSelected bool      `json:"timeAttackSelected"`
	TimeLimitation     int       `json:"timeLimitation"`
	ZoomControl        bool      `json:"zoomControl"`
	BBoxObj            []float64 `json:"bboxObj"`

	// OwnerGuessExempt excludes the owner from the unanimity checks that
	// advance rounds. The owner still counts for ready-to-leave.
	OwnerGuessExempt bool `json:"ownerGuessExempt"`

	// Version is a schema tag, not a concurrency token
	Version int `json:"version"`
}

// DefaultRoomConfig returns the settings a freshly created room starts with
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		AllowReRoll:        true,
		Difficulty:         2000,
		GuessedLeaderboard: true,
		ModeSelected:       GameModeClassic,
		MoveControl:        true,
		NbRoundSelected:    5,
		OptimiseStreetView: true,
		PanControl:         true,
		ScoreLeaderboard:   true,
		ScoreMode:          ScoreModeNormal,
		ZoomControl:        true,
		BBoxObj:            []float64{},
		Version:            1,
	}
}

// Round is one target location within a room
type Round struct {
	// Round is the index, unique within the room
	Round int `json:"round"`

	// Latitude and Longitude are the target coordinates
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Warning flags a low-quality panorama the owner chose to keep
	Warning bool `json:"warning"`

	// TimerStart is when the round's timer began
	TimerStart time.Time `json:"timerStart"`
}

// Room represents one match instance, identified by a globally unique name
type Room struct {
	// Name is the primary key, 3-64 characters
	Name string `json:"name"`

	// OwnerPlayerID is the player with authority to start the match and
	// populate rounds
	OwnerPlayerID string `json:"ownerPlayerId"`

	// Started indicates the owner has started the match
	Started bool `json:"started"`

	// Config holds the match settings
	Config RoomConfig `json:"config"`

	// Rounds is the ordered round sequence, append-only per round index
	Rounds []Round `json:"rounds"`

	// CurrentRound is a monotonic index into Rounds
	CurrentRound int `json:"currentRound"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`

	// State is the room's phase. Mutated only through the orchestrator's
	// guarded transition; read-only everywhere else.
	State RoomState `json:"state"`

	// TimerStart is when the current round's timer began
	TimerStart time.Time `json:"timerStart"`

	// Version is a schema tag, not a concurrency token
	Version int `json:"version"`
}

// GetRound returns the round at the given index, or nil if absent
func (r *Room) GetRound(index int) *Round {
	for i := range r.Rounds {
		if r.Rounds[i].Round == index {
			return &r.Rounds[i]
		}
	}
	return nil
}

// RoundIsValid reports whether index refers to a populated round that is not
// ahead of the room's current round
func (r *Room) RoundIsValid(index int) bool {
	return index <= r.CurrentRound && r.GetRound(index) != nil
}
