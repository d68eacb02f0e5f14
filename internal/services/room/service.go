package room

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/common/clock"
	"github.com/geoloc-live/georoom/internal/common/keymutex"
	"github.com/geoloc-live/georoom/internal/models"
	playerRepo "github.com/geoloc-live/georoom/internal/repositories/player"
	roomRepo "github.com/geoloc-live/georoom/internal/repositories/room"
	rosterRepo "github.com/geoloc-live/georoom/internal/repositories/roomplayer"
)

const (
	// Room name bounds enforced at the create/join boundary
	roomNameMinLen = 3
	roomNameMaxLen = 64

	defaultIdleKickWindow = 2 * time.Minute
)

// Config holds configuration for the room orchestrator
type Config struct {
	// RoomRepo persists Room records
	RoomRepo roomRepo.Repository

	// RoomPlayerRepo persists rosters
	RoomPlayerRepo rosterRepo.Repository

	// PlayerRepo persists Player records
	PlayerRepo playerRepo.Repository

	// Sink delivers events to players and room broadcast groups
	Sink EventSink

	// Clock provides the current time
	Clock clock.Clock

	// IdleKickWindow is how long a disconnected player is retained
	// before the sentinel removes them
	IdleKickWindow time.Duration
}

// service implements the Service interface
type service struct {
	roomRepo       roomRepo.Repository
	rosterRepo     rosterRepo.Repository
	playerRepo     playerRepo.Repository
	sink           EventSink
	clock          clock.Clock
	idleKickWindow time.Duration

	// locks gives every room a single-writer lane: all roster and room
	// read-modify-write cycles for one room run under its mutex, so no
	// whole-roster rewrite is silently lost
	locks *keymutex.KeyMutex
}

// New creates a new room orchestrator
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}
	if cfg.RoomPlayerRepo == nil {
		return nil, ErrNilRoomPlayerRepo
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}
	if cfg.Sink == nil {
		return nil, ErrNilEventSink
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	idleKickWindow := cfg.IdleKickWindow
	if idleKickWindow <= 0 {
		idleKickWindow = defaultIdleKickWindow
	}

	return &service{
		roomRepo:       cfg.RoomRepo,
		rosterRepo:     cfg.RoomPlayerRepo,
		playerRepo:     cfg.PlayerRepo,
		sink:           cfg.Sink,
		clock:          clk,
		idleKickWindow: idleKickWindow,
		locks:          keymutex.New(),
	}, nil
}

func validateRoomName(name string) error {
	if name == "" || strings.ContainsRune(name, ':') {
		// ':' is the key separator; a name carrying one would collide
		// with another room's roster key
		return ErrMalformedRequest
	}
	if len(name) > roomNameMaxLen {
		return ErrRoomNameTooLong
	}
	if len(name) < roomNameMinLen {
		return ErrRoomNameTooShort
	}
	return nil
}

// CreateOrJoin creates the room on first use and joins or rejoins the player
func (s *service) CreateOrJoin(ctx context.Context, input *CreateOrJoinInput) (*CreateOrJoinOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMalformedRequest
	}
	if err := validateRoomName(input.RoomName); err != nil {
		return nil, err
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if !errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, err
		}

		rm, err = s.roomRepo.CreateRoom(ctx, &roomRepo.CreateRoomInput{
			Name:          input.RoomName,
			OwnerPlayerID: input.PlayerID,
		})
		if err != nil {
			if errors.Is(err, roomRepo.ErrRoomNameTaken) {
				return nil, ErrRoomNameUnavailable
			}
			return nil, err
		}
	}

	existing, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil && !errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
		return nil, err
	}

	result := JoinResultJoined
	var entry *models.RoomPlayer

	switch {
	case existing == nil && rm.Started:
		// A started match only admits players who already hold a slot
		return nil, ErrRoomNameUnavailable

	case existing == nil:
		entry, err = s.rosterRepo.CreateRoomPlayer(ctx, &rosterRepo.CreateRoomPlayerInput{
			RoomName: input.RoomName,
			PlayerID: input.PlayerID,
			SocketID: input.SocketID,
		})
		if err != nil {
			if errors.Is(err, rosterRepo.ErrPlayerAlreadyInRoom) {
				return nil, ErrRoomNameUnavailable
			}
			return nil, err
		}

	case existing.Connected && s.sink.HasLiveConnection(existing.SocketID):
		// Already joined from another live session
		return nil, ErrRoomNameUnavailable

	default:
		// Disconnected entry, or a connected flag gone stale after a
		// server restart
		connected := true
		if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
			RoomName:    input.RoomName,
			PlayerID:    input.PlayerID,
			Connected:   &connected,
			SocketID:    &input.SocketID,
			ClearKickAt: true,
		}); err != nil {
			return nil, err
		}

		entry = existing
		entry.Connected = true
		entry.SocketID = input.SocketID
		entry.KickAt = nil
		if rm.Started {
			result = JoinResultRejoined
		}
	}

	s.sink.JoinRoom(ctx, input.SocketID, rm.Name)

	if err := s.touchLastRoom(ctx, input.PlayerID, rm.Name); err != nil {
		log.Warn().Err(err).Str("room", rm.Name).Str("player", input.PlayerID).
			Msg("failed to update lastRoom pointer")
	}

	if result == JoinResultRejoined {
		s.sink.BroadcastToRoomExcept(ctx, rm.Name, input.PlayerID, EventRoomPlayerReconnected, &PlayerEventPayload{
			RoomName: rm.Name,
			PlayerID: input.PlayerID,
		})
		s.sink.SendToPlayer(ctx, input.PlayerID, EventGameStarted, &GameStartedPayload{
			RoomName: rm.Name,
			Config:   rm.Config,
		})
	} else {
		s.sink.BroadcastToRoomExcept(ctx, rm.Name, input.PlayerID, EventRoomPlayerJoined, entry)
	}

	all, err := s.rosterRepo.GetRoomPlayers(ctx, &rosterRepo.GetRoomPlayersInput{RoomName: rm.Name})
	if err != nil {
		return nil, err
	}

	return &CreateOrJoinOutput{
		Room:       rm,
		RoomPlayer: entry,
		Players:    all.Players,
		Result:     result,
	}, nil
}

// Start begins the match. Stale or duplicate client actions (already
// started, not the owner) are silently ignored.
func (s *service) Start(ctx context.Context, input *StartInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if rm.Started || rm.OwnerPlayerID != input.PlayerID {
		return nil
	}

	cfg := rm.Config
	if len(input.ConfigOverrides) > 0 {
		// Unmarshalling onto a copy of the current config merges only
		// the fields the owner sent
		if err := json.Unmarshal(input.ConfigOverrides, &cfg); err != nil {
			log.Warn().Err(err).Str("room", rm.Name).Msg("ignoring malformed config overrides")
			cfg = rm.Config
		}
	}

	started := true
	updated, err := s.roomRepo.UpdateRoom(ctx, &roomRepo.UpdateRoomInput{
		Name:    rm.Name,
		Started: &started,
		Config:  &cfg,
	})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	s.sink.BroadcastToRoom(ctx, rm.Name, EventGameStarted, &GameStartedPayload{
		RoomName: updated.Name,
		Config:   updated.Config,
	})

	return nil
}

// UpdateConfig applies owner config changes before the match starts
func (s *service) UpdateConfig(ctx context.Context, input *UpdateConfigInput) error {
	if input == nil || input.RoomName == "" || len(input.ConfigOverrides) == 0 {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	// Config is immutable once started, except through Start's overrides
	if rm.Started || rm.OwnerPlayerID != input.PlayerID {
		return nil
	}

	cfg := rm.Config
	if err := json.Unmarshal(input.ConfigOverrides, &cfg); err != nil {
		log.Warn().Err(err).Str("room", rm.Name).Msg("ignoring malformed config overrides")
		return nil
	}

	if _, err := s.roomRepo.UpdateRoom(ctx, &roomRepo.UpdateRoomInput{
		Name:   rm.Name,
		Config: &cfg,
	}); err != nil && !errors.Is(err, roomRepo.ErrRoomNotFound) {
		return err
	}

	return nil
}

// PopulateRound appends or re-rolls a round's target location; owner only
func (s *service) PopulateRound(ctx context.Context, input *PopulateRoundInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if rm.OwnerPlayerID != input.PlayerID {
		return nil
	}

	now := s.clock.Now()
	rounds := rm.Rounds
	currentRound := rm.CurrentRound

	var rnd models.Round
	if existing := rm.GetRound(input.Round); existing != nil {
		// Re-roll: overwrite the target in place, no advance
		existing.Latitude = input.Latitude
		existing.Longitude = input.Longitude
		existing.Warning = input.Warning
		existing.TimerStart = now
		rnd = *existing
	} else {
		rnd = models.Round{
			Round:      input.Round,
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
			Warning:    input.Warning,
			TimerStart: now,
		}
		rounds = append(rounds, rnd)
		currentRound = input.Round
	}

	updated, err := s.roomRepo.UpdateRoom(ctx, &roomRepo.UpdateRoomInput{
		Name:         rm.Name,
		Rounds:       rounds,
		CurrentRound: &currentRound,
		TimerStart:   &now,
	})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	s.sink.BroadcastToRoom(ctx, rm.Name, EventGameNewRound, rnd)

	return s.setState(ctx, updated, models.RoomStateInGame)
}

// CommitGuess records a player's guess for the current round. The score
// fields are client-computed and accepted as given.
func (s *service) CommitGuess(ctx context.Context, input *CommitGuessInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if !rm.Started || !rm.RoundIsValid(input.Round) {
		return nil
	}

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	record := models.RoomPlayerRound{
		Round:      input.Round,
		Guessed:    true,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Distance:   input.Distance,
		Points:     input.Points,
		TimePassed: input.TimePassed,
	}
	// A guess overwrites in place but never resets the round's vote flags
	if existing := entry.GetRound(input.Round); existing != nil {
		record.VotedReRoll = existing.VotedReRoll
		record.ReadyToContinue = existing.ReadyToContinue
	}
	entry.InsertOrUpdateRound(record)

	if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
		Rounds:   entry.Rounds,
	}); err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	s.sink.BroadcastToRoom(ctx, rm.Name, EventScoreDetailsUpdated, entry)

	return s.checkProgressLocked(ctx, rm)
}

// VoteReRoll records a player's vote to re-roll the round. A vote never
// clobbers a finalized guess.
func (s *service) VoteReRoll(ctx context.Context, input *VoteReRollInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if !rm.Config.AllowReRoll {
		return nil
	}

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	if existing := entry.GetRound(input.Round); existing != nil {
		existing.VotedReRoll = true
	} else {
		entry.InsertOrUpdateRound(models.RoomPlayerRound{
			Round:       input.Round,
			VotedReRoll: true,
		})
	}

	if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
		Rounds:   entry.Rounds,
	}); err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	return s.checkProgressLocked(ctx, rm)
}

// ReadyToContinue marks a player ready for the next round. Rejected unless
// the requested round is the immediate successor and the player has guessed
// the current one.
func (s *service) ReadyToContinue(ctx context.Context, input *ReadyToContinueInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if !rm.Started || input.NextRound != rm.CurrentRound+1 {
		return nil
	}

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	record := entry.GetRound(rm.CurrentRound)
	if record == nil || !record.Guessed {
		return nil
	}
	record.ReadyToContinue = true

	if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
		Rounds:   entry.Rounds,
	}); err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	return s.checkProgressLocked(ctx, rm)
}

// ReadyToLeave marks a player ready to end their match, once they qualify
func (s *service) ReadyToLeave(ctx context.Context, input *ReadyToLeaveInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	if !entry.CanLeave(rm.Config.NbRoundSelected) {
		return nil
	}

	ready := true
	if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
		RoomName:     input.RoomName,
		PlayerID:     input.PlayerID,
		ReadyToLeave: &ready,
	}); err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	return s.checkProgressLocked(ctx, rm)
}

// Ready confirms the client is listening for round events. The owner is
// asked to populate when the current round has no target yet; everyone else
// gets the current round resent (the rejoin resume path).
func (s *service) Ready(ctx context.Context, input *ReadyInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if !rm.Started {
		return nil
	}

	if !rm.RoundIsValid(rm.CurrentRound) {
		if input.PlayerID == rm.OwnerPlayerID {
			s.sink.SendToPlayer(ctx, rm.OwnerPlayerID, EventRequestStreetViewPopulate, &PopulateRequestPayload{
				RoomName: rm.Name,
				Round:    rm.CurrentRound,
			})
		}
		return nil
	}

	if rnd := rm.GetRound(rm.CurrentRound); rnd != nil {
		s.sink.SendToPlayer(ctx, input.PlayerID, EventGameNewRound, *rnd)
	}

	return nil
}

// UpdateName changes a player's display name and announces it to their room
func (s *service) UpdateName(ctx context.Context, input *UpdateNameInput) error {
	if input == nil || input.PlayerID == "" || input.Name == "" {
		return ErrMalformedRequest
	}

	name := input.Name
	updated, err := s.playerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		PlayerID: input.PlayerID,
		Name:     &name,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	if input.RoomName == "" {
		return nil
	}

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	s.sink.BroadcastToRoom(ctx, input.RoomName, EventPlayerUpdated, &PlayerUpdatedPayload{
		Player:     updated,
		RoomPlayer: entry,
	})

	return nil
}

// Disconnect marks a player's roster entry disconnected and arms the
// idle-kick deadline. The player keeps their slot and their scores.
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	if !entry.Connected {
		return nil
	}

	connected := false
	kickAt := s.clock.Now().Add(s.idleKickWindow)
	if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
		RoomName:      input.RoomName,
		PlayerID:      input.PlayerID,
		Connected:     &connected,
		ClearSocketID: true,
		KickAt:        &kickAt,
	}); err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil
		}
		return err
	}

	s.sink.BroadcastToRoom(ctx, input.RoomName, EventRoomPlayerDisconnected, &PlayerEventPayload{
		RoomName: input.RoomName,
		PlayerID: input.PlayerID,
	})

	return nil
}

// Leave removes a player from a room
func (s *service) Leave(ctx context.Context, input *LeaveInput) error {
	if input == nil || input.RoomName == "" {
		return nil
	}

	s.locks.Lock(input.RoomName)
	defer s.locks.Unlock(input.RoomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: input.RoomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	remaining, err := s.leaveLocked(ctx, rm, input.PlayerID)
	if err != nil {
		return err
	}

	// The departure may have been the blocker for the remaining players
	if len(remaining) > 0 {
		return s.checkProgressLocked(ctx, rm)
	}

	return nil
}

// ResumeOnConnect inspects the player's last room when a fresh connection
// arrives. A roster entry still marked connected without a live transport
// session is a stale record (server restart, closed tab) and is flipped to
// disconnected with a fresh kick deadline instead of auto-resumed.
func (s *service) ResumeOnConnect(ctx context.Context, input *ResumeOnConnectInput) (*ResumeOnConnectOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMalformedRequest
	}

	p, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{PlayerID: input.PlayerID})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return &ResumeOnConnectOutput{}, nil
		}
		return nil, err
	}

	if p.LastRoom == "" {
		return &ResumeOnConnectOutput{}, nil
	}

	s.locks.Lock(p.LastRoom)
	defer s.locks.Unlock(p.LastRoom)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: p.LastRoom})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.clearLastRoom(ctx, input.PlayerID)
			return &ResumeOnConnectOutput{}, nil
		}
		return nil, err
	}

	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: rm.Name,
		PlayerID: input.PlayerID,
	})
	if err != nil {
		if errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			s.clearLastRoom(ctx, input.PlayerID)
			return &ResumeOnConnectOutput{}, nil
		}
		return nil, err
	}

	if entry.Connected && !s.sink.HasLiveConnection(entry.SocketID) {
		connected := false
		kickAt := s.clock.Now().Add(s.idleKickWindow)
		if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
			RoomName:      rm.Name,
			PlayerID:      input.PlayerID,
			Connected:     &connected,
			ClearSocketID: true,
			KickAt:        &kickAt,
		}); err != nil && !errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
			return nil, err
		}
	}

	return &ResumeOnConnectOutput{
		Resume: &ResumePayload{
			RoomName: rm.Name,
			Started:  rm.Started,
			Config:   rm.Config,
		},
	}, nil
}

// CheckProgress re-evaluates a room's progress state
func (s *service) CheckProgress(ctx context.Context, roomName string) error {
	if roomName == "" {
		return nil
	}

	s.locks.Lock(roomName)
	defer s.locks.Unlock(roomName)

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: roomName})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	return s.checkProgressLocked(ctx, rm)
}
