package room

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/models"
	playerRepo "github.com/geoloc-live/georoom/internal/repositories/player"
	roomRepo "github.com/geoloc-live/georoom/internal/repositories/room"
	rosterRepo "github.com/geoloc-live/georoom/internal/repositories/roomplayer"
)

// checkProgressLocked re-derives the room's progress from full roster state.
// It is called under the room's lock after every mutation that can complete
// a condition: a unanimous re-roll vote clears the votes and asks the owner
// to re-source the round, a fully guessed round moves the room to
// round_finished, and a unanimous continue asks the owner for the next
// round. The exit condition is evaluated independently of the others.
func (s *service) checkProgressLocked(ctx context.Context, rm *models.Room) error {
	out, err := s.rosterRepo.GetRoomPlayers(ctx, &rosterRepo.GetRoomPlayersInput{RoomName: rm.Name})
	if err != nil {
		return err
	}
	players := out.Players

	if len(players) == 0 {
		return s.disposeLocked(ctx, rm)
	}

	eligible := players
	if rm.Config.OwnerGuessExempt {
		filtered := make([]*models.RoomPlayer, 0, len(players))
		for _, p := range players {
			if p.PlayerID != rm.OwnerPlayerID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			eligible = filtered
		}
	}

	allVoted, allGuessed, allContinue := true, true, true
	for _, p := range eligible {
		rec := p.GetRound(rm.CurrentRound)
		if rec == nil || !rec.VotedReRoll {
			allVoted = false
		}
		if rec == nil || !rec.Guessed {
			allGuessed = false
		}
		if rec == nil || !rec.Guessed || !rec.ReadyToContinue {
			allContinue = false
		}
	}

	switch {
	case allVoted && rm.State == models.RoomStateInGame:
		// Unanimous re-roll: reset the votes so the replacement round
		// starts clean, then ask the owner for a new target for the
		// same round index
		for _, p := range players {
			rec := p.GetRound(rm.CurrentRound)
			if rec == nil || !rec.VotedReRoll {
				continue
			}
			rec.VotedReRoll = false
			if _, err := s.rosterRepo.UpdateRoomPlayer(ctx, &rosterRepo.UpdateRoomPlayerInput{
				RoomName: rm.Name,
				PlayerID: p.PlayerID,
				Rounds:   p.Rounds,
			}); err != nil && !errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
				return err
			}
		}
		s.sink.SendToPlayer(ctx, rm.OwnerPlayerID, EventRequestStreetViewPopulate, &PopulateRequestPayload{
			RoomName: rm.Name,
			Round:    rm.CurrentRound,
		})

	case allGuessed && rm.State == models.RoomStateInGame:
		if err := s.setState(ctx, rm, models.RoomStateRoundFinished); err != nil {
			return err
		}

	case allContinue && rm.State == models.RoomStateRoundFinished:
		s.sink.SendToPlayer(ctx, rm.OwnerPlayerID, EventRequestStreetViewPopulate, &PopulateRequestPayload{
			RoomName: rm.Name,
			Round:    rm.CurrentRound + 1,
		})
	}

	allLeaving := true
	for _, p := range players {
		if !p.ReadyToLeave {
			allLeaving = false
			break
		}
	}
	if allLeaving {
		s.sink.BroadcastToRoom(ctx, rm.Name, EventGameFinished, &GameFinishedPayload{RoomName: rm.Name})
		for _, p := range players {
			// The last departure empties the roster and disposes the room
			if _, err := s.leaveLocked(ctx, rm, p.PlayerID); err != nil {
				return err
			}
		}
	}

	return nil
}

// setState persists and broadcasts a state transition. A no-op when the
// room is already in the target state, so replays never re-announce.
func (s *service) setState(ctx context.Context, rm *models.Room, state models.RoomState) error {
	if rm.State == state {
		return nil
	}

	st := state
	if _, err := s.roomRepo.UpdateRoom(ctx, &roomRepo.UpdateRoomInput{
		Name:  rm.Name,
		State: &st,
	}); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil
		}
		return err
	}
	rm.State = state

	s.sink.BroadcastToRoom(ctx, rm.Name, EventGameStateUpdated, &StateUpdatedPayload{
		RoomName: rm.Name,
		State:    state,
	})

	return nil
}

// leaveLocked removes one player from the room: drops the roster entry,
// clears their lastRoom pointer, hands off ownership when the owner left,
// and disposes the room when the roster empties. Returns the remaining
// roster. Caller holds the room's lock.
func (s *service) leaveLocked(ctx context.Context, rm *models.Room, playerID string) ([]*models.RoomPlayer, error) {
	entry, err := s.rosterRepo.GetRoomPlayer(ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: rm.Name,
		PlayerID: playerID,
	})
	if err != nil && !errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
		return nil, err
	}
	if entry == nil {
		out, err := s.rosterRepo.GetRoomPlayers(ctx, &rosterRepo.GetRoomPlayersInput{RoomName: rm.Name})
		if err != nil {
			return nil, err
		}
		return out.Players, nil
	}

	if entry.SocketID != "" {
		s.sink.LeaveRoom(ctx, entry.SocketID, rm.Name)
	}

	if err := s.rosterRepo.DeleteRoomPlayer(ctx, &rosterRepo.DeleteRoomPlayerInput{
		RoomName: rm.Name,
		PlayerID: playerID,
	}); err != nil && !errors.Is(err, rosterRepo.ErrRoomPlayerNotFound) {
		return nil, err
	}

	s.clearLastRoom(ctx, playerID)

	out, err := s.rosterRepo.GetRoomPlayers(ctx, &rosterRepo.GetRoomPlayersInput{RoomName: rm.Name})
	if err != nil {
		return nil, err
	}
	remaining := out.Players

	if len(remaining) == 0 {
		return nil, s.disposeLocked(ctx, rm)
	}

	payload := &PlayerEventPayload{
		RoomName: rm.Name,
		PlayerID: playerID,
	}

	if rm.OwnerPlayerID == playerID {
		successor := electSuccessor(remaining)
		owner := successor
		if _, err := s.roomRepo.UpdateRoom(ctx, &roomRepo.UpdateRoomInput{
			Name:          rm.Name,
			OwnerPlayerID: &owner,
		}); err != nil && !errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, err
		}
		rm.OwnerPlayerID = successor
		payload.NewOwnerPlayerID = successor
	}

	s.sink.BroadcastToRoom(ctx, rm.Name, EventRoomPlayerLeft, payload)

	return remaining, nil
}

// electSuccessor picks the new owner: any connected member first, then the
// disconnected member with the most recent kick deadline (the most recently
// seen), then the first roster entry.
func electSuccessor(players []*models.RoomPlayer) string {
	for _, p := range players {
		if p.Connected {
			return p.PlayerID
		}
	}

	best := players[0]
	for _, p := range players[1:] {
		if p.KickAt != nil && (best.KickAt == nil || p.KickAt.After(*best.KickAt)) {
			best = p
		}
	}
	return best.PlayerID
}

// disposeLocked deletes the room record and its roster
func (s *service) disposeLocked(ctx context.Context, rm *models.Room) error {
	if err := s.roomRepo.DeleteRoom(ctx, &roomRepo.DeleteRoomInput{Name: rm.Name}); err != nil &&
		!errors.Is(err, roomRepo.ErrRoomNotFound) {
		return err
	}
	if err := s.rosterRepo.DeleteRoster(ctx, &rosterRepo.DeleteRosterInput{RoomName: rm.Name}); err != nil {
		return err
	}

	log.Info().Str("room", rm.Name).Msg("room disposed")

	return nil
}

// touchLastRoom points the player record at the room they just joined,
// creating the record on first sight
func (s *service) touchLastRoom(ctx context.Context, playerID, roomName string) error {
	_, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{PlayerID: playerID})
	if err != nil {
		if !errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return err
		}
		return s.playerRepo.SavePlayer(ctx, &playerRepo.SavePlayerInput{
			Player: &models.Player{
				ID:       playerID,
				LastRoom: roomName,
			},
		})
	}

	_, err = s.playerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		PlayerID: playerID,
		LastRoom: &roomName,
	})
	return err
}

// clearLastRoom drops the player's lastRoom pointer; failures only warn
func (s *service) clearLastRoom(ctx context.Context, playerID string) {
	if _, err := s.playerRepo.UpdatePlayer(ctx, &playerRepo.UpdatePlayerInput{
		PlayerID:      playerID,
		ClearLastRoom: true,
	}); err != nil && !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		log.Warn().Err(err).Str("player", playerID).Msg("failed to clear lastRoom pointer")
	}
}
