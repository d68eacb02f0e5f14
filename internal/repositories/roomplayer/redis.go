package roomplayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/models"
)

// ErrRoomPlayerNotFound is returned when a roster entry is not found
var ErrRoomPlayerNotFound = errors.New("room player not found")

// ErrPlayerAlreadyInRoom is returned when the player already has a roster entry
var ErrPlayerAlreadyInRoom = errors.New("player already in room")

// Config holds configuration for the Redis roster repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed roster repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func rosterKey(roomName string) string {
	return fmt.Sprintf("room:%s:players", roomName)
}

// loadRoster reads and parses a room's roster. A malformed payload is
// treated as an empty roster and logged, never as a fatal error.
func (r *redisRepository) loadRoster(ctx context.Context, roomName string) ([]*models.RoomPlayer, error) {
	rosterJSON, err := r.client.Get(ctx, rosterKey(roomName)).Result()
	if err != nil {
		if err == redis.Nil {
			return []*models.RoomPlayer{}, nil
		}
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	var players []*models.RoomPlayer
	if err := json.Unmarshal([]byte(rosterJSON), &players); err != nil {
		log.Warn().Err(err).Str("room", roomName).Msg("corrupt roster record, treating as empty")
		return []*models.RoomPlayer{}, nil
	}

	return players, nil
}

func (r *redisRepository) saveRoster(ctx context.Context, roomName string, players []*models.RoomPlayer) error {
	rosterJSON, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	if err := r.client.Set(ctx, rosterKey(roomName), rosterJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}

	return nil
}

// GetRoomPlayer retrieves one roster entry by player ID
func (r *redisRepository) GetRoomPlayer(ctx context.Context, input *GetRoomPlayerInput) (*models.RoomPlayer, error) {
	if input == nil || input.RoomName == "" || input.PlayerID == "" {
		return nil, errors.New("input, room name and player ID cannot be empty")
	}

	players, err := r.loadRoster(ctx, input.RoomName)
	if err != nil {
		return nil, err
	}

	for _, player := range players {
		if player.PlayerID == input.PlayerID {
			return player, nil
		}
	}

	return nil, ErrRoomPlayerNotFound
}

// GetRoomPlayers retrieves a room's full roster
func (r *redisRepository) GetRoomPlayers(ctx context.Context, input *GetRoomPlayersInput) (*GetRoomPlayersOutput, error) {
	if input == nil || input.RoomName == "" {
		return nil, errors.New("input and room name cannot be empty")
	}

	players, err := r.loadRoster(ctx, input.RoomName)
	if err != nil {
		return nil, err
	}

	return &GetRoomPlayersOutput{Players: players}, nil
}

// CreateRoomPlayer appends a new roster entry for the player
func (r *redisRepository) CreateRoomPlayer(ctx context.Context, input *CreateRoomPlayerInput) (*models.RoomPlayer, error) {
	if input == nil || input.RoomName == "" || input.PlayerID == "" {
		return nil, errors.New("input, room name and player ID cannot be empty")
	}

	players, err := r.loadRoster(ctx, input.RoomName)
	if err != nil {
		return nil, err
	}

	for _, player := range players {
		if player.PlayerID == input.PlayerID {
			return nil, ErrPlayerAlreadyInRoom
		}
	}

	newPlayer := &models.RoomPlayer{
		PlayerID:  input.PlayerID,
		RoomName:  input.RoomName,
		Connected: true,
		SocketID:  input.SocketID,
		Rounds:    []models.RoomPlayerRound{},
		Version:   1,
	}

	players = append(players, newPlayer)
	if err := r.saveRoster(ctx, input.RoomName, players); err != nil {
		return nil, err
	}

	return newPlayer, nil
}

// UpdateRoomPlayer merges the partial fields of the input into the target
// roster entry and rewrites the whole roster. Last writer wins on the
// collection; the orchestrator serializes calls per room.
func (r *redisRepository) UpdateRoomPlayer(ctx context.Context, input *UpdateRoomPlayerInput) ([]*models.RoomPlayer, error) {
	if input == nil || input.RoomName == "" || input.PlayerID == "" {
		return nil, errors.New("input, room name and player ID cannot be empty")
	}

	players, err := r.loadRoster(ctx, input.RoomName)
	if err != nil {
		return nil, err
	}

	var target *models.RoomPlayer
	for _, player := range players {
		if player.PlayerID == input.PlayerID {
			target = player
			break
		}
	}

	if target == nil {
		return nil, ErrRoomPlayerNotFound
	}

	if input.Connected != nil {
		target.Connected = *input.Connected
	}
	if input.SocketID != nil {
		target.SocketID = *input.SocketID
	}
	if input.ClearSocketID {
		target.SocketID = ""
	}
	if input.KickAt != nil {
		target.KickAt = input.KickAt
	}
	if input.ClearKickAt {
		target.KickAt = nil
	}
	if input.ReadyToLeave != nil {
		target.ReadyToLeave = *input.ReadyToLeave
	}
	if input.Rounds != nil {
		target.Rounds = input.Rounds
	}

	if err := r.saveRoster(ctx, input.RoomName, players); err != nil {
		return nil, err
	}

	return players, nil
}

// DeleteRoomPlayer removes one roster entry
func (r *redisRepository) DeleteRoomPlayer(ctx context.Context, input *DeleteRoomPlayerInput) error {
	if input == nil || input.RoomName == "" || input.PlayerID == "" {
		return errors.New("input, room name and player ID cannot be empty")
	}

	players, err := r.loadRoster(ctx, input.RoomName)
	if err != nil {
		return err
	}

	remaining := make([]*models.RoomPlayer, 0, len(players))
	found := false
	for _, player := range players {
		if player.PlayerID == input.PlayerID {
			found = true
			continue
		}
		remaining = append(remaining, player)
	}

	if !found {
		return ErrRoomPlayerNotFound
	}

	return r.saveRoster(ctx, input.RoomName, remaining)
}

// DeleteRoster removes a room's roster record from Redis
func (r *redisRepository) DeleteRoster(ctx context.Context, input *DeleteRosterInput) error {
	if input == nil || input.RoomName == "" {
		return errors.New("input and room name cannot be empty")
	}

	if err := r.client.Del(ctx, rosterKey(input.RoomName)).Err(); err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}

	return nil
}
