package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/models"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix = "room:"

	// rosterKeySuffix marks the roster key of a room; ListRoomNames must
	// skip these when scanning the room keyspace
	rosterKeySuffix = ":players"
)

// ErrRoomNotFound is returned when a room is not found
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomNameTaken is returned when a room already exists for the name
var ErrRoomNameTaken = errors.New("room name is unavailable")

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed room repository
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

// CreateRoom persists a new room to Redis. SetNX enforces name uniqueness
// even when two creates race.
func (r *redisRepository) CreateRoom(ctx context.Context, input *CreateRoomInput) (*models.Room, error) {
	if input == nil || input.Name == "" {
		return nil, errors.New("input and room name cannot be empty")
	}

	if input.OwnerPlayerID == "" {
		return nil, errors.New("owner player ID cannot be empty")
	}

	room := &models.Room{
		Name:          input.Name,
		OwnerPlayerID: input.OwnerPlayerID,
		Config:        models.DefaultRoomConfig(),
		Rounds:        []models.Round{},
		CreatedAt:     time.Now(),
		State:         models.RoomStateLobby,
		Version:       1,
	}

	roomJSON, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room: %w", err)
	}

	roomKey := roomKeyPrefix + input.Name
	created, err := r.client.SetNX(ctx, roomKey, roomJSON, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if !created {
		return nil, ErrRoomNameTaken
	}

	return room, nil
}

// GetRoom retrieves a room by name from Redis. A malformed stored payload is
// treated as absence, never as a fatal error.
func (r *redisRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.Name == "" {
		return nil, errors.New("input and room name cannot be empty")
	}

	roomKey := roomKeyPrefix + input.Name
	roomJSON, err := r.client.Get(ctx, roomKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(roomJSON), &room); err != nil {
		log.Warn().Err(err).Str("room", input.Name).Msg("corrupt room record, treating as not found")
		return nil, ErrRoomNotFound
	}

	return &room, nil
}

// SaveRoom persists a room to Redis
func (r *redisRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	if input.Room.Name == "" {
		return errors.New("room name cannot be empty")
	}

	roomJSON, err := json.Marshal(input.Room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	roomKey := roomKeyPrefix + input.Room.Name
	if err := r.client.Set(ctx, roomKey, roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// UpdateRoom merges the partial fields of the input into the stored room and
// rewrites it. Concurrent updates to the same room can clobber each other;
// callers serialize per room.
func (r *redisRepository) UpdateRoom(ctx context.Context, input *UpdateRoomInput) (*models.Room, error) {
	if input == nil || input.Name == "" {
		return nil, errors.New("input and room name cannot be empty")
	}

	room, err := r.GetRoom(ctx, &GetRoomInput{Name: input.Name})
	if err != nil {
		return nil, err
	}

	if input.OwnerPlayerID != nil {
		room.OwnerPlayerID = *input.OwnerPlayerID
	}
	if input.Started != nil {
		room.Started = *input.Started
	}
	if input.Config != nil {
		room.Config = *input.Config
	}
	if input.Rounds != nil {
		room.Rounds = input.Rounds
	}
	if input.CurrentRound != nil {
		room.CurrentRound = *input.CurrentRound
	}
	if input.State != nil {
		room.State = *input.State
	}
	if input.TimerStart != nil {
		room.TimerStart = *input.TimerStart
	}

	if err := r.SaveRoom(ctx, &SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	return room, nil
}

// DeleteRoom removes a room record from Redis
func (r *redisRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil || input.Name == "" {
		return errors.New("input and room name cannot be empty")
	}

	roomKey := roomKeyPrefix + input.Name
	if err := r.client.Del(ctx, roomKey).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// ListRoomNames enumerates all room names by scanning the room keyspace,
// skipping roster keys
func (r *redisRepository) ListRoomNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)

	iter := r.client.Scan(ctx, 0, roomKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		name := strings.TrimPrefix(iter.Val(), roomKeyPrefix)
		if strings.Contains(name, ":") {
			continue
		}
		names = append(names, name)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan room keys: %w", err)
	}

	return names, nil
}
