package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/common/clock"
	"github.com/geoloc-live/georoom/internal/common/uuid"
	"github.com/geoloc-live/georoom/internal/models"
)

const (
	// Key prefix for Redis
	sessionKeyPrefix = "session:"

	// sessionTTL bounds how long an unused token stays resolvable
	sessionTTL = 24 * time.Hour
)

// ErrSessionNotFound is returned when a token does not resolve
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// UUID generates session tokens
	UUID uuid.UUID

	// Clock provides issuance timestamps
	Clock clock.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client  *redis.Client
	uuidGen uuid.UUID
	clock   clock.Clock
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	uuidGen := cfg.UUID
	if uuidGen == nil {
		uuidGen = uuid.New()
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	return &redisRepository{
		client:  cfg.RedisClient,
		uuidGen: uuidGen,
		clock:   clk,
	}, nil
}

// CreateSession issues a new session token for a player
func (r *redisRepository) CreateSession(ctx context.Context, input *CreateSessionInput) (*models.Session, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	session := &models.Session{
		Token:     r.uuidGen.NewUUID(),
		PlayerID:  input.PlayerID,
		CreatedAt: r.clock.Now(),
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := sessionKeyPrefix + session.Token
	if err := r.client.Set(ctx, sessionKey, sessionJSON, sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// ResolveSession maps a token back to its session. A malformed stored
// payload is treated as absence.
func (r *redisRepository) ResolveSession(ctx context.Context, input *ResolveSessionInput) (*models.Session, error) {
	if input == nil || input.Token == "" {
		return nil, errors.New("input and token cannot be empty")
	}

	sessionKey := sessionKeyPrefix + input.Token
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		log.Warn().Err(err).Msg("corrupt session record, treating as not found")
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

// DeleteSession revokes a session token
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.Token == "" {
		return errors.New("input and token cannot be empty")
	}

	if err := r.client.Del(ctx, sessionKeyPrefix+input.Token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
