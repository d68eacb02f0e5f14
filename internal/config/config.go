package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the process-level settings read from the environment
type Config struct {
	// RedisAddr is the address of the shared Redis store
	RedisAddr string

	// RedisPassword is the Redis auth password, empty for none
	RedisPassword string

	// ListenAddr is the HTTP listen address for the socket endpoint
	ListenAddr string

	// IdleKickWindow is how long a disconnected player keeps their slot
	IdleKickWindow time.Duration

	// RoomMaxLife caps a room's total lifetime
	RoomMaxLife time.Duration

	// SentinelInterval is the sweep period
	SentinelInterval time.Duration

	// RoomGracePeriod shields freshly created rooms from the orphan purge
	RoomGracePeriod time.Duration
}

// Load reads the environment, after merging in a .env file when one exists.
// Unset variables fall back to defaults; malformed durations are an error.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be complete already
	_ = godotenv.Load()

	cfg := &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
	}

	var err error
	if cfg.IdleKickWindow, err = getDuration("IDLE_KICK_WINDOW", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RoomMaxLife, err = getDuration("ROOM_MAX_LIFE", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SentinelInterval, err = getDuration("SENTINEL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RoomGracePeriod, err = getDuration("ROOM_GRACE_PERIOD", 5*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}
