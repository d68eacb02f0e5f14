package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/config"
	"github.com/geoloc-live/georoom/internal/handlers/socket"
	playerRepo "github.com/geoloc-live/georoom/internal/repositories/player"
	roomRepo "github.com/geoloc-live/georoom/internal/repositories/room"
	rosterRepo "github.com/geoloc-live/georoom/internal/repositories/roomplayer"
	sessionRepo "github.com/geoloc-live/georoom/internal/repositories/session"
	roomService "github.com/geoloc-live/georoom/internal/services/room"
	"github.com/geoloc-live/georoom/internal/services/sentinel"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to Redis")
	}

	rooms, err := roomRepo.NewRedis(&roomRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create room repository")
	}

	roster, err := rosterRepo.NewRedis(&rosterRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create room player repository")
	}

	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create player repository")
	}

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session repository")
	}

	hub := socket.NewHub()

	roomSvc, err := roomService.New(&roomService.Config{
		RoomRepo:       rooms,
		RoomPlayerRepo: roster,
		PlayerRepo:     players,
		Sink:           hub,
		IdleKickWindow: cfg.IdleKickWindow,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create room service")
	}

	sweeper, err := sentinel.New(&sentinel.Config{
		RoomRepo:       rooms,
		RoomPlayerRepo: roster,
		Orchestrator:   roomSvc,
		Interval:       cfg.SentinelInterval,
		MaxLife:        cfg.RoomMaxLife,
		GracePeriod:    cfg.RoomGracePeriod,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sentinel")
	}

	handler, err := socket.New(&socket.Config{
		Hub:         hub,
		RoomService: roomSvc,
		SessionRepo: sessions,
		PlayerRepo:  players,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create socket handler")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	log.Info().Msg("shutting down")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}

	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close Redis client")
	}
}
