package sentinel

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/common/clock"
	"github.com/geoloc-live/georoom/internal/models"
	roomRepo "github.com/geoloc-live/georoom/internal/repositories/room"
	rosterRepo "github.com/geoloc-live/georoom/internal/repositories/roomplayer"
	roomsvc "github.com/geoloc-live/georoom/internal/services/room"
)

const (
	defaultInterval    = 30 * time.Second
	defaultMaxLife     = 12 * time.Hour
	defaultGracePeriod = 5 * time.Minute
)

// Orchestrator is the slice of the room service the sweeper drives
type Orchestrator interface {
	// Leave removes a player from a room
	Leave(ctx context.Context, input *roomsvc.LeaveInput) error

	// CheckProgress re-evaluates a room's progress state
	CheckProgress(ctx context.Context, roomName string) error
}

// Config holds configuration for the sentinel sweeper
type Config struct {
	RoomRepo       roomRepo.Repository
	RoomPlayerRepo rosterRepo.Repository
	Orchestrator   Orchestrator
	Clock          clock.Clock

	// Interval is the sweep period
	Interval time.Duration

	// MaxLife caps a room's total lifetime regardless of activity
	MaxLife time.Duration

	// GracePeriod shields freshly created rooms from the orphan purge
	GracePeriod time.Duration
}

// service walks every room on a timer, evicting expired players and purging
// abandoned, exhausted and corrupt rooms. Everything it hits is logged, never
// raised: a bad room must not stop the sweep.
type service struct {
	roomRepo     roomRepo.Repository
	rosterRepo   rosterRepo.Repository
	orchestrator Orchestrator
	clock        clock.Clock

	interval    time.Duration
	maxLife     time.Duration
	gracePeriod time.Duration

	// busy makes overlapping sweeps impossible: a tick that fires while
	// the previous sweep is still walking rooms is skipped
	busy atomic.Bool
}

// New creates a new sentinel sweeper
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RoomRepo == nil {
		return nil, errors.New("room repository cannot be nil")
	}
	if cfg.RoomPlayerRepo == nil {
		return nil, errors.New("room player repository cannot be nil")
	}
	if cfg.Orchestrator == nil {
		return nil, errors.New("orchestrator cannot be nil")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	maxLife := cfg.MaxLife
	if maxLife <= 0 {
		maxLife = defaultMaxLife
	}
	gracePeriod := cfg.GracePeriod
	if gracePeriod <= 0 {
		gracePeriod = defaultGracePeriod
	}

	return &service{
		roomRepo:     cfg.RoomRepo,
		rosterRepo:   cfg.RoomPlayerRepo,
		orchestrator: cfg.Orchestrator,
		clock:        clk,
		interval:     interval,
		maxLife:      maxLife,
		gracePeriod:  gracePeriod,
	}, nil
}

// Run sweeps on a ticker until the context is cancelled
func (s *service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep walks every room once. A sweep that fires while the previous one is
// still running is skipped.
func (s *service) Sweep(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		log.Debug().Msg("previous sweep still running, skipping")
		return
	}
	defer s.busy.Store(false)

	names, err := s.roomRepo.ListRoomNames(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep failed to list rooms")
		return
	}

	for _, name := range names {
		if err := s.sweepRoom(ctx, name); err != nil {
			log.Error().Err(err).Str("room", name).Msg("sweep failed for room")
		}
	}
}

func (s *service) sweepRoom(ctx context.Context, name string) error {
	now := s.clock.Now()

	rm, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{Name: name})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			// Listed but unreadable (or concurrently deleted). Skipped,
			// not purged: without createdAt none of the purge rules can
			// be evaluated; max-lifetime will never fire for it, so the
			// record stays until it becomes readable or is deleted.
			log.Warn().Str("room", name).Msg("skipping unreadable room record")
			return nil
		}
		return err
	}

	if now.Sub(rm.CreatedAt) > s.maxLife {
		return s.purge(ctx, name, "expired")
	}

	out, err := s.rosterRepo.GetRoomPlayers(ctx, &rosterRepo.GetRoomPlayersInput{RoomName: name})
	if err != nil {
		return err
	}

	// Rooms that never got off the ground are purged while still young;
	// an unreadable roster reads back as empty and falls under the same
	// rule. Older rooms are left to the idle-kick and max-lifetime rules.
	if now.Sub(rm.CreatedAt) <= s.gracePeriod {
		if len(out.Players) == 0 {
			return s.purge(ctx, name, "never populated")
		}
		if abandoned(out.Players, now) {
			return s.purge(ctx, name, "abandoned young")
		}
	}

	kicked := false
	for _, p := range out.Players {
		if p.Connected || p.KickAt == nil || now.Before(*p.KickAt) {
			continue
		}
		log.Info().Str("room", name).Str("player", p.PlayerID).Msg("evicting expired player")
		if err := s.orchestrator.Leave(ctx, &roomsvc.LeaveInput{
			RoomName: name,
			PlayerID: p.PlayerID,
		}); err != nil {
			log.Error().Err(err).Str("room", name).Str("player", p.PlayerID).
				Msg("failed to evict expired player")
			continue
		}
		kicked = true
	}

	if kicked {
		return s.orchestrator.CheckProgress(ctx, name)
	}

	return nil
}

// abandoned reports a roster with zero connected players and zero pending
// kick deadlines: nobody is coming back and nobody is scheduled for an
// individual eviction
func abandoned(players []*models.RoomPlayer, now time.Time) bool {
	for _, p := range players {
		if p.Connected {
			return false
		}
		if p.KickAt != nil && now.Before(*p.KickAt) {
			return false
		}
	}
	return true
}

// purge evicts every remaining roster member through the regular leave path
// (so lastRoom pointers and transport groups are cleaned up), then deletes
// whatever is left of the room record and roster
func (s *service) purge(ctx context.Context, name, reason string) error {
	log.Info().Str("room", name).Str("reason", reason).Msg("purging room")

	out, err := s.rosterRepo.GetRoomPlayers(ctx, &rosterRepo.GetRoomPlayersInput{RoomName: name})
	if err == nil {
		for _, p := range out.Players {
			if err := s.orchestrator.Leave(ctx, &roomsvc.LeaveInput{
				RoomName: name,
				PlayerID: p.PlayerID,
			}); err != nil {
				log.Error().Err(err).Str("room", name).Str("player", p.PlayerID).
					Msg("failed to evict player during purge")
			}
		}
	}

	if err := s.roomRepo.DeleteRoom(ctx, &roomRepo.DeleteRoomInput{Name: name}); err != nil &&
		!errors.Is(err, roomRepo.ErrRoomNotFound) {
		return err
	}
	return s.rosterRepo.DeleteRoster(ctx, &rosterRepo.DeleteRosterInput{RoomName: name})
}
