package room_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockmock "github.com/geoloc-live/georoom/internal/common/clock/mocks"
	"github.com/geoloc-live/georoom/internal/models"
	playerRepo "github.com/geoloc-live/georoom/internal/repositories/player"
	roomRepo "github.com/geoloc-live/georoom/internal/repositories/room"
	rosterRepo "github.com/geoloc-live/georoom/internal/repositories/roomplayer"
	"github.com/geoloc-live/georoom/internal/services/room"
	sinkmock "github.com/geoloc-live/georoom/internal/services/room/mocks"
)

type serviceTestSuite struct {
	suite.Suite

	ctx  context.Context
	ctrl *gomock.Controller

	mini   *miniredis.Miniredis
	client *redis.Client

	rooms   roomRepo.Repository
	roster  rosterRepo.Repository
	players playerRepo.Repository

	sink  *sinkmock.MockEventSink
	clock *clockmock.MockClock
	now   time.Time

	service room.Service
}

func (s *serviceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())

	mini, err := miniredis.Run()
	s.Require().NoError(err)
	s.mini = mini
	s.client = redis.NewClient(&redis.Options{Addr: mini.Addr()})

	s.rooms, err = roomRepo.NewRedis(&roomRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.roster, err = rosterRepo.NewRedis(&rosterRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.players, err = playerRepo.NewRedis(&playerRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.sink = sinkmock.NewMockEventSink(s.ctrl)
	s.clock = clockmock.NewMockClock(s.ctrl)
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(s.now).AnyTimes()

	svc, err := room.New(&room.Config{
		RoomRepo:       s.rooms,
		RoomPlayerRepo: s.roster,
		PlayerRepo:     s.players,
		Sink:           s.sink,
		Clock:          s.clock,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *serviceTestSuite) TearDownTest() {
	_ = s.client.Close()
	s.mini.Close()
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(serviceTestSuite))
}

// expectAnySink relaxes the fanout expectations for tests that exercise
// state transitions rather than event delivery
func (s *serviceTestSuite) expectAnySink() {
	s.sink.EXPECT().SendToPlayer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoomExcept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().JoinRoom(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().LeaveRoom(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().HasLiveConnection(gomock.Any()).Return(false).AnyTimes()
}

func (s *serviceTestSuite) join(roomName, playerID, socketID string) *room.CreateOrJoinOutput {
	out, err := s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{
		RoomName: roomName,
		PlayerID: playerID,
		SocketID: socketID,
	})
	s.Require().NoError(err)
	return out
}

func (s *serviceTestSuite) start(roomName, ownerID string) {
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName: roomName,
		PlayerID: ownerID,
	}))
}

func (s *serviceTestSuite) populate(roomName, ownerID string, round int) {
	s.Require().NoError(s.service.PopulateRound(s.ctx, &room.PopulateRoundInput{
		RoomName:  roomName,
		PlayerID:  ownerID,
		Round:     round,
		Latitude:  48.8584,
		Longitude: 2.2945,
	}))
}

func (s *serviceTestSuite) guess(roomName, playerID string, round int) {
	s.Require().NoError(s.service.CommitGuess(s.ctx, &room.CommitGuessInput{
		RoomName:  roomName,
		PlayerID:  playerID,
		Round:     round,
		Latitude:  48.0,
		Longitude: 2.0,
		Distance:  95.4,
		Points:    4200,
	}))
}

func (s *serviceTestSuite) getRoom(name string) *models.Room {
	rm, err := s.rooms.GetRoom(s.ctx, &roomRepo.GetRoomInput{Name: name})
	s.Require().NoError(err)
	return rm
}

func (s *serviceTestSuite) getEntry(roomName, playerID string) *models.RoomPlayer {
	entry, err := s.roster.GetRoomPlayer(s.ctx, &rosterRepo.GetRoomPlayerInput{
		RoomName: roomName,
		PlayerID: playerID,
	})
	s.Require().NoError(err)
	return entry
}

func (s *serviceTestSuite) TestCreateOrJoin_NameValidation() {
	_, err := s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{RoomName: "ab", PlayerID: "p1"})
	s.ErrorIs(err, room.ErrRoomNameTooShort)

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	_, err = s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{RoomName: string(long), PlayerID: "p1"})
	s.ErrorIs(err, room.ErrRoomNameTooLong)

	_, err = s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{RoomName: "", PlayerID: "p1"})
	s.ErrorIs(err, room.ErrMalformedRequest)

	// ':' is the key separator; "x:players" would collide with room "x"'s
	// roster key and be invisible to the sweep
	_, err = s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{RoomName: "x:players", PlayerID: "p1"})
	s.ErrorIs(err, room.ErrMalformedRequest)
}

func (s *serviceTestSuite) TestCreateOrJoin_CreatesRoomWithDefaults() {
	s.expectAnySink()

	out := s.join("paris", "p1", "sock1")

	s.Equal("paris", out.Room.Name)
	s.Equal("p1", out.Room.OwnerPlayerID)
	s.False(out.Room.Started)
	s.Equal(models.RoomStateLobby, out.Room.State)
	s.Equal(models.DefaultRoomConfig(), out.Room.Config)
	s.Equal(room.JoinResultJoined, out.Result)
	s.Len(out.Players, 1)
	s.True(out.RoomPlayer.Connected)
	s.Equal("sock1", out.RoomPlayer.SocketID)

	// joining records the player's lastRoom pointer
	p, err := s.players.GetPlayer(s.ctx, &playerRepo.GetPlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("paris", p.LastRoom)
}

func (s *serviceTestSuite) TestCreateOrJoin_SecondPlayerJoinsLobby() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	out := s.join("paris", "p2", "sock2")

	s.Equal("p1", out.Room.OwnerPlayerID)
	s.Equal(room.JoinResultJoined, out.Result)
	s.Len(out.Players, 2)
}

func (s *serviceTestSuite) TestCreateOrJoin_StartedRoomRejectsStrangers() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")

	_, err := s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{
		RoomName: "paris",
		PlayerID: "p2",
		SocketID: "sock2",
	})
	s.ErrorIs(err, room.ErrRoomNameUnavailable)
}

func (s *serviceTestSuite) TestCreateOrJoin_RejoinAfterDisconnect() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")

	s.Require().NoError(s.service.Disconnect(s.ctx, &room.DisconnectInput{
		RoomName: "paris",
		PlayerID: "p2",
	}))
	s.False(s.getEntry("paris", "p2").Connected)
	s.NotNil(s.getEntry("paris", "p2").KickAt)

	out := s.join("paris", "p2", "sock3")
	s.Equal(room.JoinResultRejoined, out.Result)
	s.True(out.RoomPlayer.Connected)
	s.Equal("sock3", out.RoomPlayer.SocketID)
	s.Nil(out.RoomPlayer.KickAt)
}

func (s *serviceTestSuite) TestCreateOrJoin_LiveDuplicateRejected() {
	s.sink.EXPECT().JoinRoom(gomock.Any(), "sock1", "paris")
	s.sink.EXPECT().BroadcastToRoomExcept(gomock.Any(), "paris", "p1", room.EventRoomPlayerJoined, gomock.Any())

	s.join("paris", "p1", "sock1")

	// the existing entry is still backed by a live transport session
	s.sink.EXPECT().HasLiveConnection("sock1").Return(true)

	_, err := s.service.CreateOrJoin(s.ctx, &room.CreateOrJoinInput{
		RoomName: "paris",
		PlayerID: "p1",
		SocketID: "sock2",
	})
	s.ErrorIs(err, room.ErrRoomNameUnavailable)
}

func (s *serviceTestSuite) TestCreateOrJoin_StaleConnectedFlagRepaired() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")

	// Connected in storage but no live session (server restarted):
	// expectAnySink answers HasLiveConnection with false
	out := s.join("paris", "p1", "sock9")
	s.True(out.RoomPlayer.Connected)
	s.Equal("sock9", out.RoomPlayer.SocketID)
}

func (s *serviceTestSuite) TestStart_OwnerOnlyAndOnce() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")

	// not the owner: silently ignored
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{RoomName: "paris", PlayerID: "p2"}))
	s.False(s.getRoom("paris").Started)

	s.start("paris", "p1")
	s.True(s.getRoom("paris").Started)

	// replay is a no-op
	s.start("paris", "p1")
	s.True(s.getRoom("paris").Started)
}

func (s *serviceTestSuite) TestStart_MergesConfigOverrides() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")

	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"nbRoundSelected":3,"allowReRoll":false}`),
	}))

	cfg := s.getRoom("paris").Config
	s.Equal(3, cfg.NbRoundSelected)
	s.False(cfg.AllowReRoll)
	// untouched fields keep their defaults
	s.Equal(models.DefaultRoomConfig().Difficulty, cfg.Difficulty)
}

func (s *serviceTestSuite) TestUpdateConfig_LockedOnceStarted() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")

	s.Require().NoError(s.service.UpdateConfig(s.ctx, &room.UpdateConfigInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"difficulty":500}`),
	}))
	s.Equal(500, s.getRoom("paris").Config.Difficulty)

	s.start("paris", "p1")

	s.Require().NoError(s.service.UpdateConfig(s.ctx, &room.UpdateConfigInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"difficulty":100}`),
	}))
	s.Equal(500, s.getRoom("paris").Config.Difficulty)
}

func (s *serviceTestSuite) TestPopulateRound_AppendsAndAdvances() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	rm := s.getRoom("paris")
	s.Equal(0, rm.CurrentRound)
	s.Len(rm.Rounds, 1)
	s.Equal(models.RoomStateInGame, rm.State)
	s.Equal(s.now, rm.Rounds[0].TimerStart)
}

func (s *serviceTestSuite) TestPopulateRound_ReRollOverwritesInPlace() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	s.Require().NoError(s.service.PopulateRound(s.ctx, &room.PopulateRoundInput{
		RoomName:  "paris",
		PlayerID:  "p1",
		Round:     0,
		Latitude:  51.5007,
		Longitude: -0.1246,
	}))

	rm := s.getRoom("paris")
	s.Len(rm.Rounds, 1)
	s.Equal(0, rm.CurrentRound)
	s.Equal(51.5007, rm.Rounds[0].Latitude)
}

func (s *serviceTestSuite) TestPopulateRound_NonOwnerIgnored() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")

	s.Require().NoError(s.service.PopulateRound(s.ctx, &room.PopulateRoundInput{
		RoomName: "paris",
		PlayerID: "p2",
		Round:    0,
		Latitude: 1, Longitude: 1,
	}))
	s.Empty(s.getRoom("paris").Rounds)
}

func (s *serviceTestSuite) TestCommitGuess_RecordsScoreDetails() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)

	entry := s.getEntry("paris", "p1")
	rec := entry.GetRound(0)
	s.Require().NotNil(rec)
	s.True(rec.Guessed)
	s.Equal(95.4, rec.Distance)
	s.Equal(4200, rec.Points)
}

func (s *serviceTestSuite) TestCommitGuess_UnknownRoundIgnored() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	// round 3 has no target yet
	s.Require().NoError(s.service.CommitGuess(s.ctx, &room.CommitGuessInput{
		RoomName: "paris",
		PlayerID: "p1",
		Round:    3,
	}))
	s.Nil(s.getEntry("paris", "p1").GetRound(3))
}

func (s *serviceTestSuite) TestCommitGuess_ResubmissionKeepsVoteFlags() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	s.Require().NoError(s.service.VoteReRoll(s.ctx, &room.VoteReRollInput{
		RoomName: "paris", PlayerID: "p1", Round: 0,
	}))
	s.guess("paris", "p1", 0)

	rec := s.getEntry("paris", "p1").GetRound(0)
	s.True(rec.Guessed)
	s.True(rec.VotedReRoll)

	// a corrected guess after readying up keeps the continue flag too
	s.guess("paris", "p2", 0)
	s.Require().NoError(s.service.ReadyToContinue(s.ctx, &room.ReadyToContinueInput{
		RoomName: "paris", PlayerID: "p1", NextRound: 1,
	}))
	s.guess("paris", "p1", 0)

	rec = s.getEntry("paris", "p1").GetRound(0)
	s.True(rec.ReadyToContinue)
	s.True(rec.VotedReRoll)
}

func (s *serviceTestSuite) TestProgress_AllGuessedFinishesRound() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	s.guess("paris", "p1", 0)
	s.Equal(models.RoomStateInGame, s.getRoom("paris").State)

	s.guess("paris", "p2", 0)
	s.Equal(models.RoomStateRoundFinished, s.getRoom("paris").State)
}

func (s *serviceTestSuite) TestProgress_OwnerExemptFinishesWithoutOwnerGuess() {
	s.sink.EXPECT().JoinRoom(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoomExcept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"ownerGuessExempt":true}`),
	}))
	s.populate("paris", "p1", 0)

	// the owner never guesses; the other player alone completes the round
	s.guess("paris", "p2", 0)
	s.Equal(models.RoomStateRoundFinished, s.getRoom("paris").State)

	// and alone satisfies the continue unanimity, asking the owner for
	// the next round
	s.sink.EXPECT().SendToPlayer(gomock.Any(), "p1", room.EventRequestStreetViewPopulate,
		&room.PopulateRequestPayload{RoomName: "paris", Round: 1})
	s.Require().NoError(s.service.ReadyToContinue(s.ctx, &room.ReadyToContinueInput{
		RoomName: "paris", PlayerID: "p2", NextRound: 1,
	}))
}

func (s *serviceTestSuite) TestProgress_OwnerExemptSoloRoomStillCountsOwner() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"ownerGuessExempt":true}`),
	}))
	s.populate("paris", "p1", 0)

	// with nobody else on the roster the exemption cannot leave the
	// predicates vacuously true
	s.Equal(models.RoomStateInGame, s.getRoom("paris").State)

	s.guess("paris", "p1", 0)
	s.Equal(models.RoomStateRoundFinished, s.getRoom("paris").State)
}

func (s *serviceTestSuite) TestProgress_UnanimousContinueRequestsNextRound() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)
	s.guess("paris", "p2", 0)

	// the populate request for round 1 goes to the owner once both are ready
	s.Require().NoError(s.service.ReadyToContinue(s.ctx, &room.ReadyToContinueInput{
		RoomName: "paris", PlayerID: "p1", NextRound: 1,
	}))
	s.Require().NoError(s.service.ReadyToContinue(s.ctx, &room.ReadyToContinueInput{
		RoomName: "paris", PlayerID: "p2", NextRound: 1,
	}))

	s.populate("paris", "p1", 1)
	rm := s.getRoom("paris")
	s.Equal(1, rm.CurrentRound)
	s.Equal(models.RoomStateInGame, rm.State)
}

func (s *serviceTestSuite) TestReadyToContinue_RequiresGuessAndSuccessorRound() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)

	// p2 has not guessed round 0
	s.Require().NoError(s.service.ReadyToContinue(s.ctx, &room.ReadyToContinueInput{
		RoomName: "paris", PlayerID: "p2", NextRound: 1,
	}))
	s.Nil(s.getEntry("paris", "p2").GetRound(0))

	// wrong successor index
	s.Require().NoError(s.service.ReadyToContinue(s.ctx, &room.ReadyToContinueInput{
		RoomName: "paris", PlayerID: "p1", NextRound: 2,
	}))
	s.False(s.getEntry("paris", "p1").GetRound(0).ReadyToContinue)
}

func (s *serviceTestSuite) TestVoteReRoll_NeverClobbersGuess() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)

	s.Require().NoError(s.service.VoteReRoll(s.ctx, &room.VoteReRollInput{
		RoomName: "paris", PlayerID: "p1", Round: 0,
	}))

	rec := s.getEntry("paris", "p1").GetRound(0)
	s.True(rec.Guessed)
	s.True(rec.VotedReRoll)
	s.Equal(4200, rec.Points)
}

func (s *serviceTestSuite) TestVoteReRoll_UnanimityClearsVotesAndRequestsSameRound() {
	s.sink.EXPECT().JoinRoom(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoomExcept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().HasLiveConnection(gomock.Any()).Return(false).AnyTimes()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	s.Require().NoError(s.service.VoteReRoll(s.ctx, &room.VoteReRollInput{
		RoomName: "paris", PlayerID: "p1", Round: 0,
	}))
	s.True(s.getEntry("paris", "p1").GetRound(0).VotedReRoll)

	// the last vote triggers a populate request for the SAME round index
	s.sink.EXPECT().SendToPlayer(gomock.Any(), "p1", room.EventRequestStreetViewPopulate,
		&room.PopulateRequestPayload{RoomName: "paris", Round: 0})

	s.Require().NoError(s.service.VoteReRoll(s.ctx, &room.VoteReRollInput{
		RoomName: "paris", PlayerID: "p2", Round: 0,
	}))

	// votes are reset so the replacement round starts clean
	s.False(s.getEntry("paris", "p1").GetRound(0).VotedReRoll)
	s.False(s.getEntry("paris", "p2").GetRound(0).VotedReRoll)
}

func (s *serviceTestSuite) TestVoteReRoll_DisabledByConfig() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"allowReRoll":false}`),
	}))
	s.populate("paris", "p1", 0)

	s.Require().NoError(s.service.VoteReRoll(s.ctx, &room.VoteReRollInput{
		RoomName: "paris", PlayerID: "p1", Round: 0,
	}))
	s.Nil(s.getEntry("paris", "p1").GetRound(0))
}

func (s *serviceTestSuite) TestReadyToLeave_GatedOnEnoughGuesses() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"nbRoundSelected":3}`),
	}))
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)

	// one guess of three required rounds: not yet eligible
	s.Require().NoError(s.service.ReadyToLeave(s.ctx, &room.ReadyToLeaveInput{
		RoomName: "paris", PlayerID: "p1",
	}))
	s.False(s.getEntry("paris", "p1").ReadyToLeave)

	// completing the second-to-last round qualifies
	s.populate("paris", "p1", 1)
	s.guess("paris", "p1", 1)

	s.Require().NoError(s.service.ReadyToLeave(s.ctx, &room.ReadyToLeaveInput{
		RoomName: "paris", PlayerID: "p1",
	}))
	s.True(s.getEntry("paris", "p1").ReadyToLeave)
}

func (s *serviceTestSuite) TestProgress_UnanimousLeaveFinishesAndDisposes() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.Require().NoError(s.service.Start(s.ctx, &room.StartInput{
		RoomName:        "paris",
		PlayerID:        "p1",
		ConfigOverrides: json.RawMessage(`{"nbRoundSelected":1}`),
	}))
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)
	s.guess("paris", "p2", 0)

	s.Require().NoError(s.service.ReadyToLeave(s.ctx, &room.ReadyToLeaveInput{
		RoomName: "paris", PlayerID: "p1",
	}))
	s.Require().NoError(s.service.ReadyToLeave(s.ctx, &room.ReadyToLeaveInput{
		RoomName: "paris", PlayerID: "p2",
	}))

	_, err := s.rooms.GetRoom(s.ctx, &roomRepo.GetRoomInput{Name: "paris"})
	s.ErrorIs(err, roomRepo.ErrRoomNotFound)

	// lastRoom pointers cleared on the way out
	p, err := s.players.GetPlayer(s.ctx, &playerRepo.GetPlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Empty(p.LastRoom)
}

func (s *serviceTestSuite) TestLeave_LastPlayerDisposesRoom() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.Require().NoError(s.service.Leave(s.ctx, &room.LeaveInput{
		RoomName: "paris", PlayerID: "p1",
	}))

	_, err := s.rooms.GetRoom(s.ctx, &roomRepo.GetRoomInput{Name: "paris"})
	s.ErrorIs(err, roomRepo.ErrRoomNotFound)
}

func (s *serviceTestSuite) TestLeave_OwnerFailoverPrefersConnected() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.join("paris", "p3", "sock3")

	s.Require().NoError(s.service.Disconnect(s.ctx, &room.DisconnectInput{
		RoomName: "paris", PlayerID: "p2",
	}))

	s.Require().NoError(s.service.Leave(s.ctx, &room.LeaveInput{
		RoomName: "paris", PlayerID: "p1",
	}))

	s.Equal("p3", s.getRoom("paris").OwnerPlayerID)
}

func (s *serviceTestSuite) TestLeave_OwnerFailoverMostRecentlySeen() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.join("paris", "p3", "sock3")

	s.Require().NoError(s.service.Disconnect(s.ctx, &room.DisconnectInput{
		RoomName: "paris", PlayerID: "p2",
	}))

	// p3 disconnects later, so their kick deadline is the most recent
	later := s.now.Add(45 * time.Second)
	kickAt := later.Add(2 * time.Minute)
	connected := false
	_, err := s.roster.UpdateRoomPlayer(s.ctx, &rosterRepo.UpdateRoomPlayerInput{
		RoomName:  "paris",
		PlayerID:  "p3",
		Connected: &connected,
		KickAt:    &kickAt,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.Leave(s.ctx, &room.LeaveInput{
		RoomName: "paris", PlayerID: "p1",
	}))

	s.Equal("p3", s.getRoom("paris").OwnerPlayerID)
}

func (s *serviceTestSuite) TestLeave_UnblocksRemainingPlayers() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)
	s.guess("paris", "p1", 0)

	// p2 never guesses; their departure completes the round
	s.Require().NoError(s.service.Leave(s.ctx, &room.LeaveInput{
		RoomName: "paris", PlayerID: "p2",
	}))

	s.Equal(models.RoomStateRoundFinished, s.getRoom("paris").State)
}

func (s *serviceTestSuite) TestDisconnect_ArmsKickDeadline() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.Require().NoError(s.service.Disconnect(s.ctx, &room.DisconnectInput{
		RoomName: "paris", PlayerID: "p1",
	}))

	entry := s.getEntry("paris", "p1")
	s.False(entry.Connected)
	s.Empty(entry.SocketID)
	s.Require().NotNil(entry.KickAt)
	s.Equal(s.now.Add(2*time.Minute), *entry.KickAt)

	// a second disconnect for an already disconnected entry is a no-op
	s.Require().NoError(s.service.Disconnect(s.ctx, &room.DisconnectInput{
		RoomName: "paris", PlayerID: "p1",
	}))
}

func (s *serviceTestSuite) TestUpdateName_BroadcastsToRoom() {
	s.sink.EXPECT().JoinRoom(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoomExcept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	s.join("paris", "p1", "sock1")

	s.sink.EXPECT().BroadcastToRoom(gomock.Any(), "paris", room.EventPlayerUpdated, gomock.Any())

	s.Require().NoError(s.service.UpdateName(s.ctx, &room.UpdateNameInput{
		RoomName: "paris",
		PlayerID: "p1",
		Name:     "Ada",
	}))

	p, err := s.players.GetPlayer(s.ctx, &playerRepo.GetPlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Equal("Ada", p.Name)
}

func (s *serviceTestSuite) TestUpdateName_RejectsEmptyName() {
	err := s.service.UpdateName(s.ctx, &room.UpdateNameInput{PlayerID: "p1"})
	s.ErrorIs(err, room.ErrMalformedRequest)
}

func (s *serviceTestSuite) TestResumeOnConnect_OffersLastRoom() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")

	out, err := s.service.ResumeOnConnect(s.ctx, &room.ResumeOnConnectInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Require().NotNil(out.Resume)
	s.Equal("paris", out.Resume.RoomName)
	s.True(out.Resume.Started)

	// the stale connected flag was flipped and a kick deadline armed
	entry := s.getEntry("paris", "p1")
	s.False(entry.Connected)
	s.NotNil(entry.KickAt)
}

func (s *serviceTestSuite) TestResumeOnConnect_UnknownPlayer() {
	out, err := s.service.ResumeOnConnect(s.ctx, &room.ResumeOnConnectInput{PlayerID: "ghost"})
	s.Require().NoError(err)
	s.Nil(out.Resume)
}

func (s *serviceTestSuite) TestResumeOnConnect_DanglingPointerCleared() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")

	// the room vanishes underneath the pointer
	s.Require().NoError(s.rooms.DeleteRoom(s.ctx, &roomRepo.DeleteRoomInput{Name: "paris"}))

	out, err := s.service.ResumeOnConnect(s.ctx, &room.ResumeOnConnectInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Nil(out.Resume)

	p, err := s.players.GetPlayer(s.ctx, &playerRepo.GetPlayerInput{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Empty(p.LastRoom)
}

func (s *serviceTestSuite) TestReady_OwnerAskedToPopulateMissingRound() {
	s.sink.EXPECT().JoinRoom(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.sink.EXPECT().BroadcastToRoomExcept(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	s.join("paris", "p1", "sock1")
	s.start("paris", "p1")

	s.sink.EXPECT().SendToPlayer(gomock.Any(), "p1", room.EventRequestStreetViewPopulate,
		&room.PopulateRequestPayload{RoomName: "paris", Round: 0})

	s.Require().NoError(s.service.Ready(s.ctx, &room.ReadyInput{
		RoomName: "paris", PlayerID: "p1",
	}))
}

func (s *serviceTestSuite) TestReady_ResendsCurrentRound() {
	s.expectAnySink()

	s.join("paris", "p1", "sock1")
	s.join("paris", "p2", "sock2")
	s.start("paris", "p1")
	s.populate("paris", "p1", 0)

	s.Require().NoError(s.service.Ready(s.ctx, &room.ReadyInput{
		RoomName: "paris", PlayerID: "p2",
	}))
}
