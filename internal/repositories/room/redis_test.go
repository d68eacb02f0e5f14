package room

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/geoloc-live/georoom/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	// Set up test time
	s.testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestCreateRoom() {
	room, err := s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "alps",
		OwnerPlayerID: "player-a",
	})
	s.Require().NoError(err)
	s.Require().NotNil(room)

	s.Equal("alps", room.Name)
	s.Equal("player-a", room.OwnerPlayerID)
	s.False(room.Started)
	s.Equal(models.RoomStateLobby, room.State)
	s.Equal(5, room.Config.NbRoundSelected)
	s.True(room.Config.AllowReRoll)
	s.Empty(room.Rounds)
}

func (s *RedisRepositoryTestSuite) TestCreateRoomNameTaken() {
	_, err := s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "alps",
		OwnerPlayerID: "player-a",
	})
	s.Require().NoError(err)

	// A second create for the same name is rejected, even with a
	// different owner
	_, err = s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "alps",
		OwnerPlayerID: "player-b",
	})
	s.Require().ErrorIs(err, ErrRoomNameTaken)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetRoomRoundTrip() {
	kickTimer := s.testNow.Add(30 * time.Second)
	room := &models.Room{
		Name:          "alps",
		OwnerPlayerID: "player-a",
		Started:       true,
		Config:        models.DefaultRoomConfig(),
		Rounds: []models.Round{
			{Round: 0, Latitude: 46.0, Longitude: 7.0, Warning: true, TimerStart: s.testNow},
			{Round: 1, Latitude: -33.9, Longitude: 18.4, TimerStart: kickTimer},
		},
		CurrentRound: 1,
		CreatedAt:    s.testNow,
		State:        models.RoomStateInGame,
		TimerStart:   kickTimer,
		Version:      1,
	}

	err := s.repo.SaveRoom(context.Background(), &SaveRoomInput{Room: room})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetRoom(context.Background(), &GetRoomInput{Name: "alps"})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal(room.Name, retrieved.Name)
	s.Equal(room.OwnerPlayerID, retrieved.OwnerPlayerID)
	s.True(retrieved.Started)
	s.Equal(room.Config, retrieved.Config)
	s.Len(retrieved.Rounds, 2)
	s.Equal(46.0, retrieved.Rounds[0].Latitude)
	s.Equal(7.0, retrieved.Rounds[0].Longitude)
	s.True(retrieved.Rounds[0].Warning)
	s.Equal(1, retrieved.CurrentRound)
	s.Equal(models.RoomStateInGame, retrieved.State)
	s.Equal(s.testNow.Unix(), retrieved.CreatedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestGetRoomNotFound() {
	_, err := s.repo.GetRoom(context.Background(), &GetRoomInput{Name: "missing"})
	s.Require().ErrorIs(err, ErrRoomNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetRoomCorruptPayload() {
	s.Require().NoError(s.mr.Set("room:alps", "{not json"))

	// A corrupt record degrades to not found instead of failing
	_, err := s.repo.GetRoom(context.Background(), &GetRoomInput{Name: "alps"})
	s.Require().ErrorIs(err, ErrRoomNotFound)
}

func (s *RedisRepositoryTestSuite) TestUpdateRoomPartialMerge() {
	_, err := s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "alps",
		OwnerPlayerID: "player-a",
	})
	s.Require().NoError(err)

	started := true
	currentRound := 0
	updated, err := s.repo.UpdateRoom(context.Background(), &UpdateRoomInput{
		Name:         "alps",
		Started:      &started,
		CurrentRound: &currentRound,
		Rounds: []models.Round{
			{Round: 0, Latitude: 46.0, Longitude: 7.0},
		},
	})
	s.Require().NoError(err)

	s.True(updated.Started)
	s.Len(updated.Rounds, 1)

	// Untouched fields survive the merge
	s.Equal("player-a", updated.OwnerPlayerID)
	s.Equal(models.RoomStateLobby, updated.State)
	s.Equal(5, updated.Config.NbRoundSelected)
}

func (s *RedisRepositoryTestSuite) TestUpdateRoomNotFound() {
	started := true
	_, err := s.repo.UpdateRoom(context.Background(), &UpdateRoomInput{
		Name:    "missing",
		Started: &started,
	})
	s.Require().ErrorIs(err, ErrRoomNotFound)
}

func (s *RedisRepositoryTestSuite) TestDeleteRoom() {
	_, err := s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "alps",
		OwnerPlayerID: "player-a",
	})
	s.Require().NoError(err)

	err = s.repo.DeleteRoom(context.Background(), &DeleteRoomInput{Name: "alps"})
	s.Require().NoError(err)

	_, err = s.repo.GetRoom(context.Background(), &GetRoomInput{Name: "alps"})
	s.Require().ErrorIs(err, ErrRoomNotFound)
}

func (s *RedisRepositoryTestSuite) TestListRoomNamesSkipsRosterKeys() {
	_, err := s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "alps",
		OwnerPlayerID: "player-a",
	})
	s.Require().NoError(err)
	_, err = s.repo.CreateRoom(context.Background(), &CreateRoomInput{
		Name:          "andes",
		OwnerPlayerID: "player-b",
	})
	s.Require().NoError(err)

	// Roster and player keys must not show up as rooms
	s.Require().NoError(s.mr.Set("room:alps:players", "[]"))
	s.Require().NoError(s.mr.Set("player:player-a", "{}"))

	names, err := s.repo.ListRoomNames(context.Background())
	s.Require().NoError(err)
	s.ElementsMatch([]string{"alps", "andes"}, names)
}
