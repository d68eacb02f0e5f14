package player

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/geoloc-live/georoom/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetPlayer() {
	player := &models.Player{
		ID:       "player-a",
		Name:     "Alice",
		LastRoom: "alps",
		Version:  1,
	}

	err := s.repo.SavePlayer(context.Background(), &SavePlayerInput{Player: player})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{PlayerID: "player-a"})
	s.Require().NoError(err)
	s.Equal(player, retrieved)
}

func (s *RedisRepositoryTestSuite) TestGetPlayerNotFound() {
	_, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{PlayerID: "ghost"})
	s.Require().ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetPlayerCorruptPayload() {
	s.Require().NoError(s.mr.Set("player:player-a", "{not json"))

	_, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{PlayerID: "player-a"})
	s.Require().ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestUpdatePlayer() {
	err := s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{ID: "player-a", Name: "Alice", LastRoom: "alps", Version: 1},
	})
	s.Require().NoError(err)

	name := "Alicia"
	updated, err := s.repo.UpdatePlayer(context.Background(), &UpdatePlayerInput{
		PlayerID: "player-a",
		Name:     &name,
	})
	s.Require().NoError(err)
	s.Equal("Alicia", updated.Name)
	s.Equal("alps", updated.LastRoom)

	cleared, err := s.repo.UpdatePlayer(context.Background(), &UpdatePlayerInput{
		PlayerID:      "player-a",
		ClearLastRoom: true,
	})
	s.Require().NoError(err)
	s.Empty(cleared.LastRoom)
	s.Equal("Alicia", cleared.Name)
}
