package socket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	roomsvc "github.com/geoloc-live/georoom/internal/services/room"
)

// fakeConn records frames instead of writing to a network
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.frames))
	for _, frame := range f.frames {
		var env envelope
		if err := json.Unmarshal(frame, &env); err == nil {
			out = append(out, env.Event)
		}
	}
	return out
}

type hubTestSuite struct {
	suite.Suite

	ctx context.Context
	hub *Hub
}

func (s *hubTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.hub = NewHub()
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(hubTestSuite))
}

func (s *hubTestSuite) TestRegisterAndLiveness() {
	conn := &fakeConn{}
	s.hub.Register(conn, "sock1", "p1")

	s.True(s.hub.HasLiveConnection("sock1"))
	s.False(s.hub.HasLiveConnection("sock2"))

	s.hub.Unregister("sock1")
	s.False(s.hub.HasLiveConnection("sock1"))
}

func (s *hubTestSuite) TestSendToPlayer() {
	conn := &fakeConn{}
	s.hub.Register(conn, "sock1", "p1")

	s.hub.SendToPlayer(s.ctx, "p1", roomsvc.EventHello, nil)
	s.hub.SendToPlayer(s.ctx, "ghost", roomsvc.EventHello, nil)

	s.Equal([]string{string(roomsvc.EventHello)}, conn.events())
}

func (s *hubTestSuite) TestBroadcastToRoom() {
	c1, c2, c3 := &fakeConn{}, &fakeConn{}, &fakeConn{}
	s.hub.Register(c1, "sock1", "p1")
	s.hub.Register(c2, "sock2", "p2")
	s.hub.Register(c3, "sock3", "p3")

	s.hub.JoinRoom(s.ctx, "sock1", "paris")
	s.hub.JoinRoom(s.ctx, "sock2", "paris")
	s.hub.JoinRoom(s.ctx, "sock3", "tokyo")

	s.hub.BroadcastToRoom(s.ctx, "paris", roomsvc.EventGameStarted, nil)

	s.Len(c1.events(), 1)
	s.Len(c2.events(), 1)
	s.Empty(c3.events())
}

func (s *hubTestSuite) TestBroadcastToRoomExcept() {
	c1, c2 := &fakeConn{}, &fakeConn{}
	s.hub.Register(c1, "sock1", "p1")
	s.hub.Register(c2, "sock2", "p2")
	s.hub.JoinRoom(s.ctx, "sock1", "paris")
	s.hub.JoinRoom(s.ctx, "sock2", "paris")

	s.hub.BroadcastToRoomExcept(s.ctx, "paris", "p1", roomsvc.EventRoomPlayerJoined, nil)

	s.Empty(c1.events())
	s.Len(c2.events(), 1)
}

func (s *hubTestSuite) TestLeaveRoomStopsDelivery() {
	conn := &fakeConn{}
	s.hub.Register(conn, "sock1", "p1")
	s.hub.JoinRoom(s.ctx, "sock1", "paris")
	s.Equal("paris", s.hub.RoomOf("sock1"))

	s.hub.LeaveRoom(s.ctx, "sock1", "paris")
	s.Empty(s.hub.RoomOf("sock1"))

	s.hub.BroadcastToRoom(s.ctx, "paris", roomsvc.EventGameStarted, nil)
	s.Empty(conn.events())
}

func (s *hubTestSuite) TestJoinRoomMovesBetweenGroups() {
	conn := &fakeConn{}
	s.hub.Register(conn, "sock1", "p1")
	s.hub.JoinRoom(s.ctx, "sock1", "paris")
	s.hub.JoinRoom(s.ctx, "sock1", "tokyo")

	s.hub.BroadcastToRoom(s.ctx, "paris", roomsvc.EventGameStarted, nil)
	s.Empty(conn.events())

	s.hub.BroadcastToRoom(s.ctx, "tokyo", roomsvc.EventGameStarted, nil)
	s.Len(conn.events(), 1)
}

func (s *hubTestSuite) TestUnregisterDropsRoomMembership() {
	c1, c2 := &fakeConn{}, &fakeConn{}
	s.hub.Register(c1, "sock1", "p1")
	s.hub.Register(c2, "sock2", "p2")
	s.hub.JoinRoom(s.ctx, "sock1", "paris")
	s.hub.JoinRoom(s.ctx, "sock2", "paris")

	s.hub.Unregister("sock1")

	s.hub.BroadcastToRoom(s.ctx, "paris", roomsvc.EventGameStarted, nil)
	s.Empty(c1.events())
	s.Len(c2.events(), 1)
}
