package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	roomsvc "github.com/geoloc-live/georoom/internal/services/room"
)

const writeTimeout = 10 * time.Second

// wsConn is the slice of *websocket.Conn the hub writes through
type wsConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client is one registered connection. Writes are serialized per client;
// gorilla allows one concurrent writer.
type client struct {
	socketID string
	playerID string

	mu sync.Mutex
	ws wsConn

	// room is the broadcast group this connection currently belongs to,
	// empty when the player is in no room
	room string
}

func (c *client) send(event roomsvc.Event, payload any) {
	frame, err := json.Marshal(&outEnvelope{Event: string(event), Data: payload})
	if err != nil {
		log.Error().Err(err).Str("event", string(event)).Msg("failed to marshal event")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Warn().Err(err).Str("socket", c.socketID).Str("event", string(event)).
			Msg("failed to write event")
	}
}

// Hub tracks live connections and their room broadcast groups. It is the
// transport half of the orchestrator's fanout: delivery is best-effort and
// write failures only log.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client            // by socket ID
	players map[string]*client            // by player ID
	rooms   map[string]map[string]*client // room name -> socket ID -> client
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		players: make(map[string]*client),
		rooms:   make(map[string]map[string]*client),
	}
}

// Register admits a fresh connection under its socket and player IDs. A
// previous connection registered for the same player is superseded.
func (h *Hub) Register(ws wsConn, socketID, playerID string) *client {
	c := &client{socketID: socketID, playerID: playerID, ws: ws}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[socketID] = c
	h.players[playerID] = c
	return c
}

// Unregister forgets a connection and drops it from its room group. The
// roster entry is untouched; that is the orchestrator's job.
func (h *Hub) Unregister(socketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[socketID]
	if !ok {
		return
	}
	delete(h.clients, socketID)
	if h.players[c.playerID] == c {
		delete(h.players, c.playerID)
	}
	if c.room != "" {
		h.dropFromRoom(c)
	}
}

// RoomOf returns the room a connection currently belongs to
func (h *Hub) RoomOf(socketID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[socketID]; ok {
		return c.room
	}
	return ""
}

// HasLiveConnection reports whether a transport session is still held for
// the socket ID
func (h *Hub) HasLiveConnection(socketID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[socketID]
	return ok
}

// JoinRoom adds a connection to a room's broadcast group
func (h *Hub) JoinRoom(_ context.Context, socketID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[socketID]
	if !ok {
		return
	}
	if c.room != "" && c.room != roomName {
		h.dropFromRoom(c)
	}

	group, ok := h.rooms[roomName]
	if !ok {
		group = make(map[string]*client)
		h.rooms[roomName] = group
	}
	group[socketID] = c
	c.room = roomName
}

// LeaveRoom removes a connection from a room's broadcast group
func (h *Hub) LeaveRoom(_ context.Context, socketID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[socketID]
	if !ok || c.room != roomName {
		return
	}
	h.dropFromRoom(c)
}

// dropFromRoom removes the client from its group; caller holds h.mu
func (h *Hub) dropFromRoom(c *client) {
	if group, ok := h.rooms[c.room]; ok {
		delete(group, c.socketID)
		if len(group) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}

// SendToPlayer delivers an event to a player's private channel
func (h *Hub) SendToPlayer(_ context.Context, playerID string, event roomsvc.Event, payload any) {
	h.mu.RLock()
	c, ok := h.players[playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.send(event, payload)
}

// BroadcastToRoom delivers an event to every member of a room's group
func (h *Hub) BroadcastToRoom(_ context.Context, roomName string, event roomsvc.Event, payload any) {
	for _, c := range h.snapshot(roomName, "") {
		c.send(event, payload)
	}
}

// BroadcastToRoomExcept delivers to every member except one player
func (h *Hub) BroadcastToRoomExcept(_ context.Context, roomName, excludePlayerID string, event roomsvc.Event, payload any) {
	for _, c := range h.snapshot(roomName, excludePlayerID) {
		c.send(event, payload)
	}
}

// snapshot copies a group's members so writes happen outside the hub lock
func (h *Hub) snapshot(roomName, excludePlayerID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	group := h.rooms[roomName]
	members := make([]*client, 0, len(group))
	for _, c := range group {
		if excludePlayerID != "" && c.playerID == excludePlayerID {
			continue
		}
		members = append(members, c)
	}
	return members
}
