package socket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/geoloc-live/georoom/internal/common/uuid"
	"github.com/geoloc-live/georoom/internal/models"
	playerRepo "github.com/geoloc-live/georoom/internal/repositories/player"
	sessionRepo "github.com/geoloc-live/georoom/internal/repositories/session"
	roomsvc "github.com/geoloc-live/georoom/internal/services/room"
)

// Config holds configuration for the socket handler
type Config struct {
	Hub         *Hub
	RoomService roomsvc.Service
	SessionRepo sessionRepo.Repository
	PlayerRepo  playerRepo.Repository
	UUID        uuid.UUID
}

// Handler owns the websocket endpoint: it authenticates the connection,
// greets it with HELLO, then pumps client events into the orchestrator
type Handler struct {
	hub      *Hub
	service  roomsvc.Service
	sessions sessionRepo.Repository
	players  playerRepo.Repository
	uuider   uuid.UUID
	upgrader websocket.Upgrader
}

// New creates a new socket handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}
	if cfg.RoomService == nil {
		return nil, errors.New("room service cannot be nil")
	}
	if cfg.SessionRepo == nil {
		return nil, errors.New("session repository cannot be nil")
	}
	if cfg.PlayerRepo == nil {
		return nil, errors.New("player repository cannot be nil")
	}

	uuider := cfg.UUID
	if uuider == nil {
		uuider = uuid.New()
	}

	return &Handler{
		hub:      cfg.Hub,
		service:  cfg.RoomService,
		sessions: cfg.SessionRepo,
		players:  cfg.PlayerRepo,
		uuider:   uuider,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Register mounts the websocket endpoint on the router
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/api/v1/socket/game", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx := c.Request.Context()

	playerID, token, err := h.authenticate(ctx, c.Query("token"))
	if err != nil {
		log.Error().Err(err).Msg("failed to authenticate connection")
		_ = ws.Close()
		return
	}

	socketID := h.uuider.NewUUID()
	cl := h.hub.Register(ws, socketID, playerID)

	hello := &helloPayload{PlayerID: playerID, Token: token}
	if out, err := h.service.ResumeOnConnect(ctx, &roomsvc.ResumeOnConnectInput{PlayerID: playerID}); err != nil {
		log.Error().Err(err).Str("player", playerID).Msg("resume lookup failed")
	} else {
		hello.Resume = out.Resume
	}
	cl.send(roomsvc.EventHello, hello)

	log.Info().Str("player", playerID).Str("socket", socketID).Msg("connection established")

	h.readLoop(cl)
}

// authenticate resolves the presented token, issuing a fresh identity and
// session when it is missing or no longer valid
func (h *Handler) authenticate(ctx context.Context, token string) (string, string, error) {
	if token != "" {
		sess, err := h.sessions.ResolveSession(ctx, &sessionRepo.ResolveSessionInput{Token: token})
		if err == nil {
			return sess.PlayerID, token, nil
		}
		if !errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return "", "", err
		}
	}

	playerID := h.uuider.NewUUID()
	if err := h.players.SavePlayer(ctx, &playerRepo.SavePlayerInput{
		Player: &models.Player{ID: playerID},
	}); err != nil {
		return "", "", err
	}

	sess, err := h.sessions.CreateSession(ctx, &sessionRepo.CreateSessionInput{PlayerID: playerID})
	if err != nil {
		return "", "", err
	}

	return playerID, sess.Token, nil
}

// readLoop pumps frames until the connection drops, then marks the player
// disconnected in whatever room they were in
func (h *Handler) readLoop(cl *client) {
	// The request context dies with the HTTP handler; roster cleanup
	// after the drop needs its own
	ctx := context.Background()

	defer func() {
		roomName := h.hub.RoomOf(cl.socketID)
		h.hub.Unregister(cl.socketID)
		_ = cl.ws.Close()

		if roomName != "" {
			if err := h.service.Disconnect(ctx, &roomsvc.DisconnectInput{
				RoomName: roomName,
				PlayerID: cl.playerID,
			}); err != nil {
				log.Error().Err(err).Str("room", roomName).Str("player", cl.playerID).
					Msg("failed to mark player disconnected")
			}
		}
		log.Info().Str("player", cl.playerID).Str("socket", cl.socketID).Msg("connection closed")
	}()

	ws, ok := cl.ws.(*websocket.Conn)
	if !ok {
		return
	}

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("socket", cl.socketID).Msg("read failed")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			cl.sendError(env.ID, codeMalformedRequest)
			continue
		}

		h.dispatch(ctx, cl, &env)
	}
}

func (c *client) sendError(id, code string) {
	frame, err := json.Marshal(&outEnvelope{
		Event: string(roomsvc.EventError),
		ID:    id,
		Data:  &errorPayload{Code: code},
	})
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.ws.WriteMessage(websocket.TextMessage, frame)
}

func (h *Handler) dispatch(ctx context.Context, cl *client, env *envelope) {
	switch env.Event {
	case eventCreateRoom:
		h.handleCreateRoom(ctx, cl, env)

	case eventUpdateConfig:
		var req configRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.UpdateConfig(ctx, &roomsvc.UpdateConfigInput{
			RoomName:        req.RoomName,
			PlayerID:        cl.playerID,
			ConfigOverrides: req.Config,
		}))

	case eventGameStart:
		var req configRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.Start(ctx, &roomsvc.StartInput{
			RoomName:        req.RoomName,
			PlayerID:        cl.playerID,
			ConfigOverrides: req.Config,
		}))

	case eventPopulateRound:
		var req populateRoundRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.PopulateRound(ctx, &roomsvc.PopulateRoundInput{
			RoomName:  req.RoomName,
			PlayerID:  cl.playerID,
			Round:     req.Round,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Warning:   req.Warning,
		}))

	case eventCommitGuess:
		var req commitGuessRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.CommitGuess(ctx, &roomsvc.CommitGuessInput{
			RoomName:   req.RoomName,
			PlayerID:   cl.playerID,
			Round:      req.Round,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			Distance:   req.Distance,
			Points:     req.Points,
			TimePassed: req.TimePassed,
		}))

	case eventVoteReRoll:
		var req roundRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.VoteReRoll(ctx, &roomsvc.VoteReRollInput{
			RoomName: req.RoomName,
			PlayerID: cl.playerID,
			Round:    req.Round,
		}))

	case eventReadyToContinue:
		var req roundRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.ReadyToContinue(ctx, &roomsvc.ReadyToContinueInput{
			RoomName:  req.RoomName,
			PlayerID:  cl.playerID,
			NextRound: req.Round,
		}))

	case eventReadyToLeave:
		var req roomRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.ReadyToLeave(ctx, &roomsvc.ReadyToLeaveInput{
			RoomName: req.RoomName,
			PlayerID: cl.playerID,
		}))

	case eventGameReady:
		var req roomRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.Ready(ctx, &roomsvc.ReadyInput{
			RoomName: req.RoomName,
			PlayerID: cl.playerID,
		}))

	case eventUpdateName:
		var req updateNameRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.UpdateName(ctx, &roomsvc.UpdateNameInput{
			RoomName: req.RoomName,
			PlayerID: cl.playerID,
			Name:     req.Name,
		}))

	case eventRoomLeave:
		var req roomRequest
		if !decode(cl, env, &req) {
			return
		}
		h.silent(cl, env, h.service.Leave(ctx, &roomsvc.LeaveInput{
			RoomName: req.RoomName,
			PlayerID: cl.playerID,
		}))

	default:
		cl.sendError(env.ID, codeMalformedRequest)
	}
}

func (h *Handler) handleCreateRoom(ctx context.Context, cl *client, env *envelope) {
	var req createRoomRequest
	if !decode(cl, env, &req) {
		return
	}

	out, err := h.service.CreateOrJoin(ctx, &roomsvc.CreateOrJoinInput{
		RoomName: req.RoomName,
		PlayerID: cl.playerID,
		SocketID: cl.socketID,
	})
	if err != nil {
		var roomErr roomsvc.RoomError
		if errors.As(err, &roomErr) {
			cl.sendError(env.ID, errorCode(roomErr))
			return
		}
		log.Error().Err(err).Str("room", req.RoomName).Str("player", cl.playerID).
			Msg("create or join failed")
		cl.sendError(env.ID, codeInternal)
		return
	}

	cl.send(roomsvc.EventCreateRoomResponse, &createRoomResponse{
		RoomName: out.Room.Name,
		OwnerID:  out.Room.OwnerPlayerID,
		Started:  out.Room.Started,
		Config:   out.Room.Config,
		Players:  out.Players,
		Rejoined: out.Result == roomsvc.JoinResultRejoined,
	})
}

// silent reports orchestrator failures back only when they carry a wire
// code; infrastructure errors are logged and swallowed
func (h *Handler) silent(cl *client, env *envelope, err error) {
	if err == nil {
		return
	}
	var roomErr roomsvc.RoomError
	if errors.As(err, &roomErr) {
		cl.sendError(env.ID, errorCode(roomErr))
		return
	}
	log.Error().Err(err).Str("event", env.Event).Str("player", cl.playerID).
		Msg("event handling failed")
}

func decode(cl *client, env *envelope, out any) bool {
	if err := json.Unmarshal(env.Data, out); err != nil {
		cl.sendError(env.ID, codeMalformedRequest)
		return false
	}
	return true
}
