package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"gorm.io/gorm"
)

const (
	socketNamespace = "/"

	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
)

var (
	errSocketAuthRequired = errors.New("authentication required")
	errSocketInvalidToken = errors.New("invalid token")
)

// roomEmitter is the part of the socket server the hub broadcasts through.
type roomEmitter interface {
	BroadcastToRoom(room, event string, payload interface{})
	// BroadcastExcept emits to every connection in room other than exceptConnID.
	BroadcastExcept(room, exceptConnID, event string, payload interface{})
}

type serverEmitter struct {
	server *socketio.Server
}

func (e serverEmitter) BroadcastToRoom(room, event string, payload interface{}) {
	e.server.BroadcastToRoom(socketNamespace, room, event, payload)
}

func (e serverEmitter) BroadcastExcept(room, exceptConnID, event string, payload interface{}) {
	e.server.ForEach(socketNamespace, room, func(c socketio.Conn) {
		if c.ID() != exceptConnID {
			c.Emit(event, payload)
		}
	})
}

// SendMessagePayload is the body of send_message and receive_message.
type SendMessagePayload struct {
	ID        uint64 `json:"id,omitempty"`
	Room      string `json:"room"`
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SocketHub owns the socket.io server. Each connection joins a personal room
// named after its account id, and conversation rooms named after the
// conversation id.
type SocketHub struct {
	server        *socketio.Server
	emitter       roomEmitter
	conversations *services.ConversationService
	db            *gorm.DB
	jwtSecret     string
	blacklist     *database.TokenBlacklist
}

func newSocketHub(emitter roomEmitter, db *gorm.DB, conversations *services.ConversationService, jwtSecret string, blacklist *database.TokenBlacklist) *SocketHub {
	return &SocketHub{
		emitter:       emitter,
		conversations: conversations,
		db:            db,
		jwtSecret:     jwtSecret,
		blacklist:     blacklist,
	}
}

func NewSocketHub(db *gorm.DB, conversations *services.ConversationService, jwtSecret string, blacklist *database.TokenBlacklist, frontendURL string) *SocketHub {
	checkOrigin := func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || frontendURL == "" || origin == frontendURL
	}
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{CheckOrigin: checkOrigin},
			&polling.Transport{CheckOrigin: checkOrigin},
		},
	})

	h := newSocketHub(serverEmitter{server: server}, db, conversations, jwtSecret, blacklist)
	h.server = server
	h.register()
	return h
}

func (h *SocketHub) register() {
	h.server.OnConnect(socketNamespace, func(s socketio.Conn) error {
		connURL := s.URL()
		query := connURL.Query()
		token := query.Get("token")
		if token == "" {
			token = query.Get("auth_token")
		}

		rc, err := h.authenticate(context.Background(), token)
		if err != nil {
			logger.Warn().Str("socket_id", s.ID()).Err(err).Msg("Socket connection rejected")
			return err
		}

		s.SetContext(rc)
		s.Join(rc.UserID)
		logger.Debug().Str("socket_id", s.ID()).Str("user_id", rc.UserID).Msg("Socket authenticated")
		return nil
	})

	h.server.OnEvent(socketNamespace, EventJoinRoom, func(s socketio.Conn, room string) {
		rc, ok := s.Context().(reqctx.Context)
		if !ok {
			return
		}
		if h.canJoin(context.Background(), rc, room) {
			s.Join(room)
		}
	})

	h.server.OnEvent(socketNamespace, EventSendMessage, func(s socketio.Conn, payload SendMessagePayload) {
		rc, ok := s.Context().(reqctx.Context)
		if !ok {
			return
		}
		h.sendMessage(context.Background(), rc, s.ID(), payload)
	})

	h.server.OnDisconnect(socketNamespace, func(s socketio.Conn, reason string) {
		logger.Debug().Str("socket_id", s.ID()).Str("reason", reason).Msg("Socket closed")
	})

	h.server.OnError(socketNamespace, func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
	})
}

func (h *SocketHub) authenticate(ctx context.Context, token string) (reqctx.Context, error) {
	if token == "" {
		return reqctx.Context{}, errSocketAuthRequired
	}
	claims, err := utils.ValidateToken(h.jwtSecret, token)
	if err != nil || h.blacklist.IsRevoked(ctx, claims.GetJTI()) {
		return reqctx.Context{}, errSocketInvalidToken
	}

	var user models.User
	if err := h.db.WithContext(ctx).Select("id", "role").Where("id = ?", claims.UserID).Limit(1).Find(&user).Error; err != nil || user.ID == "" {
		return reqctx.Context{}, errSocketInvalidToken
	}
	return reqctx.New(user.ID, user.Role, utils.RequestID("")), nil
}

// canJoin allows a conversation room only to its participants.
func (h *SocketHub) canJoin(ctx context.Context, rc reqctx.Context, room string) bool {
	if room == "" {
		return false
	}
	if _, err := h.conversations.Participant(ctx, room, rc.UserID); err != nil {
		logger.Warn().Str("user_id", rc.UserID).Str("room", room).Err(err).Msg("Join room refused")
		return false
	}
	return true
}

// sendMessage persists the message as the authenticated sender and mirrors it
// to the other connections in the room. Nothing is broadcast when the store
// rejects it.
func (h *SocketHub) sendMessage(ctx context.Context, rc reqctx.Context, connID string, payload SendMessagePayload) {
	if payload.SenderID != "" && payload.SenderID != rc.UserID {
		logger.Warn().Str("user_id", rc.UserID).Str("claimed_sender", payload.SenderID).Msg("Socket sender mismatch, using authenticated id")
	}

	msg, err := h.conversations.Send(ctx, payload.Room, rc.UserID, payload.Message)
	if err != nil {
		logger.Warn().Str("user_id", rc.UserID).Str("room", payload.Room).Err(err).Msg("Socket message not stored")
		return
	}
	h.emitter.BroadcastExcept(payload.Room, connID, EventReceiveMessage, messagePayload(msg))
}

// Broadcast mirrors a message stored over HTTP to everyone in its room.
func (h *SocketHub) Broadcast(msg *models.Message) {
	h.emitter.BroadcastToRoom(msg.ConversationID, EventReceiveMessage, messagePayload(msg))
}

// NotifyUser pushes an event to the user's personal room.
func (h *SocketHub) NotifyUser(userID, event string, payload interface{}) {
	h.emitter.BroadcastToRoom(userID, event, payload)
}

func messagePayload(msg *models.Message) SendMessagePayload {
	return SendMessagePayload{
		ID:        msg.ID,
		Room:      msg.ConversationID,
		SenderID:  msg.SenderID,
		Message:   msg.Content,
		Timestamp: msg.SentAt.UTC().Format(time.RFC3339Nano),
	}
}

// Serve starts the engine loop. It blocks until Close.
func (h *SocketHub) Serve() error {
	return h.server.Serve()
}

func (h *SocketHub) Close() error {
	return h.server.Close()
}

// Handler mounts the socket.io server on gin.
func (h *SocketHub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.server.ServeHTTP(c.Writer, c.Request)
	}
}
