package ws

import (
	nethttp "net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	server "five-a-side/server"
)

type HandlerConfig struct {
	Logger zerolog.Logger
}

// Handler upgrades connections and runs their read loop, dispatching typed
// client events into hub operations. Hub errors are already answered on the
// wire; here they are only logged.
type Handler struct {
	hub      *server.Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	return &Handler{
		hub: hub,
		log: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := h.hub.Register(wsConn{conn: conn})
	defer h.hub.Unregister(id)

	log := h.log.With().Str("session", id).Logger()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("connection closed")
			return
		}
		h.dispatch(log, id, payload)
	}
}

// dispatch routes one client message. Malformed or unknown messages are
// dropped; nothing a single client sends may take the process down.
func (h *Handler) dispatch(log zerolog.Logger, id string, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Debug().Err(err).Msg("discarding malformed message")
		return
	}

	switch env.Type {
	case msgCreateRoom:
		if _, err := h.hub.CreateRoom(id); err != nil {
			log.Warn().Err(err).Msg("create room failed")
		}

	case msgJoinRoom:
		msg, ok := decode[joinRoomMessage](log, payload)
		if !ok {
			return
		}
		if err := h.hub.JoinRoom(id, msg.Code); err != nil {
			log.Debug().Err(err).Str("code", msg.Code).Msg("join rejected")
		}

	case msgRequestRoomState:
		msg, ok := decode[requestRoomStateMessage](log, payload)
		if !ok {
			return
		}
		if err := h.hub.RequestRoomState(id, msg.Code); err != nil {
			log.Debug().Err(err).Str("code", msg.Code).Msg("room state request rejected")
		}

	case msgPlayerReady:
		msg, ok := decode[playerReadyMessage](log, payload)
		if !ok {
			return
		}
		err := h.hub.ClaimRole(id, msg.Room, server.Team(msg.Team), server.Role(msg.Position), msg.Nickname)
		if err != nil {
			log.Debug().Err(err).Str("code", msg.Room).Msg("role claim rejected")
		}

	case msgPlayerMove:
		msg, ok := decode[playerMoveMessage](log, payload)
		if !ok {
			return
		}
		h.hub.PlayerMove(id, msg.Room, msg.Position, msg.Rotation, msg.Velocity)

	case msgRequestKick:
		msg, ok := decode[ballMessage](log, payload)
		if !ok {
			return
		}
		err := h.hub.RequestKick(id, msg.Room, server.BallSnapshot{
			Position:        msg.Position,
			Velocity:        msg.Velocity,
			AngularVelocity: msg.AngularVelocity,
		})
		if err != nil {
			log.Debug().Err(err).Str("code", msg.Room).Msg("kick rejected")
		}

	case msgBallUpdate:
		msg, ok := decode[ballMessage](log, payload)
		if !ok {
			return
		}
		h.hub.BallUpdate(id, msg.Room, server.BallSnapshot{
			Position:        msg.Position,
			Velocity:        msg.Velocity,
			AngularVelocity: msg.AngularVelocity,
		})

	case msgKickoffTaken:
		msg, ok := decode[kickoffTakenMessage](log, payload)
		if !ok {
			return
		}
		h.hub.KickoffTaken(id, msg.Room)

	default:
		log.Debug().Str("type", env.Type).Msg("unknown message type")
	}
}

func decode[T any](log zerolog.Logger, payload []byte) (T, bool) {
	var msg T
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Debug().Err(err).Msg("discarding malformed payload")
		return msg, false
	}
	return msg, true
}
