package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"five-a-side/server/internal/physics"
)

const writeWait = 10 * time.Second

// wsConn applies the write deadline the hub's broadcast primitives rely on.
// Per-connection write serialization lives in the hub session.
type wsConn struct {
	conn *websocket.Conn
}

func (c wsConn) WriteMessage(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c wsConn) Close() error {
	return c.conn.Close()
}

// Client-to-server event names.
const (
	msgCreateRoom       = "createRoom"
	msgJoinRoom         = "joinRoom"
	msgRequestRoomState = "requestRoomState"
	msgPlayerReady      = "playerReady"
	msgPlayerMove       = "playerMove"
	msgRequestKick      = "requestKick"
	msgBallUpdate       = "ballUpdate"
	msgKickoffTaken     = "kickoffTaken"
)

// envelope carries only the discriminator; the payload is re-decoded into
// the per-type shape, since "position" is a role name in playerReady and a
// vector everywhere else.
type envelope struct {
	Type string `json:"type"`
}

type joinRoomMessage struct {
	Code string `json:"code"`
}

type requestRoomStateMessage struct {
	Code string `json:"code"`
}

type playerReadyMessage struct {
	Room     string `json:"room"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Nickname string `json:"nickname"`
}

type playerMoveMessage struct {
	Room     string       `json:"room"`
	Position physics.Vec3 `json:"position"`
	Rotation physics.Vec3 `json:"rotation"`
	Velocity physics.Vec3 `json:"velocity"`
}

type ballMessage struct {
	Room            string       `json:"room"`
	Position        physics.Vec3 `json:"position"`
	Velocity        physics.Vec3 `json:"velocity"`
	AngularVelocity physics.Vec3 `json:"angularVelocity"`
}

type kickoffTakenMessage struct {
	Room string `json:"room"`
}
