package server

import "five-a-side/server/internal/physics"

// Server-to-client event names. Client-to-server names live with the
// websocket session that parses them.
const (
	msgRoomCreated           = "roomCreated"
	msgJoinSuccess           = "joinSuccess"
	msgRoomState             = "roomState"
	msgLobbyError            = "lobbyError"
	msgPlayerPositionChanged = "playerPositionChanged"
	msgAllPlayers            = "allPlayers"
	msgPositionOccupied      = "positionOccupied"
	msgPlayerMoved           = "playerMoved"
	msgBallSync              = "ballSync"
	msgKickRejected          = "kickRejected"
	msgGoalUpdate            = "goalUpdate"
	msgKickoffComplete       = "kickoffComplete"
	msgPlayerLeft            = "playerLeft"
)

type roomCreatedMessage struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

type joinSuccessMessage struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// roomStateMessage is the full snapshot a late joiner reconstructs shared
// state from, with no event replay.
type roomStateMessage struct {
	Type      string            `json:"type"`
	Occupancy Occupancy         `json:"occupancy"`
	GameState GameStateSnapshot `json:"gameState"`
	Players   []PlayerInfo      `json:"players"`
}

type lobbyErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type playerPositionChangedMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Team     Team   `json:"team"`
	Position Role   `json:"position"`
	Nickname string `json:"nickname"`
}

type allPlayersMessage struct {
	Type    string       `json:"type"`
	Players []PlayerInfo `json:"players"`
}

type positionOccupiedMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type playerMovedMessage struct {
	Type     string       `json:"type"`
	PlayerID string       `json:"playerId"`
	Position physics.Vec3 `json:"position"`
	Rotation physics.Vec3 `json:"rotation"`
	Velocity physics.Vec3 `json:"velocity"`
}

type ballSyncMessage struct {
	Type            string       `json:"type"`
	Position        physics.Vec3 `json:"position"`
	Velocity        physics.Vec3 `json:"velocity"`
	AngularVelocity physics.Vec3 `json:"angularVelocity"`
	Timestamp       int64        `json:"timestamp"`
}

// kickRejectedMessage echoes the authoritative ball state so the rejected
// client can reconcile its prediction.
type kickRejectedMessage struct {
	Type            string       `json:"type"`
	Position        physics.Vec3 `json:"position"`
	Velocity        physics.Vec3 `json:"velocity"`
	AngularVelocity physics.Vec3 `json:"angularVelocity"`
}

type goalUpdateMessage struct {
	Type               string `json:"type"`
	Score              Score  `json:"score"`
	CurrentKickoffTeam Team   `json:"currentKickoffTeam"`
}

type kickoffCompleteMessage struct {
	Type string `json:"type"`
}

type playerLeftMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

func newBallSync(ball BallSnapshot, timestamp int64) ballSyncMessage {
	return ballSyncMessage{
		Type:            msgBallSync,
		Position:        ball.Position,
		Velocity:        ball.Velocity,
		AngularVelocity: ball.AngularVelocity,
		Timestamp:       timestamp,
	}
}

func newKickRejected(ball BallSnapshot) kickRejectedMessage {
	return kickRejectedMessage{
		Type:            msgKickRejected,
		Position:        ball.Position,
		Velocity:        ball.Velocity,
		AngularVelocity: ball.AngularVelocity,
	}
}
