package server

import "five-a-side/server/internal/physics"

type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

func (t Team) Valid() bool {
	return t == TeamBlue || t == TeamRed
}

func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

// Role is one of the five field positions each team fields.
type Role string

const (
	RoleGoalkeeper    Role = "goalkeeper"
	RoleLeftDefender  Role = "left-defender"
	RoleRightDefender Role = "right-defender"
	RoleLeftForward   Role = "left-forward"
	RoleRightForward  Role = "right-forward"
)

var allRoles = [...]Role{
	RoleGoalkeeper,
	RoleLeftDefender,
	RoleRightDefender,
	RoleLeftForward,
	RoleRightForward,
}

func (r Role) Valid() bool {
	return roleIndex(r) >= 0
}

func roleIndex(r Role) int {
	for i, role := range allRoles {
		if role == r {
			return i
		}
	}
	return -1
}

type Score struct {
	Blue int `json:"blue"`
	Red  int `json:"red"`
}

func (s *Score) Add(team Team) {
	if team == TeamBlue {
		s.Blue++
	} else {
		s.Red++
	}
}

// BallSnapshot is the ball's kinematic triple as shared on the wire.
type BallSnapshot struct {
	Position        physics.Vec3 `json:"position"`
	Velocity        physics.Vec3 `json:"velocity"`
	AngularVelocity physics.Vec3 `json:"angularVelocity"`
}

// GameStateSnapshot is the wire view of a room's game state. BallAuthority
// reflects the non-expired holder at snapshot time.
type GameStateSnapshot struct {
	Score              Score        `json:"score"`
	KickoffActive      bool         `json:"kickoffActive"`
	CurrentKickoffTeam Team         `json:"currentKickoffTeam"`
	Ball               BallSnapshot `json:"ball"`
	BallAuthority      string       `json:"ballAuthority,omitempty"`
}

// gameState is the room-internal game state. The transient detection flags
// never leave the server; at most one of them is true at a time.
type gameState struct {
	score              Score
	kickoffActive      bool
	kickoffTeam        Team
	ball               BallSnapshot
	goalScoredRecently bool
	ballOutOfBounds    bool
}

func newGameState() gameState {
	return gameState{
		kickoffActive: true,
		kickoffTeam:   TeamBlue,
		ball:          centeredBall(),
	}
}

func centeredBall() BallSnapshot {
	return BallSnapshot{Position: physics.Vec3{Y: ballRestHeight}}
}
