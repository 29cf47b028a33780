package server

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"five-a-side/server/internal/physics"
)

// Room owns all state for one match: member sessions, the roster, game
// state, the ball arbiter and, when server-side physics is enabled, the
// physics world and its tick loop. Everything behind mu belongs to this room
// alone; rooms never share state.
type Room struct {
	Code string
	log  zerolog.Logger

	mu       sync.Mutex
	members  map[string]*session
	roster   *Roster
	state    gameState
	arbiter  ballArbiter
	world    *physics.World
	proxies  bool
	tick     uint64
	lastMove map[string]time.Time // proxy velocity derivation
	quit     chan struct{}
	done     bool
}

func newRoom(code string, logger zerolog.Logger, world *physics.World, proxies bool) *Room {
	return &Room{
		Code:     code,
		log:      logger,
		members:  make(map[string]*session),
		roster:   NewRoster(),
		state:    newGameState(),
		world:    world,
		proxies:  proxies,
		lastMove: make(map[string]time.Time),
		quit:     make(chan struct{}),
	}
}

// stopLocked cancels the tick loop. Deferred resets carry no cancellation;
// they re-check room existence when they fire.
func (r *Room) stopLocked() {
	if r.done {
		return
	}
	r.done = true
	close(r.quit)
}

// resetBallLocked places the ball at the centre spot at rest, in both the
// shared state and the physics world when one exists.
func (r *Room) resetBallLocked() {
	r.state.ball = centeredBall()
	if r.world != nil {
		r.world.SetBall(physics.BallState{Position: r.state.ball.Position})
	}
}

// setBallLocked overwrites the authoritative ball state from an accepted
// client write.
func (r *Room) setBallLocked(ball BallSnapshot) {
	r.state.ball = ball
	if r.world != nil {
		r.world.SetBall(physics.BallState{
			Position:        ball.Position,
			Velocity:        ball.Velocity,
			AngularVelocity: ball.AngularVelocity,
		})
	}
}

func (r *Room) snapshotLocked(now time.Time) roomStateMessage {
	return roomStateMessage{
		Type:      msgRoomState,
		Occupancy: r.roster.Occupancy(),
		GameState: GameStateSnapshot{
			Score:              r.state.score,
			KickoffActive:      r.state.kickoffActive,
			CurrentKickoffTeam: r.state.kickoffTeam,
			Ball:               r.state.ball,
			BallAuthority:      r.arbiter.holderAt(now),
		},
		Players: r.roster.Players(),
	}
}

func (r *Room) membersLocked(exclude string) []*session {
	out := make([]*session, 0, len(r.members))
	for id, sess := range r.members {
		if id == exclude {
			continue
		}
		out = append(out, sess)
	}
	return out
}
