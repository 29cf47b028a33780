package server

import (
	"time"

	"five-a-side/server/internal/physics"
)

// PlayerMove relays movement telemetry to the rest of the room. Player
// motion is client-authoritative; the server never simulates it, but when
// proxies are enabled the position feeds the room's kinematic collider so
// the ball reacts to the moving player.
func (h *Hub) PlayerMove(id, code string, position, rotation, velocity physics.Vec3) {
	room := h.memberRoom(id, code)
	if room == nil {
		return
	}

	if room.proxies && room.world != nil {
		now := h.clock.Now()
		room.mu.Lock()
		dt := 0.0
		if last, ok := room.lastMove[id]; ok {
			dt = now.Sub(last).Seconds()
		}
		room.lastMove[id] = now
		room.world.UpsertProxy(id, position, dt)
		room.mu.Unlock()
	}

	h.broadcast(room, playerMovedMessage{
		Type:     msgPlayerMoved,
		PlayerID: id,
		Position: position,
		Rotation: rotation,
		Velocity: velocity,
	}, id)
}

// RequestKick is the high-priority ball write. It is gated by the kickoff
// restriction and the authority contest window; acceptance grants authority
// and broadcasts the new state to the whole room, the kicker included -- the
// kicker's own client is not trusted to keep simulating unconfirmed.
func (h *Hub) RequestKick(id, code string, ball BallSnapshot) error {
	room := h.memberRoom(id, code)
	if room == nil {
		h.sendTo(id, lobbyErrorMessage{Type: msgLobbyError, Message: "room " + code + " does not exist"})
		return ErrRoomNotFound
	}

	now := h.clock.Now()
	room.mu.Lock()

	if room.state.kickoffActive {
		info, ok := room.roster.Player(id)
		if !ok || info.Team != room.state.kickoffTeam {
			reject := newKickRejected(room.state.ball)
			room.mu.Unlock()
			h.sendTo(id, reject)
			return ErrKickRejected
		}
	}
	if !room.arbiter.allowKick(id, now) {
		reject := newKickRejected(room.state.ball)
		room.mu.Unlock()
		h.sendTo(id, reject)
		return ErrKickRejected
	}

	kickoffCleared := room.state.kickoffActive
	room.state.kickoffActive = false
	room.setBallLocked(ball)
	room.arbiter.grant(id, now)
	sync := newBallSync(room.state.ball, now.UnixMilli())
	room.mu.Unlock()

	if kickoffCleared {
		h.broadcast(room, kickoffCompleteMessage{Type: msgKickoffComplete}, "")
	}
	h.broadcast(room, sync, "")

	// Without a physics loop, detection runs on each authoritative write.
	if room.world == nil {
		h.resolveBallEvents(room)
	}
	return nil
}

// BallUpdate is the continuous-sync channel: accepted only from the current
// authority holder, or once nobody has contested for a while. Accepted
// updates are relayed to everyone but the sender.
func (h *Hub) BallUpdate(id, code string, ball BallSnapshot) {
	room := h.memberRoom(id, code)
	if room == nil {
		return
	}

	now := h.clock.Now()
	room.mu.Lock()
	if !room.arbiter.allowUpdate(id, now) {
		room.mu.Unlock()
		return
	}
	room.setBallLocked(ball)
	room.arbiter.grant(id, now)
	sync := newBallSync(room.state.ball, now.UnixMilli())
	room.mu.Unlock()

	h.broadcast(room, sync, id)

	if room.world == nil {
		h.resolveBallEvents(room)
	}
}

// KickoffTaken is the explicit client acknowledgment that the kickoff was
// played without a kick write. Only the designated team may clear it.
func (h *Hub) KickoffTaken(id, code string) {
	room := h.memberRoom(id, code)
	if room == nil {
		return
	}

	room.mu.Lock()
	if !room.state.kickoffActive {
		room.mu.Unlock()
		return
	}
	info, ok := room.roster.Player(id)
	if !ok || info.Team != room.state.kickoffTeam {
		room.mu.Unlock()
		return
	}
	room.state.kickoffActive = false
	room.mu.Unlock()

	h.broadcast(room, kickoffCompleteMessage{Type: msgKickoffComplete}, "")
}

// runRoom drives the fixed 60Hz loop for one room until it is destroyed.
func (h *Hub) runRoom(room *Room) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-room.quit:
			return
		case <-ticker.C:
			h.stepRoom(room)
		}
	}
}

// stepRoom advances the physics world one fixed step, mirrors the result
// into shared state, periodically syncs it to clients, and runs detection.
// Client message handlers and this tick body interleave under the room lock,
// never overlap.
func (h *Hub) stepRoom(room *Room) {
	now := h.clock.Now()

	room.mu.Lock()
	if room.done || room.world == nil {
		room.mu.Unlock()
		return
	}
	room.tick++
	room.world.Step(1.0 / tickRate)
	state := room.world.Ball()
	room.state.ball = BallSnapshot{
		Position:        state.Position,
		Velocity:        state.Velocity,
		AngularVelocity: state.AngularVelocity,
	}

	// While a client holds live authority its stream drives everyone's
	// view; the server only narrates the ball when nobody owns it.
	syncDue := room.tick%ballSyncEvery == 0 && room.arbiter.holderAt(now) == ""
	var sync ballSyncMessage
	if syncDue {
		sync = newBallSync(room.state.ball, now.UnixMilli())
	}
	room.mu.Unlock()

	if syncDue {
		h.broadcast(room, sync, "")
	}
	h.resolveBallEvents(room)
}

// resolveBallEvents runs the goal / out-of-bounds state machine once against
// the current ball position. Detection is suppressed for the whole cooldown
// after either event.
func (h *Hub) resolveBallEvents(room *Room) {
	room.mu.Lock()
	if room.done || room.state.goalScoredRecently || room.state.ballOutOfBounds {
		room.mu.Unlock()
		return
	}

	event := detectBallEvent(room.state.ball.Position)
	switch event.kind {
	case ballEventGoal:
		room.state.score.Add(event.scoringTeam)
		room.state.kickoffTeam = event.scoringTeam.Opponent()
		room.state.kickoffActive = true
		room.state.goalScoredRecently = true
		update := goalUpdateMessage{
			Type:               msgGoalUpdate,
			Score:              room.state.score,
			CurrentKickoffTeam: room.state.kickoffTeam,
		}
		room.mu.Unlock()

		room.log.Info().
			Str("team", string(event.scoringTeam)).
			Int("blue", update.Score.Blue).
			Int("red", update.Score.Red).
			Msg("goal scored")
		h.broadcast(room, update, "")
		h.sched.After(goalResetDelay, func() { h.finishGoalCooldown(room.Code) })

	case ballEventOut:
		room.state.ballOutOfBounds = true
		room.mu.Unlock()

		room.log.Debug().Msg("ball out of bounds")
		h.sched.After(outOfBoundsResetDelay, func() { h.finishOutOfBounds(room.Code) })

	default:
		room.mu.Unlock()
	}
}

// finishGoalCooldown fires 3s after a goal: if the room still exists and the
// flag is still set, the ball returns to the centre spot and detection
// resumes.
func (h *Hub) finishGoalCooldown(code string) {
	room := h.room(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.done || !room.state.goalScoredRecently {
		room.mu.Unlock()
		return
	}
	room.state.goalScoredRecently = false
	room.resetBallLocked()
	sync := newBallSync(room.state.ball, h.clock.Now().UnixMilli())
	room.mu.Unlock()

	h.broadcast(room, sync, "")
}

// finishOutOfBounds fires 2s after the ball left the field. The reset places
// the ball at the centre spot on the turf; clients observe it through the
// ballSync that follows.
func (h *Hub) finishOutOfBounds(code string) {
	room := h.room(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.done || !room.state.ballOutOfBounds {
		room.mu.Unlock()
		return
	}
	room.state.ballOutOfBounds = false
	room.resetBallLocked()
	sync := newBallSync(room.state.ball, h.clock.Now().UnixMilli())
	room.mu.Unlock()

	h.broadcast(room, sync, "")
}
