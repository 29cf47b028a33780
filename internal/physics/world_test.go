package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Step(dt)
	}
}

func TestBallFallsAndSettlesOnGround(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.SetBall(BallState{Position: Vec3{Y: 5}})

	stepN(w, 600) // ten simulated seconds

	ball := w.Ball()
	assert.InDelta(t, DefaultConfig().BallRadius, ball.Position.Y, 0.01)
	assert.Less(t, ball.Velocity.Length(), 0.2)
}

func TestCentredImpulseTranslatesWithoutSpin(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	at := w.Ball().Position

	w.ApplyImpulse(Vec3{X: 4.5}, at)

	ball := w.Ball()
	assert.InDelta(t, 4.5/cfg.BallMass, ball.Velocity.X, 1e-9)
	assert.Equal(t, 0.0, ball.AngularVelocity.Length())
}

func TestOffCentreImpulseAddsSpin(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	at := w.Ball().Position.Add(Vec3{Y: cfg.BallRadius})

	w.ApplyImpulse(Vec3{X: 2}, at)

	ball := w.Ball()
	assert.Greater(t, ball.Velocity.X, 0.0)
	assert.NotEqual(t, 0.0, ball.AngularVelocity.Length(), "a grazing kick must spin the ball")
}

func TestTouchlineWallKeepsBallOnField(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	w.SetBall(BallState{
		Position: Vec3{X: 20, Y: cfg.BallRadius},
		Velocity: Vec3{X: 15},
	})

	halfW := cfg.FieldWidth / 2
	bounced := false
	for i := 0; i < 300; i++ {
		w.Step(dt)
		ball := w.Ball()
		require.LessOrEqual(t, ball.Position.X, halfW-cfg.BallRadius+1e-6,
			"ball escaped over the touchline at step %d", i)
		if ball.Velocity.X < 0 {
			bounced = true
			break
		}
	}
	assert.True(t, bounced, "ball never rebounded off the wall")
}

func TestGoalMouthIsOpen(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	w.SetBall(BallState{
		Position: Vec3{Y: 1, Z: 43},
		Velocity: Vec3{Z: 10},
	})

	crossed := false
	for i := 0; i < 60; i++ {
		w.Step(dt)
		if w.Ball().Position.Z > cfg.FieldLength/2 {
			crossed = true
			break
		}
	}
	assert.True(t, crossed, "a shot through the goal mouth must enter the goal")
}

func TestShotAboveCrossbarIsBlocked(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	w.SetBall(BallState{
		Position: Vec3{Y: 6, Z: 44},
		Velocity: Vec3{Z: 10},
	})

	halfL := cfg.FieldLength / 2
	for i := 0; i < 30; i++ {
		w.Step(dt)
		require.Less(t, w.Ball().Position.Z, halfL,
			"ball passed through the wall above the crossbar")
	}
	assert.Less(t, w.Ball().Velocity.Z, 0.0)
}

func TestNetSwallowsShotEnergy(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	w.SetBall(BallState{
		Position: Vec3{Y: 1, Z: 46.5},
		Velocity: Vec3{Z: 20},
	})

	stepN(w, 30)

	ball := w.Ball()
	backOfNet := cfg.FieldLength/2 + cfg.GoalDepth
	assert.Less(t, ball.Position.Z, backOfNet+0.2+1e-6, "ball must stay inside the net")
	assert.Less(t, math.Abs(ball.Velocity.Z), 2.0, "the net barely rebounds")
}

func TestProxyContactPushesBall(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	w.SetBall(BallState{Position: Vec3{Y: cfg.BallRadius}})

	w.UpsertProxy("p1", Vec3{X: -0.6, Y: cfg.BallRadius}, 0)
	w.UpsertProxy("p1", Vec3{X: -0.4, Y: cfg.BallRadius}, 0.05)
	w.Step(dt)

	ball := w.Ball()
	assert.Greater(t, ball.Position.X, 0.25, "overlap must be resolved away from the player")
	assert.Greater(t, ball.Velocity.X, 0.0, "the dribbling player imparts momentum")
}

func TestRemovedProxyStopsColliding(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	w.SetBall(BallState{Position: Vec3{Y: cfg.BallRadius}})

	w.UpsertProxy("p1", Vec3{X: -0.4, Y: cfg.BallRadius}, 0)
	w.RemoveProxy("p1")
	w.Step(dt)

	assert.Equal(t, 0.0, w.Ball().Position.X)
}

func TestStepIgnoresNonPositiveDt(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.SetBall(BallState{Position: Vec3{Y: 5}})

	w.Step(0)
	w.Step(-dt)

	assert.Equal(t, 5.0, w.Ball().Position.Y)
}
