package server

import (
	"math"

	"five-a-side/server/internal/physics"
)

type ballEventKind int

const (
	ballEventNone ballEventKind = iota
	ballEventGoal
	ballEventOut
)

type ballEvent struct {
	kind        ballEventKind
	scoringTeam Team
}

// detectBallEvent classifies the ball position against the goal-line planes
// and the field boundary. The goal test runs first; a ball that crossed the
// line inside the goal mouth is a goal even though it is also outside the
// field. Blue attacks the +Z goal line, red the -Z line.
func detectBallEvent(pos physics.Vec3) ballEvent {
	const (
		halfWidth  = FieldWidth / 2
		halfLength = FieldLength / 2
		halfGoal   = GoalWidth / 2
	)

	inMouth := math.Abs(pos.X) <= halfGoal && pos.Y <= GoalHeight
	if inMouth {
		if pos.Z+BallRadius >= halfLength {
			return ballEvent{kind: ballEventGoal, scoringTeam: TeamBlue}
		}
		if pos.Z-BallRadius <= -halfLength {
			return ballEvent{kind: ballEventGoal, scoringTeam: TeamRed}
		}
	}

	if math.Abs(pos.X)+BallRadius > halfWidth || math.Abs(pos.Z)+BallRadius > halfLength {
		return ballEvent{kind: ballEventOut}
	}
	return ballEvent{}
}
