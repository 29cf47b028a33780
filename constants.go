package server

import "time"

// Field geometry in meters, shared by the physics world and the rules
// detector. Defined once so the two can never disagree.
const (
	FieldWidth  = 50.0
	FieldLength = 90.0
	GoalWidth   = 12.0
	GoalHeight  = 4.0
	GoalDepth   = 3.0
	BallRadius  = 0.22
	WallHeight  = 20.0

	// Centre-spot spawn height. The ball settles onto the turf on the
	// first physics step.
	ballRestHeight = 0.32
)

const (
	tickRate      = 60 // physics steps per second
	ballSyncEvery = 3  // server-driven ballSync cadence, in ticks

	goalResetDelay        = 3000 * time.Millisecond
	outOfBoundsResetDelay = 2000 * time.Millisecond

	// Ball-authority windows. A kick from a non-holder is contested for
	// 100ms after the last accepted write; passive updates may take over
	// after 200ms of silence; authority lapses entirely after 500ms.
	authorityContestWindow = 100 * time.Millisecond
	authorityIdleTakeover  = 200 * time.Millisecond
	authorityExpiry        = 500 * time.Millisecond
)
