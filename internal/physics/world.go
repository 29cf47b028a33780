// Package physics owns the per-room rigid-body approximation of the ball.
// One World exists per room with server-side simulation enabled; the room's
// lock serialises all access, so a World is deliberately not safe for
// concurrent use.
package physics

import "math"

// Collision categories. Every collider carries exactly one category and a
// mask of categories it reacts to, so player proxies never interfere with
// ball-vs-world contacts.
const (
	CategoryBall uint16 = 1 << iota
	CategoryPlayer
	CategoryWorld
	CategoryNet
)

const ballCollidesWith = CategoryPlayer | CategoryWorld | CategoryNet

// Config holds field geometry and solver tuning. Distances are in meters.
type Config struct {
	FieldWidth  float64
	FieldLength float64
	GoalWidth   float64
	GoalHeight  float64
	GoalDepth   float64
	BallRadius  float64
	WallHeight  float64

	BallMass       float64
	Gravity        float64
	Restitution    float64 // walls and ground
	NetRestitution float64 // goal nets swallow most of the energy
	LinearDamping  float64
	AngularDamping float64
	GroundFriction float64
}

func DefaultConfig() Config {
	return Config{
		FieldWidth:  50,
		FieldLength: 90,
		GoalWidth:   12,
		GoalHeight:  4,
		GoalDepth:   3,
		BallRadius:  0.22,
		WallHeight:  20,

		BallMass:       0.45,
		Gravity:        -9.81,
		Restitution:    0.65,
		NetRestitution: 0.05,
		LinearDamping:  0.25,
		AngularDamping: 0.6,
		GroundFriction: 1.8,
	}
}

// BallState is the kinematic triple exposed to the room.
type BallState struct {
	Position        Vec3
	Velocity        Vec3
	AngularVelocity Vec3
}

type boxCollider struct {
	min, max    Vec3
	category    uint16
	restitution float64
}

// playerProxy is a zero-mass kinematic sphere positioned from client
// telemetry. It pushes the ball but is never pushed itself.
type playerProxy struct {
	position Vec3
	velocity Vec3
	radius   float64
}

type World struct {
	cfg     Config
	ball    BallState
	statics []boxCollider
	proxies map[string]*playerProxy
}

// NewWorld builds the static field geometry once: ground plane, perimeter
// walls with a gap at each goal mouth, goal-net colliders, and the two
// team-identifier colliders outside the touchlines.
func NewWorld(cfg Config) *World {
	w := &World{
		cfg:     cfg,
		proxies: make(map[string]*playerProxy),
	}
	w.ball = BallState{Position: Vec3{Y: cfg.BallRadius}}
	w.buildStatics()
	return w
}

func (w *World) buildStatics() {
	cfg := w.cfg
	halfW := cfg.FieldWidth / 2
	halfL := cfg.FieldLength / 2
	halfGoal := cfg.GoalWidth / 2
	const thickness = 0.5

	wall := func(min, max Vec3) {
		w.statics = append(w.statics, boxCollider{
			min: min, max: max,
			category:    CategoryWorld,
			restitution: cfg.Restitution,
		})
	}

	// Touchline walls run the full length of the field.
	wall(Vec3{-halfW - thickness, 0, -halfL}, Vec3{-halfW, cfg.WallHeight, halfL})
	wall(Vec3{halfW, 0, -halfL}, Vec3{halfW + thickness, cfg.WallHeight, halfL})

	// End walls leave a gap for each goal mouth, closed above the crossbar.
	for _, sign := range []float64{-1, 1} {
		zMin := sign*halfL - thickness/2
		zMax := sign*halfL + thickness/2
		wall(Vec3{-halfW, 0, zMin}, Vec3{-halfGoal, cfg.WallHeight, zMax})
		wall(Vec3{halfGoal, 0, zMin}, Vec3{halfW, cfg.WallHeight, zMax})
		wall(Vec3{-halfGoal, cfg.GoalHeight, zMin}, Vec3{halfGoal, cfg.WallHeight, zMax})
		w.buildGoalNet(sign)
	}

	// Team-identifier colliders beside each bench, outside the touchline.
	wall(Vec3{-halfW - 2, 0, -6}, Vec3{-halfW - 1, 2, -2})
	wall(Vec3{-halfW - 2, 0, 2}, Vec3{-halfW - 1, 2, 6})
}

func (w *World) buildGoalNet(sign float64) {
	cfg := w.cfg
	halfGoal := cfg.GoalWidth / 2
	halfL := cfg.FieldLength / 2
	const thickness = 0.2

	zNear := sign * halfL
	zFar := sign * (halfL + cfg.GoalDepth)
	zMin, zMax := math.Min(zNear, zFar), math.Max(zNear, zFar)

	net := func(min, max Vec3) {
		w.statics = append(w.statics, boxCollider{
			min: min, max: max,
			category:    CategoryNet,
			restitution: cfg.NetRestitution,
		})
	}

	// Back panel.
	if sign > 0 {
		net(Vec3{-halfGoal, 0, zMax}, Vec3{halfGoal, cfg.GoalHeight, zMax + thickness})
	} else {
		net(Vec3{-halfGoal, 0, zMin - thickness}, Vec3{halfGoal, cfg.GoalHeight, zMin})
	}
	// Side panels.
	net(Vec3{-halfGoal - thickness, 0, zMin}, Vec3{-halfGoal, cfg.GoalHeight, zMax})
	net(Vec3{halfGoal, 0, zMin}, Vec3{halfGoal + thickness, cfg.GoalHeight, zMax})
	// Roof panel.
	net(Vec3{-halfGoal, cfg.GoalHeight, zMin}, Vec3{halfGoal, cfg.GoalHeight + thickness, zMax})
}

func (w *World) Ball() BallState {
	return w.ball
}

func (w *World) SetBall(state BallState) {
	w.ball = state
}

// ApplyImpulse applies an instantaneous impulse to the ball at a world-space
// point, converting the offset component into spin.
func (w *World) ApplyImpulse(impulse, at Vec3) {
	mass := w.cfg.BallMass
	if mass <= 0 {
		return
	}
	w.ball.Velocity = w.ball.Velocity.Add(impulse.Scale(1 / mass))

	r := at.Sub(w.ball.Position)
	if r.Length() == 0 {
		return
	}
	// Solid-sphere inertia: I = 2/5 m r^2.
	inertia := 0.4 * mass * w.cfg.BallRadius * w.cfg.BallRadius
	if inertia > 0 {
		w.ball.AngularVelocity = w.ball.AngularVelocity.Add(r.Cross(impulse).Scale(1 / inertia))
	}
}

// UpsertProxy positions the kinematic collider for a remote-controlled
// player, deriving its velocity from the previous position so contacts
// impart momentum to the ball.
func (w *World) UpsertProxy(id string, position Vec3, dt float64) {
	proxy, ok := w.proxies[id]
	if !ok {
		w.proxies[id] = &playerProxy{position: position, radius: 0.5}
		return
	}
	if dt > 0 {
		proxy.velocity = position.Sub(proxy.position).Scale(1 / dt)
	}
	proxy.position = position
}

func (w *World) RemoveProxy(id string) {
	delete(w.proxies, id)
}

// Step advances the simulation by dt seconds: integrate gravity and damping,
// move the ball, then resolve ground, static and proxy contacts.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	cfg := w.cfg

	w.ball.Velocity.Y += cfg.Gravity * dt
	w.ball.Velocity = w.ball.Velocity.Scale(1 / (1 + cfg.LinearDamping*dt))
	w.ball.AngularVelocity = w.ball.AngularVelocity.Scale(1 / (1 + cfg.AngularDamping*dt))
	w.ball.Position = w.ball.Position.Add(w.ball.Velocity.Scale(dt))

	w.resolveGround(dt)
	for i := range w.statics {
		w.resolveBox(&w.statics[i])
	}
	for _, proxy := range w.proxies {
		w.resolveProxy(proxy)
	}
}

func (w *World) resolveGround(dt float64) {
	cfg := w.cfg
	if w.ball.Position.Y >= cfg.BallRadius {
		return
	}
	w.ball.Position.Y = cfg.BallRadius
	if w.ball.Velocity.Y < 0 {
		w.ball.Velocity.Y = -w.ball.Velocity.Y * cfg.Restitution
		if math.Abs(w.ball.Velocity.Y) < 0.1 {
			w.ball.Velocity.Y = 0
		}
	}
	// Rolling friction only applies while in ground contact.
	friction := 1 / (1 + cfg.GroundFriction*dt)
	w.ball.Velocity.X *= friction
	w.ball.Velocity.Z *= friction
}

func (w *World) resolveBox(box *boxCollider) {
	if box.category&ballCollidesWith == 0 {
		return
	}
	closest := Vec3{
		X: math.Max(box.min.X, math.Min(w.ball.Position.X, box.max.X)),
		Y: math.Max(box.min.Y, math.Min(w.ball.Position.Y, box.max.Y)),
		Z: math.Max(box.min.Z, math.Min(w.ball.Position.Z, box.max.Z)),
	}
	offset := w.ball.Position.Sub(closest)
	dist := offset.Length()
	if dist >= w.cfg.BallRadius || dist == 0 {
		return
	}
	normal := offset.Scale(1 / dist)
	w.ball.Position = closest.Add(normal.Scale(w.cfg.BallRadius))

	speedAlongNormal := w.ball.Velocity.Dot(normal)
	if speedAlongNormal < 0 {
		bounce := normal.Scale(-(1 + box.restitution) * speedAlongNormal)
		w.ball.Velocity = w.ball.Velocity.Add(bounce)
	}
}

func (w *World) resolveProxy(proxy *playerProxy) {
	offset := w.ball.Position.Sub(proxy.position)
	dist := offset.Length()
	reach := w.cfg.BallRadius + proxy.radius
	if dist >= reach || dist == 0 {
		return
	}
	normal := offset.Scale(1 / dist)
	w.ball.Position = proxy.position.Add(normal.Scale(reach))

	relative := w.ball.Velocity.Sub(proxy.velocity)
	speedAlongNormal := relative.Dot(normal)
	if speedAlongNormal < 0 {
		w.ball.Velocity = w.ball.Velocity.Sub(normal.Scale(speedAlongNormal))
	}
}
