package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilekin/common"
)

// BodyConfig carries the per-body tunables read from content.
type BodyConfig struct {
	HalfExtents     cp.Vector
	Gravity         float64
	BaseGroundAccel float64
	DefaultMaterial *Material
}

// Validate reports ErrInvalidGeometry for non-positive or infinite extents.
func (c BodyConfig) Validate() error {
	if !validExtents(c.HalfExtents) {
		return fmt.Errorf("%w: got (%v, %v)", ErrInvalidGeometry, c.HalfExtents.X, c.HalfExtents.Y)
	}
	return nil
}

// validExtents reports whether both half extents are positive and finite.
func validExtents(half cp.Vector) bool {
	return half.X > 0 && half.Y > 0 && !math.IsInf(half.X, 0) && !math.IsInf(half.Y, 0)
}

var (
	axisX = cp.Vector{X: 1}
	axisY = cp.Vector{Y: 1}
)

// KinematicBody is an actor moved by explicit velocity integration and
// axis-separated collision correction. All of its state changes inside Tick,
// the carry and landing phases of its PhysicsWorld, or the setters below.
type KinematicBody struct {
	position cp.Vector
	half     cp.Vector
	velocity cp.Vector
	grounded bool
	// reported is the grounded state last published as an event.
	reported bool

	gravity   float64
	baseAccel float64
	moveInput float64
	reqSpeed  float64

	defaultMaterial *Material
	material        *Material
	forced          bool

	world  *PhysicsWorld
	handle Handle
}

// NewBody rejects non-positive half extents before the body can be attached anywhere.
func NewBody(position cp.Vector, cfg BodyConfig) (*KinematicBody, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &KinematicBody{
		position:        position,
		half:            cfg.HalfExtents,
		gravity:         cfg.Gravity,
		baseAccel:       cfg.BaseGroundAccel,
		defaultMaterial: cfg.DefaultMaterial,
		material:        cfg.DefaultMaterial,
	}, nil
}

// ApplyConfig replaces the tunables of a live body, e.g. after a hot reload.
// Position, velocity and contact state are kept.
func (b *KinematicBody) ApplyConfig(cfg BodyConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.half = cfg.HalfExtents
	b.gravity = cfg.Gravity
	b.baseAccel = cfg.BaseGroundAccel
	if !b.forced || b.material == b.defaultMaterial {
		b.material = cfg.DefaultMaterial
	}
	b.defaultMaterial = cfg.DefaultMaterial
	return nil
}

func (b *KinematicBody) Position() cp.Vector    { return b.position }
func (b *KinematicBody) Velocity() cp.Vector    { return b.velocity }
func (b *KinematicBody) HalfExtents() cp.Vector { return b.half }
func (b *KinematicBody) Grounded() bool         { return b.grounded }
func (b *KinematicBody) Gravity() float64       { return b.gravity }
func (b *KinematicBody) Handle() Handle         { return b.handle }

// Feet is the Y coordinate of the bottom edge.
func (b *KinematicBody) Feet() float64 {
	return b.position.Y - b.half.Y
}

func (b *KinematicBody) BB() cp.BB {
	return BBFor(b.position, b.half)
}

// Material is the surface material currently affecting the body; nil means
// no default was configured.
func (b *KinematicBody) Material() *Material {
	return b.material
}

func (b *KinematicBody) DefaultMaterial() *Material {
	return b.defaultMaterial
}

// MoveInput returns the last recorded direction and requested speed.
func (b *KinematicBody) MoveInput() (dir, speed float64) {
	return b.moveInput, b.reqSpeed
}

// SetPosition teleports the body. Contact state is left for the next Tick.
func (b *KinematicBody) SetPosition(p cp.Vector) {
	b.position = p
}

// SetMoveInput records horizontal intent; the body moves on its next Tick.
func (b *KinematicBody) SetMoveInput(dir, speed float64) {
	if math.IsNaN(dir) {
		dir = 0
	}
	if math.IsNaN(speed) {
		speed = 0
	}
	b.moveInput = common.Clamp(dir, -1, 1)
	b.reqSpeed = math.Abs(speed)
}

// MoveHoriz is SetMoveInput under the name older movers use.
func (b *KinematicBody) MoveHoriz(dir, speed float64) {
	b.SetMoveInput(dir, speed)
}

// Jump sets the vertical velocity when grounded and not already rising. It
// reports whether it did. Contact state is left to the next Tick.
func (b *KinematicBody) Jump(speed float64) bool {
	if !b.grounded || b.velocity.Y > 0 || speed <= 0 {
		return false
	}
	b.velocity.Y = speed
	return true
}

// SetSurfaceMaterial forces a material, typically from a platform the body
// stands on. nil restores the default.
func (b *KinematicBody) SetSurfaceMaterial(m *Material) {
	if m == nil {
		b.ResetSurfaceMaterial()
		return
	}
	b.material = m
	b.forced = true
}

func (b *KinematicBody) ResetSurfaceMaterial() {
	b.material = b.defaultMaterial
	b.forced = false
}

// Friction of the current material, or the engine default without one.
func (b *KinematicBody) Friction() float64 {
	return b.frictionWith(b.config())
}

func (b *KinematicBody) frictionWith(cfg Config) float64 {
	if b.material == nil {
		return cfg.DefaultFriction
	}
	return b.material.Friction()
}

// Acceleration is the horizontal acceleration the next Tick will apply.
func (b *KinematicBody) Acceleration() float64 {
	return b.accelerationWith(b.config())
}

func (b *KinematicBody) accelerationWith(cfg Config) float64 {
	accel := common.Lerp(cfg.LowFrictionAccel, b.baseAccel, b.frictionWith(cfg))
	if !b.grounded {
		accel *= cfg.AirControl
	}
	return accel
}

// Tick advances the body by dt against the tiles and platforms of its
// world. A detached body falls through an empty world.
func (b *KinematicBody) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	env := b.env()

	b.sampleMaterial(env)

	target := b.moveInput * b.reqSpeed
	b.velocity.X = common.MoveTowards(b.velocity.X, target, b.accelerationWith(env.cfg)*dt)

	b.velocity.Y += b.gravity * dt

	b.grounded = false

	b.velocity.X = b.moveAxis(axisX, b.velocity.X, dt, env)
	b.velocity.Y = b.moveAxis(axisY, b.velocity.Y, dt, env)
}

func (b *KinematicBody) sampleMaterial(env tickEnv) {
	if !b.grounded {
		b.material = b.defaultMaterial
		b.forced = false
		return
	}
	probe := cp.Vector{X: b.position.X, Y: b.position.Y - (b.half.Y + env.cfg.MaterialProbe)}
	if m := tilesMaterial(env.tiles, probe); m != nil {
		b.material = m
		b.forced = false
		return
	}
	if b.forced {
		return
	}
	b.material = b.defaultMaterial
}

func tilesMaterial(t Tiles, p cp.Vector) *Material {
	if t == nil {
		return nil
	}
	return t.GetMaterial(p)
}

// moveAxis advances the body along one axis in SubStep increments and
// returns the velocity left on that axis: unchanged when the full distance
// was covered, zero when something blocked it.
func (b *KinematicBody) moveAxis(axis cp.Vector, v, dt float64, env tickEnv) float64 {
	move := v * dt
	if move == 0 || math.IsNaN(move) {
		return v
	}
	dir := common.Sign(move)
	rest := math.Abs(move)

	for rest > 0 {
		step := math.Min(env.cfg.SubStep, rest)
		next := b.position.Add(axis.Mult(step * dir))
		if b.blocked(next, env) {
			b.position = b.backOff(axis, dir, step, env)
			if axis == axisY && dir < 0 {
				b.grounded = true
			}
			return 0
		}
		b.position = next
		rest -= step
	}
	return v
}

// backOff walks a blocked increment back toward the committed position in
// BackOff steps and returns the first clear point. The committed position
// itself is tested exactly. A body that was already overlapping is pushed
// against its travel by at most MaxDepenetration; if that does not clear
// it, it stays where it was.
func (b *KinematicBody) backOff(axis cp.Vector, dir, step float64, env tickEnv) cp.Vector {
	start := b.position
	for k := 1; ; k++ {
		offset := step - float64(k)*env.cfg.BackOff
		if offset <= 0 {
			break
		}
		candidate := start.Add(axis.Mult(offset * dir))
		if !b.blocked(candidate, env) {
			return candidate
		}
	}
	if !b.blocked(start, env) {
		return start
	}
	for k := 1; float64(k)*env.cfg.BackOff <= env.cfg.MaxDepenetration; k++ {
		candidate := start.Sub(axis.Mult(float64(k) * env.cfg.BackOff * dir))
		if !b.blocked(candidate, env) {
			return candidate
		}
	}
	return start
}

func (b *KinematicBody) blocked(center cp.Vector, env tickEnv) bool {
	return edgesSolid(env.tiles, center, b.half) || overlapsAnyPlatform(center, b.half, env.platforms)
}

// landOn snaps the body onto a platform top during landing interception.
func (b *KinematicBody) landOn(top float64, m *Material) {
	b.position.Y = top + b.half.Y
	b.velocity.Y = 0
	b.grounded = true
	b.SetSurfaceMaterial(m)
}

func (b *KinematicBody) translate(delta cp.Vector) {
	b.position = b.position.Add(delta)
}

func (b *KinematicBody) env() tickEnv {
	if b.world == nil {
		return tickEnv{cfg: DefaultConfig()}
	}
	return b.world.collisionEnv()
}

func (b *KinematicBody) config() Config {
	if b.world == nil {
		return DefaultConfig()
	}
	return b.world.cfg
}
