package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilekin/common"
)

// PlatformConfig describes a platform circuit. Waypoints are visited in
// order and the last one leads back to the first.
type PlatformConfig struct {
	Waypoints    []cp.Vector
	Speed        float64
	HalfExtents  cp.Vector
	CenterOffset cp.Vector
	Material     *Material
	// Wait is how long the platform rests after reaching a waypoint, in seconds.
	Wait float64
}

func (c PlatformConfig) validate() error {
	if len(c.Waypoints) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewWaypoints, len(c.Waypoints))
	}
	if !(c.Speed > 0) || math.IsInf(c.Speed, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidSpeed, c.Speed)
	}
	if !validExtents(c.HalfExtents) {
		return fmt.Errorf("%w: got (%v, %v)", ErrInvalidGeometry, c.HalfExtents.X, c.HalfExtents.Y)
	}
	if c.Wait < 0 {
		return fmt.Errorf("%w: got %v", ErrNegativeWaitTime, c.Wait)
	}
	return nil
}

// MovingPlatform follows a cyclic waypoint path at constant speed. Its
// collision box is centered at Position()+CenterOffset.
type MovingPlatform struct {
	waypoints []cp.Vector
	speed     float64
	half      cp.Vector
	offset    cp.Vector
	material  *Material
	wait      float64

	position     cp.Vector
	lastPosition cp.Vector
	next         int
	waiting      float64

	world  *PhysicsWorld
	handle Handle
}

// NewPlatform places the platform on its first waypoint, heading for the second.
func NewPlatform(cfg PlatformConfig) (*MovingPlatform, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	start := cfg.Waypoints[0]
	return &MovingPlatform{
		waypoints:    append([]cp.Vector(nil), cfg.Waypoints...),
		speed:        cfg.Speed,
		half:         cfg.HalfExtents,
		offset:       cfg.CenterOffset,
		material:     cfg.Material,
		wait:         cfg.Wait,
		position:     start,
		lastPosition: start,
		next:         1,
	}, nil
}

func (p *MovingPlatform) Position() cp.Vector     { return p.position }
func (p *MovingPlatform) HalfExtents() cp.Vector  { return p.half }
func (p *MovingPlatform) CenterOffset() cp.Vector { return p.offset }
func (p *MovingPlatform) Material() *Material     { return p.material }
func (p *MovingPlatform) Speed() float64          { return p.speed }
func (p *MovingPlatform) Handle() Handle          { return p.handle }

// NextWaypoint is the index of the waypoint the platform is heading for.
func (p *MovingPlatform) NextWaypoint() int { return p.next }

func (p *MovingPlatform) Waypoints() []cp.Vector {
	return append([]cp.Vector(nil), p.waypoints...)
}

// Center is the middle of the collision box.
func (p *MovingPlatform) Center() cp.Vector {
	return p.position.Add(p.offset)
}

// Top is the Y coordinate of the walkable surface.
func (p *MovingPlatform) Top() float64 {
	return p.Center().Y + p.half.Y
}

func (p *MovingPlatform) BB() cp.BB {
	return BBFor(p.Center(), p.half)
}

// MovementDelta is the displacement since the last LateTick. It is only
// meaningful between Tick and the following LateTick.
func (p *MovingPlatform) MovementDelta() cp.Vector {
	return p.position.Sub(p.lastPosition)
}

// Tick moves the platform toward its next waypoint, snapping onto it and
// advancing the target when this frame's travel reaches it.
func (p *MovingPlatform) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	if p.waiting > 0 {
		p.waiting -= dt
		return
	}
	target := p.waypoints[p.next]
	travel := p.speed * dt
	if p.position.Distance(target) <= travel {
		p.position = target
		p.next = (p.next + 1) % len(p.waypoints)
		p.waiting = p.wait
		return
	}
	p.position = common.MoveTowardsVector(p.position, target, travel)
}

// LateTick commits the current position as the baseline for the next delta.
func (p *MovingPlatform) LateTick() {
	p.lastPosition = p.position
}

// IsOverlapping tests a probe box centered at feet against the platform box.
func (p *MovingPlatform) IsOverlapping(feet, bodyHalf cp.Vector) bool {
	return AABBOverlap(feet, bodyHalf, p.Center(), p.half)
}

func (p *MovingPlatform) box() platformBox {
	return platformBox{center: p.Center(), half: p.half}
}
