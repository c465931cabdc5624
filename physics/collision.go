package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// AABBOverlap reports whether two center/half-extent boxes intersect.
// Touching edges count as overlapping.
func AABBOverlap(centerA, halfA, centerB, halfB cp.Vector) bool {
	overlapX := math.Abs(centerA.X-centerB.X) <= halfA.X+halfB.X
	overlapY := math.Abs(centerA.Y-centerB.Y) <= halfA.Y+halfB.Y
	return overlapX && overlapY
}

// BBFor converts a center/half-extent box to chipmunk's edge form.
func BBFor(center, half cp.Vector) cp.BB {
	return cp.NewBBForExtents(center, half.X, half.Y)
}

// ResolveTilemapCollision moves a box from oldCenter toward desiredCenter
// one axis at a time, X first. Each axis move is kept only when all four
// corners of the moved box are clear. Obstacles thinner than the gap between
// two corners are not seen.
func ResolveTilemapCollision(world Tiles, desiredCenter, halfSize, oldCenter cp.Vector) cp.Vector {
	corrected := oldCenter

	tryX := cp.Vector{X: desiredCenter.X, Y: corrected.Y}
	if !cornersSolid(world, tryX, halfSize) {
		corrected.X = tryX.X
	}

	tryY := cp.Vector{X: corrected.X, Y: desiredCenter.Y}
	if !cornersSolid(world, tryY, halfSize) {
		corrected.Y = tryY.Y
	}

	return corrected
}

func cornersSolid(world Tiles, center, half cp.Vector) bool {
	if world == nil {
		return false
	}
	minX, maxX := center.X-half.X, center.X+half.X
	minY, maxY := center.Y-half.Y, center.Y+half.Y
	return world.IsSolid(cp.Vector{X: minX, Y: maxY}) ||
		world.IsSolid(cp.Vector{X: maxX, Y: maxY}) ||
		world.IsSolid(cp.Vector{X: minX, Y: minY}) ||
		world.IsSolid(cp.Vector{X: maxX, Y: minY})
}

// edgesSolid samples three points down each vertical edge of the box:
// bottom, middle and top.
func edgesSolid(world Tiles, center, half cp.Vector) bool {
	if world == nil {
		return false
	}
	minX, maxX := center.X-half.X, center.X+half.X
	minY, maxY := center.Y-half.Y, center.Y+half.Y
	midY := (minY + maxY) * 0.5

	if world.IsSolid(cp.Vector{X: minX, Y: minY}) ||
		world.IsSolid(cp.Vector{X: minX, Y: midY}) ||
		world.IsSolid(cp.Vector{X: minX, Y: maxY}) {
		return true
	}
	return world.IsSolid(cp.Vector{X: maxX, Y: minY}) ||
		world.IsSolid(cp.Vector{X: maxX, Y: midY}) ||
		world.IsSolid(cp.Vector{X: maxX, Y: maxY})
}

// platformBox is the collision view of a platform for one tick.
type platformBox struct {
	center cp.Vector
	half   cp.Vector
}

func overlapsAnyPlatform(center, half cp.Vector, platforms []platformBox) bool {
	for _, p := range platforms {
		if AABBOverlap(center, half, p.center, p.half) {
			return true
		}
	}
	return false
}
