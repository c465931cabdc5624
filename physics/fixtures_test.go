package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"
)

const testDT = 0.02

var unitHalf = cp.Vector{X: 0.5, Y: 0.5}

// floorWorld has a solid floor whose top surface is y=1, spanning x in [-10, 21).
func floorWorld(t *testing.T) (*TileWorld, *GridLayer) {
	t.Helper()
	floor, err := NewGridLayer("floor", cp.Vector{}, 1)
	require.NoError(t, err)
	floor.Fill(-10, 0, 20, 0)

	tiles := NewTileWorld()
	tiles.AddSolidLayer(floor)
	return tiles, floor
}

func testBodyConfig() BodyConfig {
	return BodyConfig{
		HalfExtents:     unitHalf,
		Gravity:         -30,
		BaseGroundAccel: 50,
	}
}

func newTestBody(t *testing.T, pos cp.Vector, cfg BodyConfig) *KinematicBody {
	t.Helper()
	b, err := NewBody(pos, cfg)
	require.NoError(t, err)
	return b
}

func attachBody(t *testing.T, w *PhysicsWorld, b *KinematicBody) Handle {
	t.Helper()
	h, err := w.AttachBody(b)
	require.NoError(t, err)
	return h
}

func attachPlatform(t *testing.T, w *PhysicsWorld, cfg PlatformConfig) (*MovingPlatform, Handle) {
	t.Helper()
	p, err := NewPlatform(cfg)
	require.NoError(t, err)
	h, err := w.AttachPlatform(p)
	require.NoError(t, err)
	return p, h
}
