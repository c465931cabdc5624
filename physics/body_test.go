package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBodyRejectsInvalidGeometry(t *testing.T) {
	cases := []struct {
		name string
		half cp.Vector
	}{
		{"zero_x", cp.Vector{X: 0, Y: 1}},
		{"zero_y", cp.Vector{X: 1, Y: 0}},
		{"negative", cp.Vector{X: -1, Y: 1}},
		{"nan", cp.Vector{X: math.NaN(), Y: 1}},
		{"infinite_x", cp.Vector{X: math.Inf(1), Y: 1}},
		{"infinite_y", cp.Vector{X: 1, Y: math.Inf(1)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testBodyConfig()
			cfg.HalfExtents = c.half
			b, err := NewBody(cp.Vector{}, cfg)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, ErrInvalidGeometry), "got %v", err)
		})
	}
}

func TestBodyRestsOnFloor(t *testing.T) {
	tiles, _ := floorWorld(t)
	w := NewWorld(WithTiles(tiles))
	start := cp.Vector{X: 2.5, Y: 1.5}
	b := newTestBody(t, start, testBodyConfig())
	attachBody(t, w, b)

	for i := 0; i < 200; i++ {
		w.Step(testDT)
		require.True(t, b.Grounded(), "tick %d", i)
		require.InDelta(t, start.X, b.Position().X, 1e-9, "tick %d", i)
		require.InDelta(t, start.Y, b.Position().Y, 1e-9, "tick %d", i)
		require.Zero(t, b.Velocity().Y, "tick %d", i)
	}
}

func TestBodySettlesUnderGravity(t *testing.T) {
	tiles, _ := floorWorld(t)
	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 5.5}, testBodyConfig())
	attachBody(t, w, b)

	ticks := 0
	for ; ticks < 500 && !b.Grounded(); ticks++ {
		w.Step(testDT)
	}
	require.True(t, b.Grounded(), "body never landed")
	assert.Zero(t, b.Velocity().Y)

	feet := b.Feet()
	assert.GreaterOrEqual(t, feet, 1.0)
	assert.LessOrEqual(t, feet, 1.0+DefaultBackOff+1e-9)

	// Once down it stays down.
	for i := 0; i < 50; i++ {
		w.Step(testDT)
		require.True(t, b.Grounded())
		require.InDelta(t, feet, b.Feet(), 1e-9)
	}
}

func TestBodyStopsAtWall(t *testing.T) {
	tiles, _ := floorWorld(t)
	wall, err := NewGridLayer("wall", cp.Vector{}, 1)
	require.NoError(t, err)
	wall.Fill(5, 1, 5, 4)
	tiles.AddSolidLayer(wall)

	w := NewWorld(WithTiles(tiles))
	cfg := testBodyConfig()
	cfg.BaseGroundAccel = 1000
	b := newTestBody(t, cp.Vector{X: 3.5, Y: 1.5}, cfg)
	attachBody(t, w, b)
	b.SetMoveInput(1, 5)

	contact := false
	for i := 0; i < 200; i++ {
		w.Step(testDT)
		right := b.Position().X + b.HalfExtents().X
		require.Less(t, right, 5.0, "tick %d: body crossed the wall", i)
		if b.Velocity().X == 0 {
			contact = true
			assert.GreaterOrEqual(t, right, 5.0-DefaultBackOff-1e-9)
			break
		}
	}
	require.True(t, contact, "body never reached the wall")
}

func TestBodyHitsCeiling(t *testing.T) {
	tiles, _ := floorWorld(t)
	ceiling, err := NewGridLayer("ceiling", cp.Vector{}, 1)
	require.NoError(t, err)
	ceiling.Fill(-10, 3, 20, 3)
	tiles.AddSolidLayer(ceiling)

	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
	attachBody(t, w, b)
	w.Step(testDT)
	require.True(t, b.Jump(20))

	hit := false
	for i := 0; i < 50; i++ {
		w.Step(testDT)
		if b.Velocity().Y == 0 {
			hit = true
			top := b.Position().Y + b.HalfExtents().Y
			assert.Less(t, top, 3.0)
			assert.GreaterOrEqual(t, top, 3.0-DefaultBackOff-1e-9)
			assert.False(t, b.Grounded())
			break
		}
	}
	require.True(t, hit, "body never reached the ceiling")
}

func TestBodyAccelerationScalesWithFriction(t *testing.T) {
	cases := []struct {
		name     string
		friction float64
		want     float64
	}{
		{"frictionless", 0, 10},
		{"quarter", 0.25, 20},
		{"half", 0.5, 30},
		{"full", 1, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tiles, _ := floorWorld(t)
			surface, err := NewGridLayer("surface", cp.Vector{}, 1)
			require.NoError(t, err)
			surface.Fill(-10, 0, 20, 0)
			m := MustMaterial(c.name, c.friction, SurfaceNormal)
			tiles.AddMaterialLayer(surface, m)

			w := NewWorld(WithTiles(tiles))
			b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
			attachBody(t, w, b)

			w.Step(testDT)
			w.Step(testDT)
			require.Same(t, m, b.Material())
			assert.InDelta(t, c.want, b.Acceleration(), 1e-9)

			b.SetMoveInput(1, 100)
			w.Step(testDT)
			assert.InDelta(t, c.want*testDT, b.Velocity().X, 1e-9)
		})
	}
}

func TestBodyAirborneAcceleration(t *testing.T) {
	b := newTestBody(t, cp.Vector{Y: 10}, testBodyConfig())
	b.SetMoveInput(1, 100)
	b.Tick(testDT)

	// lerp(10, 50, 0.5) scaled by air control.
	assert.InDelta(t, 30*DefaultAirControl*testDT, b.Velocity().X, 1e-9)
	assert.False(t, b.Grounded())
}

func TestBodyVelocityDoesNotOvershootTarget(t *testing.T) {
	cfg := testBodyConfig()
	cfg.BaseGroundAccel = 1e6
	b := newTestBody(t, cp.Vector{Y: 10}, cfg)
	b.SetMoveInput(1, 2)
	b.Tick(testDT)
	assert.Equal(t, 2.0, b.Velocity().X)

	b.SetMoveInput(0, 2)
	b.Tick(testDT)
	assert.Equal(t, 0.0, b.Velocity().X)
}

func TestDetachedBodyFallsThroughEmptyWorld(t *testing.T) {
	b := newTestBody(t, cp.Vector{Y: 5}, testBodyConfig())
	for i := 0; i < 10; i++ {
		b.Tick(testDT)
	}
	assert.False(t, b.Grounded())
	assert.Less(t, b.Position().Y, 5.0)
	assert.InDelta(t, -30*10*testDT, b.Velocity().Y, 1e-9)
}

func TestSetMoveInput(t *testing.T) {
	cases := []struct {
		name               string
		dir, speed         float64
		wantDir, wantSpeed float64
	}{
		{"plain", -1, 4, -1, 4},
		{"clamped_dir", 3, 4, 1, 4},
		{"negative_speed", 0.5, -4, 0.5, 4},
		{"nan", math.NaN(), math.NaN(), 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newTestBody(t, cp.Vector{}, testBodyConfig())
			b.SetMoveInput(c.dir, c.speed)
			dir, speed := b.MoveInput()
			assert.Equal(t, c.wantDir, dir)
			assert.Equal(t, c.wantSpeed, speed)
		})
	}
}

func TestBodyJump(t *testing.T) {
	tiles, _ := floorWorld(t)
	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
	attachBody(t, w, b)

	assert.False(t, b.Jump(10), "not grounded before the first step")

	w.Step(testDT)
	require.True(t, b.Grounded())
	assert.False(t, b.Jump(0))
	assert.True(t, b.Jump(10))
	assert.Equal(t, 10.0, b.Velocity().Y)
	assert.True(t, b.Grounded(), "contact changes only inside Tick")
	assert.False(t, b.Jump(12), "no double jump while rising")
	assert.Equal(t, 10.0, b.Velocity().Y)

	w.Step(testDT)
	assert.False(t, b.Grounded())
	assert.Greater(t, b.Position().Y, 1.5)
}

func TestJumpTickUsesGroundAcceleration(t *testing.T) {
	tiles, _ := floorWorld(t)
	surface, err := NewGridLayer("stone", cp.Vector{}, 1)
	require.NoError(t, err)
	surface.Fill(-10, 0, 20, 0)
	stone := MustMaterial("stone", 0.5, SurfaceNormal)
	tiles.AddMaterialLayer(surface, stone)

	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
	attachBody(t, w, b)
	w.Step(testDT)
	require.True(t, b.Grounded())
	require.Zero(t, b.Velocity().X)

	b.SetMoveInput(1, 100)
	require.True(t, b.Jump(10))
	w.Step(testDT)

	// lerp(10, 50, 0.5) = 30 with no air control factor
	assert.InDelta(t, 30*testDT, b.Velocity().X, 1e-9)
	assert.Same(t, stone, b.Material(), "jump tick still samples the ground")
	assert.False(t, b.Grounded())
}

func TestBodyMaterialResetsWhenAirborne(t *testing.T) {
	tiles, _ := floorWorld(t)
	surface, err := NewGridLayer("ice", cp.Vector{}, 1)
	require.NoError(t, err)
	surface.Fill(-10, 0, 20, 0)
	ice := MustMaterial("ice", 0.05, SurfaceIce)
	tiles.AddMaterialLayer(surface, ice)

	stone := MustMaterial("stone", 0.8, SurfaceNormal)
	cfg := testBodyConfig()
	cfg.DefaultMaterial = stone

	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, cfg)
	attachBody(t, w, b)
	assert.Same(t, stone, b.Material())

	w.Step(testDT)
	w.Step(testDT)
	require.Same(t, ice, b.Material())

	require.True(t, b.Jump(8))
	w.Step(testDT)
	assert.Same(t, stone, b.Material())
}

func TestForcedMaterialPersistsWhileGrounded(t *testing.T) {
	tiles, _ := floorWorld(t)
	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
	attachBody(t, w, b)
	w.Step(testDT)

	ice := MustMaterial("ice", 0.05, SurfaceIce)
	b.SetSurfaceMaterial(ice)
	for i := 0; i < 5; i++ {
		w.Step(testDT)
		require.Same(t, ice, b.Material(), "tick %d", i)
	}
	assert.InDelta(t, 10+40*0.05, b.Acceleration(), 1e-9)

	require.True(t, b.Jump(8))
	w.Step(testDT)
	assert.Nil(t, b.Material())
	assert.InDelta(t, DefaultFriction, b.Friction(), 1e-12)
}

func TestTileMaterialOverridesForcedMaterial(t *testing.T) {
	tiles, _ := floorWorld(t)
	surface, err := NewGridLayer("mud", cp.Vector{}, 1)
	require.NoError(t, err)
	surface.Fill(-10, 0, 20, 0)
	mud := MustMaterial("mud", 0.9, SurfaceMud)
	tiles.AddMaterialLayer(surface, mud)

	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
	attachBody(t, w, b)
	w.Step(testDT)

	b.SetSurfaceMaterial(MustMaterial("ice", 0.05, SurfaceIce))
	w.Step(testDT)
	assert.Same(t, mud, b.Material())
}

func TestApplyConfigKeepsState(t *testing.T) {
	tiles, _ := floorWorld(t)
	w := NewWorld(WithTiles(tiles))
	b := newTestBody(t, cp.Vector{X: 2.5, Y: 1.5}, testBodyConfig())
	attachBody(t, w, b)
	w.Step(testDT)

	cfg := testBodyConfig()
	cfg.Gravity = -10
	cfg.BaseGroundAccel = 80
	require.NoError(t, b.ApplyConfig(cfg))
	assert.Equal(t, -10.0, b.Gravity())
	assert.True(t, b.Grounded())
	assert.Equal(t, cp.Vector{X: 2.5, Y: 1.5}, b.Position())

	cfg.HalfExtents = cp.Vector{}
	assert.ErrorIs(t, b.ApplyConfig(cfg), ErrInvalidGeometry)
}
