package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func platformConfig(waypoints ...cp.Vector) PlatformConfig {
	return PlatformConfig{
		Waypoints:   waypoints,
		Speed:       1,
		HalfExtents: cp.Vector{X: 1, Y: 0.25},
	}
}

func TestNewPlatformValidation(t *testing.T) {
	base := platformConfig(cp.Vector{}, cp.Vector{X: 1})
	cases := []struct {
		name   string
		mutate func(*PlatformConfig)
		want   error
	}{
		{"one_waypoint", func(c *PlatformConfig) { c.Waypoints = c.Waypoints[:1] }, ErrTooFewWaypoints},
		{"zero_speed", func(c *PlatformConfig) { c.Speed = 0 }, ErrInvalidSpeed},
		{"infinite_speed", func(c *PlatformConfig) { c.Speed = math.Inf(1) }, ErrInvalidSpeed},
		{"flat_box", func(c *PlatformConfig) { c.HalfExtents.Y = 0 }, ErrInvalidGeometry},
		{"infinite_box", func(c *PlatformConfig) { c.HalfExtents.X = math.Inf(1) }, ErrInvalidGeometry},
		{"negative_wait", func(c *PlatformConfig) { c.Wait = -1 }, ErrNegativeWaitTime},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := base
			cfg.Waypoints = append([]cp.Vector(nil), base.Waypoints...)
			c.mutate(&cfg)
			p, err := NewPlatform(cfg)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
		})
	}
}

func TestPlatformStartsOnFirstWaypoint(t *testing.T) {
	p, err := NewPlatform(platformConfig(cp.Vector{X: 2, Y: 3}, cp.Vector{X: 4, Y: 3}))
	require.NoError(t, err)
	assert.Equal(t, cp.Vector{X: 2, Y: 3}, p.Position())
	assert.Equal(t, 1, p.NextWaypoint())
	assert.Equal(t, cp.Vector{}, p.MovementDelta())
}

func TestPlatformTickSnapsAndCycles(t *testing.T) {
	p, err := NewPlatform(platformConfig(cp.Vector{}, cp.Vector{X: 1}))
	require.NoError(t, err)

	want := []struct {
		x    float64
		next int
	}{
		{0.25, 1},
		{0.5, 1},
		{0.75, 1},
		{1, 0},
		{0.75, 0},
		{0.5, 0},
		{0.25, 0},
		{0, 1},
	}
	for i, w := range want {
		p.Tick(0.25)
		p.LateTick()
		require.InDelta(t, w.x, p.Position().X, 1e-12, "tick %d", i)
		require.Equal(t, w.next, p.NextWaypoint(), "tick %d", i)
	}
}

func TestPlatformFollowsEveryWaypoint(t *testing.T) {
	p, err := NewPlatform(platformConfig(cp.Vector{}, cp.Vector{X: 1}, cp.Vector{X: 1, Y: 1}))
	require.NoError(t, err)

	p.Tick(0.5)
	p.Tick(0.5)
	assert.Equal(t, cp.Vector{X: 1}, p.Position())
	assert.Equal(t, 2, p.NextWaypoint())

	p.Tick(0.5)
	p.Tick(0.5)
	assert.Equal(t, cp.Vector{X: 1, Y: 1}, p.Position())
	assert.Equal(t, 0, p.NextWaypoint(), "last waypoint leads back to the first")

	// Diagonal leg back to the origin.
	p.Tick(0.5)
	step := 0.5 / math.Sqrt2
	assert.InDelta(t, 1-step, p.Position().X, 1e-9)
	assert.InDelta(t, 1-step, p.Position().Y, 1e-9)
}

func TestPlatformMovementDelta(t *testing.T) {
	p, err := NewPlatform(platformConfig(cp.Vector{}, cp.Vector{X: 1}))
	require.NoError(t, err)

	p.Tick(0.25)
	assert.InDelta(t, 0.25, p.MovementDelta().X, 1e-12)
	p.LateTick()
	assert.Equal(t, cp.Vector{}, p.MovementDelta())
}

func TestPlatformWaitsAtWaypoint(t *testing.T) {
	cfg := platformConfig(cp.Vector{}, cp.Vector{X: 1})
	cfg.Wait = 0.5
	p, err := NewPlatform(cfg)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		p.Tick(0.25)
	}
	require.Equal(t, cp.Vector{X: 1}, p.Position())

	p.Tick(0.25)
	p.Tick(0.25)
	assert.Equal(t, cp.Vector{X: 1}, p.Position(), "resting")

	p.Tick(0.25)
	assert.InDelta(t, 0.75, p.Position().X, 1e-12)
}

func TestPlatformIsOverlapping(t *testing.T) {
	cfg := platformConfig(cp.Vector{}, cp.Vector{X: 1})
	cfg.CenterOffset = cp.Vector{Y: -0.25}
	p, err := NewPlatform(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Top())

	cases := []struct {
		name string
		feet cp.Vector
		want bool
	}{
		{"standing", cp.Vector{Y: 0.49}, true},
		{"touching", cp.Vector{Y: 0.5}, true},
		{"above", cp.Vector{Y: 0.6}, false},
		{"beside", cp.Vector{X: 1.6, Y: 0.4}, false},
		{"edge", cp.Vector{X: 1.5, Y: 0.4}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, p.IsOverlapping(c.feet, unitHalf))
		})
	}
}

func TestPlatformWaypointsAreCopied(t *testing.T) {
	wps := []cp.Vector{{}, {X: 1}}
	p, err := NewPlatform(platformConfig(wps...))
	require.NoError(t, err)

	wps[1] = cp.Vector{X: 100}
	got := p.Waypoints()
	got[0] = cp.Vector{X: -100}
	assert.Equal(t, []cp.Vector{{}, {X: 1}}, p.Waypoints())
}
