package debugdraw

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Camera maps Y-up world units to Y-down screen pixels. X and Y are the
// world position of the bottom-left corner of the view.
type Camera struct {
	X, Y    float64
	Zoom    float64
	ScreenW float64
	ScreenH float64
}

// NewCamera returns a camera for a screen of the given size showing
// pixelsPerUnit pixels per world unit.
func NewCamera(screenW, screenH, pixelsPerUnit float64) Camera {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	return Camera{Zoom: pixelsPerUnit, ScreenW: screenW, ScreenH: screenH}
}

// ToScreen converts a world point to screen pixels.
func (c Camera) ToScreen(v cp.Vector) (float32, float32) {
	x := (v.X - c.X) * c.Zoom
	y := c.ScreenH - (v.Y-c.Y)*c.Zoom
	return float32(x), float32(y)
}

// ToWorld is the inverse of ToScreen.
func (c Camera) ToWorld(x, y float64) cp.Vector {
	return cp.Vector{
		X: x/c.Zoom + c.X,
		Y: (c.ScreenH-y)/c.Zoom + c.Y,
	}
}

// Rect converts a world box to a screen rectangle: top-left corner and size.
func (c Camera) Rect(bb cp.BB) (x, y, w, h float32) {
	x, y = c.ToScreen(cp.Vector{X: bb.L, Y: bb.T})
	w = float32((bb.R - bb.L) * c.Zoom)
	h = float32((bb.T - bb.B) * c.Zoom)
	return x, y, w, h
}

// View is the world box visible on screen.
func (c Camera) View() cp.BB {
	return cp.BB{
		L: c.X,
		B: c.Y,
		R: c.X + c.ScreenW/c.Zoom,
		T: c.Y + c.ScreenH/c.Zoom,
	}
}

// Follow centres the view on target, kept inside bounds. A bounds axis
// smaller than the view is centred instead.
func (c Camera) Follow(target cp.Vector, bounds cp.BB) Camera {
	viewW := c.ScreenW / c.Zoom
	viewH := c.ScreenH / c.Zoom
	c.X = followAxis(target.X, viewW, bounds.L, bounds.R)
	c.Y = followAxis(target.Y, viewH, bounds.B, bounds.T)
	return c
}

func followAxis(target, view, lo, hi float64) float64 {
	if hi-lo <= view {
		return lo - (view-(hi-lo))/2
	}
	return math.Max(lo, math.Min(target-view/2, hi-view))
}

// Fit returns a camera whose zoom shows all of bounds.
func Fit(bounds cp.BB, screenW, screenH float64) Camera {
	w := bounds.R - bounds.L
	h := bounds.T - bounds.B
	zoom := 1.0
	if w > 0 && h > 0 {
		zoom = math.Min(screenW/w, screenH/h)
	}
	c := NewCamera(screenW, screenH, zoom)
	return c.Follow(bounds.Center(), bounds)
}
