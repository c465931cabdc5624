package debugdraw

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilekin/levels"
	"github.com/milk9111/tilekin/prefabs"
	"github.com/milk9111/tilekin/scene"
	"golang.org/x/image/colornames"
)

const (
	debugDotSize  = 4
	outlineWidth  = 1
	waypointWidth = 1
)

var (
	layerFallback   = []color.Color{colornames.Steelblue, colornames.Powderblue, colornames.Sienna, colornames.Olivedrab}
	groundedOutline = colornames.Lime
	airborneOutline = colornames.Orange
	platformFill    = colornames.Slategray
	waypointColor   = colornames.Lightgrey
	bodyFill        = colornames.Crimson
)

// Options selects the optional overlays.
type Options struct {
	Waypoints bool
	HUD       bool
}

// DrawScene draws the tile layers, platforms and bodies of s.
func DrawScene(screen *ebiten.Image, cam Camera, s *scene.Scene, opts Options) {
	if screen == nil || s == nil {
		return
	}
	DrawLevel(screen, cam, s.Level)
	for _, p := range s.Platforms() {
		if opts.Waypoints {
			drawWaypoints(screen, cam, p.Platform.Waypoints())
		}
		fill := specColor(p.Spec.Color, platformFill)
		x, y, w, h := cam.Rect(p.Platform.BB())
		vector.FillRect(screen, x, y, w, h, fill, false)
	}
	for _, a := range s.Actors() {
		drawActor(screen, cam, a)
	}
	if opts.HUD {
		ebitenutil.DebugPrintAt(screen, HUD(s), 10, 10)
	}
}

// DrawLevel fills every cell of every layer that has a colour or takes part
// in physics. Decoration layers without a colour are skipped.
func DrawLevel(screen *ebiten.Image, cam Camera, lvl *levels.Level) {
	if screen == nil || lvl == nil {
		return
	}
	view := cam.View()
	for i, meta := range lvl.LayerMeta {
		if i >= len(lvl.Layers) {
			break
		}
		if meta.Color == "" && !meta.Physics {
			continue
		}
		fill := LayerColor(meta, i)
		for row := 0; row < lvl.Height; row++ {
			for col := 0; col < lvl.Width; col++ {
				if lvl.TileValueAt(i, col, row) == 0 {
					continue
				}
				center := lvl.CellCenter(col, row)
				half := lvl.CellSize / 2
				bb := cp.NewBBForExtents(center, half, half)
				if !bb.Intersects(view) {
					continue
				}
				x, y, w, h := cam.Rect(bb)
				vector.FillRect(screen, x, y, w, h, fill, false)
			}
		}
	}
}

// LayerColor is the layer's configured colour, or a fallback by index when
// it has none or it does not parse.
func LayerColor(meta levels.LayerMeta, index int) color.Color {
	if meta.Color != "" {
		if c, err := prefabs.ParseHexColor(meta.Color); err == nil {
			return c
		}
	}
	return layerFallback[index%len(layerFallback)]
}

func specColor(c *prefabs.YAMLColor, fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func drawActor(screen *ebiten.Image, cam Camera, a *scene.Actor) {
	x, y, w, h := cam.Rect(a.Body.BB())
	vector.FillRect(screen, x, y, w, h, specColor(a.Spec.Color, bodyFill), false)

	outline := airborneOutline
	if a.Body.Grounded() {
		outline = groundedOutline
	}
	vector.StrokeRect(screen, x, y, w, h, outlineWidth, outline, false)

	// velocity tick from the centre
	cx, cy := cam.ToScreen(a.Body.Position())
	vx, vy := cam.ToScreen(a.Body.Position().Add(a.Body.Velocity().Mult(0.1)))
	vector.StrokeLine(screen, cx, cy, vx, vy, outlineWidth, outline, true)
}

func drawWaypoints(screen *ebiten.Image, cam Camera, points []cp.Vector) {
	for i, p := range points {
		next := points[(i+1)%len(points)]
		x1, y1 := cam.ToScreen(p)
		x2, y2 := cam.ToScreen(next)
		vector.StrokeLine(screen, x1, y1, x2, y2, waypointWidth, waypointColor, true)
		vector.FillRect(screen, x1-debugDotSize/2, y1-debugDotSize/2, debugDotSize, debugDotSize, waypointColor, false)
	}
}

// HUD is the text overlay: tick count, checksum and the player's state.
func HUD(s *scene.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %d  checksum %016x\n", s.World.Ticks(), s.World.Checksum())
	if p := s.Player(); p != nil {
		pos := p.Body.Position()
		vel := p.Body.Velocity()
		fmt.Fprintf(&b, "pos (%.2f, %.2f)  vel (%.2f, %.2f)\n", pos.X, pos.Y, vel.X, vel.Y)
		fmt.Fprintf(&b, "grounded %v  material %s  friction %.2f\n", p.Body.Grounded(), p.Body.Material(), p.Body.Friction())
	}
	return b.String()
}
