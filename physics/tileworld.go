package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// Tiles is the read-only spatial oracle bodies query while they move.
type Tiles interface {
	IsSolid(p cp.Vector) bool
	GetMaterial(p cp.Vector) *Material
}

// Cell addresses one grid square of a layer.
type Cell struct {
	X, Y int
}

// GridLayer is a sparse set of occupied cells. World space is Y-up; cell
// (x, y) covers [origin.X+x*size, origin.X+(x+1)*size) horizontally and the
// same half-open span vertically.
type GridLayer struct {
	name     string
	origin   cp.Vector
	cellSize float64
	cells    map[Cell]struct{}
}

func NewGridLayer(name string, origin cp.Vector, cellSize float64) (*GridLayer, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: layer %q has %v", ErrInvalidCellSize, name, cellSize)
	}
	return &GridLayer{
		name:     name,
		origin:   origin,
		cellSize: cellSize,
		cells:    make(map[Cell]struct{}),
	}, nil
}

func (l *GridLayer) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

func (l *GridLayer) CellSize() float64 {
	if l == nil {
		return 0
	}
	return l.cellSize
}

func (l *GridLayer) Origin() cp.Vector {
	if l == nil {
		return cp.Vector{}
	}
	return l.origin
}

// CellAt maps a world point to the cell containing it.
func (l *GridLayer) CellAt(p cp.Vector) Cell {
	return Cell{
		X: int(math.Floor((p.X - l.origin.X) / l.cellSize)),
		Y: int(math.Floor((p.Y - l.origin.Y) / l.cellSize)),
	}
}

// CellBB returns the world-space box covered by a cell.
func (l *GridLayer) CellBB(c Cell) cp.BB {
	left := l.origin.X + float64(c.X)*l.cellSize
	bottom := l.origin.Y + float64(c.Y)*l.cellSize
	return cp.BB{L: left, B: bottom, R: left + l.cellSize, T: bottom + l.cellSize}
}

func (l *GridLayer) Set(x, y int) {
	l.cells[Cell{X: x, Y: y}] = struct{}{}
}

func (l *GridLayer) Clear(x, y int) {
	delete(l.cells, Cell{X: x, Y: y})
}

// Fill occupies the inclusive rectangle of cells between (x0,y0) and (x1,y1).
func (l *GridLayer) Fill(x0, y0, x1, y1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			l.Set(x, y)
		}
	}
}

func (l *GridLayer) Has(x, y int) bool {
	if l == nil {
		return false
	}
	_, ok := l.cells[Cell{X: x, Y: y}]
	return ok
}

func (l *GridLayer) Occupied(p cp.Vector) bool {
	if l == nil || len(l.cells) == 0 {
		return false
	}
	_, ok := l.cells[l.CellAt(p)]
	return ok
}

func (l *GridLayer) Len() int {
	if l == nil {
		return 0
	}
	return len(l.cells)
}

// Cells calls fn for every occupied cell in no particular order.
func (l *GridLayer) Cells(fn func(Cell)) {
	if l == nil || fn == nil {
		return
	}
	for c := range l.cells {
		fn(c)
	}
}

type surfaceLayer struct {
	layer    *GridLayer
	material *Material
}

// TileWorld combines solid layers and material layers. The zero value and
// a nil *TileWorld both answer "not solid, no material".
type TileWorld struct {
	solid    []*GridLayer
	surfaces []surfaceLayer
}

func NewTileWorld() *TileWorld {
	return &TileWorld{}
}

func (w *TileWorld) AddSolidLayer(l *GridLayer) {
	if w == nil || l == nil {
		return
	}
	w.solid = append(w.solid, l)
}

// AddMaterialLayer registers a friction lookup layer. Lookups scan layers in
// the order they were added.
func (w *TileWorld) AddMaterialLayer(l *GridLayer, m *Material) {
	if w == nil || l == nil || m == nil {
		return
	}
	w.surfaces = append(w.surfaces, surfaceLayer{layer: l, material: m})
}

func (w *TileWorld) SolidLayers() []*GridLayer {
	if w == nil {
		return nil
	}
	return append([]*GridLayer(nil), w.solid...)
}

func (w *TileWorld) IsSolid(p cp.Vector) bool {
	if w == nil {
		return false
	}
	for _, l := range w.solid {
		if l.Occupied(p) {
			return true
		}
	}
	return false
}

func (w *TileWorld) GetMaterial(p cp.Vector) *Material {
	if w == nil {
		return nil
	}
	for _, s := range w.surfaces {
		if s.layer.Occupied(p) {
			return s.material
		}
	}
	return nil
}

// Empty reports whether no layer of any kind is configured.
func (w *TileWorld) Empty() bool {
	return w == nil || (len(w.solid) == 0 && len(w.surfaces) == 0)
}
