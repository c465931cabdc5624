package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
)

//go:embed *.json
var LevelsFS embed.FS

const DefaultCellSize = 1.0

var (
	ErrInvalidLevel    = errors.New("levels: invalid level")
	ErrUnknownMaterial = errors.New("levels: unknown material")
)

// Level is a tile map stored as JSON. Each layer is a flat row-major array
// of Width*Height cells, row 0 at the top. A non-zero value marks an
// occupied cell.
type Level struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	CellSize  float64     `json:"cell_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

// LayerMeta says how a layer takes part in the simulation. A layer may be
// solid, carry a material, both, or neither (decoration).
type LayerMeta struct {
	Name     string `json:"name,omitempty"`
	Physics  bool   `json:"physics"`
	Material string `json:"material,omitempty"`
	Color    string `json:"color,omitempty"`
}

type EntityType string

const (
	EntityPlayer   EntityType = "player"
	EntityBody     EntityType = "body"
	EntityPlatform EntityType = "platform"
)

// Entity places a prefab on the grid. X and Y are a column and a row.
type Entity struct {
	Type   EntityType             `json:"type"`
	Name   string                 `json:"name,omitempty"`
	Prefab string                 `json:"prefab"`
	X      int                    `json:"x"`
	Y      int                    `json:"y"`
	Script string                 `json:"script,omitempty"`
	Path   []GridPoint            `json:"path,omitempty"`
	Props  map[string]interface{} `json:"props,omitempty"`
}

type GridPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LoadLevelFromFS loads a level by name (basename, .json optional). A copy
// under levels/ on disk takes precedence over the embedded one.
func LoadLevelFromFS(name string) (*Level, error) {
	clean := cleanLevelName(name)
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", clean, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", clean, err)
	}
	return lvl, nil
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	lvl.normalize()
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Names lists the embedded levels without their extension.
func Names() []string {
	matches, err := fs.Glob(LevelsFS, "*.json")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(m, ".json"))
	}
	sort.Strings(out)
	return out
}

func cleanLevelName(name string) string {
	s := path.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}

// normalize fills the optional fields: cell size and one LayerMeta per layer.
func (l *Level) normalize() {
	if l.CellSize == 0 {
		l.CellSize = DefaultCellSize
	}
	if len(l.LayerMeta) < len(l.Layers) {
		meta := make([]LayerMeta, len(l.Layers))
		copy(meta, l.LayerMeta)
		l.LayerMeta = meta
	}
	for i := range l.LayerMeta {
		if l.LayerMeta[i].Name == "" {
			l.LayerMeta[i].Name = fmt.Sprintf("layer%d", i)
		}
	}
}

func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	if !(l.CellSize > 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidLevel, l.CellSize)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %d has %d cells, want %d", ErrInvalidLevel, i, len(layer), l.Width*l.Height)
		}
	}
	for _, e := range l.Entities {
		if !l.InBounds(e.X, e.Y) {
			return fmt.Errorf("%w: entity %q at (%d,%d) is outside the map", ErrInvalidLevel, e.Name, e.X, e.Y)
		}
		switch e.Type {
		case EntityPlayer, EntityBody, EntityPlatform:
		default:
			return fmt.Errorf("%w: entity %q has unknown type %q", ErrInvalidLevel, e.Name, e.Type)
		}
		if e.Prefab == "" {
			return fmt.Errorf("%w: entity %q has no prefab", ErrInvalidLevel, e.Name)
		}
	}
	return nil
}

func (l *Level) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < l.Width && row < l.Height
}

// TileValueAt returns the value of a layer cell, 0 when out of range.
func (l *Level) TileValueAt(layer, col, row int) int {
	if l == nil || layer < 0 || layer >= len(l.Layers) || !l.InBounds(col, row) {
		return 0
	}
	return l.Layers[layer][row*l.Width+col]
}

// Cell converts a grid column and row to the Y-up cell coordinates used by
// physics layers.
func (l *Level) Cell(col, row int) (x, y int) {
	return col, l.Height - 1 - row
}

// CellCenter is the world position of the middle of a grid cell.
func (l *Level) CellCenter(col, row int) cp.Vector {
	x, y := l.Cell(col, row)
	return cp.Vector{
		X: (float64(x) + 0.5) * l.CellSize,
		Y: (float64(y) + 0.5) * l.CellSize,
	}
}

// Bounds is the world-space box covered by the grid.
func (l *Level) Bounds() cp.BB {
	return cp.BB{L: 0, B: 0, R: float64(l.Width) * l.CellSize, T: float64(l.Height) * l.CellSize}
}

// EntitiesOf returns the entities of one type in file order.
func (l *Level) EntitiesOf(t EntityType) []Entity {
	var out []Entity
	for _, e := range l.Entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Waypoints converts an entity path to world positions. An entity without
// a path yields nil.
func (l *Level) Waypoints(e Entity) []cp.Vector {
	if len(e.Path) == 0 {
		return nil
	}
	out := make([]cp.Vector, 0, len(e.Path))
	for _, p := range e.Path {
		out = append(out, l.CellCenter(p.X, p.Y))
	}
	return out
}
