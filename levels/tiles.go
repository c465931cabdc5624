package levels

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilekin/physics"
)

// GridLayer builds the physics layer for one level layer: every non-zero
// cell becomes an occupied cell.
func (l *Level) GridLayer(index int) (*physics.GridLayer, error) {
	if index < 0 || index >= len(l.Layers) {
		return nil, fmt.Errorf("%w: no layer %d", ErrInvalidLevel, index)
	}
	grid, err := physics.NewGridLayer(l.LayerMeta[index].Name, cp.Vector{}, l.CellSize)
	if err != nil {
		return nil, err
	}
	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			if l.Layers[index][row*l.Width+col] == 0 {
				continue
			}
			grid.Set(l.Cell(col, row))
		}
	}
	return grid, nil
}

// BuildTileWorld turns the level's layers into a TileWorld. Physics layers
// become solid layers; layers naming a material become material layers in
// file order, so the first listed layer wins where they overlap.
func BuildTileWorld(l *Level, materials map[string]*physics.Material) (*physics.TileWorld, error) {
	tiles := physics.NewTileWorld()
	for i, meta := range l.LayerMeta {
		if i >= len(l.Layers) || (!meta.Physics && meta.Material == "") {
			continue
		}
		grid, err := l.GridLayer(i)
		if err != nil {
			return nil, err
		}
		if meta.Physics {
			tiles.AddSolidLayer(grid)
		}
		if meta.Material == "" {
			continue
		}
		m, ok := materials[meta.Material]
		if !ok {
			return nil, fmt.Errorf("%w: layer %q wants %q", ErrUnknownMaterial, meta.Name, meta.Material)
		}
		tiles.AddMaterialLayer(grid, m)
	}
	return tiles, nil
}
