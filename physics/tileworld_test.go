package physics

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridLayerRejectsBadCellSize(t *testing.T) {
	for _, size := range []float64{0, -1} {
		l, err := NewGridLayer("bad", cp.Vector{}, size)
		assert.Nil(t, l)
		assert.True(t, errors.Is(err, ErrInvalidCellSize), "size %v: got %v", size, err)
	}
}

func TestGridLayerCellMapping(t *testing.T) {
	l, err := NewGridLayer("grid", cp.Vector{X: -2, Y: 1}, 0.5)
	require.NoError(t, err)

	cases := []struct {
		name string
		p    cp.Vector
		want Cell
	}{
		{"origin", cp.Vector{X: -2, Y: 1}, Cell{0, 0}},
		{"inside_first", cp.Vector{X: -1.75, Y: 1.25}, Cell{0, 0}},
		{"upper_edge_belongs_to_next", cp.Vector{X: -1.5, Y: 1.5}, Cell{1, 1}},
		{"negative", cp.Vector{X: -2.1, Y: 0.9}, Cell{-1, -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, l.CellAt(c.p))
		})
	}

	bb := l.CellBB(Cell{1, 2})
	assert.Equal(t, cp.BB{L: -1.5, B: 2, R: -1, T: 2.5}, bb)
}

func TestGridLayerSetFillClear(t *testing.T) {
	l, err := NewGridLayer("grid", cp.Vector{}, 1)
	require.NoError(t, err)

	l.Fill(2, 3, 0, 1)
	assert.Equal(t, 9, l.Len(), "fill is inclusive and accepts reversed corners")
	assert.True(t, l.Has(1, 2))
	assert.True(t, l.Occupied(cp.Vector{X: 2.99, Y: 3.99}))
	assert.False(t, l.Occupied(cp.Vector{X: 3, Y: 3}))

	l.Clear(1, 2)
	assert.False(t, l.Has(1, 2))
	l.Set(1, 2)
	l.Set(1, 2)
	assert.Equal(t, 9, l.Len())

	seen := 0
	l.Cells(func(Cell) { seen++ })
	assert.Equal(t, 9, seen)
}

func TestTileWorldSolidLayersAreOred(t *testing.T) {
	a, err := NewGridLayer("a", cp.Vector{}, 1)
	require.NoError(t, err)
	b, err := NewGridLayer("b", cp.Vector{}, 2)
	require.NoError(t, err)
	a.Set(0, 0)
	b.Set(2, 0)

	w := NewTileWorld()
	assert.True(t, w.Empty())
	assert.False(t, w.IsSolid(cp.Vector{X: 0.5, Y: 0.5}), "no layers means nothing is solid")

	w.AddSolidLayer(a)
	w.AddSolidLayer(b)
	w.AddSolidLayer(nil)
	assert.False(t, w.Empty())
	assert.Len(t, w.SolidLayers(), 2)

	assert.True(t, w.IsSolid(cp.Vector{X: 0.5, Y: 0.5}))
	assert.True(t, w.IsSolid(cp.Vector{X: 5.5, Y: 1.5}))
	assert.False(t, w.IsSolid(cp.Vector{X: 2.5, Y: 0.5}))
	assert.False(t, w.IsSolid(cp.Vector{X: 0.5, Y: -0.5}))
}

func TestTileWorldFirstMaterialLayerWins(t *testing.T) {
	ice := MustMaterial("ice", 0.05, SurfaceIce)
	mud := MustMaterial("mud", 0.9, SurfaceMud)

	iceLayer, err := NewGridLayer("ice", cp.Vector{}, 1)
	require.NoError(t, err)
	iceLayer.Fill(0, 0, 1, 0)
	mudLayer, err := NewGridLayer("mud", cp.Vector{}, 1)
	require.NoError(t, err)
	mudLayer.Fill(1, 0, 2, 0)

	w := NewTileWorld()
	w.AddMaterialLayer(iceLayer, ice)
	w.AddMaterialLayer(mudLayer, mud)

	assert.Same(t, ice, w.GetMaterial(cp.Vector{X: 0.5, Y: 0.5}))
	assert.Same(t, ice, w.GetMaterial(cp.Vector{X: 1.5, Y: 0.5}), "overlapping cell resolves to the first layer")
	assert.Same(t, mud, w.GetMaterial(cp.Vector{X: 2.5, Y: 0.5}))
	assert.Nil(t, w.GetMaterial(cp.Vector{X: 3.5, Y: 0.5}))
	assert.False(t, w.IsSolid(cp.Vector{X: 0.5, Y: 0.5}), "material layers are not solid")
}

func TestNilTileWorld(t *testing.T) {
	var w *TileWorld
	assert.True(t, w.Empty())
	assert.False(t, w.IsSolid(cp.Vector{}))
	assert.Nil(t, w.GetMaterial(cp.Vector{}))
	assert.Nil(t, w.SolidLayers())
}
