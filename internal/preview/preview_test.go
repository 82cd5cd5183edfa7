package preview

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/path"
)

func testGrid() (*path.PathTilemap, tmath.TileArea) {
	area := tmath.NewTileArea(tmath.IVec2{}, tmath.UVec2{X: 4, Y: 3})
	grid := path.NewPathTilemap()
	grid.FillPathRect(area, path.PathTile{Cost: 1})
	grid.Set(tmath.IVec2{X: 2, Y: 2}, path.PathTile{Cost: 10})
	grid.Remove(tmath.IVec2{X: 3, Y: 0})
	return grid, area
}

func TestRender_Colors(t *testing.T) {
	grid, area := testGrid()
	img := Render(grid, area, nil, Options{MaxCost: 10})

	require.Equal(t, 4, img.Bounds().Dx())
	require.Equal(t, 3, img.Bounds().Dy())

	// Tile (3,0) is the bottom-right pixel
	assert.Equal(t, BlockedColor, img.RGBAAt(3, 2))
	assert.Equal(t, color.RGBA{236, 236, 236, 255}, img.RGBAAt(0, 2))
	// Tile (2,2) is on the top row
	assert.Equal(t, color.RGBA{64, 64, 64, 255}, img.RGBAAt(2, 0))
}

func TestRender_Path(t *testing.T) {
	grid, area := testGrid()
	p, err := path.FindPath(grid, path.Finder{Origin: tmath.IVec2{X: 0, Y: 0}, Dest: tmath.IVec2{X: 2, Y: 0}})
	require.NoError(t, err)

	img := Render(grid, area, []*path.Path{p, nil}, Options{Scale: 2})
	require.Equal(t, 8, img.Bounds().Dx())

	start := PixelOf(area, tmath.IVec2{X: 0, Y: 0}, 2)
	mid := PixelOf(area, tmath.IVec2{X: 1, Y: 0}, 2)
	assert.Equal(t, EndColor, img.RGBAAt(start.X+1, start.Y+1))
	assert.Equal(t, PathColor, img.RGBAAt(mid.X, mid.Y))
}

func TestRender_SkipsTilesOutsideArea(t *testing.T) {
	grid, area := testGrid()
	p := &path.Path{Tiles: []tmath.IVec2{{X: -5, Y: -5}, {X: 0, Y: 0}}}

	assert.NotPanics(t, func() {
		Render(grid, area, []*path.Path{p}, Options{})
	})
}

func TestPixelOf(t *testing.T) {
	area := tmath.NewTileArea(tmath.IVec2{X: 10, Y: 20}, tmath.UVec2{X: 5, Y: 5})
	assert.Equal(t, 0, PixelOf(area, tmath.IVec2{X: 10, Y: 24}, 1).Y)
	assert.Equal(t, 12, PixelOf(area, tmath.IVec2{X: 13, Y: 20}, 3).Y)
	assert.Equal(t, 9, PixelOf(area, tmath.IVec2{X: 13, Y: 20}, 3).X)
}

func TestEncode_Decodes(t *testing.T) {
	grid, area := testGrid()
	img := Render(grid, area, nil, Options{MaxCost: 10})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	decoded, err := bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	r, g, b, _ := decoded.At(3, 2).RGBA()
	assert.Zero(t, r|g|b)
}

func TestWriteFile(t *testing.T) {
	grid, area := testGrid()
	filename := filepath.Join(t.TempDir(), "grid.bmp")
	require.NoError(t, WriteFile(filename, Render(grid, area, nil, Options{})))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "BM", string(data[:2]))

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "grid.bmp"), Render(grid, area, nil, Options{})))
}
