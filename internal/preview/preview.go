// Package preview renders path grids to images for inspection.
//
// Each tile becomes a Scale×Scale block: impassable tiles are black and
// passable tiles are shaded from white (cheapest) to dark grey (MaxCost or
// more). Paths are drawn over the grid. Tile rows grow upwards, so the
// image is flipped vertically relative to tile coordinates.
package preview

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/bmp"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/path"
)

// Colors used by Render.
var (
	BlockedColor = color.RGBA{0, 0, 0, 255}    // Impassable tiles
	PathColor    = color.RGBA{220, 40, 40, 255} // Tiles on a path
	EndColor     = color.RGBA{40, 90, 220, 255} // First and last tile of a path
)

// Options controls rendering.
type Options struct {
	Scale   int    // Pixels per tile edge, default 1
	MaxCost uint32 // Cost drawn darkest, default 1
}

// Render draws area of grid with paths on top. Path tiles outside area are
// skipped.
func Render(grid *path.PathTilemap, area tmath.TileArea, paths []*path.Path, opts Options) *image.RGBA {
	scale := max(opts.Scale, 1)
	maxCost := max(opts.MaxCost, 1)

	w, h := int(area.Extent.X), int(area.Extent.Y)
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))

	area.Each(func(index tmath.IVec2) {
		c := BlockedColor
		if tile, ok := grid.Get(index); ok {
			c = costColor(tile.Cost, maxCost)
		}
		fill(img, area, index, scale, c)
	})

	for _, p := range paths {
		if p == nil || len(p.Tiles) == 0 {
			continue
		}
		for _, index := range p.Tiles {
			if area.Contains(index) {
				fill(img, area, index, scale, PathColor)
			}
		}
		for _, index := range []tmath.IVec2{p.Tiles[0], p.Tiles[len(p.Tiles)-1]} {
			if area.Contains(index) {
				fill(img, area, index, scale, EndColor)
			}
		}
	}
	return img
}

// PixelOf returns the top-left pixel of index's block.
func PixelOf(area tmath.TileArea, index tmath.IVec2, scale int) image.Point {
	scale = max(scale, 1)
	x := int(index.X - area.Origin.X)
	y := int(area.Extent.Y) - 1 - int(index.Y-area.Origin.Y)
	return image.Pt(x*scale, y*scale)
}

func fill(img *image.RGBA, area tmath.TileArea, index tmath.IVec2, scale int, c color.RGBA) {
	p := PixelOf(area, index, scale)
	for dy := range scale {
		for dx := range scale {
			img.SetRGBA(p.X+dx, p.Y+dy, c)
		}
	}
}

func costColor(cost, maxCost uint32) color.RGBA {
	cost = min(cost, maxCost)
	v := uint8(255 - uint64(cost)*191/uint64(maxCost))
	return color.RGBA{v, v, v, 255}
}

// Encode writes img as BMP.
func Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// WriteFile writes img as a BMP file at filename.
func WriteFile(filename string, img image.Image) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", filename, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img); err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return bw.Flush()
}
