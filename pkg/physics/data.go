package physics

import (
	"errors"
	"fmt"
	"maps"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// ErrDataSize is returned when the data length does not match the size.
var ErrDataSize = errors.New("physics data length does not match size")

// DataPhysicsTilemap is a dense grid of integer tile kinds, usually exported
// from a level editor. Kind Air has no collider; every other kind resolves
// through the lookup table, falling back to a non-rigid tile.
type DataPhysicsTilemap struct {
	origin tmath.IVec2
	size   tmath.UVec2
	data   []int // row-major, row 0 is the bottom row
	air    int
	lookup map[int]PhysicsTile
}

// NewDataPhysicsTilemap builds a grid from data listed top row first, the
// way it reads in source code and most editors.
func NewDataPhysicsTilemap(origin tmath.IVec2, data []int, size tmath.UVec2, air int, lookup map[int]PhysicsTile) (*DataPhysicsTilemap, error) {
	if err := checkSize(data, size); err != nil {
		return nil, err
	}
	flipped := make([]int, len(data))
	w, h := int(size.X), int(size.Y)
	for y := 0; y < h; y++ {
		copy(flipped[y*w:(y+1)*w], data[(h-1-y)*w:(h-y)*w])
	}
	return newData(origin, flipped, size, air, lookup), nil
}

// NewDataPhysicsTilemapFlipped builds a grid from data already listed bottom
// row first.
func NewDataPhysicsTilemapFlipped(origin tmath.IVec2, data []int, size tmath.UVec2, air int, lookup map[int]PhysicsTile) (*DataPhysicsTilemap, error) {
	if err := checkSize(data, size); err != nil {
		return nil, err
	}
	return newData(origin, append([]int(nil), data...), size, air, lookup), nil
}

func checkSize(data []int, size tmath.UVec2) error {
	if want := int(size.X) * int(size.Y); len(data) != want {
		return fmt.Errorf("%w: got %d values for %dx%d", ErrDataSize, len(data), size.X, size.Y)
	}
	return nil
}

func newData(origin tmath.IVec2, data []int, size tmath.UVec2, air int, lookup map[int]PhysicsTile) *DataPhysicsTilemap {
	return &DataPhysicsTilemap{origin: origin, size: size, data: data, air: air, lookup: maps.Clone(lookup)}
}

// Size returns the grid extent.
func (d *DataPhysicsTilemap) Size() tmath.UVec2 { return d.size }

// Kind returns the raw value at a tile index.
func (d *DataPhysicsTilemap) Kind(index tmath.IVec2) (int, bool) {
	rel := index.Sub(d.origin)
	if rel.X < 0 || rel.Y < 0 || rel.X >= int32(d.size.X) || rel.Y >= int32(d.size.Y) {
		return 0, false
	}
	return d.data[int(rel.Y)*int(d.size.X)+int(rel.X)], true
}

// Get returns the physics tile at index. ok is false for air and for
// indices outside the grid.
func (d *DataPhysicsTilemap) Get(index tmath.IVec2) (PhysicsTile, bool) {
	kind, ok := d.Kind(index)
	if !ok || kind == d.air {
		return PhysicsTile{}, false
	}
	return d.lookup[kind], true
}

// Colliders merges equal non-air kinds into rectangles, growing each one
// along the row first and then upwards.
func (d *DataPhysicsTilemap) Colliders(g tilemap.Geometry) []Collider {
	w, h := int(d.size.X), int(d.size.Y)
	processed := make([]bool, len(d.data))
	var out []Collider

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if processed[idx] {
				continue
			}
			kind := d.data[idx]
			if kind == d.air {
				processed[idx] = true
				continue
			}

			rw := 1
			for x+rw < w {
				idx2 := y*w + x + rw
				if processed[idx2] || d.data[idx2] != kind {
					break
				}
				rw++
			}

			rh := 1
		heightLoop:
			for y+rh < h {
				for xi := x; xi < x+rw; xi++ {
					idx2 := (y+rh)*w + xi
					if processed[idx2] || d.data[idx2] != kind {
						break heightLoop
					}
				}
				rh++
			}

			for yy := y; yy < y+rh; yy++ {
				for xx := x; xx < x+rw; xx++ {
					processed[yy*w+xx] = true
				}
			}

			origin := d.origin.Add(tmath.IVec2{X: int32(x), Y: int32(y)})
			out = append(out, newCollider(g, origin, tmath.UVec2{X: uint32(rw), Y: uint32(rh)}, d.lookup[kind]))
		}
	}
	return out
}
