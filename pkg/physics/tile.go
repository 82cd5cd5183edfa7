// Package physics extracts collision geometry from tile grids and spawns it
// into a Chipmunk2D space.
package physics

import (
	"slices"

	"github.com/Faultbox/tilegrid/pkg/chunk"
	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// PhysicsTile describes how a tile collides. Tiles that are not rigid are
// spawned as sensors. A nil Friction keeps the engine default.
type PhysicsTile struct {
	RigidBody bool     `yaml:"rigid_body"`
	Friction  *float32 `yaml:"friction,omitempty"`
}

// Friction returns a pointer to f, for building PhysicsTile literals.
func Friction(f float32) *float32 {
	return &f
}

// Equal reports whether two tiles collide the same way.
func (t PhysicsTile) Equal(other PhysicsTile) bool {
	if t.RigidBody != other.RigidBody {
		return false
	}
	if t.Friction == nil || other.Friction == nil {
		return t.Friction == nil && other.Friction == nil
	}
	return *t.Friction == *other.Friction
}

// Collider is one merged region of equal tiles.
type Collider struct {
	Origin   tmath.IVec2
	Size     tmath.UVec2
	Tile     PhysicsTile
	Vertices []tmath.Vec2 // World space, counter-clockwise
}

func newCollider(g tilemap.Geometry, origin tmath.IVec2, size tmath.UVec2, tile PhysicsTile) Collider {
	return Collider{
		Origin:   origin,
		Size:     size,
		Tile:     tile,
		Vertices: g.ColliderWorld(origin, size),
	}
}

type concatRegion struct {
	area tmath.TileArea
	tile PhysicsTile
}

// PhysicsTilemap is a sparse grid of physics tiles. Regions filled with
// concat set are kept whole and become a single collider.
type PhysicsTilemap struct {
	tiles   *chunk.Storage[PhysicsTile]
	regions []concatRegion
}

// NewPhysicsTilemap creates an empty physics tilemap.
func NewPhysicsTilemap() *PhysicsTilemap {
	return &PhysicsTilemap{tiles: chunk.New[PhysicsTile](0)}
}

// Set stores a single tile.
func (m *PhysicsTilemap) Set(index tmath.IVec2, tile PhysicsTile) {
	m.tiles.Set(index, tile)
}

// Get returns the tile at index, looking at single tiles first and then at
// concat regions.
func (m *PhysicsTilemap) Get(index tmath.IVec2) (PhysicsTile, bool) {
	if t, ok := m.tiles.Get(index); ok {
		return t, true
	}
	for _, r := range m.regions {
		if r.area.Contains(index) {
			return r.tile, true
		}
	}
	return PhysicsTile{}, false
}

// Remove deletes the single tile at index and every concat region that
// contains it. It reports whether anything was removed.
func (m *PhysicsTilemap) Remove(index tmath.IVec2) bool {
	removed := m.tiles.Remove(index)
	before := len(m.regions)
	m.regions = slices.DeleteFunc(m.regions, func(r concatRegion) bool {
		return r.area.Contains(index)
	})
	return removed || len(m.regions) != before
}

// FillRect sets every tile of area. With concat the area is stored as one
// region instead of individual tiles.
func (m *PhysicsTilemap) FillRect(area tmath.TileArea, tile PhysicsTile, concat bool) {
	if area.Size() == 0 {
		return
	}
	if concat {
		m.regions = append(m.regions, concatRegion{area: area, tile: tile})
		return
	}
	m.tiles.FillRect(area, tile)
}

// Colliders returns concat regions in insertion order followed by the single
// tiles merged into maximal horizontal runs of equal tiles, scanned bottom
// row first.
func (m *PhysicsTilemap) Colliders(g tilemap.Geometry) []Collider {
	out := make([]Collider, 0, len(m.regions))
	for _, r := range m.regions {
		out = append(out, newCollider(g, r.area.Origin, r.area.Extent, r.tile))
	}

	var indices []tmath.IVec2
	m.tiles.Each(func(index tmath.IVec2, _ PhysicsTile) {
		indices = append(indices, index)
	})
	slices.SortFunc(indices, func(a, b tmath.IVec2) int {
		if a.Y != b.Y {
			return int(a.Y) - int(b.Y)
		}
		return int(a.X) - int(b.X)
	})

	for i := 0; i < len(indices); {
		start := indices[i]
		tile, _ := m.tiles.Get(start)
		w := 1
		for i+w < len(indices) {
			next := indices[i+w]
			if next.Y != start.Y || next.X != start.X+int32(w) {
				break
			}
			if t, _ := m.tiles.Get(next); !t.Equal(tile) {
				break
			}
			w++
		}
		out = append(out, newCollider(g, start, tmath.UVec2{X: uint32(w), Y: 1}, tile))
		i += w
	}
	return out
}
