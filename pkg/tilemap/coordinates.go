// Package tilemap maps tile indices to world space and stores the tiles of a map.
package tilemap

import (
	"fmt"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// TopologyKind selects the projection used by a tilemap.
type TopologyKind uint8

// Topology kinds.
const (
	Square TopologyKind = iota
	Isometric
	Hexagonal
)

// String returns the topology name.
func (k TopologyKind) String() string {
	switch k {
	case Square:
		return "square"
	case Isometric:
		return "isometric"
	case Hexagonal:
		return "hexagonal"
	default:
		return "unknown"
	}
}

// ParseTopologyKind is the inverse of TopologyKind.String.
func ParseTopologyKind(s string) (TopologyKind, error) {
	switch s {
	case "square":
		return Square, nil
	case "isometric":
		return Isometric, nil
	case "hexagonal":
		return Hexagonal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTopology, s)
	}
}

// Topology is the projection rule of a tilemap. Leg is the height in world
// units of the vertical sides of a hexagon and is only meaningful for
// Hexagonal maps.
type Topology struct {
	Kind TopologyKind
	Leg  uint32
}

// SquareTopology returns the square projection.
func SquareTopology() Topology { return Topology{Kind: Square} }

// IsometricTopology returns the isometric (diamond) projection.
func IsometricTopology() Topology { return Topology{Kind: Isometric} }

// HexagonalTopology returns a pointy-top hexagonal projection with the given leg height.
func HexagonalTopology(leg uint32) Topology { return Topology{Kind: Hexagonal, Leg: leg} }

// Transform places a whole tilemap in the world.
type Transform struct {
	Translation tmath.Vec2
	Rotation    float32 // radians, counter-clockwise
	ZIndex      int32
}

// TransformPoint rotates p around the map origin and then translates it.
func (t Transform) TransformPoint(p tmath.Vec2) tmath.Vec2 {
	return p.Rotate(t.Rotation).Add(t.Translation)
}

// ApplyRotation rotates v without translating it.
func (t Transform) ApplyRotation(v tmath.Vec2) tmath.Vec2 {
	return v.Rotate(t.Rotation)
}

// IndexToWorld returns the world position of a slot. pivot is the fractional
// anchor inside a slot and slot is the world extent of one slot.
func IndexToWorld(index tmath.IVec2, topo Topology, transform Transform, pivot, slot tmath.Vec2) tmath.Vec2 {
	i := index.Vec2()
	var local tmath.Vec2
	switch topo.Kind {
	case Isometric:
		local = tmath.Vec2{X: i.X - i.Y, Y: i.X + i.Y}.Scale(0.5).Sub(pivot).Mul(slot)
	case Hexagonal:
		local = tmath.Vec2{
			X: slot.X * (i.X - 0.5*i.Y - pivot.X),
			Y: (slot.Y + float32(topo.Leg)) / 2 * (i.Y - pivot.Y),
		}
	default:
		local = i.Sub(pivot).Mul(slot)
	}
	return transform.TransformPoint(local)
}

// IndexToRel is IndexToWorld without the translation of the map. Rotation is
// still applied.
func IndexToRel(index tmath.IVec2, topo Topology, transform Transform, pivot, slot tmath.Vec2) tmath.Vec2 {
	return IndexToWorld(index, topo, transform, pivot, slot).Sub(transform.Translation)
}

// TileCollider returns the outline of a size.X by size.Y block of tiles whose
// lower-left tile is index 0. Square and isometric outlines are four corners
// in counter-clockwise order. Hexagonal outlines trace the zig-zag border of
// the block counter-clockwise and repeat the first vertex at the end.
func TileCollider(topo Topology, slot tmath.Vec2, size tmath.UVec2, transform Transform, pivot tmath.Vec2) []tmath.Vec2 {
	s := size.IVec2()
	world := func(x, y int32) tmath.Vec2 {
		return IndexToWorld(tmath.IVec2{X: x, Y: y}, topo, transform, pivot, slot)
	}

	switch topo.Kind {
	case Isometric:
		// Index 0 sits on the left corner of the diamond, shift to its bottom.
		offset := transform.ApplyRotation(tmath.Vec2{X: slot.X / 2})
		return []tmath.Vec2{
			world(0, 0).Add(offset),
			world(s.X, 0).Add(offset),
			world(s.X, s.Y).Add(offset),
			world(0, s.Y).Add(offset),
		}
	case Hexagonal:
		return hexCollider(topo, slot, s, transform, pivot)
	default:
		return []tmath.Vec2{
			world(0, 0),
			world(s.X, 0),
			world(s.X, s.Y),
			world(0, s.Y),
		}
	}
}

// hexCollider walks the border of the block one edge at a time. Each tile on
// an edge contributes the two hexagon vertices facing outward:
//
//	 /3\
//	4   2
//	|   |
//	5   1
//	 \0/
//
// bottom row: 0,1   right column: 1,2   top row (reversed): 3,4   left column (reversed): 4,5
func hexCollider(topo Topology, slot tmath.Vec2, s tmath.IVec2, transform Transform, pivot tmath.Vec2) []tmath.Vec2 {
	if s.X <= 0 || s.Y <= 0 {
		return nil
	}

	legGap := slot.Y/2 - float32(topo.Leg)/2
	vertices := make([]tmath.Vec2, 0, 4*(s.X+s.Y)+1)
	emit := func(base tmath.Vec2, offsets ...tmath.Vec2) {
		for _, o := range offsets {
			v := base.Add(transform.ApplyRotation(o))
			// Adjacent edges share their corner vertex.
			if n := len(vertices); n > 0 && vertices[n-1] == v {
				continue
			}
			vertices = append(vertices, v)
		}
	}
	world := func(x, y int32) tmath.Vec2 {
		return IndexToWorld(tmath.IVec2{X: x, Y: y}, topo, transform, pivot, slot)
	}

	for x := int32(0); x < s.X; x++ {
		emit(world(x, 0),
			tmath.Vec2{X: slot.X / 2},
			tmath.Vec2{X: slot.X, Y: legGap})
	}
	for y := int32(0); y < s.Y; y++ {
		emit(world(s.X-1, y),
			tmath.Vec2{X: slot.X, Y: legGap},
			tmath.Vec2{X: slot.X, Y: slot.Y - legGap})
	}
	for x := s.X - 1; x >= 0; x-- {
		emit(world(x, s.Y-1),
			tmath.Vec2{X: slot.X / 2, Y: slot.Y},
			tmath.Vec2{Y: slot.Y - legGap})
	}
	for y := s.Y - 1; y >= 0; y-- {
		emit(world(0, y),
			tmath.Vec2{Y: slot.Y - legGap},
			tmath.Vec2{Y: legGap})
	}

	return append(vertices, vertices[0])
}

// TileColliderWorld returns the outline of the block of tiles whose lower-left
// tile is origin.
func TileColliderWorld(origin tmath.IVec2, topo Topology, size tmath.UVec2, transform Transform, pivot, slot tmath.Vec2) []tmath.Vec2 {
	offset := IndexToRel(origin, topo, transform, pivot, slot).Add(pivot.Mul(slot))
	vertices := TileCollider(topo, slot, size, transform, pivot)
	for i := range vertices {
		vertices[i] = vertices[i].Add(offset)
	}
	return vertices
}
