package tilemap

import (
	"errors"
	"fmt"
	"math"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// Geometry errors.
var (
	ErrInvalidSlotSize = errors.New("invalid slot size: both components must be positive")
	ErrInvalidPivot    = errors.New("invalid pivot: components must be within [0, 1]")
	ErrInvalidTopology = errors.New("invalid topology")
)

// Geometry bundles everything needed to place the tiles of one map.
type Geometry struct {
	Topology  Topology
	SlotSize  tmath.Vec2
	Pivot     tmath.Vec2
	Transform Transform
}

// NewGeometry validates the parameters and returns a Geometry.
func NewGeometry(topo Topology, slot, pivot tmath.Vec2, transform Transform) (Geometry, error) {
	if !(slot.X > 0) || !(slot.Y > 0) || isInf(slot.X) || isInf(slot.Y) {
		return Geometry{}, fmt.Errorf("%w: got %v", ErrInvalidSlotSize, slot)
	}
	if !(pivot.X >= 0 && pivot.X <= 1) || !(pivot.Y >= 0 && pivot.Y <= 1) {
		return Geometry{}, fmt.Errorf("%w: got %v", ErrInvalidPivot, pivot)
	}
	return Geometry{
		Topology:  topo,
		SlotSize:  slot,
		Pivot:     pivot,
		Transform: transform,
	}, nil
}

func isInf(f float32) bool {
	return math.IsInf(float64(f), 0)
}

// IndexToWorld returns the world position of index.
func (g Geometry) IndexToWorld(index tmath.IVec2) tmath.Vec2 {
	return IndexToWorld(index, g.Topology, g.Transform, g.Pivot, g.SlotSize)
}

// IndexToRel returns the position of index relative to the map translation.
func (g Geometry) IndexToRel(index tmath.IVec2) tmath.Vec2 {
	return IndexToRel(index, g.Topology, g.Transform, g.Pivot, g.SlotSize)
}

// Collider returns the outline of a block of tiles anchored at index 0.
func (g Geometry) Collider(size tmath.UVec2) []tmath.Vec2 {
	return TileCollider(g.Topology, g.SlotSize, size, g.Transform, g.Pivot)
}

// ColliderWorld returns the outline of a block of tiles anchored at origin.
func (g Geometry) ColliderWorld(origin tmath.IVec2, size tmath.UVec2) []tmath.Vec2 {
	return TileColliderWorld(origin, g.Topology, size, g.Transform, g.Pivot, g.SlotSize)
}

// WorldToIndex returns the square-map tile whose position is nearest to
// world. It reports false for isometric and hexagonal maps.
func (g Geometry) WorldToIndex(world tmath.Vec2) (tmath.IVec2, bool) {
	if g.Topology.Kind != Square {
		return tmath.IVec2{}, false
	}
	local := world.Sub(g.Transform.Translation).Rotate(-g.Transform.Rotation)
	x := math.Floor(float64(local.X/g.SlotSize.X+g.Pivot.X) + 0.5)
	y := math.Floor(float64(local.Y/g.SlotSize.Y+g.Pivot.Y) + 0.5)
	return tmath.IVec2{X: int32(x), Y: int32(y)}, true
}
