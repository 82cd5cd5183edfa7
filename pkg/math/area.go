package math

// TileArea is a rectangular block of tiles starting at Origin (lower-left,
// inclusive) and spanning Extent tiles along each axis.
type TileArea struct {
	Origin IVec2
	Extent UVec2
}

// NewTileArea creates an area.
func NewTileArea(origin IVec2, extent UVec2) TileArea {
	return TileArea{Origin: origin, Extent: extent}
}

// Size returns the number of tiles in the area.
func (a TileArea) Size() int {
	return int(a.Extent.X) * int(a.Extent.Y)
}

// Dest returns the top-right tile (inclusive). Undefined for empty areas.
func (a TileArea) Dest() IVec2 {
	return IVec2{a.Origin.X + int32(a.Extent.X) - 1, a.Origin.Y + int32(a.Extent.Y) - 1}
}

// Contains reports whether index lies inside the area.
func (a TileArea) Contains(index IVec2) bool {
	dx := int64(index.X) - int64(a.Origin.X)
	dy := int64(index.Y) - int64(a.Origin.Y)
	return dx >= 0 && dy >= 0 && dx < int64(a.Extent.X) && dy < int64(a.Extent.Y)
}

// Each calls fn for every index, rows bottom to top, left to right within a row.
func (a TileArea) Each(fn func(index IVec2)) {
	for y := int32(0); y < int32(a.Extent.Y); y++ {
		for x := int32(0); x < int32(a.Extent.X); x++ {
			fn(IVec2{a.Origin.X + x, a.Origin.Y + y})
		}
	}
}
