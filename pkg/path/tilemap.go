// Package path finds routes over a cost-weighted tile grid.
//
// A PathTilemap stores a traversal cost per tile; tiles without an entry are
// impassable. Single routes are found with FindPath or an incremental Search.
// Many routes are scheduled together with a Queue.
package path

import (
	"fmt"
	"math"

	"github.com/Faultbox/tilegrid/pkg/chunk"
	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// PathTile is the traversal cost of entering a tile.
type PathTile struct {
	Cost uint32
}

// PathTilemap is the grid searched by the path finder.
type PathTilemap struct {
	tiles *chunk.Storage[PathTile]
}

// NewPathTilemap creates an empty grid with the default chunk size.
func NewPathTilemap() *PathTilemap {
	return NewPathTilemapWithChunkSize(0)
}

// NewPathTilemapWithChunkSize creates an empty grid. 0 selects chunk.DefaultChunkSize.
func NewPathTilemapWithChunkSize(chunkSize uint32) *PathTilemap {
	return &PathTilemap{tiles: chunk.New[PathTile](chunkSize)}
}

// Set stores the cost of index.
func (m *PathTilemap) Set(index tmath.IVec2, tile PathTile) {
	m.tiles.Set(index, tile)
}

// Get returns the tile at index. ok is false for impassable tiles.
func (m *PathTilemap) Get(index tmath.IVec2) (tile PathTile, ok bool) {
	return m.tiles.Get(index)
}

// Remove makes index impassable.
func (m *PathTilemap) Remove(index tmath.IVec2) bool {
	return m.tiles.Remove(index)
}

// Len returns the number of passable tiles.
func (m *PathTilemap) Len() int {
	return m.tiles.Len()
}

// ChunkSize returns the chunk edge length of the underlying storage.
func (m *PathTilemap) ChunkSize() uint32 {
	return m.tiles.ChunkSize()
}

// Each visits every passable tile in deterministic order.
func (m *PathTilemap) Each(fn func(index tmath.IVec2, tile PathTile)) {
	m.tiles.Each(fn)
}

// FillPathRect sets every tile of area to tile.
func (m *PathTilemap) FillPathRect(area tmath.TileArea, tile PathTile) {
	m.tiles.FillRect(area, tile)
}

// FillPathRectCustom sets every tile of area to the result of gen. A nil
// result leaves the tile impassable.
func (m *PathTilemap) FillPathRectCustom(area tmath.TileArea, gen func(index tmath.IVec2) *PathTile) {
	m.tiles.FillRectCustom(area, func(index tmath.IVec2) (PathTile, bool) {
		if t := gen(index); t != nil {
			return *t, true
		}
		return PathTile{}, false
	})
}

// Clone returns an independent copy of the grid.
func (m *PathTilemap) Clone() *PathTilemap {
	return &PathTilemap{tiles: m.tiles.Clone()}
}

// MinCost returns the cheapest tile cost, or 0 for an empty grid.
func (m *PathTilemap) MinCost() uint32 {
	if m.tiles.Len() == 0 {
		return 0
	}
	lowest := uint32(math.MaxUint32)
	m.tiles.Each(func(_ tmath.IVec2, t PathTile) {
		lowest = min(lowest, t.Cost)
	})
	return lowest
}

// SerializedPathTile is the persisted form of a PathTile.
type SerializedPathTile struct {
	Cost uint32 `yaml:"cost"`
}

// SerializedPathTilemap is the persisted form of a PathTilemap. Keys are
// tile indices formatted as "x,y".
type SerializedPathTilemap struct {
	ChunkSize uint32                        `yaml:"chunk_size,omitempty"`
	Tiles     map[string]SerializedPathTile `yaml:"tiles"`
}

// Serialize converts the grid to its persisted form.
func (m *PathTilemap) Serialize() SerializedPathTilemap {
	out := SerializedPathTilemap{
		ChunkSize: m.tiles.ChunkSize(),
		Tiles:     make(map[string]SerializedPathTile, m.tiles.Len()),
	}
	m.tiles.Each(func(index tmath.IVec2, t PathTile) {
		out.Tiles[index.String()] = SerializedPathTile{Cost: t.Cost}
	})
	return out
}

// FromSerialized rebuilds a grid from its persisted form.
func FromSerialized(s SerializedPathTilemap) (*PathTilemap, error) {
	m := NewPathTilemapWithChunkSize(s.ChunkSize)
	for key, t := range s.Tiles {
		index, err := tmath.ParseIVec2(key)
		if err != nil {
			return nil, fmt.Errorf("path tile %q: %w", key, err)
		}
		m.Set(index, PathTile{Cost: t.Cost})
	}
	return m, nil
}
