package tilemap

import (
	"github.com/Faultbox/tilegrid/pkg/chunk"
	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// TextureDescriptor describes the atlas layout of a texture.
type TextureDescriptor struct {
	Size     tmath.UVec2 `yaml:"size"`
	TileSize tmath.UVec2 `yaml:"tile_size"`
}

// Texture references an atlas by an opaque handle that the host resolves.
type Texture struct {
	Handle     string            `yaml:"handle"`
	Descriptor TextureDescriptor `yaml:"descriptor"`
}

// Tilemap is a named map of tiles placed by a Geometry.
type Tilemap struct {
	Name       string
	Geometry   Geometry
	RenderSize tmath.Vec2
	Texture    *Texture
	Animations []TileAnimation
	Storage    *chunk.Storage[Tile]
}

// NewTilemap creates an empty map. chunkSize 0 selects chunk.DefaultChunkSize.
func NewTilemap(name string, geometry Geometry, chunkSize uint32) *Tilemap {
	return &Tilemap{
		Name:       name,
		Geometry:   geometry,
		RenderSize: geometry.SlotSize,
		Storage:    chunk.New[Tile](chunkSize),
	}
}

// AddAnimation registers an animation and returns its index.
func (m *Tilemap) AddAnimation(anim TileAnimation) int {
	m.Animations = append(m.Animations, anim)
	return len(m.Animations) - 1
}

// SetTile builds and stores a tile at index.
func (m *Tilemap) SetTile(index tmath.IVec2, b TileBuilder) {
	m.Storage.Set(index, b.Build(index, m.Storage))
}

// Tile returns the tile at index.
func (m *Tilemap) Tile(index tmath.IVec2) (Tile, bool) {
	return m.Storage.Get(index)
}

// RemoveTile clears index.
func (m *Tilemap) RemoveTile(index tmath.IVec2) bool {
	return m.Storage.Remove(index)
}

// UpdateTile applies u to the tile at index and reports whether one existed.
func (m *Tilemap) UpdateTile(index tmath.IVec2, u TileUpdater) bool {
	t, ok := m.Storage.Get(index)
	if !ok {
		return false
	}
	m.Storage.Set(index, t.Apply(u))
	return true
}

// FillRect places b on every index of area.
func (m *Tilemap) FillRect(area tmath.TileArea, b TileBuilder) {
	area.Each(func(index tmath.IVec2) {
		m.SetTile(index, b)
	})
}

// FillRectCustom places the builder returned by gen, skipping nil results.
func (m *Tilemap) FillRectCustom(area tmath.TileArea, gen func(index tmath.IVec2) *TileBuilder) {
	area.Each(func(index tmath.IVec2) {
		if b := gen(index); b != nil {
			m.SetTile(index, *b)
		}
	})
}

// TileWorld returns the world position of index.
func (m *Tilemap) TileWorld(index tmath.IVec2) tmath.Vec2 {
	return m.Geometry.IndexToWorld(index)
}
