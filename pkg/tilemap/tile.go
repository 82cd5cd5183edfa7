package tilemap

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tilegrid/pkg/chunk"
	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// MaxLayerCount is the number of topmost layers a renderer draws per tile.
const MaxLayerCount = 4

// ErrInvalidFlip is returned for flip bits outside TileFlipBoth.
var ErrInvalidFlip = errors.New("invalid tile flip")

// TileFlip is a bit set of texture mirroring flags.
type TileFlip uint32

// Flip flags.
const (
	TileFlipNone       TileFlip = 0b00
	TileFlipHorizontal TileFlip = 0b01
	TileFlipVertical   TileFlip = 0b10
	TileFlipBoth       TileFlip = 0b11
)

// ParseTileFlip validates raw flip bits.
func ParseTileFlip(v uint32) (TileFlip, error) {
	if v > uint32(TileFlipBoth) {
		return TileFlipNone, fmt.Errorf("%w: %d", ErrInvalidFlip, v)
	}
	return TileFlip(v), nil
}

// TileLayer is one texture layer of a static tile. TextureIndex -1 means the
// layer is empty.
type TileLayer struct {
	TextureIndex int32
	Flip         TileFlip
}

// NewTileLayer returns an empty layer.
func NewTileLayer() TileLayer {
	return TileLayer{TextureIndex: -1}
}

// WithTextureIndex sets the atlas index of the layer.
func (l TileLayer) WithTextureIndex(i uint32) TileLayer {
	l.TextureIndex = int32(i)
	return l
}

// WithFlip adds flip flags to the layer.
func (l TileLayer) WithFlip(f TileFlip) TileLayer {
	l.Flip |= f
	return l
}

// TileAnimation is a run of atlas frames played at FPS.
type TileAnimation struct {
	Start  uint32 `yaml:"start"`
	Length uint32 `yaml:"length"`
	FPS    uint32 `yaml:"fps"`
}

// TileTexture is either a StaticTexture or an AnimatedTexture.
type TileTexture interface {
	isTileTexture()
}

// StaticTexture is a stack of layers, bottom first.
type StaticTexture struct {
	Layers []TileLayer
}

// AnimatedTexture is a single animation.
type AnimatedTexture struct {
	Animation TileAnimation
}

func (StaticTexture) isTileTexture()   {}
func (AnimatedTexture) isTileTexture() {}

func cloneTexture(t TileTexture) TileTexture {
	if st, ok := t.(StaticTexture); ok {
		return StaticTexture{Layers: append([]TileLayer(nil), st.Layers...)}
	}
	return t
}

// TileBuilder describes a tile before it is placed in a map.
type TileBuilder struct {
	Texture TileTexture
	Color   tmath.Vec4
}

// NewTileBuilder returns a builder for a white tile without layers.
func NewTileBuilder() TileBuilder {
	return TileBuilder{
		Texture: StaticTexture{},
		Color:   tmath.Vec4One,
	}
}

// WithColor sets the tint of the tile.
func (b TileBuilder) WithColor(c tmath.Vec4) TileBuilder {
	b.Color = c
	return b
}

// WithLayer sets layer i, padding with empty layers as needed. It has no
// effect on animated tiles.
func (b TileBuilder) WithLayer(i int, layer TileLayer) TileBuilder {
	st, ok := b.Texture.(StaticTexture)
	if !ok {
		return b
	}
	layers := append([]TileLayer(nil), st.Layers...)
	for len(layers) <= i {
		layers = append(layers, NewTileLayer())
	}
	layers[i] = layer
	b.Texture = StaticTexture{Layers: layers}
	return b
}

// WithAnimation replaces the texture with an animation.
func (b TileBuilder) WithAnimation(anim TileAnimation) TileBuilder {
	b.Texture = AnimatedTexture{Animation: anim}
	return b
}

// Build places the builder at index of storage.
func (b TileBuilder) Build(index tmath.IVec2, storage *chunk.Storage[Tile]) Tile {
	chunkIndex, inChunk := storage.TransformIndex(index)
	return Tile{
		ChunkIndex:   chunkIndex,
		InChunkIndex: inChunk,
		Index:        index,
		Texture:      cloneTexture(b.Texture),
		Color:        b.Color,
	}
}

// Tile is a tile stored in a map.
type Tile struct {
	ChunkIndex   tmath.IVec2
	InChunkIndex int
	Index        tmath.IVec2
	Texture      TileTexture
	Color        tmath.Vec4
}

// Builder converts the tile back to a builder, keeping its texture kind.
func (t Tile) Builder() TileBuilder {
	return TileBuilder{
		Texture: cloneTexture(t.Texture),
		Color:   t.Color,
	}
}

// RenderLayers returns at most MaxLayerCount topmost layers of a static tile.
func (t Tile) RenderLayers() []TileLayer {
	st, ok := t.Texture.(StaticTexture)
	if !ok {
		return nil
	}
	if len(st.Layers) <= MaxLayerCount {
		return st.Layers
	}
	return st.Layers[len(st.Layers)-MaxLayerCount:]
}

// LayerPosition selects where a LayerUpdater writes. Non-negative values
// address a layer directly.
type LayerPosition int

// Special layer positions.
const (
	LayerTop    LayerPosition = -1
	LayerBottom LayerPosition = -2
)

// LayerUpdater inserts or replaces one layer.
type LayerUpdater struct {
	Position LayerPosition
	Layer    TileLayer
}

// TileUpdater is a partial update of a tile. Nil fields are left unchanged.
type TileUpdater struct {
	Layer *LayerUpdater
	Color *tmath.Vec4
}

// Apply returns t with the update applied. Layer updates are ignored for
// animated tiles.
func (t Tile) Apply(u TileUpdater) Tile {
	if u.Layer != nil {
		if st, ok := t.Texture.(StaticTexture); ok {
			layers := append([]TileLayer(nil), st.Layers...)
			switch pos := u.Layer.Position; {
			case pos == LayerTop:
				layers = append(layers, u.Layer.Layer)
			case pos == LayerBottom:
				layers = append([]TileLayer{u.Layer.Layer}, layers...)
			case pos >= 0:
				for len(layers) <= int(pos) {
					layers = append(layers, NewTileLayer())
				}
				layers[pos] = u.Layer.Layer
			}
			t.Texture = StaticTexture{Layers: layers}
		}
	}
	if u.Color != nil {
		t.Color = *u.Color
	}
	return t
}
