// Package serializing saves tilemaps and their path layer to YAML files and
// loads them back.
package serializing

import (
	"fmt"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// File names inside a map directory.
const (
	TilemapMetaFile = "tilemap.yaml"
	TilesFile       = "tiles.yaml"
	PathTilesFile   = "path_tiles.yaml"
)

// Texture kinds in SerializedTileTexture.
const (
	textureStatic   = "static"
	textureAnimated = "animated"
)

// SerializedTilemap is the metadata of a saved map.
type SerializedTilemap struct {
	Name        string                  `yaml:"name"`
	Topology    string                  `yaml:"topology"`
	HexLeg      uint32                  `yaml:"hex_leg,omitempty"`
	SlotSize    tmath.Vec2              `yaml:"slot_size"`
	Pivot       tmath.Vec2              `yaml:"pivot"`
	RenderSize  tmath.Vec2              `yaml:"render_size"`
	Translation tmath.Vec2              `yaml:"translation"`
	Rotation    float32                 `yaml:"rotation"`
	ZIndex      int32                   `yaml:"z_index"`
	ChunkSize   uint32                  `yaml:"chunk_size"`
	Texture     *tilemap.Texture        `yaml:"texture,omitempty"`
	Animations  []tilemap.TileAnimation `yaml:"animations,omitempty"`
	Layers      Layer                   `yaml:"layers"`
	BinaryPath  bool                    `yaml:"binary_path,omitempty"`
}

// SerializedLayer is the persisted form of a TileLayer.
type SerializedLayer struct {
	TextureIndex int32  `yaml:"texture_index"`
	Flip         uint32 `yaml:"flip,omitempty"`
}

// SerializedTileTexture keeps the texture variant tag so a static tile never
// loads back as an animated one or the other way round.
type SerializedTileTexture struct {
	Kind      string                 `yaml:"kind"`
	Layers    []SerializedLayer      `yaml:"layers,omitempty"`
	Animation *tilemap.TileAnimation `yaml:"animation,omitempty"`
}

// SerializedTile is one saved tile.
type SerializedTile struct {
	Index   string                `yaml:"index"`
	Color   tmath.Vec4            `yaml:"color"`
	Texture SerializedTileTexture `yaml:"texture"`
}

func serializeMeta(m *tilemap.Tilemap, texturePath string, layers Layer, binaryPath bool) SerializedTilemap {
	g := m.Geometry
	meta := SerializedTilemap{
		Name:        m.Name,
		Topology:    g.Topology.Kind.String(),
		HexLeg:      g.Topology.Leg,
		SlotSize:    g.SlotSize,
		Pivot:       g.Pivot,
		RenderSize:  m.RenderSize,
		Translation: g.Transform.Translation,
		Rotation:    g.Transform.Rotation,
		ZIndex:      g.Transform.ZIndex,
		ChunkSize:   m.Storage.ChunkSize(),
		Animations:  m.Animations,
		Layers:      layers,
		BinaryPath:  binaryPath && layers.Has(LayerPath),
	}
	if m.Texture != nil {
		tex := *m.Texture
		if texturePath != "" {
			tex.Handle = texturePath
		}
		meta.Texture = &tex
	}
	return meta
}

// Tilemap rebuilds an empty map from the metadata.
func (s SerializedTilemap) Tilemap() (*tilemap.Tilemap, error) {
	kind, err := tilemap.ParseTopologyKind(s.Topology)
	if err != nil {
		return nil, err
	}
	g, err := tilemap.NewGeometry(
		tilemap.Topology{Kind: kind, Leg: s.HexLeg},
		s.SlotSize,
		s.Pivot,
		tilemap.Transform{Translation: s.Translation, Rotation: s.Rotation, ZIndex: s.ZIndex},
	)
	if err != nil {
		return nil, err
	}

	m := tilemap.NewTilemap(s.Name, g, s.ChunkSize)
	m.RenderSize = s.RenderSize
	m.Animations = s.Animations
	if s.Texture != nil {
		tex := *s.Texture
		m.Texture = &tex
	}
	return m, nil
}

func serializeTile(t tilemap.Tile) SerializedTile {
	out := SerializedTile{Index: t.Index.String(), Color: t.Color}
	switch tex := t.Texture.(type) {
	case tilemap.AnimatedTexture:
		anim := tex.Animation
		out.Texture = SerializedTileTexture{Kind: textureAnimated, Animation: &anim}
	case tilemap.StaticTexture:
		out.Texture.Kind = textureStatic
		for _, l := range tex.Layers {
			out.Texture.Layers = append(out.Texture.Layers, SerializedLayer{TextureIndex: l.TextureIndex, Flip: uint32(l.Flip)})
		}
	default:
		out.Texture.Kind = textureStatic
	}
	return out
}

// Builder converts the saved tile back to a builder and returns its index.
func (s SerializedTile) Builder() (tmath.IVec2, tilemap.TileBuilder, error) {
	index, err := tmath.ParseIVec2(s.Index)
	if err != nil {
		return tmath.IVec2{}, tilemap.TileBuilder{}, err
	}

	b := tilemap.NewTileBuilder().WithColor(s.Color)
	switch s.Texture.Kind {
	case textureAnimated:
		if s.Texture.Animation == nil {
			return index, b, fmt.Errorf("tile %s: animated texture without animation", s.Index)
		}
		b = b.WithAnimation(*s.Texture.Animation)
	case textureStatic, "":
		for i, l := range s.Texture.Layers {
			flip, err := tilemap.ParseTileFlip(l.Flip)
			if err != nil {
				return index, b, fmt.Errorf("tile %s layer %d: %w", s.Index, i, err)
			}
			b = b.WithLayer(i, tilemap.TileLayer{TextureIndex: l.TextureIndex, Flip: flip})
		}
	default:
		return index, b, fmt.Errorf("tile %s: unknown texture kind %q", s.Index, s.Texture.Kind)
	}
	return index, b, nil
}
