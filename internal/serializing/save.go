package serializing

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/path"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// Layer is a bit set selecting which parts of a map are saved.
type Layer uint32

// Saveable layers.
const (
	LayerTexture Layer = 1 << iota
	LayerPath
)

// Has reports whether l includes every bit of other.
func (l Layer) Has(other Layer) bool {
	return l&other == other
}

// Saver writes a map into Dir/MapName. The metadata file is always written;
// Layers selects the rest. An empty Layers saves the texture layer only.
type Saver struct {
	Dir         string
	MapName     string
	TexturePath string // Overrides the texture handle when set
	Layers      Layer
	BinaryPath  bool // Write the path layer as PathGridFile
}

// MapDir returns the directory the map is written to.
func (s Saver) MapDir() string {
	return filepath.Join(s.Dir, s.MapName)
}

// Save writes m and, when LayerPath is selected, grid. grid may be nil when
// the path layer is not selected.
func (s Saver) Save(m *tilemap.Tilemap, grid *path.PathTilemap) error {
	layers := s.Layers
	if layers == 0 {
		layers = LayerTexture
	}
	if layers.Has(LayerPath) && grid == nil {
		return fmt.Errorf("saving %s: path layer selected without a path tilemap", s.MapName)
	}

	dir := s.MapDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating map directory: %w", err)
	}

	if err := writeYAML(dir, TilemapMetaFile, serializeMeta(m, s.TexturePath, layers, s.BinaryPath)); err != nil {
		return err
	}

	if layers.Has(LayerTexture) {
		tiles := make([]SerializedTile, 0, m.Storage.Len())
		m.Storage.Each(func(_ tmath.IVec2, t tilemap.Tile) {
			tiles = append(tiles, serializeTile(t))
		})
		if err := writeYAML(dir, TilesFile, tiles); err != nil {
			return err
		}
	}

	if layers.Has(LayerPath) {
		if s.BinaryPath {
			return writeGrid(dir, grid)
		}
		if err := writeYAML(dir, PathTilesFile, grid.Serialize()); err != nil {
			return err
		}
	}
	return nil
}

func writeGrid(dir string, grid *path.PathTilemap) (err error) {
	f, err := os.Create(filepath.Join(dir, PathGridFile))
	if err != nil {
		return fmt.Errorf("writing %s: %w", PathGridFile, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", PathGridFile, cerr)
		}
	}()
	if err := WritePathGrid(f, grid); err != nil {
		return fmt.Errorf("writing %s: %w", PathGridFile, err)
	}
	return nil
}

func writeYAML(dir, name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
