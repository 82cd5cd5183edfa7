package serializing

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tilegrid/pkg/path"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// LoadMeta reads the metadata of the map saved in dir/mapName.
func LoadMeta(dir, mapName string) (*SerializedTilemap, error) {
	var meta SerializedTilemap
	if err := readYAML(filepath.Join(dir, mapName), TilemapMetaFile, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTiles rebuilds the map saved in dir/mapName with its texture layer.
func LoadTiles(dir, mapName string) (*tilemap.Tilemap, error) {
	meta, err := LoadMeta(dir, mapName)
	if err != nil {
		return nil, err
	}
	m, err := meta.Tilemap()
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapName, err)
	}
	if !meta.Layers.Has(LayerTexture) {
		return m, nil
	}

	var tiles []SerializedTile
	if err := readYAML(filepath.Join(dir, mapName), TilesFile, &tiles); err != nil {
		return nil, err
	}
	for _, st := range tiles {
		index, b, err := st.Builder()
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", mapName, err)
		}
		m.SetTile(index, b)
	}
	return m, nil
}

// LoadPathTiles reads the path layer of the map saved in dir/mapName, in
// whichever format it was saved.
func LoadPathTiles(dir, mapName string) (*path.PathTilemap, error) {
	meta, err := LoadMeta(dir, mapName)
	if err != nil {
		return nil, err
	}
	if meta.BinaryPath {
		return loadGrid(filepath.Join(dir, mapName))
	}

	var s path.SerializedPathTilemap
	if err := readYAML(filepath.Join(dir, mapName), PathTilesFile, &s); err != nil {
		return nil, err
	}
	grid, err := path.FromSerialized(s)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapName, err)
	}
	return grid, nil
}

func loadGrid(dir string) (*path.PathTilemap, error) {
	f, err := os.Open(filepath.Join(dir, PathGridFile))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", PathGridFile, err)
	}
	defer f.Close()

	grid, err := ReadPathGrid(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", PathGridFile, err)
	}
	return grid, nil
}

func readYAML(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
