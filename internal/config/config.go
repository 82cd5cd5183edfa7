// Package config handles tilegrid configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all tilegrid settings.
type Config struct {
	Tilemap     TilemapConfig     `yaml:"tilemap"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Data        DataConfig        `yaml:"data"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// TilemapConfig holds map layout settings.
type TilemapConfig struct {
	ChunkSize uint32  `yaml:"chunk_size"` // 0 selects the storage default
	Topology  string  `yaml:"topology"`   // square, isometric or hexagonal
	HexLeg    uint32  `yaml:"hex_leg"`
	SlotSizeX float32 `yaml:"slot_size_x"`
	SlotSizeY float32 `yaml:"slot_size_y"`
}

// PathfindingConfig holds path queue settings.
type PathfindingConfig struct {
	Workers       int           `yaml:"workers"`     // 0 means GOMAXPROCS
	StepBudget    int           `yaml:"step_budget"` // Expansions per request per tick
	TickInterval  time.Duration `yaml:"tick_interval"`
	Requests      int           `yaml:"requests"`
	GridSize      uint32        `yaml:"grid_size"`
	MaxCost       uint32        `yaml:"max_cost"`
	AllowDiagonal bool          `yaml:"allow_diagonal"`
	Seed          uint64        `yaml:"seed"`
	CacheEntries  int64         `yaml:"cache_entries"` // 0 disables the result cache
}

// PhysicsConfig holds collider demo settings.
type PhysicsConfig struct {
	Gravity    float64       `yaml:"gravity"`
	Timestep   time.Duration `yaml:"timestep"`
	Steps      int           `yaml:"steps"`
	BallRadius float64       `yaml:"ball_radius"`
}

// DataConfig holds on-disk map settings.
type DataConfig struct {
	SaveDir     string `yaml:"save_dir"` // Empty disables saving
	MapName     string `yaml:"map_name"`
	BinaryPath  bool   `yaml:"binary_path"`
	PreviewFile string `yaml:"preview_file"` // BMP render of the grid, empty disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tilemap: TilemapConfig{
			ChunkSize: 16,
			Topology:  "square",
			SlotSizeX: 16,
			SlotSizeY: 16,
		},
		Pathfinding: PathfindingConfig{
			Workers:       0,
			StepBudget:    4096,
			TickInterval:  16 * time.Millisecond,
			Requests:      100,
			GridSize:      500,
			MaxCost:       10,
			AllowDiagonal: false,
			Seed:          1,
			CacheEntries:  1024,
		},
		Physics: PhysicsConfig{
			Gravity:    -500,
			Timestep:   time.Second / 60,
			Steps:      300,
			BallRadius: 6,
		},
		Data: DataConfig{
			SaveDir: "",
			MapName: "tilegrid",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would make the tools misbehave.
func (c *Config) Validate() error {
	if _, err := tilemap.ParseTopologyKind(c.Tilemap.Topology); err != nil {
		return fmt.Errorf("%w: tilemap.topology: %v", ErrInvalidConfig, err)
	}
	if c.Tilemap.SlotSizeX <= 0 || c.Tilemap.SlotSizeY <= 0 {
		return fmt.Errorf("%w: tilemap slot size must be positive", ErrInvalidConfig)
	}
	if c.Pathfinding.Workers < 0 || c.Pathfinding.StepBudget < 0 || c.Pathfinding.Requests < 0 {
		return fmt.Errorf("%w: pathfinding workers, step_budget and requests must not be negative", ErrInvalidConfig)
	}
	if c.Pathfinding.CacheEntries < 0 {
		return fmt.Errorf("%w: pathfinding.cache_entries must not be negative", ErrInvalidConfig)
	}
	if c.Pathfinding.TickInterval <= 0 {
		return fmt.Errorf("%w: pathfinding.tick_interval must be positive", ErrInvalidConfig)
	}
	if c.Physics.Timestep <= 0 {
		return fmt.Errorf("%w: physics.timestep must be positive", ErrInvalidConfig)
	}
	return nil
}

// Geometry builds the map geometry described by the tilemap section.
func (c *Config) Geometry() (tilemap.Geometry, error) {
	kind, err := tilemap.ParseTopologyKind(c.Tilemap.Topology)
	if err != nil {
		return tilemap.Geometry{}, err
	}
	return tilemap.NewGeometry(
		tilemap.Topology{Kind: kind, Leg: c.Tilemap.HexLeg},
		tmath.Vec2{X: c.Tilemap.SlotSizeX, Y: c.Tilemap.SlotSizeY},
		tmath.Vec2{},
		tilemap.Transform{},
	)
}
