package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers    = flag.Int("workers", 0, "Parallel path searches per tick")
	flagStepBudget = flag.Int("step-budget", 0, "Node expansions per request per tick")
	flagChunkSize  = flag.Uint("chunk-size", 0, "Tile storage chunk size")
	flagRequests   = flag.Int("requests", 0, "Number of path requests to submit")
	flagSaveDir    = flag.String("save-dir", "", "Directory to save maps into")
	flagPreview    = flag.String("preview", "", "Write a BMP preview of the grid to this file")
	flagWatch      = flag.Bool("watch", false, "Rerun when the config file changes")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config dir")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WatchRequested reports whether --watch was given.
func WatchRequested() bool {
	return *flagWatch
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Pathfinding.Workers = *flagWorkers
	}
	if *flagStepBudget > 0 {
		cfg.Pathfinding.StepBudget = *flagStepBudget
	}
	if *flagChunkSize > 0 {
		cfg.Tilemap.ChunkSize = uint32(*flagChunkSize)
	}
	if *flagRequests > 0 {
		cfg.Pathfinding.Requests = *flagRequests
	}
	if *flagSaveDir != "" {
		cfg.Data.SaveDir = *flagSaveDir
	}
	if *flagPreview != "" {
		cfg.Data.PreviewFile = *flagPreview
	}
}
