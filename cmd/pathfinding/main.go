// Package main fills a random cost grid, schedules a batch of path requests
// and ticks the queue until every request has finished.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/tilegrid/internal/config"
	"github.com/Faultbox/tilegrid/internal/logger"
	"github.com/Faultbox/tilegrid/internal/preview"
	"github.com/Faultbox/tilegrid/internal/serializing"
	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/path"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("saving config failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("pathfinding failed", zap.Error(err))
		os.Exit(1)
	}

	if config.WatchRequested() {
		if err := watch(ctx); err != nil {
			logger.Error("config watch failed", zap.Error(err))
			os.Exit(1)
		}
	}
}

// watch reruns the batch whenever the config file changes, until ctx ends.
func watch(ctx context.Context) error {
	configPath := config.ResolvePath()
	if configPath == "" {
		return errors.New("no config file to watch")
	}

	w, err := config.Watch(configPath)
	if err != nil {
		return err
	}
	defer w.Close()
	logger.Info("watching config", zap.String("path", configPath))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			logger.Warn("config reload failed", zap.Error(err))
		case cfg := <-w.Changes:
			logger.SetLevel(cfg.Logging.Level)
			logger.Info("config reloaded")
			if err := run(ctx, cfg); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("pathfinding failed", zap.Error(err))
			}
		}
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	geometry, err := cfg.Geometry()
	if err != nil {
		return fmt.Errorf("building geometry: %w", err)
	}

	size := cfg.Pathfinding.GridSize
	area := tmath.NewTileArea(tmath.IVec2{}, tmath.UVec2{X: size, Y: size})

	m := tilemap.NewTilemap(cfg.Data.MapName, geometry, cfg.Tilemap.ChunkSize)
	m.FillRect(area, tilemap.NewTileBuilder().WithLayer(0, tilemap.NewTileLayer().WithTextureIndex(0)))

	rng := rand.New(rand.NewPCG(cfg.Pathfinding.Seed, cfg.Pathfinding.Seed))
	maxCost := max(cfg.Pathfinding.MaxCost, 1)
	grid := path.NewPathTilemapWithChunkSize(cfg.Tilemap.ChunkSize)
	grid.FillPathRectCustom(area, func(tmath.IVec2) *path.PathTile {
		return &path.PathTile{Cost: rng.Uint32N(maxCost)}
	})
	logger.Info("grid ready",
		zap.Uint32("size", size),
		zap.Int("tiles", grid.Len()),
		zap.Uint32("min_cost", grid.MinCost()))

	dest := tmath.ISplat(int32(size) - 1)
	schedules := func(yield func(uuid.UUID, path.Finder) bool) {
		for range cfg.Pathfinding.Requests {
			f := path.Finder{Origin: tmath.IVec2{}, Dest: dest, AllowDiagonal: cfg.Pathfinding.AllowDiagonal}
			if !yield(path.NewRequestID(), f) {
				return
			}
		}
	}

	queue, err := path.NewWithSchedules(grid, schedules, path.QueueConfig{
		Workers:      cfg.Pathfinding.Workers,
		StepBudget:   cfg.Pathfinding.StepBudget,
		CacheEntries: cfg.Pathfinding.CacheEntries,
		Logger:       logger.Named("queue"),
	})
	if err != nil {
		return err
	}
	defer queue.Close()

	start := time.Now()
	ticks, err := tick(ctx, queue, cfg.Pathfinding.TickInterval)
	if err != nil {
		return err
	}
	logger.Info("pathfinding tasks done",
		zap.Int("ticks", ticks),
		zap.Duration("elapsed", time.Since(start)))

	results := queue.Drain()
	report(results, geometry)

	if cfg.Data.PreviewFile != "" {
		paths := make([]*path.Path, 0, len(results))
		for _, r := range results {
			if r.Succeeded() {
				paths = append(paths, r.Path)
			}
		}
		img := preview.Render(grid, area, paths, preview.Options{MaxCost: maxCost})
		if err := preview.WriteFile(cfg.Data.PreviewFile, img); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		logger.Info("preview written", zap.String("file", cfg.Data.PreviewFile))
	}

	if cfg.Data.SaveDir != "" {
		saver := serializing.Saver{
			Dir:        cfg.Data.SaveDir,
			MapName:    cfg.Data.MapName,
			Layers:     serializing.LayerTexture | serializing.LayerPath,
			BinaryPath: cfg.Data.BinaryPath,
		}
		if err := saver.Save(m, grid); err != nil {
			return fmt.Errorf("saving map: %w", err)
		}
		logger.Info("map saved", zap.String("dir", saver.MapDir()))
	}
	return nil
}

// tick advances the queue on every timer tick until it drains.
func tick(ctx context.Context, queue *path.Queue, interval time.Duration) (int, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ticks := 0
	for !queue.IsEmpty() {
		select {
		case <-ctx.Done():
			return ticks, ctx.Err()
		case <-ticker.C:
		}
		if err := queue.Advance(ctx); err != nil {
			return ticks, err
		}
		ticks++
		logger.Debug("tick",
			zap.Int("tick", ticks),
			zap.Int("pending", queue.Pending()),
			zap.Int("completed", queue.Completed()))
	}
	return ticks, nil
}

func report(results map[uuid.UUID]path.Result, geometry tilemap.Geometry) {
	var succeeded, failed int
	for id, r := range results {
		if !r.Succeeded() {
			failed++
			logger.Warn("path request failed", zap.Stringer("id", id), zap.Error(r.Err))
			continue
		}
		succeeded++
		points := r.Path.WorldPoints(geometry)
		logger.Debug("path found",
			zap.Stringer("id", id),
			zap.Int("steps", r.Path.Steps()),
			zap.Float64("cost", r.Path.Cost),
			zap.Any("world_end", points[len(points)-1]))
	}
	logger.Info("results", zap.Int("succeeded", succeeded), zap.Int("failed", failed))
}
