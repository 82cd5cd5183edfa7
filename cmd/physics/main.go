// Package main turns physics tile layers into Chipmunk2D colliders and drops
// a ball onto them.
package main

import (
	"fmt"
	"os"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Faultbox/tilegrid/internal/config"
	"github.com/Faultbox/tilegrid/internal/logger"
	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/physics"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

const collisionTypeBall cp.CollisionType = 1

// Raw layer for the square map, top row first.
var squareData = []int{
	0, 1, 1, 1, 1,
	0, 1, 0, 3, 1,
	1, 1, 0, 3, 0,
	0, 2, 0, 0, 0,
	0, 2, 2, 0, 2,
}

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

	if err := run(cfg); err != nil {
		logger.Error("physics demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{Y: cfg.Physics.Gravity})
	world := physics.NewWorld(space, logger.Named("physics"))
	world.Watch(collisionTypeBall)

	iso, err := tilemap.NewGeometry(tilemap.IsometricTopology(), tmath.Vec2{X: 32, Y: 16}, tmath.Vec2{},
		tilemap.Transform{ZIndex: -1})
	if err != nil {
		return err
	}
	isoTiles := physics.NewPhysicsTilemap()
	isoTiles.Set(tmath.IVec2{X: 19, Y: 9}, physics.PhysicsTile{})
	isoTiles.FillRect(tmath.NewTileArea(tmath.IVec2{}, tmath.UVec2{X: 5, Y: 5}),
		physics.PhysicsTile{RigidBody: true, Friction: physics.Friction(0.8)}, false)
	world.Spawn(isoTiles.Colliders(iso))

	square, err := tilemap.NewGeometry(tilemap.SquareTopology(), tmath.Vec2{X: 16, Y: 16}, tmath.Vec2{},
		tilemap.Transform{Translation: tmath.Vec2{X: 500, Y: -100}})
	if err != nil {
		return err
	}
	data, err := physics.NewDataPhysicsTilemap(tmath.IVec2{}, squareData, tmath.UVec2{X: 5, Y: 5}, 0,
		map[int]physics.PhysicsTile{
			1: {RigidBody: true, Friction: physics.Friction(0.1)},
			2: {RigidBody: true, Friction: physics.Friction(0.4)},
		})
	if err != nil {
		return err
	}
	shapes := world.Spawn(data.Colliders(square))
	logger.Info("colliders spawned", zap.Int("square_shapes", len(shapes)))

	radius := cfg.Physics.BallRadius
	body := space.AddBody(cp.NewBody(1, cp.MomentForCircle(1, 0, radius, cp.Vector{})))
	body.SetPosition(cp.Vector{X: 500 + 40, Y: -100 + 160})
	ball := space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	ball.SetFriction(0.5)
	ball.SetCollisionType(collisionTypeBall)

	dt := cfg.Physics.Timestep.Seconds()
	for step := range cfg.Physics.Steps {
		space.Step(dt)
		for _, c := range world.Collisions() {
			logger.Info("tile collision",
				zap.Int("step", step),
				zap.Bool("started", c.Started),
				zap.Any("origin", c.Collider.Origin),
				zap.Any("size", c.Collider.Size),
				zap.Bool("sensor", !c.Collider.Tile.RigidBody))
		}
	}

	pos := body.Position()
	logger.Info("simulation finished",
		zap.Int("steps", cfg.Physics.Steps),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y))
	return nil
}
