package physics

import (
	"sync"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// CollisionTypeTile is the collision type given to every spawned tile shape.
const CollisionTypeTile cp.CollisionType = 0x7117

// SegmentRadius is the thickness of collider edges.
const SegmentRadius = 0.5

// Spawn adds each collider to space as a closed chain of static segments and
// returns the created shapes in order.
func Spawn(space *cp.Space, colliders []Collider) []*cp.Shape {
	var shapes []*cp.Shape
	for _, c := range colliders {
		shapes = append(shapes, spawnCollider(space, c)...)
	}
	return shapes
}

func spawnCollider(space *cp.Space, c Collider) []*cp.Shape {
	n := len(c.Vertices)
	if n < 2 {
		return nil
	}
	shapes := make([]*cp.Shape, 0, n)
	for i := range n {
		a, b := c.Vertices[i], c.Vertices[(i+1)%n]
		if a == b {
			continue
		}
		shape := cp.NewSegment(space.StaticBody, toVector(a), toVector(b), SegmentRadius)
		if c.Tile.Friction != nil {
			shape.SetFriction(float64(*c.Tile.Friction))
		}
		shape.SetCollisionType(CollisionTypeTile)
		if !c.Tile.RigidBody {
			shape.SetSensor(true)
		}
		space.AddShape(shape)
		shapes = append(shapes, shape)
	}
	return shapes
}

func toVector(v tmath.Vec2) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Y)}
}

// TileCollision reports a shape touching or leaving a tile collider.
type TileCollision struct {
	Collider Collider
	Other    *cp.Shape
	Started  bool // false when the shapes separated
}

// World tracks spawned tile colliders and records collisions against them.
type World struct {
	space *cp.Space
	log   *zap.Logger

	mu     sync.Mutex
	owners map[*cp.Shape]int
	tiles  []Collider
	events []TileCollision
}

// NewWorld wraps space. A nil logger disables logging.
func NewWorld(space *cp.Space, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		space:  space,
		log:    log,
		owners: make(map[*cp.Shape]int),
	}
}

// Space returns the wrapped space.
func (w *World) Space() *cp.Space { return w.space }

// Spawn adds colliders to the space and remembers which shape belongs to
// which collider.
func (w *World) Spawn(colliders []Collider) []*cp.Shape {
	w.mu.Lock()
	defer w.mu.Unlock()

	var all []*cp.Shape
	for _, c := range colliders {
		shapes := spawnCollider(w.space, c)
		id := len(w.tiles)
		w.tiles = append(w.tiles, c)
		for _, s := range shapes {
			w.owners[s] = id
		}
		all = append(all, shapes...)
	}
	w.log.Debug("spawned tile colliders",
		zap.Int("colliders", len(colliders)),
		zap.Int("shapes", len(all)))
	return all
}

// Watch records collisions between shapes of the given type and tiles.
func (w *World) Watch(t cp.CollisionType) {
	handler := w.space.NewCollisionHandler(t, CollisionTypeTile)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		w.record(arb, true)
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		w.record(arb, false)
	}
}

func (w *World) record(arb *cp.Arbiter, started bool) {
	a, b := arb.Shapes()

	w.mu.Lock()
	defer w.mu.Unlock()

	tile, other := b, a
	id, ok := w.owners[tile]
	if !ok {
		tile, other = a, b
		if id, ok = w.owners[tile]; !ok {
			return
		}
	}
	w.events = append(w.events, TileCollision{Collider: w.tiles[id], Other: other, Started: started})
}

// Collisions returns and clears the recorded collisions.
func (w *World) Collisions() []TileCollision {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.events
	w.events = nil
	return out
}
