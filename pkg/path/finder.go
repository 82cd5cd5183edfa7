package path

import (
	"container/heap"
	"errors"
	"math"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// Search errors.
var (
	ErrUnreachable    = errors.New("destination unreachable")
	ErrBudgetExceeded = errors.New("search step budget exceeded")
	ErrInvalidRequest = errors.New("invalid path request")
)

// Finder is a request for a route from Origin to Dest. MaxSteps bounds the
// number of expanded nodes; 0 means unbounded.
type Finder struct {
	Origin        tmath.IVec2
	Dest          tmath.IVec2
	AllowDiagonal bool
	MaxSteps      uint32
}

// Path is a route from origin to destination, both included.
type Path struct {
	Tiles []tmath.IVec2
	Cost  float64
}

// Steps returns the number of moves along the path.
func (p *Path) Steps() int {
	if len(p.Tiles) == 0 {
		return 0
	}
	return len(p.Tiles) - 1
}

// WorldPoints projects every waypoint through g.
func (p *Path) WorldPoints(g tilemap.Geometry) []tmath.Vec2 {
	points := make([]tmath.Vec2, len(p.Tiles))
	for i, t := range p.Tiles {
		points[i] = g.IndexToWorld(t)
	}
	return points
}

// State is the progress of a Search.
type State uint8

// Search states.
const (
	StatePending State = iota
	StateInProgress
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in_progress"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// pathNode is a node in the A* open or closed set.
type pathNode struct {
	index  tmath.IVec2
	g      float64 // Cost from start
	h      float64 // Heuristic (estimated cost to goal)
	f      float64 // Total cost (G + H)
	seq    uint64  // Insertion order, last tie breaker
	parent *pathNode
	heapAt int // Index in heap, -1 once popped
	closed bool
}

// pathHeap orders nodes by f, then h, then insertion order.
type pathHeap []*pathNode

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapAt = i
	h[j].heapAt = j
}

func (h *pathHeap) Push(x any) {
	node := x.(*pathNode)
	node.heapAt = len(*h)
	*h = append(*h, node)
}

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.heapAt = -1
	*h = old[:n-1]
	return node
}

// Directions for 8-way movement. Odd entries are diagonals.
var directions = [8]tmath.IVec2{
	{X: 0, Y: 1},   // N
	{X: 1, Y: 1},   // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // SE
	{X: 0, Y: -1},  // S
	{X: -1, Y: -1}, // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // NW
}

// Search is an incremental A* search over a PathTilemap. The grid must not
// be mutated while the search is running.
type Search struct {
	grid    *PathTilemap
	finder  Finder
	minCost float64

	state    State
	open     pathHeap
	nodes    map[tmath.IVec2]*pathNode
	seq      uint64
	expanded uint32

	path *Path
	err  error
}

// NewSearch prepares a search. No work happens until Step is called.
func NewSearch(grid *PathTilemap, f Finder) *Search {
	return newSearch(grid, f, grid.MinCost())
}

func newSearch(grid *PathTilemap, f Finder, minCost uint32) *Search {
	return &Search{
		grid:    grid,
		finder:  f,
		minCost: float64(minCost),
		state:   StatePending,
	}
}

// Finder returns the request being searched.
func (s *Search) Finder() Finder { return s.finder }

// State returns the current state.
func (s *Search) State() State { return s.state }

// Expanded returns the number of nodes expanded so far.
func (s *Search) Expanded() uint32 { return s.expanded }

// Result returns the path or the failure once the search is done. Both are
// nil while it is still running.
func (s *Search) Result() (*Path, error) {
	return s.path, s.err
}

// Done reports whether the search reached a final state.
func (s *Search) Done() bool {
	return s.state == StateSucceeded || s.state == StateFailed
}

// Step expands at most budget nodes and reports whether the search is done.
// A budget <= 0 runs the search to completion.
func (s *Search) Step(budget int) bool {
	if s.Done() {
		return true
	}
	if s.state == StatePending {
		if s.start() {
			return true
		}
	}

	for n := 0; budget <= 0 || n < budget; n++ {
		if s.open.Len() == 0 {
			s.fail(ErrUnreachable)
			return true
		}

		current := heap.Pop(&s.open).(*pathNode)
		current.closed = true

		if current.index == s.finder.Dest {
			s.succeed(current)
			return true
		}

		s.expanded++
		if s.finder.MaxSteps > 0 && s.expanded > s.finder.MaxSteps {
			s.fail(ErrBudgetExceeded)
			return true
		}

		s.expand(current)
	}
	return false
}

// start seeds the open set and reports whether the search finished right away.
func (s *Search) start() bool {
	s.state = StateInProgress
	if s.finder.Origin == s.finder.Dest {
		s.path = &Path{Tiles: []tmath.IVec2{s.finder.Origin}}
		s.state = StateSucceeded
		return true
	}
	if _, ok := s.grid.Get(s.finder.Dest); !ok {
		s.fail(ErrUnreachable)
		return true
	}

	s.nodes = make(map[tmath.IVec2]*pathNode)
	start := s.node(s.finder.Origin, 0, nil)
	heap.Push(&s.open, start)
	return false
}

func (s *Search) expand(current *pathNode) {
	for i, dir := range directions {
		diagonal := i%2 == 1
		if diagonal && !s.finder.AllowDiagonal {
			continue
		}

		next := current.index.Add(dir)
		tile, ok := s.grid.Get(next)
		if !ok {
			continue
		}

		neighbor, exists := s.nodes[next]
		if exists && neighbor.closed {
			continue
		}

		moveCost := float64(tile.Cost)
		if diagonal {
			// No corner cutting: both orthogonal neighbours must be passable.
			if !s.passable(tmath.IVec2{X: next.X, Y: current.index.Y}) ||
				!s.passable(tmath.IVec2{X: current.index.X, Y: next.Y}) {
				continue
			}
			moveCost *= math.Sqrt2
		}

		g := current.g + moveCost
		if !exists {
			heap.Push(&s.open, s.node(next, g, current))
		} else if g < neighbor.g {
			// Found better path
			neighbor.g = g
			neighbor.f = g + neighbor.h
			neighbor.parent = current
			heap.Fix(&s.open, neighbor.heapAt)
		}
	}
}

func (s *Search) node(index tmath.IVec2, g float64, parent *pathNode) *pathNode {
	h := s.heuristic(index)
	n := &pathNode{
		index:  index,
		g:      g,
		h:      h,
		f:      g + h,
		seq:    s.seq,
		parent: parent,
	}
	s.seq++
	s.nodes[index] = n
	return n
}

func (s *Search) passable(index tmath.IVec2) bool {
	_, ok := s.grid.Get(index)
	return ok
}

// heuristic is the Manhattan (4-way) or octile (8-way) distance scaled by the
// cheapest tile, which keeps it admissible for any cost grid.
func (s *Search) heuristic(index tmath.IVec2) float64 {
	dx := math.Abs(float64(s.finder.Dest.X) - float64(index.X))
	dy := math.Abs(float64(s.finder.Dest.Y) - float64(index.Y))
	if !s.finder.AllowDiagonal {
		return (dx + dy) * s.minCost
	}
	lo, hi := min(dx, dy), max(dx, dy)
	return (lo*math.Sqrt2 + (hi - lo)) * s.minCost
}

func (s *Search) succeed(node *pathNode) {
	var tiles []tmath.IVec2
	for n := node; n != nil; n = n.parent {
		tiles = append(tiles, n.index)
	}
	// Reverse path (it's built from goal to start)
	for i, j := 0, len(tiles)-1; i < j; i, j = i+1, j-1 {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
	s.path = &Path{Tiles: tiles, Cost: node.g}
	s.state = StateSucceeded
	s.release()
}

func (s *Search) fail(err error) {
	s.err = err
	s.state = StateFailed
	s.release()
}

func (s *Search) release() {
	s.open = nil
	s.nodes = nil
}

// FindPath runs a single search to completion.
func FindPath(grid *PathTilemap, f Finder) (*Path, error) {
	s := NewSearch(grid, f)
	s.Step(0)
	return s.Result()
}
