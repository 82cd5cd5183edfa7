package path

import (
	"errors"
	"math"
	"testing"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
	"github.com/Faultbox/tilegrid/pkg/tilemap"
)

// mockGrid creates a width x height grid of cost-1 tiles with the given tiles blocked.
func mockGrid(width, height uint32, blocked ...tmath.IVec2) *PathTilemap {
	grid := NewPathTilemap()
	grid.FillPathRect(tmath.NewTileArea(tmath.IVec2{}, tmath.UVec2{X: width, Y: height}), PathTile{Cost: 1})
	for _, b := range blocked {
		grid.Remove(b)
	}
	return grid
}

func TestFindPath_Simple(t *testing.T) {
	grid := mockGrid(10, 10)

	path, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 3, Y: 4}})
	if err != nil {
		t.Fatalf("expected path, got %v", err)
	}

	if path.Steps() != 7 {
		t.Errorf("expected 7 steps, got %d", path.Steps())
	}
	if path.Cost != 7 {
		t.Errorf("expected cost 7, got %v", path.Cost)
	}
	if path.Tiles[0] != (tmath.IVec2{}) {
		t.Errorf("path should start at (0,0), got %v", path.Tiles[0])
	}
	if last := path.Tiles[len(path.Tiles)-1]; last != (tmath.IVec2{X: 3, Y: 4}) {
		t.Errorf("path should end at (3,4), got %v", last)
	}

	for i := 1; i < len(path.Tiles); i++ {
		d := path.Tiles[i].Sub(path.Tiles[i-1])
		if abs(d.X)+abs(d.Y) != 1 {
			t.Errorf("non-orthogonal move %v -> %v", path.Tiles[i-1], path.Tiles[i])
		}
	}
}

func TestFindPath_Diagonal(t *testing.T) {
	grid := mockGrid(10, 10)

	path, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 4, Y: 4}, AllowDiagonal: true})
	if err != nil {
		t.Fatalf("expected path, got %v", err)
	}
	if path.Steps() != 4 {
		t.Errorf("expected 4 diagonal steps, got %d", path.Steps())
	}
	if math.Abs(path.Cost-4*math.Sqrt2) > 1e-9 {
		t.Errorf("expected cost 4*sqrt2, got %v", path.Cost)
	}
}

func TestFindPath_WithObstacle(t *testing.T) {
	// 5x5 grid with wall in the middle
	grid := mockGrid(5, 5,
		tmath.IVec2{X: 2, Y: 0}, tmath.IVec2{X: 2, Y: 1}, tmath.IVec2{X: 2, Y: 2}, tmath.IVec2{X: 2, Y: 3})

	path, err := FindPath(grid, Finder{Origin: tmath.IVec2{Y: 2}, Dest: tmath.IVec2{X: 4, Y: 2}})
	if err != nil {
		t.Fatalf("expected path around obstacle, got %v", err)
	}

	for _, p := range path.Tiles {
		if p.X == 2 && p.Y < 4 {
			t.Errorf("path went through blocked cell at %v", p)
		}
	}
	if path.Steps() != 8 {
		t.Errorf("expected 8 steps around the wall, got %d", path.Steps())
	}
}

func TestFindPath_PrefersCheapTiles(t *testing.T) {
	grid := mockGrid(3, 3)
	grid.Set(tmath.IVec2{X: 1, Y: 0}, PathTile{Cost: 50})

	path, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 2, Y: 0}})
	if err != nil {
		t.Fatalf("expected path, got %v", err)
	}
	if path.Cost != 4 {
		t.Errorf("expected detour of cost 4, got %v via %v", path.Cost, path.Tiles)
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	// destination boxed in on all eight sides
	var ring []tmath.IVec2
	for x := int32(3); x <= 5; x++ {
		for y := int32(3); y <= 5; y++ {
			if x != 4 || y != 4 {
				ring = append(ring, tmath.IVec2{X: x, Y: y})
			}
		}
	}
	grid := mockGrid(10, 10, ring...)

	for _, diag := range []bool{false, true} {
		_, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 4, Y: 4}, AllowDiagonal: diag})
		if !errors.Is(err, ErrUnreachable) {
			t.Errorf("diagonal=%v: expected ErrUnreachable, got %v", diag, err)
		}
	}
}

func TestFindPath_BlockedGoal(t *testing.T) {
	grid := mockGrid(5, 5, tmath.IVec2{X: 4, Y: 4})

	s := NewSearch(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 4, Y: 4}})
	if !s.Step(1) {
		t.Fatal("expected blocked goal to fail immediately")
	}
	if _, err := s.Result(); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
	if s.Expanded() != 0 {
		t.Errorf("expected no expansions, got %d", s.Expanded())
	}
}

func TestFindPath_OutsideGrid(t *testing.T) {
	grid := mockGrid(5, 5)

	_, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 100, Y: -100}})
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable for unallocated destination, got %v", err)
	}
}

func TestFindPath_SameStartGoal(t *testing.T) {
	path, err := FindPath(NewPathTilemap(), Finder{Origin: tmath.IVec2{X: 2, Y: 2}, Dest: tmath.IVec2{X: 2, Y: 2}})
	if err != nil {
		t.Fatalf("expected single node path, got %v", err)
	}
	if len(path.Tiles) != 1 || path.Cost != 0 {
		t.Errorf("expected one tile at cost 0, got %v cost %v", path.Tiles, path.Cost)
	}
}

func TestFindPath_BudgetExceeded(t *testing.T) {
	grid := mockGrid(10, 10)

	_, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 3, Y: 4}, MaxSteps: 1})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestFindPath_NoCornerCutting(t *testing.T) {
	tests := []struct {
		name    string
		blocked []tmath.IVec2
		steps   int
	}{
		{"open", nil, 1},
		{"one side blocked", []tmath.IVec2{{X: 1, Y: 0}}, 2},
		{"both sides blocked", []tmath.IVec2{{X: 1, Y: 0}, {X: 0, Y: 1}}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := mockGrid(2, 2, tt.blocked...)
			path, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 1, Y: 1}, AllowDiagonal: true})

			if tt.steps < 0 {
				if !errors.Is(err, ErrUnreachable) {
					t.Errorf("expected ErrUnreachable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected path, got %v", err)
			}
			if path.Steps() != tt.steps {
				t.Errorf("expected %d steps, got %d: %v", tt.steps, path.Steps(), path.Tiles)
			}
		})
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	grid := mockGrid(20, 20)

	first, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 15, Y: 12}})
	if err != nil {
		t.Fatalf("expected path, got %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 15, Y: 12}})
		if len(again.Tiles) != len(first.Tiles) {
			t.Fatalf("run %d: path length changed", i)
		}
		for j := range first.Tiles {
			if again.Tiles[j] != first.Tiles[j] {
				t.Fatalf("run %d: path differs at %d", i, j)
			}
		}
	}
}

func TestSearch_Incremental(t *testing.T) {
	grid := mockGrid(30, 30)
	s := NewSearch(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 29, Y: 29}})

	if s.State() != StatePending {
		t.Errorf("expected pending, got %s", s.State())
	}

	ticks := 0
	for !s.Step(5) {
		ticks++
		if s.State() != StateInProgress {
			t.Fatalf("expected in progress, got %s", s.State())
		}
		if ticks > 10000 {
			t.Fatal("search did not finish")
		}
	}

	if ticks == 0 {
		t.Error("expected the search to need several steps")
	}
	if s.State() != StateSucceeded {
		t.Fatalf("expected succeeded, got %s", s.State())
	}
	path, _ := s.Result()
	if path.Steps() != 58 {
		t.Errorf("expected 58 steps, got %d", path.Steps())
	}
}

func TestFindPath_ZeroCostTiles(t *testing.T) {
	grid := NewPathTilemap()
	grid.FillPathRect(tmath.NewTileArea(tmath.IVec2{}, tmath.UVec2{X: 6, Y: 1}), PathTile{Cost: 0})

	path, err := FindPath(grid, Finder{Origin: tmath.IVec2{}, Dest: tmath.IVec2{X: 5}})
	if err != nil {
		t.Fatalf("expected path, got %v", err)
	}
	if path.Cost != 0 || path.Steps() != 5 {
		t.Errorf("expected 5 free steps, got %d steps cost %v", path.Steps(), path.Cost)
	}
}

func TestPath_WorldPoints(t *testing.T) {
	g, err := tilemap.NewGeometry(tilemap.SquareTopology(), tmath.Vec2{X: 16, Y: 16}, tmath.Vec2{}, tilemap.Transform{})
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	p := &Path{Tiles: []tmath.IVec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}

	got := p.WorldPoints(g)
	want := []tmath.Vec2{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 16, Y: 16}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPathTilemap_Serialize(t *testing.T) {
	grid := NewPathTilemapWithChunkSize(8)
	grid.Set(tmath.IVec2{X: -3, Y: 4}, PathTile{Cost: 7})
	grid.Set(tmath.IVec2{X: 10, Y: 0}, PathTile{Cost: 0})

	s := grid.Serialize()
	if len(s.Tiles) != 2 || s.Tiles["-3,4"].Cost != 7 {
		t.Fatalf("unexpected serialized form %+v", s)
	}

	back, err := FromSerialized(s)
	if err != nil {
		t.Fatalf("FromSerialized: %v", err)
	}
	if back.ChunkSize() != 8 || back.Len() != 2 {
		t.Errorf("expected chunk size 8 and 2 tiles, got %d and %d", back.ChunkSize(), back.Len())
	}
	if tile, ok := back.Get(tmath.IVec2{X: 10}); !ok || tile.Cost != 0 {
		t.Errorf("expected zero-cost tile at (10,0), got %v %v", tile, ok)
	}

	if _, err := FromSerialized(SerializedPathTilemap{Tiles: map[string]SerializedPathTile{"bad": {}}}); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestPathTilemap_FillCustomAndMinCost(t *testing.T) {
	grid := NewPathTilemap()
	if grid.MinCost() != 0 {
		t.Errorf("expected min cost 0 for empty grid, got %d", grid.MinCost())
	}

	grid.FillPathRectCustom(tmath.NewTileArea(tmath.IVec2{}, tmath.UVec2{X: 4, Y: 4}), func(i tmath.IVec2) *PathTile {
		if i.X == 0 {
			return nil
		}
		return &PathTile{Cost: uint32(i.X + i.Y)}
	})
	if grid.Len() != 12 {
		t.Errorf("expected 12 tiles, got %d", grid.Len())
	}
	if grid.MinCost() != 1 {
		t.Errorf("expected min cost 1, got %d", grid.MinCost())
	}

	clone := grid.Clone()
	clone.Remove(tmath.IVec2{X: 1, Y: 0})
	if !grid.Remove(tmath.IVec2{X: 1, Y: 0}) {
		t.Error("clone removal leaked into the original")
	}
}

func abs(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
