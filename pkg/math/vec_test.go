package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Mul(t *testing.T) {
	got := Vec2{2, 3}.Mul(Vec2{4, 5})
	want := Vec2{8, 15}
	if got != want {
		t.Errorf("Vec2.Mul() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec2Rotate(t *testing.T) {
	got := Vec2{1, 0}.Rotate(float32(math.Pi / 2))
	if math.Abs(float64(got.X)) > 1e-6 || math.Abs(float64(got.Y-1)) > 1e-6 {
		t.Errorf("Vec2.Rotate(pi/2) = %v, want (0,1)", got)
	}

	v := Vec2{2, 5}
	if v.Rotate(0) != v {
		t.Errorf("Vec2.Rotate(0) should be the identity, got %v", v.Rotate(0))
	}
}

func TestIVec2StringRoundTrip(t *testing.T) {
	for _, v := range []IVec2{{0, 0}, {-3, 7}, {2147483647, -2147483648}} {
		got, err := ParseIVec2(v.String())
		if err != nil {
			t.Fatalf("ParseIVec2(%q): %v", v.String(), err)
		}
		if got != v {
			t.Errorf("ParseIVec2(%q) = %v, want %v", v.String(), got, v)
		}
	}
}

func TestParseIVec2Invalid(t *testing.T) {
	for _, s := range []string{"", "12", "a,1", "1,b", "1,2,3"} {
		if _, err := ParseIVec2(s); err == nil {
			t.Errorf("ParseIVec2(%q) expected error", s)
		}
	}
}

func TestTileArea(t *testing.T) {
	area := NewTileArea(IVec2{-2, 3}, UVec2{4, 2})

	if area.Size() != 8 {
		t.Errorf("expected size 8, got %d", area.Size())
	}
	if area.Dest() != (IVec2{1, 4}) {
		t.Errorf("expected dest (1,4), got %v", area.Dest())
	}
	if !area.Contains(IVec2{-2, 3}) || !area.Contains(IVec2{1, 4}) {
		t.Error("expected area to contain its corners")
	}
	if area.Contains(IVec2{2, 4}) || area.Contains(IVec2{-2, 2}) {
		t.Error("expected area to exclude outside indices")
	}

	var visited []IVec2
	area.Each(func(i IVec2) { visited = append(visited, i) })
	if len(visited) != 8 {
		t.Fatalf("expected 8 visited indices, got %d", len(visited))
	}
	if visited[0] != (IVec2{-2, 3}) || visited[1] != (IVec2{-1, 3}) || visited[4] != (IVec2{-2, 4}) {
		t.Errorf("unexpected visit order: %v", visited)
	}
}
