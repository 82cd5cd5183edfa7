package math

import (
	"fmt"
	"strconv"
	"strings"
)

// IVec2 is a signed integer grid coordinate. Tile and chunk indices use it.
type IVec2 struct {
	X, Y int32
}

// ISplat returns an index with both components set to s.
func ISplat(s int32) IVec2 {
	return IVec2{s, s}
}

// Add returns v + other.
func (v IVec2) Add(other IVec2) IVec2 {
	return IVec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v IVec2) Sub(other IVec2) IVec2 {
	return IVec2{v.X - other.X, v.Y - other.Y}
}

// Vec2 converts to float components.
func (v IVec2) Vec2() Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}

// String formats the index as "x,y".
func (v IVec2) String() string {
	return strconv.FormatInt(int64(v.X), 10) + "," + strconv.FormatInt(int64(v.Y), 10)
}

// ParseIVec2 parses the "x,y" form produced by String.
func ParseIVec2(s string) (IVec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return IVec2{}, fmt.Errorf("invalid index %q: missing comma", s)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 32)
	if err != nil {
		return IVec2{}, fmt.Errorf("invalid index %q: %w", s, err)
	}
	y, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 32)
	if err != nil {
		return IVec2{}, fmt.Errorf("invalid index %q: %w", s, err)
	}
	return IVec2{int32(x), int32(y)}, nil
}

// UVec2 is an unsigned extent.
type UVec2 struct {
	X, Y uint32
}

// IVec2 converts to a signed index.
func (v UVec2) IVec2() IVec2 {
	return IVec2{int32(v.X), int32(v.Y)}
}

// Vec2 converts to float components.
func (v UVec2) Vec2() Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}
