// Package math provides the vector and grid types shared by the tile-map packages.
package math

import "math"

// Vec2 is a 2D world-space vector.
type Vec2 struct {
	X, Y float32
}

// Splat returns a vector with both components set to s.
func Splat(s float32) Vec2 {
	return Vec2{s, s}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Mul returns the component-wise product.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// Rotate rotates v counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float32) Vec2 {
	if angle == 0 {
		return v
	}
	sin, cos := math.Sincos(float64(angle))
	s, c := float32(sin), float32(cos)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Vec4 is a 4-component vector, used for RGBA tile colors.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec4One is opaque white.
var Vec4One = Vec4{1, 1, 1, 1}
