// Package math provides the small vector type shared by the terrain engine,
// its renderers and its input adapters.
package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector in world or layer-local space (y up).
type Vec2 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length2 returns the squared magnitude.
func (v Vec2) Length2() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.Length2())
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance2 returns the squared distance to another point.
// Hit tests compare it against a squared radius to avoid the square root.
func (v Vec2) Distance2(other Vec2) float32 {
	return v.Sub(other).Length2()
}

// RoundX returns v with X snapped to the nearest integer, halves away
// from zero.
func (v Vec2) RoundX() Vec2 {
	return Vec2{math32.Round(v.X), v.Y}
}

