package model

import "math"

// Vector описывает трёхмерный вектор (импульс смерти, отбрасывание, точки попадания).
// Value type, передаётся по значению.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// ZeroVector is the additive identity.
var ZeroVector = Vector{}

// IsZero reports whether all components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v multiplied by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Length returns the euclidean length.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
