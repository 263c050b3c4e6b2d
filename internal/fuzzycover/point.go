package fuzzycover

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Locus is anything a camera can evaluate: a Point or a DirectionalPoint.
type Locus interface {
	Pos() Point
	locus()
}

// Point represents a position in 3-dimensional space.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (p Point) vec() r3.Vec    { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }
func pointOf(v r3.Vec) Point   { return Point{v.X, v.Y, v.Z} }
func (p Point) Pos() Point     { return p }
func (Point) locus()           {}
func (p Point) String() string { return fmt.Sprintf("(%.6g, %.6g, %.6g)", p.X, p.Y, p.Z) }

// Point functions
func (p Point) Add(q Point) Point        { return pointOf(r3.Add(p.vec(), q.vec())) }
func (p Point) Sub(q Point) Point        { return pointOf(r3.Sub(p.vec(), q.vec())) }
func (p Point) Scale(s float64) Point    { return pointOf(r3.Scale(s, p.vec())) }
func (p Point) Dot(q Point) float64      { return r3.Dot(p.vec(), q.vec()) }
func (p Point) Cross(q Point) Point      { return pointOf(r3.Cross(p.vec(), q.vec())) }
func (p Point) Norm() float64            { return r3.Norm(p.vec()) }
func (p Point) Distance(q Point) float64 { return p.Sub(q).Norm() }

// Unit returns a unit-length version of p, or p itself when it is (near) zero.
func (p Point) Unit() Point {
	if p.Norm() < Eps {
		return p
	}
	return pointOf(r3.Unit(p.vec()))
}

// Equal compares coordinates within Eps.
func (p Point) Equal(q Point) bool {
	return scalar.EqualWithinAbs(p.X, q.X, Eps) &&
		scalar.EqualWithinAbs(p.Y, q.Y, Eps) &&
		scalar.EqualWithinAbs(p.Z, q.Z, Eps)
}

// Less orders points lexicographically by X, Y, Z; coordinates equal within Eps tie.
func (p Point) Less(q Point) bool {
	a, b := [3]float64{p.X, p.Y, p.Z}, [3]float64{q.X, q.Y, q.Z}
	for i := range a {
		if scalar.EqualWithinAbs(a[i], b[i], Eps) {
			continue
		}
		return a[i] < b[i]
	}
	return false
}

func (p Point) coord(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	return p.Z
}
