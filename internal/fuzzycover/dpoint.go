package fuzzycover

import (
	"fmt"
	"math"
)

// DirectionalPoint is a Point with an outward viewing direction given by the
// polar angle Rho in [0, π] (from +Z) and the azimuth Eta in [0, 2π) (from +X).
type DirectionalPoint struct {
	Point
	Rho float64 `yaml:"rho"`
	Eta float64 `yaml:"eta"`
}

// NewDirectionalPoint builds a directional point with canonical angles.
// Rho outside [0, π] is folded through the direction vector; Eta is wrapped
// and forced to 0 at the poles.
func NewDirectionalPoint(x, y, z, rho, eta float64) DirectionalPoint {
	if rho < 0 || rho > math.Pi {
		rho, eta = directionAngles(unitDirection(rho, eta))
	}
	eta = NormalizeAngle(eta)
	if isPole(rho) {
		eta = 0
	}
	return DirectionalPoint{Point: Point{x, y, z}, Rho: rho, Eta: eta}
}

func (d DirectionalPoint) Pos() Point { return d.Point }
func (DirectionalPoint) locus()       {}

// Add translates the position; the direction is unchanged.
func (d DirectionalPoint) Add(p Point) DirectionalPoint {
	return DirectionalPoint{Point: d.Point.Add(p), Rho: d.Rho, Eta: d.Eta}
}

// Direction returns the unit viewing direction.
func (d DirectionalPoint) Direction() Point { return unitDirection(d.Rho, d.Eta) }

// Equal compares positions and direction vectors within Eps, so wrapped
// azimuths and the arbitrary azimuth at the poles compare equal.
func (d DirectionalPoint) Equal(o DirectionalPoint) bool {
	return d.Point.Equal(o.Point) && d.Direction().Equal(o.Direction())
}

func (d DirectionalPoint) String() string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g, ρ=%.6g, η=%.6g)", d.X, d.Y, d.Z, d.Rho, d.Eta)
}

func unitDirection(rho, eta float64) Point {
	sr, cr := math.Sincos(rho)
	se, ce := math.Sincos(eta)
	return Point{sr * ce, sr * se, cr}
}

// directionAngles is the inverse of unitDirection; u need not be unit length.
func directionAngles(u Point) (rho, eta float64) {
	n := u.Norm()
	if n < Eps {
		return 0, 0
	}
	rho = math.Acos(math.Max(-1, math.Min(1, u.Z/n)))
	if isPole(rho) {
		return rho, 0
	}
	return rho, NormalizeAngle(math.Atan2(u.Y, u.X))
}

func isPole(rho float64) bool {
	return math.Abs(rho) < AngleEps || math.Abs(rho-math.Pi) < AngleEps
}
