package fuzzycover

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a 3D rotation stored as a unit quaternion.
// The zero value is the identity.
type Rotation struct {
	q quat.Number
}

func IdentityRotation() Rotation { return Rotation{q: quat.Number{Real: 1}} }

func (r Rotation) num() quat.Number {
	if r.q == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return r.q
}

// RotationFromAxisAngle rotates by theta radians around axis (right-handed).
// A zero axis yields the identity.
func RotationFromAxisAngle(theta float64, axis Point) Rotation {
	if axis.Norm() < Eps {
		return IdentityRotation()
	}
	return Rotation{q: quat.Number(r3.NewRotation(theta, axis.vec()))}
}

// RotationFromEuler composes rotations of x, y and z radians about the X, Y
// and Z axes, applied in the sequence named by order (a permutation of "xyz").
func RotationFromEuler(order string, x, y, z float64) (Rotation, error) {
	if len(order) != 3 {
		return Rotation{}, errors.Wrapf(ErrInvalidRotation, "euler order %q", order)
	}
	R := IdentityRotation()
	seen := map[byte]bool{}
	for i := 0; i < 3; i++ {
		c := order[i]
		if seen[c] {
			return Rotation{}, errors.Wrapf(ErrInvalidRotation, "euler order %q repeats %q", order, c)
		}
		seen[c] = true
		switch c {
		case 'x', 'X':
			R = R.Then(RotationFromAxisAngle(x, Point{1, 0, 0}))
		case 'y', 'Y':
			R = R.Then(RotationFromAxisAngle(y, Point{0, 1, 0}))
		case 'z', 'Z':
			R = R.Then(RotationFromAxisAngle(z, Point{0, 0, 1}))
		default:
			return Rotation{}, errors.Wrapf(ErrInvalidRotation, "euler order %q has axis %q", order, c)
		}
	}
	return R, nil
}

// Then returns the rotation that applies r first and s second.
func (r Rotation) Then(s Rotation) Rotation {
	q := quat.Mul(s.num(), r.num())
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	}
	return Rotation{q: q}
}

func (r Rotation) Inverse() Rotation { return Rotation{q: quat.Conj(r.num())} }

func (r Rotation) Rotate(p Point) Point {
	return pointOf(r3.Rotation(r.num()).Rotate(p.vec()))
}

// RotateDirectional rotates both position and direction of d.
func (r Rotation) RotateDirectional(d DirectionalPoint) DirectionalPoint {
	rho, eta := directionAngles(r.Rotate(d.Direction()))
	return DirectionalPoint{Point: r.Rotate(d.Point), Rho: rho, Eta: eta}
}

// AxisAngle returns the rotation angle in [0, π] and its unit axis;
// the identity reports angle 0 around +Z.
func (r Rotation) AxisAngle() (float64, Point) {
	q := r.num()
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	axis := Point{q.Imag, q.Jmag, q.Kmag}
	s := axis.Norm()
	if s < Eps {
		return 0, Point{0, 0, 1}
	}
	return 2 * math.Atan2(s, q.Real), axis.Scale(1 / s)
}

// Matrix returns the row-major rotation matrix.
func (r Rotation) Matrix() Mat3 {
	var M Mat3
	cols := [3]Point{r.Rotate(Point{1, 0, 0}), r.Rotate(Point{0, 1, 0}), r.Rotate(Point{0, 0, 1})}
	for c, v := range cols {
		M.M[0][c], M.M[1][c], M.M[2][c] = v.X, v.Y, v.Z
	}
	return M
}

// Equal compares rotations within Eps (q and -q are the same rotation).
func (r Rotation) Equal(s Rotation) bool {
	a, b := r.num(), s.num()
	d1 := quat.Abs(quat.Sub(a, b))
	d2 := quat.Abs(quat.Add(a, b))
	return math.Min(d1, d2) < 1e-7
}
