package fuzzycover

import "fmt"

// Pose is a rigid transform: rotate by R, then translate by T.
// The zero value is the identity.
type Pose struct {
	T Point
	R Rotation
}

func NewPose(t Point, r Rotation) Pose { return Pose{T: t, R: r} }
func IdentityPose() Pose               { return Pose{R: IdentityRotation()} }

func (p Pose) Map(q Point) Point       { return p.R.Rotate(q).Add(p.T) }
func (p Pose) MapRotate(q Point) Point { return p.R.Rotate(q) }

// MapDirectional moves the position and rotates the direction.
func (p Pose) MapDirectional(d DirectionalPoint) DirectionalPoint {
	return p.R.RotateDirectional(d).Add(p.T)
}

// MapLocus maps a Point or a DirectionalPoint, keeping its kind.
func (p Pose) MapLocus(l Locus) Locus {
	switch v := l.(type) {
	case DirectionalPoint:
		return p.MapDirectional(v)
	case Point:
		return p.Map(v)
	}
	return p.Map(l.Pos())
}

// Inverse returns the pose mapping p's output frame back to its input frame.
func (p Pose) Inverse() Pose {
	ri := p.R.Inverse()
	return Pose{T: ri.Rotate(p.T).Scale(-1), R: ri}
}

// Then returns the pose that applies p first and q second.
func (p Pose) Then(q Pose) Pose {
	return Pose{T: q.Map(p.T), R: p.R.Then(q.R)}
}

func (p Pose) Equal(q Pose) bool { return p.T.Equal(q.T) && p.R.Equal(q.R) }

func (p Pose) String() string {
	theta, axis := p.R.AxisAngle()
	return fmt.Sprintf("T=%s R=%.6g@%s", p.T, theta, axis)
}
