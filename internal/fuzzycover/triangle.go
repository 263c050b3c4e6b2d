package fuzzycover

import "math"

// Triangle is a planar facet.
type Triangle struct {
	V [3]Point
}

func NewTriangle(a, b, c Point) Triangle { return Triangle{V: [3]Point{a, b, c}} }

// Normal returns the (unnormalized) face normal (V1-V0)×(V2-V0).
func (t Triangle) Normal() Point { return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])) }

func (t Triangle) Area() float64 { return 0.5 * t.Normal().Norm() }

// Degenerate reports a (near) zero-area triangle.
func (t Triangle) Degenerate() bool { return t.Normal().Norm() < Eps }

// Map returns the triangle with every vertex mapped through pose.
func (t Triangle) Map(pose Pose) Triangle {
	return Triangle{V: [3]Point{pose.Map(t.V[0]), pose.Map(t.V[1]), pose.Map(t.V[2])}}
}

// Bounds returns the axis-aligned bounding box.
func (t Triangle) Bounds() (min, max Point) {
	min, max = t.V[0], t.V[0]
	for _, v := range t.V[1:] {
		min = Point{math.Min(min.X, v.X), math.Min(min.Y, v.Y), math.Min(min.Z, v.Z)}
		max = Point{math.Max(max.X, v.X), math.Max(max.Y, v.Y), math.Max(max.Z, v.Z)}
	}
	return min, max
}

// Intersection returns the point where segment a→b crosses the triangle.
// Zero-length segments, segments parallel to the plane and degenerate
// triangles never intersect.
func (t Triangle) Intersection(a, b Point) (Point, bool) {
	d := b.Sub(a)
	dl := d.Norm()
	if dl < Eps {
		return Point{}, false
	}
	n := t.Normal()
	nl := n.Norm()
	if nl < Eps {
		return Point{}, false
	}
	denom := n.Dot(d)
	if math.Abs(denom) < Eps*nl*dl {
		return Point{}, false
	}
	s := n.Dot(t.V[0].Sub(a)) / denom
	if s < -Eps || s > 1+Eps {
		return Point{}, false
	}
	p := a.Add(d.Scale(s))
	if !t.contains(p) {
		return Point{}, false
	}
	return p, true
}

// contains is the barycentric inside test for a point in the triangle plane.
func (t Triangle) contains(p Point) bool {
	v0 := t.V[2].Sub(t.V[0])
	v1 := t.V[1].Sub(t.V[0])
	v2 := p.Sub(t.V[0])
	d00, d01, d02 := v0.Dot(v0), v0.Dot(v1), v0.Dot(v2)
	d11, d12 := v1.Dot(v1), v1.Dot(v2)
	den := d00*d11 - d01*d01
	if math.Abs(den) < Eps*Eps {
		return false
	}
	u := (d11*d02 - d01*d12) / den
	v := (d00*d12 - d01*d02) / den
	const tol = 1e-9
	return u >= -tol && v >= -tol && u+v <= 1+tol
}

func (t Triangle) edges() [3][2]Point {
	return [3][2]Point{{t.V[0], t.V[1]}, {t.V[1], t.V[2]}, {t.V[2], t.V[0]}}
}

// Overlap reports whether two triangles share at least one point.
// Non-coplanar pairs intersect iff some edge of one crosses the other;
// coplanar pairs are tested in the dominant projection plane.
func (t Triangle) Overlap(o Triangle) bool {
	if t.Degenerate() || o.Degenerate() {
		return false
	}
	for _, e := range t.edges() {
		if _, ok := o.Intersection(e[0], e[1]); ok {
			return true
		}
	}
	for _, e := range o.edges() {
		if _, ok := t.Intersection(e[0], e[1]); ok {
			return true
		}
	}
	n := t.Normal()
	if n.Cross(o.Normal()).Norm() > Eps*n.Norm()*o.Normal().Norm() {
		return false
	}
	if math.Abs(n.Unit().Dot(o.V[0].Sub(t.V[0]))) > Eps {
		return false
	}
	return coplanarOverlap(t, o, dominantAxis(n))
}

func dominantAxis(n Point) int {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	}
	return 2
}

type vec2 struct{ u, v float64 }

func project2(p Point, drop int) vec2 {
	switch drop {
	case 0:
		return vec2{p.Y, p.Z}
	case 1:
		return vec2{p.X, p.Z}
	}
	return vec2{p.X, p.Y}
}

func cross2(o, a, b vec2) float64 { return (a.u-o.u)*(b.v-o.v) - (a.v-o.v)*(b.u-o.u) }

func segments2Intersect(p1, p2, q1, q2 vec2) bool {
	d1 := cross2(q1, q2, p1)
	d2 := cross2(q1, q2, p2)
	d3 := cross2(p1, p2, q1)
	d4 := cross2(p1, p2, q2)
	if ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
		((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps)) {
		return true
	}
	on := func(a, b, c vec2, d float64) bool {
		return math.Abs(d) <= Eps &&
			math.Min(a.u, b.u)-Eps <= c.u && c.u <= math.Max(a.u, b.u)+Eps &&
			math.Min(a.v, b.v)-Eps <= c.v && c.v <= math.Max(a.v, b.v)+Eps
	}
	return on(q1, q2, p1, d1) || on(q1, q2, p2, d2) || on(p1, p2, q1, d3) || on(p1, p2, q2, d4)
}

func inside2(p vec2, t [3]vec2) bool {
	a := cross2(t[0], t[1], p)
	b := cross2(t[1], t[2], p)
	c := cross2(t[2], t[0], p)
	return (a >= -Eps && b >= -Eps && c >= -Eps) || (a <= Eps && b <= Eps && c <= Eps)
}

func coplanarOverlap(t, o Triangle, drop int) bool {
	var a, b [3]vec2
	for i := 0; i < 3; i++ {
		a[i], b[i] = project2(t.V[i], drop), project2(o.V[i], drop)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segments2Intersect(a[i], a[(i+1)%3], b[j], b[(j+1)%3]) {
				return true
			}
		}
	}
	return inside2(a[0], b) || inside2(b[0], a)
}
