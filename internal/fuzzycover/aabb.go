package fuzzycover

import "math"

// segmentAABB is the slab test of segment a→b (t in [0,1]) against the
// closed box [minP, maxP].
func segmentAABB(a, b, minP, maxP Point) bool {
	tmin, tmax := 0.0, 1.0
	d := b.Sub(a)
	for axis := 0; axis < 3; axis++ {
		o, dir := a.coord(axis), d.coord(axis)
		lo, hi := minP.coord(axis), maxP.coord(axis)
		if math.Abs(dir) < slabEps {
			// parallel: must already lie inside the slab
			if o < lo || o > hi {
				return false
			}
			continue
		}
		inv := 1 / dir
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false
		}
	}
	return true
}

func boxContains(minP, maxP, p Point) bool {
	return p.X >= minP.X && p.X <= maxP.X &&
		p.Y >= minP.Y && p.Y <= maxP.Y &&
		p.Z >= minP.Z && p.Z <= maxP.Z
}

func boxesOverlap(aMin, aMax, bMin, bMax Point) bool {
	return aMin.X <= bMax.X && aMax.X >= bMin.X &&
		aMin.Y <= bMax.Y && aMax.Y >= bMin.Y &&
		aMin.Z <= bMax.Z && aMax.Z >= bMin.Z
}

// boxEdges lists the 12 edges of the box [minP, maxP].
func boxEdges(minP, maxP Point) [12][2]Point {
	var c [8]Point
	for i := 0; i < 8; i++ {
		c[i] = Point{minP.X, minP.Y, minP.Z}
		if i&1 != 0 {
			c[i].X = maxP.X
		}
		if i&2 != 0 {
			c[i].Y = maxP.Y
		}
		if i&4 != 0 {
			c[i].Z = maxP.Z
		}
	}
	var e [12][2]Point
	n := 0
	for i := 0; i < 8; i++ {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				e[n] = [2]Point{c[i], c[i|bit]}
				n++
			}
		}
	}
	return e
}

// triangleAABB reports whether triangle t touches the closed box: a vertex is
// inside, a triangle edge crosses the box, or a box edge crosses the triangle.
func triangleAABB(t Triangle, minP, maxP Point) bool {
	tMin, tMax := t.Bounds()
	if !boxesOverlap(tMin, tMax, minP, maxP) {
		return false
	}
	for _, v := range t.V {
		if boxContains(minP, maxP, v) {
			return true
		}
	}
	for _, e := range t.edges() {
		if segmentAABB(e[0], e[1], minP, maxP) {
			return true
		}
	}
	if t.Degenerate() {
		return false
	}
	for _, e := range boxEdges(minP, maxP) {
		if _, ok := t.Intersection(e[0], e[1]); ok {
			return true
		}
	}
	return false
}
