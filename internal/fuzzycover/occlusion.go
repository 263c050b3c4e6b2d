package fuzzycover

import "math"

// Occluded reports whether the segment from origin to p passes through an
// opaque cell. The origin's own cell counts, the cell of p does not, so a
// point sharing the origin's opaque cell is occluded.
func (s *Scene) Occluded(p, origin Point) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return traverse(p, origin, s.PStep, s.isOpaqueLocked)
}

// occluded is the lock-free variant used during a coverage pass.
func (o *opacity) occluded(p, origin Point, pstep float64) bool {
	return traverse(p, origin, pstep, o.blocked)
}

func voxelOf(p Point, pstep float64) Cell {
	return Cell{
		int(math.Floor(p.X/pstep + tieEps)),
		int(math.Floor(p.Y/pstep + tieEps)),
		int(math.Floor(p.Z/pstep + tieEps)),
	}
}

func (c Cell) idx(axis int) int {
	switch axis {
	case 0:
		return c.I
	case 1:
		return c.J
	}
	return c.K
}

func (c Cell) step(axis, by int) Cell {
	switch axis {
	case 0:
		c.I += by
	case 1:
		c.J += by
	default:
		c.K += by
	}
	return c
}

// traverse walks the voxels crossed by the segment origin->p (6-connected).
// When the segment crosses two or three voxel faces at the same parameter,
// every voxel adjacent to that edge or corner is tested as well.
func traverse(p, origin Point, pstep float64, blocked func(Cell) bool) bool {
	d := p.Sub(origin)
	cur := voxelOf(origin, pstep)
	end := voxelOf(p, pstep)
	if blocked(cur) {
		return true
	}
	if cur == end {
		return false
	}
	// driving axis: largest |d|
	drive := 0
	for a := 1; a < 3; a++ {
		if math.Abs(d.coord(a)) > math.Abs(d.coord(drive)) {
			drive = a
		}
	}
	if math.Abs(d.coord(drive)) < slabEps {
		return false
	}
	var (
		stp   [3]int
		tNext [3]float64
		tDel  [3]float64
	)
	for a := 0; a < 3; a++ {
		da := d.coord(a)
		switch {
		case da > slabEps:
			stp[a] = 1
			tNext[a] = (float64(cur.idx(a)+1)*pstep - origin.coord(a)) / da
			tDel[a] = pstep / da
		case da < -slabEps:
			stp[a] = -1
			tNext[a] = (float64(cur.idx(a))*pstep - origin.coord(a)) / da
			tDel[a] = -pstep / da
		default:
			tNext[a] = math.Inf(1)
		}
		if cur.idx(a) == end.idx(a) {
			tNext[a] = math.Inf(1)
		}
	}
	limit := 3
	for a := 0; a < 3; a++ {
		limit += imax(cur.idx(a)-end.idx(a), end.idx(a)-cur.idx(a))
	}
	test := func(c Cell) bool {
		return c != end && blocked(c)
	}
	for n := 0; n < limit; n++ {
		t := math.Min(tNext[0], math.Min(tNext[1], tNext[2]))
		if t >= 1-tieEps {
			return false
		}
		var axes []int
		for a := 0; a < 3; a++ {
			if tNext[a]-t <= tieEps {
				axes = append(axes, a)
			}
		}
		if len(axes) > 1 {
			// partial steps around the shared edge or corner
			for mask := 1; mask < 1<<len(axes)-1; mask++ {
				c := cur
				for b, a := range axes {
					if mask&(1<<b) != 0 {
						c = c.step(a, stp[a])
					}
				}
				if test(c) {
					return true
				}
			}
		}
		for _, a := range axes {
			cur = cur.step(a, stp[a])
			tNext[a] += tDel[a]
			if cur.idx(a) == end.idx(a) {
				tNext[a] = math.Inf(1)
			}
		}
		if cur == end {
			return false
		}
		if blocked(cur) {
			return true
		}
	}
	DebugLogOnce("Voxel traversal from %s to %s hit the step limit", origin, p)
	return false
}
