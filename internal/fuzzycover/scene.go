package fuzzycover

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// Range is a closed-open interval [Min, Max).
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Cell is a lattice index: the cell point is (I, J, K) * pstep and the cell
// voxel is the box from that point to the next lattice point on every axis.
type Cell struct {
	I, J, K int
}

func compareCells(a, b Cell) int {
	return cmp.Or(cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J), cmp.Compare(a.K, b.K))
}

type direction struct {
	rho, eta float64
	ri, ei   int
}

// Scene is a discrete spatial-directional range with a set of opaque cells.
type Scene struct {
	X, Y, Z      Range
	PStep, DStep float64
	Nx, Ny, Nz   int // cells per axis
	Origin       Cell

	dirs []direction

	mu        sync.RWMutex
	opaque    mapset.Set[Cell] // explicit (MakeOpaque)
	derived   mapset.Set[Cell] // voxelized occluders (RebuildOpacity)
	occluders map[string]*Occluder
	version   uint64
}

// NewScene validates the region and steps and precomputes the direction samples.
// The lower corner must lie on the pstep lattice.
func NewScene(x, y, z Range, pstep, dstep float64) (*Scene, error) {
	if !(pstep > 0) || !isFinite(pstep) {
		return nil, errors.Wrapf(ErrInvalidScene, "pstep=%v", pstep)
	}
	if !(dstep > 0) || !isFinite(dstep) {
		return nil, errors.Wrapf(ErrInvalidScene, "dstep=%v", dstep)
	}
	s := &Scene{
		X: x, Y: y, Z: z,
		PStep:     pstep,
		DStep:     dstep,
		opaque:    mapset.NewSet[Cell](),
		derived:   mapset.NewSet[Cell](),
		occluders: make(map[string]*Occluder),
	}
	var n [3]int
	var o [3]int
	for axis, r := range [3]Range{x, y, z} {
		if !(r.Max > r.Min) || !isFinite(r.Min) || !isFinite(r.Max) {
			return nil, errors.Wrapf(ErrInvalidScene, "axis %d range [%v, %v)", axis, r.Min, r.Max)
		}
		i, ok := s.latticeIndex(r.Min)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidScene, "axis %d lower bound %v is off the %v lattice", axis, r.Min, pstep)
		}
		o[axis] = i
		n[axis] = int(math.Ceil((r.Max-r.Min)/pstep - 1e-9))
	}
	s.Nx, s.Ny, s.Nz = n[0], n[1], n[2]
	s.Origin = Cell{o[0], o[1], o[2]}
	s.dirs = sampleDirections(dstep)
	DebugLog("Created scene x=%+v y=%+v z=%+v pstep=%g dstep=%g cells=(%d, %d, %d) directions=%d",
		x, y, z, pstep, dstep, s.Nx, s.Ny, s.Nz, len(s.dirs))
	return s, nil
}

// sampleDirections crosses rho in [0, π] with eta in [0, 2π); the poles are
// emitted once with eta 0.
func sampleDirections(dstep float64) []direction {
	nRho := int(math.Floor(math.Pi/dstep+1e-9)) + 1
	nEta := etaSamples(dstep)
	out := make([]direction, 0, nRho*nEta)
	for ri := 0; ri < nRho; ri++ {
		rho := float64(ri) * dstep
		if isPole(rho) {
			out = append(out, direction{rho: rho, ri: ri})
			continue
		}
		for ei := 0; ei < nEta; ei++ {
			out = append(out, direction{rho: rho, eta: float64(ei) * dstep, ri: ri, ei: ei})
		}
	}
	return out
}

// etaSamples is the number of azimuths in [0, 2π).
func etaSamples(dstep float64) int {
	return int(math.Ceil(2*math.Pi/dstep - 1e-9))
}

func (s *Scene) latticeIndex(v float64) (int, bool) {
	q := v / s.PStep
	r := math.Round(q)
	if math.Abs(q-r) > Eps*math.Max(1, math.Abs(q)) {
		return 0, false
	}
	return int(r), true
}

// CellOf returns the lattice cell of a point that lies exactly on the lattice.
func (s *Scene) CellOf(p Point) (Cell, error) {
	i, okI := s.latticeIndex(p.X)
	j, okJ := s.latticeIndex(p.Y)
	k, okK := s.latticeIndex(p.Z)
	if !okI || !okJ || !okK {
		return Cell{}, errors.Wrapf(ErrNotOnGrid, "point %s, pstep %g", p, s.PStep)
	}
	return Cell{i, j, k}, nil
}

// CellPoint returns the lattice point of c.
func (s *Scene) CellPoint(c Cell) Point {
	return Point{float64(c.I) * s.PStep, float64(c.J) * s.PStep, float64(c.K) * s.PStep}
}

// InRegion reports whether c is one of the scene's sample cells.
func (s *Scene) InRegion(c Cell) bool {
	return c.I >= s.Origin.I && c.I < s.Origin.I+s.Nx &&
		c.J >= s.Origin.J && c.J < s.Origin.J+s.Ny &&
		c.K >= s.Origin.K && c.K < s.Origin.K+s.Nz
}

// MakeOpaque adds a lattice point to the set of opaque cells.
func (s *Scene) MakeOpaque(p Point) error {
	c, err := s.CellOf(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.opaque.Add(c) {
		s.version++
	}
	s.mu.Unlock()
	return nil
}

// MakeClear removes a lattice point from the explicit opaque cells.
// Cells derived from occluders stay opaque until RebuildOpacity.
func (s *Scene) MakeClear(p Point) error {
	c, err := s.CellOf(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.opaque.Contains(c) {
		s.opaque.Remove(c)
		s.version++
	}
	s.mu.Unlock()
	return nil
}

// Opaque reports whether the cell of lattice point p is opaque.
func (s *Scene) Opaque(p Point) bool {
	c, err := s.CellOf(p)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpaqueLocked(c)
}

func (s *Scene) isOpaqueLocked(c Cell) bool {
	return s.opaque.Contains(c) || s.derived.Contains(c)
}

// OpaqueCells returns every opaque cell (explicit and derived) in lattice order.
func (s *Scene) OpaqueCells() []Cell {
	s.mu.RLock()
	cells := s.opaque.Union(s.derived).ToSlice()
	s.mu.RUnlock()
	slices.SortFunc(cells, compareCells)
	return cells
}

// Version increases on every opacity edit.
func (s *Scene) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Directions returns the number of direction samples per cell.
func (s *Scene) Directions() int { return len(s.dirs) }

// opacity is an immutable copy of the opaque cells used for one coverage pass.
type opacity struct {
	cells   mapset.Set[Cell]
	version uint64
}

func (o *opacity) blocked(c Cell) bool { return o.cells.Contains(c) }

func (s *Scene) snapshot() *opacity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cells := mapset.NewThreadUnsafeSetWithSize[Cell](s.opaque.Cardinality() + s.derived.Cardinality())
	add := func(c Cell) bool {
		cells.Add(c)
		return false
	}
	s.opaque.Each(add)
	s.derived.Each(add)
	return &opacity{cells: cells, version: s.version}
}

// cells lists the non-opaque sample cells in lattice order.
func (s *Scene) cells(snap *opacity) []Cell {
	out := make([]Cell, 0, s.Nx*s.Ny*s.Nz)
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			for k := 0; k < s.Nz; k++ {
				c := Cell{s.Origin.I + i, s.Origin.J + j, s.Origin.K + k}
				if snap.blocked(c) {
					continue
				}
				out = append(out, c)
			}
		}
	}
	return out
}

// keyedPoints enumerates every non-opaque cell crossed with every direction.
func (s *Scene) keyedPoints(snap *opacity) iter.Seq2[PointKey, DirectionalPoint] {
	return func(yield func(PointKey, DirectionalPoint) bool) {
		for _, c := range s.cells(snap) {
			p := s.CellPoint(c)
			for _, d := range s.dirs {
				if !yield(PointKey{Cell: c, Rho: d.ri, Eta: d.ei}, DirectionalPoint{Point: p, Rho: d.rho, Eta: d.eta}) {
					return
				}
			}
		}
	}
}

// GeneratePoints returns a restartable sequence of directional points covering
// every non-opaque cell of the region crossed with every sampled direction.
// Each iteration reads the opaque cells as they are when it starts.
func (s *Scene) GeneratePoints() iter.Seq[DirectionalPoint] {
	return func(yield func(DirectionalPoint) bool) {
		for _, dp := range s.keyedPoints(s.snapshot()) {
			if !yield(dp) {
				return
			}
		}
	}
}

// PointCount is the length of GeneratePoints for the current opacity.
func (s *Scene) PointCount() int {
	snap := s.snapshot()
	n := 0
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			for k := 0; k < s.Nz; k++ {
				if !snap.blocked(Cell{s.Origin.I + i, s.Origin.J + j, s.Origin.K + k}) {
					n++
				}
			}
		}
	}
	return n * len(s.dirs)
}

// Key returns the sample key of a directional point on the scene lattice.
func (s *Scene) Key(dp DirectionalPoint) (PointKey, bool) {
	c, err := s.CellOf(dp.Point)
	if err != nil {
		return PointKey{}, false
	}
	ri := int(math.Round(dp.Rho / s.DStep))
	if math.Abs(float64(ri)*s.DStep-dp.Rho) > 1e-6 {
		return PointKey{}, false
	}
	if isPole(float64(ri) * s.DStep) {
		return PointKey{Cell: c, Rho: ri}, true
	}
	eta := NormalizeAngle(dp.Eta)
	ei := int(math.Round(eta / s.DStep))
	if math.Abs(float64(ei)*s.DStep-eta) > 1e-6 {
		return PointKey{}, false
	}
	// an azimuth just below 2π is the eta = 0 sample
	return PointKey{Cell: c, Rho: ri, Eta: ei % etaSamples(s.DStep)}, true
}
