package fuzzycover

import (
	"math"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"
)

// Occluder is a named, posable triangle mesh that blocks lines of sight once
// the scene's opacity is rebuilt.
type Occluder struct {
	posed
	name      string
	triangles []Triangle // local frame
}

// NewOccluder drops degenerate triangles; an occluder left with none is invalid.
func NewOccluder(name string, triangles []Triangle, pose Pose) (*Occluder, error) {
	if name == "" {
		return nil, errors.Wrap(ErrInvalidOccluder, "empty name")
	}
	o := &Occluder{name: name}
	for _, t := range triangles {
		if t.Degenerate() {
			DebugLog("Occluder %s: skipping degenerate triangle %v", name, t.V)
			continue
		}
		o.triangles = append(o.triangles, t)
	}
	if len(o.triangles) == 0 {
		return nil, errors.Wrapf(ErrInvalidOccluder, "%s has no usable triangles", name)
	}
	o.pose = pose
	return o, nil
}

func (o *Occluder) Name() string { return o.name }

// Triangles returns the mesh in the world frame for the current pose.
func (o *Occluder) Triangles() []Triangle {
	pose := o.Pose()
	out := make([]Triangle, len(o.triangles))
	for i, t := range o.triangles {
		out[i] = t.Map(pose)
	}
	return out
}

// facet is one world-frame occluder triangle stored in the R-tree.
type facet struct {
	tri  Triangle
	rect rtreego.Rect
}

func (f *facet) Bounds() rtreego.Rect { return f.rect }

// boxRect turns an AABB into an R-tree rectangle; flat sides get a small
// thickness because rtreego rejects zero lengths.
func boxRect(minP, maxP Point, pad float64) (rtreego.Rect, error) {
	lo := rtreego.Point{minP.X - pad, minP.Y - pad, minP.Z - pad}
	ln := []float64{
		math.Max(maxP.X-minP.X+2*pad, slabEps),
		math.Max(maxP.Y-minP.Y+2*pad, slabEps),
		math.Max(maxP.Z-minP.Z+2*pad, slabEps),
	}
	return rtreego.NewRect(lo, ln)
}

// AddOccluder registers o. Opacity is unchanged until RebuildOpacity.
func (s *Scene) AddOccluder(o *Occluder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.occluders[o.name]; ok {
		return errors.Wrap(ErrDuplicateOccluder, o.name)
	}
	s.occluders[o.name] = o
	return nil
}

// RemoveOccluder unregisters an occluder by name and reports whether it was present.
func (s *Scene) RemoveOccluder(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.occluders[name]
	delete(s.occluders, name)
	return ok
}

// Occluders returns the registered occluder names, sorted.
func (s *Scene) Occluders() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.occluders))
	for n := range s.occluders {
		names = append(names, n)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names
}

// RebuildOpacity voxelizes the current occluder poses: every region cell
// whose voxel touches an occluder triangle becomes opaque. It replaces the
// previously derived cells and returns how many there are now.
func (s *Scene) RebuildOpacity() (int, error) {
	s.mu.RLock()
	occs := make([]*Occluder, 0, len(s.occluders))
	for _, o := range s.occluders {
		occs = append(occs, o)
	}
	s.mu.RUnlock()

	var items []rtreego.Spatial
	for _, o := range occs {
		for _, t := range o.Triangles() {
			lo, hi := t.Bounds()
			r, err := boxRect(lo, hi, Eps)
			if err != nil {
				return 0, errors.Wrapf(err, "occluder %s", o.name)
			}
			items = append(items, &facet{tri: t, rect: r})
		}
	}
	derived := mapset.NewSet[Cell]()
	if len(items) > 0 {
		tree := rtreego.NewTree(3, 25, 50, items...)
		for i := 0; i < s.Nx; i++ {
			for j := 0; j < s.Ny; j++ {
				for k := 0; k < s.Nz; k++ {
					c := Cell{s.Origin.I + i, s.Origin.J + j, s.Origin.K + k}
					lo := s.CellPoint(c)
					hi := lo.Add(Point{s.PStep, s.PStep, s.PStep})
					r, err := boxRect(lo, hi, 0)
					if err != nil {
						return 0, errors.Wrapf(err, "cell %v", c)
					}
					for _, sp := range tree.SearchIntersect(r) {
						if triangleAABB(sp.(*facet).tri, lo, hi) {
							derived.Add(c)
							break
						}
					}
				}
			}
		}
	}
	s.mu.Lock()
	s.derived = derived
	s.version++
	s.mu.Unlock()
	n := derived.Cardinality()
	DebugLog("Rebuilt opacity from %d occluders (%d facets): %d opaque cells", len(occs), len(items), n)
	return n, nil
}
