package fuzzycover

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Policy selects how per-camera in-scene sets are combined.
type Policy int

const (
	// PolicySimple: covered by at least one camera (union).
	PolicySimple Policy = iota
	// PolicyStereo: covered by at least two cameras (union of pairwise intersections).
	PolicyStereo
)

func (p Policy) String() string {
	switch p {
	case PolicySimple:
		return "simple"
	case PolicyStereo:
		return "stereo"
	}
	return "unknown"
}

// ParsePolicy accepts "simple", "stereo" and its alias "3d".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "":
		return PolicySimple, nil
	case "stereo", "3d":
		return PolicyStereo, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedPolicy, "%q", s)
}

type camEntry struct {
	cam     *Camera
	inscene *FuzzySet
	gen     uint64 // camera pose generation the cache was built for
	version uint64 // scene version the cache was built for
}

// Network is a name-keyed set of cameras sharing one scene, with a cached
// in-scene set per camera and the aggregated coverage model.
type Network struct {
	scene    *Scene
	policy   Policy
	workers  int
	progress Progress

	mu     sync.RWMutex
	cams   map[string]*camEntry
	order  []string
	model  *FuzzySet
	sights *SightLog
}

type Option func(*Network)

// WithWorkers bounds the in-scene workers; n <= 0 means runtime.NumCPU().
func WithWorkers(n int) Option { return func(nw *Network) { nw.workers = n } }

// WithProgress reports in-scene progress per camera.
func WithProgress(p Progress) Option { return func(nw *Network) { nw.progress = p } }

func NewNetwork(scene *Scene, policy Policy, opts ...Option) (*Network, error) {
	if scene == nil {
		return nil, errors.Wrap(ErrInvalidScene, "nil scene")
	}
	if policy != PolicySimple && policy != PolicyStereo {
		return nil, errors.Wrapf(ErrUnsupportedPolicy, "policy %d", int(policy))
	}
	nw := &Network{
		scene:   scene,
		policy:  policy,
		workers: Workers,
		cams:    make(map[string]*camEntry),
		model:   NewFuzzySet(0),
		sights:  newSightLog(),
	}
	for _, o := range opts {
		o(nw)
	}
	return nw, nil
}

func (nw *Network) Scene() *Scene     { return nw.scene }
func (nw *Network) Policy() Policy    { return nw.policy }
func (nw *Network) Sights() *SightLog { return nw.sights }

// compute builds a fresh cache entry for cam against the current opacity.
func (nw *Network) compute(ctx context.Context, cam *Camera) (*camEntry, error) {
	pose, gen := cam.poseState()
	snap := nw.scene.snapshot()
	set, counts, err := inScene(ctx, nw.scene, snap, cam, pose, nw.workers, nw.progress)
	if err != nil {
		return nil, errors.Wrapf(err, "in-scene set for camera %s", cam.name)
	}
	nw.sights.record(cam.name, counts)
	DebugLog("Camera %s: in-scene set has %d points (scene version %d, pose generation %d)",
		cam.name, set.Len(), snap.version, gen)
	return &camEntry{cam: cam, inscene: set, gen: gen, version: snap.version}, nil
}

// AddCamera registers cam and computes its in-scene set immediately.
func (nw *Network) AddCamera(ctx context.Context, cam *Camera) error {
	if cam == nil {
		return errors.Wrap(ErrInvalidCamera, "nil camera")
	}
	nw.mu.RLock()
	_, dup := nw.cams[cam.name]
	nw.mu.RUnlock()
	if dup {
		return errors.Wrap(ErrDuplicateCamera, cam.name)
	}
	e, err := nw.compute(ctx, cam)
	if err != nil {
		return err
	}
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if _, ok := nw.cams[cam.name]; ok {
		return errors.Wrap(ErrDuplicateCamera, cam.name)
	}
	nw.cams[cam.name] = e
	nw.order = append(nw.order, cam.name)
	return nil
}

// RemoveCamera drops a camera and its cache.
func (nw *Network) RemoveCamera(name string) error {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if _, ok := nw.cams[name]; !ok {
		return errors.Wrap(ErrUnknownCamera, name)
	}
	delete(nw.cams, name)
	nw.order = slices.DeleteFunc(nw.order, func(n string) bool { return n == name })
	nw.sights.forget(name)
	return nil
}

func (nw *Network) Camera(name string) (*Camera, bool) {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	e, ok := nw.cams[name]
	if !ok {
		return nil, false
	}
	return e.cam, true
}

// Names returns camera names in insertion order.
func (nw *Network) Names() []string {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	return slices.Clone(nw.order)
}

func (nw *Network) Len() int {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	return len(nw.order)
}

// Refresh recomputes the in-scene sets of the named cameras, or of every
// camera when no names are given.
func (nw *Network) Refresh(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = nw.Names()
	}
	for _, name := range names {
		cam, ok := nw.Camera(name)
		if !ok {
			return errors.Wrap(ErrUnknownCamera, name)
		}
		e, err := nw.compute(ctx, cam)
		if err != nil {
			return err
		}
		nw.mu.Lock()
		if cur, ok := nw.cams[name]; ok && cur.cam == cam {
			nw.cams[name] = e
		}
		nw.mu.Unlock()
	}
	return nil
}

// Stale lists cameras whose cache no longer matches their pose or the scene's opacity.
func (nw *Network) Stale() []string {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	return nw.staleLocked()
}

// staleLocked expects nw.mu to be held.
func (nw *Network) staleLocked() []string {
	version := nw.scene.Version()
	var out []string
	for _, name := range nw.order {
		e := nw.cams[name]
		if e.gen != e.cam.PoseGeneration() || e.version != version {
			out = append(out, name)
		}
	}
	return out
}

// RefreshStale recomputes every stale cache.
func (nw *Network) RefreshStale(ctx context.Context) error {
	stale := nw.Stale()
	if len(stale) == 0 {
		return nil
	}
	return nw.Refresh(ctx, stale...)
}

// Update recomputes the network coverage model from the in-scene caches
// without touching geometry. It fails with ErrStaleCache if any cache was
// built for an older pose or opacity. Staleness is checked under the same
// lock as the aggregation, so the model matches the caches it was built from
// at that instant.
func (nw *Network) Update() (*FuzzySet, error) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if stale := nw.staleLocked(); len(stale) > 0 {
		return nil, errors.Wrapf(ErrStaleCache, "cameras %s", strings.Join(stale, ", "))
	}
	sets := make([]*FuzzySet, 0, len(nw.order))
	for _, name := range nw.order {
		sets = append(sets, nw.cams[name].inscene)
	}
	var model *FuzzySet
	switch nw.policy {
	case PolicySimple:
		model = unionAll(sets)
	case PolicyStereo:
		model = pairwise(sets)
	}
	nw.model = model
	DebugLog("Updated %s model from %d cameras: %d points", nw.policy, len(sets), model.Len())
	nw.sights.stats()
	return model.Clone(), nil
}

func unionAll(sets []*FuzzySet) *FuzzySet {
	out := NewFuzzySet(0)
	for _, s := range sets {
		out.unionInPlace(s)
	}
	return out
}

// pairwise is the union of the intersections of every unordered pair.
func pairwise(sets []*FuzzySet) *FuzzySet {
	out := NewFuzzySet(0)
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			out.unionInPlace(sets[i].Intersection(sets[j]))
		}
	}
	return out
}

// InScene returns a copy of a camera's cached in-scene set.
func (nw *Network) InScene(name string) (*FuzzySet, error) {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	e, ok := nw.cams[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownCamera, name)
	}
	return e.inscene.Clone(), nil
}

// Coverage returns a copy of the model produced by the last Update.
func (nw *Network) Coverage() *FuzzySet {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	return nw.model.Clone()
}

// Mu is the network membership of a scene sample; 0 when absent or off the lattice.
func (nw *Network) Mu(dp DirectionalPoint) float64 {
	k, ok := nw.scene.Key(dp)
	if !ok {
		return 0
	}
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	return nw.model.Mu(k)
}

// Performance is the sigma-count of the model over the number of scene samples.
func (nw *Network) Performance() float64 {
	n := nw.scene.PointCount()
	if n == 0 {
		return 0
	}
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	return nw.model.Cardinality() / float64(n)
}

// SightStats returns the counts of the last in-scene pass of a camera.
func (nw *Network) SightStats(name string) (SightCounts, bool) { return nw.sights.Get(name) }
