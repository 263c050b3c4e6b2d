package fuzzycover

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stereoRig: camera A below the target looking up +Z, camera B beside it
// looking along +X, one cell closer than the focus distance.
func stereoRig(t *testing.T) (*Scene, *Camera, *Camera) {
	t.Helper()
	s := testScene(t, 10, math.Pi/4)
	a := testCamera(t, "A", NewPose(Point{5, 5, 0}, Rotation{}))
	b := testCamera(t, "B", NewPose(Point{1, 5, 5}, RotationFromAxisAngle(math.Pi/2, Point{0, 1, 0})))
	return s, a, b
}

func newTestNetwork(t *testing.T, s *Scene, p Policy, cams ...*Camera) *Network {
	t.Helper()
	nw, err := NewNetwork(s, p, WithWorkers(4))
	require.NoError(t, err)
	for _, c := range cams {
		require.NoError(t, nw.AddCamera(context.Background(), c))
	}
	_, err = nw.Update()
	require.NoError(t, err)
	return nw
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"simple": PolicySimple, "": PolicySimple, "stereo": PolicyStereo, "3D": PolicyStereo} {
		p, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p)
	}
	_, err := ParsePolicy("laser")
	assert.True(t, errors.Is(err, ErrUnsupportedPolicy))
	assert.Equal(t, "stereo", PolicyStereo.String())
}

func TestNewNetworkValidation(t *testing.T) {
	_, err := NewNetwork(nil, PolicySimple)
	assert.True(t, errors.Is(err, ErrInvalidScene))
	_, err = NewNetwork(testScene(t, 2, math.Pi), Policy(7))
	assert.True(t, errors.Is(err, ErrUnsupportedPolicy))
}

func TestNetworkStereoEndToEnd(t *testing.T) {
	s, a, b := stereoRig(t)
	dp := NewDirectionalPoint(5, 5, 5, 3*math.Pi/4, math.Pi)
	muA, muB := a.Mu(dp), b.Mu(dp)
	require.Greater(t, muA, 0.0)
	require.Greater(t, muB, 0.0)
	require.Less(t, muB, muA)

	nw := newTestNetwork(t, s, PolicyStereo, a, b)
	assert.InDelta(t, math.Min(muA, muB), nw.Mu(dp), 1e-9)

	// block A's line of sight
	require.NoError(t, s.MakeOpaque(Point{5, 5, 2}))
	assert.ElementsMatch(t, []string{"A", "B"}, nw.Stale())
	_, err := nw.Update()
	assert.True(t, errors.Is(err, ErrStaleCache))
	require.NoError(t, nw.RefreshStale(context.Background()))
	assert.Empty(t, nw.Stale())
	_, err = nw.Update()
	require.NoError(t, err)

	k, ok := s.Key(dp)
	require.True(t, ok)
	inA, err := nw.InScene("A")
	require.NoError(t, err)
	_, present := inA.Get(k)
	assert.False(t, present)
	inB, err := nw.InScene("B")
	require.NoError(t, err)
	assert.InDelta(t, muB, inB.Mu(k), 1e-9)
	assert.Equal(t, 0.0, nw.Mu(dp))
}

func TestNetworkSimpleKeepsSingleCoverage(t *testing.T) {
	s, a, b := stereoRig(t)
	dp := NewDirectionalPoint(5, 5, 4, math.Pi, 0)
	muA := a.Mu(dp)
	require.Greater(t, muA, 0.0)
	require.Equal(t, 0.0, b.Mu(dp))

	simple := newTestNetwork(t, s, PolicySimple, a, b)
	assert.InDelta(t, muA, simple.Mu(dp), 1e-9)
	stereo := newTestNetwork(t, s, PolicyStereo, a, b)
	assert.Equal(t, 0.0, stereo.Mu(dp))

	// every stereo member is covered by the simple model at least as well
	for k, e := range stereo.Coverage().All() {
		assert.GreaterOrEqual(t, simple.Coverage().Mu(k), e.Mu)
	}
	assert.GreaterOrEqual(t, simple.Performance(), stereo.Performance())
	assert.Greater(t, stereo.Performance(), 0.0)
	assert.LessOrEqual(t, simple.Performance(), 1.0)
}

func TestNetworkMuWrapsAzimuth(t *testing.T) {
	s, a, _ := stereoRig(t)
	nw := newTestNetwork(t, s, PolicySimple, a)
	at0 := nw.Mu(DirectionalPoint{Point: Point{5, 5, 5}, Rho: 3 * math.Pi / 4})
	require.Greater(t, at0, 0.0)
	near2Pi := DirectionalPoint{Point: Point{5, 5, 5}, Rho: 3 * math.Pi / 4, Eta: 2*math.Pi - 1e-7}
	assert.Equal(t, at0, nw.Mu(near2Pi))
}

func TestNetworkStereoNeedsTwoCameras(t *testing.T) {
	s, a, _ := stereoRig(t)
	nw := newTestNetwork(t, s, PolicyStereo, a)
	assert.Equal(t, 0, nw.Coverage().Len())
	in, err := nw.InScene("A")
	require.NoError(t, err)
	assert.Greater(t, in.Len(), 0)
}

func TestNetworkCameraLifecycle(t *testing.T) {
	s, a, b := stereoRig(t)
	ctx := context.Background()
	nw := newTestNetwork(t, s, PolicySimple, a, b)
	assert.Equal(t, []string{"A", "B"}, nw.Names())
	assert.True(t, errors.Is(nw.AddCamera(ctx, a), ErrDuplicateCamera))
	got, ok := nw.Camera("B")
	require.True(t, ok)
	assert.Same(t, b, got)

	before, err := nw.InScene("B")
	require.NoError(t, err)
	b.SetRelativePose(NewPose(Point{-1, 0, 0}, Rotation{}))
	assert.Equal(t, []string{"B"}, nw.Stale())
	_, err = nw.Update()
	assert.True(t, errors.Is(err, ErrStaleCache))
	require.NoError(t, nw.Refresh(ctx, "B"))
	_, err = nw.Update()
	require.NoError(t, err)
	after, err := nw.InScene("B")
	require.NoError(t, err)
	assert.NotEqual(t, before.Keys(), after.Keys())

	require.NoError(t, nw.RemoveCamera("B"))
	assert.True(t, errors.Is(nw.RemoveCamera("B"), ErrUnknownCamera))
	assert.True(t, errors.Is(nw.Refresh(ctx, "B"), ErrUnknownCamera))
	_, err = nw.InScene("B")
	assert.True(t, errors.Is(err, ErrUnknownCamera))
	_, ok = nw.SightStats("B")
	assert.False(t, ok)
	onlyA, err := nw.Update()
	require.NoError(t, err)
	inA, err := nw.InScene("A")
	require.NoError(t, err)
	assert.Equal(t, inA.Keys(), onlyA.Keys())
}

func TestNetworkUpdateDuringOpacityEdit(t *testing.T) {
	s, a, b := stereoRig(t)
	nw := newTestNetwork(t, s, PolicyStereo, a, b)
	before := nw.Coverage()
	edited := make(chan struct{})
	go func() {
		defer close(edited)
		assert.NoError(t, s.MakeOpaque(Point{9, 9, 9}))
	}()
	for done := false; !done; {
		select {
		case <-edited:
			done = true
		default:
			if _, err := nw.Update(); err != nil {
				assert.True(t, errors.Is(err, ErrStaleCache))
			}
		}
	}
	_, err := nw.Update()
	require.True(t, errors.Is(err, ErrStaleCache), "update after an opacity edit must see the stale caches")
	assert.Equal(t, before.Keys(), nw.Coverage().Keys(), "a failed update keeps the previous model")
	require.NoError(t, nw.RefreshStale(context.Background()))
	assert.Empty(t, nw.Stale())
	_, err = nw.Update()
	require.NoError(t, err)
}

func TestNetworkUpdateIsIdempotent(t *testing.T) {
	s, a, b := stereoRig(t)
	nw := newTestNetwork(t, s, PolicyStereo, a, b)
	first, err := nw.Update()
	require.NoError(t, err)
	require.NoError(t, nw.Refresh(context.Background()))
	second, err := nw.Update()
	require.NoError(t, err)
	assert.Equal(t, first.Keys(), second.Keys())
	for k, e := range first.All() {
		assert.Equal(t, e.Mu, second.Mu(k))
	}
}

func TestInSceneWorkerCountDoesNotMatter(t *testing.T) {
	s, a, _ := stereoRig(t)
	require.NoError(t, s.MakeOpaque(Point{5, 5, 3}))
	snap := s.snapshot()
	one, c1, err := inScene(context.Background(), s, snap, a, a.Pose(), 1, nil)
	require.NoError(t, err)
	many, c8, err := inScene(context.Background(), s, snap, a, a.Pose(), 8, nil)
	require.NoError(t, err)
	assert.Equal(t, one.Keys(), many.Keys())
	assert.Equal(t, c1, c8)
	assert.Equal(t, s.PointCount(), c1.Total())
	assert.Greater(t, c1[Occluded], 0)
	assert.Equal(t, one.Len(), c1[Covered])
}

func TestInSceneProgressAndCancel(t *testing.T) {
	s, a, _ := stereoRig(t)
	ticks, done := 0, false
	progress := func(camera string, cells int) (func(), func()) {
		assert.Equal(t, "A", camera)
		assert.Equal(t, 1000, cells)
		return func() { ticks++ }, func() { done = true }
	}
	_, _, err := inScene(context.Background(), s, s.snapshot(), a, a.Pose(), 1, progress)
	require.NoError(t, err)
	assert.Equal(t, 1000, ticks)
	assert.True(t, done)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	nw, err := NewNetwork(s, PolicySimple)
	require.NoError(t, err)
	err = nw.AddCamera(ctx, a)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, nw.Names())
}

func TestNetworkVolume(t *testing.T) {
	s, a, b := stereoRig(t)
	nw := newTestNetwork(t, s, PolicySimple, a, b)
	v := nw.Volume()
	assert.Equal(t, [3]int{10, 10, 10}, [3]int{v.Nx, v.Ny, v.Nz})
	assert.InDelta(t, 1, v.At(5, 5, 5), 1e-9)
	assert.Equal(t, 0.0, v.At(0, 0, 0))
}
