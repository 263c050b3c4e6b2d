package fuzzycover

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationFromEulerRx(t *testing.T) {
	R, err := RotationFromEuler("zyx", math.Pi, 0, 0)
	require.NoError(t, err)
	got := R.Rotate(Point{3, 4, 5})
	if d := cmp.Diff(Point{3, -4, -5}, got, approx); d != "" {
		t.Fatalf("rotate mismatch (-want +got):\n%s", d)
	}
}

func TestRotationFromEulerOrder(t *testing.T) {
	xy, err := RotationFromEuler("xyz", math.Pi/2, math.Pi/2, 0)
	require.NoError(t, err)
	yx, err := RotationFromEuler("yxz", math.Pi/2, math.Pi/2, 0)
	require.NoError(t, err)
	// X first takes +Y to +Z, then Y(π/2) takes +Z to +X
	assert.True(t, xy.Rotate(Point{0, 1, 0}).Equal(Point{1, 0, 0}), "%s", xy.Rotate(Point{0, 1, 0}))
	assert.False(t, xy.Equal(yx))

	for _, bad := range []string{"xy", "xxz", "xyw", ""} {
		_, err := RotationFromEuler(bad, 0, 0, 0)
		assert.True(t, errors.Is(err, ErrInvalidRotation), bad)
	}
}

func TestRotationZeroValueIsIdentity(t *testing.T) {
	var R Rotation
	p := Point{1, -2, 3}
	assert.True(t, R.Rotate(p).Equal(p))
	assert.True(t, R.Equal(IdentityRotation()))
	theta, _ := R.AxisAngle()
	assert.Equal(t, 0.0, theta)
}

func TestRotationThenAndInverse(t *testing.T) {
	a := RotationFromAxisAngle(0.7, Point{1, 2, 3})
	b := RotationFromAxisAngle(-1.1, Point{0, 1, 0})
	p := Point{0.5, -3, 2}
	assert.True(t, a.Then(b).Rotate(p).Equal(b.Rotate(a.Rotate(p))))
	assert.True(t, a.Then(a.Inverse()).Equal(IdentityRotation()))
	assert.True(t, a.Inverse().Rotate(a.Rotate(p)).Equal(p))
}

func TestRotationAxisAngle(t *testing.T) {
	R := RotationFromAxisAngle(1.2, Point{0, 0, 2})
	theta, axis := R.AxisAngle()
	assert.InDelta(t, 1.2, theta, 1e-12)
	assert.True(t, axis.Equal(Point{0, 0, 1}))
	assert.True(t, RotationFromAxisAngle(3, Point{}).Equal(IdentityRotation()))
}

func TestRotationMatrixOrthonormal(t *testing.T) {
	R := RotationFromAxisAngle(0.9, Point{1, 1, 0})
	M := R.Matrix()
	I := M.Mul(M.Transpose())
	if d := cmp.Diff(I3(), I, approx); d != "" {
		t.Fatalf("M*M^T != I (-want +got):\n%s", d)
	}
	p := Point{1, 2, 3}
	assert.True(t, M.MulVec(p).Equal(R.Rotate(p)))
}

func TestRotateDirectional(t *testing.T) {
	R, err := RotationFromEuler("zyx", math.Pi, 0, 0)
	require.NoError(t, err)
	got := R.RotateDirectional(NewDirectionalPoint(-7, 1, 9, 1.3, 0.2))
	want := NewDirectionalPoint(-7, -1, -9, math.Pi-1.3, 2*math.Pi-0.2)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}
