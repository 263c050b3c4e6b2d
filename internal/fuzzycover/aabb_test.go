package fuzzycover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentAABB(t *testing.T) {
	lo, hi := Point{0, 0, 0}, Point{1, 1, 1}
	cases := []struct {
		name string
		a, b Point
		want bool
	}{
		{"through", Point{-1, 0.5, 0.5}, Point{2, 0.5, 0.5}, true},
		{"inside", Point{0.2, 0.2, 0.2}, Point{0.8, 0.8, 0.8}, true},
		{"stops short", Point{-2, 0.5, 0.5}, Point{-1, 0.5, 0.5}, false},
		{"parallel outside", Point{-1, 2, 0.5}, Point{2, 2, 0.5}, false},
		{"diagonal miss", Point{2, 0, 0.5}, Point{0, -2, 0.5}, false},
		{"touches corner", Point{2, 2, 2}, Point{1, 1, 1}, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, segmentAABB(tc.a, tc.b, lo, hi), tc.name)
	}
}

func TestBoxEdges(t *testing.T) {
	lo, hi := Point{0, 0, 0}, Point{1, 2, 3}
	edges := boxEdges(lo, hi)
	total := 0.0
	for _, e := range edges {
		assert.True(t, boxContains(lo, hi, e[0]))
		assert.True(t, boxContains(lo, hi, e[1]))
		total += e[0].Distance(e[1])
	}
	assert.InDelta(t, 4*(1+2+3), total, 1e-12)
	assert.True(t, boxesOverlap(lo, hi, Point{1, 2, 3}, Point{5, 5, 5}))
	assert.False(t, boxesOverlap(lo, hi, Point{1.5, 0, 0}, Point{5, 5, 5}))
}

func TestTriangleAABB(t *testing.T) {
	lo, hi := Point{0, 0, 0}, Point{1, 1, 1}
	// vertex inside
	assert.True(t, triangleAABB(NewTriangle(Point{0.5, 0.5, 0.5}, Point{5, 0, 0}, Point{0, 5, 0}), lo, hi))
	// large triangle slicing through the box, no vertex or edge inside
	big := NewTriangle(Point{-10, -10, 0.5}, Point{10, -10, 0.5}, Point{0, 10, 0.5})
	assert.True(t, triangleAABB(big, lo, hi))
	// edge crossing
	assert.True(t, triangleAABB(NewTriangle(Point{-1, 0.5, 0.5}, Point{2, 0.5, 0.5}, Point{0.5, 5, 5}), lo, hi))
	// near miss
	assert.False(t, triangleAABB(NewTriangle(Point{2, 2, 0}, Point{3, 2, 0}, Point{2, 3, 0}), lo, hi))
	// plane passing beside the box
	assert.False(t, triangleAABB(NewTriangle(Point{-10, -10, 1.5}, Point{10, -10, 1.5}, Point{0, 10, 1.5}), lo, hi))
}
