package fuzzycover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(i, j, k, rho, eta int) PointKey {
	return PointKey{Cell: Cell{i, j, k}, Rho: rho, Eta: eta}
}

func elem(mu float64) Element { return Element{Mu: mu} }

func TestFuzzySetAdd(t *testing.T) {
	s := NewFuzzySet(0)
	s.Add(key(0, 0, 0, 0, 0), elem(0.4))
	s.Add(key(0, 0, 0, 0, 0), elem(0.2))
	s.Add(key(1, 0, 0, 0, 0), elem(0))
	s.Add(key(2, 0, 0, 0, 0), elem(-1))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0.4, s.Mu(key(0, 0, 0, 0, 0)))
	assert.Equal(t, 0.0, s.Mu(key(1, 0, 0, 0, 0)), "absent means 0")
	s.Add(key(0, 0, 0, 0, 0), elem(0.9))
	assert.Equal(t, 0.9, s.Mu(key(0, 0, 0, 0, 0)))
}

func TestFuzzySetUnionIntersection(t *testing.T) {
	a := NewFuzzySet(0)
	a.Add(key(0, 0, 0, 0, 0), elem(1))
	a.Add(key(1, 0, 0, 0, 0), elem(0.3))
	b := NewFuzzySet(0)
	b.Add(key(1, 0, 0, 0, 0), elem(0.6))
	b.Add(key(2, 0, 0, 0, 0), elem(0.5))

	u := a.Union(b)
	assert.Equal(t, 3, u.Len())
	assert.Equal(t, 1.0, u.Mu(key(0, 0, 0, 0, 0)))
	assert.Equal(t, 0.6, u.Mu(key(1, 0, 0, 0, 0)))
	assert.Equal(t, 0.5, u.Mu(key(2, 0, 0, 0, 0)))

	in := a.Intersection(b)
	require.Equal(t, 1, in.Len())
	assert.Equal(t, 0.3, in.Mu(key(1, 0, 0, 0, 0)))
	assert.Equal(t, in.Len(), b.Intersection(a).Len())

	// operands untouched
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 0.3, a.Mu(key(1, 0, 0, 0, 0)))
}

func TestFuzzySetNilIsEmpty(t *testing.T) {
	var s *FuzzySet
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0.0, s.Mu(key(0, 0, 0, 0, 0)))
	assert.Empty(t, s.Keys())
	assert.Equal(t, 0, s.Clone().Len())
	o := NewFuzzySet(0)
	o.Add(key(0, 0, 0, 0, 0), elem(0.5))
	assert.Equal(t, 1, s.Union(o).Len())
	assert.Equal(t, 0, s.Intersection(o).Len())
	assert.Equal(t, 0, o.Intersection(nil).Len())
}

func TestFuzzySetOrderAndCounts(t *testing.T) {
	s := NewFuzzySet(0)
	s.Add(key(1, 0, 0, 0, 0), elem(0.5))
	s.Add(key(0, 2, 0, 1, 3), elem(1))
	s.Add(key(0, 2, 0, 1, 1), elem(0.25))
	want := []PointKey{key(0, 2, 0, 1, 1), key(0, 2, 0, 1, 3), key(1, 0, 0, 0, 0)}
	assert.Equal(t, want, s.Keys())
	var got []PointKey
	for k := range s.All() {
		got = append(got, k)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, want[:2], got)
	assert.InDelta(t, 1.75, s.Cardinality(), 1e-12)
	assert.Equal(t, 2, s.AlphaCut(0.5))
	assert.Equal(t, 1, s.AlphaCut(1))
}
