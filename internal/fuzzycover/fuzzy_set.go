package fuzzycover

import (
	"cmp"
	"iter"
	"slices"
)

// PointKey identifies a scene sample: its lattice cell and direction indices.
type PointKey struct {
	Cell
	Rho, Eta int
}

func comparePointKeys(a, b PointKey) int {
	return cmp.Or(
		cmp.Compare(a.I, b.I),
		cmp.Compare(a.J, b.J),
		cmp.Compare(a.K, b.K),
		cmp.Compare(a.Rho, b.Rho),
		cmp.Compare(a.Eta, b.Eta),
	)
}

// Element is one member of a fuzzy set.
type Element struct {
	Point DirectionalPoint
	Mu    float64
}

// FuzzySet is a discrete fuzzy set of directional points keyed by PointKey.
// Absent keys have membership 0. A nil *FuzzySet is the empty set.
type FuzzySet struct {
	m map[PointKey]Element
}

func NewFuzzySet(capacity int) *FuzzySet {
	return &FuzzySet{m: make(map[PointKey]Element, capacity)}
}

// Add inserts e, keeping the larger membership if k is already present.
// Elements with non-positive membership are not stored.
func (s *FuzzySet) Add(k PointKey, e Element) {
	if e.Mu <= 0 {
		return
	}
	if old, ok := s.m[k]; ok && old.Mu >= e.Mu {
		return
	}
	s.m[k] = e
}

func (s *FuzzySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

func (s *FuzzySet) Get(k PointKey) (Element, bool) {
	if s == nil {
		return Element{}, false
	}
	e, ok := s.m[k]
	return e, ok
}

func (s *FuzzySet) Mu(k PointKey) float64 {
	e, _ := s.Get(k)
	return e.Mu
}

// Keys returns the keys in lattice order.
func (s *FuzzySet) Keys() []PointKey {
	if s == nil {
		return nil
	}
	keys := make([]PointKey, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, comparePointKeys)
	return keys
}

// All iterates the elements in lattice order.
func (s *FuzzySet) All() iter.Seq2[PointKey, Element] {
	return func(yield func(PointKey, Element) bool) {
		for _, k := range s.Keys() {
			if !yield(k, s.m[k]) {
				return
			}
		}
	}
}

func (s *FuzzySet) Clone() *FuzzySet {
	out := NewFuzzySet(s.Len())
	if s != nil {
		for k, e := range s.m {
			out.m[k] = e
		}
	}
	return out
}

// Union is the pointwise maximum.
func (s *FuzzySet) Union(o *FuzzySet) *FuzzySet {
	out := s.Clone()
	out.unionInPlace(o)
	return out
}

func (s *FuzzySet) unionInPlace(o *FuzzySet) {
	if o == nil {
		return
	}
	for k, e := range o.m {
		s.Add(k, e)
	}
}

// Intersection is the pointwise minimum; keys missing from either side drop out.
func (s *FuzzySet) Intersection(o *FuzzySet) *FuzzySet {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	out := NewFuzzySet(small.Len())
	if small == nil || large == nil {
		return out
	}
	for k, e := range small.m {
		f, ok := large.m[k]
		if !ok {
			continue
		}
		if f.Mu < e.Mu {
			e = f
		}
		out.Add(k, e)
	}
	return out
}

// Cardinality is the sigma-count: the sum of memberships.
func (s *FuzzySet) Cardinality() float64 {
	if s == nil {
		return 0
	}
	sum := 0.0
	for _, e := range s.m {
		sum += e.Mu
	}
	return sum
}

// AlphaCut counts the elements with membership >= alpha.
func (s *FuzzySet) AlphaCut(alpha float64) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, e := range s.m {
		if e.Mu >= alpha {
			n++
		}
	}
	return n
}
