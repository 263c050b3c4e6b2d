package fuzzycover

import (
	"slices"
	"sync"
)

type Category uint8

const (
	Covered    Category = iota // mu > 0 and line of sight clear
	OutOfModel                 // mu == 0
	Occluded                   // mu > 0 but an opaque cell blocks the line of sight
	nCategories
)

func (c Category) String() string {
	switch c {
	case Covered:
		return "covered"
	case OutOfModel:
		return "out-of-model"
	case Occluded:
		return "occluded"
	}
	return "unknown"
}

// SightCounts counts sampled points per category for one in-scene pass.
type SightCounts [nCategories]int

func (s *SightCounts) add(o SightCounts) {
	for i := range s {
		s[i] += o[i]
	}
}

func (s SightCounts) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// SightLog keeps the latest per-camera counts.
type SightLog struct {
	mu     sync.Mutex
	counts map[string]SightCounts
}

func newSightLog() *SightLog { return &SightLog{counts: make(map[string]SightCounts)} }

func (l *SightLog) record(camera string, c SightCounts) {
	l.mu.Lock()
	l.counts[camera] = c
	l.mu.Unlock()
}

func (l *SightLog) forget(camera string) {
	l.mu.Lock()
	delete(l.counts, camera)
	l.mu.Unlock()
}

func (l *SightLog) Get(camera string) (SightCounts, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.counts[camera]
	return c, ok
}

func (l *SightLog) stats() {
	l.mu.Lock()
	names := make([]string, 0, len(l.counts))
	for n := range l.counts {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		c := l.counts[n]
		DebugLog("Camera %s: %d points, %s=%d %s=%d %s=%d", n, c.Total(),
			Covered, c[Covered], OutOfModel, c[OutOfModel], Occluded, c[Occluded])
	}
	l.mu.Unlock()
}
