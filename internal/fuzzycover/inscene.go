package fuzzycover

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Progress is called once per camera pass and returns a per-cell tick and a
// completion callback. Either may be nil.
type Progress func(camera string, cells int) (tick func(), done func())

// inScene computes the occlusion-filtered fuzzy set of one camera against an
// opacity snapshot. Cells are split into contiguous shares, one per worker;
// each worker fills its own set and the sets are merged after Wait.
func inScene(ctx context.Context, s *Scene, snap *opacity, cam *Camera, pose Pose, workers int, progress Progress) (*FuzzySet, SightCounts, error) {
	cells := s.cells(snap)
	var tick, done func()
	if progress != nil {
		tick, done = progress(cam.name, len(cells))
	}
	if done != nil {
		defer done()
	}
	workers = workerCount(workers)
	if maxW := (len(cells) + MinCellsPerJob - 1) / MinCellsPerJob; workers > maxW {
		workers = imax(maxW, 1)
	}
	inv := pose.Inverse()
	center := pose.T

	sets := make([]*FuzzySet, workers)
	counts := make([]SightCounts, workers)
	base, rem := len(cells)/workers, len(cells)%workers
	g, gctx := errgroup.WithContext(ctx)
	from := 0
	for w := 0; w < workers; w++ {
		n := base
		if w < rem {
			n++
		}
		share := cells[from : from+n]
		from += n
		wid := w
		g.Go(func() error {
			local := NewFuzzySet(len(share))
			var sc SightCounts
			for _, c := range share {
				if err := gctx.Err(); err != nil {
					return err
				}
				p := s.CellPoint(c)
				checked, blocked := false, false
				for _, d := range s.dirs {
					dp := DirectionalPoint{Point: p, Rho: d.rho, Eta: d.eta}
					mu := cam.muInFrame(inv, dp)
					if mu <= 0 {
						sc[OutOfModel]++
						continue
					}
					if !checked {
						blocked = snap.occluded(p, center, s.PStep)
						checked = true
					}
					if blocked {
						sc[Occluded]++
						continue
					}
					sc[Covered]++
					local.Add(PointKey{Cell: c, Rho: d.ri, Eta: d.ei}, Element{Point: dp, Mu: mu})
				}
				if tick != nil {
					tick()
				}
			}
			sets[wid] = local
			counts[wid] = sc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, SightCounts{}, err
	}
	out := NewFuzzySet(0)
	var total SightCounts
	for w := range sets {
		out.unionInPlace(sets[w])
		total.add(counts[w])
	}
	return out, total, nil
}
