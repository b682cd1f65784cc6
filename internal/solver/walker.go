package solver

import "github.com/starfix-data/starfix/internal/geom"

// lineKey identifies one line of exploration: the axis being walked plus
// the two grid coordinates held fixed. Walking the same line twice would
// only re-read cached values, so each line is visited once.
type lineKey struct {
	axis int
	a, b int64
}

func newLineKey(p geom.GridPoint, axis int) lineKey {
	switch axis {
	case 0:
		return lineKey{axis: 0, a: p.Y, b: p.Z}
	case 1:
		return lineKey{axis: 1, a: p.X, b: p.Z}
	default:
		return lineKey{axis: 2, a: p.X, b: p.Y}
	}
}

type lineWalk struct {
	start geom.GridPoint
	axis  int
}

// Walker is the minimizer-free variant of the search: starting from a
// grid point it descends the banded error along one axis at a time until
// the value rises again, then enqueues walks along the other axes from
// every point between the two rims of the minimum.
//
// Without a continuous minimizer it can lose the valley when the true
// minimum falls between grid points, so it is only suitable when the seed
// is already a plausible grid coordinate, as in bulk re-verification of a
// catalog. That trade-off buys a much cheaper per-point cost.
type Walker struct {
	model   *ErrorModel
	limit   int
	values  map[geom.GridPoint]float64
	seen    map[lineKey]struct{}
	pending []lineWalk
	correct []geom.Vec3
}

// NewWalker creates a Walker over the given constraints with a hard budget
// on the number of line walks it may run.
func NewWalker(constraints []Constraint, limit int) *Walker {
	return &Walker{
		model:  NewErrorModel(constraints),
		limit:  limit,
		values: make(map[geom.GridPoint]float64),
		seen:   make(map[lineKey]struct{}),
	}
}

// Explore walks the grid around seed until no unvisited line remains.
// Returns a *BudgetError if the walk does not settle within the budget.
func (w *Walker) Explore(seed geom.Vec3) error {
	w.enqueueAll(geom.Snap(seed))

	walks := 0
	for len(w.pending) > 0 {
		walk := w.pending[len(w.pending)-1]
		w.pending = w.pending[:len(w.pending)-1]
		w.walkLine(walk.start, walk.axis)

		walks++
		if walks > w.limit {
			return &BudgetError{Limit: w.limit}
		}
	}
	return nil
}

// CorrectLocations returns the grid coordinates found so far whose banded
// error is exactly zero, in order of discovery.
func (w *Walker) CorrectLocations() []geom.Vec3 {
	return w.correct
}

// Evaluations returns the number of distinct grid points evaluated so far.
func (w *Walker) Evaluations() int {
	return len(w.values)
}

// walkLine descends the banded error from start along the given axis until
// it rises past the far rim of the minimum, then retreats across the
// minimum enqueueing cross-axis walks from every point on it, so a flat
// zero-error stretch is explored in full.
func (w *Walker) walkLine(start geom.GridPoint, axis int) {
	initial := w.value(start)
	left := w.value(start.Offset(axis, -1))

	// Pick the downhill direction before committing to the walk.
	var steps, direction int64
	var prev float64
	if left < initial {
		steps, direction, prev = -2, -1, left
	} else {
		steps, direction, prev = 1, 1, initial
	}

	for {
		v := w.value(start.Offset(axis, steps))
		if v > prev {
			// Past the far rim. Walk back across the minimum,
			// seeding explorations until the near rim rises too.
			w.enqueueAll(start.Offset(axis, steps))
			prev = v
			for {
				steps -= direction
				v = w.value(start.Offset(axis, steps))
				w.enqueueAll(start.Offset(axis, steps))
				if v > prev {
					return
				}
				prev = v
			}
		}
		prev = v
		steps += direction
	}
}

// enqueueAll adds a pending walk along every axis through p, skipping
// lines already visited.
func (w *Walker) enqueueAll(p geom.GridPoint) {
	for axis := 0; axis < 3; axis++ {
		key := newLineKey(p, axis)
		if _, ok := w.seen[key]; ok {
			continue
		}
		w.seen[key] = struct{}{}
		w.pending = append(w.pending, lineWalk{start: p, axis: axis})
	}
}

// value memoizes the banded total error at a grid point, recording
// exact-zero points as correct locations on first evaluation.
func (w *Walker) value(p geom.GridPoint) float64 {
	if v, ok := w.values[p]; ok {
		return v
	}
	loc := p.Vec3()
	v := w.model.BandedTotalError(loc)
	w.values[p] = v
	if v == 0 {
		w.correct = append(w.correct, loc)
	}
	return v
}
