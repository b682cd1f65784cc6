package solver

import (
	"gonum.org/v1/gonum/optimize"

	"github.com/starfix-data/starfix/internal/geom"
)

// convergenceEps is the threshold below which a minimized error counts as
// "reached the valley floor". Probes on restricted axes that cannot get
// under it are pruned so a bad fixed-axis choice does not propagate.
const convergenceEps = 1e-4

// Explorer enumerates every grid-aligned coordinate with exactly zero
// error in the neighborhood of the local minimum nearest a seed point.
//
// It combines a continuous Nelder-Mead minimization (to follow the true
// valley of the error surface, which in general lies between grid points)
// with a recursive axis-by-axis grid walk (to enumerate every zero-error
// grid point around that valley, including ties). Every coordinate is
// evaluated at most once; the total number of distinct coordinates is
// capped by the budget.
//
// The cache and the correct-location list grow monotonically across calls
// to Explore on the same instance. A fresh search needs a fresh Explorer.
type Explorer struct {
	model   *ErrorModel
	limit   int
	values  map[geom.Vec3]float64
	correct []geom.Vec3
}

// NewExplorer creates an Explorer over the given constraints with a hard
// budget on the number of distinct coordinates it may evaluate.
func NewExplorer(constraints []Constraint, limit int) *Explorer {
	return &Explorer{
		model:  NewErrorModel(constraints),
		limit:  limit,
		values: make(map[geom.Vec3]float64),
	}
}

// Explore runs the full minimize/snap/walk search from seed over all three
// axes. Results accumulate in CorrectLocations. The only error returned is
// a *BudgetError; a probe that merely fails to converge ends that probe's
// branch and is not an error.
func (e *Explorer) Explore(seed geom.Vec3) error {
	_, err := e.search(seed, 3, false)
	return err
}

// CorrectLocations returns the grid coordinates found so far whose total
// error is exactly zero, in order of discovery. No coordinate appears
// twice.
func (e *Explorer) CorrectLocations() []geom.Vec3 {
	return e.correct
}

// Evaluations returns the number of distinct coordinates evaluated so far.
func (e *Explorer) Evaluations() int {
	return len(e.values)
}

// getError is the single point of truth for the error at a coordinate.
// Each coordinate is computed once and memoized; exact-zero results at
// grid-aligned coordinates are recorded as correct locations at the moment
// of computation, so the at-most-once rule of the cache guarantees the
// correct-location list holds no duplicates.
func (e *Explorer) getError(loc geom.Vec3) (float64, error) {
	if v, ok := e.values[loc]; ok {
		return v, nil
	}
	v := e.model.TotalError(loc)
	e.values[loc] = v
	if v == 0 && geom.OnGrid(loc) {
		e.correct = append(e.correct, loc)
	}
	if len(e.values) > e.limit {
		return v, &BudgetError{Limit: e.limit}
	}
	return v, nil
}

// search is one probe: minimize the error over the first dims axes from
// loc (remaining axes held fixed), snap the minimum to the grid, run the
// inner probe there, then walk outward along axis dims-1 in both
// directions for as long as the inner probe keeps succeeding.
//
// With strict set, a probe whose minimum stays above convergenceEps is
// abandoned; the top-level 3-axis call passes strict=false so the walk
// still explores the neighborhood even when the true minimum is not
// exactly zero.
func (e *Explorer) search(loc geom.Vec3, dims int, strict bool) (bool, error) {
	v, err := e.getError(loc)
	if err != nil {
		return false, err
	}

	minimum := loc
	if v != 0 {
		minimum = e.minimize(loc, dims)
		mv, err := e.getError(minimum)
		if err != nil {
			return false, err
		}
		if mv > convergenceEps && strict {
			return false, nil
		}
	}

	origin := geom.Snap(minimum)
	if _, err := e.probe(origin.Vec3(), dims-1); err != nil {
		return false, err
	}

	axis := dims - 1
	for steps := int64(1); ; steps++ {
		ok, err := e.probe(origin.Offset(axis, steps).Vec3(), dims-1)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
	}
	for steps := int64(-1); ; steps-- {
		ok, err := e.probe(origin.Offset(axis, steps).Vec3(), dims-1)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
	}
	return true, nil
}

// probe runs the inner operation of a walk step: a strict search over one
// fewer axis, or, at the leaf, the terminal error test that decides
// whether the walk along the innermost axis continues.
func (e *Explorer) probe(loc geom.Vec3, dims int) (bool, error) {
	if dims == 0 {
		v, err := e.getError(loc)
		if err != nil {
			return false, err
		}
		return v < convergenceEps, nil
	}
	return e.search(loc, dims, true)
}

// minimize runs a derivative-free Nelder-Mead minimization of the total
// error over the first dims axes of start, the rest held fixed. The
// residual is piecewise-flat inside quantization bands, so a
// gradient-based method would stall; Nelder-Mead handles it fine.
// Minimizer evaluations go straight to the model and do not count against
// the budget. On failure the starting point is returned and the caller's
// convergence check decides what happens next.
func (e *Explorer) minimize(start geom.Vec3, dims int) geom.Vec3 {
	fixed := [3]float64{start.X, start.Y, start.Z}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			p := fixed
			copy(p[:dims], x)
			return e.model.TotalError(geom.Vec3{X: p[0], Y: p[1], Z: p[2]})
		},
	}

	initX := make([]float64, dims)
	copy(initX, fixed[:dims])

	result, err := optimize.Minimize(problem, initX, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		return start
	}

	p := fixed
	copy(p[:dims], result.X)
	return geom.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
