// Package solver locates the grid-aligned coordinate of an uncharted star
// from a set of quantized distance measurements to known reference systems.
//
// Reported distances carry only 3 decimal digits, computed by the source in
// 32-bit floating point, so in general several grid coordinates are
// indistinguishable from the measurements alone. The solver therefore
// enumerates every zero-error candidate rather than returning a single best
// fit; interpreting the candidate count is the caller's job.
package solver

import "github.com/starfix-data/starfix/internal/geom"

// Constraint is one known reference system and the reported distance from
// the unknown location to it. Constraints are immutable once handed to an
// Explorer or Walker.
type Constraint struct {
	System   string
	Location geom.Vec3
	Distance float64 // reported value, 3 decimal places
}

// ErrorModel scores a candidate coordinate against a fixed constraint set.
type ErrorModel struct {
	constraints []Constraint
}

// NewErrorModel creates an error model over the given constraints.
func NewErrorModel(constraints []Constraint) *ErrorModel {
	return &ErrorModel{constraints: constraints}
}

// Constraints returns the constraint set the model was built with.
func (m *ErrorModel) Constraints() []Constraint {
	return m.constraints
}

// Residual returns the distance error of loc against a single constraint.
//
// The distance is first computed in 32-bit floats and rounded to 3 decimal
// places, matching the precision of the reported value; an exact match
// means loc is anywhere inside the reported value's quantization band and
// the residual is 0. Otherwise the full-precision signed difference is
// returned, which keeps the error surface smooth enough for the continuous
// minimizer to follow downhill.
func (m *ErrorModel) Residual(loc geom.Vec3, c Constraint) float64 {
	if geom.RoundPlaces(geom.Distance32(loc, c.Location), 3) == c.Distance {
		return 0
	}
	return loc.Distance(c.Location) - c.Distance
}

// TotalError returns the sum of squared residuals over all constraints.
// Exactly 0 means every constraint matched within its quantization band;
// this is the only pass condition the solver accepts.
func (m *ErrorModel) TotalError(loc geom.Vec3) float64 {
	var sum float64
	for _, c := range m.constraints {
		r := m.Residual(loc, c)
		sum += r * r
	}
	return sum
}

// BandedResidual is the tolerance-band variant of Residual used by the
// minimizer-free Walker: instead of the raw signed difference, the residual
// is shrunk by the half-width of the quantization band (0.0005), so the
// error is continuous across the band edge. The reported value stands for
// any true distance in [reported-0.0005, reported+0.0005).
func (m *ErrorModel) BandedResidual(loc geom.Vec3, c Constraint) float64 {
	d := geom.Distance32(loc, c.Location)
	if geom.RoundPlaces(d, 3) == c.Distance {
		return 0
	}
	delta := d - c.Distance
	if delta < -0.0005 {
		delta += 0.0005
	} else if delta > 0.0005 {
		delta -= 0.0005
	}
	return delta
}

// BandedTotalError returns the sum of squared banded residuals.
func (m *ErrorModel) BandedTotalError(loc geom.Vec3) float64 {
	var sum float64
	for _, c := range m.constraints {
		r := m.BandedResidual(loc, c)
		sum += r * r
	}
	return sum
}
