package geom

import "math"

// GridDenominator is the resolution of the catalog coordinate grid: every
// genuine catalog coordinate is an exact multiple of 1/32 on each axis.
const GridDenominator = 32

// GridPoint is a coordinate expressed in integer multiples of 1/32.
// Keeping grid arithmetic in integers means repeated walk steps cannot
// accumulate floating-point drift, which would break the solver's
// evaluate-at-most-once cache keyed on exact coordinate values.
type GridPoint struct {
	X, Y, Z int64
}

// Snap rounds v to the nearest grid point on each axis.
func Snap(v Vec3) GridPoint {
	return GridPoint{
		X: int64(math.Round(v.X * GridDenominator)),
		Y: int64(math.Round(v.Y * GridDenominator)),
		Z: int64(math.Round(v.Z * GridDenominator)),
	}
}

// Vec3 converts g back to catalog coordinates. Division by a power of two
// is exact, so the round trip Snap(g.Vec3()) == g always holds.
func (g GridPoint) Vec3() Vec3 {
	return Vec3{
		X: float64(g.X) / GridDenominator,
		Y: float64(g.Y) / GridDenominator,
		Z: float64(g.Z) / GridDenominator,
	}
}

// Offset returns g displaced by steps grid units along the given axis
// (0 = X, 1 = Y, 2 = Z).
func (g GridPoint) Offset(axis int, steps int64) GridPoint {
	switch axis {
	case 0:
		g.X += steps
	case 1:
		g.Y += steps
	default:
		g.Z += steps
	}
	return g
}

// OnGrid reports whether v lies exactly on the 1/32 grid.
func OnGrid(v Vec3) bool {
	return Snap(v).Vec3() == v
}
