package solver

import (
	"math"

	"github.com/starfix-data/starfix/internal/geom"
)

// Trilaterate computes the closed-form intersection of the three spheres
// described by the given constraints. It returns the two candidate
// coordinates (mirror images across the plane of the three anchors), or an
// empty slice when the spheres do not intersect (negative discriminant,
// meaning at least one reported distance is inconsistent).
//
// The result is only a starting estimate: the reported distances are
// quantized, so the exact coordinate must be recovered by an Explorer
// seeded with both candidates.
func Trilaterate(connections []Constraint) ([]geom.Vec3, error) {
	if len(connections) != 3 {
		return nil, ErrNeedThreeConstraints
	}

	p0 := connections[0].Location
	p1 := connections[1].Location
	p2 := connections[2].Location
	r0 := connections[0].Distance
	r1 := connections[1].Distance
	r2 := connections[2].Distance

	// Orthonormal frame: ex toward p1, ey in the p0-p1-p2 plane, ez normal.
	ex := p1.Sub(p0).Unit()
	i := ex.Dot(p2.Sub(p0))
	ey := p2.Sub(p0).Sub(ex.Scale(i)).Unit()
	ez := ex.Cross(ey)
	d := p1.Sub(p0).Norm()
	j := ey.Dot(p2.Sub(p0))

	x := (r0*r0 - r1*r1 + d*d) / (2 * d)
	y := (r0*r0-r2*r2+i*i+j*j)/(2*j) - (i/j)*x
	zz := r0*r0 - x*x - y*y
	if zz < 0 {
		return nil, nil
	}
	z := math.Sqrt(zz)

	base := p0.Add(ex.Scale(x)).Add(ey.Scale(y))
	return []geom.Vec3{
		base.Add(ez.Scale(z)),
		base.Add(ez.Scale(-z)),
	}, nil
}
