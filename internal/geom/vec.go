// Package geom provides the small 3D vector and grid types shared by the
// trilateration solver and the catalog tooling.
package geom

import "math"

// Vec3 is a point or displacement in catalog coordinates (light years).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to length 1.
func (v Vec3) Unit() Vec3 {
	return v.Scale(1 / v.Norm())
}

// Distance returns the full-precision Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Norm()
}

// Distance32 returns the distance between v and o computed in 32-bit
// floating point. This matches the precision of the measurement source, so
// a reported 3-decimal distance compares exactly against the result of
// RoundPlaces(Distance32(...), 3).
func Distance32(a, b Vec3) float64 {
	dx := float32(a.X - b.X)
	dy := float32(a.Y - b.Y)
	dz := float32(a.Z - b.Z)
	return float64(float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz))))
}

// RoundPlaces rounds v to the given number of decimal places.
func RoundPlaces(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// DisplayDistance is the distance between two points as the measurement
// source displays it: computed in 32-bit floats and rounded to 2 decimals.
// The disambiguation heuristic partitions candidates by this value.
func DisplayDistance(a, b Vec3) float64 {
	return RoundPlaces(Distance32(a, b), 2)
}
