package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ClosestPointsSegmentSegment returns the pair of points of closest approach
// between the segments p1→q1 and p2→q2. Degenerate segments are treated as points.
func ClosestPointsSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= Epsilon && e <= Epsilon:
		return p1, p2
	case a <= Epsilon:
		s = 0
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= Epsilon {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > Epsilon {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// PointsEqual compares two points component-wise within tolerance
func PointsEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance &&
		math.Abs(a.Y()-b.Y()) <= tolerance &&
		math.Abs(a.Z()-b.Z()) <= tolerance
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
