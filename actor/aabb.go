package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the geometric tolerance shared by the dungeon packages
const Epsilon = 1e-6

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB builds the box centered on center with the given half-extents
func NewAABB(center mgl64.Vec3, extent mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(extent), Max: center.Add(extent)}
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extent returns the half-extents
func (a AABB) Extent() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// IsEmpty reports a box with no volume on at least one axis
func (a AABB) IsEmpty() bool {
	return a.Max.X() <= a.Min.X() || a.Max.Y() <= a.Min.Y() || a.Max.Z() <= a.Min.Z()
}

// Expand grows the box by margin on every side
func (a AABB) Expand(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

func (a AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a.Min.X(), other.Min.X()), math.Min(a.Min.Y(), other.Min.Y()), math.Min(a.Min.Z(), other.Min.Z())},
		Max: mgl64.Vec3{math.Max(a.Max.X(), other.Max.X()), math.Max(a.Max.Y(), other.Max.Y()), math.Max(a.Max.Z(), other.Max.Z())},
	}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// ContainsPointStrict checks if a point is inside the AABB by more than Epsilon on every axis
func (a AABB) ContainsPointStrict(point mgl64.Vec3) bool {
	return point.X() > a.Min.X()+Epsilon && point.X() < a.Max.X()-Epsilon &&
		point.Y() > a.Min.Y()+Epsilon && point.Y() < a.Max.Y()-Epsilon &&
		point.Z() > a.Min.Z()+Epsilon && point.Z() < a.Max.Z()-Epsilon
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// OverlapsStrict checks if two AABBs share some volume deeper than Epsilon.
// Touching faces do not count.
func (a AABB) OverlapsStrict(other AABB) bool {
	return a.Max.X()-Epsilon > other.Min.X() && a.Min.X()+Epsilon < other.Max.X() &&
		a.Max.Y()-Epsilon > other.Min.Y() && a.Min.Y()+Epsilon < other.Max.Y() &&
		a.Max.Z()-Epsilon > other.Min.Z() && a.Min.Z()+Epsilon < other.Max.Z()
}

// ClampCenter returns the center closest to center such that a box of the given
// half-extents stays inside a. Axes where the box does not fit snap to a's center.
func (a AABB) ClampCenter(center mgl64.Vec3, extent mgl64.Vec3) mgl64.Vec3 {
	var clamped mgl64.Vec3
	for i := 0; i < 3; i++ {
		lo := a.Min[i] + extent[i]
		hi := a.Max[i] - extent[i]
		if lo > hi {
			clamped[i] = (a.Min[i] + a.Max[i]) * 0.5
			continue
		}
		clamped[i] = math.Max(lo, math.Min(hi, center[i]))
	}

	return clamped
}

// SegmentHit describes where a segment crosses a box, in segment parameter space
type SegmentHit struct {
	Enter       float64
	Exit        float64
	EnterNormal mgl64.Vec3 // face normal at Enter, zero when the segment starts inside
	ExitNormal  mgl64.Vec3 // face normal at Exit, zero when the segment ends inside
}

// IntersectSegment clips the segment start→end against the box using the slab method.
// It reports false when the segment misses the box.
func (a AABB) IntersectSegment(start, end mgl64.Vec3) (SegmentHit, bool) {
	dir := end.Sub(start)
	hit := SegmentHit{Enter: 0, Exit: 1}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < Epsilon {
			if start[i] < a.Min[i] || start[i] > a.Max[i] {
				return SegmentHit{}, false
			}
			continue
		}

		inv := 1.0 / dir[i]
		t1 := (a.Min[i] - start[i]) * inv
		t2 := (a.Max[i] - start[i]) * inv
		n1 := mgl64.Vec3{}
		n1[i] = -1
		n2 := mgl64.Vec3{}
		n2[i] = 1
		if t1 > t2 {
			t1, t2 = t2, t1
			n1, n2 = n2, n1
		}

		if t1 > hit.Enter {
			hit.Enter = t1
			hit.EnterNormal = n1
		}
		if t2 < hit.Exit {
			hit.Exit = t2
			hit.ExitNormal = n2
		}
		if hit.Enter > hit.Exit {
			return SegmentHit{}, false
		}
	}

	return hit, true
}
