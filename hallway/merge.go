package hallway

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Merge joins the mergeable segments lying on the same line and touching end
// to end, and drops the shorter one of two segments sharing an endpoint on
// the same line. It repeats until nothing changes, so merging twice is a no-op.
// Invalid segments are removed from the result.
func Merge(segments []*Segment) []*Segment {
	for {
		if !mergePass(segments) {
			break
		}
	}

	return Valid(segments)
}

func mergePass(segments []*Segment) bool {
	changed := false
	for i, first := range segments {
		if first.Invalid || !first.Type.IsMergeable() {
			continue
		}
		for _, second := range segments[i+1:] {
			if first.Invalid {
				break
			}
			if second.Invalid || !second.Type.IsMergeable() {
				continue
			}
			if !sameLine(first, second) {
				continue
			}
			if mergePair(first, second) {
				changed = true
			}
		}
	}

	return changed
}

// mergePair applies the chaining and keep-longer rules and reports whether
// one of the segments changed
func mergePair(first, second *Segment) bool {
	const tol = JointTolerance

	if first.Direction.Dot(second.Direction) > 0 {
		switch {
		case actor.PointsEqual(first.Start, second.End, tol):
			first.Start = second.Start
		case actor.PointsEqual(first.End, second.Start, tol):
			first.End = second.End
		case actor.PointsEqual(first.Start, second.Start, tol), actor.PointsEqual(first.End, second.End, tol):
			keepLonger(first, second)
			return true
		default:
			return false
		}
	} else {
		switch {
		case actor.PointsEqual(first.Start, second.Start, tol):
			first.Start = second.End
		case actor.PointsEqual(first.End, second.End, tol):
			first.End = second.Start
		case actor.PointsEqual(first.Start, second.End, tol), actor.PointsEqual(first.End, second.Start, tol):
			keepLonger(first, second)
			return true
		default:
			return false
		}
	}

	second.Invalid = true
	first.updateDirection()
	if first.Type == Straight && first.IsSloped() {
		first.Type = Stairs
	}

	return true
}

func keepLonger(first, second *Segment) {
	if first.Length() > second.Length() {
		second.Invalid = true
	} else {
		first.Invalid = true
	}
}

// sameLine reports whether both segments are collinear: directions equal up
// to sign, and equal start points once the component along the direction is removed
func sameLine(a, b *Segment) bool {
	if a.Direction.Len() < actor.Epsilon || b.Direction.Len() < actor.Epsilon {
		return false
	}
	if math.Abs(a.Direction.Dot(b.Direction)) < 1-actor.Epsilon {
		return false
	}

	return actor.PointsEqual(residual(a.Start, a.Direction), residual(b.Start, a.Direction), JointTolerance)
}

func residual(point, direction mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(direction.Mul(point.Dot(direction)))
}
