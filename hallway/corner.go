package hallway

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Corners synthesizes a corner piece at every joint where exactly two
// mergeable segments meet end to end at an angle. Both segments are trimmed by
// half a width toward their far end and the corner spans the trimmed points.
// The piece is a StairConnection when the trimmed points differ in height.
// Its Direction points from the middle of Start-End toward the joint, so the
// joint of a square turn is the midpoint plus Direction times half the length.
// Junctions where a segment passes through without ending are skipped, and
// segments trimmed down to nothing are removed.
func Corners(segments []*Segment) []*Segment {
	joints := make(map[jointKey]int)
	for _, s := range segments {
		if s.Invalid || !s.Type.IsMergeable() {
			continue
		}
		joints[newJointKey(s.Start)]++
		joints[newJointKey(s.End)]++
	}

	var corners []*Segment
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

			corner, ok := makeCorner(first, second, joints)
			if ok {
				corners = append(corners, corner)
			}
		}
	}

	for _, corner := range corners {
		segments = Unique(segments, corner)
	}

	return Valid(segments)
}

type jointKey [3]int64

func newJointKey(point mgl64.Vec3) jointKey {
	return jointKey{
		int64(math.Round(point.X() / JointTolerance)),
		int64(math.Round(point.Y() / JointTolerance)),
		int64(math.Round(point.Z() / JointTolerance)),
	}
}

func makeCorner(a, b *Segment, joints map[jointKey]int) (*Segment, bool) {
	ca, cb := actor.ClosestPointsSegmentSegment(a.Start, a.End, b.Start, b.End)
	if !actor.PointsEqual(ca, cb, JointTolerance) {
		return nil, false
	}

	// both segments must end at the joint, and nothing else may meet there
	farA, okA := farEnd(a, ca)
	farB, okB := farEnd(b, ca)
	// a T junction has three ends at the joint and gets no corner either
	if !okA || !okB || joints[newJointKey(ca)] != 2 {
		return nil, false
	}

	inDir := ca.Sub(farA)
	outDir := farB.Sub(ca)
	if inDir.Len() < actor.Epsilon || outDir.Len() < actor.Epsilon {
		return nil, false
	}
	inDir = inDir.Normalize()
	outDir = outDir.Normalize()
	if math.Abs(inDir.Dot(outDir)) > 1-actor.Epsilon {
		return nil, false
	}

	half := a.Width * 0.5
	start := trim(a, ca, farA, half)
	end := trim(b, ca, farB, half)

	corner := NewSegment(start, end, Corner, a.Width, a.Height)
	if math.Abs(end.Z()-start.Z()) > actor.Epsilon {
		corner.Type = StairConnection
	}
	if toJoint := ca.Sub(start.Add(end).Mul(0.5)); toJoint.Len() > actor.Epsilon {
		corner.Direction = toJoint.Normalize()
	}

	return corner, true
}

// farEnd returns the endpoint of s opposite to the joint, or false when the joint is not an endpoint of s
func farEnd(s *Segment, joint mgl64.Vec3) (mgl64.Vec3, bool) {
	switch {
	case actor.PointsEqual(s.Start, joint, JointTolerance):
		return s.End, true
	case actor.PointsEqual(s.End, joint, JointTolerance):
		return s.Start, true
	}

	return mgl64.Vec3{}, false
}

// trim moves the joint end of s by distance toward far, and invalidates s when nothing is left
func trim(s *Segment, joint, far mgl64.Vec3, distance float64) mgl64.Vec3 {
	toFar := far.Sub(joint)
	length := toFar.Len()
	if length <= distance+actor.Epsilon {
		s.Invalid = true
		return far
	}

	point := joint.Add(toFar.Mul(distance / length))
	if actor.PointsEqual(s.Start, joint, JointTolerance) {
		s.Start = point
	} else {
		s.End = point
	}

	return point
}
