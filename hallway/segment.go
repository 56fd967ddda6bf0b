// Package hallway turns the waypoints of routed hallways into typed corridor
// segments and cleans them up: crossing fixes, merging and corner synthesis.
package hallway

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// JointTolerance is the distance under which two segment endpoints are the same point
const JointTolerance = 1e-3

// CorridorType tells the renderer which piece of geometry a segment stands for
type CorridorType int

const (
	Straight CorridorType = iota
	Corner
	StairConnection
	Stairs
	RoomConnection
	VerticalRoomConnection
)

func (t CorridorType) String() string {
	switch t {
	case Straight:
		return "straight"
	case Corner:
		return "corner"
	case StairConnection:
		return "stair-connection"
	case Stairs:
		return "stairs"
	case RoomConnection:
		return "room-connection"
	case VerticalRoomConnection:
		return "vertical-room-connection"
	}

	return "unknown"
}

// IsMergeable reports the types taking part in the merge and corner passes
func (t CorridorType) IsMergeable() bool {
	return t == Straight || t == Stairs || t == RoomConnection
}

// Segment is one straight piece of corridor
type Segment struct {
	Start     mgl64.Vec3
	End       mgl64.Vec3
	Direction mgl64.Vec3 // unit, Start toward End; corners point toward their joint
	Type      CorridorType
	Width     float64
	Height    float64
	Invalid   bool
}

func NewSegment(start, end mgl64.Vec3, corridorType CorridorType, width, height float64) *Segment {
	s := &Segment{
		Start:  start,
		End:    end,
		Type:   corridorType,
		Width:  width,
		Height: height,
	}
	s.updateDirection()

	return s
}

func (s *Segment) Length() float64 {
	return s.End.Sub(s.Start).Len()
}

// IsSloped reports whether the endpoints differ in height
func (s *Segment) IsSloped() bool {
	return math.Abs(s.End.Z()-s.Start.Z()) > actor.Epsilon
}

// Equals compares the endpoints within margin, in either orientation
func (s *Segment) Equals(other *Segment, margin float64) bool {
	return (actor.PointsEqual(s.Start, other.Start, margin) && actor.PointsEqual(s.End, other.End, margin)) ||
		(actor.PointsEqual(s.Start, other.End, margin) && actor.PointsEqual(s.End, other.Start, margin))
}

func (s *Segment) updateDirection() {
	d := s.End.Sub(s.Start)
	if d.Len() < actor.Epsilon {
		s.Direction = mgl64.Vec3{}
		return
	}
	s.Direction = d.Normalize()
}

// Unique appends segment unless an equal segment of the same type is already present
func Unique(segments []*Segment, segment *Segment) []*Segment {
	for _, other := range segments {
		if other.Type == segment.Type && other.Equals(segment, JointTolerance) {
			return segments
		}
	}

	return append(segments, segment)
}

// Valid returns the segments not flagged invalid
func Valid(segments []*Segment) []*Segment {
	valid := make([]*Segment, 0, len(segments))
	for _, s := range segments {
		if !s.Invalid {
			valid = append(valid, s)
		}
	}

	return valid
}

// FromPath creates one segment per pair of consecutive waypoints: Stairs when
// the heights differ, Straight otherwise. Zero-length pairs are skipped.
func FromPath(path []mgl64.Vec3, width, height float64) []*Segment {
	var segments []*Segment
	for i := 0; i+1 < len(path); i++ {
		if actor.PointsEqual(path[i], path[i+1], JointTolerance) {
			continue
		}

		s := NewSegment(path[i], path[i+1], Straight, width, height)
		if s.IsSloped() {
			s.Type = Stairs
		}
		segments = append(segments, s)
	}

	return segments
}
