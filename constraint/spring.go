package constraint

import (
	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// SpringConstraint pulls two connected rooms toward RestLength with Hooke's law
type SpringConstraint struct {
	RoomA      *actor.Room
	RoomB      *actor.Room
	Stiffness  float64
	RestLength float64
}

// NewSpringConstraint rests the spring at the sum of both bounding sphere radii
func NewSpringConstraint(connection *actor.Connection, stiffness float64, margin float64) *SpringConstraint {
	sphereA := connection.A.BoundingSphere(margin)
	sphereB := connection.B.BoundingSphere(margin)

	return &SpringConstraint{
		RoomA:      connection.A,
		RoomB:      connection.B,
		Stiffness:  stiffness,
		RestLength: sphereA.Radius + sphereB.Radius,
	}
}

func (s *SpringConstraint) Bodies() (*actor.Room, *actor.Room) {
	return s.RoomA, s.RoomB
}

// ForceOn returns -k·(d - rest) along the axis from the other room
func (s *SpringConstraint) ForceOn(room *actor.Room) mgl64.Vec3 {
	var other *actor.Room
	switch room {
	case s.RoomA:
		other = s.RoomB
	case s.RoomB:
		other = s.RoomA
	default:
		return mgl64.Vec3{}
	}

	axis, distance := separation(room, other)

	return axis.Mul(-s.Stiffness * (distance - s.RestLength))
}
