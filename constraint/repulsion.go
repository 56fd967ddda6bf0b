package constraint

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// minSeparationSqr bounds the inverse-square falloff for nearly coincident rooms
const minSeparationSqr = 1.0

// RepulsionConstraint pushes two unpinned rooms apart with an inverse-square force
// proportional to the product of their bounding sphere volumes
type RepulsionConstraint struct {
	RoomA   *actor.Room
	RoomB   *actor.Room
	Gravity float64
	volumes float64
}

func NewRepulsionConstraint(roomA, roomB *actor.Room, gravity float64, margin float64) *RepulsionConstraint {
	sphereA := roomA.BoundingSphere(margin)
	sphereB := roomB.BoundingSphere(margin)

	return &RepulsionConstraint{
		RoomA:   roomA,
		RoomB:   roomB,
		Gravity: gravity,
		volumes: sphereA.Volume() * sphereB.Volume(),
	}
}

// NewRepulsions binds every pair of unpinned rooms
func NewRepulsions(rooms []*actor.Room, gravity float64, margin float64) []Constraint {
	var constraints []Constraint
	for i, a := range rooms {
		if a.IsPinned() {
			continue
		}
		for _, b := range rooms[i+1:] {
			if b.IsPinned() {
				continue
			}
			constraints = append(constraints, NewRepulsionConstraint(a, b, gravity, margin))
		}
	}

	return constraints
}

func (r *RepulsionConstraint) Bodies() (*actor.Room, *actor.Room) {
	return r.RoomA, r.RoomB
}

func (r *RepulsionConstraint) ForceOn(room *actor.Room) mgl64.Vec3 {
	var other *actor.Room
	switch room {
	case r.RoomA:
		other = r.RoomB
	case r.RoomB:
		other = r.RoomA
	default:
		return mgl64.Vec3{}
	}
	if room.IsPinned() || other.IsPinned() {
		return mgl64.Vec3{}
	}

	axis, distance := separation(room, other)
	distanceSqr := math.Max(distance*distance, minSeparationSqr)

	return axis.Mul(r.Gravity * r.volumes / distanceSqr)
}
