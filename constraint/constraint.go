// Package constraint holds the force constraints of the room relaxation.
package constraint

import (
	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// VelocityThreshold is the speed under which a room velocity is snapped to zero
const VelocityThreshold = 1e-5

type Constraint interface {
	// ForceOn returns the force exerted on room, zero when room is not bound by the constraint
	ForceOn(room *actor.Room) mgl64.Vec3
	Bodies() (*actor.Room, *actor.Room)
}

// Accumulate sums the forces of constraints on room
func Accumulate(room *actor.Room, constraints []Constraint) mgl64.Vec3 {
	var force mgl64.Vec3
	for _, c := range constraints {
		force = force.Add(c.ForceOn(room))
	}

	return force
}

// ByRoom indexes the constraints by each of the two rooms they bind
func ByRoom(constraints []Constraint) map[*actor.Room][]Constraint {
	index := make(map[*actor.Room][]Constraint)
	for _, c := range constraints {
		a, b := c.Bodies()
		index[a] = append(index[a], c)
		index[b] = append(index[b], c)
	}

	return index
}

func ClampSmallVelocities(room *actor.Room) {
	if room.Velocity.Len() < VelocityThreshold {
		room.Velocity = mgl64.Vec3{0, 0, 0}
	}
}

// separation returns the unit axis from other toward room and the distance between both centers.
// Coincident centers are separated along X, ordered by room ID.
func separation(room, other *actor.Room) (mgl64.Vec3, float64) {
	delta := room.Position.Sub(other.Position)
	distance := delta.Len()
	if distance < actor.Epsilon {
		if room.ID < other.ID {
			return mgl64.Vec3{-1, 0, 0}, 0
		}
		return mgl64.Vec3{1, 0, 0}, 0
	}

	return delta.Mul(1 / distance), distance
}
